// Package seed loads fixture fruits from JSON Lines sources at startup.
//
// A source is a local path or an http(s) URL. Sources ending in ".gz" are
// gunzipped. Each non-blank line holds one {"name","color","price"} object.
package seed

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Lixing-Zhang/fruit-service/internal/models"
)

// Store is the part of the fruit service the loader writes through
type Store interface {
	ListFruits(ctx context.Context) ([]models.Fruit, error)
	CreateFruit(ctx context.Context, in models.FruitInput) (*models.Fruit, error)
	DeleteFruit(ctx context.Context, id int64) error
	Validate(in models.FruitInput) error
}

// Loader fetches and parses seed sources
type Loader struct {
	client *http.Client
}

// NewLoader creates a loader whose downloads time out after timeout
func NewLoader(timeout time.Duration) *Loader {
	return &Loader{
		client: &http.Client{Timeout: timeout},
	}
}

// sourceResult holds the result of loading a single source
type sourceResult struct {
	index  int
	fruits []models.FruitInput
	err    error
}

// Load reads all sources concurrently and returns their fruits in source order
func (l *Loader) Load(ctx context.Context, sources []string) ([]models.FruitInput, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no seed sources provided")
	}

	resultChan := make(chan sourceResult, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(index int, source string) {
			defer wg.Done()

			fruits, err := l.loadSource(ctx, source)
			resultChan <- sourceResult{index: index, fruits: fruits, err: err}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Collect results maintaining order
	results := make([]sourceResult, len(sources))
	for result := range resultChan {
		results[result.index] = result
	}

	var all []models.FruitInput
	for i, result := range results {
		if result.err != nil {
			return nil, fmt.Errorf("seed source %q: %w", sources[i], result.err)
		}
		all = append(all, result.fruits...)
	}
	return all, nil
}

func (l *Loader) loadSource(ctx context.Context, source string) ([]models.FruitInput, error) {
	rc, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	if strings.HasSuffix(source, ".gz") {
		gzReader, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		r = gzReader
	}

	return parseFruits(r)
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.Open(source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// parseFruits reads one JSON object per line
func parseFruits(r io.Reader) ([]models.FruitInput, error) {
	var fruits []models.FruitInput
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var in models.FruitInput
		if err := json.Unmarshal([]byte(line), &in); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		fruits = append(fruits, in)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading source: %w", err)
	}

	return fruits, nil
}

// Apply creates fruits through store unless it already holds data.
// The batch is all or nothing: every fruit is validated before the first
// insert, and fruits created before a storage failure are removed again.
// It returns how many fruits were created.
func Apply(ctx context.Context, store Store, fruits []models.FruitInput) (int, error) {
	existing, err := store.ListFruits(ctx)
	if err != nil {
		return 0, fmt.Errorf("check existing fruits: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, in := range fruits {
		if err := store.Validate(in); err != nil {
			return 0, fmt.Errorf("seed fruit %d (%q): %w", i+1, in.Name, err)
		}
	}

	ids := make([]int64, 0, len(fruits))
	for i, in := range fruits {
		fruit, err := store.CreateFruit(ctx, in)
		if err != nil {
			err = fmt.Errorf("seed fruit %d (%q): %w", i+1, in.Name, err)
			return 0, errors.Join(err, rollback(ctx, store, ids))
		}
		ids = append(ids, fruit.ID)
	}
	return len(ids), nil
}

// rollback removes fruits created by a failed Apply
func rollback(ctx context.Context, store Store, ids []int64) error {
	var errs []error
	for _, id := range ids {
		if err := store.DeleteFruit(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("roll back fruit %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
