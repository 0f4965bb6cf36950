package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/fruit-service/internal/models"
	"github.com/Lixing-Zhang/fruit-service/internal/repository"
	"github.com/Lixing-Zhang/fruit-service/internal/service"
)

// maxBodyBytes caps fruit request bodies
const maxBodyBytes = 4 << 10

var errTrailingData = errors.New("unexpected data after JSON body")

// FruitHandler handles fruit-related HTTP requests
type FruitHandler struct {
	service *service.FruitService
	logger  *slog.Logger
}

// NewFruitHandler creates a new fruit handler
func NewFruitHandler(service *service.FruitService, logger *slog.Logger) *FruitHandler {
	return &FruitHandler{
		service: service,
		logger:  logger,
	}
}

// Routes mounts the fruit endpoints. guard wraps the mutating ones.
func (h *FruitHandler) Routes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Get("/", h.ListFruits)
	r.Get("/{id}", h.GetFruit)

	r.Group(func(r chi.Router) {
		if guard != nil {
			r.Use(guard)
		}
		r.Post("/", h.CreateFruit)
		r.Put("/{id}", h.UpdateFruit)
		r.Delete("/{id}", h.DeleteFruit)
	})
}

// ListFruits handles GET /fruits
func (h *FruitHandler) ListFruits(w http.ResponseWriter, r *http.Request) {
	fruits, err := h.service.ListFruits(r.Context())
	if err != nil {
		h.fail(w, err, "failed to list fruits")
		return
	}

	WriteJSON(w, http.StatusOK, fruits, h.logger)
}

// GetFruit handles GET /fruits/{id}
// - 200: the fruit
// - 400: id is not an integer
// - 404: no fruit with that id
func (h *FruitHandler) GetFruit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	fruit, err := h.service.GetFruit(r.Context(), id)
	if err != nil {
		h.fail(w, err, "failed to get fruit", "id", id)
		return
	}

	WriteJSON(w, http.StatusOK, fruit, h.logger)
}

// CreateFruit handles POST /fruits
func (h *FruitHandler) CreateFruit(w http.ResponseWriter, r *http.Request) {
	in, err := decodeFruit(w, r)
	if err != nil {
		h.logger.Warn("failed to decode fruit", "error", err)
		WriteError(w, http.StatusBadRequest, msgInvalidInput, h.logger)
		return
	}

	fruit, err := h.service.CreateFruit(r.Context(), in)
	if err != nil {
		h.fail(w, err, "failed to create fruit")
		return
	}

	h.logger.Info("fruit created", "id", fruit.ID)
	WriteJSON(w, http.StatusCreated, fruit, h.logger)
}

// UpdateFruit handles PUT /fruits/{id}, a full replace.
// An unknown id is 404 whatever the body holds.
func (h *FruitHandler) UpdateFruit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	in, err := decodeFruit(w, r)
	if err != nil {
		h.fail(w, h.service.InvalidOrMissing(r.Context(), id, err), "failed to decode fruit", "id", id)
		return
	}

	fruit, err := h.service.UpdateFruit(r.Context(), id, in)
	if err != nil {
		h.fail(w, err, "failed to update fruit", "id", id)
		return
	}

	h.logger.Info("fruit updated", "id", id)
	WriteJSON(w, http.StatusOK, fruit, h.logger)
}

// DeleteFruit handles DELETE /fruits/{id}
func (h *FruitHandler) DeleteFruit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteFruit(r.Context(), id); err != nil {
		h.fail(w, err, "failed to delete fruit", "id", id)
		return
	}

	h.logger.Info("fruit deleted", "id", id)
	WriteJSON(w, http.StatusOK, models.DeleteResponse{
		Message: fmt.Sprintf("Fruit with id %d has been deleted.", id),
	}, h.logger)
}

// decodeFruit reads exactly one JSON object from a size-capped body
func decodeFruit(w http.ResponseWriter, r *http.Request) (models.FruitInput, error) {
	var in models.FruitInput

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		return in, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return in, errTrailingData
	}
	return in, nil
}

func (h *FruitHandler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		// well-formed but beyond any stored id
		h.logger.Info("fruit ID out of range", "id", raw)
		WriteError(w, http.StatusNotFound, msgNotFound, h.logger)
		return 0, false
	}
	if err != nil {
		h.logger.Warn("invalid fruit ID format", "id", raw, "error", err)
		WriteError(w, http.StatusBadRequest, msgInvalidID, h.logger)
		return 0, false
	}
	return id, true
}

// fail maps service and repository errors onto status codes.
// Storage details are logged, never returned.
func (h *FruitHandler) fail(w http.ResponseWriter, err error, msg string, args ...any) {
	args = append(args, "error", err)

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		h.logger.Warn(msg, args...)
		WriteError(w, http.StatusBadRequest, msgInvalidInput, h.logger)
	case errors.Is(err, repository.ErrFruitNotFound):
		h.logger.Info(msg, args...)
		WriteError(w, http.StatusNotFound, msgNotFound, h.logger)
	default:
		h.logger.Error(msg, args...)
		WriteError(w, http.StatusInternalServerError, msgInternal, h.logger)
	}
}
