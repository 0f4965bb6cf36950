package models

// Fruit is the single resource exposed by the API
type Fruit struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Price float64 `json:"price"`
}

// FruitInput is the request body for create and full-replace update.
// Price is a pointer so a missing or null price can be told apart from 0.
type FruitInput struct {
	Name  string   `json:"name" validate:"required"`
	Color string   `json:"color" validate:"required"`
	Price *float64 `json:"price" validate:"required,gte=0"`
}

// ToFruit converts a validated input into a Fruit with the given id.
func (in FruitInput) ToFruit(id int64) Fruit {
	f := Fruit{ID: id, Name: in.Name, Color: in.Color}
	if in.Price != nil {
		f.Price = *in.Price
	}
	return f
}

// DeleteResponse confirms a removed fruit
type DeleteResponse struct {
	Message string `json:"message"`
}
