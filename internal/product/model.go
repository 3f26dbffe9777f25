package product

import "time"

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// We store price as a string to avoid rounding errors (NUMERIC in Postgres)
	Price         string    `json:"price"`
	CategoryID    string    `json:"category_id,omitempty"`
	AnimalType    string    `json:"animal_type,omitempty"`
	Brand         string    `json:"brand,omitempty"`
	Stock         int       `json:"stock"`
	Images        string    `json:"images,omitempty"`
	AverageRating string    `json:"average_rating,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
}

// ListResponse represents the paginated response of products.
// swagger:model
type ListResponse struct {
	// search query applied
	Q string `json:"q,omitempty"`
	// limit applied
	Limit int `json:"limit"`
	// offset applied
	Offset int `json:"offset"`
	// total items found
	Items []Product `json:"items"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name        string `json:"name"        example:"Puppy Kibble 3kg"`
	Description string `json:"description" example:"Grain free"`
	Price       string `json:"price"       example:"24.90"`
	CategoryID  string `json:"category_id"`
	AnimalType  string `json:"animal_type" example:"dog"`
	Brand       string `json:"brand"`
	Stock       int    `json:"stock"       example:"10"`
	Images      string `json:"images"`
}

// UpdateProductRequest payload of partial update.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	CategoryID  string `json:"category_id"`
	AnimalType  string `json:"animal_type"`
	Brand       string `json:"brand"`
	Stock       int    `json:"stock"`
	Images      string `json:"images"`
}
