package cart

import "time"

type Cart struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Items     []Line    `json:"items"`
	Total     string    `json:"totalamount"` // NUMERIC -> string
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Line is one (product, quantity) entry; carts keep their lines ordered.
type Line struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateCartRequest payload de creación de carrito.
// swagger:model CreateCartRequest
type CreateCartRequest struct {
	UserID string `json:"user_id"`
	Items  []Line `json:"items"`
}

// UpdateCartRequest replaces the cart's lines.
// swagger:model UpdateCartRequest
type UpdateCartRequest struct {
	Items []Line `json:"items"`
}
