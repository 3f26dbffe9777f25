package order

import "github.com/AlfonsoGalocha/PetStore/internal/user"

// CreateOrderRequest payload de creación de orden. The items come from the
// user's cart, not from the request.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	UserID          string       `json:"user_id" example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	PaymentMethod   string       `json:"paymentmethod" example:"card"`
	ShippingAddress user.Address `json:"shipping_address"`
}

// OrderResponse is the representation returned by create/get.
// swagger:model OrderResponse
type OrderResponse struct {
	Order
	Items []Item `json:"items"`
}
