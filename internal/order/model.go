package order

import (
	"time"

	"github.com/AlfonsoGalocha/PetStore/internal/user"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// CanTransitionTo encodes the lifecycle: pending -> paid|cancelled, nothing
// ever leaves a terminal state.
func (s Status) CanTransitionTo(next Status) bool {
	if s != StatusPending {
		return false
	}
	return next == StatusPaid || next == StatusCancelled
}

type Order struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	Status        Status       `json:"orderstatus"`
	PaymentMethod string       `json:"paymentmethod"`
	PaymentStatus string       `json:"paymentstatus"`
	Total         string       `json:"totalamount"` // NUMERIC -> string, frozen at creation
	Shipping      user.Address `json:"shipping_address"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type Item struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"` // unit price captured at reservation time
}
