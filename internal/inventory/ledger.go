// Package inventory implements the stock ledger: atomic, reversible
// reservations against the products table.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// OutOfStockError carries the stock level observed when a reservation was
// rejected.
type OutOfStockError struct {
	ProductID string
	Available int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("not enough stock for product %s. Available: %d", e.ProductID, e.Available)
}

// Reservation records one successful decrement, including the unit price read
// by the same statement that decremented the stock.
type Reservation struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

type Ledger interface {
	Reserve(ctx context.Context, productID string, quantity int) (Reservation, error)
	Release(ctx context.Context, productID string, quantity int) error
}

type PGLedger struct{ db *pgxpool.Pool }

func NewPGLedger(db *pgxpool.Pool) *PGLedger { return &PGLedger{db: db} }

// Reserve decrements stock by quantity iff current stock covers it. The
// conditional UPDATE makes the check-and-decrement a single atomic unit, so
// two concurrent reservations for the last unit cannot both succeed.
func (l *PGLedger) Reserve(ctx context.Context, productID string, quantity int) (Reservation, error) {
	if quantity <= 0 {
		return Reservation{}, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var priceText string
	err := l.db.QueryRow(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
		RETURNING price::text
	`, productID, quantity).Scan(&priceText)
	if err == nil {
		price, perr := decimal.NewFromString(priceText)
		if perr != nil {
			// counter already moved; undo before failing
			_ = l.Release(ctx, productID, quantity)
			return Reservation{}, perr
		}
		return Reservation{ProductID: productID, Quantity: quantity, UnitPrice: price}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Reservation{}, err
	}

	// No row updated: either the product is missing or stock was short.
	var available int
	err = l.db.QueryRow(ctx, `SELECT stock FROM products WHERE id=$1`, productID).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reservation{}, ErrProductNotFound
	}
	if err != nil {
		return Reservation{}, err
	}
	return Reservation{}, &OutOfStockError{ProductID: productID, Available: available}
}

// Release reverses a reservation by adding the quantity back.
func (l *PGLedger) Release(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := l.db.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id = $1
	`, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
