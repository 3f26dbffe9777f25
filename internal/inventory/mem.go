package inventory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// MemLedger is an in-memory Ledger with the same check-and-decrement
// semantics as PGLedger. Used in tests and local development.
type MemLedger struct {
	mu       sync.Mutex
	products map[string]*memProduct
}

type memProduct struct {
	stock int
	price decimal.Decimal
}

func NewMemLedger() *MemLedger {
	return &MemLedger{products: make(map[string]*memProduct)}
}

func (l *MemLedger) Put(productID string, stock int, price string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.products[productID] = &memProduct{stock: stock, price: decimal.RequireFromString(price)}
}

// SetPrice changes the unit price without touching stock.
func (l *MemLedger) SetPrice(productID, price string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.products[productID]; ok {
		p.price = decimal.RequireFromString(price)
	}
}

func (l *MemLedger) Stock(productID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.products[productID]; ok {
		return p.stock
	}
	return 0
}

func (l *MemLedger) Reserve(ctx context.Context, productID string, quantity int) (Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.products[productID]
	if !ok {
		return Reservation{}, ErrProductNotFound
	}
	if p.stock < quantity {
		return Reservation{}, &OutOfStockError{ProductID: productID, Available: p.stock}
	}
	p.stock -= quantity
	return Reservation{ProductID: productID, Quantity: quantity, UnitPrice: p.price}, nil
}

func (l *MemLedger) Release(ctx context.Context, productID string, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.products[productID]
	if !ok {
		return ErrProductNotFound
	}
	p.stock += quantity
	return nil
}
