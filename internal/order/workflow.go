package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AlfonsoGalocha/PetStore/internal/cart"
	"github.com/AlfonsoGalocha/PetStore/internal/inventory"
	"github.com/AlfonsoGalocha/PetStore/internal/user"
)

// State names the workflow's progress; failures can happen from any
// non-terminal state.
type State string

const (
	StateValidating State = "validating"
	StateReserving  State = "reserving"
	StatePersisting State = "persisting"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

type AddressValidator interface {
	Validate(ctx context.Context, userID string, submitted user.Address) error
}

type CartReader interface {
	Snapshot(ctx context.Context, userID string) ([]cart.Line, error)
}

// Workflow coordinates order creation: validate address, snapshot the cart,
// reserve stock line by line, persist the order. Any failure after a partial
// reservation releases everything reserved by this invocation before the
// failure is surfaced.
type Workflow struct {
	Addresses AddressValidator
	Carts     CartReader
	Ledger    inventory.Ledger
	Store     Store

	// Persistence is bounded: each attempt runs under PersistTimeout and at
	// most 1+PersistRetries attempts are made.
	PersistTimeout time.Duration
	PersistRetries int
}

const persistRetryDelay = 100 * time.Millisecond

// releaseTimeout bounds compensating releases, which run detached from the
// request context.
const releaseTimeout = 5 * time.Second

func (w *Workflow) persistTimeout() time.Duration {
	if w.PersistTimeout <= 0 {
		return 5 * time.Second
	}
	return w.PersistTimeout
}

func (w *Workflow) Create(ctx context.Context, userID, paymentMethod string, submitted user.Address) (*Order, []Item, error) {
	state := StateValidating

	if err := w.Addresses.Validate(ctx, userID, submitted); err != nil {
		return nil, nil, w.fail(state, mapValidateErr(err))
	}

	lines, err := w.Carts.Snapshot(ctx, userID)
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			return nil, nil, w.fail(state, &Failure{Kind: KindCartNotFound, Reason: "cart not found"})
		}
		return nil, nil, w.fail(state, &Failure{Kind: KindPersistenceFailure, Reason: err.Error()})
	}
	if len(lines) == 0 {
		return nil, nil, w.fail(state, &Failure{Kind: KindEmptyCart, Reason: "cart is empty"})
	}

	state = StateReserving

	// Reserve in ascending product id so concurrent invocations touch rows in
	// the same order.
	sorted := append([]cart.Line(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	reserved := make([]inventory.Reservation, 0, len(sorted))
	for _, ln := range sorted {
		res, err := w.Ledger.Reserve(ctx, ln.ProductID, ln.Quantity)
		if err != nil {
			w.releaseAll(ctx, reserved)
			return nil, nil, w.fail(state, mapReserveErr(err))
		}
		reserved = append(reserved, res)
	}

	// Frozen total: captured unit prices only, never a later re-read.
	total := decimal.Zero
	for _, res := range reserved {
		total = total.Add(res.UnitPrice.Mul(decimal.NewFromInt(int64(res.Quantity))))
	}

	state = StatePersisting

	now := time.Now().UTC()
	o := &Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Status:        StatusPending,
		PaymentMethod: paymentMethod,
		PaymentStatus: "pending",
		Total:         total.StringFixed(2),
		Shipping:      submitted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	items := make([]Item, 0, len(reserved))
	for _, res := range reserved {
		items = append(items, Item{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ProductID: res.ProductID,
			Quantity:  res.Quantity,
			Price:     res.UnitPrice.StringFixed(2),
		})
	}

	var lastErr error
persist:
	for attempt := 0; ; attempt++ {
		pctx, cancel := context.WithTimeout(ctx, w.persistTimeout())
		err := w.Store.Create(pctx, o, items)
		cancel()
		if err == nil {
			log.Printf("[workflow] order=%s user=%s state=%s total=%s", o.ID, userID, StateCompleted, o.Total)
			return o, items, nil
		}
		lastErr = err
		if attempt >= w.PersistRetries {
			break
		}
		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
			break persist
		case <-time.After(persistRetryDelay):
		}
	}

	// Reservations must never dangle against an order that does not exist.
	w.releaseAll(ctx, reserved)
	return nil, nil, w.fail(state, &Failure{
		Kind:   KindPersistenceFailure,
		Reason: fmt.Sprintf("could not persist order: %v", lastErr),
	})
}

// Cancel transitions pending -> cancelled and releases the order's stock.
// The store's guarded update decides the winner under concurrency; stock is
// restored only by the invocation that actually flipped the status.
func (w *Workflow) Cancel(ctx context.Context, orderID string) error {
	if err := w.Store.UpdateStatus(ctx, orderID, StatusCancelled); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return &Failure{Kind: KindOrderNotFound, Reason: "order not found"}
		case errors.Is(err, ErrInvalidTransition):
			return &Failure{Kind: KindInvalidTransition, Reason: "order cannot be cancelled"}
		default:
			return &Failure{Kind: KindPersistenceFailure, Reason: err.Error()}
		}
	}

	// The status already flipped; restitution must not depend on the request
	// context still being alive.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	items, err := w.Store.GetItems(rctx, orderID)
	if err != nil {
		return &Failure{Kind: KindPersistenceFailure, Reason: err.Error()}
	}
	for _, it := range items {
		if err := w.Ledger.Release(rctx, it.ProductID, it.Quantity); err != nil {
			log.Printf("[workflow] order=%s release product=%s qty=%d failed: %v", orderID, it.ProductID, it.Quantity, err)
		}
	}
	return nil
}

// releaseAll undoes reservations in reverse order of acquisition. The request
// context may already be dead when compensation runs (client disconnect, the
// persist deadline itself), so releases get a detached context with their own
// deadline; otherwise every Release would fail with the same context error
// that triggered the rollback and stock would stay over-committed.
func (w *Workflow) releaseAll(ctx context.Context, reserved []inventory.Reservation) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	for i := len(reserved) - 1; i >= 0; i-- {
		res := reserved[i]
		if err := w.Ledger.Release(ctx, res.ProductID, res.Quantity); err != nil {
			log.Printf("[workflow] rollback release product=%s qty=%d failed: %v", res.ProductID, res.Quantity, err)
		}
	}
}

func (w *Workflow) fail(state State, f *Failure) error {
	log.Printf("[workflow] state=%s -> %s kind=%s reason=%s", state, StateFailed, f.Kind, f.Reason)
	return f
}

func mapValidateErr(err error) *Failure {
	switch {
	case errors.Is(err, user.ErrNoAddressOnFile):
		return &Failure{Kind: KindNoAddressOnFile, Reason: "user address not found"}
	case errors.Is(err, user.ErrAddressMismatch):
		return &Failure{Kind: KindAddressMismatch, Reason: err.Error()}
	default:
		// infrastructure error, not a lookup miss
		return &Failure{Kind: KindPersistenceFailure, Reason: err.Error()}
	}
}

func mapReserveErr(err error) *Failure {
	var oos *inventory.OutOfStockError
	switch {
	case errors.As(err, &oos):
		return &Failure{Kind: KindOutOfStock, Reason: oos.Error(), ProductID: oos.ProductID, Available: oos.Available}
	case errors.Is(err, inventory.ErrProductNotFound):
		return &Failure{Kind: KindProductNotFound, Reason: err.Error()}
	default:
		return &Failure{Kind: KindPersistenceFailure, Reason: err.Error()}
	}
}
