package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Store interface {
	Create(ctx context.Context, o *Order, items []Item) error
	GetByID(ctx context.Context, id string) (*Order, []Item, error)
	List(ctx context.Context, limit, offset int) ([]Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, next Status) error
	GetItems(ctx context.Context, orderID string) ([]Item, error)
}

type PGStore struct{ db *pgxpool.Pool }

func NewPGStore(db *pgxpool.Pool) *PGStore { return &PGStore{db: db} }

// Create persists header and lines in a single transaction: either the whole
// order becomes durable or none of it does.
func (r *PGStore) Create(ctx context.Context, o *Order, items []Item) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO orders (id, user_id, status, payment_method, payment_status, total,
                        ship_street, ship_city, ship_state, ship_country, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
  `, o.ID, o.UserID, o.Status, o.PaymentMethod, o.PaymentStatus, o.Total,
		o.Shipping.Street, o.Shipping.City, o.Shipping.State, o.Shipping.Country,
		o.CreatedAt, o.UpdatedAt); err != nil {
		return err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO order_items (id, order_id, product_id, quantity, price)
      VALUES ($1,$2,$3,$4,$5)
    `, it.ID, o.ID, it.ProductID, it.Quantity, it.Price); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGStore) GetByID(ctx context.Context, id string) (*Order, []Item, error) {
	var o Order
	if err := r.db.QueryRow(ctx, `
    SELECT id, user_id, status, payment_method, payment_status, total::text,
           ship_street, ship_city, COALESCE(ship_state,''), ship_country, created_at, updated_at
    FROM orders WHERE id=$1
  `, id).Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.Total,
		&o.Shipping.Street, &o.Shipping.City, &o.Shipping.State, &o.Shipping.Country,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	items, err := r.GetItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return &o, items, nil
}

func (r *PGStore) List(ctx context.Context, limit, offset int) ([]Order, error) {
	return r.list(ctx, ``, limit, offset)
}

func (r *PGStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	return r.list(ctx, userID, limit, offset)
}

func (r *PGStore) list(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
    SELECT id, user_id, status, payment_method, payment_status, total::text,
           ship_street, ship_city, COALESCE(ship_state,''), ship_country, created_at, updated_at
    FROM orders WHERE ($1 = '' OR user_id = $1)
    ORDER BY created_at DESC LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.Total,
			&o.Shipping.Street, &o.Shipping.City, &o.Shipping.State, &o.Shipping.Country,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus applies a guarded transition. The WHERE clause makes the
// pending check and the write one atomic statement, so of two concurrent
// cancels exactly one wins.
func (r *PGStore) UpdateStatus(ctx context.Context, id string, next Status) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if !StatusPending.CanTransitionTo(next) {
		return ErrInvalidTransition
	}

	tag, err := r.db.Exec(ctx, `
    UPDATE orders
    SET status = $2, updated_at = NOW()
    WHERE id = $1 AND status = 'pending'
  `, id, next)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var cur Status
		if err := r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, id).Scan(&cur); err != nil {
			return ErrNotFound
		}
		return ErrInvalidTransition
	}
	return nil
}

func (r *PGStore) GetItems(ctx context.Context, orderID string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
    SELECT id, order_id, product_id, quantity, price::text
    FROM order_items
    WHERE order_id = $1
  `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
