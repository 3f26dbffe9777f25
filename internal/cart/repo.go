package cart

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("cart not found")
)

type Repository interface {
	Create(ctx context.Context, c *Cart) error
	GetByID(ctx context.Context, id string) (*Cart, error)
	GetByUser(ctx context.Context, userID string) (*Cart, error)
	List(ctx context.Context, limit, offset int) ([]Cart, error)
	ReplaceItems(ctx context.Context, id string, items []Line) error
	Delete(ctx context.Context, id string) (bool, error)
	Snapshot(ctx context.Context, userID string) ([]Line, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, c *Cart) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO carts (id, user_id, created_at, updated_at)
    VALUES ($1,$2,NOW(),NOW())
  `, c.ID, c.UserID); err != nil {
		return err
	}
	for i, it := range c.Items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO cart_items (id, cart_id, product_id, quantity, position)
      VALUES ($1,$2,$3,$4,$5)
    `, uuid.NewString(), c.ID, it.ProductID, it.Quantity, i); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c Cart
	if err := r.db.QueryRow(ctx, `
    SELECT id, user_id, created_at, updated_at FROM carts WHERE id=$1
  `, id).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, ErrNotFound
	}
	items, err := r.itemsOf(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return &c, nil
}

func (r *PGRepo) GetByUser(ctx context.Context, userID string) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c Cart
	if err := r.db.QueryRow(ctx, `
    SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id=$1
  `, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, ErrNotFound
	}
	items, err := r.itemsOf(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return &c, nil
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
    SELECT id, user_id, created_at, updated_at
    FROM carts ORDER BY created_at DESC LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Cart
	for rows.Next() {
		var c Cart
		if err := rows.Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		items, err := r.itemsOf(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *PGRepo) ReplaceItems(ctx context.Context, id string, items []Line) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, id); err != nil {
		return err
	}
	for i, it := range items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO cart_items (id, cart_id, product_id, quantity, position)
      VALUES ($1,$2,$3,$4,$5)
    `, uuid.NewString(), id, it.ProductID, it.Quantity, i); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM carts WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// Snapshot resolves the user's cart into its ordered lines. The lines come
// from a single statement, so MVCC gives a consistent view even under
// concurrent cart mutation. Read-only: clearing the cart is the caller's
// decision, never the reader's.
func (r *PGRepo) Snapshot(ctx context.Context, userID string) ([]Line, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cartID string
	if err := r.db.QueryRow(ctx, `
    SELECT id FROM carts WHERE user_id=$1
  `, userID).Scan(&cartID); err != nil {
		return nil, ErrNotFound
	}
	return r.itemsOf(ctx, cartID)
}

func (r *PGRepo) itemsOf(ctx context.Context, cartID string) ([]Line, error) {
	rows, err := r.db.Query(ctx, `
    SELECT product_id, quantity FROM cart_items
    WHERE cart_id=$1 ORDER BY position
  `, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}
