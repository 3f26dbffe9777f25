package review

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("review not found")
)

type Repository interface {
	ListByProduct(ctx context.Context, productID string) ([]Review, error)
	Create(ctx context.Context, rv *Review) error
	Update(ctx context.Context, rv *Review) error
	Delete(ctx context.Context, productID, reviewID string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) ListByProduct(ctx context.Context, productID string) ([]Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, product_id, user_id, rating, COALESCE(comment,'')
		FROM reviews WHERE product_id=$1 ORDER BY id
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// Create writes the review and refreshes the product's average rating in the
// same transaction.
func (r *PGRepo) Create(ctx context.Context, rv *Review) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO reviews (id, product_id, user_id, rating, comment)
		VALUES ($1,$2,$3,$4,$5)
	`, rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Comment); err != nil {
		return err
	}
	if err := refreshAverage(ctx, tx, rv.ProductID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) Update(ctx context.Context, rv *Review) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE reviews SET rating=$3, comment=$4 WHERE id=$1 AND product_id=$2
	`, rv.ID, rv.ProductID, rv.Rating, rv.Comment)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if err := refreshAverage(ctx, tx, rv.ProductID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) Delete(ctx context.Context, productID, reviewID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id=$1 AND product_id=$2`, reviewID, productID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	if err := refreshAverage(ctx, tx, productID); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

func refreshAverage(ctx context.Context, tx pgx.Tx, productID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE products
		SET average_rating = (SELECT AVG(rating)::numeric(3,2) FROM reviews WHERE product_id=$1),
		    updated_at = NOW()
		WHERE id = $1
	`, productID)
	return err
}
