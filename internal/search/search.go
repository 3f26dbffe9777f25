// Package search implements the cross-catalog lookup used by the storefront
// search box: one query fans out over products and categories.
package search

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Result is a single hit. Type is "product" or "category".
type Result struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"` // products only
}

const (
	TypeProduct  = "product"
	TypeCategory = "category"
)

type Searcher interface {
	Search(ctx context.Context, q, typ string, limit int) ([]Result, error)
}

type PGSearcher struct{ db *pgxpool.Pool }

func NewPGSearcher(db *pgxpool.Pool) *PGSearcher { return &PGSearcher{db: db} }

// Search matches name and description, case-insensitively. typ narrows the
// scope to one result type; empty means both.
func (s *PGSearcher) Search(ctx context.Context, q, typ string, limit int) ([]Result, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var out []Result
	if typ == "" || typ == TypeProduct {
		rows, err := s.db.Query(ctx, `
			SELECT id, name, COALESCE(description,''), price::text
			FROM products
			WHERE name ILIKE '%'||$1||'%' OR description ILIKE '%'||$1||'%'
			ORDER BY name LIMIT $2
		`, q, limit)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			r := Result{Type: TypeProduct}
			if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.Price); err != nil {
				rows.Close()
				return nil, err
			}
			out = append(out, r)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	if typ == "" || typ == TypeCategory {
		rows, err := s.db.Query(ctx, `
			SELECT id, name, COALESCE(description,'')
			FROM categories
			WHERE name ILIKE '%'||$1||'%' OR description ILIKE '%'||$1||'%'
			ORDER BY name LIMIT $2
		`, q, limit)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			r := Result{Type: TypeCategory}
			if err := rows.Scan(&r.ID, &r.Name, &r.Description); err != nil {
				rows.Close()
				return nil, err
			}
			out = append(out, r)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
