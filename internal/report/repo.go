// Package report produces the admin-facing pricing aggregates. The numbers
// are computed in SQL rather than loading whole tables into memory.
package report

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CategorySummary aggregates products per category.
// swagger:model
type CategorySummary struct {
	Category             string `json:"category"`
	ProductCount         int    `json:"product_count"`
	AverageBasePrice     string `json:"average_base_price"`
	AverageVerifiedPrice string `json:"average_verified_price"`
}

// PricingPatterns spans min/max/average of base and verified prices.
// swagger:model
type PricingPatterns struct {
	AverageBasePrice     string `json:"average_base_price"`
	AverageVerifiedPrice string `json:"average_verified_price"`
	MinBasePrice         string `json:"min_base_price"`
	MaxBasePrice         string `json:"max_base_price"`
	MinVerifiedPrice     string `json:"min_verified_price"`
	MaxVerifiedPrice     string `json:"max_verified_price"`
}

type Repository interface {
	CategorySummary(ctx context.Context) ([]CategorySummary, error)
	PricingPatterns(ctx context.Context) (*PricingPatterns, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) CategorySummary(ctx context.Context) ([]CategorySummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(category, ''),
		       COUNT(*),
		       ROUND(AVG(product_price), 2)::text,
		       COALESCE(ROUND(AVG(verified_price), 2), 0)::text
		FROM products
		GROUP BY category
		ORDER BY category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CategorySummary{}
	for rows.Next() {
		var s CategorySummary
		if err := rows.Scan(&s.Category, &s.ProductCount, &s.AverageBasePrice, &s.AverageVerifiedPrice); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PGRepo) PricingPatterns(ctx context.Context) (*PricingPatterns, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var p PricingPatterns
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(ROUND(AVG(product_price), 2), 0)::text,
		       COALESCE(ROUND(AVG(verified_price), 2), 0)::text,
		       COALESCE(MIN(product_price), 0)::text,
		       COALESCE(MAX(product_price), 0)::text,
		       COALESCE(MIN(verified_price), 0)::text,
		       COALESCE(MAX(verified_price), 0)::text
		FROM products
	`).Scan(&p.AverageBasePrice, &p.AverageVerifiedPrice,
		&p.MinBasePrice, &p.MaxBasePrice, &p.MinVerifiedPrice, &p.MaxVerifiedPrice)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
