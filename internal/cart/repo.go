package cart

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("cart item not found")
	ErrDuplicate = errors.New("product is already in the cart")
)

type Repository interface {
	Add(ctx context.Context, e *Entry) error
	Remove(ctx context.Context, userID, productID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]Item, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Add(ctx context.Context, e *Entry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// UNIQUE(user_id, product_id) backs the at-most-once invariant
	_, err := r.db.Exec(ctx, `
		INSERT INTO carts (cart_id, user_id, product_id, total_price)
		VALUES ($1,$2,$3,$4)
	`, e.ID, e.UserID, e.ProductID, e.TotalPrice)
	if err != nil {
		return ErrDuplicate
	}
	return nil
}

func (r *PGRepo) Remove(ctx context.Context, userID, productID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx,
		`DELETE FROM carts WHERE user_id=$1 AND product_id=$2`, userID, productID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT c.cart_id, p.product_id, p.product_name,
		       CASE WHEN p.product_status = 'Verified' AND p.verified_price IS NOT NULL
		            THEN p.verified_price ELSE p.product_price END::text,
		       p.product_status, p.product_image
		FROM carts c
		JOIN products p ON p.product_id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.cart_id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		var image []byte
		if err := rows.Scan(&it.CartID, &it.Product.ID, &it.Product.Name,
			&it.Product.Price, &it.Product.Status, &image); err != nil {
			return nil, err
		}
		if len(image) > 0 {
			it.Product.ImageBase64 = base64.StdEncoding.EncodeToString(image)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
