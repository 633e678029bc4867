// Package product provides the repository interface and PostgreSQL
// implementation for managing marketplace products.
package product

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("product not found")
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	ListBySeller(ctx context.Context, sellerID string) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) (bool, error)
	SetVerification(ctx context.Context, id, status string, verifiedPrice *string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const productCols = `product_id, user_id, product_name, product_description, category,
	product_condition, product_price::text, verified_price::text, product_status,
	is_sold, product_image, date_posted, updated_at`

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO products
			(product_id, user_id, product_name, product_description, category,
			 product_condition, product_price, product_status, is_sold,
			 product_image, date_posted, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,false,$9,NOW(),NOW())
	`, p.ID, p.SellerID, p.Name, p.Description, p.Category, p.Condition, p.Price, StatusPending, p.Image)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Product
	err := r.db.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE product_id=$1`, id).
		Scan(&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Category, &p.Condition,
			&p.Price, &p.VerifiedPrice, &p.Status, &p.IsSold, &p.Image, &p.PostedAt, &p.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+productCols+` FROM products ORDER BY date_posted DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *PGRepo) ListBySeller(ctx context.Context, sellerID string) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT `+productCols+` FROM products WHERE user_id=$1 ORDER BY date_posted DESC`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Update rewrites the seller-editable fields and sends the product back
// through verification.
func (r *PGRepo) Update(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET product_name = COALESCE(NULLIF($2,''), product_name),
		    product_description = COALESCE(NULLIF($3,''), product_description),
		    category = COALESCE(NULLIF($4,''), category),
		    product_condition = COALESCE(NULLIF($5,''), product_condition),
		    product_price = COALESCE(NULLIF($6,'')::numeric, product_price),
		    product_image = COALESCE($7, product_image),
		    product_status = $8,
		    verified_price = NULL,
		    updated_at = NOW()
		WHERE product_id = $1
	`, p.ID, p.Name, p.Description, p.Category, p.Condition, p.Price, p.Image, StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE product_id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// SetVerification is the admin action: status becomes Verified or Rejected,
// optionally fixing the admin-confirmed price.
func (r *PGRepo) SetVerification(ctx context.Context, id, status string, verifiedPrice *string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET product_status = $2,
		    verified_price = COALESCE($3::numeric, verified_price),
		    updated_at = NOW()
		WHERE product_id = $1
	`, id, status, verifiedPrice)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanProducts(rows rowScanner) ([]Product, error) {
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Category, &p.Condition,
			&p.Price, &p.VerifiedPrice, &p.Status, &p.IsSold, &p.Image, &p.PostedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
