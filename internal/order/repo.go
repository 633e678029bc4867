package order

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("order not found")
)

// Repository is the read side of orders; all mutation goes through the
// checkout engine.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByBuyer(ctx context.Context, userID string) ([]View, error)
	ListBySeller(ctx context.Context, sellerID string) ([]View, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := r.db.QueryRow(ctx, `
		SELECT order_id, user_id, total_amount::text, order_status, order_date
		FROM orders WHERE order_id=$1
	`, id).Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.OrderDate)
	if err != nil {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (r *PGRepo) ListByBuyer(ctx context.Context, userID string) ([]View, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	views, err := r.listViews(ctx, `WHERE o.user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	return views, nil
}

// ListBySeller returns orders containing at least one of the seller's
// products, with the items filtered down to that seller.
func (r *PGRepo) ListBySeller(ctx context.Context, sellerID string) ([]View, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	views, err := r.listViews(ctx, `
		WHERE EXISTS (
			SELECT 1 FROM order_items oi
			JOIN products p ON p.product_id = oi.product_id
			WHERE oi.order_id = o.order_id AND p.user_id = $1
		)`, sellerID)
	if err != nil {
		return nil, err
	}
	for i := range views {
		kept := views[i].Items[:0]
		for _, it := range views[i].Items {
			if it.sellerID == sellerID {
				kept = append(kept, it)
			}
		}
		views[i].Items = kept
	}
	return views, nil
}

func (r *PGRepo) listViews(ctx context.Context, where string, arg any) ([]View, error) {
	rows, err := r.db.Query(ctx, `
		SELECT o.order_id, o.order_date, o.order_status, o.user_id,
		       COALESCE(TRIM(u.first_name || ' ' || u.last_name), ''),
		       o.total_amount::text,
		       COALESCE(pay.payment_method, 'Not specified'), pay.payment_date
		FROM orders o
		LEFT JOIN users u ON u.user_id = o.user_id
		LEFT JOIN payments pay ON pay.order_id = o.order_id
		`+where+`
		ORDER BY o.order_date DESC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []View{}
	for rows.Next() {
		var v View
		if err := rows.Scan(&v.OrderID, &v.OrderDate, &v.OrderStatus, &v.BuyerID,
			&v.BuyerName, &v.TotalAmount, &v.PaymentMethod, &v.PaymentDate); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range views {
		items, err := r.itemsOf(ctx, views[i].OrderID)
		if err != nil {
			return nil, err
		}
		views[i].Items = items
	}
	return views, nil
}

func (r *PGRepo) itemsOf(ctx context.Context, orderID string) ([]ViewItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT oi.product_id, oi.quantity, p.product_name, p.user_id,
		       CASE WHEN p.product_status IN ('Verified','Sold') AND p.verified_price IS NOT NULL
		            THEN p.verified_price ELSE p.product_price END::text,
		       p.product_image,
		       COALESCE(TRIM(s.first_name || ' ' || s.last_name), '')
		FROM order_items oi
		JOIN products p ON p.product_id = oi.product_id
		LEFT JOIN users s ON s.user_id = p.user_id
		WHERE oi.order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []ViewItem{}
	for rows.Next() {
		var it ViewItem
		var image []byte
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.ProductName, &it.sellerID,
			&it.Price, &image, &it.SellerName); err != nil {
			return nil, err
		}
		if len(image) > 0 {
			it.ImageBase64 = base64.StdEncoding.EncodeToString(image)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
