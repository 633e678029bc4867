package feedback

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotPurchased    = errors.New("you can only review products you have purchased and received")
	ErrAlreadyReviewed = errors.New("you have already reviewed this product")
)

type Repository interface {
	// Submit stores a review after checking the buyer actually completed an
	// order containing the product and has not reviewed it before.
	Submit(ctx context.Context, f *Feedback) error
	ListByProduct(ctx context.Context, productID string) ([]Feedback, error)
	ListByUser(ctx context.Context, userID string) ([]Feedback, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Submit(ctx context.Context, f *Feedback) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var purchased bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM order_items oi
			JOIN orders o ON o.order_id = oi.order_id
			WHERE o.user_id = $1 AND oi.product_id = $2 AND o.order_status = 'Completed'
		)
	`, f.UserID, f.ProductID).Scan(&purchased)
	if err != nil {
		return err
	}
	if !purchased {
		return ErrNotPurchased
	}

	var reviewed bool
	err = r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM feedback WHERE user_id=$1 AND product_id=$2)
	`, f.UserID, f.ProductID).Scan(&reviewed)
	if err != nil {
		return err
	}
	if reviewed {
		return ErrAlreadyReviewed
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO feedback (feedback_id, product_id, user_id, rating, comment, date_submitted)
		VALUES ($1,$2,$3,$4,$5,NOW())
	`, f.ID, f.ProductID, f.UserID, f.Rating, f.Comment)
	return err
}

func (r *PGRepo) ListByProduct(ctx context.Context, productID string) ([]Feedback, error) {
	return r.list(ctx, `f.product_id = $1`, productID)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Feedback, error) {
	return r.list(ctx, `f.user_id = $1`, userID)
}

func (r *PGRepo) list(ctx context.Context, where string, arg any) ([]Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT f.feedback_id, f.product_id, f.user_id, f.rating, f.comment, f.date_submitted,
		       COALESCE(TRIM(u.first_name || ' ' || u.last_name), '')
		FROM feedback f
		LEFT JOIN users u ON u.user_id = f.user_id
		WHERE `+where+`
		ORDER BY f.date_submitted DESC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Feedback{}
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.ProductID, &f.UserID, &f.Rating, &f.Comment,
			&f.Submitted, &f.ReviewerName); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
