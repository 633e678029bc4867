// Package checkout implements the order placement, cancellation and
// receipt-confirmation transactions of the marketplace.
package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"secondhand-backend/internal/order"
	"secondhand-backend/internal/product"
)

// Service is the contract the HTTP layer depends on.
type Service interface {
	// PlaceOrder purchases the given cart entries of the buyer.
	PlaceOrder(ctx context.Context, buyerID string, cartIDs []string, paymentMethod string) (*Receipt, error)
	// PlaceOrderFromCart purchases the buyer's entire cart. It is the path
	// taken by gateway confirmations; gatewayRef, when non-empty, is the
	// idempotency key guarding against replayed deliveries.
	PlaceOrderFromCart(ctx context.Context, buyerID, paymentMethod, gatewayRef string) (*Receipt, error)
	CancelOrder(ctx context.Context, orderID string) error
	ReceiveProduct(ctx context.Context, orderID string) error
}

// Receipt is what a successful checkout returns.
// swagger:model
type Receipt struct {
	OrderID     string `json:"order_id"`
	TotalAmount string `json:"total_amount"`
	// Replayed is set when a gateway confirmation had already been
	// materialized and this call was a no-op.
	Replayed bool `json:"-"`
}

type Engine struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewEngine(db *pgxpool.Pool) *Engine {
	return &Engine{db: db, now: time.Now}
}

func (e *Engine) PlaceOrder(ctx context.Context, buyerID string, cartIDs []string, paymentMethod string) (*Receipt, error) {
	if buyerID == "" || len(cartIDs) == 0 {
		return nil, ErrEmptyCart
	}
	tx, err := e.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, &TransactionError{Step: "begin", Err: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lines, err := e.lockLines(ctx, tx, buyerID, cartIDs)
	if err != nil {
		return nil, err
	}
	receipt, err := e.materialize(ctx, tx, buyerID, paymentMethod, "", lines)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, &TransactionError{Step: "commit", Err: err}
	}
	return receipt, nil
}

func (e *Engine) PlaceOrderFromCart(ctx context.Context, buyerID, paymentMethod, gatewayRef string) (*Receipt, error) {
	if buyerID == "" {
		return nil, ErrEmptyCart
	}
	tx, err := e.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, &TransactionError{Step: "begin", Err: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Replay detection: the same gateway confirmation delivered twice must
	// not create a second order.
	if gatewayRef != "" {
		var existing string
		err := tx.QueryRow(ctx,
			`SELECT order_id FROM payments WHERE gateway_reference=$1`, gatewayRef).Scan(&existing)
		if err == nil {
			return &Receipt{OrderID: existing, Replayed: true}, nil
		}
		if err != pgx.ErrNoRows {
			return nil, &TransactionError{Step: "replay check", Err: err}
		}
	}

	lines, err := e.lockLines(ctx, tx, buyerID, nil)
	if err != nil {
		return nil, err
	}
	receipt, err := e.materialize(ctx, tx, buyerID, paymentMethod, gatewayRef, lines)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, &TransactionError{Step: "commit", Err: err}
	}
	return receipt, nil
}

// lockLines loads the buyer's cart entries joined with their products and
// takes row locks on both, so the sold-flag check and the later mark-sold
// write cannot race a concurrent checkout of the same product. When cartIDs
// is nil the whole cart is taken.
func (e *Engine) lockLines(ctx context.Context, tx pgx.Tx, buyerID string, cartIDs []string) ([]line, error) {
	q := `
		SELECT c.cart_id, c.product_id, p.product_name,
		       p.product_price::text, p.verified_price::text, p.product_status, p.is_sold
		FROM carts c
		JOIN products p ON p.product_id = c.product_id
		WHERE c.user_id = $1`
	args := []any{buyerID}
	if cartIDs != nil {
		q += ` AND c.cart_id = ANY($2)`
		args = append(args, cartIDs)
	}
	// deterministic lock order across concurrent checkouts
	q += ` ORDER BY c.product_id FOR UPDATE`

	rows, err := tx.Query(ctx, q, args...)
	if err != nil {
		return nil, &TransactionError{Step: "load cart", Err: err}
	}
	defer rows.Close()

	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.CartID, &l.ProductID, &l.ProductName,
			&l.Price, &l.VerifiedPrice, &l.Status, &l.IsSold); err != nil {
			return nil, &TransactionError{Step: "load cart", Err: err}
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, &TransactionError{Step: "load cart", Err: err}
	}
	// A selected cart entry whose product row is gone drops out of the join;
	// name the missing product instead of silently buying less.
	if cartIDs != nil && len(lines) < len(cartIDs) {
		var missing string
		err := tx.QueryRow(ctx, `
			SELECT c.product_id FROM carts c
			WHERE c.user_id = $1 AND c.cart_id = ANY($2)
			  AND NOT EXISTS (SELECT 1 FROM products p WHERE p.product_id = c.product_id)
			LIMIT 1
		`, buyerID, cartIDs).Scan(&missing)
		if err == nil {
			return nil, &ProductNotFoundError{ProductID: missing}
		}
		if err != pgx.ErrNoRows {
			return nil, &TransactionError{Step: "load cart", Err: err}
		}
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	return lines, nil
}

// materialize runs steps 2-4 of the checkout under the caller's transaction:
// validate every line, then insert the order, its items and the payment,
// mark the products sold and clear the consumed cart entries. All-or-nothing;
// any failure leaves the rollback to the caller's defer.
func (e *Engine) materialize(ctx context.Context, tx pgx.Tx, buyerID, paymentMethod, gatewayRef string, lines []line) (*Receipt, error) {
	for _, l := range lines {
		var alreadyOrdered bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM order_items WHERE product_id=$1)`, l.ProductID).
			Scan(&alreadyOrdered)
		if err != nil {
			return nil, &TransactionError{Step: "validate", Err: err}
		}
		if err := validateLine(l, alreadyOrdered); err != nil {
			return nil, err
		}
	}

	total, err := totalOf(lines)
	if err != nil {
		return nil, &TransactionError{Step: "total", Err: err}
	}

	now := e.now().UTC()
	orderID := uuid.NewString()
	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (order_id, user_id, total_amount, order_status, order_date)
		VALUES ($1,$2,$3,$4,$5)
	`, orderID, buyerID, total.StringFixed(2), order.StatusProcessing, now); err != nil {
		return nil, &TransactionError{Step: "insert order", Err: err}
	}

	productIDs := make([]string, 0, len(lines))
	cartIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_item_id, order_id, product_id, quantity)
			VALUES ($1,$2,$3,1)
		`, uuid.NewString(), orderID, l.ProductID); err != nil {
			return nil, &TransactionError{Step: "insert items", Err: err}
		}
		productIDs = append(productIDs, l.ProductID)
		cartIDs = append(cartIDs, l.CartID)
	}

	// No payment method means manual/offline settlement; the order still
	// materializes, just without a payment row.
	if paymentMethod != "" {
		if err := e.insertPayment(ctx, tx, orderID, paymentMethod, gatewayRef, total, now); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE products SET is_sold = true, product_status = $2, updated_at = NOW()
		WHERE product_id = ANY($1)
	`, productIDs, product.StatusSold); err != nil {
		return nil, &TransactionError{Step: "mark sold", Err: err}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE cart_id = ANY($1)`, cartIDs); err != nil {
		return nil, &TransactionError{Step: "clear cart", Err: err}
	}

	return &Receipt{OrderID: orderID, TotalAmount: total.StringFixed(2)}, nil
}

func (e *Engine) insertPayment(ctx context.Context, tx pgx.Tx, orderID, method, gatewayRef string, total decimal.Decimal, now time.Time) error {
	var ref *string
	if gatewayRef != "" {
		ref = &gatewayRef
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO payments (payment_id, order_id, payment_method, payment_status, amount, gateway_reference, payment_date)
		VALUES ($1,$2,$3,'Completed',$4,$5,$6)
	`, uuid.NewString(), orderID, method, total.StringFixed(2), ref, now); err != nil {
		return &TransactionError{Step: "insert payment", Err: err}
	}
	return nil
}

// CancelOrder reverses a not-yet-completed order: every product reverts to
// unsold/Available and the order row goes away together with its line items
// and payment. Atomic like placement.
func (e *Engine) CancelOrder(ctx context.Context, orderID string) error {
	tx, err := e.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return &TransactionError{Step: "begin", Err: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	err = tx.QueryRow(ctx,
		`SELECT order_status FROM orders WHERE order_id=$1 FOR UPDATE`, orderID).Scan(&status)
	if err == pgx.ErrNoRows {
		return ErrOrderNotFound
	}
	if err != nil {
		return &TransactionError{Step: "load order", Err: err}
	}
	if status == order.StatusCompleted {
		return ErrAlreadyCompleted
	}

	if _, err := tx.Exec(ctx, `
		UPDATE products SET is_sold = false, product_status = $2, updated_at = NOW()
		WHERE product_id IN (SELECT product_id FROM order_items WHERE order_id = $1)
	`, orderID, product.StatusAvailable); err != nil {
		return &TransactionError{Step: "revert products", Err: err}
	}

	// payments and order_items cascade with the order row
	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE order_id=$1`, orderID); err != nil {
		return &TransactionError{Step: "delete order", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return &TransactionError{Step: "commit", Err: err}
	}
	return nil
}

// ReceiveProduct finalizes an order once the buyer confirms delivery. It is
// the only transition out of Processing and makes the order immune to
// cancellation.
func (e *Engine) ReceiveProduct(ctx context.Context, orderID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := e.db.Exec(ctx, `
		UPDATE orders SET order_status = $2
		WHERE order_id = $1 AND order_status = $3
	`, orderID, order.StatusCompleted, order.StatusProcessing)
	if err != nil {
		return &TransactionError{Step: "update status", Err: err}
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// distinguish a missing order from one in the wrong state
	var status string
	err = e.db.QueryRow(ctx, `SELECT order_status FROM orders WHERE order_id=$1`, orderID).Scan(&status)
	if err == pgx.ErrNoRows {
		return ErrOrderNotFound
	}
	if err != nil {
		return &TransactionError{Step: "load order", Err: err}
	}
	return ErrInvalidState
}
