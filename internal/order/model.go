package order

import "time"

// Order status machine: Processing -> Completed (buyer confirms receipt) or
// Processing -> deleted (cancellation). Completed is terminal.
const (
	StatusProcessing = "Processing"
	StatusCompleted  = "Completed"
)

type Order struct {
	ID     string `json:"order_id"`
	UserID string `json:"user_id"`
	// NUMERIC -> string
	Total     string    `json:"total_amount"`
	Status    string    `json:"order_status"`
	OrderDate time.Time `json:"order_date"`
}

type Item struct {
	ID        string `json:"order_item_id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// View is the joined projection returned by the order read endpoints.
// swagger:model OrderView
type View struct {
	OrderID       string     `json:"order_id"`
	OrderDate     time.Time  `json:"order_date"`
	OrderStatus   string     `json:"order_status"`
	BuyerID       string     `json:"buyer_id"`
	BuyerName     string     `json:"buyer_name"`
	TotalAmount   string     `json:"total_amount"`
	Items         []ViewItem `json:"items"`
	PaymentMethod string     `json:"payment_method"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
}

type ViewItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	SellerName  string `json:"seller_name"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	ImageBase64 string `json:"image_base64,omitempty"`

	// kept for seller-side filtering, not serialized
	sellerID string
}
