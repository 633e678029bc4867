package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product lifecycle states. A product enters as "Pending Verification",
// an admin moves it to Verified or Rejected, checkout moves it to Sold
// and cancellation back to Available.
const (
	StatusPending   = "Pending Verification"
	StatusVerified  = "Verified"
	StatusRejected  = "Rejected"
	StatusAvailable = "Available"
	StatusSold      = "Sold"
)

type Product struct {
	ID          string `json:"id"`
	SellerID    string `json:"seller_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Condition   string `json:"condition,omitempty"`
	// Prices are stored as strings to avoid rounding errors (NUMERIC in Postgres).
	Price         string    `json:"price"`
	VerifiedPrice *string   `json:"verified_price,omitempty"`
	Status        string    `json:"status"`
	IsSold        bool      `json:"is_sold"`
	Image         []byte    `json:"-"`
	PostedAt      time.Time `json:"posted_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EffectivePrice is the price a buyer pays: the admin-confirmed verified
// price once the product is Verified, the seller's base price otherwise.
func (p *Product) EffectivePrice() (decimal.Decimal, error) {
	if p.Status == StatusVerified && p.VerifiedPrice != nil && *p.VerifiedPrice != "" {
		return decimal.NewFromString(*p.VerifiedPrice)
	}
	return decimal.NewFromString(p.Price)
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	Error string `json:"error"`
}

// ListedProduct is the buyer-facing projection with a single price field.
// swagger:model
type ListedProduct struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Status      string `json:"status"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name        string `json:"name"        example:"Calculus textbook"`
	Description string `json:"description" example:"3rd edition, light wear"`
	Category    string `json:"category"    example:"Books"`
	Condition   string `json:"condition"   example:"Used - Good"`
	Price       string `json:"price"       example:"35.00"`
	ImageBase64 string `json:"image_base64"`
}

// UpdateProductRequest payload of partial update.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Condition   string `json:"condition"`
	Price       string `json:"price"`
	ImageBase64 string `json:"image_base64"`
}
