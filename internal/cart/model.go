package cart

// Entry pairs a buyer with a product they intend to purchase. TotalPrice is
// the product price snapshotted when the entry was created; a (user, product)
// pair exists at most once.
type Entry struct {
	ID         string `json:"cart_id"`
	UserID     string `json:"user_id"`
	ProductID  string `json:"product_id"`
	TotalPrice string `json:"total_price"`
}

// Item is the cart view returned to buyers, with the embedded product.
// swagger:model
type Item struct {
	CartID  string      `json:"cart_id"`
	Product ProductView `json:"product"`
}

type ProductView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Status      string `json:"status"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

// AddRequest payload for adding a product to the cart.
// swagger:model AddToCartRequest
type AddRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}
