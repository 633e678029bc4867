package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"secondhand-backend/internal/cart"
	"secondhand-backend/internal/product"
	"secondhand-backend/internal/user"
)

type stubCartRepo struct {
	items   []cart.Item
	added   *cart.Entry
	addErr  error
	removed bool
}

func (s *stubCartRepo) Add(ctx context.Context, e *cart.Entry) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.added = e
	return nil
}

func (s *stubCartRepo) Remove(ctx context.Context, userID, productID string) (bool, error) {
	return s.removed, nil
}

func (s *stubCartRepo) ListByUser(ctx context.Context, userID string) ([]cart.Item, error) {
	return s.items, nil
}

type stubUserRepo struct {
	user    *user.User
	exists  bool
	created *user.User
}

func (s *stubUserRepo) Create(ctx context.Context, u *user.User) error {
	s.created = u
	return nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	if s.user == nil {
		return nil, user.ErrNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, user.ErrNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) Exists(ctx context.Context, id string) (bool, error) { return s.exists, nil }

func (s *stubUserRepo) Update(ctx context.Context, u *user.User, updatePassword bool) error {
	return nil
}

type stubProductRepo struct {
	product *product.Product

	verifiedID     string
	verifiedStatus string
	verifiedPrice  *string
}

func (s *stubProductRepo) Create(ctx context.Context, p *product.Product) error { return nil }

func (s *stubProductRepo) GetByID(ctx context.Context, id string) (*product.Product, error) {
	if s.product == nil || s.product.ID != id {
		return nil, fmt.Errorf("not found")
	}
	return s.product, nil
}

func (s *stubProductRepo) List(ctx context.Context) ([]product.Product, error) {
	if s.product == nil {
		return []product.Product{}, nil
	}
	return []product.Product{*s.product}, nil
}

func (s *stubProductRepo) ListBySeller(ctx context.Context, sellerID string) ([]product.Product, error) {
	return s.List(ctx)
}

func (s *stubProductRepo) Update(ctx context.Context, p *product.Product) error { return nil }

func (s *stubProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	return s.product != nil && s.product.ID == id, nil
}

func (s *stubProductRepo) SetVerification(ctx context.Context, id, status string, verifiedPrice *string) error {
	s.verifiedID = id
	s.verifiedStatus = status
	s.verifiedPrice = verifiedPrice
	return nil
}

// The snapshot stored with the cart entry must be the effective price: the
// verified one once the listing is Verified.
func TestAddToCart_SnapshotsVerifiedPrice(t *testing.T) {
	t.Parallel()

	vp := "45.00"
	prodID := uuid.NewString()
	products := &stubProductRepo{product: &product.Product{
		ID:            prodID,
		Price:         "50.00",
		VerifiedPrice: &vp,
		Status:        product.StatusVerified,
	}}
	carts := &stubCartRepo{}

	r := gin.New()
	r.POST("/cart", addToCartHandler(carts, &stubUserRepo{exists: true}, products))

	body := fmt.Sprintf(`{"user_id":%q,"product_id":%q}`, uuid.NewString(), prodID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if carts.added == nil {
		t.Fatalf("nothing added to cart")
	}
	if carts.added.TotalPrice != "45.00" {
		t.Fatalf("snapshot price=%s, want 45.00", carts.added.TotalPrice)
	}
}

func TestAddToCart_UnknownUser(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.POST("/cart", addToCartHandler(&stubCartRepo{}, &stubUserRepo{exists: false}, &stubProductRepo{}))

	body := fmt.Sprintf(`{"user_id":%q,"product_id":%q}`, uuid.NewString(), uuid.NewString())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s (want 404)", w.Code, w.Body.String())
	}
}

func TestAddToCart_Duplicate(t *testing.T) {
	t.Parallel()

	prodID := uuid.NewString()
	products := &stubProductRepo{product: &product.Product{ID: prodID, Price: "10.00", Status: product.StatusAvailable}}
	carts := &stubCartRepo{addErr: cart.ErrDuplicate}

	r := gin.New()
	r.POST("/cart", addToCartHandler(carts, &stubUserRepo{exists: true}, products))

	body := fmt.Sprintf(`{"user_id":%q,"product_id":%q}`, uuid.NewString(), prodID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
}

func TestRemoveFromCart_NotFound(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.DELETE("/cart/:userId/:productId", removeFromCartHandler(&stubCartRepo{removed: false}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/cart/"+uuid.NewString()+"/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s (want 404)", w.Code, w.Body.String())
	}
}

func TestGetCart_OK(t *testing.T) {
	t.Parallel()

	carts := &stubCartRepo{items: []cart.Item{{CartID: uuid.NewString()}}}
	r := gin.New()
	r.GET("/cart/:id", getCartHandler(carts))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}
