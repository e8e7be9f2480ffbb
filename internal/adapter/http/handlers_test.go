package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	domain "github.com/VirajMandavkar/luminaire-storefront/internal/entity"
	"github.com/VirajMandavkar/luminaire-storefront/internal/usecase"
)

var errDown = errors.New("backend down")

type stubProducts struct {
	products []domain.Product
	err      error
}

func (s *stubProducts) ListProducts(ctx context.Context, q usecase.ListProductsQuery) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProducts) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

type stubCartBackend struct {
	mu     sync.Mutex
	lines  []domain.CartLine
	failed bool
}

func (s *stubCartBackend) FetchCart(ctx context.Context, token string) ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartLine(nil), s.lines...), nil
}

func (s *stubCartBackend) ReplaceCart(ctx context.Context, token string, lines []domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed {
		return errDown
	}
	s.lines = append([]domain.CartLine(nil), lines...)
	return nil
}

type stubGuestStore struct {
	mu    sync.Mutex
	carts map[string][]domain.CartLine
}

func newStubGuestStore() *stubGuestStore {
	return &stubGuestStore{carts: map[string][]domain.CartLine{}}
}

func (s *stubGuestStore) Load(ctx context.Context, guestID string) ([]domain.CartLine, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, ok := s.carts[guestID]
	return lines, ok, nil
}

func (s *stubGuestStore) Save(ctx context.Context, guestID string, lines []domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[guestID] = append([]domain.CartLine(nil), lines...)
	return nil
}

func (s *stubGuestStore) Delete(ctx context.Context, guestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, guestID)
	return nil
}

type stubOrders struct {
	err error
}

func (s *stubOrders) CreateOrder(ctx context.Context, token string, draft domain.OrderDraft) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{OrderID: "ORD-1", Total: draft.Total, Status: domain.StatusPending}, nil
}

func (s *stubOrders) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrders) GetOrder(ctx context.Context, token, orderID string) (*domain.Order, error) {
	return nil, domain.ErrOrderNotFound
}

type stubPayments struct {
	err error
}

func (s *stubPayments) Charge(ctx context.Context, req usecase.PaymentRequest) error { return s.err }

// sessionStub plants the session the resolver middleware would have set.
func sessionStub(sess usecase.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("session", sess)
		c.Next()
	}
}

func userSess() usecase.Session {
	return usecase.Session{
		GuestID: "g1",
		Token:   "tok",
		User:    &domain.User{ID: "u1", Role: "user"},
	}
}

type rig struct {
	engine   *gin.Engine
	products *stubProducts
	remote   *stubCartBackend
	store    *stubGuestStore
	orders   *stubOrders
	payments *stubPayments
	reg      *usecase.Registry
}

func newRig(t *testing.T, sess usecase.Session) *rig {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := &rig{
		products: &stubProducts{products: []domain.Product{
			{ID: "p1", Name: "Vanilla Dream", Category: "scented", Price: 200},
			{ID: "p2", Name: "Classic Pillar", Category: "pillar", Price: 150},
		}},
		remote:   &stubCartBackend{},
		store:    newStubGuestStore(),
		orders:   &stubOrders{},
		payments: &stubPayments{},
	}
	r.reg = usecase.NewRegistry(r.remote, r.store, r.products, r.orders, r.payments)

	e := gin.New()
	e.Use(sessionStub(sess))

	cart := NewCartHandler(r.reg)
	e.GET("/cart", cart.GetCart)
	e.DELETE("/cart", cart.ClearCart)
	e.POST("/cart/items", cart.AddItem)
	e.PATCH("/cart/items/:productId", cart.UpdateItem)
	e.DELETE("/cart/items/:productId", cart.RemoveItem)

	co := NewCheckoutHandler(r.reg)
	e.POST("/checkout", co.Begin)
	e.GET("/checkout", co.Get)
	e.POST("/checkout/shipping", co.SubmitShipping)
	e.POST("/checkout/edit-address", co.EditAddress)
	e.POST("/checkout/review", co.ContinueToPayment)
	e.POST("/checkout/payment", co.SubmitPayment)
	e.POST("/checkout/payment/restart", co.RestartPaymentWindow)

	cat := NewCatalogHandler(r.products)
	e.GET("/products", cat.ListProducts)
	e.GET("/products/:id", cat.GetProduct)

	r.engine = e
	return r
}

func (r *rig) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v\n%s", err, w.Body.String())
	}
	return v
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, w)["error"].(string)
}

// --- Catalog ---

func TestListProductsAppliesFilters(t *testing.T) {
	r := newRig(t, userSess())

	w := r.do(t, http.MethodGet, "/products?category=scented&sort=price-low", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decode[[]domain.Product](t, w)
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("products: %+v", got)
	}
}

func TestListProductsBadParams(t *testing.T) {
	r := newRig(t, userSess())

	for _, path := range []string{
		"/products?limit=zero",
		"/products?limit=-1",
		"/products?featured=maybe",
		"/products?minPrice=abc",
		"/products?maxPrice=abc",
	} {
		if w := r.do(t, http.MethodGet, path, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
		}
	}
}

func TestGetProductNotFoundPointsBackToShop(t *testing.T) {
	r := newRig(t, userSess())

	w := r.do(t, http.MethodGet, "/products/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode[map[string]any](t, w)
	if body["shop"] != "/v1/products" {
		t.Fatalf("body: %v", body)
	}
}

// --- Cart ---

func TestCartAddAndUpdateFlow(t *testing.T) {
	r := newRig(t, userSess())

	w := r.do(t, http.MethodPost, "/cart/items", gin.H{"productId": "p1", "quantity": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("add status = %d", w.Code)
	}
	view := decode[cartView](t, w)
	if view.Count != 2 || len(view.Items) != 1 || view.Items[0].Sync != "synced" {
		t.Fatalf("view after add: %+v", view)
	}

	// omitted quantity adds one
	w = r.do(t, http.MethodPost, "/cart/items", gin.H{"productId": "p1"})
	if view = decode[cartView](t, w); view.Count != 3 {
		t.Fatalf("view after default add: %+v", view)
	}

	w = r.do(t, http.MethodPatch, "/cart/items/p1", gin.H{"quantity": 5})
	if view = decode[cartView](t, w); view.Items[0].Quantity != 5 {
		t.Fatalf("view after update: %+v", view)
	}

	// zero quantity removes the line
	w = r.do(t, http.MethodPatch, "/cart/items/p1", gin.H{"quantity": 0})
	if view = decode[cartView](t, w); view.Count != 0 {
		t.Fatalf("view after zero update: %+v", view)
	}
}

func TestCartAddNegativeQuantityRejected(t *testing.T) {
	r := newRig(t, userSess())

	w := r.do(t, http.MethodPost, "/cart/items", gin.H{"productId": "p1", "quantity": -2})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCartAddSurvivesBackendOutage(t *testing.T) {
	r := newRig(t, userSess())
	r.remote.failed = true

	w := r.do(t, http.MethodPost, "/cart/items", gin.H{"productId": "p1", "quantity": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, optimistic add must still return 200", w.Code)
	}
	view := decode[cartView](t, w)
	if view.Count != 2 {
		t.Fatalf("mutation lost: %+v", view)
	}
	if view.Items[0].Sync != "failed" || view.SyncError == "" {
		t.Fatalf("sync state not surfaced: %+v", view)
	}
}

// --- Checkout ---

func TestCheckoutHappyPathOverHTTP(t *testing.T) {
	r := newRig(t, userSess())
	r.do(t, http.MethodPost, "/cart/items", gin.H{"productId": "p1", "quantity": 2})
	r.do(t, http.MethodPost, "/cart/items", gin.H{"productId": "p2", "quantity": 1})

	w := r.do(t, http.MethodPost, "/checkout", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("begin status = %d: %s", w.Code, w.Body.String())
	}
	view := decode[checkoutView](t, w)
	if view.StepName != "shipping_info" || view.Subtotal != 550 || view.Total != 600 {
		t.Fatalf("begin view: %+v", view)
	}

	w = r.do(t, http.MethodPost, "/checkout/shipping", domain.ShippingAddress{
		FullName: "Asha Rao", Email: "asha@example.com", Phone: "9876543210",
		AddressLine1: "12 MG Road", City: "Bengaluru", State: "Karnataka", PinCode: "560001",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("shipping status = %d: %s", w.Code, w.Body.String())
	}
	if view = decode[checkoutView](t, w); view.StepName != "review" {
		t.Fatalf("after shipping: %+v", view)
	}

	w = r.do(t, http.MethodPost, "/checkout/review", nil)
	view = decode[checkoutView](t, w)
	if view.StepName != "payment" || view.RemainingSeconds <= 0 {
		t.Fatalf("after review: %+v", view)
	}

	w = r.do(t, http.MethodPost, "/checkout/payment", gin.H{"upiId": "asha@okhdfc"})
	if w.Code != http.StatusOK {
		t.Fatalf("payment status = %d: %s", w.Code, w.Body.String())
	}
	result := decode[map[string]any](t, w)
	if result["orderId"] != "ORD-1" || result["status"] != "completed" {
		t.Fatalf("payment result: %v", result)
	}

	// cart is empty after the order
	w = r.do(t, http.MethodGet, "/cart", nil)
	if view := decode[cartView](t, w); view.Count != 0 {
		t.Fatalf("cart after order: %+v", view)
	}
}

func TestCheckoutBeginEmptyCart(t *testing.T) {
	r := newRig(t, userSess())

	w := r.do(t, http.MethodPost, "/checkout", nil)
	if w.Code != http.StatusConflict || errCode(t, w) != "empty_cart" {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCheckoutGetWithoutActiveFlow(t *testing.T) {
	r := newRig(t, userSess())

	w := r.do(t, http.MethodGet, "/checkout", nil)
	if w.Code != http.StatusNotFound || errCode(t, w) != "no_active_checkout" {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCheckoutWrongStepConflicts(t *testing.T) {
	r := newRig(t, userSess())
	r.do(t, http.MethodPost, "/cart/items", gin.H{"productId": "p1", "quantity": 1})
	r.do(t, http.MethodPost, "/checkout", nil)

	w := r.do(t, http.MethodPost, "/checkout/review", nil)
	if w.Code != http.StatusConflict || errCode(t, w) != "wrong_step" {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	w = r.do(t, http.MethodPost, "/checkout/payment", gin.H{"upiId": "abc@hdfc"})
	if w.Code != http.StatusConflict || errCode(t, w) != "wrong_step" {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func advanceRigToPayment(t *testing.T, r *rig) {
	t.Helper()
	r.do(t, http.MethodPost, "/cart/items", gin.H{"productId": "p1", "quantity": 2})
	if w := r.do(t, http.MethodPost, "/checkout", nil); w.Code != http.StatusCreated {
		t.Fatalf("begin: %d %s", w.Code, w.Body.String())
	}
	w := r.do(t, http.MethodPost, "/checkout/shipping", domain.ShippingAddress{
		FullName: "Asha Rao", Email: "asha@example.com", Phone: "9876543210",
		AddressLine1: "12 MG Road", City: "Bengaluru", State: "Karnataka", PinCode: "560001",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("shipping: %d %s", w.Code, w.Body.String())
	}
	if w := r.do(t, http.MethodPost, "/checkout/review", nil); w.Code != http.StatusOK {
		t.Fatalf("review: %d %s", w.Code, w.Body.String())
	}
}

func TestCheckoutPaymentInvalidUPIOverHTTP(t *testing.T) {
	r := newRig(t, userSess())
	advanceRigToPayment(t, r)

	w := r.do(t, http.MethodPost, "/checkout/payment", gin.H{"upiId": "not a upi"})
	if w.Code != http.StatusBadRequest || errCode(t, w) != "invalid_upi" {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCheckoutPaymentDeclinedOverHTTP(t *testing.T) {
	r := newRig(t, userSess())
	r.payments.err = usecase.ErrPaymentDeclined
	advanceRigToPayment(t, r)

	w := r.do(t, http.MethodPost, "/checkout/payment", gin.H{"upiId": "abc@hdfc"})
	if w.Code != http.StatusPaymentRequired || errCode(t, w) != "payment_declined" {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	// the payment step stays open for a retry
	w = r.do(t, http.MethodGet, "/checkout", nil)
	if view := decode[checkoutView](t, w); view.StepName != "payment" {
		t.Fatalf("after decline: %+v", view)
	}
}

func TestCheckoutOrderFailureOverHTTP(t *testing.T) {
	r := newRig(t, userSess())
	r.orders.err = errDown
	advanceRigToPayment(t, r)

	w := r.do(t, http.MethodPost, "/checkout/payment", gin.H{"upiId": "abc@hdfc"})
	if w.Code != http.StatusBadGateway || errCode(t, w) != "order_failed" {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}
