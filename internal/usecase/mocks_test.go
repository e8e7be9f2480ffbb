package usecase

import (
	"context"
	"errors"
	"sync"

	domain "github.com/VirajMandavkar/luminaire-storefront/internal/entity"
)

var errBoom = errors.New("backing store unavailable")

// fakeCartBackend records ReplaceCart calls and can be flipped to fail.
type fakeCartBackend struct {
	mu       sync.Mutex
	remote   []domain.CartLine
	fail     bool
	replaces int
	fetches  int
}

func (f *fakeCartBackend) FetchCart(ctx context.Context, token string) ([]domain.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fail {
		return nil, errBoom
	}
	out := make([]domain.CartLine, len(f.remote))
	copy(out, f.remote)
	return out, nil
}

func (f *fakeCartBackend) ReplaceCart(ctx context.Context, token string, lines []domain.CartLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaces++
	if f.fail {
		return errBoom
	}
	f.remote = make([]domain.CartLine, len(lines))
	copy(f.remote, lines)
	return nil
}

func (f *fakeCartBackend) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

type fakeGuestStore struct {
	mu    sync.Mutex
	carts map[string][]domain.CartLine
	fail  bool
}

func newFakeGuestStore() *fakeGuestStore {
	return &fakeGuestStore{carts: map[string][]domain.CartLine{}}
}

func (f *fakeGuestStore) Load(ctx context.Context, guestID string) ([]domain.CartLine, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, false, errBoom
	}
	lines, ok := f.carts[guestID]
	return lines, ok, nil
}

func (f *fakeGuestStore) Save(ctx context.Context, guestID string, lines []domain.CartLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBoom
	}
	cp := make([]domain.CartLine, len(lines))
	copy(cp, lines)
	f.carts[guestID] = cp
	return nil
}

func (f *fakeGuestStore) Delete(ctx context.Context, guestID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, guestID)
	return nil
}

func (f *fakeGuestStore) has(guestID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.carts[guestID]
	return ok
}

type fakeProducts struct {
	products map[string]domain.Product
}

func (f *fakeProducts) ListProducts(ctx context.Context, q ListProductsQuery) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

type fakeOrders struct {
	mu      sync.Mutex
	created []domain.OrderDraft
	fail    bool
}

func (f *fakeOrders) CreateOrder(ctx context.Context, token string, draft domain.OrderDraft) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errBoom
	}
	f.created = append(f.created, draft)
	return &domain.Order{OrderID: "ORD-1", Subtotal: draft.Subtotal, Total: draft.Total, Status: domain.StatusPending}, nil
}

func (f *fakeOrders) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	return nil, nil
}

func (f *fakeOrders) GetOrder(ctx context.Context, token, orderID string) (*domain.Order, error) {
	return nil, domain.ErrOrderNotFound
}

// fakePayments settles or declines per the scripted outcomes, in order.
type fakePayments struct {
	mu       sync.Mutex
	outcomes []error
	requests []PaymentRequest
}

func (f *fakePayments) Charge(ctx context.Context, req PaymentRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if len(f.outcomes) == 0 {
		return nil
	}
	out := f.outcomes[0]
	f.outcomes = f.outcomes[1:]
	return out
}
