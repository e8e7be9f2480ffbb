package usecase

import (
	"context"

	domain "github.com/VirajMandavkar/luminaire-storefront/internal/entity"
)

// ListProductsQuery is passed through to the backend's GET /products.
type ListProductsQuery struct {
	Limit    int
	Featured *bool
	Category string
	Search   string
}

// ProductGateway reads the remote catalog.
type ProductGateway interface {
	ListProducts(ctx context.Context, q ListProductsQuery) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// CartBackend is the server-persisted cart for authenticated sessions.
// ReplaceCart overwrites the whole line list, mirroring POST /cart.
type CartBackend interface {
	FetchCart(ctx context.Context, token string) ([]domain.CartLine, error)
	ReplaceCart(ctx context.Context, token string, lines []domain.CartLine) error
}

// OrderBackend creates and reads persisted orders.
type OrderBackend interface {
	CreateOrder(ctx context.Context, token string, draft domain.OrderDraft) (*domain.Order, error)
	ListOrders(ctx context.Context, token string) ([]domain.Order, error)
	GetOrder(ctx context.Context, token, orderID string) (*domain.Order, error)
}

// GuestCartStore persists carts for unauthenticated sessions, one JSON line
// list per guest ID. The localStorage of this storefront.
type GuestCartStore interface {
	Load(ctx context.Context, guestID string) ([]domain.CartLine, bool, error)
	Save(ctx context.Context, guestID string, lines []domain.CartLine) error
	Delete(ctx context.Context, guestID string) error
}

// PaymentRequest describes one simulated charge attempt.
type PaymentRequest struct {
	UPIID  string
	Amount float64
}

// PaymentGateway settles a payment. The only implementation simulates UPI.
type PaymentGateway interface {
	Charge(ctx context.Context, req PaymentRequest) error
}
