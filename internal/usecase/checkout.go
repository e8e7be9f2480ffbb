package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	domain "github.com/VirajMandavkar/luminaire-storefront/internal/entity"
	"github.com/VirajMandavkar/luminaire-storefront/internal/logging"
)

// CheckoutStep enumerates the linear wizard: shipping info, review, payment.
// The only backward edge is Review -> ShippingInfo via EditAddress.
type CheckoutStep int

const (
	StepShippingInfo CheckoutStep = iota + 1
	StepReview
	StepPayment
	StepCompleted
)

func (s CheckoutStep) String() string {
	switch s {
	case StepShippingInfo:
		return "shipping_info"
	case StepReview:
		return "review"
	case StepPayment:
		return "payment"
	case StepCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// DefaultPaymentWindow bounds how long the payment step stays open before a
// submission is rejected and the window must be restarted.
const DefaultPaymentWindow = 120 * time.Second

// PricedLine is a cart line joined with its fetched product.
type PricedLine struct {
	Product   domain.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	LineTotal float64        `json:"lineTotal"`
}

// CheckoutFlow drives one checkout session. All state is confined to the
// session; a flow is created by BeginCheckout and torn down with it.
type CheckoutFlow struct {
	mu       sync.Mutex
	id       string
	cart     *CartManager
	products ProductGateway
	orders   OrderBackend
	payments PaymentGateway
	validate *validator.Validate
	window   time.Duration
	now      func() time.Time
	log      *slog.Logger

	step       CheckoutStep
	shipping   domain.ShippingAddress
	priced     []PricedLine
	subtotal   float64
	total      float64
	deadline   time.Time
	processing bool
	orderID    string
}

// --- Options ---

type FlowOption func(*CheckoutFlow)

func WithPaymentWindow(d time.Duration) FlowOption {
	return func(f *CheckoutFlow) { f.window = d }
}

func WithClock(now func() time.Time) FlowOption {
	return func(f *CheckoutFlow) { f.now = now }
}

func NewCheckoutFlow(id string, cart *CartManager, products ProductGateway, orders OrderBackend, payments PaymentGateway, opts ...FlowOption) *CheckoutFlow {
	f := &CheckoutFlow{
		id:       id,
		cart:     cart,
		products: products,
		orders:   orders,
		payments: payments,
		validate: validator.New(),
		window:   DefaultPaymentWindow,
		now:      time.Now,
		log:      logging.New("checkout").With("checkout_id", id),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *CheckoutFlow) ID() string { return f.id }

// Start prices the cart and enters the shipping step. An empty cart cannot
// be checked out.
func (f *CheckoutFlow) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.cart.Lines()) == 0 {
		return ErrEmptyCart
	}
	if err := f.refreshPricingLocked(ctx); err != nil {
		return err
	}
	f.step = StepShippingInfo
	return nil
}

// refreshPricingLocked re-joins cart lines with the remote catalog and
// recomputes totals. Lines whose product no longer exists are dropped from
// pricing (they stay in the cart).
func (f *CheckoutFlow) refreshPricingLocked(ctx context.Context) error {
	lines := f.cart.Lines()
	priced := make([]PricedLine, 0, len(lines))
	for _, l := range lines {
		p, err := f.products.GetProduct(ctx, l.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				f.log.Warn("cart line product missing, excluded from pricing", "product_id", l.ProductID)
				continue
			}
			return fmt.Errorf("price cart line %s: %w", l.ProductID, err)
		}
		priced = append(priced, PricedLine{
			Product:   *p,
			Quantity:  l.Quantity,
			LineTotal: p.Price * float64(l.Quantity),
		})
	}

	var subtotal float64
	for _, pl := range priced {
		subtotal += pl.LineTotal
	}
	f.priced = priced
	f.subtotal = subtotal
	f.total = subtotal + domain.ShippingFlatFee
	return nil
}

// SubmitShipping validates the address form and advances to review.
func (f *CheckoutFlow) SubmitShipping(addr domain.ShippingAddress) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepShippingInfo {
		return ErrBadTransition
	}
	if err := f.validate.Struct(addr); err != nil {
		return fmt.Errorf("shipping address: %w", err)
	}
	f.shipping = addr
	f.step = StepReview
	return nil
}

// EditAddress returns from review to the shipping form.
func (f *CheckoutFlow) EditAddress() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepReview {
		return ErrBadTransition
	}
	f.step = StepShippingInfo
	return nil
}

// ContinueToPayment advances review -> payment and opens the payment window.
// Pure transition, nothing is recomputed.
func (f *CheckoutFlow) ContinueToPayment() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepReview {
		return ErrBadTransition
	}
	f.step = StepPayment
	f.deadline = f.now().Add(f.window)
	return nil
}

// RestartPaymentWindow reopens an expired window without leaving the payment
// step.
func (f *CheckoutFlow) RestartPaymentWindow() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepPayment {
		return ErrBadTransition
	}
	if f.processing {
		return ErrPaymentInFlight
	}
	f.deadline = f.now().Add(f.window)
	return nil
}

// Remaining is the time left in the payment window; zero outside the payment
// step or once expired.
func (f *CheckoutFlow) Remaining() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepPayment {
		return 0
	}
	left := f.deadline.Sub(f.now())
	if left < 0 {
		return 0
	}
	return left
}

// SubmitPayment runs the simulated charge and, on success, creates the order
// and clears the cart. A declined payment leaves the flow in the payment step
// for an immediate retry; no backoff, no attempt counter.
func (f *CheckoutFlow) SubmitPayment(ctx context.Context, upiID string) (string, error) {
	f.mu.Lock()
	if f.step != StepPayment {
		f.mu.Unlock()
		return "", ErrBadTransition
	}
	if f.processing {
		f.mu.Unlock()
		return "", ErrPaymentInFlight
	}
	if f.now().After(f.deadline) {
		f.mu.Unlock()
		return "", ErrPaymentWindowExpired
	}
	if !domain.ValidUPI(upiID) {
		f.mu.Unlock()
		return "", ErrInvalidUPI
	}
	f.processing = true
	amount := f.total
	f.mu.Unlock()

	// The charge blocks for the simulated processing delay; run it without
	// holding the lock so Remaining()/state reads stay responsive.
	chargeErr := f.payments.Charge(ctx, PaymentRequest{UPIID: upiID, Amount: amount})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.processing = false

	if chargeErr != nil {
		f.log.Warn("payment failed", "err", chargeErr)
		return "", chargeErr
	}

	draft := domain.OrderDraft{
		Items:           f.cart.Lines(),
		ShippingAddress: f.shipping,
		Subtotal:        f.subtotal,
		Shipping:        domain.ShippingFlatFee,
		Total:           f.total,
		PaymentMethod:   "UPI",
		UPIID:           upiID,
	}
	order, err := f.orders.CreateOrder(ctx, f.cart.Session().Token, draft)
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}

	if cerr := f.cart.ClearCart(ctx); cerr != nil {
		f.log.Error("clear cart after order", "err", cerr, "order_id", order.OrderID)
	}

	f.step = StepCompleted
	f.orderID = order.OrderID
	f.log.Info("order placed", "order_id", order.OrderID, "total", f.total)
	return order.OrderID, nil
}

// --- Read accessors for the HTTP layer ---

func (f *CheckoutFlow) Step() CheckoutStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *CheckoutFlow) Shipping() domain.ShippingAddress {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shipping
}

func (f *CheckoutFlow) Priced() []PricedLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]PricedLine, len(f.priced))
	copy(out, f.priced)
	return out
}

// Totals returns subtotal, flat shipping fee, and total.
func (f *CheckoutFlow) Totals() (float64, float64, float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subtotal, domain.ShippingFlatFee, f.total
}

func (f *CheckoutFlow) OrderID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderID
}

func (f *CheckoutFlow) Processing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.processing
}
