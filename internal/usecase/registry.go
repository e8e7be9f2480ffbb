package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/VirajMandavkar/luminaire-storefront/internal/logging"
)

// SessionState bundles the per-session objects: the cart manager and, while
// a checkout is underway, its flow.
type SessionState struct {
	mu       sync.Mutex
	Cart     *CartManager
	checkout *CheckoutFlow
	lastSeen time.Time
}

func (s *SessionState) Checkout() *CheckoutFlow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout
}

// Registry owns all live session state. Sessions are created on first use
// and evicted by the janitor after the idle TTL; there are no ambient
// globals, every piece of state hangs off an entry here.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*SessionState

	remote   CartBackend
	guests   GuestCartStore
	products ProductGateway
	orders   OrderBackend
	payments PaymentGateway

	ttl    time.Duration
	window time.Duration
	now    func() time.Time
	log    *slog.Logger
}

// --- Options ---

type RegistryOption func(*Registry)

func WithSessionTTL(d time.Duration) RegistryOption {
	return func(r *Registry) { r.ttl = d }
}

func WithCheckoutWindow(d time.Duration) RegistryOption {
	return func(r *Registry) { r.window = d }
}

func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry constructs a Registry. Defaults: ttl=2h, window=120s.
func NewRegistry(remote CartBackend, guests GuestCartStore, products ProductGateway, orders OrderBackend, payments PaymentGateway, opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions: map[string]*SessionState{},
		remote:   remote,
		guests:   guests,
		products: products,
		orders:   orders,
		payments: payments,
		ttl:      2 * time.Hour,
		window:   DefaultPaymentWindow,
		now:      time.Now,
		log:      logging.New("registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Attach resolves the session state for sess, creating it on first sight.
// When a guest logs in and their first authenticated request still carries
// the guest ID, the existing guest manager is adopted and re-pointed at the
// remote store, so the auth change is one explicit SetSession rather than a
// fresh object losing track of what happened.
func (r *Registry) Attach(ctx context.Context, sess Session) *SessionState {
	key := sess.Key()

	r.mu.Lock()
	st, ok := r.sessions[key]
	if !ok && sess.Authenticated() && sess.GuestID != "" {
		gkey := Session{GuestID: sess.GuestID}.Key()
		if gst, gok := r.sessions[gkey]; gok {
			delete(r.sessions, gkey)
			r.sessions[key] = gst
			st, ok = gst, true
			r.mu.Unlock()
			st.Cart.SetSession(ctx, sess)
			r.mu.Lock()
			r.log.Info("guest session adopted", "guest", gkey, "user", key)
		}
	}
	if !ok {
		st = &SessionState{Cart: NewCartManager(r.remote, r.guests, sess)}
		r.sessions[key] = st
		r.mu.Unlock()
		st.Cart.Load(ctx)
		r.mu.Lock()
	}
	st.lastSeen = r.now()
	r.mu.Unlock()
	return st
}

// BeginCheckout creates and starts a fresh flow for the session, replacing
// any previous one.
func (r *Registry) BeginCheckout(ctx context.Context, st *SessionState) (*CheckoutFlow, error) {
	flow := NewCheckoutFlow(uuid.NewString(), st.Cart, r.products, r.orders, r.payments,
		WithPaymentWindow(r.window), WithClock(r.now))
	if err := flow.Start(ctx); err != nil {
		return nil, err
	}
	st.mu.Lock()
	st.checkout = flow
	st.mu.Unlock()
	return flow, nil
}

// Snapshot returns the live session states; used by the cart reconciler.
func (r *Registry) Snapshot() []*SessionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*SessionState, 0, len(r.sessions))
	for _, st := range r.sessions {
		out = append(out, st)
	}
	return out
}

// StartJanitor evicts idle sessions every interval until ctx is cancelled.
func (r *Registry) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				r.sweep()
			}
		}
	}()
}

func (r *Registry) sweep() {
	cutoff := r.now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, st := range r.sessions {
		if st.lastSeen.Before(cutoff) {
			delete(r.sessions, key)
			r.log.Info("session evicted", "session", key)
		}
	}
}
