package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	domain "github.com/VirajMandavkar/luminaire-storefront/internal/entity"
	"github.com/VirajMandavkar/luminaire-storefront/internal/logging"
)

// CartManager owns one session's cart. Mutations are optimistic: in-memory
// state changes first, then the write-through runs (remote replace when
// authenticated, guest store otherwise). A failed write-through never rolls
// the mutation back; affected lines are marked SyncFailed so the reconciler
// can retry them later.
type CartManager struct {
	mu     sync.Mutex
	cart   domain.Cart
	sess   Session
	remote CartBackend
	guests GuestCartStore
	log    *slog.Logger
}

func NewCartManager(remote CartBackend, guests GuestCartStore, sess Session) *CartManager {
	return &CartManager{
		remote: remote,
		guests: guests,
		sess:   sess,
		log:    logging.New("cart").With("session", sess.Key()),
	}
}

// Load pulls the cart from its source of truth. Fetch failures are logged
// and leave the cart empty rather than failing the session; the worst case
// is a stale view, recoverable by reload.
func (m *CartManager) Load(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess.Authenticated() {
		lines, err := m.remote.FetchCart(ctx, m.sess.Token)
		if err != nil {
			m.log.Error("fetch remote cart", "err", err)
			return
		}
		m.cart.Lines = lines
	} else {
		lines, ok, err := m.guests.Load(ctx, m.sess.GuestID)
		if err != nil {
			m.log.Error("load guest cart", "err", err)
			return
		}
		if ok {
			m.cart.Lines = lines
		}
	}
	m.cart.MarkAll(domain.SyncClean)
}

// Session returns the auth state the manager currently runs under.
func (m *CartManager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess
}

// SetSession swaps the auth state and re-resolves the source of truth:
// remote-backed when a user session exists, guest-store-backed otherwise.
// The guest store entry is deliberately left in place on login; the remote
// cart wins but nothing is silently discarded.
func (m *CartManager) SetSession(ctx context.Context, sess Session) {
	m.mu.Lock()
	m.sess = sess
	m.log = logging.New("cart").With("session", sess.Key())
	m.mu.Unlock()
	m.Load(ctx)
}

// Lines returns a copy of the current cart lines.
func (m *CartManager) Lines() []domain.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CartLine, len(m.cart.Lines))
	copy(out, m.cart.Lines)
	return out
}

// Count is the derived sum of all line quantities.
func (m *CartManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Count()
}

// AddToCart merges qty into an existing line or appends a new one, then
// persists. The returned error reports the persistence outcome only; the
// in-memory mutation always sticks.
func (m *CartManager) AddToCart(ctx context.Context, productID string, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart.Add(productID, qty)
	return m.persistLocked(ctx)
}

// UpdateQuantity replaces a line's quantity; qty <= 0 behaves as remove.
func (m *CartManager) UpdateQuantity(ctx context.Context, productID string, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cart.SetQuantity(productID, qty) {
		return nil
	}
	return m.persistLocked(ctx)
}

// RemoveFromCart filters out the line and persists.
func (m *CartManager) RemoveFromCart(ctx context.Context, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cart.Remove(productID) {
		return nil
	}
	return m.persistLocked(ctx)
}

// ClearCart empties the in-memory cart and deletes the guest store entry.
// It does not clear the remote cart; order creation does that server-side.
func (m *CartManager) ClearCart(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart.Clear()
	if !m.sess.Authenticated() {
		if err := m.guests.Delete(ctx, m.sess.GuestID); err != nil {
			m.log.Error("delete guest cart", "err", err)
			return fmt.Errorf("delete guest cart: %w", err)
		}
	}
	return nil
}

// Dirty reports whether any line is still pending or failed persistence.
func (m *CartManager) Dirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Dirty()
}

// Resync retries persistence for a cart with failed or pending lines.
func (m *CartManager) Resync(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cart.Dirty() {
		return nil
	}
	return m.persistLocked(ctx)
}

func (m *CartManager) persistLocked(ctx context.Context) error {
	lines := make([]domain.CartLine, len(m.cart.Lines))
	copy(lines, m.cart.Lines)

	var err error
	if m.sess.Authenticated() {
		err = m.remote.ReplaceCart(ctx, m.sess.Token, lines)
	} else {
		err = m.guests.Save(ctx, m.sess.GuestID, lines)
	}
	if err != nil {
		m.cart.MarkAll(domain.SyncFailed)
		m.log.Error("persist cart", "err", err, "lines", len(lines))
		return fmt.Errorf("persist cart: %w", err)
	}
	m.cart.MarkAll(domain.SyncClean)
	return nil
}
