package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/VirajMandavkar/luminaire-storefront/internal/logging"
)

// CartReconciler periodically retries carts whose write-through failed.
// Optimistic updates never roll back, so this loop is what eventually brings
// the backing store in line with what the user saw.
type CartReconciler struct {
	reg      *Registry
	interval time.Duration
	log      *slog.Logger
}

func NewCartReconciler(reg *Registry, interval time.Duration) *CartReconciler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &CartReconciler{reg: reg, interval: interval, log: logging.New("cart-reconciler")}
}

// Start begins the retry loop; non-blocking, stops when ctx is cancelled.
func (w *CartReconciler) Start(ctx context.Context) {
	go func() {
		t := time.NewTicker(w.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				w.pass(ctx)
			}
		}
	}()
}

func (w *CartReconciler) pass(ctx context.Context) {
	for _, st := range w.reg.Snapshot() {
		if !st.Cart.Dirty() {
			continue
		}
		if err := st.Cart.Resync(ctx); err != nil {
			w.log.Warn("cart resync failed, will retry", "err", err)
			continue
		}
		w.log.Info("cart resynced", "session", st.Cart.Session().Key())
	}
}
