// Package payment holds the simulated UPI gateway. No real money moves: a
// charge blocks for a fixed processing delay and then succeeds with a
// configured probability.
package payment

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/VirajMandavkar/luminaire-storefront/internal/logging"
	"github.com/VirajMandavkar/luminaire-storefront/internal/usecase"
)

var paymentAttempts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "payment_attempts_total",
		Help: "Simulated payment attempts by outcome",
	},
	[]string{"outcome"},
)

type Simulator struct {
	delay       time.Duration
	successRate float64
	roll        func() float64
	sleep       func(ctx context.Context, d time.Duration) error
	log         *slog.Logger
}

// --- Options ---

type Option func(*Simulator)

// WithRoll replaces the uniform draw; tests pin the outcome with it.
func WithRoll(roll func() float64) Option { return func(s *Simulator) { s.roll = roll } }

// WithSleep replaces the processing delay; tests skip the wait with it.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Simulator) { s.sleep = sleep }
}

// NewSimulator constructs a Simulator. Defaults: delay=3s, successRate=0.9.
func NewSimulator(delay time.Duration, successRate float64, opts ...Option) *Simulator {
	if delay <= 0 {
		delay = 3 * time.Second
	}
	if successRate <= 0 || successRate > 1 {
		successRate = 0.9
	}
	s := &Simulator{
		delay:       delay,
		successRate: successRate,
		roll:        rand.Float64,
		sleep:       sleepCtx,
		log:         logging.New("payment"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Charge simulates settling req. The fixed delay stands in for the acquirer
// round trip; a draw above the success rate declines the payment.
func (s *Simulator) Charge(ctx context.Context, req usecase.PaymentRequest) error {
	if err := s.sleep(ctx, s.delay); err != nil {
		paymentAttempts.WithLabelValues("cancelled").Inc()
		return err
	}

	if s.roll() < s.successRate {
		paymentAttempts.WithLabelValues("success").Inc()
		s.log.Info("payment settled", "amount", req.Amount)
		return nil
	}
	paymentAttempts.WithLabelValues("declined").Inc()
	s.log.Warn("payment declined", "amount", req.Amount)
	return usecase.ErrPaymentDeclined
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ usecase.PaymentGateway = (*Simulator)(nil)
