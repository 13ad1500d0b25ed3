// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OrderAdvancer applies due automatic order transitions, at most batchSize per call
type OrderAdvancer interface {
	AdvanceDue(ctx context.Context, batchSize int) (int, error)
}

// OrderReconcilerConfig holds configuration for the order reconciler
type OrderReconcilerConfig struct {
	// Enabled determines if the reconciler is active
	Enabled bool

	// Interval between reconciliation runs
	Interval time.Duration

	// BatchSize caps the orders advanced per transaction
	BatchSize int

	// RunTimeout is the maximum time for a single run
	RunTimeout time.Duration
}

// DefaultOrderReconcilerConfig returns default configuration
func DefaultOrderReconcilerConfig() OrderReconcilerConfig {
	return OrderReconcilerConfig{
		Enabled:    false,
		Interval:   5 * time.Minute,
		BatchSize:  100,
		RunTimeout: time.Minute,
	}
}

// Validate checks the configuration
func (c OrderReconcilerConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", ErrInvalidConfig)
	}
	return nil
}

// OrderReconciler periodically moves orders whose delivery or return window has
// elapsed, so their status is current even when the owner never lists them.
// A run keeps advancing batches until one comes back short.
type OrderReconciler struct {
	advancer  OrderAdvancer
	logger    *zap.Logger
	config    OrderReconcilerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewOrderReconciler creates a new order reconciler
func NewOrderReconciler(advancer OrderAdvancer, logger *zap.Logger, config OrderReconcilerConfig) *OrderReconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = DefaultOrderReconcilerConfig().RunTimeout
	}
	return &OrderReconciler{
		advancer: advancer,
		logger:   logger,
		config:   config,
	}
}

// Start starts the reconciler loop; it is a no-op when disabled or already running
func (r *OrderReconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.isRunning {
		r.mu.Unlock()
		return nil
	}
	if !r.config.Enabled {
		r.mu.Unlock()
		r.logger.Info("Order reconciler is disabled")
		return nil
	}
	if err := r.config.Validate(); err != nil {
		r.mu.Unlock()
		return err
	}
	r.isRunning = true
	r.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.loop(ctx)

	r.logger.Info("Order reconciler started",
		zap.Duration("interval", r.config.Interval),
		zap.Int("batch_size", r.config.BatchSize),
	)
	return nil
}

// Stop gracefully stops the reconciler
func (r *OrderReconciler) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = false
	r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("Order reconciler stopped gracefully")
		return nil
	case <-ctx.Done():
		r.logger.Warn("Order reconciler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (r *OrderReconciler) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRunning
}

func (r *OrderReconciler) loop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce performs one reconciliation run and returns the number of orders advanced
func (r *OrderReconciler) RunOnce(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, r.config.RunTimeout)
	defer cancel()

	start := time.Now()
	total := 0
	for {
		n, err := r.advancer.AdvanceDue(ctx, r.config.BatchSize)
		total += n
		if err != nil {
			r.logger.Error("Order reconciliation failed",
				zap.Int("advanced", total),
				zap.Error(err),
			)
			return total
		}
		if n < r.config.BatchSize || ctx.Err() != nil {
			break
		}
	}

	if total > 0 {
		r.logger.Info("Orders reconciled",
			zap.Int("advanced", total),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return total
}
