package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imamik/mailcron/internal/config"
)

// Config holds retry configuration.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// Option is a functional option for retry configuration.
type Option func(*Config)

func newConfig(opts []Option) *Config {
	cfg := &Config{
		MaxAttempts:  6,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return cfg
}

// Do runs operation until it succeeds, returns a fatal error, the attempts
// are exhausted or ctx is done.
func Do(ctx context.Context, operation func(ctx context.Context) error, opts ...Option) error {
	cfg := newConfig(opts)
	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := operation(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if IsFatal(err) {
			return fmt.Errorf("fatal error (not retrying): %w", err)
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		if err := sleep(ctx, delay); err != nil {
			return fmt.Errorf("context cancelled after %d attempts: %w", attempt, err)
		}
		delay = next(cfg, delay)
	}

	return fmt.Errorf("operation failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

// Poll calls check until it reports done. Errors from check end the wait
// immediately; a condition that never completes ends with ErrExhausted.
func Poll(ctx context.Context, check func(ctx context.Context) (bool, error), opts ...Option) error {
	cfg := newConfig(opts)
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		if err := sleep(ctx, delay); err != nil {
			return fmt.Errorf("context cancelled after %d polls: %w", attempt, err)
		}
		delay = next(cfg, delay)
	}

	return fmt.Errorf("%w after %d polls", ErrExhausted, cfg.MaxAttempts)
}

// ErrExhausted is returned by Poll when the condition never completed.
var ErrExhausted = errors.New("condition not met")

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func next(cfg *Config, delay time.Duration) time.Duration {
	delay = time.Duration(float64(delay) * cfg.Multiplier)
	if delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}

// FromTimeouts applies the poll settings of t.
func FromTimeouts(t *config.Timeouts) Option {
	return func(c *Config) {
		if t == nil {
			return
		}
		if t.RetryMaxAttempts > 0 {
			c.MaxAttempts = t.RetryMaxAttempts
		}
		if t.RetryInitialDelay > 0 {
			c.InitialDelay = t.RetryInitialDelay
		}
		if t.RetryMaxDelay > 0 {
			c.MaxDelay = t.RetryMaxDelay
		}
	}
}

// WithMaxAttempts sets the maximum number of attempts.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithInitialDelay sets the initial delay between attempts.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = d
	}
}

// WithMaxDelay sets the maximum delay between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

// WithMultiplier sets the backoff multiplier.
func WithMultiplier(m float64) Option {
	return func(c *Config) {
		c.Multiplier = m
	}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
