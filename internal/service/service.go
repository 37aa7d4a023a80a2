// Package service turns validated request bodies into stored documents. It
// builds insert documents and sparse change sets, scopes every item
// operation by its owning list and maps store outcomes onto domain errors.
package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"shoppinglist-api/internal/constraints"
	"shoppinglist-api/internal/ids"
	"shoppinglist-api/internal/metrics"
	"shoppinglist-api/internal/storage"
)

var (
	// ErrMalformedID is returned before any store access when a path
	// identifier is not 32 hex characters
	ErrMalformedID   = errors.New("malformed identifier")
	ErrInvalidListID = fmt.Errorf("invalid list id: %w", ErrMalformedID)
	ErrInvalidItemID = fmt.Errorf("invalid item id: %w", ErrMalformedID)

	ErrListNotFound = fmt.Errorf("list not found: %w", storage.ErrNotFound)
	ErrItemNotFound = fmt.Errorf("item not found: %w", storage.ErrNotFound)
)

// Clock stamps documents. Successive stamps from one Clock are strictly
// increasing, so an update never repeats the updatedAt it replaces.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

// NewClock wraps now; a nil now uses time.Now
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Now returns the current UTC time at microsecond precision
func (c *Clock) Now() time.Time {
	t := c.now().UTC().Truncate(time.Microsecond)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

type options struct {
	clock   *Clock
	metrics *metrics.Metrics
	cascade bool
}

// Option configures a service
type Option func(*options)

// WithClock shares a clock between services
func WithClock(c *Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithMetrics records store outcomes and validation failures
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithCascadeDelete makes list deletion remove the list's items afterwards.
// The follow-up delete is best effort and not atomic with the list delete.
func WithCascadeDelete(enabled bool) Option {
	return func(o *options) { o.cascade = enabled }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = NewClock(nil)
	}
	return o
}

// canonicalID checks a path identifier and lowercases it
func canonicalID(raw string, invalid error) (string, error) {
	if !ids.IsValid(raw) {
		return "", invalid
	}
	return ids.Canonical(raw), nil
}

// storeError translates a store failure, replacing a not-found with
// notFound and recording the outcome under operation
func storeError(m *metrics.Metrics, operation string, err error, notFound error) error {
	if err == nil {
		m.StoreOperation(operation, metrics.OutcomeOK)
		return nil
	}

	translated := constraints.Translate(err)
	var violation *constraints.Violation
	switch {
	case errors.Is(translated, storage.ErrNotFound):
		m.StoreOperation(operation, metrics.OutcomeNotFound)
		if notFound != nil {
			return notFound
		}
		return translated
	case errors.As(translated, &violation):
		m.StoreOperation(operation, metrics.OutcomeConstraint)
		return violation
	default:
		m.StoreOperation(operation, metrics.OutcomeError)
		return fmt.Errorf("%s: %w", operation, translated)
	}
}
