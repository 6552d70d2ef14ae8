package catalog

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Holder publishes the current catalog snapshot. Readers get a Store that
// never changes under them; Reload builds a new one and swaps it in.
type Holder struct {
	current atomic.Pointer[Store]
	loader  Loader
	logger  *logrus.Logger
}

// NewHolder wraps an initial snapshot. loader may be nil when reloads are not supported.
func NewHolder(initial *Store, loader Loader, logger *logrus.Logger) *Holder {
	h := &Holder{loader: loader, logger: logger}
	h.current.Store(initial)
	return h
}

// Current returns the active snapshot.
func (h *Holder) Current() *Store {
	return h.current.Load()
}

// Swap installs next and returns the previous snapshot.
func (h *Holder) Swap(next *Store) *Store {
	return h.current.Swap(next)
}

// Reload rebuilds the catalog from the loader. On failure the active
// snapshot is left in place.
func (h *Holder) Reload(ctx context.Context) (*Store, error) {
	if h.loader == nil {
		return nil, fmt.Errorf("catalog reload not supported: no loader configured")
	}

	next, err := NewFromLoader(ctx, h.loader)
	if err != nil {
		return nil, err
	}

	fields := logrus.Fields{
		"version": next.Version(),
		"records": next.Len(),
	}
	if previous := h.Swap(next); previous != nil {
		fields["previous_version"] = previous.Version()
	}
	h.logger.WithFields(fields).Info("Catalog reloaded")

	return next, nil
}

// NewFromLoader loads, cleans and indexes a catalog snapshot.
func NewFromLoader(ctx context.Context, loader Loader) (*Store, error) {
	raw, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	records, err := Build(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}

	return NewStore(records)
}
