// Package views tracks how fresh each logical read view is. The core bumps a view's version when
// it changes state; HTTP handlers turn the version into an ETag.
package views

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"courtshare/internal/domain"
)

// Registry is an in-memory domain.ViewInvalidator. Versions only grow.
type Registry struct {
	epoch    string
	mu       sync.RWMutex
	versions map[string]uint64
}

// NewRegistry returns an empty Registry with a fresh epoch. Every view starts at version 0.
func NewRegistry() *Registry {
	return &Registry{epoch: uuid.NewString(), versions: make(map[string]uint64)}
}

// Epoch identifies this registry instance, so versions from before a restart never match.
func (r *Registry) Epoch() string {
	return r.epoch
}

// Invalidate marks each view stale by bumping its version.
func (r *Registry) Invalidate(_ context.Context, views ...domain.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range views {
		r.versions[v.String()]++
	}
}

// Version returns the current version of view.
func (r *Registry) Version(view domain.View) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.versions[view.String()]
}

var _ domain.ViewInvalidator = (*Registry)(nil)
