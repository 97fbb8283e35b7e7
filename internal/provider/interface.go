package provider

import (
	"context"
	"sync"

	"github.com/latticefin/lattice/internal/core"
)

// Provider supplies asset records and regulatory events from an
// upstream source (market data vendor, filing feed, fixture set).
type Provider interface {
	Name() string
	Assets(ctx context.Context) ([]core.Asset, error)
	Events(ctx context.Context) ([]core.RegulatoryEvent, error)
}

// Registry manages provider plugins
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	order     []string
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[p.Name()]; !ok {
		r.order = append(r.order, p.Name())
	}
	r.providers[p.Name()] = p
}

// Get retrieves a provider by name
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// GetAll returns all registered providers in registration order.
func (r *Registry) GetAll() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Provider, 0, len(r.providers))
	for _, name := range r.order {
		result = append(result, r.providers[name])
	}
	return result
}
