package backend

import (
	"context"
	"fmt"
	"sort"

	"github.com/openqx/qflip/internal/circuit"
)

// Registry holds the backends available to a run. Listings are sorted
// so the backends field of the output record is deterministic.
type Registry struct {
	backends map[string]Backend
}

// NewRegistry builds the registry for a registration state: the local
// simulator always, plus the remote provider's backends when
// authenticated. Remote backends are listable but refuse execution -
// the remote wire protocol is not implemented here.
func NewRegistry(reg *Registration) *Registry {
	r := &Registry{backends: make(map[string]Backend)}
	r.Add(NewLocalSimulator())

	if reg != nil && reg.State == Authenticated {
		for _, name := range reg.Credentials.Backends {
			r.Add(&remoteStub{name: name})
		}
	}

	return r
}

// Add registers a backend under its name, replacing any previous entry.
func (r *Registry) Add(b Backend) {
	r.backends[b.Name()] = b
}

// Get returns the named backend.
func (r *Registry) Get(name string) (Backend, error) {
	b, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (available: %v)", name, r.Names())
	}
	return b, nil
}

// Names lists the available backend identifiers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// remoteStub stands in for a provider-hosted backend. It exists only
// so authenticated listings reflect what the provider offers.
type remoteStub struct {
	name string
}

func (s *remoteStub) Name() string    { return s.name }
func (s *remoteStub) Simulator() bool { return false }

func (s *remoteStub) Run(ctx context.Context, c *circuit.Circuit, opts RunOptions) (*Result, error) {
	return nil, fmt.Errorf("backend %s: remote execution is not supported, use %s", s.name, DefaultName)
}
