package network

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/mailcron/internal/provisioning"
)

// Lookup queries a backend for the network identified by id.
type Lookup interface {
	LookupNetwork(ctx context.Context, id string) (*provisioning.NetworkHandle, error)
}

// Provider resolves network identifiers and remembers the outcome, handle or
// error, for the lifetime of the provider. One provider serves one assembly
// run, so each identifier is looked up at most once per run.
type Provider struct {
	lookup   Lookup
	source   string
	metrics  *provisioning.Metrics
	observer provisioning.Observer
	handles  map[string]*provisioning.NetworkHandle
	failures map[string]error
	lookups  int
}

// Option configures a Provider.
type Option func(*Provider)

// WithMetrics records lookups in m.
func WithMetrics(m *provisioning.Metrics) Option {
	return func(p *Provider) { p.metrics = m }
}

// WithObserver reports reuse of remembered outcomes to o.
func WithObserver(o provisioning.Observer) Option {
	return func(p *Provider) { p.observer = o }
}

// WithSource labels the lookup backend in metrics ("lookup" by default).
func WithSource(source string) Option {
	return func(p *Provider) { p.source = source }
}

// NewProvider creates a provider backed by lookup.
func NewProvider(lookup Lookup, opts ...Option) *Provider {
	p := &Provider{
		lookup:   lookup,
		source:   "lookup",
		observer: provisioning.NewDiscardObserver(),
		handles:  make(map[string]*provisioning.NetworkHandle),
		failures: make(map[string]error),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve implements provisioning.NetworkResolver.
func (p *Provider) Resolve(ctx context.Context, id string) (*provisioning.NetworkHandle, error) {
	if id == "" {
		return nil, &provisioning.ResolutionError{Kind: "vpc", ID: id, Err: errors.New("empty network identifier")}
	}
	if h, ok := p.handles[id]; ok {
		p.metrics.RecordNetworkLookup("memo", nil)
		provisioning.LogResourceReused(p.observer, phaseName, "vpc", id, nil)
		return h, nil
	}
	if err, ok := p.failures[id]; ok {
		p.metrics.RecordNetworkLookup("memo", err)
		provisioning.LogResourceReused(p.observer, phaseName, "vpc", id, err)
		return nil, err
	}

	p.lookups++
	h, err := p.lookup.LookupNetwork(ctx, id)
	if err == nil {
		err = validateHandle(id, h)
	}
	p.metrics.RecordNetworkLookup(p.source, err)
	if err != nil {
		if !provisioning.IsResolutionError(err) {
			err = &provisioning.ResolutionError{Kind: "vpc", ID: id, Err: err}
		}
		p.failures[id] = err
		return nil, err
	}

	p.handles[id] = h
	return h, nil
}

// Lookups returns how many backend lookups the provider performed.
func (p *Provider) Lookups() int {
	return p.lookups
}

func validateHandle(id string, h *provisioning.NetworkHandle) error {
	if h == nil {
		return &provisioning.ResolutionError{Kind: "vpc", ID: id, Err: provisioning.ErrNotFound}
	}
	if len(h.SubnetIDs) == 0 {
		return &provisioning.ResolutionError{Kind: "subnets", ID: id, Err: fmt.Errorf("no private subnets: %w", provisioning.ErrNotFound)}
	}
	return nil
}

// StaticLookup serves a handle pinned in configuration.
type StaticLookup struct {
	Handle provisioning.NetworkHandle
}

// LookupNetwork implements Lookup.
func (s StaticLookup) LookupNetwork(_ context.Context, id string) (*provisioning.NetworkHandle, error) {
	if id != s.Handle.ID {
		return nil, fmt.Errorf("network %s is not pinned in configuration: %w", id, provisioning.ErrNotFound)
	}
	h := s.Handle
	h.SubnetIDs = append([]string(nil), s.Handle.SubnetIDs...)
	h.AvailabilityZones = append([]string(nil), s.Handle.AvailabilityZones...)
	return &h, nil
}
