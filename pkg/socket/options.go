package socket

import (
	"github.com/sockbase/sockbase/pkg/drain"
	"github.com/sockbase/sockbase/pkg/netinfo"
)

// Option sets option for descriptor construction
type Option func(o *options)

type options struct {
	resolver *netinfo.Resolver
	guard    drain.Guard
}

func newOptions(opts []Option) *options {
	o := &options{
		resolver: netinfo.NewResolver(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// newGuard returns the configured guard, defaulting to a fixed worker
// pool.
func (o *options) newGuard() drain.Guard {
	if o.guard != nil {
		return o.guard
	}
	return drain.NewPool(drain.DefaultPoolSize)
}

// WithResolver sets the interface resolver used by NewNetwork.
func WithResolver(r *netinfo.Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithGuard sets the drain guard realization owned by the descriptor.
// The default is a two-worker pool; a CountingGuard trades the bounded
// pool for one goroutine per task.
func WithGuard(g drain.Guard) Option {
	return func(o *options) {
		o.guard = g
	}
}
