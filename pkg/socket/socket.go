// Package socket defines the descriptor core that concrete socket types
// (TCP listener, UDP endpoint, UNIX domain socket) build upon: family,
// type and protocol configuration, the address kind resolved or stored
// at construction, the operational policy constants downstream I/O code
// must honor, and the drain guard that fences descriptor teardown off
// from in-flight background work.
package socket

import (
	"errors"
	"time"

	"github.com/sockbase/sockbase/pkg/drain"
	"github.com/sockbase/sockbase/pkg/netinfo"
)

// Operational policy, identical across all descriptors. Downstream
// socket implementations read these instead of carrying their own.
const (
	// MaxPollEvents caps how many readiness events one poll cycle handles.
	MaxPollEvents = 32

	// SendTimeout bounds a single send operation.
	SendTimeout = 1000 * time.Millisecond
	// ReceiveTimeout bounds a single receive operation.
	ReceiveTimeout = 1000 * time.Millisecond
	// ConnectTimeout bounds connection establishment.
	ConnectTimeout = 1000 * time.Millisecond
	// AcceptTimeout bounds a single accept wait.
	AcceptTimeout = 1000 * time.Millisecond
)

var (
	// ErrNotNetworkFamily reports NewNetwork called with a non-network family.
	ErrNotNetworkFamily = errors.New("socket: family is not a network family")
	// ErrNotDomainFamily reports NewDomain called with a non-domain family.
	ErrNotDomainFamily = errors.New("socket: family is not a domain family")
)

// Config selects the address family, socket type and protocol of a
// descriptor. Type and Proto are forwarded to the OS uninterpreted.
type Config struct {
	Family Family
	Type   SockType
	Proto  Protocol
}

// Descriptor is the configured, not yet I/O-capable core of a socket.
// Its address kind and interface info are written once at construction
// and are safe for unsynchronized concurrent reads; the drain guard is
// the only mutable shared state.
type Descriptor struct {
	cfg   Config
	addr  Addr
	guard drain.Guard
}

// NewNetwork constructs a network-mode descriptor bound to the named
// interface. Legal only for the Inet and Inet6 families. The interface
// is resolved exactly once, here, on the calling goroutine; a resolution
// failure aborts construction and no descriptor exists.
func NewNetwork(cfg Config, ifname string, opts ...Option) (*Descriptor, error) {
	if !cfg.Family.IsNetwork() {
		return nil, ErrNotNetworkFamily
	}

	o := newOptions(opts)
	info, err := o.resolver.Resolve(cfg.Family.netFamily(), ifname)
	if err != nil {
		return nil, err
	}

	return &Descriptor{
		cfg:   cfg,
		addr:  NetworkAddr{Iface: ifname, Info: info},
		guard: o.newGuard(),
	}, nil
}

// NewDomain constructs a domain-mode descriptor. Legal only for the Unix
// family. Path may be empty for a descriptor that is not yet bound to a
// filesystem path. The interface resolver is never consulted.
func NewDomain(cfg Config, path string, opts ...Option) (*Descriptor, error) {
	if !cfg.Family.IsDomain() {
		return nil, ErrNotDomainFamily
	}

	o := newOptions(opts)
	return &Descriptor{
		cfg:   cfg,
		addr:  DomainAddr{Path: path},
		guard: o.newGuard(),
	}, nil
}

// Family returns the configured address family.
func (d *Descriptor) Family() Family { return d.cfg.Family }

// SockType returns the configured socket type.
func (d *Descriptor) SockType() SockType { return d.cfg.Type }

// Protocol returns the configured protocol.
func (d *Descriptor) Protocol() Protocol { return d.cfg.Proto }

// Addr returns the descriptor's address kind for per-variant dispatch.
func (d *Descriptor) Addr() Addr { return d.addr }

// Netinfo returns the interface info cached at construction. ok is false
// for a domain-mode descriptor.
func (d *Descriptor) Netinfo() (info *netinfo.Info, ok bool) {
	if a, isNet := d.addr.(NetworkAddr); isNet {
		return a.Info, true
	}
	return nil, false
}

// Iface returns the interface name the descriptor was resolved against.
// ok is false for a domain-mode descriptor.
func (d *Descriptor) Iface() (name string, ok bool) {
	if a, isNet := d.addr.(NetworkAddr); isNet {
		return a.Iface, true
	}
	return "", false
}

// Path returns the stored filesystem path. ok is false for a
// network-mode descriptor.
func (d *Descriptor) Path() (path string, ok bool) {
	if a, isDom := d.addr.(DomainAddr); isDom {
		return a.Path, true
	}
	return "", false
}

// Guard exposes the drain guard so an executor can coordinate shutdown
// with the descriptor.
func (d *Descriptor) Guard() drain.Guard { return d.guard }

// Submit hands background work to the descriptor's drain guard. The
// work is guaranteed to complete before Close returns.
func (d *Descriptor) Submit(task func()) error {
	return d.guard.Submit(task)
}

// Close drains the descriptor: it refuses further work and blocks until
// every unit of submitted work has completed, so no background task can
// observe descriptor state past this point. Safe to call more than once.
func (d *Descriptor) Close() {
	d.guard.Stop()
}
