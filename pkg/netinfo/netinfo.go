// Package netinfo resolves a named network interface into the address,
// netmask, broadcast and scope information a socket descriptor caches at
// construction time.
package netinfo

import (
	"errors"
	"fmt"
	"net"

	"github.com/apparentlymart/go-cidr/cidr"
)

// Family selects which address family of an interface is resolved.
type Family int

const (
	// IPv4 resolves AF_INET addresses.
	IPv4 Family = iota + 1
	// IPv6 resolves AF_INET6 addresses.
	IPv6
)

func (f Family) String() string {
	switch f {
	case IPv4:
		return "inet"
	case IPv6:
		return "inet6"
	default:
		return "unknown"
	}
}

var (
	// ErrEnumerateInterfaces reports that the OS interface listing failed.
	ErrEnumerateInterfaces = errors.New("netinfo: enumerate interfaces")
	// ErrInterfaceNotFound reports that no interface matched the
	// requested name and family.
	ErrInterfaceNotFound = errors.New("netinfo: interface not found")
	// ErrConvertAddress reports that an address or netmask could not be
	// converted to a valid textual form.
	ErrConvertAddress = errors.New("netinfo: convert address")
)

// Info holds the resolved addressing of one interface in one family.
// It is computed once and never mutated, so concurrent reads need no
// synchronization.
type Info struct {
	HostAddr  string
	Netmask   string
	Broadcast string
	PrefixLen uint32
	ScopeID   uint32
}

// InterfaceLister returns the host's current network interfaces.
type InterfaceLister func() ([]net.Interface, error)

// AddrLister returns the addresses assigned to one interface.
type AddrLister func(iface *net.Interface) ([]net.Addr, error)

// Option sets option for resolver
type Option func(r *Resolver)

// WithInterfaceLister replaces the OS interface enumeration.
func WithInterfaceLister(list InterfaceLister) Option {
	return func(r *Resolver) {
		r.interfaces = list
	}
}

// WithAddrLister replaces the per-interface address listing.
func WithAddrLister(list AddrLister) Option {
	return func(r *Resolver) {
		r.addrs = list
	}
}

// Resolver queries the OS for interface addressing. The zero-argument
// NewResolver uses the live net package; tests inject synthetic listers.
type Resolver struct {
	interfaces InterfaceLister
	addrs      AddrLister
}

// NewResolver create a resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		interfaces: net.Interfaces,
		addrs:      (*net.Interface).Addrs,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultResolver = NewResolver()

// Resolve resolves ifname in family using the default resolver.
func Resolve(family Family, ifname string) (*Info, error) {
	return defaultResolver.Resolve(family, ifname)
}

// Resolve scans the OS interface list for the first address of ifname in
// the requested family and returns its addressing info.
//
// The first matching address wins: when an interface carries several
// addresses of the same family (for example multiple IPv6 scopes), the
// earliest entry in the OS-provided order is used. Resolution either
// returns a fully populated Info or fails; no partial value is exposed.
func (r *Resolver) Resolve(family Family, ifname string) (*Info, error) {
	ifaces, err := r.interfaces()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnumerateInterfaces, err)
	}

	for i := range ifaces {
		iface := &ifaces[i]
		if iface.Name != ifname {
			continue
		}

		addrs, err := r.addrs(iface)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrEnumerateInterfaces, ifname, err)
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok || ipnet.IP == nil {
				continue
			}
			if !matchFamily(family, ipnet.IP) {
				continue
			}
			return buildInfo(family, iface, ipnet)
		}
	}

	return nil, fmt.Errorf("%w: %s (%s)", ErrInterfaceNotFound, ifname, family)
}

func matchFamily(family Family, ip net.IP) bool {
	switch family {
	case IPv4:
		return ip.To4() != nil
	case IPv6:
		return ip.To4() == nil && ip.To16() != nil
	default:
		return false
	}
}

func buildInfo(family Family, iface *net.Interface, ipnet *net.IPNet) (*Info, error) {
	host := hostString(family, ipnet.IP)
	if net.ParseIP(host) == nil {
		return nil, fmt.Errorf("%w: host address of %s", ErrConvertAddress, iface.Name)
	}

	mask, err := maskString(family, ipnet.Mask)
	if err != nil {
		return nil, fmt.Errorf("%w: netmask of %s: %v", ErrConvertAddress, iface.Name, err)
	}

	info := &Info{
		HostAddr:  host,
		Netmask:   mask,
		PrefixLen: prefixLen(ipnet.Mask),
	}

	broadcast, err := broadcastAddr(host, info.PrefixLen)
	if err != nil {
		return nil, err
	}
	info.Broadcast = broadcast

	if family == IPv6 && ipnet.IP.IsLinkLocalUnicast() {
		info.ScopeID = uint32(iface.Index)
	}
	return info, nil
}

func hostString(family Family, ip net.IP) string {
	if family == IPv4 {
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
	}
	return ip.String()
}

func maskString(family Family, mask net.IPMask) (string, error) {
	want := net.IPv4len
	if family == IPv6 {
		want = net.IPv6len
	}
	if len(mask) != want {
		return "", fmt.Errorf("mask length %d, want %d", len(mask), want)
	}

	s := net.IP(mask).String()
	if s == "" || s == "<nil>" {
		return "", fmt.Errorf("mask %v has no textual form", mask)
	}
	return s, nil
}

// prefixLen counts the bits set in mask by shifting each byte right
// until it reaches zero. Correct for the canonical contiguous netmasks
// the OS hands out.
func prefixLen(mask net.IPMask) uint32 {
	var n uint32
	for _, b := range mask {
		for v := b; v > 0; v >>= 1 {
			n += uint32(v & 1)
		}
	}
	return n
}

// broadcastAddr computes the highest address of host/plen. For IPv4 this
// is the subnet broadcast address; for IPv6, the analogous all-ones host.
func broadcastAddr(host string, plen uint32) (string, error) {
	_, network, err := net.ParseCIDR(fmt.Sprintf("%s/%d", host, plen))
	if err != nil {
		return "", fmt.Errorf("%w: %s/%d: %v", ErrConvertAddress, host, plen, err)
	}

	_, last := cidr.AddressRange(network)
	if last == nil {
		return "", fmt.Errorf("%w: broadcast of %s/%d", ErrConvertAddress, host, plen)
	}
	return last.String(), nil
}
