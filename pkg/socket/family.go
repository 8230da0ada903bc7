package socket

import (
	"golang.org/x/sys/unix"

	"github.com/sockbase/sockbase/pkg/netinfo"
)

// Family address family
type Family uint32

// SockType socket type
type SockType uint32

// Protocol socket protocol, forwarded to the OS uninterpreted.
type Protocol uint32

const (
	// Unix AF_UNIX
	Unix Family = unix.AF_UNIX
	// Inet AF_INET
	Inet Family = unix.AF_INET
	// Inet6 AF_INET6
	Inet6 Family = unix.AF_INET6

	// Stream SOCK_STREAM
	Stream SockType = unix.SOCK_STREAM
	// Dgram SOCK_DGRAM
	Dgram SockType = unix.SOCK_DGRAM
)

// IsNetwork reports whether the family is IPv4 or IPv6.
func (f Family) IsNetwork() bool {
	return f == Inet || f == Inet6
}

// IsDomain reports whether the family is a UNIX domain path family.
func (f Family) IsDomain() bool {
	return f == Unix
}

// IsIPv6 reports whether the family is IPv6.
func (f Family) IsIPv6() bool {
	return f == Inet6
}

func (f Family) String() string {
	switch f {
	case Unix:
		return "unix"
	case Inet:
		return "inet"
	case Inet6:
		return "inet6"
	default:
		return "unknown"
	}
}

// netFamily maps a network family onto the resolver's family. Only valid
// when IsNetwork is true.
func (f Family) netFamily() netinfo.Family {
	if f == Inet6 {
		return netinfo.IPv6
	}
	return netinfo.IPv4
}
