package socket

import (
	"fmt"

	"github.com/sockbase/sockbase/pkg/netinfo"
)

// Addr is the closed set of address kinds a descriptor can carry.
// Each kind holds only the fields valid for it: a network descriptor
// never has a filesystem path and a domain descriptor never has
// interface info.
type Addr interface {
	fmt.Stringer
	sealedAddr()
}

// NetworkAddr is the address of a network-mode descriptor: the interface
// it was resolved against and the addressing cached at construction.
type NetworkAddr struct {
	Iface string
	Info  *netinfo.Info
}

func (a NetworkAddr) sealedAddr() {}

func (a NetworkAddr) String() string {
	return fmt.Sprintf("%s/%d on %s", a.Info.HostAddr, a.Info.PrefixLen, a.Iface)
}

// DomainAddr is the address of a domain-mode descriptor. Path may be
// empty for a descriptor constructed without one.
type DomainAddr struct {
	Path string
}

func (a DomainAddr) sealedAddr() {}

func (a DomainAddr) String() string {
	return a.Path
}
