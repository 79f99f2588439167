package ddns

import (
	"context"
	"fmt"
	"net"
	"net/netip"
)

// InterfaceResolver constructs a resolver that returns the first global unicast IPv4 address bound to the named interface.
// It suits hosts that hold the WAN address directly, such as a PPPoE router.
func InterfaceResolver(iface string) Resolver {
	return interfaceResolver{name: iface, addrs: interfaceAddrs}
}

type interfaceResolver struct {
	name  string
	addrs func(name string) ([]net.Addr, error)
}

func (r interfaceResolver) Resolve(ctx context.Context) (netip.Addr, error) {
	adds, err := r.addrs(r.name)
	if err != nil {
		return netip.Addr{}, err
	}
	// addr: ip+net:192.168.86.253/24
	// addr: ip+net:fe80::2cc9:801b:3551:9a43/64
	for _, addr := range adds {
		prefix, err := netip.ParsePrefix(addr.String())
		if err != nil {
			continue
		}
		ip := prefix.Addr().Unmap()
		if !ip.Is4() || !ip.IsGlobalUnicast() || ip.IsPrivate() {
			continue
		}
		return ip, nil
	}
	return netip.Addr{}, fmt.Errorf("no public IPv4 address on interface %s", r.name)
}

func (r interfaceResolver) String() string {
	return "interface " + r.name
}

func interfaceAddrs(name string) ([]net.Addr, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, fmt.Errorf("error getting interface %s by name: %w", name, err)
	}
	a, err := iface.Addrs()
	if err != nil {
		return nil, fmt.Errorf("error looking up addresses for interface %s: %w", name, err)
	}
	return a, nil
}
