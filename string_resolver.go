package ddns

import (
	"context"
	"fmt"
	"net/netip"
)

// FromString constructs a resolver that always returns addr,
// for callers that already know the address.
// addr must be an IPv4 address.
func FromString(addr string) (Resolver, error) {
	if _, err := parseStatic(addr); err != nil {
		return nil, err
	}
	return stringResolver(addr), nil
}

type stringResolver string

func (s stringResolver) Resolve(context.Context) (netip.Addr, error) {
	return parseStatic(string(s))
}

func (s stringResolver) String() string {
	return "static " + string(s)
}

func parseStatic(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("unable to parse IP: %w", err)
	}
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%s is not an IPv4 address", addr)
	}
	return addr, nil
}
