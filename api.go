package ddns

import (
	"context"
	"net/netip"
)

type Resolver interface {
	Resolve(context.Context) (netip.Addr, error)
}

type Provider interface {
	SetDNSRecord(ctx context.Context, record Record) error
}

// ResolverFunc adapts an ordinary function to a Resolver.
type ResolverFunc func(context.Context) (netip.Addr, error)

func (f ResolverFunc) Resolve(ctx context.Context) (netip.Addr, error) {
	return f(ctx)
}

// Record is the desired state asserted on the provider.
// It is written as-is; the current remote value is never read first.
type Record struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
	Proxied bool   `json:"proxied"`
}

const (
	DefaultTTL     = 300
	DefaultProxied = true
)
