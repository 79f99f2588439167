package ddns

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/miekg/dns"
)

const (
	OpenDNSServer = "resolver1.opendns.com:53"
	OpenDNSName   = "myip.opendns.com."
)

// DNSResolver discovers the public address with a DNS query to a server that answers with the address of the asker,
// such as OpenDNS's myip.opendns.com.
type DNSResolver struct {
	Server string // host:port
	Name   string // fully qualified query name

	// Timeout bounds the exchange. Zero means DefaultSourceTimeout.
	Timeout time.Duration
}

// OpenDNSResolver constructs a DNSResolver for myip.opendns.com.
func OpenDNSResolver() *DNSResolver {
	return &DNSResolver{Server: OpenDNSServer, Name: OpenDNSName}
}

// Resolve implements ddns.Resolver.
func (r *DNSResolver) Resolve(ctx context.Context) (netip.Addr, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(r.Name), dns.TypeA)
	c := &dns.Client{Timeout: timeout}
	resp, _, err := c.ExchangeContext(ctx, m, r.Server)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("dns query failed: %w", err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return netip.Addr{}, fmt.Errorf("dns query returned %s", dns.RcodeToString[resp.Rcode])
	}
	for _, rr := range resp.Answer {
		a, ok := rr.(*dns.A)
		if !ok {
			continue
		}
		addr, ok := netip.AddrFromSlice(a.A)
		if !ok {
			continue
		}
		return addr.Unmap(), nil
	}
	return netip.Addr{}, fmt.Errorf("no A record in answer for %s", r.Name)
}

func (r *DNSResolver) String() string {
	return "dns://" + r.Server + "/" + r.Name
}
