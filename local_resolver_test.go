package ddns

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
)

func ipNet(t *testing.T, cidr string) *net.IPNet {
	t.Helper()
	ip, n, err := net.ParseCIDR(cidr)
	if err != nil {
		t.Fatalf("bad test CIDR %q: %s", cidr, err)
	}
	n.IP = ip
	return n
}

func TestInterfaceResolver(t *testing.T) {
	r := interfaceResolver{name: "ppp0", addrs: func(name string) ([]net.Addr, error) {
		return []net.Addr{
			ipNet(t, "fe80::2cc9:801b:3551:9a43/64"),
			ipNet(t, "192.168.86.253/24"),
			ipNet(t, "127.0.0.1/8"),
			ipNet(t, "2001:db8::5/64"),
			ipNet(t, "203.0.113.7/32"),
		}, nil
	}}
	res, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %s", err)
	}
	if expected, got := "203.0.113.7", res.String(); expected != got {
		t.Fatalf("Expected %q; got %q", expected, got)
	}
}

func TestInterfaceResolverPrivateOnly(t *testing.T) {
	r := interfaceResolver{name: "eth0", addrs: func(name string) ([]net.Addr, error) {
		return []net.Addr{ipNet(t, "10.0.0.10/8"), ipNet(t, "fe80::1/64")}, nil
	}}
	if _, err := r.Resolve(context.Background()); err == nil {
		t.Fatalf("Expected error response; got err == nil")
	}
}

func TestInterfaceResolverLookupError(t *testing.T) {
	r := interfaceResolver{name: "nope0", addrs: func(name string) ([]net.Addr, error) {
		return nil, errors.New("no such interface")
	}}
	if _, err := r.Resolve(context.Background()); err == nil {
		t.Fatalf("Expected error response; got err == nil")
	}
}

func TestParseTrace(t *testing.T) {
	cases := map[string]string{
		"ip=203.0.113.7":                   "203.0.113.7",
		"fl=1\nip=203.0.113.7\nts=2\n":     "203.0.113.7",
		"fl=1\r\nip= 203.0.113.7 \r\nts=2": "203.0.113.7",
	}
	for body, expected := range cases {
		raw, err := parseTrace(body)
		if err != nil {
			t.Fatalf("parseTrace(%q) failed: %s", body, err)
		}
		addr, err := parseIPv4(raw)
		if err != nil {
			t.Fatalf("parseIPv4(%q) failed: %s", raw, err)
		}
		if got := addr.String(); got != expected {
			t.Fatalf("Expected %q; got %q", expected, got)
		}
	}
	for _, body := range []string{"", "fl=1\nts=2", "uip=203.0.113.7"} {
		if _, err := parseTrace(body); err == nil {
			t.Fatalf("Expected error for %q; got err == nil", body)
		}
	}
	for _, raw := range []string{"", "::1", "garbage", strings.Repeat("1", 100)} {
		if _, err := parseIPv4(raw); err == nil {
			t.Fatalf("Expected error for %q; got err == nil", raw)
		}
	}
}
