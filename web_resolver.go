package ddns

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"strings"
	"time"
)

const (
	DefaultTraceURL = "https://1.1.1.1/cdn-cgi/trace"
	DefaultPlainURL = "https://ifconfig.co/ip"

	DefaultSourceTimeout = 10 * time.Second
)

// DefaultResolver returns the resolver used when none is configured:
// the Cloudflare trace endpoint, falling back to a plain-text echo service.
// Two independent services keep one provider's outage from looking like "the network is down".
func DefaultResolver() Resolver {
	return Fallback(TraceResolver(DefaultTraceURL), PlainResolver(DefaultPlainURL))
}

// BodyFormat describes how a web service reports the caller's address.
type BodyFormat int

const (
	// PlainFormat bodies contain nothing but the address (surrounding whitespace is ignored).
	PlainFormat BodyFormat = iota
	// TraceFormat bodies are key=value lines; the address is on the line starting with "ip=".
	TraceFormat
)

// WebResolver looks up the public IPv4 address with a single HTTP GET.
//
// The service must return a 2xx status.
// Any other status, a transport error, a body that cannot be parsed,
// or a value that is not an IPv4 address is reported as an error.
type WebResolver struct {
	URL    string
	Format BodyFormat

	// Timeout bounds the request, including reading the body.
	// Zero means DefaultSourceTimeout.
	Timeout time.Duration

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// TraceResolver constructs a WebResolver for a Cloudflare-style /cdn-cgi/trace endpoint.
func TraceResolver(url string) *WebResolver {
	return &WebResolver{URL: url, Format: TraceFormat}
}

// PlainResolver constructs a WebResolver for a service whose whole response body is the address.
func PlainResolver(url string) *WebResolver {
	return &WebResolver{URL: url, Format: PlainFormat}
}

// Resolve implements ddns.Resolver.
func (wr *WebResolver) Resolve(ctx context.Context) (netip.Addr, error) {
	timeout := wr.Timeout
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	status, body, err := fetch(ctx, wr.HTTPClient, request{
		method: http.MethodGet,
		url:    wr.URL,
		header: http.Header{
			"Cache-Control": {"no-cache"},
			"Accept":        {"text/plain"},
		},
	}, timeout)
	if err != nil {
		return netip.Addr{}, err
	}
	if !isSuccess(status) {
		return netip.Addr{}, fmt.Errorf("http request returned %d %s", status, http.StatusText(status))
	}

	var raw string
	switch wr.Format {
	case TraceFormat:
		raw, err = parseTrace(string(body))
	default:
		raw = strings.TrimSpace(string(body))
	}
	if err != nil {
		return netip.Addr{}, err
	}
	return parseIPv4(raw)
}

func (wr *WebResolver) SetHTTPClient(hc *http.Client) {
	wr.HTTPClient = hc
}

func (wr *WebResolver) String() string {
	return wr.URL
}

func parseTrace(body string) (string, error) {
	for _, line := range strings.Split(body, "\n") {
		if v, ok := strings.CutPrefix(line, "ip="); ok {
			return strings.TrimSpace(v), nil
		}
	}
	return "", errors.New("no ip= line in trace response")
}

func parseIPv4(s string) (netip.Addr, error) {
	// keeps HTML error pages out of the error text
	if len(s) > 64 {
		return netip.Addr{}, fmt.Errorf("response body is not an IP address (%d bytes)", len(s))
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("error parsing IP address from response body: %w", err)
	}
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%s is not an IPv4 address", addr)
	}
	return addr, nil
}
