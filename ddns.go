package ddns

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"github.com/rs/zerolog"
)

// New constructs a Client that keeps the A record for name pointed at the current public IPv4 address.
//
// A Provider must be registered, usually with UsingCloudflare.
// Without UsingResolver the client uses DefaultResolver.
func New(name string, options ...clientOption) (*Client, error) {
	if name == "" {
		return nil, fmt.Errorf("ddns.New: name cannot be empty")
	}
	c := &Client{
		resolver: DefaultResolver(),
		name:     name,
		ttl:      DefaultTTL,
		proxied:  DefaultProxied,
		logger:   zerolog.Nop(),
	}
	for i, opt := range options {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("ddns.New: option %d returned an error: %s", i, err)
		}
	}

	if c.provider == nil {
		return nil, fmt.Errorf("ddns.New: no DNS provider was registered and there is no default option - use ddns.UsingCloudflare or similar")
	}

	// this lets us propagate the logger and http client to dependencies registered after WithLogger or UsingHTTPClient
	c.propagate()
	return c, nil
}

type clientOption func(*Client) error

// UsingCloudflare registers the Cloudflare provider.
// Credentials are not checked here; a run with missing credentials fails with a *ConfigError before any request is made.
func UsingCloudflare(creds Credentials, options ...CloudflareOption) clientOption {
	return func(c *Client) error {
		c.provider = newCloudflareProvider(creds, options...)
		return nil
	}
}

func UsingProvider(provider Provider) clientOption {
	return func(c *Client) error {
		if provider == nil {
			return errors.New("provider cannot be nil")
		}
		c.provider = provider
		return nil
	}
}

func UsingResolver(resolver Resolver) clientOption {
	return func(c *Client) error {
		if resolver == nil {
			resolver = DefaultResolver()
		}
		c.resolver = resolver
		return nil
	}
}

func WithLogger(logger zerolog.Logger) clientOption {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// UsingHTTPClient sets the http.Client used by the resolver and provider, when they make HTTP requests.
func UsingHTTPClient(httpclient *http.Client) clientOption {
	return func(c *Client) error {
		if httpclient == nil {
			httpclient = http.DefaultClient
		}
		c.httpClient = httpclient
		return nil
	}
}

// WithTTL sets the record TTL in seconds. The default is DefaultTTL.
func WithTTL(seconds int) clientOption {
	return func(c *Client) error {
		if seconds < 1 {
			return fmt.Errorf("invalid TTL %d", seconds)
		}
		c.ttl = seconds
		return nil
	}
}

// Proxied sets whether traffic for the record goes through Cloudflare's edge. The default is DefaultProxied.
func Proxied(proxied bool) clientOption {
	return func(c *Client) error {
		c.proxied = proxied
		return nil
	}
}

func (c *Client) propagate() {
	type setLogger interface {
		SetLogger(zerolog.Logger)
	}
	type setHTTPClient interface {
		SetHTTPClient(*http.Client)
	}
	if p, ok := c.provider.(setLogger); ok {
		p.SetLogger(c.logger)
	}
	if r, ok := c.resolver.(setLogger); ok {
		r.SetLogger(c.logger)
	}
	if c.httpClient == nil {
		return
	}
	if p, ok := c.provider.(setHTTPClient); ok {
		p.SetHTTPClient(c.httpClient)
	}
	if r, ok := c.resolver.(setHTTPClient); ok {
		r.SetHTTPClient(c.httpClient)
	}
}

// Client runs the resolve-then-update pipeline for one record.
type Client struct {
	resolver   Resolver
	provider   Provider
	httpClient *http.Client
	logger     zerolog.Logger

	name    string
	ttl     int
	proxied bool
}

// RunDDNS resolves the current address and asserts it on the provider, once.
//
// The returned error is nil only when the provider confirmed the update.
// Failures are never retried; use Classify to turn the error into an Outcome.
func (c *Client) RunDDNS(ctx context.Context) error {
	c.logger.Info().Msg("Starting Cloudflare DDNS update")

	addr, err := c.Resolve(ctx)
	if err != nil {
		c.logger.Error().Msgf("Failed to get current IP address: %s", err)
		return fmt.Errorf("error getting IP: %w", err)
	}
	c.logger.Info().Msgf("Current IP: %s", addr)

	if err := c.setRecord(ctx, c.Record(addr)); err != nil {
		var (
			ce *ConfigError
			pe *RejectedError
		)
		switch {
		case errors.As(err, &ce):
			c.logger.Error().Msgf("Missing required configuration: %s", strings.Join(ce.Missing, ", "))
		case errors.As(err, &pe):
			c.logger.Error().Msgf("Cloudflare API error: [%s]", strings.Join(pe.Errors, "; "))
		default:
			c.logger.Error().Msgf("Failed to update DNS record: %s", err)
		}
		return fmt.Errorf("error updating %s to %s: %w", c.name, addr, err)
	}
	c.logger.Info().Msgf("DNS record updated successfully to %s", addr)
	return nil
}

// Resolve returns the current public address from the configured resolver.
// Every failure, including a panic or a non-IPv4 result, is returned as a *ResolveError.
func (c *Client) Resolve(ctx context.Context) (netip.Addr, error) {
	addr, err := tryResolve(ctx, c.resolver)
	if err != nil {
		var re *ResolveError
		if !errors.As(err, &re) {
			err = &ResolveError{Errs: []error{err}}
		}
		return netip.Addr{}, err
	}
	return addr, nil
}

// Record is the desired state of the managed record for addr.
func (c *Client) Record(addr netip.Addr) Record {
	return Record{
		Type:    "A",
		Name:    c.name,
		Content: addr.String(),
		TTL:     c.ttl,
		Proxied: c.proxied,
	}
}

func (c *Client) setRecord(ctx context.Context, record Record) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &TransportError{Op: "update DNS record", Err: fmt.Errorf("provider panicked: %v", p)}
		}
	}()
	return c.provider.SetDNSRecord(ctx, record)
}
