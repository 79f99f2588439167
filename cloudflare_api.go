package ddns

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cloudflare/cloudflare-go"
)

// API wraps the cloudflare-go client for the read-only calls an operator needs while setting up:
// checking a token and finding the ID of the record to manage.
// Updates never go through it.
type API struct {
	api *cloudflare.API
}

// NewAPI constructs an API authenticated with token.
// An empty baseURL uses the cloudflare-go default and a nil httpClient uses http.DefaultClient.
// Retries are disabled.
func NewAPI(token, baseURL string, httpClient *http.Client) (*API, error) {
	opts := []cloudflare.Option{cloudflare.UsingRetryPolicy(0, 0, 0)}
	if baseURL != "" {
		opts = append(opts, cloudflare.BaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, cloudflare.HTTPClient(httpClient))
	}
	api, err := cloudflare.NewWithAPIToken(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating cloudflare api client: %w", err)
	}
	return &API{api: api}, nil
}

// VerifyToken returns an error unless the token is valid and active.
func (a *API) VerifyToken(ctx context.Context) error {
	result, err := a.api.VerifyAPIToken(ctx)
	if err != nil {
		return fmt.Errorf("unable to verify api token: %w", err)
	}
	if result.Status != "active" {
		return fmt.Errorf("expected api token status to be \"active\"; got \"%s\"", result.Status)
	}
	return nil
}

// RecordInfo is an existing A record as listed by Cloudflare.
type RecordInfo struct {
	ID      string
	Name    string
	Content string
	TTL     int
	Proxied bool
}

// ListRecords lists the A records in a zone, restricted to name unless it is empty.
func (a *API) ListRecords(ctx context.Context, zoneID, name string) ([]RecordInfo, error) {
	records, _, err := a.api.ListDNSRecords(ctx, cloudflare.ZoneIdentifier(zoneID), cloudflare.ListDNSRecordsParams{
		Type: "A",
		Name: name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list dns records: %w", err)
	}
	out := make([]RecordInfo, len(records))
	for i, r := range records {
		out[i] = RecordInfo{
			ID:      r.ID,
			Name:    r.Name,
			Content: r.Content,
			TTL:     r.TTL,
			Proxied: r.Proxied != nil && *r.Proxied,
		}
	}
	return out, nil
}
