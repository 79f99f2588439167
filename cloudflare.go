package ddns

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cloudflare/cloudflare-go"
	"github.com/rs/zerolog"
)

const (
	DefaultAPIURL     = "https://api.cloudflare.com/client/v4"
	DefaultAPITimeout = 30 * time.Second
)

// Credentials identify the one record being managed and authorize changes to it.
type Credentials struct {
	ZoneID   string
	RecordID string
	Token    string
}

// Validate reports every missing field in a single *ConfigError.
func (c Credentials) Validate() error {
	var missing []string
	if c.ZoneID == "" {
		missing = append(missing, "zone ID")
	}
	if c.RecordID == "" {
		missing = append(missing, "record ID")
	}
	if c.Token == "" {
		missing = append(missing, "API token")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

// CloudflareOption configures the provider registered by UsingCloudflare.
type CloudflareOption func(*cloudflareProvider)

// CloudflareAPIURL overrides the API root, e.g. for a test server.
func CloudflareAPIURL(u string) CloudflareOption {
	return func(cf *cloudflareProvider) {
		if u != "" {
			cf.apiURL = strings.TrimRight(u, "/")
		}
	}
}

// CloudflareTimeout overrides DefaultAPITimeout.
func CloudflareTimeout(d time.Duration) CloudflareOption {
	return func(cf *cloudflareProvider) {
		if d > 0 {
			cf.timeout = d
		}
	}
}

func newCloudflareProvider(creds Credentials, options ...CloudflareOption) *cloudflareProvider {
	cf := &cloudflareProvider{
		creds:   creds,
		apiURL:  DefaultAPIURL,
		timeout: DefaultAPITimeout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(cf)
	}
	return cf
}

// cloudflareProvider implements ddns.Provider with a single PUT to the record endpoint.
// Cloudflare treats PUT as "set", so repeating a request is harmless.
type cloudflareProvider struct {
	creds      Credentials
	apiURL     string
	timeout    time.Duration
	httpClient *http.Client
	logger     zerolog.Logger
}

func (cf *cloudflareProvider) SetDNSRecord(ctx context.Context, record Record) error {
	// checked here rather than at construction so that a misconfigured run is still reported as a verdict
	if err := cf.creds.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("error encoding record: %w", err)
	}
	endpoint := fmt.Sprintf("%s/zones/%s/dns_records/%s", cf.apiURL, url.PathEscape(cf.creds.ZoneID), url.PathEscape(cf.creds.RecordID))
	cf.logger.Debug().Msgf("PUT %s %s", endpoint, body)

	status, resp, err := fetch(ctx, cf.httpClient, request{
		method: http.MethodPut,
		url:    endpoint,
		header: http.Header{
			"Authorization": {"Bearer " + cf.creds.Token},
			"Content-Type":  {"application/json"},
		},
		body: body,
	}, cf.timeout)
	if err != nil {
		return &TransportError{Op: "update DNS record", Err: err}
	}
	if !isSuccess(status) {
		te := &TransportError{
			Op:         "update DNS record",
			StatusCode: status,
			Err:        fmt.Errorf("http request returned %d %s", status, http.StatusText(status)),
		}
		var env apiResponse
		if json.Unmarshal(resp, &env) == nil {
			te.Detail = strings.Join(env.errorStrings(), "; ")
		}
		return te
	}

	var env apiResponse
	if err := json.Unmarshal(resp, &env); err != nil {
		return &TransportError{Op: "decode response", StatusCode: status, Err: err}
	}
	if !env.Success {
		errs := env.errorStrings()
		if len(errs) == 0 {
			errs = []string{"Unknown error"}
		}
		return &RejectedError{Errors: errs}
	}
	return nil
}

func (cf *cloudflareProvider) SetLogger(logger zerolog.Logger) {
	cf.logger = logger
}

func (cf *cloudflareProvider) SetHTTPClient(hc *http.Client) {
	cf.httpClient = hc
}

// apiResponse is the part of the v4 API envelope the provider needs.
// Errors are kept raw because they may be plain strings or {code, message} objects.
type apiResponse struct {
	Success bool              `json:"success"`
	Errors  []json.RawMessage `json:"errors"`
}

func (r apiResponse) errorStrings() []string {
	var out []string
	for _, raw := range r.Errors {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			out = append(out, s)
			continue
		}
		var info cloudflare.ResponseInfo
		if err := json.Unmarshal(raw, &info); err == nil && (info.Code != 0 || info.Message != "") {
			out = append(out, fmt.Sprintf("%d: %s", info.Code, info.Message))
			continue
		}
		out = append(out, string(raw))
	}
	return out
}
