package ddns

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxBodySize = 64 << 10

var userAgent = "cloudflare-ddns"

type request struct {
	method string
	url    string
	header http.Header
	body   []byte
}

// fetch sends r and returns the status code and (size-limited) body.
// The timeout bounds the whole exchange, including reading the body,
// so that calls always complete even when the caller supplied context.Background
// and the client has no timeout of its own.
func fetch(ctx context.Context, hc *http.Client, r request, timeout time.Duration) (status int, body []byte, err error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var rb io.Reader
	if r.body != nil {
		rb = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, r.url, rb)
	if err != nil {
		return 0, nil, fmt.Errorf("error creating request: %w", err)
	}
	for k, v := range r.header {
		req.Header[k] = v
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}

	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("error reading response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
