package ddns

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/netip"

	"github.com/rs/zerolog"
)

// Fallback constructs a resolver that asks each resolver in order and returns the first IPv4 address obtained.
//
// A resolver that errors, panics, or returns anything other than an IPv4 address counts as failed and the next one is tried.
// When all of them fail the error is a *ResolveError listing each failure.
func Fallback(resolvers ...Resolver) Resolver {
	return &fallbackResolver{resolvers: resolvers, logger: zerolog.Nop()}
}

type fallbackResolver struct {
	resolvers []Resolver
	logger    zerolog.Logger
}

func (f *fallbackResolver) Resolve(ctx context.Context) (netip.Addr, error) {
	var errs []error
	for i, r := range f.resolvers {
		addr, err := tryResolve(ctx, r)
		if err == nil {
			f.logger.Debug().Msgf("got %s from %s", addr, sourceName(r, i))
			return addr, nil
		}
		err = fmt.Errorf("%s: %w", sourceName(r, i), err)
		if i < len(f.resolvers)-1 {
			f.logger.Warn().Msgf("%s; trying next source", err)
		}
		errs = append(errs, err)
	}
	return netip.Addr{}, &ResolveError{Errs: errs}
}

func (f *fallbackResolver) SetLogger(logger zerolog.Logger) {
	f.logger = logger
	for _, r := range f.resolvers {
		if sl, ok := r.(interface{ SetLogger(zerolog.Logger) }); ok {
			sl.SetLogger(logger)
		}
	}
}

func (f *fallbackResolver) SetHTTPClient(hc *http.Client) {
	for _, r := range f.resolvers {
		if sh, ok := r.(interface{ SetHTTPClient(*http.Client) }); ok {
			sh.SetHTTPClient(hc)
		}
	}
}

// tryResolve calls r and turns panics and non-IPv4 results into errors.
func tryResolve(ctx context.Context, r Resolver) (addr netip.Addr, err error) {
	defer func() {
		if p := recover(); p != nil {
			addr, err = netip.Addr{}, fmt.Errorf("resolver panicked: %v", p)
		}
	}()
	if r == nil {
		return netip.Addr{}, errors.New("nil resolver")
	}
	addr, err = r.Resolve(ctx)
	if err != nil {
		return netip.Addr{}, err
	}
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("resolver returned %s, which is not an IPv4 address", addr)
	}
	return addr, nil
}

func sourceName(r Resolver, i int) string {
	if s, ok := r.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("source %d", i+1)
}
