package ddns_test

import (
	"context"
	"log"
	"net/http"
	"net/netip"
	"os"
	"time"

	"github.com/rs/zerolog"

	ddns "github.com/ivo-tech/cloudflare-ddns"
)

func ExampleNew() {
	c, err := ddns.New(
		"ivo-tech.com",
		ddns.UsingCloudflare(ddns.Credentials{
			ZoneID:   os.Getenv("CF_ZONE_ID"),
			RecordID: os.Getenv("DYN_ID"),
			Token:    os.Getenv("CF_DNS_TOKEN"),
		}),
		ddns.WithLogger(zerolog.New(os.Stderr).With().Timestamp().Logger()),
		ddns.UsingHTTPClient(http.DefaultClient),
	)
	if err != nil {
		log.Fatalf("error creating ddns client: %s", err)
	}
	// run once:
	err = c.RunDDNS(context.Background())
	os.Exit(ddns.Classify(err).ExitCode())
}

func ExampleFallback() {
	// I'm not vouching for these services, but they do return the IP of the client connection.
	// If possible, run your own and provide the URL here instead.
	r := ddns.Fallback(
		ddns.TraceResolver(ddns.DefaultTraceURL),
		ddns.PlainResolver("https://checkip.amazonaws.com/"),
		ddns.OpenDNSResolver(),
	)
	ddnsClient, err := ddns.New(
		"ivo-tech.com",
		ddns.UsingCloudflare(ddns.Credentials{
			ZoneID:   os.Getenv("CF_ZONE_ID"),
			RecordID: os.Getenv("DYN_ID"),
			Token:    os.Getenv("CF_DNS_TOKEN"),
		}),
		ddns.UsingResolver(r),
	)
	if err != nil {
		log.Fatalf("error creating ddns client: %s", err)
	}
	// run once:
	err = ddnsClient.RunDDNS(context.Background())
	if err != nil {
		log.Fatalf("ddns update failed (%s): %s", ddns.Classify(err), err)
	}
}

func ExampleInterfaceResolver() {
	ddnsClient, err := ddns.New("ivo-tech.com",
		ddns.UsingCloudflare(ddns.Credentials{
			ZoneID:   os.Getenv("CF_ZONE_ID"),
			RecordID: os.Getenv("DYN_ID"),
			Token:    os.Getenv("CF_DNS_TOKEN"),
		}),
		ddns.UsingResolver(ddns.InterfaceResolver("ppp0")),
	)
	if err != nil {
		log.Fatalf("error creating ddns client: %s", err)
	}
	// run once:
	err = ddnsClient.RunDDNS(context.Background())
	if err != nil {
		log.Fatalf("ddns update failed: %s", err)
	}
}

func ExampleResolverFunc() {
	fn := func(ctx context.Context) (netip.Addr, error) {
		select {
		case <-ctx.Done():
			return netip.Addr{}, ctx.Err()
		case <-time.After(100 * time.Millisecond): // simulating some lookup method
			return netip.ParseAddr("203.0.113.10")
		}
	}
	ddnsClient, err := ddns.New("ivo-tech.com",
		ddns.UsingCloudflare(ddns.Credentials{
			ZoneID:   os.Getenv("CF_ZONE_ID"),
			RecordID: os.Getenv("DYN_ID"),
			Token:    os.Getenv("CF_DNS_TOKEN"),
		}),
		ddns.UsingResolver(ddns.ResolverFunc(fn)),
	)
	if err != nil {
		log.Fatalf("error creating ddns client: %s", err)
	}
	// run once:
	err = ddnsClient.RunDDNS(context.Background())
	if err != nil {
		log.Fatalf("ddns update failed: %s", err)
	}
}
