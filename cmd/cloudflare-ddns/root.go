package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	ddns "github.com/ivo-tech/cloudflare-ddns"
	"github.com/ivo-tech/cloudflare-ddns/internal/config"
	"github.com/ivo-tech/cloudflare-ddns/internal/logger"
)

// app carries what the subcommands share once PersistentPreRunE has run.
type app struct {
	v        *viper.Viper
	cfg      *config.Config
	logger   zerolog.Logger
	closeLog func() error

	configFile string
	envFile    string
	ip         string
	iface      string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		v:        viper.New(),
		logger:   zerolog.Nop(),
		closeLog: func() error { return nil },
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
	}

	cmd := &cobra.Command{
		Use:   "cloudflare-ddns",
		Short: "Point a Cloudflare DNS record at this host's public IPv4 address",
		Long: "Resolves the current WAN IPv4 address and sets it as the content of one Cloudflare A record.\n" +
			"Each invocation makes a single attempt; run it from cron or a systemd timer.\n\n" +
			"Credentials come from " + config.CredentialEnv + ".",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.closeLog()
		},
		RunE: a.runUpdate,
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&a.envFile, "env-file", "", "dotenv file with credentials; must have mode 0600 (default .env if present)")
	flags.String("log-level", "info", "set log level (e.g. info, debug, warn)")
	flags.String("log-file", config.DefaultLogFile, "append log lines to this file as well as the console; empty to disable")
	flags.StringVar(&a.ip, "ip", "", "use this IPv4 address instead of looking it up")
	flags.StringVar(&a.iface, "interface", "", "read the public IPv4 address from this network interface instead of looking it up")
	a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	a.v.BindPFlag("log.file", flags.Lookup("log-file"))
	cmd.MarkFlagsMutuallyExclusive("ip", "interface")

	cmd.AddCommand(newIPCmd(a), newRecordsCmd(a), newSetupCmd(a))
	return cmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.v, a.configFile, a.envFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger, a.closeLog = logger.SetupLogger(&cfg.Logging, a.stderr)
	return nil
}

func (a *app) runUpdate(cmd *cobra.Command, args []string) error {
	client, err := a.newClient()
	if err != nil {
		a.logger.Error().Msgf("DDNS update failed: %s", err)
		return reportedError{err}
	}
	if err := client.RunDDNS(cmd.Context()); err != nil {
		var ce *ddns.ConfigError
		if errors.As(err, &ce) {
			a.logger.Error().Msgf("Set %s in the environment or an env file", config.CredentialEnv)
		}
		a.logger.Error().Msgf("DDNS update failed (%s)", ddns.Classify(err))
		return reportedError{err}
	}
	a.logger.Info().Msg("DDNS update completed successfully")
	return nil
}

func (a *app) newClient() (*ddns.Client, error) {
	resolver, err := a.resolver()
	if err != nil {
		return nil, err
	}
	cfg := a.cfg
	return ddns.New(cfg.Record.Name,
		ddns.UsingCloudflare(cfg.Credentials(),
			ddns.CloudflareAPIURL(cfg.Cloudflare.APIURL),
			ddns.CloudflareTimeout(cfg.Cloudflare.Timeout),
		),
		ddns.UsingResolver(resolver),
		ddns.WithTTL(cfg.Record.TTL),
		ddns.Proxied(cfg.Record.Proxied),
		ddns.WithLogger(a.logger),
	)
}

// resolver picks the address source: a fixed address, an interface, or the web source chain.
func (a *app) resolver() (ddns.Resolver, error) {
	switch {
	case a.ip != "":
		r, err := ddns.FromString(a.ip)
		if err != nil {
			return nil, fmt.Errorf("invalid --ip: %w", err)
		}
		return r, nil
	case a.iface != "":
		return ddns.InterfaceResolver(a.iface), nil
	}

	rc := a.cfg.Resolver
	trace := ddns.TraceResolver(rc.TraceURL)
	trace.Timeout = rc.Timeout
	plain := ddns.PlainResolver(rc.PlainURL)
	plain.Timeout = rc.Timeout
	sources := []ddns.Resolver{trace, plain}
	if rc.OpenDNS {
		d := ddns.OpenDNSResolver()
		d.Timeout = rc.Timeout
		sources = append(sources, d)
	}
	return ddns.Fallback(sources...), nil
}
