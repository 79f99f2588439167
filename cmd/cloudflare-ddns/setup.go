package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	ddns "github.com/ivo-tech/cloudflare-ddns"
)

func newSetupCmd(a *app) *cobra.Command {
	var zoneID, recordID, output string
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Verify an API token and save it to a private env file",
		Long: "Prompts for a Cloudflare API token, checks that it is active,\n" +
			"and writes it (with the zone and record IDs, if given) to a new env file with mode 0600.\n" +
			"Use the records command afterwards to look up the record ID.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSetup(cmd.Context(), zoneID, recordID, output)
		},
	}
	cmd.Flags().StringVar(&zoneID, "zone-id", "", "zone ID to save as CF_ZONE_ID")
	cmd.Flags().StringVar(&recordID, "record-id", "", "record ID to save as DYN_ID")
	cmd.Flags().StringVarP(&output, "output", "o", ".env", "env file to create; an existing file is never overwritten")
	return cmd
}

func (a *app) runSetup(ctx context.Context, zoneID, recordID, path string) error {
	a.logger.Info().Msg("running setup")
	fmt.Fprint(a.stderr, "Enter Cloudflare API Token: ")
	token, err := a.readToken()
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("no token entered")
	}

	api, err := ddns.NewAPI(token, a.cfg.Cloudflare.APIURL, nil)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	a.logger.Info().Msg("verifying token...")
	if err := api.VerifyToken(ctx); err != nil {
		return err
	}
	a.logger.Info().Msg("token verified successfully")

	env := map[string]string{"CF_DNS_TOKEN": token}
	if zoneID != "" {
		env["CF_ZONE_ID"] = zoneID
	}
	if recordID != "" {
		env["DYN_ID"] = recordID
	}
	content, err := godotenv.Marshal(env)
	if err != nil {
		return fmt.Errorf("error encoding env file: %w", err)
	}

	a.logger.Info().Msgf("creating env file at \"%s\"", path)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("unable to create \"%s\": %w", path, err)
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, content); err != nil {
		return fmt.Errorf("unable to write \"%s\": %w", path, err)
	}
	a.logger.Info().Msgf("token written to \"%s\"", path)
	return nil
}

// readToken reads without echo from a terminal, or a single line from anything else.
func (a *app) readToken() (string, error) {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", fmt.Errorf("error reading from stdin: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("error reading from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}
