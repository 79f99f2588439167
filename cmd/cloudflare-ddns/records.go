package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	ddns "github.com/ivo-tech/cloudflare-ddns"
)

func newRecordsCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List A records in the configured zone, to find the record ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds := a.cfg.Credentials()
			var missing []string
			if creds.ZoneID == "" {
				missing = append(missing, "zone ID")
			}
			if creds.Token == "" {
				missing = append(missing, "API token")
			}
			if len(missing) > 0 {
				return &ddns.ConfigError{Missing: missing}
			}
			api, err := ddns.NewAPI(creds.Token, a.cfg.Cloudflare.APIURL, nil)
			if err != nil {
				return err
			}

			name := a.cfg.Record.Name
			if all {
				name = ""
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			records, err := api.ListRecords(ctx, creds.ZoneID, name)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCONTENT\tTTL\tPROXIED")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\n", r.ID, r.Name, r.Content, r.TTL, r.Proxied)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list every A record in the zone, not only the configured record name")
	return cmd
}
