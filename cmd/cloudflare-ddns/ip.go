package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ip",
		Short: "Print the current public IPv4 address without updating DNS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}
			addr, err := client.Resolve(cmd.Context())
			if err != nil {
				a.logger.Error().Msgf("Failed to get current IP address: %s", err)
				return reportedError{err}
			}
			fmt.Fprintln(a.stdout, addr)
			return nil
		},
	}
}
