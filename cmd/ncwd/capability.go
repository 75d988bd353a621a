package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCapabilityCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "capability",
		Short:   "print the advertised with-defaults capability URI",
		Example: `ncwd capability -c server.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			caps, err := cfg.WithDefaults()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), caps.URI())
			return err
		},
	}
}
