package main

import (
	"github.com/spf13/cobra"

	"github.com/reoring/withdefaults/internal/config"

	_ "github.com/reoring/withdefaults/codec/cborwire"
	_ "github.com/reoring/withdefaults/codec/jsonwire"
	_ "github.com/reoring/withdefaults/codec/xmlwire"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "ncwd",
		Short:         "NETCONF with-defaults retrieval",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (YAML)")
	cmd.AddCommand(newGetConfigCmd(opts), newCapabilityCmd(opts))
	return cmd
}

func (o *rootOptions) load() (*config.Config, error) {
	if o.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(o.configPath)
}
