package main

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	wd "github.com/reoring/withdefaults"
	"github.com/reoring/withdefaults/datastore"
	"github.com/reoring/withdefaults/metrics"
	"github.com/reoring/withdefaults/schemafile"
)

type getConfigOptions struct {
	schemaPath string
	dataPath   string
	rootPath   string
	mode       string
	format     string
	metrics    bool
}

func newGetConfigCmd(root *rootOptions) *cobra.Command {
	opts := &getConfigOptions{}
	cmd := &cobra.Command{
		Use:   "get-config",
		Short: "retrieve configuration honoring a with-defaults mode",
		Example: `ncwd get-config --schema defaults1.yaml --data running.json --mode trim
ncwd get-config --schema defaults1.yaml --data running.yaml --root /top --mode report-all-tagged --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGetConfig(cmd.Context(), cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.schemaPath, "schema", "s", "", "schema description file (YAML)")
	f.StringVarP(&opts.dataPath, "data", "d", "", "instance data file (JSON or YAML); empty datastore when omitted")
	f.StringVarP(&opts.rootPath, "root", "r", "/", "schema path of the requested subtree")
	f.StringVarP(&opts.mode, "mode", "m", "", "report-all, report-all-tagged, trim or explicit (default: basic-mode)")
	f.StringVarP(&opts.format, "format", "f", "xml", "output format: xml, json or cbor")
	f.BoolVar(&opts.metrics, "metrics", false, "write the request's Prometheus metrics to stderr")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func runGetConfig(ctx context.Context, cmd *cobra.Command, root *rootOptions, opts *getConfigOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := root.load()
	if err != nil {
		return err
	}
	logger := cfg.Logger(cmd.ErrOrStderr())
	caps, err := cfg.WithDefaults()
	if err != nil {
		return err
	}
	acl, err := cfg.ReadFilter()
	if err != nil {
		return err
	}
	mode, err := wd.ParseMode(opts.mode)
	if err != nil {
		return err
	}

	reg, err := schemafile.Load(opts.schemaPath)
	if err != nil {
		return err
	}
	store := datastore.NewMemory()
	if opts.dataPath != "" {
		data, err := datastore.LoadFile(opts.dataPath)
		if err != nil {
			return err
		}
		store.Replace(data)
	}
	logger.Debug().Str("schema", opts.schemaPath).Str("data", opts.dataPath).Msg("datastore loaded")

	var promReg *prometheus.Registry
	var collector *metrics.Collector
	if opts.metrics {
		promReg = prometheus.NewRegistry()
		collector = metrics.New(promReg)
	}
	r, err := wd.NewRetriever(reg, store, wd.Options{
		Capabilities: caps,
		Before:       []wd.Pruner{acl},
		Logger:       logger,
		Metrics:      collector,
	})
	if err != nil {
		return err
	}
	reply, err := r.GetConfig(ctx, wd.Request{RootPath: opts.rootPath, Mode: mode})
	if promReg != nil {
		if derr := writeMetrics(cmd.ErrOrStderr(), promReg); derr != nil {
			logger.Warn().Err(derr).Msg("metrics dump failed")
		}
	}
	if err != nil {
		logger.Error().Err(err).Msg("get-config failed")
		return err
	}
	return wd.Serialize(cmd.OutOrStdout(), opts.format, reply)
}

// writeMetrics renders everything in reg in the Prometheus text format.
func writeMetrics(w io.Writer, reg prometheus.Gatherer) error {
	mfs, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
