// Command boxinspect shows how values are laid out and converted by boxes.
//
//	boxinspect layout              storage regime of sample types
//	boxinspect probe FILE          run assign/cast scenarios from YAML
//	boxinspect types               list registered metadata
//	boxinspect -i                  browse registered types and call methods
package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/anybox"
	"github.com/wippyai/anybox/box"
	"github.com/wippyai/anybox/meta"
	"github.com/wippyai/anybox/track"
)

type options struct {
	verbose     bool
	interactive bool
	metrics     bool
	plain       bool
}

func (o *options) bind(fs *pflag.FlagSet) {
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log dispatcher and block activity")
	fs.BoolVar(&o.metrics, "metrics", false, "print overflow block metrics on exit")
	fs.BoolVar(&o.plain, "plain", false, "disable styling")
}

type app struct {
	opts    options
	log     *zap.Logger
	table   *track.Table
	reg     *prometheus.Registry
	metrics *track.Prometheus
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "boxinspect",
		Short:         "Inspect box storage, conversions and registered types",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.opts.interactive {
				return cmd.Help()
			}
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("interactive mode needs a terminal")
			}
			return runInteractive()
		},
	}

	a.opts.bind(root.PersistentFlags())
	root.Flags().BoolVarP(&a.opts.interactive, "interactive", "i", false, "interactive mode with TUI")

	root.AddCommand(
		newLayoutCmd(a),
		newProbeCmd(a),
		newTypesCmd(a),
	)
	return root
}

func (a *app) setup() error {
	a.log = zap.NewNop()
	if a.opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		a.log = l
	}
	box.SetLogger(a.log.Named("box"))
	meta.SetLogger(a.log.Named("meta"))

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		a.opts.plain = true
	}

	a.table = track.NewTable()
	trackers := []anybox.Tracker{a.table}
	if a.opts.verbose {
		trackers = append(trackers, track.NewLogging(a.log))
	}
	if a.opts.metrics {
		a.reg = prometheus.NewRegistry()
		a.metrics = track.NewPrometheus(a.reg, "boxinspect")
		trackers = append(trackers, a.metrics)
	}
	box.SetTracker(track.Multi(trackers...))

	return registerDemoTypes()
}

func (a *app) teardown(cmd *cobra.Command) error {
	defer a.log.Sync() //nolint:errcheck

	if a.reg != nil {
		if err := printMetrics(cmd.OutOrStdout(), a.reg); err != nil {
			return err
		}
	}
	a.log.Debug("blocks still live", zap.Int("count", a.table.Len()), zap.Uintptr("bytes", a.table.Bytes()))
	return nil
}
