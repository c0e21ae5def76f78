package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/vtkconverter"
	"github.com/hupe1980/vtkconverter/logging"
)

// Execute runs the vtkconverter command line and exits non-zero on failure.
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// globals holds the persistent flags shared by every command.
type globals struct {
	logLevel  string
	logFormat string
	scale     float64
	safety    float64
	out       string

	logger *logging.ConverterLogger
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:          "vtkconverter",
		Short:        "Inspect, transform and export VTK mesh tallies",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logging.ParseLevel(g.logLevel)
			if err != nil {
				return err
			}
			cfg := logging.DefaultLoggerConfig()
			cfg.Level = level
			cfg.Format = g.logFormat
			cfg.Output = cmd.ErrOrStderr()
			cfg.Component = "cli"
			g.logger = logging.NewLogger(cfg)
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&g.logLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	f.StringVar(&g.logFormat, "log-format", "text", "Log format: text|json")
	f.Float64Var(&g.scale, "scale", 1, "Multiplier applied to exported coordinates")
	f.Float64Var(&g.safety, "safety", 1, "Multiplier applied to exported values")
	f.StringVar(&g.out, "out", "", "Directory for exported files (default: next to the mesh)")

	cmd.AddCommand(
		infoCmd(g),
		statsCmd(g),
		writeCmd(g),
		translateCmd(g),
		rotateCmd(g),
		jointCmd(g),
		runCmd(g),
	)
	return cmd
}

// converter builds a Converter configured from the global flags.
func (g *globals) converter(out string) (*vtkconverter.Converter, error) {
	if out != "" {
		if err := os.MkdirAll(out, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	c := vtkconverter.New(func(o *vtkconverter.Options) {
		o.Logger = g.logger
		o.OutputDir = out
	})
	c.SetScaleFactor(g.scale)
	c.SetSafetyFactor(g.safety)
	return c, nil
}

// open loads every path into c.
func open(ctx context.Context, c *vtkconverter.Converter, paths ...string) error {
	for _, p := range paths {
		if c.Registry().Has(p) {
			continue
		}
		if _, err := c.Open(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
