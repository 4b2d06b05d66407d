package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sartorproj/godems/config"
	"github.com/sartorproj/godems/experiment"
	"github.com/sartorproj/godems/logging"
)

type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "demsweep",
		Short:         "Charge integration and parameter sweeps for DEMS cyclic voltammetry",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML run configuration")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides the configuration)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format, text or json (overrides the configuration)")

	root.AddCommand(
		newIntegrateCmd(a),
		newSweepCmd(a),
		newSyntheticCmd(a),
		newSimulateCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// loadDescriptions reads the description files and attaches their tables.
// A relative data folder is taken relative to its description file.
func (a *app) loadDescriptions(ctx context.Context, paths []string) ([]experiment.Description, error) {
	loader := experiment.NewLoader(a.cfg.LoaderOptions(a.log))
	out := make([]experiment.Description, 0, len(paths))
	for _, path := range paths {
		d, err := experiment.LoadDescription(path)
		if err != nil {
			return nil, err
		}
		if !filepath.IsAbs(d.DataFolder) {
			d.DataFolder = filepath.Join(filepath.Dir(path), d.DataFolder)
		}
		d, err = loader.Load(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		a.log.WithFields(logrus.Fields{
			"experiment": d.Name,
			"cycles":     len(d.Cycles),
		}).Info("description loaded")
		out = append(out, d)
	}
	return out, nil
}

func createFile(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.Create(filepath.Join(dir, name))
}
