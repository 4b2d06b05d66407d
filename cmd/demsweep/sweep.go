package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sartorproj/godems/experiment"
	"github.com/sartorproj/godems/export"
	"github.com/sartorproj/godems/sweep"
)

// Output files of the sweep command.
const (
	longFile  = "long.csv"
	shortFile = "short.csv"
	xlsxFile  = "sweep.xlsx"
	plotDir   = "plots"
)

func newSweepCmd(a *app) *cobra.Command {
	var (
		out   string
		plots bool
		syn   experiment.Synthetic
	)
	cmd := &cobra.Command{
		Use:   "sweep <description.yaml>...",
		Short: "Sweep interval and K prefactor over experiments and aggregate by vertex potential",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			descs, err := a.loadDescriptions(cmd.Context(), args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("k-min") || cmd.Flags().Changed("k-max") {
				descs, err = expandSynthetic(descs, syn)
				if err != nil {
					return err
				}
				a.log.WithField("descriptions", len(descs)).Info("synthetic K grid generated")
			}

			cfg, err := a.cfg.SweepConfig(a.log)
			if err != nil {
				return err
			}
			res, err := sweep.Run(cmd.Context(), descs, cfg)
			if err != nil {
				return err
			}
			return writeSweep(a.log, out, res, plots)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "sweep-out", "output directory")
	cmd.Flags().BoolVar(&plots, "plots", false, "save one PNG per charge")
	cmd.Flags().Float64Var(&syn.KMin, "k-min", 0, "lowest synthetic K prefactor")
	cmd.Flags().Float64Var(&syn.KMax, "k-max", 0, "upper bound of the synthetic K prefactors (exclusive)")
	cmd.Flags().Float64Var(&syn.KIncrement, "k-increment", experiment.DefaultKIncrement, "step between synthetic K prefactors")
	return cmd
}

func expandSynthetic(descs []experiment.Description, syn experiment.Synthetic) ([]experiment.Description, error) {
	var out []experiment.Description
	for _, d := range descs {
		gen, err := syn.Generate(d)
		if err != nil {
			return nil, err
		}
		out = append(out, gen...)
	}
	return out, nil
}

func writeSweep(log logrus.FieldLogger, dir string, res *sweep.Result, plots bool) error {
	tables := []struct {
		name    string
		header  []string
		records [][]interface{}
	}{
		{longFile, export.LongHeader(), export.LongRecords(res.Long)},
		{shortFile, export.ShortHeader(), export.ShortRecords(res.Short)},
	}
	for _, t := range tables {
		f, err := createFile(dir, t.name)
		if err != nil {
			return err
		}
		err = export.WriteCSV(f, t.header, t.records)
		if err = errors.Join(err, f.Close()); err != nil {
			return err
		}
	}
	if err := export.WriteXLSX(filepath.Join(dir, xlsxFile), res); err != nil {
		return err
	}

	var written []string
	if plots {
		pdir := filepath.Join(dir, plotDir)
		if err := os.MkdirAll(pdir, 0o755); err != nil {
			return err
		}
		var err error
		written, err = export.PlotAll(pdir, res)
		if err != nil {
			return err
		}
	}
	log.WithFields(logrus.Fields{
		"run_id": res.RunID,
		"dir":    dir,
		"long":   len(res.Long),
		"short":  len(res.Short),
		"plots":  len(written),
	}).Info("sweep written")
	return nil
}
