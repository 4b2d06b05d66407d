package main

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sartorproj/godems/batch"
	"github.com/sartorproj/godems/export"
	"github.com/sartorproj/godems/integrate"
)

func newIntegrateCmd(a *app) *cobra.Command {
	var (
		interval  float64
		kModifier float64
		fixedK    float64
		out       string
		decimals  int
	)
	cmd := &cobra.Command{
		Use:   "integrate <description.yaml>",
		Short: "Integrate the charges of every cycle of one experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			descs, err := a.loadDescriptions(cmd.Context(), args)
			if err != nil {
				return err
			}
			limits, err := integrate.ParseLimits(a.cfg.Limits)
			if err != nil {
				return err
			}
			opts := batch.Options{
				KModifier: kModifier,
				Limits:    limits,
				Baseline:  a.cfg.BaselineOptions(),
				Workers:   a.cfg.Sweep.Workers,
				Logger:    a.log,
			}
			if cmd.Flags().Changed("interval") {
				opts.Interval = &interval
			}
			if cmd.Flags().Changed("fixed-k") {
				opts.FixedK = &fixedK
			}

			ov, err := batch.Run(cmd.Context(), descs[0], opts)
			if err != nil {
				return err
			}

			if decimals >= 0 {
				ov = ov.Round(decimals)
			}
			records := export.OverviewRecords(ov)
			if out == "" {
				return export.WriteCSV(cmd.OutOrStdout(), batch.Header(), records)
			}
			f, err := createFile(filepath.Dir(out), filepath.Base(out))
			if err != nil {
				return err
			}
			err = export.WriteCSV(f, batch.Header(), records)
			return errors.Join(err, f.Close())
		},
	}
	cmd.Flags().Float64Var(&interval, "interval", 0, "alignment interval in s (default: the description's)")
	cmd.Flags().Float64Var(&kModifier, "k-modifier", 0, "added to every K prefactor")
	cmd.Flags().Float64Var(&fixedK, "fixed-k", 0, "replaces every cycle's K prefactor")
	cmd.Flags().StringVarP(&out, "out", "o", "", "CSV output file (default: stdout)")
	cmd.Flags().IntVar(&decimals, "round", -1, "round charges to this many decimals")
	return cmd
}
