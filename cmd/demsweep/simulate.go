package main

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sartorproj/godems/experiment"
	"github.com/sartorproj/godems/simulate"
	"github.com/sartorproj/godems/timeseries"
)

// descriptionFile is the name of the description written next to simulated data.
const descriptionFile = "description.yaml"

func newSimulateCmd(a *app) *cobra.Command {
	var (
		out      string
		name     string
		numbers  []int
		vertices []float64
	)
	params := simulate.DefaultCycleParams()
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Write a simulated experiment and its description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(vertices) != 1 && len(vertices) != len(numbers) {
				return fmt.Errorf("%d vertex potentials for %d cycles", len(vertices), len(numbers))
			}
			cycles := make([]simulate.CycleParams, len(numbers))
			for i := range cycles {
				p := params
				p.VertexPotential = vertices[0]
				if len(vertices) > 1 {
					p.VertexPotential = vertices[i]
				}
				cycles[i] = p
			}
			d, err := simulate.Experiment(name, numbers, cycles)
			if err != nil {
				return err
			}
			if err := writeExperiment(out, d); err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{
				"experiment": name,
				"cycles":     len(numbers),
				"dir":        out,
			}).Info("simulated experiment written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "simulated", "output directory")
	cmd.Flags().StringVar(&name, "name", "sim", "experiment name and file prefix")
	cmd.Flags().IntSliceVar(&numbers, "cycles", []int{1, 2, 3}, "cycle numbers")
	cmd.Flags().Float64SliceVar(&vertices, "vertex", []float64{params.VertexPotential}, "vertex potential per cycle, or one for all")
	cmd.Flags().Float64Var(&params.Delay, "delay", params.Delay, "ion current delay as alignment interval in s")
	cmd.Flags().Float64Var(&params.KPrefactor, "k-prefactor", params.KPrefactor, "K prefactor of every cycle")
	cmd.Flags().Float64Var(&params.Step, "step", params.Step, "s between samples")
	cmd.Flags().IntVar(&params.Mass, "mass", params.Mass, "atomic mass of the tracked ion")
	return cmd
}

// writeExperiment saves every cycle table under its file name and the
// description with the directory itself as data folder.
func writeExperiment(dir string, d experiment.Description) error {
	for _, c := range d.Cycles {
		f, err := createFile(dir, d.Filename(c))
		if err != nil {
			return err
		}
		err = timeseries.WriteCSV(f, c.Table)
		if err = errors.Join(err, f.Close()); err != nil {
			return err
		}
	}
	d.DataFolder = "."
	f, err := createFile(dir, descriptionFile)
	if err != nil {
		return err
	}
	err = experiment.EncodeDescription(f, d)
	return errors.Join(err, f.Close())
}
