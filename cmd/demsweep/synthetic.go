package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sartorproj/godems/experiment"
)

func newSyntheticCmd(a *app) *cobra.Command {
	var (
		out string
		syn experiment.Synthetic
	)
	cmd := &cobra.Command{
		Use:   "synthetic <description.yaml>",
		Short: "Write descriptions with linearly drifting K prefactors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := experiment.LoadDescription(args[0])
			if err != nil {
				return err
			}
			lines, err := syn.Lines(d)
			if err != nil {
				return err
			}
			descs, err := syn.Generate(d)
			if err != nil {
				return err
			}
			for i, gen := range descs {
				name := fmt.Sprintf("%s_K_%s_%s.yaml", d.Name,
					strconv.FormatFloat(lines[i].Start, 'f', 2, 64),
					strconv.FormatFloat(lines[i].End, 'f', 2, 64))
				f, err := createFile(out, name)
				if err != nil {
					return err
				}
				err = experiment.EncodeDescription(f, gen)
				if err = errors.Join(err, f.Close()); err != nil {
					return err
				}
			}
			a.log.WithFields(logrus.Fields{
				"experiment":   d.Name,
				"descriptions": len(descs),
				"dir":          out,
			}).Info("synthetic descriptions written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "synthetic", "output directory")
	cmd.Flags().Float64Var(&syn.KMin, "k-min", 0.5, "lowest K prefactor")
	cmd.Flags().Float64Var(&syn.KMax, "k-max", 1.5, "upper bound of the K prefactors (exclusive)")
	cmd.Flags().Float64Var(&syn.KIncrement, "k-increment", experiment.DefaultKIncrement, "step between K prefactors")
	return cmd
}
