// Package batch runs the per-cycle evaluation pipeline of one experiment:
// baseline correction, time alignment and region integration.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/godems/baseline"
	"github.com/sartorproj/godems/experiment"
	"github.com/sartorproj/godems/integrate"
	"github.com/sartorproj/godems/logging"
	"github.com/sartorproj/godems/timeshift"
)

// ErrNotLoaded is returned when a cycle has no measurement table.
var ErrNotLoaded = errors.New("cycle table not loaded")

// Options configures one Overview.
type Options struct {
	// Interval overrides the description's time shift. Nil falls back to the
	// description, then to 0. An explicit 0 means no shift.
	Interval *float64
	// KModifier is added to every cycle's K prefactor.
	KModifier float64
	// FixedK replaces every cycle's own K prefactor before KModifier is added.
	FixedK   *float64
	Limits   integrate.Limits
	Baseline baseline.Options
	Workers  int // concurrent cycles (default: GOMAXPROCS)
	Logger   logrus.FieldLogger
}

// Params identifies the configuration an Overview was computed with.
type Params struct {
	Experiment string
	Interval   float64
	KModifier  float64
	FixedK     *float64
}

// Fields returns the parameters as log fields.
func (p Params) Fields() logrus.Fields {
	f := logrus.Fields{
		"experiment": p.Experiment,
		"interval":   p.Interval,
		"k_modifier": p.KModifier,
	}
	if p.FixedK != nil {
		f["fixed_k"] = *p.FixedK
	}
	return f
}

// resolveInterval picks the explicit interval, else the description's, else 0.
func resolveInterval(explicit, described *float64) float64 {
	switch {
	case explicit != nil:
		return *explicit
	case described != nil:
		return *described
	}
	return 0
}

// KPrefactor returns the prefactor used for a cycle.
func (o Options) KPrefactor(c experiment.Cycle) float64 {
	k := c.KPrefactor
	if o.FixedK != nil {
		k = *o.FixedK
	}
	return k + o.KModifier
}

// Run evaluates every cycle of a loaded description. Cycles are independent
// and run concurrently; the first failure fails the Overview.
func Run(ctx context.Context, desc experiment.Description, opts Options) (*Overview, error) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	log := logging.OrDiscard(opts.Logger)

	params := Params{
		Experiment: desc.Name,
		Interval:   resolveInterval(opts.Interval, desc.Interval),
		KModifier:  opts.KModifier,
	}
	if opts.FixedK != nil {
		v := *opts.FixedK
		params.FixedK = &v
	}

	for _, c := range desc.Cycles {
		if !c.Loaded() {
			return nil, fmt.Errorf("%s cycle %d: %w", desc.Name, c.Number, ErrNotLoaded)
		}
	}

	cycles := make([]CycleCharge, len(desc.Cycles))
	results := make([]*integrate.Result, len(desc.Cycles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, c := range desc.Cycles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			kp := opts.KPrefactor(c)
			res, err := evaluate(c, kp, params.Interval, opts)
			if err != nil {
				return fmt.Errorf("%s cycle %d: %w", desc.Name, c.Number, err)
			}
			meta := c
			meta.Table = nil
			cycles[i] = CycleCharge{
				Cycle:      meta,
				KPrefactor: kp,
				K:          res.K,
				Summary:    res.Summary(),
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.WithFields(params.Fields()).WithField("cycles", len(cycles)).Debug("overview computed")
	return &Overview{params: params, cycles: cycles, results: results}, nil
}

func evaluate(c experiment.Cycle, kPrefactor, interval float64, opts Options) (*integrate.Result, error) {
	corrected, err := baseline.Correct(c.Table, opts.Baseline)
	if err != nil {
		return nil, err
	}
	aligned, err := timeshift.Align(corrected, timeshift.Params{
		KPrefactor: kPrefactor,
		KPower:     c.KPower,
		Interval:   interval,
		Mass:       opts.Baseline.Mass,
	})
	if err != nil {
		return nil, err
	}
	return integrate.New(aligned, opts.Limits)
}
