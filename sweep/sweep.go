package sweep

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/godems/baseline"
	"github.com/sartorproj/godems/batch"
	"github.com/sartorproj/godems/experiment"
	"github.com/sartorproj/godems/integrate"
	"github.com/sartorproj/godems/logging"
)

// ErrNoResults is returned when no Overview survives evaluation and filtering.
var ErrNoResults = errors.New("no overview evaluated")

// Config holds the parameter grid and evaluation options of a sweep.
type Config struct {
	TimeShifts []float64 // intervals in s
	KShifts    []float64 // additive K prefactor modifiers
	// FixedKs replace the cycles' own prefactors. Empty keeps them.
	FixedKs []float64
	// VertexLimitLower and VertexLimitUpper restrict the buckets of the
	// short table. Nil means the observed extreme bucket.
	VertexLimitLower *float64
	VertexLimitUpper *float64
	// Filter discards Overviews that violate BoundaryConditions.
	Filter   bool
	Limits   integrate.Limits
	Baseline baseline.Options
	Workers  int // concurrent combinations (default: GOMAXPROCS)
	Logger   logrus.FieldLogger
}

// DefaultConfig returns the default sweep grid.
func DefaultConfig() Config {
	return Config{
		TimeShifts: []float64{-0.3, -0.35, -0.4, -0.45},
		KShifts:    []float64{-0.02, 0, 0.02},
		Baseline:   baseline.DefaultOptions(),
		Workers:    runtime.GOMAXPROCS(0),
	}
}

// Combination is one point of the parameter grid.
type Combination struct {
	Description int // index into the swept descriptions
	Experiment  string
	Interval    float64
	KModifier   float64
	FixedK      *float64
}

// Fields returns the combination as log fields.
func (c Combination) Fields() logrus.Fields {
	f := logrus.Fields{
		"experiment": c.Experiment,
		"interval":   c.Interval,
		"k_modifier": c.KModifier,
	}
	if c.FixedK != nil {
		f["fixed_k"] = *c.FixedK
	}
	return f
}

// Failure records a combination whose Overview could not be computed.
type Failure struct {
	Combination
	Err error
}

// Rejection records an Overview discarded by the boundary filter.
type Rejection struct {
	Combination
	Cycle  int
	Reason string
}

// Result holds the surviving Overviews and the tables derived from them.
type Result struct {
	RunID     string
	Overviews []*batch.Overview
	Failures  []Failure
	Rejected  []Rejection
	Long      []LongRow
	Short     []ShortRow
}

// ChargeKeys returns the summary keys of the surviving Overviews.
func (r *Result) ChargeKeys() ([]string, error) {
	if r == nil || len(r.Overviews) == 0 {
		return nil, ErrNoResults
	}
	return integrate.SummaryKeys(), nil
}

// Combinations expands the grid for the given descriptions in description,
// interval, K modifier, fixed K order.
func Combinations(descs []experiment.Description, cfg Config) []Combination {
	fixed := make([]*float64, 0, len(cfg.FixedKs))
	for _, k := range cfg.FixedKs {
		fixed = append(fixed, &k)
	}
	if len(fixed) == 0 {
		fixed = []*float64{nil}
	}

	var out []Combination
	for i, d := range descs {
		for _, interval := range cfg.TimeShifts {
			for _, mod := range cfg.KShifts {
				for _, k := range fixed {
					out = append(out, Combination{
						Description: i,
						Experiment:  d.Name,
						Interval:    interval,
						KModifier:   mod,
						FixedK:      k,
					})
				}
			}
		}
	}
	return out
}

// BoundaryConditions reports whether every cycle of an Overview has
// non-negative Q_diff_pos and Q_tot_j - Q_tot_M. On violation it returns
// the first offending cycle and key.
func BoundaryConditions(ov *batch.Overview) (ok bool, cycle int, reason string) {
	for _, c := range ov.CycleDescriptions() {
		switch {
		case c.Summary.DiffPos < 0:
			return false, c.Cycle.Number, integrate.KeyDiffPos
		case c.Summary.TotalJMinusM < 0:
			return false, c.Cycle.Number, integrate.KeyTotalJMinusM
		}
	}
	return true, 0, ""
}

type outcome struct {
	overview *batch.Overview
	err      error
}

// Run evaluates every combination of the grid for every loaded description.
// A failing combination is logged and recorded; the sweep continues.
func Run(ctx context.Context, descs []experiment.Description, cfg Config) (*Result, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	res := &Result{RunID: uuid.NewString()}
	log := logging.OrDiscard(cfg.Logger).WithField("run_id", res.RunID)

	combos := Combinations(descs, cfg)
	log.WithFields(logrus.Fields{
		"descriptions": len(descs),
		"combinations": len(combos),
	}).Info("sweep started")

	outcomes := make([]outcome, len(combos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, c := range combos {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			interval := c.Interval
			ov, err := batch.Run(gctx, descs[c.Description], batch.Options{
				Interval:  &interval,
				KModifier: c.KModifier,
				FixedK:    c.FixedK,
				Limits:    cfg.Limits,
				Baseline:  cfg.Baseline,
				Workers:   1,
				Logger:    log,
			})
			outcomes[i] = outcome{overview: ov, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, o := range outcomes {
		c := combos[i]
		entry := log.WithFields(c.Fields())
		if o.err != nil {
			entry.WithError(o.err).Warn("combination failed")
			res.Failures = append(res.Failures, Failure{Combination: c, Err: o.err})
			continue
		}
		if cfg.Filter {
			if ok, cycle, reason := BoundaryConditions(o.overview); !ok {
				entry.WithFields(logrus.Fields{"cycle": cycle, "reason": reason}).Warn("overview rejected")
				res.Rejected = append(res.Rejected, Rejection{Combination: c, Cycle: cycle, Reason: reason})
				continue
			}
		}
		res.Overviews = append(res.Overviews, o.overview)
	}

	if len(res.Overviews) == 0 {
		return res, fmt.Errorf("%d combinations, %d failed, %d rejected: %w",
			len(combos), len(res.Failures), len(res.Rejected), ErrNoResults)
	}

	res.Long = longTable(res.Overviews)
	res.Short = shortTable(res.Long, cfg.VertexLimitLower, cfg.VertexLimitUpper)
	log.WithFields(logrus.Fields{
		"overviews": len(res.Overviews),
		"failed":    len(res.Failures),
		"rejected":  len(res.Rejected),
		"buckets":   len(res.Short),
	}).Info("sweep finished")
	return res, nil
}
