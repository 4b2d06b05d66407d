package experiment

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/godems/logging"
	"github.com/sartorproj/godems/timeseries"
)

// DefaultElectrodeDiameter is the working electrode diameter in cm.
const DefaultElectrodeDiameter = 0.7

// LoaderOptions configures how cycle tables are read.
type LoaderOptions struct {
	CSV               *timeseries.CSVOptions
	ElectrodeDiameter float64 // cm (default: 0.7)
	Workers           int     // concurrent file reads (default: GOMAXPROCS)
	Logger            logrus.FieldLogger
}

// DefaultLoaderOptions returns the default loader options.
func DefaultLoaderOptions() LoaderOptions {
	return LoaderOptions{
		CSV:               timeseries.DefaultCSVOptions(),
		ElectrodeDiameter: DefaultElectrodeDiameter,
		Workers:           runtime.GOMAXPROCS(0),
	}
}

// Loader attaches measurement tables to the cycles of a description.
type Loader struct {
	opts LoaderOptions
	log  logrus.FieldLogger
}

// NewLoader returns a loader; zero options take their defaults.
func NewLoader(opts LoaderOptions) *Loader {
	def := DefaultLoaderOptions()
	if opts.CSV == nil {
		opts.CSV = def.CSV
	}
	if opts.ElectrodeDiameter <= 0 {
		opts.ElectrodeDiameter = def.ElectrodeDiameter
	}
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	return &Loader{opts: opts, log: logging.OrDiscard(opts.Logger)}
}

// Load returns a copy of d whose cycles carry their tables and file names.
// Each cycle's files are located under the data folder, concatenated and
// extended with the current density. Cycles already loaded are kept as is.
func (l *Loader) Load(ctx context.Context, d Description) (Description, error) {
	if err := d.Validate(); err != nil {
		return Description{}, err
	}
	out := d.Clone()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Workers)
	for i := range out.Cycles {
		if out.Cycles[i].Loaded() {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c := &out.Cycles[i]
			name := d.Filename(*c)
			t, err := timeseries.LoadFiles(d.DataFolder, []string{name}, l.opts.CSV)
			if err != nil {
				return fmt.Errorf("%s cycle %d: %w", d.Name, c.Number, err)
			}
			t, err = timeseries.WithCurrentDensity(t, l.opts.ElectrodeDiameter)
			if err != nil {
				return fmt.Errorf("%s cycle %d: %w", d.Name, c.Number, err)
			}
			c.Filename = name
			c.Table = t
			l.log.WithFields(logrus.Fields{
				"experiment": d.Name,
				"cycle":      c.Number,
				"rows":       t.Len(),
			}).Debug("cycle loaded")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Description{}, err
	}
	return out, nil
}
