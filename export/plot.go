package export

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sartorproj/godems/integrate"
	"github.com/sartorproj/godems/sweep"
)

var (
	longColor  = color.RGBA{R: 31, G: 119, B: 180, A: 50}
	shortColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// PlotCharges saves a PNG of one summary key against vertex potential: every
// long row as a faint point and the short table means in red.
func PlotCharges(path string, res *sweep.Result, key string) error {
	p, err := chargePlot(res, key)
	if err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// PlotAll saves one PNG per summary key into dir and returns the file paths.
func PlotAll(dir string, res *sweep.Result) ([]string, error) {
	keys, err := res.ChargeKeys()
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, key := range keys {
		if key == integrate.KeyVertexPotential {
			continue
		}
		path := filepath.Join(dir, FileName(key)+".png")
		if err := PlotCharges(path, res, key); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// FileName turns a summary key into a file name stem.
func FileName(key string) string {
	r := strings.NewReplacer(" ", "_", "+", "plus", "-", "minus")
	return r.Replace(key)
}

func chargePlot(res *sweep.Result, key string) (*plot.Plot, error) {
	var long, short plotter.XYs
	for _, r := range res.Long {
		v, ok := r.Summary.Get(key)
		if !ok {
			return nil, fmt.Errorf("unknown summary key %q", key)
		}
		long = append(long, plotter.XY{X: r.Summary.VertexPotential, Y: v})
	}
	for _, r := range res.Short {
		v, _ := r.Mean.Get(key)
		short = append(short, plotter.XY{X: r.VertexPotential, Y: v})
	}

	p := plot.New()
	p.Title.Text = key
	p.X.Label.Text = "Upper potential limit / V vs. RHE"
	p.Y.Label.Text = "Q / µC cm⁻²"

	if len(long) > 0 {
		s, err := plotter.NewScatter(long)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = longColor
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add("cycles", s)
	}
	if len(short) > 0 {
		s, err := plotter.NewScatter(short)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = shortColor
		s.GlyphStyle.Radius = vg.Points(4)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add("mean", s)
	}
	p.Add(plotter.NewGrid())
	return p, nil
}
