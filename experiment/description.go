package experiment

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"github.com/sartorproj/godems/timeseries"
)

var (
	// ErrInvalid is returned for a description that fails validation.
	ErrInvalid = errors.New("invalid experiment description")
	// ErrDuplicateCycle is returned when a cycle number appears twice.
	ErrDuplicateCycle = errors.New("duplicate cycle number")
)

var validate = validator.New()

// Cycle is one cyclic voltammetry cycle of an experiment.
type Cycle struct {
	Number     int     `validate:"gte=0"`
	KPrefactor float64 `validate:"gt=0"`
	KPower     float64 `validate:"gt=0"`
	// Filename is matched as a substring against the files of the data
	// folder. Empty means {experiment name}{cycle number}.csv.
	Filename string
	// Table is nil until the cycle is loaded.
	Table *timeseries.Table `validate:"-"`
}

// K returns the calibration factor of the cycle.
func (c Cycle) K() float64 {
	return c.KPrefactor * c.KPower
}

// Loaded reports whether the cycle carries its measurement table.
func (c Cycle) Loaded() bool {
	return c.Table != nil
}

// Description describes one experiment: where its files live, the default
// time shift and the cycles to evaluate in order.
type Description struct {
	Date       string
	DataFolder string `validate:"required"`
	// Interval is the default time shift; nil means none was given.
	Interval *float64
	Name     string  `validate:"required"`
	Cycles   []Cycle `validate:"required,min=1,dive"`
}

// Validate checks required fields, calibration inputs and cycle uniqueness.
func (d Description) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, d.Name, err)
	}
	seen := make(map[int]bool, len(d.Cycles))
	for _, c := range d.Cycles {
		if seen[c.Number] {
			return fmt.Errorf("%s: cycle %d: %w", d.Name, c.Number, ErrDuplicateCycle)
		}
		seen[c.Number] = true
	}
	return nil
}

// Clone returns a copy that shares no cycle slice with d. Tables are shared;
// they are never mutated.
func (d Description) Clone() Description {
	out := d
	if d.Interval != nil {
		v := *d.Interval
		out.Interval = &v
	}
	out.Cycles = append([]Cycle(nil), d.Cycles...)
	return out
}

// CycleNumbers returns the cycle numbers in description order.
func (d Description) CycleNumbers() []int {
	out := make([]int, len(d.Cycles))
	for i, c := range d.Cycles {
		out[i] = c.Number
	}
	return out
}

// Cycle returns the cycle with the given number.
func (d Description) Cycle(number int) (Cycle, bool) {
	for _, c := range d.Cycles {
		if c.Number == number {
			return c, true
		}
	}
	return Cycle{}, false
}

// Filename returns the file name pattern of a cycle.
func (d Description) Filename(c Cycle) string {
	if c.Filename != "" {
		return c.Filename
	}
	return fmt.Sprintf("%s%d.csv", d.Name, c.Number)
}

// WithKPrefactors returns a copy whose cycles take the given prefactors.
// Cycles absent from k keep their own.
func (d Description) WithKPrefactors(k map[int]float64) Description {
	out := d.Clone()
	for i := range out.Cycles {
		if v, ok := k[out.Cycles[i].Number]; ok {
			out.Cycles[i].KPrefactor = v
		}
	}
	return out
}

// WithInterval returns a copy with the default time shift set.
func (d Description) WithInterval(interval float64) Description {
	out := d.Clone()
	out.Interval = &interval
	return out
}

type descriptionDoc struct {
	Date       string        `yaml:"date,omitempty"`
	DataFolder string        `yaml:"data_folder"`
	Interval   *float64      `yaml:"interval,omitempty"`
	Name       string        `yaml:"experiment_name"`
	Cycles     yaml.MapSlice `yaml:"cycles"`
}

type cycleDoc struct {
	KPrefactor float64 `yaml:"K_prefactor"`
	KPower     float64 `yaml:"K_power"`
	Filename   string  `yaml:"filename,omitempty"`
}

// UnmarshalYAML decodes a description keeping the document order of cycles.
func (d *Description) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var doc descriptionDoc
	if err := unmarshal(&doc); err != nil {
		return err
	}
	cycles := make([]Cycle, 0, len(doc.Cycles))
	for _, item := range doc.Cycles {
		n, err := cycleNumber(item.Key)
		if err != nil {
			return err
		}
		raw, err := yaml.Marshal(item.Value)
		if err != nil {
			return err
		}
		var c cycleDoc
		if err := yaml.UnmarshalStrict(raw, &c); err != nil {
			return fmt.Errorf("cycle %d: %w", n, err)
		}
		cycles = append(cycles, Cycle{
			Number:     n,
			KPrefactor: c.KPrefactor,
			KPower:     c.KPower,
			Filename:   c.Filename,
		})
	}
	*d = Description{
		Date:       doc.Date,
		DataFolder: doc.DataFolder,
		Interval:   doc.Interval,
		Name:       doc.Name,
		Cycles:     cycles,
	}
	return nil
}

// MarshalYAML encodes a description without its tables.
func (d Description) MarshalYAML() (interface{}, error) {
	doc := descriptionDoc{
		Date:       d.Date,
		DataFolder: d.DataFolder,
		Interval:   d.Interval,
		Name:       d.Name,
		Cycles:     make(yaml.MapSlice, 0, len(d.Cycles)),
	}
	for _, c := range d.Cycles {
		doc.Cycles = append(doc.Cycles, yaml.MapItem{
			Key:   c.Number,
			Value: cycleDoc{KPrefactor: c.KPrefactor, KPower: c.KPower, Filename: c.Filename},
		})
	}
	return doc, nil
}

func cycleNumber(key interface{}) (int, error) {
	switch k := key.(type) {
	case int:
		return k, nil
	case string:
		n, err := strconv.Atoi(k)
		if err != nil {
			return 0, fmt.Errorf("cycle key %q is not a number", k)
		}
		return n, nil
	}
	return 0, fmt.Errorf("cycle key %v is not a number", key)
}

// DecodeDescription reads and validates a YAML description.
func DecodeDescription(r io.Reader) (Description, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Description{}, err
	}
	var d Description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Description{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := d.Validate(); err != nil {
		return Description{}, err
	}
	return d, nil
}

// LoadDescription reads and validates a YAML description file.
func LoadDescription(path string) (Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return Description{}, err
	}
	defer f.Close()

	d, err := DecodeDescription(f)
	if err != nil {
		return Description{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// EncodeDescription writes a description as YAML.
func EncodeDescription(w io.Writer, d Description) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
