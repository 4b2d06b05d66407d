package timeseries

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrNoData is returned when a CSV source contains no usable rows.
	ErrNoData = errors.New("no valid data found in CSV")
	// ErrNoFiles is returned when no file names are requested or none match.
	ErrNoFiles = errors.New("no matching files")
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	TimeColumn string   // Column holding the time index (default: "time")
	Columns    []string // Channels to load (default: every numeric column)
	Delimiter  rune     // Field delimiter (default: ',')
	SkipRows   int      // Number of rows to skip before the header
	Extension  string   // File extension considered by FindFiles (default: ".csv")
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		TimeColumn: Time,
		Delimiter:  ',',
		Extension:  ".csv",
	}
}

// LoadCSV loads a table from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	t, err := LoadCSVFromReader(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return t, nil
}

// LoadCSVFromReader loads a table from an io.Reader. The first row is the
// header. Rows whose time or selected values are missing are skipped; when
// no columns are selected, columns holding non-numeric values are dropped.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Table, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	timeCol := opts.TimeColumn
	if timeCol == "" {
		timeCol = Time
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrNoData
		}
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.Trim(h, "\""))
		if h == "" {
			continue // unnamed index column written by spreadsheet tools
		}
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	timeIdx, ok := index[timeCol]
	if !ok {
		return nil, fmt.Errorf("%q: %w", timeCol, ErrColumnNotFound)
	}

	explicit := len(opts.Columns) > 0
	names := opts.Columns
	if !explicit {
		names = nil
		for i, h := range header {
			h = strings.TrimSpace(strings.Trim(h, "\""))
			if h == "" || h == timeCol || index[h] != i {
				continue
			}
			names = append(names, h)
		}
	}
	for _, name := range names {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrColumnNotFound)
		}
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if !explicit {
		names = numericColumns(records, names, index)
	}

	var times []float64
	values := make([][]float64, len(names))
rows:
	for _, record := range records {
		tv, ok := parseField(record, timeIdx)
		if !ok {
			continue
		}
		row := make([]float64, len(names))
		for i, name := range names {
			v, ok := parseField(record, index[name])
			if !ok {
				continue rows
			}
			row[i] = v
		}
		times = append(times, tv)
		for i := range names {
			values[i] = append(values[i], row[i])
		}
	}

	if len(times) == 0 {
		return nil, ErrNoData
	}
	return FromColumns(times, names, values)
}

// numericColumns keeps the candidate columns whose every non-missing value parses as a float.
func numericColumns(records [][]string, candidates []string, index map[string]int) []string {
	out := make([]string, 0, len(candidates))
	for _, name := range candidates {
		numeric := true
		for _, record := range records {
			idx := index[name]
			if idx >= len(record) || isMissing(record[idx]) {
				continue
			}
			if _, err := strconv.ParseFloat(clean(record[idx]), 64); err != nil {
				numeric = false
				break
			}
		}
		if numeric {
			out = append(out, name)
		}
	}
	return out
}

func parseField(record []string, idx int) (float64, bool) {
	if idx < 0 || idx >= len(record) || isMissing(record[idx]) {
		return 0, false
	}
	v, err := strconv.ParseFloat(clean(record[idx]), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func clean(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\""))
}

func isMissing(s string) bool {
	switch clean(s) {
	case "", "NA", "NaN", "nan", "null":
		return true
	}
	return false
}

// FindFiles walks folder recursively and returns, for each requested name in
// order, every file with the configured extension whose path contains it.
func FindFiles(folder string, files []string, opts *CSVOptions) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("files must be a non-empty list of names: %w", ErrNoFiles)
	}
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	ext := opts.Extension
	if ext == "" {
		ext = ".csv"
	}

	var found []string
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ext) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(found)

	var matches []string
	for _, name := range files {
		for _, path := range found {
			if strings.Contains(path, name) {
				matches = append(matches, path)
			}
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%v under %s: %w", files, folder, ErrNoFiles)
	}
	return matches, nil
}

// LoadFiles locates the named files under folder and concatenates them into one table.
func LoadFiles(folder string, files []string, opts *CSVOptions) (*Table, error) {
	paths, err := FindFiles(folder, files, opts)
	if err != nil {
		return nil, err
	}
	tables := make([]*Table, 0, len(paths))
	for _, path := range paths {
		t, err := LoadCSV(path, opts)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	if len(tables) == 1 {
		return tables[0], nil
	}
	return Concat(tables...)
}

// WriteCSV writes the table with the time index as the first column.
func WriteCSV(w io.Writer, t *Table) error {
	writer := bufio.NewWriter(w)
	cw := csv.NewWriter(writer)

	header := append([]string{Time}, t.names...)
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for i := range t.time {
		record[0] = strconv.FormatFloat(t.time[i], 'g', -1, 64)
		for j, name := range t.names {
			record[j+1] = strconv.FormatFloat(t.columns[name][i], 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return writer.Flush()
}

// SaveCSV saves a table to a CSV file.
func SaveCSV(t *Table, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteCSV(file, t); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
