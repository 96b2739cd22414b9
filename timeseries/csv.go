package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn  string // Column name for dates (default: "date")
	ValueColumn string // Column name for values (default: "value")
	IDColumn    string // Column name for series ID (grouped loading only)
	DateFormat  string // Date format (default: "2006-01-02")
	Delimiter   rune   // Field delimiter (default: ',')
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateColumn:  "date",
		ValueColumn: "value",
		IDColumn:    "product_id",
		DateFormat:  DateLayout,
		Delimiter:   ',',
	}
}

// LoadCSV loads a daily series from a CSV file with a header row.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a daily series from an io.Reader. Rows with empty,
// NA or unparsable values are skipped; rows are sorted by date.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	groups, err := readRows(r, opts, false)
	if err != nil {
		return nil, err
	}
	return groups[""].series("")
}

// LoadGroupedCSV loads one daily series per value of the ID column, e.g. one
// per product. The returned IDs are sorted.
func LoadGroupedCSV(r io.Reader, opts *CSVOptions) (map[string]*Series, []string, error) {
	groups, err := readRows(r, opts, true)
	if err != nil {
		return nil, nil, err
	}

	out := make(map[string]*Series, len(groups))
	ids := make([]string, 0, len(groups))
	for id, g := range groups {
		s, err := g.series(id)
		if err != nil {
			return nil, nil, fmt.Errorf("series %s: %w", id, err)
		}
		out[id] = s
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return out, ids, nil
}

type rowGroup struct {
	timestamps []time.Time
	values     []float64
}

func (g *rowGroup) series(name string) (*Series, error) {
	if g == nil || len(g.values) == 0 {
		return nil, errors.New("no valid data found in CSV")
	}
	idx := make([]int, len(g.values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return g.timestamps[idx[a]].Before(g.timestamps[idx[b]])
	})

	timestamps := make([]time.Time, len(idx))
	values := make([]float64, len(idx))
	for i, j := range idx {
		timestamps[i] = g.timestamps[j]
		values[i] = g.values[j]
	}

	s, err := NewDaily(timestamps, values)
	if err != nil {
		return nil, err
	}
	s.Name = name
	return s, nil
}

func readRows(r io.Reader, opts *CSVOptions, grouped bool) (map[string]*rowGroup, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	layout := opts.DateFormat
	if layout == "" {
		layout = DateLayout
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	valueIdx, dateIdx, idIdx := -1, -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.Trim(h, "\""))
		switch {
		case h == opts.ValueColumn || (valueIdx == -1 && (h == "y" || h == "value")):
			valueIdx = i
		case h == opts.DateColumn || (dateIdx == -1 && (h == "ds" || h == "date")):
			dateIdx = i
		case grouped && h == opts.IDColumn:
			idIdx = i
		}
	}
	if valueIdx == -1 || dateIdx == -1 {
		return nil, fmt.Errorf("csv header must name date and value columns, got %v", header)
	}
	if grouped && idIdx == -1 {
		return nil, fmt.Errorf("csv header has no %q column", opts.IDColumn)
	}

	formats := []string{layout, DateLayout, "2006-01-02T15:04:05", "2006/01/02", "01/02/2006"}
	groups := make(map[string]*rowGroup)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if valueIdx >= len(record) || dateIdx >= len(record) {
			continue
		}

		valStr := strings.TrimSpace(strings.Trim(record[valueIdx], "\""))
		if valStr == "" || valStr == "NA" || valStr == "NaN" || valStr == "null" {
			continue
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			continue
		}

		dateStr := strings.TrimSpace(strings.Trim(record[dateIdx], "\""))
		var ts time.Time
		for _, f := range formats {
			ts, err = time.Parse(f, dateStr)
			if err == nil {
				break
			}
		}
		if err != nil {
			continue
		}

		key := ""
		if grouped {
			if idIdx >= len(record) {
				continue
			}
			key = strings.TrimSpace(strings.Trim(record[idIdx], "\""))
		}
		g, ok := groups[key]
		if !ok {
			g = &rowGroup{}
			groups[key] = g
		}
		g.timestamps = append(g.timestamps, ts)
		g.values = append(g.values, val)
	}

	if len(groups) == 0 {
		return nil, errors.New("no valid data found in CSV")
	}
	return groups, nil
}
