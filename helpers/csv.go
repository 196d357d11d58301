package helpers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spektr-org/shelfscope/engine"
)

// ============================================================================
// CSV HELPER — Parses CSV data into an engine.Dataset
// ============================================================================
// The header row defines field names verbatim (casing preserved); the
// Column Resolver matches them case-insensitively later. Cells stay strings
// unless AutoType is on, in which case obviously-numeric cells become
// float64. The engine still validates every value it reads.
// ============================================================================

// CSVOptions controls ParseCSV.
type CSVOptions struct {
	AutoType bool // pre-coerce numeric-looking cells to float64
	Comma    rune // field delimiter, ',' when zero
}

// CSVStats reports what ParseCSV saw.
type CSVStats struct {
	Rows    int
	Skipped int // malformed records
}

// ErrEmptyInput is returned when the input has no header row.
var ErrEmptyInput = errors.New("input has no header row")

// ParseCSV reads r into a Dataset whose column order is the header order.
// Short rows leave trailing fields absent; extra cells are ignored.
func ParseCSV(r io.Reader, opts CSVOptions) (*engine.Dataset, CSVStats, error) {
	var stats CSVStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}

	// Read header
	headers, err := reader.Read()
	if err == io.EOF {
		return nil, stats, ErrEmptyInput
	}
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	// Blank and repeated header names are not addressable; skip those
	// columns and keep the first occurrence.
	columns := make([]string, 0, len(headers))
	index := make([]int, 0, len(headers))
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		columns = append(columns, name)
		index = append(index, i)
	}
	if len(columns) == 0 {
		return nil, stats, ErrEmptyInput
	}

	// Read rows
	rows := make([]engine.Row, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				stats.Skipped++
				continue // skip malformed rows
			}
			return nil, stats, fmt.Errorf("failed to read CSV: %w", err)
		}

		row := make(engine.Row, len(columns))
		for c, i := range index {
			if i >= len(record) {
				break
			}
			row[columns[c]] = cellValue(record[i], opts.AutoType)
		}
		rows = append(rows, row)
	}

	stats.Rows = len(rows)
	return engine.NewDataset(rows, columns), stats, nil
}

func cellValue(raw string, autoType bool) any {
	if !autoType {
		return raw
	}
	if f, ok := engine.Coerce(raw); ok {
		return f
	}
	return raw
}
