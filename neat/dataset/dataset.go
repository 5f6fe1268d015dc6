// Package dataset loads tables of input and expected output values used to
// score genomes.
//
// A CSV dataset starts with a header row naming every column "input",
// "output" or "weight". All input columns come first, followed by at least
// one output column and an optional final weight column:
//
//	input,input,output,weight
//	0,0,0,1
//	0,1,1,2
//
// Every following row must hold a number for each column.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/baldhumanity/neatnodes/neat"
)

// ErrFormat reports a malformed dataset.
var ErrFormat = fmt.Errorf("%w: malformed dataset", neat.ErrInputContract)

const (
	columnInput  = "input"
	columnOutput = "output"
	columnWeight = "weight"
)

// Table is an in-memory dataset.
type Table struct {
	inputs   int
	outputs  int
	weighted bool
	rows     [][]float64 // inputs, then outputs, then the weight if any
}

var _ neat.DataSet = (*Table)(nil)

// New builds a table from parallel slices of input and output vectors.
// weights may be nil for an unweighted table.
func New(inputs, outputs [][]float64, weights []float64) (*Table, error) {
	if len(inputs) != len(outputs) {
		return nil, fmt.Errorf("%d input rows but %d output rows: %w", len(inputs), len(outputs), ErrFormat)
	}
	if weights != nil && len(weights) != len(inputs) {
		return nil, fmt.Errorf("%d weights for %d rows: %w", len(weights), len(inputs), ErrFormat)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no rows: %w", ErrFormat)
	}

	t := &Table{inputs: len(inputs[0]), outputs: len(outputs[0]), weighted: weights != nil}
	if t.inputs == 0 || t.outputs == 0 {
		return nil, fmt.Errorf("both inputs and outputs must be provided: %w", ErrFormat)
	}
	for i := range inputs {
		if len(inputs[i]) != t.inputs || len(outputs[i]) != t.outputs {
			return nil, fmt.Errorf("row %d does not align with row 0: %w", i, ErrFormat)
		}
		row := make([]float64, 0, t.width())
		row = append(row, inputs[i]...)
		row = append(row, outputs[i]...)
		if t.weighted {
			row = append(row, weights[i])
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// Load reads a CSV dataset from a file.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset '%s': %w", path, err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset '%s': %w", path, err)
	}
	return t, nil
}

// Parse reads a CSV dataset.
func Parse(r io.Reader) (*Table, error) {
	reader := gocsv.LazyCSVReader(r)
	if cr, ok := reader.(*csv.Reader); ok {
		// Row widths are checked against the header below.
		cr.FieldsPerRecord = -1
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("no header row found: %w", ErrFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if len(record) != t.width() {
			return nil, fmt.Errorf("line %d has %d values, header has %d columns: %w", line, len(record), t.width(), ErrFormat)
		}

		row := make([]float64, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %d: %q is not a number: %w", line, i+1, field, ErrFormat)
			}
			row[i] = v
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func parseHeader(header []string) (*Table, error) {
	t := &Table{}
	for i, name := range header {
		switch {
		case t.weighted:
			return nil, fmt.Errorf("column %d follows the weight column: %w", i+1, ErrFormat)
		case name == columnInput && t.outputs == 0:
			t.inputs++
		case name == columnOutput && t.inputs > 0:
			t.outputs++
		case name == columnWeight && t.outputs > 0:
			t.weighted = true
		default:
			return nil, fmt.Errorf("unexpected column %q at position %d: %w", name, i+1, ErrFormat)
		}
	}
	if t.inputs == 0 || t.outputs == 0 {
		return nil, fmt.Errorf("both inputs and outputs must be provided: %w", ErrFormat)
	}
	return t, nil
}

func (t *Table) width() int {
	w := t.inputs + t.outputs
	if t.weighted {
		w++
	}
	return w
}

// InputCount returns the number of input columns.
func (t *Table) InputCount() int { return t.inputs }

// OutputCount returns the number of output columns.
func (t *Table) OutputCount() int { return t.outputs }

// RowCount returns the number of data rows.
func (t *Table) RowCount() int { return len(t.rows) }

// Weighted reports whether the table has a weight column.
func (t *Table) Weighted() bool { return t.weighted }

// Inputs returns the input values of a row.
func (t *Table) Inputs(row int) []float64 {
	return append([]float64(nil), t.rows[row][:t.inputs]...)
}

// Outputs returns the expected output values of a row.
func (t *Table) Outputs(row int) []float64 {
	return append([]float64(nil), t.rows[row][t.inputs:t.inputs+t.outputs]...)
}

// Weight returns the weight of a row, or 1 for an unweighted table.
func (t *Table) Weight(row int) float64 {
	if !t.weighted {
		return 1
	}
	return t.rows[row][t.inputs+t.outputs]
}
