// Package dataset loads numeric column data from plain-text files: one
// record per line, one to three whitespace- or comma-separated float
// columns, blank lines and #-comments ignored.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Columns holds the parsed column data. Y and Err are nil when the file has
// fewer than two or three columns respectively.
type Columns struct {
	X   []float64
	Y   []float64
	Err []float64
}

// Len returns the number of records.
func (c *Columns) Len() int {
	return len(c.X)
}

// ParseError reports a malformed record with its location.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// Load reads column data from the file at path.
func Load(path string) (*Columns, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()
	return Read(f, path)
}

// Read parses column data from r. path is used in error messages only.
func Read(r io.Reader, path string) (*Columns, error) {
	cols := &Columns{}
	ncols := 0

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		if len(fields) < 1 || len(fields) > 3 {
			return nil, &ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("want 1 to 3 columns, got %d", len(fields))}
		}
		if ncols == 0 {
			ncols = len(fields)
		} else if len(fields) != ncols {
			return nil, &ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("inconsistent column count: want %d, got %d", ncols, len(fields))}
		}

		vals := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, &ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("bad number %q", field)}
			}
			vals[i] = v
		}

		cols.X = append(cols.X, vals[0])
		if ncols >= 2 {
			cols.Y = append(cols.Y, vals[1])
		}
		if ncols >= 3 {
			cols.Err = append(cols.Err, vals[2])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return cols, nil
}
