package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Input errors.
var (
	// ErrColumnNotFound indicates the header row lacks the requested column.
	ErrColumnNotFound = errors.New("batch: column not found")

	// ErrNoHeader indicates the input has no header row.
	ErrNoHeader = errors.New("batch: no header row")
)

// DefaultColumn is the column read when none is given.
const DefaultColumn = "email"

// ColumnError reports a missing column together with the columns present.
type ColumnError struct {
	Column    string
	Available []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q not found. Available: %s", e.Column, strings.Join(e.Available, ", "))
}

func (e *ColumnError) Unwrap() error { return ErrColumnNotFound }

// ReadColumn reads CSV from r and returns the trimmed, non-empty values of
// column in row order. The first row is the header.
func ReadColumn(r io.Reader, column string) ([]string, error) {
	if column == "" {
		column = DefaultColumn
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("batch: reading header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	idx := -1
	for i, name := range header {
		if name == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &ColumnError{Column: column, Available: header}
	}

	var values []string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("batch: reading row: %w", err)
		}
		if idx >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[idx]); v != "" {
			values = append(values, v)
		}
	}
	return values, nil
}

// ReadFile opens path and reads column from it.
func ReadFile(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadColumn(f, column)
}
