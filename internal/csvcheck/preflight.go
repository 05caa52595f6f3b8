// Package csvcheck validates a transactions CSV locally before it is
// uploaded, mirroring the checks the API server applies so that obvious
// mistakes never cost a network round trip.
package csvcheck

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotCSV    = errors.New("file must be a CSV")
	ErrEmptyFile = errors.New("file is empty")
	ErrNoRows    = errors.New("no data rows")
)

// requiredColumns match what POST /api/transactions/upload validates.
var requiredColumns = []string{"date", "description", "amount"}

// dateLayouts are the date shapes the server's parser accepts.
// "1/2/2006" also covers zero-padded MM/DD/YYYY.
var dateLayouts = []string{time.DateOnly, "1/2/2006"}

// HeaderError reports required columns missing from the CSV header.
type HeaderError struct {
	Missing []string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Report summarizes a validated CSV.
type Report struct {
	Rows    int // rows the server will import
	Skipped int // rows the server will silently drop
}

// Preflight checks the named CSV stream: extension, encoding, header, and
// per-row parseability. Rows with unparseable dates or amounts are counted
// as Skipped rather than rejected, matching the server's skip-bad-rows
// behavior.
func Preflight(name string, r io.Reader) (*Report, error) {
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return nil, ErrNotCSV
	}

	decoded, err := decodeUTF8(r)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}

	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	report := &Report{}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			report.Skipped++
			continue
		}

		if rowOK(record, cols) {
			report.Rows++
		} else {
			report.Skipped++
		}
	}

	if report.Rows == 0 && report.Skipped == 0 {
		return nil, ErrNoRows
	}

	return report, nil
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string

	for _, want := range requiredColumns {
		if _, ok := cols[want]; !ok {
			missing = append(missing, want)
		}
	}

	if len(missing) > 0 {
		return nil, &HeaderError{Missing: missing}
	}

	return cols, nil
}

func rowOK(record []string, cols map[string]int) bool {
	date, ok := field(record, cols["date"])
	if !ok || !dateOK(date) {
		return false
	}

	amount, ok := field(record, cols["amount"])
	if !ok {
		return false
	}

	_, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)

	return err == nil
}

func field(record []string, idx int) (string, bool) {
	if idx >= len(record) {
		return "", false
	}

	return record[idx], true
}

func dateOK(s string) bool {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}

	return false
}
