package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hendrikgbrg/Bundesliga-Forecasting/internal/logger"
	"github.com/hendrikgbrg/Bundesliga-Forecasting/pkg/util"
)

// RawMatch is one row of the flat match log, football-data.co.uk
// vocabulary: one row per match, both sides in the same row.
type RawMatch struct {
	Div      int
	Date     time.Time
	HomeTeam string
	AwayTeam string
	FTHG     int
	FTAG     int
}

// rawHeader is the required header of the flat match log
var rawHeader = []string{"Div", "Date", "HomeTeam", "AwayTeam", "FTHG", "FTAG"}

// EnsureSourceDir verifies that a source directory exists, is a
// directory and is not empty. Runs before any processing begins.
func EnsureSourceDir(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &DirectoryError{Path: path, Reason: DirNotFound}
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return &DirectoryError{Path: path, Reason: DirNotADir}
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", path, err)
	}
	if len(entries) == 0 {
		return &DirectoryError{Path: path, Reason: DirEmptySource}
	}
	return nil
}

// EnsureTargetDir creates a target directory if absent
func EnsureTargetDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return &DirectoryError{Path: path, Reason: DirNotADir}
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("create dir %s: %w", path, err)
	}
	logger.Info("Created directory", path)
	return nil
}

// ReadMatchCSV reads the flat match log. Dates are parsed with the
// explicit day-first layout so ambiguous dates stay deterministic.
// Division strings D1/D2 (or plain 1/2) map to the two modeled tiers.
func ReadMatchCSV(path string, dateFormat string) ([]*RawMatch, error) {
	records, header, err := readRecords(path)
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	var missing []string
	for _, h := range rawHeader {
		if _, ok := idx[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}

	matches := make([]*RawMatch, 0, len(records))
	for n, rec := range records {
		div, err := parseDivision(rec[idx["Div"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		date, err := time.Parse(dateFormat, rec[idx["Date"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: cannot parse date %q with layout %q: %w", n+2, rec[idx["Date"]], dateFormat, err)
		}
		fthg, err := util.GetAsInteger(rec[idx["FTHG"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: FTHG: %w", n+2, err)
		}
		ftag, err := util.GetAsInteger(rec[idx["FTAG"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: FTAG: %w", n+2, err)
		}
		matches = append(matches, &RawMatch{
			Div:      div,
			Date:     date,
			HomeTeam: rec[idx["HomeTeam"]],
			AwayTeam: rec[idx["AwayTeam"]],
			FTHG:     fthg,
			FTAG:     ftag,
		})
	}
	logger.Info("Read matches from", path, len(matches))
	return matches, nil
}

// ReadTable reads an intermediate team-match table. Every header
// column must be part of the known vocabulary; the populated column
// set of the returned table is exactly the file header.
func ReadTable(path string, dateFormats []string) (*Table, error) {
	records, header, err := readRecords(path)
	if err != nil {
		return nil, err
	}

	for _, h := range header {
		if _, ok := columnIndex[h]; !ok {
			return nil, fmt.Errorf("unknown column %q in %s", h, path)
		}
	}

	rows := make([]*TeamMatch, 0, len(records))
	for n, rec := range records {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("row %d: expected %d cells, got %d", n+2, len(header), len(rec))
		}
		tm := &TeamMatch{}
		for i, h := range header {
			if err := parseColumn(tm, h, rec[i], dateFormats); err != nil {
				return nil, fmt.Errorf("row %d: %w", n+2, err)
			}
		}
		rows = append(rows, tm)
	}
	logger.Info("Read table from", path, len(rows))
	return NewTable(rows, header...), nil
}

// WriteTable writes the populated columns of a table to CSV
func WriteTable(t *Table, path string, dateFormat string) error {
	if err := EnsureTargetDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := t.Columns()
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(header))
	for _, row := range t.Rows {
		for i, col := range header {
			cell, err := formatColumn(row, col, dateFormat)
			if err != nil {
				return err
			}
			rec[i] = cell
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	logger.Info("Wrote table to", path, t.Len())
	return nil
}

// WriteFrame serializes a plain numeric frame, such as a scaled model
// partition
func WriteFrame(fr *Frame, path string) error {
	if err := EnsureTargetDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(fr.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(fr.Columns))
	for _, row := range fr.Rows {
		for i, v := range row {
			rec[i] = trimFloat(v)
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	logger.Info("Wrote frame to", path, len(fr.Rows))
	return nil
}

// readRecords loads a CSV file and splits off the header row
func readRecords(path string) ([][]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("file %s is empty", path)
	}
	return all[1:], all[0], nil
}

// parseDivision maps a division cell to the numeric tier
func parseDivision(s string) (int, error) {
	switch s {
	case "D1", "1":
		return 1, nil
	case "D2", "2":
		return 2, nil
	}
	return 0, fmt.Errorf("unknown division %q", s)
}

// parseInt parses an integer cell, accepting float renderings of
// whole numbers
func parseInt(cell string) (int, error) {
	n, err := util.GetAsInteger(cell)
	if err == nil {
		return n, nil
	}
	f, ferr := util.GetAsFloat(cell)
	if ferr != nil {
		return 0, err
	}
	return int(f), nil
}

// parseFloat parses a float cell
func parseFloat(cell string) (float64, error) {
	return util.GetAsFloat(cell)
}

// trimFloat renders a float with the shortest round-trip representation
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
