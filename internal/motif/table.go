package motif

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rcliao/motifbpe/internal/model"
)

// Header is the column layout of the motif table.
var Header = []string{"name", "pattern", "category", "weight"}

// FormatError describes a motif table row that was skipped.
type FormatError struct {
	Row    int    `json:"row"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

func (e FormatError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("row %d (%s): %s", e.Row, e.Name, e.Reason)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// Row is a parsed motif with its 1-based line in the source table.
type Row struct {
	Line  int
	Motif model.Motif
}

// ReadTable parses a CSV motif table. The header row is optional. Rows with
// a missing name or pattern, an unknown category or a bad weight are skipped
// and returned as warnings; only an unreadable stream is an error.
func ReadTable(r io.Reader) ([]Row, []FormatError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var (
		rows     []Row
		warnings []FormatError
		first    = true
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				warnings = append(warnings, FormatError{Row: pe.Line, Reason: pe.Err.Error()})
				continue
			}
			return rows, warnings, fmt.Errorf("read motif table: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		m, ferr := parseRow(rec)
		if ferr != "" {
			warnings = append(warnings, FormatError{Row: line, Name: m.Name, Reason: ferr})
			continue
		}
		rows = append(rows, Row{Line: line, Motif: m})
	}
	return rows, warnings, nil
}

func isHeader(rec []string) bool {
	return len(rec) >= 2 &&
		strings.EqualFold(strings.TrimSpace(rec[0]), "name") &&
		strings.EqualFold(strings.TrimSpace(rec[1]), "pattern")
}

func parseRow(rec []string) (model.Motif, string) {
	if len(rec) < 3 || len(rec) > len(Header) {
		return model.Motif{}, fmt.Sprintf("expected 3 or 4 columns, got %d", len(rec))
	}
	m := model.Motif{
		Name:     strings.TrimSpace(rec[0]),
		Pattern:  strings.TrimSpace(rec[1]),
		Category: model.Category(strings.ToLower(strings.TrimSpace(rec[2]))),
	}
	if m.Name == "" {
		return m, "missing name"
	}
	if m.Pattern == "" {
		return m, "missing pattern"
	}
	if !model.ValidCategories[m.Category] {
		return m, fmt.Sprintf("unknown category %q", rec[2])
	}
	if len(rec) == 4 {
		if ws := strings.TrimSpace(rec[3]); ws != "" {
			w, err := strconv.ParseFloat(ws, 64)
			if err != nil {
				return m, fmt.Sprintf("weight %q is not a number", ws)
			}
			if !(w > 0) {
				return m, fmt.Sprintf("weight must be positive, got %v", w)
			}
			m.Weight = &w
		}
	}
	return m, ""
}

// WriteTable writes motifs as CSV with a header row.
func WriteTable(w io.Writer, motifs []model.Motif) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, m := range motifs {
		weight := ""
		if m.Weight != nil {
			weight = strconv.FormatFloat(*m.Weight, 'g', -1, 64)
		}
		if err := cw.Write([]string{m.Name, m.Pattern, string(m.Category), weight}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
