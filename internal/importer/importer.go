// Package importer reads batches of rectangle operations from CSV, Excel and
// DXF files. CSV input supports automatic delimiter detection, flexible
// column mapping and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/ZonePlanner/internal/model"
	"github.com/xuri/excelize/v2"
)

// OpKind is the action an imported row performs on the layout.
type OpKind string

const (
	OpAdd    OpKind = "add"
	OpDelete OpKind = "delete"
)

// Operation is one imported rectangle operation.
type Operation struct {
	Kind   OpKind
	Rect   model.Rect
	Source string // Where the operation came from, e.g. "Line 4"
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Ops      []Operation
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Op     int
	X      int
	Y      int
	Width  int
	Height int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"op":     {"op", "operation", "action", "mode", "type"},
	"x":      {"x", "left", "xmin", "x0"},
	"y":      {"y", "top", "ymin", "y0"},
	"width":  {"width", "w", "dx", "size x"},
	"height": {"height", "h", "dy", "size y"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	best := ','
	bestScore := 0

	for _, delim := range candidates {
		records, err := readCSV(bytes.NewReader(data), delim)
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		consistent := 0
		for _, row := range records {
			if len(row) == firstCols {
				consistent++
			}
		}

		if score := consistent*10 + firstCols; score > bestScore {
			bestScore = score
			best = delim
		}
	}

	return best
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a positional
// mapping and false if no header was found. Positional rows are either
// op,x,y,width,height or x,y,width,height depending on their length.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Op: -1, X: -1, Y: -1, Width: -1, Height: -1}
	slots := map[string]*int{
		"op":     &mapping.Op,
		"x":      &mapping.X,
		"y":      &mapping.Y,
		"width":  &mapping.Width,
		"height": &mapping.Height,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias && *slots[role] == -1 {
					*slots[role] = i
					isHeader = true
				}
			}
		}
	}

	if isHeader {
		return mapping, true
	}
	if len(row) >= 5 {
		return ColumnMapping{Op: 0, X: 1, Y: 2, Width: 3, Height: 4}, false
	}
	return ColumnMapping{Op: -1, X: 0, Y: 1, Width: 2, Height: 3}, false
}

// ParseOpKind converts an operation name. An empty name means add.
func ParseOpKind(s string) (OpKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "add", "a", "+", "draw":
		return OpAdd, true
	case "delete", "del", "d", "-", "remove", "erase":
		return OpDelete, true
	default:
		return "", false
	}
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseNumber(row []string, idx int, name, rowLabel string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	return v, ""
}

// parseRow extracts an Operation from a row using the given column mapping.
// Returns the operation, any error message and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (Operation, string, string) {
	kind, ok := ParseOpKind(getCell(row, mapping.Op))
	if !ok {
		return Operation{}, fmt.Sprintf("%s: Unknown operation '%s'", rowLabel, getCell(row, mapping.Op)), ""
	}

	var vals [4]float64
	for i, col := range []struct {
		name string
		idx  int
	}{
		{"x", mapping.X},
		{"y", mapping.Y},
		{"width", mapping.Width},
		{"height", mapping.Height},
	} {
		v, errMsg := parseNumber(row, col.idx, col.name, rowLabel)
		if errMsg != "" {
			return Operation{}, errMsg, ""
		}
		vals[i] = v
	}

	r := model.NewRect(vals[0], vals[1], vals[2], vals[3])
	var warning string
	if r.Width < 0 || r.Height < 0 {
		r = r.Normalize()
		warning = fmt.Sprintf("%s: Negative extent normalized to %v", rowLabel, r)
	}
	if !r.IsValid() {
		return Operation{}, fmt.Sprintf("%s: Width and height must be non-zero", rowLabel), ""
	}

	return Operation{Kind: kind, Rect: r, Source: rowLabel}, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.Comment = '#'
	return reader.ReadAll()
}

// ImportCSV imports operations from a CSV file, detecting the delimiter.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		name := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", name))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports operations from a CSV reader with a known delimiter.
func ImportCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	records, err := readCSV(r, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, "Line", nil)
}

// ImportExcel imports operations from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		for _, c := range []struct {
			name string
			idx  int
		}{{"X", mapping.X}, {"Y", mapping.Y}, {"Width", mapping.Width}, {"Height", mapping.Height}} {
			if c.idx == -1 {
				missing = append(missing, c.name)
			}
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		op, errMsg, warning := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Ops = append(result.Ops, op)
	}

	if len(result.Ops) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}
