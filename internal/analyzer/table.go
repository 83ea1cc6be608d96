package analyzer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a rectangular view over a spreadsheet-like file: a header row
// plus string cells. Every row is padded or truncated to the header width.
type Table struct {
	Columns []string
	Rows    [][]string
}

// LoadTable reads a csv, xlsx or json file into a Table. The format is
// chosen by file name suffix.
func LoadTable(path, name string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx", ".xls":
		return loadXLSX(path)
	case ".json":
		return loadJSON(path)
	default:
		return nil, fmt.Errorf("unsupported spreadsheet format: %s", filepath.Ext(name))
	}
}

func loadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	return newTable(records[0], records[1:]), nil
}

func loadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	return newTable(rows[0], rows[1:]), nil
}

// loadJSON accepts the shapes the original tolerated: a list of objects, a
// JIRA-style export with an "issues" list, a generic {"data": [...]}
// wrapper, or a single object (one row).
func loadJSON(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}

	switch v := parsed.(type) {
	case []any:
		return tableFromRecords(v)
	case map[string]any:
		if issues, ok := v["issues"].([]any); ok {
			return tableFromRecords(issues)
		}
		if rows, ok := v["data"].([]any); ok {
			return tableFromRecords(rows)
		}
		return tableFromRecords([]any{v})
	default:
		return nil, fmt.Errorf("json must be a list of objects or an object")
	}
}

func tableFromRecords(records []any) (*Table, error) {
	var columns []string
	seen := map[string]bool{}
	objects := make([]map[string]any, 0, len(records))

	for _, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("json list members must be objects")
		}
		flat := flattenObject(obj)
		objects = append(objects, flat)

		keys := make([]string, 0, len(flat))
		for k := range flat {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}

	rows := make([][]string, 0, len(objects))
	for _, obj := range objects {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = cellString(obj[col])
		}
		rows = append(rows, row)
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

// flattenObject flattens one level of nested objects into dotted keys,
// matching how the original normalized single-object json files.
func flattenObject(obj map[string]any) map[string]any {
	flat := make(map[string]any, len(obj))
	for k, v := range obj {
		if nested, ok := v.(map[string]any); ok {
			for nk, nv := range nested {
				flat[k+"."+nk] = nv
			}
			continue
		}
		flat[k] = v
	}
	return flat
}

func newTable(header []string, body [][]string) *Table {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	rows := make([][]string, 0, len(body))
	for _, raw := range body {
		row := make([]string, len(columns))
		for i := range columns {
			if i < len(raw) {
				row[i] = strings.TrimSpace(raw[i])
			}
		}
		rows = append(rows, row)
	}

	return &Table{Columns: columns, Rows: rows}
}

// cellString renders a decoded json value the way a spreadsheet cell would
// hold it. Integral floats lose the trailing ".0" so counts group cleanly.
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}
