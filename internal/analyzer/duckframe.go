package analyzer

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcboeker/go-duckdb"
)

// DuckFrame implements Frame on top of a temporary DuckDB file. Cells are
// stored as VARCHAR in generated columns c0..cN; aggregations run as SQL so
// wide or long uploads never need to sit fully in RAM.
type DuckFrame struct {
	db       *sql.DB
	dbPath   string
	columns  []string
	colIndex map[string]int
	rowCount int
}

// NewDuckFrame spills a Table into a DuckDB file under tempDir.
func NewDuckFrame(tempDir, analysisID string, t *Table) (*DuckFrame, error) {
	dbPath := filepath.Join(tempDir, fmt.Sprintf("analysis_%s.duckdb", analysisID))
	fmt.Printf("[DuckFrame] Creating database at: %s\n", dbPath)

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA memory_limit='1GB'",
			"PRAGMA threads=4",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	defs := make([]string, 0, len(t.Columns)+1)
	defs = append(defs, "id INTEGER")
	for i := range t.Columns {
		defs = append(defs, fmt.Sprintf("c%d VARCHAR", i))
	}
	if _, err := db.Exec("CREATE TABLE cells (" + strings.Join(defs, ", ") + ")"); err != nil {
		db.Close()
		os.Remove(dbPath)
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	if err := appendRows(db, t); err != nil {
		db.Close()
		os.Remove(dbPath)
		return nil, err
	}

	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		idx[c] = i
	}

	fmt.Printf("[DuckFrame] Loaded %d rows, %d columns\n", len(t.Rows), len(t.Columns))
	return &DuckFrame{
		db:       db,
		dbPath:   dbPath,
		columns:  t.Columns,
		colIndex: idx,
		rowCount: len(t.Rows),
	}, nil
}

// appendRows bulk-loads the table through the native Appender API.
func appendRows(db *sql.DB, t *Table) error {
	conn, err := db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	return conn.Raw(func(driverConn interface{}) error {
		dConn, ok := driverConn.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("failed to cast to duckdb.Conn")
		}

		appender, err := duckdb.NewAppenderFromConn(dConn, "", "cells")
		if err != nil {
			return fmt.Errorf("failed to create appender: %w", err)
		}
		defer appender.Close()

		args := make([]driver.Value, len(t.Columns)+1)
		for r, row := range t.Rows {
			args[0] = int32(r)
			for i := range t.Columns {
				args[i+1] = row[i]
			}
			if err := appender.AppendRow(args...); err != nil {
				return fmt.Errorf("failed to append row %d: %w", r, err)
			}
		}

		return appender.Flush()
	})
}

func (f *DuckFrame) RowCount() int {
	return f.rowCount
}

func (f *DuckFrame) Columns() []string {
	return f.columns
}

func (f *DuckFrame) column(col string) (string, error) {
	i, ok := f.colIndex[col]
	if !ok {
		return "", fmt.Errorf("unknown column: %s", col)
	}
	return fmt.Sprintf("c%d", i), nil
}

func (f *DuckFrame) ValueCounts(col string) (map[string]int, error) {
	c, err := f.column(col)
	if err != nil {
		return nil, err
	}

	rows, err := f.db.Query(fmt.Sprintf(
		"SELECT %s, COUNT(*) FROM cells WHERE %s <> '' GROUP BY %s", c, c, c))
	if err != nil {
		return nil, fmt.Errorf("value counts query failed: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var value string
		var n int
		if err := rows.Scan(&value, &n); err != nil {
			return nil, err
		}
		counts[value] = n
	}
	return counts, rows.Err()
}

func (f *DuckFrame) DistinctCount(col string) (int, error) {
	c, err := f.column(col)
	if err != nil {
		return 0, err
	}

	var n int
	err = f.db.QueryRow(fmt.Sprintf(
		"SELECT COUNT(DISTINCT %s) FROM cells WHERE %s <> ''", c, c)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("distinct count query failed: %w", err)
	}
	return n, nil
}

func (f *DuckFrame) NumericStats(col string) (*NumericStats, bool, error) {
	c, err := f.column(col)
	if err != nil {
		return nil, false, err
	}

	// A column is numeric when every non-empty cell casts to DOUBLE.
	var nonEmpty, castable int
	err = f.db.QueryRow(fmt.Sprintf(`
		SELECT COUNT(*) FILTER (WHERE %s <> ''),
		       COUNT(*) FILTER (WHERE %s <> '' AND TRY_CAST(%s AS DOUBLE) IS NOT NULL)
		FROM cells
	`, c, c, c)).Scan(&nonEmpty, &castable)
	if err != nil {
		return nil, false, fmt.Errorf("numeric check query failed: %w", err)
	}
	if nonEmpty == 0 || castable != nonEmpty {
		return nil, false, nil
	}

	var mean, median, min, max float64
	var std sql.NullFloat64
	var count int
	err = f.db.QueryRow(fmt.Sprintf(`
		SELECT AVG(v), MEDIAN(v), STDDEV_SAMP(v), MIN(v), MAX(v), COUNT(v)
		FROM (SELECT TRY_CAST(%s AS DOUBLE) AS v FROM cells WHERE %s <> '')
	`, c, c)).Scan(&mean, &median, &std, &min, &max, &count)
	if err != nil {
		return nil, false, fmt.Errorf("stats query failed: %w", err)
	}

	return &NumericStats{
		Mean:   mean,
		Median: median,
		Std:    std.Float64,
		Min:    min,
		Max:    max,
		Count:  count,
	}, true, nil
}

func (f *DuckFrame) Values(col string) ([]string, error) {
	c, err := f.column(col)
	if err != nil {
		return nil, err
	}

	rows, err := f.db.Query(fmt.Sprintf("SELECT %s FROM cells ORDER BY id", c))
	if err != nil {
		return nil, fmt.Errorf("values query failed: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0, f.rowCount)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Close closes the database and removes the temp file.
func (f *DuckFrame) Close() error {
	if f.db != nil {
		f.db.Close()
	}
	if f.dbPath != "" {
		os.Remove(f.dbPath)
	}
	return nil
}
