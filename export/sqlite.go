package export

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"regexp"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe/frame"
	"gonum.org/v1/gonum/mat"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// OpenSQLite opens (or creates) a SQLite database file. ":memory:" gives a
// private in-memory database; the pool is limited to one connection so it
// stays the same database.
func OpenSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// EncodeVector packs values as little-endian float64.
func EncodeVector(values []float64) []byte {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return buf
}

// DecodeVector unpacks a buffer written by EncodeVector.
func DecodeVector(buf []byte) ([]float64, error) {
	if len(buf)%8 != 0 {
		return nil, errors.Newf("vector blob of %d bytes is not a multiple of 8", len(buf))
	}
	out := make([]float64, len(buf)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return out, nil
}

// WriteSQLite replaces table with f: one row per frame row holding its
// position, row index and feature BLOB. Column names go to table_columns.
func WriteSQLite(ctx context.Context, db *sql.DB, table string, f *frame.Frame) (err error) {
	if !tableName.MatchString(table) {
		return errors.Newf("invalid table name %q", table)
	}
	rows, err := f.Float64Matrix()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table),
		fmt.Sprintf(`DROP TABLE IF EXISTS %s_columns`, table),
		fmt.Sprintf(`CREATE TABLE %s (position INTEGER PRIMARY KEY, row_index INTEGER NOT NULL, features BLOB NOT NULL)`, table),
		fmt.Sprintf(`CREATE TABLE %s_columns (position INTEGER PRIMARY KEY, name TEXT NOT NULL)`, table),
	} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "exec %q", stmt)
		}
	}

	colStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s_columns (position, name) VALUES (?, ?)`, table))
	if err != nil {
		return errors.Wrap(err, "prepare columns")
	}
	defer func() { _ = colStmt.Close() }()
	for i, name := range f.Names() {
		if _, err = colStmt.ExecContext(ctx, i, name); err != nil {
			return errors.Wrapf(err, "insert column %q", name)
		}
	}

	rowStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (position, row_index, features) VALUES (?, ?, ?)`, table))
	if err != nil {
		return errors.Wrap(err, "prepare rows")
	}
	defer func() { _ = rowStmt.Close() }()
	for i, idx := range f.Index() {
		if _, err = rowStmt.ExecContext(ctx, i, idx, EncodeVector(rows[i])); err != nil {
			return errors.Wrapf(err, "insert row %d", idx)
		}
	}

	return errors.Wrap(tx.Commit(), "commit")
}

// ReadSQLite reads a table written by WriteSQLite.
func ReadSQLite(ctx context.Context, db *sql.DB, table string) (*frame.Frame, error) {
	if !tableName.MatchString(table) {
		return nil, errors.Newf("invalid table name %q", table)
	}

	var names []string
	colRows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT name FROM %s_columns ORDER BY position`, table))
	if err != nil {
		return nil, errors.Wrap(err, "query columns")
	}
	defer func() { _ = colRows.Close() }()
	for colRows.Next() {
		var name string
		if err := colRows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scan column")
		}
		names = append(names, name)
	}
	if err := colRows.Err(); err != nil {
		return nil, errors.Wrap(err, "query columns")
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT row_index, features FROM %s ORDER BY position`, table))
	if err != nil {
		return nil, errors.Wrap(err, "query rows")
	}
	defer func() { _ = rows.Close() }()

	var (
		index []int
		data  []float64
	)
	for rows.Next() {
		var (
			idx  int
			blob []byte
		)
		if err := rows.Scan(&idx, &blob); err != nil {
			return nil, errors.Wrap(err, "scan row")
		}
		vec, err := DecodeVector(blob)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", idx)
		}
		if len(vec) != len(names) {
			return nil, errors.Wrapf(frame.ErrLengthMismatch, "row %d has %d values for %d columns", idx, len(vec), len(names))
		}
		index = append(index, idx)
		data = append(data, vec...)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "query rows")
	}

	if len(index) == 0 || len(names) == 0 {
		cols := make([]frame.Column, len(names))
		for i := range cols {
			cols[i] = frame.NewSeries(make([]float64, len(index)))
		}
		f := frame.New(len(index))
		if len(cols) > 0 {
			if f, err = frame.FromColumns(names, cols); err != nil {
				return nil, err
			}
		}
		if err := f.SetIndex(index); err != nil {
			return nil, err
		}
		return f, nil
	}
	return frame.FromDense(mat.NewDense(len(index), len(names), data), names, index)
}
