package frame

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cast"
)

// ReadCSV reads a CSV document with a header row. Every column becomes a
// string series; empty cells are null.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	if len(records) == 0 {
		return New(0), nil
	}
	header, rows := records[0], records[1:]
	cols := make([]Column, len(header))
	for j := range header {
		values := make([]string, len(rows))
		valid := make([]bool, len(rows))
		for i, rec := range rows {
			if j < len(rec) {
				values[i] = rec[j]
				valid[i] = rec[j] != ""
			}
		}
		cols[j] = NewNullableSeries(values, valid)
	}
	f, err := FromColumns(header, cols)
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		f.index = rangeIndex(len(rows))
	}
	return f, nil
}

// WriteCSV writes the frame with a leading unnamed index column. Nulls are
// written as empty cells.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{""}, f.names...)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	rec := make([]string, len(header))
	for r := 0; r < f.Len(); r++ {
		rec[0] = strconv.Itoa(f.index[r])
		for j, name := range f.names {
			c := f.cols[name]
			if c.IsNull(r) {
				rec[j+1] = ""
				continue
			}
			s, err := cast.ToStringE(c.Value(r))
			if err != nil {
				return errors.Wrapf(ErrColumnType, "column %q row %d: %v", name, r, err)
			}
			rec[j+1] = s
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	return cw.Error()
}
