package export

import (
	"context"
	"io"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/apache/arrow/go/v12/parquet"
	"github.com/apache/arrow/go/v12/parquet/compress"
	"github.com/apache/arrow/go/v12/parquet/file"
	"github.com/apache/arrow/go/v12/parquet/pqarrow"
	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe/frame"
)

// WriteParquet writes f as a single zstd-compressed row group.
func WriteParquet(w io.Writer, f *frame.Frame) error {
	rec, err := ToArrow(f, memory.DefaultAllocator)
	if err != nil {
		return err
	}
	defer rec.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Zstd),
		parquet.WithMaxRowGroupLength(max(rec.NumRows(), 1)),
	)
	fw, err := pqarrow.NewFileWriter(rec.Schema(), w, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return errors.Wrap(err, "parquet writer")
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return errors.Wrap(err, "write parquet")
	}
	return errors.Wrap(fw.Close(), "close parquet")
}

// ReadParquet reads a file written by WriteParquet.
func ReadParquet(ctx context.Context, r parquet.ReaderAtSeeker) (*frame.Frame, error) {
	mem := memory.DefaultAllocator
	pf, err := file.NewParquetReader(r, file.WithReadProps(parquet.NewReaderProperties(mem)))
	if err != nil {
		return nil, errors.Wrap(err, "open parquet")
	}
	defer func() { _ = pf.Close() }()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, errors.Wrap(err, "parquet arrow reader")
	}
	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read parquet")
	}
	defer tbl.Release()

	names := make([]string, tbl.NumCols())
	chunks := make([][]arrow.Array, tbl.NumCols())
	for i := range names {
		col := tbl.Column(i)
		names[i] = col.Name()
		chunks[i] = col.Data().Chunks()
	}
	return fromChunks(names, chunks, int(tbl.NumRows()))
}
