package export

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe/frame"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// WriteNPY writes f as a 2-D float64 NumPy array. Null cells become NaN.
// A frame without rows or columns is written as an empty 1-D array.
func WriteNPY(w io.Writer, f *frame.Frame) error {
	if f.Len() == 0 || len(f.Names()) == 0 {
		return errors.Wrap(npyio.Write(w, []float64{}), "write npy")
	}
	m, err := f.Dense()
	if err != nil {
		return err
	}
	return errors.Wrap(npyio.Write(w, m), "write npy")
}

// ReadNPY reads a 2-D float64 NumPy array.
func ReadNPY(r io.Reader) (*mat.Dense, error) {
	var m mat.Dense
	if err := npyio.Read(r, &m); err != nil {
		return nil, errors.Wrap(err, "read npy")
	}
	return &m, nil
}

// ReadNPYFrame reads a NumPy array written by WriteNPY back into a frame.
// A nil index means 0..n-1.
func ReadNPYFrame(r io.Reader, names []string, index []int) (*frame.Frame, error) {
	m, err := ReadNPY(r)
	if err != nil {
		return nil, err
	}
	return frame.FromDense(m, names, index)
}
