// Copyright © 2024-2025 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package matcher

import (
	"github.com/pkg/errors"
	"github.com/shenwei356/BarMatch/barmatch/barcode"
)

// Matrix is a row-major rectangle of uint64. Batch operations exchange
// data as [2, n] matrices: row 0 carries packed sequences or match
// indexes, row 1 carries N-flags or quality words.
type Matrix struct {
	Rows, Cols int
	Data       []uint64
}

// NewMatrix creates a zeroed rows x cols matrix in one allocation.
func NewMatrix(rows int, cols int) *Matrix {
	return &Matrix{
		Rows: rows,
		Cols: cols,
		Data: make([]uint64, rows*cols),
	}
}

// Row returns row i as a slice sharing the matrix buffer.
func (m *Matrix) Row(i int) []uint64 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

func (m *Matrix) checkShape(rows int) error {
	if m.Rows != rows {
		return errors.Wrapf(ErrShape, "%d rows, need %d", m.Rows, rows)
	}
	if len(m.Data) != m.Rows*m.Cols {
		return errors.Wrapf(ErrShape, "buffer holds %d values, shape [%d, %d] needs %d",
			len(m.Data), m.Rows, m.Cols, m.Rows*m.Cols)
	}
	return nil
}

// MatchAll packs the window [start, end) of every read, matches it, and
// returns a [2, len(reads)] matrix: row 0 holds the match indexes
// (NoMatch where nothing was in reach), row 1 the quality words. Output
// column i belongs to read i.
//
// The window must satisfy start <= end and end-start <= barcode.MaxLen,
// and every read must be at least end bytes long; otherwise ErrShape.
//
// MatchAll only reads matcher state, so concurrent calls over disjoint
// batches of reads are safe.
func MatchAll(m Matcher, reads [][]byte, start int, end int) (*Matrix, error) {
	if end < start || end-start > barcode.MaxLen {
		return nil, errors.Wrapf(ErrShape, "window [%d, %d)", start, end)
	}
	for i, s := range reads {
		if len(s) < end {
			return nil, errors.Wrapf(ErrShape, "read %d: length %d < window end %d", i, len(s), end)
		}
	}

	out := NewMatrix(2, len(reads))
	idxs, quals := out.Row(0), out.Row(1)

	var code, flag uint64
	for i, s := range reads {
		code, flag = barcode.EncodeWindow(s, start, end)
		idxs[i], quals[i] = m.Match(code, flag)
	}
	return out, nil
}

// MatchRaw matches already-packed queries, skipping the codec. seqs and
// out must both be [2, n] for one n: seqs row 0 holds packed sequences
// and row 1 the N-flags; out receives match indexes and quality words.
// Intended for benchmarking the bare probe path.
func MatchRaw(m Matcher, seqs *Matrix, out *Matrix) error {
	if err := seqs.checkShape(2); err != nil {
		return err
	}
	if err := out.checkShape(2); err != nil {
		return err
	}
	if seqs.Cols != out.Cols {
		return errors.Wrapf(ErrShape, "%d input columns, %d output columns", seqs.Cols, out.Cols)
	}

	codes, flags := seqs.Row(0), seqs.Row(1)
	idxs, quals := out.Row(0), out.Row(1)
	for i := range codes {
		idxs[i], quals[i] = m.Match(codes[i], flags[i])
	}
	return nil
}
