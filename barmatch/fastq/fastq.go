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

// Package fastq reads FASTQ files in fixed-size chunks for batch
// barcode matching, and writes filtered records back out with barcode
// labels interpolated into the read names. Gzip and friends are
// handled transparently on both sides.
package fastq

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
	"github.com/zeebo/wyhash"
)

// ErrUnevenChunks occurs when paired input files yield different
// record counts for the same chunk.
var ErrUnevenChunks = errors.New("fastq: input files differ in record count")

// A Chunk holds up to the number of records asked of Reader.ReadChunk,
// read from one FASTQ file. All three lists have one entry per record;
// the Quals entries are empty for FASTA input. Chunks are pooled: hand
// them back with RecycleChunk.
type Chunk struct {
	Names [][]byte
	Seqs  [][]byte
	Quals [][]byte
}

// N returns the number of records in the chunk.
func (c *Chunk) N() int { return len(c.Seqs) }

var poolChunk = &sync.Pool{New: func() interface{} {
	return &Chunk{
		Names: make([][]byte, 0, 1024),
		Seqs:  make([][]byte, 0, 1024),
		Quals: make([][]byte, 0, 1024),
	}
}}

// RecycleChunk returns a chunk to the pool.
func RecycleChunk(c *Chunk) {
	if c != nil {
		poolChunk.Put(c)
	}
}

// appendRecord reuses the i-th entry of a pooled record list.
func appendRecord(list [][]byte, i int, data []byte) [][]byte {
	if i < cap(list) {
		list = list[:i+1]
		list[i] = append(list[i][:0], data...)
	} else {
		list = append(list, append([]byte(nil), data...))
	}
	return list
}

// Reader reads FASTQ records chunk by chunk.
type Reader struct {
	file string
	fx   *fastx.Reader
	eof  bool
}

// NewReader opens a FASTQ (or FASTA) file, "-" for stdin.
// Compressed input is detected from the content.
func NewReader(file string) (*Reader, error) {
	fx, err := fastx.NewReader(nil, file, "")
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	return &Reader{file: file, fx: fx}, nil
}

// ReadChunk reads up to n records into a pooled chunk. At end of input
// it returns a short or empty chunk; a zero-record chunk means the file
// is exhausted. Record bytes are copied out of the parser's buffers,
// so a chunk stays valid until recycled.
func (r *Reader) ReadChunk(n int) (*Chunk, error) {
	c := poolChunk.Get().(*Chunk)
	c.Names = c.Names[:0]
	c.Seqs = c.Seqs[:0]
	c.Quals = c.Quals[:0]

	if r.eof {
		return c, nil
	}

	var record *fastx.Record
	var err error
	for i := 0; i < n; i++ {
		record, err = r.fx.Read()
		if err != nil {
			if err == io.EOF {
				r.eof = true
				break
			}
			RecycleChunk(c)
			return nil, errors.Wrap(err, r.file)
		}

		c.Names = appendRecord(c.Names, i, record.Name)
		c.Seqs = appendRecord(c.Seqs, i, record.Seq.Seq)
		c.Quals = appendRecord(c.Quals, i, record.Seq.Qual)
	}
	return c, nil
}

// Close closes the underlying file.
func (r *Reader) Close() {
	r.fx.Close()
}

// Writer writes FASTQ records with names rebuilt from a pattern.
// Output with a ".gz" suffix is gzip-compressed.
type Writer struct {
	file    string
	w       *xopen.Writer
	pattern *Pattern
	buf     []byte
}

// NewWriter creates an output FASTQ file. pattern governs the output
// read names; a nil pattern keeps input names unchanged.
func NewWriter(file string, pattern *Pattern) (*Writer, error) {
	if pattern == nil {
		pattern = &Pattern{
			literals: [][]byte{nil, nil},
			fields:   []int{fieldName},
		}
	}
	w, err := xopen.Wopen(file)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	return &Writer{file: file, w: w, pattern: pattern, buf: make([]byte, 0, 1024)}, nil
}

// WriteChunk writes the records of a chunk whose keep bit is set (a nil
// keep writes all). labelAt returns the label bytes to interpolate for
// a barcode slot of the pattern and a record index within the chunk.
func (w *Writer) WriteChunk(c *Chunk, keep []bool, labelAt func(slot, record int) []byte) error {
	var err error
	for i := range c.Seqs {
		if keep != nil && !keep[i] {
			continue
		}

		buf := w.buf[:0]
		buf = append(buf, '@')
		buf = w.pattern.Render(buf, c.Names[i], func(slot int) []byte {
			return labelAt(slot, i)
		})
		buf = append(buf, '\n')
		buf = append(buf, c.Seqs[i]...)
		buf = append(buf, '\n', '+', '\n')
		buf = append(buf, c.Quals[i]...)
		buf = append(buf, '\n')
		w.buf = buf

		if _, err = w.w.Write(buf); err != nil {
			return errors.Wrap(err, w.file)
		}
	}
	return nil
}

// Close flushes and closes the output file.
func (w *Writer) Close() error {
	return w.w.Close()
}

// sampleSeed makes KeepRead a stable pseudo-random choice per read.
const sampleSeed = 17

// KeepRead reports whether a read passes down-sampling at the given
// fraction. The choice hashes the read name up to the first space, so
// it is stable across runs and consistent between the files of a pair,
// which differ only after the space.
func KeepRead(name []byte, fraction float64) bool {
	if fraction >= 1 {
		return true
	}
	if fraction <= 0 {
		return false
	}
	for i, c := range name {
		if c == ' ' {
			name = name[:i]
			break
		}
	}
	h := wyhash.Hash(name, sampleSeed)
	return float64(h>>11)/(1<<53) < fraction
}
