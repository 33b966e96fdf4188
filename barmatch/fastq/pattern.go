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

package fastq

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
)

// ErrPattern occurs when an output-name pattern cannot be parsed or
// references an unknown field.
var ErrPattern = errors.New("fastq: bad name pattern")

// field codes in a parsed pattern:
//
//	>= 0         barcode label slot
//	fieldName    the whole input read name
//	<= fieldAttr colon-separated attribute fieldAttr-code of the name
const (
	fieldName = -1
	fieldAttr = -2
)

// nameAttrs are the positional attributes of a bcl2fastq-style read
// name (instrument:run:flowcell:lane:tile:x:y ...), 0-based when the
// name is split by ':'.
var nameAttrs = map[string]int{
	"lane": 3,
	"tile": 4,
	"x":    5,
	"y":    6,
}

// Pattern builds output read names by interpolating barcode labels and
// read-name attributes into literal text. Fields are written in braces:
//
//	"{cell}_{umi}_{read_name}"
//	"{cell}:{lane}:{tile}"
//
// "read_name" expands to the full input name; "lane", "tile", "x" and
// "y" to the matching colon-separated attribute of the name; any other
// field must be the name of a configured barcode and expands to the
// label of its best match. Each distinct barcode field is assigned a
// slot, in order of first appearance.
type Pattern struct {
	literals [][]byte
	fields   []int

	slots []string // slot -> barcode name
}

// ParsePattern parses a name pattern. barcodes lists the configured
// barcode names; a barcode may not shadow the reserved fields.
func ParsePattern(pattern string, barcodes []string) (*Pattern, error) {
	valid := make(map[string]interface{}, len(barcodes))
	for _, name := range barcodes {
		if name == "read_name" {
			return nil, errors.Wrapf(ErrPattern, "barcode with reserved name %q", name)
		}
		if _, ok := nameAttrs[name]; ok {
			return nil, errors.Wrapf(ErrPattern, "barcode with reserved name %q", name)
		}
		valid[name] = struct{}{}
	}

	p := &Pattern{}
	slots := make(map[string]int, len(barcodes))

	var literal strings.Builder
	s := pattern
	for {
		i := strings.IndexByte(s, '{')
		if i < 0 {
			if j := strings.IndexByte(s, '}'); j >= 0 {
				return nil, errors.Wrapf(ErrPattern, "unmatched '}' in %q", pattern)
			}
			literal.WriteString(s)
			break
		}

		literal.WriteString(s[:i])
		s = s[i+1:]
		j := strings.IndexByte(s, '}')
		if j < 0 {
			return nil, errors.Wrapf(ErrPattern, "unmatched '{' in %q", pattern)
		}
		field := s[:j]
		s = s[j+1:]

		p.literals = append(p.literals, []byte(literal.String()))
		literal.Reset()

		switch {
		case field == "read_name":
			p.fields = append(p.fields, fieldName)
		case nameAttrs[field] != 0:
			p.fields = append(p.fields, fieldAttr-nameAttrs[field])
		default:
			if _, ok := valid[field]; !ok {
				return nil, errors.Wrapf(ErrPattern, "unknown field %q in %q", field, pattern)
			}
			slot, ok := slots[field]
			if !ok {
				slot = len(p.slots)
				slots[field] = slot
				p.slots = append(p.slots, field)
			}
			p.fields = append(p.fields, slot)
		}
	}
	p.literals = append(p.literals, []byte(literal.String()))

	return p, nil
}

// Slots returns the barcode names referenced by the pattern,
// indexed by their label slot.
func (p *Pattern) Slots() []string { return p.slots }

// Render appends the output name for one read to buf and returns the
// extended buffer. labelAt returns the label bytes for a barcode slot.
func (p *Pattern) Render(buf []byte, name []byte, labelAt func(slot int) []byte) []byte {
	buf = append(buf, p.literals[0]...)
	for i, f := range p.fields {
		switch {
		case f == fieldName:
			buf = append(buf, name...)
		case f < fieldName:
			buf = append(buf, nameField(name, fieldAttr-f)...)
		default:
			buf = append(buf, labelAt(f)...)
		}
		buf = append(buf, p.literals[i+1]...)
	}
	return buf
}

// nameField returns the idx-th colon-separated field of a read name,
// or nothing when the name has too few fields.
func nameField(name []byte, idx int) []byte {
	for ; idx > 0; idx-- {
		i := bytes.IndexByte(name, ':')
		if i < 0 {
			return nil
		}
		name = name[i+1:]
	}
	if i := bytes.IndexByte(name, ':'); i >= 0 {
		name = name[:i]
	}
	return name
}
