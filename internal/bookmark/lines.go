package bookmark

import (
	"bytes"
	"sort"
)

// LineIndex maps byte offsets to 0-based line numbers.
// A nil *LineIndex treats the whole file as line 0.
type LineIndex struct {
	starts []int // byte offset where each line begins
	size   int
}

// NewLineIndex scans text once and records where every line starts.
func NewLineIndex(text []byte) *LineIndex {
	idx := &LineIndex{starts: []int{0}, size: len(text)}
	for off := 0; ; {
		i := bytes.IndexByte(text[off:], '\n')
		if i < 0 {
			break
		}
		off += i + 1
		idx.starts = append(idx.starts, off)
	}
	return idx
}

// LineCount returns the number of lines (at least 1).
func (x *LineIndex) LineCount() int {
	if x == nil {
		return 1
	}
	return len(x.starts)
}

// LineOf returns the line containing offset. Offsets past the end of the
// text belong to the last line.
func (x *LineIndex) LineOf(offset int) int {
	if x == nil || offset <= 0 {
		return 0
	}
	// First start strictly greater than offset, minus one.
	return sort.SearchInts(x.starts, offset+1) - 1
}

// LineSpan returns the span of a line without its trailing newline.
// Lines outside the file are clamped to the first or last line.
func (x *LineIndex) LineSpan(line int) Interval {
	if x == nil {
		return Interval{}
	}
	line = max(0, min(line, len(x.starts)-1))
	start := x.starts[line]
	end := x.size
	if line+1 < len(x.starts) {
		end = x.starts[line+1] - 1
	}
	return Interval{Start: start, End: end}
}

// SpanOf returns the span of the line containing offset.
func (x *LineIndex) SpanOf(offset int) Interval {
	return x.LineSpan(x.LineOf(offset))
}
