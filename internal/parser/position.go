package parser

import "sort"

// lineIndex converts byte offsets to line/column pairs for error messages.
// Line starts are precomputed so lookups are a binary search.
type lineIndex struct {
	source     string
	lineStarts []int
}

func newLineIndex(source string) *lineIndex {
	idx := &lineIndex{
		source:     source,
		lineStarts: []int{0},
	}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' && i+1 < len(source) {
			idx.lineStarts = append(idx.lineStarts, i+1)
		}
	}
	return idx
}

// position returns the 0-indexed line and byte column for a byte offset.
func (idx *lineIndex) position(offset int) (line, col int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > len(idx.source) {
		offset = len(idx.source)
	}
	line = sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return line, offset - idx.lineStarts[line]
}
