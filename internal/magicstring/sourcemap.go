package magicstring

import "strings"

// base64 alphabet used by the source-map-v3 VLQ encoding.
const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// encodeVLQ appends the Base64-VLQ encoding of n to sb, per the source-map-v3
// spec: the sign goes in the low bit, five data bits per digit, continuation
// bit in the high bit of each sextet.
func encodeVLQ(sb *strings.Builder, n int) {
	v := n << 1
	if n < 0 {
		v = (-n << 1) | 1
	}
	for {
		digit := v & 0x1f
		v >>= 5
		if v > 0 {
			digit |= 0x20
		}
		sb.WriteByte(base64Chars[digit])
		if v == 0 {
			break
		}
	}
}

// Map is a source-map-v3 document (the subset of fields this transpiler
// emits: no index maps, no x_ vendor extensions).
type Map struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// lineStarts returns the byte offset each line begins at, for mapping a flat
// byte offset to (line, column).
func lineStarts(s string) []int {
	starts := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineCol(starts []int, offset int) (line, col int) {
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, offset - starts[lo]
}

// segment is one contiguous run of the rendered output, tagged with the
// original-source offset it starts from, or -1 if it came from inserted or
// replacement text with no corresponding original position.
type segment struct {
	generated    string
	originalFrom int
}

// segments replays the same edit-application algorithm as String(), but
// keeps the pieces separate and tags each with its original-offset
// provenance instead of concatenating them into one string.
func (b *Buffer) segments() []segment {
	edits := make([]edit, len(b.edits))
	copy(edits, b.edits)
	// Mirror String()'s sort so segment order matches rendered order.
	sortEdits(edits)

	var segs []segment
	cursor := 0
	for _, e := range edits {
		if e.start < cursor {
			if e.kind == editInsert {
				segs = append(segs, segment{generated: e.content, originalFrom: -1})
			}
			continue
		}
		if e.start > cursor {
			segs = append(segs, segment{generated: b.original[cursor:e.start], originalFrom: cursor})
		}
		switch e.kind {
		case editRemove:
			cursor = e.end
		case editReplace:
			segs = append(segs, segment{generated: e.content, originalFrom: -1})
			cursor = e.end
		case editInsert:
			segs = append(segs, segment{generated: e.content, originalFrom: -1})
			cursor = e.start
		}
	}
	if cursor < len(b.original) {
		segs = append(segs, segment{generated: b.original[cursor:], originalFrom: cursor})
	}
	return segs
}

// GenerateMap produces a line-granularity source map for this buffer:
// one mapping is emitted at the start of every generated line that has a
// known original-source provenance. Content generated purely from inserted
// or replacement text (no originalFrom) carries forward no mapping for that
// line, matching the common "best effort" behavior of line-oriented
// source-map emitters when a line has no single originating position.
func (b *Buffer) GenerateMap(sourceFile, generatedFile string, includeContent bool) *Map {
	starts := lineStarts(b.original)

	var mappings strings.Builder
	genLine, genCol := 0, 0
	prevGenCol := 0
	prevOrigLine, prevOrigCol := 0, 0
	firstOnLine := true

	emit := func(origLine, origCol int) {
		if !firstOnLine {
			mappings.WriteByte(',')
		}
		encodeVLQ(&mappings, genCol-prevGenCol)
		encodeVLQ(&mappings, 0) // source index, always 0: one source per buffer
		encodeVLQ(&mappings, origLine-prevOrigLine)
		encodeVLQ(&mappings, origCol-prevOrigCol)
		prevGenCol = genCol
		prevOrigLine = origLine
		prevOrigCol = origCol
		firstOnLine = false
	}

	for _, seg := range b.segments() {
		lines := strings.Split(seg.generated, "\n")
		for i, part := range lines {
			if i > 0 {
				mappings.WriteByte(';')
				genLine++
				genCol = 0
				prevGenCol = 0
				firstOnLine = true
			}
			if part != "" && seg.originalFrom >= 0 {
				// Only the first part of a multi-line segment inherits the
				// segment's own original offset; continuation lines within
				// the same segment (e.g. a multi-line original statement
				// left untouched) advance by their own offset within it.
				offsetIntoSeg := 0
				for j := 0; j < i; j++ {
					offsetIntoSeg += len(lines[j]) + 1
				}
				origLine, origCol := lineCol(starts, seg.originalFrom+offsetIntoSeg)
				emit(origLine, origCol)
			}
			genCol += len(part)
		}
	}

	m := &Map{
		Version:  3,
		File:     generatedFile,
		Sources:  []string{sourceFile},
		Names:    []string{},
		Mappings: mappings.String(),
	}
	if includeContent {
		m.SourcesContent = []string{b.original}
	}
	return m
}

// sortEdits is the same ordering String() applies, factored out so
// segments() stays consistent with it.
func sortEdits(edits []edit) {
	for i := 1; i < len(edits); i++ {
		for j := i; j > 0; j-- {
			a, c := edits[j-1], edits[j]
			swap := a.start > c.start || (a.start == c.start && c.kind == editInsert && a.kind != editInsert)
			if !swap {
				break
			}
			edits[j-1], edits[j] = edits[j], edits[j-1]
		}
	}
}
