package magicstring

import "strings"

// Chunk is one piece of a Bundle: a rendered buffer plus the file it came
// from, used to carry provenance through to source-map generation.
type Chunk struct {
	File   string
	Buffer *Buffer
}

// Bundle concatenates multiple Buffers, one per source file, in the order
// they're added, and can produce a combined source map attributing each
// output line back to its originating file (spec §6, bundle mode).
type Bundle struct {
	chunks    []Chunk
	separator string
}

// NewBundle creates an empty Bundle. separator is inserted between chunks
// (callers typically pass "\n" or "\n\n").
func NewBundle(separator string) *Bundle {
	return &Bundle{separator: separator}
}

// AddChunk appends buf, attributed to file, to the end of the bundle.
func (bd *Bundle) AddChunk(file string, buf *Buffer) *Bundle {
	bd.chunks = append(bd.chunks, Chunk{File: file, Buffer: buf})
	return bd
}

// String renders every chunk in order, joined by the bundle's separator.
func (bd *Bundle) String() string {
	parts := make([]string, len(bd.chunks))
	for i, c := range bd.chunks {
		parts[i] = c.Buffer.String()
	}
	return strings.Join(parts, bd.separator)
}

// Chunks exposes the underlying chunk list for source-map generation.
func (bd *Bundle) Chunks() []Chunk {
	return bd.chunks
}

// Separator returns the string inserted between chunks.
func (bd *Bundle) Separator() string {
	return bd.separator
}

// GenerateMap produces one source-map-v3 document spanning every chunk,
// extending Buffer.GenerateMap's line-granularity algorithm across chunk
// boundaries: each chunk contributes its own entry to Sources, and the
// separator's own newlines (if any) advance the generated line count with
// no mapping, same as any other unmapped line.
func (bd *Bundle) GenerateMap(generatedFile string, includeContent bool) *Map {
	sources := make([]string, len(bd.chunks))
	var sourcesContent []string
	if includeContent {
		sourcesContent = make([]string, len(bd.chunks))
	}
	for i, c := range bd.chunks {
		sources[i] = c.File
		if includeContent {
			sourcesContent[i] = c.Buffer.original
		}
	}

	var mappings strings.Builder
	genCol, prevGenCol := 0, 0
	prevSourceIndex := 0
	prevOrigLine, prevOrigCol := 0, 0
	firstOnLine := true

	emit := func(sourceIndex, origLine, origCol int) {
		if !firstOnLine {
			mappings.WriteByte(',')
		}
		encodeVLQ(&mappings, genCol-prevGenCol)
		encodeVLQ(&mappings, sourceIndex-prevSourceIndex)
		encodeVLQ(&mappings, origLine-prevOrigLine)
		encodeVLQ(&mappings, origCol-prevOrigCol)
		prevGenCol = genCol
		prevSourceIndex = sourceIndex
		prevOrigLine = origLine
		prevOrigCol = origCol
		firstOnLine = false
	}
	newLine := func() {
		mappings.WriteByte(';')
		genCol, prevGenCol = 0, 0
		firstOnLine = true
	}

	for ci, c := range bd.chunks {
		if ci > 0 {
			for range strings.Count(bd.separator, "\n") {
				newLine()
			}
		}
		starts := lineStarts(c.Buffer.original)
		for _, seg := range c.Buffer.segments() {
			lines := strings.Split(seg.generated, "\n")
			for i, part := range lines {
				if i > 0 {
					newLine()
				}
				if part != "" && seg.originalFrom >= 0 {
					offsetIntoSeg := 0
					for j := 0; j < i; j++ {
						offsetIntoSeg += len(lines[j]) + 1
					}
					origLine, origCol := lineCol(starts, seg.originalFrom+offsetIntoSeg)
					emit(ci, origLine, origCol)
				}
				genCol += len(part)
			}
		}
	}

	m := &Map{
		Version:  3,
		File:     generatedFile,
		Sources:  sources,
		Names:    []string{},
		Mappings: mappings.String(),
	}
	if includeContent {
		m.SourcesContent = sourcesContent
	}
	return m
}
