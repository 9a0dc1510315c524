// Package tabular renders an alignment table as wide tab-separated rows.
//
// Each witness becomes one row of readings. Rows are cut into chunks of at
// most ChunkSize columns so the result can be opened in spreadsheet
// applications with a column limit. Chunk k of every witness is written as
// one group, followed by a blank line, which keeps the witnesses of a chunk
// vertically adjacent after import.
package tabular

import (
	"io"
	"strings"

	"github.com/FocuswithJustin/JuniperCollate/core/alignment"
)

const (
	// ChunkSize is the maximum number of readings per emitted row.
	ChunkSize = 500
	// GapPlaceholder is written for a witness with no reading.
	GapPlaceholder = "-"
)

// Chunk splits seq into consecutive slices of at most size entries.
// An empty sequence yields no chunks.
func Chunk(seq []string, size int) [][]string {
	if size <= 0 {
		size = ChunkSize
	}
	var chunks [][]string
	for start := 0; start < len(seq); start += size {
		end := min(start+size, len(seq))
		chunks = append(chunks, seq[start:end])
	}
	return chunks
}

// Rows returns the reading sequence of every witness in table order.
func Rows(t *alignment.Table) [][]string {
	rows := make([][]string, len(t.Witnesses))
	for w := range t.Witnesses {
		rows[w] = t.Readings(w, GapPlaceholder)
	}
	return rows
}

// Lines renders the chunked rows. Every chunk group ends with an empty
// line.
func Lines(t *alignment.Table) []string {
	return LinesWithSize(t, ChunkSize)
}

// LinesWithSize is Lines with an explicit chunk size.
func LinesWithSize(t *alignment.Table, size int) []string {
	rows := Rows(t)
	chunked := make([][][]string, len(rows))
	for w, row := range rows {
		chunked[w] = Chunk(row, size)
	}

	var groups int
	if len(chunked) > 0 {
		groups = len(chunked[0])
	}

	lines := make([]string, 0, groups*(len(rows)+1))
	for k := 0; k < groups; k++ {
		for w, siglum := range t.Witnesses {
			lines = append(lines, siglum+"\t"+strings.Join(chunked[w][k], "\t"))
		}
		lines = append(lines, "")
	}
	return lines
}

// Write writes the rendered lines separated by newlines.
func Write(w io.Writer, t *alignment.Table) error {
	_, err := io.WriteString(w, strings.Join(Lines(t), "\n"))
	return err
}
