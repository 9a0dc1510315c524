package apparatus

import "github.com/FocuswithJustin/JuniperCollate/core/alignment"

// Reading is one distinct reading at a column together with the witnesses
// attesting it. Witnesses are positions in the non-baseline witness order.
type Reading struct {
	Text      string
	Gap       bool
	Witnesses []int
}

// Cell returns the alignment cell this reading groups.
func (r Reading) Cell() alignment.Cell {
	return alignment.Cell{Reading: r.Text, Gap: r.Gap}
}

// Group collects the distinct values of others in one pass. Readings are
// ordered by first occurrence and each lists every position it occurs at,
// in ascending order.
func Group(others []alignment.Cell) []Reading {
	index := make(map[alignment.Cell]int, len(others))
	var groups []Reading
	for pos, c := range others {
		g, ok := index[c]
		if !ok {
			g = len(groups)
			index[c] = g
			groups = append(groups, Reading{Text: c.Reading, Gap: c.Gap})
		}
		groups[g].Witnesses = append(groups[g].Witnesses, pos)
	}
	return groups
}

// Variants returns the groups of others whose value differs from base.
func Variants(base alignment.Cell, others []alignment.Cell) []Reading {
	groups := Group(others)
	out := groups[:0]
	for _, g := range groups {
		if g.Cell() != base {
			out = append(out, g)
		}
	}
	return out
}
