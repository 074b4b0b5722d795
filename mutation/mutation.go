// Package mutation enumerates combinations of amino-acid substitutions
// over a fixed set of positions.
package mutation

import (
	"strconv"
	"strings"

	"github.com/tikz/mutscan/pdb"
)

// Point is a single substitution: the residue at Position becomes To.
type Point struct {
	Position int64
	To       string // one letter aminoacid code
}

// Combination is one full assignment of replacements, one Point per site,
// in fixed site order.
type Combination []Point

// Enumerate produces the full cartesian product of replacements over the
// given sites: len(alphabet)^len(sites) combinations, ordered
// lexicographically in alphabet order. Sites keep their given order.
// An empty site set yields the single empty combination.
func Enumerate(sites []int64, alphabet []string) []Combination {
	var combs []Combination
	current := make(Combination, len(sites))

	var fill func(i int)
	fill = func(i int) {
		if i == len(sites) {
			combs = append(combs, append(Combination(nil), current...))
			return
		}
		for _, aa := range alphabet {
			_, _, letter := pdb.AminoacidNames(aa)
			current[i] = Point{Position: sites[i], To: letter}
			fill(i + 1)
		}
	}
	fill(0)

	return combs
}

// Positions returns the mutated positions of the combination.
func (c Combination) Positions() []int64 {
	pos := make([]int64, len(c))
	for i, pt := range c {
		pos[i] = pt.Position
	}
	return pos
}

// Mutated returns true if the given position is one of the combination's sites.
func (c Combination) Mutated(pos int64) bool {
	for _, pt := range c {
		if pt.Position == pos {
			return true
		}
	}
	return false
}

// Name synthesizes the mutation identity from the base structure, in the
// usual point mutation notation (i.e. Q129A), one term per site joined
// by underscores: Q129A_L137V.
func (c Combination) Name(base *pdb.PDB, chain string) string {
	terms := make([]string, len(c))
	for i, pt := range c {
		from := "X"
		if res, err := base.Residue(chain, pt.Position); err == nil {
			from = res.Name1
		}
		terms[i] = from + strconv.FormatInt(pt.Position, 10) + pt.To
	}
	return strings.Join(terms, "_")
}
