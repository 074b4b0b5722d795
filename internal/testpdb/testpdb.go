// Package testpdb builds small synthetic structures for tests.
package testpdb

import (
	"fmt"
	"strings"

	"github.com/tikz/mutscan/pdb"
)

// AtomLine renders a single full-width ATOM record.
func AtomLine(serial int64, name, resName, chain string, resNum int64, x, y, z float64) string {
	if len(name) < 4 {
		name = " " + name
	}
	return fmt.Sprintf("ATOM  %5d %-4s %-3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f           C  \n",
		serial, name, resName, chain, resNum, x, y, z, 1.0, 20.0)
}

// Raw renders a chain of backbone-only residues, alpha carbons spaced
// 3.8 units apart along the x axis. names maps positions to three letter
// residue names; positions not in the map are alanines.
func Raw(chain string, start, end int64, names map[int64]string) string {
	var b strings.Builder
	serial := int64(1)
	for i := start; i <= end; i++ {
		resName := "ALA"
		if names != nil {
			if n, ok := names[i]; ok {
				resName = n
			}
		}
		x := float64(i) * 3.8
		b.WriteString(AtomLine(serial, "N", resName, chain, i, x-0.5, 1.0, 0.0))
		b.WriteString(AtomLine(serial+1, "CA", resName, chain, i, x, 0.0, 0.0))
		b.WriteString(AtomLine(serial+2, "C", resName, chain, i, x+0.5, -1.0, 0.0))
		b.WriteString(AtomLine(serial+3, "O", resName, chain, i, x+0.5, -2.0, 0.5))
		serial += 4
	}
	return b.String()
}

// Chain parses a synthetic chain into a structure.
func Chain(chain string, start, end int64) *pdb.PDB {
	p, err := pdb.ParseRaw([]byte(Raw(chain, start, end, nil)))
	if err != nil {
		panic(err)
	}
	return p
}

// ChainNamed parses a synthetic chain with residue type overrides.
func ChainNamed(chain string, start, end int64, names map[int64]string) *pdb.PDB {
	p, err := pdb.ParseRaw([]byte(Raw(chain, start, end, names)))
	if err != nil {
		panic(err)
	}
	return p
}
