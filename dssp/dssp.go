// Package dssp wraps the mkdssp executable for per-residue secondary
// structure assignment.
package dssp

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/tikz/mutscan/pdb"
)

// Helical secondary structure classes: alpha, 3-10 and pi helix.
const helixClasses = "HGI"

// Results holds the per-residue secondary structure classes of a structure.
type Results struct {
	Residues map[*pdb.Residue]string
}

// Run calculates secondary structure for a PDB file already on disk,
// using the given mkdssp binary.
func Run(bin string, p *pdb.PDB) (Results, error) {
	if p.LocalPath == "" {
		return Results{}, fmt.Errorf("structure %s has no local file", p.ID)
	}

	cmd := exec.Command(bin, "-i", p.LocalPath)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return Results{}, fmt.Errorf("mkdssp: %v: %s", err, out)
	}

	return parse(out, p), nil
}

// parse reads mkdssp plain text output.
// https://swift.cmbi.umcn.nl/gv/dssp/
func parse(out []byte, p *pdb.PDB) Results {
	results := Results{Residues: make(map[*pdb.Residue]string)}

	start := false
	for _, l := range strings.Split(string(out), "\n") {
		if len(l) > 17 {
			if start {
				posStr := strings.TrimSpace(l[5:10])
				if len(posStr) > 0 {
					chain := string(l[11])
					pos, _ := strconv.ParseInt(posStr, 10, 64)
					if chain, ok := p.Chains[chain]; ok {
						if res, ok := chain[pos]; ok {
							results.Residues[res] = string(l[16])
						}
					}
				}
			}
			if string(l[2]) == "#" {
				start = true
			}
		}
	}

	return results
}

// Classes returns the secondary structure classes of a chain as a positional
// string, one character per residue ordered by residue number. Residues
// without an assignment are marked with a space.
func (r Results) Classes(p *pdb.PDB, chain string) string {
	var b strings.Builder
	for i := p.ChainStartResNumber[chain]; i <= p.ChainEndResNumber[chain]; i++ {
		res, ok := p.Chains[chain][i]
		if !ok {
			continue
		}
		if class, ok := r.Residues[res]; ok && class != "" {
			b.WriteString(class)
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

// HelixFraction returns the fraction of residues inside the region labeled
// with a helical class.
func (r Results) HelixFraction(p *pdb.PDB, region pdb.Region) float64 {
	residues := region.Residues(p)
	if len(residues) == 0 {
		return 0
	}

	helical := 0
	for _, res := range residues {
		if class, ok := r.Residues[res]; ok && strings.Contains(helixClasses, class) && class != "" {
			helical++
		}
	}
	return float64(helical) / float64(len(residues))
}
