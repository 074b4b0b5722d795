// Package rama computes backbone dihedral angles and renders
// Ramachandran plots.
package rama

import (
	"fmt"
	"math"

	"github.com/tikz/mutscan/pdb"
)

const radToDeg = 180 / math.Pi

// AnglePair holds the phi/psi backbone dihedrals of one residue, in degrees.
type AnglePair struct {
	Position int64
	Phi      float64
	Psi      float64
}

// Dihedral returns the torsion angle defined by four atoms, in degrees,
// in the range (-180, 180].
func Dihedral(a1, a2, a3, a4 *pdb.Atom) float64 {
	b1 := vec{a2.X - a1.X, a2.Y - a1.Y, a2.Z - a1.Z}
	b2 := vec{a3.X - a2.X, a3.Y - a2.Y, a3.Z - a2.Z}
	b3 := vec{a4.X - a3.X, a4.Y - a3.Y, a4.Z - a3.Z}

	n1 := cross(b1, b2)
	n2 := cross(b2, b3)
	m1 := cross(n1, scale(b2, 1/norm(b2)))

	x := dot(n1, n2)
	y := dot(m1, n2)

	return math.Atan2(y, x) * radToDeg
}

// PhiPsi computes the phi/psi dihedral pairs over a region. Residues
// without both neighbors, or with incomplete backbones, are skipped;
// the chain terminals never contribute a pair.
func PhiPsi(p *pdb.PDB, region pdb.Region) ([]AnglePair, error) {
	chain, err := p.Chain(region.Chain)
	if err != nil {
		return nil, err
	}

	var pairs []AnglePair
	for i := region.Start; i <= region.End; i++ {
		prev, okPrev := chain[i-1]
		res, okRes := chain[i]
		next, okNext := chain[i+1]
		if !okPrev || !okRes || !okNext {
			continue
		}

		cPrev := atomNamed(prev, "C")
		n := atomNamed(res, "N")
		ca := res.Alpha()
		c := atomNamed(res, "C")
		nNext := atomNamed(next, "N")
		if cPrev == nil || n == nil || ca == nil || c == nil || nNext == nil {
			continue
		}

		pairs = append(pairs, AnglePair{
			Position: i,
			Phi:      Dihedral(cPrev, n, ca, c),
			Psi:      Dihedral(n, ca, c, nNext),
		})
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("region %s%d-%d has no computable dihedrals",
			region.Chain, region.Start, region.End)
	}
	return pairs, nil
}

func atomNamed(r *pdb.Residue, name string) *pdb.Atom {
	for _, atom := range r.Atoms {
		if atom.Name == name {
			return atom
		}
	}
	return nil
}

type vec [3]float64

func cross(a, b vec) vec {
	return vec{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b vec) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func norm(a vec) float64 {
	return math.Sqrt(dot(a, a))
}

func scale(a vec, s float64) vec {
	return vec{a[0] * s, a[1] * s, a[2] * s}
}
