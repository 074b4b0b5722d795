// Package rmsd implements the Kabsch algorithm for computing the minimum
// root-mean-square deviation between two coordinate sets after optimal
// superposition.
package rmsd

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tikz/mutscan/pdb"
)

// RMSD computes the minimum RMSD between two equally sized atom sets:
// center both sets, compute the covariance matrix C = X Yᵀ and its SVD,
// correct for an improper rotation if det(C) < 0, rotate, then take the
// root mean square distance.
//
// RMSD panics if the lengths of the two sets differ.
func RMSD(set1, set2 []*pdb.Atom) float64 {
	if len(set1) != len(set2) {
		panic(fmt.Sprintf("computing the RMSD of two structures requires that "+
			"they have equal length, got %d and %d", len(set1), len(set2)))
	}
	n := len(set1)
	if n == 0 {
		return 0
	}

	cx1, cy1, cz1 := centroid(set1)
	cx2, cy2, cz2 := centroid(set2)

	// 3xN coordinate matrices after centering.
	X := mat.NewDense(3, n, nil)
	Y := mat.NewDense(3, n, nil)
	for i := 0; i < n; i++ {
		X.Set(0, i, set1[i].X-cx1)
		X.Set(1, i, set1[i].Y-cy1)
		X.Set(2, i, set1[i].Z-cz1)

		Y.Set(0, i, set2[i].X-cx2)
		Y.Set(1, i, set2[i].Y-cy2)
		Y.Set(2, i, set2[i].Z-cz2)
	}

	var C mat.Dense
	C.Mul(X, Y.T())

	var svd mat.SVD
	if ok := svd.Factorize(&C, mat.SVDFull); !ok {
		panic("SVD factorization failed")
	}
	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)

	// An improper rotation (a reflection) must be corrected by flipping
	// the axis of the smallest singular value.
	d := 1.0
	if mat.Det(&C) < 0 {
		d = -1.0
	}
	correction := mat.NewDiagDense(3, []float64{1, 1, d})

	var R mat.Dense
	R.Product(&V, correction, U.T())

	var Xbest mat.Dense
	Xbest.Mul(&R, X)

	var sum float64
	for r := 0; r < 3; r++ {
		for c := 0; c < n; c++ {
			dist := Xbest.At(r, c) - Y.At(r, c)
			sum += dist * dist
		}
	}
	return math.Sqrt(sum / float64(n))
}

// Backbone computes the RMSD over the backbone atoms (N, CA, C, O) of the
// given region in two structures. The region must resolve to the same
// number of backbone atoms in both.
func Backbone(p1, p2 *pdb.PDB, region pdb.Region) (float64, error) {
	set1, err := backboneAtoms(p1, region)
	if err != nil {
		return 0, err
	}
	set2, err := backboneAtoms(p2, region)
	if err != nil {
		return 0, err
	}
	if len(set1) != len(set2) {
		return 0, fmt.Errorf("region %s%d-%d resolves to %d and %d backbone atoms",
			region.Chain, region.Start, region.End, len(set1), len(set2))
	}

	return RMSD(set1, set2), nil
}

// Alphas computes the RMSD over the alpha carbons of the given region.
func Alphas(p1, p2 *pdb.PDB, region pdb.Region) (float64, error) {
	set1 := alphaAtoms(p1, region)
	set2 := alphaAtoms(p2, region)
	if len(set1) != len(set2) {
		return 0, fmt.Errorf("region %s%d-%d resolves to %d and %d alpha carbons",
			region.Chain, region.Start, region.End, len(set1), len(set2))
	}
	if len(set1) == 0 {
		return 0, fmt.Errorf("region %s%d-%d has no alpha carbons", region.Chain, region.Start, region.End)
	}

	return RMSD(set1, set2), nil
}

func backboneAtoms(p *pdb.PDB, region pdb.Region) ([]*pdb.Atom, error) {
	residues := region.Residues(p)
	if len(residues) == 0 {
		return nil, fmt.Errorf("region %s%d-%d has no residues", region.Chain, region.Start, region.End)
	}

	var atoms []*pdb.Atom
	for _, res := range residues {
		atoms = append(atoms, res.Backbone()...)
	}
	return atoms, nil
}

func alphaAtoms(p *pdb.PDB, region pdb.Region) []*pdb.Atom {
	var atoms []*pdb.Atom
	for _, res := range region.Residues(p) {
		if ca := res.Alpha(); ca != nil {
			atoms = append(atoms, ca)
		}
	}
	return atoms
}

// centroid calculates the average position of a set of atoms.
func centroid(atoms []*pdb.Atom) (float64, float64, float64) {
	var xs, ys, zs float64
	for _, atom := range atoms {
		xs += atom.X
		ys += atom.Y
		zs += atom.Z
	}
	n := float64(len(atoms))
	return xs / n, ys / n, zs / n
}
