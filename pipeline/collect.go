package pipeline

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tikz/mutscan/mutation"
	"github.com/tikz/mutscan/pdb"
	"github.com/tikz/mutscan/rama"
	"github.com/tikz/mutscan/rmsd"
)

// structuralMetrics computes the descriptive metrics of an accepted
// candidate against the wild type: total energy, helix integrity, local
// strain at the mutated positions, backbone deviation over the reference
// window, and the Ramachandran plot artifacts.
func (pl *Pipeline) structuralMetrics(cand *Candidate) (map[string]Value, error) {
	metrics := make(map[string]Value)

	score, err := pl.engines.Scorer.Score(cand.Structure)
	if err != nil {
		return nil, fmt.Errorf("score: %v", err)
	}
	metrics["totalScore"] = Value{Number: score}

	results, err := pl.engines.Secondary.Assign(cand.Structure)
	if err != nil {
		return nil, fmt.Errorf("secondary structure: %v", err)
	}
	metrics["helixIntegrity"] = Value{Number: results.HelixFraction(cand.Structure, pl.cfg.Window())}

	strain, err := pl.localStrain(cand)
	if err != nil {
		return nil, fmt.Errorf("local strain: %v", err)
	}
	metrics["localStrain"] = Value{Number: strain}

	deviation, err := rmsd.Backbone(cand.Structure, pl.base, pl.cfg.Window())
	if err != nil {
		return nil, fmt.Errorf("backbone deviation: %v", err)
	}
	metrics["backboneRMSD"] = Value{Number: deviation}

	metrics["mutatedMeanBFactor"] = Value{Number: pl.mutatedBFactor(cand)}

	regionPlot, err := pl.ramaArtifact(cand, "roi", pl.cfg.Region())
	if err != nil {
		return nil, fmt.Errorf("region plot: %v", err)
	}
	metrics["ramaRegion"] = Value{Artifact: regionPlot}

	whole := pdb.Region{
		Chain: pl.cfg.Chain,
		Start: cand.Structure.ChainStartResNumber[pl.cfg.Chain],
		End:   cand.Structure.ChainEndResNumber[pl.cfg.Chain],
	}
	wholePlot, err := pl.ramaArtifact(cand, "all", whole)
	if err != nil {
		return nil, fmt.Errorf("whole structure plot: %v", err)
	}
	metrics["ramaAll"] = Value{Artifact: wholePlot}

	return metrics, nil
}

// localStrain measures the mean phi/psi displacement of the mutated
// positions between the candidate and the wild type.
func (pl *Pipeline) localStrain(cand *Candidate) (float64, error) {
	var total float64
	var n int

	for _, pt := range cand.Combination {
		window := pdb.Window(cand.Structure, pl.cfg.Chain, pt.Position, 1)

		candPairs, err := rama.PhiPsi(cand.Structure, window)
		if err != nil {
			continue
		}
		basePairs, err := rama.PhiPsi(pl.base, window)
		if err != nil {
			continue
		}

		candPair, ok1 := pairAt(candPairs, pt.Position)
		basePair, ok2 := pairAt(basePairs, pt.Position)
		if !ok1 || !ok2 {
			continue
		}

		total += angleDelta(candPair.Phi, basePair.Phi) + angleDelta(candPair.Psi, basePair.Psi)
		n++
	}

	if n == 0 {
		return 0, nil
	}
	return total / float64(n), nil
}

func pairAt(pairs []rama.AnglePair, pos int64) (rama.AnglePair, bool) {
	for _, pair := range pairs {
		if pair.Position == pos {
			return pair, true
		}
	}
	return rama.AnglePair{}, false
}

// angleDelta is the absolute angular difference in degrees, wrapped to 0-180.
func angleDelta(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

func (pl *Pipeline) mutatedBFactor(cand *Candidate) float64 {
	var sum float64
	var n int
	for _, pt := range cand.Combination {
		if res, err := cand.Structure.Residue(pl.cfg.Chain, pt.Position); err == nil {
			sum += res.MeanBFactor
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (pl *Pipeline) ramaArtifact(cand *Candidate, label string, region pdb.Region) (string, error) {
	pairs, err := rama.PhiPsi(cand.Structure, region)
	if err != nil {
		return "", err
	}

	out := filepath.Join(pl.cfg.ResultsDir, cand.Name+"_"+label+".png")
	if err := rama.Plot(pairs, cand.Name+" "+label, out); err != nil {
		return "", err
	}
	return out, nil
}

// interfaceMetrics scores the candidate against one comparison protein:
// contact surface area between the two regions of interest, binding
// energy of the assembled complex, interface disruption against the wild
// type baseline, and positional deviation of the interface region.
//
// The candidate is written to a fresh scratch file for the geometry
// session, and the session is cleared before returning.
func (pl *Pipeline) interfaceMetrics(cand *Candidate, cmp Comparison) (map[string]Value, error) {
	metrics := make(map[string]Value)

	candPath := filepath.Join(pl.scratchDir, uuid.New().String()+".pdb")
	if err := cand.Structure.WriteFile(candPath); err != nil {
		return nil, fmt.Errorf("persist candidate: %v", err)
	}
	defer func() {
		os.Remove(candPath)
		cand.Structure.LocalPath = ""
	}()

	contact, err := pl.contactArea(candPath, cmp)
	if err != nil {
		return nil, fmt.Errorf("contact area: %v", err)
	}
	metrics["contactArea"] = Value{Number: contact}
	metrics["interfaceDisruption"] = Value{Number: pl.wtContact[cmp.Name] - contact}

	complexStructure, err := mergeComplex(cand.Structure, cmp)
	if err != nil {
		return nil, fmt.Errorf("assemble complex: %v", err)
	}
	binding, err := pl.engines.Scorer.Score(complexStructure)
	if err != nil {
		return nil, fmt.Errorf("binding energy: %v", err)
	}
	metrics["bindingEnergy"] = Value{Number: binding}
	if pl.refComplex != nil {
		metrics["bindingDelta"] = Value{Number: binding - pl.wtComplexScore}
	}

	deviation, err := rmsd.Alphas(cand.Structure, pl.base, pl.cfg.Region())
	if err != nil {
		return nil, fmt.Errorf("interface deviation: %v", err)
	}
	metrics["interfaceRMSD"] = Value{Number: deviation}

	return metrics, nil
}

// contactArea loads the candidate and the comparison structure into the
// geometry session and measures the buried area between their regions.
// The session is always cleared, even on failure.
func (pl *Pipeline) contactArea(candPath string, cmp Comparison) (area float64, err error) {
	geom := pl.engines.Geometry
	defer func() {
		if clearErr := geom.Clear(); clearErr != nil && err == nil {
			err = fmt.Errorf("clear session: %v", clearErr)
		}
	}()

	if err = geom.Load(candPath, "cand"); err != nil {
		return 0, err
	}
	if err = geom.Load(cmp.StructurePath, "partner"); err != nil {
		return 0, err
	}
	if err = geom.SelectRange("candRegion", "cand", pl.cfg.Region()); err != nil {
		return 0, err
	}
	partnerRegion := pdb.Region{Chain: cmp.Chain, Start: cmp.RegionStart, End: cmp.RegionEnd}
	if err = geom.SelectRange("partnerRegion", "partner", partnerRegion); err != nil {
		return 0, err
	}

	return geom.ContactArea("candRegion", "partnerRegion")
}

// mergeComplex assembles the candidate and the comparison structure into
// one in-memory complex. The partner chain is relabeled if it collides
// with a candidate chain.
func mergeComplex(cand *pdb.PDB, cmp Comparison) (*pdb.PDB, error) {
	partner, err := pdb.ParseFile(cmp.StructurePath)
	if err != nil {
		return nil, err
	}

	used := make(map[string]bool)
	for chain := range cand.Chains {
		used[chain] = true
	}

	rename := make(map[string]string)
	next := byte('A')
	for chain := range partner.Chains {
		if !used[chain] {
			rename[chain] = chain
			used[chain] = true
			continue
		}
		for used[string(next)] {
			next++
		}
		rename[chain] = string(next)
		used[string(next)] = true
	}

	merged := cand.Clone()
	for _, atom := range partner.Atoms {
		a := *atom
		a.Chain = rename[atom.Chain]
		merged.Atoms = append(merged.Atoms, &a)
	}
	if err := merged.ExtractPDBChains(); err != nil {
		return nil, err
	}
	merged.ID = cand.ID + "_" + cmp.Name
	merged.LocalPath = ""

	return merged, nil
}

// viabilityMetrics needs only the combination and the sequence context:
// wild type similarity, a function retention estimate, feasibility of the
// downstream targeting method, and the conservation risk at the mutated
// positions.
func (pl *Pipeline) viabilityMetrics(cand *Candidate) (map[string]Value, error) {
	metrics := make(map[string]Value)

	chainLen := float64(len(pl.base.Chains[pl.cfg.Chain]))
	changed := 0
	for _, pt := range cand.Combination {
		if res, err := pl.base.Residue(pl.cfg.Chain, pt.Position); err == nil && res.Name1 != pt.To {
			changed++
		}
	}
	metrics["wtIdentity"] = Value{Number: (chainLen - float64(changed)) / chainLen}

	risk, err := pl.conservationRisk(cand.Combination)
	if err != nil {
		return nil, err
	}
	metrics["conservationRisk"] = Value{Number: risk}

	// Heavily conserved positions tolerate substitutions poorly.
	metrics["functionRetention"] = Value{Number: math.Exp(-risk / 4)}

	metrics["targetingFeasibility"] = Value{Number: feasibility(cand.Combination)}

	return metrics, nil
}

func (pl *Pipeline) conservationRisk(comb mutation.Combination) (float64, error) {
	var total float64
	for _, pt := range comb {
		score, err := pl.msa.Score(pt.Position)
		if err != nil {
			return 0, fmt.Errorf("conservation: %v", err)
		}
		if score > 0 {
			total += score
		}
	}
	return total / float64(len(comb)), nil
}

// feasibility checks the combination alone: introducing helix breakers
// makes the candidate unusable for the downstream targeting method.
func feasibility(comb mutation.Combination) float64 {
	for _, pt := range comb {
		if pt.To == "P" || pt.To == "G" {
			return 0
		}
	}
	return 1
}
