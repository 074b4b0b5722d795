// Package pipeline enumerates point mutation combinations on a target
// protein, builds and validates each candidate structure through the
// external engines, and tabulates structural, interface and viability
// metrics for the accepted ones.
package pipeline

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/tikz/mutscan/conservation"
	"github.com/tikz/mutscan/mutation"
	"github.com/tikz/mutscan/pdb"
)

// Pipeline drives a whole scan run. Engine handles are acquired once and
// shared serially across all candidates.
type Pipeline struct {
	cfg     Config
	engines Engines

	base       *pdb.PDB
	refComplex *pdb.PDB
	msa        *conservation.MSA

	applicator *Applicator
	scratchDir string

	// Wild type baselines, computed once at startup.
	wtScore        float64
	wtComplexScore float64
	wtContact      map[string]float64
}

// New loads the run inputs, validates the configuration against them and
// computes the wild type baselines. Configuration mistakes fail here,
// before any candidate is processed.
func New(cfg Config, engines Engines) (*Pipeline, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("config: %v", err)
	}

	base, err := pdb.ParseFile(cfg.BaseStructurePath)
	if err != nil {
		return nil, fmt.Errorf("base structure: %v", err)
	}
	if err := cfg.Window().Check(base); err != nil {
		return nil, fmt.Errorf("config: %v", err)
	}
	if err := cfg.Region().Check(base); err != nil {
		return nil, fmt.Errorf("config: %v", err)
	}
	for _, site := range cfg.Sites {
		if _, err := base.Residue(cfg.Chain, site); err != nil {
			return nil, fmt.Errorf("config: mutation site %d: %v", site, err)
		}
	}

	var refComplex *pdb.PDB
	if cfg.ReferenceComplexPath != "" {
		if refComplex, err = pdb.ParseFile(cfg.ReferenceComplexPath); err != nil {
			return nil, fmt.Errorf("reference complex: %v", err)
		}
	}

	msa, err := conservation.LoadMSA(cfg.AlignmentPath)
	if err != nil {
		return nil, fmt.Errorf("alignment: %v", err)
	}

	if cfg.ResultsDir != "" {
		if err := os.MkdirAll(cfg.ResultsDir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("results dir: %v", err)
		}
	}
	scratchDir := filepath.Join(cfg.ResultsDir, "scratch")
	if err := os.MkdirAll(scratchDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("scratch dir: %v", err)
	}

	pl := &Pipeline{
		cfg:        cfg,
		engines:    engines,
		base:       base,
		refComplex: refComplex,
		msa:        msa,
		scratchDir: scratchDir,
		wtContact:  make(map[string]float64),
	}

	pl.applicator = &Applicator{
		Modeler: engines.Modeler,
		Chain:   cfg.Chain,
		Validator: &Validator{
			Scorer:           engines.Scorer,
			Secondary:        engines.Secondary,
			Chain:            cfg.Chain,
			Window:           cfg.Window(),
			MinHelixFraction: MinHelixFraction,
			ClashDistance:    ClashDistance,
		},
	}

	if err := pl.baselines(); err != nil {
		return nil, fmt.Errorf("wild type baselines: %v", err)
	}

	return pl, nil
}

// baselines scores the wild type and measures its contact areas against
// every comparison protein.
func (pl *Pipeline) baselines() error {
	score, err := pl.engines.Scorer.Score(pl.base)
	if err != nil {
		return fmt.Errorf("score: %v", err)
	}
	pl.wtScore = score

	if pl.refComplex != nil {
		if pl.wtComplexScore, err = pl.engines.Scorer.Score(pl.refComplex); err != nil {
			return fmt.Errorf("score reference complex: %v", err)
		}
	}

	for _, cmp := range pl.cfg.Comparisons {
		contact, err := pl.contactArea(pl.cfg.BaseStructurePath, cmp)
		if err != nil {
			return fmt.Errorf("contact area vs %s: %v", cmp.Name, err)
		}
		pl.wtContact[cmp.Name] = contact
	}

	return nil
}

// WildTypeScore returns the total energy score of the unmutated base
// structure.
func (pl *Pipeline) WildTypeScore() float64 {
	return pl.wtScore
}

// Run processes the full combination space sequentially: one combination
// is mutated, validated and measured across all comparison proteins
// before the next begins. Rejected or failing candidates are skipped with
// a log line and contribute no results.
func (pl *Pipeline) Run() (*Table, error) {
	combs := mutation.Enumerate(pl.cfg.Sites, pl.cfg.Alphabet)
	table := NewTable()

	accepted, rejected := 0, 0
	for i, comb := range combs {
		if (i+1)%progressEvery == 0 {
			log.Printf("processed %d/%d combinations (%d accepted)", i+1, len(combs), accepted)
		}

		name := comb.Name(pl.base, pl.cfg.Chain)

		cand, rej := pl.applicator.Apply(pl.base, comb)
		if rej != nil {
			rejected++
			log.Printf("skip %s: %s", name, rej)
			continue
		}

		if err := pl.collect(table, cand); err != nil {
			rejected++
			log.Printf("skip %s: %v", name, err)
			continue
		}
		accepted++
	}

	log.Printf("done: %d combinations, %d accepted, %d skipped", len(combs), accepted, rejected)
	return table, nil
}

// collect runs the three metric collectors for an accepted candidate and
// commits their values to the table only if every one of them succeeds,
// so a late engine failure never leaves partial results behind.
func (pl *Pipeline) collect(table *Table, cand *Candidate) error {
	structural, err := pl.structuralMetrics(cand)
	if err != nil {
		return fmt.Errorf("structural metrics: %v", err)
	}

	viability, err := pl.viabilityMetrics(cand)
	if err != nil {
		return fmt.Errorf("viability metrics: %v", err)
	}

	interfaces := make(map[string]map[string]Value)
	for _, cmp := range pl.cfg.Comparisons {
		metrics, err := pl.interfaceMetrics(cand, cmp)
		if err != nil {
			return fmt.Errorf("interface metrics vs %s: %v", cmp.Name, err)
		}
		interfaces[cmp.Name] = metrics
	}

	if err := table.merge(cand.Name, "", structural); err != nil {
		return err
	}
	if err := table.merge(cand.Name, "", viability); err != nil {
		return err
	}
	for _, cmp := range pl.cfg.Comparisons {
		if err := table.merge(cand.Name, cmp.Name, interfaces[cmp.Name]); err != nil {
			return err
		}
	}

	return nil
}
