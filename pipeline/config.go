package pipeline

import (
	"errors"
	"fmt"

	"github.com/tikz/mutscan/pdb"
)

// Comparison describes a partner protein scored against each candidate
// at the interface.
type Comparison struct {
	Name          string `mapstructure:"name"`
	Sequence      string `mapstructure:"sequence"`
	StructurePath string `mapstructure:"structure_path"`
	Chain         string `mapstructure:"chain"`
	RegionStart   int64  `mapstructure:"region_start"`
	RegionEnd     int64  `mapstructure:"region_end"`
}

// Config carries every input of a scan run.
type Config struct {
	BaseStructurePath    string `mapstructure:"base_structure_path"`
	ReferenceComplexPath string `mapstructure:"reference_complex_path"`
	AlignmentPath        string `mapstructure:"alignment_path"`

	// Chain of the target protein inside the base structure.
	Chain string `mapstructure:"chain"`

	Sites    []int64  `mapstructure:"sites"`
	Alphabet []string `mapstructure:"alphabet"`

	// Reference window checked for helix integrity, and compared for
	// backbone deviation.
	WindowStart int64 `mapstructure:"window_start"`
	WindowEnd   int64 `mapstructure:"window_end"`

	// Fixed region of interest of the target used for interface scoring.
	RegionStart int64 `mapstructure:"region_start"`
	RegionEnd   int64 `mapstructure:"region_end"`

	// Directory for plot artifacts and scratch files.
	ResultsDir string `mapstructure:"results_dir"`

	Comparisons []Comparison `mapstructure:"comparisons"`
}

// Defaults for the helix integrity window and validation thresholds.
const (
	DefaultWindowStart = 129
	DefaultWindowEnd   = 146
	DefaultChain       = "A"
	MinHelixFraction   = 0.85
	ClashDistance      = 2.0
	progressEvery      = 100
)

// withDefaults fills the optional fields.
func (c Config) withDefaults() Config {
	if c.Chain == "" {
		c.Chain = DefaultChain
	}
	if c.WindowStart == 0 && c.WindowEnd == 0 {
		c.WindowStart, c.WindowEnd = DefaultWindowStart, DefaultWindowEnd
	}
	for i := range c.Comparisons {
		if c.Comparisons[i].Chain == "" {
			c.Comparisons[i].Chain = DefaultChain
		}
	}
	return c
}

// Check validates the configuration. Malformed descriptors indicate a
// configuration mistake, so the whole run fails fast here instead of
// failing per candidate later.
func (c Config) Check() error {
	if c.BaseStructurePath == "" {
		return errors.New("base structure path is required")
	}
	if c.AlignmentPath == "" {
		return errors.New("alignment path is required")
	}
	if len(c.Sites) == 0 {
		return errors.New("at least one mutation site is required")
	}
	for _, site := range c.Sites {
		if site <= 0 {
			return fmt.Errorf("mutation site %d is not a 1-based position", site)
		}
	}
	if len(c.Alphabet) == 0 {
		return errors.New("replacement alphabet is empty")
	}
	for _, aa := range c.Alphabet {
		_, _, letter := pdb.AminoacidNames(aa)
		if !pdb.IsAminoacid(letter) {
			return fmt.Errorf("unknown replacement aminoacid %q", aa)
		}
	}
	if _, err := pdb.NewRegion(c.Chain, c.WindowStart, c.WindowEnd); err != nil {
		return fmt.Errorf("reference window: %v", err)
	}
	if _, err := pdb.NewRegion(c.Chain, c.RegionStart, c.RegionEnd); err != nil {
		return fmt.Errorf("region of interest: %v", err)
	}

	names := make(map[string]bool)
	for _, cmp := range c.Comparisons {
		if cmp.Name == "" {
			return errors.New("comparison protein without a name")
		}
		if names[cmp.Name] {
			return fmt.Errorf("duplicate comparison protein name %q", cmp.Name)
		}
		names[cmp.Name] = true
		if cmp.StructurePath == "" {
			return fmt.Errorf("comparison %s: structure path is required", cmp.Name)
		}
		if _, err := pdb.NewRegion(cmp.Chain, cmp.RegionStart, cmp.RegionEnd); err != nil {
			return fmt.Errorf("comparison %s: %v", cmp.Name, err)
		}
	}

	return nil
}

// Window returns the reference window as a region of the target chain.
func (c Config) Window() pdb.Region {
	return pdb.Region{Chain: c.Chain, Start: c.WindowStart, End: c.WindowEnd}
}

// Region returns the region of interest of the target chain.
func (c Config) Region() pdb.Region {
	return pdb.Region{Chain: c.Chain, Start: c.RegionStart, End: c.RegionEnd}
}
