package main

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tikz/mutscan/dssp"
	"github.com/tikz/mutscan/pdb"
	"github.com/tikz/mutscan/pipeline"
	"github.com/tikz/mutscan/pymol"
	"github.com/tikz/mutscan/rosetta"
	"github.com/tikz/mutscan/store"
)

var (
	outPath  string
	runLabel string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full mutation scan",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		var cfg pipeline.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("parse config: %v", err)
		}

		engines, closeEngines, err := startEngines()
		if err != nil {
			return err
		}
		defer closeEngines()

		if viper.GetBool("relax_base") {
			relaxed, err := relaxedBase(cfg, engines.Modeler)
			if err != nil {
				return fmt.Errorf("relax base structure: %v", err)
			}
			cfg.BaseStructurePath = relaxed
		}

		pl, err := pipeline.New(cfg, engines)
		if err != nil {
			return err
		}

		log.Printf("wild type total score: %.3f", pl.WildTypeScore())

		table, err := pl.Run()
		if err != nil {
			return err
		}

		printTable(table)

		if outPath != "" {
			return saveTable(table)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&outPath, "out", "", "write results to a SQLite database at this path")
	runCmd.Flags().StringVar(&runLabel, "label", "scan", "label stored with the run")
}

// startEngines acquires the external engine handles for the batch. The
// returned closer shuts the PyMOL session down.
func startEngines() (pipeline.Engines, func(), error) {
	scratchDir := viper.GetString("scratch_dir")
	if err := os.MkdirAll(scratchDir, os.ModePerm); err != nil {
		return pipeline.Engines{}, nil, fmt.Errorf("scratch dir: %v", err)
	}

	ros, err := rosetta.NewRosetta(viper.GetString("rosetta_bin_dir"), scratchDir)
	if err != nil {
		return pipeline.Engines{}, nil, fmt.Errorf("rosetta: %v", err)
	}

	session, err := pymol.NewSession(viper.GetString("pymol_bin"))
	if err != nil {
		return pipeline.Engines{}, nil, fmt.Errorf("pymol: %v", err)
	}

	engines := pipeline.Engines{
		Scorer:    ros,
		Modeler:   ros,
		Secondary: dssp.Engine{Bin: viper.GetString("dssp_bin"), ScratchDir: scratchDir},
		Geometry:  session,
	}
	closer := func() {
		if err := session.Close(); err != nil {
			log.Printf("close pymol session: %v", err)
		}
	}
	return engines, closer, nil
}

// relaxedBase minimizes the whole wild type structure once and caches the
// result next to the input, reusing the file on later runs.
func relaxedBase(cfg pipeline.Config, modeler pipeline.Modeler) (string, error) {
	if cfg.Chain == "" {
		cfg.Chain = pipeline.DefaultChain
	}

	relaxedPath := cfg.BaseStructurePath + ".relaxed.pdb"
	if _, err := os.Stat(relaxedPath); err == nil {
		log.Printf("reusing relaxed base structure %s", relaxedPath)
		return relaxedPath, nil
	}

	base, err := pdb.ParseFile(cfg.BaseStructurePath)
	if err != nil {
		return "", err
	}

	whole := pdb.Region{
		Chain: cfg.Chain,
		Start: base.ChainStartResNumber[cfg.Chain],
		End:   base.ChainEndResNumber[cfg.Chain],
	}
	relaxed, err := modeler.Minimize(base, []pdb.Region{whole})
	if err != nil {
		return "", err
	}
	if err := relaxed.WriteFile(relaxedPath); err != nil {
		return "", err
	}
	log.Printf("relaxed base structure written to %s", relaxedPath)
	return relaxedPath, nil
}

func printTable(table *pipeline.Table) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range table.Keys() {
		v, _ := table.Get(name)
		if v.Artifact != "" {
			fmt.Fprintf(w, "%s\t%s\n", name, v.Artifact)
			continue
		}
		fmt.Fprintf(w, "%s\t%.3f\n", name, v.Number)
	}
	w.Flush()
}

func saveTable(table *pipeline.Table) error {
	s, err := store.Open(outPath)
	if err != nil {
		return err
	}
	defer s.Close()

	runID, err := s.SaveRun(runLabel, table)
	if err != nil {
		return err
	}
	log.Printf("saved run %d with %d results to %s", runID, table.Len(), outPath)
	return nil
}
