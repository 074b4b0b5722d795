package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "mutscan",
	Short: "Combinatorial point mutation scanner",
	Long: `mutscan builds every combination of point mutations over a set of
sites, models each candidate structure, validates it against energy,
helix integrity and clash thresholds, and tabulates metrics for the
accepted ones.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default mutscan.yaml)")

	rootCmd.AddCommand(runCmd)
}

// loadConfig reads the YAML configuration into viper.
func loadConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("mutscan")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetDefault("pymol_bin", "pymol")
	viper.SetDefault("dssp_bin", "mkdssp")
	viper.SetDefault("scratch_dir", "scratch")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %v", err)
	}
	return nil
}
