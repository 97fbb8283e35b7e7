package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "LATTICE - Asset Relationship Graph Service",
	Long: `LATTICE models financial assets as a directed graph, infers
relationships between them (sector, issuer, currency, commodity and
yield heuristics), and serves metrics and 3D layout data over HTTP.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
