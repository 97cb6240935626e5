package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"missioncore/internal/config"
	"missioncore/internal/domain/predictive"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "missionctl",
		Short: "Offline mission simulation and ledger tooling",
		Long: `missionctl runs the mission engines without a server.

It projects crew health under a scenario, steps habitat life support,
ticks ecosystem lineages into a ledger and verifies archived ledgers.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "YAML config file (life support, anomaly window, catalog path)")
	rootCmd.PersistentFlags().String("catalog", "", "YAML scenario/countermeasure catalog, overrides the config file")

	rootCmd.AddCommand(
		newProjectCmd(),
		newLifeSupportCmd(),
		newEcosystemCmd(),
		newVerifyCmd(),
		newCatalogCmd(),
	)
	return rootCmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func loadCatalog(cmd *cobra.Command) (predictive.Catalog, error) {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return predictive.Catalog{}, err
		}
		path = cfg.CatalogPath
	}
	return config.LoadCatalog(path)
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
