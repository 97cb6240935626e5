package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List scenarios, countermeasures and intervention plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(out, catalog)
			}
			fmt.Fprintln(out, "Scenarios:")
			for _, s := range catalog.Scenarios {
				fmt.Fprintf(out, "  %-16s %-24s %4.0f days  g=%.2f rad=%.2f\n", s.ID, s.Label, s.DurationDays, s.Gravity, s.Radiation)
			}
			fmt.Fprintln(out, "Countermeasures:")
			for _, cm := range catalog.Countermeasures {
				fields := make([]string, 0, len(cm.EfficacyTargets))
				for f := range cm.EfficacyTargets {
					fields = append(fields, string(f))
				}
				sort.Strings(fields)
				fmt.Fprintf(out, "  %-20s %v\n", cm.ID, fields)
			}
			fmt.Fprintln(out, "Plans:")
			for _, p := range catalog.Plans {
				fmt.Fprintf(out, "  %-16s %d scheduled\n", p.ID, len(p.Schedule))
			}
			return nil
		},
	}
}
