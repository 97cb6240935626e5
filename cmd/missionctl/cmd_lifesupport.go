package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"missioncore/internal/domain/lifesupport"
)

func newLifeSupportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lifesupport",
		Short: "Step habitat reserves with the configured modules",
		Long: `Start from the initial reserves and step the life support model.
Modules and crew rates come from --config, or the built-in defaults.

Examples:
  missionctl lifesupport --steps 3 --hours 24
  missionctl lifesupport --crew 6 --no-modules --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			hours, _ := cmd.Flags().GetFloat64("hours")
			crew, _ := cmd.Flags().GetInt("crew")
			noModules, _ := cmd.Flags().GetBool("no-modules")
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			lsCfg := cfg.LifeSupport.Config
			if cmd.Flags().Changed("crew") {
				lsCfg.CrewCount = crew
			}
			modules := cfg.LifeSupport.Modules
			if noModules {
				modules = nil
			}

			engine := lifesupport.Engine{}
			state := lifesupport.InitResourceState(time.Now())
			results := make([]lifesupport.StepResult, 0, steps)
			for i := 0; i < steps; i++ {
				res := engine.Step(state, modules, lsCfg, hours)
				results = append(results, res)
				state = res.State
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(out, results)
			}
			for _, r := range results {
				s := r.State
				fmt.Fprintf(out, "t=%6.1fh O2=%7.1f H2O=%7.1f E=%7.1f CO2=%6.1f waste=%6.1f sustainability=%.3f\n",
					s.Tick, s.Oxygen, s.Water, s.Energy, s.CarbonDioxide, s.Waste, r.SustainabilityIndex)
				for _, w := range s.Warnings {
					fmt.Fprintf(out, "  [%s] %s\n", w.Severity, w.Message)
				}
			}
			return nil
		},
	}
	cmd.Flags().Int("steps", 1, "Number of steps")
	cmd.Flags().Float64("hours", 24, "Hours per step")
	cmd.Flags().Int("crew", 0, "Crew count (default: config)")
	cmd.Flags().Bool("no-modules", false, "Ignore configured modules")
	return cmd
}
