package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"missioncore/internal/app/projection"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project crew physiology under a mission scenario",
		Long: `Run the predictive modeler from baseline health under a catalog scenario,
optionally applying an intervention plan.

Examples:
  missionctl project --scenario mars-transit --days 30
  missionctl project --scenario mars-transit --plan exercise-triad --days 15 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarioID, _ := cmd.Flags().GetString("scenario")
			planID, _ := cmd.Flags().GetString("plan")
			days, _ := cmd.Flags().GetFloat64("days")
			dt, _ := cmd.Flags().GetFloat64("dt")

			catalog, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			resp, err := projection.UseCase{Catalog: catalog}.Execute(cmd.Context(), projection.Request{
				ScenarioID: scenarioID,
				PlanID:     planID,
				Days:       days,
				DtDays:     dt,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(out, resp)
			}
			final := resp.Final
			fmt.Fprintf(out, "Scenario %s: %d steps\n", resp.Projection.ScenarioID, len(resp.Projection.Trajectory)-1)
			fmt.Fprintf(out, "  bone density   %.4f\n", final.BoneDensity)
			fmt.Fprintf(out, "  muscle mass    %.4f\n", final.MuscleMass)
			fmt.Fprintf(out, "  radiation dose %.2f\n", final.RadiationDose)
			fmt.Fprintf(out, "  recovery       %.4f\n", final.RecoveryPotential)
			if plan := resp.Projection.AppliedPlan; plan.PlanID != "" {
				fmt.Fprintf(out, "Plan %s: %d interventions applied\n", plan.PlanID, len(plan.Applied))
				for _, id := range plan.SkippedIDs {
					fmt.Fprintf(out, "  skipped unknown countermeasure %s\n", id)
				}
			}
			for _, in := range resp.Projection.Insights {
				fmt.Fprintf(out, "[%s] %s: %s\n", in.Severity, in.Title, in.Narrative)
			}
			return nil
		},
	}
	cmd.Flags().String("scenario", "mars-transit", "Scenario id")
	cmd.Flags().String("plan", "", "Intervention plan id")
	cmd.Flags().Float64("days", 0, "Horizon in days (default: scenario duration)")
	cmd.Flags().Float64("dt", 1, "Step length in days")
	return cmd
}
