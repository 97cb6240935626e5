package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	sqlitearchive "missioncore/internal/adapter/archive/sqlite"
	"missioncore/internal/adapter/repo/memory"
	"missioncore/internal/app/audit"
	"missioncore/internal/app/orchestrator"
	"missioncore/internal/app/ports"
	"missioncore/internal/logging"
)

type ecosystemReport struct {
	LineageID  string                      `json:"lineage_id"`
	Seed       string                      `json:"seed"`
	Ticks      []orchestrator.TickResponse `json:"ticks"`
	Verify     audit.VerifyResponse        `json:"verify"`
	Archive    *ports.ArchiveReceipt       `json:"archive,omitempty"`
	Population []int                       `json:"population"`
}

func newEcosystemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ecosystem",
		Short: "Tick a seeded ecosystem lineage and chain every state into a ledger",
		Long: `Start a lineage in memory, tick it, score the population series for
anomalies and verify the resulting ledger. The same seed always produces
the same lineage.

Examples:
  missionctl ecosystem --seed ares-3 --ticks 50
  missionctl ecosystem --seed ares-3 --ticks 50 --archive ./ledgers.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetString("seed")
			lineageID, _ := cmd.Flags().GetString("lineage")
			ticks, _ := cmd.Flags().GetInt("ticks")
			archivePath, _ := cmd.Flags().GetString("archive")
			if lineageID == "" {
				lineageID = seed
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store := memory.NewStore()
			ledgers := memory.NewLedgerRepo(store)
			evts := memory.NewEventRepo(store)
			uc := orchestrator.UseCase{
				TxManager:     memory.NewTxManager(store),
				Ecosystems:    memory.NewEcosystemRepo(store),
				Ledgers:       ledgers,
				Events:        evts,
				Chains:        orchestrator.NewChains(),
				AnomalyWindow: cfg.Anomaly.Window,
				Logger:        logging.Discard(),
				Now:           time.Now,
			}
			ctx := cmd.Context()
			start, err := uc.Start(ctx, orchestrator.StartRequest{LineageID: lineageID, Seed: seed})
			if err != nil {
				return err
			}
			report := ecosystemReport{LineageID: lineageID, Seed: seed, Population: []int{start.State.TotalPopulation()}}
			for i := 0; i < ticks; i++ {
				resp, err := uc.Tick(ctx, orchestrator.TickRequest{LineageID: lineageID})
				if err != nil {
					return err
				}
				report.Ticks = append(report.Ticks, resp)
				report.Population = append(report.Population, resp.State.TotalPopulation())
			}

			auditUC := audit.UseCase{Ledgers: ledgers, Events: evts}
			if archivePath != "" {
				a, err := sqlitearchive.Open(archivePath)
				if err != nil {
					return err
				}
				defer func() { _ = a.Close() }()
				auditUC.Archive = a
				exp, err := auditUC.Export(ctx, audit.ExportRequest{LedgerID: lineageID})
				if err != nil {
					return err
				}
				report.Archive = &exp.Receipt
			}
			report.Verify, err = auditUC.Verify(ctx, audit.VerifyRequest{LedgerID: lineageID})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(out, report)
			}
			fmt.Fprintf(out, "Lineage %s (seed %s): %d ticks\n", lineageID, seed, ticks)
			for i, t := range report.Ticks {
				marker := ""
				if t.Anomaly.IsAnomaly {
					marker = fmt.Sprintf("  anomaly score=%.2f z=%.2f", t.Anomaly.Score, t.Anomaly.ZScore)
				}
				fmt.Fprintf(out, "  tick %3d population=%6d stability=%.3f%s\n", i+1, report.Population[i+1], t.State.StabilityScore, marker)
			}
			fmt.Fprintf(out, "Ledger: %d entries, head %s, intact=%v\n", report.Verify.Entries, short(report.Verify.Head), report.Verify.Result.OK)
			if report.Archive != nil {
				fmt.Fprintf(out, "Archived to %s\n", report.Archive.Location)
			}
			return nil
		},
	}
	cmd.Flags().String("seed", "mission-default", "Lineage seed")
	cmd.Flags().String("lineage", "", "Lineage id (default: seed)")
	cmd.Flags().Int("ticks", 10, "Number of ticks")
	cmd.Flags().String("archive", "", "SQLite archive file to export the ledger into")
	return cmd
}

func short(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
