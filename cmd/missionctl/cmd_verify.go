package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"missioncore/internal/adapter/archive"
	sqlitearchive "missioncore/internal/adapter/archive/sqlite"
	"missioncore/internal/domain/ledger"
)

type verifyReport struct {
	LedgerID string              `json:"ledger_id"`
	Source   string              `json:"source"`
	Entries  int                 `json:"entries"`
	Result   ledger.VerifyResult `json:"result"`
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify an archived ledger chain",
		Long: `Verify the hash chain of a ledger exported to a SQLite archive or to a
JSON document (for example one downloaded from the S3 archive).

Examples:
  missionctl verify --sqlite ./ledgers.db --ledger ares-3
  missionctl verify --file ./1780000000000.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlitePath, _ := cmd.Flags().GetString("sqlite")
			filePath, _ := cmd.Flags().GetString("file")
			ledgerID, _ := cmd.Flags().GetString("ledger")

			var doc archive.Document
			var source string
			switch {
			case filePath != "":
				b, err := os.ReadFile(filePath)
				if err != nil {
					return fmt.Errorf("read archive document: %w", err)
				}
				if doc, err = archive.Decode(b); err != nil {
					return err
				}
				source = filePath
			case sqlitePath != "":
				if ledgerID == "" {
					return fmt.Errorf("--ledger is required with --sqlite")
				}
				a, err := sqlitearchive.Open(sqlitePath)
				if err != nil {
					return err
				}
				defer func() { _ = a.Close() }()
				if doc, err = a.Load(cmd.Context(), ledgerID); err != nil {
					return err
				}
				source = sqlitePath
			default:
				return fmt.Errorf("one of --sqlite or --file is required")
			}

			report := verifyReport{
				LedgerID: doc.LedgerID,
				Source:   source,
				Entries:  len(doc.Entries),
				Result:   ledger.Restore(doc.LedgerID, doc.Entries, nil).Verify(),
			}
			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else if report.Result.OK {
				fmt.Fprintf(out, "OK: ledger %s, %d entries verified\n", report.LedgerID, report.Entries)
			} else {
				t := report.Result.Tamper
				fmt.Fprintf(out, "TAMPERED: ledger %s, entry %d (%s)\n", report.LedgerID, t.Index, t.Field)
				fmt.Fprintf(out, "  expected %s\n  actual   %s\n", t.ExpectedHash, t.ActualHash)
			}
			if !report.Result.OK {
				return fmt.Errorf("ledger %s failed verification", report.LedgerID)
			}
			return nil
		},
	}
	cmd.Flags().String("sqlite", "", "SQLite archive file")
	cmd.Flags().String("file", "", "Archived JSON document")
	cmd.Flags().String("ledger", "", "Ledger id (with --sqlite)")
	return cmd
}
