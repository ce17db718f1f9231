package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/claim-gate/internal/audit"
)

var (
	auditDB    string
	auditLimit int
	auditEntry string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the gate's audit trail",
	Long: `List recent audit entries from a claim-gate database, or show one
entry in full with --entry.

Examples:
  gatectl audit --db claim_gate.db
  gatectl audit --db claim_gate.db --limit 5 -o json
  gatectl audit --db claim_gate.db --entry <id>`,
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().StringVar(&auditDB, "db", "claim_gate.db", "Path to the gate database")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 20, "Show N most recent entries")
	auditCmd.Flags().StringVar(&auditEntry, "entry", "", "Show a single entry by id")
}

func runAudit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(auditDB); err != nil {
		return fmt.Errorf("open %s: %w", auditDB, err)
	}

	store, err := audit.NewStore(auditDB)
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	defer store.Close()

	if auditEntry != "" {
		entry, err := store.GetEntry(auditEntry)
		if err != nil {
			return err
		}
		return printEntries([]audit.Entry{entry})
	}

	entries, err := store.ListEntries(auditLimit)
	if err != nil {
		return err
	}
	return printEntries(entries)
}

func printEntries(entries []audit.Entry) error {
	if output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	for _, e := range entries {
		fmt.Printf("%s  %-20s %-13s %-19s %-8s score=%d\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.TaskID, e.Decision, e.FinalStatus, e.RiskLevel, e.StopScore)
		if verbose {
			if len(e.MissingInvalidParts) > 0 {
				fmt.Printf("    missing: %s\n", strings.Join(e.MissingInvalidParts, "; "))
			}
			if e.RequiredNextAction != "" {
				fmt.Printf("    next: %s\n", e.RequiredNextAction)
			}
		}
	}
	return nil
}
