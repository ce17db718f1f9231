package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/claim-gate/internal/config"
	"github.com/danielpatrickdp/claim-gate/internal/scorelog"
	"github.com/danielpatrickdp/claim-gate/internal/taxonomy"
)

var (
	scoreConfig    string
	scorePattern   string
	scoreJSONOut   string
	scoreCSVOut    string
	scoreDashboard string
	scoreStats     bool
	scoreThreshold string
)

var scoreCmd = &cobra.Command{
	Use:   "score <file|dir>",
	Short: "Score call logs for unverified pricing, legal, and completion claims",
	Long: `Score one JSON call log, or every matching log under a directory.

Each log is checked for price mentions without a STOP, legal statements
without a STOP, and completion claims without file evidence, then given
a stop score and risk band.

Exit codes:
  0  no log required a stop
  1  at least one log required a stop
  2  at least one log scored HIGH or CRITICAL

Examples:
  gatectl score call_log.json
  gatectl score logs/ --pattern "*.json" --csv report.csv
  gatectl score logs/ --stats --dashboard dashboard.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreConfig, "config", "", "Path to keyword config YAML")
	scoreCmd.Flags().StringVar(&scorePattern, "pattern", "*.json", "Filename pattern when scoring a directory")
	scoreCmd.Flags().StringVar(&scoreJSONOut, "json", "", "Write full results to a JSON file")
	scoreCmd.Flags().StringVar(&scoreCSVOut, "csv", "", "Write results to a CSV file")
	scoreCmd.Flags().StringVar(&scoreDashboard, "dashboard", "", "Write a supervisor dashboard to a JSON file")
	scoreCmd.Flags().BoolVar(&scoreStats, "stats", false, "Print per-agent statistics")
	scoreCmd.Flags().StringVar(&scoreThreshold, "alert-threshold", "HIGH", "Minimum risk band that raises an alert")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if scoreConfig != "" {
		loaded, err := config.Load(scoreConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: config %s: %v (using defaults)\n", scoreConfig, err)
		}
		cfg = loaded
	}

	rawThreshold := scoreThreshold
	if !cmd.Flags().Changed("alert-threshold") && cfg.Alerts.Threshold != "" {
		rawThreshold = cfg.Alerts.Threshold
	}
	threshold, err := taxonomy.ParseSeverity(rawThreshold)
	if err != nil {
		return fmt.Errorf("invalid alert threshold: %w", err)
	}

	scorer := scorelog.NewScorer(cfg)
	results, scoreErrs, err := collectResults(scorer, args[0])
	if err != nil {
		return err
	}
	for _, serr := range scoreErrs {
		fmt.Fprintf(os.Stderr, "warning: %v\n", serr)
	}
	if len(results) == 0 {
		return fmt.Errorf("no scorable logs found at %s", args[0])
	}

	alerter := scorelog.NewAlerter(threshold)
	for _, res := range results {
		alerter.Check(res)
	}

	if output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
	} else {
		printResults(results)
	}

	for _, alert := range alerter.Alerts() {
		fmt.Fprintf(os.Stderr, "ALERT [%s] %s\n", alert.RiskLevel, alert.Message)
	}

	summary := scorelog.Summarize(results)
	fmt.Printf("\n%d logs scored, average risk %.2f, %d critical, %d agents\n",
		summary.Total, summary.AverageRisk, summary.CriticalCount, summary.AgentsAnalyzed)

	if scoreStats {
		printStats(scorer.AgentStatistics())
	}

	if scoreJSONOut != "" {
		if err := scorelog.WriteJSON(results, scoreJSONOut); err != nil {
			return err
		}
	}
	if scoreCSVOut != "" {
		if err := scorelog.WriteCSV(results, scoreCSVOut); err != nil {
			return err
		}
	}
	if scoreDashboard != "" {
		dash := scorelog.BuildDashboard(results, scorer.AgentStatistics())
		if err := scorelog.WriteDashboard(dash, scoreDashboard); err != nil {
			return err
		}
	}

	os.Exit(exitCodeFor(results))
	return nil
}

// #region helpers

func collectResults(scorer *scorelog.Scorer, path string) ([]scorelog.Result, []error, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		results, scoreErrs := scorer.ScoreDirectory(path, scorePattern)
		return results, scoreErrs, nil
	}
	res, err := scorer.ScoreFile(path)
	if err != nil {
		return nil, nil, err
	}
	return []scorelog.Result{res}, nil, nil
}

func printResults(results []scorelog.Result) {
	for _, res := range results {
		marker := "OK  "
		if res.StopRequired {
			marker = "STOP"
		}
		fmt.Printf("%s  %-12s score=%-3d %-8s", marker, res.AgentID, res.StopScore, res.RiskLevel)
		if len(res.Violations) > 0 {
			fmt.Printf("  %s", strings.Join(res.Violations, "; "))
		}
		fmt.Println()
	}
}

func printStats(stats map[string]scorelog.AgentStats) {
	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Println("\nPer-agent statistics:")
	for _, id := range ids {
		s := stats[id]
		fmt.Printf("  %-12s calls=%-4d avg_risk=%-6.2f stop_rate=%-5.2f critical=%d\n",
			id, s.TotalInteractions, s.AverageRisk(), s.StopRate(), s.CriticalIncidents)
	}
}

func exitCodeFor(results []scorelog.Result) int {
	code := 0
	for _, res := range results {
		if res.Critical() {
			return 2
		}
		if res.StopRequired {
			code = 1
		}
	}
	return code
}

// #endregion helpers
