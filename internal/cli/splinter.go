package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/procurement-backend/internal/modules/procurement/splintering"
)

type splinterOutput struct {
	Alerts          []splintering.Alert `json:"alerts"`
	BlockSubmission bool                `json:"block_submission"`
}

func newSplinterCmd() *cobra.Command {
	var (
		requestPath string
		historyPath string
		rulesPath   string
		asOf        string
	)

	cmd := &cobra.Command{
		Use:   "splinter",
		Short: "Check one request against a history file for splintering",
		RunE: func(cmd *cobra.Command, args []string) error {
			var current splintering.Snapshot
			if err := readJSONFile(requestPath, &current); err != nil {
				return err
			}
			var history []splintering.Snapshot
			if historyPath != "" {
				if err := readJSONFile(historyPath, &history); err != nil {
					return err
				}
			}
			rules, err := loadRules(rulesPath)
			if err != nil {
				return err
			}
			now := time.Now()
			if asOf != "" {
				now, err = time.Parse(time.RFC3339, asOf)
				if err != nil {
					return fmt.Errorf("--as-of: %w", err)
				}
			}

			alerts := splintering.Detect(current, history, rules, now)
			out := splinterOutput{Alerts: alerts}
			for _, a := range alerts {
				if a.BlockSubmission {
					out.BlockSubmission = true
				}
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&requestPath, "request", "", "JSON file with the request snapshot")
	cmd.Flags().StringVar(&historyPath, "history", "", "JSON file with an array of prior request snapshots")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rule file (default: built-in rules)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluate as of this RFC3339 time instead of now")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func loadRules(path string) ([]splintering.Rule, error) {
	if path == "" {
		return splintering.LoadRules()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return splintering.ParseRules(data)
}
