package cli

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/procurement-backend/internal/modules/procurement/threshold"
)

func newThresholdCmd() *cobra.Command {
	var (
		amount     float64
		categories []string
		currency   string
	)

	cmd := &cobra.Command{
		Use:   "threshold",
		Short: "Check an amount against the executive approval thresholds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), threshold.CheckExecutive(amount, categories, currency))
		},
	}
	cmd.Flags().Float64Var(&amount, "amount", 0, "request value")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "category (repeatable)")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code for the message")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
