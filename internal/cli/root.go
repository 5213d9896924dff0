package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds procurectl. Every subcommand works on local files and
// prints JSON, so no database or token is needed.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "procurectl",
		Short: "Offline procurement policy checks",
		Long: `Run the splintering detector, the executive threshold check and the
combine workflow against local JSON/YAML files.

Examples:
  procurectl splinter --request r.json --history h.json --rules rules.yaml
  procurectl threshold --amount 120000 --category works
  procurectl combine preview --requests reqs.json --config cfg.yaml`,
		SilenceUsage: true,
	}
	root.AddCommand(newSplinterCmd(), newThresholdCmd(), newCombineCmd())
	return root
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
