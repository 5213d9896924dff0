package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/procurement-backend/internal/modules/procurement/combine"
)

type combineValidateOutput struct {
	Validation  combine.ValidationResult `json:"validation"`
	Permissions combine.PermissionResult `json:"permissions"`
}

func newCombineCmd() *cobra.Command {
	var (
		requestsPath string
		configPath   string
		userRoles    []string
		department   string
	)

	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Validate or preview merging several requests into one",
	}
	cmd.PersistentFlags().StringVar(&requestsPath, "requests", "", "JSON file with an array of requests")
	_ = cmd.MarkPersistentFlagRequired("requests")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check eligibility and the acting user's permissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			requests, err := loadCombineRequests(requestsPath)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), combineValidateOutput{
				Validation:  combine.ValidateRequestCombination(requests),
				Permissions: combine.CheckCombinePermissions(userRoles, department, requests),
			})
		},
	}
	validateCmd.Flags().StringSliceVar(&userRoles, "role", nil, "acting user's role (repeatable)")
	validateCmd.Flags().StringVar(&department, "department", "", "acting user's department")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the combined request that would be created",
		RunE: func(cmd *cobra.Command, args []string) error {
			requests, err := loadCombineRequests(requestsPath)
			if err != nil {
				return err
			}
			cfg, err := loadCombineConfig(configPath)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), combine.GenerateCombinePreview(requests, cfg))
		},
	}
	previewCmd.Flags().StringVar(&configPath, "config", "", "YAML combine config")

	cmd.AddCommand(validateCmd, previewCmd)
	return cmd
}

func loadCombineRequests(path string) ([]combine.Request, error) {
	var requests []combine.Request
	if err := readJSONFile(path, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func loadCombineConfig(path string) (combine.Config, error) {
	cfg := combine.Config{IncludeOriginalReferences: true, ConsolidateItems: true}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
