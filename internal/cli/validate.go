package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mahimpat/creatorcrafter/internal/config"
	"github.com/mahimpat/creatorcrafter/internal/plan"
	"github.com/mahimpat/creatorcrafter/internal/project"
	"github.com/mahimpat/creatorcrafter/internal/render"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config and edit document without building",
		RunE:  runValidate,
	}
}

type validateReport struct {
	Config   []config.ValidationResult `json:"config"`
	Timeline []string                  `json:"timeline"`
	Probe    []string                  `json:"probe,omitempty"`
	OK       bool                      `json:"ok"`
}

func runValidate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	report := validateReport{Config: cfg.Validate()}

	spec, err := project.Load(editPath)
	if err != nil {
		report.Timeline = append(report.Timeline, err.Error())
	} else {
		if _, err := plan.NewBuilder(cfg.PlanOptions()).Build(spec); err != nil {
			report.Timeline = append(report.Timeline, err.Error())
		}

		prober := render.NewProber(cfg.Render.FFprobe)
		problems, warnings := prober.VerifyTrims(ctx, spec.Clips)
		report.Timeline = append(report.Timeline, problems...)
		report.Probe = warnings
	}

	report.OK = !config.HasErrors(report.Config) && len(report.Timeline) == 0

	if outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	for _, r := range report.Config {
		fmt.Fprintf(cmd.OutOrStdout(), "config %s: %s\n", r.Level, r.Message)
	}
	for _, msg := range report.Timeline {
		fmt.Fprintf(cmd.OutOrStdout(), "timeline error: %s\n", msg)
	}
	for _, msg := range report.Probe {
		fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", msg)
	}
	if report.OK {
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	}
	return fmt.Errorf("validation failed")
}
