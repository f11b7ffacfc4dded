package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mahimpat/creatorcrafter/internal/config"
	"github.com/mahimpat/creatorcrafter/internal/graph"
	"github.com/mahimpat/creatorcrafter/internal/plan"
	"github.com/mahimpat/creatorcrafter/internal/project"
	"github.com/mahimpat/creatorcrafter/internal/timeline"
)

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the render plan and print the engine invocation",
		RunE:  runBuild,
	}
}

type buildReport struct {
	Inputs        []string `json:"inputs"`
	FilterComplex string   `json:"filter_complex"`
	Args          []string `json:"args"`
	Warnings      []string `json:"warnings,omitempty"`
	Output        string   `json:"output"`
	TotalDuration float64  `json:"total_duration"`
}

func buildConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if results := cfg.Validate(); config.HasErrors(results) {
		return config.Config{}, fmt.Errorf("config has errors; run validate")
	}
	return cfg, nil
}

func loadSpec(path string) (timeline.Spec, error) {
	return project.Load(path)
}

func buildJobFor(cfg config.Config, path string) (graph.RenderJob, timeline.Spec, error) {
	spec, err := loadSpec(path)
	if err != nil {
		return graph.RenderJob{}, timeline.Spec{}, err
	}

	job, err := plan.NewBuilder(cfg.PlanOptions()).Build(spec)
	if err != nil {
		return graph.RenderJob{}, timeline.Spec{}, err
	}
	return job, spec, nil
}

func buildJob() (graph.RenderJob, timeline.Spec, config.Config, error) {
	cfg, err := buildConfig()
	if err != nil {
		return graph.RenderJob{}, timeline.Spec{}, config.Config{}, err
	}

	job, spec, err := buildJobFor(cfg, editPath)
	if err != nil {
		return graph.RenderJob{}, timeline.Spec{}, config.Config{}, err
	}
	return job, spec, cfg, nil
}

func runBuild(cmd *cobra.Command, _ []string) error {
	job, spec, _, err := buildJob()
	if err != nil {
		return err
	}

	total, err := timeline.TotalDuration(spec.Clips, spec.Transitions)
	if err != nil {
		return err
	}

	args, err := job.Args()
	if err != nil {
		return err
	}

	if outputJSON {
		report := buildReport{
			FilterComplex: job.FilterComplex(),
			Args:          args,
			Warnings:      job.Warnings,
			Output:        job.OutputPath,
			TotalDuration: total,
		}
		for _, in := range job.Inputs {
			report.Inputs = append(report.Inputs, in.Path)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	out := cmd.OutOrStdout()
	for _, w := range job.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	if fc := job.FilterComplex(); fc != "" {
		fmt.Fprintf(out, "filter graph:\n%s\n\n", strings.ReplaceAll(fc, ";", ";\n"))
	}
	fmt.Fprintf(out, "ffmpeg %s\n", strings.Join(args, " "))
	fmt.Fprintf(out, "total duration: %ss\n", graph.FormatFloat(total))
	return nil
}
