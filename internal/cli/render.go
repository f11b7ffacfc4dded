package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mahimpat/creatorcrafter/internal/config"
	"github.com/mahimpat/creatorcrafter/internal/graph"
	"github.com/mahimpat/creatorcrafter/internal/logging"
	"github.com/mahimpat/creatorcrafter/internal/plan"
	"github.com/mahimpat/creatorcrafter/internal/render"
	"github.com/mahimpat/creatorcrafter/internal/tui"
)

var renderTimeout time.Duration

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [edit ...]",
		Short: "Build the plan and run the engine",
		Long:  "Build the plan and run the engine. With several edit documents the renders run in parallel up to render.concurrency.",
		RunE:  runRender,
	}
	cmd.Flags().DurationVar(&renderTimeout, "timeout", 0, "Override the configured render timeout")
	return cmd
}

type renderReport struct {
	Edit     string   `json:"edit,omitempty"`
	Output   string   `json:"output"`
	Session  string   `json:"session"`
	Elapsed  string   `json:"elapsed"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// renderLogger tees render events to a session log file. A file that
// cannot be opened falls back to console-only logging.
func renderLogger(cfg config.Config) (zerolog.Logger, io.Closer) {
	log, closer, err := logging.FileLogger(cfg.Render.LogDir)
	if err != nil {
		console := logging.WithComponent("render")
		console.Warn().Err(err).Msg("render log file unavailable")
		return console, nil
	}
	return log.With().Str("component", "render").Logger(), closer
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	timeout := cfg.RenderTimeout()
	if renderTimeout > 0 {
		timeout = renderTimeout
	}

	log, closer := renderLogger(cfg)
	if closer != nil {
		defer closer.Close()
	}
	invoker := render.NewInvoker(cfg.Render.FFmpeg, timeout, log)

	edits := args
	if len(edits) == 0 {
		edits = []string{editPath}
	}
	if len(edits) > 1 {
		return renderBatch(ctx, cmd, cfg, invoker, edits)
	}

	mode := tui.DetectMode(cmd.OutOrStdout(), noProgress, outputJSON)
	if mode != tui.ModeTUI {
		return renderPlain(ctx, cmd, cfg, invoker, edits[0])
	}

	model := tui.NewProgressModel(filepath.Base(edits[0]))
	model.AddStep(tui.StepBuild, "Build graph")
	model.AddStep(tui.StepRender, "Render")

	var result render.Result
	work := func(send func(tea.Msg)) {
		job, err := buildJobWithProgress(cfg, edits[0], tui.BuildReporter(send))
		if err != nil {
			send(tea.Msg(tui.ErrorMsg{Err: err}))
			return
		}
		send(tea.Msg(tui.StepUpdateMsg{Key: tui.StepBuild, Status: "complete"}))
		for _, w := range job.Warnings {
			send(tea.Msg(tui.StepUpdateMsg{Key: tui.StepBuild, Status: "warning", Detail: w}))
		}

		send(tea.Msg(tui.StepUpdateMsg{Key: tui.StepRender, Status: "rendering", Detail: job.OutputPath}))
		res, err := invoker.Render(ctx, job)
		if err != nil {
			send(tea.Msg(tui.ErrorMsg{Err: err}))
			return
		}
		result = res
		send(tea.Msg(tui.StepUpdateMsg{Key: tui.StepRender, Status: "complete", Detail: res.Elapsed.Round(time.Millisecond).String()}))
	}

	if err := tui.RunWithWork(cmd.OutOrStdout(), model, work); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "rendered %s\n", result.OutputPath)
	return nil
}

func renderPlain(ctx context.Context, cmd *cobra.Command, cfg config.Config, invoker *render.Invoker, edit string) error {
	job, _, err := buildJobFor(cfg, edit)
	if err != nil {
		return err
	}
	for _, w := range job.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	res, err := invoker.Render(ctx, job)
	if err != nil {
		return err
	}

	if outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(renderReport{
			Output:   res.OutputPath,
			Session:  res.SessionID,
			Elapsed:  res.Elapsed.Round(time.Millisecond).String(),
			Warnings: job.Warnings,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "rendered %s in %s\n", res.OutputPath, res.Elapsed.Round(time.Millisecond))
	return nil
}

// renderBatch builds every edit up front, then runs the engine
// invocations with at most render.concurrency in flight.
func renderBatch(ctx context.Context, cmd *cobra.Command, cfg config.Config, invoker *render.Invoker, edits []string) error {
	jobs := make([]graph.RenderJob, len(edits))
	for i, edit := range edits {
		job, _, err := buildJobFor(cfg, edit)
		if err != nil {
			return fmt.Errorf("%s: %w", edit, err)
		}
		for _, w := range job.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", edit, w)
		}
		jobs[i] = job
	}

	outcomes := invoker.RenderAll(ctx, jobs, cfg.Render.Concurrency)

	var failed int
	if outputJSON {
		reports := make([]renderReport, len(outcomes))
		for i, out := range outcomes {
			reports[i] = renderReport{
				Edit:    edits[i],
				Output:  jobs[i].OutputPath,
				Session: out.Result.SessionID,
				Elapsed: out.Result.Elapsed.Round(time.Millisecond).String(),
			}
			if out.Err != nil {
				reports[i].Error = out.Err.Error()
				failed++
			}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		for i, out := range outcomes {
			if out.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed %s: %v\n", edits[i], out.Err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rendered %s in %s\n", out.Result.OutputPath, out.Result.Elapsed.Round(time.Millisecond))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d renders failed", failed, len(edits))
	}
	return nil
}

func buildJobWithProgress(cfg config.Config, edit string, progress func(plan.Phase)) (graph.RenderJob, error) {
	spec, err := loadSpec(edit)
	if err != nil {
		return graph.RenderJob{}, err
	}

	opts := cfg.PlanOptions()
	opts.Progress = progress
	return plan.NewBuilder(opts).Build(spec)
}
