package render

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mahimpat/creatorcrafter/internal/graph"
)

// Invoker hands a finished render job to the engine and reports the
// outcome. It consumes each job exactly once and never mutates it.
type Invoker struct {
	FFmpegPath string
	Timeout    time.Duration
	WorkDir    string
	Runner     Runner
	Log        zerolog.Logger
}

// Result describes a completed render.
type Result struct {
	SessionID  string
	OutputPath string
	Elapsed    time.Duration
}

// NewInvoker returns an invoker bound to an engine binary. An empty path
// resolves "ffmpeg" from PATH at run time.
func NewInvoker(ffmpegPath string, timeout time.Duration, log zerolog.Logger) *Invoker {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Invoker{
		FFmpegPath: ffmpegPath,
		Timeout:    timeout,
		Runner:     CmdRunner{},
		Log:        log,
	}
}

// Render runs the engine for the job. Process failures and timeouts come
// back as RenderProcessError carrying the tail of the engine's stderr.
func (inv *Invoker) Render(ctx context.Context, job graph.RenderJob) (Result, error) {
	args, err := job.Args()
	if err != nil {
		return Result{}, err
	}

	session := uuid.NewString()
	log := inv.Log.With().Str("session", session).Logger()

	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	if dir := filepath.Dir(job.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, err
		}
	}

	runner := inv.Runner
	if runner == nil {
		runner = CmdRunner{}
	}

	log.Info().
		Int("inputs", len(job.Inputs)).
		Int("stages", len(job.Stages)).
		Str("output", job.OutputPath).
		Msg("starting render")

	start := time.Now()
	res, runErr := runner.Run(ctx, inv.FFmpegPath, args, RunOptions{Dir: inv.WorkDir})
	elapsed := time.Since(start)

	if runErr != nil {
		procErr := &RenderProcessError{
			ExitCode: -1,
			Stderr:   stderrTail(string(res.Stderr), stderrTailLimit),
			TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			procErr.ExitCode = exitErr.ExitCode()
		}
		_ = os.Remove(job.OutputPath)

		log.Error().
			Int("exit_code", procErr.ExitCode).
			Bool("timed_out", procErr.TimedOut).
			Dur("elapsed", elapsed).
			Msg("render failed")
		return Result{}, procErr
	}

	log.Info().Dur("elapsed", elapsed).Msg("render complete")
	return Result{
		SessionID:  session,
		OutputPath: job.OutputPath,
		Elapsed:    elapsed,
	}, nil
}

// Outcome pairs one job's result with its error for batch rendering.
type Outcome struct {
	Result Result
	Err    error
}

// RenderAll runs the jobs with at most concurrency engine processes in
// flight. Outcomes keep job order.
func (inv *Invoker) RenderAll(ctx context.Context, jobs []graph.RenderJob, concurrency int) []Outcome {
	if concurrency <= 0 {
		concurrency = 1
	}

	outcomes := make([]Outcome, len(jobs))

	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, concurrency)
	)

	for i, job := range jobs {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, job graph.RenderJob) {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := inv.Render(ctx, job)
			outcomes[i] = Outcome{Result: res, Err: err}
		}(i, job)
	}

	wg.Wait()
	return outcomes
}
