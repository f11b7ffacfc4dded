package render

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mahimpat/creatorcrafter/internal/graph"
	"github.com/mahimpat/creatorcrafter/internal/timeline"
)

// Prober reads media durations with ffprobe.
type Prober struct {
	FFprobePath string
	Runner      Runner
}

// NewProber returns a prober bound to an ffprobe binary. An empty path
// resolves "ffprobe" from PATH at run time.
func NewProber(ffprobePath string) *Prober {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Prober{FFprobePath: ffprobePath, Runner: CmdRunner{}}
}

// Duration returns the container duration of a media file in seconds.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	runner := p.Runner
	if runner == nil {
		runner = CmdRunner{}
	}

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	res, err := runner.Run(ctx, p.FFprobePath, args, RunOptions{})
	if err != nil {
		if stderr := strings.TrimSpace(string(res.Stderr)); stderr != "" {
			return 0, fmt.Errorf("ffprobe %s: %w (stderr: %s)", path, err, stderr)
		}
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(res.Stdout)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration for %s: %w", path, err)
	}
	return duration, nil
}

// VerifyTrims probes each clip source and reports trim windows that do not
// fit the probed duration. Probe failures become warnings instead of
// problems so validation still runs on machines without the engine.
func (p *Prober) VerifyTrims(ctx context.Context, clips []timeline.ClipSpec) (problems, warnings []string) {
	for i, clip := range clips {
		probed, err := p.Duration(ctx, clip.Source)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("could not probe clip %d (%s): %v", i, clip.Source, err))
			continue
		}
		if probed <= 0 {
			continue
		}
		if clip.StartTrim >= probed {
			problems = append(problems, fmt.Sprintf(
				"clip %d start trim %ss is beyond the probed duration %ss",
				i, graph.FormatFloat(clip.StartTrim), graph.FormatFloat(probed)))
			continue
		}
		if end := clip.StartTrim + clip.EffectiveDuration(); end > probed {
			problems = append(problems, fmt.Sprintf(
				"clip %d trim window ends at %ss but the probed duration is %ss",
				i, graph.FormatFloat(end), graph.FormatFloat(probed)))
		}
	}
	return problems, warnings
}
