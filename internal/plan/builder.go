package plan

import (
	"os"
	"strconv"

	"github.com/mahimpat/creatorcrafter/internal/audiomix"
	"github.com/mahimpat/creatorcrafter/internal/graph"
	"github.com/mahimpat/creatorcrafter/internal/overlay"
	"github.com/mahimpat/creatorcrafter/internal/timeline"
	"github.com/mahimpat/creatorcrafter/internal/transitions"
)

// Phase names the build step currently running, for progress reporting.
type Phase string

const (
	PhaseValidate    Phase = "validate"
	PhaseTrim        Phase = "trim"
	PhaseTransitions Phase = "transitions"
	PhaseVideoPost   Phase = "video-post"
	PhaseAudio       Phase = "audio"
	PhaseFinalize    Phase = "finalize"
)

// LoudnormParams configure the optional two-pass-free loudness stage
// appended after the audio mix.
type LoudnormParams struct {
	I   float64
	TP  float64
	LRA float64
}

// Options tune the plan builder. The zero value produces an unscaled,
// source-rate plan with default ducking limits.
type Options struct {
	Width  int
	Height int
	FPS    int

	Encode   graph.EncodeParams
	Ducking  audiomix.DuckingLimits
	Loudnorm *LoudnormParams

	// Stat checks asset existence; tests substitute it. Nil means os.Stat.
	Stat func(path string) error
	// Progress, when set, receives each phase as it starts.
	Progress func(Phase)
}

// Builder turns a resolved edit into a render job. It holds no per-build
// state; the same builder is safe to reuse across specs.
type Builder struct {
	opts Options
}

// NewBuilder returns a builder with defaults filled in.
func NewBuilder(opts Options) *Builder {
	if opts.Stat == nil {
		opts.Stat = func(path string) error {
			_, err := os.Stat(path)
			return err
		}
	}
	if opts.Ducking == (audiomix.DuckingLimits{}) {
		opts.Ducking = audiomix.DefaultDuckingLimits
	}
	return &Builder{opts: opts}
}

func (b *Builder) step(p Phase) {
	if b.opts.Progress != nil {
		b.opts.Progress(p)
	}
}

// Build validates the edit and emits its render job. Identical specs yield
// byte-identical jobs. A validation failure returns InvalidTimelineError or
// MissingAssetError and no job.
func (b *Builder) Build(spec timeline.Spec) (graph.RenderJob, error) {
	b.step(PhaseValidate)
	if err := timeline.Validate(spec.Clips, spec.Transitions); err != nil {
		return graph.RenderJob{}, err
	}
	if err := b.checkAssets(spec); err != nil {
		return graph.RenderJob{}, err
	}

	if b.isFastPath(spec) {
		return b.buildFastPath(spec), nil
	}

	var warnings []string
	lab := graph.NewLabeler()
	job := graph.RenderJob{
		Encode:     b.opts.Encode,
		OutputPath: spec.OutputPath,
	}

	for _, clip := range spec.Clips {
		job.Inputs = append(job.Inputs, graph.Input{Path: clip.Source})
	}
	bgmInput := len(job.Inputs)
	if spec.BGM != nil {
		job.Inputs = append(job.Inputs, graph.Input{Path: spec.BGM.Source})
	}
	sfxBase := len(job.Inputs)
	for _, cue := range spec.SFX {
		job.Inputs = append(job.Inputs, graph.Input{Path: cue.Source})
	}

	b.step(PhaseTrim)
	clipLabels := b.emitClipTrims(spec.Clips, lab, &job)

	b.step(PhaseTransitions)
	video, trWarnings, err := b.emitJoins(spec, clipLabels, lab, &job)
	if err != nil {
		return graph.RenderJob{}, err
	}
	warnings = append(warnings, trWarnings...)

	b.step(PhaseVideoPost)
	video = b.emitGrade(spec.Grade, video, lab, &job)
	video = b.emitText(spec.Subtitles, video, graph.KindSubtitle, lab, &job)
	video = b.emitText(spec.Overlays, video, graph.KindOverlay, lab, &job)

	b.step(PhaseAudio)
	total, err := timeline.TotalDuration(spec.Clips, spec.Transitions)
	if err != nil {
		return graph.RenderJob{}, err
	}
	audioStages, audio, audioWarnings := audiomix.Compile(audiomix.Plan{
		Clips:         spec.Clips,
		Transitions:   spec.Transitions,
		BGM:           spec.BGM,
		SFX:           spec.SFX,
		BGMInput:      bgmInput,
		SFXBase:       sfxBase,
		TotalDuration: total,
		Limits:        b.opts.Ducking,
	}, lab)
	job.Stages = append(job.Stages, audioStages...)
	warnings = append(warnings, audioWarnings...)

	if b.opts.Loudnorm != nil {
		out := lab.Next(graph.KindAudioMix)
		job.Stages = append(job.Stages, graph.Stage{
			Kind:   graph.KindAudioMix,
			Inputs: []string{audio},
			Filters: []graph.Filter{
				{Name: "loudnorm", Args: []graph.Arg{
					graph.Ff("I", b.opts.Loudnorm.I),
					graph.Ff("TP", b.opts.Loudnorm.TP),
					graph.Ff("LRA", b.opts.Loudnorm.LRA),
				}},
			},
			Output: out,
		})
		audio = out
	}

	b.step(PhaseFinalize)
	job.FinalVideo = video
	job.FinalAudio = audio
	job.Warnings = warnings
	return job, nil
}

// isFastPath reports whether the edit is a bare single-clip trim that can
// run as input seek options with no filter graph.
func (b *Builder) isFastPath(spec timeline.Spec) bool {
	return len(spec.Clips) == 1 &&
		len(spec.Transitions) == 0 &&
		!spec.HasAudioExtras() &&
		!spec.HasTextExtras() &&
		spec.Grade.IsIdentity() &&
		b.opts.Width == 0 && b.opts.Height == 0 && b.opts.FPS == 0
}

func (b *Builder) buildFastPath(spec timeline.Spec) graph.RenderJob {
	clip := spec.Clips[0]
	job := graph.RenderJob{
		Inputs:     []graph.Input{{Path: clip.Source}},
		FinalVideo: "0:v",
		FinalAudio: "0:a",
		Encode:     b.opts.Encode,
		OutputPath: spec.OutputPath,
	}
	if clip.StartTrim > 0 || clip.EndTrim > 0 {
		job.Trim = &graph.InputTrim{
			Start:    clip.StartTrim,
			Duration: clip.EffectiveDuration(),
		}
	}
	return job
}

func (b *Builder) checkAssets(spec timeline.Spec) error {
	for _, clip := range spec.Clips {
		if err := b.opts.Stat(clip.Source); err != nil {
			return &timeline.MissingAssetError{Kind: "clip", Path: clip.Source}
		}
	}
	if spec.BGM != nil {
		if err := b.opts.Stat(spec.BGM.Source); err != nil {
			return &timeline.MissingAssetError{Kind: "bgm", Path: spec.BGM.Source}
		}
	}
	for _, cue := range spec.SFX {
		if err := b.opts.Stat(cue.Source); err != nil {
			return &timeline.MissingAssetError{Kind: "sfx", Path: cue.Source}
		}
	}
	for _, cue := range append(append([]timeline.TextCue{}, spec.Subtitles...), spec.Overlays...) {
		if cue.Style.FontFile == "" {
			continue
		}
		if err := b.opts.Stat(cue.Style.FontFile); err != nil {
			return &timeline.MissingAssetError{Kind: "font", Path: cue.Style.FontFile}
		}
	}
	return nil
}

// emitClipTrims produces one trim-and-normalize stage per clip so every
// stream entering a join shares geometry, sample ratio, and frame rate.
func (b *Builder) emitClipTrims(clips []timeline.ClipSpec, lab *graph.Labeler, job *graph.RenderJob) []string {
	labels := make([]string, len(clips))
	for i, clip := range clips {
		filters := []graph.Filter{
			{Name: "trim", Args: []graph.Arg{
				graph.Ff("start", clip.StartTrim),
				graph.Ff("duration", clip.EffectiveDuration()),
			}},
			{Name: "setpts", Args: []graph.Arg{graph.F("", "PTS-STARTPTS")}},
		}
		filters = append(filters, b.normalizeFilters()...)

		out := lab.Next(graph.KindVideoTrim)
		job.Stages = append(job.Stages, graph.Stage{
			Kind:    graph.KindVideoTrim,
			Inputs:  []string{inputLabel(i, "v")},
			Filters: filters,
			Output:  out,
		})
		labels[i] = out
	}
	return labels
}

func (b *Builder) normalizeFilters() []graph.Filter {
	var filters []graph.Filter
	if b.opts.Width > 0 && b.opts.Height > 0 {
		filters = append(filters,
			graph.Filter{Name: "scale", Args: []graph.Arg{
				graph.Fi("w", b.opts.Width),
				graph.Fi("h", b.opts.Height),
				graph.F("force_original_aspect_ratio", "decrease"),
			}},
			graph.Filter{Name: "pad", Args: []graph.Arg{
				graph.Fi("w", b.opts.Width),
				graph.Fi("h", b.opts.Height),
				graph.F("x", "(ow-iw)/2"),
				graph.F("y", "(oh-ih)/2"),
			}},
			graph.Filter{Name: "setsar", Args: []graph.Arg{graph.F("", "1")}},
		)
	}
	if b.opts.FPS > 0 {
		filters = append(filters, graph.Filter{
			Name: "fps",
			Args: []graph.Arg{graph.Fi("", b.opts.FPS)},
		})
	}
	return filters
}

// emitJoins folds the trimmed clips left to right. Timed transitions become
// crossfade stages whose offset is the join point in the accumulated
// stream; zero-duration transitions become plain concatenation.
func (b *Builder) emitJoins(spec timeline.Spec, clipLabels []string, lab *graph.Labeler, job *graph.RenderJob) (string, []string, error) {
	current := clipLabels[0]
	if len(clipLabels) == 1 {
		return current, nil, nil
	}

	offsets, err := timeline.Offsets(spec.Clips, spec.Transitions)
	if err != nil {
		return "", nil, err
	}

	var warnings []string
	for i := 1; i < len(clipLabels); i++ {
		tr := spec.Transitions[i-1]
		out := lab.Next(graph.KindVideoJoin)

		if tr.Duration > 0 {
			res := transitions.Resolve(tr)
			if res.Warning != "" {
				warnings = append(warnings, res.Warning)
			}

			args := make([]graph.Arg, 0, 4)
			if res.Blend.IsCustom() {
				args = append(args,
					graph.F("transition", "custom"),
					graph.F("expr", graph.Quote(res.Blend.Expression)),
				)
			} else {
				args = append(args, graph.F("transition", res.Blend.Name))
			}
			args = append(args,
				graph.Ff("duration", tr.Duration),
				graph.Ff("offset", offsets[i]),
			)

			job.Stages = append(job.Stages, graph.Stage{
				Kind:    graph.KindVideoJoin,
				Inputs:  []string{current, clipLabels[i]},
				Filters: []graph.Filter{{Name: "xfade", Args: args}},
				Output:  out,
			})
		} else {
			job.Stages = append(job.Stages, graph.Stage{
				Kind:   graph.KindVideoJoin,
				Inputs: []string{current, clipLabels[i]},
				Filters: []graph.Filter{
					{Name: "concat", Args: []graph.Arg{
						graph.Fi("n", 2),
						graph.Fi("v", 1),
						graph.Fi("a", 0),
					}},
				},
				Output: out,
			})
		}
		current = out
	}
	return current, warnings, nil
}

// emitGrade appends the eq color stage unless the grade is identity.
func (b *Builder) emitGrade(grade timeline.ColorGradeSpec, input string, lab *graph.Labeler, job *graph.RenderJob) string {
	if grade.IsIdentity() {
		return input
	}

	args := make([]graph.Arg, 0, 4)
	if grade.Brightness != 0 {
		args = append(args, graph.Ff("brightness", grade.Brightness))
	}
	if grade.Contrast != 0 && grade.Contrast != 1 {
		args = append(args, graph.Ff("contrast", grade.Contrast))
	}
	if grade.Saturation != 0 && grade.Saturation != 1 {
		args = append(args, graph.Ff("saturation", grade.Saturation))
	}
	if grade.Gamma != 0 && grade.Gamma != 1 {
		args = append(args, graph.Ff("gamma", grade.Gamma))
	}

	out := lab.Next(graph.KindColorGrade)
	job.Stages = append(job.Stages, graph.Stage{
		Kind:    graph.KindColorGrade,
		Inputs:  []string{input},
		Filters: []graph.Filter{{Name: "eq", Args: args}},
		Output:  out,
	})
	return out
}

func (b *Builder) emitText(cues []timeline.TextCue, input string, kind graph.Kind, lab *graph.Labeler, job *graph.RenderJob) string {
	stages, out := overlay.CompileChain(cues, input, kind, lab)
	job.Stages = append(job.Stages, stages...)
	return out
}

func inputLabel(index int, stream string) string {
	return strconv.Itoa(index) + ":" + stream
}
