package graph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Input is one media file fed to the engine, in declaration order. The
// index in RenderJob.Inputs is the stream index used by stage input labels.
type Input struct {
	Path string
}

// InputTrim is the fast-path seek window applied to the sole input instead
// of a filter graph.
type InputTrim struct {
	Start    float64
	Duration float64
}

// EncodeParams are the target encode settings carried by every job.
type EncodeParams struct {
	VideoCodec   string
	Preset       string
	CRF          int
	PixelFormat  string
	FPS          int
	Width        int
	Height       int
	AudioCodec   string
	AudioBitrate int
	SampleRate   int
	Channels     int
	FastStart    bool
}

// RenderJob is the fully resolved render plan: ordered filter stages, the
// final stream mapping, and target encode parameters. It is immutable once
// emitted and consumed exactly once by the external renderer.
type RenderJob struct {
	Inputs     []Input
	Stages     []Stage
	Trim       *InputTrim
	FinalVideo string
	FinalAudio string
	Encode     EncodeParams
	OutputPath string
	Warnings   []string
}

// FilterComplex serializes the stage graph into the engine's textual
// filter-graph grammar: stages joined by ";", chains by ",", wired through
// bracketed labels. Seek-kind stages never appear here; they are executed
// as input options.
func (j RenderJob) FilterComplex() string {
	var parts []string
	for _, stage := range j.Stages {
		if stage.Kind == KindInputTrim {
			continue
		}
		var b strings.Builder
		for _, in := range stage.Inputs {
			b.WriteString("[")
			b.WriteString(in)
			b.WriteString("]")
		}
		b.WriteString(stage.Chain())
		b.WriteString("[")
		b.WriteString(stage.Output)
		b.WriteString("]")
		parts = append(parts, b.String())
	}
	return strings.Join(parts, ";")
}

// Args assembles the engine's command-line invocation for the job.
func (j RenderJob) Args() ([]string, error) {
	if len(j.Inputs) == 0 {
		return nil, errors.New("render job has no inputs")
	}
	if strings.TrimSpace(j.OutputPath) == "" {
		return nil, errors.New("render job has no output path")
	}

	args := []string{"-hide_banner", "-y"}

	for i, input := range j.Inputs {
		if i == 0 && j.Trim != nil {
			args = append(args,
				"-ss", FormatFloat(j.Trim.Start),
				"-t", FormatFloat(j.Trim.Duration),
			)
		}
		args = append(args, "-i", input.Path)
	}

	if fc := j.FilterComplex(); fc != "" {
		args = append(args, "-filter_complex", fc)
	}

	args = append(args, "-map", j.mapTarget(j.FinalVideo))
	if j.FinalAudio != "" {
		args = append(args, "-map", j.mapTarget(j.FinalAudio))
	}

	args = append(args, j.encodeArgs()...)
	args = append(args, j.OutputPath)
	return args, nil
}

// mapTarget formats a -map argument: graph labels get brackets, raw stream
// specifiers (0:v, 0:a) pass through.
func (j RenderJob) mapTarget(label string) string {
	if strings.Contains(label, ":") {
		return label
	}
	return "[" + label + "]"
}

func (j RenderJob) encodeArgs() []string {
	enc := j.Encode
	var args []string

	codec := strings.TrimSpace(enc.VideoCodec)
	if codec == "" {
		codec = "libx264"
	}
	args = append(args, "-c:v", codec)
	if preset := strings.TrimSpace(enc.Preset); preset != "" {
		args = append(args, "-preset", preset)
	}
	if enc.CRF >= 0 {
		args = append(args, "-crf", strconv.Itoa(enc.CRF))
	}
	if pix := strings.TrimSpace(enc.PixelFormat); pix != "" {
		args = append(args, "-pix_fmt", pix)
	}
	if enc.FPS > 0 {
		args = append(args, "-r", strconv.Itoa(enc.FPS))
	}

	if acodec := strings.TrimSpace(enc.AudioCodec); acodec != "" {
		args = append(args, "-c:a", acodec)
	}
	if enc.AudioBitrate > 0 {
		args = append(args, "-b:a", fmt.Sprintf("%dk", enc.AudioBitrate))
	}
	if enc.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(enc.SampleRate))
	}
	if enc.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(enc.Channels))
	}
	if enc.FastStart {
		args = append(args, "-movflags", "+faststart")
	}
	return args
}

// StageCount returns how many stages of the given kind the job contains.
func (j RenderJob) StageCount(kind Kind) int {
	n := 0
	for _, s := range j.Stages {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// Labels returns the ordered output labels of every stage, for determinism
// checks and diagnostics.
func (j RenderJob) Labels() []string {
	labels := make([]string, 0, len(j.Stages))
	for _, s := range j.Stages {
		if s.Output != "" {
			labels = append(labels, s.Output)
		}
	}
	return labels
}
