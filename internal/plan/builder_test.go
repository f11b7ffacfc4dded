package plan

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/mahimpat/creatorcrafter/internal/graph"
	"github.com/mahimpat/creatorcrafter/internal/timeline"
)

func testBuilder(opts Options) *Builder {
	if opts.Stat == nil {
		opts.Stat = func(string) error { return nil }
	}
	return NewBuilder(opts)
}

func threeClipSpec() timeline.Spec {
	return timeline.Spec{
		Clips: []timeline.ClipSpec{
			{Source: "a.mp4", RawDuration: 12, StartTrim: 1, EndTrim: 1},
			{Source: "b.mp4", RawDuration: 9},
			{Source: "c.mp4", RawDuration: 7, EndTrim: 1},
		},
		Transitions: []timeline.TransitionSpec{
			{Type: "fade", Duration: 1},
			{Type: "wipe-left", Duration: 0.5},
		},
		OutputPath: "out.mp4",
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	b := testBuilder(Options{Width: 1920, Height: 1080, FPS: 30})
	spec := threeClipSpec()
	spec.Subtitles = []timeline.TextCue{{Text: "hello", Start: 1, End: 4}}
	spec.Grade = timeline.ColorGradeSpec{Brightness: 0.1, Saturation: 1.2}

	first, err := b.Build(spec)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	second, err := b.Build(spec)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if first.FilterComplex() != second.FilterComplex() {
		t.Error("two builds of the same edit produced different graphs")
	}
	a1, _ := first.Args()
	a2, _ := second.Args()
	if !reflect.DeepEqual(a1, a2) {
		t.Error("two builds of the same edit produced different invocations")
	}
}

func TestBuildCrossfadeOffsets(t *testing.T) {
	b := testBuilder(Options{})
	job, err := b.Build(threeClipSpec())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	fc := job.FilterComplex()
	// Effective durations 10, 9, 6 with overlaps 1 and 0.5: clip starts at
	// 0, 9, 17.5.
	if !strings.Contains(fc, "xfade=transition=fade:duration=1:offset=9") {
		t.Errorf("graph %q missing first crossfade", fc)
	}
	if !strings.Contains(fc, "xfade=transition=wipeleft:duration=0.5:offset=17.5") {
		t.Errorf("graph %q missing second crossfade", fc)
	}
}

func TestBuildHardCutConcat(t *testing.T) {
	spec := threeClipSpec()
	spec.Clips = spec.Clips[:2]
	spec.Transitions = []timeline.TransitionSpec{{Type: "cut"}}

	b := testBuilder(Options{})
	job, err := b.Build(spec)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if !strings.Contains(job.FilterComplex(), "concat=n=2:v=1:a=0") {
		t.Errorf("graph %q missing video concat", job.FilterComplex())
	}
	if !strings.Contains(job.FilterComplex(), "concat=n=2:v=0:a=1") {
		t.Errorf("graph %q missing audio concat", job.FilterComplex())
	}
}

func TestBuildUnknownTransitionWarns(t *testing.T) {
	spec := threeClipSpec()
	spec.Transitions[0].Type = "sparkle-burst"

	b := testBuilder(Options{})
	job, err := b.Build(spec)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if !strings.Contains(job.FilterComplex(), "xfade=transition=fade:duration=1:offset=9") {
		t.Errorf("graph %q should degrade to the default dissolve", job.FilterComplex())
	}
	found := false
	for _, w := range job.Warnings {
		if strings.Contains(w, "sparkle-burst") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings %v missing unknown-transition notice", job.Warnings)
	}
}

func TestBuildFastPath(t *testing.T) {
	spec := timeline.Spec{
		Clips:      []timeline.ClipSpec{{Source: "solo.mp4", RawDuration: 30, StartTrim: 2, EndTrim: 3}},
		OutputPath: "out.mp4",
	}

	b := testBuilder(Options{})
	job, err := b.Build(spec)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if job.FilterComplex() != "" {
		t.Errorf("fast path emitted a graph: %q", job.FilterComplex())
	}
	if job.Trim == nil || job.Trim.Start != 2 || job.Trim.Duration != 25 {
		t.Errorf("fast path trim = %+v, want start 2 duration 25", job.Trim)
	}
	if job.FinalVideo != "0:v" || job.FinalAudio != "0:a" {
		t.Errorf("fast path maps %q/%q, want raw streams", job.FinalVideo, job.FinalAudio)
	}
}

func TestBuildFastPathRequiresBareEdit(t *testing.T) {
	spec := timeline.Spec{
		Clips:      []timeline.ClipSpec{{Source: "solo.mp4", RawDuration: 30}},
		Subtitles:  []timeline.TextCue{{Text: "hi", Start: 0, End: 2}},
		OutputPath: "out.mp4",
	}

	b := testBuilder(Options{})
	job, err := b.Build(spec)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if job.FilterComplex() == "" {
		t.Error("subtitled single clip must build a graph")
	}
	if job.Trim != nil {
		t.Error("graph path must not carry an input seek window")
	}
}

func TestBuildStageOrderVideoPost(t *testing.T) {
	spec := threeClipSpec()
	spec.Grade = timeline.ColorGradeSpec{Contrast: 1.1}
	spec.Subtitles = []timeline.TextCue{{Text: "sub", Start: 0, End: 2}}
	spec.Overlays = []timeline.TextCue{{Text: "title", Start: 0, End: 3}}

	b := testBuilder(Options{})
	job, err := b.Build(spec)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	var order []graph.Kind
	for _, s := range job.Stages {
		switch s.Kind {
		case graph.KindColorGrade, graph.KindSubtitle, graph.KindOverlay:
			order = append(order, s.Kind)
		}
	}
	want := []graph.Kind{graph.KindColorGrade, graph.KindSubtitle, graph.KindOverlay}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("post stage order = %v, want %v", order, want)
	}
	if job.FinalVideo != "ovl0" {
		t.Errorf("final video %q, want ovl0", job.FinalVideo)
	}
}

func TestBuildAudioExtras(t *testing.T) {
	spec := threeClipSpec()
	spec.BGM = &timeline.BGMSpec{Source: "bed.mp3", Volume: 0.3}
	spec.SFX = []timeline.SFXCue{{Source: "pop.wav", At: 2, Volume: 0.9}}

	b := testBuilder(Options{})
	job, err := b.Build(spec)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	wantInputs := []string{"a.mp4", "b.mp4", "c.mp4", "bed.mp3", "pop.wav"}
	if len(job.Inputs) != len(wantInputs) {
		t.Fatalf("got %d inputs, want %d", len(job.Inputs), len(wantInputs))
	}
	for i, in := range job.Inputs {
		if in.Path != wantInputs[i] {
			t.Errorf("input %d = %q, want %q", i, in.Path, wantInputs[i])
		}
	}

	fc := job.FilterComplex()
	if !strings.Contains(fc, "[3:a]") {
		t.Errorf("graph %q does not read the bed from input 3", fc)
	}
	if !strings.Contains(fc, "[4:a]adelay=2000|2000") {
		t.Errorf("graph %q does not delay the cue from input 4", fc)
	}
	if job.FinalAudio != "mix1" {
		t.Errorf("final audio %q, want mix1", job.FinalAudio)
	}
}

func TestBuildLoudnormAppendsFinalStage(t *testing.T) {
	b := testBuilder(Options{Loudnorm: &LoudnormParams{I: -16, TP: -1.5, LRA: 11}})
	job, err := b.Build(threeClipSpec())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if !strings.Contains(job.FilterComplex(), "loudnorm=I=-16:TP=-1.5:LRA=11") {
		t.Errorf("graph %q missing loudnorm", job.FilterComplex())
	}
	last := job.Stages[len(job.Stages)-1]
	if last.Output != job.FinalAudio {
		t.Errorf("loudnorm output %q is not the final audio %q", last.Output, job.FinalAudio)
	}
}

func TestBuildMissingAsset(t *testing.T) {
	b := testBuilder(Options{Stat: func(path string) error {
		if path == "b.mp4" {
			return fmt.Errorf("stat %s: no such file", path)
		}
		return nil
	}})

	_, err := b.Build(threeClipSpec())
	var missing *timeline.MissingAssetError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want MissingAssetError", err)
	}
	if missing.Kind != "clip" || missing.Path != "b.mp4" {
		t.Errorf("missing = %+v", missing)
	}
}

func TestBuildRejectsInvalidTimeline(t *testing.T) {
	spec := threeClipSpec()
	spec.Transitions = spec.Transitions[:1]

	b := testBuilder(Options{})
	_, err := b.Build(spec)
	var invalid *timeline.InvalidTimelineError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want InvalidTimelineError", err)
	}
}

func TestBuildReportsPhases(t *testing.T) {
	var phases []Phase
	b := testBuilder(Options{Progress: func(p Phase) { phases = append(phases, p) }})
	if _, err := b.Build(threeClipSpec()); err != nil {
		t.Fatalf("Build error: %v", err)
	}

	want := []Phase{PhaseValidate, PhaseTrim, PhaseTransitions, PhaseVideoPost, PhaseAudio, PhaseFinalize}
	if !reflect.DeepEqual(phases, want) {
		t.Errorf("phases = %v, want %v", phases, want)
	}
}

func TestBuildNormalizesClipGeometry(t *testing.T) {
	b := testBuilder(Options{Width: 1280, Height: 720, FPS: 24})
	job, err := b.Build(threeClipSpec())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	fc := job.FilterComplex()
	for _, want := range []string{
		"scale=w=1280:h=720:force_original_aspect_ratio=decrease",
		"pad=w=1280:h=720:x=(ow-iw)/2:y=(oh-ih)/2",
		"setsar=1",
		"fps=24",
	} {
		if !strings.Contains(fc, want) {
			t.Errorf("graph %q missing %q", fc, want)
		}
	}
}
