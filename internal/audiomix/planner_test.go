package audiomix

import (
	"strings"
	"testing"

	"github.com/mahimpat/creatorcrafter/internal/graph"
	"github.com/mahimpat/creatorcrafter/internal/timeline"
)

func twoClipPlan() Plan {
	return Plan{
		Clips: []timeline.ClipSpec{
			{Source: "a.mp4", RawDuration: 10},
			{Source: "b.mp4", RawDuration: 8},
		},
		Transitions: []timeline.TransitionSpec{
			{Type: "fade", Duration: 1},
		},
	}
}

func TestCompileCrossfadesMatchVideoTiming(t *testing.T) {
	var lab graph.Labeler
	stages, final, _ := Compile(twoClipPlan(), &lab)

	if len(stages) != 3 {
		t.Fatalf("got %d stages, want 3", len(stages))
	}

	join := stages[2]
	if join.Kind != graph.KindAudioJoin {
		t.Fatalf("stage 2 kind = %q, want %q", join.Kind, graph.KindAudioJoin)
	}
	chain := join.Chain()
	if !strings.Contains(chain, "acrossfade=d=1:c1=tri:c2=tri") {
		t.Errorf("join chain %q missing acrossfade", chain)
	}
	if join.Output != final {
		t.Errorf("final label %q, want %q", final, join.Output)
	}
}

func TestCompileHardCutUsesConcat(t *testing.T) {
	p := twoClipPlan()
	p.Transitions[0].Duration = 0

	var lab graph.Labeler
	stages, _, _ := Compile(p, &lab)

	chain := stages[2].Chain()
	if !strings.Contains(chain, "concat=n=2:v=0:a=1") {
		t.Errorf("join chain %q missing concat", chain)
	}
}

func TestCompileTrimsEachClip(t *testing.T) {
	p := twoClipPlan()
	p.Clips[0].StartTrim = 2
	p.Clips[0].EndTrim = 1

	var lab graph.Labeler
	stages, _, _ := Compile(p, &lab)

	chain := stages[0].Chain()
	if !strings.Contains(chain, "atrim=start=2:duration=7") {
		t.Errorf("trim chain %q missing atrim", chain)
	}
	if !strings.Contains(chain, "asetpts=PTS-STARTPTS") {
		t.Errorf("trim chain %q missing asetpts", chain)
	}
	if got := stages[0].Inputs[0]; got != "0:a" {
		t.Errorf("trim input %q, want 0:a", got)
	}
}

func TestCompileMixesDuckedBGM(t *testing.T) {
	p := twoClipPlan()
	p.TotalDuration = 17
	p.BGMInput = 2
	p.BGM = &timeline.BGMSpec{
		Source: "music.mp3",
		Volume: 0.3,
		DuckPoints: []timeline.AudioDuckPoint{
			{At: 0, Volume: 1.0},
			{At: 5, Volume: 0.2, Speech: true},
		},
	}

	var lab graph.Labeler
	stages, final, _ := Compile(p, &lab)

	var bgm, mix *graph.Stage
	for i := range stages {
		switch stages[i].Kind {
		case graph.KindBGM:
			bgm = &stages[i]
		case graph.KindAudioMix:
			mix = &stages[i]
		}
	}
	if bgm == nil || mix == nil {
		t.Fatal("expected bgm and mix stages")
	}

	if got := bgm.Inputs[0]; got != "2:a" {
		t.Errorf("bgm input %q, want 2:a", got)
	}
	chain := bgm.Chain()
	if !strings.Contains(chain, "atrim=start=0:duration=17") {
		t.Errorf("bgm chain %q missing trim to composition length", chain)
	}
	if !strings.Contains(chain, ")*0.3'") {
		t.Errorf("bgm chain %q missing base-volume scaling", chain)
	}
	if !strings.Contains(chain, "eval=frame") {
		t.Errorf("bgm chain %q missing per-frame evaluation", chain)
	}

	if !strings.Contains(mix.Chain(), "amix=inputs=2:duration=first:normalize=0") {
		t.Errorf("mix chain %q wrong", mix.Chain())
	}
	if mix.Output != final {
		t.Errorf("final label %q, want %q", final, mix.Output)
	}
}

func TestCompileStaticBGMVolume(t *testing.T) {
	p := twoClipPlan()
	p.TotalDuration = 17
	p.BGMInput = 2
	p.BGM = &timeline.BGMSpec{Source: "music.mp3", Volume: 0.25}

	var lab graph.Labeler
	stages, _, _ := Compile(p, &lab)

	var bgm *graph.Stage
	for i := range stages {
		if stages[i].Kind == graph.KindBGM {
			bgm = &stages[i]
		}
	}
	if bgm == nil {
		t.Fatal("expected bgm stage")
	}
	if !strings.Contains(bgm.Chain(), "volume=0.25") {
		t.Errorf("bgm chain %q missing static volume", bgm.Chain())
	}
}

func TestCompileDelaysAndMixesSFX(t *testing.T) {
	p := twoClipPlan()
	p.SFXBase = 2
	p.SFX = []timeline.SFXCue{
		{Source: "whoosh.wav", At: 1.5, Volume: 0.8},
		{Source: "ding.wav", At: 12, Volume: 1},
	}

	var lab graph.Labeler
	stages, final, _ := Compile(p, &lab)

	var sfx []graph.Stage
	var mix *graph.Stage
	for i := range stages {
		switch stages[i].Kind {
		case graph.KindSFX:
			sfx = append(sfx, stages[i])
		case graph.KindAudioMix:
			mix = &stages[i]
		}
	}
	if len(sfx) != 2 || mix == nil {
		t.Fatalf("got %d sfx stages (want 2), mix present=%v", len(sfx), mix != nil)
	}

	if !strings.Contains(sfx[0].Chain(), "adelay=1500|1500") {
		t.Errorf("sfx chain %q missing adelay", sfx[0].Chain())
	}
	if !strings.Contains(sfx[0].Chain(), "volume=0.8") {
		t.Errorf("sfx chain %q missing volume", sfx[0].Chain())
	}
	// Unit volume leaves the cue untouched.
	if strings.Contains(sfx[1].Chain(), "volume") {
		t.Errorf("sfx chain %q has needless volume stage", sfx[1].Chain())
	}
	if got := sfx[1].Inputs[0]; got != "3:a" {
		t.Errorf("second sfx input %q, want 3:a", got)
	}

	if !strings.Contains(mix.Chain(), "amix=inputs=3:duration=first:normalize=0") {
		t.Errorf("mix chain %q wrong", mix.Chain())
	}
	if len(mix.Inputs) != 3 || mix.Output != final {
		t.Errorf("mix inputs=%v output=%q final=%q", mix.Inputs, mix.Output, final)
	}
}

func TestCompileSingleClipNoJoin(t *testing.T) {
	p := Plan{Clips: []timeline.ClipSpec{{Source: "a.mp4", RawDuration: 5}}}

	var lab graph.Labeler
	stages, final, _ := Compile(p, &lab)
	if len(stages) != 1 {
		t.Fatalf("got %d stages, want 1", len(stages))
	}
	if stages[0].Output != final {
		t.Errorf("final label %q, want %q", final, stages[0].Output)
	}
}
