package audiomix

import (
	"fmt"
	"math"

	"github.com/mahimpat/creatorcrafter/internal/graph"
	"github.com/mahimpat/creatorcrafter/internal/timeline"
)

// Plan describes the audio side of a composition: which input the music
// bed and each effect cue arrive on, and how loud the mix runs.
type Plan struct {
	Clips       []timeline.ClipSpec
	Transitions []timeline.TransitionSpec
	BGM         *timeline.BGMSpec
	SFX         []timeline.SFXCue

	// BGMInput and SFXBase are input indexes assigned by the caller. SFX
	// cues occupy SFXBase, SFXBase+1, ... in cue order.
	BGMInput int
	SFXBase  int

	TotalDuration float64
	Limits        DuckingLimits
}

// Compile sequences the audio stages: per-clip trims, joins that mirror
// the video timing, the music bed, then effect cues folded in with a
// no-normalize mix. Returns the stages, the final audio label, and any
// warnings raised while planning.
func Compile(p Plan, lab *graph.Labeler) ([]graph.Stage, string, []string) {
	var stages []graph.Stage
	var warnings []string

	clipLabels := make([]string, len(p.Clips))
	for i, clip := range p.Clips {
		out := lab.Next(graph.KindAudioTrim)
		stages = append(stages, graph.Stage{
			Kind:   graph.KindAudioTrim,
			Inputs: []string{fmt.Sprintf("%d:a", i)},
			Filters: []graph.Filter{
				{Name: "atrim", Args: []graph.Arg{
					graph.Ff("start", clip.StartTrim),
					graph.Ff("duration", clip.EffectiveDuration()),
				}},
				{Name: "asetpts", Args: []graph.Arg{graph.F("", "PTS-STARTPTS")}},
			},
			Output: out,
		})
		clipLabels[i] = out
	}

	current := clipLabels[0]
	for i := 1; i < len(clipLabels); i++ {
		var tr timeline.TransitionSpec
		if i-1 < len(p.Transitions) {
			tr = p.Transitions[i-1]
		}
		out := lab.Next(graph.KindAudioJoin)
		if tr.Duration > 0 {
			stages = append(stages, graph.Stage{
				Kind:   graph.KindAudioJoin,
				Inputs: []string{current, clipLabels[i]},
				Filters: []graph.Filter{
					{Name: "acrossfade", Args: []graph.Arg{
						graph.Ff("d", tr.Duration),
						graph.F("c1", "tri"),
						graph.F("c2", "tri"),
					}},
				},
				Output: out,
			})
		} else {
			stages = append(stages, graph.Stage{
				Kind:   graph.KindAudioJoin,
				Inputs: []string{current, clipLabels[i]},
				Filters: []graph.Filter{
					{Name: "concat", Args: []graph.Arg{
						graph.Fi("n", 2),
						graph.Fi("v", 0),
						graph.Fi("a", 1),
					}},
				},
				Output: out,
			})
		}
		current = out
	}

	if p.BGM != nil {
		bgmOut := lab.Next(graph.KindBGM)
		stages = append(stages, graph.Stage{
			Kind:    graph.KindBGM,
			Inputs:  []string{fmt.Sprintf("%d:a", p.BGMInput)},
			Filters: bgmFilters(*p.BGM, p.TotalDuration, p.Limits),
			Output:  bgmOut,
		})

		out := lab.Next(graph.KindAudioMix)
		stages = append(stages, graph.Stage{
			Kind:   graph.KindAudioMix,
			Inputs: []string{current, bgmOut},
			Filters: []graph.Filter{
				{Name: "amix", Args: []graph.Arg{
					graph.Fi("inputs", 2),
					graph.F("duration", "first"),
					graph.Fi("normalize", 0),
				}},
			},
			Output: out,
		})
		current = out
	}

	if len(p.SFX) > 0 {
		sfxLabels := make([]string, 0, len(p.SFX))
		for j, cue := range p.SFX {
			ms := int(math.Round(cue.At * 1000))
			out := lab.Next(graph.KindSFX)
			filters := []graph.Filter{
				{Name: "adelay", Args: []graph.Arg{
					graph.F("", fmt.Sprintf("%d|%d", ms, ms)),
				}},
			}
			if cue.Volume > 0 && cue.Volume != 1 {
				filters = append(filters, graph.Filter{
					Name: "volume",
					Args: []graph.Arg{graph.F("", graph.FormatFloat(cue.Volume))},
				})
			}
			stages = append(stages, graph.Stage{
				Kind:    graph.KindSFX,
				Inputs:  []string{fmt.Sprintf("%d:a", p.SFXBase+j)},
				Filters: filters,
				Output:  out,
			})
			sfxLabels = append(sfxLabels, out)
		}

		out := lab.Next(graph.KindAudioMix)
		stages = append(stages, graph.Stage{
			Kind:   graph.KindAudioMix,
			Inputs: append([]string{current}, sfxLabels...),
			Filters: []graph.Filter{
				{Name: "amix", Args: []graph.Arg{
					graph.Fi("inputs", 1+len(sfxLabels)),
					graph.F("duration", "first"),
					graph.Fi("normalize", 0),
				}},
			},
			Output: out,
		})
		current = out
	}

	return stages, current, warnings
}

// bgmFilters trims the music bed to the composition length and applies
// either the static bed volume or the synthesized ducking curve scaled by
// it.
func bgmFilters(bgm timeline.BGMSpec, total float64, limits DuckingLimits) []graph.Filter {
	filters := []graph.Filter{
		{Name: "atrim", Args: []graph.Arg{
			graph.Ff("start", 0),
			graph.Ff("duration", total),
		}},
		{Name: "asetpts", Args: []graph.Arg{graph.F("", "PTS-STARTPTS")}},
	}

	base := bgm.Volume
	if base <= 0 {
		base = 1
	}

	if expr, ok := VolumeExpr(bgm.DuckPoints, limits); ok {
		scaled := expr
		if base != 1 {
			scaled = "(" + expr + ")*" + graph.FormatFloat(base)
		}
		filters = append(filters, graph.Filter{
			Name: "volume",
			Args: []graph.Arg{
				graph.F("volume", graph.Quote(scaled)),
				graph.F("eval", "frame"),
			},
		})
		return filters
	}

	if base != 1 {
		filters = append(filters, graph.Filter{
			Name: "volume",
			Args: []graph.Arg{graph.F("", graph.FormatFloat(base))},
		})
	}
	return filters
}
