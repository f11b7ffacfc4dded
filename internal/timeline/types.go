package timeline

// ClipSpec describes one trimmed segment of a source video placed on the
// output timeline.
type ClipSpec struct {
	Source      string
	RawDuration float64
	StartTrim   float64
	EndTrim     float64
}

// EffectiveDuration returns the playable length of the clip after trims.
func (c ClipSpec) EffectiveDuration() float64 {
	return c.RawDuration - c.StartTrim - c.EndTrim
}

// TransitionSpec describes the blend between clip i and clip i+1.
// A Duration of zero is a hard cut.
type TransitionSpec struct {
	Type     string
	Duration float64
	Params   map[string]string
}

// Param returns a named transition parameter or "" when absent.
func (t TransitionSpec) Param(key string) string {
	if t.Params == nil {
		return ""
	}
	return t.Params[key]
}

// AudioDuckPoint is one control point of the BGM volume curve.
type AudioDuckPoint struct {
	At     float64
	Volume float64
	Speech bool
}

// SFXCue places a sound effect on the output timeline.
type SFXCue struct {
	Source   string
	At       float64
	Duration float64
	Volume   float64
}

// TextCue is a subtitle or text overlay with a closed display window.
type TextCue struct {
	Text  string
	Start float64
	End   float64
	Style TextStyle
}

// TextStyle carries the resolved drawing attributes for a text cue.
type TextStyle struct {
	FontSize   FontSize
	FontFamily string
	FontFile   string
	Color      string
	Background string
	Anchor     string
	Animation  string
}

// BGMSpec describes the background music track and its ducking curve.
type BGMSpec struct {
	Source     string
	Volume     float64
	DuckPoints []AudioDuckPoint
}

// ColorGradeSpec holds color adjustment parameters. Identity values mean the
// grade stage is omitted from the graph entirely.
type ColorGradeSpec struct {
	Brightness float64
	Contrast   float64
	Saturation float64
	Gamma      float64
}

// IsIdentity reports whether the grade would be a no-op.
func (g ColorGradeSpec) IsIdentity() bool {
	return g.Brightness == 0 &&
		(g.Contrast == 0 || g.Contrast == 1) &&
		(g.Saturation == 0 || g.Saturation == 1) &&
		(g.Gamma == 0 || g.Gamma == 1)
}

// Spec is the fully resolved edit handed to the graph builder. It is passed
// by value and never mutated; the builder holds no state between calls.
type Spec struct {
	Clips       []ClipSpec
	Transitions []TransitionSpec
	BGM         *BGMSpec
	SFX         []SFXCue
	Subtitles   []TextCue
	Overlays    []TextCue
	Grade       ColorGradeSpec
	OutputPath  string
}

// HasAudioExtras reports whether BGM or SFX mixing is requested.
func (s Spec) HasAudioExtras() bool {
	return s.BGM != nil || len(s.SFX) > 0
}

// HasTextExtras reports whether any subtitle or overlay cues are present.
func (s Spec) HasTextExtras() bool {
	return len(s.Subtitles) > 0 || len(s.Overlays) > 0
}
