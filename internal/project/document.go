package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mahimpat/creatorcrafter/internal/timeline"
)

// Document is the on-disk edit: the YAML schema authors write. Field names
// are stable; Decode maps it onto the internal timeline model.
type Document struct {
	Output      string           `yaml:"output"`
	Clips       []ClipEntry      `yaml:"clips"`
	Transitions []TransitionRow  `yaml:"transitions"`
	BGM         *BGMEntry        `yaml:"bgm"`
	SFX         []SFXEntry       `yaml:"sfx"`
	Subtitles   []TextEntry      `yaml:"subtitles"`
	Overlays    []TextEntry      `yaml:"overlays"`
	Grade       *GradeEntry      `yaml:"grade"`
}

type ClipEntry struct {
	Source    string  `yaml:"source"`
	Duration  float64 `yaml:"duration"`
	StartTrim float64 `yaml:"start_trim"`
	EndTrim   float64 `yaml:"end_trim"`
}

type TransitionRow struct {
	Type     string            `yaml:"type"`
	Duration float64           `yaml:"duration"`
	Params   map[string]string `yaml:"params"`
}

type BGMEntry struct {
	Source string      `yaml:"source"`
	Volume float64     `yaml:"volume"`
	Duck   []DuckEntry `yaml:"duck"`
}

type DuckEntry struct {
	At     float64 `yaml:"at"`
	Volume float64 `yaml:"volume"`
	Speech bool    `yaml:"speech"`
}

type SFXEntry struct {
	Source   string  `yaml:"source"`
	At       float64 `yaml:"at"`
	Duration float64 `yaml:"duration"`
	Volume   float64 `yaml:"volume"`
}

type TextEntry struct {
	Text  string     `yaml:"text"`
	Start float64    `yaml:"start"`
	End   float64    `yaml:"end"`
	Style StyleEntry `yaml:"style"`
}

type StyleEntry struct {
	Size       timeline.FontSize `yaml:"size"`
	Font       string            `yaml:"font"`
	FontFile   string            `yaml:"font_file"`
	Color      string            `yaml:"color"`
	Background string            `yaml:"background"`
	Anchor     string            `yaml:"anchor"`
	Animation  string            `yaml:"animation"`
}

type GradeEntry struct {
	Brightness float64 `yaml:"brightness"`
	Contrast   float64 `yaml:"contrast"`
	Saturation float64 `yaml:"saturation"`
	Gamma      float64 `yaml:"gamma"`
}

// Load reads and decodes an edit document. Relative asset paths resolve
// against the document's directory.
func Load(path string) (timeline.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return timeline.Spec{}, fmt.Errorf("read edit document: %w", err)
	}
	if len(data) == 0 {
		return timeline.Spec{}, errors.New("edit document is empty")
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return timeline.Spec{}, fmt.Errorf("parse edit document: %w", err)
	}
	return doc.Decode(filepath.Dir(path))
}

// Decode converts the document into the timeline model, resolving relative
// asset paths against root. Structural problems come back as
// InvalidTimelineError so callers treat authoring mistakes uniformly.
func (d Document) Decode(root string) (timeline.Spec, error) {
	if len(d.Clips) == 0 {
		return timeline.Spec{}, timeline.NewInvalidTimeline("edit document has no clips")
	}
	if strings.TrimSpace(d.Output) == "" {
		return timeline.Spec{}, timeline.NewInvalidTimeline("edit document has no output path")
	}

	spec := timeline.Spec{
		OutputPath: resolvePath(root, d.Output),
	}

	for i, entry := range d.Clips {
		if strings.TrimSpace(entry.Source) == "" {
			return timeline.Spec{}, timeline.NewInvalidTimeline("clip %d has no source", i)
		}
		if entry.Duration <= 0 {
			return timeline.Spec{}, timeline.NewInvalidTimeline("clip %d has no duration", i)
		}
		spec.Clips = append(spec.Clips, timeline.ClipSpec{
			Source:      resolvePath(root, entry.Source),
			RawDuration: entry.Duration,
			StartTrim:   entry.StartTrim,
			EndTrim:     entry.EndTrim,
		})
	}

	for _, row := range d.Transitions {
		spec.Transitions = append(spec.Transitions, timeline.TransitionSpec{
			Type:     row.Type,
			Duration: row.Duration,
			Params:   row.Params,
		})
	}

	if d.BGM != nil {
		if strings.TrimSpace(d.BGM.Source) == "" {
			return timeline.Spec{}, timeline.NewInvalidTimeline("bgm entry has no source")
		}
		bgm := &timeline.BGMSpec{
			Source: resolvePath(root, d.BGM.Source),
			Volume: d.BGM.Volume,
		}
		for _, p := range d.BGM.Duck {
			bgm.DuckPoints = append(bgm.DuckPoints, timeline.AudioDuckPoint{
				At:     p.At,
				Volume: p.Volume,
				Speech: p.Speech,
			})
		}
		spec.BGM = bgm
	}

	for i, entry := range d.SFX {
		if strings.TrimSpace(entry.Source) == "" {
			return timeline.Spec{}, timeline.NewInvalidTimeline("sfx cue %d has no source", i)
		}
		spec.SFX = append(spec.SFX, timeline.SFXCue{
			Source:   resolvePath(root, entry.Source),
			At:       entry.At,
			Duration: entry.Duration,
			Volume:   entry.Volume,
		})
	}

	var err error
	if spec.Subtitles, err = decodeCues(d.Subtitles, root, "subtitle"); err != nil {
		return timeline.Spec{}, err
	}
	if spec.Overlays, err = decodeCues(d.Overlays, root, "overlay"); err != nil {
		return timeline.Spec{}, err
	}

	if d.Grade != nil {
		spec.Grade = timeline.ColorGradeSpec{
			Brightness: d.Grade.Brightness,
			Contrast:   d.Grade.Contrast,
			Saturation: d.Grade.Saturation,
			Gamma:      d.Grade.Gamma,
		}
	}

	return spec, nil
}

func decodeCues(entries []TextEntry, root, kind string) ([]timeline.TextCue, error) {
	var cues []timeline.TextCue
	for i, entry := range entries {
		if entry.End <= entry.Start {
			return nil, timeline.NewInvalidTimeline("%s cue %d must end after it starts", kind, i)
		}
		style := timeline.TextStyle{
			FontSize:   entry.Style.Size,
			FontFamily: entry.Style.Font,
			FontFile:   entry.Style.FontFile,
			Color:      entry.Style.Color,
			Background: entry.Style.Background,
			Anchor:     entry.Style.Anchor,
			Animation:  entry.Style.Animation,
		}
		if style.FontFile != "" {
			style.FontFile = resolvePath(root, style.FontFile)
		}
		cues = append(cues, timeline.TextCue{
			Text:  entry.Text,
			Start: entry.Start,
			End:   entry.End,
			Style: style,
		})
	}
	return cues, nil
}

func resolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) || root == "" {
		return path
	}
	return filepath.Join(root, path)
}
