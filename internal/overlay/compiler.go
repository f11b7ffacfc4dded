package overlay

import (
	"strings"

	"github.com/mahimpat/creatorcrafter/internal/graph"
	"github.com/mahimpat/creatorcrafter/internal/timeline"
)

// CompileChain compiles text cues into a chain of drawing stages. Stage i
// consumes stage i-1's video output and produces a fresh label, so
// overlapping cues compose instead of clobbering each other. Each stage is
// gated by its own time window; outside the window it is a passthrough.
//
// The returned label is the video output of the last stage, or the input
// label unchanged when no cue produced a stage.
func CompileChain(cues []timeline.TextCue, input string, kind graph.Kind, lab *graph.Labeler) ([]graph.Stage, string) {
	var stages []graph.Stage
	current := input

	for _, cue := range cues {
		text := strings.TrimSpace(cue.Text)
		if text == "" || cue.End <= cue.Start {
			continue
		}

		out := lab.Next(kind)
		stages = append(stages, graph.Stage{
			Kind:    kind,
			Inputs:  []string{current},
			Filters: []graph.Filter{buildDrawText(cue)},
			Output:  out,
		})
		current = out
	}

	return stages, current
}

func buildDrawText(cue timeline.TextCue) graph.Filter {
	style := resolveStyle(cue.Style)

	args := []graph.Arg{
		graph.F("text", graph.Quote(EscapeText(strings.TrimSpace(cue.Text)))),
		graph.Fi("fontsize", style.FontSize),
		graph.F("fontcolor", style.Color),
	}

	if style.FontFile != "" {
		args = append(args, graph.F("fontfile", graph.Quote(escapeExpr(style.FontFile))))
	} else if style.FontFamily != "" {
		args = append(args, graph.F("font", graph.Quote(style.FontFamily)))
	}

	if style.Boxed {
		args = append(args,
			graph.Fi("box", 1),
			graph.F("boxcolor", style.Background),
			graph.Fi("boxborderw", 8),
		)
	}

	x, y := anchorExprs(style.Anchor)
	args = append(args, graph.F("x", x), graph.F("y", y))

	enable := "between(t," + graph.FormatFloat(cue.Start) + "," + graph.FormatFloat(cue.End) + ")"
	args = append(args, graph.F("enable", graph.Quote(escapeExpr(enable))))

	if style.Fade {
		alpha := fadeAlphaExpr(cue.Start, cue.End)
		args = append(args, graph.F("alpha", graph.Quote(escapeExpr(alpha))))
	}

	return graph.Filter{Name: "drawtext", Args: args}
}

func anchorExprs(anchor string) (string, string) {
	switch strings.ToLower(strings.TrimSpace(anchor)) {
	case "top":
		return "(w-text_w)/2", "40"
	case "top-left":
		return "40", "40"
	case "top-right":
		return "w-text_w-40", "40"
	case "center":
		return "(w-text_w)/2", "(h-text_h)/2"
	case "bottom-left":
		return "40", "h-text_h-40"
	case "bottom-right":
		return "w-text_w-40", "h-text_h-40"
	default: // bottom
		return "(w-text_w)/2", "h-text_h-40"
	}
}

// fadeAlphaExpr builds a time-varying opacity that ramps in over the first
// fadeWindow seconds after start and out over the last fadeWindow seconds
// before end. Short cues shrink the ramps to half the window.
const fadeWindow = 0.5

func fadeAlphaExpr(start, end float64) string {
	ramp := fadeWindow
	if window := end - start; window < 2*ramp {
		ramp = window / 2
	}

	s := graph.FormatFloat(start)
	e := graph.FormatFloat(end)
	si := graph.FormatFloat(start + ramp)
	eo := graph.FormatFloat(end - ramp)
	r := graph.FormatFloat(ramp)

	var b strings.Builder
	b.WriteString("if(lt(t,")
	b.WriteString(s)
	b.WriteString("),0,if(lt(t,")
	b.WriteString(si)
	b.WriteString("),(t-")
	b.WriteString(s)
	b.WriteString(")/")
	b.WriteString(r)
	b.WriteString(",if(lt(t,")
	b.WriteString(eo)
	b.WriteString("),1,if(lt(t,")
	b.WriteString(e)
	b.WriteString("),(")
	b.WriteString(e)
	b.WriteString("-t)/")
	b.WriteString(r)
	b.WriteString(",0))))")
	return b.String()
}

type resolvedStyle struct {
	FontSize   int
	FontFamily string
	FontFile   string
	Color      string
	Background string
	Boxed      bool
	Anchor     string
	Fade       bool
}

func resolveStyle(style timeline.TextStyle) resolvedStyle {
	const (
		baseFontSize   = 42
		baseColor      = "white"
		baseBackground = "black@0.5"
	)

	resolved := resolvedStyle{
		FontSize:   int(style.FontSize),
		FontFamily: strings.TrimSpace(style.FontFamily),
		FontFile:   strings.TrimSpace(style.FontFile),
		Color:      strings.TrimSpace(style.Color),
		Anchor:     style.Anchor,
		Fade:       strings.EqualFold(strings.TrimSpace(style.Animation), "fade"),
	}

	if resolved.FontSize <= 0 {
		resolved.FontSize = baseFontSize
	}
	if resolved.Color == "" {
		resolved.Color = baseColor
	}

	background := strings.ToLower(strings.TrimSpace(style.Background))
	switch background {
	case "transparent", "none":
		resolved.Boxed = false
	case "":
		resolved.Boxed = true
		resolved.Background = baseBackground
	default:
		resolved.Boxed = true
		resolved.Background = background
	}

	return resolved
}
