package transitions

import (
	"strconv"
	"strings"

	"github.com/mahimpat/creatorcrafter/internal/timeline"
)

// Blend is the concrete algorithm resolved for one transition: either a
// named catalog entry or a custom per-pixel expression over the progress
// variable P, pixel coordinates, and the two source samples.
type Blend struct {
	Name       string
	Expression string
}

// IsCustom reports whether the blend carries a per-pixel expression.
func (b Blend) IsCustom() bool {
	return b.Expression != ""
}

// Resolution is the outcome of resolving a TransitionSpec.
type Resolution struct {
	Blend   Blend
	Warning string
}

// Resolve maps a transition spec to a concrete blend algorithm. Unknown
// types degrade to the default dissolve; the caller surfaces the warning in
// the build result rather than failing the plan.
func Resolve(spec timeline.TransitionSpec) Resolution {
	kind := strings.ToLower(strings.TrimSpace(spec.Type))

	if kind == "custom" {
		expr := strings.TrimSpace(spec.Param("expr"))
		if expr == "" {
			return Resolution{
				Blend:   Blend{Name: DefaultBlend},
				Warning: "custom transition without expr parameter; using default dissolve",
			}
		}
		return Resolution{
			Blend: Blend{Expression: ApplyEasing(expr, spec.Param("easing"))},
		}
	}

	if name, ok := catalog[kind]; ok {
		return Resolution{Blend: Blend{Name: name}}
	}

	return Resolution{
		Blend:   Blend{Name: DefaultBlend},
		Warning: "unknown transition type " + strconv.Quote(spec.Type) + "; using default dissolve",
	}
}
