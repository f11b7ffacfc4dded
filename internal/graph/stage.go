package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies what a stage does. It also drives label assignment, so the
// stage sequence alone fully determines every label in the graph.
type Kind string

const (
	KindInputTrim  Kind = "seek" // input-side trim, executed via seek options
	KindVideoTrim  Kind = "v"
	KindAudioTrim  Kind = "a"
	KindVideoJoin  Kind = "vx"
	KindAudioJoin  Kind = "ax"
	KindColorGrade Kind = "eq"
	KindSubtitle   Kind = "sub"
	KindOverlay    Kind = "ovl"
	KindBGM        Kind = "bgm"
	KindSFX        Kind = "sfx"
	KindAudioMix   Kind = "mix"
)

// Arg is one parameter of a filter call. Positional arguments leave Key
// empty.
type Arg struct {
	Key   string
	Value string
}

// Filter is a single filter call inside a stage chain.
type Filter struct {
	Name string
	Args []Arg
}

// String renders the filter in the engine's name=k=v:k=v form.
func (f Filter) String() string {
	if len(f.Args) == 0 {
		return f.Name
	}
	parts := make([]string, 0, len(f.Args))
	for _, a := range f.Args {
		if a.Key == "" {
			parts = append(parts, a.Value)
			continue
		}
		parts = append(parts, a.Key+"="+a.Value)
	}
	return f.Name + "=" + strings.Join(parts, ":")
}

// Stage is one node of the filter graph: a chain of filter calls applied to
// one or more labeled inputs, producing a single labeled output.
type Stage struct {
	Kind    Kind
	Inputs  []string
	Filters []Filter
	Output  string
}

// Chain renders the stage's filter chain without labels.
func (s Stage) Chain() string {
	parts := make([]string, len(s.Filters))
	for i, f := range s.Filters {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}

// Labeler assigns deterministic stage labels. Labels are a pure function of
// stage kind and per-kind index, so two builds of the same spec produce
// byte-identical graphs.
type Labeler struct {
	counts map[Kind]int
}

// NewLabeler returns a fresh labeler with all counters at zero.
func NewLabeler() *Labeler {
	return &Labeler{counts: make(map[Kind]int)}
}

// Next returns the next label for the given kind. The zero Labeler is ready
// to use.
func (l *Labeler) Next(kind Kind) string {
	if l.counts == nil {
		l.counts = make(map[Kind]int)
	}
	n := l.counts[kind]
	l.counts[kind] = n + 1
	return string(kind) + strconv.Itoa(n)
}

// F is shorthand for building a filter argument.
func F(key, value string) Arg {
	return Arg{Key: key, Value: value}
}

// Ff formats a float argument with the shortest round-trip representation,
// matching the engine's expression grammar.
func Ff(key string, value float64) Arg {
	return Arg{Key: key, Value: FormatFloat(value)}
}

// Fi formats an integer argument.
func Fi(key string, value int) Arg {
	return Arg{Key: key, Value: strconv.Itoa(value)}
}

// FormatFloat renders a float without trailing zeros.
func FormatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Quote wraps an expression value in single quotes for embedding in a
// filter argument.
func Quote(value string) string {
	return "'" + value + "'"
}

func (k Kind) String() string { return string(k) }

// Describe returns a short human-readable summary of the stage for tables
// and logs.
func (s Stage) Describe() string {
	names := make([]string, len(s.Filters))
	for i, f := range s.Filters {
		names[i] = f.Name
	}
	return fmt.Sprintf("%s(%s)", s.Kind, strings.Join(names, ","))
}
