package audiomix

import (
	"strings"

	"github.com/mahimpat/creatorcrafter/internal/graph"
	"github.com/mahimpat/creatorcrafter/internal/timeline"
)

// DuckingLimits bound the synthesized volume expression. Budget caps the
// expression length the engine will accept; MaxSamples caps the step-curve
// fallback density.
type DuckingLimits struct {
	Budget     int
	MaxSamples int
}

// DefaultDuckingLimits mirror the engine's practical expression limits.
var DefaultDuckingLimits = DuckingLimits{Budget: 1024, MaxSamples: 50}

// Curve is a piecewise-linear volume function synthesized from duck points.
// The last point's value holds for all later times.
type Curve struct {
	segments []curveSegment
	last     float64
	lastAt   float64
}

type curveSegment struct {
	t0, t1 float64
	v0     float64
	slope  float64
}

// SynthesizeCurve builds a continuous volume curve from ordered duck
// points. Fewer than two points yields no curve; the caller falls back to
// the static base volume.
func SynthesizeCurve(points []timeline.AudioDuckPoint) (Curve, bool) {
	if len(points) < 2 {
		return Curve{}, false
	}

	curve := Curve{
		segments: make([]curveSegment, 0, len(points)-1),
		last:     points[len(points)-1].Volume,
		lastAt:   points[len(points)-1].At,
	}
	for i := 0; i < len(points)-1; i++ {
		p0, p1 := points[i], points[i+1]
		span := p1.At - p0.At
		if span <= 0 {
			continue
		}
		curve.segments = append(curve.segments, curveSegment{
			t0:    p0.At,
			t1:    p1.At,
			v0:    p0.Volume,
			slope: (p1.Volume - p0.Volume) / span,
		})
	}
	if len(curve.segments) == 0 {
		return Curve{}, false
	}
	return curve, true
}

// ValueAt evaluates the curve at a point in time.
func (c Curve) ValueAt(t float64) float64 {
	for _, seg := range c.segments {
		if t < seg.t0 {
			return seg.v0
		}
		if t < seg.t1 {
			return seg.v0 + seg.slope*(t-seg.t0)
		}
	}
	return c.last
}

// Expr renders the curve as a nested conditional expression over t. Each
// segment is a linear interpolation valid on [t0,t1); the final value holds
// beyond the last point.
func (c Curve) Expr() string {
	var b strings.Builder
	for _, seg := range c.segments {
		b.WriteString("if(lt(t,")
		b.WriteString(graph.FormatFloat(seg.t1))
		b.WriteString("),(")
		b.WriteString(graph.FormatFloat(seg.v0))
		b.WriteString("+(")
		b.WriteString(graph.FormatFloat(seg.slope))
		b.WriteString(")*(t-")
		b.WriteString(graph.FormatFloat(seg.t0))
		b.WriteString(")),")
	}
	b.WriteString(graph.FormatFloat(c.last))
	b.WriteString(strings.Repeat(")", len(c.segments)))
	return b.String()
}

// StepCurve is the degraded form used when the linear expression exceeds
// the size budget: a nearest-below step function over resampled points.
type StepCurve struct {
	times  []float64
	values []float64
}

// Resample reduces the curve to at most maxSamples uniform steps across its
// time range. Each step takes the curve's value at its own start time.
func (c Curve) Resample(maxSamples int) StepCurve {
	if maxSamples < 2 {
		maxSamples = 2
	}
	start := c.segments[0].t0
	end := c.lastAt
	span := end - start

	n := maxSamples
	step := StepCurve{
		times:  make([]float64, 0, n),
		values: make([]float64, 0, n),
	}
	for k := 0; k < n; k++ {
		t := start + span*float64(k)/float64(n-1)
		step.times = append(step.times, t)
		step.values = append(step.values, c.ValueAt(t))
	}
	return step
}

// Len returns the sample count.
func (s StepCurve) Len() int { return len(s.times) }

// ValueAt evaluates the step function with nearest-below semantics.
func (s StepCurve) ValueAt(t float64) float64 {
	v := s.values[0]
	for i, at := range s.times {
		if t < at {
			break
		}
		v = s.values[i]
	}
	return v
}

// Expr renders the step function: v(t) = v_k for t < t_{k+1}.
func (s StepCurve) Expr() string {
	var b strings.Builder
	for i := 0; i < len(s.times)-1; i++ {
		b.WriteString("if(lt(t,")
		b.WriteString(graph.FormatFloat(s.times[i+1]))
		b.WriteString("),")
		b.WriteString(graph.FormatFloat(s.values[i]))
		b.WriteString(",")
	}
	b.WriteString(graph.FormatFloat(s.values[len(s.values)-1]))
	b.WriteString(strings.Repeat(")", len(s.times)-1))
	return b.String()
}

// VolumeExpr synthesizes the ducking volume expression, degrading to the
// step form when the linear expression would blow the budget. The second
// return is false when no curve can be synthesized at all.
func VolumeExpr(points []timeline.AudioDuckPoint, limits DuckingLimits) (string, bool) {
	curve, ok := SynthesizeCurve(points)
	if !ok {
		return "", false
	}

	expr := curve.Expr()
	if limits.Budget <= 0 || len(expr) <= limits.Budget {
		return expr, true
	}

	samples := limits.MaxSamples
	if samples <= 0 || samples > DefaultDuckingLimits.MaxSamples {
		samples = DefaultDuckingLimits.MaxSamples
	}
	step := curve.Resample(samples)
	stepExpr := step.Expr()

	// Halve the sample count until the step expression fits; two samples is
	// the floor.
	for len(stepExpr) > limits.Budget && samples > 2 {
		samples /= 2
		step = curve.Resample(samples)
		stepExpr = step.Expr()
	}
	return stepExpr, true
}
