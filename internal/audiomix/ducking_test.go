package audiomix

import (
	"math"
	"strings"
	"testing"

	"github.com/mahimpat/creatorcrafter/internal/timeline"
)

func TestCurveInterpolatesLinearly(t *testing.T) {
	curve, ok := SynthesizeCurve([]timeline.AudioDuckPoint{
		{At: 0, Volume: 1.0},
		{At: 10, Volume: 0.2},
	})
	if !ok {
		t.Fatal("expected a curve from two points")
	}

	cases := []struct {
		at   float64
		want float64
	}{
		{0, 1.0},
		{5, 0.6},
		{10, 0.2},
		{30, 0.2},
	}
	for _, tc := range cases {
		got := curve.ValueAt(tc.at)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("ValueAt(%v) = %v, want %v", tc.at, got, tc.want)
		}
	}
}

func TestCurveHoldsBeforeFirstPoint(t *testing.T) {
	curve, ok := SynthesizeCurve([]timeline.AudioDuckPoint{
		{At: 4, Volume: 0.8},
		{At: 8, Volume: 0.3},
	})
	if !ok {
		t.Fatal("expected a curve")
	}
	if got := curve.ValueAt(1); got != 0.8 {
		t.Errorf("ValueAt(1) = %v, want 0.8", got)
	}
}

func TestCurveExprShape(t *testing.T) {
	curve, _ := SynthesizeCurve([]timeline.AudioDuckPoint{
		{At: 0, Volume: 1.0},
		{At: 10, Volume: 0.2},
	})
	expr := curve.Expr()

	want := "if(lt(t,10),(1+(-0.08)*(t-0)),0.2)"
	if expr != want {
		t.Errorf("Expr() = %q, want %q", expr, want)
	}
}

func TestSynthesizeCurveNeedsTwoPoints(t *testing.T) {
	if _, ok := SynthesizeCurve(nil); ok {
		t.Error("expected no curve from zero points")
	}
	if _, ok := SynthesizeCurve([]timeline.AudioDuckPoint{{At: 1, Volume: 0.5}}); ok {
		t.Error("expected no curve from a single point")
	}
}

func TestVolumeExprDegradesToSteps(t *testing.T) {
	points := make([]timeline.AudioDuckPoint, 0, 200)
	for i := 0; i < 200; i++ {
		vol := 1.0
		if i%2 == 1 {
			vol = 0.25
		}
		points = append(points, timeline.AudioDuckPoint{At: float64(i), Volume: vol})
	}

	limits := DuckingLimits{Budget: 2000, MaxSamples: 50}
	expr, ok := VolumeExpr(points, limits)
	if !ok {
		t.Fatal("expected an expression")
	}
	if len(expr) > limits.Budget {
		t.Errorf("degraded expression length %d exceeds budget %d", len(expr), limits.Budget)
	}
	// The step form has at most MaxSamples-1 conditionals.
	if n := strings.Count(expr, "if(lt(t,"); n >= limits.MaxSamples {
		t.Errorf("step expression has %d branches, want fewer than %d", n, limits.MaxSamples)
	}
}

func TestStepCurveNearestBelow(t *testing.T) {
	curve, _ := SynthesizeCurve([]timeline.AudioDuckPoint{
		{At: 0, Volume: 1.0},
		{At: 10, Volume: 0.0},
	})
	step := curve.Resample(3) // samples at t=0, 5, 10

	cases := []struct {
		at   float64
		want float64
	}{
		{0, 1.0},
		{4.9, 1.0},
		{5, 0.5},
		{9.9, 0.5},
		{10, 0.0},
		{25, 0.0},
	}
	for _, tc := range cases {
		if got := step.ValueAt(tc.at); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("ValueAt(%v) = %v, want %v", tc.at, got, tc.want)
		}
	}
}
