package ramp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestInstantSnapsAtStart(t *testing.T) {
	assert.Equal(t, 5.0, Value(Instant, 1, 5, 1.0))
	assert.Equal(t, 1.0, Value(Instant, 1, 5, 0.0))
}

func TestLinearInterpolatesDirectly(t *testing.T) {
	assert.Equal(t, 5.0, Value(Linear, 0, 10, 0.5))
	assert.Equal(t, 0.0, Value(Linear, 0, 10, 0))
	assert.Equal(t, 10.0, Value(Linear, 0, 10, 1))
}

func TestSCurveMidpointMatchesLinear(t *testing.T) {
	// 3t^2-2t^3 at t=0.5 is exactly 0.5, so the midpoint coincides with
	// Linear even though the curve differs elsewhere.
	assert.InDelta(t, 5.0, Value(SCurve, 0, 10, 0.5), 1e-12)
}

func TestSCurveEndpointsMatchLinear(t *testing.T) {
	assert.Equal(t, Value(Linear, 2, 9, 0), Value(SCurve, 2, 9, 0))
	assert.Equal(t, Value(Linear, 2, 9, 1), Value(SCurve, 2, 9, 1))
}

func TestLogScaleLinearDowngradesOnNonPositiveEndpoint(t *testing.T) {
	got := Value(LogScaleLinear, 0, 10, 0.5)
	want := Value(Linear, 0, 10, 0.5)
	assert.Equal(t, want, got)

	got = Value(LogScaleLinear, -1, 10, 0.5)
	want = Value(Linear, -1, 10, 0.5)
	assert.Equal(t, want, got)
}

func TestLogScaleSCurveDowngradesOnNonPositiveEndpoint(t *testing.T) {
	got := Value(LogScaleSCurve, 0, 10, 0.3)
	want := Value(SCurve, 0, 10, 0.3)
	assert.Equal(t, want, got)
}

func TestLogScaleLinearGeometricMidpoint(t *testing.T) {
	// log2 interpolation at t=0.5 between 1 and 4 is the geometric mean: 2.
	assert.InDelta(t, 2.0, Value(LogScaleLinear, 1, 4, 0.5), 1e-9)
}

func TestFractionClampsAtBoundaries(t *testing.T) {
	assert.Equal(t, 0.0, Fraction(5, 10, 20))
	assert.Equal(t, 1.0, Fraction(30, 10, 20))
	assert.Equal(t, 0.5, Fraction(20, 10, 20))
}

func TestFractionZeroDurationIsInstant(t *testing.T) {
	assert.Equal(t, 1.0, Fraction(10, 10, 0))
	assert.Equal(t, 0.0, Fraction(9, 10, 0))
}

func TestValueStaysBetweenEndpointsForAllShapes(t *testing.T) {
	shapes := []Shape{Linear, SCurve, LogScaleLinear, LogScaleSCurve}
	rapid.Check(t, func(rt *rapid.T) {
		from := rapid.Float64Range(0.01, 100).Draw(rt, "from")
		to := rapid.Float64Range(0.01, 100).Draw(rt, "to")
		tt := rapid.Float64Range(0, 1).Draw(rt, "t")
		shape := shapes[rapid.IntRange(0, len(shapes)-1).Draw(rt, "shape")]

		lo, hi := from, to
		if lo > hi {
			lo, hi = hi, lo
		}
		v := Value(shape, from, to, tt)
		assert.GreaterOrEqual(t, v, lo-1e-9)
		assert.LessOrEqual(t, v, hi+1e-9)
	})
}
