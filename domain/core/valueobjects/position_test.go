package valueobjects_test

import (
	"math"
	"testing"

	"reqboard/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition_Creation(t *testing.T) {
	pos, err := valueobjects.NewPosition(10.5, -20.25)

	assert.NoError(t, err)
	assert.Equal(t, 10.5, pos.X())
	assert.Equal(t, -20.25, pos.Y())
}

func TestPosition_RejectsNonFiniteCoordinates(t *testing.T) {
	cases := []struct {
		name string
		x, y float64
	}{
		{"nan x", math.NaN(), 0},
		{"nan y", 0, math.NaN()},
		{"inf x", math.Inf(1), 0},
		{"negative inf y", 0, math.Inf(-1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := valueobjects.NewPosition(tc.x, tc.y)
			assert.Error(t, err)
		})
	}
}

func TestPosition_Translate(t *testing.T) {
	pos, err := valueobjects.NewPosition(100, 200)
	require.NoError(t, err)

	moved, err := pos.Translate(-30, 50)

	assert.NoError(t, err)
	assert.Equal(t, 70.0, moved.X())
	assert.Equal(t, 250.0, moved.Y())
}

func TestPosition_ScaleAboutKeepsAnchorFixed(t *testing.T) {
	anchor, err := valueobjects.NewPosition(400, 300)
	require.NoError(t, err)

	scaled := anchor.ScaleAbout(anchor, 2.5)

	assert.True(t, scaled.Equals(anchor))
}

func TestPosition_ScaleAboutMovesAlongRay(t *testing.T) {
	anchor, err := valueobjects.NewPosition(100, 100)
	require.NoError(t, err)
	pos, err := valueobjects.NewPosition(200, 150)
	require.NoError(t, err)

	scaled := pos.ScaleAbout(anchor, 2.0)

	assert.InDelta(t, 300.0, scaled.X(), 1e-9)
	assert.InDelta(t, 200.0, scaled.Y(), 1e-9)
}

func TestPosition_ScaleAboutRoundTrips(t *testing.T) {
	anchor, err := valueobjects.NewPosition(57.3, -12.8)
	require.NoError(t, err)
	pos, err := valueobjects.NewPosition(431.25, 96.5)
	require.NoError(t, err)

	back := pos.ScaleAbout(anchor, 1.6).ScaleAbout(anchor, 1.0/1.6)

	assert.True(t, back.Equals(pos))
}

func TestTargetRef_KeyRoundTrips(t *testing.T) {
	for _, kind := range []valueobjects.ElementKind{
		valueobjects.KindRequirement,
		valueobjects.KindGroup,
		valueobjects.KindText,
	} {
		target, err := valueobjects.NewTargetRef(kind, 7)
		require.NoError(t, err)

		parsed, err := valueobjects.ParseTargetKey(target.Key())

		assert.NoError(t, err)
		assert.True(t, parsed.Equals(target))
	}
}

func TestTargetRef_KeyFormat(t *testing.T) {
	target, err := valueobjects.NewTargetRef(valueobjects.KindRequirement, 12)
	require.NoError(t, err)

	assert.Equal(t, "req_12", target.Key())
}

func TestParseTargetKey_RejectsMalformedKeys(t *testing.T) {
	for _, key := range []string{"", "req_", "_7", "req_abc", "req_0", "widget_3"} {
		_, err := valueobjects.ParseTargetKey(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestSize_ClampMin(t *testing.T) {
	size, err := valueobjects.NewSize(40, 300)
	require.NoError(t, err)

	clamped := size.ClampMin(100, 80)

	assert.Equal(t, 100.0, clamped.Width())
	assert.Equal(t, 300.0, clamped.Height())
}

func TestSize_RejectsNonPositiveDimensions(t *testing.T) {
	_, err := valueobjects.NewSize(0, 10)
	assert.Error(t, err)

	_, err = valueobjects.NewSize(10, -5)
	assert.Error(t, err)
}
