package spectral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWindow(t *testing.T) {
	tests := []struct {
		name string
		size int
		low  int
		high int
		want []float64
	}{
		{
			name: "narrow range saturates immediately",
			size: 10,
			low:  2,
			high: 6,
			// rf starts at 1.2 where the polynomial is already negative
			want: []float64{0, 0, 1, 1, 1, 1, 1, 1, 1, 1},
		},
		{
			name: "empty roll-off region",
			size: 5,
			low:  3,
			high: 3,
			want: []float64{0, 0, 0, 1, 1},
		},
		{
			name: "high past the end",
			size: 4,
			low:  2,
			high: 20,
			// denom 9.5, rf = 3/9.5 and 4/9.5
			want: []float64{0, 0, 1 - houseRolloff(3/9.5), 1 - houseRolloff(4/9.5)},
		},
		{
			name: "zero length",
			size: 0,
			low:  0,
			high: 0,
			want: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildWindow(tt.size, tt.low, tt.high)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			assert.InDeltaSlice(t, tt.want, got, 1e-12)
		})
	}
}

func TestBuildWindow_RollOffValue(t *testing.T) {
	// denom = 10, i = 4 gives rf = 0.5
	w, err := BuildWindow(30, 0, 19)
	require.NoError(t, err)

	r1 := 0.75
	poly := 0.074 + 0.302*r1 + 0.233*r1*r1 + 0.390*r1*r1*r1
	assert.InDelta(t, 1-poly, w[4], 1e-12)
	assert.InDelta(t, 0.40390625, w[4], 1e-12)
}

func TestBuildWindow_Shape(t *testing.T) {
	const size, low, high = 128, 4, 90
	w, err := BuildWindow(size, low, high)
	require.NoError(t, err)
	require.Len(t, w, size)

	for i := 0; i < low; i++ {
		assert.Equal(t, 0.0, w[i], "index %d below low", i)
	}
	for i := high; i < size; i++ {
		assert.Equal(t, 1.0, w[i], "index %d at or above high", i)
	}
	for i := low; i < high; i++ {
		assert.GreaterOrEqual(t, w[i], 0.0)
		assert.LessOrEqual(t, w[i], 1.0)
		if i > low {
			assert.GreaterOrEqual(t, w[i], w[i-1], "window decreases at %d", i)
		}
	}

	// The ramp starts strictly inside (0, 1).
	assert.Greater(t, w[low], 0.0)
	assert.Less(t, w[low], 1.0)
}

func TestBuildWindow_InvalidRange(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		low, high int
	}{
		{"negative denominator", 10, 6, 4},
		{"negative low", 10, -1, 4},
		{"negative size", -1, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildWindow(tt.size, tt.low, tt.high)
			var rangeErr *InvalidRangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, tt.low, rangeErr.Low)
			assert.Equal(t, tt.high, rangeErr.High)
		})
	}
}

func TestBuildWindow_ZeroDenominator(t *testing.T) {
	// high == low-1 gives denom 0 but an empty roll-off loop.
	w, err := BuildWindow(6, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1, 1, 1, 1}, w)
}
