// Package spectral implements the house FFT filter used on legacy
// millimeter-wave scans: a smooth roll-off window applied in the transform
// domain between a low and a high index cutoff.
package spectral

// Roll-off polynomial coefficients of the house window.
const (
	houseC1 = 0.074
	houseC2 = 0.302
	houseC3 = 0.233
	houseC4 = 0.390
)

// saturation is the normalised index past which the window is fully open.
const saturation = 1.5

// BuildWindow returns the house window of length size. Entries below low are 0,
// entries at or above high are 1, and entries in [low, high) follow the
// quartic roll-off. Indices of the roll-off region beyond size are skipped.
func BuildWindow(size, low, high int) ([]float64, error) {
	if size < 0 || low < 0 {
		return nil, &InvalidRangeError{Low: low, High: high, Size: size}
	}

	denom := float64(high-low+1) / 2
	if denom < 0 {
		return nil, &InvalidRangeError{Low: low, High: high, Size: size}
	}

	window := make([]float64, size)
	for i := low; i < high && i < size; i++ {
		rf := float64(i+1) / denom
		if rf > saturation {
			window[i] = 1
			continue
		}
		// The polynomial dips below zero just past rf=1; saturate there instead of inverting.
		if poly := houseRolloff(rf); poly < 0 {
			window[i] = 1
		} else {
			window[i] = 1 - poly
		}
	}
	for i := max(high, 0); i < size; i++ {
		window[i] = 1
	}

	return window, nil
}

func houseRolloff(rf float64) float64 {
	r1 := 1 - rf*rf
	r2 := r1 * r1
	r3 := r2 * r1
	return houseC1 + houseC2*r1 + houseC3*r2 + houseC4*r3
}
