package spectral

// Default cutoffs used when the caller has not selected a range.
const (
	DefaultLow  = 0
	DefaultHigh = 10000
)

// Filter runs signal through the house FFT filter. The transform is zeroed
// below low and from high onwards, tapered by BuildWindow, and transformed
// back; the real part is returned. signal is not modified.
func Filter(signal []float64, low, high int) ([]float64, error) {
	if high < low {
		return nil, &InvalidRangeError{Low: low, High: high, Size: len(signal)}
	}

	window, err := BuildWindow(len(signal), low, high)
	if err != nil {
		return nil, err
	}

	transformed := Forward(Complex(signal))

	// Hard cutoff first, then the taper.
	for i := range transformed {
		if i < low || i >= high {
			transformed[i] = 0
		}
	}
	for i := range transformed {
		transformed[i] *= complex(window[i], 0)
	}

	return RealPart(Inverse(transformed)), nil
}
