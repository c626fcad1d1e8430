package spectral

import "fmt"

// InvalidRangeError reports a filter range that cannot produce a window,
// e.g. a high cutoff below the low cutoff.
type InvalidRangeError struct {
	Low  int
	High int
	Size int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid filter range [%d, %d) for %d samples", e.Low, e.High, e.Size)
}
