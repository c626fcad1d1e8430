package models

// Series is one plot-ready trace.
type Series struct {
	Name string    `json:"name" doc:"Trace name, e.g. 'Field Off' or 'OFF FFT'"`
	X    []float64 `json:"x" doc:"Frequency in MHz, or sample index for transform traces"`
	Y    []float64 `json:"y" doc:"Intensity"`
}
