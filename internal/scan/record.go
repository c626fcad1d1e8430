package scan

import (
	"gonum.org/v1/gonum/floats"

	"github.com/RMahshie/spectraviewer/internal/spectral"
)

// Settings holds the scalar metadata of one scan's header and parameter block.
type Settings struct {
	ID               int     `json:"id"`
	StartFrequency   float64 `json:"start_frequency"`
	FrequencyStepRaw float64 `json:"frequency_step_raw"`
	Multiplier       float64 `json:"multiplier"`
	Center           float64 `json:"center"`
	PointCount       int     `json:"point_count"`
	FieldOn          bool    `json:"field_on"`
}

// Step returns the true spacing between samples in MHz.
func (s Settings) Step() float64 {
	return s.FrequencyStepRaw * s.Multiplier
}

// Record is the parsed form of a single scan. It is never modified after Parse returns it.
type Record struct {
	Settings  Settings  `json:"settings"`
	FieldOff  []float64 `json:"field_off"`
	FieldOn   []float64 `json:"field_on"`
	OffFFT    []float64 `json:"off_fft"`
	OnFFT     []float64 `json:"on_fft"`
	Combined  []float64 `json:"combined"`
	Frequency []float64 `json:"frequency"`
	Index     []int     `json:"index"`
}

// HasFieldOn reports whether the record carries a usable field-on trace.
func (r *Record) HasFieldOn() bool {
	return len(r.FieldOn) > 1
}

func newRecord(settings Settings, fieldOff, fieldOn []float64) *Record {
	offFFT := spectral.RealForward(fieldOff)

	var onFFT, combined []float64
	if len(fieldOn) > 1 {
		onFFT = spectral.RealForward(fieldOn)
		diff := make([]float64, len(offFFT))
		floats.SubTo(diff, offFFT, onFFT)
		combined = spectral.RealInverse(diff)
	} else {
		// No field-on correction available.
		onFFT = make([]float64, len(fieldOn))
		combined = append([]float64(nil), fieldOff...)
	}

	index := make([]int, len(offFFT))
	for i := range index {
		index[i] = i
	}

	return &Record{
		Settings:  settings,
		FieldOff:  fieldOff,
		FieldOn:   fieldOn,
		OffFFT:    offFFT,
		OnFFT:     onFFT,
		Combined:  combined,
		Frequency: frequencyAxis(settings),
		Index:     index,
	}
}

// frequencyAxis spaces PointCount values evenly and symmetrically around Center.
func frequencyAxis(s Settings) []float64 {
	n := s.PointCount
	halfSpan := s.Step() * float64(n/2)
	axis := make([]float64, n)
	switch n {
	case 0:
	case 1:
		axis[0] = s.Center - halfSpan
	default:
		floats.Span(axis, s.Center-halfSpan, s.Center+halfSpan)
	}
	return axis
}
