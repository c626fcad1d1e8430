package spectral

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Forward returns the discrete Fourier transform of seq. The input is not modified.
func Forward(seq []complex128) []complex128 {
	n := len(seq)
	if n == 0 {
		return []complex128{}
	}
	return fourier.NewCmplxFFT(n).Coefficients(nil, seq)
}

// Inverse returns the inverse discrete Fourier transform of coeff, scaled by 1/n
// so that Inverse(Forward(x)) == x.
func Inverse(coeff []complex128) []complex128 {
	n := len(coeff)
	if n == 0 {
		return []complex128{}
	}
	seq := fourier.NewCmplxFFT(n).Sequence(nil, coeff)
	scale := complex(1/float64(n), 0)
	for i := range seq {
		seq[i] *= scale
	}
	return seq
}

// Complex widens a real sequence to complex128 with zero imaginary parts.
func Complex(x []float64) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = complex(v, 0)
	}
	return out
}

// RealPart drops the imaginary part of every element.
func RealPart(c []complex128) []float64 {
	out := make([]float64, len(c))
	for i, v := range c {
		out[i] = real(v)
	}
	return out
}

// RealForward is real(Forward(x)).
func RealForward(x []float64) []float64 {
	return RealPart(Forward(Complex(x)))
}

// RealInverse is real(Inverse(x)) for a purely real coefficient sequence.
func RealInverse(x []float64) []float64 {
	return RealPart(Inverse(Complex(x)))
}
