package corner

import "gonum.org/v1/gonum/mat"

// savGolCoefficients solves for the Savitzky-Golay convolution kernel of the
// given (odd) window and polynomial order: the center row of the polynomial
// hat matrix A(AᵀA)⁻¹Aᵀ, computed once per window/order pair rather than
// shipped as a lookup table since no pack dependency provides one.
func savGolCoefficients(window, order int) []float64 {
	half := window / 2
	cols := order + 1

	a := mat.NewDense(window, cols, nil)
	for j := 0; j < window; j++ {
		x := float64(j - half)
		v := 1.0
		for k := 0; k < cols; k++ {
			a.Set(j, k, v)
			v *= x
		}
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)

	var ataInv mat.Dense
	if err := ataInv.Inverse(&ata); err != nil {
		// Singular only for degenerate window/order combinations that the
		// fixed preset table never produces; fall back to a boxcar average.
		coeffs := make([]float64, window)
		for j := range coeffs {
			coeffs[j] = 1.0 / float64(window)
		}
		return coeffs
	}

	coeffs := make([]float64, window)
	for j := 0; j < window; j++ {
		sum := 0.0
		for k := 0; k < cols; k++ {
			sum += ataInv.At(0, k) * a.At(j, k)
		}
		coeffs[j] = sum
	}
	return coeffs
}

// Smooth applies the same Savitzky-Golay filter Detect uses internally,
// exported so the Lap Comparator (C7) can compute min_speed_delta against
// the identical smoothed speed trace (spec §4.7).
func Smooth(values []float64) []float64 { return smoothSpeed(values) }

// smoothSpeed applies a Savitzky-Golay filter (window sgWindowM, order
// sgPolyOrder) to values, clamping at the edges by repeating the boundary
// sample rather than shrinking the window (spec §4.4 step 1).
func smoothSpeed(values []float64) []float64 {
	window := sgWindowM
	if window%2 == 0 {
		window++
	}
	half := window / 2
	coeffs := savGolCoefficients(window, sgPolyOrder)

	n := len(values)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < window; j++ {
			idx := i + (j - half)
			if idx < 0 {
				idx = 0
			} else if idx >= n {
				idx = n - 1
			}
			sum += coeffs[j] * values[idx]
		}
		out[i] = sum
	}
	return out
}
