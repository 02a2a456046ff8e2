package forecast

import (
	"errors"
	"math"
)

var errSingular = errors.New("singular system")

// solveRidge solves the normal equations (XᵀX + λI)θ = Xᵀy with Gaussian
// elimination and partial pivoting. The intercept column (index 0) is not
// penalized, so a constant series fits exactly.
func solveRidge(x [][]float64, y []float64, lambda float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, errSingular
	}
	p := len(x[0])

	a := make([][]float64, p)
	b := make([]float64, p)
	for i := range a {
		a[i] = make([]float64, p)
	}
	for r := range x {
		for i := 0; i < p; i++ {
			b[i] += x[r][i] * y[r]
			for j := 0; j < p; j++ {
				a[i][j] += x[r][i] * x[r][j]
			}
		}
	}
	for i := 1; i < p; i++ {
		a[i][i] += lambda
	}

	return solveLinear(a, b)
}

// solveLinear solves aθ = b in place.
func solveLinear(a [][]float64, b []float64) ([]float64, error) {
	p := len(b)
	for col := 0; col < p; col++ {
		pivot := col
		for r := col + 1; r < p; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, errSingular
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < p; r++ {
			factor := a[r][col] / a[col][col]
			if factor == 0 {
				continue
			}
			for c := col; c < p; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}

	theta := make([]float64, p)
	for i := p - 1; i >= 0; i-- {
		sum := b[i]
		for j := i + 1; j < p; j++ {
			sum -= a[i][j] * theta[j]
		}
		theta[i] = sum / a[i][i]
	}
	return theta, nil
}
