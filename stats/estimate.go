package stats

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrUnderdetermined is returned by LeastSquares when there are fewer rows
// than regressors.
var ErrUnderdetermined = errors.New("least squares: fewer observations than regressors")

// YuleWalker estimates AR(order) coefficients from the sample autocorrelations
// of values using the Levinson-Durbin recursion. A constant series yields
// all-zero coefficients.
func YuleWalker(values []float64, order int) []float64 {
	if order <= 0 {
		return nil
	}
	phi := make([]float64, order)

	acf := ACF(values, order)
	if len(acf) <= order {
		return phi
	}

	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		if v <= 0 {
			break
		}
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
	}

	return phi
}

// LeastSquares solves min ||X·β − y||² for β, where rows holds one regressor
// row per observation. It uses a QR factorisation and reports singular or
// ill-conditioned designs as errors.
func LeastSquares(rows [][]float64, y []float64) ([]float64, error) {
	n := len(rows)
	if n == 0 || n != len(y) {
		return nil, fmt.Errorf("least squares: %d rows for %d observations", n, len(y))
	}
	k := len(rows[0])
	if k == 0 {
		return nil, errors.New("least squares: no regressors")
	}
	if n < k {
		return nil, ErrUnderdetermined
	}

	data := make([]float64, 0, n*k)
	for i, r := range rows {
		if len(r) != k {
			return nil, fmt.Errorf("least squares: row %d has %d columns, want %d", i, len(r), k)
		}
		data = append(data, r...)
	}

	x := mat.NewDense(n, k, data)
	b := mat.NewVecDense(n, append([]float64(nil), y...))

	var beta mat.VecDense
	if err := beta.SolveVec(x, b); err != nil {
		return nil, fmt.Errorf("least squares: %w", err)
	}

	out := make([]float64, k)
	for i := range out {
		out[i] = beta.AtVec(i)
	}
	return out, nil
}
