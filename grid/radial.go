/*
 * radial.go, part of gocap.
 *
 * Copyright 2024 The gocap authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package grid

import (
	"fmt"
	"math"
)

// MaxRadialPrecision is the largest accepted radial precision.
const MaxRadialPrecision = 20

// RadialPoints returns the number of radial points used for a radial
// precision of 10^-precision.
func RadialPoints(precision int) (int, error) {
	if precision < 1 || precision > MaxRadialPrecision {
		return 0, Error{fmt.Sprintf("%s: %d", ErrRadialPrecision, precision), []string{"RadialPoints"}, true}
	}
	return 5*precision + 5, nil
}

// Radial is a quadrature for integrals of the form int_0^inf f(r) r^2 dr.
// The r^2 factor is included in the weights.
type Radial struct {
	R       []float64
	Weights []float64
}

// NewRadial returns a Gauss-Chebyshev (second kind) radial grid with n points, mapped to
// [0, inf) with Becke's transformation r = rm(1+x)/(1-x).
func NewRadial(n int, rm float64) *Radial {
	R := &Radial{R: make([]float64, 0, n), Weights: make([]float64, 0, n)}
	np1 := float64(n + 1)
	for i := 1; i <= n; i++ {
		ang := float64(i) * math.Pi / np1
		x := math.Cos(ang)
		s := math.Sin(ang)
		//the Chebyshev weight is pi/(n+1) sin^2, divided by the sqrt(1-x^2)=sin factor.
		w := math.Pi / np1 * s
		r := rm * (1 + x) / (1 - x)
		drdx := 2 * rm / ((1 - x) * (1 - x))
		R.R = append(R.R, r)
		R.Weights = append(R.Weights, w*drdx*r*r)
	}
	return R
}
