/*
 * harmonics.go, part of gocap.
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

package basis

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	r := 1.0
	for i := 1; i <= k; i++ {
		r = r * float64(n-k+i) / float64(i)
	}
	return r
}

func factorial(n int) float64 {
	r := 1.0
	for i := 2; i <= n; i++ {
		r *= float64(i)
	}
	return r
}

// SolidHarmonic returns the coefficients of the real solid harmonic S_lm over the Cartesian
// monomials of angular momentum l, in lexicographic order (see CartComponents).
// The expansion is the one in Helgaker, Jorgensen and Olsen, Molecular Electronic-Structure
// Theory, eq. 6.4.47.
func SolidHarmonic(l, m int) []float64 {
	ret := make([]float64, NCart(l))
	am := m
	if am < 0 {
		am = -m
	}
	//v runs over half-integers for m<0, so we work with 2v.
	v2m := 0
	if m < 0 {
		v2m = 1
	}
	nlm := 1 / (math.Pow(2, float64(am)) * factorial(l)) * math.Sqrt(2*factorial(l+am)*factorial(l-am))
	if m == 0 {
		nlm /= math.Sqrt2
	}
	for t := 0; t <= (l-am)/2; t++ {
		for u := 0; u <= t; u++ {
			for v2 := v2m; v2 <= am; v2 += 2 {
				sign := 1.0
				if (t+(v2-v2m)/2)%2 != 0 {
					sign = -1
				}
				c := sign * math.Pow(0.25, float64(t)) * binomial(l, t) * binomial(l-t, am+t) * binomial(t, u) * binomial(am, v2)
				px := 2*t + am - 2*u - v2
				py := 2*u + v2
				pz := l - 2*t - am
				if px < 0 || py < 0 || pz < 0 {
					continue
				}
				ret[cartIndex([3]int{px, py, pz})] += nlm * c
			}
		}
	}
	return ret
}

// sphericalMatrix returns the (2l+1) x NCart(l) matrix with the solid harmonics
// S_l,-l ... S_l,l in its rows.
func sphericalMatrix(l int) *mat.Dense {
	r := mat.NewDense(2*l+1, NCart(l), nil)
	for m := -l; m <= l; m++ {
		r.SetRow(m+l, SolidHarmonic(l, m))
	}
	return r
}
