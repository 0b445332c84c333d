/*
 * angular.go, part of gocap.
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
	"sort"

	"gonum.org/v1/gonum/integrate/quad"
)

//Exactness degree of the Lebedev-Laikov rules, keyed by number of points.
var lebedevDegree = map[int]int{
	6:    3,
	14:   5,
	26:   7,
	38:   9,
	50:   11,
	74:   13,
	86:   15,
	110:  17,
	146:  19,
	170:  21,
	194:  23,
	230:  25,
	266:  27,
	302:  29,
	350:  31,
	434:  35,
	590:  41,
	770:  47,
	974:  53,
	1202: 59,
	1454: 65,
	1730: 71,
	2030: 77,
	2354: 83,
	2702: 89,
	3074: 95,
	3470: 101,
	3890: 107,
	4334: 113,
	4802: 119,
	5294: 125,
	5810: 131,
}

// AngularSizes returns the accepted values for the number of angular points, in
// increasing order.
func AngularSizes() []int {
	ret := make([]int, 0, len(lebedevDegree))
	for k := range lebedevDegree {
		ret = append(ret, k)
	}
	sort.Ints(ret)
	return ret
}

// AngularDegree returns the polynomial degree integrated exactly by the angular
// grid requested with npoints points.
func AngularDegree(npoints int) (int, error) {
	d, ok := lebedevDegree[npoints]
	if !ok {
		return 0, Error{fmt.Sprintf("%s: %d. Accepted values: %v", ErrAngularPoints, npoints, AngularSizes()), []string{"AngularDegree"}, true}
	}
	return d, nil
}

// Angular is a quadrature on the unit sphere. The weights add up to 4 pi.
type Angular struct {
	Points  [][3]float64
	Weights []float64
	Degree  int
}

// NewAngular returns a unit-sphere quadrature with the exactness degree of the
// Lebedev rule with npoints points. The rule is realized as a product of a
// Gauss-Legendre rule in cos(theta) and a trapezoidal rule in phi, which is exact
// for the same polynomial degree.
func NewAngular(npoints int) (*Angular, error) {
	deg, err := AngularDegree(npoints)
	if err != nil {
		return nil, errDecorate(err, "NewAngular")
	}
	ntheta := (deg + 2) / 2
	nphi := deg + 1
	ct := make([]float64, ntheta)
	wt := make([]float64, ntheta)
	quad.Legendre{}.FixedLocations(ct, wt, -1, 1)
	A := &Angular{Degree: deg}
	A.Points = make([][3]float64, 0, ntheta*nphi)
	A.Weights = make([]float64, 0, ntheta*nphi)
	dphi := 2 * math.Pi / float64(nphi)
	for i, c := range ct {
		s := math.Sqrt(1 - c*c)
		for j := 0; j < nphi; j++ {
			phi := float64(j) * dphi
			A.Points = append(A.Points, [3]float64{s * math.Cos(phi), s * math.Sin(phi), c})
			A.Weights = append(A.Weights, wt[i]*dphi)
		}
	}
	return A, nil
}
