/*
 * eval.go, part of gocap.
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

//exponentials below this are taken as zero.
const evalCutoff = 1e-18

// Eval returns a len(points) x NBasis matrix with the value of every basis function
// on every point. If dst is not nil and has the right size, it is used for the result.
func (bs *BasisSet) Eval(points [][3]float64, dst *mat.Dense) *mat.Dense {
	n := len(points)
	if dst == nil {
		dst = mat.NewDense(n, bs.nbf, nil)
	} else {
		r, c := dst.Dims()
		if r != n || c != bs.nbf {
			panic(ErrDimension)
		}
		dst.Zero()
	}
	maxcart := NCart(bs.MaxL())
	cart := make([]float64, maxcart)
	for si, s := range bs.Shells {
		comps := CartComponents(s.L)
		off := bs.offs[si]
		nc := s.normCoeffs()
		nf := s.NFuncs()
		for p, pt := range points {
			dx := pt[0] - s.Center[0]
			dy := pt[1] - s.Center[1]
			dz := pt[2] - s.Center[2]
			r2 := dx*dx + dy*dy + dz*dz
			var radial float64
			for k, e := range s.Exps {
				ex := e * r2
				if ex > -math.Log(evalCutoff) {
					continue
				}
				radial += nc[k] * math.Exp(-ex)
			}
			if radial == 0 {
				continue
			}
			for ic, c := range comps {
				cart[ic] = radial * ipow(dx, c[0]) * ipow(dy, c[1]) * ipow(dz, c[2])
			}
			row := dst.RawRowView(p)
			for f := 0; f < nf; f++ {
				var v float64
				for ic := range comps {
					v += s.t.At(f, ic) * cart[ic]
				}
				row[off+f] = v
			}
		}
	}
	return dst
}

func ipow(x float64, n int) float64 {
	r := 1.0
	for i := 0; i < n; i++ {
		r *= x
	}
	return r
}
