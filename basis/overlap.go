/*
 * overlap.go, part of gocap.
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

// os1D fills the Obara-Saika table of one-dimensional overlaps S[i][j], i<=la, j<=lb,
// for a primitive pair with total exponent p, without the exponential prefactor.
func os1D(la, lb int, pa, pb, p float64) [][]float64 {
	s := make([][]float64, la+1)
	for i := range s {
		s[i] = make([]float64, lb+1)
	}
	oo2p := 0.5 / p
	s[0][0] = 1
	for i := 0; i < la; i++ {
		s[i+1][0] = pa * s[i][0]
		if i > 0 {
			s[i+1][0] += float64(i) * oo2p * s[i-1][0]
		}
	}
	for j := 0; j < lb; j++ {
		for i := 0; i <= la; i++ {
			v := pb * s[i][j]
			if i > 0 {
				v += float64(i) * oo2p * s[i-1][j]
			}
			if j > 0 {
				v += float64(j) * oo2p * s[i][j-1]
			}
			s[i][j+1] = v
		}
	}
	return s
}

// cartOverlap returns the overlap block between the Cartesian components of a and b,
// with every component carrying the radial normalization of the x^l component.
func cartOverlap(a, b *Shell) *mat.Dense {
	ca := CartComponents(a.L)
	cb := CartComponents(b.L)
	ret := mat.NewDense(len(ca), len(cb), nil)
	na := a.normCoeffs()
	nb := b.normCoeffs()
	var ab2 float64
	for k := 0; k < 3; k++ {
		d := a.Center[k] - b.Center[k]
		ab2 += d * d
	}
	var tab [3][][]float64
	for i, ea := range a.Exps {
		for j, eb := range b.Exps {
			p := ea + eb
			mu := ea * eb / p
			pref := na[i] * nb[j] * math.Exp(-mu*ab2) * math.Pow(math.Pi/p, 1.5)
			if pref == 0 {
				continue
			}
			for k := 0; k < 3; k++ {
				P := (ea*a.Center[k] + eb*b.Center[k]) / p
				tab[k] = os1D(a.L, b.L, P-a.Center[k], P-b.Center[k], p)
			}
			for ia, xa := range ca {
				for ib, xb := range cb {
					v := tab[0][xa[0]][xb[0]] * tab[1][xa[1]][xb[1]] * tab[2][xa[2]][xb[2]]
					ret.Set(ia, ib, ret.At(ia, ib)+pref*v)
				}
			}
		}
	}
	return ret
}

// setTransform computes the transformation from the Cartesian components to the
// normalized basis functions of s.
func (s *Shell) setTransform() error {
	s.ncoef = s.normCoeffs()
	self := cartOverlap(s, s)
	var c *mat.Dense
	if s.Spherical() {
		c = sphericalMatrix(s.L)
	} else {
		n := s.NCart()
		c = mat.NewDense(n, n, nil)
		for i := 0; i < n; i++ {
			c.Set(i, i, 1)
		}
	}
	var tmp, sf mat.Dense
	tmp.Mul(c, self)
	sf.Mul(&tmp, c.T())
	r, _ := c.Dims()
	for i := 0; i < r; i++ {
		d := sf.At(i, i)
		if d <= 0 || math.IsNaN(d) {
			return Error{ErrNotNormalizable, "", []string{"setTransform"}, true}
		}
		row := c.RawRowView(i)
		f := 1 / math.Sqrt(d)
		for j := range row {
			row[j] *= f
		}
	}
	s.t = c
	return nil
}

// ShellOverlap returns the overlap block between the basis functions of the shells
// a and b, which must belong to a BasisSet.
func ShellOverlap(a, b *Shell) *mat.Dense {
	if a.t == nil || b.t == nil {
		panic("basis: ShellOverlap called on shells without transformation")
	}
	c := cartOverlap(a, b)
	var tmp mat.Dense
	tmp.Mul(a.t, c)
	ret := new(mat.Dense)
	ret.Mul(&tmp, b.t.T())
	return ret
}

// Overlap returns the overlap matrix of the basis set, in the internal ordering.
func Overlap(bs *BasisSet) *mat.SymDense {
	n := bs.NBasis()
	S := mat.NewSymDense(n, nil)
	offsets := bs.Offsets()
	for i, a := range bs.Shells {
		for j := i; j < len(bs.Shells); j++ {
			b := bs.Shells[j]
			blk := ShellOverlap(a, b)
			r, c := blk.Dims()
			for k := 0; k < r; k++ {
				for l := 0; l < c; l++ {
					if i == j && l < k {
						continue
					}
					S.SetSym(offsets[i]+k, offsets[j]+l, blk.At(k, l))
				}
			}
		}
	}
	return S
}
