/*
 * grid_test.go, part of gocap.
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
	"testing"

	"github.com/rmera/gocap"
	"github.com/rmera/gocap/basis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func h2(Te *testing.T) []*gocap.Atom {
	atoms, err := gocap.XYZRead("../test/h2.xyz")
	require.NoError(Te, err)
	return atoms
}

func TestAngular(Te *testing.T) {
	for _, n := range []int{6, 110, 590} {
		A, err := NewAngular(n)
		require.NoError(Te, err)
		assert.InDelta(Te, 4*math.Pi, floats.Sum(A.Weights), 1e-12)
		var x2, xy, z4 float64
		for i, p := range A.Points {
			x2 += A.Weights[i] * p[0] * p[0]
			xy += A.Weights[i] * p[0] * p[1]
			z4 += A.Weights[i] * p[2] * p[2] * p[2] * p[2]
		}
		assert.InDelta(Te, 4*math.Pi/3, x2, 1e-12)
		assert.InDelta(Te, 0, xy, 1e-12)
		if A.Degree >= 5 {
			assert.InDelta(Te, 4*math.Pi/5, z4, 1e-12)
		}
	}
	_, err := NewAngular(100)
	assert.Error(Te, err)
	assert.Equal(Te, 6, AngularSizes()[0])
}

func TestRadial(Te *testing.T) {
	n, err := RadialPoints(14)
	require.NoError(Te, err)
	assert.Equal(Te, 75, n)
	_, err = RadialPoints(0)
	assert.Error(Te, err)
	R := NewRadial(n, 0.7)
	var s float64
	for i, r := range R.R {
		s += R.Weights[i] * math.Exp(-1.3*r*r)
	}
	//int_0^inf exp(-a r^2) r^2 dr = sqrt(pi)/(4 a^1.5)
	assert.InDelta(Te, math.Sqrt(math.Pi)/(4*math.Pow(1.3, 1.5)), s, 1e-7)
}

func TestBeckePartition(Te *testing.T) {
	atoms := h2(Te)
	b, err := newBecke(atoms)
	require.NoError(Te, err)
	for _, p := range [][3]float64{{0.1, 0.2, 0.3}, {1, -1, 2}, {0, 0, 1.03}} {
		var tot float64
		for i := range atoms {
			tot += b.weight(i, p)
		}
		assert.InDelta(Te, 1, tot, 1e-12)
	}
	//a point on top of an atom belongs to it.
	assert.InDelta(Te, 1, b.weight(0, atoms[0].Coords), 1e-12)
	dup := []*gocap.Atom{atoms[0], atoms[0].Copy()}
	_, err = New(dup, 10, 110)
	assert.Error(Te, err)
	_, err = New(nil, 10, 110)
	assert.Error(Te, err)
}

func TestMolecularIntegration(Te *testing.T) {
	atoms := h2(Te)
	M, err := New(atoms, 14, 590)
	require.NoError(Te, err)
	fmt.Println(M)
	assert.Equal(Te, M.NPoints(), len(M.Points()))
	assert.Equal(Te, M.NPoints(), len(M.Weights()))
	a := 0.5
	c := atoms[0].Coords
	got := M.Integrate(func(p [3]float64) float64 {
		r := gocap.Distance(p, c)
		return math.Exp(-a * r * r)
	})
	assert.InDelta(Te, math.Pow(math.Pi/a, 1.5), got, 1e-3)
}

func TestGridOverlap(Te *testing.T) {
	atoms := h2(Te)
	tmpl, err := basis.ReadGaussian94("../test/test_basis.bas")
	require.NoError(Te, err)
	bs, err := basis.Build(atoms, tmpl, "d")
	require.NoError(Te, err)
	S := basis.Overlap(bs)
	M, err := New(atoms, 14, 590)
	require.NoError(Te, err)
	phi := bs.Eval(M.Points(), nil)
	w := M.Weights()
	n := bs.NBasis()
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			var s float64
			for p := range w {
				s += w[p] * phi.At(p, i) * phi.At(p, j)
			}
			assert.InDelta(Te, S.At(i, j), s, 2e-3, "element %d %d", i, j)
		}
	}
}
