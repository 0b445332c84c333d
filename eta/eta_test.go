/*
 * eta_test.go, part of gocap.
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

package eta

import (
	"fmt"
	"math/cmplx"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewHamiltonian(Te *testing.T) {
	_, err := NewHamiltonian(mat.NewDense(2, 2, nil), mat.NewDense(3, 3, nil))
	assert.Error(Te, err)
	H, err := NewHamiltonian(mat.NewDense(2, 2, []float64{1, 0.1, 0.3, 2}), mat.NewDense(2, 2, []float64{-1, 0, 0.2, -2}))
	require.NoError(Te, err)
	assert.InDelta(Te, 0.2, H.H0.At(0, 1), 1e-12)
	assert.InDelta(Te, 0.1, H.W.At(1, 0), 1e-12)
	assert.Equal(Te, 2, H.N())
}

func TestDiagonalize(Te *testing.T) {
	h0 := mat.NewDense(2, 2, []float64{1, 0.2, 0.2, 2})
	w := mat.NewDense(2, 2, []float64{-0.5, 0.1, 0.1, -0.3})
	H, err := NewHamiltonian(h0, w)
	require.NoError(Te, err)
	for _, eta := range []float64{0, 0.01, 0.3, 2} {
		roots, err := H.Diagonalize(eta)
		require.NoError(Te, err)
		require.Len(Te, roots, 2)
		a := complex(1, -0.5*eta)
		b := complex(0.2, 0.1*eta)
		d := complex(2, -0.3*eta)
		half := (a - d) / 2
		sq := cmplx.Sqrt(half*half + b*b)
		want := []complex128{(a+d)/2 - sq, (a+d)/2 + sq}
		sort.Slice(want, func(i, j int) bool { return real(want[i]) < real(want[j]) })
		for i := range want {
			assert.InDelta(Te, real(want[i]), real(roots[i].Energy), 1e-9, "eta %g root %d", eta, i)
			assert.InDelta(Te, imag(want[i]), imag(roots[i].Energy), 1e-9, "eta %g root %d", eta, i)
			assert.Less(Te, H.residual(eta, roots[i].Energy, roots[i].Vector), 1e-8)
		}
	}
}

func TestDegenerate(Te *testing.T) {
	h0 := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 3})
	w := mat.NewDense(3, 3, []float64{-1, 0, 0, 0, -2, 0, 0, 0, -0.5})
	H, err := NewHamiltonian(h0, w)
	require.NoError(Te, err)
	roots, err := H.Diagonalize(0.1)
	require.NoError(Te, err)
	got := make([]complex128, len(roots))
	for i, r := range roots {
		got[i] = r.Energy
	}
	sort.Slice(got, func(i, j int) bool { return imag(got[i]) < imag(got[j]) })
	want := []complex128{complex(1, -0.2), complex(1, -0.1), complex(3, -0.05)}
	for i := range want {
		assert.InDelta(Te, 0, cmplx.Abs(want[i]-got[i]), 1e-9, fmt.Sprintf("root %d: %v", i, got[i]))
	}
}

func TestTracking(Te *testing.T) {
	//two uncoupled states.
	h0 := mat.NewDense(2, 2, []float64{1, 0, 0, 1.5})
	w := mat.NewDense(2, 2, []float64{-1, 0, 0, -0.2})
	H, err := NewHamiltonian(h0, w)
	require.NoError(Te, err)
	_, err = H.RunTrajectory(nil)
	assert.Error(Te, err)
	_, err = H.RunTrajectory([]float64{0.2, 0.1})
	assert.Error(Te, err)
	etas := Range(0, 1, 0.05)
	require.Len(Te, etas, 21)
	R, err := H.RunTrajectory(etas)
	require.NoError(Te, err)
	for _, T := range []*Trajectory{R.TrackByEnergy(1.02), R.TrackByOverlap(1.02)} {
		for i, e := range T.Energies {
			assert.InDelta(Te, 1, real(e), 1e-9)
			assert.InDelta(Te, -etas[i], imag(e), 1e-9)
		}
	}
	T := R.TrackByOverlap(1.4)
	for i, e := range T.Energies {
		assert.InDelta(Te, 1.5, real(e), 1e-9)
		assert.InDelta(Te, -0.2*etas[i], imag(e), 1e-9)
	}
}

func TestCorrected(Te *testing.T) {
	etas := Range(0, 0.5, 0.01)
	T := &Trajectory{Etas: etas, Energies: make([]complex128, len(etas))}
	for i, e := range etas {
		T.Energies[i] = complex(0.3, -0.7*e)
	}
	for _, u := range T.Corrected() {
		assert.InDelta(Te, 0, cmplx.Abs(u-0.3), 1e-12)
	}
	for i, d := range T.Derivative() {
		assert.InDelta(Te, 0, cmplx.Abs(d-complex(0, -0.7)), 1e-9, "point %d", i)
	}
}

func TestOptimal(Te *testing.T) {
	//E = e0 - i(a eta - b eta^2) has eta dE/deta = 0 at eta = a/2b.
	a, b := 0.4, 1.0
	etas := Range(0, 0.5, 0.01)
	T := &Trajectory{Etas: etas, Energies: make([]complex128, len(etas))}
	for i, e := range etas {
		T.Energies[i] = complex(0.1, -(a*e - b*e*e))
	}
	eta, energy, err := T.Optimal()
	require.NoError(Te, err)
	assert.InDelta(Te, 0.2, eta, 1e-9)
	assert.InDelta(Te, -0.04, imag(energy), 1e-9)
	_, _, err = T.OptimalCorrected()
	assert.NoError(Te, err)
	short := &Trajectory{Etas: []float64{0, 1}, Energies: []complex128{0, 1}}
	_, _, err = short.Optimal()
	assert.Error(Te, err)
	S := T.Shifted(0.1, HartreeToEV)
	assert.InDelta(Te, 0, real(S.Energies[3]), 1e-12)
	assert.InDelta(Te, HartreeToEV*imag(T.Energies[3]), imag(S.Energies[3]), 1e-9)
}
