/*
 * hamiltonian.go, part of gocap.
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

// Package eta diagonalizes CAP-augmented Hamiltonians H0 + i eta W over a range of CAP strengths
// eta, tracks resonance states along the resulting eigenvalue trajectories and finds
// the stationary points that estimate resonance positions and widths.
package eta

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// HartreeToEV converts energies from hartree to electronvolt.
const HartreeToEV = 27.211386245988

// Hamiltonian is H(eta) = H0 + i eta W, with H0 the zeroth order Hamiltonian and W the
// projected CAP matrix, both real and symmetric.
type Hamiltonian struct {
	H0 *mat.SymDense
	W  *mat.SymDense
}

func symmetrize(m mat.Matrix) *mat.SymDense {
	n, _ := m.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, 0.5*(m.At(i, j)+m.At(j, i)))
		}
	}
	return s
}

// NewHamiltonian returns the Hamiltonian for h0 and w, which are symmetrized.
func NewHamiltonian(h0, w mat.Matrix) (*Hamiltonian, error) {
	r, c := h0.Dims()
	r2, c2 := w.Dims()
	if r != c || r2 != c2 || r != r2 || r == 0 {
		return nil, Error{fmt.Sprintf("%s: H0 %dx%d, W %dx%d", ErrDimension, r, c, r2, c2), []string{"NewHamiltonian"}, true}
	}
	return &Hamiltonian{H0: symmetrize(h0), W: symmetrize(w)}, nil
}

// N returns the number of states.
func (H *Hamiltonian) N() int {
	n, _ := H.H0.Dims()
	return n
}

// Root is an eigenvalue of H(eta) with its right eigenvector, normalized to unit length.
type Root struct {
	Energy complex128
	Vector []complex128
}

// Diagonalize returns the eigenvalues and eigenvectors of H(eta), sorted by increasing real part.
// The complex symmetric problem is solved through the real matrix [[H0, -eta W], [eta W, H0]],
// whose spectrum holds the eigenvalues of H(eta) and their conjugates.
func (H *Hamiltonian) Diagonalize(eta float64) ([]Root, error) {
	n := H.N()
	if eta == 0 {
		return H.diagonalizeReal()
	}
	M := mat.NewDense(2*n, 2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a := H.H0.At(i, j)
			b := eta * H.W.At(i, j)
			M.Set(i, j, a)
			M.Set(i+n, j+n, a)
			M.Set(i, j+n, -b)
			M.Set(i+n, j, b)
		}
	}
	var eig mat.Eigen
	if ok := eig.Factorize(M, mat.EigenRight); !ok {
		return nil, Error{fmt.Sprintf("%s at eta=%g", ErrEigen, eta), []string{"Diagonalize"}, true}
	}
	vals := eig.Values(nil)
	var vecs mat.CDense
	eig.VectorsTo(&vecs)
	type candidate struct {
		root     Root
		residual float64
	}
	cands := make([]candidate, 0, 2*n)
	for k, mu := range vals {
		v := make([]complex128, n)
		var norm float64
		for i := range v {
			v[i] = vecs.At(i, k)
			norm += real(v[i] * cmplx.Conj(v[i]))
		}
		norm = math.Sqrt(norm)
		if norm < 1e-8 {
			continue
		}
		for i := range v {
			v[i] /= complex(norm, 0)
		}
		cands = append(cands, candidate{Root{mu, v}, H.residual(eta, mu, v)})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].residual < cands[j].residual })
	roots := make([]Root, 0, n)
	for _, c := range cands {
		if len(roots) == n {
			break
		}
		dup := false
		for _, r := range roots {
			if cmplx.Abs(r.Energy-c.root.Energy) < 1e-8*(1+cmplx.Abs(r.Energy)) && overlap(r.Vector, c.root.Vector) > 1-1e-8 {
				dup = true
				break
			}
		}
		if !dup {
			roots = append(roots, c.root)
		}
	}
	if len(roots) != n {
		return nil, Error{fmt.Sprintf("%s at eta=%g: %d roots found for %d states", ErrEigen, eta, len(roots), n), []string{"Diagonalize"}, true}
	}
	sortRoots(roots)
	return roots, nil
}

func (H *Hamiltonian) diagonalizeReal() ([]Root, error) {
	n := H.N()
	var eig mat.EigenSym
	if ok := eig.Factorize(H.H0, true); !ok {
		return nil, Error{fmt.Sprintf("%s at eta=0", ErrEigen), []string{"diagonalizeReal"}, true}
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	roots := make([]Root, n)
	for k, e := range vals {
		v := make([]complex128, n)
		for i := range v {
			v[i] = complex(vecs.At(i, k), 0)
		}
		roots[k] = Root{complex(e, 0), v}
	}
	sortRoots(roots)
	return roots, nil
}

func sortRoots(roots []Root) {
	sort.SliceStable(roots, func(i, j int) bool { return real(roots[i].Energy) < real(roots[j].Energy) })
}

// residual returns |H(eta) v - mu v| for the unit vector v.
func (H *Hamiltonian) residual(eta float64, mu complex128, v []complex128) float64 {
	n := len(v)
	var s float64
	for i := 0; i < n; i++ {
		var hv complex128
		for j := 0; j < n; j++ {
			hv += complex(H.H0.At(i, j), eta*H.W.At(i, j)) * v[j]
		}
		d := hv - mu*v[i]
		s += real(d * cmplx.Conj(d))
	}
	return math.Sqrt(s)
}

// overlap returns |<a|b>| for unit vectors a and b.
func overlap(a, b []complex128) float64 {
	var s complex128
	for i := range a {
		s += cmplx.Conj(a[i]) * b[i]
	}
	return cmplx.Abs(s)
}
