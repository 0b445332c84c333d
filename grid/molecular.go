/*
 * molecular.go, part of gocap.
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

// Package grid provides radial, angular and Becke-partitioned molecular quadratures.
package grid

import (
	"fmt"
	"math"

	"github.com/rmera/gocap"
)

//points with smaller weights are dropped.
const minWeight = 1e-30

// Block is the part of a molecular grid that belongs to one atom.
type Block struct {
	Atom    int
	Points  [][3]float64
	Weights []float64
}

// Molecular is a Becke-partitioned molecular grid.
type Molecular struct {
	Blocks        []*Block
	RadialPoints  int
	AngularPoints int
}

// New builds a molecular grid with atomic grids on every atom, ghosts included.
// radialPrecision sets the number of radial points (see RadialPoints) and
// angularPoints the angular quadrature (see NewAngular).
func New(atoms []*gocap.Atom, radialPrecision, angularPoints int) (*Molecular, error) {
	if len(atoms) == 0 {
		return nil, Error{ErrNoAtoms, []string{"New"}, true}
	}
	nrad, err := RadialPoints(radialPrecision)
	if err != nil {
		return nil, errDecorate(err, "New")
	}
	ang, err := NewAngular(angularPoints)
	if err != nil {
		return nil, errDecorate(err, "New")
	}
	part, err := newBecke(atoms)
	if err != nil {
		return nil, errDecorate(err, "New")
	}
	M := &Molecular{RadialPoints: nrad, AngularPoints: angularPoints}
	for i, at := range atoms {
		rm := gocap.BraggRadius(at.Symbol)
		if at.Z != 1 {
			rm *= 0.5
		}
		rad := NewRadial(nrad, rm)
		b := &Block{Atom: i}
		b.Points = make([][3]float64, 0, len(rad.R)*len(ang.Points))
		b.Weights = make([]float64, 0, len(rad.R)*len(ang.Points))
		for ir, r := range rad.R {
			for ia, u := range ang.Points {
				p := [3]float64{at.Coords[0] + r*u[0], at.Coords[1] + r*u[1], at.Coords[2] + r*u[2]}
				w := rad.Weights[ir] * ang.Weights[ia]
				if len(atoms) > 1 {
					w *= part.weight(i, p)
				}
				if w < minWeight || math.IsNaN(w) {
					continue
				}
				b.Points = append(b.Points, p)
				b.Weights = append(b.Weights, w)
			}
		}
		M.Blocks = append(M.Blocks, b)
	}
	return M, nil
}

// NPoints returns the total number of points in the grid.
func (M *Molecular) NPoints() int {
	n := 0
	for _, b := range M.Blocks {
		n += len(b.Points)
	}
	return n
}

// Points returns all the grid points, block after block.
func (M *Molecular) Points() [][3]float64 {
	ret := make([][3]float64, 0, M.NPoints())
	for _, b := range M.Blocks {
		ret = append(ret, b.Points...)
	}
	return ret
}

// Weights returns all the grid weights, in the same order as Points.
func (M *Molecular) Weights() []float64 {
	ret := make([]float64, 0, M.NPoints())
	for _, b := range M.Blocks {
		ret = append(ret, b.Weights...)
	}
	return ret
}

// Integrate returns the integral of f over all space.
func (M *Molecular) Integrate(f func(p [3]float64) float64) float64 {
	var s float64
	for _, b := range M.Blocks {
		for i, p := range b.Points {
			s += b.Weights[i] * f(p)
		}
	}
	return s
}

func (M *Molecular) String() string {
	return fmt.Sprintf("molecular grid: %d atoms, %d radial x %d angular points per atom, %d points in total", len(M.Blocks), M.RadialPoints, M.AngularPoints, M.NPoints())
}

// becke holds what is needed to compute Becke's fuzzy cell weights.
type becke struct {
	atoms []*gocap.Atom
	dist  [][]float64 //inter-atomic distances
	a     [][]float64 //size adjustment parameters
}

func newBecke(atoms []*gocap.Atom) (*becke, error) {
	n := len(atoms)
	b := &becke{atoms: atoms, dist: make([][]float64, n), a: make([][]float64, n)}
	for i := range atoms {
		b.dist[i] = make([]float64, n)
		b.a[i] = make([]float64, n)
		for j := range atoms {
			if i == j {
				continue
			}
			d := atoms[i].Distance(atoms[j])
			if d < 1e-8 {
				return nil, Error{fmt.Sprintf("%s: %d and %d", ErrCoincidentAtoms, i, j), []string{"newBecke"}, true}
			}
			b.dist[i][j] = d
			chi := gocap.BraggRadius(atoms[i].Symbol) / gocap.BraggRadius(atoms[j].Symbol)
			u := (chi - 1) / (chi + 1)
			a := 0.0
			if u != 0 {
				a = u / (u*u - 1)
			}
			if a > 0.5 {
				a = 0.5
			} else if a < -0.5 {
				a = -0.5
			}
			b.a[i][j] = a
		}
	}
	return b, nil
}

// beckeStep is Becke's cutoff profile s(mu), with three iterations of the
// smoothing polynomial.
func beckeStep(mu float64) float64 {
	f := mu
	for k := 0; k < 3; k++ {
		f = 1.5*f - 0.5*f*f*f
	}
	return 0.5 * (1 - f)
}

// weight returns the fuzzy cell weight of atom i at point p.
func (b *becke) weight(i int, p [3]float64) float64 {
	n := len(b.atoms)
	r := make([]float64, n)
	for k, at := range b.atoms {
		r[k] = gocap.Distance(p, at.Coords)
	}
	var total, pi float64
	for A := 0; A < n; A++ {
		P := 1.0
		for B := 0; B < n && P != 0; B++ {
			if A == B {
				continue
			}
			mu := (r[A] - r[B]) / b.dist[A][B]
			nu := mu + b.a[A][B]*(1-mu*mu)
			P *= beckeStep(nu)
		}
		if A == i {
			pi = P
		}
		total += P
	}
	if total == 0 {
		return 0
	}
	return pi / total
}
