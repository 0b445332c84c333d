/*
 * potential.go, part of gocap.
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

package opencap

import (
	"fmt"
	"math"
	"strings"

	"github.com/rmera/gocap"
	"github.com/rmera/gocap/config"
)

// Potential is the real part of an absorbing potential, in atomic units. The CAP is
// -i eta W(r).
type Potential interface {
	Eval(p [3]float64) float64
	String() string
}

// Box is a quadratic CAP that starts at the faces of a box centered at the origin,
// with half-widths X, Y and Z, in bohr.
type Box struct {
	X, Y, Z float64
}

// Eval returns the sum over each Cartesian coordinate of (|x|-c)^2 for |x|>c.
func (B *Box) Eval(p [3]float64) float64 {
	var w float64
	for i, c := range [3]float64{B.X, B.Y, B.Z} {
		if a := math.Abs(p[i]); a > c {
			w += (a - c) * (a - c)
		}
	}
	return w
}

func (B *Box) String() string {
	return fmt.Sprintf("box CAP: cap_x=%.4f cap_y=%.4f cap_z=%.4f bohr", B.X, B.Y, B.Z)
}

// voronoiEps sets how sharply the nearest center dominates the Voronoi distance.
const voronoiEps = 1e-4

// Voronoi is a smooth Voronoi CAP: a quadratic potential that starts at a distance RCut
// from the nearest center.
type Voronoi struct {
	RCut    float64
	centers [][3]float64
}

// NewVoronoi returns a Voronoi CAP around the atoms that are not ghosts (around all
// of them, if they are all ghosts).
func NewVoronoi(atoms []*gocap.Atom, rcut float64) *Voronoi {
	V := &Voronoi{RCut: rcut}
	for _, a := range atoms {
		if !a.Ghost() {
			V.centers = append(V.centers, a.Coords)
		}
	}
	if len(V.centers) == 0 {
		for _, a := range atoms {
			V.centers = append(V.centers, a.Coords)
		}
	}
	return V
}

// Distance returns the smoothed distance from p to the nearest center: a weighted
// average of the squared distances to all centers, where the weights decay quickly
// as the squared distance grows beyond the minimum one.
func (V *Voronoi) Distance(p [3]float64) float64 {
	r2 := make([]float64, len(V.centers))
	rmin := math.Inf(1)
	for i, c := range V.centers {
		d := gocap.Distance(p, c)
		r2[i] = d * d
		if r2[i] < rmin {
			rmin = r2[i]
		}
	}
	var num, den float64
	for _, v := range r2 {
		x := v - rmin
		w := 1 / (x*x + voronoiEps)
		num += w * v
		den += w
	}
	return math.Sqrt(num / den)
}

// Eval returns (r_v-RCut)^2 if the Voronoi distance r_v is larger than RCut, 0 otherwise.
func (V *Voronoi) Eval(p [3]float64) float64 {
	r := V.Distance(p)
	if r <= V.RCut {
		return 0
	}
	return (r - V.RCut) * (r - V.RCut)
}

func (V *Voronoi) String() string {
	return fmt.Sprintf("Voronoi CAP: r_cut=%.4f bohr, %d centers", V.RCut, len(V.centers))
}

// NewPotential builds the potential described by params: "cap_type" is "box"
// (with "cap_x", "cap_y" and "cap_z") or "voronoi" (with "r_cut"). Lengths are in bohr.
func NewPotential(atoms []*gocap.Atom, params config.Params) (Potential, error) {
	t, err := params.String("cap_type")
	if err != nil {
		return nil, errDecorate(err, "NewPotential")
	}
	positive := func(k string) (float64, error) {
		v, err := params.Float(k)
		if err != nil {
			return 0, errDecorate(err, "NewPotential")
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, Error{fmt.Sprintf("%s %s: %g", ErrCAPParameter, k, v), []string{"NewPotential"}, true}
		}
		return v, nil
	}
	switch strings.ToLower(t) {
	case "box":
		var c [3]float64
		for i, k := range []string{"cap_x", "cap_y", "cap_z"} {
			if c[i], err = positive(k); err != nil {
				return nil, err
			}
		}
		return &Box{X: c[0], Y: c[1], Z: c[2]}, nil
	case "voronoi":
		r, err := positive("r_cut")
		if err != nil {
			return nil, err
		}
		return NewVoronoi(atoms, r), nil
	}
	return nil, Error{fmt.Sprintf("%s: %q", ErrUnknownCAP, t), []string{"NewPotential"}, true}
}
