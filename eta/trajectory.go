/*
 * trajectory.go, part of gocap.
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
	"math"
	"math/cmplx"
)

// Run holds the roots of H(eta) for a series of eta values.
type Run struct {
	Etas  []float64
	Roots [][]Root
}

// Range returns the eta values start, start+step... up to stop (included, within rounding).
func Range(start, stop, step float64) []float64 {
	if step <= 0 || stop < start {
		return nil
	}
	n := int(math.Floor((stop-start)/step+1e-9)) + 1
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = start + float64(i)*step
	}
	return ret
}

// RunTrajectory diagonalizes H(eta) for every value in etas, which must be
// strictly increasing.
func (H *Hamiltonian) RunTrajectory(etas []float64) (*Run, error) {
	if len(etas) == 0 {
		return nil, Error{ErrNoEtas, []string{"RunTrajectory"}, true}
	}
	R := &Run{Etas: append([]float64(nil), etas...), Roots: make([][]Root, len(etas))}
	for i, e := range etas {
		if i > 0 && e <= etas[i-1] {
			return nil, Error{fmt.Sprintf("%s: %g after %g", ErrEtaOrder, e, etas[i-1]), []string{"RunTrajectory"}, true}
		}
		roots, err := H.Diagonalize(e)
		if err != nil {
			return nil, errDecorate(err, "RunTrajectory")
		}
		R.Roots[i] = roots
	}
	return R, nil
}

// Trajectory is the path of one eigenvalue as a function of eta.
type Trajectory struct {
	Etas     []float64
	Energies []complex128
}

func closestEnergy(roots []Root, e complex128) int {
	best, bestd := 0, math.Inf(1)
	for i, r := range roots {
		if d := cmplx.Abs(r.Energy - e); d < bestd {
			best, bestd = i, d
		}
	}
	return best
}

// TrackByEnergy follows the root whose energy at the first eta is closest to guess,
// taking at each following eta the root closest in energy to the previous one.
func (R *Run) TrackByEnergy(guess float64) *Trajectory {
	T := &Trajectory{Etas: R.Etas, Energies: make([]complex128, len(R.Etas))}
	prev := complex(guess, 0)
	for i, roots := range R.Roots {
		k := closestEnergy(roots, prev)
		T.Energies[i] = roots[k].Energy
		prev = roots[k].Energy
	}
	return T
}

// TrackByOverlap follows the root whose energy at the first eta is closest to guess,
// taking at each following eta the root whose eigenvector overlaps most with the
// previous one.
func (R *Run) TrackByOverlap(guess float64) *Trajectory {
	T := &Trajectory{Etas: R.Etas, Energies: make([]complex128, len(R.Etas))}
	k := closestEnergy(R.Roots[0], complex(guess, 0))
	prev := R.Roots[0][k].Vector
	T.Energies[0] = R.Roots[0][k].Energy
	for i := 1; i < len(R.Roots); i++ {
		best, bestov := 0, -1.0
		for j, r := range R.Roots[i] {
			if ov := overlap(prev, r.Vector); ov > bestov {
				best, bestov = j, ov
			}
		}
		T.Energies[i] = R.Roots[i][best].Energy
		prev = R.Roots[i][best].Vector
	}
	return T
}

// Len returns the number of points in the trajectory.
func (T *Trajectory) Len() int { return len(T.Etas) }

// derivative returns dE/deta by finite differences: central in the interior,
// one-sided at the ends.
func derivative(etas []float64, e []complex128) []complex128 {
	n := len(etas)
	d := make([]complex128, n)
	if n < 2 {
		return d
	}
	d[0] = (e[1] - e[0]) / complex(etas[1]-etas[0], 0)
	d[n-1] = (e[n-1] - e[n-2]) / complex(etas[n-1]-etas[n-2], 0)
	for i := 1; i < n-1; i++ {
		d[i] = (e[i+1] - e[i-1]) / complex(etas[i+1]-etas[i-1], 0)
	}
	return d
}

// Derivative returns dE/deta at each point of the trajectory.
func (T *Trajectory) Derivative() []complex128 {
	return derivative(T.Etas, T.Energies)
}

// Corrected returns the first order corrected energies U = E - eta dE/deta.
func (T *Trajectory) Corrected() []complex128 {
	d := T.Derivative()
	ret := make([]complex128, T.Len())
	for i, e := range T.Energies {
		ret[i] = e - complex(T.Etas[i], 0)*d[i]
	}
	return ret
}

// optimal returns the index, among points with eta > 0, where |eta dE/deta| is smallest.
func optimal(etas []float64, e []complex128) (int, error) {
	if len(etas) < 3 {
		return -1, Error{fmt.Sprintf("%s: %d points", ErrShortTraj, len(etas)), []string{"optimal"}, true}
	}
	d := derivative(etas, e)
	best, bestv := -1, math.Inf(1)
	for i, eta := range etas {
		if eta <= 0 {
			continue
		}
		if v := cmplx.Abs(complex(eta, 0) * d[i]); v < bestv {
			best, bestv = i, v
		}
	}
	if best < 0 {
		return -1, Error{ErrNoPositiveEta, []string{"optimal"}, true}
	}
	return best, nil
}

// Optimal returns the eta that minimizes |eta dE/deta| along the trajectory, and the
// energy at that point.
func (T *Trajectory) Optimal() (float64, complex128, error) {
	i, err := optimal(T.Etas, T.Energies)
	if err != nil {
		return 0, 0, errDecorate(err, "Optimal")
	}
	return T.Etas[i], T.Energies[i], nil
}

// OptimalCorrected returns the eta that minimizes |eta dU/deta| for the corrected
// energies U, and the corrected energy at that point.
func (T *Trajectory) OptimalCorrected() (float64, complex128, error) {
	u := T.Corrected()
	i, err := optimal(T.Etas, u)
	if err != nil {
		return 0, 0, errDecorate(err, "OptimalCorrected")
	}
	return T.Etas[i], u[i], nil
}

// Shifted returns a copy of the trajectory with ref subtracted from every energy, and
// the result multiplied by factor (e.g. HartreeToEV).
func (T *Trajectory) Shifted(ref, factor float64) *Trajectory {
	ret := &Trajectory{Etas: append([]float64(nil), T.Etas...), Energies: make([]complex128, T.Len())}
	for i, e := range T.Energies {
		ret.Energies[i] = (e - complex(ref, 0)) * complex(factor, 0)
	}
	return ret
}
