/*
 * cap.go, part of gocap.
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
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/rmera/gocap/basis"
	"github.com/rmera/gocap/config"
	"github.com/rmera/gocap/grid"
	"github.com/rmera/gocap/qm"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Defaults for the integration grid.
const (
	DefaultRadialPrecision = 14
	DefaultAngularPoints   = 590
)

//grid points integrated together by one goroutine.
const chunkSize = 2048

// CAP is a complex absorbing potential for a System, together with the density
// matrices needed to project it on nstates electronic states. All matrices
// are stored in the internal AO ordering; the package given to NewCAP sets the
// ordering of the matrices that go in and out.
type CAP struct {
	sys     *System
	pot     Potential
	nstates int
	pkg     string

	radialPrecision int
	angularPoints   int

	alpha [][]*mat.Dense
	beta  [][]*mat.Dense

	aocap   *mat.SymDense //as integrated, for normalized basis functions
	scaled  *mat.SymDense //renormalized to the package's basis functions, or nil
	perturb *mat.Dense

	logger  *slog.Logger
	workers int
}

// NewCAP returns a CAP on the system sys, for nstates states whose densities will be
// given in the AO ordering of pkg. params holds the potential (see NewPotential), and
// the grid parameters "radial_precision" (default 14) and "angular_points" (default 590).
func NewCAP(sys *System, params config.Params, nstates int, pkg string, opts ...Option) (*CAP, error) {
	set := newSettings(opts)
	if nstates < 1 {
		return nil, Error{fmt.Sprintf("%s: %d", ErrNStates, nstates), []string{"NewCAP"}, true}
	}
	p, err := basis.CheckPackage(pkg)
	if err != nil {
		return nil, errDecorate(err, "NewCAP")
	}
	pot, err := NewPotential(sys.atoms, params)
	if err != nil {
		return nil, errDecorate(err, "NewCAP")
	}
	C := &CAP{sys: sys, pot: pot, nstates: nstates, pkg: p, logger: set.logger, workers: set.workers}
	C.radialPrecision, err = params.IntOr("radial_precision", DefaultRadialPrecision)
	if err != nil {
		return nil, errDecorate(err, "NewCAP")
	}
	C.angularPoints, err = params.IntOr("angular_points", DefaultAngularPoints)
	if err != nil {
		return nil, errDecorate(err, "NewCAP")
	}
	if _, err := grid.RadialPoints(C.radialPrecision); err != nil {
		return nil, errDecorate(err, "NewCAP")
	}
	if _, err := grid.AngularDegree(C.angularPoints); err != nil {
		return nil, errDecorate(err, "NewCAP")
	}
	C.alpha = make([][]*mat.Dense, nstates)
	C.beta = make([][]*mat.Dense, nstates)
	for i := range C.alpha {
		C.alpha[i] = make([]*mat.Dense, nstates)
		C.beta[i] = make([]*mat.Dense, nstates)
	}
	C.logger.Info("CAP created", "potential", pot.String(), "states", nstates, "package", p)
	return C, nil
}

// Potential returns the absorbing potential.
func (C *CAP) Potential() Potential { return C.pot }

// NStates returns the number of states.
func (C *CAP) NStates() int { return C.nstates }

func (C *CAP) checkInput(i, j int, pkg string, caller string) error {
	if i < 0 || j < 0 || i >= C.nstates || j >= C.nstates {
		return Error{fmt.Sprintf("%s: (%d,%d), %d states", ErrStateIndex, i, j, C.nstates), []string{caller}, true}
	}
	p, err := basis.CheckPackage(pkg)
	if err != nil {
		return errDecorate(err, caller)
	}
	if p != C.pkg {
		return Error{fmt.Sprintf("%s: %s, CAP created for %s", ErrPackageMismatch, p, C.pkg), []string{caller}, true}
	}
	return nil
}

func accumulate(dst **mat.Dense, m *mat.Dense, factor float64) {
	if *dst == nil {
		r, c := m.Dims()
		*dst = mat.NewDense(r, c, nil)
	}
	(*dst).Apply(func(i, j int, v float64) float64 { return v + factor*m.At(i, j) }, *dst)
}

// AddTDM adds the spin-traced transition density matrix dm, between states i and j
// and in the AO ordering of pkg, to what was accumulated for the pair. Half of dm is
// taken as the alpha density and half as the beta one.
func (C *CAP) AddTDM(dm mat.Matrix, i, j int, pkg string) error {
	if err := C.checkInput(i, j, pkg, "AddTDM"); err != nil {
		return err
	}
	m, err := basis.FromPackage(dm, C.sys.bs, C.pkg)
	if err != nil {
		return errDecorate(err, "AddTDM")
	}
	accumulate(&C.alpha[i][j], m, 0.5)
	accumulate(&C.beta[i][j], m, 0.5)
	C.perturb = nil
	return nil
}

// AddTDMs adds the alpha and beta transition density matrices between states i and j,
// in the AO ordering of pkg, to what was accumulated for the pair.
func (C *CAP) AddTDMs(alpha, beta mat.Matrix, i, j int, pkg string) error {
	if err := C.checkInput(i, j, pkg, "AddTDMs"); err != nil {
		return err
	}
	a, err := basis.FromPackage(alpha, C.sys.bs, C.pkg)
	if err != nil {
		return errDecorate(err, "AddTDMs")
	}
	b, err := basis.FromPackage(beta, C.sys.bs, C.pkg)
	if err != nil {
		return errDecorate(err, "AddTDMs")
	}
	accumulate(&C.alpha[i][j], a, 1)
	accumulate(&C.beta[i][j], b, 1)
	C.perturb = nil
	return nil
}

// ComputeAOCAP integrates the potential between every pair of basis functions on a
// Becke grid. Chunks of grid points are integrated concurrently. It can be cancelled
// through ctx.
func (C *CAP) ComputeAOCAP(ctx context.Context) error {
	G, err := grid.New(C.sys.atoms, C.radialPrecision, C.angularPoints)
	if err != nil {
		return errDecorate(err, "ComputeAOCAP")
	}
	C.logger.Info("integrating AO CAP", "radial", G.RadialPoints, "angular", G.AngularPoints, "points", G.NPoints(), "workers", C.workers)
	type chunk struct {
		points  [][3]float64
		weights []float64
	}
	var chunks []chunk
	for _, b := range G.Blocks {
		for s := 0; s < len(b.Points); s += chunkSize {
			e := s + chunkSize
			if e > len(b.Points) {
				e = len(b.Points)
			}
			chunks = append(chunks, chunk{b.Points[s:e], b.Weights[s:e]})
		}
	}
	partial := make([]*mat.SymDense, len(chunks))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(C.workers)
	for i, c := range chunks {
		i, c := i, c // per-iteration copies (go directive is 1.21)
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partial[i] = integrateChunk(C.sys.bs, C.pot, c.points, c.weights)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return causeError{Error{fmt.Sprintf("integration interrupted: %v", err), []string{"ComputeAOCAP"}, true}, err}
	}
	n := C.sys.NBasis()
	W := mat.NewSymDense(n, nil)
	for _, p := range partial {
		if p != nil {
			W.AddSym(W, p)
		}
	}
	C.aocap = W
	C.scaled = nil
	C.perturb = nil
	C.logger.Debug("AO CAP computed", "functions", n, "chunks", len(chunks))
	return nil
}

// integrateChunk returns sum_p w_p W(p) phi_i(p) phi_j(p) over the given points, or nil
// if the potential vanishes on all of them.
func integrateChunk(bs *basis.BasisSet, pot Potential, points [][3]float64, weights []float64) *mat.SymDense {
	pts := make([][3]float64, 0, len(points))
	f := make([]float64, 0, len(points))
	for i, p := range points {
		if v := weights[i] * pot.Eval(p); v > 0 {
			pts = append(pts, p)
			f = append(f, math.Sqrt(v))
		}
	}
	if len(pts) == 0 {
		return nil
	}
	phi := bs.Eval(pts, nil)
	for i, v := range f {
		row := phi.RawRowView(i)
		for j := range row {
			row[j] *= v
		}
	}
	ret := new(mat.SymDense)
	ret.SymOuterK(1, phi.T())
	return ret
}

// RenormalizeCAP rescales the AO CAP matrix so it refers to the basis functions of
// the program pkg, whose overlap matrix is smat: W'_kl = d_k d_l W_kl, where d_k is
// the square root of the k-th diagonal element of smat.
func (C *CAP) RenormalizeCAP(smat mat.Matrix, pkg string) error {
	if C.aocap == nil {
		return Error{ErrNoAOCAP, []string{"RenormalizeCAP"}, true}
	}
	if err := C.checkInput(0, 0, pkg, "RenormalizeCAP"); err != nil {
		return err
	}
	n := C.sys.NBasis()
	if r, c := smat.Dims(); r != n || c != n {
		return Error{fmt.Sprintf("%s: %dx%d given, %d functions", ErrDimension, r, c, n), []string{"RenormalizeCAP"}, true}
	}
	d, err := basis.DiagonalScale(smat)
	if err != nil {
		return errDecorate(err, "RenormalizeCAP")
	}
	perm, err := basis.Permutation(C.sys.bs, C.pkg)
	if err != nil {
		return errDecorate(err, "RenormalizeCAP")
	}
	internal := make([]float64, n)
	for k, p := range perm {
		internal[p] = d[k]
	}
	S := mat.NewSymDense(n, nil)
	for k := 0; k < n; k++ {
		for l := k; l < n; l++ {
			S.SetSym(k, l, internal[k]*internal[l]*C.aocap.At(k, l))
		}
	}
	C.scaled = S
	C.perturb = nil
	C.logger.Info("AO CAP renormalized", "package", C.pkg)
	return nil
}

// current returns the AO CAP to be used: the renormalized one, if available.
func (C *CAP) current() *mat.SymDense {
	if C.scaled != nil {
		return C.scaled
	}
	return C.aocap
}

// AOCAP returns a copy of the AO CAP matrix (renormalized, if RenormalizeCAP was called)
// in the ordering of pkg.
func (C *CAP) AOCAP(pkg string) (*mat.Dense, error) {
	if C.aocap == nil {
		return nil, Error{ErrNoAOCAP, []string{"AOCAP"}, true}
	}
	ret, err := basis.ToPackage(C.current(), C.sys.bs, pkg)
	return ret, errDecorate(err, "AOCAP")
}

// traceProduct returns tr(a w) for the symmetric w.
func traceProduct(a *mat.Dense, w mat.Symmetric) float64 {
	var s float64
	n, _ := a.Dims()
	for k := 0; k < n; k++ {
		row := a.RawRowView(k)
		for l, v := range row {
			s += v * w.At(l, k)
		}
	}
	return s
}

// ComputePerturbCAP projects the AO CAP on the states: W_ij = -(tr(gamma^alpha_ij W) +
// tr(gamma^beta_ij W)). Every pair of states must have a density matrix.
func (C *CAP) ComputePerturbCAP() error {
	if C.aocap == nil {
		return Error{ErrNoAOCAP, []string{"ComputePerturbCAP"}, true}
	}
	if C.scaled == nil {
		C.logger.Warn("the AO CAP was not renormalized; the basis functions of the package are assumed to be normalized", "package", C.pkg)
	}
	W := C.current()
	P := mat.NewDense(C.nstates, C.nstates, nil)
	for i := 0; i < C.nstates; i++ {
		for j := 0; j < C.nstates; j++ {
			a, b := C.alpha[i][j], C.beta[i][j]
			if a == nil || b == nil {
				return Error{fmt.Sprintf("%s (%d,%d)", ErrMissingTDM, i, j), []string{"ComputePerturbCAP"}, true}
			}
			P.Set(i, j, -(traceProduct(a, W) + traceProduct(b, W)))
		}
	}
	C.perturb = P
	C.logger.Info("perturbative CAP computed", "states", C.nstates)
	return nil
}

// PerturbCAP returns a copy of the nstates x nstates CAP matrix computed by ComputePerturbCAP.
func (C *CAP) PerturbCAP() (*mat.Dense, error) {
	if C.perturb == nil {
		return nil, Error{ErrNoPerturbCAP, []string{"PerturbCAP"}, true}
	}
	return mat.DenseCopyOf(C.perturb), nil
}

// ReadDensities adds the alpha and beta state and transition densities for all pairs
// of states, as obtained from r, which must use the same AO ordering as the CAP.
func (C *CAP) ReadDensities(r qm.Reader) error {
	if !strings.EqualFold(r.Package(), C.pkg) {
		return Error{fmt.Sprintf("%s: %s, CAP created for %s", ErrPackageMismatch, r.Package(), C.pkg), []string{"ReadDensities"}, true}
	}
	d, err := r.Densities(C.nstates, C.sys.NBasis())
	if err != nil {
		return errDecorate(err, "ReadDensities")
	}
	for i := 0; i < C.nstates; i++ {
		for j := 0; j < C.nstates; j++ {
			if err := C.AddTDMs(d[0][i][j], d[1][i][j], i, j, C.pkg); err != nil {
				return errDecorate(err, "ReadDensities")
			}
		}
	}
	return nil
}
