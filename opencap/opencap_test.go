/*
 * opencap_test.go, part of gocap.
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
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/gocap"
	"github.com/rmera/gocap/basis"
	"github.com/rmera/gocap/config"
	"github.com/rmera/gocap/qm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testInput(Te *testing.T) config.Input {
	in, err := config.Read("../test/h2.in")
	require.NoError(Te, err)
	return in
}

func testSystem(Te *testing.T) *System {
	sys, err := NewSystem(testInput(Te).Section(config.SectionSystem))
	require.NoError(Te, err)
	return sys
}

// smallCAP returns the CAP parameters of the test input, with a cheaper grid.
func smallCAP(Te *testing.T) config.Params {
	p := config.Merge(testInput(Te).Section(config.SectionCAP), config.Params{"radial_precision": "8"})
	return p
}

func randomMatrix(r *rand.Rand, n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Set(i, j, r.Float64()-0.5)
		}
	}
	return m
}

func TestNewSystem(Te *testing.T) {
	sys := testSystem(Te)
	assert.Equal(Te, 46, sys.NBasis())
	assert.Len(Te, sys.Atoms(), 3)
	fmt.Println(sys.BasisIDs())
	xyz := config.Merge(testInput(Te).Section(config.SectionSystem), config.Params{"molecule": "xyz", "xyz_file": "../test/h2.xyz"})
	sys2, err := NewSystem(xyz)
	require.NoError(Te, err)
	assert.True(Te, mat.EqualApprox(sys.Overlap(), sys2.Overlap(), 1e-10))
	fchk, err := NewSystem(config.Params{"molecule": "qchem_fchk", "basis_file": "../test/qchem_test.fchk"})
	require.NoError(Te, err)
	assert.Equal(Te, 11, fchk.NBasis())
	_, err = NewSystem(config.Params{"molecule": "gaussian"})
	assert.Error(Te, err)
	_, err = NewSystem(config.Params{"molecule": "inline", "basis_file": "../test/test_basis.bas"})
	assert.Error(Te, err)
}

func TestMoldenSystem(Te *testing.T) {
	sys := testSystem(Te)
	for _, ext := range []string{".molden", ".molden.zst"} {
		name := filepath.Join(Te.TempDir(), "h2"+ext)
		require.NoError(Te, sys.WriteMolden(name, nil))
		sys2, err := NewSystem(config.NewParams(map[string]string{"Molecule": "molden", "basis_file": name}))
		require.NoError(Te, err)
		assert.True(Te, mat.EqualApprox(sys.Overlap(), sys2.Overlap(), 1e-8))
		ref, err := sys.OverlapIn(basis.PySCF)
		require.NoError(Te, err)
		assert.NoError(Te, sys2.CheckOverlap(ref, basis.PySCF))
	}
}

// primitive overlaps between normalized Gaussians with exponents a and b, on centers
// separated by d along z (d = Az - Bz, the s function on A).
func ssPrim(a, b, d float64) float64 {
	p := a + b
	return math.Pow(4*a*b/(p*p), 0.75) * math.Exp(-a*b/p*d*d)
}

func spzPrim(a, b, d float64) float64 {
	return ssPrim(a, b, d) * 2 * math.Sqrt(b) * a * d / (a + b)
}

func pzpzPrim(a, b float64) float64 {
	return ssPrim(a, b, 0) * 2 * math.Sqrt(a*b) / (a + b)
}

// contracted returns the overlap between two contractions of normalized primitives,
// each contraction normalized with its own self-overlap.
func contracted(ea, ca, eb, cb []float64, prim func(a, b float64) float64, selfa, selfb func(a, b float64) float64) float64 {
	sum := func(e1, c1, e2, c2 []float64, f func(a, b float64) float64) float64 {
		var s float64
		for i := range e1 {
			for j := range e2 {
				s += c1[i] * c2[j] * f(e1[i], e2[j])
			}
		}
		return s
	}
	return sum(ea, ca, eb, cb, prim) / math.Sqrt(sum(ea, ca, ea, ca, selfa)*sum(eb, cb, eb, cb, selfb))
}

func TestOverlapAnalytic(Te *testing.T) {
	sto := [2][]float64{{3.42525091, 0.62391373, 0.16885540}, {0.15432897, 0.53532814, 0.44463454}}
	diffH := [2][]float64{{0.0360}, {1}}
	pH := [2][]float64{{0.75}, {1}}
	sX := [2][]float64{{0.0250}, {1}}
	spS := [2][]float64{{1.20, 0.12}, {0.40, 0.70}}
	spP := [2][]float64{{1.20, 0.12}, {0.60, 0.50}}
	ss0 := func(a, b float64) float64 { return ssPrim(a, b, 0) }
	//the s and p blocks do not depend on whether the d, f and g shells are Cartesian.
	for _, cart := range []string{"dfg", ""} {
		sys, err := NewSystem(config.Merge(testInput(Te).Section(config.SectionSystem), config.Params{"cart_bf": cart}))
		require.NoError(Te, err)
		S, err := sys.OverlapIn(basis.PySCF)
		require.NoError(Te, err)
		h1, h2, x := sys.Atoms()[0].Coords[2], sys.Atoms()[1].Coords[2], sys.Atoms()[2].Coords[2]
		ss := func(d float64) func(a, b float64) float64 {
			return func(a, b float64) float64 { return ssPrim(a, b, d) }
		}
		sp := func(d float64) func(a, b float64) float64 {
			return func(a, b float64) float64 { return spzPrim(a, b, d) }
		}
		//PySCF order: H1 s s px py pz, H2 s s px py pz, X s s px py pz d...
		expected := []struct {
			i, j int
			ref  float64
		}{
			{0, 1, contracted(sto[0], sto[1], diffH[0], diffH[1], ss0, ss0, ss0)},
			{0, 5, contracted(sto[0], sto[1], sto[0], sto[1], ss(h1-h2), ss0, ss0)},
			{1, 6, contracted(diffH[0], diffH[1], diffH[0], diffH[1], ss(h1-h2), ss0, ss0)},
			{0, 10, contracted(sto[0], sto[1], sX[0], sX[1], ss(h1-x), ss0, ss0)},
			{0, 11, contracted(sto[0], sto[1], spS[0], spS[1], ss(h1-x), ss0, ss0)},
			{5, 11, contracted(sto[0], sto[1], spS[0], spS[1], ss(h2-x), ss0, ss0)},
			{0, 14, contracted(sto[0], sto[1], spP[0], spP[1], sp(h1-x), ss0, pzpzPrim)},
			{5, 14, contracted(sto[0], sto[1], spP[0], spP[1], sp(h2-x), ss0, pzpzPrim)},
			{1, 9, contracted(diffH[0], diffH[1], pH[0], pH[1], sp(h1-h2), ss0, pzpzPrim)},
			{10, 14, 0},
			{0, 12, 0},
			{0, 13, 0},
			{4, 4, 1},
			{14, 14, 1},
		}
		for _, e := range expected {
			assert.InDelta(Te, e.ref, S.At(e.i, e.j), 1e-8, "cart_bf %q element (%d,%d)", cart, e.i, e.j)
			assert.InDelta(Te, e.ref, S.At(e.j, e.i), 1e-8)
		}
		assert.Equal(Te, map[string]int{"dfg": 46, "": 36}[cart], sys.NBasis())
	}
}

func TestPySCFMolden(Te *testing.T) {
	sys, err := NewSystem(config.Params{"Molecule": "molden", "Basis_File": "../test/h2_pyscf.molden"})
	require.NoError(Te, err)
	require.Equal(Te, 36, sys.NBasis())
	require.Len(Te, sys.Atoms(), 3)
	assert.True(Te, sys.Atoms()[2].Ghost())
	for _, s := range sys.Basis().Shells {
		if s.L > 1 {
			assert.True(Te, s.Spherical())
		}
	}
	//the same basis, read from the Gaussian94 file and placed on the inline geometry.
	inline, err := NewSystem(config.Merge(testInput(Te).Section(config.SectionSystem), config.Params{"cart_bf": ""}))
	require.NoError(Te, err)
	ref, err := inline.OverlapIn(basis.PySCF)
	require.NoError(Te, err)
	assert.NoError(Te, sys.CheckOverlap(ref, basis.PySCF))
	cart, err := NewSystem(testInput(Te).Section(config.SectionSystem))
	require.NoError(Te, err)
	cref, err := cart.OverlapIn(basis.PySCF)
	require.NoError(Te, err)
	assert.Error(Te, cart.CheckOverlap(ref, basis.PySCF))
	assert.Error(Te, sys.CheckOverlap(cref, basis.PySCF))
}

// boxTail returns the integral of (|x|-c)^2 over |x|>c, weighted with the normalized
// density sqrt(beta/pi) exp(-beta x^2).
func boxTail(beta, c float64) float64 {
	i0 := 0.5 * math.Sqrt(math.Pi/beta) * math.Erfc(c*math.Sqrt(beta))
	i1 := math.Exp(-beta*c*c) / (2 * beta)
	i2 := c*math.Exp(-beta*c*c)/(2*beta) + i0/(2*beta)
	return 2 * math.Sqrt(beta/math.Pi) * (i2 - 2*c*i1 + c*c*i0)
}

func TestAOCAPAnalytic(Te *testing.T) {
	const alpha = 0.2
	dir := Te.TempDir()
	bname := filepath.Join(dir, "s.bas")
	require.NoError(Te, os.WriteFile(bname, []byte(fmt.Sprintf("****\nH     0\nS   1   1.00\n      %.4f    1.0\n****\n", alpha)), 0644))
	sys, err := NewSystem(config.Params{"molecule": "inline", "geometry": "H 0.0 0.0 0.0", "basis_file": bname})
	require.NoError(Te, err)
	require.Equal(Te, 1, sys.NBasis())
	box := config.Params{"cap_type": "box", "cap_x": "1.0", "cap_y": "1.5", "cap_z": "2.0", "radial_precision": "14", "angular_points": "590"}
	C, err := NewCAP(sys, box, 1, basis.PySCF)
	require.NoError(Te, err)
	require.NoError(Te, C.ComputeAOCAP(context.Background()))
	W, err := C.AOCAP(basis.PySCF)
	require.NoError(Te, err)
	ref := boxTail(2*alpha, 1.0) + boxTail(2*alpha, 1.5) + boxTail(2*alpha, 2.0)
	assert.InEpsilon(Te, ref, W.At(0, 0), 1e-4)
}

func TestCheckOverlap(Te *testing.T) {
	sys := testSystem(Te)
	n := sys.NBasis()
	for _, pkg := range basis.Packages() {
		S, err := sys.OverlapIn(pkg)
		require.NoError(Te, err)
		//the reference program may normalize its functions differently.
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				S.Set(i, j, S.At(i, j)*(1+0.1*float64(i%3))*(1+0.1*float64(j%3)))
			}
		}
		assert.NoError(Te, sys.CheckOverlap(S, pkg), pkg)
		S.Set(20, 3, S.At(20, 3)+1e-3)
		err = sys.CheckOverlap(S, pkg)
		assert.Error(Te, err, pkg)
		fmt.Println(err)
	}
	//a different ordering does not match.
	S, err := sys.OverlapIn(basis.QChem)
	require.NoError(Te, err)
	assert.Error(Te, sys.CheckOverlap(S, basis.Molden))
	assert.Error(Te, sys.CheckOverlap(mat.NewDense(3, 3, nil), basis.PySCF))
	assert.Error(Te, sys.CheckOverlap(S, "turbomole"))
}

func TestPotentials(Te *testing.T) {
	b := &Box{X: 1, Y: 2, Z: 3}
	assert.Equal(Te, 0.0, b.Eval([3]float64{0.5, -1.5, 2.9}))
	assert.InDelta(Te, 1+0.25+4, b.Eval([3]float64{-2, 2.5, 5}), 1e-12)
	sys := testSystem(Te)
	v := NewVoronoi(sys.Atoms(), 2)
	//the ghost center is not a CAP center
	assert.Equal(Te, 0.0, v.Eval(sys.Atoms()[2].Coords))
	far := [3]float64{10, 0, 0}
	r := math.Hypot(10, sys.Atoms()[0].Coords[2])
	assert.InDelta(Te, r, v.Distance(far), 1e-10)
	assert.InDelta(Te, (r-2)*(r-2), v.Eval(far), 1e-9)
	near := sys.Atoms()[0].Coords
	near[2] += 3
	assert.InDelta(Te, 3, v.Distance(near), 1e-3)
	_, err := NewPotential(sys.Atoms(), config.Params{"cap_type": "box", "cap_x": "1", "cap_y": "1"})
	assert.Error(Te, err)
	_, err = NewPotential(sys.Atoms(), config.Params{"cap_type": "box", "cap_x": "1", "cap_y": "1", "cap_z": "-1"})
	assert.Error(Te, err)
	_, err = NewPotential(sys.Atoms(), config.Params{"cap_type": "sphere"})
	assert.Error(Te, err)
	p, err := NewPotential(sys.Atoms(), config.Params{"cap_type": "Voronoi", "r_cut": "2.5"})
	require.NoError(Te, err)
	fmt.Println(p)
}

func TestCAPErrors(Te *testing.T) {
	sys := testSystem(Te)
	n := sys.NBasis()
	_, err := NewCAP(sys, smallCAP(Te), 0, basis.PySCF)
	assert.Error(Te, err)
	_, err = NewCAP(sys, smallCAP(Te), 2, "nwchem")
	assert.Error(Te, err)
	_, err = NewCAP(sys, config.Merge(smallCAP(Te), config.Params{"angular_points": "100"}), 2, basis.PySCF)
	assert.Error(Te, err)
	_, err = NewCAP(sys, config.Merge(smallCAP(Te), config.Params{"radial_precision": "x"}), 2, basis.PySCF)
	assert.Error(Te, err)
	C, err := NewCAP(sys, smallCAP(Te), 2, basis.PySCF)
	require.NoError(Te, err)
	dm := mat.NewDense(n, n, nil)
	assert.Error(Te, C.AddTDM(dm, 2, 0, basis.PySCF))
	assert.Error(Te, C.AddTDM(dm, 0, -1, basis.PySCF))
	assert.Error(Te, C.AddTDM(dm, 0, 0, basis.QChem))
	assert.Error(Te, C.AddTDM(mat.NewDense(n-1, n-1, nil), 0, 0, basis.PySCF))
	assert.Error(Te, C.ComputePerturbCAP())
	assert.Error(Te, C.RenormalizeCAP(sys.Overlap(), basis.PySCF))
	_, err = C.PerturbCAP()
	assert.Error(Te, err)
	_, err = C.AOCAP(basis.PySCF)
	assert.Error(Te, err)
	require.NoError(Te, C.AddTDM(dm, 0, 0, basis.PySCF))
	require.NoError(Te, C.ComputeAOCAP(context.Background()))
	//pairs without densities
	assert.Error(Te, C.ComputePerturbCAP())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = C.ComputeAOCAP(ctx)
	require.Error(Te, err)
	assert.ErrorIs(Te, err, context.Canceled)
	_, ok := err.(gocap.Error)
	assert.True(Te, ok)
}

func TestAOCAP(Te *testing.T) {
	sys := testSystem(Te)
	n := sys.NBasis()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	C, err := NewCAP(sys, smallCAP(Te), 1, basis.PySCF, WithLogger(logger), WithWorkers(3))
	require.NoError(Te, err)
	require.NoError(Te, C.ComputeAOCAP(context.Background()))
	assert.Contains(Te, buf.String(), "AO CAP")
	W, err := C.AOCAP(basis.OpenCAP)
	require.NoError(Te, err)
	var wmax float64
	for i := 0; i < n; i++ {
		assert.GreaterOrEqual(Te, W.At(i, i), 0.0)
		for j := 0; j < n; j++ {
			assert.Equal(Te, W.At(i, j), W.At(j, i))
		}
		wmax = math.Max(wmax, W.At(i, i))
	}
	//the diffuse functions reach the CAP region.
	assert.Greater(Te, wmax, 0.0)
	//a single worker gives the same matrix
	C1, err := NewCAP(sys, smallCAP(Te), 1, basis.PySCF, WithWorkers(1))
	require.NoError(Te, err)
	require.NoError(Te, C1.ComputeAOCAP(context.Background()))
	W1, err := C1.AOCAP(basis.OpenCAP)
	require.NoError(Te, err)
	assert.True(Te, mat.EqualApprox(W, W1, 1e-14))
	//a box far away from the molecule absorbs nothing.
	far := config.Merge(smallCAP(Te), config.Params{"cap_x": "500", "cap_y": "500", "cap_z": "500"})
	C2, err := NewCAP(sys, far, 1, basis.PySCF)
	require.NoError(Te, err)
	require.NoError(Te, C2.ComputeAOCAP(context.Background()))
	W2, err := C2.AOCAP(basis.PySCF)
	require.NoError(Te, err)
	assert.Equal(Te, 0.0, mat.Norm(W2, 1))
}

func TestPerturbCAP(Te *testing.T) {
	sys := testSystem(Te)
	n := sys.NBasis()
	const nstates = 3
	pkg := basis.PySCF
	r := rand.New(rand.NewSource(7))
	tdms := make([][]*mat.Dense, nstates)
	for i := range tdms {
		tdms[i] = make([]*mat.Dense, nstates)
		for j := range tdms[i] {
			tdms[i][j] = randomMatrix(r, n)
		}
	}
	S, err := sys.OverlapIn(pkg)
	require.NoError(Te, err)
	scale := make([]float64, n)
	for i := range scale {
		scale[i] = 1 + 0.2*float64(i%4)
	}
	ref := mat.NewDense(n, n, nil)
	ref.Apply(func(i, j int, v float64) float64 { return scale[i] * scale[j] * S.At(i, j) }, ref)
	build := func() (*CAP, *mat.Dense) {
		C, err := NewCAP(sys, smallCAP(Te), nstates, pkg)
		require.NoError(Te, err)
		for i := 0; i < nstates; i++ {
			for j := 0; j < nstates; j++ {
				require.NoError(Te, C.AddTDM(tdms[i][j], i, j, pkg))
			}
		}
		require.NoError(Te, C.ComputeAOCAP(context.Background()))
		require.NoError(Te, C.RenormalizeCAP(ref, pkg))
		require.NoError(Te, C.ComputePerturbCAP())
		P, err := C.PerturbCAP()
		require.NoError(Te, err)
		return C, P
	}
	C, P := build()
	_, P2 := build()
	assert.True(Te, mat.EqualApprox(P, P2, 1e-14), "perturbative CAP is not deterministic")
	fmt.Printf("%v\n", mat.Formatted(P))
	//W_ij = -tr(gamma_ij W), with W renormalized to the reference.
	raw := func() *mat.Dense {
		C0, err := NewCAP(sys, smallCAP(Te), nstates, pkg)
		require.NoError(Te, err)
		require.NoError(Te, C0.ComputeAOCAP(context.Background()))
		W, err := C0.AOCAP(pkg)
		require.NoError(Te, err)
		return W
	}()
	W, err := C.AOCAP(pkg)
	require.NoError(Te, err)
	for k := 0; k < n; k++ {
		for l := 0; l < n; l++ {
			assert.InDelta(Te, scale[k]*scale[l]*raw.At(k, l), W.At(k, l), 1e-12)
		}
	}
	for i := 0; i < nstates; i++ {
		for j := 0; j < nstates; j++ {
			var want float64
			for k := 0; k < n; k++ {
				for l := 0; l < n; l++ {
					want -= tdms[i][j].At(k, l) * W.At(l, k)
				}
			}
			assert.InDelta(Te, want, P.At(i, j), 1e-10)
		}
	}
	//renormalizing twice does not scale twice.
	require.NoError(Te, C.RenormalizeCAP(ref, pkg))
	W3, err := C.AOCAP(pkg)
	require.NoError(Te, err)
	assert.True(Te, mat.EqualApprox(W, W3, 1e-14))
	//densities accumulate: adding the same matrices again doubles the result.
	for i := 0; i < nstates; i++ {
		for j := 0; j < nstates; j++ {
			half := mat.NewDense(n, n, nil)
			half.Scale(0.5, tdms[i][j])
			require.NoError(Te, C.AddTDMs(half, half, i, j, pkg))
		}
	}
	require.NoError(Te, C.ComputePerturbCAP())
	P3, err := C.PerturbCAP()
	require.NoError(Te, err)
	doubled := mat.NewDense(nstates, nstates, nil)
	doubled.Scale(2, P)
	assert.True(Te, mat.EqualApprox(doubled, P3, 1e-10))
}

func TestReadDensities(Te *testing.T) {
	sys, err := NewSystem(config.Params{"molecule": "qchem_fchk", "basis_file": "../test/qchem_test.fchk"})
	require.NoError(Te, err)
	p := config.Params{"cap_type": "box", "cap_x": "3", "cap_y": "3", "cap_z": "3", "radial_precision": "6", "angular_points": "50"}
	C, err := NewCAP(sys, p, 2, basis.QChem)
	require.NoError(Te, err)
	require.NoError(Te, C.ReadDensities(qm.NewQChem("../test/qchem_test.fchk", "", "")))
	require.NoError(Te, C.ComputeAOCAP(context.Background()))
	require.NoError(Te, C.ComputePerturbCAP())
	P, err := C.PerturbCAP()
	require.NoError(Te, err)
	r, c := P.Dims()
	assert.Equal(Te, 2, r)
	assert.Equal(Te, 2, c)
	C2, err := NewCAP(sys, p, 2, basis.PySCF)
	require.NoError(Te, err)
	assert.Error(Te, C2.ReadDensities(qm.NewQChem("../test/qchem_test.fchk", "", "")))
}
