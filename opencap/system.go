/*
 * system.go, part of gocap.
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

// Package opencap builds complex absorbing potentials (CAPs) in Gaussian basis sets and
// projects them on electronic states through their (transition) density matrices.
//
// A System holds the molecular geometry and the basis set, read either from an inline
// geometry plus a basis set file, or from Molden, Q-Chem fchk or xyz files. A CAP
// integrates the absorbing potential numerically on a Becke grid and accumulates
// the density matrices of the states, in the AO ordering of the program they
// come from.
package opencap

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/rmera/gocap"
	"github.com/rmera/gocap/basis"
	"github.com/rmera/gocap/config"
	"github.com/rmera/gocap/molden"
	"github.com/rmera/gocap/qm"
	"gonum.org/v1/gonum/mat"
)

// OverlapTolerance is the largest difference allowed between elements of the
// computed and the reference overlap matrices.
const OverlapTolerance = 1e-5

// Molecule modes accepted in the "molecule" key.
const (
	MoleculeInline = "inline"
	MoleculeMolden = "molden"
	MoleculeFchk   = "qchem_fchk"
	MoleculeXYZ    = "xyz"
)

// System is a molecular geometry with its basis set.
type System struct {
	atoms   []*gocap.Atom
	bs      *basis.BasisSet
	overlap *mat.SymDense
	logger  *slog.Logger
}

// NewSystem builds a System from params. The "molecule" key selects the source:
//
//	inline: "geometry" holds the atoms ("Symbol x y z" lines, Angstrom unless
//	        "bohr_coordinates" is true), "basis_file" a Gaussian94 basis set file,
//	        and "cart_bf" the shells to use as Cartesian (e.g. "dfg").
//	xyz: as inline, but the geometry is read from the xyz file in "xyz_file".
//	molden: atoms and basis set are read from the Molden file "basis_file".
//	qchem_fchk: atoms and basis set are read from the Q-Chem fchk file "basis_file".
func NewSystem(params config.Params, opts ...Option) (*System, error) {
	set := newSettings(opts)
	mode := strings.ToLower(params.StringOr("molecule", MoleculeInline))
	S := &System{logger: set.logger}
	var err error
	switch mode {
	case MoleculeInline, MoleculeXYZ:
		S.atoms, S.bs, err = fromBasisFile(params, mode)
	case MoleculeMolden:
		var name string
		name, err = params.String("basis_file")
		if err == nil {
			S.atoms, S.bs, err = molden.Read(name)
		}
	case MoleculeFchk:
		var name string
		name, err = params.String("basis_file")
		if err == nil {
			S.atoms, S.bs, err = qm.ReadFchkSystem(name)
		}
	default:
		return nil, Error{fmt.Sprintf("%s: %q", ErrUnknownMolecule, mode), []string{"NewSystem"}, true}
	}
	if err != nil {
		return nil, errDecorate(err, "NewSystem")
	}
	S.overlap = basis.Overlap(S.bs)
	S.logger.Info("system built", "molecule", mode, "atoms", len(S.atoms), "shells", len(S.bs.Shells), "functions", S.bs.NBasis())
	return S, nil
}

func fromBasisFile(params config.Params, mode string) ([]*gocap.Atom, *basis.BasisSet, error) {
	var atoms []*gocap.Atom
	if mode == MoleculeXYZ {
		name, err := params.String("xyz_file")
		if err != nil {
			return nil, nil, errDecorate(err, "fromBasisFile")
		}
		atoms, err = gocap.XYZRead(name)
		if err != nil {
			return nil, nil, errDecorate(err, "fromBasisFile")
		}
	} else {
		geom, err := params.String("geometry")
		if err != nil {
			return nil, nil, errDecorate(err, "fromBasisFile")
		}
		bohr, err := params.Bool("bohr_coordinates")
		if err != nil {
			return nil, nil, errDecorate(err, "fromBasisFile")
		}
		atoms, err = gocap.ParseGeometry(geom, bohr)
		if err != nil {
			return nil, nil, errDecorate(err, "fromBasisFile")
		}
	}
	bname, err := params.String("basis_file")
	if err != nil {
		return nil, nil, errDecorate(err, "fromBasisFile")
	}
	tmpl, err := basis.ReadGaussian94(bname)
	if err != nil {
		return nil, nil, errDecorate(err, "fromBasisFile")
	}
	bs, err := basis.Build(atoms, tmpl, params.StringOr("cart_bf", ""))
	if err != nil {
		return nil, nil, errDecorate(err, "fromBasisFile")
	}
	return atoms, bs, nil
}

// Atoms returns the atoms of the system. They must not be modified.
func (S *System) Atoms() []*gocap.Atom { return S.atoms }

// Basis returns the basis set of the system.
func (S *System) Basis() *basis.BasisSet { return S.bs }

// NBasis returns the number of basis functions.
func (S *System) NBasis() int { return S.bs.NBasis() }

// Overlap returns the overlap matrix in the internal ordering. The matrix must
// not be modified.
func (S *System) Overlap() *mat.SymDense { return S.overlap }

// OverlapIn returns a copy of the overlap matrix in the AO ordering of pkg.
func (S *System) OverlapIn(pkg string) (*mat.Dense, error) {
	ret, err := basis.ToPackage(S.overlap, S.bs, pkg)
	return ret, errDecorate(err, "OverlapIn")
}

// BasisIDs returns a description of the basis functions, one per line, in the
// internal ordering.
func (S *System) BasisIDs() string {
	return S.bs.IDString()
}

// CheckOverlap compares the overlap matrix smat, computed by the program pkg, with
// the one of the system. smat is first normalized with its own diagonal, so the
// comparison does not depend on the normalization used by pkg. It returns an error
// naming the first element that differs by more than OverlapTolerance.
func (S *System) CheckOverlap(smat mat.Matrix, pkg string) error {
	n := S.NBasis()
	if r, c := smat.Dims(); r != n || c != n {
		return Error{fmt.Sprintf("%s: %dx%d given, %d functions", ErrDimension, r, c, n), []string{"CheckOverlap"}, true}
	}
	d, err := basis.DiagonalScale(smat)
	if err != nil {
		return errDecorate(err, "CheckOverlap")
	}
	own, err := basis.ToPackage(S.overlap, S.bs, pkg)
	if err != nil {
		return errDecorate(err, "CheckOverlap")
	}
	ids := S.bs.IDs()
	perm, err := basis.Permutation(S.bs, pkg)
	if err != nil {
		return errDecorate(err, "CheckOverlap")
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			ref := smat.At(i, j) / (d[i] * d[j])
			if diff := math.Abs(ref - own.At(i, j)); diff > OverlapTolerance || math.IsNaN(diff) {
				return Error{fmt.Sprintf("%s: element (%d,%d) [%s | %s] is %.8f, reference %.8f", ErrOverlapMismatch, i, j, ids[perm[i]], ids[perm[j]], own.At(i, j), ref), []string{"CheckOverlap"}, true}
			}
		}
	}
	S.logger.Info("overlap matches the reference", "package", pkg, "tolerance", OverlapTolerance)
	return nil
}

// WriteMolden writes the geometry, basis set and, if mos is not nil, molecular
// orbitals of the system to a Molden file.
func (S *System) WriteMolden(name string, mos *molden.MOSet) error {
	err := molden.Write(name, S.atoms, S.bs, mos)
	if err != nil {
		return errDecorate(err, "WriteMolden")
	}
	S.logger.Info("molden file written", "file", name)
	return nil
}
