/*
 * fchk.go, part of gocap.
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

package qm

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rmera/gocap"
	"github.com/rmera/gocap/basis"
	"gonum.org/v1/gonum/mat"
)

// FchkSection is one labeled entry of a formatted checkpoint file. Scalars
// are stored as arrays of one element.
type FchkSection struct {
	Label   string
	Type    byte //'I', 'R', 'C' or 'L'
	Array   bool
	Reals   []float64
	Ints    []int
	Strings []string
}

// Len returns the number of values in the section.
func (F *FchkSection) Len() int {
	switch F.Type {
	case 'R':
		return len(F.Reals)
	case 'I':
		return len(F.Ints)
	default:
		return len(F.Strings)
	}
}

// Fchk is the content of a formatted checkpoint file, with its sections in file order.
type Fchk struct {
	Name     string
	Title    string
	Sections []*FchkSection
}

// Get returns the first section with the given label.
func (F *Fchk) Get(label string) (*FchkSection, error) {
	for _, s := range F.Sections {
		if s.Label == label {
			return s, nil
		}
	}
	return nil, Error{fmt.Sprintf("%s: %q", ErrNoSection, label), F.Name, []string{"Get"}, true}
}

// Find returns, in file order, all the sections whose label contains substr.
func (F *Fchk) Find(substr string) []*FchkSection {
	var ret []*FchkSection
	for _, s := range F.Sections {
		if strings.Contains(s.Label, substr) {
			ret = append(ret, s)
		}
	}
	return ret
}

// Reals returns the values of the real section label.
func (F *Fchk) Reals(label string) ([]float64, error) {
	s, err := F.Get(label)
	if err != nil {
		return nil, errDecorate(err, "Reals")
	}
	if s.Type != 'R' {
		return nil, Error{fmt.Sprintf("%s: %q", ErrNotReal, label), F.Name, []string{"Reals"}, true}
	}
	return s.Reals, nil
}

// Ints returns the values of the integer section label.
func (F *Fchk) Ints(label string) ([]int, error) {
	s, err := F.Get(label)
	if err != nil {
		return nil, errDecorate(err, "Ints")
	}
	if s.Type != 'I' {
		return nil, Error{fmt.Sprintf("%s: %q", ErrNotInteger, label), F.Name, []string{"Ints"}, true}
	}
	return s.Ints, nil
}

// parseHeader recognizes section headers: "Label   R   N=  12" for arrays and
// "Label   I   12" for scalars.
func parseHeader(line string) (label string, typ byte, n int, array, ok bool) {
	f := strings.Fields(line)
	l := len(f)
	if l >= 4 && f[l-2] == "N=" && len(f[l-3]) == 1 {
		n, err := strconv.Atoi(f[l-1])
		if err != nil {
			return "", 0, 0, false, false
		}
		return strings.Join(f[:l-3], " "), f[l-3][0], n, true, true
	}
	if l >= 3 && len(f[l-2]) == 1 && strings.Contains("IRCL", f[l-2]) && len(line) > 40 {
		return strings.Join(f[:l-2], " "), f[l-2][0], 1, false, true
	}
	return "", 0, 0, false, false
}

// ReadFchk reads all the sections of the formatted checkpoint file name.
func ReadFchk(name string) (*Fchk, error) {
	fin, err := os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"ReadFchk"}, true}
	}
	defer fin.Close()
	F := &Fchk{Name: name}
	scanner := bufio.NewScanner(fin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if lineno == 1 {
			F.Title = strings.TrimSpace(line)
			continue
		}
		label, typ, n, array, ok := parseHeader(line)
		if !ok {
			continue
		}
		s := &FchkSection{Label: label, Type: typ, Array: array}
		var values []string
		if !array {
			f := strings.Fields(line)
			values = f[len(f)-1:]
		}
		for len(values) < n && (typ == 'R' || typ == 'I') {
			if !scanner.Scan() {
				return nil, Error{fmt.Sprintf("%s: %q", ErrShortSection, label), name, []string{"ReadFchk"}, true}
			}
			lineno++
			values = append(values, strings.Fields(scanner.Text())...)
		}
		if len(values) != n && (typ == 'R' || typ == 'I') {
			return nil, Error{fmt.Sprintf("%s %d: %d values for %q, expected %d", ErrIllFormed, lineno, len(values), label, n), name, []string{"ReadFchk"}, true}
		}
		switch typ {
		case 'R':
			s.Reals = make([]float64, n)
			for i, v := range values {
				s.Reals[i], err = basis.ParseFloat(v)
				if err != nil {
					return nil, Error{fmt.Sprintf("%s %d: %v", ErrIllFormed, lineno, err), name, []string{"ReadFchk"}, true}
				}
			}
		case 'I':
			s.Ints = make([]int, n)
			for i, v := range values {
				s.Ints[i], err = strconv.Atoi(v)
				if err != nil {
					return nil, Error{fmt.Sprintf("%s %d: %v", ErrIllFormed, lineno, err), name, []string{"ReadFchk"}, true}
				}
			}
		default:
			//character and logical arrays are not needed, their lines are skipped.
			s.Strings = values
		}
		F.Sections = append(F.Sections, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, Error{err.Error(), name, []string{"ReadFchk"}, true}
	}
	return F, nil
}

// ReadFchkSection returns the real values (integers are converted) of the first
// section with the given label in the fchk file name.
func ReadFchkSection(name, label string) ([]float64, error) {
	F, err := ReadFchk(name)
	if err != nil {
		return nil, errDecorate(err, "ReadFchkSection")
	}
	s, err := F.Get(label)
	if err != nil {
		return nil, errDecorate(err, "ReadFchkSection")
	}
	if s.Type == 'I' {
		ret := make([]float64, len(s.Ints))
		for i, v := range s.Ints {
			ret[i] = float64(v)
		}
		return ret, nil
	}
	if s.Type != 'R' {
		return nil, Error{fmt.Sprintf("%s: %q", ErrNotReal, label), name, []string{"ReadFchkSection"}, true}
	}
	return s.Reals, nil
}

// squareMatrix builds an nbf x nbf matrix from a section holding either the full matrix,
// row after row, or its lower triangle.
func squareMatrix(s *FchkSection, nbf int) (*mat.Dense, error) {
	vals := s.Reals
	m := mat.NewDense(nbf, nbf, nil)
	switch len(vals) {
	case nbf * nbf:
		copy(m.RawMatrix().Data, vals)
	case nbf * (nbf + 1) / 2:
		k := 0
		for i := 0; i < nbf; i++ {
			for j := 0; j <= i; j++ {
				m.Set(i, j, vals[k])
				m.Set(j, i, vals[k])
				k++
			}
		}
	default:
		return nil, Error{fmt.Sprintf("%s: %q has %d values, %d functions", ErrMatrixSize, s.Label, len(vals), nbf), "", []string{"squareMatrix"}, true}
	}
	return m, nil
}

// ReadFchkDensities reads state and transition densities from a Q-Chem fchk file.
// The file must contain 2*nstates "State Density" sections (alpha and beta for each
// state) and, after them, alpha and beta "Transition DM" sections for each pair i<j, in the order
// (0,1), (0,2)...(1,2)... The result is indexed as [spin][i][j], with [spin][j][i] the
// transpose of [spin][i][j].
func ReadFchkDensities(name string, nstates, nbf int) ([2][][]*mat.Dense, error) {
	var ret [2][][]*mat.Dense
	F, err := ReadFchk(name)
	if err != nil {
		return ret, errDecorate(err, "ReadFchkDensities")
	}
	states := F.Find("State Density")
	tdms := F.Find("Transition DM")
	ntdm := nstates * (nstates - 1) / 2
	if len(states) < 2*nstates || len(tdms) < 2*ntdm {
		return ret, Error{fmt.Sprintf("%s: %d state densities and %d transition densities for %d states", ErrNotEnough, len(states), len(tdms), nstates), name, []string{"ReadFchkDensities"}, true}
	}
	for spin := 0; spin < 2; spin++ {
		ret[spin] = make([][]*mat.Dense, nstates)
		for i := range ret[spin] {
			ret[spin][i] = make([]*mat.Dense, nstates)
		}
	}
	set := func(s *FchkSection, spin, i, j int) error {
		m, err := squareMatrix(s, nbf)
		if err != nil {
			return err
		}
		ret[spin][i][j] = m
		if i != j {
			ret[spin][j][i] = mat.DenseCopyOf(m.T())
		}
		return nil
	}
	k := 0
	for i := 0; i < nstates; i++ {
		for spin := 0; spin < 2; spin++ {
			if err := set(states[2*i+spin], spin, i, i); err != nil {
				return ret, Error{err.Error(), name, []string{"ReadFchkDensities"}, true}
			}
		}
		for j := i + 1; j < nstates; j++ {
			for spin := 0; spin < 2; spin++ {
				if err := set(tdms[k], spin, i, j); err != nil {
					return ret, Error{err.Error(), name, []string{"ReadFchkDensities"}, true}
				}
				k++
			}
		}
	}
	return ret, nil
}

// ReadFchkOverlap reads the overlap matrix, stored as a lower triangle, from an fchk file.
func ReadFchkOverlap(name string, nbf int) (*mat.Dense, error) {
	F, err := ReadFchk(name)
	if err != nil {
		return nil, errDecorate(err, "ReadFchkOverlap")
	}
	s, err := F.Get("Overlap Matrix")
	if err != nil {
		return nil, errDecorate(err, "ReadFchkOverlap")
	}
	m, err := squareMatrix(s, nbf)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"ReadFchkOverlap"}, true}
	}
	return m, nil
}

// fchkShellL returns the angular momentum and whether the shell is pure for an
// fchk shell type. -1 is an SP shell, for which it returns 0.
func fchkShellL(t int) (l int, pure, sp bool) {
	switch {
	case t == -1:
		return 0, true, true
	case t < 0:
		return -t, true, false
	default:
		return t, t < 2, false
	}
}

// ReadFchkSystem reads the atoms and the basis set stored in an fchk file.
func ReadFchkSystem(name string) ([]*gocap.Atom, *basis.BasisSet, error) {
	F, err := ReadFchk(name)
	if err != nil {
		return nil, nil, errDecorate(err, "ReadFchkSystem")
	}
	fail := func(err error) ([]*gocap.Atom, *basis.BasisSet, error) {
		return nil, nil, errDecorate(err, "ReadFchkSystem")
	}
	zs, err := F.Ints("Atomic numbers")
	if err != nil {
		return fail(err)
	}
	coords, err := F.Reals("Current cartesian coordinates")
	if err != nil {
		return fail(err)
	}
	if len(coords) != 3*len(zs) {
		return nil, nil, Error{fmt.Sprintf("%s: %d atoms, %d coordinates", ErrInconsistent, len(zs), len(coords)), name, []string{"ReadFchkSystem"}, true}
	}
	atoms := make([]*gocap.Atom, len(zs))
	for i, z := range zs {
		sym := gocap.Symbol(z)
		atoms[i], err = gocap.NewAtom(sym, coords[3*i], coords[3*i+1], coords[3*i+2])
		if err != nil {
			return fail(err)
		}
	}
	types, err := F.Ints("Shell types")
	if err != nil {
		return fail(err)
	}
	nprims, err := F.Ints("Number of primitives per shell")
	if err != nil {
		return fail(err)
	}
	amap, err := F.Ints("Shell to atom map")
	if err != nil {
		return fail(err)
	}
	exps, err := F.Reals("Primitive exponents")
	if err != nil {
		return fail(err)
	}
	coefs, err := F.Reals("Contraction coefficients")
	if err != nil {
		return fail(err)
	}
	//only present if there are SP shells
	pcoefs, _ := F.Reals("P(S=P) Contraction coefficients")
	if len(nprims) != len(types) || len(amap) != len(types) || len(coefs) != len(exps) {
		return nil, nil, Error{ErrInconsistent, name, []string{"ReadFchkSystem"}, true}
	}
	var shells []*basis.Shell
	p := 0
	for i, t := range types {
		n := nprims[i]
		a := amap[i] - 1
		if p+n > len(exps) || a < 0 || a >= len(atoms) {
			return nil, nil, Error{fmt.Sprintf("%s: shell %d", ErrInconsistent, i), name, []string{"ReadFchkSystem"}, true}
		}
		l, pure, sp := fchkShellL(t)
		tmpl := basis.Template{L: l, Exps: exps[p : p+n], Coeffs: coefs[p : p+n]}
		shells = append(shells, basis.NewShell(tmpl, a, atoms[a].Coords, pure))
		if sp {
			if len(pcoefs) < p+n {
				return nil, nil, Error{fmt.Sprintf("%s: SP shell %d without P coefficients", ErrInconsistent, i), name, []string{"ReadFchkSystem"}, true}
			}
			ptmpl := basis.Template{L: 1, Exps: exps[p : p+n], Coeffs: pcoefs[p : p+n]}
			shells = append(shells, basis.NewShell(ptmpl, a, atoms[a].Coords, true))
		}
		p += n
	}
	bs, err := basis.NewBasisSet("fchk", shells)
	if err != nil {
		return fail(err)
	}
	return atoms, bs, nil
}
