/*
 * read.go, part of gocap.
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

// Package molden reads and writes geometries, basis sets and molecular orbitals in the Molden format.
// Files ending in .gz or .zst are transparently decompressed on reading, and compressed on writing.
package molden

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/rmera/gocap"
	"github.com/rmera/gocap/basis"
	"gonum.org/v1/gonum/mat"
)

// MOSet is a set of molecular orbitals. Coeffs has one column per orbital
// and one row per basis function, in the internal basis function ordering.
type MOSet struct {
	Symmetries  []string
	Energies    []float64
	Spins       []string
	Occupations []float64
	Coeffs      *mat.Dense
}

// Len returns the number of orbitals in the set.
func (M *MOSet) Len() int {
	if M == nil || M.Coeffs == nil {
		return 0
	}
	_, c := M.Coeffs.Dims()
	return c
}

// Data is the content of a Molden file.
type Data struct {
	Atoms []*gocap.Atom
	Basis *basis.BasisSet
	MOs   *MOSet //nil if the file has no [MO] section
}

// Read reads the atoms and the basis set from the Molden file name.
func Read(name string) ([]*gocap.Atom, *basis.BasisSet, error) {
	d, err := ReadData(name)
	if err != nil {
		return nil, nil, errDecorate(err, "Read")
	}
	return d.Atoms, d.Basis, nil
}

// ReadData reads the whole content of the Molden file name.
func ReadData(name string) (*Data, error) {
	f, err := openFile(name)
	if err != nil {
		return nil, errDecorate(err, "ReadData")
	}
	defer f.Close()
	d, err := Decode(f)
	if err != nil {
		return nil, withFile(err, name, "ReadData")
	}
	return d, nil
}

// section is a Molden section: its upper-case name, what follows the
// closing bracket on the header line, and its content lines.
type section struct {
	name  string
	rest  string
	lines []string
}

func splitSections(r io.Reader) ([]*section, error) {
	var ret []*section
	var cur *section
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			end := strings.Index(line, "]")
			if end < 0 {
				return nil, Error{fmt.Sprintf("%s: %q", ErrIllFormed, line), "", []string{"splitSections"}, true}
			}
			cur = &section{name: strings.ToUpper(strings.TrimSpace(line[1:end])), rest: strings.TrimSpace(line[end+1:])}
			ret = append(ret, cur)
			continue
		}
		if cur != nil && line != "" {
			cur.lines = append(cur.lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, Error{err.Error(), "", []string{"splitSections"}, true}
	}
	return ret, nil
}

// pureFlags returns, for each angular momentum, whether the shells are spherical,
// according to the [5D], [5D10F], [7F], [5D7F] and [9G] flags.
func pureFlags(secs []*section) [basis.MaxL + 1]bool {
	var pure [basis.MaxL + 1]bool
	pure[0] = true
	pure[1] = true
	for _, s := range secs {
		switch s.name {
		case "5D", "5D7F":
			pure[2] = true
			pure[3] = true
		case "5D10F":
			pure[2] = true
		case "7F":
			pure[3] = true
		case "9G":
			pure[4] = true
			pure[5] = true
		}
	}
	return pure
}

// Decode reads a Molden file from r.
func Decode(r io.Reader) (*Data, error) {
	secs, err := splitSections(r)
	if err != nil {
		return nil, errDecorate(err, "Decode")
	}
	get := func(name string) *section {
		for _, s := range secs {
			if s.name == name {
				return s
			}
		}
		return nil
	}
	as := get("ATOMS")
	if as == nil {
		return nil, Error{ErrNoAtoms, "", []string{"Decode"}, true}
	}
	atoms, err := parseAtoms(as)
	if err != nil {
		return nil, errDecorate(err, "Decode")
	}
	if ns := get("N_ATOMS"); ns != nil && len(ns.lines) > 0 {
		n, err := strconv.Atoi(strings.Fields(ns.lines[0])[0])
		if err != nil {
			return nil, Error{fmt.Sprintf("%s: %q", ErrIllFormed, ns.lines[0]), "", []string{"Decode"}, true}
		}
		if n != len(atoms) {
			return nil, Error{fmt.Sprintf("%s: %d atoms read, %d declared", ErrAtomCount, len(atoms), n), "", []string{"Decode"}, true}
		}
	}
	gs := get("GTO")
	if gs == nil {
		return nil, Error{ErrNoGTO, "", []string{"Decode"}, true}
	}
	shells, err := parseGTO(gs, atoms, pureFlags(secs))
	if err != nil {
		return nil, errDecorate(err, "Decode")
	}
	bs, err := basis.NewBasisSet("molden", shells)
	if err != nil {
		return nil, errDecorate(err, "Decode")
	}
	d := &Data{Atoms: atoms, Basis: bs}
	if ms := get("MO"); ms != nil {
		d.MOs, err = parseMOs(ms, bs)
		if err != nil {
			return nil, errDecorate(err, "Decode")
		}
	}
	return d, nil
}

func parseAtoms(s *section) ([]*gocap.Atom, error) {
	scale := 1.0
	if strings.Contains(strings.ToUpper(s.rest), "ANGS") {
		scale = gocap.AngToBohr
	}
	atoms := make([]*gocap.Atom, 0, len(s.lines))
	for _, line := range s.lines {
		f := strings.Fields(line)
		if len(f) < 6 {
			return nil, Error{fmt.Sprintf("%s: %q", ErrIllFormed, line), "", []string{"parseAtoms"}, true}
		}
		z, err := strconv.Atoi(f[2])
		if err != nil {
			return nil, Error{fmt.Sprintf("%s: %q", ErrIllFormed, line), "", []string{"parseAtoms"}, true}
		}
		var c [3]float64
		for i := range c {
			c[i], err = basis.ParseFloat(f[3+i])
			if err != nil {
				return nil, Error{fmt.Sprintf("%s: %q", ErrIllFormed, line), "", []string{"parseAtoms"}, true}
			}
			c[i] *= scale
		}
		//names such as "H1" or "C12" are allowed.
		sym := strings.TrimRightFunc(f[0], unicode.IsDigit)
		if _, ok := gocap.AtomicNumber(sym); !ok {
			sym = gocap.Symbol(z)
		}
		at, err := gocap.NewAtom(sym, c[0], c[1], c[2])
		if err != nil {
			return nil, errDecorate(err, "parseAtoms")
		}
		atoms = append(atoms, at)
	}
	return atoms, nil
}

func parseGTO(s *section, atoms []*gocap.Atom, pure [basis.MaxL + 1]bool) ([]*basis.Shell, error) {
	illformed := func(line string) error {
		return Error{fmt.Sprintf("%s: %q", ErrIllFormed, line), "", []string{"parseGTO"}, true}
	}
	var shells []*basis.Shell
	atom := -1
	for i := 0; i < len(s.lines); i++ {
		line := s.lines[i]
		f := strings.Fields(line)
		if idx, err := strconv.Atoi(f[0]); err == nil {
			if idx < 1 || idx > len(atoms) {
				return nil, Error{fmt.Sprintf("%s: %d", ErrUndefinedAtom, idx), "", []string{"parseGTO"}, true}
			}
			atom = idx - 1
			continue
		}
		if atom < 0 {
			return nil, Error{fmt.Sprintf("%s: %q", ErrShellNoAtom, line), "", []string{"parseGTO"}, true}
		}
		if len(f) < 2 {
			return nil, illformed(line)
		}
		nprim, err := strconv.Atoi(f[1])
		if err != nil || nprim < 1 {
			return nil, illformed(line)
		}
		label := strings.ToUpper(f[0])
		sp := label == "SP"
		var t, tp basis.Template
		if sp {
			tp.L = 1
		} else {
			t.L, err = basis.AngMom(label)
			if err != nil {
				return nil, errDecorate(err, "parseGTO")
			}
		}
		if i+nprim >= len(s.lines) {
			return nil, Error{ErrUnexpectedEnd, "", []string{"parseGTO"}, true}
		}
		for k := 0; k < nprim; k++ {
			i++
			pf := strings.Fields(s.lines[i])
			if len(pf) < 2 || (sp && len(pf) < 3) {
				return nil, illformed(s.lines[i])
			}
			vals := make([]float64, len(pf))
			for j, v := range pf {
				vals[j], err = basis.ParseFloat(v)
				if err != nil {
					return nil, illformed(s.lines[i])
				}
			}
			t.Exps = append(t.Exps, vals[0])
			t.Coeffs = append(t.Coeffs, vals[1])
			if sp {
				tp.Exps = append(tp.Exps, vals[0])
				tp.Coeffs = append(tp.Coeffs, vals[2])
			}
		}
		shells = append(shells, basis.NewShell(t, atom, atoms[atom].Coords, pure[t.L]))
		if sp {
			shells = append(shells, basis.NewShell(tp, atom, atoms[atom].Coords, true))
		}
	}
	return shells, nil
}

func parseMOs(s *section, bs *basis.BasisSet) (*MOSet, error) {
	nbf := bs.NBasis()
	perm, err := basis.Permutation(bs, basis.Molden)
	if err != nil {
		return nil, errDecorate(err, "parseMOs")
	}
	M := new(MOSet)
	var cols [][]float64
	var cur []float64
	incoeffs := false
	newMO := func() {
		cur = make([]float64, nbf)
		cols = append(cols, cur)
		M.Symmetries = append(M.Symmetries, "")
		M.Energies = append(M.Energies, 0)
		M.Spins = append(M.Spins, "Alpha")
		M.Occupations = append(M.Occupations, 0)
	}
	for _, line := range s.lines {
		if k := strings.Index(line, "="); k >= 0 {
			if cur == nil || incoeffs {
				newMO()
				incoeffs = false
			}
			last := len(cols) - 1
			key := strings.ToUpper(strings.TrimSpace(line[:k]))
			val := strings.TrimSpace(line[k+1:])
			switch key {
			case "SYM":
				M.Symmetries[last] = val
			case "SPIN":
				M.Spins[last] = val
			case "ENE", "OCCUP":
				v, err := basis.ParseFloat(val)
				if err != nil {
					return nil, Error{fmt.Sprintf("%s: %q", ErrIllFormed, line), "", []string{"parseMOs"}, true}
				}
				if key == "ENE" {
					M.Energies[last] = v
				} else {
					M.Occupations[last] = v
				}
			}
			continue
		}
		f := strings.Fields(line)
		if len(f) < 2 || cur == nil {
			return nil, Error{fmt.Sprintf("%s: %q", ErrIllFormed, line), "", []string{"parseMOs"}, true}
		}
		idx, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, Error{fmt.Sprintf("%s: %q", ErrIllFormed, line), "", []string{"parseMOs"}, true}
		}
		if idx < 1 || idx > nbf {
			return nil, Error{fmt.Sprintf("%s: function %d, %d in basis", ErrMODimension, idx, nbf), "", []string{"parseMOs"}, true}
		}
		v, err := basis.ParseFloat(f[1])
		if err != nil {
			return nil, Error{fmt.Sprintf("%s: %q", ErrIllFormed, line), "", []string{"parseMOs"}, true}
		}
		cur[perm[idx-1]] = v
		incoeffs = true
	}
	if len(cols) == 0 {
		return nil, nil
	}
	M.Coeffs = mat.NewDense(nbf, len(cols), nil)
	for j, c := range cols {
		M.Coeffs.SetCol(j, c)
	}
	return M, nil
}
