/*
 * write.go, part of gocap.
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

package molden

import (
	"fmt"
	"io"

	"github.com/rmera/gocap"
	"github.com/rmera/gocap/basis"
)

// Write writes atoms, basis set and, if mos is not nil, the molecular orbitals
// to the Molden file name. The file is compressed if name ends in .gz or .zst.
func Write(name string, atoms []*gocap.Atom, bs *basis.BasisSet, mos *MOSet) error {
	f, err := createFile(name)
	if err != nil {
		return errDecorate(err, "Write")
	}
	if err := Encode(f, atoms, bs, mos); err != nil {
		f.Close()
		return withFile(err, name, "Write")
	}
	if err := f.Close(); err != nil {
		return Error{err.Error(), name, []string{"Write"}, true}
	}
	return nil
}

// moldenFlags returns the section headers that declare spherical shells in bs.
func moldenFlags(bs *basis.BasisSet) ([]string, error) {
	//0: absent, 1: pure, 2: Cartesian
	var kind [basis.MaxL + 1]int
	for _, s := range bs.Shells {
		k := 2
		if s.Spherical() {
			k = 1
		}
		if kind[s.L] != 0 && kind[s.L] != k {
			return nil, Error{fmt.Sprintf("%s (l=%d)", ErrMixedPure, s.L), "", []string{"moldenFlags"}, true}
		}
		kind[s.L] = k
	}
	if kind[4] != 0 && kind[5] != 0 && kind[4] != kind[5] {
		return nil, Error{fmt.Sprintf("%s (l=4,5)", ErrMixedPure), "", []string{"moldenFlags"}, true}
	}
	d, f := kind[2], kind[3]
	if d == 0 {
		d = f
	}
	if f == 0 {
		f = d
	}
	var ret []string
	switch {
	case d == 1 && f == 1:
		ret = append(ret, "[5D7F]")
	case d == 1:
		ret = append(ret, "[5D10F]")
	case f == 1:
		ret = append(ret, "[7F]")
	}
	if kind[4] == 1 || kind[5] == 1 {
		ret = append(ret, "[9G]")
	}
	return ret, nil
}

// Encode writes a Molden file to w. Coordinates are written in bohr.
func Encode(w io.Writer, atoms []*gocap.Atom, bs *basis.BasisSet, mos *MOSet) error {
	if len(atoms) == 0 {
		return Error{ErrNoAtoms, "", []string{"Encode"}, true}
	}
	flags, err := moldenFlags(bs)
	if err != nil {
		return errDecorate(err, "Encode")
	}
	nbf := bs.NBasis()
	if mos != nil && mos.Coeffs != nil {
		if r, _ := mos.Coeffs.Dims(); r != nbf {
			return Error{fmt.Sprintf("%s: %d rows, %d functions", ErrMODimension, r, nbf), "", []string{"Encode"}, true}
		}
	}
	fmt.Fprintf(w, "[Molden Format]\n")
	fmt.Fprintf(w, "[Title]\nWritten by gocap\n")
	fmt.Fprintf(w, "[N_ATOMS]\n%d\n", len(atoms))
	fmt.Fprintf(w, "[Atoms] AU\n")
	for i, at := range atoms {
		c := at.Coords
		fmt.Fprintf(w, "%-2s %5d %3d %18.10f %18.10f %18.10f\n", at.Symbol, i+1, at.Z, c[0], c[1], c[2])
	}
	fmt.Fprintf(w, "[GTO]\n")
	for i := range atoms {
		shells := bs.ShellsOn(i)
		if len(shells) == 0 {
			continue
		}
		fmt.Fprintf(w, "%d 0\n", i+1)
		for _, s := range shells {
			fmt.Fprintf(w, "%s %d 1.00\n", basis.ShellLabel(s.L), len(s.Exps))
			for k, e := range s.Exps {
				fmt.Fprintf(w, "%20.10E %20.10E\n", e, s.Coeffs[k])
			}
		}
		fmt.Fprintf(w, "\n")
	}
	for _, f := range flags {
		fmt.Fprintf(w, "%s\n", f)
	}
	if mos == nil || mos.Coeffs == nil {
		return nil
	}
	perm, err := basis.Permutation(bs, basis.Molden)
	if err != nil {
		return errDecorate(err, "Encode")
	}
	fmt.Fprintf(w, "[MO]\n")
	for j := 0; j < mos.Len(); j++ {
		sym, spin := "A", "Alpha"
		var ene, occ float64
		if j < len(mos.Symmetries) && mos.Symmetries[j] != "" {
			sym = mos.Symmetries[j]
		}
		if j < len(mos.Spins) && mos.Spins[j] != "" {
			spin = mos.Spins[j]
		}
		if j < len(mos.Energies) {
			ene = mos.Energies[j]
		}
		if j < len(mos.Occupations) {
			occ = mos.Occupations[j]
		}
		fmt.Fprintf(w, " Sym= %s\n Ene= %.10f\n Spin= %s\n Occup= %.6f\n", sym, ene, spin, occ)
		for k, p := range perm {
			fmt.Fprintf(w, "%5d %20.12f\n", k+1, mos.Coeffs.At(p, j))
		}
	}
	return nil
}
