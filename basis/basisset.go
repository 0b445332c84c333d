/*
 * basisset.go, part of gocap.
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

package basis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rmera/gocap"
)

// BasisSet is an ordered collection of shells. Basis functions are numbered
// shell after shell, in the order of Shells.
type BasisSet struct {
	Name   string
	Shells []*Shell
	nbf    int
	offs   []int
}

// NewBasisSet builds a basis set from the given shells, and computes the normalization
// of every basis function. The shells are not copied. If any shell with l>1 is
// Cartesian, the p shells are marked as Cartesian too.
func NewBasisSet(name string, shells []*Shell) (*BasisSet, error) {
	if len(shells) == 0 {
		return nil, Error{ErrNoShells, "", []string{"NewBasisSet"}, true}
	}
	cartesian := false
	for _, s := range shells {
		if s != nil && s.L > 1 && !s.Pure {
			cartesian = true
		}
	}
	for _, s := range shells {
		if cartesian && s != nil && s.L == 1 {
			s.Pure = false
		}
	}
	bs := &BasisSet{Name: name, Shells: shells}
	bs.offs = make([]int, len(shells))
	for i, s := range shells {
		if err := s.check(); err != nil {
			return nil, errDecorate(err, "NewBasisSet")
		}
		if err := s.setTransform(); err != nil {
			return nil, errDecorate(err, fmt.Sprintf("NewBasisSet: shell %d", i))
		}
		bs.offs[i] = bs.nbf
		bs.nbf += s.NFuncs()
	}
	return bs, nil
}

// Build places the shells in templates on every atom. Shells whose label
// appears in cartBF (e.g. "dfg") are Cartesian, the others are spherical.
// s and p functions are the same either way, but the Psi4 order of the p
// functions depends on whether the basis is Cartesian.
func Build(atoms []*gocap.Atom, templates map[string][]Template, cartBF string) (*BasisSet, error) {
	cart := strings.ToLower(cartBF)
	shells := make([]*Shell, 0, 5*len(atoms))
	for i, at := range atoms {
		ts, ok := templates[strings.ToUpper(at.Symbol)]
		if !ok {
			return nil, Error{fmt.Sprintf("%s %s (atom %d)", ErrMissingElement, at.Symbol, i), "", []string{"Build"}, true}
		}
		for _, t := range ts {
			pure := t.L < 2 || !strings.Contains(cart, ShellLabel(t.L))
			shells = append(shells, NewShell(t, i, at.Coords, pure))
		}
	}
	bs, err := NewBasisSet("user-specified", shells)
	if err != nil {
		return nil, errDecorate(err, "Build")
	}
	return bs, nil
}

// NBasis returns the number of basis functions.
func (bs *BasisSet) NBasis() int {
	return bs.nbf
}

// Offsets returns, for each shell, the index of its first basis function.
// The slice must not be modified.
func (bs *BasisSet) Offsets() []int {
	return bs.offs
}

// MaxL returns the highest angular momentum in the basis set.
func (bs *BasisSet) MaxL() int {
	m := 0
	for _, s := range bs.Shells {
		if s.L > m {
			m = s.L
		}
	}
	return m
}

// Centers returns the indexes of the atoms that carry at least one shell, in
// increasing order.
func (bs *BasisSet) Centers() []int {
	seen := make(map[int]bool)
	ret := make([]int, 0, 2)
	for _, s := range bs.Shells {
		if !seen[s.Atom] {
			seen[s.Atom] = true
			ret = append(ret, s.Atom)
		}
	}
	sort.Ints(ret)
	return ret
}

// ShellsOn returns the shells placed on the atom with index atom.
func (bs *BasisSet) ShellsOn(atom int) []*Shell {
	var ret []*Shell
	for _, s := range bs.Shells {
		if s.Atom == atom {
			ret = append(ret, s)
		}
	}
	return ret
}

// ID identifies a basis function.
type ID struct {
	Atom  int
	Shell int
	L     int
	Label string //"s", "pz", "dxy", "d-2"...
}

func (id ID) String() string {
	return fmt.Sprintf("%d %d %s", id.Atom, id.Shell, id.Label)
}

// IDs returns the identifiers of the basis functions, in the internal order.
func (bs *BasisSet) IDs() []ID {
	ret := make([]ID, 0, bs.nbf)
	for i, s := range bs.Shells {
		for _, lab := range s.componentLabels() {
			ret = append(ret, ID{Atom: s.Atom, Shell: i, L: s.L, Label: lab})
		}
	}
	return ret
}

// IDString returns the basis function identifiers, one per line, as "atom shell label".
func (bs *BasisSet) IDString() string {
	var b strings.Builder
	for _, id := range bs.IDs() {
		b.WriteString(id.String())
		b.WriteByte('\n')
	}
	return b.String()
}
