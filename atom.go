/*
 * atom.go, part of gocap.
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

package gocap

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Atom is a center of the molecular system. Coordinates are always in bohr.
type Atom struct {
	Symbol string
	Z      int
	Coords [3]float64
}

// NewAtom returns an atom for the given symbol and coordinates (in bohr).
// It returns an error if the symbol is not a known element or ghost label.
func NewAtom(symbol string, x, y, z float64) (*Atom, error) {
	zn, ok := AtomicNumber(symbol)
	if !ok {
		return nil, CError{message: fmt.Sprintf("%s: %q", ErrUnknownElement, symbol), deco: []string{"NewAtom"}, critical: true}
	}
	return &Atom{Symbol: Symbol(zn), Z: zn, Coords: [3]float64{x, y, z}}, nil
}

// Ghost returns true if the atom has no nuclear charge.
func (A *Atom) Ghost() bool {
	return A.Z == 0
}

// Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	r := *A
	return &r
}

// Distance returns the distance between A and B, in bohr.
func (A *Atom) Distance(B *Atom) float64 {
	return Distance(A.Coords, B.Coords)
}

func (A *Atom) String() string {
	return fmt.Sprintf("%-2s %14.8f %14.8f %14.8f", A.Symbol, A.Coords[0], A.Coords[1], A.Coords[2])
}

// Distance returns the euclidean distance between the points a and b.
func Distance(a, b [3]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// ParseGeometry reads atoms from text, with one "Symbol x y z" entry per line.
// Empty lines are ignored. Coordinates are taken to be in Angstrom and converted to bohr
// unless bohr is true.
func ParseGeometry(text string, bohr bool) ([]*Atom, error) {
	atoms, err := readAtomLines(strings.NewReader(text), -1, bohr)
	if err != nil {
		return nil, errDecorate(err, "ParseGeometry")
	}
	if len(atoms) == 0 {
		return nil, CError{message: ErrEmptyGeometry, deco: []string{"ParseGeometry"}, critical: true}
	}
	return atoms, nil
}

// readAtomLines reads up to n atom lines from r (all of them if n<0).
func readAtomLines(r io.Reader, n int, bohr bool) ([]*Atom, error) {
	scale := AngToBohr
	if bohr {
		scale = 1.0
	}
	atoms := make([]*Atom, 0, 10)
	scanner := bufio.NewScanner(r)
	for lineno := 1; scanner.Scan(); lineno++ {
		if n >= 0 && len(atoms) == n {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 4 {
			return nil, CError{message: fmt.Sprintf("%s %d: %q", ErrIllFormedLine, lineno, scanner.Text()), deco: []string{"readAtomLines"}, critical: true}
		}
		var c [3]float64
		for i := range c {
			v, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, CError{message: fmt.Sprintf("%s %d: %v", ErrIllFormedLine, lineno, err), deco: []string{"readAtomLines"}, critical: true}
			}
			c[i] = v * scale
		}
		at, err := NewAtom(fields[0], c[0], c[1], c[2])
		if err != nil {
			return nil, errDecorate(err, "readAtomLines")
		}
		atoms = append(atoms, at)
	}
	if err := scanner.Err(); err != nil {
		return nil, CError{message: err.Error(), deco: []string{"readAtomLines"}, critical: true}
	}
	return atoms, nil
}

// XYZRead reads an xyz file (coordinates in Angstrom) and returns the atoms, with
// coordinates in bohr.
func XYZRead(xyzname string) ([]*Atom, error) {
	xyzfile, err := os.Open(xyzname)
	if err != nil {
		return nil, CError{message: fmt.Sprintf("%s: %v", ErrUnableToOpen, err), filename: xyzname, deco: []string{"XYZRead"}, critical: true}
	}
	defer xyzfile.Close()
	xyz := bufio.NewReader(xyzfile)
	line, err := xyz.ReadString('\n')
	if err != nil {
		return nil, CError{message: "Ill formatted XYZ file", filename: xyzname, deco: []string{"XYZRead"}, critical: true}
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return nil, CError{message: "Ill formatted XYZ file", filename: xyzname, deco: []string{"XYZRead"}, critical: true}
	}
	_, _ = xyz.ReadString('\n') //We dont care about the comment line
	atoms, err := readAtomLines(xyz, natoms, false)
	if err != nil {
		err2 := errDecorate(err, "XYZRead")
		if e, ok := err2.(CError); ok {
			e.filename = xyzname
			return nil, e
		}
		return nil, err2
	}
	if len(atoms) != natoms {
		return nil, CError{message: fmt.Sprintf("%s: %d vs %d", ErrAtomCountXYZ, len(atoms), natoms), filename: xyzname, deco: []string{"XYZRead"}, critical: true}
	}
	return atoms, nil
}

// XYZWrite writes the atoms in an XYZ file with name xyzname, which will
// be created for that. If the file exist it will be overwritten. Coordinates are written in Angstrom.
func XYZWrite(xyzname string, atoms []*Atom) error {
	if atoms == nil {
		return CError{message: ErrNilAtoms, filename: xyzname, deco: []string{"XYZWrite"}, critical: true}
	}
	out, err := os.Create(xyzname)
	if err != nil {
		return CError{message: fmt.Sprintf("%s: %v", ErrUnableToWrite, err), filename: xyzname, deco: []string{"XYZWrite"}, critical: true}
	}
	defer out.Close()
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "%-4d\n", len(atoms))
	fmt.Fprintf(w, "Written with gocap\n")
	for _, at := range atoms {
		c := at.Coords
		fmt.Fprintf(w, "%-2s  %14.8f %14.8f %14.8f\n", at.Symbol, c[0]/AngToBohr, c[1]/AngToBohr, c[2]/AngToBohr)
	}
	if err := w.Flush(); err != nil {
		return CError{message: fmt.Sprintf("%s: %v", ErrUnableToWrite, err), filename: xyzname, deco: []string{"XYZWrite"}, critical: true}
	}
	return nil
}
