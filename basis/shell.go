/*
 * shell.go, part of gocap.
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

// Package basis provides contracted Gaussian shells and basis sets, analytic overlap
// integrals, the evaluation of basis functions on points, and the orderings used by
// different electronic structure programs.
package basis

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// MaxL is the highest angular momentum supported.
const MaxL = 5

var shellLabels = []string{"s", "p", "d", "f", "g", "h"}

// AngMom returns the angular momentum for a shell label ("s", "P", ...).
func AngMom(label string) (int, error) {
	l := strings.ToLower(strings.TrimSpace(label))
	for i, v := range shellLabels {
		if v == l {
			return i, nil
		}
	}
	return -1, Error{fmt.Sprintf("%s: %q", ErrUnknownShell, label), "", []string{"AngMom"}, true}
}

// ShellLabel returns the lowercase label for angular momentum l.
func ShellLabel(l int) string {
	if l < 0 || l >= len(shellLabels) {
		return "?"
	}
	return shellLabels[l]
}

// Template is a shell as read from a basis set file, not yet placed on a center.
// Coefficients refer to normalized primitives.
type Template struct {
	L      int
	Exps   []float64
	Coeffs []float64
}

// Shell is a contracted Gaussian shell on a center. Coefficients refer to normalized
// primitives. Pure selects spherical functions; it has no effect on s and p shells, which
// are always x, y, z ordered.
type Shell struct {
	L      int
	Pure   bool
	Exps   []float64
	Coeffs []float64
	Center [3]float64
	Atom   int //index of the center the shell is placed on

	//Transformation from the common-normalized Cartesian components to the
	//normalized basis functions of the shell. Set by NewBasisSet.
	t *mat.Dense
	//contraction coefficients times the radial normalization of each primitive.
	ncoef []float64
}

// NewShell places the template t on the given center.
func NewShell(t Template, atom int, center [3]float64, pure bool) *Shell {
	s := &Shell{L: t.L, Pure: pure, Atom: atom, Center: center}
	s.Exps = append([]float64(nil), t.Exps...)
	s.Coeffs = append([]float64(nil), t.Coeffs...)
	return s
}

// Spherical returns true if the functions of the shell are spherical harmonics
// (i.e. Pure and L>1).
func (s *Shell) Spherical() bool {
	return s.Pure && s.L > 1
}

// NCart returns the number of Cartesian components of the shell.
func (s *Shell) NCart() int {
	return NCart(s.L)
}

// NFuncs returns the number of basis functions in the shell.
func (s *Shell) NFuncs() int {
	if s.Spherical() {
		return 2*s.L + 1
	}
	return NCart(s.L)
}

// Transform returns the matrix that takes the Cartesian components of the shell, all
// with the radial normalization of the x^l component, to the normalized basis functions.
// It is nil for shells not belonging to a BasisSet.
func (s *Shell) Transform() *mat.Dense {
	return s.t
}

func (s *Shell) check() error {
	if len(s.Exps) == 0 || len(s.Exps) != len(s.Coeffs) {
		return Error{ErrBadShell, "", []string{"check"}, true}
	}
	if s.L < 0 || s.L > MaxL {
		return Error{fmt.Sprintf("%s: %d", ErrMaxAngMom, s.L), "", []string{"check"}, true}
	}
	for _, e := range s.Exps {
		if e <= 0 || math.IsNaN(e) || math.IsInf(e, 0) {
			return Error{fmt.Sprintf("%s: exponent %g", ErrBadShell, e), "", []string{"check"}, true}
		}
	}
	return nil
}

// NCart is the number of Cartesian components for angular momentum l.
func NCart(l int) int {
	return (l + 1) * (l + 2) / 2
}

// CartComponents returns the exponents (lx, ly, lz) of the Cartesian components
// of angular momentum l, in lexicographic order (xx, xy, xz, yy, yz, zz for l=2).
func CartComponents(l int) [][3]int {
	ret := make([][3]int, 0, NCart(l))
	for a := l; a >= 0; a-- {
		for b := l - a; b >= 0; b-- {
			ret = append(ret, [3]int{a, b, l - a - b})
		}
	}
	return ret
}

// cartIndex returns the lexicographic index of the component c.
func cartIndex(c [3]int) int {
	l := c[0] + c[1] + c[2]
	//components with x power > c[0] come first.
	k := l - c[0]
	return k*(k+1)/2 + (k - c[1])
}

func doubleFactorial(n int) float64 {
	r := 1.0
	for ; n > 1; n -= 2 {
		r *= float64(n)
	}
	return r
}

// PrimitiveNorm returns the normalization constant of the primitive x^l exp(-alpha r^2).
func PrimitiveNorm(alpha float64, l int) float64 {
	return math.Pow(2*alpha/math.Pi, 0.75) * math.Pow(4*alpha, float64(l)/2) / math.Sqrt(doubleFactorial(2*l-1))
}

// normCoeffs returns the contraction coefficients times the normalization of
// each primitive.
func (s *Shell) normCoeffs() []float64 {
	if s.ncoef != nil {
		return s.ncoef
	}
	r := make([]float64, len(s.Exps))
	for i, e := range s.Exps {
		r[i] = s.Coeffs[i] * PrimitiveNorm(e, s.L)
	}
	return r
}

// componentLabels returns labels for the basis functions of the shell, in the internal
// ordering.
func (s *Shell) componentLabels() []string {
	lab := ShellLabel(s.L)
	n := s.NFuncs()
	ret := make([]string, 0, n)
	if s.Spherical() {
		for m := -s.L; m <= s.L; m++ {
			ret = append(ret, fmt.Sprintf("%s%+d", lab, m))
		}
		return ret
	}
	if s.L == 0 {
		return append(ret, lab)
	}
	for _, c := range CartComponents(s.L) {
		ret = append(ret, lab+strings.Repeat("x", c[0])+strings.Repeat("y", c[1])+strings.Repeat("z", c[2]))
	}
	return ret
}
