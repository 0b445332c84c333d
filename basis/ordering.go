/*
 * ordering.go, part of gocap.
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
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Names of the supported AO orderings.
const (
	OpenCAP = "opencap" //the internal ordering
	PySCF   = "pyscf"
	Psi4    = "psi4"
	QChem   = "qchem"
	Molden  = "molden"
)

// Packages returns the names of the supported orderings.
func Packages() []string {
	return []string{OpenCAP, PySCF, Psi4, QChem, Molden}
}

// CheckPackage returns the canonical (lowercase) name of pkg, or an error if it is not supported.
func CheckPackage(pkg string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(pkg))
	switch p {
	case OpenCAP, PySCF, Psi4, QChem, Molden:
		return p, nil
	}
	return "", Error{fmt.Sprintf("%s: %q", ErrUnknownPackage, pkg), "", []string{"CheckPackage"}, true}
}

func monomials(labels ...string) [][3]int {
	ret := make([][3]int, len(labels))
	for i, l := range labels {
		for _, c := range l {
			switch c {
			case 'x':
				ret[i][0]++
			case 'y':
				ret[i][1]++
			case 'z':
				ret[i][2]++
			}
		}
	}
	return ret
}

var moldenCart = map[int][][3]int{
	2: monomials("xx", "yy", "zz", "xy", "xz", "yz"),
	3: monomials("xxx", "yyy", "zzz", "xyy", "xxy", "xxz", "xzz", "yzz", "yyz", "xyz"),
	4: monomials("xxxx", "yyyy", "zzzz", "xxxy", "xxxz", "yyyx", "yyyz", "zzzx", "zzzy", "xxyy", "xxzz", "yyzz", "xxyz", "yyxz", "zzxy"),
}

// qchemCart returns the Q-Chem Cartesian order: increasing z power, then decreasing x power.
func qchemCart(l int) [][3]int {
	ret := make([][3]int, 0, NCart(l))
	for c := 0; c <= l; c++ {
		for a := l - c; a >= 0; a-- {
			ret = append(ret, [3]int{a, l - c - a, c})
		}
	}
	return ret
}

// signedM returns the m order 0, +1, -1, +2, -2, ... used by Molden and Psi4,
// as indexes in the internal -l..l order.
func signedM(l int) []int {
	ret := []int{l}
	for m := 1; m <= l; m++ {
		ret = append(ret, l+m, l-m)
	}
	return ret
}

func identity(n int) []int {
	ret := make([]int, n)
	for i := range ret {
		ret[i] = i
	}
	return ret
}

// ShellPermutation returns, for the shell s, the internal index of each basis function of
// the shell in the order used by pkg, i.e. perm[k] is the internal index of the k-th function
// in pkg order.
func ShellPermutation(s *Shell, pkg string) ([]int, error) {
	p, err := CheckPackage(pkg)
	if err != nil {
		return nil, errDecorate(err, "ShellPermutation")
	}
	n := s.NFuncs()
	if s.L == 1 && s.Pure && p == Psi4 {
		//Psi4 orders the p functions of spherical basis sets as p0, p+1, p-1
		return []int{2, 0, 1}, nil
	}
	if s.L < 2 || p == OpenCAP || p == PySCF {
		return identity(n), nil
	}
	if s.Spherical() {
		switch p {
		case Molden, Psi4:
			return signedM(s.L), nil
		default:
			return identity(n), nil
		}
	}
	var order [][3]int
	switch p {
	case QChem:
		order = qchemCart(s.L)
	case Molden:
		order = moldenCart[s.L]
	}
	if order == nil {
		return identity(n), nil
	}
	ret := make([]int, len(order))
	for i, c := range order {
		ret[i] = cartIndex(c)
	}
	return ret, nil
}

// Permutation returns, for the whole basis set, the internal index of each basis function in
// the order used by pkg.
func Permutation(bs *BasisSet, pkg string) ([]int, error) {
	ret := make([]int, 0, bs.nbf)
	for i, s := range bs.Shells {
		p, err := ShellPermutation(s, pkg)
		if err != nil {
			return nil, errDecorate(err, "Permutation")
		}
		for _, v := range p {
			ret = append(ret, bs.offs[i]+v)
		}
	}
	return ret, nil
}

func checkDims(m mat.Matrix, n int, caller string) error {
	r, c := m.Dims()
	if r != n || c != n {
		return Error{fmt.Sprintf("%s: %dx%d given, %d functions", ErrDimension, r, c, n), "", []string{caller}, true}
	}
	return nil
}

// ToPackage takes a square AO matrix in the internal ordering and returns it in the
// ordering of pkg.
func ToPackage(m mat.Matrix, bs *BasisSet, pkg string) (*mat.Dense, error) {
	if err := checkDims(m, bs.nbf, "ToPackage"); err != nil {
		return nil, err
	}
	perm, err := Permutation(bs, pkg)
	if err != nil {
		return nil, errDecorate(err, "ToPackage")
	}
	ret := mat.NewDense(bs.nbf, bs.nbf, nil)
	for k, pk := range perm {
		for l, pl := range perm {
			ret.Set(k, l, m.At(pk, pl))
		}
	}
	return ret, nil
}

// FromPackage takes a square AO matrix in the ordering of pkg and returns it in the
// internal ordering.
func FromPackage(m mat.Matrix, bs *BasisSet, pkg string) (*mat.Dense, error) {
	if err := checkDims(m, bs.nbf, "FromPackage"); err != nil {
		return nil, err
	}
	perm, err := Permutation(bs, pkg)
	if err != nil {
		return nil, errDecorate(err, "FromPackage")
	}
	ret := mat.NewDense(bs.nbf, bs.nbf, nil)
	for k, pk := range perm {
		for l, pl := range perm {
			ret.Set(pk, pl, m.At(k, l))
		}
	}
	return ret, nil
}

// DiagonalScale returns the square root of the diagonal elements of the square matrix s.
// For an overlap matrix, these are the norms of the basis functions.
func DiagonalScale(s mat.Matrix) ([]float64, error) {
	r, c := s.Dims()
	if r != c {
		return nil, Error{ErrDimension, "", []string{"DiagonalScale"}, true}
	}
	ret := make([]float64, r)
	for i := range ret {
		d := s.At(i, i)
		if d <= 0 || math.IsNaN(d) {
			return nil, Error{fmt.Sprintf("%s: element %d is %g", ErrNonPositiveDiag, i, d), "", []string{"DiagonalScale"}, true}
		}
		ret[i] = math.Sqrt(d)
	}
	return ret, nil
}

// Reorder takes a square AO matrix in the ordering of the package from and returns it in
// the ordering of the package to.
func Reorder(m mat.Matrix, bs *BasisSet, from, to string) (*mat.Dense, error) {
	internal, err := FromPackage(m, bs, from)
	if err != nil {
		return nil, errDecorate(err, "Reorder")
	}
	ret, err := ToPackage(internal, bs, to)
	if err != nil {
		return nil, errDecorate(err, "Reorder")
	}
	return ret, nil
}
