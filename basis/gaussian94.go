/*
 * gaussian94.go, part of gocap.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadGaussian94 reads a basis set file in the Gaussian94 format, and returns
// the shells for each element, keyed by the upper-case element symbol.
func ReadGaussian94(name string) (map[string][]Template, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"ReadGaussian94"}, true}
	}
	defer f.Close()
	ret, err := ParseGaussian94(f)
	if err != nil {
		if e, ok := err.(Error); ok {
			e.filename = name
			e.deco = append(e.deco, "ReadGaussian94")
			return nil, e
		}
		return nil, errDecorate(err, "ReadGaussian94")
	}
	return ret, nil
}

// ParseFloat parses a float that can use Fortran D exponents (1.0D-02).
func ParseFloat(s string) (float64, error) {
	s = strings.Map(func(r rune) rune {
		if r == 'D' || r == 'd' {
			return 'E'
		}
		return r
	}, s)
	return strconv.ParseFloat(s, 64)
}

// ParseGaussian94 reads a Gaussian94 basis set from r. Everything before
// the first "****" line is ignored, as are lines starting with "!".
func ParseGaussian94(r io.Reader) (map[string][]Template, error) {
	ret := make(map[string][]Template)
	scanner := bufio.NewScanner(r)
	lineno := 0
	next := func() (string, bool) {
		for scanner.Scan() {
			lineno++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "!") {
				continue
			}
			return line, true
		}
		return "", false
	}
	illformed := func(line string) error {
		return Error{fmt.Sprintf("%s %d: %q", ErrIllFormed, lineno, line), "", []string{"ParseGaussian94"}, true}
	}
	var line string
	var ok bool
	for {
		line, ok = next()
		if !ok || line == "****" {
			break
		}
	}
	element := ""
	var shells []Template
	for {
		line, ok = next()
		if !ok {
			break
		}
		if line == "****" {
			if element != "" && len(shells) > 0 {
				ret[element] = append(ret[element], shells...)
			}
			element = ""
			shells = nil
			continue
		}
		fields := strings.Fields(line)
		if element == "" {
			element = strings.ToUpper(fields[0])
			continue
		}
		if len(fields) < 2 {
			return nil, illformed(line)
		}
		nprim, err := strconv.Atoi(fields[1])
		if err != nil || nprim <= 0 {
			return nil, illformed(line)
		}
		label := strings.ToUpper(fields[0])
		sp := label == "SP" || label == "L"
		var t, tp Template
		if sp {
			t.L, tp.L = 0, 1
		} else {
			t.L, err = AngMom(label)
			if err != nil {
				return nil, errDecorate(err, fmt.Sprintf("ParseGaussian94: line %d", lineno))
			}
		}
		for i := 0; i < nprim; i++ {
			pl, ok := next()
			if !ok {
				return nil, illformed("unexpected end of file")
			}
			pf := strings.Fields(pl)
			if len(pf) < 2 || (sp && len(pf) < 3) {
				return nil, illformed(pl)
			}
			e, err1 := ParseFloat(pf[0])
			c, err2 := ParseFloat(pf[1])
			if err1 != nil || err2 != nil {
				return nil, illformed(pl)
			}
			t.Exps = append(t.Exps, e)
			t.Coeffs = append(t.Coeffs, c)
			if sp {
				cp, err := ParseFloat(pf[2])
				if err != nil {
					return nil, illformed(pl)
				}
				tp.Exps = append(tp.Exps, e)
				tp.Coeffs = append(tp.Coeffs, cp)
			}
		}
		shells = append(shells, t)
		if sp {
			shells = append(shells, tp)
		}
	}
	if element != "" && len(shells) > 0 {
		ret[element] = append(ret[element], shells...)
	}
	if err := scanner.Err(); err != nil {
		return nil, errDecorate(err, "ParseGaussian94")
	}
	return ret, nil
}
