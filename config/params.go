/*
 * params.go, part of gocap.
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

// Package config handles the parameters that drive a calculation: the
// $section-style input files, their YAML equivalent, and typed access to
// the values.
package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Params maps parameter names to their values. Keys are case-insensitive:
// Set stores them lower-cased, and lookups also match keys stored with any
// other casing (e.g. in a map literal).
type Params map[string]string

// NewParams returns a Params with the keys and values of m.
func NewParams(m map[string]string) Params {
	p := make(Params, len(m))
	for k, v := range m {
		p.Set(k, v)
	}
	return p
}

func key(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// Set sets the value for key k.
func (p Params) Set(k, v string) {
	p[key(k)] = strings.TrimSpace(v)
}

// get returns the value for k, compared without regard to case.
func (p Params) get(k string) (string, bool) {
	lk := key(k)
	if v, ok := p[lk]; ok {
		return v, true
	}
	for pk, v := range p {
		if strings.EqualFold(strings.TrimSpace(pk), lk) {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// Has returns true if the key k is present.
func (p Params) Has(k string) bool {
	_, ok := p.get(k)
	return ok
}

// Keys returns the keys, sorted.
func (p Params) Keys() []string {
	ret := make([]string, 0, len(p))
	for k := range p {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

func missing(k, caller string) error {
	return Error{fmt.Sprintf("%s %q", ErrMissingKey, k), "", []string{caller}, true}
}

func bad(k, v, caller string) error {
	return Error{fmt.Sprintf("%s %q: %q", ErrBadValue, k, v), "", []string{caller}, true}
}

// String returns the value for k, or an error if it is not present.
func (p Params) String(k string) (string, error) {
	v, ok := p.get(k)
	if !ok {
		return "", missing(k, "String")
	}
	return v, nil
}

// StringOr returns the value for k, or def if it is not present.
func (p Params) StringOr(k, def string) string {
	if v, ok := p.get(k); ok {
		return v
	}
	return def
}

// Float returns the value for k as a float.
func (p Params) Float(k string) (float64, error) {
	v, ok := p.get(k)
	if !ok {
		return 0, missing(k, "Float")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, bad(k, v, "Float")
	}
	return f, nil
}

// FloatOr returns the value for k as a float, or def if k is not present. A
// present but invalid value is still an error.
func (p Params) FloatOr(k string, def float64) (float64, error) {
	if !p.Has(k) {
		return def, nil
	}
	f, err := p.Float(k)
	return f, errDecorate(err, "FloatOr")
}

// Int returns the value for k as an integer.
func (p Params) Int(k string) (int, error) {
	v, ok := p.get(k)
	if !ok {
		return 0, missing(k, "Int")
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, bad(k, v, "Int")
	}
	return i, nil
}

// IntOr returns the value for k as an integer, or def if k is not present. A
// present but invalid value is still an error.
func (p Params) IntOr(k string, def int) (int, error) {
	if !p.Has(k) {
		return def, nil
	}
	i, err := p.Int(k)
	return i, errDecorate(err, "IntOr")
}

// Bool returns the value for k as a boolean. Accepted values are true/false,
// yes/no, on/off and 1/0, in any case. A missing key is false.
func (p Params) Bool(k string) (bool, error) {
	v, ok := p.get(k)
	if !ok {
		return false, nil
	}
	switch strings.ToLower(v) {
	case "true", "yes", "on", "1", "t", "y":
		return true, nil
	case "false", "no", "off", "0", "f", "n", "":
		return false, nil
	}
	return false, bad(k, v, "Bool")
}

// Merge returns a new Params with the values of base, overridden by those of overlay.
// The keys of the result are lower-cased.
func Merge(base, overlay Params) Params {
	ret := make(Params, len(base)+len(overlay))
	for k, v := range base {
		ret.Set(k, v)
	}
	for k, v := range overlay {
		ret.Set(k, v)
	}
	return ret
}
