/*
 * input.go, part of gocap.
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

package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Names of the sections of an input.
const (
	SectionSystem     = "system"
	SectionCAP        = "cap_parameters"
	SectionProjection = "projection"
	SectionGeometry   = "geometry"
)

// Input is a parsed input: the parameters of each section, keyed by the
// lower-case section name.
type Input map[string]Params

// Section returns the parameters of the section name, or an empty Params if
// the section is not present.
func (in Input) Section(name string) Params {
	if p, ok := in[key(name)]; ok {
		return p
	}
	return Params{}
}

// Read reads an input file, choosing the format from the extension: .yaml and .yml
// files are read with ReadYAML, everything else with ReadInput.
func Read(name string) (Input, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		in, err := ReadYAML(name)
		return in, errDecorate(err, "Read")
	default:
		in, err := ReadInput(name)
		return in, errDecorate(err, "Read")
	}
}

// ReadInput reads an input file in the section format:
//
//	$system
//	 molecule inline
//	 basis_file basis.bas
//	$end
//	$geometry
//	 H 0.0 0.0 0.37
//	 H 0.0 0.0 -0.37
//	$end
//
// Each line within a section is a "key value" or "key=value" pair. A "!" or "#" that
// starts a line, or follows a blank, starts a comment. The $geometry block is stored verbatim, under the key "geometry"
// of the system section.
func ReadInput(name string) (Input, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"ReadInput"}, true}
	}
	defer f.Close()
	in, err := ParseInput(f)
	if err != nil {
		if e, ok := err.(Error); ok {
			e.filename = name
			e.deco = append(e.deco, "ReadInput")
			return nil, e
		}
		return nil, errDecorate(err, "ReadInput")
	}
	return in, nil
}

// stripComment removes the comment, if any, from line. Comment marks within a
// word, as in a file name, are kept.
func stripComment(line string) string {
	for i, c := range line {
		if c != '!' && c != '#' {
			continue
		}
		if i == 0 || line[i-1] == ' ' || line[i-1] == '\t' {
			return line[:i]
		}
	}
	return line
}

// ParseInput reads an input in the section format from r.
func ParseInput(r io.Reader) (Input, error) {
	in := make(Input)
	scanner := bufio.NewScanner(r)
	section := ""
	var geom strings.Builder
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(stripComment(scanner.Text()))
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "$") {
			name := key(line[1:])
			switch {
			case name == "end":
				if section == "" {
					return nil, Error{fmt.Sprintf("%s (line %d)", ErrOutside, lineno), "", []string{"ParseInput"}, true}
				}
				if section == SectionGeometry {
					in.sectionParams(SectionSystem).Set("geometry", geom.String())
				}
				section = ""
			case section != "":
				return nil, Error{fmt.Sprintf("%s: $%s in $%s (line %d)", ErrNestedBlock, name, section, lineno), "", []string{"ParseInput"}, true}
			case name == "":
				return nil, Error{fmt.Sprintf("%s (line %d)", ErrEmptySection, lineno), "", []string{"ParseInput"}, true}
			default:
				section = name
				if section != SectionGeometry {
					in.sectionParams(section)
				}
			}
			continue
		}
		if section == "" {
			return nil, Error{fmt.Sprintf("%s %d: %q", ErrOutside, lineno, line), "", []string{"ParseInput"}, true}
		}
		if section == SectionGeometry {
			geom.WriteString(line)
			geom.WriteByte('\n')
			continue
		}
		k, v := splitKeyValue(line)
		in.sectionParams(section).Set(k, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, Error{err.Error(), "", []string{"ParseInput"}, true}
	}
	if section != "" {
		return nil, Error{fmt.Sprintf("%s: $%s", ErrUnclosed, section), "", []string{"ParseInput"}, true}
	}
	return in, nil
}

func (in Input) sectionParams(name string) Params {
	p, ok := in[name]
	if !ok {
		p = make(Params)
		in[name] = p
	}
	return p
}

// splitKeyValue splits "key value", "key=value" or "key = value".
func splitKeyValue(line string) (string, string) {
	if i := strings.Index(line, "="); i >= 0 {
		return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
	}
	f := strings.Fields(line)
	if len(f) == 1 {
		return f[0], ""
	}
	return f[0], strings.TrimSpace(strings.TrimPrefix(line, f[0]))
}

// ReadYAML reads an input from a YAML document with one mapping per section:
//
//	system:
//	  molecule: inline
//	  basis_file: basis.bas
//	  geometry: |
//	    H 0.0 0.0 0.37
//	    H 0.0 0.0 -0.37
//	cap_parameters:
//	  cap_type: box
//	  cap_x: 6.0
//
// Scalar values of any type are stored as strings.
func ReadYAML(name string) (Input, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"ReadYAML"}, true}
	}
	in, err := ParseYAML(data)
	if err != nil {
		if e, ok := err.(Error); ok {
			e.filename = name
			e.deco = append(e.deco, "ReadYAML")
			return nil, e
		}
		return nil, errDecorate(err, "ReadYAML")
	}
	return in, nil
}

// ParseYAML reads an input from a YAML document.
func ParseYAML(data []byte) (Input, error) {
	raw := make(map[string]map[string]interface{})
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, Error{err.Error(), "", []string{"ParseYAML"}, true}
	}
	in := make(Input, len(raw))
	for sec, m := range raw {
		p := in.sectionParams(key(sec))
		for k, v := range m {
			switch v.(type) {
			case map[string]interface{}, []interface{}:
				return nil, Error{fmt.Sprintf("%s %q: only scalar values are allowed", ErrBadValue, k), "", []string{"ParseYAML"}, true}
			case nil:
				p.Set(k, "")
			default:
				p.Set(k, fmt.Sprint(v))
			}
		}
	}
	return in, nil
}
