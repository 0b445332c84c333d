/*
 * qchem.go, part of gocap.
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
	"strings"

	"github.com/rmera/gocap/basis"
	"gonum.org/v1/gonum/mat"
)

// ReadEnergies reads the total energies of the first nstates states from a Q-Chem
// output file, for the given method (e.g. "eom-ee-ccsd"), and returns them as the
// diagonal of an nstates x nstates zeroth order Hamiltonian. The energies are taken
// from the line following each "METHOD transition N" header.
func ReadEnergies(output string, nstates int, method string) (*mat.Dense, error) {
	fin, err := os.Open(output)
	if err != nil {
		return nil, Error{err.Error(), output, []string{"ReadEnergies"}, true}
	}
	defer fin.Close()
	method = strings.ToUpper(method)
	H0 := mat.NewDense(nstates, nstates, nil)
	scanner := bufio.NewScanner(fin)
	state := 1
	header := func(line string) bool {
		target := fmt.Sprintf("%s transition %d", method, state)
		k := strings.Index(line, target)
		if k < 0 {
			return false
		}
		rest := line[k+len(target):]
		//"transition 1" must not match "transition 10"
		return rest == "" || rest[0] < '0' || rest[0] > '9'
	}
	for state <= nstates && scanner.Scan() {
		if !header(scanner.Text()) {
			continue
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		f := strings.Fields(line)
		if len(f) < 4 {
			return nil, Error{fmt.Sprintf("%s: %q", ErrIllFormed, line), output, []string{"ReadEnergies"}, true}
		}
		e, err := basis.ParseFloat(f[3])
		if err != nil {
			return nil, Error{fmt.Sprintf("%s: %q", ErrIllFormed, line), output, []string{"ReadEnergies"}, true}
		}
		H0.Set(state-1, state-1, e)
		state++
	}
	if err := scanner.Err(); err != nil {
		return nil, Error{err.Error(), output, []string{"ReadEnergies"}, true}
	}
	if state <= nstates {
		return nil, Error{fmt.Sprintf("%s %d (method %s)", ErrEnergyNotFound, state, method), output, []string{"ReadEnergies"}, true}
	}
	return H0, nil
}

// QChem reads densities, overlap and energies from the fchk and output files of a
// Q-Chem calculation. It implements Reader.
type QChem struct {
	Fchk   string
	Output string
	Method string
}

// NewQChem returns a reader for the given Q-Chem fchk and output files.
func NewQChem(fchk, output, method string) *QChem {
	return &QChem{Fchk: fchk, Output: output, Method: method}
}

// Package returns the AO ordering used by Q-Chem.
func (Q *QChem) Package() string { return basis.QChem }

// Densities returns the alpha and beta state and transition densities.
func (Q *QChem) Densities(nstates, nbf int) ([2][][]*mat.Dense, error) {
	d, err := ReadFchkDensities(Q.Fchk, nstates, nbf)
	return d, errDecorate(err, "QChem.Densities")
}

// Overlap returns the AO overlap matrix in Q-Chem ordering.
func (Q *QChem) Overlap(nbf int) (*mat.Dense, error) {
	s, err := ReadFchkOverlap(Q.Fchk, nbf)
	return s, errDecorate(err, "QChem.Overlap")
}

// Energies returns the zeroth order Hamiltonian.
func (Q *QChem) Energies(nstates int) (*mat.Dense, error) {
	if Q.Output == "" {
		return nil, Error{"No output file given", "", []string{"QChem.Energies"}, true}
	}
	h, err := ReadEnergies(Q.Output, nstates, Q.Method)
	return h, errDecorate(err, "QChem.Energies")
}
