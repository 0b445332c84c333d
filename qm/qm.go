/*
 * qm.go, part of gocap.
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

// Package qm reads, from the output of electronic structure programs, what is needed
// to project a complex absorbing potential on a set of electronic states: state and
// transition densities, AO overlap matrices and state energies.
package qm

import "gonum.org/v1/gonum/mat"

// Reader obtains the data for a perturbative CAP calculation from the output
// of a QM program.
type Reader interface {
	//Package returns the name of the AO ordering used by the program.
	Package() string

	//Densities returns alpha ([0]) and beta ([1]) densities. [spin][i][i] is the
	//density of state i, and [spin][i][j] the transition density between states i and j.
	Densities(nstates, nbf int) ([2][][]*mat.Dense, error)

	//Overlap returns the AO overlap matrix.
	Overlap(nbf int) (*mat.Dense, error)

	//Energies returns the zeroth order Hamiltonian, nstates x nstates.
	Energies(nstates int) (*mat.Dense, error)
}
