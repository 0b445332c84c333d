/*
 * doc.go, part of gocap.
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

/*
Package gocap is the main package of the gocap library. It provides the atom type, geometry
and XYZ parsing and the atomic data shared by the rest of the library.

	**gocap Capabilities**

    Reads basis sets in the Gaussian94 format and molecular systems from inline geometries,
	XYZ files, Molden files (plain, gzip or zstd compressed) and Q-Chem formatted checkpoint
	files.

    Computes analytic overlap matrices over contracted Cartesian and spherical Gaussians,
	and checks them against the overlap produced by other programs (PySCF, Psi4, Q-Chem,
	Molden ordering).

    Builds box and smooth Voronoi complex absorbing potentials (CAP) and integrates them
	in the atomic orbital basis on Becke-partitioned molecular grids. The integration over
	atomic grids is concurrent.

    Projects the AO CAP on the electronic states, using the (transition) density matrices
	produced by an external electronic structure program, to obtain the first-order CAP
	matrix.

    Runs eta trajectories for the CAP-augmented Hamiltonian, tracks resonances, and
	computes corrected energies and optimal eta values. Trajectories can be plotted.

The subpackages are:

	basis    shells, basis sets, analytic overlaps and AO orderings.
	molden   Molden import/export.
	grid     radial, angular and molecular quadratures.
	opencap  the System and CAP objects.
	qm       readers for the output of electronic structure programs.
	eta      eigenvalue trajectories.
	capplot  plots.
	config   input files.

cmd/gocap is the command line tool.

Coordinates are in bohr everywhere, except where a function explicitly states otherwise.*/
package gocap
