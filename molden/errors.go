/*
 * errors.go, part of gocap.
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

package molden

import (
	"fmt"

	"github.com/rmera/gocap"
)

// Error is the general structure for Molden file errors. It fullfills gocap.Error and gocap.FileError
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("molden: %s", err.message)
	}
	return fmt.Sprintf("molden file %s error: %s", err.filename, err.message)
}

// Decorate Adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file to which the error is associated, if any.
func (err Error) FileName() string { return err.filename }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(gocap.Error); ok {
		err2.Decorate(caller)
		return err2
	}
	return Error{err.Error(), "", []string{caller}, true}
}

// withFile sets the file name of err, if err is an Error, and decorates it.
func withFile(err error, name, caller string) error {
	if e, ok := err.(Error); ok {
		e.filename = name
		e.deco = append(e.deco, caller)
		return e
	}
	return errDecorate(err, caller)
}

const (
	ErrNoAtoms       = "No [Atoms] section found"
	ErrNoGTO         = "No [GTO] section found"
	ErrAtomCount     = "Number of atoms does not match the N_ATOMS section"
	ErrUndefinedAtom = "Shell refers to an undefined atom"
	ErrIllFormed     = "Ill formed line"
	ErrMixedPure     = "Pure and Cartesian shells of the same angular momentum can't be written"
	ErrMODimension   = "MO coefficients do not match the basis set"
	ErrCompression   = "Unable to set up compression"
	ErrShellNoAtom   = "Shell found before any atom index"
	ErrUnexpectedEnd = "Unexpected end of file"
)
