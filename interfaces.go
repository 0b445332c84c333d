/*
 * interfaces.go, part of gocap.
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

import "fmt"

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Adds the caller to the decoration slice. An empty string just returns the current slice.
	Critical() bool
}

// FileError is an Error associated to a file that could not be read or written.
type FileError interface {
	Error
	FileName() string
}

// CError is the concrete error type of the gocap package. It fulfills Error and FileError.
type CError struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
}

// NewError returns a critical CError with the given message, raised by caller.
func NewError(message, filename, caller string) CError {
	return CError{message: message, filename: filename, deco: []string{caller}, critical: true}
}

func (err CError) Error() string {
	if err.filename == "" {
		return err.message
	}
	return fmt.Sprintf("%s: %s", err.filename, err.message)
}

// Decorate adds dec to the decoration slice of the error
// and returns the resulting slice.
func (err CError) Decorate(dec string) []string {
	//Even though the receiver is not a pointer, E.deco is a slice, so the appended
	//element survives as long as there is capacity. Callers always use the returned value.
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical or it can be ignored
func (err CError) Critical() bool { return err.critical }

// FileName returns the file associated to the error, if any.
func (err CError) FileName() string { return err.filename }

// errDecorate decorates err with the caller's name if err implements Error,
// otherwise it wraps err in a CError.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(Error); ok {
		err2.Decorate(caller)
		return err2
	}
	return CError{message: err.Error(), deco: []string{caller}, critical: true}
}

const (
	ErrIllFormedLine  = "Ill formed line"
	ErrUnknownElement = "Unknown element symbol"
	ErrEmptyGeometry  = "No atoms found in geometry"
	ErrAtomCountXYZ   = "Number of atoms read does not match the XYZ header"
	ErrUnableToOpen   = "Unable to open file"
	ErrUnableToWrite  = "Unable to write file"
	ErrNilAtoms       = "Given nil atoms"
)
