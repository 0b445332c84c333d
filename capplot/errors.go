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

package capplot

import (
	"github.com/rmera/gocap"
)

// Error is the general structure for plotting errors. It fullfills gocap.Error
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string { return "capplot: " + err.message }

// Decorate Adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

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
	return Error{err.Error(), []string{caller}, true}
}

const (
	ErrNoData = "No data to plot"
)
