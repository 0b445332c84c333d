/*
 * options.go, part of gocap.
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

package opencap

import (
	"io"
	"log/slog"
	"runtime"
)

// Option configures a System or a CAP.
type Option func(*settings)

type settings struct {
	logger  *slog.Logger
	workers int
}

func newSettings(opts []Option) *settings {
	s := &settings{workers: runtime.GOMAXPROCS(0)}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.workers < 1 {
		s.workers = 1
	}
	return s
}

// WithLogger sets the logger. By default, nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithWorkers sets the maximum number of goroutines used for numerical
// integration. The default is GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *settings) {
		s.workers = n
	}
}
