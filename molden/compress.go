/*
 * compress.go, part of gocap.
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
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression returns the compression used for a file, according to its
// extension: "gz", "zst" or "" for none.
func Compression(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.HasSuffix(n, ".gz"):
		return "gz"
	case strings.HasSuffix(n, ".zst"), strings.HasSuffix(n, ".zstd"):
		return "zst"
	default:
		return ""
	}
}

// fileReader reads a possibly compressed file, and closes
// both the decompressor and the file.
type fileReader struct {
	io.Reader
	closers []func() error
}

func (f *fileReader) Close() error {
	var err error
	for _, c := range f.closers {
		if e := c(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// openFile opens name for reading, decompressing it if the extension
// indicates so.
func openFile(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"openFile"}, true}
	}
	ret := &fileReader{closers: []func() error{f.Close}}
	buf := bufio.NewReader(f)
	switch Compression(name) {
	case "gz":
		gz, err := gzip.NewReader(buf)
		if err != nil {
			f.Close()
			return nil, Error{ErrCompression + ": " + err.Error(), name, []string{"openFile"}, true}
		}
		ret.Reader = gz
		ret.closers = append([]func() error{gz.Close}, ret.closers...)
	case "zst":
		zr, err := zstd.NewReader(buf)
		if err != nil {
			f.Close()
			return nil, Error{ErrCompression + ": " + err.Error(), name, []string{"openFile"}, true}
		}
		ret.Reader = zr
		//zstd.Decoder.Close returns nothing.
		ret.closers = append([]func() error{func() error { zr.Close(); return nil }}, ret.closers...)
	default:
		ret.Reader = buf
	}
	return ret, nil
}

// fileWriter writes a possibly compressed file. Close flushes and
// closes the compressor and then the file.
type fileWriter struct {
	*bufio.Writer
	closers []func() error
}

func (f *fileWriter) Close() error {
	err := f.Flush()
	for _, c := range f.closers {
		if e := c(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// createFile creates name for writing, compressing the output if the
// extension indicates so.
func createFile(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"createFile"}, true}
	}
	ret := &fileWriter{closers: []func() error{f.Close}}
	switch Compression(name) {
	case "gz":
		gz := gzip.NewWriter(f)
		ret.Writer = bufio.NewWriter(gz)
		ret.closers = append([]func() error{gz.Close}, ret.closers...)
	case "zst":
		zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			f.Close()
			return nil, Error{ErrCompression + ": " + err.Error(), name, []string{"createFile"}, true}
		}
		ret.Writer = bufio.NewWriter(zw)
		ret.closers = append([]func() error{zw.Close}, ret.closers...)
	default:
		ret.Writer = bufio.NewWriter(f)
	}
	return ret, nil
}
