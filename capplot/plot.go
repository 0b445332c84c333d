/*
 * plot.go, part of gocap.
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

// Package capplot draws eigenvalue trajectories of CAP Hamiltonians and the
// stationarity profiles used to pick the optimal CAP strength.
package capplot

import (
	"fmt"
	"image/color"
	"math/cmplx"
	"path/filepath"

	"github.com/rmera/gocap/eta"
	"github.com/rmera/gocap/opencap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Size of the saved plots.
var (
	Width  = 5 * vg.Inch
	Height = 5 * vg.Inch
)

// filename adds a png extension to plotname, unless it already has one. The output
// format follows the extension (png, svg, pdf, eps, jpg, tif).
func filename(plotname string) string {
	if filepath.Ext(plotname) == "" {
		return plotname + ".png"
	}
	return plotname
}

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

func complexXYs(e []complex128) plotter.XYs {
	pts := make(plotter.XYs, len(e))
	for i, v := range e {
		pts[i].X = real(v)
		pts[i].Y = imag(v)
	}
	return pts
}

// TrajectoryPlot plots every root in R on the complex energy plane, colored from red
// (smallest eta) to violet (largest eta). The trajectories in tracked, if any, are
// drawn on top as lines with their own glyphs. The plot is saved to plotname.
func TrajectoryPlot(R *eta.Run, tracked []*eta.Trajectory, title, plotname string) error {
	if R == nil || len(R.Roots) == 0 {
		return Error{ErrNoData, []string{"TrajectoryPlot"}, true}
	}
	p := basicPlot(title, "Re(E)", "Im(E)")
	for key, roots := range R.Roots {
		e := make([]complex128, len(roots))
		for i, r := range roots {
			e[i] = r.Energy
		}
		s, err := plotter.NewScatter(complexXYs(e))
		if err != nil {
			return errDecorate(err, "TrajectoryPlot")
		}
		r, g, b := colors(key, len(R.Roots))
		s.GlyphStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		s.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(s)
	}
	if err := addTracked(p, tracked); err != nil {
		return errDecorate(err, "TrajectoryPlot")
	}
	if err := p.Save(Width, Height, filename(plotname)); err != nil {
		return errDecorate(err, "TrajectoryPlot")
	}
	return nil
}

func addTracked(p *plot.Plot, tracked []*eta.Trajectory) error {
	for i, T := range tracked {
		if T == nil || T.Len() == 0 {
			continue
		}
		l, s, err := plotter.NewLinePoints(complexXYs(T.Energies))
		if err != nil {
			return err
		}
		s.Shape = getShape(i)
		s.Color = color.Black
		l.Color = color.Black
		p.Add(l, s)
		p.Legend.Add(fmt.Sprintf("state %d", i+1), l, s)
	}
	return nil
}

// StationarityPlot plots |eta dE/deta| for the raw and the first order corrected energies
// of T as functions of eta, and marks the minimum of each curve. Points with eta<=0
// are left out.
func StationarityPlot(T *eta.Trajectory, title, plotname string) error {
	if T == nil || T.Len() < 3 {
		return Error{ErrNoData, []string{"StationarityPlot"}, true}
	}
	p := basicPlot(title, "eta", "|eta dE/deta|")
	u := T.Corrected()
	curves := []struct {
		name   string
		e      []complex128
		c      color.RGBA
		getopt func() (float64, complex128, error)
	}{
		{"uncorrected", T.Energies, color.RGBA{R: 220, A: 255}, T.Optimal},
		{"corrected", u, color.RGBA{B: 220, A: 255}, T.OptimalCorrected},
	}
	for _, c := range curves {
		tmp := &eta.Trajectory{Etas: T.Etas, Energies: c.e}
		d := tmp.Derivative()
		pts := make(plotter.XYs, 0, T.Len())
		for i, et := range T.Etas {
			if et <= 0 {
				continue
			}
			pts = append(pts, plotter.XY{X: et, Y: cmplx.Abs(complex(et, 0) * d[i])})
		}
		if len(pts) == 0 {
			return Error{ErrNoData, []string{"StationarityPlot"}, true}
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return errDecorate(err, "StationarityPlot")
		}
		l.Color = c.c
		p.Add(l)
		p.Legend.Add(c.name, l)
		opteta, _, err := c.getopt()
		if err != nil {
			return errDecorate(err, "StationarityPlot")
		}
		for _, pt := range pts {
			if pt.X != opteta {
				continue
			}
			s, err := plotter.NewScatter(plotter.XYs{pt})
			if err != nil {
				return errDecorate(err, "StationarityPlot")
			}
			s.Color = c.c
			s.Radius = vg.Points(4)
			p.Add(s)
		}
	}
	if err := p.Save(Width, Height, filename(plotname)); err != nil {
		return errDecorate(err, "StationarityPlot")
	}
	return nil
}

var axisNames = [3]string{"x", "y", "z"}

// ProfilePlot plots the CAP potential pot along the Cartesian axis (0, 1 or 2 for
// x, y or z) through the origin, between lo and hi (bohr), with npoints points.
func ProfilePlot(pot opencap.Potential, axis int, lo, hi float64, npoints int, title, plotname string) error {
	if pot == nil || axis < 0 || axis > 2 || hi <= lo || npoints < 2 {
		return Error{fmt.Sprintf("%s: axis %d, range [%g, %g], %d points", ErrNoData, axis, lo, hi, npoints), []string{"ProfilePlot"}, true}
	}
	p := basicPlot(title, axisNames[axis]+" (bohr)", "W")
	xs := floats.Span(make([]float64, npoints), lo, hi)
	pts := make(plotter.XYs, npoints)
	for i, x := range xs {
		var r [3]float64
		r[axis] = x
		pts[i].X = x
		pts[i].Y = pot.Eval(r)
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return errDecorate(err, "ProfilePlot")
	}
	l.Color = color.RGBA{R: 220, A: 255}
	p.Add(l)
	p.Legend.Add(pot.String(), l)
	if err := p.Save(Width, Height, filename(plotname)); err != nil {
		return errDecorate(err, "ProfilePlot")
	}
	return nil
}
