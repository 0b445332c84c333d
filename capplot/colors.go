/*
 * colors.go, part of gocap.
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
	"math"

	"gonum.org/v1/plot/vg/draw"
)

//takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, p, q, t float64
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i = math.Floor(h)
	f = h - i
	p = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default: //case 5
		r, g, b = v, p, q
	}
	return uint8(r * conversion), uint8(g * conversion), uint8(b * conversion)
}

// colors returns a color from a red to violet ramp, for the key-th of steps elements.
// Yellow is skipped, as it is hard to see on white.
func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0
	if steps > 1 {
		norm /= float64(steps - 1)
	}
	hp := float64(key)*norm + 20.0
	var h float64
	if hp < 55 {
		h = hp - 20.0
	} else {
		h = hp + 20.0
	}
	if h >= 360 {
		h = 359.9
	}
	return iHVS2RGB(h, 1, 1)
}

var shapes = []draw.GlyphDrawer{
	draw.PyramidGlyph{},
	draw.SquareGlyph{},
	draw.CrossGlyph{},
	draw.RingGlyph{},
	draw.PlusGlyph{},
	draw.BoxGlyph{},
}

// getShape returns the glyph used for the tagged-th highlighted trajectory.
// Glyphs are reused, in order, once all of them have been taken.
func getShape(tagged int) draw.GlyphDrawer {
	if tagged < 0 {
		return draw.CircleGlyph{}
	}
	return shapes[tagged%len(shapes)]
}
