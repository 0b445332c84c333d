/*
 * plot_test.go, part of gocap.
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
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/gocap/eta"
	"github.com/rmera/gocap/opencap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func run(Te *testing.T) *eta.Run {
	h0 := mat.NewDense(3, 3, []float64{0.1, 0.01, 0, 0.01, 0.25, 0.02, 0, 0.02, 0.4})
	w := mat.NewDense(3, 3, []float64{-0.2, 0.01, 0.03, 0.01, -1.1, 0, 0.03, 0, -0.6})
	H, err := eta.NewHamiltonian(h0, w)
	require.NoError(Te, err)
	R, err := H.RunTrajectory(eta.Range(0, 0.2, 0.005))
	require.NoError(Te, err)
	return R
}

func TestTrajectoryPlot(Te *testing.T) {
	R := run(Te)
	dir := Te.TempDir()
	tracked := []*eta.Trajectory{R.TrackByOverlap(0.1), R.TrackByEnergy(0.25)}
	name := filepath.Join(dir, "traj")
	require.NoError(Te, TrajectoryPlot(R, tracked, "Test trajectory", name))
	st, err := os.Stat(name + ".png")
	require.NoError(Te, err)
	assert.Greater(Te, st.Size(), int64(0))
	require.NoError(Te, TrajectoryPlot(R, nil, "Test trajectory", filepath.Join(dir, "traj.svg")))
	_, err = os.Stat(filepath.Join(dir, "traj.svg"))
	assert.NoError(Te, err)
	assert.Error(Te, TrajectoryPlot(nil, nil, "", name))
}

func TestTrajectoryPlotManyStates(Te *testing.T) {
	n := len(shapes) + 1
	h0 := mat.NewDense(n, n, nil)
	w := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		h0.Set(i, i, 0.1*float64(i+1))
		w.Set(i, i, -0.1*float64(i+1))
		if i > 0 {
			h0.Set(i, i-1, 0.005)
			h0.Set(i-1, i, 0.005)
		}
	}
	H, err := eta.NewHamiltonian(h0, w)
	require.NoError(Te, err)
	R, err := H.RunTrajectory(eta.Range(0, 0.05, 0.01))
	require.NoError(Te, err)
	tracked := make([]*eta.Trajectory, n)
	for i := range tracked {
		tracked[i] = R.TrackByOverlap(real(R.Roots[0][i].Energy))
	}
	name := filepath.Join(Te.TempDir(), "many.png")
	require.NoError(Te, TrajectoryPlot(R, tracked, "Many states", name))
	_, err = os.Stat(name)
	assert.NoError(Te, err)
}

func TestStationarityPlot(Te *testing.T) {
	R := run(Te)
	name := filepath.Join(Te.TempDir(), "stationarity.png")
	require.NoError(Te, StationarityPlot(R.TrackByOverlap(0.25), "Test stationarity", name))
	_, err := os.Stat(name)
	assert.NoError(Te, err)
	assert.Error(Te, StationarityPlot(&eta.Trajectory{}, "", name))
}

func TestProfilePlot(Te *testing.T) {
	box := &opencap.Box{X: 2, Y: 2, Z: 3}
	name := filepath.Join(Te.TempDir(), "profile.pdf")
	require.NoError(Te, ProfilePlot(box, 2, -6, 6, 200, "Box CAP", name))
	_, err := os.Stat(name)
	assert.NoError(Te, err)
	assert.Error(Te, ProfilePlot(box, 3, -6, 6, 200, "", name))
	assert.Error(Te, ProfilePlot(box, 0, 6, -6, 200, "", name))
}

func TestColors(Te *testing.T) {
	r, g, b := colors(0, 10)
	assert.Equal(Te, uint8(255), r)
	assert.Equal(Te, uint8(0), b)
	assert.Equal(Te, uint8(0), g)
	r, g, b = iHVS2RGB(0, 1, 0)
	assert.Equal(Te, [3]uint8{255, 255, 255}, [3]uint8{r, g, b})
	assert.Equal(Te, shapes[0], getShape(len(shapes)))
	assert.Equal(Te, shapes[1], getShape(len(shapes)+1))
}
