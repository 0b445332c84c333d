/*
 * molden_test.go, part of gocap.
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
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/gocap"
	"github.com/rmera/gocap/basis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testSystem(Te *testing.T, cartbf string) ([]*gocap.Atom, *basis.BasisSet) {
	atoms, err := gocap.XYZRead("../test/h2.xyz")
	require.NoError(Te, err)
	tmpl, err := basis.ReadGaussian94("../test/test_basis.bas")
	require.NoError(Te, err)
	bs, err := basis.Build(atoms, tmpl, cartbf)
	require.NoError(Te, err)
	return atoms, bs
}

func TestRoundTrip(Te *testing.T) {
	dir := Te.TempDir()
	for i, c := range []struct{ cart, ext string }{{"dfg", ".molden"}, {"", ".molden.gz"}, {"d", ".molden.zst"}} {
		atoms, bs := testSystem(Te, c.cart)
		name := filepath.Join(dir, fmt.Sprintf("test%d%s", i, c.ext))
		require.NoError(Te, Write(name, atoms, bs, nil))
		atoms2, bs2, err := Read(name)
		require.NoError(Te, err)
		require.Len(Te, atoms2, len(atoms))
		for j := range atoms {
			assert.Equal(Te, atoms[j].Symbol, atoms2[j].Symbol)
			assert.InDeltaSlice(Te, atoms[j].Coords[:], atoms2[j].Coords[:], 1e-9)
		}
		require.Equal(Te, bs.NBasis(), bs2.NBasis(), "cart_bf %q", c.cart)
		assert.True(Te, mat.EqualApprox(basis.Overlap(bs), basis.Overlap(bs2), 1e-8), "overlap changed after round trip, cart_bf %q", c.cart)
	}
	//the compressed file must not be readable as plain text.
	raw, err := os.ReadFile(filepath.Join(dir, "test1.molden.gz"))
	require.NoError(Te, err)
	assert.False(Te, strings.Contains(string(raw), "[GTO]"))
}

func TestMORoundTrip(Te *testing.T) {
	atoms, bs := testSystem(Te, "dfg")
	n := bs.NBasis()
	r := rand.New(rand.NewSource(1))
	c := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		c.Set(i, 0, r.Float64()-0.5)
		c.Set(i, 1, r.Float64()-0.5)
	}
	mos := &MOSet{Energies: []float64{-0.6, 0.2}, Occupations: []float64{2, 0}, Coeffs: c}
	var b strings.Builder
	require.NoError(Te, Encode(&b, atoms, bs, mos))
	d, err := Decode(strings.NewReader(b.String()))
	require.NoError(Te, err)
	require.NotNil(Te, d.MOs)
	assert.Equal(Te, 2, d.MOs.Len())
	assert.InDeltaSlice(Te, []float64{-0.6, 0.2}, d.MOs.Energies, 1e-10)
	assert.Equal(Te, []string{"Alpha", "Alpha"}, d.MOs.Spins)
	assert.True(Te, mat.EqualApprox(c, d.MOs.Coeffs, 1e-11))
	bad := &MOSet{Coeffs: mat.NewDense(n-1, 1, nil)}
	assert.Error(Te, Encode(&b, atoms, bs, bad))
}

const smallMolden = `[Molden Format]
[N_ATOMS]
2
[Atoms] Angs
H1   1   1   0.0   0.0   0.37
H2   2   1   0.0   0.0  -0.37
[GTO]
1 0
s 1 1.00
  0.5D+00 1.0D+00
sp 1 1.00
  0.3 1.0 1.0

2 0
d 1 1.00
  0.8 1.0
[5D]
`

func TestDecode(Te *testing.T) {
	d, err := Decode(strings.NewReader(smallMolden))
	require.NoError(Te, err)
	require.Len(Te, d.Atoms, 2)
	assert.Equal(Te, "H", d.Atoms[0].Symbol)
	assert.InDelta(Te, 0.37*gocap.AngToBohr, d.Atoms[0].Coords[2], 1e-12)
	//s, s, p on the first atom, a spherical d on the second
	require.Len(Te, d.Basis.Shells, 4)
	assert.Equal(Te, 1, d.Basis.Shells[2].L)
	assert.True(Te, d.Basis.Shells[3].Spherical())
	assert.Equal(Te, 1+1+3+5, d.Basis.NBasis())
	assert.Nil(Te, d.MOs)
	cart := strings.Replace(smallMolden, "[5D]", "[7F]", 1)
	d, err = Decode(strings.NewReader(cart))
	require.NoError(Te, err)
	assert.False(Te, d.Basis.Shells[3].Spherical())
}

func TestDecodeErrors(Te *testing.T) {
	cases := map[string]string{
		"atom count":     strings.Replace(smallMolden, "[N_ATOMS]\n2", "[N_ATOMS]\n3", 1),
		"undefined atom": strings.Replace(smallMolden, "2 0\n", "3 0\n", 1),
		"no GTO":         smallMolden[:strings.Index(smallMolden, "[GTO]")],
		"no atoms":       "[Molden Format]\n[GTO]\n1 0\ns 1 1.0\n 1.0 1.0\n",
		"truncated":      strings.TrimSuffix(smallMolden, "  0.8 1.0\n[5D]\n"),
		"bad shell":      strings.Replace(smallMolden, "d 1 1.00", "q 1 1.00", 1),
	}
	for name, c := range cases {
		_, err := Decode(strings.NewReader(c))
		assert.Error(Te, err, name)
	}
	_, _, err := Read("../test/does_not_exist.molden")
	assert.Error(Te, err)
	if e, ok := err.(gocap.FileError); assert.True(Te, ok) {
		assert.Equal(Te, "../test/does_not_exist.molden", e.FileName())
	}
}

func TestMixedPure(Te *testing.T) {
	atoms, bs := testSystem(Te, "")
	for _, s := range bs.Shells {
		if s.L == 2 && s.Atom == 2 {
			s2 := *s
			s2.Pure = false
			shells := append([]*basis.Shell{&s2}, bs.Shells...)
			mixed, err := basis.NewBasisSet("mixed", shells)
			require.NoError(Te, err)
			var b strings.Builder
			assert.Error(Te, Encode(&b, atoms, mixed, nil))
			return
		}
	}
	Te.Fatal("no d shell found")
}
