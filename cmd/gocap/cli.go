/*
 * cli.go, part of gocap.
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

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rmera/gocap/basis"
	"github.com/rmera/gocap/capplot"
	"github.com/rmera/gocap/config"
	"github.com/rmera/gocap/eta"
	"github.com/rmera/gocap/opencap"
	"github.com/rmera/gocap/qm"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/mat"
)

type gocapApp struct {
	logger *slog.Logger
	stderr io.Writer
}

// newCLIApp creates the CLI application with all commands. Logs go to stderr.
func newCLIApp(stderr io.Writer) *cli.App {
	g := &gocapApp{stderr: stderr, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	app := &cli.App{
		Name:    "gocap",
		Usage:   "Complex absorbing potentials for electronic resonances",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "Log debug messages"},
		},
		Before: func(c *cli.Context) error {
			level := slog.LevelInfo
			if c.Bool("verbose") {
				level = slog.LevelDebug
			}
			g.logger = slog.New(slog.NewTextHandler(g.stderr, &slog.HandlerOptions{Level: level}))
			return nil
		},
		Commands: []*cli.Command{
			g.runCmd(),
			g.overlapCmd(),
			g.moldenCmd(),
		},
	}
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// readInput reads the input file named by the first argument and builds its System.
func (g *gocapApp) readInput(c *cli.Context, opts ...opencap.Option) (config.Input, *opencap.System, error) {
	if c.NArg() < 1 {
		return nil, nil, fmt.Errorf("%s: missing input file", c.Command.Name)
	}
	in, err := config.Read(c.Args().First())
	if err != nil {
		return nil, nil, err
	}
	sys, err := opencap.NewSystem(in.Section(config.SectionSystem), opts...)
	if err != nil {
		return nil, nil, err
	}
	return in, sys, nil
}

// runCmd creates the run command.
func (g *gocapApp) runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Compute the perturbative CAP matrix from Q-Chem densities",
		ArgsUsage: "INPUT",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Number of concurrent grid workers (0: one per CPU)"},
			&cli.BoolFlag{Name: "check-overlap", Usage: "Fail if the overlap matrix of the package does not match the computed one"},
			&cli.BoolFlag{Name: "renormalize", Usage: "Renormalize the AO CAP matrix with the overlap matrix of the package"},
			&cli.StringFlag{Name: "etas", Usage: "Run an eta trajectory, given as start:stop:step"},
			&cli.StringFlag{Name: "plot", Usage: "Plot the eta trajectory to this file (png, svg, pdf)"},
		},
		Action: func(c *cli.Context) error {
			opts := []opencap.Option{opencap.WithLogger(g.logger)}
			if n := c.Int("workers"); n > 0 {
				opts = append(opts, opencap.WithWorkers(n))
			}
			in, sys, err := g.readInput(c, opts...)
			if err != nil {
				return err
			}
			proj := in.Section(config.SectionProjection)
			pkg := proj.StringOr("package", basis.QChem)
			if !strings.EqualFold(pkg, basis.QChem) {
				return fmt.Errorf("run: unsupported package %q, only %q is supported", pkg, basis.QChem)
			}
			nstates, err := proj.Int("nstates")
			if err != nil {
				return err
			}
			fchk, err := proj.String("qchem_fchk")
			if err != nil {
				return err
			}
			reader := qm.NewQChem(fchk, proj.StringOr("qchem_output", ""), proj.StringOr("method", ""))
			C, err := opencap.NewCAP(sys, in.Section(config.SectionCAP), nstates, reader.Package(), opts...)
			if err != nil {
				return err
			}
			if err := C.ComputeAOCAP(c.Context); err != nil {
				return err
			}
			if c.Bool("check-overlap") || c.Bool("renormalize") {
				smat, err := reader.Overlap(sys.NBasis())
				if err != nil {
					return err
				}
				if c.Bool("check-overlap") {
					if err := sys.CheckOverlap(smat, reader.Package()); err != nil {
						return err
					}
				}
				if c.Bool("renormalize") {
					if err := C.RenormalizeCAP(smat, reader.Package()); err != nil {
						return err
					}
				}
			}
			if err := C.ReadDensities(reader); err != nil {
				return err
			}
			if err := C.ComputePerturbCAP(); err != nil {
				return err
			}
			W, err := C.PerturbCAP()
			if err != nil {
				return err
			}
			out := c.App.Writer
			var H0 *mat.Dense
			if reader.Output != "" {
				H0, err = reader.Energies(nstates)
				if err != nil {
					return err
				}
				printMatrix(out, "Zeroth order Hamiltonian", H0)
			}
			printMatrix(out, "Perturbative CAP matrix", W)
			if c.String("etas") == "" {
				return nil
			}
			if H0 == nil {
				return fmt.Errorf("run: an eta trajectory needs the energies, set qchem_output in the %s section", config.SectionProjection)
			}
			etas, err := parseEtas(c.String("etas"))
			if err != nil {
				return err
			}
			return g.trajectory(c, H0, W, etas)
		},
	}
}

// trajectory diagonalizes the CAP Hamiltonian for every eta, tracks every state and
// prints the optimal eta and energies for each.
func (g *gocapApp) trajectory(c *cli.Context, H0, W *mat.Dense, etas []float64) error {
	H, err := eta.NewHamiltonian(H0, W)
	if err != nil {
		return err
	}
	R, err := H.RunTrajectory(etas)
	if err != nil {
		return err
	}
	out := c.App.Writer
	fmt.Fprintf(out, "%-6s %12s %16s %16s %12s %16s %16s\n", "state", "eta_opt", "Re(E)", "Im(E)", "eta_opt(U)", "Re(U)", "Im(U)")
	trajs := make([]*eta.Trajectory, H.N())
	for i := range trajs {
		trajs[i] = R.TrackByOverlap(H0.At(i, i))
		oeta, e, err := trajs[i].Optimal()
		if err != nil {
			return err
		}
		ueta, u, err := trajs[i].OptimalCorrected()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-6d %12.6g %16.10f %16.10f %12.6g %16.10f %16.10f\n", i+1, oeta, real(e), imag(e), ueta, real(u), imag(u))
		g.logger.Debug("state tracked", "state", i+1, "eta", oeta, "width_ev", -2*imag(e)*eta.HartreeToEV)
	}
	if name := c.String("plot"); name != "" {
		if err := capplot.TrajectoryPlot(R, trajs, "Eigenvalue trajectories", name); err != nil {
			return err
		}
		g.logger.Info("trajectory plotted", "file", name)
	}
	return nil
}

// overlapCmd creates the overlap command.
func (g *gocapApp) overlapCmd() *cli.Command {
	return &cli.Command{
		Name:      "overlap",
		Usage:     "Print the basis functions and the overlap matrix of the system",
		ArgsUsage: "INPUT",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "package", Aliases: []string{"p"}, Value: basis.OpenCAP, Usage: "AO ordering: " + strings.Join(basis.Packages(), "|")},
		},
		Action: func(c *cli.Context) error {
			_, sys, err := g.readInput(c, opencap.WithLogger(g.logger))
			if err != nil {
				return err
			}
			S, err := sys.OverlapIn(c.String("package"))
			if err != nil {
				return err
			}
			out := c.App.Writer
			fmt.Fprintln(out, sys.BasisIDs())
			printMatrix(out, "Overlap matrix", S)
			return nil
		},
	}
}

// moldenCmd creates the molden command.
func (g *gocapApp) moldenCmd() *cli.Command {
	return &cli.Command{
		Name:      "molden",
		Usage:     "Write the geometry and basis set of the system to a Molden file (.gz and .zst compress)",
		ArgsUsage: "INPUT OUTPUT",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("molden: missing output file")
			}
			_, sys, err := g.readInput(c, opencap.WithLogger(g.logger))
			if err != nil {
				return err
			}
			return sys.WriteMolden(c.Args().Get(1), nil)
		},
	}
}

// Helper functions

// printMatrix writes m to w under the given title.
func printMatrix(w io.Writer, title string, m mat.Matrix) {
	fmt.Fprintf(w, "%s:\n%.10v\n\n", title, mat.Formatted(m, mat.Squeeze()))
}

// parseEtas parses "start:stop:step" into the list of eta values.
func parseEtas(s string) ([]float64, error) {
	fields := strings.Split(s, ":")
	if len(fields) != 3 {
		return nil, fmt.Errorf("invalid eta range %q, want start:stop:step", s)
	}
	var v [3]float64
	for i, f := range fields {
		var err error
		v[i], err = strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid eta range %q: %w", s, err)
		}
	}
	etas := eta.Range(v[0], v[1], v[2])
	if len(etas) < 3 {
		return nil, fmt.Errorf("invalid eta range %q, at least 3 values needed", s)
	}
	return etas, nil
}
