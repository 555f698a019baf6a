// Copyright 2024 The ecvectors Authors
// This file is part of ecvectors.
//
// ecvectors is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ecvectors is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ecvectors. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/ethvectors/ecvectors/common"
	"github.com/ethvectors/ecvectors/crypto/ec"
	"github.com/ethvectors/ecvectors/crypto/ec/bls12377"
	"github.com/ethvectors/ecvectors/crypto/ec/bw6761"
	"github.com/ethvectors/ecvectors/log"
	"github.com/ethvectors/ecvectors/vectors"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

var generateCommand = &cli.Command{
	Action:    generate,
	Name:      "generate",
	Usage:     "Generate vector files",
	ArgsUsage: "",
	Flags:     configFlags,
	Description: `
The generate command writes one success and one failure file per curve and
operation into the output directory. Runs with the same seed and settings
produce identical files.`,
}

// runFunc generates and writes the selected operations of one curve.
type runFunc func(cfg vectors.Config, seed uint64, ops []vectors.Op, w *vectors.Writer) ([]vectors.FileStat, error)

type curve struct {
	profile ec.Profile
	run     runFunc
}

var curves = map[string]curve{
	"bls12377": {bls12377.Profile, runner[bls12377.G1, bls12377.G2](bls12377.New())},
	"bw6761":   {bw6761.Profile, runner[bw6761.G1, bw6761.G2](bw6761.New())},
}

func curveNames() []string {
	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// runner binds a backend to the generator. Each curve draws from its own
// stream of the seed, so its files do not depend on which other curves run.
func runner[G1, G2 any](engine ec.Engine[G1, G2]) runFunc {
	return func(cfg vectors.Config, seed uint64, ops []vectors.Op, w *vectors.Writer) ([]vectors.FileStat, error) {
		gen, err := vectors.NewGenerator(engine, cfg, vectors.NewPseudoRand(seed))
		if err != nil {
			return nil, err
		}
		var stats []vectors.FileStat
		for _, op := range ops {
			suite, err := gen.Suite(op)
			if err != nil {
				return stats, err
			}
			written, err := w.Write(gen.Profile().Prefix, suite)
			if err != nil {
				return stats, err
			}
			stats = append(stats, written...)
		}
		return stats, nil
	}
}

func generate(ctx *cli.Context) error {
	cfg, err := buildConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = vectors.NewSeed()
		log.Info("Drew fresh seed", "seed", cfg.Seed)
	}
	ops, err := cfg.operations()
	if err != nil {
		return err
	}
	w, err := vectors.OpenWriter(cfg.OutDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			log.Warn("Failed to release output directory", "dir", cfg.OutDir, "err", err)
		}
	}()

	var (
		stats []vectors.FileStat
		start = time.Now()
	)
	for _, name := range cfg.Curves {
		c := curves[name]
		cstart := time.Now()
		written, err := c.run(cfg.generatorConfig(), cfg.Seed, ops, w)
		stats = append(stats, written...)
		if err != nil {
			return fmt.Errorf("%s: %w", c.profile.Name, err)
		}
		log.Info("Generated curve vectors", "curve", c.profile.Name, "files", len(written), "elapsed", common.PrettyDuration(time.Since(cstart)))
	}
	renderSummary(ctx.App.Writer, stats)
	log.Info("Vector generation complete", "dir", cfg.OutDir, "files", len(stats), "seed", cfg.Seed, "elapsed", common.PrettyDuration(time.Since(start)))
	return nil
}

func renderSummary(out io.Writer, stats []vectors.FileStat) {
	var (
		table   = tablewriter.NewWriter(out)
		records int
		size    common.StorageSize
	)
	table.SetHeader([]string{"File", "Records", "Size"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, s := range stats {
		table.Append([]string{filepath.Base(s.Path), strconv.Itoa(s.Records), s.Size.String()})
		records += s.Records
		size += s.Size
	}
	table.SetFooter([]string{"Total", strconv.Itoa(records), size.String()})
	table.Render()
}
