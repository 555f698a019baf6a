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
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"unicode"

	"github.com/ethvectors/ecvectors/internal/flags"
	"github.com/ethvectors/ecvectors/vectors"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.MiscCategory,
	}
	curvesFlag = &flags.TextMarshalerFlag{
		Name:        "curves",
		Usage:       "Comma separated list of curves to generate vectors for",
		Value:       new(nameList),
		DefaultText: "bls12377,bw6761",
		Category:    flags.GenerationCategory,
	}
	opsFlag = &flags.TextMarshalerFlag{
		Name:        "ops",
		Usage:       `Comma separated list of operations, or "all"`,
		Value:       new(nameList),
		DefaultText: "all",
		Category:    flags.GenerationCategory,
	}
	countFlag = &cli.IntFlag{
		Name:     "count",
		Usage:    "Number of random success vectors per operation",
		Value:    vectors.DefaultConfig.Count,
		Category: flags.GenerationCategory,
	}
	seedFlag = &cli.Uint64Flag{
		Name:     "seed",
		Usage:    "Seed of the vector randomness (0 draws a fresh one)",
		Category: flags.GenerationCategory,
	}
	randomSeedFlag = &cli.BoolFlag{
		Name:     "randomseed",
		Usage:    "Draw a fresh seed even if the config file sets one",
		Category: flags.GenerationCategory,
	}
	maxAttemptsFlag = &cli.IntFlag{
		Name:     "maxattempts",
		Usage:    "Bound on every rejection sampling loop",
		Value:    vectors.DefaultConfig.MaxAttempts,
		Category: flags.GenerationCategory,
	}
	noSelfCheckFlag = &cli.BoolFlag{
		Name:     "noselfcheck",
		Usage:    "Skip evaluating pairing vectors before they are written",
		Category: flags.GenerationCategory,
	}
	outDirFlag = &flags.DirectoryFlag{
		Name:     "outdir",
		Usage:    "Directory the vector files are written to",
		Value:    flags.DirectoryString(defaultConfig.OutDir),
		Category: flags.OutputCategory,
	}

	configFlags = []cli.Flag{
		configFileFlag,
		curvesFlag,
		opsFlag,
		countFlag,
		seedFlag,
		randomSeedFlag,
		maxAttemptsFlag,
		noSelfCheckFlag,
		outDirFlag,
	}
)

var dumpConfigCommand = &cli.Command{
	Action:      dumpConfig,
	Name:        "dumpconfig",
	Usage:       "Show the effective configuration",
	ArgsUsage:   "",
	Flags:       configFlags,
	Description: `The dumpconfig command shows configuration values as TOML.`,
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		link := ""
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// genConfig is the full configuration of a generation run.
type genConfig struct {
	Curves      []string
	Ops         []string
	OutDir      string
	Count       int
	Seed        uint64 // 0 means draw a fresh seed
	MaxAttempts int
	SelfCheck   bool
}

var defaultConfig = genConfig{
	Curves:      curveNames(),
	Ops:         []string{"all"},
	OutDir:      "vectors",
	Count:       vectors.DefaultConfig.Count,
	MaxAttempts: vectors.DefaultConfig.MaxAttempts,
	SelfCheck:   vectors.DefaultConfig.SelfCheck,
}

func (c *genConfig) generatorConfig() vectors.Config {
	return vectors.Config{
		Count:       c.Count,
		MaxAttempts: c.MaxAttempts,
		SelfCheck:   c.SelfCheck,
	}
}

// operations resolves the configured operation names in output order.
func (c *genConfig) operations() ([]vectors.Op, error) {
	want := make(map[vectors.Op]bool)
	for _, name := range c.Ops {
		if name == "all" {
			return vectors.AllOps, nil
		}
		op, err := vectors.ParseOp(name)
		if err != nil {
			return nil, err
		}
		want[op] = true
	}
	var ops []vectors.Op
	for _, op := range vectors.AllOps {
		if want[op] {
			ops = append(ops, op)
		}
	}
	return ops, nil
}

func (c *genConfig) validate() error {
	if len(c.Curves) == 0 {
		return errors.New("no curves selected")
	}
	for _, name := range c.Curves {
		if _, ok := curves[name]; !ok {
			return fmt.Errorf("unknown curve %q, want one of %s", name, strings.Join(curveNames(), ", "))
		}
	}
	if len(c.Ops) == 0 {
		return errors.New("no operations selected")
	}
	if _, err := c.operations(); err != nil {
		return err
	}
	if c.OutDir == "" {
		return errors.New("empty output directory")
	}
	if c.Count < 1 {
		return fmt.Errorf("invalid vector count %d", c.Count)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("invalid sampling bound %d", c.MaxAttempts)
	}
	return nil
}

func loadConfig(file string, cfg *genConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// buildConfig starts from the defaults, applies the config file and then the
// command line flags.
func buildConfig(ctx *cli.Context) (*genConfig, error) {
	cfg := defaultConfig
	cfg.Curves = append([]string(nil), defaultConfig.Curves...)
	cfg.Ops = append([]string(nil), defaultConfig.Ops...)

	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return nil, err
		}
	}
	if err := flags.CheckExclusive(ctx, seedFlag, randomSeedFlag); err != nil {
		return nil, err
	}
	if ctx.IsSet(curvesFlag.Name) {
		cfg.Curves = *flags.GlobalTextMarshaler(ctx, curvesFlag.Name).(*nameList)
	}
	if ctx.IsSet(opsFlag.Name) {
		cfg.Ops = *flags.GlobalTextMarshaler(ctx, opsFlag.Name).(*nameList)
	}
	if ctx.IsSet(countFlag.Name) {
		cfg.Count = ctx.Int(countFlag.Name)
	}
	if ctx.IsSet(seedFlag.Name) {
		cfg.Seed = ctx.Uint64(seedFlag.Name)
	}
	if ctx.Bool(randomSeedFlag.Name) {
		cfg.Seed = 0
	}
	if ctx.IsSet(maxAttemptsFlag.Name) {
		cfg.MaxAttempts = ctx.Int(maxAttemptsFlag.Name)
	}
	if ctx.Bool(noSelfCheckFlag.Name) {
		cfg.SelfCheck = false
	}
	if ctx.IsSet(outDirFlag.Name) {
		cfg.OutDir = outDirFlag.Value.String()
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := buildConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = ctx.App.Writer.Write(out)
	return err
}

// nameList is a comma separated list of names.
type nameList []string

func (l nameList) MarshalText() ([]byte, error) {
	return []byte(strings.Join(l, ",")), nil
}

func (l *nameList) UnmarshalText(text []byte) error {
	var names []string
	for _, name := range strings.Split(string(text), ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return errors.New("empty list")
	}
	*l = names
	return nil
}
