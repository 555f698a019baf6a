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

// ecvectors generates conformance test vectors for the BLS12-377 (EIP-2539)
// and BW6-761 (EIP-3026) pairing precompiles.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ethvectors/ecvectors/internal/flags"
	"github.com/ethvectors/ecvectors/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

var (
	verbosityFlag = &cli.StringFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace, or the level name",
		Value:    "info",
		Category: flags.LoggingCategory,
	}
	logfmtFlag = &cli.BoolFlag{
		Name:     "logfmt",
		Usage:    "Emit logs in logfmt instead of the terminal format",
		Category: flags.LoggingCategory,
	}
	originsFlag = &cli.BoolFlag{
		Name:     "log.origins",
		Usage:    "Print the source location of every log line",
		Category: flags.LoggingCategory,
	}
)

var logFlags = []cli.Flag{
	verbosityFlag,
	logfmtFlag,
	originsFlag,
}

var app = newApp()

func newApp() *cli.App {
	app := flags.NewApp("pairing precompile test vector generator")
	app.Flags = flags.Merge(logFlags)
	app.Before = setupLogging
	app.Commands = []*cli.Command{
		generateCommand,
		profilesCommand,
		dumpConfigCommand,
		versionCommand,
	}
	return app
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging installs the root log handler on stderr.
func setupLogging(ctx *cli.Context) error {
	lvl, err := parseVerbosity(ctx.String(verbosityFlag.Name))
	if err != nil {
		return err
	}
	log.PrintOrigins(ctx.Bool(originsFlag.Name))

	handler := log.StderrHandler
	if !ctx.Bool(logfmtFlag.Name) {
		var (
			output   = io.Writer(os.Stderr)
			usecolor = (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		)
		if usecolor {
			output = colorable.NewColorable(os.Stderr)
		}
		handler = log.StreamHandler(output, log.TerminalFormat(usecolor))
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, handler))
	return nil
}

// parseVerbosity accepts either a numeric level or a level name.
func parseVerbosity(s string) (log.Lvl, error) {
	if n, err := strconv.Atoi(s); err == nil {
		lvl := log.Lvl(n)
		if lvl < log.LvlCrit || lvl > log.LvlTrace {
			return 0, fmt.Errorf("invalid verbosity %d", n)
		}
		return lvl, nil
	}
	lvl, err := log.LvlFromString(strings.ToLower(s))
	if err != nil {
		return 0, fmt.Errorf("invalid verbosity %q", s)
	}
	return lvl, nil
}
