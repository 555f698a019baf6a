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
	"runtime"

	"github.com/ethvectors/ecvectors/internal/version"
	"github.com/urfave/cli/v2"
)

var versionCommand = &cli.Command{
	Action:    printVersion,
	Name:      "version",
	Usage:     "Print version numbers",
	ArgsUsage: " ",
	Description: `
The output of this command is supposed to be machine-readable.
`,
}

func printVersion(ctx *cli.Context) error {
	vsn, vcs := version.Info()
	out := ctx.App.Writer
	fmt.Fprintln(out, "ecvectors")
	fmt.Fprintln(out, "Version:", vsn)
	if vcs != "" {
		fmt.Fprintln(out, "Git Commit:", vcs)
	}
	fmt.Fprintln(out, "Architecture:", runtime.GOARCH)
	fmt.Fprintln(out, "Go Version:", runtime.Version())
	fmt.Fprintln(out, "Operating System:", runtime.GOOS)
	return nil
}
