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
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

var profilesCommand = &cli.Command{
	Action: showProfiles,
	Name:   "profiles",
	Usage:  "Print the calldata geometry of every supported curve",
}

func showProfiles(ctx *cli.Context) error {
	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetHeader([]string{"Key", "Curve", "Prefix", "Field", "Word", "Scalar", "Scalar word", "G1", "G2", "Pair"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, name := range curveNames() {
		p := curves[name].profile
		table.Append([]string{
			name, p.Name, p.Prefix,
			strconv.Itoa(p.FieldElementSize),
			strconv.Itoa(p.WordSize),
			strconv.Itoa(p.ScalarSize),
			strconv.Itoa(p.ScalarWordSize),
			strconv.Itoa(p.G1EncodedSize),
			strconv.Itoa(p.G2EncodedSize),
			strconv.Itoa(p.PairSize()),
		})
	}
	table.Render()
	return nil
}
