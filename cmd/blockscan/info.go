// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ajroetker/go-blockscan/hwy"
	"github.com/ajroetker/go-blockscan/hwy/contrib/blockscan"
)

// layoutRow describes the derived layout of one element type.
type layoutRow struct {
	name   string
	lanes  int
	layout blockscan.Layout
}

func layoutFor[T any](name string, blockSize int, noPadding bool) (layoutRow, error) {
	scan, err := blockscan.New[T](blockscan.Config{BlockSize: blockSize, DisablePadding: noPadding})
	if err != nil {
		return layoutRow{}, err
	}
	return layoutRow{name: name, lanes: hwy.NativeLanes[T](), layout: scan.Layout()}, nil
}

func newInfoCmd() *cobra.Command {
	var (
		blockSize int
		noPadding bool
	)
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print the dispatch target and the derived scan layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printInfo(cmd.OutOrStdout(), blockSize, noPadding)
		},
	}
	cmd.Flags().IntVarP(&blockSize, "block-size", "b", 256, "threads per group")
	cmd.Flags().BoolVar(&noPadding, "no-padding", false, "disable bank-conflict padding")
	return cmd
}

func printInfo(w io.Writer, blockSize int, noPadding bool) error {
	title := cases.Title(language.English)
	fmt.Fprintf(w, "Dispatch: %s (%d-byte registers)\n", title.String(hwy.CurrentName()), hwy.CurrentWidth())
	if hwy.NoSimdEnv() {
		fmt.Fprintln(w, "HWY_NO_SIMD is set")
	}
	if n := hwy.LanesEnv(); n > 0 {
		fmt.Fprintf(w, "HWY_LANES forces %d lanes\n", n)
	}
	fmt.Fprintln(w)

	builders := []func() (layoutRow, error){
		func() (layoutRow, error) { return layoutFor[int32]("int32", blockSize, noPadding) },
		func() (layoutRow, error) { return layoutFor[int64]("int64", blockSize, noPadding) },
		func() (layoutRow, error) { return layoutFor[float32]("float32", blockSize, noPadding) },
		func() (layoutRow, error) { return layoutFor[float64]("float64", blockSize, noPadding) },
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Type\tLanes\tWidth\tPer leader\tPadded\tSlots")
	for _, build := range builders {
		row, err := build()
		if err != nil {
			return err
		}
		l := row.layout
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%v\t%d\n",
			title.String(row.name), row.lanes, l.Group.Width, l.ThreadReductionSize, l.Padded, l.StorageSize())
	}
	return tw.Flush()
}
