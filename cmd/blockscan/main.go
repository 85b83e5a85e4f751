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

// Command blockscan runs cooperative block scans from the command line.
//
// Usage:
//
//	blockscan scan --block-size 4 1 2 3 4
//	blockscan scan --block-size 4 --items 2 --exclusive --init 100 1 1 2 2 3 3 4 4
//	blockscan scan --block-size 64 --items 4 --groups 8 --verify
//	blockscan info --block-size 256
//
// Without values, scan generates 1, 2, 3, ... for every item of every group.
// Groups run one after another and are chained through a running prefix, so
// the output is one scan over all values. With --segmented the groups are
// independent and run concurrently on a worker pool.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "blockscan",
		Short:         "Cooperative block-wide prefix scans",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log layout and per-group progress")
	root.AddCommand(newScanCmd(), newInfoCmd())
	return root
}
