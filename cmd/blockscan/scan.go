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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ajroetker/go-blockscan/hwy"
	"github.com/ajroetker/go-blockscan/hwy/contrib/algo"
	"github.com/ajroetker/go-blockscan/hwy/contrib/blockscan"
	"github.com/ajroetker/go-blockscan/hwy/contrib/group"
	"github.com/ajroetker/go-blockscan/hwy/contrib/workerpool"
)

var operators = map[string]func(a, b int64) int64{
	"plus":    blockscan.Plus[int64],
	"product": blockscan.Product[int64],
	"max":     blockscan.Max[int64],
	"min":     blockscan.Min[int64],
}

type scanOptions struct {
	blockSize int
	items     int
	groups    int
	width     int
	banks     int
	op        string
	exclusive bool
	init      int64
	noPadding bool
	verify    bool
	segmented bool
	workers   int
	raw       bool
}

func newScanCmd() *cobra.Command {
	var opts scanOptions
	cmd := &cobra.Command{
		Use:   "scan [values...]",
		Short: "Scan values with one or more cooperative groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("init") && !opts.exclusive {
				return errors.New("--init only applies to --exclusive scans")
			}
			values, err := parseValues(args)
			if err != nil {
				return err
			}
			out, err := runScan(cmd.Context(), opts, values)
			if err != nil {
				return err
			}
			return printValues(cmd.OutOrStdout(), out, opts.raw)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.blockSize, "block-size", "b", 64, "threads per group")
	f.IntVarP(&opts.items, "items", "k", 1, "items per thread")
	f.IntVarP(&opts.groups, "groups", "g", 0, "number of groups (default: derived from the values, or 1)")
	f.IntVarP(&opts.width, "width", "w", 0, "sub-group width, a power of two (default: native lanes for int64)")
	f.IntVar(&opts.banks, "banks", 0, "scratch banks per row (default 32)")
	f.StringVar(&opts.op, "op", "plus", "operator: "+strings.Join(operatorNames(), ", "))
	f.BoolVarP(&opts.exclusive, "exclusive", "e", false, "exclusive scan")
	f.Int64Var(&opts.init, "init", 0, "initial value of an exclusive scan")
	f.BoolVar(&opts.noPadding, "no-padding", false, "disable bank-conflict padding")
	f.BoolVar(&opts.verify, "verify", false, "check the result against a sequential scan")
	f.BoolVar(&opts.segmented, "segmented", false, "scan every group independently and run groups concurrently")
	f.IntVar(&opts.workers, "workers", 0, "worker goroutines for --segmented (default GOMAXPROCS)")
	f.BoolVar(&opts.raw, "raw", false, "print numbers without digit grouping")
	return cmd
}

func operatorNames() []string {
	names := lo.Keys(operators)
	slices.Sort(names)
	return names
}

func parseValues(args []string) ([]int64, error) {
	values := make([]int64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

// runScan scans values with the configured groups and returns the result.
// Without values it scans 1, 2, 3, ... over every item of every group.
func runScan(ctx context.Context, opts scanOptions, values []int64) ([]int64, error) {
	op, ok := operators[opts.op]
	if !ok {
		return nil, fmt.Errorf("unknown operator %q, want one of %s", opts.op, strings.Join(operatorNames(), ", "))
	}
	if opts.blockSize < 1 || opts.items < 1 || opts.groups < 0 {
		return nil, fmt.Errorf("block size, items and groups must be positive")
	}
	segment := opts.blockSize * opts.items

	if len(values) == 0 {
		values = lo.RangeFrom(int64(1), segment*max(opts.groups, 1))
	}
	if opts.groups == 0 {
		opts.groups = len(values) / segment
	}
	if opts.groups == 0 || len(values) != opts.groups*segment {
		return nil, fmt.Errorf("got %d values, need %d groups x %d threads x %d items",
			len(values), max(opts.groups, 1), opts.blockSize, opts.items)
	}

	scan, err := blockscan.New[int64](blockscan.Config{
		BlockSize:      opts.blockSize,
		Width:          opts.width,
		Banks:          opts.banks,
		DisablePadding: opts.noPadding,
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("scan layout",
		"dispatch", hwy.CurrentName(),
		"layout", scan.Layout().String(),
		"groups", opts.groups,
		"items", opts.items,
		"op", opts.op,
		"exclusive", opts.exclusive)

	out := make([]int64, len(values))
	var pool *workerpool.Pool
	if opts.segmented {
		pool = workerpool.New(opts.workers)
		defer pool.Close()
		err = scanSegmented(ctx, pool, scan, opts, op, values, out)
	} else {
		err = scanChained(ctx, scan, opts, op, values, out)
	}
	if err != nil {
		return nil, err
	}

	if opts.verify {
		if err := verify(pool, opts, op, values, out); err != nil {
			return nil, err
		}
		slog.Debug("verified against sequential scan", "values", len(values))
	}
	return out, nil
}

// scanChained runs the groups one after another on one Storage. A running
// prefix carries the aggregate of the groups so far into the next one.
func scanChained(ctx context.Context, scan *blockscan.BlockScan[int64], opts scanOptions, op func(a, b int64) int64, values, out []int64) error {
	segment := opts.blockSize * opts.items
	storage := scan.NewStorage()

	var running *blockscan.RunningPrefix[int64]
	if opts.exclusive {
		running = blockscan.NewRunningPrefix(opts.init, op)
	}

	for g, seg := range lo.Chunk(values, segment) {
		in := lo.Chunk(seg, opts.items)
		dst := out[g*segment : (g+1)*segment]

		// The first inclusive group has nothing before it and no identity
		// to start from, so it reports its total instead.
		var total int64
		first := running == nil
		err := group.Run(ctx, scan.GroupLayout(), func(t group.Thread) error {
			f := t.FlatID()
			o := dst[f*opts.items : (f+1)*opts.items]
			switch {
			case opts.exclusive:
				scan.ExclusiveScanItemsPrefix(t, storage, in[f], o, running, op)
			case first:
				r := scan.InclusiveScanItemsReduce(t, storage, in[f], o, op)
				if f == 0 {
					total = r
				}
			default:
				scan.InclusiveScanItemsPrefix(t, storage, in[f], o, running, op)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("group %d: %w", g, err)
		}
		if first {
			running = blockscan.NewRunningPrefix(total, op)
		}
		slog.Debug("group done", "group", g, "running", running.Running())
	}
	return nil
}

// scanSegmented scans every group independently. Groups run concurrently,
// each with its own Storage.
func scanSegmented(ctx context.Context, pool *workerpool.Pool, scan *blockscan.BlockScan[int64], opts scanOptions, op func(a, b int64) int64, values, out []int64) error {
	segment := opts.blockSize * opts.items
	errs := make([]error, opts.groups)
	pool.ParallelForAtomic(opts.groups, func(g int) {
		in := lo.Chunk(values[g*segment:(g+1)*segment], opts.items)
		dst := out[g*segment : (g+1)*segment]
		storage := scan.NewStorage()
		err := group.Run(ctx, scan.GroupLayout(), func(t group.Thread) error {
			f := t.FlatID()
			o := dst[f*opts.items : (f+1)*opts.items]
			if opts.exclusive {
				scan.ExclusiveScanItems(t, storage, in[f], o, opts.init, op)
			} else {
				scan.InclusiveScanItems(t, storage, in[f], o, op)
			}
			return nil
		})
		if err != nil {
			errs[g] = fmt.Errorf("group %d: %w", g, err)
		}
	})
	return errors.Join(errs...)
}

// verify recomputes the scan sequentially and compares it with got. Segmented
// results are independent per group, so with a pool the groups are checked in
// parallel; otherwise the whole output is one scan.
func verify(pool *workerpool.Pool, opts scanOptions, op func(a, b int64) int64, values, got []int64) error {
	segment := len(values)
	if opts.segmented {
		segment = opts.blockSize * opts.items
	}
	segments := len(values) / segment

	mismatches := make([]error, segments)
	check := func(start, end int) {
		for g := start; g < end; g++ {
			first, last := g*segment, (g+1)*segment
			want := slices.Clone(values[first:last])
			switch {
			case opts.exclusive:
				algo.ExclusiveScan(want, opts.init, op)
			case opts.op == "plus":
				algo.PrefixSum(want)
			default:
				algo.InclusiveScan(want, op)
			}
			if i := firstDiff(want, got[first:last]); i >= 0 {
				mismatches[g] = fmt.Errorf("verification failed at index %d: got %d, want %d",
					first+i, got[first+i], want[i])
			}
		}
	}
	if pool != nil {
		pool.ParallelFor(segments, check)
	} else {
		check(0, segments)
	}

	for _, err := range mismatches {
		if err != nil {
			return err
		}
	}
	return nil
}

// firstDiff returns the first index where a and b differ, or -1.
func firstDiff(a, b []int64) int {
	for i := range a {
		if a[i] != b[i] {
			return i
		}
	}
	return -1
}

func printValues(w io.Writer, values []int64, raw bool) error {
	p := message.NewPrinter(language.English)
	strs := lo.Map(values, func(v int64, _ int) string {
		if raw {
			return strconv.FormatInt(v, 10)
		}
		return p.Sprintf("%d", v)
	})
	_, err := fmt.Fprintln(w, strings.Join(strs, " "))
	return err
}
