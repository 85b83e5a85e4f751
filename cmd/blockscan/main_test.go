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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func TestScanCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "inclusive",
			args: []string{"scan", "-b", "4", "--raw", "1", "2", "3", "4"},
			want: "1 3 6 10",
		},
		{
			name: "exclusive with items",
			args: []string{"scan", "-b", "4", "-k", "2", "-e", "--init", "100", "--raw", "1", "1", "2", "2", "3", "3", "4", "4"},
			want: "100 101 102 104 106 109 112 116",
		},
		{
			name: "chained generated groups",
			args: []string{"scan", "-b", "4", "-g", "3", "--verify", "--raw"},
			want: "1 3 6 10 15 21 28 36 45 55 66 78",
		},
		{
			name: "chained exclusive",
			args: []string{"scan", "-b", "2", "-e", "--init", "10", "--verify", "--raw", "1", "2", "3", "4", "5", "6"},
			want: "10 11 13 16 20 25",
		},
		{
			name: "segmented",
			args: []string{"scan", "-b", "2", "--segmented", "--workers", "2", "--verify", "--raw", "1", "2", "3", "4"},
			want: "1 3 3 7",
		},
		{
			name: "max",
			args: []string{"scan", "-b", "3", "-w", "2", "--op", "max", "--verify", "--raw", "--", "2", "-5", "7"},
			want: "2 2 7",
		},
		{
			name: "product without padding",
			args: []string{"scan", "-b", "4", "-w", "2", "--op", "product", "--no-padding", "--verify", "--raw", "1", "2", "3", "4"},
			want: "1 2 6 24",
		},
		{
			name: "grouped digits",
			args: []string{"scan", "-b", "2", "-w", "1", "600", "600"},
			want: "600 1,200",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestScanCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"init without exclusive", []string{"scan", "--init", "3", "1"}, "--init"},
		{"unknown operator", []string{"scan", "-b", "1", "--op", "xor", "1"}, "unknown operator"},
		{"value count", []string{"scan", "-b", "4", "1", "2", "3"}, "got 3 values"},
		{"bad value", []string{"scan", "-b", "1", "x"}, "value 0"},
		{"bad width", []string{"scan", "-b", "4", "-w", "3", "1", "2", "3", "4"}, "not a power of two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInfoCommand(t *testing.T) {
	out, err := execute(t, "info", "-b", "64")
	require.NoError(t, err)
	assert.Contains(t, out, "Dispatch:")
	assert.Contains(t, out, "Int64")
	assert.Contains(t, out, "Float32")
}
