// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jba/huffio"
)

// runApp runs the command line args with logging captured by the returned hook.
func runApp(t *testing.T, args ...string) (string, *test.Hook, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	log, hook := test.NewNullLogger()
	app := newApp(log)
	var out bytes.Buffer
	app.Writer = &out
	err := app.Run(append([]string{"huffio"}, args...))
	return out.String(), hook, err
}

func writeInput(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestStatsCommand(t *testing.T) {
	in := writeInput(t, "aaab")
	out, hook, err := runApp(t, "stats", in)
	require.NoError(t, err)

	var rows [][]string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		rows = append(rows, strings.Fields(line))
	}
	assert.Equal(t, [][]string{
		{"byte", "raw", "norm"},
		{"97", "3", "255"},
		{"98", "1", "1"},
	}, rows)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "normalized frequencies", entry.Message)
	assert.Equal(t, 2, entry.Data["symbols"])
	assert.Equal(t, byte('a'), entry.Data["maxSymbol"])
}

func TestStatsMaxTotal(t *testing.T) {
	in := writeInput(t, "aaab")
	_, _, err := runApp(t, "stats", "--max-total", "2", in)
	require.ErrorIs(t, err, huffio.ErrNoDonor)

	_, _, err = runApp(t, "stats", "--max-total", "0", in)
	require.Error(t, err)

	// Values past the uint32 range are rejected rather than truncated.
	if strconv.IntSize == 32 {
		return
	}
	for _, arg := range []string{"4294967296", "4294967297"} {
		_, _, err = runApp(t, "stats", "--max-total", arg, in)
		require.Error(t, err, arg)
		assert.NotErrorIs(t, err, huffio.ErrZeroTotal, arg)
		assert.Contains(t, err.Error(), "must be in 1..4294967295", arg)
	}
}

func TestStatsConfigFile(t *testing.T) {
	in := writeInput(t, strings.Repeat("x", 1000)+strings.Repeat("y", 50)+"z")
	cfgPath := filepath.Join(t.TempDir(), "huffio.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[normalize]\nmax_total = 100\n[log]\nlevel = \"warn\"\n"), 0o644))

	out, hook, err := runApp(t, "--config", cfgPath, "stats", in)
	require.NoError(t, err)
	assert.Regexp(t, `120\s+1000\s+100\s`, out)
	assert.Regexp(t, `121\s+50\s+4\s`, out)
	assert.Regexp(t, `122\s+1\s+1\s`, out)
	// The info entry is filtered at warn level.
	assert.Empty(t, hook.AllEntries())

	_, hook, err = runApp(t, "--config", cfgPath, "--log.level", "debug", "stats", in)
	require.NoError(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}

func TestRoundtripCommand(t *testing.T) {
	in := writeInput(t, "a man a plan a canal panama")
	out, hook, err := runApp(t, "roundtrip", in)
	require.NoError(t, err)
	assert.Contains(t, out, "decode ok")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "decode ok", entry.Message)
	assert.Equal(t, true, entry.Data["closed"])
}

func TestCommandErrors(t *testing.T) {
	_, _, err := runApp(t, "roundtrip")
	assert.Error(t, err)

	_, _, err = runApp(t, "stats", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	in := writeInput(t, "abc")
	_, _, err = runApp(t, "--log.level", "loud", "stats", in)
	assert.Error(t, err)
}
