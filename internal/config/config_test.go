// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "huffio.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingExplicit(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
[normalize]
max_total = 4095

[log]
level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(4095), cfg.Normalize.MaxTotal)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset keys keep their defaults.
	assert.Equal(t, 4, cfg.Buffer.SlackDivisor)
}

func TestLoadInvalid(t *testing.T) {
	for name, contents := range map[string]string{
		"unknown key": "[buffer]\nslack = 3\n",
		"zero total":  "[normalize]\nmax_total = 0\n",
		"negative":    "[buffer]\nslack_divisor = -1\n",
		"syntax":      "[normalize\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, contents))
			assert.Error(t, err)
		})
	}
}

func TestEncodeCapacity(t *testing.T) {
	cfg := Default()
	wb := cfg.EncodeCapacity(0)
	assert.Positive(t, wb)
	assert.Equal(t, 1000+250+wb, cfg.EncodeCapacity(1000))

	cfg.Buffer.SlackDivisor = 0
	assert.Equal(t, 1000+wb, cfg.EncodeCapacity(1000))
}
