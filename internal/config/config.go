// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

// Package config loads the settings of the huffio command.
package config

import (
	"errors"
	"fmt"
	"math/bits"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFile is read when no configuration file is named.
// It is not an error for it to be missing.
const DefaultFile = "huffio.toml"

// Configuration is the complete huffio configuration.
type Configuration struct {
	Normalize Normalize
	Buffer    Buffer
	Log       Log
}

// Normalize configures frequency normalization.
type Normalize struct {
	// MaxTotal is the count given to the most frequent symbol.
	MaxTotal uint32 `toml:"max_total"`
}

// Buffer configures encode buffer sizing.
type Buffer struct {
	// SlackDivisor sizes the encode buffer as n + n/SlackDivisor bytes
	// for n input bytes. Zero means no slack.
	SlackDivisor int `toml:"slack_divisor"`
}

// Log configures logging.
type Log struct {
	Level string
}

// Default returns the built-in configuration.
func Default() Configuration {
	return Configuration{
		Normalize: Normalize{MaxTotal: 255},
		Buffer:    Buffer{SlackDivisor: 4},
		Log:       Log{Level: "info"},
	}
}

// Load returns the defaults overlaid with the contents of the TOML file at path.
// An empty path means DefaultFile, which may be absent.
func Load(path string) (Configuration, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		var names []string
		for _, k := range keys {
			names = append(names, k.String())
		}
		return cfg, fmt.Errorf("config: %s: unknown keys %s", path, strings.Join(names, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Configuration) Validate() error {
	if c.Normalize.MaxTotal == 0 {
		return errors.New("config: normalize.max_total must be positive")
	}
	if c.Buffer.SlackDivisor < 0 {
		return fmt.Errorf("config: buffer.slack_divisor is negative (%d)", c.Buffer.SlackDivisor)
	}
	return nil
}

// EncodeCapacity returns the encode buffer size for n input bytes.
// Two spare registers are always added so the stream cannot reach the
// last register slot when its packed size is at most n bytes.
func (c Configuration) EncodeCapacity(n int) int {
	size := n + 2*bits.UintSize/8
	if c.Buffer.SlackDivisor > 0 {
		size += n / c.Buffer.SlackDivisor
	}
	return size
}
