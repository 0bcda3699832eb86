// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/jba/huffio/internal/config"
)

var (
	configFlag = cli.StringFlag{
		Name:   "config",
		Usage:  "TOML configuration file (default ./" + config.DefaultFile + " if present)",
		EnvVar: "HUFFIO_CONFIG",
	}
	logLevelFlag = cli.StringFlag{
		Name:   "log.level",
		Usage:  "log level: debug, info, warn or error (overrides the configuration file)",
		EnvVar: "HUFFIO_LOG_LEVEL",
	}
	maxTotalFlag = cli.IntFlag{
		Name:  "max-total",
		Usage: "count assigned to the most frequent byte (overrides normalize.max_total)",
	}
)

// env is the state shared by the commands of one run.
type env struct {
	log *logrus.Logger
	cfg config.Configuration
}

func newApp(log *logrus.Logger) *cli.App {
	e := &env{log: log}

	app := cli.NewApp()
	app.Name = "huffio"
	app.Usage = "byte statistics and bit packing for entropy coders"
	app.Version = "0.1.0"
	app.Writer = os.Stdout
	app.Flags = []cli.Flag{configFlag, logLevelFlag}
	app.Before = e.setup
	app.Commands = []cli.Command{
		{
			Name:      "stats",
			Usage:     "count and normalize the byte frequencies of a file",
			ArgsUsage: "FILE",
			Flags:     []cli.Flag{maxTotalFlag},
			Action:    e.stats,
		},
		{
			Name:      "roundtrip",
			Usage:     "pack every byte of a file as an 8-bit field, then unpack and compare",
			ArgsUsage: "FILE",
			Action:    e.roundtrip,
		},
	}
	return app
}

// setup loads the configuration and configures logging.
func (e *env) setup(c *cli.Context) error {
	cfg, err := config.Load(c.GlobalString(configFlag.Name))
	if err != nil {
		return err
	}
	if c.GlobalIsSet(logLevelFlag.Name) {
		cfg.Log.Level = c.GlobalString(logLevelFlag.Name)
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	e.log.SetLevel(level)
	e.cfg = cfg
	return nil
}

// readInput reads the single file argument of a command.
func readInput(c *cli.Context) (string, []byte, error) {
	if c.NArg() != 1 {
		return "", nil, fmt.Errorf("%s: want exactly one FILE argument, got %d", c.Command.Name, c.NArg())
	}
	name := c.Args().First()
	data, err := os.ReadFile(name)
	if err != nil {
		return "", nil, err
	}
	return name, data, nil
}
