// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/jba/huffio"
)

func (e *env) stats(c *cli.Context) error {
	name, data, err := readInput(c)
	if err != nil {
		return err
	}
	maxTotal := e.cfg.Normalize.MaxTotal
	if c.IsSet(maxTotalFlag.Name) {
		n := c.Int(maxTotalFlag.Name)
		if n <= 0 || int64(n) > math.MaxUint32 {
			return fmt.Errorf("--%s must be in 1..%d, got %d", maxTotalFlag.Name, uint32(math.MaxUint32), n)
		}
		maxTotal = uint32(n)
	}

	var s huffio.SymbolStats
	s.Count(data)
	if err := s.Normalize(maxTotal); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	sym, _ := s.MaxSymbol()
	e.log.WithFields(logrus.Fields{
		"file":      name,
		"bytes":     len(data),
		"symbols":   s.Present(),
		"maxSymbol": sym,
		"maxTotal":  maxTotal,
	}).Info("normalized frequencies")
	return writeTable(c.App.Writer, &s)
}

// writeTable prints one row per byte value that occurs.
func writeTable(w io.Writer, s *huffio.SymbolStats) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "byte\traw\tnorm\t")
	for i, f := range s.Raw {
		if f == 0 {
			continue
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t\n", i, f, s.Norm[i])
	}
	return tw.Flush()
}
