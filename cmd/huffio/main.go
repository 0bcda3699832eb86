// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

// Huffio inspects byte statistics of a file and exercises the bit-packing
// engine on it.
//
// Usage:
//
//	huffio [--config FILE] [--log.level LEVEL] stats [--max-total N] FILE
//	huffio [--config FILE] [--log.level LEVEL] roundtrip FILE
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	if err := newApp(log).Run(os.Args); err != nil {
		log.WithError(err).Error("huffio failed")
		os.Exit(1)
	}
}
