// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

//go:build huffiodebug

package huffio

import "fmt"

// debug enables precondition checks on the bit-level fast path.
const debug = true

func check(ok bool, format string, args ...any) {
	if !ok {
		panic("huffio: " + fmt.Sprintf(format, args...))
	}
}
