// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

//go:build !huffiodebug

package huffio

const debug = false

func check(bool, string, ...any) {}
