// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package huffio

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDonor is returned by Normalize when a present symbol would be scaled
	// to zero and no other bucket can spare a count. maxTotal is too small
	// for the number of distinct symbols.
	ErrNoDonor = errors.New("huffio: no bucket to steal frequency from")
	// ErrZeroTotal is returned by Normalize when maxTotal is zero but symbols are present.
	ErrZeroTotal = errors.New("huffio: maximum total must be positive")
)

// SymbolStats holds the byte frequencies of a block of data.
// Raw is the exact count of each byte value; Norm is Raw rescaled by [SymbolStats.Normalize].
type SymbolStats struct {
	Raw  [256]uint32
	Norm [256]uint32
}

// Count replaces the raw counts with the histogram of data.
func (s *SymbolStats) Count(data []byte) {
	s.Raw = [256]uint32{}
	s.Write(data)
}

// Write adds the bytes of data to the raw counts. It never returns an error.
func (s *SymbolStats) Write(data []byte) (int, error) {
	for _, b := range data {
		s.Raw[b]++
	}
	return len(data), nil
}

// Reset zeroes both tables.
func (s *SymbolStats) Reset() {
	*s = SymbolStats{}
}

// Present returns the number of distinct byte values with a nonzero raw count.
func (s *SymbolStats) Present() int {
	n := 0
	for _, f := range s.Raw {
		if f > 0 {
			n++
		}
	}
	return n
}

// MaxSymbol returns the most frequent byte value, preferring the smallest on ties.
// It returns false if no bytes have been counted.
func (s *SymbolStats) MaxSymbol() (byte, bool) {
	var maxFreq uint32
	maxIdx := 0
	for i, f := range s.Raw {
		if f > maxFreq {
			maxFreq = f
			maxIdx = i
		}
	}
	return byte(maxIdx), maxFreq > 0
}

// Normalize fills Norm from Raw so that the most frequent symbol gets exactly
// maxTotal. If that symbol's count exceeds maxTotal, the others are scaled down
// by the same ratio, rounding down; otherwise they keep their raw counts.
//
// Every symbol with a nonzero raw count ends with a nonzero normalized count.
// A symbol rounded down to zero takes one unit from the smallest bucket that
// holds more than one, never from the most frequent symbol.
func (s *SymbolStats) Normalize(maxTotal uint32) error {
	s.Norm = [256]uint32{}
	sym, ok := s.MaxSymbol()
	if !ok {
		return nil
	}
	if maxTotal == 0 {
		return ErrZeroTotal
	}
	maxIdx := int(sym)
	maxFreq := s.Raw[maxIdx]

	if maxFreq > maxTotal {
		for i, f := range s.Raw {
			s.Norm[i] = uint32(uint64(maxTotal) * uint64(f) / uint64(maxFreq))
		}
	} else {
		s.Norm = s.Raw
	}
	s.Norm[maxIdx] = maxTotal

	for i, f := range s.Raw {
		if f == 0 || s.Norm[i] != 0 {
			continue
		}
		donor := s.smallestDonor(maxIdx)
		if donor < 0 {
			return fmt.Errorf("%w: symbol %d with max total %d and %d symbols present",
				ErrNoDonor, i, maxTotal, s.Present())
		}
		s.Norm[donor]--
		s.Norm[i]++
	}
	return nil
}

// smallestDonor returns the index of the smallest normalized count greater
// than one, excluding skip, or -1 if there is none.
func (s *SymbolStats) smallestDonor(skip int) int {
	best := -1
	var bestFreq uint32
	for j, f := range s.Norm {
		if j == skip || f <= 1 {
			continue
		}
		if best < 0 || f < bestFreq {
			best = j
			bestFreq = f
		}
	}
	return best
}
