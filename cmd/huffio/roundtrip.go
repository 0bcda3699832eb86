// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"math/bits"

	"github.com/sirupsen/logrus"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/jba/huffio"
)

// closeMarker is written after the last byte of a packed block.
const closeMarker = 0xFF

var (
	errTruncated = errors.New("packed block ends early")
	errNoMarker  = errors.New("packed block has no close marker")
	errMismatch  = errors.New("unpacked bytes differ from the input")
)

func (e *env) roundtrip(c *cli.Context) error {
	name, data, err := readInput(c)
	if err != nil {
		return err
	}
	log := e.log.WithField("file", name)

	capacity := e.cfg.EncodeCapacity(len(data))
	buf, n, err := pack(data, capacity)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	log.WithFields(logrus.Fields{
		"bytes":    len(data),
		"capacity": capacity,
		"packed":   n,
	}).Info("packed")

	got, closed, err := unpack(buf, n, len(data))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if !bytes.Equal(got, data) {
		return fmt.Errorf("%s: %w", name, errMismatch)
	}
	log.WithField("closed", closed).Info("decode ok")
	fmt.Fprintf(c.App.Writer, "%s: %d bytes, %d packed, decode ok\n", name, len(data), n)
	return nil
}

// pack writes each byte of src as an 8-bit field into a new buffer of the
// given capacity, followed by closeMarker. It returns the buffer and the
// length of the packed stream.
func pack(src []byte, capacity int) ([]byte, int, error) {
	buf := make([]byte, capacity)
	enc, err := huffio.NewEncoder(buf)
	if err != nil {
		return nil, 0, err
	}
	for _, b := range src {
		enc.WriteBits(uint32(b), 8)
	}
	n, err := enc.WriteCloseStatus(closeMarker, 8)
	if err != nil {
		return nil, 0, err
	}
	return buf, n, nil
}

// unpack reads count bytes and the close marker from a buffer written by pack.
// It also reports whether the decoder consumed the stream exactly.
func unpack(buf []byte, n, count int) ([]byte, bool, error) {
	// A decoder needs more than one register; short streams are followed by
	// the zero padding of the final flush.
	dec, err := huffio.NewDecoder(buf[:max(n, bits.UintSize/8+1)])
	if err != nil {
		return nil, false, err
	}
	next := func() (byte, error) {
		if dec.BitOffset() < 8 {
			if st := dec.Reload(); st == huffio.Complete || dec.BitOffset() < 8 {
				return 0, errTruncated
			}
		}
		v := dec.PeekBits(8)
		dec.ConsumeBits(8)
		return byte(v), nil
	}

	out := make([]byte, count)
	for i := range out {
		b, err := next()
		if err != nil {
			return nil, false, fmt.Errorf("byte %d: %w", i, err)
		}
		out[i] = b
	}
	m, err := next()
	if err != nil {
		return nil, false, fmt.Errorf("marker: %w", err)
	}
	if m != closeMarker {
		return nil, false, fmt.Errorf("%w: got %#x", errNoMarker, m)
	}
	return out, dec.ReadCloseStatus(), nil
}
