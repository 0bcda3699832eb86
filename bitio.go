// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

// Package huffio provides the bit-level plumbing of an entropy coder:
// a [Buffer] that packs and unpacks variable-width fields in a fixed byte
// slice, and [SymbolStats], which scales byte frequencies for a symbol model.
//
// Build with the huffiodebug tag to check the preconditions of the
// unchecked read and write paths.
package huffio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
)

// MaxBits is the widest field that can be written or read in one call.
// With a 32-bit register up to 7 bits may be carried over a flush,
// so the limit there is effectively 25.
const MaxBits = 26

// masks[n] has the low n bits set.
var masks = func() (m [MaxBits + 1]uint32) {
	for i := range m {
		m[i] = 1<<i - 1
	}
	return m
}()

var (
	// ErrCapacity is returned by Init when the buffer cannot hold more than one register.
	ErrCapacity = errors.New("huffio: buffer too small for one register")
	// ErrOverflow is returned by WriteCloseStatus when the writes ran into the end of the buffer.
	ErrOverflow = errors.New("huffio: buffer overflow")
)

// A Word is the type of a Buffer's register.
type Word interface {
	~uint | ~uint32 | ~uint64
}

// Direction selects whether a Buffer encodes or decodes.
type Direction int

const (
	Encode Direction = iota
	Decode
)

func (d Direction) String() string {
	switch d {
	case Encode:
		return "encode"
	case Decode:
		return "decode"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Status is the result of [Buffer.Reload].
type Status int

const (
	// Incomplete means a full register was loaded and more data follows.
	Incomplete Status = iota
	// EndOfBuffer means the cursor is at the end but unread bits remain in the register.
	EndOfBuffer
	// Complete means the buffer and the register are both exhausted.
	Complete
)

func (s Status) String() string {
	switch s {
	case Incomplete:
		return "Incomplete"
	case EndOfBuffer:
		return "EndOfBuffer"
	case Complete:
		return "Complete"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// A Buffer packs bit fields into, or unpacks them from, a fixed byte slice.
// Fields are stored most-significant bit first. The register is written to memory
// in big-endian order, so the bytes do not depend on the host.
//
// A Buffer does not own its slice and is not safe for concurrent use.
type Buffer[W Word] struct {
	// word holds bits not yet flushed (encode) or not yet consumed (decode),
	// left-justified.
	word W
	// bitPos is the number of free bits in word when encoding,
	// and the number of unread bits when decoding.
	bitPos int
	buf    []byte
	pos    int // cursor; 0 <= pos <= end
	end    int // last index at which a whole register fits
	dir    Direction
}

// New returns a Buffer over buf for the given direction.
func New[W Word](buf []byte, dir Direction) (*Buffer[W], error) {
	b := &Buffer[W]{}
	if err := b.Init(buf, dir); err != nil {
		return nil, err
	}
	return b, nil
}

// NewEncoder returns a platform-word Buffer that writes into buf.
func NewEncoder(buf []byte) (*Buffer[uint], error) {
	return New[uint](buf, Encode)
}

// NewDecoder returns a platform-word Buffer that reads from buf.
func NewDecoder(buf []byte) (*Buffer[uint], error) {
	return New[uint](buf, Decode)
}

// wordBits reports the register width in bits.
func (b *Buffer[W]) wordBits() int {
	return bits.Len64(uint64(^W(0)))
}

func (b *Buffer[W]) wordBytes() int {
	return b.wordBits() / 8
}

// Init resets b to operate on buf. The capacity is len(buf), which must
// exceed the register size. When decoding, the first register is loaded immediately.
func (b *Buffer[W]) Init(buf []byte, dir Direction) error {
	if len(buf) <= b.wordBytes() {
		return fmt.Errorf("%w: %d bytes, need more than %d", ErrCapacity, len(buf), b.wordBytes())
	}
	*b = Buffer[W]{
		bitPos: b.wordBits(),
		buf:    buf,
		end:    len(buf) - b.wordBytes(),
		dir:    dir,
	}
	if dir == Decode {
		b.word = b.load(0)
	}
	return nil
}

// Direction reports whether b was initialized to encode or decode.
func (b *Buffer[W]) Direction() Direction { return b.dir }

// Pos returns the cursor, as a byte offset from the start of the buffer.
func (b *Buffer[W]) Pos() int { return b.pos }

// BitOffset returns the number of free bits in the register (encode)
// or the number of bits still available in it (decode).
func (b *Buffer[W]) BitOffset() int { return b.bitPos }

// load reads a register from buf[i:], padding with zeros past the end of buf.
func (b *Buffer[W]) load(i int) W {
	var tmp [8]byte
	n := b.wordBytes()
	copy(tmp[:n], b.buf[i:])
	if n == 8 {
		return W(binary.BigEndian.Uint64(tmp[:]))
	}
	return W(binary.BigEndian.Uint32(tmp[:4]))
}

// store writes the whole register at buf[i:].
func (b *Buffer[W]) store(i int, w W) {
	if b.wordBytes() == 8 {
		binary.BigEndian.PutUint64(b.buf[i:], uint64(w))
		return
	}
	binary.BigEndian.PutUint32(b.buf[i:], uint32(w))
}

// WriteBits writes the low n bits of v. Higher bits of v are ignored.
// It requires n <= MaxBits, and n <= 25 for a 32-bit register, since a flush
// may leave 7 bits pending. A wider field panics with a negative shift;
// under the huffiodebug tag it fails the width check instead.
func (b *Buffer[W]) WriteBits(v uint32, n int) {
	if b.bitPos < n {
		b.Flush()
	}
	if debug {
		check(n >= 0 && n <= MaxBits, "WriteBits: bad width %d", n)
		check(b.bitPos >= n, "WriteBits: %d bits requested, %d free after flush", n, b.bitPos)
	}
	b.bitPos -= n
	b.word |= W(v&masks[n]) << b.bitPos
}

// Flush stores the register at the cursor and advances the cursor past the
// whole bytes it holds. Remaining bits stay in the register.
// The cursor never moves past the last register-sized slot; writes beyond
// that point are reported by WriteCloseStatus.
func (b *Buffer[W]) Flush() {
	b.store(b.pos, b.word)
	nbits := b.wordBits() - b.bitPos
	nbytes := nbits >> 3
	b.pos = min(b.pos+nbytes, b.end)
	// A shift by the full width leaves zero.
	b.word <<= nbytes * 8
	b.bitPos = b.wordBits() - nbits&7
}

// WriteCloseStatus writes marker as the final n-bit field and flushes.
// It returns the length of the stream in bytes, counting a partially
// filled last byte, or ErrOverflow if the stream reached the end of the buffer.
func (b *Buffer[W]) WriteCloseStatus(marker uint32, n int) (int, error) {
	b.WriteBits(marker, n)
	b.Flush()
	if b.pos >= b.end {
		return 0, fmt.Errorf("%w: stream reached byte %d of %d", ErrOverflow, b.pos, len(b.buf))
	}
	size := b.pos
	if b.bitPos < b.wordBits() {
		size++
	}
	return size, nil
}

// PeekBits returns the next n bits without consuming them.
// The register must hold at least n bits; PeekBits never reloads.
func (b *Buffer[W]) PeekBits(n int) uint32 {
	if debug {
		check(n >= 0 && n <= MaxBits, "PeekBits: bad width %d", n)
		check(b.bitPos >= n, "PeekBits: %d bits requested, %d available", n, b.bitPos)
	}
	return uint32(b.word>>(b.bitPos-n)) & masks[n]
}

// ConsumeBits discards the next n bits.
func (b *Buffer[W]) ConsumeBits(n int) {
	if debug {
		check(b.bitPos >= n, "ConsumeBits: %d bits requested, %d available", n, b.bitPos)
	}
	b.bitPos -= n
}

// ReadBits reads the next n bits, reloading first if needed.
// Reading past the end of the data is a caller error.
func (b *Buffer[W]) ReadBits(n int) uint32 {
	if b.bitPos < n {
		b.Reload()
	}
	v := b.PeekBits(n)
	b.ConsumeBits(n)
	return v
}

// Reload refills the register from the buffer, advancing the cursor past
// the whole bytes consumed since the last load. It never reads past the end.
func (b *Buffer[W]) Reload() Status {
	if debug {
		check(b.bitPos >= 0, "Reload: negative bit offset %d", b.bitPos)
	}
	nbits := b.wordBits() - b.bitPos
	nbytes := nbits >> 3

	if b.pos <= b.end-b.wordBytes() {
		b.pos += nbytes
		b.bitPos = b.wordBits() - nbits&7
		b.word = b.load(b.pos)
		return Incomplete
	}

	if b.pos == b.end {
		if b.bitPos > 0 {
			return EndOfBuffer
		}
		return Complete
	}

	// Less than a register beyond the cursor before end.
	status := Incomplete
	if b.pos+nbytes > b.end {
		nbytes = b.end - b.pos
		status = EndOfBuffer
	}
	b.pos += nbytes
	b.bitPos += nbytes * 8
	b.word = b.load(b.pos)
	return status
}

// ReadCloseStatus reports whether every bit of the buffer has been read.
func (b *Buffer[W]) ReadCloseStatus() bool {
	return b.pos == b.end && b.bitPos == 0
}
