// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "strconv"

// Bits is a bit stream writer.  Bits are stored most significant first.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for a QR code of version v.
func NewBits(v Version) *Bits {
	return &Bits{b: make([]byte, 0, v.TotalBytes())}
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Bits returns the number of bits written.
func (b *Bits) Bits() int {
	return b.nbit
}

// Bytes returns the written bytes.  It panics on a fractional byte.
func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

// Write appends the low nbit bits of v, most significant first.
// nbit must be at most 32.
func (b *Bits) Write(v uint32, nbit int) {
	if nbit == 0 {
		return
	}
	v <<= 32 - nbit
	if rem := -b.nbit & 7; rem != 0 {
		b.b[len(b.b)-1] |= byte(v >> (32 - rem))
		if rem >= nbit {
			b.nbit += nbit
			return
		}
		b.nbit += rem
		nbit -= rem
		v <<= rem
	}
	for n := nbit; n > 0; n -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += nbit
}

// Pad adds up to 4 terminator bits, zero fills to a byte boundary and
// appends alternating pad bytes 0xec, 0x11 until b holds n bits.
// n must be a multiple of 8 not less than b.Bits().
func (b *Bits) Pad(n int) {
	b.Write(0, min(4, n-b.nbit))
	b.Write(0, -b.nbit&7)
	for pad := uint32(0xec); b.nbit < n; pad ^= 0xec ^ 0x11 {
		b.Write(pad, 8)
	}
}

// BitStream reads bits from the underlying buffer.
type BitStream struct {
	b   []byte
	pos int
}

// NewBitStream returns a BitStream reading from b.
func NewBitStream(b []byte) BitStream { return BitStream{b: b} }

// Bytes returns the data underlying s.
func (s *BitStream) Bytes() []byte { return s.b }

// Len returns the number of unread bits.
func (s *BitStream) Len() int { return len(s.b)*8 - s.pos }

// Next returns the next bit from s as 0 or 1.
// Past end of buffer Next returns 0.
func (s *BitStream) Next() byte {
	var b byte
	if i := s.pos >> 3; i < len(s.b) {
		b = s.b[i] >> (7 &^ s.pos) & 1
		s.pos++
	}
	return b
}

// Read returns the next n bits, n <= 32, most significant first.
// Past end of buffer Read returns zero bits.
func (s *BitStream) Read(n int) uint32 {
	var v uint32
	for ; n > 0; n-- {
		v = v<<1 | uint32(s.Next())
	}
	return v
}

// A Matrix is a square grid of modules stored as a bit vector.
// Module (row, col) is bit row*Size+col, most significant bit first
// within each byte of Bitmap.  1 is dark, 0 is light.
type Matrix struct {
	Size   int
	Bitmap []byte
}

// NewMatrix returns an all-light Matrix with size modules on a side.
func NewMatrix(size int) *Matrix {
	return &Matrix{Size: size, Bitmap: make([]byte, (size*size+7)>>3)}
}

func (m *Matrix) index(row, col int) int {
	if uint(row) >= uint(m.Size) || uint(col) >= uint(m.Size) {
		panic("qr: module (" + strconv.Itoa(row) + ", " +
			strconv.Itoa(col) + ") out of range")
	}
	return row*m.Size + col
}

// Get reports whether module (row, col) is dark.
func (m *Matrix) Get(row, col int) bool {
	i := m.index(row, col)
	return m.Bitmap[i>>3]>>(7&^i)&1 != 0
}

// Set sets module (row, col) to dark if dark is true, light otherwise.
func (m *Matrix) Set(row, col int, dark bool) {
	i := m.index(row, col)
	if dark {
		m.Bitmap[i>>3] |= 0x80 >> (i & 7)
	} else {
		m.Bitmap[i>>3] &^= 0x80 >> (i & 7)
	}
}

// Flip inverts module (row, col).
func (m *Matrix) Flip(row, col int) {
	i := m.index(row, col)
	m.Bitmap[i>>3] ^= 0x80 >> (i & 7)
}

// Dark returns the number of dark modules.
func (m *Matrix) Dark() int {
	n := 0
	for _, b := range m.Bitmap {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

// Reset sets all modules to light.
func (m *Matrix) Reset() { clear(m.Bitmap) }

// Clone returns a copy of m.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{Size: m.Size, Bitmap: append([]byte(nil), m.Bitmap...)}
}
