// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "math/bits"

const (
	formatPoly  = 0b101_0011_0111    // BCH(15,5) generator
	formatMask  = 0b101010000010010  // XORed with format bits
	versionPoly = 0b1_1111_0010_0101 // BCH(18,6) generator
)

// FormatBits returns the 15 bit format information for level l and
// mask m: 2 bits of level (L=01, M=00, Q=11, H=10), 3 bits of mask and
// 10 bits of BCH remainder, XORed with 101010000010010.
func FormatBits(l Level, m Mask) uint16 {
	data := uint32(l^1)<<3 | uint32(m&7)
	rem := data
	for i := 0; i < 10; i++ {
		rem = rem<<1 ^ rem>>9*formatPoly
	}
	return uint16((data<<10|rem&0x3ff)^formatMask) & 0x7fff
}

// VersionBits returns the 18 bit version information for v >= 7:
// 6 bits of version and 12 bits of BCH remainder.
func VersionBits(v Version) uint32 {
	rem := uint32(v)
	for i := 0; i < 12; i++ {
		rem = rem<<1 ^ rem>>11*versionPoly
	}
	return uint32(v)<<12 | rem&0xfff
}

// DecodeFormat returns the level and mask of the valid format
// information closest to fb.  ok is false if fb differs from it in
// more than 3 bits.
func DecodeFormat(fb uint16) (l Level, m Mask, ok bool) {
	best := 16
	for ll := L; ll <= H; ll++ {
		for mm := Mask(0); mm < 8; mm++ {
			d := bits.OnesCount16(fb ^ FormatBits(ll, mm))
			if d < best {
				l, m, best = ll, mm, d
			}
		}
	}
	return l, m, best <= 3
}

// DecodeVersion returns the version whose version information is
// closest to vb.  ok is false if vb differs from it in more than 3
// bits.
func DecodeVersion(vb uint32) (v Version, ok bool) {
	best := 19
	for vv := Version(7); vv <= MaxVersion; vv++ {
		if d := bits.OnesCount32(vb ^ VersionBits(vv)); d < best {
			v, best = vv, d
		}
	}
	return v, best <= 3
}

// formatCoords returns the coordinates of format bit i, 0 being the
// least significant, in the copies around the top left position box
// and split between the other two.
func formatCoords(i, siz int) (r1, c1, r2, c2 int) {
	switch {
	case i < 6:
		r1, c1 = i, 8
	case i < 8:
		r1, c1 = i+1, 8 // skip the horizontal timing strip
	case i == 8:
		r1, c1 = 8, 7
	default:
		r1, c1 = 8, 14-i // skip the vertical timing strip
	}
	if i < 8 {
		r2, c2 = 8, siz-1-i
	} else {
		r2, c2 = siz-15+i, 8
	}
	return
}

// SetFormat writes the format information for level l and mask msk
// to both reserved areas of m.
func SetFormat(m *Matrix, l Level, msk Mask) {
	fb := FormatBits(l, msk)
	for i := 0; i < 15; i++ {
		dark := fb>>i&1 != 0
		r1, c1, r2, c2 := formatCoords(i, m.Size)
		m.Set(r1, c1, dark)
		m.Set(r2, c2, dark)
	}
}

// ReadFormat returns the format information from m.  The first copy
// is returned in fb1, the second in fb2.
func ReadFormat(m *Matrix) (fb1, fb2 uint16) {
	for i := 0; i < 15; i++ {
		r1, c1, r2, c2 := formatCoords(i, m.Size)
		if m.Get(r1, c1) {
			fb1 |= 1 << i
		}
		if m.Get(r2, c2) {
			fb2 |= 1 << i
		}
	}
	return
}

// SetVersion writes the version information to both 6x3 reserved
// areas of m: bit i at row siz-11+i%3, column i/3 in the bottom left
// block and transposed in the top right one.  Versions below 7 have no
// version information.
func SetVersion(m *Matrix, v Version) {
	if v < 7 {
		return
	}
	vb := VersionBits(v)
	siz := m.Size
	for i := 0; i < 18; i++ {
		dark := vb>>i&1 != 0
		a, b := siz-11+i%3, i/3
		m.Set(a, b, dark)
		m.Set(b, a, dark)
	}
}

// ReadVersion returns the version information from both areas of m.
func ReadVersion(m *Matrix) (vb1, vb2 uint32) {
	siz := m.Size
	for i := 0; i < 18; i++ {
		a, b := siz-11+i%3, i/3
		if m.Get(a, b) {
			vb1 |= 1 << i
		}
		if m.Get(b, a) {
			vb2 |= 1 << i
		}
	}
	return
}
