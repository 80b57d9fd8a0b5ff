// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "strconv"

// A Mask is a QR data mask pattern number, 0 to 7.
type Mask int

// AutoMask requests the mask with the lowest penalty.
const AutoMask Mask = -1

func (m Mask) String() string {
	if m == AutoMask {
		return "auto"
	}
	return strconv.Itoa(int(m))
}

// IsValid reports whether m is a mask pattern number.
func (m Mask) IsValid() bool { return 0 <= m && m <= 7 }

// Mask patterns:
//
//	0: ▄▀▄▀▄▀▄▀▄▀▄▀  1: ▄▄▄▄▄▄▄▄▄▄▄▄  2:  ██ ██ ██ ██  3: ▄█▀▄█▀▄█▀▄█▀
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     ▀▄█▀▄█▀▄█▀▄█
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     █▀▄█▀▄█▀▄█▀▄
//
//	4:    ███   ███  5:  ▄▄▄▄▄ ▄▄▄▄▄  6:    ▄▄▄   ▄▄▄  7: ▄█▄▀ ▀▄█▄▀ ▀
//	   ███   ███         █▀▄▀█ █▀▄▀█      ▄▀▄ █ ▄▀▄ █     ▄▀█▀▄ ▄▀█▀▄
//	      ███   ███      ██▄██ ██▄██      █▄▄▀  █▄▄▀      ▄  ▀██▄  ▀██
//
// A module is inverted where the formula is true.
var maskFunc = [8]func(y, x int) bool{
	func(y, x int) bool { return (y+x)%2 == 0 },
	func(y, x int) bool { return y%2 == 0 },
	func(y, x int) bool { return x%3 == 0 },
	func(y, x int) bool { return (y+x)%3 == 0 },
	func(y, x int) bool { return (y/2+x/3)%2 == 0 },
	func(y, x int) bool { return y*x%2+y*x%3 == 0 },
	func(y, x int) bool { return (y*x%2+y*x%3)%2 == 0 },
	func(y, x int) bool { return ((y+x)%2+y*x%3)%2 == 0 },
}

// Inverts reports whether mask m inverts module (row, col).
func (m Mask) Inverts(row, col int) bool { return maskFunc[m](row, col) }

// Apply applies mask msk to the data modules of m.  Applying the same
// mask twice restores m.
func (p *Plan) Apply(m *Matrix, msk Mask) {
	f := maskFunc[msk]
	for y := 0; y < p.Size; y++ {
		for x := 0; x < p.Size; x++ {
			if !p.Map.Get(y, x) && f(y, x) {
				m.Flip(y, x)
			}
		}
	}
}

// Penalty returns the penalty value for a QR code.
// The value is used for choosing the mask.
func Penalty(m *Matrix) int {
	// Total penalty is the sum of penalties for runs and boxes
	// of same-colour pixels, finder patterns and colour balance.
	//
	//   - RunP: for runs of n pixels, n>=5 -> n-2
	//   - BoxP: for possibly overlapping 2x2 boxes -> 3
	//   - FindP: for possibly overlapping finder patterns -> 40
	//     The pattern is 1011101 with 0000 on either side;
	//     it doesn't extend into the quiet zone
	//   - BalP: for n% of black pixels -> 10*floor(abs(n-50)/5)
	const (
		MinRun = 5  // RunP:  minimum run length
		RunPP  = 3  // RunP:  points for MinRun
		BoxPP  = 3  // BoxP:  points per box
		FindPP = 40 // FindP: points per pattern
		BalPP  = 10 // BalP:  10 points
		BalPD  = 5  //        for every 5%

		// finder patterns, 11 pixels
		FindB = 0b0000_1011101 // quiet zone before
		FindA = 0b1011101_0000 // quiet zone after
	)

	siz := m.Size
	p := 0
	// rows, then columns: RunP, FindP
	for dir := 0; dir < 2; dir++ {
		at := m.Get
		if dir == 1 {
			at = func(y, x int) bool { return m.Get(x, y) }
		}
		for y := 0; y < siz; y++ {
			c := at(y, 0)
			r := 1        // current run length
			pat := b2i(c) // last 11 pixels
			for x := 1; x < siz; x++ {
				if at(y, x) == c {
					if r++; r == MinRun {
						p += RunPP
					} else if r > MinRun {
						p++
					}
				} else {
					c = !c
					r = 1
				}
				pat = pat<<1&0x7ff | b2i(c)
				if x >= 10 && (pat == FindB || pat == FindA) {
					p += FindPP
				}
			}
		}
	}

	// BoxP
	for y := 0; y < siz-1; y++ {
		for x := 0; x < siz-1; x++ {
			c := m.Get(y, x)
			if c == m.Get(y, x+1) && c == m.Get(y+1, x) &&
				c == m.Get(y+1, x+1) {
				p += BoxPP
			}
		}
	}

	// BalP
	pct := m.Dark() * 100 / (siz * siz)
	p += abs(pct-50) / BalPD * BalPP
	return p
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SelectMask applies each mask in order to the data modules of m with
// format information for level l, and returns the mask with the lowest
// penalty.  Of equal penalties the lowest mask number wins, so the
// order doesn't affect the result.  Invalid masks in order are skipped;
// if none is valid, SelectMask returns AutoMask, -1.  m is restored
// except for the format information.
func (p *Plan) SelectMask(m *Matrix, l Level, order ...Mask) (best Mask, penalty int) {
	if len(order) == 0 {
		order = []Mask{0, 1, 2, 3, 4, 5, 6, 7}
	}
	best, penalty = AutoMask, -1
	for _, msk := range order {
		if !msk.IsValid() {
			continue
		}
		// Format bits are reserved, so masking doesn't touch them
		// and undoing the mask leaves the current ones in place.
		SetFormat(m, l, msk)
		p.Apply(m, msk)
		pen := Penalty(m)
		p.Apply(m, msk)
		if penalty < 0 || pen < penalty || pen == penalty && msk < best {
			best, penalty = msk, pen
		}
	}
	return best, penalty
}
