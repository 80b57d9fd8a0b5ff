// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Serialise writes bits from s to m in zigzag scan order, skipping
// modules reserved in the plan.  Starting at the bottom right corner,
// it scans two columns at a time, right column first, upwards and
// downwards in turn.  The vertical timing column is skipped.  Modules
// left after s is exhausted are remainder bits and stay light.
//
// Serialise returns the number of bits read from s.  It panics if s holds
// more bits than there are data modules.
func (p *Plan) Serialise(s BitStream, m *Matrix) int {
	siz := p.Size
	n := 0
	for x, pair := siz-1, 0; x >= 1; x, pair = x-2, pair+1 {
		if x == 6 { // vertical timing strip
			x--
		}
		for i := 0; i < siz; i++ {
			y := i
			if pair&1 == 0 {
				y = siz - 1 - i
			}
			for _, xx := range [2]int{x, x - 1} {
				if p.Map.Get(y, xx) {
					continue
				}
				if s.Len() > 0 {
					n++
				}
				m.Set(y, xx, s.Next() != 0)
			}
		}
	}
	if s.Len() > 0 {
		panic("qr: internal error: data exceeds code capacity")
	}
	return n
}
