// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "sync"

// A Plan describes the function patterns of a QR code version.
// Plans are shared and must not be modified.
type Plan struct {
	Version Version // QR code version
	Size    int     // number of modules on a side

	Map     *Matrix // reserved modules: 1 is function pattern, 0 is data
	Pattern *Matrix // finder, timing and alignment patterns, dark module
}

// Pre-allocated Plans.  A Plan is created the first time a version is
// used.  Each plan holds two bitmaps the size of a Code bitmap, from
// 56 bytes for version 1 to 3.9 KB for version 40.
var plans [MaxVersion + 1]struct {
	once sync.Once
	p    *Plan
}

// NewPlan returns the Plan for a QR code of version v.
func NewPlan(v Version) (*Plan, error) {
	if !v.IsValid() {
		return nil, ErrVersion
	}
	p := &plans[v]
	p.once.Do(func() { p.p = vplan(v) })
	return p.p, nil
}

// IsReserved reports whether module (row, col) belongs to a function
// pattern or the format or version information.
func (p *Plan) IsReserved(row, col int) bool { return p.Map.Get(row, col) }

// DataModules returns the number of modules available for codewords.
func (p *Plan) DataModules() int {
	return p.Size*p.Size - p.Map.Dark()
}

// set sets a function module.
func (p *Plan) set(row, col int, dark bool) {
	p.Map.Set(row, col, true)
	p.Pattern.Set(row, col, dark)
}

// reserve reserves a rectangle of light modules.
func (p *Plan) reserve(row, col, height, width int) {
	for y := row; y < row+height; y++ {
		for x := col; x < col+width; x++ {
			p.set(y, x, false)
		}
	}
}

// vplan creates a Plan for the given version.
func vplan(v Version) *Plan {
	siz := v.Size()
	p := &Plan{
		Version: v,
		Size:    siz,
		Map:     NewMatrix(siz),
		Pattern: NewMatrix(siz),
	}

	// Position boxes with separators: 7x7 box framed by a light
	// border, clipped at the edges.
	for _, c := range [3][2]int{{0, 0}, {0, siz - 7}, {siz - 7, 0}} {
		for dy := -1; dy <= 7; dy++ {
			for dx := -1; dx <= 7; dx++ {
				y, x := c[0]+dy, c[1]+dx
				if y < 0 || y >= siz || x < 0 || x >= siz {
					continue
				}
				// Chebyshev distance from centre:
				// 0-1 centre, 2 light ring, 3 frame, 4 separator
				d := max(abs(dy-3), abs(dx-3))
				p.set(y, x, d != 2 && d != 4)
			}
		}
	}

	// Timing markers, dark on even coordinates.
	for i := 8; i < siz-8; i++ {
		p.set(6, i, i&1 == 0)
		p.set(i, 6, i&1 == 0)
	}

	// Alignment boxes, except where they'd overlap position boxes.
	ap := v.AlignPositions()
	last := len(ap) - 1
	for i, y := range ap {
		for j, x := range ap {
			if i == 0 && (j == 0 || j == last) || j == 0 && i == last {
				continue
			}
			alignBox(p, y, x)
		}
	}

	// Format information around position boxes.
	for i := 0; i <= 8; i++ {
		if i != 6 {
			p.set(8, i, false)
			p.set(i, 8, false)
		}
	}
	for i := 0; i < 8; i++ {
		p.set(8, siz-1-i, false)
		p.set(siz-1-i, 8, false)
	}

	// Version information.
	if v >= 7 {
		p.reserve(siz-11, 0, 3, 6)
		p.reserve(0, siz-11, 6, 3)
	}

	// One lonely dark module.
	p.set(siz-8, 8, true)
	return p
}

// alignBox draws an alignment (small) box centred at row, col.
func alignBox(p *Plan, row, col int) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			p.set(row+dy, col+dx, max(abs(dy), abs(dx)) != 1)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
