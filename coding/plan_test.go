// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// rows renders m as rows of '#' for dark and '.' for light modules.
func rows(m *Matrix) []string {
	r := make([]string, m.Size)
	var sb strings.Builder
	for y := range r {
		sb.Reset()
		for x := 0; x < m.Size; x++ {
			if m.Get(y, x) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		r[y] = sb.String()
	}
	return r
}

func TestPlanDataModules(t *testing.T) {
	remainder := func(v Version) int {
		switch {
		case v >= 2 && v <= 6:
			return 7
		case v >= 14 && v <= 20, v >= 28 && v <= 34:
			return 3
		case v >= 21 && v <= 27:
			return 4
		}
		return 0
	}
	for v := MinVersion; v <= MaxVersion; v++ {
		p, err := NewPlan(v)
		if err != nil {
			t.Fatalf("NewPlan(%v): %v", v, err)
		}
		if p.Size != v.Size() || p.Version != v {
			t.Errorf("NewPlan(%v): version %v size %d", v, p.Version, p.Size)
		}
		if n, want := p.DataModules(), v.TotalBytes()*8+remainder(v); n != want {
			t.Errorf("%v: %d data modules, want %d", v, n, want)
		}
		if p2, _ := NewPlan(v); p2 != p {
			t.Errorf("%v: NewPlan returned a new Plan", v)
		}
	}
}

func TestPlanPattern(t *testing.T) {
	p, err := NewPlan(1)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"#######.......#######",
		"#.....#.......#.....#",
		"#.###.#.......#.###.#",
		"#.###.#.......#.###.#",
		"#.###.#.......#.###.#",
		"#.....#.......#.....#",
		"#######.#.#.#.#######",
	}
	got := rows(p.Pattern)
	if diff := cmp.Diff(want, got[:7]); diff != "" {
		t.Errorf("top rows mismatch (-want +got):\n%s", diff)
	}
	for y := 7; y < 21; y++ {
		want := y >= 8 && y <= 12 && y&1 == 0 || y >= 14
		if dark := p.Pattern.Get(y, 6); dark != want {
			t.Errorf("module (%d, 6) dark = %v", y, dark)
		}
	}
	if !p.Pattern.Get(13, 8) || !p.IsReserved(13, 8) {
		t.Error("dark module missing")
	}
	for _, rc := range [][2]int{{8, 0}, {8, 8}, {0, 8}, {8, 20}, {20, 8}, {7, 7}} {
		if !p.IsReserved(rc[0], rc[1]) || p.Pattern.Get(rc[0], rc[1]) {
			t.Errorf("module (%d, %d) is not reserved light", rc[0], rc[1])
		}
	}
	for _, rc := range [][2]int{{9, 9}, {20, 20}, {9, 0}, {0, 9}, {12, 7}} {
		if p.IsReserved(rc[0], rc[1]) {
			t.Errorf("module (%d, %d) is reserved", rc[0], rc[1])
		}
	}
	if n := p.Map.Dark(); n != 21*21-208 {
		t.Errorf("%d reserved modules, want %d", n, 21*21-208)
	}
}

func TestPlanAlignment(t *testing.T) {
	p, err := NewPlan(7)
	if err != nil {
		t.Fatal(err)
	}
	// Alignment boxes at (22, 22), (6, 22), (22, 6), (38, 22) etc.,
	// none at (6, 6), (6, 38), (38, 6).
	box := []string{"#####", "#...#", "#.#.#", "#...#", "#####"}
	for _, c := range [][2]int{{6, 22}, {22, 6}, {22, 22}, {22, 38}, {38, 22}, {38, 38}} {
		var got []string
		for y := c[0] - 2; y <= c[0]+2; y++ {
			var sb strings.Builder
			for x := c[1] - 2; x <= c[1]+2; x++ {
				if !p.IsReserved(y, x) {
					t.Errorf("(%d, %d) not reserved", y, x)
				}
				if p.Pattern.Get(y, x) {
					sb.WriteByte('#')
				} else {
					sb.WriteByte('.')
				}
			}
			got = append(got, sb.String())
		}
		if diff := cmp.Diff(box, got); diff != "" {
			t.Errorf("alignment box at %v mismatch (-want +got):\n%s", c, diff)
		}
	}
	// Version information areas.
	for i := 0; i < 18; i++ {
		a, b := 45-11+i%3, i/3
		if !p.IsReserved(a, b) || !p.IsReserved(b, a) {
			t.Errorf("version bit %d not reserved", i)
		}
	}
}

func TestSerialise(t *testing.T) {
	for _, v := range []Version{1, 2, 7, 14, 40} {
		p, _ := NewPlan(v)
		m := p.Pattern.Clone()
		cw := bytes.Repeat([]byte{0xff}, v.TotalBytes())
		if n := p.Serialise(NewBitStream(cw), m); n != len(cw)*8 {
			t.Errorf("%v: Serialise wrote %d bits, want %d", v, n, len(cw)*8)
		}
		light := 0
		for y := 0; y < p.Size; y++ {
			for x := 0; x < p.Size; x++ {
				switch {
				case p.IsReserved(y, x):
					if m.Get(y, x) != p.Pattern.Get(y, x) {
						t.Fatalf("%v: reserved module (%d, %d) modified", v, y, x)
					}
				case !m.Get(y, x):
					light++
				}
			}
		}
		if want := p.DataModules() - len(cw)*8; light != want {
			t.Errorf("%v: %d light data modules, want %d", v, light, want)
		}
	}
}

func TestSerialiseShort(t *testing.T) {
	p, _ := NewPlan(1)
	m := p.Pattern.Clone()
	for _, n := range []int{0, 1, 10} {
		if got := p.Serialise(NewBitStream(make([]byte, n)), m); got != n*8 {
			t.Errorf("Serialise of %d bytes read %d bits, want %d", n, got, n*8)
		}
	}
}

func TestSerialiseOrder(t *testing.T) {
	p, _ := NewPlan(1)
	m := NewMatrix(21)
	cw := make([]byte, 26)
	cw[0] = 0xa9 // 1010 1001
	p.Serialise(NewBitStream(cw), m)
	want := [][3]int{
		{20, 20, 1}, {20, 19, 0}, {19, 20, 1}, {19, 19, 0},
		{18, 20, 1}, {18, 19, 0}, {17, 20, 0}, {17, 19, 1},
	}
	for _, w := range want {
		if got := b2i(m.Get(w[0], w[1])); got != w[2] {
			t.Errorf("module (%d, %d) = %d, want %d", w[0], w[1], got, w[2])
		}
	}
	// The second column pair runs downwards from row 9.
	m.Reset()
	cw[0] = 0
	cw[3] = 0x80 // bit 24, after 12 rows of the first pair
	p.Serialise(NewBitStream(cw), m)
	if !m.Get(9, 18) || m.Dark() != 1 {
		t.Errorf("bit 24 not at (9, 18):\n%s", strings.Join(rows(m), "\n"))
	}
}

func TestSerialisePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Serialise accepted too much data")
		}
	}()
	p, _ := NewPlan(1)
	p.Serialise(NewBitStream(make([]byte, 27)), NewMatrix(21))
}
