// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVersionTables(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		for l := L; l <= H; l++ {
			bl := v.Layout(l)
			if got := bl.Total(); got != v.TotalBytes() {
				t.Errorf("%v-%v: blocks hold %d bytes, want %d",
					v, l, got, v.TotalBytes())
			}
			sum := 0
			for i := 0; i < bl.Blocks; i++ {
				sum += bl.DataLen(i)
			}
			if sum != v.DataBytes(l) {
				t.Errorf("%v-%v: blocks hold %d data bytes, want %d",
					v, l, sum, v.DataBytes(l))
			}
			if bl.Short < 1 || bl.Short > bl.Blocks {
				t.Errorf("%v-%v: %d short blocks of %d",
					v, l, bl.Short, bl.Blocks)
			}
		}
	}
}

func TestVersion(t *testing.T) {
	tests := []struct {
		v     Version
		class int
		size  int
		total int
		data  [4]int // L, M, Q, H
		align []int
	}{
		{1, Class0, 21, 26, [4]int{19, 16, 13, 9}, nil},
		{2, Class0, 25, 44, [4]int{34, 28, 22, 16}, []int{6, 18}},
		{7, Class0, 45, 196, [4]int{156, 124, 88, 66}, []int{6, 22, 38}},
		{9, Class0, 53, 292, [4]int{232, 182, 132, 100}, []int{6, 26, 46}},
		{10, Class1, 57, 346, [4]int{274, 216, 154, 122}, []int{6, 28, 50}},
		{26, Class1, 121, 1706, [4]int{1370, 1062, 754, 596},
			[]int{6, 30, 58, 86, 114}},
		{27, Class2, 125, 1828, [4]int{1468, 1128, 808, 628},
			[]int{6, 34, 62, 90, 118}},
		{40, Class2, 177, 3706, [4]int{2956, 2334, 1666, 1276},
			[]int{6, 30, 58, 86, 114, 142, 170}},
	}
	for _, tt := range tests {
		if c := tt.v.SizeClass(); c != tt.class {
			t.Errorf("%v: SizeClass = %d, want %d", tt.v, c, tt.class)
		}
		if s := tt.v.Size(); s != tt.size {
			t.Errorf("%v: Size = %d, want %d", tt.v, s, tt.size)
		}
		if n := tt.v.TotalBytes(); n != tt.total {
			t.Errorf("%v: TotalBytes = %d, want %d", tt.v, n, tt.total)
		}
		for l := L; l <= H; l++ {
			if n := tt.v.DataBytes(l); n != tt.data[l] {
				t.Errorf("%v-%v: DataBytes = %d, want %d",
					tt.v, l, n, tt.data[l])
			}
		}
		if diff := cmp.Diff(tt.align, tt.v.AlignPositions()); diff != "" {
			t.Errorf("%v: AlignPositions mismatch (-want +got):\n%s", tt.v, diff)
		}
	}
}

func TestValid(t *testing.T) {
	for _, v := range []Version{0, -1, 41} {
		if v.IsValid() {
			t.Errorf("Version(%d).IsValid() = true", v)
		}
		if _, err := NewPlan(v); err != ErrVersion {
			t.Errorf("NewPlan(%d) = %v, want ErrVersion", v, err)
		}
		if n := v.TotalBytes(); n != 0 {
			t.Errorf("Version(%d).TotalBytes() = %d, want 0", v, n)
		}
		if n := v.DataBits(L); n != 0 {
			t.Errorf("Version(%d).DataBits(L) = %d, want 0", v, n)
		}
		if a := v.AlignPositions(); a != nil {
			t.Errorf("Version(%d).AlignPositions() = %v, want nil", v, a)
		}
		if bl := v.Layout(L); bl != (BlockLayout{}) {
			t.Errorf("Version(%d).Layout(L) = %+v, want zero", v, bl)
		}
	}
	for _, l := range []Level{-1, 4} {
		if l.IsValid() {
			t.Errorf("Level(%d).IsValid() = true", l)
		}
		if n := Version(1).DataBytes(l); n != 0 {
			t.Errorf("DataBytes(%d) = %d, want 0", l, n)
		}
	}
	for _, m := range []Mask{AutoMask, 8} {
		if m.IsValid() {
			t.Errorf("Mask(%d).IsValid() = true", m)
		}
	}
	if s := L.String() + M.String() + Q.String() + H.String(); s != "LMQH" {
		t.Errorf("Level strings = %q", s)
	}
}
