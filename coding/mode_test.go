// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustShiftJIS(t *testing.T, s string) []byte {
	t.Helper()
	b, err := ShiftJIS(s)
	if err != nil {
		t.Fatalf("ShiftJIS(%q): %v", s, err)
	}
	return b
}

func TestSelectMode(t *testing.T) {
	tests := []struct {
		payload []byte
		want    Mode
	}{
		{[]byte(""), Numeric},
		{[]byte("0123456789"), Numeric},
		{[]byte("HELLO WORLD"), Alphanumeric},
		{[]byte("AC-42 $%*+./:"), Alphanumeric},
		{[]byte("hello"), Byte},
		{[]byte("HELLO\n"), Byte},
		{[]byte{0x93, 0x5f, 0xe4, 0xaa}, Kanji},
		{[]byte{0x81, 0x40, 0x9f, 0xfc, 0xe0, 0x40, 0xeb, 0xbf}, Kanji},
		{[]byte{0x93, 0x5f, 0xe4}, Byte},       // odd length
		{[]byte{0x93, 0x7f}, Byte},             // bad trail byte
		{[]byte{0x93, 0x3f}, Byte},             // bad trail byte
		{[]byte{0x93, 0xfd}, Byte},             // bad trail byte
		{[]byte{0xeb, 0xc0}, Byte},             // past the last character
		{[]byte{0xa0, 0x40}, Byte},             // half width katakana
		{[]byte{0x80, 0x40}, Byte},             // below the first character
		{[]byte{0x9f, 0xfc, 0x30, 0x30}, Byte}, // mixed
	}
	for _, tt := range tests {
		if m := SelectMode(tt.payload); m != tt.want {
			t.Errorf("SelectMode(% x) = %v, want %v", tt.payload, m, tt.want)
		}
	}
	if m := SelectMode(mustShiftJIS(t, "点茗")); m != Kanji {
		t.Errorf("SelectMode(ShiftJIS(点茗)) = %v, want kanji", m)
	}
	if m := SelectMode(mustShiftJIS(t, "点A")); m != Byte {
		t.Errorf("SelectMode(ShiftJIS(点A)) = %v, want byte", m)
	}
}

func TestEncodedLength(t *testing.T) {
	tests := []struct {
		m    Mode
		n    int
		v    Version
		want int
	}{
		{Numeric, 8, 1, 4 + 10 + 27},
		{Numeric, 7089, 40, 23648},
		{Alphanumeric, 11, 1, 4 + 9 + 61},
		{Alphanumeric, 11, 10, 4 + 11 + 61},
		{Byte, 17, 1, 4 + 8 + 136},
		{Byte, 17, 10, 4 + 16 + 136},
		{Kanji, 4, 1, 4 + 8 + 26},
		{Kanji, 4, 27, 4 + 12 + 26},
	}
	for _, tt := range tests {
		if n := tt.m.EncodedLength(tt.n, tt.v); n != tt.want {
			t.Errorf("%v.EncodedLength(%d, %v) = %d, want %d",
				tt.m, tt.n, tt.v, n, tt.want)
		}
	}
}

func TestEncodeData(t *testing.T) {
	tests := []struct {
		payload []byte
		v       Version
		l       Level
		want    []byte
	}{
		{[]byte("01234567"), 1, M, []byte{
			0x10, 0x20, 0x0c, 0x56, 0x61, 0x80, 0xec, 0x11,
			0xec, 0x11, 0xec, 0x11, 0xec, 0x11, 0xec, 0x11,
		}},
		{[]byte("HELLO WORLD"), 1, Q, []byte{
			32, 91, 11, 120, 209, 114, 220, 77, 67, 64, 236, 17, 236,
		}},
		{[]byte("AC-42"), 1, L, []byte{
			0x20, 0x29, 0xce, 0xe7, 0x21, 0x00, 0xec, 0x11, 0xec, 0x11,
			0xec, 0x11, 0xec, 0x11, 0xec, 0x11, 0xec, 0x11, 0xec,
		}},
		{[]byte("hello"), 1, L, []byte{
			0x40, 0x56, 0x86, 0x56, 0xc6, 0xc6, 0xf0, 0xec, 0x11, 0xec,
			0x11, 0xec, 0x11, 0xec, 0x11, 0xec, 0x11, 0xec, 0x11,
		}},
		{[]byte{0x93, 0x5f, 0xe4, 0xaa}, 1, L, []byte{
			0x80, 0x26, 0xcf, 0xea, 0xa8, 0x00, 0xec, 0x11, 0xec, 0x11,
			0xec, 0x11, 0xec, 0x11, 0xec, 0x11, 0xec, 0x11, 0xec,
		}},
	}
	for _, tt := range tests {
		b := NewBits(tt.v)
		if err := EncodeData(b, tt.payload, SelectMode(tt.payload), tt.v, tt.l); err != nil {
			t.Errorf("EncodeData(%q): %v", tt.payload, err)
			continue
		}
		if diff := cmp.Diff(tt.want, b.Bytes()); diff != "" {
			t.Errorf("EncodeData(%q) mismatch (-want +got):\n%s", tt.payload, diff)
		}
	}
}

func TestCapacity(t *testing.T) {
	tests := []struct {
		c   byte
		v   Version
		l   Level
		max int
	}{
		{'1', 1, L, 41},
		{'A', 1, L, 25},
		{'a', 1, L, 17},
		{'a', 1, H, 7},
		{'1', 40, L, 7089},
		{'A', 40, L, 4296},
		{'a', 40, L, 2953},
		{'a', 40, H, 1273},
	}
	for _, tt := range tests {
		b := NewBits(tt.v)
		p := bytes.Repeat([]byte{tt.c}, tt.max)
		m := SelectMode(p)
		if err := EncodeData(b, p, m, tt.v, tt.l); err != nil {
			t.Errorf("%v-%v: %d %v characters: %v", tt.v, tt.l, tt.max, m, err)
		}
		if n := b.Bits(); n != tt.v.DataBits(tt.l) {
			t.Errorf("%v-%v: wrote %d bits, want %d", tt.v, tt.l, n, tt.v.DataBits(tt.l))
		}
		b.Reset()
		p = append(p, tt.c)
		err := EncodeData(b, p, m, tt.v, tt.l)
		if !errors.Is(err, ErrCapacity) {
			t.Errorf("%v-%v: %d %v characters: err = %v, want ErrCapacity",
				tt.v, tt.l, tt.max+1, m, err)
			continue
		}
		var ce *CapacityError
		if !errors.As(err, &ce) || ce.Version != tt.v || ce.Level != tt.l ||
			ce.Mode != m || ce.Capacity != tt.v.DataBits(tt.l) {
			t.Errorf("%v-%v: error %#v", tt.v, tt.l, err)
		}
		if b.Bits() != 0 {
			t.Errorf("%v-%v: %d bits written on error", tt.v, tt.l, b.Bits())
		}
	}
}

func TestDecode(t *testing.T) {
	payloads := [][]byte{
		nil,
		[]byte("0"),
		[]byte("01"),
		[]byte("0123456789012"),
		[]byte("A"),
		[]byte("HTTP://EXAMPLE.COM/"),
		[]byte("Hello, world!\x00\xff"),
		mustShiftJIS(t, "点茗"),
		{0x81, 0x40, 0x9f, 0xfc, 0xe0, 0x40, 0xeb, 0xbf},
		[]byte(strings.Repeat("x", 200)),
	}
	for _, p := range payloads {
		for _, v := range []Version{1, 10, 27} {
			m := SelectMode(p)
			b := NewBits(v)
			if err := EncodeData(b, p, m, v, L); err != nil {
				if !errors.Is(err, ErrCapacity) || v != 1 {
					t.Errorf("EncodeData(%q, %v): %v", p, v, err)
				}
				continue
			}
			dm, dp, err := Decode(b.Bytes(), v)
			if err != nil {
				t.Errorf("Decode(%q, %v): %v", p, v, err)
				continue
			}
			if dm != m {
				t.Errorf("Decode(%q, %v): mode %v, want %v", p, v, dm, m)
			}
			if !bytes.Equal(dp, p) {
				t.Errorf("Decode(%q, %v) = %q", p, v, dp)
			}
		}
	}
	if _, _, err := Decode([]byte{0x30}, 1); err == nil {
		t.Error("Decode accepted an unknown mode indicator")
	}
	if _, _, err := Decode([]byte{0x40, 0x50}, 1); err == nil {
		t.Error("Decode accepted a truncated segment")
	}
}
