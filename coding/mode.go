// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/text/encoding/japanese"
)

// A Mode is a QR segment encoding mode.
type Mode int

// Encoding modes, from the most to the least compact.
const (
	Numeric      Mode = iota // digits 0-9
	Alphanumeric             // digits, A-Z, SPACE $ % * + - . / :
	Kanji                    // Shift JIS double byte characters
	Byte                     // any data
)

var modeNames = [...]string{"numeric", "alphanumeric", "kanji", "byte"}

func (m Mode) String() string {
	if Numeric <= m && m <= Byte {
		return modeNames[m]
	}
	return strconv.Itoa(int(m))
}

// Indicator returns the 4 bit mode indicator.
func (m Mode) Indicator() uint32 {
	return [...]uint32{1, 2, 8, 4}[m]
}

// countLength lists lengths of the character count field in three QR
// version size classes.
var countLength = [...][3]int{
	Numeric:      {10, 12, 14},
	Alphanumeric: {9, 11, 13},
	Kanji:        {8, 10, 12},
	Byte:         {8, 16, 16},
}

// CountLength returns the length of the character count field for
// mode m in a QR code of version v.
func (m Mode) CountLength(v Version) int {
	return countLength[m][v.SizeClass()]
}

// EncodedLength returns the length in bits of a segment of n bytes
// encoded in mode m in a QR code of version v, including the header.
func (m Mode) EncodedLength(n int, v Version) int {
	bits := 4 + m.CountLength(v)
	switch m {
	case Numeric:
		bits += n/3*10 + [3]int{0, 4, 7}[n%3]
	case Alphanumeric:
		bits += n/2*11 + n%2*6
	case Kanji:
		bits += n / 2 * 13
	default:
		bits += n * 8
	}
	return bits
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric encoding table.  Used after validation.
// "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 010, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

// alphaChars maps alphanumeric values back to characters.
const alphaChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

func isDigit(c byte) bool { return uint32(c-'0') < 10 }

func isAlpha(c byte) bool {
	return c >= ' ' && alphamask>>(c-' ')&1 != 0
}

// isKanji reports whether the big endian Shift JIS value r is
// encodable in kanji mode: 0x8140-0x9ffc or 0xe040-0xebbf, with a
// valid trail byte.
func isKanji(r uint32) bool {
	lo := r & 0xff
	if lo < 0x40 || lo == 0x7f || lo > 0xfc {
		return false
	}
	return 0x8140 <= r && r <= 0x9ffc || 0xe040 <= r && r <= 0xebbf
}

// kanjiValue returns the 13 bit kanji mode value of a valid Shift JIS
// character.
func kanjiValue(hi, lo byte) uint32 {
	r := uint32(hi)<<8 | uint32(lo)
	if r <= 0x9ffc {
		r -= 0x8140
	} else {
		r -= 0xc140
	}
	return r>>8*0xc0 + r&0xff
}

// Is reports whether every byte of payload is encodable in mode m.
// For Kanji the payload must consist of double byte characters.
func Is(payload []byte, m Mode) bool {
	switch m {
	case Numeric:
		for _, c := range payload {
			if !isDigit(c) {
				return false
			}
		}
	case Alphanumeric:
		for _, c := range payload {
			if !isAlpha(c) {
				return false
			}
		}
	case Kanji:
		if len(payload)&1 != 0 {
			return false
		}
		for i := 0; i < len(payload); i += 2 {
			if !isKanji(uint32(payload[i])<<8 | uint32(payload[i+1])) {
				return false
			}
		}
	case Byte:
	default:
		return false
	}
	return true
}

// SelectMode returns the most compact mode able to encode payload.
// Modes are tried in the order Numeric, Alphanumeric, Kanji, Byte.
// A payload with an odd length or invalid Shift JIS falls back to Byte.
func SelectMode(payload []byte) Mode {
	for m := Numeric; m < Byte; m++ {
		if Is(payload, m) {
			return m
		}
	}
	return Byte
}

// ErrCapacity is matched by CapacityError using errors.Is.
var ErrCapacity = errors.New("qr: data too long for version and level")

// CapacityError reports a payload that doesn't fit in a QR code.
type CapacityError struct {
	Version
	Level
	Mode
	Bits     int // encoded length
	Capacity int // data bits available
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("qr: cannot encode %d bits of %s data into %d-bit code %s-%s",
		e.Bits, e.Mode, e.Capacity, e.Version, e.Level)
}

func (e *CapacityError) Is(err error) bool { return err == ErrCapacity }

// EncodeData writes payload encoded in mode m, terminator and padding
// to b for a QR code of the given version and level.  The payload must
// be valid for m.  If the payload doesn't fit, EncodeData returns a
// *CapacityError and b is left unchanged.
func EncodeData(b *Bits, payload []byte, m Mode, v Version, l Level) error {
	n := v.DataBits(l)
	if bits := b.Bits() + m.EncodedLength(len(payload), v); bits > n {
		return &CapacityError{v, l, m, bits, n}
	}
	count := len(payload)
	if m == Kanji {
		count >>= 1
	}
	b.Write(m.Indicator(), 4)
	b.Write(uint32(count), m.CountLength(v))
	s := payload
	switch m {
	case Numeric:
		for ; len(s) >= 3; s = s[3:] {
			b.Write(uint32(s[0]-'0')*100+uint32(s[1]-'0')*10+
				uint32(s[2]-'0'), 10)
		}
		switch len(s) {
		case 2:
			b.Write(uint32(s[0]-'0')*10+uint32(s[1]-'0'), 7)
		case 1:
			b.Write(uint32(s[0]-'0'), 4)
		}
	case Alphanumeric:
		for ; len(s) >= 2; s = s[2:] {
			b.Write(uint32(alpha[s[0]&0x3f])*45+
				uint32(alpha[s[1]&0x3f]), 11)
		}
		if len(s) == 1 {
			b.Write(uint32(alpha[s[0]&0x3f]), 6)
		}
	case Kanji:
		for ; len(s) >= 2; s = s[2:] {
			b.Write(kanjiValue(s[0], s[1]), 13)
		}
	default:
		for _, c := range s {
			b.Write(uint32(c), 8)
		}
	}
	b.Pad(n)
	return nil
}

// Decode reads a data segment written by EncodeData for a QR code of
// version v and returns its mode and payload.  Padding is ignored.
func Decode(data []byte, v Version) (Mode, []byte, error) {
	s := NewBitStream(data)
	if s.Len() < 4 {
		return 0, nil, errors.New("qr: short data")
	}
	ind := s.Read(4)
	m := Numeric
	for m <= Byte && m.Indicator() != ind {
		m++
	}
	if m > Byte {
		return 0, nil, fmt.Errorf("qr: unknown mode indicator %#x", ind)
	}
	n := int(s.Read(m.CountLength(v)))
	size := n
	if m == Kanji {
		size *= 2
	}
	if need := m.EncodedLength(size, v) - 4 - m.CountLength(v); need > s.Len() {
		return 0, nil, fmt.Errorf("qr: %s segment of %d characters truncated", m, n)
	}
	out := make([]byte, 0, size)
	switch m {
	case Numeric:
		for ; n >= 3; n -= 3 {
			out = fmt.Appendf(out, "%03d", s.Read(10))
		}
		switch n {
		case 2:
			out = fmt.Appendf(out, "%02d", s.Read(7))
		case 1:
			out = fmt.Appendf(out, "%d", s.Read(4))
		}
	case Alphanumeric:
		for ; n >= 2; n -= 2 {
			x := s.Read(11)
			if x >= 45*45 {
				return 0, nil, errors.New("qr: invalid alphanumeric data")
			}
			out = append(out, alphaChars[x/45], alphaChars[x%45])
		}
		if n == 1 {
			x := s.Read(6)
			if x >= 45 {
				return 0, nil, errors.New("qr: invalid alphanumeric data")
			}
			out = append(out, alphaChars[x])
		}
	case Kanji:
		for ; n > 0; n-- {
			x := s.Read(13)
			r := x/0xc0<<8 | x%0xc0
			if r < 0x1f00 {
				r += 0x8140
			} else {
				r += 0xc140
			}
			out = append(out, byte(r>>8), byte(r))
		}
	default:
		for ; n > 0; n-- {
			out = append(out, byte(s.Read(8)))
		}
	}
	return m, out, nil
}

// ShiftJIS converts UTF-8 text to Shift JIS, producing a payload that
// SelectMode classifies as Kanji if every character is a kanji mode
// character.
func ShiftJIS(text string) ([]byte, error) {
	return japanese.ShiftJIS.NewEncoder().Bytes([]byte(text))
}
