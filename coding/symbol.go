// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// A Symbol is a QR code of a fixed version.  The zero Symbol is not
// usable; create Symbols with NewSymbol.
//
// Encode overwrites the modules of the Symbol.  A Symbol must not be
// encoded concurrently; distinct Symbols may.
type Symbol struct {
	p    *Plan
	b    *Bits
	m    *Matrix
	l    Level
	mask Mask
	mode Mode
	pen  int
}

// NewSymbol returns an all-light Symbol of version v.
func NewSymbol(v Version) (*Symbol, error) {
	p, err := NewPlan(v)
	if err != nil {
		return nil, err
	}
	return &Symbol{
		p:    p,
		b:    NewBits(v),
		m:    NewMatrix(p.Size),
		mask: AutoMask,
		pen:  -1,
	}, nil
}

// Encode encodes payload at level l using the most compact mode able
// to represent it.  If mask is AutoMask, the mask with the lowest
// penalty is chosen; otherwise mask is used as is.
//
// If the payload doesn't fit, Encode returns a *CapacityError and the
// Symbol is left unchanged.
func (s *Symbol) Encode(payload []byte, l Level, mask Mask) error {
	if !l.IsValid() {
		return ErrLevel
	}
	if mask != AutoMask && !mask.IsValid() {
		return ErrMask
	}
	v := s.p.Version
	mode := SelectMode(payload)
	s.b.Reset()
	if err := EncodeData(s.b, payload, mode, v, l); err != nil {
		return err
	}
	cw := Interleave(s.b.Bytes(), v, l)

	// Construct the bitmap consisting of function patterns,
	// data and checksum bits, and version information.
	copy(s.m.Bitmap, s.p.Pattern.Bitmap)
	s.p.Serialise(NewBitStream(cw), s.m)
	SetVersion(s.m, v)

	pen := -1
	if mask == AutoMask {
		mask, pen = s.p.SelectMask(s.m, l)
	}
	SetFormat(s.m, l, mask)
	s.p.Apply(s.m, mask)
	s.l, s.mask, s.mode, s.pen = l, mask, mode, pen
	return nil
}

// Encode returns a Symbol of version v encoding payload at level l
// with the given mask or AutoMask.
func Encode(payload []byte, v Version, l Level, mask Mask) (*Symbol, error) {
	s, err := NewSymbol(v)
	if err != nil {
		return nil, err
	}
	if err := s.Encode(payload, l, mask); err != nil {
		return nil, err
	}
	return s, nil
}

// Side returns the number of modules on a side.
func (s *Symbol) Side() int { return s.p.Size }

// Module reports whether module (row, col) is dark.
// It panics if row or col is out of range.
func (s *Symbol) Module(row, col int) bool { return s.m.Get(row, col) }

// Version returns the version of s.
func (s *Symbol) Version() Version { return s.p.Version }

// Level returns the error correction level of the last encoding.
func (s *Symbol) Level() Level { return s.l }

// Mask returns the mask of the last encoding, or AutoMask if s has
// not been encoded.
func (s *Symbol) Mask() Mask { return s.mask }

// Mode returns the mode of the last encoding.
func (s *Symbol) Mode() Mode { return s.mode }

// Penalty returns the penalty of the selected mask, or -1 if the mask
// was given to Encode.
func (s *Symbol) Penalty() int { return s.pen }

// Plan returns the Plan of s.
func (s *Symbol) Plan() *Plan { return s.p }

// Matrix returns a copy of the modules of s.
func (s *Symbol) Matrix() *Matrix { return s.m.Clone() }
