// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes of a given version.

Encode selects the most compact mode for the payload (numeric,
alphanumeric, kanji or byte), adds Reed-Solomon error correction at the
requested level, and either chooses the mask with the lowest penalty or
applies the one given.  The resulting Code can be drawn as an image,
written as PNG, BMP or PBM, rendered as text, or exported as a raw
pixel buffer.
*/
package qr

import (
	"errors"
	"image"
	"image/color"
	"strings"

	"github.com/unixdj/qrsym/coding"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

// AutoMask requests the mask with the lowest penalty.
const AutoMask = coding.AutoMask

var (
	ErrArgs       = errors.New("qr: invalid arguments")
	ErrLargeImage = errors.New("qr: image too large")
)

// maxPixels limits the number of pixels on a side of an image.
const maxPixels = 1 << 16

// Encode returns an encoding of payload in a QR code of version v at
// the given error correction level, using mask or, if mask is
// AutoMask, the mask with the lowest penalty.
//
// If the payload doesn't fit, the error satisfies
// errors.Is(err, coding.ErrCapacity).
func Encode(payload []byte, v coding.Version, level Level, mask coding.Mask) (*Code, error) {
	s, err := coding.Encode(payload, v, coding.Level(level), mask)
	if err != nil {
		return nil, err
	}
	return newCode(s), nil
}

func newCode(s *coding.Symbol) *Code {
	m := s.Matrix()
	return &Code{
		Bitmap: m.Bitmap,
		Size:   m.Size,
		Scale:  8,
		Border: 4,
		sym:    s,
	}
}

// A Code is a square pixel grid.
// It implements PNG, BMP and PBM encoding and text rendering.
type Code struct {
	Bitmap  []byte          // 1 is black, 0 is white; bit y*Size+x, MSB first
	Size    int             // number of pixels on a side
	Scale   int             // number of image pixels per QR pixel
	Border  int             // quiet zone width in QR pixels
	Reverse bool            // swap black and white
	Palette *[2]color.Color // background and foreground colours, or nil

	sym *coding.Symbol
}

// Symbol returns the symbol c was encoded from, or nil.
func (c *Code) Symbol() *coding.Symbol { return c.sym }

// Black returns true if the pixel at (x,y) is black.
// Pixels outside the code are white.
func (c *Code) Black(x, y int) bool {
	if x < 0 || x >= c.Size || y < 0 || y >= c.Size {
		return false
	}
	i := y*c.Size + x
	return c.Bitmap[i>>3]>>(7&^i)&1 != 0
}

// dark returns true if the pixel at (x,y) is drawn in the foreground
// colour, taking c.Reverse into account.  The quiet zone is background
// unless reversed.
func (c *Code) dark(x, y int) bool {
	return c.Black(x, y) != c.Reverse
}

// isValid reports whether the code and its drawing parameters are
// usable.
func (c *Code) isValid() bool {
	return c != nil && c.Size > 0 && c.Scale > 0 && c.Border >= 0 &&
		len(c.Bitmap)*8 >= c.Size*c.Size
}

// pixels returns the number of image pixels on a side.
func (c *Code) pixels() (int, error) {
	if !c.isValid() {
		return 0, ErrArgs
	}
	if c.Size+2*c.Border > maxPixels/c.Scale {
		return 0, ErrLargeImage
	}
	return (c.Size + 2*c.Border) * c.Scale, nil
}

// colors returns the background and foreground colours.
func (c *Code) colors() color.Palette {
	if c.Palette != nil {
		return color.Palette{c.Palette[0], c.Palette[1]}
	}
	return color.Palette{whiteColor, blackColor}
}

var (
	whiteColor color.Color = color.Gray{0xFF}
	blackColor color.Color = color.Gray{0x00}
)

// Image returns an Image displaying the code.
func (c *Code) Image() image.Image {
	return &codeImage{c}
}

// codeImage implements image.Image
type codeImage struct {
	*Code
}

func (c *codeImage) Bounds() image.Rectangle {
	d := (c.Size + 2*c.Border) * c.Scale
	return image.Rect(0, 0, d, d)
}

func (c *codeImage) At(x, y int) color.Color {
	p := c.colors()
	if !image.Pt(x, y).In(c.Bounds()) {
		return p[0]
	}
	if c.dark(x/c.Scale-c.Border, y/c.Scale-c.Border) {
		return p[1]
	}
	return p[0]
}

func (c *codeImage) ColorModel() color.Model {
	if c.Palette != nil {
		return c.colors()
	}
	return color.GrayModel
}

// Buffer returns the code as a packed pixel buffer of side*side pixels
// of the given number of 8 bit channels, one pixel per QR pixel with a
// one pixel border, ignoring Scale, Border and Palette.  Light pixels
// have all channels set to 0xff, dark pixels all but alpha (the last
// channel of 2 and 4) set to 0.  With c.Reverse the border is dark, as
// the quiet zone is in other renderings.  Buffer returns nil, 0 if
// channels is not between 1 and 4.
func (c *Code) Buffer(channels int) (buf []byte, side int) {
	if channels < 1 || channels > 4 || !c.isValid() {
		return nil, 0
	}
	side = c.Size + 2
	buf = make([]byte, side*side*channels)
	for i := range buf {
		buf[i] = 0xff
	}
	dark := channels
	if channels == 2 || channels == 4 {
		dark-- // alpha stays opaque
	}
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			if c.dark(x-1, y-1) {
				clear(buf[(y*side+x)*channels:][:dark])
			}
		}
	}
	return buf, side
}

// Half block characters indexed by upper | lower<<1.
var halfBlocks = [4]string{" ", "▀", "▄", "█"}

// String renders the code as text using Unicode half blocks, two QR
// pixel rows per line, with black pixels drawn as filled blocks and a
// quiet zone of c.Border.  For terminals drawing light text on a dark
// background, set c.Reverse.
func (c *Code) String() string {
	bord := max(c.Border, 0)
	end := c.Size + bord
	var b strings.Builder
	b.Grow((end + bord) * (end + bord + 1) * 3 / 2)
	for y := -bord; y < end; y += 2 {
		for x := -bord; x < end; x++ {
			i := 0
			if c.dark(x, y) {
				i |= 1
			}
			if y+1 < end && c.dark(x, y+1) {
				i |= 2
			}
			b.WriteString(halfBlocks[i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
