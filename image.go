// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"bytes"
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
)

// Paletted returns a two colour image displaying the code at c.Scale
// with a quiet zone of c.Border, in c.Palette colours if set.
func (c *Code) Paletted() (*image.Paletted, error) {
	pix, err := c.pixels()
	if err != nil {
		return nil, err
	}
	img := image.NewPaletted(image.Rect(0, 0, pix, pix), c.colors())
	scale, bord := c.Scale, c.Border
	// Draw one row of pixels per QR pixel row and copy it.
	row := make([]uint8, pix)
	for y := -bord; y < c.Size+bord; y++ {
		for x := -bord; x < c.Size+bord; x++ {
			var v uint8
			if c.dark(x, y) {
				v = 1
			}
			i := (x + bord) * scale
			for j := i; j < i+scale; j++ {
				row[j] = v
			}
		}
		off := (y + bord) * scale * img.Stride
		for i := 0; i < scale; i++ {
			copy(img.Pix[off+i*img.Stride:], row)
		}
	}
	return img, nil
}

// EncodePNG writes a PNG image displaying the code to w.
func (c *Code) EncodePNG(w io.Writer) error {
	if w == nil {
		return ErrArgs
	}
	img, err := c.Paletted()
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}

// PNG returns a PNG image displaying the code, or nil if the code or
// its drawing parameters are invalid.
func (c *Code) PNG() []byte {
	var b bytes.Buffer
	if err := c.EncodePNG(&b); err != nil {
		return nil
	}
	return b.Bytes()
}

// EncodeBMP writes a BMP image displaying the code to w.
func (c *Code) EncodeBMP(w io.Writer) error {
	if w == nil {
		return ErrArgs
	}
	img, err := c.Paletted()
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if err := bmp.Encode(bw, img); err != nil {
		return err
	}
	return bw.Flush()
}

// Fit returns an image displaying the code including its quiet zone,
// resized to size by size pixels with nearest neighbour sampling.
// c.Scale is ignored.
func (c *Code) Fit(size int) (image.Image, error) {
	if size < 1 || size > maxPixels {
		return nil, ErrArgs
	}
	cc := *c
	cc.Scale = 1
	img, err := cc.Paletted()
	if err != nil {
		return nil, err
	}
	return imaging.Resize(img, size, size, imaging.NearestNeighbor), nil
}
