// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"io"
	"strconv"
)

// EncodePBM writes a Portable Bit Map image displaying the code to w,
// for use with netpbm.  EncodePBM disregards c.Palette, as other PNM
// formats are not supported.
func (c *Code) EncodePBM(w io.Writer) error {
	if w == nil {
		return ErrArgs
	}
	length, err := c.pixels()
	if err != nil {
		return err
	}
	b := bufio.NewWriter(w)
	ls := strconv.Itoa(length)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	row := make([]byte, (length+7)/8)
	for y := -c.Border; y < c.Size+c.Border; y++ {
		pbmRow(row, c, y)
		for i := 0; i < c.Scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	return b.Flush()
}

// pbmRow encodes a row of QR pixels in PBM format: one bit per image
// pixel, 1 is black, padded with zero bits to a byte boundary.
func pbmRow(row []byte, c *Code, y int) {
	clear(row)
	j := 0
	for x := -c.Border; x < c.Size+c.Border; x++ {
		if !c.dark(x, y) {
			j += c.Scale
			continue
		}
		for end := j + c.Scale; j < end; j++ {
			row[j>>3] |= 0x80 >> (j & 7)
		}
	}
}
