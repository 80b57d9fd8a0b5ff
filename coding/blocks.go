// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "github.com/unixdj/qrsym/gf256"

// Field is the field for QR error correction.
var Field = gf256.NewField(gf256.QR, 2)

// A BlockLayout describes the partition of a QR code's codewords into
// Reed-Solomon blocks.  The first Short blocks hold ShortData data
// bytes, the rest one more.  Every block has Check check bytes.
type BlockLayout struct {
	Blocks    int // number of blocks
	Short     int // number of short blocks
	ShortData int // data bytes in a short block
	Check     int // check bytes per block
}

// Layout returns the block layout for the given version and level,
// or the zero BlockLayout if either is invalid.
func (v Version) Layout(l Level) BlockLayout {
	if !v.IsValid() || !l.IsValid() {
		return BlockLayout{}
	}
	nblock, check := eccBlocks[l][v], eccBytes[l][v]
	total := totalBytes[v]
	return BlockLayout{
		Blocks:    nblock,
		Short:     nblock - total%nblock,
		ShortData: total/nblock - check,
		Check:     check,
	}
}

// DataLen returns the number of data bytes in block i.
func (bl BlockLayout) DataLen(i int) int {
	if i < bl.Short {
		return bl.ShortData
	}
	return bl.ShortData + 1
}

// Total returns the number of data and check bytes in all blocks.
func (bl BlockLayout) Total() int {
	return bl.Blocks*(bl.ShortData+bl.Check) + bl.Blocks - bl.Short
}

// Interleave splits data into blocks for the given version and level,
// computes the check bytes of each block and returns the codewords in
// transmission order: byte j of every block's data, short blocks
// skipped once exhausted, followed by byte j of every block's check
// bytes.  data must hold v.DataBytes(l) bytes.
func Interleave(data []byte, v Version, l Level) []byte {
	bl := v.Layout(l)
	nd := v.DataBytes(l)
	if bl.Blocks == 0 || len(data) != nd || bl.Total() != v.TotalBytes() {
		panic("qr: internal error")
	}
	dst := make([]byte, v.TotalBytes())
	check := make([]byte, bl.Check)
	rs := gf256.NewRSEncoder(Field, bl.Check)
	for i, src := 0, data; i < bl.Blocks; i++ {
		n := bl.DataLen(i)
		rs.ECC(src[:n], check)
		for j, k := 0, i; j < n; j, k = j+1, k+bl.Blocks {
			if j == bl.ShortData {
				k -= bl.Short // only long blocks remain
			}
			dst[k] = src[j]
		}
		for j, k := 0, nd+i; j < bl.Check; j, k = j+1, k+bl.Blocks {
			dst[k] = check[j]
		}
		src = src[n:]
	}
	return dst
}
