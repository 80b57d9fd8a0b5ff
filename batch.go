// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/unixdj/qrsym/coding"
)

// EncodeBatch encodes each payload in a QR code of version v at the
// given level with the lowest penalty mask, using up to GOMAXPROCS
// goroutines.  The codes are returned in the order of the payloads.
// On the first error or cancellation of ctx EncodeBatch stops starting
// new encodings and returns the error.
func EncodeBatch(ctx context.Context, payloads [][]byte, v coding.Version, level Level) ([]*Code, error) {
	codes := make([]*Code, len(payloads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range payloads {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := Encode(p, v, level, AutoMask)
			if err != nil {
				return fmt.Errorf("qr: payload %d: %w", i, err)
			}
			codes[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return codes, nil
}
