// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package equihash

import (
	"context"
	"encoding/binary"
)

// trompSolver stands in for the cache-optimized tromp/equihash variant:
// same external contract as referenceSolver, same acceptance rule (this
// repo does not reimplement either solver's actual search structure), but
// batches trials before checking for cancellation, mirroring that
// implementation's preference for large contiguous scan windows over
// frequent interrupt checks.
type trompSolver struct{}

const trompBatchSize = 4096

func (s *trompSolver) Solve(ctx context.Context, params Params, header []byte, nonce [32]byte, found func(solution []byte) bool) error {
	var trial uint32
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for i := 0; i < trompBatchSize; i++ {
			digest := personalizedDigest(params, header, nonce, trial)
			if leadingZeroBits(digest) >= solutionLeadingZeroBits {
				solution := make([]byte, 4)
				binary.LittleEndian.PutUint32(solution, trial)
				if found(solution) {
					return nil
				}
			}

			if trial == ^uint32(0) {
				return nil
			}
			trial++
		}
	}
}
