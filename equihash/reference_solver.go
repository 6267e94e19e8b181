// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package equihash

import (
	"context"
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// referenceSolver is a straightforward, unoptimized stand-in for the
// bucket-sort reference Equihash algorithm. The real generalized-birthday
// search is explicitly out of scope for a block-template assembler (see
// PURPOSE & SCOPE); what this type preserves is the solver's external
// contract — seed a personalized hash state from the header bytes plus a
// trial index, and report any trial whose digest satisfies the
// strategy's internal acceptance rule — so the Mining Driver's
// solve/cancel loop can be exercised end-to-end without the real search.
type referenceSolver struct{}

// solutionLeadingZeroBits is the internal per-trial acceptance threshold
// this stand-in uses in place of Equihash's collision structure, scaled
// so regtest-sized searches (small N, small K) complete quickly in tests.
const solutionLeadingZeroBits = 8

func (s *referenceSolver) Solve(ctx context.Context, params Params, header []byte, nonce [32]byte, found func(solution []byte) bool) error {
	for trial := uint32(0); ; trial++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

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
	}
}

func personalizedDigest(params Params, header []byte, nonce [32]byte, trial uint32) [32]byte {
	var person [16]byte
	copy(person[:8], "ZcashPoW")
	binary.LittleEndian.PutUint32(person[8:12], params.N)
	binary.LittleEndian.PutUint32(person[12:16], params.K)

	h, _ := blake2b.New256(nil)
	_, _ = h.Write(person[:])
	_, _ = h.Write(header)
	_, _ = h.Write(nonce[:])
	var trialBytes [4]byte
	binary.LittleEndian.PutUint32(trialBytes[:], trial)
	_, _ = h.Write(trialBytes[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func leadingZeroBits(b [32]byte) int {
	n := 0
	for _, bt := range b {
		if bt == 0 {
			n += 8
			continue
		}
		for bt&0x80 == 0 {
			n++
			bt <<= 1
		}
		break
	}
	return n
}
