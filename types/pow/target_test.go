/*
 * Copyright (c) 2021 The JaxNetwork developers
 * Use of this source code is governed by an ISC
 * license that can be found in the LICENSE file.
 */

package pow

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zecnode/blocktemplate/types/chainhash"
)

func TestCompactToBigRoundTrip(t *testing.T) {
	for _, bits := range []uint32{0x1f07ffff, 0x1d00ffff, 0x207fffff} {
		n := CompactToBig(bits)
		require.Equal(t, bits, BigToCompact(n))
	}
}

func TestHashToBigReversesBytes(t *testing.T) {
	var h chainhash.Hash
	h[31] = 0x01
	n := HashToBig(&h)
	require.Equal(t, 0, new(big.Int).Lsh(big.NewInt(1), 248).Cmp(n))
}

func TestCalcWorkDecreasesWithEasierTarget(t *testing.T) {
	hard := CalcWork(0x1d00ffff)
	easy := CalcWork(0x1f07ffff)
	require.Greater(t, hard.Cmp(easy), 0)
}
