// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txmodel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockHeaderRoundTrip(t *testing.T) {
	h := &BlockHeader{
		Version:          4,
		Time:             1_600_000_000,
		Bits:             0x1f07ffff,
		Solution:         []byte{0x01, 0x02, 0x03, 0x04},
	}
	copy(h.PrevBlock[:], bytes.Repeat([]byte{0xaa}, 32))
	copy(h.MerkleRoot[:], bytes.Repeat([]byte{0xbb}, 32))
	copy(h.Nonce[:], bytes.Repeat([]byte{0xcc}, 32))

	var buf bytes.Buffer
	require.NoError(t, h.Serialize(&buf))

	var got BlockHeader
	require.NoError(t, got.Deserialize(&buf))

	require.Equal(t, h.Version, got.Version)
	require.Equal(t, h.PrevBlock, got.PrevBlock)
	require.Equal(t, h.MerkleRoot, got.MerkleRoot)
	require.Equal(t, h.Time, got.Time)
	require.Equal(t, h.Bits, got.Bits)
	require.Equal(t, h.Nonce, got.Nonce)
	require.Equal(t, h.Solution, got.Solution)
	require.Equal(t, h.BlockHash(), got.BlockHash())
}

func TestCScriptNum(t *testing.T) {
	require.Nil(t, CScriptNum(0))
	require.Equal(t, []byte{0x01}, CScriptNum(1))
	require.Equal(t, []byte{0xff, 0x00}, CScriptNum(255))
	require.Equal(t, []byte{0x81}, CScriptNum(-1))
}

func TestBuildCoinbaseScriptSig(t *testing.T) {
	script := BuildCoinbaseScriptSig(500_000, 7, []byte("/zecnode/"))
	require.LessOrEqual(t, len(script), maxCoinbaseScriptSigSize)
	require.Contains(t, string(script), "/zecnode/")
}
