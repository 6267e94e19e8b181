// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCScriptNumEncodesSmallValues(t *testing.T) {
	require.Nil(t, CScriptNum(0))
	require.Equal(t, []byte{0x05}, CScriptNum(5))
	require.Equal(t, []byte{0xff, 0x00}, CScriptNum(0xff))
	require.Equal(t, []byte{0x81}, CScriptNum(-1))
}

func TestIsPayToScriptHash(t *testing.T) {
	p2sh := append([]byte{OP_HASH160, 0x14}, make([]byte, 20)...)
	p2sh = append(p2sh, OP_EQUAL)
	require.True(t, IsPayToScriptHash(p2sh))

	require.False(t, IsPayToScriptHash([]byte{OP_HASH160, 0x14}))
	require.False(t, IsPayToScriptHash(nil))
}

func TestLastPushDataReturnsFinalPush(t *testing.T) {
	redeem := []byte{OP_1, OP_CHECKSIG}
	script := append(pushData([]byte{0x01, 0x02}), pushData(redeem)...)
	require.Equal(t, redeem, LastPushData(script))
}

func TestCountSigOpsAccurateVsConservative(t *testing.T) {
	script := []byte{OP_1, OP_CHECKMULTISIG}
	require.Equal(t, 20, CountSigOps(script, false), "inaccurate count always charges the 20-sigop ceiling")
	require.Equal(t, 1, CountSigOps(script, true), "accurate count reads the preceding small-int push")
}

func TestBuildCoinbaseScriptSigEncodesHeightThenExtraNonce(t *testing.T) {
	script := BuildCoinbaseScriptSig(200, 7, []byte("flags"))
	require.Equal(t, []byte{0x02, 0xc8, 0x00, 0x01, 0x07}, script[:5], "height push, then extra-nonce push")
	require.Contains(t, string(script), "flags")
}
