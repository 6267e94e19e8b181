// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zecnode/blocktemplate/txmodel"
)

func TestValidLogLevel(t *testing.T) {
	tt := []struct {
		name  string
		level string
		want  bool
	}{
		{"trace", "trace", true},
		{"debug", "debug", true},
		{"info", "info", true},
		{"critical", "critical", true},
		{"unknown", "verbose", false},
		{"empty", "", false},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, validLogLevel(tc.level))
		})
	}
}

func TestDecodeMinerAddressTransparent(t *testing.T) {
	addr, err := decodeMinerAddress("transparent:" + hex.EncodeToString([]byte{0xde, 0xad, 0xbe, 0xef}))
	require.NoError(t, err)
	require.Equal(t, txmodel.Transparent, addr.Kind)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, addr.Script)
}

func TestDecodeMinerAddressSaplingWrongLength(t *testing.T) {
	_, err := decodeMinerAddress("sapling:" + hex.EncodeToString([]byte{0x01, 0x02}))
	require.Error(t, err)
}

func TestDecodeMinerAddressUnrecognizedKind(t *testing.T) {
	_, err := decodeMinerAddress("bogus:ff")
	require.Error(t, err)
}

func TestDecodeMinerAddressMissingSeparator(t *testing.T) {
	_, err := decodeMinerAddress("transparentff")
	require.Error(t, err)
}

func TestChainParamsForNet(t *testing.T) {
	cfg := &config{RegressionTest: true}
	require.Equal(t, "regtest", chainParamsForNet(cfg).Name)

	cfg = &config{TestNet3: true}
	require.Equal(t, "testnet", chainParamsForNet(cfg).Name)

	cfg = &config{}
	require.Equal(t, "mainnet", chainParamsForNet(cfg).Name)
}

func TestNumWorkers(t *testing.T) {
	cfg := &config{Miner: minerConfig{GenProcLimit: -1}}
	require.Equal(t, 8, cfg.numWorkers(8))

	cfg = &config{Miner: minerConfig{GenProcLimit: 0}}
	require.Equal(t, 1, cfg.numWorkers(8))

	cfg = &config{Miner: minerConfig{GenProcLimit: 3}}
	require.Equal(t, 3, cfg.numWorkers(8))
}
