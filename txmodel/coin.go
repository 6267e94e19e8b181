// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txmodel

// Coin is the value, height-of-creation, and locking script of a still
// spendable transparent output, the Coin View's unit of record.
type Coin struct {
	Value     int64
	Height    int32
	PkScript  []byte
	Coinbase  bool
}
