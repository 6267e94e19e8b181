/*
 * Copyright (c) 2021 The JaxNetwork developers
 * Use of this source code is governed by an ISC
 * license that can be found in the LICENSE file.
 */

package chainhash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func txHash(label string) Hash {
	return HashH([]byte(label))
}

func TestMerkleTreeRootEmpty(t *testing.T) {
	require.Equal(t, Hash{}, MerkleTreeRoot(nil))
}

func TestMerkleTreeRootSingleTransaction(t *testing.T) {
	coinbase := txHash("coinbase")
	require.Equal(t, coinbase, MerkleTreeRoot([]Hash{coinbase}))
}

func TestMerkleTreeRootDuplicatesOddLevel(t *testing.T) {
	coinbase := txHash("coinbase")
	spend := txHash("spend")

	want := *HashMerkleBranches(&coinbase, &spend)
	got := MerkleTreeRoot([]Hash{coinbase, spend})
	require.Equal(t, want, got)

	// An odd-sized transaction set duplicates its final leaf climbing the
	// tree, so three transactions collapse to the same pairing as two
	// plus a repeat of the third.
	third := txHash("shielded")
	wantOdd := *HashMerkleBranches(&want, HashMerkleBranches(&third, &third))
	gotOdd := MerkleTreeRoot([]Hash{coinbase, spend, third})
	require.Equal(t, wantOdd, gotOdd)
}

func TestHashMerkleBranchesOrderMatters(t *testing.T) {
	left := txHash("left")
	right := txHash("right")

	forward := HashMerkleBranches(&left, &right)
	reversed := HashMerkleBranches(&right, &left)
	require.NotEqual(t, *forward, *reversed)
}
