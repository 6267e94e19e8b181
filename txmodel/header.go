// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txmodel

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/zecnode/blocktemplate/types/chainhash"
)

// BlockHeader is the 1,487-byte-class Zcash block header, extended past the
// Bitcoin-derived fields with the commitments hash introduced by Heartwood
// and the 32-byte nonce / variable-length Equihash solution fields.
type BlockHeader struct {
	Version          int32
	PrevBlock        chainhash.Hash
	MerkleRoot       chainhash.Hash
	BlockCommitments chainhash.Hash
	Time             uint32
	Bits             uint32
	Nonce            [32]byte
	Solution         []byte
}

// Serialize writes the header fields the proof-of-work hash commits to,
// i.e. everything except Solution, followed by Solution itself — mirroring
// the upstream layout where the solution is a variable-length trailer.
func (h *BlockHeader) Serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, h.Version); err != nil {
		return err
	}
	if _, err := w.Write(h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := w.Write(h.MerkleRoot[:]); err != nil {
		return err
	}
	if _, err := w.Write(h.BlockCommitments[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, h.Time); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, h.Bits); err != nil {
		return err
	}
	if _, err := w.Write(h.Nonce[:]); err != nil {
		return err
	}
	return writeVarBytes(w, h.Solution)
}

// Deserialize is the inverse of Serialize.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &h.Version); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.MerkleRoot[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.BlockCommitments[:]); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &h.Time); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &h.Bits); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.Nonce[:]); err != nil {
		return err
	}

	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return err
	}
	n := binary.LittleEndian.Uint64(lenBuf[:])
	h.Solution = make([]byte, n)
	_, err := io.ReadFull(r, h.Solution)
	return err
}

// BlockHash returns the double-SHA256 hash of the fully serialized header
// (including the Equihash solution), the value compared against the PoW
// target.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	var buf bytes.Buffer
	_ = h.Serialize(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// PreImage returns the serialized header fields the Equihash solver hashes
// into its initial state: everything up to, but not including, the
// solution (and nonce is included, since Equihash personalizes on it).
func (h *BlockHeader) PreImage() []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, h.Version)
	buf.Write(h.PrevBlock[:])
	buf.Write(h.MerkleRoot[:])
	buf.Write(h.BlockCommitments[:])
	_ = binary.Write(&buf, binary.LittleEndian, h.Time)
	_ = binary.Write(&buf, binary.LittleEndian, h.Bits)
	buf.Write(h.Nonce[:])
	return buf.Bytes()
}

// SetNonce overwrites the low 4 bytes of the 32-byte nonce with n, leaving
// the thread-id/local-counter high bytes a Mining Driver may have already
// populated (§4.5 step 3) untouched.
func (h *BlockHeader) SetNonce(n uint32) {
	binary.LittleEndian.PutUint32(h.Nonce[:4], n)
}

// Nonce32 returns the low 4 bytes of the nonce as the uint32 the solver
// increments (§4.6 step 5's low_16 check operates on this value).
func (h *BlockHeader) Nonce32() uint32 {
	return binary.LittleEndian.Uint32(h.Nonce[:4])
}

// BlockTemplate is a candidate block (header + transaction vector) plus
// parallel per-transaction fee and sigop arrays, index 0 reserved for the
// coinbase. No intermediate commitment roots are cached: an extra-nonce
// change recomputes the Merkle root and block commitments from the
// transactions.
type BlockTemplate struct {
	Header        BlockHeader
	Transactions  []*Transaction
	Fees          []int64
	SigOpCounts   []int
	Height        int32
	ValidPayAddr  bool

	// ExtraNonce tracks the Mining Driver's increment_extra_nonce counter
	// (§4.5 "Extra-nonce update"); the tip-change reset compares
	// Header.PrevBlock directly rather than a separately cached copy.
	ExtraNonce uint64
}

// Coinbase returns the template's coinbase transaction.
func (t *BlockTemplate) Coinbase() *Transaction {
	return t.Transactions[0]
}

// TotalFees sums the fees of every non-coinbase transaction in the
// template.
func (t *BlockTemplate) TotalFees() int64 {
	var total int64
	for i := 1; i < len(t.Fees); i++ {
		total += t.Fees[i]
	}
	return total
}

// TotalSigOps sums the sigop counts of every transaction in the template,
// including the coinbase.
func (t *BlockTemplate) TotalSigOps() int {
	total := 0
	for _, n := range t.SigOpCounts {
		total += n
	}
	return total
}

// SerializeSize returns the total serialized size of the block the
// template describes.
func (t *BlockTemplate) SerializeSize() int {
	size := 0
	for _, tx := range t.Transactions {
		size += tx.SerializeSize()
	}
	return size
}
