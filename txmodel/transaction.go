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

// OutPoint identifies a transaction output by the hash of the transaction
// that created it and its index within that transaction's output vector.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// IsNull reports whether the outpoint refers to nothing, the marker used by
// a coinbase's sole input.
func (o OutPoint) IsNull() bool {
	return o.Index == ^uint32(0) && o.Hash == (chainhash.Hash{})
}

// TxIn is a transparent transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// TxOut is a transparent transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// SpendDescription is a Sapling spend description. The zk-SNARK proof and
// signature bytes are treated as opaque blobs: the proving system itself is
// an external collaborator (see PURPOSE & SCOPE).
type SpendDescription struct {
	Cv           [32]byte
	Anchor       [32]byte
	Nullifier    [32]byte
	Rk           [32]byte
	Proof        []byte
	SpendAuthSig [64]byte
}

// OutputDescription is a Sapling output description.
type OutputDescription struct {
	Cv            [32]byte
	Cmu           [32]byte
	EphemeralKey  [32]byte
	EncCiphertext []byte
	OutCiphertext []byte
	Proof         []byte
}

// Zip212Flag records whether a Sapling output's note encryption uses the
// ZIP 212 domain-separated derivation (Canopy-era) or the pre-Canopy scheme.
type Zip212Flag uint8

const (
	BeforeZip212 Zip212Flag = iota
	AfterZip212
)

// SaplingBundle is the Sapling component of a transaction.
type SaplingBundle struct {
	ValueBalance int64
	Spends       []SpendDescription
	Outputs      []OutputDescription
	BindingSig   [64]byte
}

// OrchardAction is a single Orchard action (a combined spend+output).
type OrchardAction struct {
	Cv              [32]byte
	Nullifier       [32]byte
	Rk              [32]byte
	Cmx             [32]byte
	EphemeralKey    [32]byte
	EncCiphertext   []byte
	OutCiphertext   []byte
	SpendAuthSig    [64]byte
}

// OrchardBundle is the Orchard component of a transaction.
type OrchardBundle struct {
	ValueBalance int64
	Actions      []OrchardAction
	Flags        byte
	Proof        []byte
	BindingSig   [64]byte
}

// JoinSplit is a Sprout joinsplit description.
type JoinSplit struct {
	VpubOld int64
	VpubNew int64
	Anchor  [32]byte
	Nullifiers [2][32]byte
	Commitments [2][32]byte
	Proof   []byte
}

// Transaction is the core unit the Template Assembler packs and the
// Coinbase Builder produces. It is immutable once its hash has been taken
// by convention, though Go does not enforce this statically; callers must
// not mutate a Transaction reachable from a computed TxHash.
type Transaction struct {
	Version      int32
	TxIn         []TxIn
	TxOut        []TxOut
	Sapling      *SaplingBundle
	Orchard      *OrchardBundle
	JoinSplits   []JoinSplit
	LockTime     uint32
	ExpiryHeight uint32
}

// NewCoinbaseTx returns an empty transaction carrying the coinbase's sole,
// null-outpoint input. Height and extra-nonce encoding is filled in by the
// Coinbase Builder (§4.4 step 8).
func NewCoinbaseTx(version int32) *Transaction {
	return &Transaction{
		Version: version,
		TxIn: []TxIn{{
			PreviousOutPoint: OutPoint{Index: ^uint32(0)},
			Sequence:         0xffffffff,
		}},
	}
}

// IsCoinBase reports whether tx is a coinbase transaction: exactly one
// input with a null previous outpoint.
func (tx *Transaction) IsCoinBase() bool {
	return len(tx.TxIn) == 1 && tx.TxIn[0].PreviousOutPoint.IsNull()
}

// ValueBalanceSapling returns the transaction's Sapling value balance, or 0
// if it carries no Sapling bundle.
func (tx *Transaction) ValueBalanceSapling() int64 {
	if tx.Sapling == nil {
		return 0
	}
	return tx.Sapling.ValueBalance
}

// ValueBalanceOrchard returns the transaction's Orchard value balance, or 0
// if it carries no Orchard bundle.
func (tx *Transaction) ValueBalanceOrchard() int64 {
	if tx.Orchard == nil {
		return 0
	}
	return tx.Orchard.ValueBalance
}

// ValueBalanceSprout returns Σ vpub_old − Σ vpub_new across all joinsplits,
// the Sprout pool's per-transaction delta used by the turnstile check.
func (tx *Transaction) ValueBalanceSprout() int64 {
	var delta int64
	for _, js := range tx.JoinSplits {
		delta += js.VpubOld - js.VpubNew
	}
	return delta
}

// Serialize writes the transaction in a simple, self-describing binary
// encoding sufficient for hashing, size accounting, and round-trip tests.
// It is not bit-exact with the upstream Zcash wire format (out of scope;
// the real format is an external, bit-for-bit legacy encoding), but it is
// deterministic and total, which is what §8's round-trip property needs.
func (tx *Transaction) Serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, tx.Version); err != nil {
		return err
	}
	if err := writeVarInt(w, uint64(len(tx.TxIn))); err != nil {
		return err
	}
	for _, in := range tx.TxIn {
		if _, err := w.Write(in.PreviousOutPoint.Hash[:]); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, in.PreviousOutPoint.Index); err != nil {
			return err
		}
		if err := writeVarBytes(w, in.SignatureScript); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, in.Sequence); err != nil {
			return err
		}
	}
	if err := writeVarInt(w, uint64(len(tx.TxOut))); err != nil {
		return err
	}
	for _, out := range tx.TxOut {
		if err := binary.Write(w, binary.LittleEndian, out.Value); err != nil {
			return err
		}
		if err := writeVarBytes(w, out.PkScript); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, tx.LockTime); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, tx.ExpiryHeight); err != nil {
		return err
	}

	hasSapling := tx.Sapling != nil
	if err := binary.Write(w, binary.LittleEndian, hasSapling); err != nil {
		return err
	}
	if hasSapling {
		if err := binary.Write(w, binary.LittleEndian, tx.Sapling.ValueBalance); err != nil {
			return err
		}
		if err := writeVarInt(w, uint64(len(tx.Sapling.Outputs))); err != nil {
			return err
		}
		for _, o := range tx.Sapling.Outputs {
			if _, err := w.Write(o.Cmu[:]); err != nil {
				return err
			}
		}
	}

	hasOrchard := tx.Orchard != nil
	if err := binary.Write(w, binary.LittleEndian, hasOrchard); err != nil {
		return err
	}
	if hasOrchard {
		if err := binary.Write(w, binary.LittleEndian, tx.Orchard.ValueBalance); err != nil {
			return err
		}
		if err := writeVarInt(w, uint64(len(tx.Orchard.Actions))); err != nil {
			return err
		}
	}

	return nil
}

func writeVarInt(w io.Writer, n uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	_, err := w.Write(buf[:])
	return err
}

func writeVarBytes(w io.Writer, b []byte) error {
	if err := writeVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// SerializeSize returns the serialized byte length of tx.
func (tx *Transaction) SerializeSize() int {
	var buf bytes.Buffer
	_ = tx.Serialize(&buf)
	return buf.Len()
}

// TxHash returns the double-SHA256 identity hash of the transaction.
func (tx *Transaction) TxHash() chainhash.Hash {
	var buf bytes.Buffer
	_ = tx.Serialize(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// LegacySigOps returns the legacy (non-P2SH-aware) signature operation
// count of the transaction's outputs and inputs, a conservative count
// grounded on the classic `GetSigOpCount` heuristic: each bare
// OP_CHECKSIG-family opcode counts, OP_CHECKMULTISIG always counts as 20
// (a preceding small-int push is not read).
func (tx *Transaction) LegacySigOps() int {
	count := 0
	for _, out := range tx.TxOut {
		count += countSigOps(out.PkScript, false)
	}
	for _, in := range tx.TxIn {
		count += countSigOps(in.SignatureScript, false)
	}
	return count
}
