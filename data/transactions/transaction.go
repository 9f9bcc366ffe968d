// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of scl-runtime
//
// scl-runtime is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// scl-runtime is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with scl-runtime.  If not, see <https://www.gnu.org/licenses/>.

package transactions

import (
	"fmt"

	"github.com/algorand/scl-runtime/config"
	"github.com/algorand/scl-runtime/crypto"
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/protocol"
	"github.com/algorand/scl-runtime/serr"
)

// Txid is a hash used to uniquely identify individual transactions
type Txid crypto.Digest

// String converts txid to a pretty-printable string
func (txid Txid) String() string {
	return fmt.Sprintf("%v", crypto.Digest(txid))
}

// Header captures the fields common to every transaction type.
type Header struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Sender     basics.Address    `codec:"snd"`
	Fee        basics.MicroAlgos `codec:"fee"`
	FirstValid basics.Round      `codec:"fv"`
	LastValid  basics.Round      `codec:"lv"`
	Note       []byte            `codec:"note"`

	// Group specifies that this transaction is part of a transaction group
	// (and, if so, specifies the hash of the TxGroup).
	Group crypto.Digest `codec:"grp"`

	// Lease enforces mutual exclusion of transactions.
	Lease [32]byte `codec:"lx"`

	// RekeyTo, if nonzero, sets the sender's AuthAddr to the given address
	// If the RekeyTo address is the sender's actual address, the AuthAddr is
	// set to zero. This allows "re-keying" a long-lived account -- rotating
	// the signing key, changing membership of a multisig account, etc.
	RekeyTo basics.Address `codec:"rekey"`
}

// Transaction describes a transaction that can be submitted to the runtime.
type Transaction struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Type of transaction
	Type protocol.TxType `codec:"type"`

	// Common fields for all types of transactions
	Header

	// Fields for different types of transactions
	KeyregTxnFields
	PaymentTxnFields
	AssetConfigTxnFields
	AssetTransferTxnFields
	AssetFreezeTxnFields
	ApplicationCallTxnFields
}

// TxGroup describes a group of transactions that must be submitted together
// in a specific order.
type TxGroup struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// TxGroupHashes specifies a list of hashes of transactions that must
	// appear together, sequentially, in order for the group to be valid.
	// Each hash in the list is a hash of a transaction with the `Group`
	// field omitted.
	TxGroupHashes []crypto.Digest `codec:"txlist"`
}

// ToBeHashed implements the crypto.Hashable interface.
func (tg TxGroup) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.TxGroup, protocol.Encode(&tg)
}

// ToBeHashed implements the crypto.Hashable interface.
func (tx Transaction) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.Transaction, protocol.Encode(&tx)
}

// ID returns the Txid (i.e., hash) of the transaction.
func (tx Transaction) ID() Txid {
	return Txid(crypto.HashObj(tx))
}

// Sign signs a transaction using a given Account's secrets.
func (tx Transaction) Sign(secrets *crypto.SignatureSecrets) SignedTxn {
	sig := secrets.Sign(tx)

	s := SignedTxn{
		Txn: tx,
		Sig: sig,
	}
	// Set the AuthAddr if the signing key doesn't match the transaction sender
	if basics.Address(secrets.SignatureVerifier) != tx.Sender {
		s.AuthAddr = basics.Address(secrets.SignatureVerifier)
	}
	return s
}

// Src returns the address that posted the transaction.
// This is the account that pays the associated Fee.
func (tx Header) Src() basics.Address {
	return tx.Sender
}

// TxFee returns the fee associated with this transaction.
func (tx Header) TxFee() basics.MicroAlgos {
	return tx.Fee
}

// WellFormed checks that the transaction looks reasonable on its own (but not
// necessarily valid against the actual ledger). It does not check signatures.
func (tx Transaction) WellFormed(proto *config.ConsensusParams) error {
	switch tx.Type {
	case protocol.PaymentTx, protocol.KeyRegistrationTx:
		// no specialized checks

	case protocol.AssetConfigTx:
		if err := tx.AssetConfigTxnFields.wellFormed(proto); err != nil {
			return err
		}

	case protocol.AssetTransferTx:
		if err := tx.AssetTransferTxnFields.wellFormed(); err != nil {
			return err
		}

	case protocol.AssetFreezeTx:
		// no specialized checks

	case protocol.ApplicationCallTx:
		if err := tx.ApplicationCallTxnFields.wellFormed(proto); err != nil {
			return err
		}

	default:
		return serr.Newf(serr.InvalidTransactionParams, "unknown tx type %v", tx.Type)
	}

	if tx.LastValid < tx.FirstValid {
		return serr.Newf(serr.InvalidRound, "transaction invalid range (%d--%d)", tx.FirstValid, tx.LastValid)
	}
	if uint64(tx.LastValid-tx.FirstValid) > proto.MaxTxnLife {
		return serr.Newf(serr.InvalidRound, "transaction window size excessive (%d--%d)", tx.FirstValid, tx.LastValid)
	}
	if len(tx.Note) > proto.MaxTxnNoteBytes {
		return serr.Newf(serr.InvalidTransactionParams, "transaction note too big: %d > %d", len(tx.Note), proto.MaxTxnNoteBytes)
	}
	if tx.Sender.IsZero() {
		return serr.New(serr.InvalidTransactionParams, "transaction cannot have zero sender")
	}
	if tx.Fee.Raw < proto.MinTxnFee {
		return serr.Newf(serr.InvalidTransactionParams, "transaction had fee %d, which is less than the minimum %d", tx.Fee.Raw, proto.MinTxnFee)
	}
	return nil
}
