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
	"github.com/algorand/scl-runtime/crypto"
	"github.com/algorand/scl-runtime/data/basics"
)

// SignedTxn wraps a transaction and a signature. The validity of a
// transaction requires exactly one of Sig, Msig or Lsig to authorize it.
type SignedTxn struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Sig  crypto.Signature   `codec:"sig"`
	Msig crypto.MultisigSig `codec:"msig"`
	Lsig LogicSig           `codec:"lsig"`
	Txn  Transaction        `codec:"txn"`

	// AuthAddr, when set, names the key the signature must be checked
	// against instead of the sender (a rekeyed account, or a signer that is
	// not the sender).
	AuthAddr basics.Address `codec:"sgnr"`
}

// ID returns the Txid (i.e., hash) of the underlying transaction.
func (s SignedTxn) ID() Txid {
	return s.Txn.ID()
}

// Authorizer returns the address against which the signature/msig/lsig should be checked.
func (s SignedTxn) Authorizer() basics.Address {
	if s.AuthAddr.IsZero() {
		return s.Txn.Sender
	}
	return s.AuthAddr
}
