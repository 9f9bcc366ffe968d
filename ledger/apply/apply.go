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

// Package apply holds the per-transaction-type state transitions of the
// execution engine. Each applier mutates a Balances, the engine's transient
// view of world state.
package apply

import (
	"errors"

	"github.com/algorand/scl-runtime/config"
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/data/transactions"
	"github.com/algorand/scl-runtime/serr"
)

// Balances allows to move money between accounts and to update balance
// records, or to access and modify individual balance records. After a call
// to Put (or Move), future calls to Get or Move will reflect the updated
// balance record(s).
type Balances interface {
	// Get looks up the account data for an address. A missing account is an
	// error, not an empty record: accounts are created externally.
	Get(addr basics.Address) (basics.AccountData, error)

	Put(basics.Address, basics.AccountData) error

	// CloseAccount is used by payment.go to delete an account, after
	// ensuring no balance, asset or app state remains.
	CloseAccount(basics.Address) error

	// Move MicroAlgos from one account to another, doing all necessary
	// overflow checking (convenience method).
	Move(src, dst basics.Address, amount basics.MicroAlgos) error

	// GetCreator gets the address of the account that created a given
	// creatable.
	GetCreator(cidx basics.CreatableIndex, ctype basics.CreatableType) (basics.Address, bool, error)

	// Creatable id counters, owned by the transient state.
	AllocateAppIndex() basics.AppIndex
	AllocateAssetIndex() basics.AssetIndex

	RegisterApp(aidx basics.AppIndex, creator basics.Address)
	UnregisterApp(aidx basics.AppIndex)
	RegisterAsset(aidx basics.AssetIndex, creator basics.Address)
	UnregisterAsset(aidx basics.AssetIndex)

	// StatefulEval executes an SCL program in stateful mode on the balances.
	StatefulEval(gi int, aidx basics.AppIndex, program []byte) (bool, error)

	ConsensusParams() *config.ConsensusParams
}

// Rekey updates tx.Sender's AuthAddr to tx.RekeyTo, if provided
func Rekey(balances Balances, tx *transactions.Transaction) error {
	if (tx.RekeyTo != basics.Address{}) {
		acct, err := balances.Get(tx.Sender)
		if err != nil {
			return err
		}
		// Special case: rekeying to the account's actual address just sets
		// acct.AuthAddr to 0. This saves 32 bytes in your balance record if
		// you want to go back to using your original key
		if tx.RekeyTo == tx.Sender {
			acct.AuthAddr = basics.Address{}
		} else {
			acct.AuthAddr = tx.RekeyTo
		}

		return balances.Put(tx.Sender, acct)
	}
	return nil
}

// Fee deducts the transaction fee from the sender. Dropping below the
// minimum balance here rejects the group before any payload executes.
func Fee(header transactions.Header, balances Balances) error {
	acct, err := balances.Get(header.Sender)
	if err != nil {
		return err
	}
	newBalance, overflowed := basics.OSubA(acct.MicroAlgos, header.Fee)
	if overflowed {
		return serr.New(serr.InsufficientAccountBalance, "cannot pay fee",
			"address", header.Sender.String(), "balance", acct.MicroAlgos.Raw, "fee", header.Fee.Raw)
	}
	acct.MicroAlgos = newBalance
	if err = balances.Put(header.Sender, acct); err != nil {
		return err
	}
	return checkMinBalance(balances, header.Sender)
}

// checkMinBalance verifies the account satisfies its minimum balance
// requirement.
func checkMinBalance(balances Balances, addr basics.Address) error {
	acct, err := balances.Get(addr)
	if err != nil {
		return err
	}
	min := acct.MinBalance(balances.ConsensusParams())
	if acct.MicroAlgos.LessThan(min) {
		return serr.New(serr.InsufficientAccountBalance, "balance below min",
			"address", addr.String(), "balance", acct.MicroAlgos.Raw, "min-balance", min.Raw)
	}
	return nil
}

// rejectedByLogic converts a logic rejection into the engine's verdict,
// keeping any other fatal evaluation error (typed failures, budget, panics)
// as-is.
func rejectedByLogic(err error) error {
	if serr.CodeOf(err) == serr.LogicRejection {
		wrapped := serr.New(serr.RejectedByLogic, "transaction rejected by logic")
		var inner *serr.Error
		if errors.As(err, &inner) {
			wrapped.Line = inner.Line
		}
		wrapped.Wrapped = err
		return wrapped
	}
	return err
}
