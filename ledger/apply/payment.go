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

package apply

import (
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/data/transactions"
	"github.com/algorand/scl-runtime/serr"
)

// Payment changes the balance of the sender and receiver, and closes the
// sender account out to a third account if requested.
func Payment(payment transactions.PaymentTxnFields, header transactions.Header, balances Balances) error {
	// move tx money
	if !payment.Amount.IsZero() || payment.Receiver != (basics.Address{}) {
		err := balances.Move(header.Sender, payment.Receiver, payment.Amount)
		if err != nil {
			return err
		}
	}

	if payment.CloseRemainderTo != (basics.Address{}) {
		rec, err := balances.Get(header.Sender)
		if err != nil {
			return err
		}

		closeAmount := rec.MicroAlgos
		err = balances.Move(header.Sender, payment.CloseRemainderTo, closeAmount)
		if err != nil {
			return err
		}

		// Confirm that we have no balance or state left
		return balances.CloseAccount(header.Sender)
	}

	// the sender must remain above its minimum balance
	return checkMinBalance(balances, header.Sender)
}

// Keyreg records participation keys on the sender's account. Participation
// itself is a node concern; the runtime only stores the fields for program
// introspection.
func Keyreg(keyreg transactions.KeyregTxnFields, header transactions.Header, balances Balances) error {
	record, err := balances.Get(header.Sender)
	if err != nil {
		return err
	}
	if keyreg.VoteLast != 0 && keyreg.VoteLast < keyreg.VoteFirst {
		return serr.New(serr.InvalidTransactionParams, "voting would end before it began",
			"vote-first", uint64(keyreg.VoteFirst), "vote-last", uint64(keyreg.VoteLast))
	}
	record.VotePK = keyreg.VotePK
	record.SelectionPK = keyreg.SelectionPK
	record.VoteFirstValid = keyreg.VoteFirst
	record.VoteLastValid = keyreg.VoteLast
	record.VoteKeyDilution = keyreg.VoteKeyDilution
	return balances.Put(header.Sender, record)
}
