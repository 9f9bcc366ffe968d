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

package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/scl-runtime/config"
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/data/transactions"
	"github.com/algorand/scl-runtime/serr"
)

func testLedger(records ...basics.BalanceRecord) *Ledger {
	return MakeLedger(config.Params(), nil, records)
}

func TestLedgerAccounts(t *testing.T) {
	addr := basics.Address{0x01}
	l := testLedger(basics.BalanceRecord{
		Addr:        addr,
		AccountData: basics.AccountData{MicroAlgos: basics.MicroAlgos{Raw: 500}},
	})

	data, err := l.AccountData(addr)
	require.NoError(t, err)
	require.EqualValues(t, 500, data.MicroAlgos.Raw)

	_, err = l.AccountData(basics.Address{0x02})
	require.Equal(t, serr.AccountDoesNotExist, serr.CodeOf(err))

	// accessors return copies: mutating them must not touch the ledger
	data.Assets = map[basics.AssetIndex]basics.AssetHolding{9: {}}
	fresh, err := l.AccountData(addr)
	require.NoError(t, err)
	require.Empty(t, fresh.Assets)
}

func TestLedgerClock(t *testing.T) {
	l := testLedger()
	require.EqualValues(t, 0, l.Round())

	l.SetRound(9)
	l.SetTimestamp(12345)
	require.EqualValues(t, 9, l.Round())
	require.EqualValues(t, 12345, l.Timestamp())
}

func TestMissingCreatables(t *testing.T) {
	l := testLedger()
	_, _, err := l.AppParams(77)
	require.Equal(t, serr.AppNotFound, serr.CodeOf(err))
	_, _, err = l.AssetParams(77)
	require.Equal(t, serr.AssetNotFound, serr.CodeOf(err))
}

func TestAssignGroupID(t *testing.T) {
	payment := func(sender byte, amount uint64) transactions.SignedTxn {
		return transactions.SignedTxn{Txn: transactions.Transaction{
			Type: "pay",
			Header: transactions.Header{
				Sender: basics.Address{sender},
				Fee:    basics.MicroAlgos{Raw: 1000},
			},
			PaymentTxnFields: transactions.PaymentTxnFields{
				Receiver: basics.Address{0x09},
				Amount:   basics.MicroAlgos{Raw: amount},
			},
		}}
	}

	groupA := []transactions.SignedTxn{payment(1, 10), payment(2, 20)}
	AssignGroupID(groupA)
	require.False(t, groupA[0].Txn.Group.IsZero())
	require.Equal(t, groupA[0].Txn.Group, groupA[1].Txn.Group)

	// the id is deterministic
	groupB := []transactions.SignedTxn{payment(1, 10), payment(2, 20)}
	AssignGroupID(groupB)
	require.Equal(t, groupA[0].Txn.Group, groupB[0].Txn.Group)

	// and sensitive to the contents
	groupC := []transactions.SignedTxn{payment(1, 10), payment(2, 21)}
	AssignGroupID(groupC)
	require.NotEqual(t, groupA[0].Txn.Group, groupC[0].Txn.Group)

	// re-assigning over a previous assignment yields the same id, since the
	// group field is zeroed before hashing
	AssignGroupID(groupA)
	require.Equal(t, groupB[0].Txn.Group, groupA[0].Txn.Group)
}

func TestTransientStateIsolation(t *testing.T) {
	addr := basics.Address{0x01}
	l := testLedger(basics.BalanceRecord{
		Addr:        addr,
		AccountData: basics.AccountData{MicroAlgos: basics.MicroAlgos{Raw: 100000}},
	})

	cow := l.startEval()
	acct, err := cow.Get(addr)
	require.NoError(t, err)
	acct.MicroAlgos.Raw = 1
	require.NoError(t, cow.Put(addr, acct))

	// the canonical state is untouched until commit
	data, err := l.AccountData(addr)
	require.NoError(t, err)
	require.EqualValues(t, 100000, data.MicroAlgos.Raw)

	l.commit(cow)
	data, err = l.AccountData(addr)
	require.NoError(t, err)
	require.EqualValues(t, 1, data.MicroAlgos.Raw)
}
