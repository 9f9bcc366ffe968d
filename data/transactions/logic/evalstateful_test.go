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

package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algorand/scl-runtime/config"
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/data/transactions"
	"github.com/algorand/scl-runtime/serr"
)

var senderAddr = basics.Address{0x01}
var otherAddr = basics.Address{0x02}

const testAppID basics.AppIndex = 100
const testAssetID basics.AssetIndex = 200

func makeStatefulSetup() (*testLedger, *EvalParams) {
	balances := map[basics.Address]basics.AccountData{
		senderAddr: {MicroAlgos: basics.MicroAlgos{Raw: 1000000}},
		otherAddr:  {MicroAlgos: basics.MicroAlgos{Raw: 500000}},
	}
	tl := makeTestLedger(balances)
	tl.newApp(senderAddr, testAppID, basics.AppParams{
		StateSchemas: basics.StateSchemas{
			LocalStateSchema:  basics.StateSchema{NumUint: 2, NumByteSlice: 2},
			GlobalStateSchema: basics.StateSchema{NumUint: 2, NumByteSlice: 2},
		},
	})
	tl.optIn(senderAddr, testAppID, basics.StateSchema{NumUint: 2, NumByteSlice: 2})
	tl.newAsset(senderAddr, testAssetID, basics.AssetParams{
		Total:    1000,
		Decimals: 2,
		UnitName: "gd",
		Manager:  senderAddr,
		Freeze:   senderAddr,
		Clawback: senderAddr,
	})

	proto := config.Params()
	ep := &EvalParams{
		Proto:  &proto,
		Ledger: tl,
		TxnGroup: []transactions.SignedTxn{{
			Txn: transactions.Transaction{
				Type:   "appl",
				Header: transactions.Header{Sender: senderAddr},
				ApplicationCallTxnFields: transactions.ApplicationCallTxnFields{
					ApplicationID: testAppID,
					Accounts:      []basics.Address{otherAddr},
					ForeignAssets: []basics.AssetIndex{testAssetID},
				},
			},
		}},
	}
	return tl, ep
}

func evalStateful(t *testing.T, source string) (bool, error) {
	t.Helper()
	_, ep := makeStatefulSetup()
	prog, err := Assemble(source)
	require.NoError(t, err)
	return EvalContract(prog, 0, testAppID, ep)
}

func statefulAccepts(t *testing.T, source string) {
	t.Helper()
	pass, err := evalStateful(t, source)
	require.NoError(t, err)
	require.True(t, pass)
}

func statefulRejects(t *testing.T, source string, code serr.Code) {
	t.Helper()
	pass, err := evalStateful(t, source)
	require.False(t, pass)
	require.Error(t, err)
	assert.Equal(t, code, serr.CodeOf(err), "got %v", err)
}

func TestGlobalStateReadWrite(t *testing.T) {
	statefulAccepts(t, `#pragma version 2
byte "key"
int 7
app_global_put
byte "key"
app_global_get
int 7
==`)

	// a missing key reads as uint64 0
	statefulAccepts(t, `#pragma version 2
byte "missing"
app_global_get
int 0
==`)

	// the _ex form reports existence below the value
	statefulAccepts(t, `#pragma version 3
byte "key"
byte "value"
app_global_put
int 0
byte "key"
app_global_get_ex
assert
byte "value"
==`)
	statefulAccepts(t, `#pragma version 3
int 0
byte "missing"
app_global_get_ex
!
assert
int 0
==`)

	// delete works and reads return 0 afterwards
	statefulAccepts(t, `#pragma version 2
byte "key"
int 3
app_global_put
byte "key"
app_global_del
byte "key"
app_global_get
int 0
==`)
}

func TestLocalStateReadWrite(t *testing.T) {
	// index 0 refers to the sender
	statefulAccepts(t, `#pragma version 2
int 0
byte "lk"
int 9
app_local_put
int 0
byte "lk"
app_local_get
int 9
==`)

	statefulAccepts(t, `#pragma version 3
int 0
int 0
byte "missing"
app_local_get_ex
!
assert
int 0
==`)

	statefulAccepts(t, `#pragma version 2
int 0
byte "lk"
int 9
app_local_put
int 0
byte "lk"
app_local_del
int 0
byte "lk"
app_local_get
int 0
==`)

	// writing to an account that has not opted in fails
	statefulRejects(t, `#pragma version 2
int 1
byte "lk"
int 9
app_local_put
int 1`, serr.AppNotFound)
}

func TestAppOptedIn(t *testing.T) {
	statefulAccepts(t, `#pragma version 2
int 0
int 0
app_opted_in`)
	statefulAccepts(t, `#pragma version 2
int 1
int 0
app_opted_in
!`)
}

func TestBalanceAndMinBalance(t *testing.T) {
	statefulAccepts(t, `#pragma version 2
int 0
balance
int 1000000
==`)
	statefulAccepts(t, `#pragma version 2
int 1
balance
int 500000
==`)
	statefulAccepts(t, `#pragma version 3
int 0
min_balance
int 0
>`)
	// indexing beyond the accounts array fails
	statefulRejects(t, `#pragma version 2
int 2
balance
pop
int 1`, serr.IndexOutOfBound)
}

func TestAssetIntrospection(t *testing.T) {
	statefulAccepts(t, `#pragma version 3
int 0
int 200
asset_holding_get AssetBalance
assert
int 1000
==`)
	statefulAccepts(t, `#pragma version 3
int 0
int 200
asset_holding_get AssetFrozen
assert
int 0
==`)
	// an account with no holding reports did_exist = 0
	statefulAccepts(t, `#pragma version 3
int 1
int 200
asset_holding_get AssetBalance
!
assert
int 0
==`)

	statefulAccepts(t, `#pragma version 3
int 0
asset_params_get AssetTotal
assert
int 1000
==`)
	statefulAccepts(t, `#pragma version 3
int 0
asset_params_get AssetDecimals
assert
int 2
==`)
	statefulAccepts(t, `#pragma version 3
int 0
asset_params_get AssetUnitName
assert
byte "gd"
==`)
	statefulAccepts(t, `#pragma version 3
int 0
asset_params_get AssetManager
assert
txn Sender
==`)
}

func TestApplicationGlobals(t *testing.T) {
	statefulAccepts(t, `#pragma version 2
global Round
int 1
==`)
	statefulAccepts(t, `#pragma version 2
global LatestTimestamp
int 1
==`)
	statefulAccepts(t, `#pragma version 2
global CurrentApplicationID
int 100
==`)
	statefulAccepts(t, `#pragma version 3
global CreatorAddress
txn Sender
==`)
}

func TestStatefulSideEffectsVisible(t *testing.T) {
	tl, ep := makeStatefulSetup()
	prog, err := Assemble(`#pragma version 2
byte "g"
byte "gv"
app_global_put
int 0
byte "l"
byte "lv"
app_local_put
int 1`)
	require.NoError(t, err)
	pass, err := EvalContract(prog, 0, testAppID, ep)
	require.NoError(t, err)
	require.True(t, pass)

	tv, ok, err := tl.GetGlobal(testAppID, "g")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "gv", tv.Bytes)

	tv, ok, err = tl.GetLocal(senderAddr, testAppID, "l")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "lv", tv.Bytes)
}

func TestTxnArrayFields(t *testing.T) {
	statefulAccepts(t, `#pragma version 2
txna Accounts 0
txn Sender
==`)
	statefulAccepts(t, `#pragma version 2
txna Accounts 1
len
int 32
==`)
	statefulAccepts(t, `#pragma version 2
txn NumAccounts
int 1
==`)
	statefulAccepts(t, `#pragma version 3
txna Assets 0
int 200
==`)
	statefulRejects(t, `#pragma version 2
txna Accounts 2
pop
int 1`, serr.IndexOutOfBound)
	statefulRejects(t, `#pragma version 2
txna ApplicationArgs 0
pop
int 1`, serr.IndexOutOfBound)
}
