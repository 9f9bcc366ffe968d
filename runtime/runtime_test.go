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

package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algorand/scl-runtime/config"
	"github.com/algorand/scl-runtime/crypto"
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/data/transactions"
	"github.com/algorand/scl-runtime/serr"
)

const initialBalance = 10000000

func makeTestRuntime(t *testing.T, n int) (*Runtime, []AccountHandle) {
	t.Helper()
	handles := make([]AccountHandle, n)
	records := make([]basics.BalanceRecord, n)
	for i := 0; i < n; i++ {
		handles[i], records[i] = MakeAccount(crypto.Seed{byte(i + 1)}, initialBalance)
	}
	return New(records), handles
}

func requireCode(t *testing.T, err error, code serr.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, serr.CodeOf(err), "got %v", err)
}

func TestAlgoTransfer(t *testing.T) {
	r, accts := makeTestRuntime(t, 2)
	a, b := accts[0], accts[1]
	fee := config.Params().MinTxnFee

	require.NoError(t, r.Pay(a, b.Addr, 100000))

	balA, err := r.Balance(a.Addr)
	require.NoError(t, err)
	require.EqualValues(t, initialBalance-100000-fee, balA)
	balB, err := r.Balance(b.Addr)
	require.NoError(t, err)
	require.EqualValues(t, initialBalance+100000, balB)
}

func TestAlgoTransferWithLogicSig(t *testing.T) {
	r, accts := makeTestRuntime(t, 2)
	a, b := accts[0], accts[1]
	fee := config.Params().MinTxnFee

	// `int 1` accepts the delegated transfer
	lsig, err := r.MakeLogicSig("#pragma version 1\nint 1", nil)
	require.NoError(t, err)
	lsig.Sign(a.Secrets)

	stxn := transactions.SignedTxn{Txn: r.PaymentTxn(a.Addr, b.Addr, 100000), Lsig: lsig}
	_, err = r.ExecuteTx(stxn)
	require.NoError(t, err)

	balA, err := r.Balance(a.Addr)
	require.NoError(t, err)
	require.EqualValues(t, initialBalance-100000-fee, balA)
	balB, err := r.Balance(b.Addr)
	require.NoError(t, err)
	require.EqualValues(t, initialBalance+100000, balB)

	// `int 0` rejects, and nothing moves
	lsig, err = r.MakeLogicSig("#pragma version 1\nint 0", nil)
	require.NoError(t, err)
	lsig.Sign(a.Secrets)

	stxn = transactions.SignedTxn{Txn: r.PaymentTxn(a.Addr, b.Addr, 50000), Lsig: lsig}
	_, err = r.ExecuteTx(stxn)
	requireCode(t, err, serr.RejectedByLogic)

	balA2, err := r.Balance(a.Addr)
	require.NoError(t, err)
	require.Equal(t, balA, balA2)
	balB2, err := r.Balance(b.Addr)
	require.NoError(t, err)
	require.Equal(t, balB, balB2)
}

func TestAssetLifecycle(t *testing.T) {
	r, accts := makeTestRuntime(t, 2)
	a, b := accts[0], accts[1]

	const total = uint64(5912599999515)
	gold := basics.AssetParams{
		Total:     total,
		AssetName: "gold",
		UnitName:  "gd",
		Manager:   a.Addr,
		Reserve:   a.Addr,
		Freeze:    a.Addr,
		Clawback:  a.Addr,
	}
	aidx, err := r.CreateAsset(a, gold)
	require.NoError(t, err)
	require.NotZero(t, aidx)

	// the creator holds the entire supply
	holding, err := r.AssetHolding(aidx, a.Addr)
	require.NoError(t, err)
	require.Equal(t, total, holding.Amount)

	// transfers need an opt-in on the receiving side
	err = r.TransferAsset(a, aidx, b.Addr, 100)
	requireCode(t, err, serr.AsaNotOptin)

	require.NoError(t, r.OptInToASA(b, aidx))
	require.NoError(t, r.TransferAsset(a, aidx, b.Addr, 100))

	holding, err = r.AssetHolding(aidx, a.Addr)
	require.NoError(t, err)
	require.Equal(t, total-100, holding.Amount)
	holding, err = r.AssetHolding(aidx, b.Addr)
	require.NoError(t, err)
	require.EqualValues(t, 100, holding.Amount)

	// freeze the creator's own holding; transfers out stop
	require.NoError(t, r.FreezeAsset(a, aidx, a.Addr, true))
	err = r.TransferAsset(a, aidx, b.Addr, 100)
	requireCode(t, err, serr.AccountAssetFrozen)
	holding, err = r.AssetHolding(aidx, b.Addr)
	require.NoError(t, err)
	require.EqualValues(t, 100, holding.Amount)

	// clawback moves units regardless of the freeze
	require.NoError(t, r.RevokeAsset(a, aidx, b.Addr, a.Addr, 15))
	holding, err = r.AssetHolding(aidx, a.Addr)
	require.NoError(t, err)
	require.Equal(t, total-85, holding.Amount)
	holding, err = r.AssetHolding(aidx, b.Addr)
	require.NoError(t, err)
	require.EqualValues(t, 85, holding.Amount)
}

func TestAssetRoles(t *testing.T) {
	r, accts := makeTestRuntime(t, 2)
	a, b := accts[0], accts[1]

	params := basics.AssetParams{
		Total:    1000,
		Manager:  a.Addr,
		Reserve:  a.Addr,
		Freeze:   a.Addr,
		Clawback: a.Addr,
	}
	aidx, err := r.CreateAsset(a, params)
	require.NoError(t, err)

	// only the manager may re-configure
	fields := params
	fields.Reserve = b.Addr
	err = r.ModifyAsset(b, aidx, fields)
	requireCode(t, err, serr.ManagerError)

	require.NoError(t, r.ModifyAsset(a, aidx, fields))
	got, _, err := r.AssetParams(aidx)
	require.NoError(t, err)
	require.Equal(t, b.Addr, got.Reserve)

	// a non-zero role address can never be cleared
	fields.Freeze = basics.Address{}
	err = r.ModifyAsset(a, aidx, fields)
	requireCode(t, err, serr.ManagerError)

	// only the freeze role may freeze
	err = r.FreezeAsset(b, aidx, a.Addr, true)
	requireCode(t, err, serr.FreezeError)

	// only the clawback role may revoke
	require.NoError(t, r.OptInToASA(b, aidx))
	require.NoError(t, r.TransferAsset(a, aidx, b.Addr, 10))
	err = r.RevokeAsset(b, aidx, b.Addr, a.Addr, 10)
	requireCode(t, err, serr.ClawbackError)
}

func TestAssetDestroy(t *testing.T) {
	r, accts := makeTestRuntime(t, 2)
	a, b := accts[0], accts[1]

	aidx, err := r.CreateAsset(a, basics.AssetParams{Total: 1000, Manager: a.Addr, Clawback: a.Addr})
	require.NoError(t, err)

	require.NoError(t, r.OptInToASA(b, aidx))
	require.NoError(t, r.TransferAsset(a, aidx, b.Addr, 10))

	// the creator does not hold the full supply
	err = r.DestroyAsset(a, aidx)
	requireCode(t, err, serr.InsufficientAccountAssets)

	require.NoError(t, r.CloseOutASA(b, aidx, a.Addr))
	require.NoError(t, r.DestroyAsset(a, aidx))

	dataB, err := r.AccountData(b.Addr)
	require.NoError(t, err)
	require.NotContains(t, dataB.Assets, aidx)

	_, _, err = r.AssetParams(aidx)
	requireCode(t, err, serr.AssetNotFound)
	data, err := r.AccountData(a.Addr)
	require.NoError(t, err)
	require.Empty(t, data.AssetParams)
	require.NotContains(t, data.Assets, aidx)
}

const approvalV1 = `#pragma version 2
txn ApplicationID
int 0
==
bnz create
txn OnCompletion
int 1
==
bnz optin
int 1
return
create:
byte "g"
byte "gv"
app_global_put
int 1
return
optin:
int 0
byte "l"
byte "lv"
app_local_put
int 1
return`

const approvalV2 = `#pragma version 3
txn OnCompletion
int 0
==
bnz call
int 1
return
call:
byte "g"
app_global_get
byte "gv"
==
assert
int 0
byte "l"
app_local_get
byte "lv"
==
assert
byte "g2"
byte "gv2"
app_global_put
int 0
byte "l2"
byte "lv2"
app_local_put
int 1
return`

const clearAccept = "#pragma version 2\nint 1"

func TestAppLifecycle(t *testing.T) {
	r, accts := makeTestRuntime(t, 1)
	a := accts[0]

	spec := AppSpec{
		ApprovalSrc:  approvalV1,
		ClearSrc:     clearAccept,
		GlobalSchema: basics.StateSchema{NumUint: 1, NumByteSlice: 2},
		LocalSchema:  basics.StateSchema{NumUint: 1, NumByteSlice: 2},
	}
	aidx, err := r.AddApp(a, spec)
	require.NoError(t, err)
	require.NotZero(t, aidx)

	// creation ran the approval program in creation mode
	tv, ok, err := r.GlobalState(aidx, "g")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "gv", tv.Bytes)

	// opt-in writes local state
	require.NoError(t, r.OptInToApp(a, aidx, CallSpec{}))
	tv, ok, err = r.LocalState(aidx, a.Addr, "l")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "lv", tv.Bytes)

	// update swaps in new programs; the old program authorized the update
	require.NoError(t, r.UpdateApp(a, aidx, approvalV2, clearAccept, CallSpec{}))

	// a NoOp call runs the new program, which reads the old keys and
	// writes new ones
	require.NoError(t, r.CallApp(a, aidx, CallSpec{}))
	tv, ok, err = r.GlobalState(aidx, "g2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "gv2", tv.Bytes)
	tv, ok, err = r.LocalState(aidx, a.Addr, "l2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "lv2", tv.Bytes)

	// delete removes the app and its global state
	require.NoError(t, r.DeleteApp(a, aidx, CallSpec{}))
	_, _, err = r.AppParams(aidx)
	requireCode(t, err, serr.AppNotFound)
	data, err := r.AccountData(a.Addr)
	require.NoError(t, err)
	require.Empty(t, data.AppParams)
	// the local state of the deleted app survives until clear
	require.Contains(t, data.AppLocalStates, aidx)
}

func TestClearAppliesEvenOnLogicRejection(t *testing.T) {
	r, accts := makeTestRuntime(t, 1)
	a := accts[0]

	spec := AppSpec{
		ApprovalSrc:  approvalV1,
		ClearSrc:     "#pragma version 2\nint 0",
		GlobalSchema: basics.StateSchema{NumUint: 1, NumByteSlice: 2},
		LocalSchema:  basics.StateSchema{NumUint: 1, NumByteSlice: 2},
	}
	aidx, err := r.AddApp(a, spec)
	require.NoError(t, err)
	require.NoError(t, r.OptInToApp(a, aidx, CallSpec{}))

	_, ok, err := r.LocalState(aidx, a.Addr, "l")
	require.NoError(t, err)
	require.True(t, ok)

	// the clear program rejects, but the local state is removed and the
	// transaction is accepted
	require.NoError(t, r.ClearApp(a, aidx, CallSpec{}))
	data, err := r.AccountData(a.Addr)
	require.NoError(t, err)
	require.NotContains(t, data.AppLocalStates, aidx)
}

func TestCloseOutRunsApproval(t *testing.T) {
	r, accts := makeTestRuntime(t, 1)
	a := accts[0]

	// this approval program rejects close-out attempts
	approval := `#pragma version 2
txn OnCompletion
int 2
==
bnz closeout
int 1
return
closeout:
int 0
return`
	aidx, err := r.AddApp(a, AppSpec{
		ApprovalSrc: approval,
		ClearSrc:    clearAccept,
		LocalSchema: basics.StateSchema{NumUint: 1},
	})
	require.NoError(t, err)
	require.NoError(t, r.OptInToApp(a, aidx, CallSpec{}))

	err = r.CloseOutApp(a, aidx, CallSpec{})
	requireCode(t, err, serr.RejectedByLogic)
	data, err := r.AccountData(a.Addr)
	require.NoError(t, err)
	require.Contains(t, data.AppLocalStates, aidx)

	// clear always works
	require.NoError(t, r.ClearApp(a, aidx, CallSpec{}))
	data, err = r.AccountData(a.Addr)
	require.NoError(t, err)
	require.NotContains(t, data.AppLocalStates, aidx)
}

func TestGlobalSchemaEnforced(t *testing.T) {
	r, accts := makeTestRuntime(t, 1)
	a := accts[0]

	// the program writes one byte-slice key, but the schema declares none
	approval := `#pragma version 2
byte "g"
byte "gv"
app_global_put
int 1`
	_, err := r.AddApp(a, AppSpec{
		ApprovalSrc:  approval,
		ClearSrc:     clearAccept,
		GlobalSchema: basics.StateSchema{NumUint: 1},
	})
	requireCode(t, err, serr.InvalidTransactionParams)
}

func TestAtomicGroupRollback(t *testing.T) {
	r, accts := makeTestRuntime(t, 3)
	a, b, c := accts[0], accts[1], accts[2]

	before := func() map[basics.Address]uint64 {
		out := make(map[basics.Address]uint64)
		for _, h := range accts {
			bal, err := r.Balance(h.Addr)
			require.NoError(t, err)
			out[h.Addr] = bal
		}
		return out
	}()

	// The second payment overspends: the whole group must roll back.
	txns := []transactions.Transaction{
		r.PaymentTxn(a.Addr, b.Addr, 100000),
		r.PaymentTxn(a.Addr, c.Addr, initialBalance),
	}
	stxns, err := MakeGroup(txns, []AccountHandle{a, a})
	require.NoError(t, err)

	_, err = r.ExecuteTx(stxns...)
	requireCode(t, err, serr.InsufficientAccountBalance)

	for addr, bal := range before {
		got, err := r.Balance(addr)
		require.NoError(t, err)
		require.Equal(t, bal, got, "balance of %s changed by a rejected group", addr)
	}
}

func TestAtomicGroupCommit(t *testing.T) {
	r, accts := makeTestRuntime(t, 3)
	a, b, c := accts[0], accts[1], accts[2]
	fee := config.Params().MinTxnFee

	txns := []transactions.Transaction{
		r.PaymentTxn(a.Addr, b.Addr, 100000),
		r.PaymentTxn(b.Addr, c.Addr, 50000),
	}
	stxns, err := MakeGroup(txns, []AccountHandle{a, b})
	require.NoError(t, err)

	// both transactions see the same group id
	require.False(t, stxns[0].Txn.Group.IsZero())
	require.Equal(t, stxns[0].Txn.Group, stxns[1].Txn.Group)

	_, err = r.ExecuteTx(stxns...)
	require.NoError(t, err)

	balA, _ := r.Balance(a.Addr)
	balB, _ := r.Balance(b.Addr)
	balC, _ := r.Balance(c.Addr)
	require.EqualValues(t, initialBalance-100000-fee, balA)
	require.EqualValues(t, initialBalance+100000-50000-fee, balB)
	require.EqualValues(t, initialBalance+50000, balC)
}

func TestGroupSizeLimit(t *testing.T) {
	r, accts := makeTestRuntime(t, 2)
	a, b := accts[0], accts[1]

	proto := config.Params()
	var txns []transactions.Transaction
	var signers []AccountHandle
	for i := 0; i <= proto.MaxTxGroupSize; i++ {
		txns = append(txns, r.PaymentTxn(a.Addr, b.Addr, 1000))
		signers = append(signers, a)
	}
	stxns, err := MakeGroup(txns, signers)
	require.NoError(t, err)
	_, err = r.ExecuteTx(stxns...)
	requireCode(t, err, serr.InvalidTransactionParams)
}

func TestLogicSigDelegation(t *testing.T) {
	r, accts := makeTestRuntime(t, 3)
	a, b, c := accts[0], accts[1], accts[2]

	lsig, err := r.MakeLogicSig("#pragma version 1\ntxn Amount\nint 1000\n==", nil)
	require.NoError(t, err)
	lsig.Sign(a.Secrets)

	// A's delegation authorizes the transfer from A
	stxn := transactions.SignedTxn{Txn: r.PaymentTxn(a.Addr, b.Addr, 1000), Lsig: lsig}
	_, err = r.ExecuteTx(stxn)
	require.NoError(t, err)

	// a different submitter cannot reuse the signature for its own account
	stxn = transactions.SignedTxn{Txn: r.PaymentTxn(c.Addr, b.Addr, 1000), Lsig: lsig}
	_, err = r.ExecuteTx(stxn)
	requireCode(t, err, serr.LogicSignatureValidationFailed)
}

func TestLogicSigContractMode(t *testing.T) {
	r, accts := makeTestRuntime(t, 1)
	a := accts[0]

	lsig, err := r.MakeLogicSig("#pragma version 1\nint 1", nil)
	require.NoError(t, err)

	// fund the contract account
	escrow := lsig.Address()
	r.AddAccount(basics.BalanceRecord{
		Addr:        escrow,
		AccountData: basics.AccountData{MicroAlgos: basics.MicroAlgos{Raw: initialBalance}},
	})

	// the unsigned logic signature authorizes spends from the program's own
	// address
	stxn := transactions.SignedTxn{Txn: r.PaymentTxn(escrow, a.Addr, 100000), Lsig: lsig}
	_, err = r.ExecuteTx(stxn)
	require.NoError(t, err)

	bal, err := r.Balance(a.Addr)
	require.NoError(t, err)
	require.EqualValues(t, initialBalance+100000, bal)
}

func TestFeeDeduction(t *testing.T) {
	r, accts := makeTestRuntime(t, 2)
	a, b := accts[0], accts[1]

	// a fee below the minimum is rejected
	txn := r.PaymentTxn(a.Addr, b.Addr, 1000)
	txn.Fee = basics.MicroAlgos{Raw: 1}
	stxn := txn.Sign(a.Secrets)
	_, err := r.ExecuteTx(stxn)
	requireCode(t, err, serr.InvalidTransactionParams)
}

func TestMinBalanceEnforced(t *testing.T) {
	r, accts := makeTestRuntime(t, 2)
	a, b := accts[0], accts[1]
	proto := config.Params()

	// spending down to less than MinBalance rejects
	bal, err := r.Balance(a.Addr)
	require.NoError(t, err)
	err = r.Pay(a, b.Addr, bal-proto.MinTxnFee-proto.MinBalance+1)
	requireCode(t, err, serr.InsufficientAccountBalance)

	// exactly MinBalance left is fine
	require.NoError(t, r.Pay(a, b.Addr, bal-proto.MinTxnFee-proto.MinBalance))
	got, err := r.Balance(a.Addr)
	require.NoError(t, err)
	require.Equal(t, proto.MinBalance, got)
}

func TestCloseAccount(t *testing.T) {
	r, accts := makeTestRuntime(t, 2)
	a, b := accts[0], accts[1]

	txn := r.PaymentTxn(a.Addr, b.Addr, 0)
	txn.CloseRemainderTo = b.Addr
	stxn := txn.Sign(a.Secrets)
	_, err := r.ExecuteTx(stxn)
	require.NoError(t, err)

	_, err = r.Balance(a.Addr)
	requireCode(t, err, serr.AccountDoesNotExist)

	bal, err := r.Balance(b.Addr)
	require.NoError(t, err)
	require.EqualValues(t, 2*initialBalance-config.Params().MinTxnFee, bal)
}

func TestRejectionPreservesState(t *testing.T) {
	r, accts := makeTestRuntime(t, 2)
	a, b := accts[0], accts[1]

	aidx, err := r.CreateAsset(a, basics.AssetParams{Total: 500, Manager: a.Addr})
	require.NoError(t, err)
	require.NoError(t, r.OptInToASA(b, aidx))

	beforeA, err := r.AccountData(a.Addr)
	require.NoError(t, err)
	beforeB, err := r.AccountData(b.Addr)
	require.NoError(t, err)

	// overspending the asset rejects
	err = r.TransferAsset(a, aidx, b.Addr, 501)
	requireCode(t, err, serr.InsufficientAccountAssets)

	afterA, err := r.AccountData(a.Addr)
	require.NoError(t, err)
	afterB, err := r.AccountData(b.Addr)
	require.NoError(t, err)
	require.Equal(t, beforeA, afterA)
	require.Equal(t, beforeB, afterB)
}

func TestInjectedClock(t *testing.T) {
	r, accts := makeTestRuntime(t, 1)
	a := accts[0]

	r.SetRound(11)
	r.SetTimestamp(150000)
	require.EqualValues(t, 11, r.Round())
	require.EqualValues(t, 150000, r.Timestamp())

	approval := `#pragma version 3
global Round
int 11
==
assert
global LatestTimestamp
int 150000
==
assert
int 1`
	_, err := r.AddApp(a, AppSpec{ApprovalSrc: approval, ClearSrc: clearAccept})
	require.NoError(t, err)
}

func TestUnsignedTransactionRejected(t *testing.T) {
	r, accts := makeTestRuntime(t, 2)
	a, b := accts[0], accts[1]

	stxn := transactions.SignedTxn{Txn: r.PaymentTxn(a.Addr, b.Addr, 1000)}
	_, err := r.ExecuteTx(stxn)
	requireCode(t, err, serr.LogicSignatureNotFound)
}

func TestAmbiguousSigningRejected(t *testing.T) {
	r, accts := makeTestRuntime(t, 2)
	a, b := accts[0], accts[1]

	lsig, err := r.MakeLogicSig("#pragma version 1\nint 1", nil)
	require.NoError(t, err)
	lsig.Sign(a.Secrets)

	stxn := r.PaymentTxn(a.Addr, b.Addr, 1000).Sign(a.Secrets)
	stxn.Lsig = lsig
	_, err = r.ExecuteTx(stxn)
	requireCode(t, err, serr.InvalidTransactionParams)
}
