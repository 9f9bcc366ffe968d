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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/data/transactions"
	"github.com/algorand/scl-runtime/serr"
)

var src = basics.Address{0x01}
var dst = basics.Address{0x02}

func header(sender basics.Address, fee uint64) transactions.Header {
	return transactions.Header{Sender: sender, Fee: basics.MicroAlgos{Raw: fee}}
}

func TestFee(t *testing.T) {
	b := makeMockBalances()
	b.put(src, 1000000)

	require.NoError(t, Fee(header(src, 1000), b))
	acct, _ := b.Get(src)
	require.EqualValues(t, 999000, acct.MicroAlgos.Raw)

	// dropping below the minimum balance rejects
	err := Fee(header(src, 999000-b.proto.MinBalance+1), b)
	assert.Equal(t, serr.InsufficientAccountBalance, serr.CodeOf(err))

	// an unpayable fee rejects
	err = Fee(header(src, 10000000), b)
	assert.Equal(t, serr.InsufficientAccountBalance, serr.CodeOf(err))
}

func TestPayment(t *testing.T) {
	b := makeMockBalances()
	b.put(src, 1000000)
	b.put(dst, 1000000)

	pay := transactions.PaymentTxnFields{
		Receiver: dst,
		Amount:   basics.MicroAlgos{Raw: 2500},
	}
	require.NoError(t, Payment(pay, header(src, 1000), b))
	from, _ := b.Get(src)
	to, _ := b.Get(dst)
	require.EqualValues(t, 997500, from.MicroAlgos.Raw)
	require.EqualValues(t, 1002500, to.MicroAlgos.Raw)

	// paying a missing account fails
	pay.Receiver = basics.Address{0x09}
	err := Payment(pay, header(src, 1000), b)
	assert.Equal(t, serr.AccountDoesNotExist, serr.CodeOf(err))

	// overspending fails
	pay.Receiver = dst
	pay.Amount.Raw = 10000000
	err = Payment(pay, header(src, 1000), b)
	assert.Equal(t, serr.InsufficientAccountBalance, serr.CodeOf(err))
}

func TestPaymentClose(t *testing.T) {
	b := makeMockBalances()
	b.put(src, 1000000)
	b.put(dst, 1000000)

	pay := transactions.PaymentTxnFields{
		Receiver:         dst,
		Amount:           basics.MicroAlgos{Raw: 1000},
		CloseRemainderTo: dst,
	}
	require.NoError(t, Payment(pay, header(src, 1000), b))

	_, err := b.Get(src)
	assert.Equal(t, serr.AccountDoesNotExist, serr.CodeOf(err))
	to, _ := b.Get(dst)
	require.EqualValues(t, 2000000, to.MicroAlgos.Raw)
}

func TestRekey(t *testing.T) {
	b := makeMockBalances()
	b.put(src, 1000000)

	auth := basics.Address{0x07}
	txn := transactions.Transaction{Header: header(src, 1000)}
	txn.RekeyTo = auth
	require.NoError(t, Rekey(b, &txn))
	acct, _ := b.Get(src)
	require.Equal(t, auth, acct.AuthAddr)

	// rekeying back to self clears AuthAddr
	txn.RekeyTo = src
	require.NoError(t, Rekey(b, &txn))
	acct, _ = b.Get(src)
	require.True(t, acct.AuthAddr.IsZero())
}

func TestAssetConfigCreate(t *testing.T) {
	b := makeMockBalances()
	b.put(src, 1000000)

	cc := transactions.AssetConfigTxnFields{
		AssetParams: basics.AssetParams{Total: 100, Manager: src},
	}
	aidx, err := AssetConfig(cc, header(src, 1000), b)
	require.NoError(t, err)
	require.NotZero(t, aidx)

	acct, _ := b.Get(src)
	require.EqualValues(t, 100, acct.Assets[aidx].Amount)
	require.Equal(t, src, b.assetCreators[aidx])
}

func TestAssetConfigRoles(t *testing.T) {
	b := makeMockBalances()
	b.put(src, 1000000)
	b.put(dst, 1000000)

	cc := transactions.AssetConfigTxnFields{
		AssetParams: basics.AssetParams{Total: 100, Manager: src, Freeze: src},
	}
	aidx, err := AssetConfig(cc, header(src, 1000), b)
	require.NoError(t, err)

	// only the manager reconfigures
	mod := transactions.AssetConfigTxnFields{
		ConfigAsset: aidx,
		AssetParams: basics.AssetParams{Manager: dst, Freeze: src},
	}
	_, err = AssetConfig(mod, header(dst, 1000), b)
	assert.Equal(t, serr.ManagerError, serr.CodeOf(err))

	_, err = AssetConfig(mod, header(src, 1000), b)
	require.NoError(t, err)

	// the freeze role is locked: it cannot be zeroed
	mod = transactions.AssetConfigTxnFields{
		ConfigAsset: aidx,
		AssetParams: basics.AssetParams{Manager: dst},
	}
	_, err = AssetConfig(mod, header(dst, 1000), b)
	assert.Equal(t, serr.ManagerError, serr.CodeOf(err))
}

func TestAssetTransferOptInAndFreeze(t *testing.T) {
	b := makeMockBalances()
	b.put(src, 1000000)
	b.put(dst, 1000000)

	cc := transactions.AssetConfigTxnFields{
		AssetParams: basics.AssetParams{Total: 100, Manager: src, Freeze: src, Clawback: src},
	}
	aidx, err := AssetConfig(cc, header(src, 1000), b)
	require.NoError(t, err)

	// transfers require the receiver to be opted in
	xfer := transactions.AssetTransferTxnFields{
		XferAsset:     aidx,
		AssetAmount:   10,
		AssetReceiver: dst,
	}
	err = AssetTransfer(xfer, header(src, 1000), b)
	assert.Equal(t, serr.AsaNotOptin, serr.CodeOf(err))

	optin := transactions.AssetTransferTxnFields{
		XferAsset:     aidx,
		AssetReceiver: dst,
	}
	require.NoError(t, AssetTransfer(optin, header(dst, 1000), b))
	require.NoError(t, AssetTransfer(xfer, header(src, 1000), b))

	acct, _ := b.Get(dst)
	require.EqualValues(t, 10, acct.Assets[aidx].Amount)

	// freeze the source and transfers stop
	frz := transactions.AssetFreezeTxnFields{
		FreezeAccount: src,
		FreezeAsset:   aidx,
		AssetFrozen:   true,
	}
	require.NoError(t, AssetFreeze(frz, header(src, 1000), b))
	err = AssetTransfer(xfer, header(src, 1000), b)
	assert.Equal(t, serr.AccountAssetFrozen, serr.CodeOf(err))

	// but the clawback path bypasses the freeze
	revoke := transactions.AssetTransferTxnFields{
		XferAsset:     aidx,
		AssetAmount:   4,
		AssetSender:   dst,
		AssetReceiver: src,
	}
	require.NoError(t, AssetTransfer(revoke, header(src, 1000), b))
	acct, _ = b.Get(dst)
	require.EqualValues(t, 6, acct.Assets[aidx].Amount)

	// clawback from anyone else is rejected
	err = AssetTransfer(revoke, header(dst, 1000), b)
	assert.Equal(t, serr.ClawbackError, serr.CodeOf(err))
}

func TestApplicationCreateOptInClear(t *testing.T) {
	b := makeMockBalances()
	b.put(src, 1000000)

	ac := transactions.ApplicationCallTxnFields{
		ApprovalProgram:   []byte("approval"),
		ClearStateProgram: []byte("clear"),
		LocalStateSchema:  basics.StateSchema{NumUint: 1},
		GlobalStateSchema: basics.StateSchema{NumUint: 1},
	}
	aidx, err := ApplicationCall(ac, header(src, 1000), b, 0)
	require.NoError(t, err)
	require.NotZero(t, aidx)

	acct, _ := b.Get(src)
	require.Contains(t, acct.AppParams, aidx)
	require.Equal(t, basics.StateSchema{NumUint: 1}, acct.TotalAppSchema)

	// opt in allocates local state
	optin := transactions.ApplicationCallTxnFields{
		ApplicationID: aidx,
		OnCompletion:  transactions.OptInOC,
	}
	_, err = ApplicationCall(optin, header(src, 1000), b, 0)
	require.NoError(t, err)
	acct, _ = b.Get(src)
	require.Contains(t, acct.AppLocalStates, aidx)

	// a rejecting clear program still clears the local state
	b.evalPass = false
	b.evalErr = serr.New(serr.LogicRejection, "rejected by logic")
	clear := transactions.ApplicationCallTxnFields{
		ApplicationID: aidx,
		OnCompletion:  transactions.ClearStateOC,
	}
	_, err = ApplicationCall(clear, header(src, 1000), b, 0)
	require.NoError(t, err)
	acct, _ = b.Get(src)
	require.NotContains(t, acct.AppLocalStates, aidx)
}

func TestApplicationRejection(t *testing.T) {
	b := makeMockBalances()
	b.put(src, 1000000)

	ac := transactions.ApplicationCallTxnFields{
		ApprovalProgram:   []byte("approval"),
		ClearStateProgram: []byte("clear"),
	}
	b.evalPass = false
	b.evalErr = serr.New(serr.LogicRejection, "rejected by logic")
	_, err := ApplicationCall(ac, header(src, 1000), b, 0)
	assert.Equal(t, serr.RejectedByLogic, serr.CodeOf(err))
}

func TestApplicationDelete(t *testing.T) {
	b := makeMockBalances()
	b.put(src, 1000000)

	ac := transactions.ApplicationCallTxnFields{
		ApprovalProgram:   []byte("approval"),
		ClearStateProgram: []byte("clear"),
		GlobalStateSchema: basics.StateSchema{NumByteSlice: 1},
	}
	aidx, err := ApplicationCall(ac, header(src, 1000), b, 0)
	require.NoError(t, err)

	del := transactions.ApplicationCallTxnFields{
		ApplicationID: aidx,
		OnCompletion:  transactions.DeleteApplicationOC,
	}
	_, err = ApplicationCall(del, header(src, 1000), b, 0)
	require.NoError(t, err)

	acct, _ := b.Get(src)
	require.NotContains(t, acct.AppParams, aidx)
	require.Equal(t, basics.StateSchema{}, acct.TotalAppSchema)
	require.NotContains(t, b.appCreators, aidx)
}
