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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/scl-runtime/config"
	"github.com/algorand/scl-runtime/crypto"
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/serr"
)

func paymentTxn() Transaction {
	proto := config.Params()
	return Transaction{
		Type: "pay",
		Header: Header{
			Sender:     basics.Address{0x01},
			Fee:        basics.MicroAlgos{Raw: proto.MinTxnFee},
			FirstValid: 1,
			LastValid:  100,
		},
		PaymentTxnFields: PaymentTxnFields{
			Receiver: basics.Address{0x02},
			Amount:   basics.MicroAlgos{Raw: 100},
		},
	}
}

func TestTxIDDependsOnFields(t *testing.T) {
	a := paymentTxn()
	b := paymentTxn()
	require.Equal(t, a.ID(), b.ID())

	b.Amount.Raw++
	require.NotEqual(t, a.ID(), b.ID())

	c := paymentTxn()
	c.Group = crypto.Digest{0x01}
	require.NotEqual(t, a.ID(), c.ID())
}

func TestWellFormed(t *testing.T) {
	proto := config.Params()

	require.NoError(t, paymentTxn().WellFormed(&proto))

	txn := paymentTxn()
	txn.Sender = basics.Address{}
	require.Error(t, txn.WellFormed(&proto))

	txn = paymentTxn()
	txn.Fee.Raw = proto.MinTxnFee - 1
	require.Error(t, txn.WellFormed(&proto))

	txn = paymentTxn()
	txn.FirstValid = 10
	txn.LastValid = 5
	err := txn.WellFormed(&proto)
	require.Equal(t, serr.InvalidRound, serr.CodeOf(err))

	txn = paymentTxn()
	txn.LastValid = txn.FirstValid + basics.Round(proto.MaxTxnLife) + 1
	err = txn.WellFormed(&proto)
	require.Equal(t, serr.InvalidRound, serr.CodeOf(err))

	txn = paymentTxn()
	txn.Type = "frobnicate"
	require.Error(t, txn.WellFormed(&proto))
}

func TestSign(t *testing.T) {
	secrets := crypto.GenerateSignatureSecrets(crypto.Seed{0x01})
	sender := basics.Address(secrets.SignatureVerifier)

	txn := paymentTxn()
	txn.Sender = sender
	stxn := txn.Sign(secrets)

	require.True(t, crypto.SignatureVerifier(sender).Verify(txn, stxn.Sig))
	require.True(t, stxn.AuthAddr.IsZero())
	require.Equal(t, sender, stxn.Authorizer())

	// signing for another sender records the signer
	other := paymentTxn()
	stxn = other.Sign(secrets)
	require.Equal(t, sender, stxn.AuthAddr)
	require.Equal(t, sender, stxn.Authorizer())
}

func TestLogicSigModes(t *testing.T) {
	secrets := crypto.GenerateSignatureSecrets(crypto.Seed{0x02})
	delegator := basics.Address(secrets.SignatureVerifier)

	lsig := LogicSig{Logic: []byte("#pragma version 1\nint 1")}

	// contract mode: only the program's own address verifies
	require.NoError(t, lsig.Verify(lsig.Address()))
	err := lsig.Verify(delegator)
	require.Equal(t, serr.LogicSignatureValidationFailed, serr.CodeOf(err))

	// delegated mode: the signature binds the delegator
	lsig.Sign(secrets)
	require.NoError(t, lsig.Verify(delegator))
	err = lsig.Verify(basics.Address{0x09})
	require.Equal(t, serr.LogicSignatureValidationFailed, serr.CodeOf(err))

	// a blank logic signature names no program
	blank := LogicSig{}
	err = blank.Verify(delegator)
	require.Equal(t, serr.LogicSignatureNotFound, serr.CodeOf(err))
}

func TestApplicationWellFormed(t *testing.T) {
	proto := config.Params()

	txn := paymentTxn()
	txn.Type = "appl"
	txn.PaymentTxnFields = PaymentTxnFields{}

	// creation requires programs
	require.Error(t, txn.WellFormed(&proto))

	txn.ApprovalProgram = []byte("#pragma version 2\nint 1")
	txn.ClearStateProgram = []byte("#pragma version 2\nint 1")
	require.NoError(t, txn.WellFormed(&proto))

	// schemas are immutable after creation
	call := txn
	call.ApplicationID = 5
	call.ApprovalProgram = nil
	call.ClearStateProgram = nil
	call.GlobalStateSchema = basics.StateSchema{NumUint: 1}
	require.Error(t, call.WellFormed(&proto))

	// too many app args
	tooMany := txn
	tooMany.ApplicationArgs = make([][]byte, proto.MaxAppArgs+1)
	require.Error(t, tooMany.WellFormed(&proto))
}

func TestAddressByIndex(t *testing.T) {
	sender := basics.Address{0x01}
	ac := ApplicationCallTxnFields{
		Accounts: []basics.Address{{0x02}, {0x03}},
	}

	addr, err := ac.AddressByIndex(0, sender)
	require.NoError(t, err)
	require.Equal(t, sender, addr)

	addr, err = ac.AddressByIndex(2, sender)
	require.NoError(t, err)
	require.Equal(t, basics.Address{0x03}, addr)

	_, err = ac.AddressByIndex(3, sender)
	require.Equal(t, serr.IndexOutOfBound, serr.CodeOf(err))

	idx, err := ac.IndexByAddress(basics.Address{0x02}, sender)
	require.NoError(t, err)
	require.EqualValues(t, 1, idx)

	_, err = ac.IndexByAddress(basics.Address{0x09}, sender)
	require.Equal(t, serr.IndexOutOfBound, serr.CodeOf(err))
}
