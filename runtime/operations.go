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
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/data/transactions"
	"github.com/algorand/scl-runtime/data/transactions/logic"
	"github.com/algorand/scl-runtime/serr"
)

// CreateAsset allocates a standard asset. The creator holds the entire
// supply and is opted in automatically.
func (r *Runtime) CreateAsset(creator AccountHandle, params basics.AssetParams) (basics.AssetIndex, error) {
	txn := transactions.Transaction{
		Type:   "acfg",
		Header: r.defaultHeader(creator.Addr),
		AssetConfigTxnFields: transactions.AssetConfigTxnFields{
			AssetParams: params,
		},
	}
	results, err := r.signAndExecute(creator, txn)
	if err != nil {
		return 0, err
	}
	return results[0].AssetID, nil
}

// OptInToASA allocates an asset slot in the account: a zero-amount
// self-transfer of the asset.
func (r *Runtime) OptInToASA(h AccountHandle, aidx basics.AssetIndex) error {
	txn := transactions.Transaction{
		Type:   "axfer",
		Header: r.defaultHeader(h.Addr),
		AssetTransferTxnFields: transactions.AssetTransferTxnFields{
			XferAsset:     aidx,
			AssetReceiver: h.Addr,
		},
	}
	_, err := r.signAndExecute(h, txn)
	return err
}

// TransferAsset moves asset units to a receiver.
func (r *Runtime) TransferAsset(h AccountHandle, aidx basics.AssetIndex, receiver basics.Address, amount uint64) error {
	txn := transactions.Transaction{
		Type:   "axfer",
		Header: r.defaultHeader(h.Addr),
		AssetTransferTxnFields: transactions.AssetTransferTxnFields{
			XferAsset:     aidx,
			AssetAmount:   amount,
			AssetReceiver: receiver,
		},
	}
	_, err := r.signAndExecute(h, txn)
	return err
}

// CloseOutASA removes the asset slot from the account, transferring any
// remaining holdings to closeTo.
func (r *Runtime) CloseOutASA(h AccountHandle, aidx basics.AssetIndex, closeTo basics.Address) error {
	txn := transactions.Transaction{
		Type:   "axfer",
		Header: r.defaultHeader(h.Addr),
		AssetTransferTxnFields: transactions.AssetTransferTxnFields{
			XferAsset:     aidx,
			AssetReceiver: closeTo,
			AssetCloseTo:  closeTo,
		},
	}
	_, err := r.signAndExecute(h, txn)
	return err
}

// RevokeAsset claws back asset units from a target account. The sender must
// hold the asset's clawback role.
func (r *Runtime) RevokeAsset(h AccountHandle, aidx basics.AssetIndex, target, receiver basics.Address, amount uint64) error {
	txn := transactions.Transaction{
		Type:   "axfer",
		Header: r.defaultHeader(h.Addr),
		AssetTransferTxnFields: transactions.AssetTransferTxnFields{
			XferAsset:     aidx,
			AssetAmount:   amount,
			AssetSender:   target,
			AssetReceiver: receiver,
		},
	}
	_, err := r.signAndExecute(h, txn)
	return err
}

// ModifyAsset rewrites the four role addresses of an asset. The sender must
// be the current manager, and a non-zero role can never be cleared.
func (r *Runtime) ModifyAsset(h AccountHandle, aidx basics.AssetIndex, fields basics.AssetParams) error {
	txn := transactions.Transaction{
		Type:   "acfg",
		Header: r.defaultHeader(h.Addr),
		AssetConfigTxnFields: transactions.AssetConfigTxnFields{
			ConfigAsset: aidx,
			AssetParams: fields,
		},
	}
	_, err := r.signAndExecute(h, txn)
	return err
}

// DestroyAsset removes an asset whose entire supply is back in the creator
// account. The sender must be the manager.
func (r *Runtime) DestroyAsset(h AccountHandle, aidx basics.AssetIndex) error {
	txn := transactions.Transaction{
		Type:   "acfg",
		Header: r.defaultHeader(h.Addr),
		AssetConfigTxnFields: transactions.AssetConfigTxnFields{
			ConfigAsset: aidx,
		},
	}
	_, err := r.signAndExecute(h, txn)
	return err
}

// FreezeAsset sets the frozen flag of a target account's holding. The
// sender must hold the asset's freeze role.
func (r *Runtime) FreezeAsset(h AccountHandle, aidx basics.AssetIndex, target basics.Address, frozen bool) error {
	txn := transactions.Transaction{
		Type:   "afrz",
		Header: r.defaultHeader(h.Addr),
		AssetFreezeTxnFields: transactions.AssetFreezeTxnFields{
			FreezeAccount: target,
			FreezeAsset:   aidx,
			AssetFrozen:   frozen,
		},
	}
	_, err := r.signAndExecute(h, txn)
	return err
}

// CallSpec carries the optional arrays of an application call.
type CallSpec struct {
	AppArgs       [][]byte
	Accounts      []basics.Address
	ForeignApps   []basics.AppIndex
	ForeignAssets []basics.AssetIndex
}

// AppSpec describes an application deployment.
type AppSpec struct {
	ApprovalSrc string
	ClearSrc    string

	GlobalSchema basics.StateSchema
	LocalSchema  basics.StateSchema

	CallSpec
}

func (r *Runtime) appCallTxn(sender basics.Address, aidx basics.AppIndex, oc transactions.OnCompletion, call CallSpec) transactions.Transaction {
	return transactions.Transaction{
		Type:   "appl",
		Header: r.defaultHeader(sender),
		ApplicationCallTxnFields: transactions.ApplicationCallTxnFields{
			ApplicationID:   aidx,
			OnCompletion:    oc,
			ApplicationArgs: call.AppArgs,
			Accounts:        call.Accounts,
			ForeignApps:     call.ForeignApps,
			ForeignAssets:   call.ForeignAssets,
		},
	}
}

func assembleCheck(src string) error {
	_, err := logic.Assemble(src)
	return err
}

// AddApp deploys an application: it assembles both programs to validate
// them, then submits the creation transaction, running the approval program
// in creation mode.
func (r *Runtime) AddApp(creator AccountHandle, spec AppSpec) (basics.AppIndex, error) {
	if spec.ApprovalSrc == "" || spec.ClearSrc == "" {
		return 0, serr.New(serr.InvalidTransactionParams, "app deployment requires approval and clear programs")
	}
	if err := assembleCheck(spec.ApprovalSrc); err != nil {
		return 0, err
	}
	if err := assembleCheck(spec.ClearSrc); err != nil {
		return 0, err
	}

	txn := r.appCallTxn(creator.Addr, 0, transactions.NoOpOC, spec.CallSpec)
	txn.ApprovalProgram = []byte(spec.ApprovalSrc)
	txn.ClearStateProgram = []byte(spec.ClearSrc)
	txn.GlobalStateSchema = spec.GlobalSchema
	txn.LocalStateSchema = spec.LocalSchema

	results, err := r.signAndExecute(creator, txn)
	if err != nil {
		return 0, err
	}
	return results[0].ApplicationID, nil
}

// OptInToApp allocates local state for the app in the sender's account and
// runs the approval program with OnCompletion OptIn.
func (r *Runtime) OptInToApp(h AccountHandle, aidx basics.AppIndex, call CallSpec) error {
	_, err := r.signAndExecute(h, r.appCallTxn(h.Addr, aidx, transactions.OptInOC, call))
	return err
}

// CallApp runs the approval program with OnCompletion NoOp.
func (r *Runtime) CallApp(h AccountHandle, aidx basics.AppIndex, call CallSpec) error {
	_, err := r.signAndExecute(h, r.appCallTxn(h.Addr, aidx, transactions.NoOpOC, call))
	return err
}

// CloseOutApp runs the approval program and, on success, removes the
// sender's local state for the app.
func (r *Runtime) CloseOutApp(h AccountHandle, aidx basics.AppIndex, call CallSpec) error {
	_, err := r.signAndExecute(h, r.appCallTxn(h.Addr, aidx, transactions.CloseOutOC, call))
	return err
}

// ClearApp runs the clear program. The sender's local state is removed even
// when the program rejects with a logic rejection; any other fatal error
// still rejects.
func (r *Runtime) ClearApp(h AccountHandle, aidx basics.AppIndex, call CallSpec) error {
	_, err := r.signAndExecute(h, r.appCallTxn(h.Addr, aidx, transactions.ClearStateOC, call))
	return err
}

// UpdateApp swaps in new approval and clear programs after the current
// approval program approves the update.
func (r *Runtime) UpdateApp(h AccountHandle, aidx basics.AppIndex, approvalSrc, clearSrc string, call CallSpec) error {
	if err := assembleCheck(approvalSrc); err != nil {
		return err
	}
	if err := assembleCheck(clearSrc); err != nil {
		return err
	}
	txn := r.appCallTxn(h.Addr, aidx, transactions.UpdateApplicationOC, call)
	txn.ApprovalProgram = []byte(approvalSrc)
	txn.ClearStateProgram = []byte(clearSrc)
	_, err := r.signAndExecute(h, txn)
	return err
}

// DeleteApp removes the application and its global state after the approval
// program approves the deletion.
func (r *Runtime) DeleteApp(h AccountHandle, aidx basics.AppIndex, call CallSpec) error {
	_, err := r.signAndExecute(h, r.appCallTxn(h.Addr, aidx, transactions.DeleteApplicationOC, call))
	return err
}
