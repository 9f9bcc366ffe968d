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
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/data/transactions"
	"github.com/algorand/scl-runtime/serr"
)

func (cx *EvalContext) fetchField(field TxnField, expectArray bool) (txnFieldSpec, error) {
	fs, ok := txnFieldSpecByField[field]
	if !ok || fs.version > cx.version {
		return fs, cx.evalErr(serr.UnknownTxField, "invalid txn field %s", field)
	}
	if expectArray != fs.array {
		if expectArray {
			return fs, cx.evalErr(serr.UnknownTxField, "unsupported array field %s", field)
		}
		return fs, cx.evalErr(serr.UnknownTxField, "invalid txn field %s", field)
	}
	return fs, nil
}

func (cx *EvalContext) txnFieldToStack(stxn *transactions.SignedTxn, fs txnFieldSpec, arrayFieldIdx uint64, groupIndex int) (sv stackValue, err error) {
	txn := &stxn.Txn
	switch fs.field {
	case Sender:
		sv.Bytes = txn.Sender[:]
	case Fee:
		sv.Uint = txn.Fee.Raw
	case FirstValid:
		sv.Uint = uint64(txn.FirstValid)
	case FirstValidTime:
		// Reserved. A program that reads it must not be accepted.
		return sv, cx.evalErr(serr.InvalidOpArg, "FirstValidTime is not available")
	case LastValid:
		sv.Uint = uint64(txn.LastValid)
	case Note:
		sv.Bytes = nilToEmpty(txn.Note)
	case Lease:
		sv.Bytes = txn.Lease[:]
	case Receiver:
		sv.Bytes = txn.Receiver[:]
	case Amount:
		sv.Uint = txn.Amount.Raw
	case CloseRemainderTo:
		sv.Bytes = txn.CloseRemainderTo[:]
	case VotePK:
		sv.Bytes = txn.VotePK[:]
	case SelectionPK:
		sv.Bytes = txn.SelectionPK[:]
	case VoteFirst:
		sv.Uint = uint64(txn.VoteFirst)
	case VoteLast:
		sv.Uint = uint64(txn.VoteLast)
	case VoteKeyDilution:
		sv.Uint = txn.VoteKeyDilution
	case Type:
		sv.Bytes = []byte(txn.Type)
	case TypeEnum:
		sv.Uint = txnTypeIndexes[string(txn.Type)]
	case XferAsset:
		sv.Uint = uint64(txn.XferAsset)
	case AssetAmount:
		sv.Uint = txn.AssetAmount
	case AssetSender:
		sv.Bytes = txn.AssetSender[:]
	case AssetReceiver:
		sv.Bytes = txn.AssetReceiver[:]
	case AssetCloseTo:
		sv.Bytes = txn.AssetCloseTo[:]
	case GroupIndex:
		sv.Uint = uint64(groupIndex)
	case TxID:
		txid := txn.ID()
		sv.Bytes = txid[:]
	case ApplicationID:
		sv.Uint = uint64(txn.ApplicationID)
	case OnCompletion:
		sv.Uint = uint64(txn.OnCompletion)

	case ApplicationArgs:
		if arrayFieldIdx >= uint64(len(txn.ApplicationArgs)) {
			return sv, cx.evalErr(serr.IndexOutOfBound, "invalid ApplicationArgs index %d", arrayFieldIdx)
		}
		sv.Bytes = nilToEmpty(txn.ApplicationArgs[arrayFieldIdx])
	case NumAppArgs:
		sv.Uint = uint64(len(txn.ApplicationArgs))

	case Accounts:
		if arrayFieldIdx == 0 {
			// special case: sender
			sv.Bytes = txn.Sender[:]
		} else {
			if arrayFieldIdx > uint64(len(txn.Accounts)) {
				return sv, cx.evalErr(serr.IndexOutOfBound, "invalid Accounts index %d", arrayFieldIdx)
			}
			sv.Bytes = txn.Accounts[arrayFieldIdx-1][:]
		}
	case NumAccounts:
		sv.Uint = uint64(len(txn.Accounts))

	case Assets:
		if arrayFieldIdx >= uint64(len(txn.ForeignAssets)) {
			return sv, cx.evalErr(serr.IndexOutOfBound, "invalid Assets index %d", arrayFieldIdx)
		}
		sv.Uint = uint64(txn.ForeignAssets[arrayFieldIdx])
	case NumAssets:
		sv.Uint = uint64(len(txn.ForeignAssets))

	case Applications:
		if arrayFieldIdx == 0 {
			// special case: current app id
			sv.Uint = uint64(txn.ApplicationID)
		} else {
			if arrayFieldIdx > uint64(len(txn.ForeignApps)) {
				return sv, cx.evalErr(serr.IndexOutOfBound, "invalid Applications index %d", arrayFieldIdx)
			}
			sv.Uint = uint64(txn.ForeignApps[arrayFieldIdx-1])
		}
	case NumApplications:
		sv.Uint = uint64(len(txn.ForeignApps))

	case GlobalNumUint:
		sv.Uint = txn.GlobalStateSchema.NumUint
	case GlobalNumByteSlice:
		sv.Uint = txn.GlobalStateSchema.NumByteSlice

	case LocalNumUint:
		sv.Uint = txn.LocalStateSchema.NumUint
	case LocalNumByteSlice:
		sv.Uint = txn.LocalStateSchema.NumByteSlice

	case ApprovalProgram:
		sv.Bytes = nilToEmpty(txn.ApprovalProgram)
	case ClearStateProgram:
		sv.Bytes = nilToEmpty(txn.ClearStateProgram)
	case RekeyTo:
		sv.Bytes = txn.RekeyTo[:]
	case ConfigAsset:
		sv.Uint = uint64(txn.ConfigAsset)
	case ConfigAssetTotal:
		sv.Uint = txn.AssetParams.Total
	case ConfigAssetDecimals:
		sv.Uint = uint64(txn.AssetParams.Decimals)
	case ConfigAssetDefaultFrozen:
		sv.Uint = boolToUint(txn.AssetParams.DefaultFrozen)
	case ConfigAssetUnitName:
		sv.Bytes = nilToEmpty([]byte(txn.AssetParams.UnitName))
	case ConfigAssetName:
		sv.Bytes = nilToEmpty([]byte(txn.AssetParams.AssetName))
	case ConfigAssetURL:
		sv.Bytes = nilToEmpty([]byte(txn.AssetParams.URL))
	case ConfigAssetMetadataHash:
		sv.Bytes = nilToEmpty(txn.AssetParams.MetadataHash[:])
	case ConfigAssetManager:
		sv.Bytes = txn.AssetParams.Manager[:]
	case ConfigAssetReserve:
		sv.Bytes = txn.AssetParams.Reserve[:]
	case ConfigAssetFreeze:
		sv.Bytes = txn.AssetParams.Freeze[:]
	case ConfigAssetClawback:
		sv.Bytes = txn.AssetParams.Clawback[:]
	case FreezeAsset:
		sv.Uint = uint64(txn.FreezeAsset)
	case FreezeAssetAccount:
		sv.Bytes = txn.FreezeAccount[:]
	case FreezeAssetFrozen:
		sv.Uint = boolToUint(txn.AssetFrozen)

	default:
		return sv, cx.evalErr(serr.UnknownTxField, "invalid txn field %s", fs.field)
	}

	if !typecheck(fs.ftype, sv.argType()) {
		err := serr.Newf(serr.InvalidFieldType, "%s expected field type is %s but got %s", fs.field, fs.ftype, sv.argType())
		err.Attrs["expected"] = fs.ftype.String()
		err.Attrs["actual"] = sv.argType().String()
		return sv, err
	}
	return sv, nil
}

// opTxnImpl implements all of the txn variants. Each form of txn opcode
// should be able to get its work done with one call here, after collecting
// the args in the most straightforward way possible.
func (cx *EvalContext) opTxnImpl(gi uint64, field TxnField, ai uint64, expectArray bool) (sv stackValue, err error) {
	fs, err := cx.fetchField(field, expectArray)
	if err != nil {
		return sv, err
	}

	// We cast the length up, rather than gi down, in case gi overflows `int`.
	if gi >= uint64(len(cx.TxnGroup)) {
		return sv, cx.evalErr(serr.IndexOutOfBound, "txn index %d, len(group) is %d", gi, len(cx.TxnGroup))
	}
	tx := &cx.TxnGroup[gi]

	return cx.txnFieldToStack(tx, fs, ai, int(gi))
}

func opTxn(cx *EvalContext) {
	gi := uint64(cx.GroupIndex)
	field := TxnField(cx.instr.uints[0])

	sv, err := cx.opTxnImpl(gi, field, 0, false)
	if err != nil {
		cx.err = err
		return
	}

	cx.stack = append(cx.stack, sv)
}

func opTxna(cx *EvalContext) {
	gi := uint64(cx.GroupIndex)
	field := TxnField(cx.instr.uints[0])
	ai := cx.instr.uints[1]

	sv, err := cx.opTxnImpl(gi, field, ai, true)
	if err != nil {
		cx.err = err
		return
	}

	cx.stack = append(cx.stack, sv)
}

func opGtxn(cx *EvalContext) {
	gi := cx.instr.uints[0]
	field := TxnField(cx.instr.uints[1])

	sv, err := cx.opTxnImpl(gi, field, 0, false)
	if err != nil {
		cx.err = err
		return
	}

	cx.stack = append(cx.stack, sv)
}

func opGtxna(cx *EvalContext) {
	gi := cx.instr.uints[0]
	field := TxnField(cx.instr.uints[1])
	ai := cx.instr.uints[2]

	sv, err := cx.opTxnImpl(gi, field, ai, true)
	if err != nil {
		cx.err = err
		return
	}

	cx.stack = append(cx.stack, sv)
}

func opGtxns(cx *EvalContext) {
	last := len(cx.stack) - 1

	gi := cx.stack[last].Uint
	field := TxnField(cx.instr.uints[0])

	sv, err := cx.opTxnImpl(gi, field, 0, false)
	if err != nil {
		cx.err = err
		return
	}

	cx.stack[last] = sv
}

func opGtxnsa(cx *EvalContext) {
	last := len(cx.stack) - 1

	gi := cx.stack[last].Uint
	field := TxnField(cx.instr.uints[0])
	ai := cx.instr.uints[1]

	sv, err := cx.opTxnImpl(gi, field, ai, true)
	if err != nil {
		cx.err = err
		return
	}

	cx.stack[last] = sv
}

func (cx *EvalContext) globalFieldToValue(fs globalFieldSpec) (sv stackValue, err error) {
	switch fs.gfield {
	case MinTxnFee:
		sv.Uint = cx.Proto.MinTxnFee
	case MinBalance:
		sv.Uint = cx.Proto.MinBalance
	case MaxTxnLife:
		sv.Uint = cx.Proto.MaxTxnLife
	case ZeroAddress:
		sv.Bytes = make([]byte, len(basics.Address{}))
	case GroupSize:
		sv.Uint = uint64(len(cx.TxnGroup))
	case LogicSigVersion:
		sv.Uint = cx.Proto.LogicSigVersion
	case Round:
		sv.Uint = uint64(cx.Ledger.Round())
	case LatestTimestamp:
		ts := cx.Ledger.LatestTimestamp()
		if ts < 0 {
			return sv, cx.evalErr(serr.InvalidRound, "latest timestamp %d < 0", ts)
		}
		sv.Uint = uint64(ts)
	case CurrentApplicationID:
		sv.Uint = uint64(cx.appID)
	case CreatorAddress:
		_, creator, err := cx.Ledger.AppParams(cx.appID)
		if err != nil {
			return sv, err
		}
		sv.Bytes = creator[:]
	default:
		return sv, cx.evalErr(serr.UnknownGlobalField, "invalid global field %s", fs.gfield)
	}

	if !typecheck(fs.ftype, sv.argType()) {
		err := serr.Newf(serr.InvalidFieldType, "%s expected field type is %s but got %s", fs.gfield, fs.ftype, sv.argType())
		err.Attrs["expected"] = fs.ftype.String()
		err.Attrs["actual"] = sv.argType().String()
		return sv, err
	}
	return sv, nil
}

func opGlobal(cx *EvalContext) {
	globalField := GlobalField(cx.instr.uints[0])
	fs, ok := globalFieldSpecByField[globalField]
	if !ok || fs.version > cx.version {
		cx.err = cx.evalErr(serr.UnknownGlobalField, "invalid global field %s", globalField)
		return
	}
	if (cx.runModeFlags & fs.mode) == 0 {
		cx.err = cx.evalErr(serr.ExecutionModeNotValid, "global[%s] not allowed in current mode", globalField)
		return
	}

	sv, err := cx.globalFieldToValue(fs)
	if err != nil {
		cx.err = err
		return
	}

	cx.stack = append(cx.stack, sv)
}
