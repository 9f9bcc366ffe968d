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
	"github.com/algorand/scl-runtime/serr"
)

// accountReference yields the address and Accounts offset designated by a
// stackValue. Any other address is an error.
//
// Index 0 refers to the current transaction's sender; indices 1..N refer to
// entries in the transaction's Accounts array. From directRefEnabledVersion
// an account may also be named directly by its 32-byte address, as long as it
// is the sender or listed in Accounts.
func (cx *EvalContext) accountReference(account stackValue) (basics.Address, uint64, error) {
	if account.argType() == StackUint64 {
		addr, err := cx.Txn.Txn.AddressByIndex(account.Uint, cx.Txn.Txn.Sender)
		if err != nil {
			err = serr.WithLine(err, cx.instr.line)
		}
		return addr, account.Uint, err
	}
	if cx.version < directRefEnabledVersion {
		return basics.Address{}, 0, cx.evalErr(serr.InvalidType, "account references must be indexes before v%d", directRefEnabledVersion)
	}
	addr, err := account.address()
	if err != nil {
		return addr, 0, serr.WithLine(err, cx.instr.line)
	}
	idx, err := cx.Txn.Txn.IndexByAddress(addr, cx.Txn.Txn.Sender)
	if err != nil {
		err = serr.WithLine(err, cx.instr.line)
	}
	return addr, idx, err
}

// appReference resolves a program's app argument to an app id. Zero always
// means the app that is running.
func (cx *EvalContext) appReference(ref uint64, foreign bool) (basics.AppIndex, error) {
	if cx.version >= directRefEnabledVersion {
		if ref == 0 || ref == uint64(cx.appID) {
			return cx.appID, nil
		}
		for _, appID := range cx.Txn.Txn.ForeignApps {
			if appID == basics.AppIndex(ref) {
				return appID, nil
			}
		}
		// Allow use of indexes, but this comes last so that clear advice can
		// be given to anyone who cares about semantics early on - don't use
		// indexes for references, use the App ID
		if ref <= uint64(len(cx.Txn.Txn.ForeignApps)) {
			return cx.Txn.Txn.ForeignApps[ref-1], nil
		}
	} else {
		// Old rules
		if ref == 0 {
			return cx.appID, nil
		}
		if foreign {
			// In old versions, a foreign reference must be an index in
			// ForeignApps or 0
			if ref <= uint64(len(cx.Txn.Txn.ForeignApps)) {
				return cx.Txn.Txn.ForeignApps[ref-1], nil
			}
		} else {
			// Otherwise it's direct
			return basics.AppIndex(ref), nil
		}
	}
	return basics.AppIndex(0), cx.evalErr(serr.IndexOutOfBound, "invalid App reference %d", ref)
}

// asaReference resolves a program's asset argument to an asset id.
func (cx *EvalContext) asaReference(ref uint64, foreign bool) (basics.AssetIndex, error) {
	if cx.version >= directRefEnabledVersion {
		for _, assetID := range cx.Txn.Txn.ForeignAssets {
			if assetID == basics.AssetIndex(ref) {
				return assetID, nil
			}
		}
		// Allow use of indexes, but this comes last so that clear advice can
		// be given to anyone who cares about semantics early on - don't use
		// indexes for references, use the asset ID
		if ref < uint64(len(cx.Txn.Txn.ForeignAssets)) {
			return cx.Txn.Txn.ForeignAssets[ref], nil
		}
	} else {
		// Old rules
		if foreign {
			// In old versions, a foreign reference must be an index in
			// ForeignAssets
			if ref < uint64(len(cx.Txn.Txn.ForeignAssets)) {
				return cx.Txn.Txn.ForeignAssets[ref], nil
			}
		} else {
			// Otherwise it's direct
			return basics.AssetIndex(ref), nil
		}
	}
	return basics.AssetIndex(0), cx.evalErr(serr.IndexOutOfBound, "invalid Asset reference %d", ref)
}

func opBalance(cx *EvalContext) {
	last := len(cx.stack) - 1 // account (index or actual address)

	addr, _, err := cx.accountReference(cx.stack[last])
	if err != nil {
		cx.err = err
		return
	}

	account, err := cx.Ledger.AccountData(addr)
	if err != nil {
		cx.err = err
		return
	}

	cx.stack[last].Bytes = nil
	cx.stack[last].Uint = account.MicroAlgos.Raw
}

func opMinBalance(cx *EvalContext) {
	last := len(cx.stack) - 1 // account (index or actual address)

	addr, _, err := cx.accountReference(cx.stack[last])
	if err != nil {
		cx.err = err
		return
	}

	account, err := cx.Ledger.AccountData(addr)
	if err != nil {
		cx.err = err
		return
	}

	cx.stack[last].Bytes = nil
	cx.stack[last].Uint = account.MinBalance(cx.Proto).Raw
}

func opAppOptedIn(cx *EvalContext) {
	last := len(cx.stack) - 1 // app
	prev := last - 1          // account

	addr, _, err := cx.accountReference(cx.stack[prev])
	if err != nil {
		cx.err = err
		return
	}

	app, err := cx.appReference(cx.stack[last].Uint, false)
	if err != nil {
		cx.err = err
		return
	}

	optedIn, err := cx.Ledger.OptedIn(addr, app)
	if err != nil {
		cx.err = err
		return
	}

	cx.stack[prev].Uint = boolToUint(optedIn)
	cx.stack[prev].Bytes = nil

	cx.stack = cx.stack[:last]
}

func (cx *EvalContext) appLocalGetImpl(appID uint64, key []byte, acct stackValue) (result stackValue, ok bool, err error) {
	addr, _, err := cx.accountReference(acct)
	if err != nil {
		return
	}

	app, err := cx.appReference(appID, false)
	if err != nil {
		return
	}

	tv, ok, err := cx.Ledger.GetLocal(addr, app, string(key))
	if err != nil {
		return
	}

	if ok {
		result, err = stackValueFromTealValue(&tv)
	}
	return
}

func opAppLocalGet(cx *EvalContext) {
	last := len(cx.stack) - 1 // state key
	prev := last - 1          // account

	key := cx.stack[last].Bytes

	result, _, err := cx.appLocalGetImpl(0, key, cx.stack[prev])
	if err != nil {
		cx.err = err
		return
	}

	cx.stack[prev] = result
	cx.stack = cx.stack[:last]
}

func opAppLocalGetEx(cx *EvalContext) {
	last := len(cx.stack) - 1 // state key
	prev := last - 1          // app id
	pprev := prev - 1         // account

	key := cx.stack[last].Bytes
	appID := cx.stack[prev].Uint

	result, ok, err := cx.appLocalGetImpl(appID, key, cx.stack[pprev])
	if err != nil {
		cx.err = err
		return
	}

	var isOk stackValue
	if ok {
		isOk.Uint = 1
	}

	cx.stack[pprev] = result
	cx.stack[prev] = isOk
	cx.stack = cx.stack[:last]
}

func (cx *EvalContext) appGlobalGetImpl(appIndex uint64, key []byte) (result stackValue, ok bool, err error) {
	app, err := cx.appReference(appIndex, true)
	if err != nil {
		return
	}
	tv, ok, err := cx.Ledger.GetGlobal(app, string(key))
	if err != nil {
		return
	}

	if ok {
		result, err = stackValueFromTealValue(&tv)
	}
	return
}

func opAppGlobalGet(cx *EvalContext) {
	last := len(cx.stack) - 1 // state key

	key := cx.stack[last].Bytes

	result, _, err := cx.appGlobalGetImpl(0, key)
	if err != nil {
		cx.err = err
		return
	}

	cx.stack[last] = result
}

func opAppGlobalGetEx(cx *EvalContext) {
	last := len(cx.stack) - 1 // state key
	prev := last - 1          // app

	key := cx.stack[last].Bytes

	result, ok, err := cx.appGlobalGetImpl(cx.stack[prev].Uint, key)
	if err != nil {
		cx.err = err
		return
	}

	var isOk stackValue
	if ok {
		isOk.Uint = 1
	}

	cx.stack[prev] = result
	cx.stack[last] = isOk
}

func opAppLocalPut(cx *EvalContext) {
	last := len(cx.stack) - 1 // value
	prev := last - 1          // state key
	pprev := prev - 1         // account

	sv := cx.stack[last]
	key := string(cx.stack[prev].Bytes)

	addr, _, err := cx.accountReference(cx.stack[pprev])
	if err != nil {
		cx.err = err
		return
	}

	err = cx.Ledger.SetLocal(addr, cx.appID, key, sv.toTealValue())
	if err != nil {
		cx.err = serr.WithLine(err, cx.instr.line)
		return
	}

	cx.stack = cx.stack[:pprev]
}

func opAppGlobalPut(cx *EvalContext) {
	last := len(cx.stack) - 1 // value
	prev := last - 1          // state key

	sv := cx.stack[last]
	key := string(cx.stack[prev].Bytes)

	err := cx.Ledger.SetGlobal(cx.appID, key, sv.toTealValue())
	if err != nil {
		cx.err = serr.WithLine(err, cx.instr.line)
		return
	}

	cx.stack = cx.stack[:prev]
}

func opAppLocalDel(cx *EvalContext) {
	last := len(cx.stack) - 1 // key
	prev := last - 1          // account

	key := string(cx.stack[last].Bytes)

	addr, _, err := cx.accountReference(cx.stack[prev])
	if err != nil {
		cx.err = err
		return
	}

	err = cx.Ledger.DelLocal(addr, cx.appID, key)
	if err != nil {
		cx.err = serr.WithLine(err, cx.instr.line)
		return
	}

	cx.stack = cx.stack[:prev]
}

func opAppGlobalDel(cx *EvalContext) {
	last := len(cx.stack) - 1 // key

	key := string(cx.stack[last].Bytes)

	err := cx.Ledger.DelGlobal(cx.appID, key)
	if err != nil {
		cx.err = serr.WithLine(err, cx.instr.line)
		return
	}
	cx.stack = cx.stack[:last]
}

func (cx *EvalContext) assetHoldingToValue(holding *basics.AssetHolding, fs assetHoldingFieldSpec) (sv stackValue, err error) {
	switch fs.field {
	case AssetBalance:
		sv.Uint = holding.Amount
	case AssetFrozen:
		sv.Uint = boolToUint(holding.Frozen)
	default:
		return sv, cx.evalErr(serr.UnknownAssetField, "invalid asset_holding_get field %d", fs.field)
	}

	if !typecheck(fs.ftype, sv.argType()) {
		return sv, cx.evalErr(serr.InvalidFieldType, "%s expected field type is %s but got %s", fs.field, fs.ftype, sv.argType())
	}
	return sv, nil
}

func (cx *EvalContext) assetParamsToValue(params *basics.AssetParams, fs assetParamsFieldSpec) (sv stackValue, err error) {
	switch fs.field {
	case AssetTotal:
		sv.Uint = params.Total
	case AssetDecimals:
		sv.Uint = uint64(params.Decimals)
	case AssetDefaultFrozen:
		sv.Uint = boolToUint(params.DefaultFrozen)
	case AssetUnitName:
		sv.Bytes = []byte(params.UnitName)
	case AssetName:
		sv.Bytes = []byte(params.AssetName)
	case AssetURL:
		sv.Bytes = []byte(params.URL)
	case AssetMetadataHash:
		sv.Bytes = params.MetadataHash[:]
	case AssetManager:
		sv.Bytes = params.Manager[:]
	case AssetReserve:
		sv.Bytes = params.Reserve[:]
	case AssetFreeze:
		sv.Bytes = params.Freeze[:]
	case AssetClawback:
		sv.Bytes = params.Clawback[:]
	default:
		return sv, cx.evalErr(serr.UnknownAssetField, "invalid asset_params_get field %d", fs.field)
	}

	if !typecheck(fs.ftype, sv.argType()) {
		return sv, cx.evalErr(serr.InvalidFieldType, "%s expected field type is %s but got %s", fs.field, fs.ftype, sv.argType())
	}
	return sv, nil
}

func opAssetHoldingGet(cx *EvalContext) {
	last := len(cx.stack) - 1 // asset
	prev := last - 1          // account

	holdingField := AssetHoldingField(cx.instr.uints[0])
	fs, ok := assetHoldingFieldSpecByField[holdingField]
	if !ok {
		cx.err = cx.evalErr(serr.UnknownAssetField, "invalid asset_holding_get field %d", holdingField)
		return
	}

	addr, _, err := cx.accountReference(cx.stack[prev])
	if err != nil {
		cx.err = err
		return
	}

	asset, err := cx.asaReference(cx.stack[last].Uint, false)
	if err != nil {
		cx.err = err
		return
	}

	var exist uint64 = 0
	var value stackValue
	if holding, err := cx.Ledger.AssetHolding(addr, asset); err == nil {
		// the holding exists, read the value
		exist = 1
		value, err = cx.assetHoldingToValue(&holding, fs)
		if err != nil {
			cx.err = err
			return
		}
	}

	cx.stack[prev] = value
	cx.stack[last].Uint = exist
	cx.stack[last].Bytes = nil
}

func opAssetParamsGet(cx *EvalContext) {
	last := len(cx.stack) - 1 // asset

	paramField := AssetParamsField(cx.instr.uints[0])
	fs, ok := assetParamsFieldSpecByField[paramField]
	if !ok {
		cx.err = cx.evalErr(serr.UnknownAssetField, "invalid asset_params_get field %d", paramField)
		return
	}

	asset, err := cx.asaReference(cx.stack[last].Uint, true)
	if err != nil {
		cx.err = err
		return
	}

	var exist uint64 = 0
	var value stackValue
	if params, _, err := cx.Ledger.AssetParams(asset); err == nil {
		// params exist, read the value
		exist = 1
		value, err = cx.assetParamsToValue(&params, fs)
		if err != nil {
			cx.err = err
			return
		}
	}

	cx.stack[last] = value
	cx.stack = append(cx.stack, stackValue{Uint: exist})
}
