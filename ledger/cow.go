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
	"github.com/algorand/scl-runtime/config"
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/data/transactions"
	"github.com/algorand/scl-runtime/data/transactions/logic"
	"github.com/algorand/scl-runtime/serr"
)

// roundCowState is the transient context a transaction group executes
// against: a full deep copy of world state. It is substituted for the
// canonical state on success and discarded on failure, which is what makes a
// failed group observationally equivalent to "never happened".
type roundCowState struct {
	proto *config.ConsensusParams

	accounts      map[basics.Address]basics.AccountData
	appCreators   map[basics.AppIndex]basics.Address
	assetCreators map[basics.AssetIndex]basics.Address

	appCounter   uint64
	assetCounter uint64

	round     basics.Round
	timestamp int64

	// the group currently being dispatched, for program context
	group []transactions.SignedTxn
}

// startEval deep-copies the canonical state. Caller must hold l.mu.
func (l *Ledger) startEval() *roundCowState {
	cow := &roundCowState{
		proto:         &l.proto,
		accounts:      make(map[basics.Address]basics.AccountData, len(l.accounts)),
		appCreators:   make(map[basics.AppIndex]basics.Address, len(l.appCreators)),
		assetCreators: make(map[basics.AssetIndex]basics.Address, len(l.assetCreators)),
		appCounter:    l.appCounter,
		assetCounter:  l.assetCounter,
		round:         l.round,
		timestamp:     l.timestamp,
	}
	for addr, data := range l.accounts {
		cow.accounts[addr] = data.Clone()
	}
	for aidx, creator := range l.appCreators {
		cow.appCreators[aidx] = creator
	}
	for aidx, creator := range l.assetCreators {
		cow.assetCreators[aidx] = creator
	}
	return cow
}

// commit swaps the transient state in as the canonical state. Caller must
// hold l.mu.
func (l *Ledger) commit(cow *roundCowState) {
	l.accounts = cow.accounts
	l.appCreators = cow.appCreators
	l.assetCreators = cow.assetCreators
	l.appCounter = cow.appCounter
	l.assetCounter = cow.assetCounter
}

// ConsensusParams implements apply.Balances.
func (cs *roundCowState) ConsensusParams() *config.ConsensusParams {
	return cs.proto
}

// Get implements apply.Balances. The returned AccountData shares its maps
// with the transient state; appliers mutate and Put it back. A failed group
// discards the whole transient state, so partial mutation is never visible.
func (cs *roundCowState) Get(addr basics.Address) (basics.AccountData, error) {
	data, ok := cs.accounts[addr]
	if !ok {
		return basics.AccountData{}, serr.New(serr.AccountDoesNotExist, "account does not exist", "address", addr.String())
	}
	return data, nil
}

// Put implements apply.Balances.
func (cs *roundCowState) Put(addr basics.Address, data basics.AccountData) error {
	cs.accounts[addr] = data
	return nil
}

// CloseAccount implements apply.Balances: it removes an account after a
// closing payment. The account must have no remaining balance, holdings,
// opt-ins or created entities.
func (cs *roundCowState) CloseAccount(addr basics.Address) error {
	data, err := cs.Get(addr)
	if err != nil {
		return err
	}
	if !data.MicroAlgos.IsZero() {
		return serr.New(serr.InvalidTransactionParams, "cannot close account with remaining balance", "address", addr.String())
	}
	if len(data.Assets) > 0 || len(data.AssetParams) > 0 {
		return serr.New(serr.InvalidTransactionParams, "cannot close account with asset holdings or created assets", "address", addr.String())
	}
	if len(data.AppLocalStates) > 0 || len(data.AppParams) > 0 {
		return serr.New(serr.InvalidTransactionParams, "cannot close account with app state", "address", addr.String())
	}
	delete(cs.accounts, addr)
	return nil
}

// Move shifts money between accounts, with overflow checking. It does not
// check the source's minimum balance.
func (cs *roundCowState) Move(src, dst basics.Address, amount basics.MicroAlgos) error {
	fromBal, err := cs.Get(src)
	if err != nil {
		return err
	}
	newFrom, overflowed := basics.OSubA(fromBal.MicroAlgos, amount)
	if overflowed {
		return serr.New(serr.InsufficientAccountBalance, "overspend",
			"address", src.String(), "balance", fromBal.MicroAlgos.Raw, "tried to spend", amount.Raw)
	}
	fromBal.MicroAlgos = newFrom
	if err = cs.Put(src, fromBal); err != nil {
		return err
	}

	toBal, err := cs.Get(dst)
	if err != nil {
		return err
	}
	newTo, overflowed := basics.OAddA(toBal.MicroAlgos, amount)
	if overflowed {
		return serr.New(serr.Uint64Overflow, "balance overflow", "address", dst.String())
	}
	toBal.MicroAlgos = newTo
	return cs.Put(dst, toBal)
}

// GetCreator implements apply.Balances.
func (cs *roundCowState) GetCreator(cidx basics.CreatableIndex, ctype basics.CreatableType) (basics.Address, bool, error) {
	if ctype == basics.AssetCreatable {
		creator, ok := cs.assetCreators[basics.AssetIndex(cidx)]
		return creator, ok, nil
	}
	creator, ok := cs.appCreators[basics.AppIndex(cidx)]
	return creator, ok, nil
}

// AllocateAppIndex hands out the next application id.
func (cs *roundCowState) AllocateAppIndex() basics.AppIndex {
	cs.appCounter++
	return basics.AppIndex(cs.appCounter)
}

// AllocateAssetIndex hands out the next asset id.
func (cs *roundCowState) AllocateAssetIndex() basics.AssetIndex {
	cs.assetCounter++
	return basics.AssetIndex(cs.assetCounter)
}

// RegisterApp records the creator of a new app.
func (cs *roundCowState) RegisterApp(aidx basics.AppIndex, creator basics.Address) {
	cs.appCreators[aidx] = creator
}

// UnregisterApp removes a deleted app from the creator map.
func (cs *roundCowState) UnregisterApp(aidx basics.AppIndex) {
	delete(cs.appCreators, aidx)
}

// RegisterAsset records the creator of a new asset.
func (cs *roundCowState) RegisterAsset(aidx basics.AssetIndex, creator basics.Address) {
	cs.assetCreators[aidx] = creator
}

// UnregisterAsset removes a destroyed asset from the creator map.
func (cs *roundCowState) UnregisterAsset(aidx basics.AssetIndex) {
	delete(cs.assetCreators, aidx)
}

// StatefulEval implements apply.Balances: it runs an SCL program in stateful
// mode against this transient state.
func (cs *roundCowState) StatefulEval(gi int, aidx basics.AppIndex, program []byte) (bool, error) {
	prog, err := logic.Assemble(string(program))
	if err != nil {
		return false, err
	}
	params := logic.EvalParams{
		Proto:    cs.proto,
		TxnGroup: cs.group,
		Ledger:   cs,
	}
	return logic.EvalContract(prog, gi, aidx, &params)
}

// The methods below implement logic.LedgerForLogic, the read/write view
// handed to stateful programs.

// AccountData returns a copy of the account, for program introspection.
func (cs *roundCowState) AccountData(addr basics.Address) (basics.AccountData, error) {
	data, err := cs.Get(addr)
	if err != nil {
		return basics.AccountData{}, err
	}
	return data.Clone(), nil
}

// Round returns the injected round counter.
func (cs *roundCowState) Round() basics.Round {
	return cs.round
}

// LatestTimestamp returns the injected clock value.
func (cs *roundCowState) LatestTimestamp() int64 {
	return cs.timestamp
}

// AssetHolding returns the holding of an asset by an account.
func (cs *roundCowState) AssetHolding(addr basics.Address, aidx basics.AssetIndex) (basics.AssetHolding, error) {
	data, err := cs.Get(addr)
	if err != nil {
		return basics.AssetHolding{}, err
	}
	holding, ok := data.Assets[aidx]
	if !ok {
		return basics.AssetHolding{}, serr.New(serr.AsaNotOptin, "account has not opted in to asset", "address", addr.String(), "asset", uint64(aidx))
	}
	return holding, nil
}

// AssetParams returns the parameters of an asset and its creator.
func (cs *roundCowState) AssetParams(aidx basics.AssetIndex) (basics.AssetParams, basics.Address, error) {
	creator, ok := cs.assetCreators[aidx]
	if !ok {
		return basics.AssetParams{}, basics.Address{}, serr.New(serr.AssetNotFound, "asset does not exist", "asset", uint64(aidx))
	}
	params, ok := cs.accounts[creator].AssetParams[aidx]
	if !ok {
		return basics.AssetParams{}, basics.Address{}, serr.New(serr.AssetNotFound, "asset does not exist", "asset", uint64(aidx))
	}
	return params, creator, nil
}

// AppParams returns the parameters of an app and its creator.
func (cs *roundCowState) AppParams(aidx basics.AppIndex) (basics.AppParams, basics.Address, error) {
	creator, ok := cs.appCreators[aidx]
	if !ok {
		return basics.AppParams{}, basics.Address{}, serr.New(serr.AppNotFound, "application does not exist", "app", uint64(aidx))
	}
	params, ok := cs.accounts[creator].AppParams[aidx]
	if !ok {
		return basics.AppParams{}, basics.Address{}, serr.New(serr.AppNotFound, "application does not exist", "app", uint64(aidx))
	}
	return params, creator, nil
}

// OptedIn reports whether an account has opted in to an app.
func (cs *roundCowState) OptedIn(addr basics.Address, appIdx basics.AppIndex) (bool, error) {
	data, err := cs.Get(addr)
	if err != nil {
		return false, err
	}
	_, ok := data.AppLocalStates[appIdx]
	return ok, nil
}

func (cs *roundCowState) checkKeyValue(key string, value *basics.TealValue) error {
	if len(key) > cs.proto.MaxAppKeyLen {
		return serr.New(serr.InvalidTransactionParams, "key too long", "length", len(key), "max", cs.proto.MaxAppKeyLen)
	}
	if value != nil && value.Type == basics.TealBytesType && len(value.Bytes) > cs.proto.MaxAppBytesValueLen {
		return serr.New(serr.InvalidTransactionParams, "value too long", "length", len(value.Bytes), "max", cs.proto.MaxAppBytesValueLen)
	}
	return nil
}

// GetLocal reads a local state key of an app for an account.
func (cs *roundCowState) GetLocal(addr basics.Address, appIdx basics.AppIndex, key string) (basics.TealValue, bool, error) {
	data, err := cs.Get(addr)
	if err != nil {
		return basics.TealValue{}, false, err
	}
	ls, ok := data.AppLocalStates[appIdx]
	if !ok {
		return basics.TealValue{}, false, serr.New(serr.AppNotFound, "account has not opted in to app", "address", addr.String(), "app", uint64(appIdx))
	}
	tv, ok := ls.KeyValue[key]
	return tv, ok, nil
}

// SetLocal writes a local state key, enforcing the declared local schema.
func (cs *roundCowState) SetLocal(addr basics.Address, appIdx basics.AppIndex, key string, value basics.TealValue) error {
	if err := cs.checkKeyValue(key, &value); err != nil {
		return err
	}
	data, err := cs.Get(addr)
	if err != nil {
		return err
	}
	ls, ok := data.AppLocalStates[appIdx]
	if !ok {
		return serr.New(serr.AppNotFound, "account has not opted in to app", "address", addr.String(), "app", uint64(appIdx))
	}
	if ls.KeyValue == nil {
		ls.KeyValue = make(basics.TealKeyValue)
	}
	ls.KeyValue[key] = value

	schema, err := ls.KeyValue.ToStateSchema()
	if err != nil {
		return err
	}
	if schema.NumUint > ls.Schema.NumUint || schema.NumByteSlice > ls.Schema.NumByteSlice {
		return serr.New(serr.InvalidTransactionParams, "local state writes exceed schema",
			"uints", schema.NumUint, "byte-slices", schema.NumByteSlice,
			"schema-uints", ls.Schema.NumUint, "schema-byte-slices", ls.Schema.NumByteSlice)
	}

	data.AppLocalStates[appIdx] = ls
	return cs.Put(addr, data)
}

// DelLocal removes a local state key.
func (cs *roundCowState) DelLocal(addr basics.Address, appIdx basics.AppIndex, key string) error {
	data, err := cs.Get(addr)
	if err != nil {
		return err
	}
	ls, ok := data.AppLocalStates[appIdx]
	if !ok {
		return serr.New(serr.AppNotFound, "account has not opted in to app", "address", addr.String(), "app", uint64(appIdx))
	}
	delete(ls.KeyValue, key)
	data.AppLocalStates[appIdx] = ls
	return cs.Put(addr, data)
}

// GetGlobal reads a global state key of an app.
func (cs *roundCowState) GetGlobal(appIdx basics.AppIndex, key string) (basics.TealValue, bool, error) {
	params, _, err := cs.AppParams(appIdx)
	if err != nil {
		return basics.TealValue{}, false, err
	}
	tv, ok := params.GlobalState[key]
	return tv, ok, nil
}

// SetGlobal writes a global state key, enforcing the declared global schema.
func (cs *roundCowState) SetGlobal(appIdx basics.AppIndex, key string, value basics.TealValue) error {
	if err := cs.checkKeyValue(key, &value); err != nil {
		return err
	}
	creator, ok := cs.appCreators[appIdx]
	if !ok {
		return serr.New(serr.AppNotFound, "application does not exist", "app", uint64(appIdx))
	}
	data := cs.accounts[creator]
	params, ok := data.AppParams[appIdx]
	if !ok {
		return serr.New(serr.AppNotFound, "application does not exist", "app", uint64(appIdx))
	}
	if params.GlobalState == nil {
		params.GlobalState = make(basics.TealKeyValue)
	}
	params.GlobalState[key] = value

	schema, err := params.GlobalState.ToStateSchema()
	if err != nil {
		return err
	}
	if schema.NumUint > params.GlobalStateSchema.NumUint || schema.NumByteSlice > params.GlobalStateSchema.NumByteSlice {
		return serr.New(serr.InvalidTransactionParams, "global state writes exceed schema",
			"uints", schema.NumUint, "byte-slices", schema.NumByteSlice,
			"schema-uints", params.GlobalStateSchema.NumUint, "schema-byte-slices", params.GlobalStateSchema.NumByteSlice)
	}

	data.AppParams[appIdx] = params
	return cs.Put(creator, data)
}

// DelGlobal removes a global state key.
func (cs *roundCowState) DelGlobal(appIdx basics.AppIndex, key string) error {
	creator, ok := cs.appCreators[appIdx]
	if !ok {
		return serr.New(serr.AppNotFound, "application does not exist", "app", uint64(appIdx))
	}
	data := cs.accounts[creator]
	params, ok := data.AppParams[appIdx]
	if !ok {
		return serr.New(serr.AppNotFound, "application does not exist", "app", uint64(appIdx))
	}
	delete(params.GlobalState, key)
	data.AppParams[appIdx] = params
	return cs.Put(creator, data)
}
