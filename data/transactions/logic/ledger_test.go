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

// testLedger implements LedgerForLogic over plain maps, without the schema
// enforcement the real transient context provides. Schema behavior is
// covered by the engine tests.
type testLedger struct {
	balances      map[basics.Address]basics.AccountData
	appCreators   map[basics.AppIndex]basics.Address
	assetCreators map[basics.AssetIndex]basics.Address

	round     basics.Round
	timestamp int64
}

func makeTestLedger(balances map[basics.Address]basics.AccountData) *testLedger {
	return &testLedger{
		balances:      balances,
		appCreators:   make(map[basics.AppIndex]basics.Address),
		assetCreators: make(map[basics.AssetIndex]basics.Address),
		round:         1,
		timestamp:     1,
	}
}

func (l *testLedger) newApp(creator basics.Address, aidx basics.AppIndex, params basics.AppParams) {
	l.appCreators[aidx] = creator
	br := l.balances[creator]
	if br.AppParams == nil {
		br.AppParams = make(map[basics.AppIndex]basics.AppParams)
	}
	br.AppParams[aidx] = params
	l.balances[creator] = br
}

func (l *testLedger) newHolding(addr basics.Address, aidx basics.AssetIndex, amount uint64, frozen bool) {
	br := l.balances[addr]
	if br.Assets == nil {
		br.Assets = make(map[basics.AssetIndex]basics.AssetHolding)
	}
	br.Assets[aidx] = basics.AssetHolding{Amount: amount, Frozen: frozen}
	l.balances[addr] = br
}

func (l *testLedger) newAsset(creator basics.Address, aidx basics.AssetIndex, params basics.AssetParams) {
	l.assetCreators[aidx] = creator
	br := l.balances[creator]
	if br.AssetParams == nil {
		br.AssetParams = make(map[basics.AssetIndex]basics.AssetParams)
	}
	br.AssetParams[aidx] = params
	l.balances[creator] = br
	l.newHolding(creator, aidx, params.Total, params.DefaultFrozen)
}

func (l *testLedger) optIn(addr basics.Address, aidx basics.AppIndex, schema basics.StateSchema) {
	br := l.balances[addr]
	if br.AppLocalStates == nil {
		br.AppLocalStates = make(map[basics.AppIndex]basics.AppLocalState)
	}
	br.AppLocalStates[aidx] = basics.AppLocalState{Schema: schema, KeyValue: make(basics.TealKeyValue)}
	l.balances[addr] = br
}

func (l *testLedger) AccountData(addr basics.Address) (basics.AccountData, error) {
	data, ok := l.balances[addr]
	if !ok {
		return basics.AccountData{}, serr.New(serr.AccountDoesNotExist, "no such address")
	}
	return data, nil
}

func (l *testLedger) Round() basics.Round {
	return l.round
}

func (l *testLedger) LatestTimestamp() int64 {
	return l.timestamp
}

func (l *testLedger) AssetHolding(addr basics.Address, aidx basics.AssetIndex) (basics.AssetHolding, error) {
	data, err := l.AccountData(addr)
	if err != nil {
		return basics.AssetHolding{}, err
	}
	holding, ok := data.Assets[aidx]
	if !ok {
		return basics.AssetHolding{}, serr.New(serr.AsaNotOptin, "not opted in")
	}
	return holding, nil
}

func (l *testLedger) AssetParams(aidx basics.AssetIndex) (basics.AssetParams, basics.Address, error) {
	creator, ok := l.assetCreators[aidx]
	if !ok {
		return basics.AssetParams{}, basics.Address{}, serr.New(serr.AssetNotFound, "no such asset")
	}
	return l.balances[creator].AssetParams[aidx], creator, nil
}

func (l *testLedger) AppParams(aidx basics.AppIndex) (basics.AppParams, basics.Address, error) {
	creator, ok := l.appCreators[aidx]
	if !ok {
		return basics.AppParams{}, basics.Address{}, serr.New(serr.AppNotFound, "no such app")
	}
	return l.balances[creator].AppParams[aidx], creator, nil
}

func (l *testLedger) OptedIn(addr basics.Address, appIdx basics.AppIndex) (bool, error) {
	data, err := l.AccountData(addr)
	if err != nil {
		return false, err
	}
	_, ok := data.AppLocalStates[appIdx]
	return ok, nil
}

func (l *testLedger) GetLocal(addr basics.Address, appIdx basics.AppIndex, key string) (basics.TealValue, bool, error) {
	data, err := l.AccountData(addr)
	if err != nil {
		return basics.TealValue{}, false, err
	}
	ls, ok := data.AppLocalStates[appIdx]
	if !ok {
		return basics.TealValue{}, false, serr.New(serr.AppNotFound, "not opted in")
	}
	tv, ok := ls.KeyValue[key]
	return tv, ok, nil
}

func (l *testLedger) SetLocal(addr basics.Address, appIdx basics.AppIndex, key string, value basics.TealValue) error {
	data, err := l.AccountData(addr)
	if err != nil {
		return err
	}
	ls, ok := data.AppLocalStates[appIdx]
	if !ok {
		return serr.New(serr.AppNotFound, "not opted in")
	}
	if ls.KeyValue == nil {
		ls.KeyValue = make(basics.TealKeyValue)
	}
	ls.KeyValue[key] = value
	data.AppLocalStates[appIdx] = ls
	l.balances[addr] = data
	return nil
}

func (l *testLedger) DelLocal(addr basics.Address, appIdx basics.AppIndex, key string) error {
	data, err := l.AccountData(addr)
	if err != nil {
		return err
	}
	ls, ok := data.AppLocalStates[appIdx]
	if !ok {
		return serr.New(serr.AppNotFound, "not opted in")
	}
	delete(ls.KeyValue, key)
	data.AppLocalStates[appIdx] = ls
	l.balances[addr] = data
	return nil
}

func (l *testLedger) GetGlobal(appIdx basics.AppIndex, key string) (basics.TealValue, bool, error) {
	params, _, err := l.AppParams(appIdx)
	if err != nil {
		return basics.TealValue{}, false, err
	}
	tv, ok := params.GlobalState[key]
	return tv, ok, nil
}

func (l *testLedger) SetGlobal(appIdx basics.AppIndex, key string, value basics.TealValue) error {
	params, creator, err := l.AppParams(appIdx)
	if err != nil {
		return err
	}
	if params.GlobalState == nil {
		params.GlobalState = make(basics.TealKeyValue)
	}
	params.GlobalState[key] = value
	data := l.balances[creator]
	data.AppParams[appIdx] = params
	l.balances[creator] = data
	return nil
}

func (l *testLedger) DelGlobal(appIdx basics.AppIndex, key string) error {
	params, creator, err := l.AppParams(appIdx)
	if err != nil {
		return err
	}
	delete(params.GlobalState, key)
	data := l.balances[creator]
	data.AppParams[appIdx] = params
	l.balances[creator] = data
	return nil
}
