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
	"github.com/algorand/scl-runtime/config"
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/serr"
)

type mockBalances struct {
	proto config.ConsensusParams

	balances      map[basics.Address]basics.AccountData
	appCreators   map[basics.AppIndex]basics.Address
	assetCreators map[basics.AssetIndex]basics.Address

	appCounter   uint64
	assetCounter uint64

	// when set, StatefulEval returns this verdict instead of running a
	// program; the appliers under test do not interpret sources themselves
	evalPass bool
	evalErr  error
}

func makeMockBalances() *mockBalances {
	return &mockBalances{
		proto:         config.Params(),
		balances:      make(map[basics.Address]basics.AccountData),
		appCreators:   make(map[basics.AppIndex]basics.Address),
		assetCreators: make(map[basics.AssetIndex]basics.Address),
		evalPass:      true,
	}
}

func (b *mockBalances) put(addr basics.Address, balance uint64) {
	b.balances[addr] = basics.AccountData{MicroAlgos: basics.MicroAlgos{Raw: balance}}
}

func (b *mockBalances) Get(addr basics.Address) (basics.AccountData, error) {
	data, ok := b.balances[addr]
	if !ok {
		return basics.AccountData{}, serr.New(serr.AccountDoesNotExist, "no such account")
	}
	return data, nil
}

func (b *mockBalances) Put(addr basics.Address, data basics.AccountData) error {
	b.balances[addr] = data
	return nil
}

func (b *mockBalances) CloseAccount(addr basics.Address) error {
	data, err := b.Get(addr)
	if err != nil {
		return err
	}
	if !data.MicroAlgos.IsZero() {
		return serr.New(serr.InvalidTransactionParams, "balance not zero")
	}
	delete(b.balances, addr)
	return nil
}

func (b *mockBalances) Move(src, dst basics.Address, amount basics.MicroAlgos) error {
	from, err := b.Get(src)
	if err != nil {
		return err
	}
	newFrom, overflowed := basics.OSubA(from.MicroAlgos, amount)
	if overflowed {
		return serr.New(serr.InsufficientAccountBalance, "overspend")
	}
	from.MicroAlgos = newFrom
	b.balances[src] = from

	to, err := b.Get(dst)
	if err != nil {
		return err
	}
	to.MicroAlgos.Raw += amount.Raw
	b.balances[dst] = to
	return nil
}

func (b *mockBalances) GetCreator(cidx basics.CreatableIndex, ctype basics.CreatableType) (basics.Address, bool, error) {
	if ctype == basics.AssetCreatable {
		creator, ok := b.assetCreators[basics.AssetIndex(cidx)]
		return creator, ok, nil
	}
	creator, ok := b.appCreators[basics.AppIndex(cidx)]
	return creator, ok, nil
}

func (b *mockBalances) AllocateAppIndex() basics.AppIndex {
	b.appCounter++
	return basics.AppIndex(b.appCounter)
}

func (b *mockBalances) AllocateAssetIndex() basics.AssetIndex {
	b.assetCounter++
	return basics.AssetIndex(b.assetCounter)
}

func (b *mockBalances) RegisterApp(aidx basics.AppIndex, creator basics.Address) {
	b.appCreators[aidx] = creator
}

func (b *mockBalances) UnregisterApp(aidx basics.AppIndex) {
	delete(b.appCreators, aidx)
}

func (b *mockBalances) RegisterAsset(aidx basics.AssetIndex, creator basics.Address) {
	b.assetCreators[aidx] = creator
}

func (b *mockBalances) UnregisterAsset(aidx basics.AssetIndex) {
	delete(b.assetCreators, aidx)
}

func (b *mockBalances) StatefulEval(gi int, aidx basics.AppIndex, program []byte) (bool, error) {
	return b.evalPass, b.evalErr
}

func (b *mockBalances) ConsensusParams() *config.ConsensusParams {
	return &b.proto
}
