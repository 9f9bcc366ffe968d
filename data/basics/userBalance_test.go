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

package basics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/scl-runtime/config"
)

func TestMinBalance(t *testing.T) {
	proto := config.Params()

	var u AccountData
	require.Equal(t, proto.MinBalance, u.MinBalance(&proto).Raw)

	// each opted-in asset costs another MinBalance
	u.Assets = map[AssetIndex]AssetHolding{1: {}, 2: {}}
	require.Equal(t, 3*proto.MinBalance, u.MinBalance(&proto).Raw)

	// a created app costs a flat surcharge plus its schema
	u = AccountData{
		AppParams: map[AppIndex]AppParams{7: {}},
		TotalAppSchema: StateSchema{
			NumUint:      2,
			NumByteSlice: 1,
		},
	}
	expected := proto.MinBalance +
		proto.AppFlatParamsMinBalance +
		3*proto.SchemaMinBalancePerEntry +
		2*proto.SchemaUintMinBalance +
		1*proto.SchemaBytesMinBalance
	require.Equal(t, expected, u.MinBalance(&proto).Raw)

	// an opted-in app costs its own flat surcharge
	u = AccountData{
		AppLocalStates: map[AppIndex]AppLocalState{7: {}},
	}
	require.Equal(t, proto.MinBalance+proto.AppFlatOptInMinBalance, u.MinBalance(&proto).Raw)
}

func TestAccountDataClone(t *testing.T) {
	u := AccountData{
		MicroAlgos: MicroAlgos{Raw: 100},
		Assets:     map[AssetIndex]AssetHolding{1: {Amount: 5}},
		AppParams: map[AppIndex]AppParams{
			2: {GlobalState: TealKeyValue{"k": {Type: TealUintType, Uint: 9}}},
		},
		AppLocalStates: map[AppIndex]AppLocalState{
			2: {KeyValue: TealKeyValue{"l": {Type: TealBytesType, Bytes: "x"}}},
		},
	}
	c := u.Clone()

	c.Assets[1] = AssetHolding{Amount: 6}
	c.AppParams[2].GlobalState["k"] = TealValue{Type: TealUintType, Uint: 10}
	c.AppLocalStates[2].KeyValue["l"] = TealValue{Type: TealBytesType, Bytes: "y"}

	require.EqualValues(t, 5, u.Assets[1].Amount)
	require.EqualValues(t, 9, u.AppParams[2].GlobalState["k"].Uint)
	require.Equal(t, "x", u.AppLocalStates[2].KeyValue["l"].Bytes)
}

func TestStateSchema(t *testing.T) {
	a := StateSchema{NumUint: 1, NumByteSlice: 2}
	b := StateSchema{NumUint: 3, NumByteSlice: 1}

	sum := a.AddSchema(b)
	require.Equal(t, StateSchema{NumUint: 4, NumByteSlice: 3}, sum)
	require.Equal(t, a, sum.SubSchema(b))
	require.EqualValues(t, 3, a.NumEntries())
}

func TestTealKeyValueToStateSchema(t *testing.T) {
	tkv := TealKeyValue{
		"a": {Type: TealUintType, Uint: 1},
		"b": {Type: TealBytesType, Bytes: "x"},
		"c": {Type: TealBytesType, Bytes: "y"},
	}
	schema, err := tkv.ToStateSchema()
	require.NoError(t, err)
	require.Equal(t, StateSchema{NumUint: 1, NumByteSlice: 2}, schema)
}
