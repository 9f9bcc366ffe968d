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
	"encoding/binary"
	"slices"

	"github.com/algorand/scl-runtime/config"
	"github.com/algorand/scl-runtime/crypto"
	"github.com/algorand/scl-runtime/protocol"
)

// AccountData contains the data associated with a given address.
//
// This includes the account balance, cryptographic public keys, asset params
// (for assets made by this account), asset holdings (for assets the account is
// opted into), and application data (globals if account created, locals if
// opted-in). This is the fully "hydrated" structure and has copy-by-value
// semantics: do not mutate the inner maps of a shared AccountData; Clone first.
type AccountData struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	MicroAlgos MicroAlgos `codec:"algo"`

	VotePK          crypto.PublicKey `codec:"vote"`
	SelectionPK     crypto.PublicKey `codec:"sel"`
	VoteFirstValid  Round            `codec:"voteFst"`
	VoteLastValid   Round            `codec:"voteLst"`
	VoteKeyDilution uint64           `codec:"voteKD"`

	// If this account created an asset, AssetParams stores the parameters
	// defining that asset. The params are indexed by the AssetIndex; the
	// Creator is this account's address.
	//
	// An account with any asset in AssetParams cannot be closed, until the
	// asset is destroyed.  An asset can be destroyed if this account holds
	// AssetParams.Total units of that asset (in the Assets map below).
	AssetParams map[AssetIndex]AssetParams `codec:"apar"`

	// Assets is the set of assets that can be held by this account. Assets
	// (i.e., slots in this map) are explicitly added and removed from an
	// account by special transactions.
	//
	// Each asset bumps the required MinBalance in this account.
	//
	// An account that creates an asset must have its own asset in the Assets
	// map until that asset is destroyed.
	Assets map[AssetIndex]AssetHolding `codec:"asset"`

	// AuthAddr is the address against which signatures/multisigs/logicsigs
	// should be checked. If empty, the address of the account whose
	// AccountData this is is used. A transaction may change an account's
	// AuthAddr to "re-key" the account.
	AuthAddr Address `codec:"spend"`

	// AppLocalStates stores the local states associated with any applications
	// that this account has opted in to.
	AppLocalStates map[AppIndex]AppLocalState `codec:"appl"`

	// AppParams stores the global parameters and state associated with any
	// applications that this account has created.
	AppParams map[AppIndex]AppParams `codec:"appp"`

	// TotalAppSchema stores the sum of all of the LocalStateSchemas and
	// GlobalStateSchemas in this account (global for applications we created,
	// local for applications we opted in to), so that we don't have to
	// iterate over all of them to compute MinBalance.
	TotalAppSchema StateSchema `codec:"tsch"`
}

// AppLocalState stores the LocalState associated with an application. It also
// stores a cached copy of the application's LocalStateSchema so that
// MinBalance requirements may be computed 1. without looking up the AppParams
// and 2. even if the application has been deleted
type AppLocalState struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Schema   StateSchema  `codec:"hsch"`
	KeyValue TealKeyValue `codec:"tkv"`
}

// AppParams stores the global information associated with an application
type AppParams struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	ApprovalProgram   []byte       `codec:"approv"`
	ClearStateProgram []byte       `codec:"clearp"`
	GlobalState       TealKeyValue `codec:"gs"`
	StateSchemas
}

// StateSchemas is a thin wrapper around the LocalStateSchema and the
// GlobalStateSchema, since they are often needed together
type StateSchemas struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	LocalStateSchema  StateSchema `codec:"lsch"`
	GlobalStateSchema StateSchema `codec:"gsch"`
}

// Clone returns a copy of some AppParams that may be modified without
// affecting the original
func (ap *AppParams) Clone() (res AppParams) {
	res = *ap
	res.ApprovalProgram = slices.Clone(ap.ApprovalProgram)
	res.ClearStateProgram = slices.Clone(ap.ClearStateProgram)
	res.GlobalState = ap.GlobalState.Clone()
	return
}

// Clone returns a copy of some AppLocalState that may be modified without
// affecting the original
func (al *AppLocalState) Clone() (res AppLocalState) {
	res = *al
	res.KeyValue = al.KeyValue.Clone()
	return
}

// AssetIndex is the unique integer index of an asset that can be used to look
// up the creator of the asset, whose balance record contains the AssetParams
type AssetIndex uint64

// AppIndex is the unique integer index of an application that can be used to
// look up the creator of the application, whose balance record contains the
// AppParams
type AppIndex uint64

// CreatableIndex represents either an AssetIndex or AppIndex, which come from
// the same namespace of indices as each other (both assets and apps are
// "creatables")
type CreatableIndex uint64

// CreatableType is an enum representing whether or not a given creatable is an
// application or an asset
type CreatableType uint64

const (
	// AssetCreatable is the CreatableType corresponding to assets
	AssetCreatable CreatableType = 0

	// AppCreatable is the CreatableType corresponds to apps
	AppCreatable CreatableType = 1
)

// AssetHolding describes an asset held by an account.
type AssetHolding struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Amount uint64 `codec:"a"`
	Frozen bool   `codec:"f"`
}

// AssetParams describes the parameters of an asset.
type AssetParams struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Total specifies the total number of units of this asset created.
	Total uint64 `codec:"t"`

	// Decimals specifies the number of digits to display after the decimal
	// place when displaying this asset. A value of 0 represents an asset
	// that is not divisible, a value of 1 represents an asset divisible
	// into tenths, and so on. This value must be between 0 and 19
	// (inclusive).
	Decimals uint32 `codec:"dc"`

	// DefaultFrozen specifies whether slots for this asset in user accounts
	// are frozen by default or not.
	DefaultFrozen bool `codec:"df"`

	// UnitName specifies a hint for the name of a unit of this asset.
	UnitName string `codec:"un"`

	// AssetName specifies a hint for the name of the asset.
	AssetName string `codec:"an"`

	// URL specifies a URL where more information about the asset can be
	// retrieved
	URL string `codec:"au"`

	// MetadataHash specifies a commitment to some unspecified asset
	// metadata. The format of this metadata is up to the application.
	MetadataHash [32]byte `codec:"am"`

	// Manager specifies an account that is allowed to change the non-zero
	// addresses in this AssetParams.
	Manager Address `codec:"m"`

	// Reserve specifies an account whose holdings of this asset should be
	// reported as "not minted".
	Reserve Address `codec:"r"`

	// Freeze specifies an account that is allowed to change the frozen state
	// of holdings of this asset.
	Freeze Address `codec:"f"`

	// Clawback specifies an account that is allowed to take units of this
	// asset from any account.
	Clawback Address `codec:"c"`
}

// ToBeHashed implements crypto.Hashable
func (app AppIndex) ToBeHashed() (protocol.HashID, []byte) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(app))
	return protocol.AppIndex, buf
}

// Address yields the "app address" of the app
func (app AppIndex) Address() Address {
	return Address(crypto.HashObj(app))
}

// MinBalance computes the minimum balance requirements for an account based
// on some consensus parameters. MinBalance should correspond roughly to how
// much storage the account is allowed to store on disk.
func (u AccountData) MinBalance(proto *config.ConsensusParams) MicroAlgos {
	var min uint64

	// First, base MinBalance
	min = proto.MinBalance

	// MinBalance for each Asset
	assetCost := MulSaturate(proto.MinBalance, uint64(len(u.Assets)))
	min = AddSaturate(min, assetCost)

	// Base MinBalance for each created application
	appCreationCost := MulSaturate(proto.AppFlatParamsMinBalance, uint64(len(u.AppParams)))
	min = AddSaturate(min, appCreationCost)

	// Base MinBalance for each opted in application
	appOptInCost := MulSaturate(proto.AppFlatOptInMinBalance, uint64(len(u.AppLocalStates)))
	min = AddSaturate(min, appOptInCost)

	// MinBalance for state usage measured by LocalStateSchemas and
	// GlobalStateSchemas
	schemaCost := u.TotalAppSchema.MinBalance(proto)
	min = AddSaturate(min, schemaCost.Raw)

	return MicroAlgos{Raw: min}
}

// Clone returns a deep copy of an AccountData.
func (u AccountData) Clone() AccountData {
	res := u
	if u.AssetParams != nil {
		res.AssetParams = make(map[AssetIndex]AssetParams, len(u.AssetParams))
		for k, v := range u.AssetParams {
			res.AssetParams[k] = v
		}
	}
	if u.Assets != nil {
		res.Assets = make(map[AssetIndex]AssetHolding, len(u.Assets))
		for k, v := range u.Assets {
			res.Assets[k] = v
		}
	}
	if u.AppLocalStates != nil {
		res.AppLocalStates = make(map[AppIndex]AppLocalState, len(u.AppLocalStates))
		for k, v := range u.AppLocalStates {
			res.AppLocalStates[k] = v.Clone()
		}
	}
	if u.AppParams != nil {
		res.AppParams = make(map[AppIndex]AppParams, len(u.AppParams))
		for k, v := range u.AppParams {
			res.AppParams[k] = v.Clone()
		}
	}
	return res
}

// IsZero checks if an AccountData value is the same as its zero value.
func (u AccountData) IsZero() bool {
	return u.MicroAlgos.IsZero() &&
		len(u.AssetParams) == 0 && len(u.Assets) == 0 &&
		len(u.AppLocalStates) == 0 && len(u.AppParams) == 0 &&
		u.AuthAddr.IsZero()
}

// BalanceRecord pairs an account's address with its associated data.
type BalanceRecord struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Addr Address `codec:"addr"`

	AccountData
}

// ToBeHashed implements the crypto.Hashable interface
func (u BalanceRecord) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.BalanceRecord, protocol.Encode(&u)
}
