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
	"github.com/algorand/scl-runtime/protocol"
)

// TxnField is an enum type for `txn` and `gtxn`
type TxnField int

const (
	// Sender Transaction.Sender
	Sender TxnField = iota
	// Fee Transaction.Fee
	Fee
	// FirstValid Transaction.FirstValid
	FirstValid
	// FirstValidTime is reserved and always rejects
	FirstValidTime
	// LastValid Transaction.LastValid
	LastValid
	// Note Transaction.Note
	Note
	// Lease Transaction.Lease
	Lease
	// Receiver Transaction.Receiver
	Receiver
	// Amount Transaction.Amount
	Amount
	// CloseRemainderTo Transaction.CloseRemainderTo
	CloseRemainderTo
	// VotePK Transaction.VotePK
	VotePK
	// SelectionPK Transaction.SelectionPK
	SelectionPK
	// VoteFirst Transaction.VoteFirst
	VoteFirst
	// VoteLast Transaction.VoteLast
	VoteLast
	// VoteKeyDilution Transaction.VoteKeyDilution
	VoteKeyDilution
	// Type Transaction.Type
	Type
	// TypeEnum int(Transaction.Type)
	TypeEnum
	// XferAsset Transaction.XferAsset
	XferAsset
	// AssetAmount Transaction.AssetAmount
	AssetAmount
	// AssetSender Transaction.AssetSender
	AssetSender
	// AssetReceiver Transaction.AssetReceiver
	AssetReceiver
	// AssetCloseTo Transaction.AssetCloseTo
	AssetCloseTo
	// GroupIndex i for txngroup[i] == Txn
	GroupIndex
	// TxID Transaction.ID()
	TxID
	// ApplicationID basics.AppIndex
	ApplicationID
	// OnCompletion OnCompletion
	OnCompletion
	// ApplicationArgs [][]byte
	ApplicationArgs
	// NumAppArgs len(ApplicationArgs)
	NumAppArgs
	// Accounts []basics.Address
	Accounts
	// NumAccounts len(Accounts)
	NumAccounts
	// ApprovalProgram []byte
	ApprovalProgram
	// ClearStateProgram []byte
	ClearStateProgram
	// RekeyTo basics.Address
	RekeyTo
	// ConfigAsset basics.AssetIndex
	ConfigAsset
	// ConfigAssetTotal AssetParams.Total
	ConfigAssetTotal
	// ConfigAssetDecimals AssetParams.Decimals
	ConfigAssetDecimals
	// ConfigAssetDefaultFrozen AssetParams.DefaultFrozen
	ConfigAssetDefaultFrozen
	// ConfigAssetUnitName AssetParams.UnitName
	ConfigAssetUnitName
	// ConfigAssetName AssetParams.AssetName
	ConfigAssetName
	// ConfigAssetURL AssetParams.URL
	ConfigAssetURL
	// ConfigAssetMetadataHash AssetParams.MetadataHash
	ConfigAssetMetadataHash
	// ConfigAssetManager AssetParams.Manager
	ConfigAssetManager
	// ConfigAssetReserve AssetParams.Reserve
	ConfigAssetReserve
	// ConfigAssetFreeze AssetParams.Freeze
	ConfigAssetFreeze
	// ConfigAssetClawback AssetParams.Clawback
	ConfigAssetClawback
	// FreezeAsset basics.AssetIndex
	FreezeAsset
	// FreezeAssetAccount basics.Address
	FreezeAssetAccount
	// FreezeAssetFrozen bool
	FreezeAssetFrozen
	// Assets []basics.AssetIndex
	Assets
	// NumAssets len(ForeignAssets)
	NumAssets
	// Applications []basics.AppIndex
	Applications
	// NumApplications len(ForeignApps)
	NumApplications
	// GlobalNumUint uint64
	GlobalNumUint
	// GlobalNumByteSlice uint64
	GlobalNumByteSlice
	// LocalNumUint uint64
	LocalNumUint
	// LocalNumByteSlice uint64
	LocalNumByteSlice

	invalidTxnField // fence for some setup that loops from Sender..invalidTxnField
)

var txnFieldNames = [...]string{
	"Sender", "Fee", "FirstValid", "FirstValidTime", "LastValid", "Note",
	"Lease", "Receiver", "Amount", "CloseRemainderTo", "VotePK",
	"SelectionPK", "VoteFirst", "VoteLast", "VoteKeyDilution", "Type",
	"TypeEnum", "XferAsset", "AssetAmount", "AssetSender", "AssetReceiver",
	"AssetCloseTo", "GroupIndex", "TxID", "ApplicationID", "OnCompletion",
	"ApplicationArgs", "NumAppArgs", "Accounts", "NumAccounts",
	"ApprovalProgram", "ClearStateProgram", "RekeyTo", "ConfigAsset",
	"ConfigAssetTotal", "ConfigAssetDecimals", "ConfigAssetDefaultFrozen",
	"ConfigAssetUnitName", "ConfigAssetName", "ConfigAssetURL",
	"ConfigAssetMetadataHash", "ConfigAssetManager", "ConfigAssetReserve",
	"ConfigAssetFreeze", "ConfigAssetClawback", "FreezeAsset",
	"FreezeAssetAccount", "FreezeAssetFrozen", "Assets", "NumAssets",
	"Applications", "NumApplications", "GlobalNumUint", "GlobalNumByteSlice",
	"LocalNumUint", "LocalNumByteSlice",
}

func (f TxnField) String() string {
	if f >= 0 && int(f) < len(txnFieldNames) {
		return txnFieldNames[f]
	}
	return "?"
}

type txnFieldSpec struct {
	field   TxnField
	ftype   StackType
	array   bool
	version uint64
}

var txnFieldSpecs = []txnFieldSpec{
	{Sender, StackBytes, false, 0},
	{Fee, StackUint64, false, 0},
	{FirstValid, StackUint64, false, 0},
	{FirstValidTime, StackUint64, false, 0},
	{LastValid, StackUint64, false, 0},
	{Note, StackBytes, false, 0},
	{Lease, StackBytes, false, 0},
	{Receiver, StackBytes, false, 0},
	{Amount, StackUint64, false, 0},
	{CloseRemainderTo, StackBytes, false, 0},
	{VotePK, StackBytes, false, 0},
	{SelectionPK, StackBytes, false, 0},
	{VoteFirst, StackUint64, false, 0},
	{VoteLast, StackUint64, false, 0},
	{VoteKeyDilution, StackUint64, false, 0},
	{Type, StackBytes, false, 0},
	{TypeEnum, StackUint64, false, 0},
	{XferAsset, StackUint64, false, 0},
	{AssetAmount, StackUint64, false, 0},
	{AssetSender, StackBytes, false, 0},
	{AssetReceiver, StackBytes, false, 0},
	{AssetCloseTo, StackBytes, false, 0},
	{GroupIndex, StackUint64, false, 0},
	{TxID, StackBytes, false, 0},
	{ApplicationID, StackUint64, false, 2},
	{OnCompletion, StackUint64, false, 2},
	{ApplicationArgs, StackBytes, true, 2},
	{NumAppArgs, StackUint64, false, 2},
	{Accounts, StackBytes, true, 2},
	{NumAccounts, StackUint64, false, 2},
	{ApprovalProgram, StackBytes, false, 2},
	{ClearStateProgram, StackBytes, false, 2},
	{RekeyTo, StackBytes, false, 2},
	{ConfigAsset, StackUint64, false, 2},
	{ConfigAssetTotal, StackUint64, false, 2},
	{ConfigAssetDecimals, StackUint64, false, 2},
	{ConfigAssetDefaultFrozen, StackUint64, false, 2},
	{ConfigAssetUnitName, StackBytes, false, 2},
	{ConfigAssetName, StackBytes, false, 2},
	{ConfigAssetURL, StackBytes, false, 2},
	{ConfigAssetMetadataHash, StackBytes, false, 2},
	{ConfigAssetManager, StackBytes, false, 2},
	{ConfigAssetReserve, StackBytes, false, 2},
	{ConfigAssetFreeze, StackBytes, false, 2},
	{ConfigAssetClawback, StackBytes, false, 2},
	{FreezeAsset, StackUint64, false, 2},
	{FreezeAssetAccount, StackBytes, false, 2},
	{FreezeAssetFrozen, StackUint64, false, 2},
	{Assets, StackUint64, true, 3},
	{NumAssets, StackUint64, false, 3},
	{Applications, StackUint64, true, 3},
	{NumApplications, StackUint64, false, 3},
	{GlobalNumUint, StackUint64, false, 3},
	{GlobalNumByteSlice, StackUint64, false, 3},
	{LocalNumUint, StackUint64, false, 3},
	{LocalNumByteSlice, StackUint64, false, 3},
}

var txnFieldSpecByField map[TxnField]txnFieldSpec
var txnFieldSpecByName map[string]txnFieldSpec

// TxnTypeNames is the values of Txn.Type in enum order
var TxnTypeNames = []string{
	string(protocol.UnknownTx),
	string(protocol.PaymentTx),
	string(protocol.KeyRegistrationTx),
	string(protocol.AssetConfigTx),
	string(protocol.AssetTransferTx),
	string(protocol.AssetFreezeTx),
	string(protocol.ApplicationCallTx),
}

// map TxnTypeName to its enum index, for `txn TypeEnum`
var txnTypeIndexes map[string]uint64

// GlobalField is an enum for `global` opcode
type GlobalField uint64

const (
	// MinTxnFee ConsensusParams.MinTxnFee
	MinTxnFee GlobalField = iota
	// MinBalance ConsensusParams.MinBalance
	MinBalance
	// MaxTxnLife ConsensusParams.MaxTxnLife
	MaxTxnLife
	// ZeroAddress [32]byte{0...}
	ZeroAddress
	// GroupSize len(txn group)
	GroupSize

	// v2

	// LogicSigVersion ConsensusParams.LogicSigVersion
	LogicSigVersion
	// Round is the injected round counter
	Round
	// LatestTimestamp is the injected clock
	LatestTimestamp
	// CurrentApplicationID uint64
	CurrentApplicationID

	// v3

	// CreatorAddress [32]byte
	CreatorAddress

	invalidGlobalField
)

var globalFieldNames = [...]string{
	"MinTxnFee", "MinBalance", "MaxTxnLife", "ZeroAddress", "GroupSize",
	"LogicSigVersion", "Round", "LatestTimestamp", "CurrentApplicationID",
	"CreatorAddress",
}

func (f GlobalField) String() string {
	if int(f) < len(globalFieldNames) {
		return globalFieldNames[f]
	}
	return "?"
}

type globalFieldSpec struct {
	gfield  GlobalField
	ftype   StackType
	mode    runMode
	version uint64
}

var globalFieldSpecs = []globalFieldSpec{
	{MinTxnFee, StackUint64, modeAny, 0},
	{MinBalance, StackUint64, modeAny, 0},
	{MaxTxnLife, StackUint64, modeAny, 0},
	{ZeroAddress, StackBytes, modeAny, 0},
	{GroupSize, StackUint64, modeAny, 0},
	{LogicSigVersion, StackUint64, modeAny, 2},
	{Round, StackUint64, runModeApplication, 2},
	{LatestTimestamp, StackUint64, runModeApplication, 2},
	{CurrentApplicationID, StackUint64, runModeApplication, 2},
	{CreatorAddress, StackBytes, runModeApplication, 3},
}

var globalFieldSpecByField map[GlobalField]globalFieldSpec
var globalFieldSpecByName map[string]globalFieldSpec

// AssetHoldingField is an enum for `asset_holding_get` opcode
type AssetHoldingField int

const (
	// AssetBalance AssetHolding.Amount
	AssetBalance AssetHoldingField = iota
	// AssetFrozen AssetHolding.Frozen
	AssetFrozen
	invalidAssetHoldingField
)

var assetHoldingFieldNames = [...]string{"AssetBalance", "AssetFrozen"}

func (f AssetHoldingField) String() string {
	if f >= 0 && int(f) < len(assetHoldingFieldNames) {
		return assetHoldingFieldNames[f]
	}
	return "?"
}

type assetHoldingFieldSpec struct {
	field AssetHoldingField
	ftype StackType
}

var assetHoldingFieldSpecs = []assetHoldingFieldSpec{
	{AssetBalance, StackUint64},
	{AssetFrozen, StackUint64},
}

var assetHoldingFieldSpecByField map[AssetHoldingField]assetHoldingFieldSpec
var assetHoldingFieldSpecByName map[string]assetHoldingFieldSpec

// AssetParamsField is an enum for `asset_params_get` opcode
type AssetParamsField int

const (
	// AssetTotal AssetParams.Total
	AssetTotal AssetParamsField = iota
	// AssetDecimals AssetParams.Decimals
	AssetDecimals
	// AssetDefaultFrozen AssetParams.DefaultFrozen
	AssetDefaultFrozen
	// AssetUnitName AssetParams.UnitName
	AssetUnitName
	// AssetName AssetParams.AssetName
	AssetName
	// AssetURL AssetParams.URL
	AssetURL
	// AssetMetadataHash AssetParams.MetadataHash
	AssetMetadataHash
	// AssetManager AssetParams.Manager
	AssetManager
	// AssetReserve AssetParams.Reserve
	AssetReserve
	// AssetFreeze AssetParams.Freeze
	AssetFreeze
	// AssetClawback AssetParams.Clawback
	AssetClawback
	invalidAssetParamsField
)

var assetParamsFieldNames = [...]string{
	"AssetTotal", "AssetDecimals", "AssetDefaultFrozen", "AssetUnitName",
	"AssetName", "AssetURL", "AssetMetadataHash", "AssetManager",
	"AssetReserve", "AssetFreeze", "AssetClawback",
}

func (f AssetParamsField) String() string {
	if f >= 0 && int(f) < len(assetParamsFieldNames) {
		return assetParamsFieldNames[f]
	}
	return "?"
}

type assetParamsFieldSpec struct {
	field AssetParamsField
	ftype StackType
}

var assetParamsFieldSpecs = []assetParamsFieldSpec{
	{AssetTotal, StackUint64},
	{AssetDecimals, StackUint64},
	{AssetDefaultFrozen, StackUint64},
	{AssetUnitName, StackBytes},
	{AssetName, StackBytes},
	{AssetURL, StackBytes},
	{AssetMetadataHash, StackBytes},
	{AssetManager, StackBytes},
	{AssetReserve, StackBytes},
	{AssetFreeze, StackBytes},
	{AssetClawback, StackBytes},
}

var assetParamsFieldSpecByField map[AssetParamsField]assetParamsFieldSpec
var assetParamsFieldSpecByName map[string]assetParamsFieldSpec

func init() {
	txnFieldSpecByField = make(map[TxnField]txnFieldSpec, len(txnFieldSpecs))
	txnFieldSpecByName = make(map[string]txnFieldSpec, len(txnFieldSpecs))
	for i, s := range txnFieldSpecs {
		if int(s.field) != i {
			panic("txnFieldSpecs disjoint with TxnField enum")
		}
		txnFieldSpecByField[s.field] = s
		txnFieldSpecByName[s.field.String()] = s
	}

	globalFieldSpecByField = make(map[GlobalField]globalFieldSpec, len(globalFieldSpecs))
	globalFieldSpecByName = make(map[string]globalFieldSpec, len(globalFieldSpecs))
	for i, s := range globalFieldSpecs {
		if int(s.gfield) != i {
			panic("globalFieldSpecs disjoint with GlobalField enum")
		}
		globalFieldSpecByField[s.gfield] = s
		globalFieldSpecByName[s.gfield.String()] = s
	}

	assetHoldingFieldSpecByField = make(map[AssetHoldingField]assetHoldingFieldSpec, len(assetHoldingFieldSpecs))
	assetHoldingFieldSpecByName = make(map[string]assetHoldingFieldSpec, len(assetHoldingFieldSpecs))
	for _, s := range assetHoldingFieldSpecs {
		assetHoldingFieldSpecByField[s.field] = s
		assetHoldingFieldSpecByName[s.field.String()] = s
	}

	assetParamsFieldSpecByField = make(map[AssetParamsField]assetParamsFieldSpec, len(assetParamsFieldSpecs))
	assetParamsFieldSpecByName = make(map[string]assetParamsFieldSpec, len(assetParamsFieldSpecs))
	for _, s := range assetParamsFieldSpecs {
		assetParamsFieldSpecByField[s.field] = s
		assetParamsFieldSpecByName[s.field.String()] = s
	}

	txnTypeIndexes = make(map[string]uint64, len(TxnTypeNames))
	for i, tt := range TxnTypeNames {
		txnTypeIndexes[tt] = uint64(i)
	}
}
