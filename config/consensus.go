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

package config

// ConsensusParams specifies settings that might vary based on the
// particular version of the protocol being executed.
type ConsensusParams struct {
	// MaxTxnLife is how long a transaction can be live for:
	// the maximum difference between LastValid and FirstValid.
	MaxTxnLife uint64

	// MinBalance specifies the minimum balance that can appear in
	// an account.  To spend money below MinBalance requires issuing
	// an account-closing transaction, which transfers all of the
	// money out of the account, and deletes the account.
	MinBalance uint64

	// MinTxnFee specifies the minimum fee allowed on a transaction.
	MinTxnFee uint64

	// MaxTxnNoteBytes is the maximum length of the Note field.
	MaxTxnNoteBytes int

	// MaxTxGroupSize is the maximum number of transactions in a single group.
	MaxTxGroupSize int

	// LogicSigVersion is the maximum version of an SCL program that may
	// execute.  0 disables logic entirely.
	LogicSigVersion uint64

	// LogicSigMaxCost is the execution budget of a stateless program.
	LogicSigMaxCost uint64

	// MaxLogicSigArguments is the maximum number of arguments attached to
	// a logic signature.
	MaxLogicSigArguments int

	// MaxAppProgramCost is the execution budget of a stateful program.
	MaxAppProgramCost int

	// MaxAppKeyLen is the maximum length of a key in application state.
	MaxAppKeyLen int

	// MaxAppBytesValueLen is the maximum length of a bytes value in
	// application state.
	MaxAppBytesValueLen int

	// MaxAppArgs is the maximum number of arguments to an application call.
	MaxAppArgs int

	// MaxAppTxnAccounts is the maximum number of addresses in the app call
	// Accounts array.
	MaxAppTxnAccounts int

	// MaxAppTxnForeignApps is the maximum number of foreign app references.
	MaxAppTxnForeignApps int

	// MaxAppTxnForeignAssets is the maximum number of foreign asset
	// references.
	MaxAppTxnForeignAssets int

	// MaxAppsCreated is the maximum number of applications a single account
	// can create.
	MaxAppsCreated int

	// MaxAppsOptedIn is the maximum number of applications a single account
	// can opt in to.
	MaxAppsOptedIn int

	// MaxAssetsPerAccount is the maximum number of assets a single account
	// can create or hold.
	MaxAssetsPerAccount int

	// MaxAssetNameBytes, MaxAssetUnitNameBytes, MaxAssetURLBytes bound the
	// respective asset parameter strings.
	MaxAssetNameBytes     int
	MaxAssetUnitNameBytes int
	MaxAssetURLBytes      int

	// MaxAssetDecimals is the maximum value of an asset's Decimals field.
	MaxAssetDecimals uint32

	// MaxLocalSchemaEntries and MaxGlobalSchemaEntries bound declared
	// application state schemas.
	MaxLocalSchemaEntries  uint64
	MaxGlobalSchemaEntries uint64

	// AppFlatParamsMinBalance is the flat MinBalance requirement for
	// creating a single application.
	AppFlatParamsMinBalance uint64

	// AppFlatOptInMinBalance is the flat MinBalance requirement for opting
	// in to a single application.
	AppFlatOptInMinBalance uint64

	// SchemaMinBalancePerEntry is the MinBalance requirement per key/value
	// entry in LocalState or GlobalState.
	SchemaMinBalancePerEntry uint64

	// SchemaUintMinBalance is the additional MinBalance requirement per
	// integer entry.
	SchemaUintMinBalance uint64

	// SchemaBytesMinBalance is the additional MinBalance requirement per
	// bytes entry.
	SchemaBytesMinBalance uint64
}

// Params returns the consensus parameters the runtime executes under.  A
// caller that wants different limits copies and modifies the returned struct
// before constructing a Runtime.
func Params() ConsensusParams {
	return ConsensusParams{
		MaxTxnLife:      1000,
		MinBalance:      10000,
		MinTxnFee:       1000,
		MaxTxnNoteBytes: 1024,
		MaxTxGroupSize:  16,

		LogicSigVersion:      4,
		LogicSigMaxCost:      700,
		MaxLogicSigArguments: 255,

		MaxAppProgramCost:   20000,
		MaxAppKeyLen:        64,
		MaxAppBytesValueLen: 128,

		MaxAppArgs:             16,
		MaxAppTxnAccounts:      4,
		MaxAppTxnForeignApps:   8,
		MaxAppTxnForeignAssets: 8,

		MaxAppsCreated:      10,
		MaxAppsOptedIn:      10,
		MaxAssetsPerAccount: 1000,

		MaxAssetNameBytes:     32,
		MaxAssetUnitNameBytes: 8,
		MaxAssetURLBytes:      96,
		MaxAssetDecimals:      19,

		MaxLocalSchemaEntries:  16,
		MaxGlobalSchemaEntries: 64,

		AppFlatParamsMinBalance:  100000,
		AppFlatOptInMinBalance:   100000,
		SchemaMinBalancePerEntry: 25000,
		SchemaUintMinBalance:     3500,
		SchemaBytesMinBalance:    25000,
	}
}
