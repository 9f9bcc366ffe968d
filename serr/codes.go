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

package serr

// Code identifies a class of runtime failure. Codes are stable: they are part
// of the runtime's error contract and may not be renumbered.
type Code int

// Assembly errors (10xx).
const (
	Unclassified Code = 1000 + iota
	PragmaNotAtFirstLine
	PragmaVersionError
	AssertFieldLength
	UnknownOpcode
	InvalidAddr
	UnknownDecodeType
	UnknownAssetField
	UnknownGlobalField
	UnknownTxField
)

// Interpreter errors (11xx).
const (
	InvalidType Code = 1101 + iota
	Uint64Overflow
	Uint64Underflow
	ZeroDiv
	InvalidUint8
	SetBitValueError
	SubstringEndBeforeStart
	SubstringRangeBeyond
	LongInputError
	ConcatError
	AssertStackLength
	AssertArrLength
	IndexOutOfBound
	InvalidOpArg
	InvalidStackElem
	LogicRejection
	TealEncounteredErr
	InvalidFieldType
	LabelNotFound
	ExecutionModeNotValid
	MaxCostExceeded
)

// World / engine errors (13xx).
const (
	AccountDoesNotExist Code = 1301 + iota
	AppNotFound
	AssetNotFound
	AsaNotOptin
	AccountAssetFrozen
	ManagerError
	FreezeError
	ClawbackError
	InsufficientAccountBalance
	InsufficientAccountAssets
	InvalidTransactionParams
	InvalidRound
	RejectedByLogic
	LogicSignatureNotFound
	LogicSignatureValidationFailed
)

var kindNames = map[Code]string{
	Unclassified:            "UNCLASSIFIED",
	PragmaNotAtFirstLine:    "PRAGMA_NOT_AT_FIRST_LINE",
	PragmaVersionError:      "PRAGMA_VERSION_ERROR",
	AssertFieldLength:       "ASSERT_FIELD_LENGTH",
	UnknownOpcode:           "UNKNOWN_OPCODE",
	InvalidAddr:             "INVALID_ADDR",
	UnknownDecodeType:       "UNKNOWN_DECODE_TYPE",
	UnknownAssetField:       "UNKNOWN_ASSET_FIELD",
	UnknownGlobalField:      "UNKNOWN_GLOBAL_FIELD",
	UnknownTxField:          "UNKNOWN_TX_FIELD",
	InvalidType:             "INVALID_TYPE",
	Uint64Overflow:          "UINT64_OVERFLOW",
	Uint64Underflow:         "UINT64_UNDERFLOW",
	ZeroDiv:                 "ZERO_DIV",
	InvalidUint8:            "INVALID_UINT8",
	SetBitValueError:        "SET_BIT_VALUE_ERROR",
	SubstringEndBeforeStart: "SUBSTRING_END_BEFORE_START",
	SubstringRangeBeyond:    "SUBSTRING_RANGE_BEYOND",
	LongInputError:          "LONG_INPUT_ERROR",
	ConcatError:             "CONCAT_ERROR",
	AssertStackLength:       "ASSERT_STACK_LENGTH",
	AssertArrLength:         "ASSERT_ARR_LENGTH",
	IndexOutOfBound:         "INDEX_OUT_OF_BOUND",
	InvalidOpArg:            "INVALID_OP_ARG",
	InvalidStackElem:        "INVALID_STACK_ELEM",
	LogicRejection:          "LOGIC_REJECTION",
	TealEncounteredErr:      "TEAL_ENCOUNTERED_ERR",
	InvalidFieldType:        "INVALID_FIELD_TYPE",
	LabelNotFound:           "LABEL_NOT_FOUND",
	ExecutionModeNotValid:   "EXECUTION_MODE_NOT_VALID",
	MaxCostExceeded:         "MAX_COST_EXCEEDED",

	AccountDoesNotExist:            "ACCOUNT_DOES_NOT_EXIST",
	AppNotFound:                    "APP_NOT_FOUND",
	AssetNotFound:                  "ASSET_NOT_FOUND",
	AsaNotOptin:                    "ASA_NOT_OPTIN",
	AccountAssetFrozen:             "ACCOUNT_ASSET_FROZEN",
	ManagerError:                   "MANAGER_ERROR",
	FreezeError:                    "FREEZE_ERROR",
	ClawbackError:                  "CLAWBACK_ERROR",
	InsufficientAccountBalance:     "INSUFFICIENT_ACCOUNT_BALANCE",
	InsufficientAccountAssets:      "INSUFFICIENT_ACCOUNT_ASSETS",
	InvalidTransactionParams:       "INVALID_TRANSACTION_PARAMS",
	InvalidRound:                   "INVALID_ROUND",
	RejectedByLogic:                "REJECTED_BY_LOGIC",
	LogicSignatureNotFound:         "LOGIC_SIGNATURE_NOT_FOUND",
	LogicSignatureValidationFailed: "LOGIC_SIGNATURE_VALIDATION_FAILED",
}

// Kind returns the stable name of the code.
func (c Code) Kind() string {
	if name, ok := kindNames[c]; ok {
		return name
	}
	return "UNCLASSIFIED"
}
