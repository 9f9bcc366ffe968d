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
	"strings"
)

// LogicVersion defines default assembler and max eval versions
const LogicVersion = 4

// rekeyingEnabledVersion is the version where RekeyTo functionality was
// enabled. This is important to remember so that old accounts cannot be
// maliciously or accidentally rekeyed. Do not edit!
const rekeyingEnabledVersion = 2

// appsEnabledVersion is the version where ApplicationCall functionality was
// enabled. We use this to disallow v0 and v1 programs from being used with
// applications. Do not edit!
const appsEnabledVersion = 2

// directRefEnabledVersion is the version where opcodes that reference
// accounts, asas, and apps may do so directly, not requiring using an index
// into arrays.
const directRefEnabledVersion = 4

type evalFunc func(cx *EvalContext)
type asmFunc func(ops *OpStream, instr *Instruction, args []string) error

type runMode uint64

const (
	// runModeSignature is SCL in LogicSig execution
	runModeSignature runMode = 1 << iota

	// runModeApplication is SCL in application/stateful mode
	runModeApplication

	// local constant, run in any mode
	modeAny = runModeSignature | runModeApplication
)

func (r runMode) String() string {
	switch r {
	case runModeSignature:
		return "Signature"
	case runModeApplication:
		return "Application"
	case modeAny:
		return "Any"
	default:
	}
	return "Unknown"
}

// Proto describes the "stack behavior" of an opcode, what it pops as
// arguments and pushes onto the stack as return values.
type Proto struct {
	Arg    StackTypes // what gets popped from the stack
	Return StackTypes // what gets pushed to the stack
}

func parseStackTypes(spec string) StackTypes {
	if spec == "" {
		return nil
	}
	types := make(StackTypes, len(spec))
	for i, letter := range spec {
		switch letter {
		case 'a':
			types[i] = StackAny
		case 'b':
			types[i] = StackBytes
		case 'i':
			types[i] = StackUint64
		case 'x':
			types[i] = StackNone
		default:
			panic(spec)
		}
	}
	return types
}

func proto(signature string) Proto {
	parts := strings.Split(signature, ":")
	if len(parts) != 2 {
		panic(signature)
	}
	return Proto{parseStackTypes(parts[0]), parseStackTypes(parts[1])}
}

// OpSpec defines an opcode
type OpSpec struct {
	Name string
	op   evalFunc // evaluate the op
	asm  asmFunc  // parse and validate the immediate arguments, nil when none
	Proto
	Version uint64  // SCL version opcode introduced
	Modes   runMode // all modes that opcode can run in
	Cost    int
}

// AlwaysExits is true iff the opcode always ends the program.
func (spec *OpSpec) AlwaysExits() bool {
	return len(spec.Return) == 1 && spec.Return[0] == StackNone
}

// OpSpecs is the table of operations that can be assembled and evaluated.
//
// Any changes should be reflected in the language spec.
var OpSpecs = []OpSpec{
	{"err", opErr, nil, proto(":x"), 1, modeAny, 1},
	{"sha256", opSHA256, nil, proto("b:b"), 1, modeAny, 35},
	{"keccak256", opKeccak256, nil, proto("b:b"), 1, modeAny, 130},
	{"sha512_256", opSHA512_256, nil, proto("b:b"), 1, modeAny, 45},
	{"ed25519verify", opEd25519Verify, nil, proto("bbb:i"), 1, modeAny, 1},

	{"+", opPlus, nil, proto("ii:i"), 1, modeAny, 1},
	{"-", opMinus, nil, proto("ii:i"), 1, modeAny, 1},
	{"/", opDiv, nil, proto("ii:i"), 1, modeAny, 1},
	{"*", opMul, nil, proto("ii:i"), 1, modeAny, 1},
	{"<", opLt, nil, proto("ii:i"), 1, modeAny, 1},
	{">", opGt, nil, proto("ii:i"), 1, modeAny, 1},
	{"<=", opLe, nil, proto("ii:i"), 1, modeAny, 1},
	{">=", opGe, nil, proto("ii:i"), 1, modeAny, 1},
	{"&&", opAnd, nil, proto("ii:i"), 1, modeAny, 1},
	{"||", opOr, nil, proto("ii:i"), 1, modeAny, 1},
	{"==", opEq, nil, proto("aa:i"), 1, modeAny, 1},
	{"!=", opNeq, nil, proto("aa:i"), 1, modeAny, 1},
	{"!", opNot, nil, proto("i:i"), 1, modeAny, 1},
	{"len", opLen, nil, proto("b:i"), 1, modeAny, 1},
	{"itob", opItob, nil, proto("i:b"), 1, modeAny, 1},
	{"btoi", opBtoi, nil, proto("b:i"), 1, modeAny, 1},
	{"%", opModulo, nil, proto("ii:i"), 1, modeAny, 1},
	{"|", opBitOr, nil, proto("ii:i"), 1, modeAny, 1},
	{"&", opBitAnd, nil, proto("ii:i"), 1, modeAny, 1},
	{"^", opBitXor, nil, proto("ii:i"), 1, modeAny, 1},
	{"~", opBitNot, nil, proto("i:i"), 1, modeAny, 1},
	{"mulw", opMulw, nil, proto("ii:ii"), 1, modeAny, 1},
	{"addw", opAddw, nil, proto("ii:ii"), 2, modeAny, 1},

	{"intcblock", opIntConstBlock, asmIntCBlock, proto(":"), 1, modeAny, 1},
	{"intc", opIntConstLoad, asmIntC, proto(":i"), 1, modeAny, 1},
	{"intc_0", opIntConst0, nil, proto(":i"), 1, modeAny, 1},
	{"intc_1", opIntConst1, nil, proto(":i"), 1, modeAny, 1},
	{"intc_2", opIntConst2, nil, proto(":i"), 1, modeAny, 1},
	{"intc_3", opIntConst3, nil, proto(":i"), 1, modeAny, 1},
	{"bytecblock", opByteConstBlock, asmByteCBlock, proto(":"), 1, modeAny, 1},
	{"bytec", opByteConstLoad, asmByteC, proto(":b"), 1, modeAny, 1},
	{"bytec_0", opByteConst0, nil, proto(":b"), 1, modeAny, 1},
	{"bytec_1", opByteConst1, nil, proto(":b"), 1, modeAny, 1},
	{"bytec_2", opByteConst2, nil, proto(":b"), 1, modeAny, 1},
	{"bytec_3", opByteConst3, nil, proto(":b"), 1, modeAny, 1},
	{"arg", opArg, asmArg, proto(":b"), 1, runModeSignature, 1},
	{"arg_0", opArg0, nil, proto(":b"), 1, runModeSignature, 1},
	{"arg_1", opArg1, nil, proto(":b"), 1, runModeSignature, 1},
	{"arg_2", opArg2, nil, proto(":b"), 1, runModeSignature, 1},
	{"arg_3", opArg3, nil, proto(":b"), 1, runModeSignature, 1},
	{"txn", opTxn, asmTxn, proto(":a"), 1, modeAny, 1},
	{"global", opGlobal, asmGlobal, proto(":a"), 1, modeAny, 1},
	{"gtxn", opGtxn, asmGtxn, proto(":a"), 1, modeAny, 1},
	{"load", opLoad, asmScratch, proto(":a"), 1, modeAny, 1},
	{"store", opStore, asmScratch, proto("a:"), 1, modeAny, 1},
	{"txna", opTxna, asmTxna, proto(":a"), 2, modeAny, 1},
	{"gtxna", opGtxna, asmGtxna, proto(":a"), 2, modeAny, 1},
	// Like gtxn, but gets txn index from stack, rather than immediate arg
	{"gtxns", opGtxns, asmTxn, proto("i:a"), 3, modeAny, 1},
	{"gtxnsa", opGtxnsa, asmTxna, proto("i:a"), 3, modeAny, 1},

	{"bnz", opBnz, asmBranch, proto("i:"), 1, modeAny, 1},
	{"bz", opBz, asmBranch, proto("i:"), 2, modeAny, 1},
	{"b", opB, asmBranch, proto(":"), 2, modeAny, 1},
	{"return", opReturn, nil, proto("i:x"), 2, modeAny, 1},
	{"assert", opAssert, nil, proto("i:"), 3, modeAny, 1},
	{"pop", opPop, nil, proto("a:"), 1, modeAny, 1},
	{"dup", opDup, nil, proto("a:aa"), 1, modeAny, 1},
	{"dup2", opDup2, nil, proto("aa:aaaa"), 2, modeAny, 1},
	// There must be at least one thing on the stack for dig, but
	// it would be nice if we did better checking than that.
	{"dig", opDig, asmDig, proto("a:aa"), 3, modeAny, 1},
	{"swap", opSwap, nil, proto("aa:aa"), 3, modeAny, 1},
	{"select", opSelect, nil, proto("aai:a"), 3, modeAny, 1},

	// byteslice processing / StringOps
	{"concat", opConcat, nil, proto("bb:b"), 2, modeAny, 1},
	{"substring", opSubstring, asmSubstring, proto("b:b"), 2, modeAny, 1},
	{"substring3", opSubstring3, nil, proto("bii:b"), 2, modeAny, 1},
	{"getbit", opGetBit, nil, proto("ai:i"), 3, modeAny, 1},
	{"setbit", opSetBit, nil, proto("aii:a"), 3, modeAny, 1},
	{"getbyte", opGetByte, nil, proto("bi:i"), 3, modeAny, 1},
	{"setbyte", opSetByte, nil, proto("bii:b"), 3, modeAny, 1},

	{"balance", opBalance, nil, proto("a:i"), 2, runModeApplication, 1},
	{"app_opted_in", opAppOptedIn, nil, proto("ai:i"), 2, runModeApplication, 1},
	{"app_local_get", opAppLocalGet, nil, proto("ab:a"), 2, runModeApplication, 1},
	{"app_local_get_ex", opAppLocalGetEx, nil, proto("aib:ai"), 2, runModeApplication, 1},
	{"app_global_get", opAppGlobalGet, nil, proto("b:a"), 2, runModeApplication, 1},
	{"app_global_get_ex", opAppGlobalGetEx, nil, proto("ib:ai"), 2, runModeApplication, 1},
	{"app_local_put", opAppLocalPut, nil, proto("aba:"), 2, runModeApplication, 1},
	{"app_global_put", opAppGlobalPut, nil, proto("ba:"), 2, runModeApplication, 1},
	{"app_local_del", opAppLocalDel, nil, proto("ab:"), 2, runModeApplication, 1},
	{"app_global_del", opAppGlobalDel, nil, proto("b:"), 2, runModeApplication, 1},

	{"asset_holding_get", opAssetHoldingGet, asmAssetHolding, proto("ai:ai"), 2, runModeApplication, 1},
	{"asset_params_get", opAssetParamsGet, asmAssetParams, proto("i:ai"), 2, runModeApplication, 1},

	{"min_balance", opMinBalance, nil, proto("a:i"), 3, runModeApplication, 1},

	// Immediate bytes and ints. Smaller code size for single use of constant.
	{"pushbytes", opPushBytes, asmPushBytes, proto(":b"), 3, modeAny, 1},
	{"pushint", opPushInt, asmPushInt, proto(":i"), 3, modeAny, 1},
}

// labelSpec is the pseudo-spec assigned to `label:` instructions. It executes
// as a no-op; branches search for it by name.
var labelSpec = OpSpec{
	Name:  "label",
	op:    opLabel,
	Proto: proto(":"),
	Modes: modeAny,
	Cost:  0,
}

// OpsByName map for each version, mapping opcode name to OpSpec
var OpsByName [LogicVersion + 1]map[string]OpSpec

// Migration from v1 to v2: v1 allowed execution of programs with version 0.
// There are no opcodes with version 0 so that the v2 evaluator rejects any
// program with version 0. To preserve backward compatibility version 0 map is
// populated with v1 opcodes with the version overwritten to 0.
func init() {
	OpsByName[0] = make(map[string]OpSpec, 256)
	OpsByName[1] = make(map[string]OpSpec, 256)
	for _, oi := range OpSpecs {
		if oi.Version == 1 {
			cp := oi
			cp.Version = 0
			OpsByName[0][oi.Name] = cp

			OpsByName[1][oi.Name] = oi
		}
	}
	for v := uint64(2); v <= LogicVersion; v++ {
		OpsByName[v] = make(map[string]OpSpec, 256)
		for opName, oi := range OpsByName[v-1] {
			OpsByName[v][opName] = oi
		}
		for _, oi := range OpSpecs {
			if oi.Version == v {
				OpsByName[v][oi.Name] = oi
			}
		}
	}
}
