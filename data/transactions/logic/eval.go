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
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"math/bits"
	"runtime"

	"golang.org/x/crypto/sha3"

	"github.com/algorand/scl-runtime/config"
	"github.com/algorand/scl-runtime/crypto"
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/data/transactions"
	"github.com/algorand/scl-runtime/logging"
	"github.com/algorand/scl-runtime/protocol"
	"github.com/algorand/scl-runtime/serr"
)

// EvalMaxVersion is the max version we can interpret and run
const EvalMaxVersion = LogicVersion

// MaxStringSize is the limit of byte string length in an SCL value
const MaxStringSize = 4096

// MaxStackDepth should not change unless gated by a version change.
const MaxStackDepth = 1000

// scratchSize is the number of scratch slots available to `load`/`store`.
const scratchSize = 256

// maxConstBlockSize bounds intcblock and bytecblock.
const maxConstBlockSize = 256

// stackValue is the type for the operand stack.
// Each stackValue is either a valid []byte value or a uint64 value.
// If (.Bytes != nil) the stackValue is a []byte value, otherwise uint64 value.
type stackValue struct {
	Uint  uint64
	Bytes []byte
}

func (sv *stackValue) argType() StackType {
	if sv.Bytes != nil {
		return StackBytes
	}
	return StackUint64
}

func (sv *stackValue) typeName() string {
	if sv.Bytes != nil {
		return "[]byte"
	}
	return "uint64"
}

func (sv *stackValue) address() (addr basics.Address, err error) {
	if len(sv.Bytes) != len(addr) {
		return basics.Address{}, serr.New(serr.InvalidType, "not an address", "expected", "address", "actual", sv.typeName())
	}
	copy(addr[:], sv.Bytes)
	return
}

func (sv *stackValue) toTealValue() (tv basics.TealValue) {
	if sv.argType() == StackBytes {
		return basics.TealValue{Type: basics.TealBytesType, Bytes: string(sv.Bytes)}
	}
	return basics.TealValue{Type: basics.TealUintType, Uint: sv.Uint}
}

func stackValueFromTealValue(tv *basics.TealValue) (sv stackValue, err error) {
	switch tv.Type {
	case basics.TealBytesType:
		sv.Bytes = []byte(tv.Bytes)
	case basics.TealUintType:
		sv.Uint = tv.Uint
	default:
		err = serr.Newf(serr.InvalidFieldType, "invalid TealValue type: %d", tv.Type)
	}
	return
}

// StackType describes the type of a value on the operand stack
type StackType byte

const (
	// StackNone in an OpSpec shows that the op pops or yields nothing
	StackNone StackType = iota

	// StackAny in an OpSpec shows that the op pops or yield any type
	StackAny

	// StackUint64 in an OpSpec shows that the op pops or yields a uint64
	StackUint64

	// StackBytes in an OpSpec shows that the op pops or yields a []byte
	StackBytes
)

// StackTypes is an alias for a list of StackType with syntactic sugar
type StackTypes []StackType

func (st StackType) String() string {
	switch st {
	case StackNone:
		return "None"
	case StackAny:
		return "any"
	case StackUint64:
		return "uint64"
	case StackBytes:
		return "[]byte"
	}
	return "internal error, unknown type"
}

func opCompat(expected, got StackType) bool {
	if expected == StackAny {
		return true
	}
	return expected == got
}

func typecheck(expected, got StackType) bool {
	return opCompat(expected, got)
}

func nilToEmpty(x []byte) []byte {
	if x == nil {
		return make([]byte, 0)
	}
	return x
}

func boolToUint(x bool) uint64 {
	if x {
		return 1
	}
	return 0
}

// ComputeMinVersion calculates the minimum safe SCL version that may be used
// by a transaction in this group. It is important to prevent newly-introduced
// transaction fields from breaking assumptions made by older versions. If one
// of the transactions in a group will execute a program whose version
// predates a given field, that field must not be set anywhere in the
// transaction group.
func ComputeMinVersion(group []transactions.SignedTxn) uint64 {
	var minVersion uint64
	for _, txn := range group {
		if !txn.Txn.RekeyTo.IsZero() {
			if minVersion < rekeyingEnabledVersion {
				minVersion = rekeyingEnabledVersion
			}
		}
		if txn.Txn.Type == "appl" {
			if minVersion < appsEnabledVersion {
				minVersion = appsEnabledVersion
			}
		}
	}
	return minVersion
}

// EvalParams contains data that comes into condition evaluation.
type EvalParams struct {
	Proto *config.ConsensusParams

	TxnGroup []transactions.SignedTxn

	logger logging.Logger

	Ledger LedgerForLogic

	// MinVersion is the minimum allowed SCL version of this program.
	// The program must reject if its version is less than this version. If
	// MinVersion is nil, we will compute it ourselves
	MinVersion *uint64
}

func (ep *EvalParams) log() logging.Logger {
	if ep.logger != nil {
		return ep.logger
	}
	return logging.Base()
}

// SetLogger installs a logger used for recovered panics and engine tracing.
func (ep *EvalParams) SetLogger(log logging.Logger) {
	ep.logger = log
}

// EvalContext is the execution context of an SCL program. It contains the
// full state of the running program, and the view of the world it may read
// and write.
type EvalContext struct {
	*EvalParams

	// determines eval mode: runModeSignature or runModeApplication
	runModeFlags runMode

	// the index of the transaction being evaluated
	GroupIndex int
	// the transaction being evaluated (initialized from GroupIndex + ep.TxnGroup)
	Txn *transactions.SignedTxn

	stack []stackValue

	appID   basics.AppIndex
	program *Program
	pc      int
	nextpc  int // -1 unless a branch or return set it
	instr   *Instruction
	err     error
	intc    []uint64
	bytec   [][]byte
	version uint64
	scratch [scratchSize]stackValue

	cost int // cost incurred so far
}

// PanicError wraps a recover() catching a panic()
type PanicError struct {
	PanicValue interface{}
	StackTrace string
}

func (pe PanicError) Error() string {
	return "panic in SCL Eval"
}

var errLogicNotSupported = serr.New(serr.PragmaVersionError, "logic evaluation not supported")

// EvalContract executes the stateful SCL program attached to the gi'th
// transaction in params as application aid.
func EvalContract(program *Program, gi int, aid basics.AppIndex, params *EvalParams) (bool, error) {
	if params.Ledger == nil {
		return false, serr.New(serr.InvalidTransactionParams, "no ledger in contract eval")
	}
	if aid == 0 {
		return false, serr.New(serr.AppNotFound, "0 appId in contract eval")
	}
	cx := EvalContext{
		EvalParams:   params,
		runModeFlags: runModeApplication,
		GroupIndex:   gi,
		Txn:          &params.TxnGroup[gi],
		appID:        aid,
	}
	return eval(program, &cx)
}

// EvalSignature evaluates the logicsig of the gi'th transaction in params.
// A program passes successfully if it finishes with one int element on the
// stack that is non-zero.
func EvalSignature(gi int, params *EvalParams) (bool, error) {
	cx := EvalContext{
		EvalParams:   params,
		runModeFlags: runModeSignature,
		GroupIndex:   gi,
		Txn:          &params.TxnGroup[gi],
	}
	program, err := Assemble(string(cx.Txn.Lsig.Logic))
	if err != nil {
		return false, err
	}
	return eval(program, &cx)
}

// eval implementation
// A program passes successfully if it finishes with one int element on the
// stack that is non-zero.
func eval(program *Program, cx *EvalContext) (pass bool, err error) {
	defer func() {
		if x := recover(); x != nil {
			buf := make([]byte, 16*1024)
			stlen := runtime.Stack(buf, false)
			pass = false
			err = PanicError{x, string(buf[:stlen])}
			cx.EvalParams.log().Errorf("recovered panic in Eval: %v", x)
		}
	}()

	if (cx.EvalParams.Proto == nil) || (cx.EvalParams.Proto.LogicSigVersion == 0) {
		return false, errLogicNotSupported
	}
	if cx.Txn.Lsig.Args != nil && len(cx.Txn.Lsig.Args) > cx.EvalParams.Proto.MaxLogicSigArguments {
		return false, serr.New(serr.AssertArrLength, "logic signature has too many arguments")
	}

	err = versionCheck(program, cx.EvalParams)
	if err != nil {
		return false, err
	}

	cx.version = program.Version
	cx.pc = 0
	cx.nextpc = -1
	cx.stack = make([]stackValue, 0, 10)
	cx.program = program

	for (cx.err == nil) && (cx.pc < len(cx.program.Instructions)) {
		cx.step()
	}
	if cx.err != nil {
		return false, cx.err
	}
	if len(cx.stack) != 1 {
		return false, serr.Newf(serr.InvalidStackElem, "stack len is %d instead of 1", len(cx.stack))
	}
	if cx.stack[0].Bytes != nil {
		return false, serr.New(serr.InvalidStackElem, "stack finished with bytes not int")
	}
	if cx.stack[0].Uint == 0 {
		return false, serr.New(serr.LogicRejection, "rejected by logic")
	}

	return true, nil
}

func versionCheck(program *Program, params *EvalParams) error {
	version := program.Version
	if version > EvalMaxVersion {
		return serr.Newf(serr.PragmaVersionError, "program version %d greater than max supported version %d", version, EvalMaxVersion)
	}
	if version > params.Proto.LogicSigVersion {
		return serr.Newf(serr.PragmaVersionError, "program version %d greater than protocol supported version %d", version, params.Proto.LogicSigVersion)
	}

	if params.MinVersion == nil {
		minVersion := ComputeMinVersion(params.TxnGroup)
		params.MinVersion = &minVersion
	}
	if version < *params.MinVersion {
		return serr.Newf(serr.PragmaVersionError, "program version must be >= %d for this transaction group, but have version %d", *params.MinVersion, version)
	}
	return nil
}

func (cx *EvalContext) remainingBudget() int {
	if cx.runModeFlags == runModeSignature {
		return int(cx.Proto.LogicSigMaxCost) - cx.cost
	}
	return cx.Proto.MaxAppProgramCost - cx.cost
}

func (cx *EvalContext) step() {
	instr := &cx.program.Instructions[cx.pc]
	spec := instr.spec
	cx.instr = instr

	if (cx.runModeFlags & spec.Modes) == 0 {
		cx.err = cx.evalErr(serr.ExecutionModeNotValid, "%s not allowed in current mode", spec.Name)
		return
	}

	// check args for stack underflow and types
	if len(cx.stack) < len(spec.Arg) {
		cx.err = cx.evalErr(serr.AssertStackLength, "stack underflow in %s", spec.Name)
		return
	}
	first := len(cx.stack) - len(spec.Arg)
	for i, argType := range spec.Arg {
		if !opCompat(argType, cx.stack[first+i].argType()) {
			err := serr.Newf(serr.InvalidType, "%s arg %d wanted %s but got %s", spec.Name, i, argType, cx.stack[first+i].typeName())
			err.Attrs["expected"] = argType.String()
			err.Attrs["actual"] = cx.stack[first+i].typeName()
			err.Line = instr.line
			cx.err = err
			return
		}
	}

	cx.cost += spec.Cost
	if cx.remainingBudget() < 0 {
		cx.err = cx.evalErr(serr.MaxCostExceeded, "dynamic cost budget exceeded, executing %s: program cost was %d", spec.Name, cx.cost)
		return
	}

	preheight := len(cx.stack)
	spec.op(cx)

	if cx.err == nil && !spec.AlwaysExits() {
		postheight := len(cx.stack)
		if spec.Name != "return" && postheight-preheight != len(spec.Return)-len(spec.Arg) {
			cx.err = cx.evalErr(serr.InvalidStackElem, "%s changed stack height improperly %d != %d",
				spec.Name, postheight-preheight, len(spec.Return)-len(spec.Arg))
			return
		}
		first = postheight - len(spec.Return)
		for i, argType := range spec.Return {
			stackType := cx.stack[first+i].argType()
			if !opCompat(argType, stackType) {
				cx.err = cx.evalErr(serr.InvalidType, "%s produced %s but intended %s", spec.Name, cx.stack[first+i].typeName(), argType)
				return
			}
			if stackType == StackBytes && len(cx.stack[first+i].Bytes) > MaxStringSize {
				cx.err = cx.evalErr(serr.ConcatError, "%s produced a too big (%d) byte-array", spec.Name, len(cx.stack[first+i].Bytes))
				return
			}
		}
	}

	if cx.err != nil {
		cx.err = serr.WithLine(cx.err, instr.line)
		return
	}

	if len(cx.stack) > MaxStackDepth {
		cx.err = cx.evalErr(serr.AssertStackLength, "stack overflow")
		return
	}
	if cx.nextpc >= 0 {
		cx.pc = cx.nextpc
		cx.nextpc = -1
	} else {
		cx.pc++
	}
}

// evalErr builds a structured error stamped with the current source line.
func (cx *EvalContext) evalErr(code serr.Code, format string, args ...interface{}) error {
	err := serr.Newf(code, format, args...)
	if cx.instr != nil {
		err.Line = cx.instr.line
	}
	return err
}

func opLabel(cx *EvalContext) {
	// labels evaluate to nothing; they exist as branch targets
}

func opErr(cx *EvalContext) {
	cx.err = cx.evalErr(serr.TealEncounteredErr, "encountered err opcode")
}

func opReturn(cx *EvalContext) {
	// Achieve the end condition:
	// Take the last element on the stack and make it the return value (only element on the stack)
	// Move the pc to the end of the program
	last := len(cx.stack) - 1
	cx.stack[0] = cx.stack[last]
	cx.stack = cx.stack[:1]
	cx.nextpc = len(cx.program.Instructions)
}

func opAssert(cx *EvalContext) {
	last := len(cx.stack) - 1
	if cx.stack[last].Uint != 0 {
		cx.stack = cx.stack[:last]
		return
	}
	cx.err = cx.evalErr(serr.LogicRejection, "assert failed")
}

func opSwap(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	cx.stack[last], cx.stack[prev] = cx.stack[prev], cx.stack[last]
}

func opSelect(cx *EvalContext) {
	last := len(cx.stack) - 1 // condition on top
	prev := last - 1          // true is one down
	pprev := prev - 1         // false below that

	if cx.stack[last].Uint != 0 {
		cx.stack[pprev] = cx.stack[prev]
	}
	cx.stack = cx.stack[:prev]
}

func opSHA256(cx *EvalContext) {
	last := len(cx.stack) - 1
	hash := sha256.Sum256(cx.stack[last].Bytes)
	cx.stack[last].Bytes = hash[:]
}

// The Keccak256 variant of SHA-3 is implemented for compatibility with Ethereum
func opKeccak256(cx *EvalContext) {
	last := len(cx.stack) - 1
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(cx.stack[last].Bytes)
	hv := make([]byte, 0, hasher.Size())
	hv = hasher.Sum(hv)
	cx.stack[last].Bytes = hv
}

// This is the hash commonly used throughout the runtime in crypto.Hash().
//
// It is explicitly implemented here in terms of the specific hash for
// stability and portability in case the rest of the runtime ever moves
// to a different default hash.
func opSHA512_256(cx *EvalContext) {
	last := len(cx.stack) - 1
	hash := sha512.Sum512_256(cx.stack[last].Bytes)
	cx.stack[last].Bytes = hash[:]
}

// Msg is data meant to be signed and then verified with the ed25519verify
// opcode. The domain is "ProgData" || program hash || data.
type Msg struct {
	_struct     struct{}      `codec:",omitempty,omitemptyarray"`
	ProgramHash crypto.Digest `codec:"p"`
	Data        []byte        `codec:"d"`
}

// ToBeHashed implements crypto.Hashable
func (msg Msg) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.ProgramData, append(msg.ProgramHash[:], msg.Data...)
}

// programHash hashes the source text of the running program, the domain that
// `ed25519verify` signatures commit to.
func (cx *EvalContext) programHash() crypto.Digest {
	return transactions.HashProgram(cx.program.source)
}

func opEd25519Verify(cx *EvalContext) {
	last := len(cx.stack) - 1 // index of PK
	prev := last - 1          // index of signature
	pprev := prev - 1         // index of data

	var sv crypto.SignatureVerifier
	if len(cx.stack[last].Bytes) != len(sv) {
		cx.err = cx.evalErr(serr.InvalidOpArg, "invalid public key")
		return
	}
	copy(sv[:], cx.stack[last].Bytes)

	var sig crypto.Signature
	if len(cx.stack[prev].Bytes) != len(sig) {
		cx.err = cx.evalErr(serr.InvalidOpArg, "invalid signature")
		return
	}
	copy(sig[:], cx.stack[prev].Bytes)

	msg := Msg{ProgramHash: cx.programHash(), Data: cx.stack[pprev].Bytes}
	cx.stack[pprev].Uint = boolToUint(sv.Verify(msg, sig))
	cx.stack[pprev].Bytes = nil
	cx.stack = cx.stack[:prev]
}

func opPlus(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	sum, carry := bits.Add64(cx.stack[prev].Uint, cx.stack[last].Uint, 0)
	if carry > 0 {
		cx.err = cx.evalErr(serr.Uint64Overflow, "+ overflowed")
		return
	}
	cx.stack[prev].Uint = sum
	cx.stack = cx.stack[:last]
}

func opAddw(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	sum, carry := bits.Add64(cx.stack[prev].Uint, cx.stack[last].Uint, 0)
	cx.stack[prev].Uint = carry
	cx.stack[last].Uint = sum
}

func opMinus(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	if cx.stack[last].Uint > cx.stack[prev].Uint {
		cx.err = cx.evalErr(serr.Uint64Underflow, "- would result negative")
		return
	}
	cx.stack[prev].Uint -= cx.stack[last].Uint
	cx.stack = cx.stack[:last]
}

func opDiv(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	if cx.stack[last].Uint == 0 {
		cx.err = cx.evalErr(serr.ZeroDiv, "/ 0")
		return
	}
	cx.stack[prev].Uint /= cx.stack[last].Uint
	cx.stack = cx.stack[:last]
}

func opModulo(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	if cx.stack[last].Uint == 0 {
		cx.err = cx.evalErr(serr.ZeroDiv, "%% 0")
		return
	}
	cx.stack[prev].Uint = cx.stack[prev].Uint % cx.stack[last].Uint
	cx.stack = cx.stack[:last]
}

func opMul(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	high, low := bits.Mul64(cx.stack[prev].Uint, cx.stack[last].Uint)
	if high > 0 {
		cx.err = cx.evalErr(serr.Uint64Overflow, "* overflowed")
		return
	}
	cx.stack[prev].Uint = low
	cx.stack = cx.stack[:last]
}

func opMulw(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	high, low := bits.Mul64(cx.stack[prev].Uint, cx.stack[last].Uint)
	cx.stack[prev].Uint = high
	cx.stack[last].Uint = low
}

func opLt(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	cond := cx.stack[prev].Uint < cx.stack[last].Uint
	cx.stack[prev].Uint = boolToUint(cond)
	cx.stack = cx.stack[:last]
}

func opGt(cx *EvalContext) {
	opSwap(cx)
	opLt(cx)
}

func opLe(cx *EvalContext) {
	opGt(cx)
	opNot(cx)
}

func opGe(cx *EvalContext) {
	opLt(cx)
	opNot(cx)
}

func opAnd(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	cond := (cx.stack[prev].Uint != 0) && (cx.stack[last].Uint != 0)
	cx.stack[prev].Uint = boolToUint(cond)
	cx.stack = cx.stack[:last]
}

func opOr(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	cond := (cx.stack[prev].Uint != 0) || (cx.stack[last].Uint != 0)
	cx.stack[prev].Uint = boolToUint(cond)
	cx.stack = cx.stack[:last]
}

func opEq(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	ta := cx.stack[prev].argType()
	tb := cx.stack[last].argType()
	if ta != tb {
		err := serr.Newf(serr.InvalidType, "cannot compare (%s to %s)", cx.stack[prev].typeName(), cx.stack[last].typeName())
		err.Attrs["expected"] = cx.stack[prev].typeName()
		err.Attrs["actual"] = cx.stack[last].typeName()
		cx.err = err
		return
	}
	var cond bool
	if ta == StackBytes {
		cond = bytes.Equal(cx.stack[prev].Bytes, cx.stack[last].Bytes)
	} else {
		cond = cx.stack[prev].Uint == cx.stack[last].Uint
	}
	cx.stack[prev].Uint = boolToUint(cond)
	cx.stack[prev].Bytes = nil
	cx.stack = cx.stack[:last]
}

func opNeq(cx *EvalContext) {
	opEq(cx)
	if cx.err == nil {
		opNot(cx)
	}
}

func opNot(cx *EvalContext) {
	last := len(cx.stack) - 1
	cond := cx.stack[last].Uint == 0
	cx.stack[last].Uint = boolToUint(cond)
}

func opLen(cx *EvalContext) {
	last := len(cx.stack) - 1
	cx.stack[last].Uint = uint64(len(cx.stack[last].Bytes))
	cx.stack[last].Bytes = nil
}

func opItob(cx *EvalContext) {
	last := len(cx.stack) - 1
	ibytes := make([]byte, 8)
	val := cx.stack[last].Uint
	for i := 7; i >= 0; i-- {
		ibytes[i] = byte(val & 0xff)
		val >>= 8
	}
	// cx.stack[last].Uint is not cleared out as optimization
	// stackValue.argType() checks Bytes field first
	cx.stack[last].Bytes = ibytes
}

func opBtoi(cx *EvalContext) {
	last := len(cx.stack) - 1
	ibytes := cx.stack[last].Bytes
	if len(ibytes) > 8 {
		cx.err = cx.evalErr(serr.LongInputError, "btoi arg too long, got [%d]bytes", len(ibytes))
		return
	}
	value := uint64(0)
	for _, b := range ibytes {
		value = value << 8
		value = value | (uint64(b) & 0x0ff)
	}
	cx.stack[last].Uint = value
	cx.stack[last].Bytes = nil
}

func opBitOr(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	cx.stack[prev].Uint = cx.stack[prev].Uint | cx.stack[last].Uint
	cx.stack = cx.stack[:last]
}

func opBitAnd(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	cx.stack[prev].Uint = cx.stack[prev].Uint & cx.stack[last].Uint
	cx.stack = cx.stack[:last]
}

func opBitXor(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	cx.stack[prev].Uint = cx.stack[prev].Uint ^ cx.stack[last].Uint
	cx.stack = cx.stack[:last]
}

func opBitNot(cx *EvalContext) {
	last := len(cx.stack) - 1
	cx.stack[last].Uint = cx.stack[last].Uint ^ 0xffffffffffffffff
}

func opIntConstBlock(cx *EvalContext) {
	cx.intc = cx.instr.uints
}

func opIntConstN(cx *EvalContext, n uint64) {
	if n >= uint64(len(cx.intc)) {
		cx.err = cx.evalErr(serr.IndexOutOfBound, "intc [%d] beyond %d constants", n, len(cx.intc))
		return
	}
	cx.stack = append(cx.stack, stackValue{Uint: cx.intc[n]})
}
func opIntConstLoad(cx *EvalContext) {
	opIntConstN(cx, cx.instr.uints[0])
}
func opIntConst0(cx *EvalContext) {
	opIntConstN(cx, 0)
}
func opIntConst1(cx *EvalContext) {
	opIntConstN(cx, 1)
}
func opIntConst2(cx *EvalContext) {
	opIntConstN(cx, 2)
}
func opIntConst3(cx *EvalContext) {
	opIntConstN(cx, 3)
}

func opPushInt(cx *EvalContext) {
	cx.stack = append(cx.stack, stackValue{Uint: cx.instr.uints[0]})
}

func opByteConstBlock(cx *EvalContext) {
	cx.bytec = cx.instr.bytes
}

func opByteConstN(cx *EvalContext, n uint64) {
	if n >= uint64(len(cx.bytec)) {
		cx.err = cx.evalErr(serr.IndexOutOfBound, "bytec [%d] beyond %d constants", n, len(cx.bytec))
		return
	}
	cx.stack = append(cx.stack, stackValue{Bytes: cx.bytec[n]})
}
func opByteConstLoad(cx *EvalContext) {
	opByteConstN(cx, cx.instr.uints[0])
}
func opByteConst0(cx *EvalContext) {
	opByteConstN(cx, 0)
}
func opByteConst1(cx *EvalContext) {
	opByteConstN(cx, 1)
}
func opByteConst2(cx *EvalContext) {
	opByteConstN(cx, 2)
}
func opByteConst3(cx *EvalContext) {
	opByteConstN(cx, 3)
}

func opPushBytes(cx *EvalContext) {
	cx.stack = append(cx.stack, stackValue{Bytes: cx.instr.bytes[0]})
}

func opArgN(cx *EvalContext, n uint64) {
	if n >= uint64(len(cx.Txn.Lsig.Args)) {
		cx.err = cx.evalErr(serr.IndexOutOfBound, "cannot load arg[%d] of %d", n, len(cx.Txn.Lsig.Args))
		return
	}
	val := nilToEmpty(cx.Txn.Lsig.Args[n])
	cx.stack = append(cx.stack, stackValue{Bytes: val})
}

func opArg(cx *EvalContext) {
	opArgN(cx, cx.instr.uints[0])
}
func opArg0(cx *EvalContext) {
	opArgN(cx, 0)
}
func opArg1(cx *EvalContext) {
	opArgN(cx, 1)
}
func opArg2(cx *EvalContext) {
	opArgN(cx, 2)
}
func opArg3(cx *EvalContext) {
	opArgN(cx, 3)
}

// branchTarget resolves a branch label by linear scan of the instruction
// list. An unresolved label is fatal at jump time.
func (cx *EvalContext) branchTarget(label string) (int, error) {
	for i := range cx.program.Instructions {
		ins := &cx.program.Instructions[i]
		if ins.spec == &labelSpec && ins.label == label {
			return i, nil
		}
	}
	return 0, cx.evalErr(serr.LabelNotFound, "label %q not found", label)
}

func opBnz(cx *EvalContext) {
	last := len(cx.stack) - 1
	isNonZero := cx.stack[last].Uint != 0
	cx.stack = cx.stack[:last] // pop
	if isNonZero {
		target, err := cx.branchTarget(cx.instr.label)
		if err != nil {
			cx.err = err
			return
		}
		cx.nextpc = target
	}
}

func opBz(cx *EvalContext) {
	last := len(cx.stack) - 1
	isZero := cx.stack[last].Uint == 0
	cx.stack = cx.stack[:last] // pop
	if isZero {
		target, err := cx.branchTarget(cx.instr.label)
		if err != nil {
			cx.err = err
			return
		}
		cx.nextpc = target
	}
}

func opB(cx *EvalContext) {
	target, err := cx.branchTarget(cx.instr.label)
	if err != nil {
		cx.err = err
		return
	}
	cx.nextpc = target
}

func opPop(cx *EvalContext) {
	last := len(cx.stack) - 1
	cx.stack = cx.stack[:last]
}

func opDup(cx *EvalContext) {
	last := len(cx.stack) - 1
	sv := cx.stack[last]
	cx.stack = append(cx.stack, sv)
}

func opDup2(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	cx.stack = append(cx.stack, cx.stack[prev:]...)
}

func opDig(cx *EvalContext) {
	depth := int(cx.instr.uints[0])
	idx := len(cx.stack) - 1 - depth
	// Need to check stack size explicitly here because the argument check in
	// step() only covers dig's one declared argument, not the element at depth.
	if idx < 0 {
		cx.err = cx.evalErr(serr.AssertStackLength, "dig %d with stack size = %d", depth, len(cx.stack))
		return
	}
	sv := cx.stack[idx]
	cx.stack = append(cx.stack, sv)
}

func opConcat(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	a := cx.stack[prev].Bytes
	b := cx.stack[last].Bytes
	newlen := len(a) + len(b)
	if newlen > MaxStringSize {
		cx.err = cx.evalErr(serr.ConcatError, "concat produced a too big (%d) byte-array", newlen)
		return
	}
	newvalue := make([]byte, newlen)
	copy(newvalue, a)
	copy(newvalue[len(a):], b)
	cx.stack[prev].Bytes = newvalue
	cx.stack = cx.stack[:last]
}

func substring(x []byte, start, end uint64) (out []byte, code serr.Code, err error) {
	out = x
	if end < start {
		return out, serr.SubstringEndBeforeStart, serr.New(serr.SubstringEndBeforeStart, "substring end before start")
	}
	if start > uint64(len(x)) || end > uint64(len(x)) {
		return out, serr.SubstringRangeBeyond, serr.New(serr.SubstringRangeBeyond, "substring range beyond length of string")
	}
	out = x[start:end]
	return out, 0, nil
}

func opSubstring(cx *EvalContext) {
	last := len(cx.stack) - 1
	start := cx.instr.uints[0]
	end := cx.instr.uints[1]
	out, _, err := substring(cx.stack[last].Bytes, start, end)
	if err != nil {
		cx.err = err
		return
	}
	cx.stack[last].Bytes = out
}

func opSubstring3(cx *EvalContext) {
	last := len(cx.stack) - 1 // end
	prev := last - 1          // start
	pprev := prev - 1         // bytes
	start := cx.stack[prev].Uint
	end := cx.stack[last].Uint
	out, _, err := substring(cx.stack[pprev].Bytes, start, end)
	if err != nil {
		cx.err = err
		return
	}
	cx.stack[pprev].Bytes = out
	cx.stack = cx.stack[:prev]
}

func opGetBit(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	idx := cx.stack[last].Uint
	target := cx.stack[prev]

	var bit uint64
	if target.argType() == StackUint64 {
		if idx > 63 {
			cx.err = cx.evalErr(serr.IndexOutOfBound, "getbit index > 63 with Uint")
			return
		}
		mask := uint64(1) << idx
		bit = (target.Uint & mask) >> idx
	} else {
		// indexing into a byteslice
		byteIdx := idx / 8
		if byteIdx >= uint64(len(target.Bytes)) {
			cx.err = cx.evalErr(serr.IndexOutOfBound, "getbit index beyond byteslice")
			return
		}
		byteVal := target.Bytes[byteIdx]

		bitIdx := idx % 8
		// We're saying that bit 9 (the 10th bit), for example, is the 2nd bit
		// in the second byte, and that "2nd bit" here means
		// almost-highest-order bit, because we're thinking of the bits in the
		// byte itself as being big endian. So this looks "reversed"
		mask := byte(0x80) >> bitIdx
		bit = uint64((byteVal & mask) >> (7 - bitIdx))
	}
	cx.stack[prev].Uint = bit
	cx.stack[prev].Bytes = nil
	cx.stack = cx.stack[:last]
}

func opSetBit(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	pprev := prev - 1

	bit := cx.stack[last].Uint
	idx := cx.stack[prev].Uint
	target := cx.stack[pprev]

	if bit > 1 {
		cx.err = cx.evalErr(serr.SetBitValueError, "setbit value > 1")
		return
	}

	if target.argType() == StackUint64 {
		if idx > 63 {
			cx.err = cx.evalErr(serr.IndexOutOfBound, "setbit index > 63 with Uint")
			return
		}
		mask := uint64(1) << idx
		if bit == uint64(1) {
			cx.stack[pprev].Uint |= mask // manipulate stack in place
		} else {
			cx.stack[pprev].Uint &^= mask // manipulate stack in place
		}
	} else {
		// indexing into a byteslice
		byteIdx := idx / 8
		if byteIdx >= uint64(len(target.Bytes)) {
			cx.err = cx.evalErr(serr.IndexOutOfBound, "setbit index beyond byteslice")
			return
		}

		bitIdx := idx % 8
		// big endian, as in opGetBit
		mask := byte(0x80) >> bitIdx
		// Copy to avoid modifying shared slice
		scratch := append([]byte(nil), target.Bytes...)
		if bit == uint64(1) {
			scratch[byteIdx] |= mask
		} else {
			scratch[byteIdx] &^= mask
		}
		cx.stack[pprev].Bytes = scratch
	}
	cx.stack = cx.stack[:prev]
}

func opGetByte(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1

	idx := cx.stack[last].Uint
	target := cx.stack[prev]

	if idx >= uint64(len(target.Bytes)) {
		cx.err = cx.evalErr(serr.IndexOutOfBound, "getbyte index beyond array length")
		return
	}
	cx.stack[prev].Uint = uint64(target.Bytes[idx])
	cx.stack[prev].Bytes = nil
	cx.stack = cx.stack[:last]
}

func opSetByte(cx *EvalContext) {
	last := len(cx.stack) - 1
	prev := last - 1
	pprev := prev - 1
	if cx.stack[last].Uint > 255 {
		cx.err = cx.evalErr(serr.InvalidUint8, "setbyte value > 255")
		return
	}
	if cx.stack[prev].Uint >= uint64(len(cx.stack[pprev].Bytes)) {
		cx.err = cx.evalErr(serr.IndexOutOfBound, "setbyte index beyond array length")
		return
	}
	// Copy to avoid modifying shared slice
	cx.stack[pprev].Bytes = append([]byte(nil), cx.stack[pprev].Bytes...)
	cx.stack[pprev].Bytes[cx.stack[prev].Uint] = byte(cx.stack[last].Uint)
	cx.stack = cx.stack[:prev]
}

func opLoad(cx *EvalContext) {
	n := cx.instr.uints[0]
	cx.stack = append(cx.stack, cx.scratch[n])
}

func opStore(cx *EvalContext) {
	n := cx.instr.uints[0]
	last := len(cx.stack) - 1
	cx.scratch[n] = cx.stack[last]
	cx.stack = cx.stack[:last]
}
