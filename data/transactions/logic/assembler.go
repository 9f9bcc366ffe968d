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
	"bufio"
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/serr"
)

// Instruction is one assembled operation: the opcode spec plus its validated
// immediate arguments and the source line it came from.
type Instruction struct {
	spec  *OpSpec
	line  int
	label string   // label name, for `label:` and branch instructions
	uints []uint64 // integer immediates: constants, indices, field codes
	bytes [][]byte // byte immediates: constants, pushbytes payload
}

// Line returns the 1-based source line of the instruction.
func (ins *Instruction) Line() int { return ins.line }

// Name returns the opcode name of the instruction.
func (ins *Instruction) Name() string { return ins.spec.Name }

// Program is the result of assembling SCL source text.
type Program struct {
	Version      uint64
	Instructions []Instruction

	source []byte
}

// OpStream accumulates the assembled program while walking the source.
type OpStream struct {
	// Version is the SCL version of the program, from `#pragma version N`.
	Version uint64

	instructions []Instruction

	sourceLine int
}

// Pseudo-ops. They behave like pushint/pushbytes but exist at every version,
// and `addr` decodes a checksummed address into its raw 32 bytes.
var intPseudoSpec = OpSpec{Name: "int", op: opPushInt, Proto: proto(":i"), Version: 1, Modes: modeAny, Cost: 1}
var bytePseudoSpec = OpSpec{Name: "byte", op: opPushBytes, Proto: proto(":b"), Version: 1, Modes: modeAny, Cost: 1}
var addrPseudoSpec = OpSpec{Name: "addr", op: opPushBytes, Proto: proto(":b"), Version: 1, Modes: modeAny, Cost: 1}

func (ops *OpStream) lineErr(code serr.Code, msg string, pairs ...any) error {
	err := serr.New(code, msg, pairs...)
	err.Line = ops.sourceLine
	return err
}

// parseUint insists on a digits-only token, the lexical form required for
// indices and counts.
func (ops *OpStream) parseUint(token string, what string) (uint64, error) {
	for _, r := range token {
		if r < '0' || r > '9' {
			return 0, ops.lineErr(serr.InvalidOpArg, "invalid "+what, "value", token)
		}
	}
	val, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return 0, ops.lineErr(serr.InvalidOpArg, "invalid "+what, "value", token)
	}
	return val, nil
}

// fieldsFromLine splits a line on whitespace, keeping double-quoted strings
// together as single tokens, and cuts a trailing // comment.
func fieldsFromLine(line string) []string {
	var fields []string

	line = strings.TrimSpace(line)
	start := 0
	inString := false
	inBase64 := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == ' ' || c == '\t' {
			if inString || inBase64 {
				continue
			}
			if start < i {
				fields = append(fields, line[start:i])
			}
			start = i + 1
			continue
		}
		if c == '"' && (i == start || line[i-1] != '\\') {
			inString = !inString
			continue
		}
		if !inString {
			if c == '(' {
				inBase64 = true
			} else if c == ')' {
				inBase64 = false
			} else if c == '/' && i+1 < len(line) && line[i+1] == '/' {
				if start < i {
					fields = append(fields, line[start:i])
				}
				return fields
			}
		}
	}
	if start < len(line) {
		fields = append(fields, line[start:])
	}
	return fields
}

// parseBinaryArgs parses the argument forms accepted by `byte` and
// `bytecblock`:
//
//	byte base64 AAAA...
//	byte b64 AAAA...
//	byte base64(AAAA...)
//	byte b64(AAAA...)
//	byte base32 AAAA...
//	byte b32 AAAA...
//	byte base32(AAAA...)
//	byte b32(AAAA...)
//	byte 0x0123456789abcdef...
//	byte "this is a string\n"
func parseBinaryArgs(args []string) (val []byte, consumed int, code serr.Code, err error) {
	if len(args) == 0 {
		return nil, 0, serr.AssertFieldLength, serr.New(serr.AssertFieldLength, "byte operation needs byte literal argument")
	}
	arg := args[0]
	switch {
	case strings.HasPrefix(arg, "base32(") || strings.HasPrefix(arg, "b32("):
		open := strings.IndexRune(arg, '(')
		close := strings.IndexRune(arg, ')')
		if close != len(arg)-1 {
			return nil, 0, serr.UnknownDecodeType, serr.New(serr.UnknownDecodeType, "byte base32 arg lacks close paren")
		}
		val, err = base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(arg[open+1 : close])
		consumed = 1
	case strings.HasPrefix(arg, "base64(") || strings.HasPrefix(arg, "b64("):
		open := strings.IndexRune(arg, '(')
		close := strings.IndexRune(arg, ')')
		if close != len(arg)-1 {
			return nil, 0, serr.UnknownDecodeType, serr.New(serr.UnknownDecodeType, "byte base64 arg lacks close paren")
		}
		val, err = base64.StdEncoding.DecodeString(arg[open+1 : close])
		consumed = 1
	case arg == "base32" || arg == "b32":
		if len(args) < 2 {
			return nil, 0, serr.AssertFieldLength, serr.New(serr.AssertFieldLength, "need literal after 'byte "+arg+"'")
		}
		val, err = base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(args[1])
		consumed = 2
	case arg == "base64" || arg == "b64":
		if len(args) < 2 {
			return nil, 0, serr.AssertFieldLength, serr.New(serr.AssertFieldLength, "need literal after 'byte "+arg+"'")
		}
		val, err = base64.StdEncoding.DecodeString(args[1])
		consumed = 2
	case strings.HasPrefix(arg, "0x"):
		val, err = hex.DecodeString(arg[2:])
		consumed = 1
	case strings.HasPrefix(arg, `"`) && strings.HasSuffix(arg, `"`) && len(arg) >= 2:
		var str string
		str, err = strconv.Unquote(arg)
		val = []byte(str)
		consumed = 1
	default:
		return nil, 0, serr.UnknownDecodeType, serr.New(serr.UnknownDecodeType, "byte arg did not parse", "arg", arg)
	}
	if err != nil {
		return nil, 0, serr.UnknownDecodeType, serr.Wrap(serr.UnknownDecodeType, err)
	}
	if len(val) > MaxStringSize {
		return nil, 0, serr.LongInputError, serr.New(serr.LongInputError, "byte literal too long", "length", len(val), "max", MaxStringSize)
	}
	return val, consumed, 0, nil
}

func asmInt(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 1 {
		return ops.lineErr(serr.AssertFieldLength, "int needs one argument")
	}
	// int also accepts symbolic transaction types (`int axfer`) the way the
	// TypeEnum field reports them.
	if idx, ok := txnTypeIndexes[args[0]]; ok {
		instr.uints = []uint64{idx}
		return nil
	}
	val, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		return ops.lineErr(serr.InvalidOpArg, "unable to parse int literal", "value", args[0])
	}
	instr.uints = []uint64{val}
	return nil
}

func asmByte(ops *OpStream, instr *Instruction, args []string) error {
	val, consumed, code, err := parseBinaryArgs(args)
	if err != nil {
		return serr.WithLine(serr.Wrap(code, err), ops.sourceLine)
	}
	if consumed != len(args) {
		return ops.lineErr(serr.AssertFieldLength, "extra arguments to byte")
	}
	instr.bytes = [][]byte{val}
	return nil
}

func asmAddr(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 1 {
		return ops.lineErr(serr.AssertFieldLength, "addr needs one argument")
	}
	addr, err := basics.UnmarshalChecksumAddress(args[0])
	if err != nil {
		return ops.lineErr(serr.InvalidAddr, err.Error())
	}
	instr.bytes = [][]byte{addr[:]}
	return nil
}

func asmIntCBlock(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) == 0 || len(args) > maxConstBlockSize {
		return ops.lineErr(serr.AssertArrLength, "intcblock must carry between 1 and 256 constants", "length", len(args))
	}
	instr.uints = make([]uint64, len(args))
	for i, arg := range args {
		val, err := strconv.ParseUint(arg, 0, 64)
		if err != nil {
			return ops.lineErr(serr.InvalidOpArg, "unable to parse int constant", "value", arg)
		}
		instr.uints[i] = val
	}
	return nil
}

func asmByteCBlock(ops *OpStream, instr *Instruction, args []string) error {
	var bytes [][]byte
	rest := args
	for len(rest) > 0 {
		val, consumed, code, err := parseBinaryArgs(rest)
		if err != nil {
			return serr.WithLine(serr.Wrap(code, err), ops.sourceLine)
		}
		bytes = append(bytes, val)
		rest = rest[consumed:]
	}
	if len(bytes) == 0 || len(bytes) > maxConstBlockSize {
		return ops.lineErr(serr.AssertArrLength, "bytecblock must carry between 1 and 256 constants", "length", len(bytes))
	}
	instr.bytes = bytes
	return nil
}

func asmIntC(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 1 {
		return ops.lineErr(serr.AssertFieldLength, "intc needs one argument")
	}
	val, err := ops.parseUint(args[0], "constant index")
	if err != nil {
		return err
	}
	if val >= maxConstBlockSize {
		return ops.lineErr(serr.IndexOutOfBound, "intc index beyond 256", "index", val)
	}
	instr.uints = []uint64{val}
	return nil
}

func asmByteC(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 1 {
		return ops.lineErr(serr.AssertFieldLength, "bytec needs one argument")
	}
	val, err := ops.parseUint(args[0], "constant index")
	if err != nil {
		return err
	}
	if val >= maxConstBlockSize {
		return ops.lineErr(serr.IndexOutOfBound, "bytec index beyond 256", "index", val)
	}
	instr.uints = []uint64{val}
	return nil
}

func asmArg(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 1 {
		return ops.lineErr(serr.AssertFieldLength, "arg needs one argument")
	}
	val, err := ops.parseUint(args[0], "arg index")
	if err != nil {
		return err
	}
	instr.uints = []uint64{val}
	return nil
}

func asmScratch(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 1 {
		return ops.lineErr(serr.AssertFieldLength, instr.spec.Name+" needs one argument")
	}
	val, err := ops.parseUint(args[0], "scratch index")
	if err != nil {
		return err
	}
	if val >= scratchSize {
		return ops.lineErr(serr.IndexOutOfBound, "scratch index beyond 256", "index", val)
	}
	instr.uints = []uint64{val}
	return nil
}

func (ops *OpStream) txnFieldArg(name string, wantArray bool) (uint64, error) {
	fs, ok := txnFieldSpecByName[name]
	if !ok || fs.version > ops.Version {
		return 0, ops.lineErr(serr.UnknownTxField, "unknown transaction field", "field", name)
	}
	if wantArray != fs.array {
		if wantArray {
			return 0, ops.lineErr(serr.UnknownTxField, "unsupported array field", "field", name)
		}
		return 0, ops.lineErr(serr.UnknownTxField, "array field requires an index", "field", name)
	}
	return uint64(fs.field), nil
}

func asmTxn(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 1 {
		return ops.lineErr(serr.AssertFieldLength, instr.spec.Name+" needs one argument")
	}
	field, err := ops.txnFieldArg(args[0], false)
	if err != nil {
		return err
	}
	instr.uints = []uint64{field}
	return nil
}

func asmTxna(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 2 {
		return ops.lineErr(serr.AssertFieldLength, instr.spec.Name+" needs two arguments")
	}
	field, err := ops.txnFieldArg(args[0], true)
	if err != nil {
		return err
	}
	idx, err := ops.parseUint(args[1], "array index")
	if err != nil {
		return err
	}
	instr.uints = []uint64{field, idx}
	return nil
}

func asmGtxn(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 2 {
		return ops.lineErr(serr.AssertFieldLength, "gtxn needs two arguments")
	}
	gi, err := ops.parseUint(args[0], "group index")
	if err != nil {
		return err
	}
	field, err := ops.txnFieldArg(args[1], false)
	if err != nil {
		return err
	}
	instr.uints = []uint64{gi, field}
	return nil
}

func asmGtxna(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 3 {
		return ops.lineErr(serr.AssertFieldLength, "gtxna needs three arguments")
	}
	gi, err := ops.parseUint(args[0], "group index")
	if err != nil {
		return err
	}
	field, err := ops.txnFieldArg(args[1], true)
	if err != nil {
		return err
	}
	idx, err := ops.parseUint(args[2], "array index")
	if err != nil {
		return err
	}
	instr.uints = []uint64{gi, field, idx}
	return nil
}

func asmGlobal(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 1 {
		return ops.lineErr(serr.AssertFieldLength, "global needs one argument")
	}
	fs, ok := globalFieldSpecByName[args[0]]
	if !ok || fs.version > ops.Version {
		return ops.lineErr(serr.UnknownGlobalField, "unknown global field", "field", args[0])
	}
	instr.uints = []uint64{uint64(fs.gfield)}
	return nil
}

func asmAssetHolding(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 1 {
		return ops.lineErr(serr.AssertFieldLength, "asset_holding_get needs one argument")
	}
	fs, ok := assetHoldingFieldSpecByName[args[0]]
	if !ok {
		return ops.lineErr(serr.UnknownAssetField, "unknown asset_holding_get field", "field", args[0])
	}
	instr.uints = []uint64{uint64(fs.field)}
	return nil
}

func asmAssetParams(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 1 {
		return ops.lineErr(serr.AssertFieldLength, "asset_params_get needs one argument")
	}
	fs, ok := assetParamsFieldSpecByName[args[0]]
	if !ok {
		return ops.lineErr(serr.UnknownAssetField, "unknown asset_params_get field", "field", args[0])
	}
	instr.uints = []uint64{uint64(fs.field)}
	return nil
}

func asmBranch(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 1 {
		return ops.lineErr(serr.AssertFieldLength, instr.spec.Name+" needs a single label argument")
	}
	instr.label = args[0]
	return nil
}

func asmSubstring(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 2 {
		return ops.lineErr(serr.AssertFieldLength, "substring needs two arguments")
	}
	start, err := ops.parseUint(args[0], "substring start")
	if err != nil {
		return err
	}
	end, err := ops.parseUint(args[1], "substring end")
	if err != nil {
		return err
	}
	instr.uints = []uint64{start, end}
	return nil
}

func asmDig(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 1 {
		return ops.lineErr(serr.AssertFieldLength, "dig needs one argument")
	}
	depth, err := ops.parseUint(args[0], "dig depth")
	if err != nil {
		return err
	}
	instr.uints = []uint64{depth}
	return nil
}

func asmPushInt(ops *OpStream, instr *Instruction, args []string) error {
	if len(args) != 1 {
		return ops.lineErr(serr.AssertFieldLength, "pushint needs one argument")
	}
	val, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		return ops.lineErr(serr.InvalidOpArg, "unable to parse int literal", "value", args[0])
	}
	instr.uints = []uint64{val}
	return nil
}

func asmPushBytes(ops *OpStream, instr *Instruction, args []string) error {
	return asmByte(ops, instr, args)
}

// pragma parses `#pragma version N`. Any other pragma is ignored for forward
// compatibility, matching assembler practice.
func (ops *OpStream) pragma(fields []string) error {
	if len(fields) < 2 {
		return ops.lineErr(serr.PragmaVersionError, "empty pragma")
	}
	switch fields[1] {
	case "version":
		if len(fields) != 3 {
			return ops.lineErr(serr.PragmaVersionError, "unable to parse pragma version")
		}
		ver, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return ops.lineErr(serr.PragmaVersionError, "unable to parse pragma version", "value", fields[2])
		}
		if ver < 1 || ver > LogicVersion {
			return ops.lineErr(serr.PragmaVersionError, "unsupported pragma version", "version", ver, "max", LogicVersion)
		}
		ops.Version = ver
		return nil
	default:
		return nil
	}
}

func validLabelName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Assemble parses SCL program source text into an ordered instruction list.
// The first instruction must be `#pragma version N`.
func Assemble(source string) (*Program, error) {
	ops := OpStream{}
	labels := make(map[string]bool)

	scanner := bufio.NewScanner(strings.NewReader(source))
	for scanner.Scan() {
		ops.sourceLine++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "//") {
			continue
		}

		fields := fieldsFromLine(line)
		if len(fields) == 0 {
			continue
		}
		opstring := fields[0]

		if strings.HasPrefix(opstring, "#pragma") {
			if ops.Version != 0 {
				// pragma version may only be the first instruction
				if len(fields) > 1 && fields[1] == "version" {
					return nil, ops.lineErr(serr.PragmaNotAtFirstLine, "pragma version is not on the first line")
				}
				continue
			}
			if err := ops.pragma(fields); err != nil {
				return nil, err
			}
			continue
		}

		if ops.Version == 0 {
			return nil, ops.lineErr(serr.PragmaNotAtFirstLine, "program must start with #pragma version")
		}

		if strings.HasSuffix(opstring, ":") {
			name := opstring[:len(opstring)-1]
			if len(fields) != 1 || !validLabelName(name) {
				return nil, ops.lineErr(serr.InvalidOpArg, "invalid label", "label", opstring)
			}
			if labels[name] {
				return nil, ops.lineErr(serr.InvalidOpArg, "duplicate label", "label", name)
			}
			labels[name] = true
			ops.instructions = append(ops.instructions, Instruction{spec: &labelSpec, line: ops.sourceLine, label: name})
			continue
		}

		instr := Instruction{line: ops.sourceLine}
		var asm asmFunc
		switch opstring {
		case "int":
			instr.spec = &intPseudoSpec
			asm = asmInt
		case "byte":
			instr.spec = &bytePseudoSpec
			asm = asmByte
		case "addr":
			instr.spec = &addrPseudoSpec
			asm = asmAddr
		default:
			spec, ok := OpsByName[ops.Version][opstring]
			if !ok {
				if _, future := OpsByName[LogicVersion][opstring]; future {
					return nil, ops.lineErr(serr.UnknownOpcode, "opcode not available in this version", "opcode", opstring, "version", ops.Version)
				}
				return nil, ops.lineErr(serr.UnknownOpcode, "unknown opcode", "opcode", opstring)
			}
			instr.spec = &spec
			asm = spec.asm
		}

		args := fields[1:]
		if asm == nil {
			if len(args) != 0 {
				return nil, ops.lineErr(serr.AssertFieldLength, instr.spec.Name+" expects no arguments")
			}
		} else {
			if err := asm(&ops, &instr, args); err != nil {
				return nil, err
			}
		}
		ops.instructions = append(ops.instructions, instr)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if ops.Version == 0 {
		return nil, serr.New(serr.PragmaNotAtFirstLine, "program must start with #pragma version")
	}

	return &Program{Version: ops.Version, Instructions: ops.instructions, source: []byte(source)}, nil
}
