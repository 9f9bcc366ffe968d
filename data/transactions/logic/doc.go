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

// Package logic evaluates SCL, a stack-based language for transaction logic.
//
// Programs are source text: one instruction per line, `//` comments, and a
// mandatory `#pragma version N` as the first instruction. Assemble turns the
// text into an ordered list of opcode objects with validated immediates;
// evaluation walks that list with a typed operand stack (uint64 or byte
// string), 256 scratch slots, and optional int/byte constant blocks.
//
// A program runs in one of two modes. Signature mode evaluates the logic
// attached to a transaction's LogicSig, with no access to application state.
// Application mode evaluates an application's approval or clear program and
// may read and write local and global state through a LedgerForLogic.
//
// A program accepts when it terminates with exactly one uint64 on the stack
// and that value is non-zero. Every other outcome, from a typed stack error
// to `err`, rejects with a coded structured error carrying the source line.
package logic
