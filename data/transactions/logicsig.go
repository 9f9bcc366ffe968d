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

package transactions

import (
	"github.com/algorand/scl-runtime/crypto"
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/protocol"
	"github.com/algorand/scl-runtime/serr"
)

// Program is SCL program source that is meant to be hashed or signed.
type Program []byte

// ToBeHashed implements crypto.Hashable
func (p Program) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.Program, p
}

// HashProgram takes program bytes and returns the Digest
// This Digest can be used as an Address for a contract-mode account.
func HashProgram(program []byte) crypto.Digest {
	return crypto.HashObj(Program(program))
}

// LogicSig contains logic for validating a transaction.
// LogicSig is signed by an account, allowing delegation of operations.
// OR
// LogicSig defines a contract account.
type LogicSig struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Logic signed by Sig or Msig, OR hashed to be the Address of a contract
	// account.
	Logic []byte `codec:"l"`

	Sig  crypto.Signature   `codec:"sig"`
	Msig crypto.MultisigSig `codec:"msig"`

	// Args are not signed, but checked by Logic
	Args [][]byte `codec:"arg"`
}

// Blank returns true if there is no content in this LogicSig
func (lsig *LogicSig) Blank() bool {
	return len(lsig.Logic) == 0
}

// Address returns the contract-mode account address of the program.
func (lsig *LogicSig) Address() basics.Address {
	return basics.Address(HashProgram(lsig.Logic))
}

// Sign the logic signature program with the given secrets, putting the
// runtime in delegated mode for transactions from the signer's address.
func (lsig *LogicSig) Sign(secrets *crypto.SignatureSecrets) {
	lsig.Sig = secrets.Sign(Program(lsig.Logic))
}

// Verify checks that the signature is valid, or that the program hash matches
// the authorizer address. It does not evaluate the logic.
func (lsig *LogicSig) Verify(authorizer basics.Address) error {
	if lsig.Blank() {
		return serr.New(serr.LogicSignatureNotFound, "empty logic signature")
	}

	hasSig := !lsig.Sig.Blank()
	hasMsig := !lsig.Msig.Blank()

	if hasSig && hasMsig {
		return serr.New(serr.LogicSignatureValidationFailed, "LogicSig should only have one of Sig or Msig but has more than one")
	}

	if !hasSig && !hasMsig {
		// if the authorizer == hash(Logic) then this is a (potentially) valid
		// operation on a contract-only account
		if authorizer == lsig.Address() {
			return nil
		}
		return serr.New(serr.LogicSignatureValidationFailed, "logic not signed and not a contract account")
	}

	if hasSig {
		if crypto.SignatureVerifier(authorizer).Verify(Program(lsig.Logic), lsig.Sig) {
			return nil
		}
		return serr.New(serr.LogicSignatureValidationFailed, "logic signature validation failed")
	}

	if ok, _ := crypto.MultisigVerify(Program(lsig.Logic), crypto.PublicKey(authorizer), lsig.Msig); ok {
		return nil
	}
	return serr.New(serr.LogicSignatureValidationFailed, "logic multisig validation failed")
}
