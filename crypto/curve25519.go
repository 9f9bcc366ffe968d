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

package crypto

import (
	"crypto/ed25519"

	"github.com/hdevalence/ed25519consensus"
)

// A Seed holds the entropy needed to generate cryptographic keys.
type Seed [32]byte

// A Signature is a cryptographic signature. It proves that a message was
// signed by the holder of a specific secret key.
type Signature [64]byte

// BlankSignature is an empty signature structure, containing nothing but zeroes
var BlankSignature = Signature{}

// Blank tests to see if the given signature contains only zeros
func (s *Signature) Blank() bool {
	return *s == BlankSignature
}

// A PublicKey is the public encryption key.
type PublicKey [32]byte

// SignatureVerifier is used to identify the holder of SignatureSecrets
// and verify the authenticity of Signatures.
type SignatureVerifier = PublicKey

// SignatureSecrets are used by an entity to produce unforgeable signatures over
// a message.
type SignatureSecrets struct {
	_struct struct{} `codec:""`

	SignatureVerifier
	SK ed25519.PrivateKey
}

// GenerateSignatureSecrets creates SignatureSecrets from a given seed.
func GenerateSignatureSecrets(seed Seed) *SignatureSecrets {
	sk := ed25519.NewKeyFromSeed(seed[:])
	var pk SignatureVerifier
	copy(pk[:], sk.Public().(ed25519.PublicKey))
	return &SignatureSecrets{
		SignatureVerifier: pk,
		SK:                sk,
	}
}

// Sign produces a cryptographic Signature of a message, identified by its
// HashID plus data, using the signature secrets.
func (s *SignatureSecrets) Sign(message Hashable) Signature {
	return s.SignBytes(HashRep(message))
}

// SignBytes signs a message directly, without first hashing.
// Caller is responsible for domain separation.
func (s *SignatureSecrets) SignBytes(message []byte) Signature {
	var sig Signature
	copy(sig[:], ed25519.Sign(s.SK, message))
	return sig
}

// Verify verifies that some holder of a cryptographic secret key signed a
// Hashable message.
//
// Verification uses a ZIP-215 compliant implementation so that every replica
// of the runtime reaches the same accept/reject verdict on edge-case
// signatures.
func (v SignatureVerifier) Verify(message Hashable, sig Signature) bool {
	return v.VerifyBytes(HashRep(message), sig)
}

// VerifyBytes verifies a signature, where the message is not hashed first.
// Caller is responsible for domain separation.
func (v SignatureVerifier) VerifyBytes(message []byte, sig Signature) bool {
	return ed25519consensus.Verify(v[:], message, sig[:])
}
