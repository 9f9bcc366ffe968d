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
	"errors"
)

// MultisigSubsig is a struct that holds a pair of public key and signatures
// signatures may be empty
type MultisigSubsig struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Key PublicKey `codec:"pk"` // all public keys that are possible signers for this address
	Sig Signature `codec:"s"`  // may be either empty or a signature
}

// MultisigSig is the structure that holds multiple Subsigs
type MultisigSig struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Version   uint8            `codec:"v"`
	Threshold uint8            `codec:"thr"`
	Subsigs   []MultisigSubsig `codec:"subsig"`
}

// Blank returns true iff the msig is empty. We need this instead of just
// comparing with == MultisigSig{}, because Subsigs is a slice.
func (msig MultisigSig) Blank() bool {
	if msig.Version != 0 {
		return false
	}
	if msig.Threshold != 0 {
		return false
	}
	if msig.Subsigs != nil {
		return false
	}
	return true
}

var errInvalidThreshold = errors.New("invalid threshold")
var errInvalidNumberOfSignature = errors.New("invalid number of signatures")
var errKeyNotExist = errors.New("public key does not exist in multisig preimage")

// MultisigVerify verifies that the attached signatures meet the threshold, and
// that every attached signature verifies over the message under its subsig key.
// The signer set must contain addr's key: a multisig over a message is only
// meaningful when the account being authorized participates in it.
func MultisigVerify(msg Hashable, addr PublicKey, sig MultisigSig) (bool, error) {
	if sig.Threshold == 0 || int(sig.Threshold) > len(sig.Subsigs) {
		return false, errInvalidThreshold
	}

	found := false
	for i := range sig.Subsigs {
		if sig.Subsigs[i].Key == addr {
			found = true
			break
		}
	}
	if !found {
		return false, errKeyNotExist
	}

	verified := 0
	for i := range sig.Subsigs {
		if sig.Subsigs[i].Sig.Blank() {
			continue
		}
		if !SignatureVerifier(sig.Subsigs[i].Key).Verify(msg, sig.Subsigs[i].Sig) {
			return false, errInvalidNumberOfSignature
		}
		verified++
	}
	if verified < int(sig.Threshold) {
		return false, errInvalidNumberOfSignature
	}
	return true, nil
}
