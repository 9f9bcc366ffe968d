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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/scl-runtime/protocol"
)

type testMessage string

func (m testMessage) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.TestHashable, []byte(m)
}

func TestSignVerify(t *testing.T) {
	secrets := GenerateSignatureSecrets(Seed{0x01})
	msg := testMessage("hello")

	sig := secrets.Sign(msg)
	require.True(t, secrets.SignatureVerifier.Verify(msg, sig))
	require.False(t, secrets.SignatureVerifier.Verify(testMessage("other"), sig))

	other := GenerateSignatureSecrets(Seed{0x02})
	require.False(t, other.SignatureVerifier.Verify(msg, sig))
}

func TestKeysAreDeterministic(t *testing.T) {
	a := GenerateSignatureSecrets(Seed{0x07})
	b := GenerateSignatureSecrets(Seed{0x07})
	require.Equal(t, a.SignatureVerifier, b.SignatureVerifier)

	c := GenerateSignatureSecrets(Seed{0x08})
	require.NotEqual(t, a.SignatureVerifier, c.SignatureVerifier)
}

func TestSignatureBlank(t *testing.T) {
	var sig Signature
	require.True(t, sig.Blank())
	sig[0] = 1
	require.False(t, sig.Blank())
}

func TestMultisig(t *testing.T) {
	s1 := GenerateSignatureSecrets(Seed{0x01})
	s2 := GenerateSignatureSecrets(Seed{0x02})
	s3 := GenerateSignatureSecrets(Seed{0x03})
	msg := testMessage("pact")

	msig := MultisigSig{
		Version:   1,
		Threshold: 2,
		Subsigs: []MultisigSubsig{
			{Key: s1.SignatureVerifier},
			{Key: s2.SignatureVerifier},
			{Key: s3.SignatureVerifier},
		},
	}

	// not enough signatures
	msig.Subsigs[0].Sig = s1.Sign(msg)
	ok, err := MultisigVerify(msg, s1.SignatureVerifier, msig)
	require.Error(t, err)
	require.False(t, ok)

	// threshold met
	msig.Subsigs[2].Sig = s3.Sign(msg)
	ok, err = MultisigVerify(msg, s1.SignatureVerifier, msig)
	require.NoError(t, err)
	require.True(t, ok)

	// the authorized account must be part of the signer set
	outsider := GenerateSignatureSecrets(Seed{0x04})
	ok, _ = MultisigVerify(msg, outsider.SignatureVerifier, msig)
	require.False(t, ok)

	// a wrong signature invalidates the whole multisig
	msig.Subsigs[2].Sig = s3.Sign(testMessage("other"))
	ok, _ = MultisigVerify(msg, s1.SignatureVerifier, msig)
	require.False(t, ok)
}
