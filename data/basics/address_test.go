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

package basics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressRoundTrip(t *testing.T) {
	var addr Address
	for i := range addr {
		addr[i] = byte(i)
	}
	decoded, err := UnmarshalChecksumAddress(addr.String())
	require.NoError(t, err)
	require.Equal(t, addr, decoded)
}

func TestAddressChecksumMalformed(t *testing.T) {
	var addr Address
	addr[0] = 0x07
	str := addr.String()

	// tamper with a character of the body
	tampered := "B" + str[1:]
	if tampered == str {
		tampered = "C" + str[1:]
	}
	_, err := UnmarshalChecksumAddress(tampered)
	require.Error(t, err)

	_, err = UnmarshalChecksumAddress("not base32 at all!!")
	require.Error(t, err)

	_, err = UnmarshalChecksumAddress("AAAA")
	require.Error(t, err)
}

func TestAddressMarshalText(t *testing.T) {
	var addr Address
	addr[5] = 0x42
	text, err := addr.MarshalText()
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, decoded.UnmarshalText(text))
	require.Equal(t, addr, decoded)
}

func TestAddressIsZero(t *testing.T) {
	var addr Address
	require.True(t, addr.IsZero())
	addr[31] = 1
	require.False(t, addr.IsZero())
}
