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

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodesAreStable(t *testing.T) {
	// these values are part of the error contract; renumbering breaks callers
	assert.EqualValues(t, 1001, PragmaNotAtFirstLine)
	assert.EqualValues(t, 1101, InvalidType)
	assert.EqualValues(t, 1104, ZeroDiv)
	assert.EqualValues(t, 1301, AccountDoesNotExist)
	assert.EqualValues(t, 1313, RejectedByLogic)

	assert.Equal(t, "PRAGMA_NOT_AT_FIRST_LINE", PragmaNotAtFirstLine.Kind())
	assert.Equal(t, "REJECTED_BY_LOGIC", RejectedByLogic.Kind())
	assert.Equal(t, "UNCLASSIFIED", Code(9999).Kind())
}

func TestErrorMessage(t *testing.T) {
	err := New(ZeroDiv, "/ 0")
	err.Line = 3
	assert.Equal(t, "ZERO_DIV at line 3: / 0", err.Error())

	typed := New(InvalidType, "wanted uint64", "expected", "uint64", "actual", "[]byte")
	assert.Contains(t, typed.Error(), "expected=uint64")
	assert.Contains(t, typed.Error(), "actual=[]byte")
}

func TestCodeOf(t *testing.T) {
	err := New(AssetNotFound, "nope")
	require.Equal(t, AssetNotFound, CodeOf(err))
	require.True(t, HasCode(err, AssetNotFound))

	wrapped := fmt.Errorf("context: %w", err)
	require.Equal(t, AssetNotFound, CodeOf(wrapped))

	require.Equal(t, Unclassified, CodeOf(errors.New("plain")))
}

func TestWithLine(t *testing.T) {
	err := New(UnknownOpcode, "frobnicate")
	err2 := WithLine(err, 7)
	require.Equal(t, 7, LineOf(err2))

	// an existing line is not overwritten
	err3 := WithLine(err2, 12)
	require.Equal(t, 7, LineOf(err3))

	// plain errors get wrapped
	err4 := WithLine(errors.New("plain"), 4)
	require.Equal(t, 4, LineOf(err4))
	require.Equal(t, Unclassified, CodeOf(err4))

	require.Nil(t, WithLine(nil, 9))
}

func TestWrapKeepsCode(t *testing.T) {
	inner := New(ZeroDiv, "/ 0")
	require.Equal(t, ZeroDiv, CodeOf(Wrap(ConcatError, inner)))

	plain := errors.New("boom")
	require.Equal(t, ConcatError, CodeOf(Wrap(ConcatError, plain)))
}
