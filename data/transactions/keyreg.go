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
)

// KeyregTxnFields captures the fields used for key registration transactions.
// The runtime records the keys on the account; participation itself is a node
// concern and is not simulated.
type KeyregTxnFields struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	VotePK          crypto.PublicKey `codec:"votekey"`
	SelectionPK     crypto.PublicKey `codec:"selkey"`
	VoteFirst       basics.Round     `codec:"votefst"`
	VoteLast        basics.Round     `codec:"votelst"`
	VoteKeyDilution uint64           `codec:"votekd"`
}
