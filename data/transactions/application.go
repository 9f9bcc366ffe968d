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
	"github.com/algorand/scl-runtime/config"
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/serr"
)

// OnCompletion is an enum representing some layer 1 side effect that an
// ApplicationCall transaction will have if it is included in a block.
type OnCompletion uint64

const (
	// NoOpOC indicates that an application transaction will simply call its
	// ApprovalProgram
	NoOpOC OnCompletion = 0

	// OptInOC indicates that an application transaction will allocate some
	// LocalState for the application in the sender's account
	OptInOC OnCompletion = 1

	// CloseOutOC indicates that an application transaction will deallocate
	// some LocalState for the application from the user's account
	CloseOutOC OnCompletion = 2

	// ClearStateOC is similar to CloseOutOC, but may never fail. This
	// allows users to reclaim their minimum balance from an application
	// they no longer wish to opt in to.
	ClearStateOC OnCompletion = 3

	// UpdateApplicationOC indicates that an application transaction will
	// update the ApprovalProgram and ClearStateProgram for the application
	UpdateApplicationOC OnCompletion = 4

	// DeleteApplicationOC indicates that an application transaction will
	// delete the AppParams for the application from the creator's balance
	// record
	DeleteApplicationOC OnCompletion = 5
)

// String returns the human readable name of the OnCompletion.
func (oc OnCompletion) String() string {
	switch oc {
	case NoOpOC:
		return "noop"
	case OptInOC:
		return "optin"
	case CloseOutOC:
		return "closeout"
	case ClearStateOC:
		return "clearstate"
	case UpdateApplicationOC:
		return "update"
	case DeleteApplicationOC:
		return "delete"
	}
	return "?"
}

// ApplicationCallTxnFields captures the transaction fields used for all
// interactions with applications
type ApplicationCallTxnFields struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// ApplicationID is 0 when creating an application, and nonzero when
	// calling an existing application.
	ApplicationID basics.AppIndex `codec:"apid"`

	// OnCompletion specifies an optional side-effect that this transaction
	// will have on the balance record of the sender or the application's
	// creator.
	OnCompletion OnCompletion `codec:"apan"`

	// ApplicationArgs are arguments accessible to the executing
	// ApprovalProgram or ClearStateProgram.
	ApplicationArgs [][]byte `codec:"apaa"`

	// Accounts are accounts whose balance records are accessible by the
	// executing program.
	Accounts []basics.Address `codec:"apat"`

	// ForeignApps are application IDs for applications besides this one
	// whose GlobalState may be read by the executing program.
	ForeignApps []basics.AppIndex `codec:"apfa"`

	// ForeignAssets are asset IDs for assets whose AssetParams and holdings
	// may be read by the executing program.
	ForeignAssets []basics.AssetIndex `codec:"apas"`

	// LocalStateSchema specifies the maximum local state size that may be
	// used by accounts that opt in to this application.  Only set on create.
	LocalStateSchema basics.StateSchema `codec:"apls"`

	// GlobalStateSchema specifies the maximum global state size.  Only set
	// on create.
	GlobalStateSchema basics.StateSchema `codec:"apgs"`

	// ApprovalProgram is the program executed for every ApplicationCall
	// transaction except when OnCompletion is ClearStateOC.
	ApprovalProgram []byte `codec:"apap"`

	// ClearStateProgram is executed when a ClearState transaction is
	// submitted. It may not reject the lifecycle effect.
	ClearStateProgram []byte `codec:"apsu"`
}

// Empty indicates whether or not all the fields in the
// ApplicationCallTxnFields are zeroed out
func (ac *ApplicationCallTxnFields) Empty() bool {
	if ac.ApplicationID != 0 {
		return false
	}
	if ac.OnCompletion != 0 {
		return false
	}
	if ac.ApplicationArgs != nil {
		return false
	}
	if ac.Accounts != nil {
		return false
	}
	if ac.ForeignApps != nil {
		return false
	}
	if ac.ForeignAssets != nil {
		return false
	}
	if ac.LocalStateSchema != (basics.StateSchema{}) {
		return false
	}
	if ac.GlobalStateSchema != (basics.StateSchema{}) {
		return false
	}
	if ac.ApprovalProgram != nil {
		return false
	}
	if ac.ClearStateProgram != nil {
		return false
	}
	return true
}

func (ac ApplicationCallTxnFields) wellFormed(proto *config.ConsensusParams) error {
	if ac.ApplicationID == 0 {
		// Creating an application. Must have an approval and clear program,
		// and schemas within protocol bounds.
		if len(ac.ApprovalProgram) == 0 || len(ac.ClearStateProgram) == 0 {
			return serr.New(serr.InvalidTransactionParams, "app creation requires approval and clear state programs")
		}
		if ac.LocalStateSchema.NumEntries() > proto.MaxLocalSchemaEntries {
			return serr.Newf(serr.InvalidTransactionParams, "local schema too large: %d > %d", ac.LocalStateSchema.NumEntries(), proto.MaxLocalSchemaEntries)
		}
		if ac.GlobalStateSchema.NumEntries() > proto.MaxGlobalSchemaEntries {
			return serr.Newf(serr.InvalidTransactionParams, "global schema too large: %d > %d", ac.GlobalStateSchema.NumEntries(), proto.MaxGlobalSchemaEntries)
		}
	} else {
		// Schemas are immutable after creation.
		if ac.LocalStateSchema != (basics.StateSchema{}) || ac.GlobalStateSchema != (basics.StateSchema{}) {
			return serr.New(serr.InvalidTransactionParams, "local and global state schemas are immutable")
		}
		if ac.OnCompletion != UpdateApplicationOC && (len(ac.ApprovalProgram) != 0 || len(ac.ClearStateProgram) != 0) {
			return serr.New(serr.InvalidTransactionParams, "programs may only be specified during application creation or update")
		}
	}
	if ac.OnCompletion > DeleteApplicationOC {
		return serr.Newf(serr.InvalidTransactionParams, "invalid application OnCompletion %d", ac.OnCompletion)
	}
	if len(ac.ApplicationArgs) > proto.MaxAppArgs {
		return serr.Newf(serr.InvalidTransactionParams, "too many application args, max %d", proto.MaxAppArgs)
	}
	if len(ac.Accounts) > proto.MaxAppTxnAccounts {
		return serr.Newf(serr.InvalidTransactionParams, "tx.Accounts too long, max number of accounts is %d", proto.MaxAppTxnAccounts)
	}
	if len(ac.ForeignApps) > proto.MaxAppTxnForeignApps {
		return serr.Newf(serr.InvalidTransactionParams, "tx.ForeignApps too long, max number of foreign apps is %d", proto.MaxAppTxnForeignApps)
	}
	if len(ac.ForeignAssets) > proto.MaxAppTxnForeignAssets {
		return serr.Newf(serr.InvalidTransactionParams, "tx.ForeignAssets too long, max number of foreign assets is %d", proto.MaxAppTxnForeignAssets)
	}
	return nil
}

// AddressByIndex converts an integer index into an address associated with
// the transaction. Index 0 corresponds to the transaction sender, and an
// index > 0 corresponds to an offset into txn.Accounts.
func (ac *ApplicationCallTxnFields) AddressByIndex(accountIdx uint64, sender basics.Address) (basics.Address, error) {
	// Index 0 always corresponds to the sender
	if accountIdx == 0 {
		return sender, nil
	}

	// An index > 0 corresponds to an offset into txn.Accounts. Check to
	// make sure the index is valid.
	if accountIdx > uint64(len(ac.Accounts)) {
		return basics.Address{}, serr.Newf(serr.IndexOutOfBound, "invalid Account reference %d", accountIdx)
	}

	// accountIdx must be in [1, len(ac.Accounts)]
	return ac.Accounts[accountIdx-1], nil
}

// IndexByAddress converts an address into an integer offset into [txn.Sender,
// txn.Accounts[0], ...], returning the index at the first match. It returns
// an error if there is no such match.
func (ac *ApplicationCallTxnFields) IndexByAddress(target basics.Address, sender basics.Address) (uint64, error) {
	// Index 0 always corresponds to the sender
	if target == sender {
		return 0, nil
	}

	// Otherwise we index into ac.Accounts
	for idx, addr := range ac.Accounts {
		if addr == target {
			return uint64(idx) + 1, nil
		}
	}

	return 0, serr.Newf(serr.IndexOutOfBound, "invalid Account reference %s", target)
}
