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

package apply

import (
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/data/transactions"
	"github.com/algorand/scl-runtime/serr"
)

func createApplication(ac *transactions.ApplicationCallTxnFields, balances Balances, creator basics.Address) (basics.AppIndex, error) {
	record, err := balances.Get(creator)
	if err != nil {
		return 0, err
	}

	proto := balances.ConsensusParams()
	if len(record.AppParams) >= proto.MaxAppsCreated {
		return 0, serr.New(serr.InvalidTransactionParams, "cannot create app: max created apps per account reached",
			"address", creator.String(), "max", proto.MaxAppsCreated)
	}

	appIdx := balances.AllocateAppIndex()

	if record.AppParams == nil {
		record.AppParams = make(map[basics.AppIndex]basics.AppParams)
	}
	record.AppParams[appIdx] = basics.AppParams{
		ApprovalProgram:   ac.ApprovalProgram,
		ClearStateProgram: ac.ClearStateProgram,
		StateSchemas: basics.StateSchemas{
			LocalStateSchema:  ac.LocalStateSchema,
			GlobalStateSchema: ac.GlobalStateSchema,
		},
	}

	// The creator pays a minimum-balance surcharge for the global schema.
	record.TotalAppSchema = record.TotalAppSchema.AddSchema(ac.GlobalStateSchema)

	if err = balances.Put(creator, record); err != nil {
		return 0, err
	}
	balances.RegisterApp(appIdx, creator)

	return appIdx, checkMinBalance(balances, creator)
}

func deleteApplication(balances Balances, creator basics.Address, appIdx basics.AppIndex) error {
	record, err := balances.Get(creator)
	if err != nil {
		return err
	}

	params := record.AppParams[appIdx]
	record.TotalAppSchema = record.TotalAppSchema.SubSchema(params.GlobalStateSchema)
	delete(record.AppParams, appIdx)

	if err = balances.Put(creator, record); err != nil {
		return err
	}
	balances.UnregisterApp(appIdx)
	return nil
}

func updateApplication(ac *transactions.ApplicationCallTxnFields, balances Balances, creator basics.Address, appIdx basics.AppIndex) error {
	record, err := balances.Get(creator)
	if err != nil {
		return err
	}

	params := record.AppParams[appIdx]
	params.ApprovalProgram = ac.ApprovalProgram
	params.ClearStateProgram = ac.ClearStateProgram

	record.AppParams[appIdx] = params
	return balances.Put(creator, record)
}

func optInApplication(balances Balances, sender basics.Address, appIdx basics.AppIndex, params basics.AppParams) error {
	record, err := balances.Get(sender)
	if err != nil {
		return err
	}

	if _, ok := record.AppLocalStates[appIdx]; ok {
		return serr.New(serr.InvalidTransactionParams, "account has already opted in to app",
			"address", sender.String(), "app", uint64(appIdx))
	}

	proto := balances.ConsensusParams()
	if len(record.AppLocalStates) >= proto.MaxAppsOptedIn {
		return serr.New(serr.InvalidTransactionParams, "cannot opt in: max opted-in apps per account reached",
			"address", sender.String(), "max", proto.MaxAppsOptedIn)
	}

	if record.AppLocalStates == nil {
		record.AppLocalStates = make(map[basics.AppIndex]basics.AppLocalState)
	}
	record.AppLocalStates[appIdx] = basics.AppLocalState{
		Schema: params.LocalStateSchema,
	}

	record.TotalAppSchema = record.TotalAppSchema.AddSchema(params.LocalStateSchema)

	if err = balances.Put(sender, record); err != nil {
		return err
	}
	return checkMinBalance(balances, sender)
}

func closeOutApplication(balances Balances, sender basics.Address, appIdx basics.AppIndex) error {
	record, err := balances.Get(sender)
	if err != nil {
		return err
	}

	localState, ok := record.AppLocalStates[appIdx]
	if !ok {
		return serr.New(serr.AppNotFound, "account is not opted in to app",
			"address", sender.String(), "app", uint64(appIdx))
	}

	record.TotalAppSchema = record.TotalAppSchema.SubSchema(localState.Schema)
	delete(record.AppLocalStates, appIdx)

	return balances.Put(sender, record)
}

// ApplicationCall applies an ApplicationCall transaction using the Balances
// interface. The stateful program runs against the same transient state the
// lifecycle effect mutates, so a rejecting program discards everything.
func ApplicationCall(ac transactions.ApplicationCallTxnFields, header transactions.Header, balances Balances, gi int) (basics.AppIndex, error) {
	appIdx := ac.ApplicationID

	// Specifying an application ID of 0 indicates an application creation.
	if appIdx == 0 {
		var err error
		appIdx, err = createApplication(&ac, balances, header.Sender)
		if err != nil {
			return 0, err
		}
	}

	// Fetch the application parameters, if they exist.
	params, creator, paramsErr := appParams(balances, appIdx)

	// ClearState applies its lifecycle effect no matter what the clear
	// program says, as long as the program does not fail for a reason other
	// than logic rejection.
	if ac.OnCompletion == transactions.ClearStateOC {
		record, err := balances.Get(header.Sender)
		if err != nil {
			return 0, err
		}
		if _, ok := record.AppLocalStates[appIdx]; !ok {
			return 0, serr.New(serr.AppNotFound, "account is not opted in to app",
				"address", header.Sender.String(), "app", uint64(appIdx))
		}

		if paramsErr == nil {
			// The clear program's verdict cannot block clearing, but any
			// fatal error other than logic rejection still rejects the group.
			_, err := balances.StatefulEval(gi, appIdx, params.ClearStateProgram)
			if err != nil && serr.CodeOf(err) != serr.LogicRejection {
				return 0, err
			}
		}

		return appIdx, closeOutApplication(balances, header.Sender, appIdx)
	}

	if paramsErr != nil {
		return 0, paramsErr
	}

	// If this txn is going to opt in to an app, allocate the local state
	// before running the approval program so the program may write to it.
	if ac.OnCompletion == transactions.OptInOC {
		if err := optInApplication(balances, header.Sender, appIdx, params); err != nil {
			return 0, err
		}
	}

	pass, err := balances.StatefulEval(gi, appIdx, params.ApprovalProgram)
	if err != nil {
		return 0, rejectedByLogic(err)
	}
	if !pass {
		return 0, serr.New(serr.RejectedByLogic, "transaction rejected by logic")
	}

	switch ac.OnCompletion {
	case transactions.NoOpOC, transactions.OptInOC:
		// no further side effects

	case transactions.CloseOutOC:
		if err := closeOutApplication(balances, header.Sender, appIdx); err != nil {
			return 0, err
		}

	case transactions.DeleteApplicationOC:
		if err := deleteApplication(balances, creator, appIdx); err != nil {
			return 0, err
		}

	case transactions.UpdateApplicationOC:
		if err := updateApplication(&ac, balances, creator, appIdx); err != nil {
			return 0, err
		}

	default:
		return 0, serr.Newf(serr.InvalidTransactionParams, "invalid application OnCompletion %d", ac.OnCompletion)
	}

	return appIdx, nil
}

func appParams(balances Balances, aidx basics.AppIndex) (basics.AppParams, basics.Address, error) {
	creator, exists, err := balances.GetCreator(basics.CreatableIndex(aidx), basics.AppCreatable)
	if err != nil {
		return basics.AppParams{}, basics.Address{}, err
	}
	if !exists {
		return basics.AppParams{}, basics.Address{}, serr.New(serr.AppNotFound, "application does not exist", "app", uint64(aidx))
	}
	record, err := balances.Get(creator)
	if err != nil {
		return basics.AppParams{}, basics.Address{}, err
	}
	params, ok := record.AppParams[aidx]
	if !ok {
		return basics.AppParams{}, basics.Address{}, serr.New(serr.AppNotFound, "application does not exist", "app", uint64(aidx))
	}
	return params, creator, nil
}
