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

func getParams(balances Balances, aidx basics.AssetIndex) (params basics.AssetParams, creator basics.Address, err error) {
	creator, exists, err := balances.GetCreator(basics.CreatableIndex(aidx), basics.AssetCreatable)
	if err != nil {
		return
	}

	// For assets, anywhere that we're attempting to fetch parameters, we are
	// assuming that the asset should exist.
	if !exists {
		err = serr.New(serr.AssetNotFound, "asset does not exist", "asset", uint64(aidx))
		return
	}

	creatorRecord, err := balances.Get(creator)
	if err != nil {
		return
	}

	params, ok := creatorRecord.AssetParams[aidx]
	if !ok {
		err = serr.New(serr.AssetNotFound, "asset index exists but no parameters in creator account", "asset", uint64(aidx))
		return
	}

	return params, creator, nil
}

// AssetConfig applies an AssetConfig transaction using the Balances
// interface: allocation (ConfigAsset == 0), role re-configuration, or
// destruction (zero params).
func AssetConfig(cc transactions.AssetConfigTxnFields, header transactions.Header, balances Balances) (basics.AssetIndex, error) {
	proto := balances.ConsensusParams()

	if cc.ConfigAsset == 0 {
		// Allocating an asset.
		record, err := balances.Get(header.Sender)
		if err != nil {
			return 0, err
		}

		// Ensure index is never zero
		newidx := balances.AllocateAssetIndex()

		// Sanity check that there isn't an asset with this counter value.
		if _, present := record.AssetParams[newidx]; present {
			return 0, serr.New(serr.InvalidTransactionParams, "asset id collision", "asset", uint64(newidx))
		}

		if len(record.AssetParams) >= proto.MaxAssetsPerAccount {
			return 0, serr.New(serr.InvalidTransactionParams, "too many assets created",
				"address", header.Sender.String(), "max", proto.MaxAssetsPerAccount)
		}

		if record.AssetParams == nil {
			record.AssetParams = make(map[basics.AssetIndex]basics.AssetParams)
		}
		if record.Assets == nil {
			record.Assets = make(map[basics.AssetIndex]basics.AssetHolding)
		}
		record.AssetParams[newidx] = cc.AssetParams
		record.Assets[newidx] = basics.AssetHolding{
			Amount: cc.AssetParams.Total,
			Frozen: cc.AssetParams.DefaultFrozen,
		}

		if err = balances.Put(header.Sender, record); err != nil {
			return 0, err
		}
		balances.RegisterAsset(newidx, header.Sender)

		return newidx, checkMinBalance(balances, header.Sender)
	}

	// Re-configuration and destroying must be done by the manager key.
	params, creator, err := getParams(balances, cc.ConfigAsset)
	if err != nil {
		return 0, err
	}

	if params.Manager.IsZero() || header.Sender != params.Manager {
		return 0, serr.New(serr.ManagerError, "this transaction should be issued by the manager",
			"asset", uint64(cc.ConfigAsset), "sender", header.Sender.String())
	}

	record, err := balances.Get(creator)
	if err != nil {
		return 0, err
	}

	if cc.AssetParams == (basics.AssetParams{}) {
		// Destroying an asset. The creator account must hold the entire
		// outstanding asset supply.
		if record.Assets[cc.ConfigAsset].Amount != params.Total {
			return 0, serr.New(serr.InsufficientAccountAssets, "cannot destroy asset: creator is holding only part of the total supply",
				"asset", uint64(cc.ConfigAsset), "holding", record.Assets[cc.ConfigAsset].Amount, "total", params.Total)
		}

		delete(record.Assets, cc.ConfigAsset)
		delete(record.AssetParams, cc.ConfigAsset)
		balances.UnregisterAsset(cc.ConfigAsset)
	} else {
		// Changing keys in an asset. A non-zero role address may never be
		// rewritten to the zero address.
		if err := checkRole(params.Manager, cc.AssetParams.Manager, "manager", cc.ConfigAsset); err != nil {
			return 0, err
		}
		if err := checkRole(params.Reserve, cc.AssetParams.Reserve, "reserve", cc.ConfigAsset); err != nil {
			return 0, err
		}
		if err := checkRole(params.Freeze, cc.AssetParams.Freeze, "freeze", cc.ConfigAsset); err != nil {
			return 0, err
		}
		if err := checkRole(params.Clawback, cc.AssetParams.Clawback, "clawback", cc.ConfigAsset); err != nil {
			return 0, err
		}

		params.Manager = cc.AssetParams.Manager
		params.Reserve = cc.AssetParams.Reserve
		params.Freeze = cc.AssetParams.Freeze
		params.Clawback = cc.AssetParams.Clawback

		record.AssetParams[cc.ConfigAsset] = params
	}

	return cc.ConfigAsset, balances.Put(creator, record)
}

// checkRole enforces that a non-zero role address is never rewritten to the
// zero address.
func checkRole(old, new basics.Address, role string, aidx basics.AssetIndex) error {
	if !old.IsZero() && new.IsZero() {
		return serr.New(serr.ManagerError, "cannot clear a non-zero role address",
			"role", role, "asset", uint64(aidx))
	}
	return nil
}

func takeOut(balances Balances, addr basics.Address, asset basics.AssetIndex, amount uint64, bypassFreeze bool) error {
	if amount == 0 {
		return nil
	}

	snd, err := balances.Get(addr)
	if err != nil {
		return err
	}

	sndHolding, ok := snd.Assets[asset]
	if !ok {
		return serr.New(serr.AsaNotOptin, "asset missing from account",
			"asset", uint64(asset), "address", addr.String())
	}

	if sndHolding.Frozen && !bypassFreeze {
		return serr.New(serr.AccountAssetFrozen, "asset frozen in account",
			"asset", uint64(asset), "address", addr.String())
	}

	newAmount, overflowed := basics.OSub(sndHolding.Amount, amount)
	if overflowed {
		return serr.New(serr.InsufficientAccountAssets, "underflow on subtracting asset amount",
			"asset", uint64(asset), "address", addr.String(), "holding", sndHolding.Amount, "tried to spend", amount)
	}
	sndHolding.Amount = newAmount

	snd.Assets[asset] = sndHolding
	return balances.Put(addr, snd)
}

func putIn(balances Balances, addr basics.Address, asset basics.AssetIndex, amount uint64, bypassFreeze bool) error {
	if amount == 0 {
		return nil
	}

	rcv, err := balances.Get(addr)
	if err != nil {
		return err
	}

	rcvHolding, ok := rcv.Assets[asset]
	if !ok {
		return serr.New(serr.AsaNotOptin, "receiver error: must optin",
			"asset", uint64(asset), "address", addr.String())
	}

	if rcvHolding.Frozen && !bypassFreeze {
		return serr.New(serr.AccountAssetFrozen, "asset frozen in recipient",
			"asset", uint64(asset), "address", addr.String())
	}

	newAmount, overflowed := basics.OAdd(rcvHolding.Amount, amount)
	if overflowed {
		return serr.New(serr.Uint64Overflow, "overflow on adding asset amount",
			"asset", uint64(asset), "address", addr.String())
	}
	rcvHolding.Amount = newAmount

	rcv.Assets[asset] = rcvHolding
	return balances.Put(addr, rcv)
}

// AssetTransfer applies an AssetTransfer transaction using the Balances
// interface. A clawback transfer (AssetSender set) must be issued by the
// clawback role and bypasses freezes.
func AssetTransfer(ct transactions.AssetTransferTxnFields, header transactions.Header, balances Balances) error {
	// Default to sending from the transaction sender's account.
	source := header.Sender
	clawback := false

	if !ct.AssetSender.IsZero() {
		// Clawback transaction.  Check that the transaction sender is the
		// asset's clawback address.
		params, _, err := getParams(balances, ct.XferAsset)
		if err != nil {
			return err
		}

		if params.Clawback.IsZero() || (header.Sender != params.Clawback) {
			return serr.New(serr.ClawbackError, "clawback not authorized",
				"asset", uint64(ct.XferAsset), "sender", header.Sender.String())
		}

		source = ct.AssetSender
		clawback = true
	}

	if source == ct.AssetReceiver && ct.AssetAmount == 0 && !clawback {
		// Allocating an asset slot (opt-in): an axfer of zero to self.
		snd, err := balances.Get(source)
		if err != nil {
			return err
		}

		if _, ok := snd.Assets[ct.XferAsset]; !ok {
			params, _, err := getParams(balances, ct.XferAsset)
			if err != nil {
				return err
			}

			proto := balances.ConsensusParams()
			if len(snd.Assets) >= proto.MaxAssetsPerAccount {
				return serr.New(serr.InvalidTransactionParams, "too many assets in account",
					"address", source.String(), "max", proto.MaxAssetsPerAccount)
			}

			if snd.Assets == nil {
				snd.Assets = make(map[basics.AssetIndex]basics.AssetHolding)
			}
			snd.Assets[ct.XferAsset] = basics.AssetHolding{
				Amount: 0,
				Frozen: params.DefaultFrozen,
			}

			if err = balances.Put(source, snd); err != nil {
				return err
			}
			return checkMinBalance(balances, source)
		}
		// Already opted in; fall through so a zero self-transfer of an
		// existing slot behaves like any other transfer.
	}

	// Actually move the asset.  Zero transfers are allowed (and do nothing
	// beyond the opt-in handled above).
	if err := takeOut(balances, source, ct.XferAsset, ct.AssetAmount, clawback); err != nil {
		return err
	}
	if err := putIn(balances, ct.AssetReceiver, ct.XferAsset, ct.AssetAmount, clawback); err != nil {
		return err
	}

	if !ct.AssetCloseTo.IsZero() {
		if clawback {
			return serr.New(serr.InvalidTransactionParams, "cannot close asset by clawback")
		}

		// Fetch the sender balance record. We will use this to ensure the
		// sender is not the creator of the asset.
		snd, err := balances.Get(source)
		if err != nil {
			return err
		}

		if _, ok := snd.AssetParams[ct.XferAsset]; ok {
			return serr.New(serr.InvalidTransactionParams, "cannot close asset ID in allocating account",
				"asset", uint64(ct.XferAsset))
		}

		sndHolding, ok := snd.Assets[ct.XferAsset]
		if !ok {
			return serr.New(serr.AsaNotOptin, "asset missing from account",
				"asset", uint64(ct.XferAsset), "address", source.String())
		}

		// The sender holding may not be frozen when closing out.
		if sndHolding.Frozen {
			return serr.New(serr.AccountAssetFrozen, "cannot close frozen asset holding",
				"asset", uint64(ct.XferAsset), "address", source.String())
		}

		// Move the balance out, honoring the receiver's frozen state.
		if err = putIn(balances, ct.AssetCloseTo, ct.XferAsset, sndHolding.Amount, false); err != nil {
			return err
		}

		// Remove the slot from the sender.
		snd, err = balances.Get(source)
		if err != nil {
			return err
		}
		delete(snd.Assets, ct.XferAsset)
		if err = balances.Put(source, snd); err != nil {
			return err
		}
	}

	return nil
}

// AssetFreeze applies an AssetFreeze transaction using the Balances
// interface.
func AssetFreeze(cf transactions.AssetFreezeTxnFields, header transactions.Header, balances Balances) error {
	// Only the Freeze address can change the freeze value.
	params, _, err := getParams(balances, cf.FreezeAsset)
	if err != nil {
		return err
	}

	if params.Freeze.IsZero() || (header.Sender != params.Freeze) {
		return serr.New(serr.FreezeError, "freeze not allowed: sender is not the freeze role",
			"asset", uint64(cf.FreezeAsset), "sender", header.Sender.String())
	}

	// Get the account to be frozen/unfrozen.
	record, err := balances.Get(cf.FreezeAccount)
	if err != nil {
		return err
	}

	holding, ok := record.Assets[cf.FreezeAsset]
	if !ok {
		return serr.New(serr.AsaNotOptin, "asset not found in account",
			"asset", uint64(cf.FreezeAsset), "address", cf.FreezeAccount.String())
	}

	holding.Frozen = cf.AssetFrozen
	record.Assets[cf.FreezeAsset] = holding
	return balances.Put(cf.FreezeAccount, record)
}
