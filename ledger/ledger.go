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

// Package ledger owns the canonical world state of the runtime: accounts,
// creatable id counters, and the creator maps for applications and assets.
// Transaction groups execute against a transient copy of this state, which
// replaces the canonical state only when the whole group succeeds.
package ledger

import (
	"github.com/algorand/go-deadlock"

	"github.com/algorand/scl-runtime/config"
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/logging"
	"github.com/algorand/scl-runtime/serr"
)

// Ledger is the canonical world state.
type Ledger struct {
	mu deadlock.Mutex

	proto config.ConsensusParams
	log   logging.Logger

	accounts      map[basics.Address]basics.AccountData
	appCreators   map[basics.AppIndex]basics.Address
	assetCreators map[basics.AssetIndex]basics.Address

	// Creatable ids are monotonic counters owned by the ledger.
	appCounter   uint64
	assetCounter uint64

	// The clock is injected; there is no wall-clock anywhere in the runtime.
	round     basics.Round
	timestamp int64
}

// MakeLedger constructs a Ledger seeded with the given balance records.
func MakeLedger(proto config.ConsensusParams, log logging.Logger, accounts []basics.BalanceRecord) *Ledger {
	if log == nil {
		log = logging.Base()
	}
	l := &Ledger{
		proto:         proto,
		log:           log,
		accounts:      make(map[basics.Address]basics.AccountData, len(accounts)),
		appCreators:   make(map[basics.AppIndex]basics.Address),
		assetCreators: make(map[basics.AssetIndex]basics.Address),
		timestamp:     1,
	}
	for _, br := range accounts {
		l.accounts[br.Addr] = br.AccountData.Clone()
	}
	return l
}

// ConsensusParams returns the parameters the ledger executes under.
func (l *Ledger) ConsensusParams() config.ConsensusParams {
	return l.proto
}

// SetRound injects the round visible via `global Round`.
func (l *Ledger) SetRound(rnd basics.Round) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.round = rnd
}

// Round returns the injected round.
func (l *Ledger) Round() basics.Round {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.round
}

// SetTimestamp injects the timestamp visible via `global LatestTimestamp`.
func (l *Ledger) SetTimestamp(ts int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timestamp = ts
}

// Timestamp returns the injected timestamp.
func (l *Ledger) Timestamp() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.timestamp
}

// AddAccount installs a balance record, overwriting any existing one.
func (l *Ledger) AddAccount(br basics.BalanceRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[br.Addr] = br.AccountData.Clone()
}

// AccountData returns a copy of an account's data.
func (l *Ledger) AccountData(addr basics.Address) (basics.AccountData, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	data, ok := l.accounts[addr]
	if !ok {
		return basics.AccountData{}, serr.New(serr.AccountDoesNotExist, "account does not exist", "address", addr.String())
	}
	return data.Clone(), nil
}

// Accounts returns a copy of every balance record, for accessors and tests.
func (l *Ledger) Accounts() []basics.BalanceRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	records := make([]basics.BalanceRecord, 0, len(l.accounts))
	for addr, data := range l.accounts {
		records = append(records, basics.BalanceRecord{Addr: addr, AccountData: data.Clone()})
	}
	return records
}

// AppCreator returns the creator address of an app.
func (l *Ledger) AppCreator(aidx basics.AppIndex) (basics.Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	creator, ok := l.appCreators[aidx]
	if !ok {
		return basics.Address{}, serr.New(serr.AppNotFound, "application does not exist", "app", uint64(aidx))
	}
	return creator, nil
}

// AssetCreator returns the creator address of an asset.
func (l *Ledger) AssetCreator(aidx basics.AssetIndex) (basics.Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	creator, ok := l.assetCreators[aidx]
	if !ok {
		return basics.Address{}, serr.New(serr.AssetNotFound, "asset does not exist", "asset", uint64(aidx))
	}
	return creator, nil
}

// AppParams returns the parameters of an app along with its creator.
func (l *Ledger) AppParams(aidx basics.AppIndex) (basics.AppParams, basics.Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	creator, ok := l.appCreators[aidx]
	if !ok {
		return basics.AppParams{}, basics.Address{}, serr.New(serr.AppNotFound, "application does not exist", "app", uint64(aidx))
	}
	params, ok := l.accounts[creator].AppParams[aidx]
	if !ok {
		return basics.AppParams{}, basics.Address{}, serr.New(serr.AppNotFound, "application does not exist", "app", uint64(aidx))
	}
	return params.Clone(), creator, nil
}

// AssetParams returns the parameters of an asset along with its creator.
func (l *Ledger) AssetParams(aidx basics.AssetIndex) (basics.AssetParams, basics.Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	creator, ok := l.assetCreators[aidx]
	if !ok {
		return basics.AssetParams{}, basics.Address{}, serr.New(serr.AssetNotFound, "asset does not exist", "asset", uint64(aidx))
	}
	params, ok := l.accounts[creator].AssetParams[aidx]
	if !ok {
		return basics.AssetParams{}, basics.Address{}, serr.New(serr.AssetNotFound, "asset does not exist", "asset", uint64(aidx))
	}
	return params, creator, nil
}

// AssetHolding returns the holding of an asset by an account.
func (l *Ledger) AssetHolding(addr basics.Address, aidx basics.AssetIndex) (basics.AssetHolding, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	data, ok := l.accounts[addr]
	if !ok {
		return basics.AssetHolding{}, serr.New(serr.AccountDoesNotExist, "account does not exist", "address", addr.String())
	}
	holding, ok := data.Assets[aidx]
	if !ok {
		return basics.AssetHolding{}, serr.New(serr.AsaNotOptin, "account has not opted in to asset", "address", addr.String(), "asset", uint64(aidx))
	}
	return holding, nil
}
