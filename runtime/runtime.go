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

// Package runtime is the public facade of the SCL execution runtime. A
// Runtime owns a deterministic world state (accounts, assets, applications)
// with an injectable clock, executes transactions and atomic groups against
// it, and exposes accessors for the resulting state.
package runtime

import (
	"github.com/algorand/go-deadlock"

	"github.com/algorand/scl-runtime/config"
	"github.com/algorand/scl-runtime/crypto"
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/data/transactions"
	"github.com/algorand/scl-runtime/data/transactions/logic"
	"github.com/algorand/scl-runtime/ledger"
	"github.com/algorand/scl-runtime/logging"
	"github.com/algorand/scl-runtime/serr"
)

// AccountHandle names an account and, when available, carries the secrets
// used to sign the transactions the facade builds for it.
type AccountHandle struct {
	Addr    basics.Address
	Secrets *crypto.SignatureSecrets
}

// MakeAccount generates a keypair-backed account handle and its initial
// balance record.
func MakeAccount(seed crypto.Seed, balance uint64) (AccountHandle, basics.BalanceRecord) {
	secrets := crypto.GenerateSignatureSecrets(seed)
	addr := basics.Address(secrets.SignatureVerifier)
	handle := AccountHandle{Addr: addr, Secrets: secrets}
	record := basics.BalanceRecord{
		Addr:        addr,
		AccountData: basics.AccountData{MicroAlgos: basics.MicroAlgos{Raw: balance}},
	}
	return handle, record
}

// Option adjusts a Runtime under construction.
type Option func(*Runtime)

// WithLogger installs a logger.
func WithLogger(log logging.Logger) Option {
	return func(r *Runtime) { r.log = log }
}

// WithParams overrides the consensus parameters.
func WithParams(proto config.ConsensusParams) Option {
	return func(r *Runtime) { r.proto = proto }
}

// Runtime executes transactions against a deterministic world state.
type Runtime struct {
	mu deadlock.Mutex

	proto  config.ConsensusParams
	log    logging.Logger
	ledger *ledger.Ledger
}

// New creates a Runtime seeded with the given accounts.
func New(accounts []basics.BalanceRecord, opts ...Option) *Runtime {
	r := &Runtime{
		proto: config.Params(),
		log:   logging.Base(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.ledger = ledger.MakeLedger(r.proto, r.log, accounts)
	return r
}

// SetRound injects the round counter visible to programs via `global Round`.
func (r *Runtime) SetRound(rnd basics.Round) {
	r.ledger.SetRound(rnd)
}

// Round returns the injected round.
func (r *Runtime) Round() basics.Round {
	return r.ledger.Round()
}

// SetTimestamp injects the clock value visible via `global LatestTimestamp`.
func (r *Runtime) SetTimestamp(ts int64) {
	r.ledger.SetTimestamp(ts)
}

// Timestamp returns the injected clock value.
func (r *Runtime) Timestamp() int64 {
	return r.ledger.Timestamp()
}

// AddAccount installs a balance record, overwriting any existing one.
func (r *Runtime) AddAccount(br basics.BalanceRecord) {
	r.ledger.AddAccount(br)
}

// ExecuteTx is the central entry of the runtime: it executes a transaction
// or an atomic transaction group, committing the resulting state only when
// every transaction succeeds.
func (r *Runtime) ExecuteTx(stxns ...transactions.SignedTxn) ([]ledger.TxnResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.ExecuteTxGroup(stxns)
}

// MakeLogicSig assembles the program source to validate it and returns a
// logic signature carrying it. Sign the result for delegated mode; leave it
// unsigned for contract mode.
func (r *Runtime) MakeLogicSig(src string, args [][]byte) (transactions.LogicSig, error) {
	if _, err := logic.Assemble(src); err != nil {
		return transactions.LogicSig{}, err
	}
	return transactions.LogicSig{Logic: []byte(src), Args: args}, nil
}

// AccountData returns a copy of an account's data.
func (r *Runtime) AccountData(addr basics.Address) (basics.AccountData, error) {
	return r.ledger.AccountData(addr)
}

// Balance returns an account's balance in micro-units.
func (r *Runtime) Balance(addr basics.Address) (uint64, error) {
	data, err := r.ledger.AccountData(addr)
	if err != nil {
		return 0, err
	}
	return data.MicroAlgos.Raw, nil
}

// AppParams returns the parameters of an application and its creator.
func (r *Runtime) AppParams(aidx basics.AppIndex) (basics.AppParams, basics.Address, error) {
	return r.ledger.AppParams(aidx)
}

// AssetParams returns the parameters of an asset and its creator.
func (r *Runtime) AssetParams(aidx basics.AssetIndex) (basics.AssetParams, basics.Address, error) {
	return r.ledger.AssetParams(aidx)
}

// AssetHolding returns the holding of an asset by an account.
func (r *Runtime) AssetHolding(aidx basics.AssetIndex, addr basics.Address) (basics.AssetHolding, error) {
	return r.ledger.AssetHolding(addr, aidx)
}

// GlobalState reads a key of an application's global state.
func (r *Runtime) GlobalState(aidx basics.AppIndex, key string) (basics.TealValue, bool, error) {
	params, _, err := r.ledger.AppParams(aidx)
	if err != nil {
		return basics.TealValue{}, false, err
	}
	tv, ok := params.GlobalState[key]
	return tv, ok, nil
}

// LocalState reads a key of an account's local state for an application.
func (r *Runtime) LocalState(aidx basics.AppIndex, addr basics.Address, key string) (basics.TealValue, bool, error) {
	data, err := r.ledger.AccountData(addr)
	if err != nil {
		return basics.TealValue{}, false, err
	}
	ls, ok := data.AppLocalStates[aidx]
	if !ok {
		return basics.TealValue{}, false, serr.New(serr.AppNotFound, "account has not opted in to app",
			"address", addr.String(), "app", uint64(aidx))
	}
	tv, ok := ls.KeyValue[key]
	return tv, ok, nil
}

// defaultHeader fills in the common transaction fields: minimum fee and a
// validity window anchored at the injected round.
func (r *Runtime) defaultHeader(sender basics.Address) transactions.Header {
	rnd := r.ledger.Round()
	return transactions.Header{
		Sender:     sender,
		Fee:        basics.MicroAlgos{Raw: r.proto.MinTxnFee},
		FirstValid: rnd,
		LastValid:  rnd + basics.Round(r.proto.MaxTxnLife),
	}
}

// PaymentTxn builds a payment transaction with default header fields. The
// caller may adjust fields before signing.
func (r *Runtime) PaymentTxn(sender, receiver basics.Address, amount uint64) transactions.Transaction {
	return transactions.Transaction{
		Type:   "pay",
		Header: r.defaultHeader(sender),
		PaymentTxnFields: transactions.PaymentTxnFields{
			Receiver: receiver,
			Amount:   basics.MicroAlgos{Raw: amount},
		},
	}
}

// sign produces a SignedTxn for the handle, failing when the handle carries
// no secrets.
func (r *Runtime) sign(h AccountHandle, txn transactions.Transaction) (transactions.SignedTxn, error) {
	if h.Secrets == nil {
		return transactions.SignedTxn{}, serr.New(serr.InvalidTransactionParams, "account handle has no signing secrets",
			"address", h.Addr.String())
	}
	return txn.Sign(h.Secrets), nil
}

func (r *Runtime) signAndExecute(h AccountHandle, txn transactions.Transaction) ([]ledger.TxnResult, error) {
	stxn, err := r.sign(h, txn)
	if err != nil {
		return nil, err
	}
	return r.ExecuteTx(stxn)
}

// Pay moves micro-units between two accounts.
func (r *Runtime) Pay(h AccountHandle, receiver basics.Address, amount uint64) error {
	_, err := r.signAndExecute(h, r.PaymentTxn(h.Addr, receiver, amount))
	return err
}

// MakeGroup assigns a common group identifier across the transactions and
// signs each one with its handle, so that the resulting signatures cover the
// group field the engine will execute under.
func MakeGroup(txns []transactions.Transaction, signers []AccountHandle) ([]transactions.SignedTxn, error) {
	if len(txns) != len(signers) {
		return nil, serr.New(serr.InvalidTransactionParams, "every grouped transaction needs a signer")
	}
	stxns := make([]transactions.SignedTxn, len(txns))
	for i := range txns {
		stxns[i].Txn = txns[i]
	}
	if len(stxns) > 1 {
		ledger.AssignGroupID(stxns)
	}
	for i := range stxns {
		if signers[i].Secrets == nil {
			return nil, serr.New(serr.InvalidTransactionParams, "account handle has no signing secrets",
				"address", signers[i].Addr.String())
		}
		stxns[i] = stxns[i].Txn.Sign(signers[i].Secrets)
	}
	return stxns, nil
}
