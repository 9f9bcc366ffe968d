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

package ledger

import (
	"github.com/algorand/scl-runtime/crypto"
	"github.com/algorand/scl-runtime/data/basics"
	"github.com/algorand/scl-runtime/data/transactions"
	"github.com/algorand/scl-runtime/data/transactions/logic"
	"github.com/algorand/scl-runtime/ledger/apply"
	"github.com/algorand/scl-runtime/protocol"
	"github.com/algorand/scl-runtime/serr"
)

// TxnResult reports what a dispatched transaction created, if anything.
type TxnResult struct {
	ApplicationID basics.AppIndex
	AssetID       basics.AssetIndex
}

// AssignGroupID computes and stores a deterministic group identifier into
// each transaction's Group field. Every submitted group of size > 1 gets one
// before execution, so `global GroupSize` and `gtxn` see a consistent group.
func AssignGroupID(stxns []transactions.SignedTxn) {
	var group transactions.TxGroup
	for i := range stxns {
		txn := stxns[i].Txn
		txn.Group = crypto.Digest{}
		group.TxGroupHashes = append(group.TxGroupHashes, crypto.Digest(txn.ID()))
	}
	gid := crypto.HashObj(group)
	for i := range stxns {
		stxns[i].Txn.Group = gid
	}
}

// ExecuteTxGroup processes a transaction group atomically: pre-flight
// checks, fee deduction in declared order, per-transaction dispatch, and
// commit. If any step fails, the transient context is discarded and the
// canonical state is untouched.
func (l *Ledger) ExecuteTxGroup(stxns []transactions.SignedTxn) ([]TxnResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	results, err := l.executeTxGroup(stxns)
	if err != nil {
		l.log.With("error", err).Debug("transaction group rejected")
		return nil, err
	}
	return results, nil
}

func (l *Ledger) executeTxGroup(stxns []transactions.SignedTxn) ([]TxnResult, error) {
	if len(stxns) == 0 {
		return nil, serr.New(serr.InvalidTransactionParams, "empty transaction group")
	}
	if len(stxns) > l.proto.MaxTxGroupSize {
		return nil, serr.New(serr.InvalidTransactionParams, "group size exceeds protocol max",
			"size", len(stxns), "max", l.proto.MaxTxGroupSize)
	}

	for i := range stxns {
		if err := stxns[i].Txn.WellFormed(&l.proto); err != nil {
			return nil, err
		}
	}

	// Every group of size > 1 executes with a computed group id. Callers
	// normally assign it before signing (AssignGroupID); the engine
	// recomputes it here, which leaves such an assignment unchanged.
	if len(stxns) > 1 {
		AssignGroupID(stxns)
	}

	if err := l.preflight(stxns); err != nil {
		return nil, err
	}

	cow := l.startEval()
	cow.group = stxns

	// Fees are deducted for the whole group, in declared order, before any
	// payload executes.
	for i := range stxns {
		if err := apply.Fee(stxns[i].Txn.Header, cow); err != nil {
			return nil, err
		}
	}

	results := make([]TxnResult, len(stxns))
	for i := range stxns {
		res, err := l.applyTransaction(cow, &stxns[i], i)
		if err != nil {
			return nil, err
		}
		results[i] = res
	}

	l.commit(cow)
	return results, nil
}

// preflight validates sender resolution and authorization for every
// transaction before any state is touched. A logic signature must verify
// against the authorizer and its program must accept under the stateless
// interpreter.
func (l *Ledger) preflight(stxns []transactions.SignedTxn) error {
	for i := range stxns {
		stxn := &stxns[i]
		acct, ok := l.accounts[stxn.Txn.Sender]
		if !ok {
			return serr.New(serr.AccountDoesNotExist, "transaction sender does not exist",
				"address", stxn.Txn.Sender.String())
		}

		// The authorizer is the sender unless the account has been rekeyed.
		authorizer := stxn.Txn.Sender
		if !acct.AuthAddr.IsZero() {
			authorizer = acct.AuthAddr
		}

		hasSig := !stxn.Sig.Blank()
		hasMsig := !stxn.Msig.Blank()
		hasLsig := !stxn.Lsig.Blank()

		if hasLsig && (hasSig || hasMsig) {
			return serr.New(serr.InvalidTransactionParams, "transaction has both a signature and a logic signature")
		}

		switch {
		case hasSig:
			if hasMsig {
				return serr.New(serr.InvalidTransactionParams, "transaction has both a signature and a multisig")
			}
			if !crypto.SignatureVerifier(authorizer).Verify(stxn.Txn, stxn.Sig) {
				return serr.New(serr.InvalidTransactionParams, "signature does not verify against the sender",
					"address", authorizer.String())
			}

		case hasMsig:
			if ok, _ := crypto.MultisigVerify(stxn.Txn, crypto.PublicKey(authorizer), stxn.Msig); !ok {
				return serr.New(serr.InvalidTransactionParams, "multisig does not verify against the sender",
					"address", authorizer.String())
			}

		case hasLsig:
			if err := stxn.Lsig.Verify(authorizer); err != nil {
				return err
			}
			params := logic.EvalParams{
				Proto:    &l.proto,
				TxnGroup: stxns,
			}
			params.SetLogger(l.log)
			pass, err := logic.EvalSignature(i, &params)
			if err != nil {
				if serr.CodeOf(err) == serr.LogicRejection {
					wrapped := serr.New(serr.RejectedByLogic, "transaction rejected by logic")
					wrapped.Wrapped = err
					return wrapped
				}
				return err
			}
			if !pass {
				return serr.New(serr.RejectedByLogic, "transaction rejected by logic")
			}

		default:
			return serr.New(serr.LogicSignatureNotFound, "transaction carries neither a signature nor a logic signature")
		}
	}
	return nil
}

func (l *Ledger) applyTransaction(cow *roundCowState, stxn *transactions.SignedTxn, gi int) (res TxnResult, err error) {
	if err = apply.Rekey(cow, &stxn.Txn); err != nil {
		return
	}

	switch stxn.Txn.Type {
	case protocol.PaymentTx:
		err = apply.Payment(stxn.Txn.PaymentTxnFields, stxn.Txn.Header, cow)

	case protocol.KeyRegistrationTx:
		err = apply.Keyreg(stxn.Txn.KeyregTxnFields, stxn.Txn.Header, cow)

	case protocol.AssetConfigTx:
		res.AssetID, err = apply.AssetConfig(stxn.Txn.AssetConfigTxnFields, stxn.Txn.Header, cow)

	case protocol.AssetTransferTx:
		err = apply.AssetTransfer(stxn.Txn.AssetTransferTxnFields, stxn.Txn.Header, cow)

	case protocol.AssetFreezeTx:
		err = apply.AssetFreeze(stxn.Txn.AssetFreezeTxnFields, stxn.Txn.Header, cow)

	case protocol.ApplicationCallTx:
		res.ApplicationID, err = apply.ApplicationCall(stxn.Txn.ApplicationCallTxnFields, stxn.Txn.Header, cow, gi)

	default:
		err = serr.Newf(serr.InvalidTransactionParams, "unknown transaction type %v", stxn.Txn.Type)
	}
	return
}
