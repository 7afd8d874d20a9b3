// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/danielhkuo/chainvote/cliparse"
)

// Gas ceilings for state-changing calls
const (
	addCandidateGasLimit  = uint64(300000)
	registerVoterGasLimit = uint64(150000)
	voteGasLimit          = uint64(200000)
)

const receiptPollInterval = time.Second

// ethRPC is the subset of *ethclient.Client the backend uses
type ethRPC interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	Close()
}

// Ethereum talks to the contract over JSON-RPC
type Ethereum struct {
	contract common.Address
	signer   *ecdsa.PrivateKey
	from     common.Address

	conn         *reconnector[ethRPC]
	policy       callPolicy
	txTimeout    time.Duration
	pollInterval time.Duration
}

func NewEthereum(ctx context.Context, cfg cliparse.Config) (*Ethereum, error) {
	dial := func(ctx context.Context) (ethRPC, error) {
		client, err := ethclient.DialContext(ctx, cfg.RPCURL)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	e, err := newEthereum(cfg, dial)
	if err != nil {
		return nil, err
	}

	// Not fatal: the reconnector dials again on the next request
	var chainID *big.Int
	err = e.policy.read(ctx, func(ctx context.Context) error {
		client, err := e.conn.acquire(ctx)
		if err != nil {
			return err
		}
		chainID, err = client.ChainID(ctx)
		return err
	})
	if err != nil {
		slog.Warn("ethereum node not reachable at start-up", "error", err)
	} else {
		slog.Info("ethereum backend ready",
			"chain_id", chainID.String(),
			"contract", e.contract.Hex(),
			"server_signing", e.signer != nil,
		)
	}

	return e, nil
}

func newEthereum(cfg cliparse.Config, dial func(context.Context) (ethRPC, error)) (*Ethereum, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.ContractAddress)
	}

	e := &Ethereum{
		contract:     common.HexToAddress(cfg.ContractAddress),
		txTimeout:    cfg.TxTimeout,
		pollInterval: receiptPollInterval,
	}

	if cfg.SignerKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.SignerKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid signer key: %w", err)
		}
		e.signer = key
		e.from = crypto.PubkeyToAddress(key.PublicKey)
	}

	e.conn = newReconnector(BackendEthereum, cfg.ReconnectAfter, dial, func(c ethRPC) { c.Close() })
	e.policy = callPolicy{
		timeout:     cfg.CallTimeout,
		readRetries: cfg.ReadRetries,
		backoff:     200 * time.Millisecond,
		classify:    classifyEthereum,
		observe:     e.conn.observe,
	}

	return e, nil
}

func classifyEthereum(err error) error {
	if strings.Contains(err.Error(), "execution reverted") {
		return fmt.Errorf("%w: %w", ErrTransactionReverted, err)
	}
	return fmt.Errorf("%w: %w", ErrContractUnavailable, err)
}

func (e *Ethereum) call(ctx context.Context, method string, args ...interface{}) ([]byte, error) {
	data, err := packCall(method, args...)
	if err != nil {
		return nil, err
	}

	var out []byte
	err = e.policy.read(ctx, func(ctx context.Context) error {
		client, err := e.conn.acquire(ctx)
		if err != nil {
			return err
		}
		out, err = client.CallContract(ctx, ethereum.CallMsg{To: &e.contract, Data: data}, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Ethereum) Candidate(ctx context.Context, id uint64) (Candidate, error) {
	out, err := e.call(ctx, methodGetCandidate, new(big.Int).SetUint64(id))
	if isReverted(err) {
		return Candidate{}, fmt.Errorf("%w: candidate %d", ErrNotFound, id)
	}
	if err != nil {
		return Candidate{}, err
	}

	name, votes, err := unpackNameVotes(methodGetCandidate, out)
	if err != nil {
		return Candidate{}, err
	}
	return Candidate{ID: id, Name: name, VoteCount: votes}, nil
}

func (e *Ethereum) CandidatesCount(ctx context.Context) (uint64, error) {
	out, err := e.call(ctx, methodCandidatesCount)
	if err != nil {
		return 0, err
	}
	return unpackUint(methodCandidatesCount, out)
}

func (e *Ethereum) Winner(ctx context.Context) (Candidate, error) {
	out, err := e.call(ctx, methodGetWinner)
	if err != nil {
		return Candidate{}, err
	}

	name, votes, err := unpackNameVotes(methodGetWinner, out)
	if err != nil {
		return Candidate{}, err
	}
	return Candidate{Name: name, VoteCount: votes}, nil
}

func (e *Ethereum) Voter(ctx context.Context, voter common.Address) (VoterRecord, error) {
	out, err := e.call(ctx, methodVoters, voter)
	if err != nil {
		return VoterRecord{}, err
	}

	hasVoted, candidateID, err := unpackVoter(out)
	if err != nil {
		return VoterRecord{}, err
	}
	return VoterRecord{Address: voter, HasVoted: hasVoted, VotedCandidateID: candidateID}, nil
}

// BuildVoteTransaction prepares a vote for the voter's wallet to sign.
// Gas price, nonce and chain id reflect chain state at call time.
func (e *Ethereum) BuildVoteTransaction(ctx context.Context, candidateID uint64, voter common.Address) (*UnsignedTx, error) {
	data, err := packCall(methodVote, new(big.Int).SetUint64(candidateID))
	if err != nil {
		return nil, err
	}

	tx := &UnsignedTx{
		From:  voter,
		To:    e.contract,
		Data:  data,
		Value: new(big.Int),
		Gas:   voteGasLimit,
	}

	err = e.policy.read(ctx, func(ctx context.Context) error {
		client, err := e.conn.acquire(ctx)
		if err != nil {
			return err
		}
		if tx.GasPrice, err = client.SuggestGasPrice(ctx); err != nil {
			return err
		}
		if tx.Nonce, err = client.PendingNonceAt(ctx, voter); err != nil {
			return err
		}
		tx.ChainID, err = client.ChainID(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return tx, nil
}

func (e *Ethereum) AddCandidate(ctx context.Context, name string) (TxResult, error) {
	if strings.TrimSpace(name) == "" {
		return TxResult{}, fmt.Errorf("%w: candidate name is empty", ErrInvalidInput)
	}
	return e.transact(ctx, methodAddCandidate, addCandidateGasLimit, name)
}

func (e *Ethereum) RegisterVoter(ctx context.Context, voter common.Address) (TxResult, error) {
	return e.transact(ctx, methodRegisterVoter, registerVoterGasLimit, voter)
}

func (e *Ethereum) SubmitVote(ctx context.Context, candidateID uint64) (TxResult, error) {
	return e.transact(ctx, methodVote, voteGasLimit, new(big.Int).SetUint64(candidateID))
}

// transact signs with the server key, broadcasts once and waits for the receipt
func (e *Ethereum) transact(ctx context.Context, method string, gas uint64, args ...interface{}) (TxResult, error) {
	if e.signer == nil {
		return TxResult{}, ErrSignerUnavailable
	}

	data, err := packCall(method, args...)
	if err != nil {
		return TxResult{}, err
	}

	var (
		nonce    uint64
		gasPrice *big.Int
		chainID  *big.Int
	)
	err = e.policy.read(ctx, func(ctx context.Context) error {
		client, err := e.conn.acquire(ctx)
		if err != nil {
			return err
		}
		if nonce, err = client.PendingNonceAt(ctx, e.from); err != nil {
			return err
		}
		if gasPrice, err = client.SuggestGasPrice(ctx); err != nil {
			return err
		}
		chainID, err = client.ChainID(ctx)
		return err
	})
	if err != nil {
		return TxResult{}, err
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &e.contract,
		Value:    new(big.Int),
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), e.signer)
	if err != nil {
		return TxResult{}, fmt.Errorf("sign %s: %w", method, err)
	}

	err = e.policy.write(ctx, func(ctx context.Context) error {
		client, err := e.conn.acquire(ctx)
		if err != nil {
			return err
		}
		return client.SendTransaction(ctx, signed)
	})
	result := TxResult{TxID: signed.Hash().Hex(), Status: "failed"}
	if err != nil {
		return result, err
	}

	receipt, err := e.waitMined(ctx, signed.Hash())
	if err != nil {
		result.Status = "pending"
		return result, err
	}
	if receipt.BlockNumber != nil {
		result.Block = receipt.BlockNumber.Uint64()
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		result.Status = "reverted"
		return result, fmt.Errorf("%w: %s in %s", ErrTransactionReverted, method, result.TxID)
	}

	result.Status = "confirmed"
	return result, nil
}

func (e *Ethereum) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	err := e.policy.writeWithin(ctx, e.txTimeout, func(ctx context.Context) error {
		ticker := time.NewTicker(e.pollInterval)
		defer ticker.Stop()

		for {
			client, err := e.conn.acquire(ctx)
			if err != nil {
				return err
			}
			receipt, err = client.TransactionReceipt(ctx, hash)
			if err == nil {
				return nil
			}
			if !errors.Is(err, ethereum.NotFound) {
				return err
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	})
	return receipt, err
}

func (e *Ethereum) Close() {
	e.conn.shutdown()
}
