// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/chainvote/cliparse"
)

// Backend names accepted by Open
const (
	BackendEthereum = "ethereum"
	BackendHedera   = "hedera"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrContractUnavailable = errors.New("contract unavailable")
	ErrTransactionReverted = errors.New("transaction reverted")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
	ErrSignerUnavailable   = errors.New("server holds no signing key")
	ErrUnsupported         = errors.New("operation not supported by backend")
)

// Election is the typed proxy over the deployed voting contract.
// Read methods are calls/queries; AddCandidate, RegisterVoter and SubmitVote
// are signed and broadcast by the server. BuildVoteTransaction never signs.
type Election interface {
	AddCandidate(ctx context.Context, name string) (TxResult, error)
	RegisterVoter(ctx context.Context, voter common.Address) (TxResult, error)
	SubmitVote(ctx context.Context, candidateID uint64) (TxResult, error)
	BuildVoteTransaction(ctx context.Context, candidateID uint64, voter common.Address) (*UnsignedTx, error)

	Candidate(ctx context.Context, id uint64) (Candidate, error)
	CandidatesCount(ctx context.Context) (uint64, error)
	Winner(ctx context.Context) (Candidate, error)
	Voter(ctx context.Context, voter common.Address) (VoterRecord, error)

	Close()
}

type Candidate struct {
	ID        uint64
	Name      string
	VoteCount uint64
}

type VoterRecord struct {
	Address          common.Address
	HasVoted         bool
	VotedCandidateID uint64
}

// TxResult describes a server-signed write after it was accepted by the chain
type TxResult struct {
	TxID   string
	Status string
	Block  uint64
}

// UnsignedTx carries everything a wallet needs to sign a vote.
// It must never hold key material or a signature.
type UnsignedTx struct {
	From     common.Address
	To       common.Address
	Data     []byte
	Value    *big.Int
	Gas      uint64
	GasPrice *big.Int
	Nonce    uint64
	ChainID  *big.Int
}

// Open connects the backend selected in cfg and wraps it with the voter cache
func Open(ctx context.Context, cfg cliparse.Config) (Election, error) {
	var (
		election Election
		err      error
	)

	switch cfg.Backend {
	case BackendEthereum:
		election, err = NewEthereum(ctx, cfg)
	case BackendHedera:
		election, err = NewHedera(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown chain backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.VoterCacheSize > 0 {
		cached, err := WithVoterCache(election, cfg.VoterCacheSize)
		if err != nil {
			election.Close()
			return nil, err
		}
		election = cached
	}

	return election, nil
}

// uint64Of narrows a uint256 result; values that don't fit are treated as
// a malformed reply from the contract
func uint64Of(v *big.Int, field string) (uint64, error) {
	if v == nil || v.Sign() < 0 || !v.IsUint64() {
		return 0, fmt.Errorf("%w: %s out of range", ErrContractUnavailable, field)
	}
	return v.Uint64(), nil
}
