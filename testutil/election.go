// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/chainvote/contract"
)

// FakeElection is an in-memory contract.Election.
// Set the *Err fields or *Func overrides to simulate chain failures.
type FakeElection struct {
	mu         sync.Mutex
	candidates []contract.Candidate
	voters     map[common.Address]contract.VoterRecord
	txCount    uint64

	// ReadErr is returned by every read when set
	ReadErr error
	// WriteErr is returned by every write when set
	WriteErr error

	CountFunc     func(ctx context.Context) (uint64, error)
	WinnerFunc    func(ctx context.Context) (contract.Candidate, error)
	BuildVoteFunc func(ctx context.Context, candidateID uint64, voter common.Address) (*contract.UnsignedTx, error)

	CandidateCalls atomic.Int64
	CountCalls     atomic.Int64
	WinnerCalls    atomic.Int64
	VoterCalls     atomic.Int64
	BuildCalls     atomic.Int64
	AddCalls       atomic.Int64
	RegisterCalls  atomic.Int64
	SubmitCalls    atomic.Int64
	Closed         atomic.Bool
}

var _ contract.Election = (*FakeElection)(nil)

// NewFakeElection seeds candidates with ids 1..n in order
func NewFakeElection(names ...string) *FakeElection {
	f := &FakeElection{voters: map[common.Address]contract.VoterRecord{}}
	for _, name := range names {
		f.candidates = append(f.candidates, contract.Candidate{ID: uint64(len(f.candidates) + 1), Name: name})
	}
	return f
}

// SetVotes overwrites a candidate's tally
func (f *FakeElection) SetVotes(id, votes uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates[id-1].VoteCount = votes
}

// MarkVoted records addr as having voted for candidateID
func (f *FakeElection) MarkVoted(addr string, candidateID uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := common.HexToAddress(addr)
	f.voters[a] = contract.VoterRecord{Address: a, HasVoted: true, VotedCandidateID: candidateID}
}

// Registered reports whether RegisterVoter was called for addr
func (f *FakeElection) Registered(addr string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.voters[common.HexToAddress(addr)]
	return ok
}

func (f *FakeElection) nextTx() contract.TxResult {
	f.txCount++
	return contract.TxResult{
		TxID:   fmt.Sprintf("0x%064x", f.txCount),
		Status: "confirmed",
		Block:  100 + f.txCount,
	}
}

func (f *FakeElection) AddCandidate(ctx context.Context, name string) (contract.TxResult, error) {
	f.AddCalls.Add(1)
	if f.WriteErr != nil {
		return contract.TxResult{}, f.WriteErr
	}
	if strings.TrimSpace(name) == "" {
		return contract.TxResult{}, fmt.Errorf("%w: candidate name is empty", contract.ErrInvalidInput)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates = append(f.candidates, contract.Candidate{ID: uint64(len(f.candidates) + 1), Name: name})
	return f.nextTx(), nil
}

func (f *FakeElection) RegisterVoter(ctx context.Context, voter common.Address) (contract.TxResult, error) {
	f.RegisterCalls.Add(1)
	if f.WriteErr != nil {
		return contract.TxResult{}, f.WriteErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.voters[voter]; !ok {
		f.voters[voter] = contract.VoterRecord{Address: voter}
	}
	return f.nextTx(), nil
}

func (f *FakeElection) SubmitVote(ctx context.Context, candidateID uint64) (contract.TxResult, error) {
	f.SubmitCalls.Add(1)
	if f.WriteErr != nil {
		return contract.TxResult{}, f.WriteErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if candidateID == 0 || candidateID > uint64(len(f.candidates)) {
		return contract.TxResult{Status: "reverted"}, fmt.Errorf("%w: invalid candidate", contract.ErrTransactionReverted)
	}
	f.candidates[candidateID-1].VoteCount++
	return f.nextTx(), nil
}

func (f *FakeElection) BuildVoteTransaction(ctx context.Context, candidateID uint64, voter common.Address) (*contract.UnsignedTx, error) {
	f.BuildCalls.Add(1)
	if f.BuildVoteFunc != nil {
		return f.BuildVoteFunc(ctx, candidateID, voter)
	}
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}

	// 0x0121b93f is the vote(uint256) selector
	data := append([]byte{0x01, 0x21, 0xb9, 0x3f}, common.LeftPadBytes(new(big.Int).SetUint64(candidateID).Bytes(), 32)...)
	return &contract.UnsignedTx{
		From:     voter,
		To:       common.HexToAddress(TestContractAddress),
		Data:     data,
		Value:    big.NewInt(0),
		Gas:      200000,
		GasPrice: big.NewInt(1_000_000_000),
		Nonce:    7,
		ChainID:  big.NewInt(1337),
	}, nil
}

func (f *FakeElection) Candidate(ctx context.Context, id uint64) (contract.Candidate, error) {
	f.CandidateCalls.Add(1)
	if f.ReadErr != nil {
		return contract.Candidate{}, f.ReadErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if id == 0 || id > uint64(len(f.candidates)) {
		return contract.Candidate{}, fmt.Errorf("%w: candidate %d", contract.ErrNotFound, id)
	}
	return f.candidates[id-1], nil
}

func (f *FakeElection) CandidatesCount(ctx context.Context) (uint64, error) {
	f.CountCalls.Add(1)
	if f.CountFunc != nil {
		return f.CountFunc(ctx)
	}
	if f.ReadErr != nil {
		return 0, f.ReadErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(len(f.candidates)), nil
}

// Winner mimics a contract that keeps the first candidate reaching the max
func (f *FakeElection) Winner(ctx context.Context) (contract.Candidate, error) {
	f.WinnerCalls.Add(1)
	if f.WinnerFunc != nil {
		return f.WinnerFunc(ctx)
	}
	if f.ReadErr != nil {
		return contract.Candidate{}, f.ReadErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var best contract.Candidate
	for _, c := range f.candidates {
		if c.VoteCount > best.VoteCount || best.ID == 0 {
			best = c
		}
	}
	return best, nil
}

func (f *FakeElection) Voter(ctx context.Context, voter common.Address) (contract.VoterRecord, error) {
	f.VoterCalls.Add(1)
	if f.ReadErr != nil {
		return contract.VoterRecord{}, f.ReadErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.voters[voter]; ok {
		return rec, nil
	}
	return contract.VoterRecord{Address: voter}, nil
}

func (f *FakeElection) Close() {
	f.Closed.Store(true)
}
