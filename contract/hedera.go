// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/danielhkuo/chainvote/cliparse"
)

const (
	hederaExecuteGas = uint64(1000000)
	hederaQueryGas   = uint64(100000)
)

// Hedera talks to the contract through the Hedera SDK. Every write is paid
// and signed by the configured operator account.
type Hedera struct {
	contractID hedera.ContractID

	conn      *reconnector[*hedera.Client]
	policy    callPolicy
	txTimeout time.Duration
}

func NewHedera(ctx context.Context, cfg cliparse.Config) (*Hedera, error) {
	contractID, err := hedera.ContractIDFromString(cfg.HederaContractID)
	if err != nil {
		return nil, fmt.Errorf("invalid contract id %q: %w", cfg.HederaContractID, err)
	}
	operatorID, err := hedera.AccountIDFromString(cfg.HederaAccountID)
	if err != nil {
		return nil, fmt.Errorf("invalid operator account %q: %w", cfg.HederaAccountID, err)
	}
	operatorKey, err := hedera.PrivateKeyFromString(cfg.HederaPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid operator key: %w", err)
	}

	dial := func(ctx context.Context) (*hedera.Client, error) {
		client, err := hedera.ClientForName(cfg.HederaNetwork)
		if err != nil {
			return nil, err
		}
		client.SetOperator(operatorID, operatorKey)

		// Verify the operator can reach the network before handing the client out
		balance, err := runBlocking(ctx, func() (hedera.AccountBalance, error) {
			return hedera.NewAccountBalanceQuery().SetAccountID(operatorID).Execute(client)
		})
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		slog.Info("hedera operator balance",
			"account", operatorID.String(),
			"balance", balance.Hbars.String(),
		)
		return client, nil
	}

	h := &Hedera{
		contractID: contractID,
		conn: newReconnector(BackendHedera, cfg.ReconnectAfter, dial, func(c *hedera.Client) {
			_ = c.Close()
		}),
		txTimeout: cfg.TxTimeout,
	}
	h.policy = callPolicy{
		timeout:     cfg.CallTimeout,
		readRetries: cfg.ReadRetries,
		backoff:     200 * time.Millisecond,
		classify:    classifyHedera,
		observe:     h.conn.observe,
	}

	if _, err := h.conn.acquire(ctx); err != nil {
		slog.Warn("hedera network not reachable at start-up", "error", err)
	} else {
		slog.Info("hedera backend ready",
			"network", cfg.HederaNetwork,
			"contract", contractID.String(),
		)
	}

	return h, nil
}

func classifyHedera(err error) error {
	if strings.Contains(err.Error(), "CONTRACT_REVERT_EXECUTED") {
		return fmt.Errorf("%w: %w", ErrTransactionReverted, err)
	}
	return fmt.Errorf("%w: %w", ErrContractUnavailable, err)
}

// runBlocking bounds an SDK call, which takes no context, by ctx
func runBlocking[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{value: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.value, r.err
	}
}

func (h *Hedera) query(ctx context.Context, method string, params *hedera.ContractFunctionParameters) (hedera.ContractFunctionResult, error) {
	var result hedera.ContractFunctionResult
	err := h.policy.read(ctx, func(ctx context.Context) error {
		client, err := h.conn.acquire(ctx)
		if err != nil {
			return err
		}
		result, err = runBlocking(ctx, func() (hedera.ContractFunctionResult, error) {
			return hedera.NewContractCallQuery().
				SetContractID(h.contractID).
				SetGas(hederaQueryGas).
				SetFunction(method, params).
				Execute(client)
		})
		return err
	})
	if err != nil {
		return hedera.ContractFunctionResult{}, err
	}
	return result, nil
}

func (h *Hedera) execute(ctx context.Context, method string, params *hedera.ContractFunctionParameters) (TxResult, error) {
	result := TxResult{Status: "failed"}
	err := h.policy.writeWithin(ctx, h.txTimeout, func(ctx context.Context) error {
		client, err := h.conn.acquire(ctx)
		if err != nil {
			return err
		}

		resp, err := runBlocking(ctx, func() (hedera.TransactionResponse, error) {
			return hedera.NewContractExecuteTransaction().
				SetContractID(h.contractID).
				SetGas(hederaExecuteGas).
				SetFunction(method, params).
				Execute(client)
		})
		if err != nil {
			return err
		}
		result.TxID = resp.TransactionID.String()
		result.Status = "pending"

		receipt, err := runBlocking(ctx, func() (hedera.TransactionReceipt, error) {
			return resp.GetReceipt(client)
		})
		if err != nil {
			return err
		}
		result.Status = receiptStatus(receipt.Status)
		return nil
	})
	if isReverted(err) {
		result.Status = "reverted"
	}
	return result, err
}

// receiptStatus names a receipt outcome the way the ethereum backend does
func receiptStatus(status hedera.Status) string {
	switch status {
	case hedera.StatusSuccess:
		return "confirmed"
	case hedera.StatusContractRevertExecuted:
		return "reverted"
	default:
		return strings.ToLower(status.String())
	}
}

// Contract call results carry the same ABI encoding as an eth_call reply,
// so they are decoded with the election ABI rather than the SDK getters,
// which slice without bounds checks.

func decodeCandidate(id uint64, result hedera.ContractFunctionResult) (Candidate, error) {
	name, votes, err := unpackNameVotes(methodGetCandidate, result.ContractCallResult)
	if err != nil {
		return Candidate{}, err
	}
	return Candidate{ID: id, Name: name, VoteCount: votes}, nil
}

func decodeWinner(result hedera.ContractFunctionResult) (Candidate, error) {
	name, votes, err := unpackNameVotes(methodGetWinner, result.ContractCallResult)
	if err != nil {
		return Candidate{}, err
	}
	return Candidate{Name: name, VoteCount: votes}, nil
}

func decodeCount(result hedera.ContractFunctionResult) (uint64, error) {
	return unpackUint(methodCandidatesCount, result.ContractCallResult)
}

func decodeVoter(voter common.Address, result hedera.ContractFunctionResult) (VoterRecord, error) {
	hasVoted, candidateID, err := unpackVoter(result.ContractCallResult)
	if err != nil {
		return VoterRecord{}, err
	}
	return VoterRecord{Address: voter, HasVoted: hasVoted, VotedCandidateID: candidateID}, nil
}

func uint256Param(v uint64) []byte {
	return common.LeftPadBytes(new(big.Int).SetUint64(v).Bytes(), 32)
}

func addressParam(addr common.Address) (*hedera.ContractFunctionParameters, error) {
	params, err := hedera.NewContractFunctionParameters().AddAddress(strings.TrimPrefix(addr.Hex(), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return params, nil
}

func (h *Hedera) Candidate(ctx context.Context, id uint64) (Candidate, error) {
	params := hedera.NewContractFunctionParameters().AddUint256(uint256Param(id))
	result, err := h.query(ctx, methodGetCandidate, params)
	if err != nil {
		if isReverted(err) {
			return Candidate{}, fmt.Errorf("%w: candidate %d", ErrNotFound, id)
		}
		return Candidate{}, err
	}
	return decodeCandidate(id, result)
}

func (h *Hedera) CandidatesCount(ctx context.Context) (uint64, error) {
	result, err := h.query(ctx, methodCandidatesCount, hedera.NewContractFunctionParameters())
	if err != nil {
		return 0, err
	}
	return decodeCount(result)
}

func (h *Hedera) Winner(ctx context.Context) (Candidate, error) {
	result, err := h.query(ctx, methodGetWinner, hedera.NewContractFunctionParameters())
	if err != nil {
		return Candidate{}, err
	}
	return decodeWinner(result)
}

func (h *Hedera) Voter(ctx context.Context, voter common.Address) (VoterRecord, error) {
	params, err := addressParam(voter)
	if err != nil {
		return VoterRecord{}, err
	}

	result, err := h.query(ctx, methodVoters, params)
	if err != nil {
		return VoterRecord{}, err
	}
	return decodeVoter(voter, result)
}

// BuildVoteTransaction is not offered here: Hedera writes are paid by the
// operator account, so wallet signing goes through the JSON-RPC relay and
// the ethereum backend instead.
func (h *Hedera) BuildVoteTransaction(ctx context.Context, candidateID uint64, voter common.Address) (*UnsignedTx, error) {
	return nil, fmt.Errorf("%w: hedera cannot build wallet transactions", ErrUnsupported)
}

func (h *Hedera) AddCandidate(ctx context.Context, name string) (TxResult, error) {
	if strings.TrimSpace(name) == "" {
		return TxResult{}, fmt.Errorf("%w: candidate name is empty", ErrInvalidInput)
	}
	return h.execute(ctx, methodAddCandidate, hedera.NewContractFunctionParameters().AddString(name))
}

func (h *Hedera) RegisterVoter(ctx context.Context, voter common.Address) (TxResult, error) {
	params, err := addressParam(voter)
	if err != nil {
		return TxResult{}, err
	}
	return h.execute(ctx, methodRegisterVoter, params)
}

func (h *Hedera) SubmitVote(ctx context.Context, candidateID uint64) (TxResult, error) {
	params := hedera.NewContractFunctionParameters().AddUint256(uint256Param(candidateID))
	return h.execute(ctx, methodVote, params)
}

func (h *Hedera) Close() {
	h.conn.shutdown()
}
