// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import (
	_ "embed"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed election.abi.json
var electionABIJSON string

var electionABI = mustParseABI(electionABIJSON)

// Method names on the deployed contract
const (
	methodAddCandidate    = "addCandidate"
	methodRegisterVoter   = "registerVoter"
	methodVote            = "vote"
	methodGetCandidate    = "getCandidate"
	methodGetWinner       = "getWinner"
	methodCandidatesCount = "candidatesCount"
	methodVoters          = "voters"
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("election ABI does not parse: %v", err))
	}
	return parsed
}

func packCall(method string, args ...interface{}) ([]byte, error) {
	data, err := electionABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: pack %s: %w", ErrInvalidInput, method, err)
	}
	return data, nil
}

func unpackCall(method string, data []byte) ([]interface{}, error) {
	out, err := electionABI.Unpack(method, data)
	if err != nil {
		// An empty reply usually means nothing is deployed at the address
		return nil, fmt.Errorf("%w: unpack %s: %w", ErrContractUnavailable, method, err)
	}
	return out, nil
}

// unpackNameVotes decodes the (string, uint256) shape shared by
// getCandidate and getWinner
func unpackNameVotes(method string, data []byte) (string, uint64, error) {
	out, err := unpackCall(method, data)
	if err != nil {
		return "", 0, err
	}
	if len(out) != 2 {
		return "", 0, fmt.Errorf("%w: %s returned %d values", ErrContractUnavailable, method, len(out))
	}

	name, ok := out[0].(string)
	if !ok {
		return "", 0, fmt.Errorf("%w: %s name has type %T", ErrContractUnavailable, method, out[0])
	}
	votes, ok := out[1].(*big.Int)
	if !ok {
		return "", 0, fmt.Errorf("%w: %s votes has type %T", ErrContractUnavailable, method, out[1])
	}

	count, err := uint64Of(votes, method+" votes")
	if err != nil {
		return "", 0, err
	}
	return name, count, nil
}

func unpackUint(method string, data []byte) (uint64, error) {
	out, err := unpackCall(method, data)
	if err != nil {
		return 0, err
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("%w: %s returned %d values", ErrContractUnavailable, method, len(out))
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("%w: %s has type %T", ErrContractUnavailable, method, out[0])
	}
	return uint64Of(v, method)
}

func unpackVoter(data []byte) (bool, uint64, error) {
	out, err := unpackCall(methodVoters, data)
	if err != nil {
		return false, 0, err
	}
	if len(out) != 2 {
		return false, 0, fmt.Errorf("%w: voters returned %d values", ErrContractUnavailable, len(out))
	}

	hasVoted, ok := out[0].(bool)
	if !ok {
		return false, 0, fmt.Errorf("%w: voters hasVoted has type %T", ErrContractUnavailable, out[0])
	}
	candidate, ok := out[1].(*big.Int)
	if !ok {
		return false, 0, fmt.Errorf("%w: voters candidate has type %T", ErrContractUnavailable, out[1])
	}

	id, err := uint64Of(candidate, "voters candidate")
	if err != nil {
		return false, 0, err
	}
	return hasVoted, id, nil
}
