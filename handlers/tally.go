// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"sort"

	"github.com/danielhkuo/chainvote/contract"
	"github.com/danielhkuo/chainvote/models"
)

// TallyResult is the local aggregation over every candidate on chain
type TallyResult struct {
	Candidates []models.CandidateResponse // votes desc, then id asc
	Winners    []models.CandidateResponse // every candidate at the max
	TotalVotes uint64
}

// Tie reports whether more than one candidate shares the top count
func (t TallyResult) Tie() bool {
	return len(t.Winners) > 1
}

// Tally ranks candidates and collects the full set of leaders.
// Empty input yields no winners and zero total.
func Tally(candidates []contract.Candidate) TallyResult {
	result := TallyResult{
		Candidates: make([]models.CandidateResponse, 0, len(candidates)),
		Winners:    []models.CandidateResponse{},
	}
	if len(candidates) == 0 {
		return result
	}

	var maxVotes uint64
	for _, c := range candidates {
		result.TotalVotes += c.VoteCount
		if c.VoteCount > maxVotes {
			maxVotes = c.VoteCount
		}
		result.Candidates = append(result.Candidates, toCandidateResponse(c))
	}

	sort.Slice(result.Candidates, func(i, j int) bool {
		a, b := result.Candidates[i], result.Candidates[j]

		// 1. Higher vote count first
		if a.Votes != b.Votes {
			return a.Votes > b.Votes
		}

		// 2. Stable tie-breaking by candidate ID (ascending)
		return a.ID < b.ID
	})

	for _, c := range result.Candidates {
		if c.Votes != maxVotes {
			break
		}
		result.Winners = append(result.Winners, c)
	}

	return result
}

// maxCandidates bounds how many candidates one listing fetches. Each one
// costs an RPC, so a larger count is treated as a bad contract reply.
const maxCandidates = 1000

// listCandidates fetches candidates 1..candidatesCount from the contract
func listCandidates(ctx context.Context, election contract.Election) ([]contract.Candidate, error) {
	count, err := election.CandidatesCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidates count: %w", err)
	}
	if count > maxCandidates {
		return nil, fmt.Errorf("%w: candidates count %d exceeds %d", contract.ErrContractUnavailable, count, maxCandidates)
	}

	candidates := make([]contract.Candidate, 0, count)
	for id := uint64(1); id <= count; id++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", contract.ErrUpstreamTimeout, err)
		}
		c, err := election.Candidate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get candidate %d: %w", id, err)
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

func toCandidateResponse(c contract.Candidate) models.CandidateResponse {
	return models.CandidateResponse{ID: c.ID, Name: c.Name, Votes: c.VoteCount}
}
