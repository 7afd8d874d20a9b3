// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
)

// cachedElection memoizes voter records once they report hasVoted.
// The contract never clears the flag, so a positive record can't go stale.
// Negative records always go to the chain.
type cachedElection struct {
	Election
	voted *lru.Cache
}

// WithVoterCache wraps inner with an LRU of at most size voted addresses
func WithVoterCache(inner Election, size int) (Election, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create voter cache: %w", err)
	}
	return &cachedElection{Election: inner, voted: cache}, nil
}

func (c *cachedElection) Voter(ctx context.Context, voter common.Address) (VoterRecord, error) {
	if v, ok := c.voted.Get(voter); ok {
		return v.(VoterRecord), nil
	}

	record, err := c.Election.Voter(ctx, voter)
	if err != nil {
		return VoterRecord{}, err
	}
	if record.HasVoted {
		c.voted.Add(voter, record)
	}
	return record, nil
}
