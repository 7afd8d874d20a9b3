// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the chainvote API.

# Handler Types

Each handler is a struct holding the contract proxy and config:

  - ElectionHandler: candidate listing, winner and results
  - VotingHandler: voter status and wallet vote transactions
  - AdminHandler: server-signed writes and the transaction journal

Handlers are created via constructor functions:

	electionHandler := handlers.NewElectionHandler(election, cfg)
	adminHandler := handlers.NewAdminHandler(election, journal, cfg)

# Voting Flow

Voters sign their own transactions; the server never holds voter keys.

	GET  /has-voted?address= → HasVoted
	POST /vote               → Vote (returns an unsigned transaction)

Vote validates in order: JSON object body, candidate_id (a positive
integer, as a number or a digit string), user_address (20-byte hex,
checksummed afterwards), then the on-chain hasVoted flag. Every failure is
a 400 with a kind; nothing touches the chain until the body is valid.

# Admin Operations

	POST /election/admin/add_candidate → AddCandidate
	POST /election/register            → RegisterVoter
	POST /election/vote                → SubmitVote (server key)
	GET  /election/admin/transactions  → Transactions

Admin operations require the X-Admin-Key header. Every server-signed write
is journaled, including failed ones.

# Results

Tally ranks candidates by votes (then id) and returns every candidate tied
at the top, so ties are never hidden behind a single name:

	result := handlers.Tally(candidates)
	result.Winners, result.Tie()

# Errors

Chain errors are logged once in the handler and mapped by kind:
validation → 400, NotFound → 404, Unsupported → 501, ContractUnavailable
and TransactionReverted → 502, SignerUnavailable → 503, UpstreamTimeout →
504, anything else → 500.
*/
package handlers
