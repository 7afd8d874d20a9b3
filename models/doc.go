// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - AddCandidateRequest: name
  - RegisterVoterRequest: voter_address

Vote payloads are decoded field by field in handlers.

# Response Types

Types for JSON responses:

  - CandidateResponse: id, name, votes
  - HasVotedResponse: hasVoted, candidateId (null until voted)
  - VoteResponse: status, txn_data (an unsigned TxData)
  - WinnerResponse: winner, votes, winners, tie
  - ResultsResponse: success, candidates, winners, total_votes, timestamp
  - AddCandidateResponse, RegisterVoterResponse, SubmitVoteResponse
  - ErrorResponse: error, kind, message

# Domain Types

  - JournalEntry: one server-signed write and its outcome

# Constants

Error kinds (ErrorResponse.Kind):

	KindMalformedRequest, KindInvalidCandidateID, KindInvalidAddress,
	KindInvalidInput, KindAlreadyVoted, KindUnauthorized, KindNotFound,
	KindContractUnavailable, KindTransactionReverted, KindUpstreamTimeout,
	KindSignerUnavailable, KindUnsupported, KindInternal

Journal operations:

	OpAddCandidate  = "add_candidate"
	OpRegisterVoter = "register_voter"
	OpSubmitVote    = "submit_vote"
*/
package models
