// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the chainvote API.

# Route Registration

NewRouter wires every endpoint onto an http.ServeMux and wraps it in CORS:

	handler := router.NewRouter(election, journal, cfg)

# Endpoints

Health:

	GET /health
	GET /

Election state (public):

	GET /candidates   - All candidates in contract order
	GET /winner       - Contract winner plus the full tie set
	GET /results/data - Ranked candidates, winners, total votes

Voting (public, signed by the voter's wallet):

	GET  /has-voted?address= - Voter status
	POST /vote               - Unsigned vote transaction

Admin (requires X-Admin-Key):

	POST /election/admin/add_candidate - Add candidate
	POST /election/register            - Register voter
	POST /election/vote                - Server-signed vote
	GET  /election/admin/transactions  - Transaction journal

# Handler Initialization

	electionHandler := handlers.NewElectionHandler(election, cfg)
	votingHandler := handlers.NewVotingHandler(election, cfg)
	adminHandler := handlers.NewAdminHandler(election, journal, cfg)

All handlers share the one contract.Election; it is safe for concurrent use.
*/
package router
