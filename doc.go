// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the chainvote API server.

chainvote is an HTTP gateway in front of a deployed election smart
contract. Candidates, tallies and double-vote prevention live on chain;
the server validates requests, reads contract state, builds unsigned vote
transactions for voters' wallets, and signs admin writes with its own key.

# Starting the Server

Configuration comes from flags, environment variables, or a .env file:

	ADMIN_KEY=... RPC_URL=http://localhost:8545 \
	ELECTION_CONTRACT_ADDRESS=0x... go run .

Or with flags:

	go run . -p 5000 -backend hedera -contract-id 0.0.1234

# Configuration

Required settings:

  - ADMIN_KEY (-admin-key): Key for admin routes
  - ethereum: RPC_URL (-rpc), ELECTION_CONTRACT_ADDRESS (-contract)
  - hedera: HEDERA_ACCOUNT_ID, HEDERA_PRIVATE_KEY, ELECTION_CONTRACT_ID

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - CHAIN_BACKEND (-backend): ethereum or hedera (default: ethereum)
  - SIGNER_PRIVATE_KEY (-signer-key): enables server-signed writes
  - DATABASE_TYPE / DATABASE_URL (-t / -d): journal store (default sqlite)

See package cliparse for the full list.

# Architecture

  - contract: Election interface with Ethereum and Hedera backends
  - handlers: HTTP request handlers (election, voting, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Admin key validation
  - db: Transaction journal
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
