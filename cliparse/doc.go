// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

main loads a .env file first, so every variable below may live there.

# Environment Variables

Flags fall back to environment variables:

	PORT                      → -p (default 5000)
	CHAIN_BACKEND             → --backend (ethereum | hedera, default ethereum)
	RPC_URL                   → --rpc
	ELECTION_CONTRACT_ADDRESS → --contract
	SIGNER_PRIVATE_KEY        → --signer-key (optional)
	HEDERA_NETWORK            → --hedera-network (default testnet)
	HEDERA_ACCOUNT_ID         → --hedera-account
	HEDERA_PRIVATE_KEY        → --hedera-key
	ELECTION_CONTRACT_ID      → --contract-id
	CHAIN_CALL_TIMEOUT        → --call-timeout (default 10s)
	CHAIN_TX_TIMEOUT          → --tx-timeout (default 2m)
	CHAIN_READ_RETRIES        → --read-retries (default 2)
	CHAIN_RECONNECT_AFTER     → --reconnect-after (default 3)
	VOTER_CACHE_SIZE          → --voter-cache (default 4096)
	DATABASE_URL              → -d (default file:chainvote.db)
	DATABASE_TYPE             → -t (sqlite | postgres)
	CORS_ORIGINS              → --cors (default *)
	ADMIN_KEY                 → --admin-key

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - ethereum: RPC_URL and a hex ELECTION_CONTRACT_ADDRESS
  - hedera: HEDERA_ACCOUNT_ID, HEDERA_PRIVATE_KEY and a 0.0.N ELECTION_CONTRACT_ID
  - ADMIN_KEY must be provided
*/
package cliparse
