// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package contract is the typed proxy over the deployed election contract.

# Backends

Election has two implementations, chosen by configuration:

  - Ethereum: JSON-RPC through go-ethereum's ethclient, calls encoded with
    accounts/abi from the embedded election.abi.json
  - Hedera: the Hedera SDK, with the configured operator paying for writes

	election, err := contract.Open(ctx, cfg)
	defer election.Close()

# Reads and Writes

Reads (Candidate, CandidatesCount, Winner, Voter) are bounded by the call
timeout and retried on transport errors. Writes (AddCandidate,
RegisterVoter, SubmitVote) are signed by the server, broadcast exactly once
and never retried.

BuildVoteTransaction is the wallet path: it returns an UnsignedTx with gas
price and nonce filled from chain state. The server never signs it.

# Errors

Failures are reported as wrapped sentinels:

	ErrNotFound            - getCandidate reverted
	ErrContractUnavailable - dial or transport failure, malformed reply
	ErrTransactionReverted - the chain rejected a write
	ErrUpstreamTimeout     - the call outlived its timeout
	ErrSignerUnavailable   - server-signed write without a key
	ErrUnsupported         - the backend can't do this

# Reconnecting

Each backend owns one client. After ReconnectAfter consecutive transport
failures the client is closed and the next call dials again.
*/
package contract
