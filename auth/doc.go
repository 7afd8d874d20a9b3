// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth guards the admin routes.

# Admin Key

Admin operations (adding candidates, registering voters, server-signed
votes, reading the transaction journal) require the configured ADMIN_KEY:

	X-Admin-Key: <key>

or, for clients that can only send standard headers:

	Authorization: Bearer <key>

ValidateAdminKey compares SHA-256 digests with hmac.Equal so the check
takes the same time regardless of where the keys differ.

# Voter Identity

Voters are identified by their wallet address, not by a server-issued
token. The server never sees voter keys: wallet votes are returned unsigned
and signed client-side.
*/
package auth
