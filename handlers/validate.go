// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/chainvote/models"
)

// maxBodyBytes bounds request bodies; vote payloads are tiny
const maxBodyBytes = 1 << 16

// validationError is a client mistake, reported as 400 with its kind
type validationError struct {
	kind    string
	message string
}

func (e *validationError) Error() string {
	return e.kind + ": " + e.message
}

func invalid(kind, message string) *validationError {
	return &validationError{kind: kind, message: message}
}

// voteRequest is a validated vote payload
type voteRequest struct {
	CandidateID uint64
	Voter       common.Address
}

// decodeObject reads the body as a JSON object, keeping field values raw
func decodeObject(r *http.Request) (map[string]json.RawMessage, *validationError) {
	defer r.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, invalid(models.KindMalformedRequest, "failed to read request body")
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, invalid(models.KindMalformedRequest, "request body must be a JSON object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, invalid(models.KindMalformedRequest, "request body must be a JSON object")
	}
	return fields, nil
}

// decodeVoteRequest validates {candidate_id, user_address} in order:
// body shape, candidate id, then address. The address comes back
// checksummed.
func decodeVoteRequest(r *http.Request) (voteRequest, *validationError) {
	fields, verr := decodeObject(r)
	if verr != nil {
		return voteRequest{}, verr
	}

	id, verr := parseCandidateID(fields["candidate_id"])
	if verr != nil {
		return voteRequest{}, verr
	}

	var addr string
	if raw, ok := fields["user_address"]; ok {
		if err := json.Unmarshal(raw, &addr); err != nil {
			return voteRequest{}, invalid(models.KindInvalidAddress, "user_address must be a string")
		}
	}
	voter, verr := parseAddress(addr, "user_address")
	if verr != nil {
		return voteRequest{}, verr
	}

	return voteRequest{CandidateID: id, Voter: voter}, nil
}

// parseCandidateID accepts a JSON integer or a decimal-digit string > 0
func parseCandidateID(raw json.RawMessage) (uint64, *validationError) {
	bad := invalid(models.KindInvalidCandidateID, "candidate_id must be a positive integer")

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, invalid(models.KindInvalidCandidateID, "candidate_id is required")
	}

	var digits string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &digits); err != nil {
			return 0, bad
		}
		digits = strings.TrimSpace(digits)
	} else {
		digits = string(raw)
	}

	if digits == "" {
		return 0, bad
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, bad
		}
	}

	id, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || id == 0 {
		return 0, bad
	}
	return id, nil
}

// parseAddress checks for a 20-byte hex address. All-lowercase and
// all-uppercase input is accepted as is; mixed case must be a valid EIP-55
// checksum.
func parseAddress(s, field string) (common.Address, *validationError) {
	s = strings.TrimSpace(s)
	if s == "" {
		return common.Address{}, invalid(models.KindInvalidAddress, field+" is required")
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, invalid(models.KindInvalidAddress, field+" must be a 20-byte hex address")
	}

	addr := common.HexToAddress(s)
	digits := s
	if has0xPrefix(digits) {
		digits = digits[2:]
	}
	if isMixedCase(digits) && digits != addr.Hex()[2:] {
		return common.Address{}, invalid(models.KindInvalidAddress, field+" has an invalid checksum")
	}
	return addr, nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func isMixedCase(s string) bool {
	return strings.ToLower(s) != s && strings.ToUpper(s) != s
}
