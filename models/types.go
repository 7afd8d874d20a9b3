package models

import "time"

// Error kinds reported in ErrorResponse.Kind
const (
	KindMalformedRequest    = "MalformedRequest"
	KindInvalidCandidateID  = "InvalidCandidateId"
	KindInvalidAddress      = "InvalidAddress"
	KindInvalidInput        = "InvalidInput"
	KindAlreadyVoted        = "AlreadyVoted"
	KindUnauthorized        = "Unauthorized"
	KindNotFound            = "NotFound"
	KindContractUnavailable = "ContractUnavailable"
	KindTransactionReverted = "TransactionReverted"
	KindUpstreamTimeout     = "UpstreamTimeout"
	KindSignerUnavailable   = "SignerUnavailable"
	KindUnsupported         = "Unsupported"
	KindInternal            = "Internal"
)

// Response status values
const (
	StatusSignRequired = "sign_required"
	StatusSuccess      = "success"
)

// Journal operations
const (
	OpAddCandidate  = "add_candidate"
	OpRegisterVoter = "register_voter"
	OpSubmitVote    = "submit_vote"
)

// Request types

// Vote payloads ({candidate_id, user_address}) are decoded field by field
// in handlers since candidate_id may arrive as a number or a string

type AddCandidateRequest struct {
	Name string `json:"name"`
}

type RegisterVoterRequest struct {
	VoterAddress string `json:"voter_address"`
}

// Response types

type CandidateResponse struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Votes uint64 `json:"votes"`
}

type HasVotedResponse struct {
	HasVoted    bool    `json:"hasVoted"`
	CandidateID *uint64 `json:"candidateId"`
}

// TxData is an unsigned transaction in the hex form wallets expect.
// It never carries a key or a signature.
type TxData struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	Gas      string `json:"gas"`
	GasPrice string `json:"gasPrice"`
	Nonce    string `json:"nonce"`
	ChainID  string `json:"chainId,omitempty"`
}

type VoteResponse struct {
	Status string `json:"status"`
	TxData TxData `json:"txn_data"`
}

type WinnerResponse struct {
	Winner  string              `json:"winner"`
	Votes   uint64              `json:"votes"`
	Winners []CandidateResponse `json:"winners"`
	Tie     bool                `json:"tie"`
}

type ResultsResponse struct {
	Success    bool                `json:"success"`
	Candidates []CandidateResponse `json:"candidates"`
	Winners    []CandidateResponse `json:"winners"`
	TotalVotes uint64              `json:"total_votes"`
	Timestamp  string              `json:"timestamp"`
}

type AddCandidateResponse struct {
	Status    string `json:"status"`
	TxID      string `json:"tx_id"`
	Candidate string `json:"candidate"`
}

type RegisterVoterResponse struct {
	Status       string `json:"status"`
	TxID         string `json:"tx_id"`
	VoterAddress string `json:"voter_address"`
}

type SubmitVoteResponse struct {
	Status      string `json:"status"`
	TxID        string `json:"tx_id"`
	CandidateID uint64 `json:"candidate_id"`
	Block       uint64 `json:"block,omitempty"`
}

// Domain types

// JournalEntry records one server-signed write
type JournalEntry struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	Subject   string    `json:"subject"`
	TxID      string    `json:"tx_id"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}
