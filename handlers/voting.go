// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/danielhkuo/chainvote/cliparse"
	"github.com/danielhkuo/chainvote/contract"
	"github.com/danielhkuo/chainvote/middleware"
	"github.com/danielhkuo/chainvote/models"
)

type VotingHandler struct {
	election contract.Election
	cfg      cliparse.Config
}

func NewVotingHandler(election contract.Election, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{election: election, cfg: cfg}
}

// HasVoted handles GET /has-voted?address=
func (h *VotingHandler) HasVoted(w http.ResponseWriter, r *http.Request) {
	voter, verr := parseAddress(r.URL.Query().Get("address"), "address")
	if verr != nil {
		validationFailed(w, verr)
		return
	}

	record, err := h.election.Voter(r.Context(), voter)
	if err != nil {
		chainError(w, r, err, "Failed to check voter status")
		return
	}

	resp := models.HasVotedResponse{HasVoted: record.HasVoted}
	if record.HasVoted {
		id := record.VotedCandidateID
		resp.CandidateID = &id
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Vote handles POST /vote
// Returns an unsigned transaction for the voter's wallet to sign and send.
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	req, verr := decodeVoteRequest(r)
	if verr != nil {
		validationFailed(w, verr)
		return
	}

	// Advisory: the contract still rejects a second vote if this races
	record, err := h.election.Voter(r.Context(), req.Voter)
	if err != nil {
		chainError(w, r, err, "Failed to check voter status")
		return
	}
	if record.HasVoted {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.KindAlreadyVoted, "You have already voted")
		return
	}

	tx, err := h.election.BuildVoteTransaction(r.Context(), req.CandidateID, req.Voter)
	if err != nil {
		chainError(w, r, err, "Failed to build vote transaction")
		return
	}

	slog.Info("vote transaction built",
		"candidate_id", req.CandidateID,
		"voter", req.Voter.Hex(),
		"nonce", tx.Nonce,
	)

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Status: models.StatusSignRequired,
		TxData: toTxData(tx),
	})
}

// toTxData renders quantities as 0x-prefixed hex the way JSON-RPC wallets
// expect them
func toTxData(tx *contract.UnsignedTx) models.TxData {
	data := models.TxData{
		From:     tx.From.Hex(),
		To:       tx.To.Hex(),
		Data:     hexutil.Encode(tx.Data),
		Value:    "0x0",
		Gas:      hexutil.EncodeUint64(tx.Gas),
		GasPrice: "0x0",
		Nonce:    hexutil.EncodeUint64(tx.Nonce),
	}
	if tx.Value != nil {
		data.Value = hexutil.EncodeBig(tx.Value)
	}
	if tx.GasPrice != nil {
		data.GasPrice = hexutil.EncodeBig(tx.GasPrice)
	}
	if tx.ChainID != nil {
		data.ChainID = hexutil.EncodeBig(tx.ChainID)
	}
	return data
}
