// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/chainvote/cliparse"
	"github.com/danielhkuo/chainvote/contract"
	"github.com/danielhkuo/chainvote/middleware"
	"github.com/danielhkuo/chainvote/models"
)

type ElectionHandler struct {
	election contract.Election
	cfg      cliparse.Config
	now      func() time.Time
}

func NewElectionHandler(election contract.Election, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{election: election, cfg: cfg, now: time.Now}
}

// Candidates handles GET /candidates
func (h *ElectionHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := listCandidates(r.Context(), h.election)
	if err != nil {
		chainError(w, r, err, "Failed to fetch candidates")
		return
	}

	resp := make([]models.CandidateResponse, len(candidates))
	for i, c := range candidates {
		resp[i] = toCandidateResponse(c)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Winner handles GET /winner
// winner/votes are the contract's own pick; winners holds every candidate
// tied at the top
func (h *ElectionHandler) Winner(w http.ResponseWriter, r *http.Request) {
	candidates, err := listCandidates(r.Context(), h.election)
	if err != nil {
		chainError(w, r, err, "Failed to fetch winner")
		return
	}

	tally := Tally(candidates)
	resp := models.WinnerResponse{Winners: tally.Winners, Tie: tally.Tie()}

	// getWinner on an empty election has nothing to report
	if len(candidates) > 0 {
		winner, err := h.election.Winner(r.Context())
		if err != nil {
			chainError(w, r, err, "Failed to fetch winner")
			return
		}
		resp.Winner = winner.Name
		resp.Votes = winner.VoteCount
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Results handles GET /results/data
func (h *ElectionHandler) Results(w http.ResponseWriter, r *http.Request) {
	candidates, err := listCandidates(r.Context(), h.election)
	if err != nil {
		chainError(w, r, err, "Failed to fetch results")
		return
	}

	tally := Tally(candidates)
	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Success:    true,
		Candidates: tally.Candidates,
		Winners:    tally.Winners,
		TotalVotes: tally.TotalVotes,
		Timestamp:  h.now().UTC().Format(time.RFC3339),
	})
}
