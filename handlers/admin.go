// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/chainvote/auth"
	"github.com/danielhkuo/chainvote/cliparse"
	"github.com/danielhkuo/chainvote/contract"
	"github.com/danielhkuo/chainvote/db"
	"github.com/danielhkuo/chainvote/middleware"
	"github.com/danielhkuo/chainvote/models"
)

type AdminHandler struct {
	election contract.Election
	journal  *db.Journal
	cfg      cliparse.Config
}

func NewAdminHandler(election contract.Election, journal *db.Journal, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{election: election, journal: journal, cfg: cfg}
}

// authorize writes a 401 and returns false unless the admin key matches
func (h *AdminHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	if err := auth.ValidateAdminKey(auth.AdminKeyFromRequest(r), h.cfg.AdminKey); err != nil {
		slog.Warn("admin request rejected", "path", r.URL.Path, "remote", middleware.GetClientIP(r), "reason", err)
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.KindUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// record journals a server-signed write. Journal failures don't fail the
// request since the transaction already reached the chain.
func (h *AdminHandler) record(ctx context.Context, op, subject string, result contract.TxResult, kind string) {
	if h.journal == nil {
		return
	}

	status := result.Status
	if status == "" {
		status = "failed"
	}
	_, err := h.journal.Record(ctx, models.JournalEntry{
		Operation: op,
		Subject:   subject,
		TxID:      result.TxID,
		Status:    status,
		Error:     kind,
	})
	if err != nil {
		slog.Warn("failed to journal transaction", "error", err, "operation", op, "tx_id", result.TxID)
	}
}

// AddCandidate handles POST /election/admin/add_candidate
func (h *AdminHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.KindMalformedRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.KindInvalidInput, "name is required")
		return
	}

	result, err := h.election.AddCandidate(r.Context(), name)
	if err != nil {
		kind := chainError(w, r, err, "Failed to add candidate")
		h.record(context.WithoutCancel(r.Context()), models.OpAddCandidate, name, result, kind)
		return
	}
	h.record(context.WithoutCancel(r.Context()), models.OpAddCandidate, name, result, "")

	slog.Info("candidate added", "name", name, "tx_id", result.TxID)

	middleware.JSONResponse(w, http.StatusOK, models.AddCandidateResponse{
		Status:    models.StatusSuccess,
		TxID:      result.TxID,
		Candidate: name,
	})
}

// RegisterVoter handles POST /election/register
func (h *AdminHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.KindMalformedRequest, "Invalid JSON")
		return
	}

	voter, verr := parseAddress(req.VoterAddress, "voter_address")
	if verr != nil {
		validationFailed(w, verr)
		return
	}

	result, err := h.election.RegisterVoter(r.Context(), voter)
	if err != nil {
		kind := chainError(w, r, err, "Failed to register voter")
		h.record(context.WithoutCancel(r.Context()), models.OpRegisterVoter, voter.Hex(), result, kind)
		return
	}
	h.record(context.WithoutCancel(r.Context()), models.OpRegisterVoter, voter.Hex(), result, "")

	slog.Info("voter registered", "voter", voter.Hex(), "tx_id", result.TxID)

	middleware.JSONResponse(w, http.StatusOK, models.RegisterVoterResponse{
		Status:       models.StatusSuccess,
		TxID:         result.TxID,
		VoterAddress: voter.Hex(),
	})
}

// SubmitVote handles POST /election/vote
// The server signs with its own key; meant for admin and testnet use.
func (h *AdminHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	fields, verr := decodeObject(r)
	if verr != nil {
		validationFailed(w, verr)
		return
	}
	id, verr := parseCandidateID(fields["candidate_id"])
	if verr != nil {
		validationFailed(w, verr)
		return
	}

	subject := strconv.FormatUint(id, 10)
	result, err := h.election.SubmitVote(r.Context(), id)
	if err != nil {
		kind := chainError(w, r, err, "Failed to submit vote")
		h.record(context.WithoutCancel(r.Context()), models.OpSubmitVote, subject, result, kind)
		return
	}
	h.record(context.WithoutCancel(r.Context()), models.OpSubmitVote, subject, result, "")

	slog.Info("server-signed vote confirmed", "candidate_id", id, "tx_id", result.TxID, "block", result.Block)

	middleware.JSONResponse(w, http.StatusOK, models.SubmitVoteResponse{
		Status:      models.StatusSuccess,
		TxID:        result.TxID,
		CandidateID: id,
		Block:       result.Block,
	})
}

// Transactions handles GET /election/admin/transactions?limit=
func (h *AdminHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.KindInvalidInput, "limit must be a positive integer")
			return
		}
		limit = n
	}

	if h.journal == nil {
		middleware.JSONResponse(w, http.StatusOK, []models.JournalEntry{})
		return
	}

	entries, err := h.journal.List(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list journal", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.KindInternal, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, entries)
}
