// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/chainvote/cliparse"
	"github.com/danielhkuo/chainvote/contract"
	"github.com/danielhkuo/chainvote/db"
	"github.com/danielhkuo/chainvote/handlers"
	"github.com/danielhkuo/chainvote/middleware"
)

// Banner is served at GET /
const Banner = "chainvote API v1"

func NewRouter(election contract.Election, journal *db.Journal, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(election, cfg)
	votingHandler := handlers.NewVotingHandler(election, cfg)
	adminHandler := handlers.NewAdminHandler(election, journal, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Election state (public reads)
	mux.HandleFunc("GET /candidates", middleware.WithLogging(electionHandler.Candidates))
	mux.HandleFunc("GET /winner", middleware.WithLogging(electionHandler.Winner))
	mux.HandleFunc("GET /results/data", middleware.WithLogging(electionHandler.Results))

	// Voting operations (public, wallet-signed)
	mux.HandleFunc("GET /has-voted", middleware.WithLogging(votingHandler.HasVoted))
	mux.HandleFunc("POST /vote", middleware.WithLogging(votingHandler.Vote))

	// Admin operations (server-signed, require X-Admin-Key)
	mux.HandleFunc("POST /election/admin/add_candidate", middleware.WithLogging(adminHandler.AddCandidate))
	mux.HandleFunc("POST /election/register", middleware.WithLogging(adminHandler.RegisterVoter))
	mux.HandleFunc("POST /election/vote", middleware.WithLogging(adminHandler.SubmitVote))
	mux.HandleFunc("GET /election/admin/transactions", middleware.WithLogging(adminHandler.Transactions))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(Banner))
	})

	return middleware.CORS(cfg.AllowedOrigins, mux)
}
