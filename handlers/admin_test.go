// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/chainvote/contract"
	"github.com/danielhkuo/chainvote/db"
	"github.com/danielhkuo/chainvote/models"
	"github.com/danielhkuo/chainvote/testutil"
)

func setupAdmin(t *testing.T, names ...string) (*AdminHandler, *testutil.FakeElection, *db.Journal) {
	t.Helper()

	fake := testutil.NewFakeElection(names...)
	journal := db.NewJournal(testutil.SetupTestDB(t))
	return NewAdminHandler(fake, journal, testutil.GetTestConfig()), fake, journal
}

func TestAdmin_RequiresKey(t *testing.T) {
	handler, fake, _ := setupAdmin(t, "Alice")

	routes := []struct {
		name string
		call func(h *AdminHandler, w http.ResponseWriter, r *http.Request)
		req  func(headers map[string]string) *http.Request
	}{
		{"add candidate", (*AdminHandler).AddCandidate, func(h map[string]string) *http.Request {
			return testutil.MakeRequest("POST", "/election/admin/add_candidate", models.AddCandidateRequest{Name: "Mallory"}, h)
		}},
		{"register voter", (*AdminHandler).RegisterVoter, func(h map[string]string) *http.Request {
			return testutil.MakeRequest("POST", "/election/register", models.RegisterVoterRequest{VoterAddress: testutil.TestVoterAddress}, h)
		}},
		{"submit vote", (*AdminHandler).SubmitVote, func(h map[string]string) *http.Request {
			return testutil.MakeRequest("POST", "/election/vote", map[string]int{"candidate_id": 1}, h)
		}},
		{"transactions", (*AdminHandler).Transactions, func(h map[string]string) *http.Request {
			return testutil.MakeRequest("GET", "/election/admin/transactions", nil, h)
		}},
	}

	keys := []struct {
		name    string
		headers map[string]string
	}{
		{"missing key", nil},
		{"wrong key", map[string]string{"X-Admin-Key": "wrong"}},
		{"wrong bearer", map[string]string{"Authorization": "Bearer wrong"}},
	}

	for _, rt := range routes {
		for _, k := range keys {
			t.Run(rt.name+"/"+k.name, func(t *testing.T) {
				w := httptest.NewRecorder()
				rt.call(handler, w, rt.req(k.headers))

				testutil.AssertStatus(t, w, http.StatusUnauthorized)
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Kind != models.KindUnauthorized {
					t.Errorf("Expected kind %s, got %s", models.KindUnauthorized, resp.Kind)
				}
			})
		}
	}

	if n := fake.AddCalls.Load() + fake.RegisterCalls.Load() + fake.SubmitCalls.Load(); n != 0 {
		t.Errorf("Expected no writes without a valid key, got %d", n)
	}
}

func TestAdmin_AddCandidate(t *testing.T) {
	handler, fake, journal := setupAdmin(t)

	req := testutil.MakeRequest("POST", "/election/admin/add_candidate",
		models.AddCandidateRequest{Name: "  Alice  "}, testutil.AdminHeaders())
	w := httptest.NewRecorder()
	handler.AddCandidate(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.AddCandidateResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Status != models.StatusSuccess || resp.Candidate != "Alice" || resp.TxID == "" {
		t.Errorf("Unexpected response: %+v", resp)
	}

	c, err := fake.Candidate(context.Background(), 1)
	if err != nil || c.Name != "Alice" {
		t.Errorf("Expected candidate Alice on chain, got %+v (%v)", c, err)
	}

	entries, err := journal.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 journal entry, got %d", len(entries))
	}
	if e := entries[0]; e.Operation != models.OpAddCandidate || e.Subject != "Alice" || e.TxID != resp.TxID || e.Status != "confirmed" {
		t.Errorf("Unexpected journal entry: %+v", e)
	}
}

func TestAdmin_AddCandidateValidation(t *testing.T) {
	testCases := []struct {
		name     string
		body     interface{}
		wantKind string
	}{
		{"blank name", models.AddCandidateRequest{Name: "   "}, models.KindInvalidInput},
		{"missing name", map[string]string{}, models.KindInvalidInput},
		{"invalid JSON", `{"name":`, models.KindMalformedRequest},
		{"oversized body", `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`, models.KindMalformedRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler, fake, _ := setupAdmin(t)

			w := httptest.NewRecorder()
			handler.AddCandidate(w, testutil.MakeRequest("POST", "/election/admin/add_candidate", tc.body, testutil.AdminHeaders()))

			testutil.AssertStatus(t, w, http.StatusBadRequest)
			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Kind != tc.wantKind {
				t.Errorf("Expected kind %s, got %s", tc.wantKind, resp.Kind)
			}
			if fake.AddCalls.Load() != 0 {
				t.Error("Expected no chain write")
			}
		})
	}
}

func TestAdmin_RegisterVoter(t *testing.T) {
	t.Run("checksums address", func(t *testing.T) {
		handler, fake, _ := setupAdmin(t)

		body := models.RegisterVoterRequest{VoterAddress: strings.ToLower(testutil.TestVoterAddress)}
		w := httptest.NewRecorder()
		handler.RegisterVoter(w, testutil.MakeRequest("POST", "/election/register", body, testutil.AdminHeaders()))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.RegisterVoterResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.VoterAddress != testutil.TestVoterAddress {
			t.Errorf("Expected %s, got %s", testutil.TestVoterAddress, resp.VoterAddress)
		}
		if !fake.Registered(testutil.TestVoterAddress) {
			t.Error("Expected voter to be registered")
		}
	})

	invalid := []struct {
		name     string
		body     interface{}
		wantKind string
	}{
		{"invalid address", models.RegisterVoterRequest{VoterAddress: "0xnope"}, models.KindInvalidAddress},
		{"bad checksum", models.RegisterVoterRequest{VoterAddress: badChecksumAddress}, models.KindInvalidAddress},
		{"oversized body", `{"voter_address":"` + strings.Repeat("0", maxBodyBytes) + `"}`, models.KindMalformedRequest},
	}

	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			handler, fake, _ := setupAdmin(t)

			w := httptest.NewRecorder()
			handler.RegisterVoter(w, testutil.MakeRequest("POST", "/election/register", tc.body, testutil.AdminHeaders()))

			testutil.AssertStatus(t, w, http.StatusBadRequest)
			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Kind != tc.wantKind {
				t.Errorf("Expected kind %s, got %s", tc.wantKind, resp.Kind)
			}
			if fake.RegisterCalls.Load() != 0 {
				t.Error("Expected no chain write")
			}
		})
	}
}

func TestAdmin_SubmitVote(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		handler, fake, _ := setupAdmin(t, "Alice", "Bob")

		w := httptest.NewRecorder()
		handler.SubmitVote(w, testutil.MakeRequest("POST", "/election/vote", map[string]string{"candidate_id": "2"}, testutil.AdminHeaders()))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.SubmitVoteResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.CandidateID != 2 || resp.Status != models.StatusSuccess || resp.Block == 0 {
			t.Errorf("Unexpected response: %+v", resp)
		}

		c, _ := fake.Candidate(context.Background(), 2)
		if c.VoteCount != 1 {
			t.Errorf("Expected 1 vote for Bob, got %d", c.VoteCount)
		}
	})

	t.Run("invalid candidate id", func(t *testing.T) {
		handler, fake, _ := setupAdmin(t, "Alice")

		w := httptest.NewRecorder()
		handler.SubmitVote(w, testutil.MakeRequest("POST", "/election/vote", map[string]int{"candidate_id": 0}, testutil.AdminHeaders()))

		testutil.AssertStatus(t, w, http.StatusBadRequest)
		if fake.SubmitCalls.Load() != 0 {
			t.Error("Expected no chain write")
		}
	})

	t.Run("reverted is journaled", func(t *testing.T) {
		handler, _, journal := setupAdmin(t, "Alice")

		w := httptest.NewRecorder()
		handler.SubmitVote(w, testutil.MakeRequest("POST", "/election/vote", map[string]int{"candidate_id": 9}, testutil.AdminHeaders()))

		testutil.AssertStatus(t, w, http.StatusBadGateway)
		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Kind != models.KindTransactionReverted {
			t.Errorf("Expected kind %s, got %s", models.KindTransactionReverted, resp.Kind)
		}

		entries, err := journal.List(context.Background(), 10)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(entries) != 1 || entries[0].Status != "reverted" || entries[0].Error != models.KindTransactionReverted {
			t.Errorf("Unexpected journal entries: %+v", entries)
		}
	})

	t.Run("no signer", func(t *testing.T) {
		handler, fake, _ := setupAdmin(t, "Alice")
		fake.WriteErr = contract.ErrSignerUnavailable

		w := httptest.NewRecorder()
		handler.SubmitVote(w, testutil.MakeRequest("POST", "/election/vote", map[string]int{"candidate_id": 1}, testutil.AdminHeaders()))

		testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Kind != models.KindSignerUnavailable {
			t.Errorf("Expected kind %s, got %s", models.KindSignerUnavailable, resp.Kind)
		}
	})
}

func TestAdmin_Transactions(t *testing.T) {
	handler, _, journal := setupAdmin(t)

	for i := 0; i < 3; i++ {
		_, err := journal.Record(context.Background(), models.JournalEntry{
			Operation: models.OpAddCandidate,
			Subject:   fmt.Sprintf("candidate-%d", i),
			TxID:      fmt.Sprintf("0x%d", i),
			Status:    "confirmed",
		})
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	t.Run("lists with limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Transactions(w, testutil.MakeRequest("GET", "/election/admin/transactions?limit=2", nil, testutil.AdminHeaders()))

		testutil.AssertStatus(t, w, http.StatusOK)
		var entries []models.JournalEntry
		testutil.AssertJSON(t, w, &entries)
		if len(entries) != 2 {
			t.Errorf("Expected 2 entries, got %d", len(entries))
		}
	})

	t.Run("rejects bad limit", func(t *testing.T) {
		for _, limit := range []string{"0", "-5", "ten"} {
			w := httptest.NewRecorder()
			handler.Transactions(w, testutil.MakeRequest("GET", "/election/admin/transactions?limit="+limit, nil, testutil.AdminHeaders()))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		}
	})
}
