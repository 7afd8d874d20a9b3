// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/chainvote/contract"
	"github.com/danielhkuo/chainvote/models"
	"github.com/danielhkuo/chainvote/testutil"
)

func TestCandidates(t *testing.T) {
	fake := testutil.NewFakeElection("Alice", "Bob")
	fake.SetVotes(2, 4)
	handler := NewElectionHandler(fake, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	handler.Candidates(w, testutil.MakeRequest("GET", "/candidates", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp []models.CandidateResponse
	testutil.AssertJSON(t, w, &resp)

	want := []models.CandidateResponse{{ID: 1, Name: "Alice", Votes: 0}, {ID: 2, Name: "Bob", Votes: 4}}
	if len(resp) != len(want) {
		t.Fatalf("Expected %d candidates, got %d", len(want), len(resp))
	}
	for i := range want {
		if resp[i] != want[i] {
			t.Errorf("Candidate %d: expected %+v, got %+v", i, want[i], resp[i])
		}
	}
}

func TestCandidates_Empty(t *testing.T) {
	handler := NewElectionHandler(testutil.NewFakeElection(), testutil.GetTestConfig())

	w := httptest.NewRecorder()
	handler.Candidates(w, testutil.MakeRequest("GET", "/candidates", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("Expected empty array, got %q", body)
	}
}

func TestWinner(t *testing.T) {
	t.Run("single leader", func(t *testing.T) {
		fake := testutil.NewFakeElection("Alice", "Bob", "Carol")
		fake.SetVotes(1, 5)
		fake.SetVotes(2, 3)
		handler := NewElectionHandler(fake, testutil.GetTestConfig())

		w := httptest.NewRecorder()
		handler.Winner(w, testutil.MakeRequest("GET", "/winner", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.WinnerResponse
		testutil.AssertJSON(t, w, &resp)

		if resp.Winner != "Alice" || resp.Votes != 5 {
			t.Errorf("Expected Alice with 5 votes, got %s with %d", resp.Winner, resp.Votes)
		}
		if resp.Tie || len(resp.Winners) != 1 || resp.Winners[0].ID != 1 {
			t.Errorf("Expected single winner set [1], got tie=%v %+v", resp.Tie, resp.Winners)
		}
	})

	t.Run("tie reports full set", func(t *testing.T) {
		fake := testutil.NewFakeElection("Alice", "Bob", "Carol")
		fake.SetVotes(1, 2)
		fake.SetVotes(2, 5)
		fake.SetVotes(3, 5)
		handler := NewElectionHandler(fake, testutil.GetTestConfig())

		w := httptest.NewRecorder()
		handler.Winner(w, testutil.MakeRequest("GET", "/winner", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.WinnerResponse
		testutil.AssertJSON(t, w, &resp)

		// The contract keeps its first-highest pick
		if resp.Winner != "Bob" || resp.Votes != 5 {
			t.Errorf("Expected contract pick Bob with 5, got %s with %d", resp.Winner, resp.Votes)
		}
		if !resp.Tie {
			t.Error("Expected tie to be reported")
		}
		if len(resp.Winners) != 2 || resp.Winners[0].Name != "Bob" || resp.Winners[1].Name != "Carol" {
			t.Errorf("Expected winners [Bob Carol], got %+v", resp.Winners)
		}
	})

	t.Run("empty election skips getWinner", func(t *testing.T) {
		fake := testutil.NewFakeElection()
		handler := NewElectionHandler(fake, testutil.GetTestConfig())

		w := httptest.NewRecorder()
		handler.Winner(w, testutil.MakeRequest("GET", "/winner", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.WinnerResponse
		testutil.AssertJSON(t, w, &resp)

		if resp.Winner != "" || resp.Votes != 0 || len(resp.Winners) != 0 || resp.Tie {
			t.Errorf("Expected empty winner, got %+v", resp)
		}
		if got := fake.WinnerCalls.Load(); got != 0 {
			t.Errorf("Expected no getWinner call, got %d", got)
		}
	})

	t.Run("getWinner failure", func(t *testing.T) {
		fake := testutil.NewFakeElection("Alice")
		fake.WinnerFunc = func(context.Context) (contract.Candidate, error) {
			return contract.Candidate{}, contract.ErrUpstreamTimeout
		}
		handler := NewElectionHandler(fake, testutil.GetTestConfig())

		w := httptest.NewRecorder()
		handler.Winner(w, testutil.MakeRequest("GET", "/winner", nil, nil))

		testutil.AssertStatus(t, w, http.StatusGatewayTimeout)
	})
}

func TestResults(t *testing.T) {
	fake := testutil.NewFakeElection("Alice", "Bob", "Carol")
	fake.SetVotes(1, 1)
	fake.SetVotes(2, 4)
	fake.SetVotes(3, 4)
	handler := NewElectionHandler(fake, testutil.GetTestConfig())
	handler.now = func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }

	w := httptest.NewRecorder()
	handler.Results(w, testutil.MakeRequest("GET", "/results/data", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)

	if !resp.Success {
		t.Error("Expected success true")
	}
	if resp.TotalVotes != 9 {
		t.Errorf("Expected 9 total votes, got %d", resp.TotalVotes)
	}
	if resp.Timestamp != "2025-03-01T09:30:00Z" {
		t.Errorf("Unexpected timestamp %s", resp.Timestamp)
	}

	order := []string{"Bob", "Carol", "Alice"}
	for i, name := range order {
		if resp.Candidates[i].Name != name {
			t.Errorf("Rank %d: expected %s, got %s", i+1, name, resp.Candidates[i].Name)
		}
	}
	if len(resp.Winners) != 2 {
		t.Errorf("Expected 2 tied winners, got %+v", resp.Winners)
	}
}

func TestElectionHandler_ChainUnavailable(t *testing.T) {
	routes := []struct {
		name string
		call func(h *ElectionHandler, w http.ResponseWriter, r *http.Request)
		path string
	}{
		{"candidates", (*ElectionHandler).Candidates, "/candidates"},
		{"winner", (*ElectionHandler).Winner, "/winner"},
		{"results", (*ElectionHandler).Results, "/results/data"},
	}

	for _, rt := range routes {
		t.Run(rt.name, func(t *testing.T) {
			fake := testutil.NewFakeElection("Alice")
			fake.ReadErr = contract.ErrContractUnavailable
			handler := NewElectionHandler(fake, testutil.GetTestConfig())

			w := httptest.NewRecorder()
			rt.call(handler, w, testutil.MakeRequest("GET", rt.path, nil, nil))

			testutil.AssertStatus(t, w, http.StatusBadGateway)
			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Kind != models.KindContractUnavailable {
				t.Errorf("Expected kind %s, got %s", models.KindContractUnavailable, resp.Kind)
			}
		})
	}
}

func TestElectionHandler_ImplausibleCandidateCount(t *testing.T) {
	routes := []struct {
		name string
		call func(h *ElectionHandler, w http.ResponseWriter, r *http.Request)
		path string
	}{
		{"candidates", (*ElectionHandler).Candidates, "/candidates"},
		{"winner", (*ElectionHandler).Winner, "/winner"},
		{"results", (*ElectionHandler).Results, "/results/data"},
	}

	for _, rt := range routes {
		t.Run(rt.name, func(t *testing.T) {
			fake := testutil.NewFakeElection("Alice")
			fake.CountFunc = func(context.Context) (uint64, error) { return 1 << 62, nil }
			handler := NewElectionHandler(fake, testutil.GetTestConfig())

			w := httptest.NewRecorder()
			rt.call(handler, w, testutil.MakeRequest("GET", rt.path, nil, nil))

			testutil.AssertStatus(t, w, http.StatusBadGateway)
			if got := fake.CandidateCalls.Load(); got != 0 {
				t.Errorf("Expected no getCandidate calls, got %d", got)
			}
		})
	}
}
