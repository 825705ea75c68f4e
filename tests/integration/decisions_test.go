//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/Strob0t/Consilium/internal/domain/decision"
	"github.com/Strob0t/Consilium/internal/domain/panel"
)

func postJSON(t *testing.T, path string, body any, out any) int {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(testServer.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func getJSON(t *testing.T, path string, out any) int {
	t.Helper()
	resp, err := http.Get(testServer.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func registerMember(t *testing.T, name, role string, prios map[string]int, veto []string) panel.Member {
	t.Helper()
	var m panel.Member
	code := postJSON(t, "/api/v1/panel", panel.CreateRequest{
		Name:             name,
		Role:             role,
		DomainPriorities: prios,
		VetoRights:       veto,
	}, &m)
	if code != http.StatusCreated {
		t.Fatalf("register member: status %d", code)
	}
	return m
}

func TestDecisionEndToEnd(t *testing.T) {
	suffix := uuid.NewString()[:8]
	registerMember(t, "alice-"+suffix, "strategist", map[string]int{"strategy": 5}, nil)
	registerMember(t, "bob-"+suffix, "analyst", map[string]int{"strategy": 4, "risk": 5}, nil)
	registerMember(t, "carol-"+suffix, "counsel", map[string]int{"strategy": 3, "legal": 5}, []string{"legal"})

	var d decision.Decision
	code := postJSON(t, "/api/v1/decisions", map[string]any{
		"query":            "standardize on a single cloud provider",
		"required_domains": []string{"strategy"},
		"urgency":          3,
		"importance":       4,
	}, &d)
	if code != http.StatusCreated {
		t.Fatalf("submit decision: status %d", code)
	}
	if d.ID == "" {
		t.Fatal("decision ID not assigned")
	}
	switch d.Status {
	case decision.StatusAccepted, decision.StatusUnresolved, decision.StatusVetoed:
	default:
		t.Fatalf("non-terminal status %s", d.Status)
	}
	if d.Rounds < 1 {
		t.Errorf("Rounds = %d, want at least one", d.Rounds)
	}
	if d.Consensus == nil {
		t.Fatal("consensus outcome missing")
	}
	if d.Recommendation == nil {
		t.Fatal("recommendation missing")
	}

	// persisted and retrievable
	var got decision.Decision
	if code := getJSON(t, "/api/v1/decisions/"+d.ID, &got); code != http.StatusOK {
		t.Fatalf("get decision: status %d", code)
	}
	if got.Status != d.Status || got.Rounds != d.Rounds {
		t.Errorf("stored decision = %+v, want %+v", got, d)
	}

	// every round was recorded
	var rounds []json.RawMessage
	if code := getJSON(t, fmt.Sprintf("/api/v1/decisions/%s/rounds", d.ID), &rounds); code != http.StatusOK {
		t.Fatalf("get rounds: status %d", code)
	}
	if len(rounds) != d.Rounds {
		t.Errorf("recorded rounds = %d, want %d", len(rounds), d.Rounds)
	}
}

func TestDecisionWithEmptyPanelDomain(t *testing.T) {
	// no member covers this domain and the fallback drafts the first
	// active member, so the decision still runs
	var d decision.Decision
	code := postJSON(t, "/api/v1/decisions", map[string]any{
		"query":            "approve the catering vendor",
		"required_domains": []string{"catering-" + uuid.NewString()},
	}, &d)
	if code != http.StatusCreated && code != http.StatusConflict {
		t.Fatalf("status = %d, want 201 with a fallback lead or 409 with an empty panel", code)
	}
}

func TestMemberInsightsAfterDecision(t *testing.T) {
	suffix := uuid.NewString()[:8]
	m := registerMember(t, "dave-"+suffix, "economist", nil, nil)

	var d decision.Decision
	if code := postJSON(t, "/api/v1/decisions", map[string]any{
		"query": "revise the pricing tiers",
	}, &d); code != http.StatusCreated {
		t.Fatalf("submit decision: status %d", code)
	}

	var ins panel.Insights
	if code := getJSON(t, "/api/v1/panel/"+m.ID+"/insights", &ins); code != http.StatusOK {
		t.Fatalf("insights: status %d", code)
	}
	if ins.DecisionsParticipated < 1 {
		t.Errorf("DecisionsParticipated = %d, want at least 1", ins.DecisionsParticipated)
	}
}
