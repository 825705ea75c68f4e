package recommendation

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/Strob0t/Consilium/internal/domain/conflict"
)

func TestDomainsSorted(t *testing.T) {
	r := Recommendation{
		DomainAnalyses: map[string]json.RawMessage{
			"risk":    json.RawMessage(`{}`),
			"legal":   json.RawMessage(`{}`),
			"finance": json.RawMessage(`{}`),
		},
	}
	want := []string{"finance", "legal", "risk"}
	if got := r.Domains(); !reflect.DeepEqual(got, want) {
		t.Errorf("Domains = %v, want %v", got, want)
	}
	if got := (&Recommendation{}).Domains(); len(got) != 0 {
		t.Errorf("Domains on empty analyses = %v", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := &Recommendation{
		ID:                 "rec-1",
		Title:              "original",
		SupportingEvidence: []string{"evidence"},
		SuccessMetrics:     []string{"metric"},
		UncertaintyFactors: []string{"unknown"},
		Alternatives:       []Alternative{{Title: "alt"}},
		Amendments:         []Amendment{{Method: conflict.MethodIntegrative, Note: "n"}},
		DomainAnalyses: map[string]json.RawMessage{
			"risk": json.RawMessage(`{"score":1}`),
		},
	}

	cp := orig.Clone()
	cp.Title = "changed"
	cp.SupportingEvidence[0] = "changed"
	cp.SuccessMetrics = append(cp.SuccessMetrics, "added")
	cp.UncertaintyFactors[0] = "changed"
	cp.Alternatives[0].Title = "changed"
	cp.Amendments[0].Note = "changed"
	cp.DomainAnalyses["risk"][2] = 'X'
	cp.DomainAnalyses["legal"] = json.RawMessage(`{}`)

	if orig.Title != "original" {
		t.Error("Title leaked through clone")
	}
	if orig.SupportingEvidence[0] != "evidence" {
		t.Error("SupportingEvidence leaked through clone")
	}
	if len(orig.SuccessMetrics) != 1 {
		t.Error("SuccessMetrics leaked through clone")
	}
	if orig.UncertaintyFactors[0] != "unknown" {
		t.Error("UncertaintyFactors leaked through clone")
	}
	if orig.Alternatives[0].Title != "alt" {
		t.Error("Alternatives leaked through clone")
	}
	if orig.Amendments[0].Note != "n" {
		t.Error("Amendments leaked through clone")
	}
	if string(orig.DomainAnalyses["risk"]) != `{"score":1}` {
		t.Error("DomainAnalyses payload leaked through clone")
	}
	if _, ok := orig.DomainAnalyses["legal"]; ok {
		t.Error("DomainAnalyses map leaked through clone")
	}
}

func TestCloneNilMaps(t *testing.T) {
	cp := (&Recommendation{ID: "rec-1"}).Clone()
	if cp.DomainAnalyses != nil {
		t.Errorf("DomainAnalyses = %v, want nil preserved", cp.DomainAnalyses)
	}
}
