package evaluation

import "testing"

func TestNewValidatesRanges(t *testing.T) {
	tests := []struct {
		name                             string
		agreement, expertise, confidence float64
		wantErr                          bool
	}{
		{"all in range", 0.5, 0.5, 0.5, false},
		{"boundaries", 0, 1, 0, false},
		{"agreement too high", 1.1, 0.5, 0.5, true},
		{"agreement negative", -0.1, 0.5, 0.5, true},
		{"expertise too high", 0.5, 1.5, 0.5, true},
		{"confidence negative", 0.5, 0.5, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("rec", "eval", "analyst", tt.agreement, nil, nil, nil, tt.expertise, tt.confidence)
			if (err != nil) != tt.wantErr {
				t.Errorf("New err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewParticipation(t *testing.T) {
	p, err := NewParticipation("e1", "analyst", KindReviewer, 0.4, 0.6)
	if err != nil {
		t.Fatalf("NewParticipation: %v", err)
	}
	if p.Weight != 0.4 || p.Expertise != 0.6 {
		t.Errorf("participation = %+v", p)
	}
}

func TestNewParticipationFloorsProposerWeight(t *testing.T) {
	p, err := NewParticipation("e1", "strategist", KindProposer, 0.2, 0.6)
	if err != nil {
		t.Fatalf("NewParticipation: %v", err)
	}
	if p.Weight != ProposerWeightFloor {
		t.Errorf("Weight = %v, want floored to %v", p.Weight, ProposerWeightFloor)
	}

	p, err = NewParticipation("e1", "strategist", KindProposer, 0.9, 0.6)
	if err != nil {
		t.Fatalf("NewParticipation: %v", err)
	}
	if p.Weight != 0.9 {
		t.Errorf("Weight = %v, want 0.9 untouched above the floor", p.Weight)
	}
}

func TestNewParticipationRejectsUnknownKind(t *testing.T) {
	if _, err := NewParticipation("e1", "analyst", ParticipationKind("observer"), 0.5, 0.5); err == nil {
		t.Fatal("expected error for unknown participation kind")
	}
}
