package panel

import (
	"errors"
	"testing"
)

func TestPriorityFor(t *testing.T) {
	m := Member{
		DomainPriorities: map[string]int{"risk": 5, "finance": 3},
	}

	tests := []struct {
		name    string
		domains []string
		want    int
	}{
		{"highest across domains", []string{"risk", "finance"}, 5},
		{"single match", []string{"finance"}, 3},
		{"no match", []string{"legal"}, 0},
		{"empty means fully relevant", nil, MaxPriority},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.PriorityFor(tt.domains); got != tt.want {
				t.Errorf("PriorityFor(%v) = %d, want %d", tt.domains, got, tt.want)
			}
		})
	}
}

func TestHasVetoIn(t *testing.T) {
	m := Member{VetoRights: []string{"legal", "ethics"}}
	if !m.HasVetoIn("legal") {
		t.Error("expected veto authority in legal")
	}
	if m.HasVetoIn("finance") {
		t.Error("unexpected veto authority in finance")
	}
	if (&Member{}).HasVetoIn("legal") {
		t.Error("member without veto rights must not veto")
	}
}

func TestCreateRequestValidate(t *testing.T) {
	valid := CreateRequest{
		Name:             "carol",
		Role:             "counsel",
		DomainPriorities: map[string]int{"legal": 5},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	noName := CreateRequest{Role: "counsel"}
	if err := noName.Validate(); !errors.Is(err, ErrNameRequired) {
		t.Errorf("err = %v, want ErrNameRequired", err)
	}

	noRole := CreateRequest{Name: "carol"}
	if err := noRole.Validate(); !errors.Is(err, ErrRoleRequired) {
		t.Errorf("err = %v, want ErrRoleRequired", err)
	}

	for _, p := range []int{0, 6, -1} {
		bad := CreateRequest{Name: "carol", Role: "counsel", DomainPriorities: map[string]int{"legal": p}}
		if err := bad.Validate(); err == nil {
			t.Errorf("priority %d accepted, want error", p)
		}
	}
}
