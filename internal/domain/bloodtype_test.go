package domain

import "testing"

func TestParseBloodType(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    BloodType
		wantErr bool
	}{
		{name: "o positive", raw: "O+", want: OPositive},
		{name: "o negative", raw: "O-", want: ONegative},
		{name: "ab positive", raw: "AB+", want: ABPositive},
		{name: "a negative", raw: "A-", want: ANegative},
		{name: "lowercase rejected", raw: "o+", wantErr: true},
		{name: "missing rh", raw: "AB", wantErr: true},
		{name: "unknown group", raw: "C+", wantErr: true},
		{name: "reversed", raw: "+O", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "whitespace", raw: " O+", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBloodType(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseBloodType(%q) = %v, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBloodType(%q) returned error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseBloodType(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestAllBloodTypesValid(t *testing.T) {
	if len(AllBloodTypes) != 8 {
		t.Fatalf("expected 8 blood types, got %d", len(AllBloodTypes))
	}
	for _, bt := range AllBloodTypes {
		if !bt.Valid() {
			t.Errorf("blood type %q should be valid", bt)
		}
	}
}

func TestParseOptimizationMethod(t *testing.T) {
	tests := []struct {
		raw  string
		want OptimizationMethod
		ok   bool
	}{
		{raw: "constrained", want: MethodConstrained, ok: true},
		{raw: "heuristic", want: MethodHeuristic, ok: true},
		{raw: "hybrid", want: MethodHybrid, ok: true},
		{raw: "HYBRID", want: MethodHybrid, ok: true},
		{raw: "", want: MethodConstrained, ok: true},
		{raw: "  constrained ", want: MethodConstrained, ok: true},
		{raw: "genetic", ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseOptimizationMethod(tt.raw)
		if ok != tt.ok {
			t.Errorf("ParseOptimizationMethod(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseOptimizationMethod(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseEligibilityStatus(t *testing.T) {
	for _, status := range AllEligibilityStatuses {
		got, ok := ParseEligibilityStatus(string(status))
		if !ok || got != status {
			t.Errorf("ParseEligibilityStatus(%q) = %v, %v", status, got, ok)
		}
	}

	if _, ok := ParseEligibilityStatus("retired"); ok {
		t.Error("expected unknown status to fail parsing")
	}
}
