package models

import "testing"

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{in: "low", want: PriorityLow},
		{in: "Medium", want: PriorityMedium},
		{in: " HIGH ", want: PriorityHigh},
		{in: "critical", want: PriorityCritical},
		{in: "urgent", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePriority(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePriority(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParsePriority(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPriorityValid(t *testing.T) {
	for _, p := range Priorities {
		if !p.Valid() {
			t.Errorf("%q.Valid() = false, want true", p)
		}
	}
	if Priority("").Valid() {
		t.Error("empty priority reported valid")
	}
}
