package services

import "testing"

func TestCanMutate(t *testing.T) {
	tests := []struct {
		name          string
		acting, owner string
		want          bool
	}{
		{"owner", "u1", "u1", true},
		{"other user", "u2", "u1", false},
		{"anonymous", "", "u1", false},
		{"anonymous on ownerless record", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMutate(tt.acting, tt.owner); got != tt.want {
				t.Errorf("CanMutate(%q, %q) = %v, want %v", tt.acting, tt.owner, got, tt.want)
			}
		})
	}
}
