package tutor

import "testing"

func TestInferLevel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"explicit code", "I'd say B2", "B2"},
		{"lowercase code", "probably a2 or so", "A2"},
		{"code inside word ignored", "I read cab1les for a living", "B1"},
		{"beginner keyword", "total beginner", "A1"},
		{"intermediate keyword", "Intermediate, I guess", "B1"},
		{"advanced keyword", "fairly advanced", "C1"},
		{"code beats keyword", "advanced, maybe C2", "C2"},
		{"no signal defaults", "been at it a while", "B1"},
		{"empty defaults", "", "B1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferLevel(tt.in); got != tt.want {
				t.Errorf("InferLevel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
