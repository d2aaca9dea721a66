package exercise

import (
	"reflect"
	"testing"
)

func TestGradeObjective_NotGradable(t *testing.T) {
	tests := []struct {
		name string
		ex   *Exercise
	}{
		{"nil exercise", nil},
		{"disabled", &Exercise{Enabled: 0}},
		{"unknown type", &Exercise{Enabled: 1, ProblemType: "dictation"}},
		{"translation", &Exercise{Enabled: 1, ProblemType: TypeTranslation, Translation: &TranslationProblem{Prompt: "x"}}},
		{"free_response", &Exercise{Enabled: 1, ProblemType: TypeFreeResponse, FreeResponse: &FreeResponseProblem{Prompt: "x"}}},
	}

	for _, tc := range tests {
		if g := GradeObjective(tc.ex, &Attempt{}); g != nil {
			t.Errorf("%s: expected nil grade, got %+v", tc.name, g)
		}
	}
}

func TestGradeObjective_FillInBlank(t *testing.T) {
	ex := &Exercise{
		Enabled:     1,
		ProblemType: TypeFillInBlank,
		FillInBlank: &FillInBlankProblem{
			Blanks: []Blank{
				{ID: "b1", Template: "Yo ____ estudiante.", ExpectedAnswers: []string{"soy"}},
				{ID: "b2", Template: "____ días.", ExpectedAnswers: []string{"buenos", "Buenos"}},
			},
		},
	}

	tests := []struct {
		name       string
		blanks     map[string]string
		allCorrect bool
		perBlank   map[string]bool
	}{
		{
			name:       "exact match",
			blanks:     map[string]string{"b1": "soy", "b2": "buenos"},
			allCorrect: true,
			perBlank:   map[string]bool{"b1": true, "b2": true},
		},
		{
			name:       "case and whitespace insensitive",
			blanks:     map[string]string{"b1": " Soy ", "b2": "BUENOS"},
			allCorrect: true,
			perBlank:   map[string]bool{"b1": true, "b2": true},
		},
		{
			name:       "partial correctness surfaced per blank",
			blanks:     map[string]string{"b1": "soy", "b2": "malos"},
			allCorrect: false,
			perBlank:   map[string]bool{"b1": true, "b2": false},
		},
		{
			name:       "missing blank is wrong",
			blanks:     map[string]string{"b1": "soy"},
			allCorrect: false,
			perBlank:   map[string]bool{"b1": true, "b2": false},
		},
	}

	for _, tc := range tests {
		g := GradeObjective(ex, &Attempt{Blanks: tc.blanks})
		if g == nil {
			t.Fatalf("%s: expected a grade", tc.name)
		}
		if g.Kind != TypeFillInBlank {
			t.Errorf("%s: kind = %q", tc.name, g.Kind)
		}
		if g.AllCorrect != tc.allCorrect {
			t.Errorf("%s: allCorrect = %v, want %v", tc.name, g.AllCorrect, tc.allCorrect)
		}
		if !reflect.DeepEqual(g.PerBlank, tc.perBlank) {
			t.Errorf("%s: perBlank = %v, want %v", tc.name, g.PerBlank, tc.perBlank)
		}
	}
}

func TestGradeObjective_MultipleChoice(t *testing.T) {
	ex := &Exercise{
		Enabled:        1,
		ProblemType:    TypeMultipleChoice,
		MultipleChoice: mcProblem(), // correct: a, b
	}

	tests := []struct {
		name     string
		selected []string
		want     bool
	}{
		{"exact", []string{"a", "b"}, true},
		{"order independent", []string{"b", "a"}, true},
		{"duplicate independent", []string{"b", "a", "a"}, true},
		{"missing one", []string{"a"}, false},
		{"extra one", []string{"a", "b", "c"}, false},
		{"empty", []string{}, false},
	}

	for _, tc := range tests {
		g := GradeObjective(ex, &Attempt{Selected: tc.selected})
		if g == nil {
			t.Fatalf("%s: expected a grade", tc.name)
		}
		if g.AllCorrect != tc.want {
			t.Errorf("%s: allCorrect = %v, want %v", tc.name, g.AllCorrect, tc.want)
		}
		if g.PerBlank != nil {
			t.Errorf("%s: multiple choice has no per-blank results", tc.name)
		}
	}
}

func TestGradeObjective_Idempotent(t *testing.T) {
	ex := &Exercise{Enabled: 1, ProblemType: TypeMultipleChoice, MultipleChoice: mcProblem()}
	att := &Attempt{Selected: []string{"b", "a"}}

	first := GradeObjective(ex, att)
	second := GradeObjective(ex, att)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("grading is not idempotent: %+v vs %+v", first, second)
	}
}
