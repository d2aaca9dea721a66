package exercise

import (
	"sort"
	"strings"
)

// Grade is the result of objectively grading an attempt.
type Grade struct {
	Kind       ProblemType     `json:"kind"`
	AllCorrect bool            `json:"all_correct"`
	PerBlank   map[string]bool `json:"per_blank,omitempty"`
}

// GradeObjective grades an attempt against the exercise's answer key.
// Returns nil when the exercise is disabled, has an unrecognized problem
// type, or is not objectively gradable (translation and free_response are
// graded only through model feedback). Pure function over its inputs.
func GradeObjective(ex *Exercise, attempt *Attempt) *Grade {
	if ex == nil || ex.Enabled != 1 || !KnownType(ex.ProblemType) || attempt == nil {
		return nil
	}

	switch ex.ProblemType {
	case TypeFillInBlank:
		return gradeFillInBlank(ex.FillInBlank, attempt)
	case TypeMultipleChoice:
		return gradeMultipleChoice(ex.MultipleChoice, attempt)
	}
	return nil
}

func gradeFillInBlank(p *FillInBlankProblem, attempt *Attempt) *Grade {
	if p == nil {
		return nil
	}

	g := &Grade{Kind: TypeFillInBlank, AllCorrect: true, PerBlank: make(map[string]bool)}
	for _, b := range p.Blanks {
		got := normalizeText(attempt.Blanks[b.ID])
		correct := false
		for _, want := range b.ExpectedAnswers {
			if got == normalizeText(want) {
				correct = true
				break
			}
		}
		g.PerBlank[b.ID] = correct
		if !correct {
			g.AllCorrect = false
		}
	}
	return g
}

func gradeMultipleChoice(p *MultipleChoiceProblem, attempt *Attempt) *Grade {
	if p == nil {
		return nil
	}

	got := dedupSorted(attempt.Selected)
	want := dedupSorted(p.CorrectOptionIDs)

	correct := len(got) == len(want)
	if correct {
		for i := range got {
			if got[i] != want[i] {
				correct = false
				break
			}
		}
	}
	return &Grade{Kind: TypeMultipleChoice, AllCorrect: correct}
}

// normalizeText trims whitespace and lower-cases for comparison.
func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// dedupSorted returns a sorted copy of ids with duplicates removed.
func dedupSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
