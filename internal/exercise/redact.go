package exercise

// Redacted returns a deep copy of the exercise with every answer-key field
// stripped: fill_in_blank expected_answers and multiple_choice
// correct_option_ids. Every serialization shown back to the model during
// help must go through this copy — a missed redaction leaks the answer key.
func (e *Exercise) Redacted() *Exercise {
	if e == nil {
		return nil
	}

	out := &Exercise{
		Enabled:     e.Enabled,
		ExerciseID:  e.ExerciseID,
		ProblemType: e.ProblemType,
	}

	if e.Translation != nil {
		tr := *e.Translation
		out.Translation = &tr
	}
	if e.FreeResponse != nil {
		fr := *e.FreeResponse
		out.FreeResponse = &fr
	}
	if e.FillInBlank != nil {
		fib := &FillInBlankProblem{
			Instructions: e.FillInBlank.Instructions,
			Blanks:       make([]Blank, len(e.FillInBlank.Blanks)),
		}
		for i, b := range e.FillInBlank.Blanks {
			fib.Blanks[i] = Blank{ID: b.ID, Template: b.Template}
		}
		out.FillInBlank = fib
	}
	if e.MultipleChoice != nil {
		mc := &MultipleChoiceProblem{
			Question:      e.MultipleChoice.Question,
			AllowMultiple: e.MultipleChoice.AllowMultiple,
			Options:       make([]Option, len(e.MultipleChoice.Options)),
		}
		copy(mc.Options, e.MultipleChoice.Options)
		out.MultipleChoice = mc
	}

	return out
}
