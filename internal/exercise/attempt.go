package exercise

// Attempt holds the learner's in-progress answer. The populated field
// depends on the active exercise's problem type: Text for translation and
// free_response, Blanks for fill_in_blank, Selected for multiple_choice.
type Attempt struct {
	Text     string            `json:"text,omitempty"`
	Blanks   map[string]string `json:"blanks,omitempty"`
	Selected []string          `json:"selected,omitempty"`
}

// NewAttempt seeds the type-appropriate empty attempt for an exercise.
// An active exercise always has a non-nil attempt.
func NewAttempt(ex *Exercise) *Attempt {
	a := &Attempt{}
	switch ex.ProblemType {
	case TypeFillInBlank:
		a.Blanks = make(map[string]string)
		if ex.FillInBlank != nil {
			for _, b := range ex.FillInBlank.Blanks {
				a.Blanks[b.ID] = ""
			}
		}
	case TypeMultipleChoice:
		a.Selected = []string{}
	}
	return a
}
