package reply

import (
	"encoding/json"

	"github.com/akarsh/parla/internal/exercise"
	"github.com/akarsh/parla/internal/prompt"
)

// Parse decodes raw model JSON into a StructuredResponse and normalizes it
// for the given effective mode. Unknown or malformed fields degrade to zero
// values and are cleaned up by Normalize; Parse only fails when the payload
// is not JSON at all.
func Parse(raw json.RawMessage, mode prompt.Mode) (StructuredResponse, error) {
	var resp StructuredResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return StructuredResponse{}, err
	}
	return Normalize(resp, mode), nil
}

// Normalize coerces a raw structured response into a safe, internally
// consistent shape. It never fails: malformed input degrades to the safest
// disabled state. Deterministic and total — every combination of the three
// signals (poll, proposal, clear_active) maps to exactly one output.
func Normalize(resp StructuredResponse, mode prompt.Mode) StructuredResponse {
	out := resp

	// A proposal that is disabled, incomplete, or inconsistent with its own
	// payload nullity is replaced wholesale with the canonical disabled shape.
	if out.Proposal.Enabled != 1 || out.Proposal.Validate() != nil {
		out.Proposal = exercise.DisabledProposal()
	}

	// Same rule for polls.
	if !out.Poll.Valid() {
		out.Poll = DisabledPoll()
	}

	// clear_active is exactly 0 or 1; anything ambiguous never clears.
	if out.ClearActive != 1 {
		out.ClearActive = 0
	}

	// Help turns stay focused on the active exercise — no side quizzes.
	if mode == prompt.ModeHelp {
		out.Poll = DisabledPoll()
	}

	// Conflict resolution between simultaneous signals, in priority order.
	// 1. A poll cannot coexist with ending the current exercise.
	if out.Poll.Enabled == 1 && out.ClearActive == 1 {
		out.Poll = DisabledPoll()
	}
	// 2. A surviving poll takes precedence over offering a new exercise.
	if out.Poll.Enabled == 1 && out.Proposal.Enabled == 1 {
		out.Proposal = exercise.DisabledProposal()
	}
	// 3. A poll turn never clears an exercise.
	if out.Poll.Enabled == 1 {
		out.ClearActive = 0
	}

	return out
}
