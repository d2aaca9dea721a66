package reply

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/akarsh/parla/internal/llm"
)

//go:embed schema.json
var schemaJSON []byte

// LoadSchema parses the embedded StructuredResponse JSON schema into the
// shape the provider layer needs for schema-constrained output. Loaded once
// at startup and treated as immutable.
func LoadSchema() (*llm.Schema, error) {
	var def map[string]any
	if err := json.Unmarshal(schemaJSON, &def); err != nil {
		return nil, fmt.Errorf("parse response schema: %w", err)
	}
	return &llm.Schema{
		Name:        "tutor-turn",
		Description: "One tutor chat turn: reply text plus optional exercise proposal, poll and clear signal",
		Definition:  def,
	}, nil
}
