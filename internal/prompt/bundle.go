package prompt

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
)

//go:embed prompts.json
var bundleJSON []byte

// Bundle is the static prompt-template document. Loaded once at startup
// and treated as immutable for the process lifetime.
type Bundle struct {
	SystemPrompt        []string `json:"system_prompt"`
	Welcome             string   `json:"welcome"`
	OnboardingQuestions []string `json:"onboarding_questions"`
	HelpTemplate        string   `json:"help_template"`
	PostClearTemplate   string   `json:"post_clear_template"`
	PlacementTemplate   string   `json:"placement_template"`
}

// LoadBundle parses the embedded template bundle and checks the keys every
// turn depends on.
func LoadBundle() (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(bundleJSON, &b); err != nil {
		return nil, fmt.Errorf("parse prompt bundle: %w", err)
	}
	if len(b.SystemPrompt) == 0 {
		return nil, &ConfigError{Key: "system_prompt"}
	}
	if b.Welcome == "" {
		return nil, &ConfigError{Key: "welcome"}
	}
	if len(b.OnboardingQuestions) < 2 {
		return nil, &ConfigError{Key: "onboarding_questions"}
	}
	if b.HelpTemplate == "" {
		return nil, &ConfigError{Key: "help_template"}
	}
	if b.PostClearTemplate == "" {
		return nil, &ConfigError{Key: "post_clear_template"}
	}
	if b.PlacementTemplate == "" {
		return nil, &ConfigError{Key: "placement_template"}
	}
	return &b, nil
}

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z][a-zA-Z0-9_]*)\s*\}\}`)

// render substitutes {{key}} placeholders from vars. Unresolvable
// placeholders render as the empty string, never an error.
func render(tmpl string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := placeholderRe.FindStringSubmatch(m)[1]
		return vars[key]
	})
}
