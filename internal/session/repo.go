package session

import "context"

// Repo loads and saves session snapshots keyed by a fixed namespace id.
// The controller never touches storage directly.
type Repo interface {
	// Load returns the stored session, or (nil, nil) when none exists.
	Load(ctx context.Context, id string) (*Session, error)

	// Save stores the full session snapshot under id.
	Save(ctx context.Context, id string, s *Session) error
}

// LoadOrNew loads the session under id, falling back to a fresh onboarding
// session on missing or corrupt data. It never returns an error to the
// caller: persistence problems cost history, not availability.
func LoadOrNew(ctx context.Context, repo Repo, id string, cfg Config) *Session {
	s, err := repo.Load(ctx, id)
	if err != nil || s == nil {
		return New(cfg)
	}
	if s.Config.NativeLanguage == "" || s.Config.TargetLanguage == "" {
		s.Config = cfg
	}
	return s
}
