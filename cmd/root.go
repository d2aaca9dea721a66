package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/akarsh/parla/internal/app"
	"github.com/akarsh/parla/internal/llm"
	"github.com/akarsh/parla/internal/prompt"
	"github.com/akarsh/parla/internal/reply"
	"github.com/akarsh/parla/internal/session"
	"github.com/akarsh/parla/internal/store"
	"github.com/akarsh/parla/internal/tutor"
)

var rootCmd = &cobra.Command{
	Use:   "parla",
	Short: "AI language tutor in your terminal",
	Long:  "Parla is a conversational terminal tutor that chats in your target language, proposes exercises, and grades your answers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, sess, closeFn, err := buildTutor(cmd)
		if err != nil {
			return err
		}
		defer closeFn()
		return app.Run(ctrl, sess)
	},
}

func Execute() error {
	// A local .env is optional; real environment variables win.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PARLA_DB env var)")
	rootCmd.PersistentFlags().String("native", "", "Your native language (overrides PARLA_NATIVE_LANGUAGE)")
	rootCmd.PersistentFlags().String("target", "", "Language you are learning (overrides PARLA_TARGET_LANGUAGE)")

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PARLA_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// languageConfig resolves the language pair from flags, then env, then
// defaults (English speakers learning Spanish).
func languageConfig(cmd *cobra.Command) session.Config {
	cfg := session.Config{
		NativeLanguage: os.Getenv("PARLA_NATIVE_LANGUAGE"),
		TargetLanguage: os.Getenv("PARLA_TARGET_LANGUAGE"),
	}
	if v, _ := cmd.Flags().GetString("native"); v != "" {
		cfg.NativeLanguage = v
	}
	if v, _ := cmd.Flags().GetString("target"); v != "" {
		cfg.TargetLanguage = v
	}
	if cfg.NativeLanguage == "" {
		cfg.NativeLanguage = "English"
	}
	if cfg.TargetLanguage == "" {
		cfg.TargetLanguage = "Spanish"
	}
	return cfg
}

// buildTutor wires the full stack: store, provider, prompts, controller,
// and the loaded (or fresh) session. The returned closer shuts the store.
func buildTutor(cmd *cobra.Command) (*tutor.Controller, *session.Session, func(), error) {
	ctx := context.Background()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}

	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		st.Close()
		return nil, nil, nil, fmt.Errorf("no LLM provider configured: %w", err)
	}

	bundle, err := prompt.LoadBundle()
	if err != nil {
		st.Close()
		return nil, nil, nil, err
	}
	schema, err := reply.LoadSchema()
	if err != nil {
		st.Close()
		return nil, nil, nil, err
	}

	repo := st.SessionRepo()
	sess := session.LoadOrNew(ctx, repo, session.DefaultID, languageConfig(cmd))
	ctrl := tutor.New(provider, repo, prompt.NewBuilder(bundle), schema, session.DefaultID, tutor.DefaultConfig())

	if err := ctrl.EnsureSeeded(ctx, sess); err != nil {
		st.Close()
		return nil, nil, nil, fmt.Errorf("seed conversation: %w", err)
	}

	return ctrl, sess, func() { st.Close() }, nil
}
