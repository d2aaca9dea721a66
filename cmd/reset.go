package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akarsh/parla/internal/session"
	"github.com/akarsh/parla/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Println("This deletes your conversation history and exercise progress.")
			fmt.Println("Re-run with --yes to confirm.")
			return nil
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		if err := st.DeleteSession(context.Background(), session.DefaultID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		fmt.Println("Conversation deleted. The next run starts fresh.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}
