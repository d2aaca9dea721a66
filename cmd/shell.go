package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akarsh/parla/internal/session"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Chat in a plain line-based loop (no TUI)",
	Long:  "Runs the tutor as a simple read-print loop. Exercises and polls render as text; use the full-screen app for the richer flow.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, sess, closeFn, err := buildTutor(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		ctx := context.Background()
		printHistory(sess)

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			before := len(sess.Messages)
			switch line {
			case "/exit", "/quit":
				return nil

			case "/new":
				if err := ctrl.NewConversation(ctx, sess); err != nil {
					fmt.Fprintln(os.Stderr, "error:", err)
					continue
				}
				before = 0

			case "/answer", "/help":
				fmt.Println("(this command moved to the full-screen app: run `parla` and use ctrl+e / ctrl+h)")
				continue

			default:
				if err := ctrl.HandleUserText(ctx, sess, line); err != nil {
					fmt.Fprintln(os.Stderr, "error:", err)
				}
			}

			printNewMessages(sess, before)
		}
		return scanner.Err()
	},
}

func printHistory(sess *session.Session) {
	printNewMessages(sess, 0)
}

// printNewMessages prints messages appended since index from, skipping the
// user's own lines (they are already on screen).
func printNewMessages(sess *session.Session, from int) {
	for i := from; i < len(sess.Messages); i++ {
		m := &sess.Messages[i]
		if m.Role == session.RoleUser && from > 0 {
			continue
		}

		label := "tutor"
		if m.Role == session.RoleUser {
			label = "you"
		}
		fmt.Printf("%s: %s\n", label, m.Content)

		if m.Poll != nil && m.Poll.Enabled == 1 {
			fmt.Printf("  poll: %s (%s)\n", m.Poll.Question, strings.Join(m.Poll.Options, " / "))
		}
		if m.Proposal != nil && m.Proposal.Enabled == 1 {
			fmt.Printf("  [exercise offered: %s. run `parla` to practice it]\n", m.Proposal.ProblemType)
		}
	}
}
