package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/examdesk/examdesk/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List exam attempts made on this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		sessionID, _ := cmd.Flags().GetString("session")

		d, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		events := d.store.EventRepo()

		if sessionID != "" {
			recs, err := events.QuerySessionEvents(ctx, store.QueryOpts{})
			if err != nil {
				return fmt.Errorf("query journal: %w", err)
			}
			found := false
			// Newest first from the store; print oldest first.
			for i := len(recs) - 1; i >= 0; i-- {
				r := recs[i]
				if r.SessionID != sessionID {
					continue
				}
				found = true
				detail := r.Detail
				if r.QuestionID != 0 {
					detail = strings.TrimSpace(fmt.Sprintf("question %d option %d %s", r.QuestionID, r.Option, detail))
				}
				fmt.Fprintf(out, "%-6d  %s  %-14s  %s\n",
					r.Sequence, r.Timestamp.Local().Format("15:04:05"), r.Action, detail)
			}
			if !found {
				return fmt.Errorf("no journal entries for session %s", sessionID)
			}
			return nil
		}

		attempts, err := events.Attempts(ctx, limit)
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		if len(attempts) == 0 {
			fmt.Fprintln(out, "No attempts recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-16s  %-28s  %8s  %-14s  %s\n",
			"Session", "Started", "Exam", "Answered", "Last", "Result")
		fmt.Fprintln(out, strings.Repeat("─", 120))
		for _, a := range attempts {
			resultID := "-"
			if a.ResultID != 0 {
				resultID = fmt.Sprintf("%d", a.ResultID)
			}
			fmt.Fprintf(out, "%-36s  %-16s  %-28s  %8d  %-14s  %s\n",
				a.SessionID, a.StartedAt.Local().Format("2006-01-02 15:04"),
				clip(a.ExamTitle, 28), a.Answered, a.LastAction, resultID)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of attempts to show")
	historyCmd.Flags().String("session", "", "Show the full journal of one session")
}
