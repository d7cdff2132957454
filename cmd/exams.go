package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/examdesk/examdesk/internal/api"
	"github.com/examdesk/examdesk/internal/auth"
	"github.com/examdesk/examdesk/internal/exam"
)

var examsCmd = &cobra.Command{
	Use:   "exams",
	Short: "List your exams with their availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		creds, err := d.requireLogin(ctx)
		if err != nil {
			return err
		}

		var dash *api.Dashboard
		switch creds.User.Role {
		case auth.RoleTeacher:
			dash, err = d.client.TeacherDashboard(ctx)
		case auth.RoleAdmin:
			return fmt.Errorf("admins have no exam list; use the interactive client")
		default:
			dash, err = d.client.StudentDashboard(ctx)
		}
		if err != nil {
			return fmt.Errorf("load exams: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(dash.Exams) == 0 {
			fmt.Fprintln(out, "No exams.")
			return nil
		}

		now := time.Now()
		fmt.Fprintf(out, "%-6s  %-32s  %-14s  %5s  %-10s  %s\n",
			"ID", "Title", "Subject", "Mins", "Status", "Window")
		fmt.Fprintln(out, strings.Repeat("─", 96))
		for _, e := range dash.Exams {
			a := exam.AvailabilityAt(now, e)
			fmt.Fprintf(out, "%-6d  %-32s  %-14s  %5d  %-10s  %s\n",
				e.ID, clip(e.Title, 32), clip(e.Subject, 14), e.Duration, a, window(now, e, a))
		}
		return nil
	},
}

// window describes when an exam opens or closes relative to now.
func window(now time.Time, e exam.Exam, a exam.Availability) string {
	switch a {
	case exam.Locked:
		return "starts in " + exam.Countdown(now, e.ScheduledAt.Time)
	case exam.Available:
		return "closes in " + exam.Countdown(now, e.EndsAt())
	}
	if e.ScheduledAt.IsZero() {
		return ""
	}
	return e.ScheduledAt.Local().Format("2006-01-02 15:04")
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
