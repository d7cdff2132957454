package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/examdesk/examdesk/internal/exam"
)

var resultCmd = &cobra.Command{
	Use:   "result <id>",
	Short: "Print a result, from the server or the local cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid result ID %q", args[0])
		}
		offline, _ := cmd.Flags().GetBool("offline")

		d, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		res, err := d.fetchResult(ctx, id, offline)
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

// fetchResult asks the server first and caches the answer; when the server
// cannot be reached it falls back to the cache.
func (d *deps) fetchResult(ctx context.Context, id int64, offline bool) (*exam.Result, error) {
	cache := d.store.ResultRepo()
	if !offline {
		if _, err := d.requireLogin(ctx); err == nil {
			res, err := d.client.FetchResult(ctx, id)
			if err == nil {
				if err := cache.SaveResult(ctx, *res); err != nil {
					d.log.Warn().Err(err).Int64("result_id", id).Msg("cache result failed")
				}
				return res, nil
			}
			d.log.Warn().Err(err).Int64("result_id", id).Msg("fetch result; using local cache")
		}
	}

	res, err := cache.Result(ctx, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("result %d not found", id)
	}
	return res, nil
}

func printResult(w io.Writer, r *exam.Result) {
	fmt.Fprintf(w, "Result:     %d\n", r.ID)
	fmt.Fprintf(w, "Exam:       %s (#%d)\n", r.ExamTitle, r.ExamID)
	if r.StudentName != "" {
		fmt.Fprintf(w, "Student:    %s\n", r.StudentName)
	}
	fmt.Fprintf(w, "Score:      %d / %d\n", r.Score, r.TotalMarks)
	fmt.Fprintf(w, "Percentage: %.1f%%\n", r.Percentage)
	fmt.Fprintf(w, "Grade:      %s\n", r.Grade())
	if !r.SubmittedAt.IsZero() {
		fmt.Fprintf(w, "Submitted:  %s\n", r.SubmittedAt.Local().Format("2006-01-02 15:04"))
	}
	if !r.HasBreakdown() {
		return
	}

	t := r.Tally()
	fmt.Fprintf(w, "\n%d correct, %d incorrect, %d unanswered\n\n", t.Correct, t.Incorrect, t.Unanswered)
	for i, a := range r.Answers {
		verdict, picked := "correct", "-"
		switch {
		case a.SelectedOption == nil:
			verdict = "unanswered"
		case !a.Correct:
			verdict = "incorrect"
		}
		if a.SelectedOption != nil {
			picked = exam.OptionLabel(*a.SelectedOption)
		}
		fmt.Fprintf(w, "%3d. question %-6d  %-2s  %s\n", i+1, a.QuestionID, picked, verdict)
	}
}

func init() {
	resultCmd.Flags().Bool("offline", false, "Only read the local cache")
}
