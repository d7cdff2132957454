package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var sessionEventColumns = []string{
	"sequence", "timestamp", "session_id", "exam_id", "exam_title", "action",
	"question_id", "option_index", "position", "answered", "result_id", "detail",
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert("session_events").
		Columns(sessionEventColumns...).
		Values(
			seqNum, time.Now().UnixMilli(), data.SessionID, data.ExamID, data.ExamTitle, data.Action,
			data.QuestionID, data.Option, data.Position, data.Answered, data.ResultID, data.Detail,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEventRecord, error) {
	b := builder()
	sel := applyQueryOpts(b.Select(sessionEventColumns...).From(b.Table("session_events")), opts)
	return r.scanSessionEvents(ctx, sel)
}

func (r *eventRepo) scanSessionEvents(ctx context.Context, sel *entsql.Selector) ([]SessionEventRecord, error) {
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var records []SessionEventRecord
	for rows.Next() {
		var (
			rec SessionEventRecord
			ts  int64
		)
		err := rows.Scan(
			&rec.Sequence, &ts, &rec.SessionID, &rec.ExamID, &rec.ExamTitle, &rec.Action,
			&rec.QuestionID, &rec.Option, &rec.Position, &rec.Answered, &rec.ResultID, &rec.Detail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session events: %w", err)
	}
	return records, nil
}

func (r *eventRepo) Attempts(ctx context.Context, limit int) ([]AttemptSummary, error) {
	b := builder()
	sel := b.Select(sessionEventColumns...).
		From(b.Table("session_events")).
		OrderBy(entsql.Asc("sequence"))
	events, err := r.scanSessionEvents(ctx, sel)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*AttemptSummary)
	var order []string
	for _, e := range events {
		a, ok := byID[e.SessionID]
		if !ok {
			a = &AttemptSummary{
				SessionID: e.SessionID,
				ExamID:    e.ExamID,
				StartedAt: e.Timestamp,
			}
			byID[e.SessionID] = a
			order = append(order, e.SessionID)
		}
		if e.ExamTitle != "" {
			a.ExamTitle = e.ExamTitle
		}
		a.LastAction = e.Action
		a.LastAt = e.Timestamp
		if e.Answered > a.Answered {
			a.Answered = e.Answered
		}
		if e.ResultID != 0 {
			a.ResultID = e.ResultID
		}
	}

	// Newest attempt first.
	summaries := make([]AttemptSummary, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		summaries = append(summaries, *byID[order[i]])
		if limit > 0 && len(summaries) == limit {
			break
		}
	}
	return summaries, nil
}
