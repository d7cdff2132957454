package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/examdesk/examdesk/internal/exam"
)

type resultRepo struct {
	db *sql.DB
}

func (r *resultRepo) SaveResult(ctx context.Context, res exam.Result) error {
	if res.ID == 0 {
		return fmt.Errorf("save result: missing result ID")
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	var submitted int64
	if !res.SubmittedAt.IsZero() {
		submitted = res.SubmittedAt.UnixMilli()
	}

	query, args := builder().Insert("results").
		Columns("result_id", "exam_id", "exam_title", "percentage", "submitted_at", "fetched_at", "payload").
		Values(res.ID, res.ExamID, res.ExamTitle, res.Percentage, submitted, time.Now().UnixMilli(), string(payload)).
		OnConflict(
			entsql.ConflictColumns("result_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (r *resultRepo) Result(ctx context.Context, resultID int64) (*exam.Result, error) {
	b := builder()
	sel := b.Select("payload").From(b.Table("results")).
		Where(entsql.EQ("result_id", resultID)).
		Limit(1)
	results, err := r.scan(ctx, sel)
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return &results[0], nil
}

func (r *resultRepo) LatestForExam(ctx context.Context, examID int64) (*exam.Result, error) {
	b := builder()
	sel := b.Select("payload").From(b.Table("results")).
		Where(entsql.EQ("exam_id", examID)).
		OrderBy(entsql.Desc("submitted_at"), entsql.Desc("result_id")).
		Limit(1)
	results, err := r.scan(ctx, sel)
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return &results[0], nil
}

func (r *resultRepo) Results(ctx context.Context, limit int) ([]exam.Result, error) {
	b := builder()
	sel := b.Select("payload").From(b.Table("results")).
		OrderBy(entsql.Desc("submitted_at"), entsql.Desc("result_id"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	return r.scan(ctx, sel)
}

func (r *resultRepo) scan(ctx context.Context, sel *entsql.Selector) ([]exam.Result, error) {
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []exam.Result
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var res exam.Result
		if err := json.Unmarshal([]byte(payload), &res); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}
