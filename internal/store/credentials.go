package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type credentialRepo struct {
	db *sql.DB
}

func (r *credentialRepo) SaveCredentials(ctx context.Context, rec CredentialRecord) error {
	var expires int64
	if !rec.ExpiresAt.IsZero() {
		expires = rec.ExpiresAt.UnixMilli()
	}
	saved := rec.SavedAt
	if saved.IsZero() {
		saved = time.Now()
	}

	query, args := builder().Insert("credentials").
		Columns("id", "token", "user_id", "full_name", "email", "role", "expires_at", "saved_at").
		Values(1, rec.Token, rec.UserID, rec.FullName, rec.Email, rec.Role, expires, saved.UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (r *credentialRepo) LoadCredentials(ctx context.Context) (*CredentialRecord, error) {
	b := builder()
	query, args := b.Select("token", "user_id", "full_name", "email", "role", "expires_at", "saved_at").
		From(b.Table("credentials")).
		Where(entsql.EQ("id", 1)).
		Query()

	var (
		rec            CredentialRecord
		expires, saved int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&rec.Token, &rec.UserID, &rec.FullName, &rec.Email, &rec.Role, &expires, &saved)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	if expires > 0 {
		rec.ExpiresAt = time.UnixMilli(expires)
	}
	rec.SavedAt = time.UnixMilli(saved)
	return &rec, nil
}

func (r *credentialRepo) ClearCredentials(ctx context.Context) error {
	query, args := builder().Delete("credentials").Where(entsql.EQ("id", 1)).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
