package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type progressRepo struct{ db *pgxpool.Pool }

func NewProgressRepo(db *pgxpool.Pool) ProgressRepo { return &progressRepo{db: db} }

func (r *progressRepo) IsCompleted(ctx context.Context, studentID, sectionID string) (bool, error) {
	var done bool
	err := r.db.QueryRow(ctx,
		`SELECT is_completed FROM progress WHERE student_id=$1 AND section_id=$2`, studentID, sectionID,
	).Scan(&done)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return done, err
}

func (r *progressRepo) Upsert(ctx context.Context, studentID, sectionID string, completed bool) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO progress (student_id, section_id, is_completed)
		VALUES ($1,$2,$3)
		ON CONFLICT (student_id, section_id) DO UPDATE
		SET is_completed=EXCLUDED.is_completed, updated_at=NOW()`,
		studentID, sectionID, completed,
	)
	return err
}
