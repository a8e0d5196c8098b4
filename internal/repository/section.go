package repository

import (
	"context"
	"coursestudio/internal/models"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type sectionRepo struct{ db *pgxpool.Pool }

func NewSectionRepo(db *pgxpool.Pool) SectionRepo { return &sectionRepo{db: db} }

const sectionColumns = `id, course_id, title, COALESCE(description,''), COALESCE(video_url,''),
	is_free, is_published, position, created_at, updated_at`

func scanSection(row pgx.Row) (*models.Section, error) {
	var s models.Section
	err := row.Scan(
		&s.ID, &s.CourseID, &s.Title, &s.Description, &s.VideoURL,
		&s.IsFree, &s.IsPublished, &s.Position, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// lockCourse берёт строку курса FOR UPDATE. Create, Delete и Reorder меняют позиции
// только под этой блокировкой, иначе позиции перестают быть 0..N-1.
// Порядок блокировок: сначала курс, потом его разделы.
func lockCourse(ctx context.Context, tx pgx.Tx, courseID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM courses WHERE id=$1 FOR UPDATE`, courseID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *sectionRepo) Create(ctx context.Context, s *models.Section) (*models.Section, error) {
	var out *models.Section
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockCourse(ctx, tx, s.CourseID); err != nil {
			return err
		}

		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM sections WHERE course_id=$1`, s.CourseID).Scan(&count); err != nil {
			return err
		}

		created, err := scanSection(tx.QueryRow(ctx, `
			INSERT INTO sections (id, course_id, title, position, is_free, is_published)
			VALUES ($1,$2,$3,$4,false,false)
			RETURNING `+sectionColumns,
			uuid.NewString(), s.CourseID, s.Title, count,
		))
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	return out, err
}

func (r *sectionRepo) GetByID(ctx context.Context, courseID, id string) (*models.Section, error) {
	return scanSection(r.db.QueryRow(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE id=$1 AND course_id=$2`, id, courseID))
}

func (r *sectionRepo) ListByCourse(ctx context.Context, courseID string) ([]*models.Section, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE course_id=$1 ORDER BY position, id`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *sectionRepo) Update(ctx context.Context, s *models.Section) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE sections
		SET title=$1, description=NULLIF($2,''), video_url=NULLIF($3,''), is_free=$4, updated_at=NOW()
		WHERE id=$5 AND course_id=$6`,
		s.Title, s.Description, s.VideoURL, s.IsFree, s.ID, s.CourseID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sectionRepo) UpdatePublish(ctx context.Context, courseID, id string, publish bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE sections SET is_published=$3, updated_at=NOW() WHERE id=$1 AND course_id=$2`,
		id, courseID, publish)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sectionRepo) CountPublished(ctx context.Context, courseID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM sections WHERE course_id=$1 AND is_published=true`, courseID).Scan(&n)
	return n, err
}

func (r *sectionRepo) Delete(ctx context.Context, courseID, id string) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockCourse(ctx, tx, courseID); err != nil {
			return err
		}
		var pos int
		err := tx.QueryRow(ctx,
			`DELETE FROM sections WHERE id=$1 AND course_id=$2 RETURNING position`, id, courseID).Scan(&pos)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE sections SET position = position - 1 WHERE course_id=$1 AND position > $2`, courseID, pos)
		return err
	})
}

func (r *sectionRepo) Reorder(ctx context.Context, courseID string, list []models.PositionUpdate) error {
	ids := make([]string, len(list))
	positions := make([]int32, len(list))
	for i, u := range list {
		ids[i] = u.ID
		positions[i] = int32(u.Position)
	}

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockCourse(ctx, tx, courseID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
			UPDATE sections AS s
			SET position = v.position, updated_at = NOW()
			FROM unnest($2::text[], $3::int4[]) AS v(id, position)
			WHERE s.id = v.id AND s.course_id = $1`,
			courseID, ids, positions,
		)
		if err != nil {
			return err
		}
		if int(tag.RowsAffected()) != len(list) {
			return fmt.Errorf("reorder: обновлено %d из %d разделов: %w", tag.RowsAffected(), len(list), ErrNotFound)
		}
		return nil
	})
}
