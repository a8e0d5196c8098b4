package repository

import (
	"context"
	"coursestudio/internal/models"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type courseRepo struct{ db *pgxpool.Pool }

func NewCourseRepo(db *pgxpool.Pool) CourseRepo { return &courseRepo{db: db} }

const courseColumns = `id, instructor_id, title, COALESCE(subtitle,''), COALESCE(description,''),
	COALESCE(image_url,''), price::float8, category_id, sub_category_id, is_published, created_at, updated_at`

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(
		&c.ID, &c.InstructorID, &c.Title, &c.Subtitle, &c.Description,
		&c.ImageURL, &c.Price, &c.CategoryID, &c.SubCategoryID, &c.IsPublished, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *courseRepo) Create(ctx context.Context, c *models.Course) (*models.Course, error) {
	const q = `
		INSERT INTO courses (id, instructor_id, title, category_id, sub_category_id, is_published)
		VALUES ($1,$2,$3,$4,$5,false)
		RETURNING ` + courseColumns

	return scanCourse(r.db.QueryRow(ctx, q,
		uuid.NewString(), c.InstructorID, c.Title, c.CategoryID, c.SubCategoryID,
	))
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*models.Course, error) {
	return scanCourse(r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id=$1`, id))
}

func (r *courseRepo) ListByInstructor(ctx context.Context, instructorID string) ([]*models.Course, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE instructor_id=$1 ORDER BY created_at DESC`, instructorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *courseRepo) Update(ctx context.Context, c *models.Course) error {
	const q = `
		UPDATE courses
		SET title=$1, subtitle=NULLIF($2,''), description=NULLIF($3,''), image_url=NULLIF($4,''),
		    price=$5, category_id=$6, sub_category_id=$7, updated_at=NOW()
		WHERE id=$8
	`
	tag, err := r.db.Exec(ctx, q, c.Title, c.Subtitle, c.Description, c.ImageURL,
		c.Price, c.CategoryID, c.SubCategoryID, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *courseRepo) UpdatePublish(ctx context.Context, id string, publish bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE courses SET is_published=$2, updated_at=NOW() WHERE id=$1`, id, publish)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete: разделы, материалы и прогресс удаляются каскадом в БД.
func (r *courseRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
