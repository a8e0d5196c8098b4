package repository

import (
	"context"
	"coursestudio/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type resourceRepo struct{ db *pgxpool.Pool }

func NewResourceRepo(db *pgxpool.Pool) ResourceRepo { return &resourceRepo{db: db} }

func (r *resourceRepo) Create(ctx context.Context, res *models.Resource) (*models.Resource, error) {
	var out models.Resource
	err := r.db.QueryRow(ctx, `
		INSERT INTO resources (id, section_id, name, file_url)
		VALUES ($1,$2,$3,$4)
		RETURNING id, section_id, name, file_url, created_at`,
		uuid.NewString(), res.SectionID, res.Name, res.FileURL,
	).Scan(&out.ID, &out.SectionID, &out.Name, &out.FileURL, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *resourceRepo) ListBySection(ctx context.Context, sectionID string) ([]models.Resource, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, section_id, name, file_url, created_at
		FROM resources WHERE section_id=$1 ORDER BY created_at DESC`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Resource
	for rows.Next() {
		var res models.Resource
		if err := rows.Scan(&res.ID, &res.SectionID, &res.Name, &res.FileURL, &res.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

func (r *resourceRepo) Delete(ctx context.Context, sectionID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM resources WHERE id=$1 AND section_id=$2`, id, sectionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
