package repository

import (
	"context"
	"coursestudio/internal/models"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
)

type categoryRepo struct{ db *pgxpool.Pool }

func NewCategoryRepo(db *pgxpool.Pool) CategoryRepo { return &categoryRepo{db: db} }

// List возвращает категории вместе с подкатегориями одним запросом.
func (r *categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	const q = `
SELECT c.id, c.name, s.id, s.name
FROM categories c
LEFT JOIN sub_categories s ON s.category_id = c.id
ORDER BY c.name, c.id, s.name, s.id;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Category
	var cur *models.Category

	for rows.Next() {
		var (
			catID   string
			catName string
			subID   sql.NullString // LEFT JOIN: у категории может не быть подкатегорий
			subName sql.NullString
		)
		if err := rows.Scan(&catID, &catName, &subID, &subName); err != nil {
			return nil, err
		}

		if cur == nil || cur.ID != catID {
			out = append(out, models.Category{ID: catID, Name: catName, SubCategories: []models.SubCategory{}})
			cur = &out[len(out)-1]
		}
		if subID.Valid {
			cur.SubCategories = append(cur.SubCategories, models.SubCategory{
				ID:         subID.String,
				Name:       subName.String,
				CategoryID: catID,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *categoryRepo) SubCategoryBelongs(ctx context.Context, categoryID, subCategoryID string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sub_categories WHERE id=$1 AND category_id=$2)`,
		subCategoryID, categoryID,
	).Scan(&ok)
	return ok, err
}
