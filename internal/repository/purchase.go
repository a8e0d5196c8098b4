package repository

import (
	"context"
	"coursestudio/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type purchaseRepo struct{ db *pgxpool.Pool }

func NewPurchaseRepo(db *pgxpool.Pool) PurchaseRepo { return &purchaseRepo{db: db} }

func (r *purchaseRepo) SalesByInstructor(ctx context.Context, instructorID string) ([]models.CourseSales, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.course_id, COALESCE(SUM(p.price),0)::float8, COUNT(*)
		FROM purchases p
		JOIN courses c ON c.id = p.course_id
		WHERE c.instructor_id=$1
		GROUP BY p.course_id`, instructorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CourseSales
	for rows.Next() {
		var s models.CourseSales
		if err := rows.Scan(&s.CourseID, &s.Total, &s.Sales); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
