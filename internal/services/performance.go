package services

import (
	"context"
	"coursestudio/internal/logger"
	"coursestudio/internal/models"
	"coursestudio/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type PerformanceService interface {
	Report(ctx context.Context, instructorID string) (*models.PerformanceReport, error)
}

type performanceService struct {
	courses   repository.CourseRepo
	purchases repository.PurchaseRepo
}

func NewPerformanceService(courses repository.CourseRepo, purchases repository.PurchaseRepo) PerformanceService {
	return &performanceService{courses: courses, purchases: purchases}
}

// Report строит данные графика выручки: по точке на каждый курс преподавателя, включая курсы без продаж.
func (s *performanceService) Report(ctx context.Context, instructorID string) (*models.PerformanceReport, error) {
	var (
		courses []*models.Course
		sales   []models.CourseSales
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courses, err = s.courses.ListByInstructor(gctx, instructorID)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = s.purchases.SalesByInstructor(gctx, instructorID)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.WithCtx(ctx).Error("Ошибка построения отчёта о продажах", zap.Error(err))
		return nil, err
	}

	byCourse := make(map[string]models.CourseSales, len(sales))
	for _, cs := range sales {
		byCourse[cs.CourseID] = cs
	}

	report := &models.PerformanceReport{Data: make([]models.ChartPoint, 0, len(courses))}
	for _, c := range courses {
		cs := byCourse[c.ID]
		report.Data = append(report.Data, models.ChartPoint{Name: c.Title, Total: cs.Total})
		report.TotalRevenue += cs.Total
		report.TotalSales += cs.Sales
	}
	return report, nil
}
