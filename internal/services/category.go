package services

import (
	"context"
	"coursestudio/internal/models"
	"coursestudio/internal/repository"
)

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
}

type categoryService struct {
	repo repository.CategoryRepo
}

func NewCategoryService(repo repository.CategoryRepo) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Category{}
	}
	return list, nil
}
