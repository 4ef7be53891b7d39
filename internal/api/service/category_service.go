package service

import (
	"errors"
	"regexp"

	"ratehub/internal/api/authz"
	"ratehub/internal/api/dto"
	"ratehub/internal/api/models"
	"ratehub/internal/api/repository"

	"gorm.io/gorm"
)

// slugPattern restricts category and genre slugs
var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CategoryService interface {
	List(page, pageSize int, search string) (*dto.PaginatedCategoryResponse, error)
	Create(actor authz.Actor, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(actor authz.Actor, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(page, pageSize int, search string) (*dto.PaginatedCategoryResponse, error) {
	categories, total, err := s.categoryRepo.List(page, pageSize, search)
	if err != nil {
		return nil, err
	}

	categoryResponses := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		categoryResponses = append(categoryResponses, *dto.FromModelToCategoryResponse(&categories[i]))
	}

	return dto.NewPaginatedCategoryResponse(categoryResponses, int(total), page, pageSize), nil
}

func (s *categoryService) Create(actor authz.Actor, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := authorize(actor, authz.ActionCreate, authz.ResourceCategory, ""); err != nil {
		return nil, err
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, ErrInvalidSlug
	}

	if _, err := s.categoryRepo.FindBySlug(req.Slug); err == nil {
		return nil, ErrSlugInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	return dto.FromModelToCategoryResponse(category), nil
}

// Delete removes a category; titles that referenced it lose the reference
// but are never deleted.
func (s *categoryService) Delete(actor authz.Actor, slug string) error {
	if _, err := s.categoryRepo.FindBySlug(slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	if err := authorize(actor, authz.ActionDelete, authz.ResourceCategory, ""); err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
