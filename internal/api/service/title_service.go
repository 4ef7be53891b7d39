package service

import (
	"context"
	"errors"
	"time"

	"ratehub/internal/api/authz"
	"ratehub/internal/api/dto"
	"ratehub/internal/api/models"
	"ratehub/internal/api/repository"

	"gorm.io/gorm"
)

type TitleService interface {
	List(ctx context.Context, filters repository.TitleFilters, page, pageSize int) (*dto.PaginatedTitleResponse, error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, actor authz.Actor, req dto.CreateTitleRequest) (*dto.TitleResponse, error)
	Update(ctx context.Context, actor authz.Actor, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	reviewRepo   repository.ReviewRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	reviewRepo repository.ReviewRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		reviewRepo:   reviewRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
	}
}

// List returns a page of titles with their ratings recomputed from the
// current reviews. The rating never comes from a cache.
func (s *titleService) List(ctx context.Context, filters repository.TitleFilters, page, pageSize int) (*dto.PaginatedTitleResponse, error) {
	titles, total, err := s.titleRepo.List(ctx, filters, page, pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(titles))
	for i := range titles {
		ids = append(ids, titles[i].ID)
	}
	averages, err := s.reviewRepo.AverageScores(ids)
	if err != nil {
		return nil, err
	}

	titleResponses := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		titles[i].Rating = averages[titles[i].ID] // zero value when unreviewed
		titleResponses = append(titleResponses, *dto.FromModelToTitleResponse(&titles[i]))
	}

	return dto.NewPaginatedTitleResponse(titleResponses, int(total), page, pageSize), nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.getTitle(ctx, id)
	if err != nil {
		return nil, err
	}

	rating, err := s.reviewRepo.AverageScore(id)
	if err != nil {
		return nil, err
	}
	title.Rating = rating

	return dto.FromModelToTitleResponse(title), nil
}

func (s *titleService) Create(ctx context.Context, actor authz.Actor, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	if err := authorize(actor, authz.ActionCreate, authz.ResourceTitle, ""); err != nil {
		return nil, err
	}
	if err := validateYear(req.Year); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(req.Category)
	if err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(req.Genre)
	if err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  &category.ID,
	}
	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}

	genreIDs := make([]int64, 0, len(genres))
	for _, genre := range genres {
		genreIDs = append(genreIDs, genre.ID)
	}
	if err := s.titleRepo.ReplaceGenres(ctx, title.ID, genreIDs); err != nil {
		return nil, err
	}

	return s.Get(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, actor authz.Actor, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	title, err := s.getTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionUpdate, authz.ResourceTitle, ""); err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		if err := validateYear(*req.Year); err != nil {
			return nil, err
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		category, err := s.resolveCategory(*req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}

	if req.Genre != nil {
		genres, err := s.resolveGenres(*req.Genre)
		if err != nil {
			return nil, err
		}
		genreIDs := make([]int64, 0, len(genres))
		for _, genre := range genres {
			genreIDs = append(genreIDs, genre.ID)
		}
		if err := s.titleRepo.ReplaceGenres(ctx, id, genreIDs); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if _, err := s.getTitle(ctx, id); err != nil {
		return err
	}
	if err := authorize(actor, authz.ActionDelete, authz.ResourceTitle, ""); err != nil {
		return err
	}

	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *titleService) getTitle(ctx context.Context, id int64) (*models.Title, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	return title, nil
}

func (s *titleService) resolveCategory(slug string) (*models.Category, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownCategorySlug
		}
		return nil, err
	}
	return category, nil
}

func (s *titleService) resolveGenres(slugs []string) ([]models.Genre, error) {
	genres, err := s.genreRepo.FindBySlugs(slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		return nil, ErrUnknownGenreSlug
	}
	return genres, nil
}

func validateYear(year int) error {
	if year > time.Now().Year() {
		return ErrInvalidYear
	}
	return nil
}
