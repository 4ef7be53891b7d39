package service

import (
	"errors"

	"ratehub/internal/api/authz"
	"ratehub/internal/api/dto"
	"ratehub/internal/api/models"
	"ratehub/internal/api/repository"

	"gorm.io/gorm"
)

type GenreService interface {
	List(page, pageSize int, search string) (*dto.PaginatedGenreResponse, error)
	Create(actor authz.Actor, req dto.CreateGenreRequest) (*dto.GenreResponse, error)
	Delete(actor authz.Actor, slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) List(page, pageSize int, search string) (*dto.PaginatedGenreResponse, error) {
	genres, total, err := s.genreRepo.List(page, pageSize, search)
	if err != nil {
		return nil, err
	}

	genreResponses := make([]dto.GenreResponse, 0, len(genres))
	for i := range genres {
		genreResponses = append(genreResponses, *dto.FromModelToGenreResponse(&genres[i]))
	}

	return dto.NewPaginatedGenreResponse(genreResponses, int(total), page, pageSize), nil
}

func (s *genreService) Create(actor authz.Actor, req dto.CreateGenreRequest) (*dto.GenreResponse, error) {
	if err := authorize(actor, authz.ActionCreate, authz.ResourceGenre, ""); err != nil {
		return nil, err
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, ErrInvalidSlug
	}

	if _, err := s.genreRepo.FindBySlug(req.Slug); err == nil {
		return nil, ErrSlugInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	genre := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.genreRepo.Create(genre); err != nil {
		return nil, err
	}

	return dto.FromModelToGenreResponse(genre), nil
}

// Delete removes a genre and detaches it from titles; the titles stay.
func (s *genreService) Delete(actor authz.Actor, slug string) error {
	if _, err := s.genreRepo.FindBySlug(slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	if err := authorize(actor, authz.ActionDelete, authz.ResourceGenre, ""); err != nil {
		return err
	}

	if err := s.genreRepo.Delete(slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}
