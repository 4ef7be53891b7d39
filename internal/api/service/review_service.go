package service

import (
	"context"
	"errors"

	"ratehub/internal/api/authz"
	"ratehub/internal/api/dto"
	"ratehub/internal/api/models"
	"ratehub/internal/api/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolation is the postgres SQLSTATE for a unique constraint breach
const uniqueViolation = "23505"

type ReviewService interface {
	List(titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error)
	Get(titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(actor authz.Actor, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Update(actor authz.Actor, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(actor authz.Actor, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
	}
}

func (s *reviewService) List(titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	if err := s.resolveTitle(titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	reviewResponses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		reviewResponses = append(reviewResponses, *dto.FromModelToReviewResponse(&reviews[i]))
	}

	return dto.NewPaginatedReviewResponse(reviewResponses, int(total), page, pageSize), nil
}

func (s *reviewService) Get(titleID, reviewID int64) (*dto.ReviewResponse, error) {
	if err := s.resolveTitle(titleID); err != nil {
		return nil, err
	}

	review, err := s.resolveReview(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

// Create posts a review. The order is fixed: title existence, then
// permission, then uniqueness, then insert. A duplicate error must never
// surface before an existence or permission error would have.
func (s *reviewService) Create(actor authz.Actor, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if err := s.resolveTitle(titleID); err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionCreate, authz.ResourceReview, ""); err != nil {
		return nil, err
	}

	// pre-check gives the common case a clear error; the unique index decides
	// under concurrency
	exists, err := s.reviewRepo.ExistsByAuthorAndTitle(actor.ID, titleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		AuthorID: actor.ID,
		TitleID:  titleID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateReview
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	created, err := s.reviewRepo.GetByID(titleID, review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(created), nil
}

func (s *reviewService) Update(actor authz.Actor, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	if err := s.resolveTitle(titleID); err != nil {
		return nil, err
	}
	review, err := s.resolveReview(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionUpdate, authz.ResourceReview, review.AuthorID); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}

	updated, err := s.reviewRepo.GetByID(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(updated), nil
}

func (s *reviewService) Delete(actor authz.Actor, titleID, reviewID int64) error {
	if err := s.resolveTitle(titleID); err != nil {
		return err
	}
	review, err := s.resolveReview(titleID, reviewID)
	if err != nil {
		return err
	}
	if err := authorize(actor, authz.ActionDelete, authz.ResourceReview, review.AuthorID); err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) resolveTitle(titleID int64) error {
	ctx := context.Background()

	// existence only; the rating is not needed here
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) resolveReview(titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}
