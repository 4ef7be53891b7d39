package service

import (
	"context"
	"errors"

	"ratehub/internal/api/authz"
	"ratehub/internal/api/dto"
	"ratehub/internal/api/models"
	"ratehub/internal/api/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	List(titleID, reviewID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error)
	Get(titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(actor authz.Actor, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	Update(actor authz.Actor, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	Delete(actor authz.Actor, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
	titleRepo   repository.TitleRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	reviewRepo repository.ReviewRepository,
	titleRepo repository.TitleRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
		titleRepo:   titleRepo,
	}
}

func (s *commentService) List(titleID, reviewID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error) {
	if _, err := s.resolveReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByReview(reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	commentResponses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		commentResponses = append(commentResponses, *dto.FromModelToCommentResponse(&comments[i]))
	}

	return dto.NewPaginatedCommentResponse(commentResponses, int(total), page, pageSize), nil
}

func (s *commentService) Get(titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	if _, err := s.resolveReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.resolveComment(reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Create(actor authz.Actor, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if _, err := s.resolveReview(titleID, reviewID); err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionCreate, authz.ResourceComment, ""); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		AuthorID: actor.ID,
		ReviewID: reviewID,
		Text:     req.Text,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.GetByID(reviewID, comment.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(created), nil
}

func (s *commentService) Update(actor authz.Actor, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	if _, err := s.resolveReview(titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.resolveComment(reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionUpdate, authz.ResourceComment, comment.AuthorID); err != nil {
		return nil, err
	}

	comment.Text = req.Text
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}

	updated, err := s.commentRepo.GetByID(reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(updated), nil
}

func (s *commentService) Delete(actor authz.Actor, titleID, reviewID, commentID int64) error {
	if _, err := s.resolveReview(titleID, reviewID); err != nil {
		return err
	}
	comment, err := s.resolveComment(reviewID, commentID)
	if err != nil {
		return err
	}
	if err := authorize(actor, authz.ActionDelete, authz.ResourceComment, comment.AuthorID); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}

// resolveReview walks the full ancestor chain: the title must exist and the
// review must hang off that exact title. A review under a different title is
// a not-found for this path, never a different comment set.
func (s *commentService) resolveReview(titleID, reviewID int64) (*models.Review, error) {
	ctx := context.Background()

	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *commentService) resolveComment(reviewID, commentID int64) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(reviewID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}
