package comment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dkovalyov/revory/internal/platform/apperr"
	"github.com/dkovalyov/revory/internal/platform/dberr"
	"github.com/dkovalyov/revory/internal/platform/policy"
	"github.com/dkovalyov/revory/internal/platform/validate"
	"github.com/dkovalyov/revory/pkg/pagination"
)

type Service struct {
	repo    Repository
	reviews ReviewDirectory
	logger  *slog.Logger
}

func NewService(repo Repository, reviews ReviewDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		reviews: reviews,
		logger:  logger,
	}
}

// CreateInput carries the fields accepted when posting a comment.
type CreateInput struct {
	Text string `json:"text"`
}

// UpdateInput carries a partial comment edit.
type UpdateInput struct {
	Text *string `json:"text"`
}

func (service *Service) ListByReview(context context.Context, titleID, reviewID int64, params pagination.Params) ([]*Comment, pagination.Meta, error) {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, pagination.Meta{}, err
	}

	comments, total, err := service.repo.ListByReview(context, reviewID, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return comments, pagination.NewMeta(params.Page, params.Limit, total), nil
}

func (service *Service) Get(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	c, err := service.repo.GetByID(context, reviewID, commentID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, err
	}
	return c, nil
}

func (service *Service) Create(context context.Context, requester policy.Requester, authorUsername string, titleID, reviewID int64, input CreateInput) (*Comment, error) {
	if err := policy.Check(requester, policy.ActionCreate, policy.ResourceComment, ""); err != nil {
		return nil, err
	}

	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if err := validator.Required("text", input.Text).Err(); err != nil {
		return nil, err
	}

	c := &Comment{
		ReviewID:   reviewID,
		AuthorID:   requester.UserID,
		AuthorName: authorUsername,
		Text:       input.Text,
	}

	if err := service.repo.Create(context, c); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_created",
		slog.Int64("comment_id", c.ID),
		slog.Int64("review_id", reviewID),
		slog.String("author_id", c.AuthorID),
	)
	return c, nil
}

func (service *Service) Update(context context.Context, requester policy.Requester, titleID, reviewID, commentID int64, input UpdateInput) (*Comment, error) {
	current, err := service.Get(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := policy.Check(requester, policy.ActionUpdate, policy.ResourceComment, current.AuthorID); err != nil {
		return nil, err
	}

	if input.Text != nil {
		current.Text = *input.Text
	}

	validator := &validate.Validator{}
	if err := validator.Required("text", current.Text).Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, current); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_updated", slog.Int64("comment_id", commentID))
	return current, nil
}

func (service *Service) Delete(context context.Context, requester policy.Requester, titleID, reviewID, commentID int64) error {
	current, err := service.Get(context, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := policy.Check(requester, policy.ActionDelete, policy.ResourceComment, current.AuthorID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, commentID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "comment_deleted", slog.Int64("comment_id", commentID))
	return nil
}

// requireReview verifies the review exists under the addressed title.
// A review reached through the wrong title is treated as absent.
func (service *Service) requireReview(context context.Context, titleID, reviewID int64) error {
	_, err := service.reviews.GetByID(context, titleID, reviewID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("Review")
		}
		return err
	}
	return nil
}
