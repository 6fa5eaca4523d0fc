package review

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

const (
	minScore = 1
	maxScore = 10
)

type Service struct {
	repo   Repository
	titles TitleDirectory
	logger *slog.Logger
}

func NewService(repo Repository, titles TitleDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		titles: titles,
		logger: logger,
	}
}

// CreateInput carries the fields accepted when publishing a review.
type CreateInput struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// UpdateInput carries a partial review edit. Nil fields are left unchanged.
type UpdateInput struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

func (service *Service) ListByTitle(context context.Context, titleID int64, params pagination.Params) ([]*Review, pagination.Meta, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, pagination.Meta{}, err
	}

	reviews, total, err := service.repo.ListByTitle(context, titleID, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return reviews, pagination.NewMeta(params.Page, params.Limit, total), nil
}

func (service *Service) Get(context context.Context, titleID, reviewID int64) (*Review, error) {
	r, err := service.repo.GetByID(context, titleID, reviewID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Review")
		}
		return nil, err
	}
	return r, nil
}

func (service *Service) Create(context context.Context, requester policy.Requester, authorUsername string, titleID int64, input CreateInput) (*Review, error) {
	if err := policy.Check(requester, policy.ActionCreate, policy.ResourceReview, ""); err != nil {
		return nil, err
	}

	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if err := validator.
		Required("text", input.Text).
		Range("score", input.Score, minScore, maxScore).
		Err(); err != nil {
		return nil, err
	}

	// Advisory duplicate check for a friendly error message. Two concurrent
	// submissions can both pass it; the unique constraint on
	// (titleid, authorid) is the authoritative guard and surfaces through
	// the same error below.
	alreadyReviewed, err := service.repo.ExistsByAuthor(context, titleID, requester.UserID)
	if err != nil {
		return nil, err
	}
	if alreadyReviewed {
		return nil, errAlreadyReviewed()
	}

	r := &Review{
		TitleID:    titleID,
		AuthorID:   requester.UserID,
		AuthorName: authorUsername,
		Text:       input.Text,
		Score:      input.Score,
	}

	if err := service.repo.Create(context, r); err != nil {
		// The store maps the unique-constraint violation to a Conflict.
		if appError := apperr.As(err); appError != nil && appError.HTTPStatus == 409 {
			return nil, errAlreadyReviewed()
		}
		return nil, err
	}

	service.logger.InfoContext(context, "review_created",
		slog.Int64("review_id", r.ID),
		slog.Int64("title_id", titleID),
		slog.String("author_id", r.AuthorID),
	)
	return r, nil
}

func (service *Service) Update(context context.Context, requester policy.Requester, titleID, reviewID int64, input UpdateInput) (*Review, error) {
	current, err := service.Get(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := policy.Check(requester, policy.ActionUpdate, policy.ResourceReview, current.AuthorID); err != nil {
		return nil, err
	}

	if input.Text != nil {
		current.Text = *input.Text
	}
	if input.Score != nil {
		current.Score = *input.Score
	}

	validator := &validate.Validator{}
	if err := validator.
		Required("text", current.Text).
		Range("score", current.Score, minScore, maxScore).
		Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, current); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "review_updated", slog.Int64("review_id", reviewID))
	return current, nil
}

func (service *Service) Delete(context context.Context, requester policy.Requester, titleID, reviewID int64) error {
	current, err := service.Get(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := policy.Check(requester, policy.ActionDelete, policy.ResourceReview, current.AuthorID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, reviewID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "review_deleted", slog.Int64("review_id", reviewID))
	return nil
}

func (service *Service) requireTitle(context context.Context, titleID int64) error {
	exists, err := service.titles.Exists(context, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}

func errAlreadyReviewed() error {
	return apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: "title", Message: "you have already reviewed this title"})
}
