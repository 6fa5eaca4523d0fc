package genre

import (
	"context"
	"log/slog"

	"github.com/dkovalyov/revory/internal/platform/validate"
	"github.com/dkovalyov/revory/pkg/pagination"
	"github.com/dkovalyov/revory/pkg/slug"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateInput carries the fields accepted when registering a genre.
type CreateInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (service *Service) List(context context.Context, search string, params pagination.Params) ([]*Genre, pagination.Meta, error) {
	genres, total, err := service.repo.List(context, search, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return genres, pagination.NewMeta(params.Page, params.Limit, total), nil
}

func (service *Service) Create(context context.Context, input CreateInput) (*Genre, error) {
	// An omitted slug is derived from the name.
	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	validator := &validate.Validator{}
	if err := validator.
		Required("name", input.Name).
		MaxLen("name", input.Name, 256).
		Required("slug", input.Slug).
		MaxLen("slug", input.Slug, 50).
		Slug("slug", input.Slug).
		Err(); err != nil {
		return nil, err
	}

	genre := &Genre{Name: input.Name, Slug: input.Slug}
	if err := service.repo.Create(context, genre); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "genre_created", slog.String("slug", genre.Slug))
	return genre, nil
}

func (service *Service) Delete(context context.Context, genreSlug string) error {
	if err := service.repo.DeleteBySlug(context, genreSlug); err != nil {
		return err
	}

	service.logger.InfoContext(context, "genre_deleted", slog.String("slug", genreSlug))
	return nil
}
