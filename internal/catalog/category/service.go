package category

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

// CreateInput carries the fields accepted when registering a category.
type CreateInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (service *Service) List(context context.Context, search string, params pagination.Params) ([]*Category, pagination.Meta, error) {
	categories, total, err := service.repo.List(context, search, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return categories, pagination.NewMeta(params.Page, params.Limit, total), nil
}

func (service *Service) Create(context context.Context, input CreateInput) (*Category, error) {
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

	category := &Category{Name: input.Name, Slug: input.Slug}
	if err := service.repo.Create(context, category); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "category_created", slog.String("slug", category.Slug))
	return category, nil
}

func (service *Service) GetBySlug(context context.Context, categorySlug string) (*Category, error) {
	return service.repo.GetBySlug(context, categorySlug)
}

func (service *Service) Delete(context context.Context, categorySlug string) error {
	if err := service.repo.DeleteBySlug(context, categorySlug); err != nil {
		return err
	}

	service.logger.InfoContext(context, "category_deleted", slog.String("slug", categorySlug))
	return nil
}
