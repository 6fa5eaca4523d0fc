package title

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dkovalyov/revory/internal/catalog/category"
	"github.com/dkovalyov/revory/internal/catalog/genre"
	"github.com/dkovalyov/revory/internal/platform/apperr"
	"github.com/dkovalyov/revory/internal/platform/dberr"
	"github.com/dkovalyov/revory/internal/platform/validate"
	"github.com/dkovalyov/revory/pkg/pagination"
	"github.com/dkovalyov/revory/pkg/slice"
)

type Service struct {
	repo       Repository
	categories category.Repository
	genres     genre.Repository
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo Repository, categories category.Repository, genres genre.Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		genres:     genres,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateInput carries the fields accepted when registering a title.
// Category and Genre reference existing taxonomy entries by slug.
type CreateInput struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]*Title, pagination.Meta, error) {
	titles, total, err := service.repo.List(context, filter, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return titles, pagination.NewMeta(params.Page, params.Limit, total), nil
}

func (service *Service) Get(context context.Context, titleID int64) (*Title, error) {
	t, err := service.repo.GetByID(context, titleID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Title")
		}
		return nil, err
	}
	return t, nil
}

func (service *Service) Create(context context.Context, input CreateInput) (*Title, error) {
	validator := &validate.Validator{}
	if err := validator.
		Required("name", input.Name).
		MaxLen("name", input.Name, 256).
		Custom("year", input.Year < 1 || input.Year >= service.now().Year(), "must be before the current year").
		Required("category", input.Category).
		Err(); err != nil {
		return nil, err
	}

	resolvedCategory, err := service.resolveCategory(context, input.Category)
	if err != nil {
		return nil, err
	}

	resolvedGenres, genreIDs, err := service.resolveGenres(context, input.Genre)
	if err != nil {
		return nil, err
	}

	t := &Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    resolvedCategory,
		Genres:      resolvedGenres,
	}

	if err := service.repo.Create(context, t, genreIDs); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "title_created",
		slog.Int64("title_id", t.ID),
		slog.String("name", t.Name),
	)
	return t, nil
}

func (service *Service) Update(context context.Context, titleID int64, input UpdateInput) (*Title, error) {
	current, err := service.Get(context, titleID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		current.Name = *input.Name
	}
	if input.Year != nil {
		current.Year = *input.Year
	}
	if input.Description != nil {
		current.Description = *input.Description
	}

	validator := &validate.Validator{}
	if err := validator.
		Required("name", current.Name).
		MaxLen("name", current.Name, 256).
		Custom("year", current.Year < 1 || current.Year >= service.now().Year(), "must be before the current year").
		Err(); err != nil {
		return nil, err
	}

	if input.Category != nil {
		resolvedCategory, err := service.resolveCategory(context, *input.Category)
		if err != nil {
			return nil, err
		}
		current.Category = resolvedCategory
	}

	replaceGenres := input.Genre != nil
	var genreIDs []int64
	if replaceGenres {
		resolvedGenres, ids, err := service.resolveGenres(context, *input.Genre)
		if err != nil {
			return nil, err
		}
		current.Genres = resolvedGenres
		genreIDs = ids
	}

	if err := service.repo.Update(context, current, genreIDs, replaceGenres); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "title_updated", slog.Int64("title_id", titleID))
	return current, nil
}

func (service *Service) Delete(context context.Context, titleID int64) error {
	if err := service.repo.Delete(context, titleID); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("Title")
		}
		return err
	}

	service.logger.InfoContext(context, "title_deleted", slog.Int64("title_id", titleID))
	return nil
}

// resolveCategory maps a category slug to its row. An unknown slug is a
// field-level validation failure, not a 404: the missing resource is a
// referenced value inside the payload, not the request target.
func (service *Service) resolveCategory(context context.Context, slug string) (*category.Category, error) {
	resolved, err := service.categories.GetBySlug(context, slug)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: "category", Message: "unknown category slug: " + slug})
		}
		return nil, err
	}
	return resolved, nil
}

// resolveGenres maps genre slugs to rows, rejecting any unknown slug.
func (service *Service) resolveGenres(context context.Context, slugs []string) ([]genre.Genre, []int64, error) {
	if len(slugs) == 0 {
		return make([]genre.Genre, 0), nil, nil
	}

	resolved, err := service.genres.GetBySlugs(context, slugs)
	if err != nil {
		return nil, nil, err
	}

	found := make(map[string]bool, len(resolved))
	for _, g := range resolved {
		found[g.Slug] = true
	}
	for _, requested := range slugs {
		if !found[requested] {
			return nil, nil, apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: "genre", Message: "unknown genre slug: " + requested})
		}
	}

	genres := slice.Map(resolved, func(g *genre.Genre) genre.Genre { return *g })
	genreIDs := slice.Map(resolved, func(g *genre.Genre) int64 { return g.ID })

	return genres, genreIDs, nil
}
