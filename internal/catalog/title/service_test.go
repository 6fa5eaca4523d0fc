// Copyright (c) 2026 Revory. All rights reserved.
// Author: d.kovalyov.dev@gmail.com

package title_test

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalyov/revory/internal/catalog/category"
	"github.com/dkovalyov/revory/internal/catalog/genre"
	"github.com/dkovalyov/revory/internal/catalog/title"
	"github.com/dkovalyov/revory/internal/platform/apperr"
	"github.com/dkovalyov/revory/internal/platform/dberr"
	"github.com/dkovalyov/revory/pkg/pagination"
	"github.com/dkovalyov/revory/pkg/pointer"
)

// # Test Doubles

type fakeTitleRepository struct {
	titles []*title.Title
	scores map[int64][]int
	nextID int64
}

func (repository *fakeTitleRepository) List(_ context.Context, filter title.Filter, _ pagination.Params) ([]*title.Title, int, error) {
	matched := make([]*title.Title, 0)
	for _, t := range repository.titles {
		if matchesFilter(t, filter) {
			matched = append(matched, repository.withRating(t))
		}
	}
	return matched, len(matched), nil
}

func (repository *fakeTitleRepository) GetByID(_ context.Context, id int64) (*title.Title, error) {
	for _, t := range repository.titles {
		if t.ID == id {
			return repository.withRating(t), nil
		}
	}
	return nil, dberr.ErrNotFound
}

// matchesFilter mirrors the listing predicates: case-insensitive substring
// on name and on category/genre slugs, exact match on year.
func matchesFilter(t *title.Title, filter title.Filter) bool {
	if filter.Name != "" && !containsFold(t.Name, filter.Name) {
		return false
	}
	if filter.Year != nil && t.Year != *filter.Year {
		return false
	}
	if filter.Category != "" && (t.Category == nil || !containsFold(t.Category.Slug, filter.Category)) {
		return false
	}
	if filter.Genre != "" {
		for _, g := range t.Genres {
			if containsFold(g.Slug, filter.Genre) {
				return true
			}
		}
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// withRating derives the mean review score rounded to two decimals, nil
// when no scores exist.
func (repository *fakeTitleRepository) withRating(t *title.Title) *title.Title {
	scores := repository.scores[t.ID]
	if len(scores) == 0 {
		return t
	}
	sum := 0
	for _, score := range scores {
		sum += score
	}
	rated := *t
	rated.Rating = pointer.To(math.Round(float64(sum)/float64(len(scores))*100) / 100)
	return &rated
}

func (repository *fakeTitleRepository) Exists(_ context.Context, id int64) (bool, error) {
	for _, t := range repository.titles {
		if t.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (repository *fakeTitleRepository) Create(_ context.Context, t *title.Title, _ []int64) error {
	repository.nextID++
	t.ID = repository.nextID
	repository.titles = append(repository.titles, t)
	return nil
}

func (repository *fakeTitleRepository) Update(_ context.Context, t *title.Title, _ []int64, _ bool) error {
	for i, existing := range repository.titles {
		if existing.ID == t.ID {
			repository.titles[i] = t
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (repository *fakeTitleRepository) Delete(_ context.Context, id int64) error {
	for i, existing := range repository.titles {
		if existing.ID == id {
			repository.titles = append(repository.titles[:i], repository.titles[i+1:]...)
			return nil
		}
	}
	return dberr.ErrNotFound
}

type fakeCategoryRepository struct {
	categories map[string]*category.Category
}

func (repository *fakeCategoryRepository) List(_ context.Context, _ string, _ pagination.Params) ([]*category.Category, int, error) {
	return nil, 0, nil
}

func (repository *fakeCategoryRepository) GetBySlug(_ context.Context, slug string) (*category.Category, error) {
	if c, ok := repository.categories[slug]; ok {
		return c, nil
	}
	return nil, dberr.ErrNotFound
}

func (repository *fakeCategoryRepository) Create(_ context.Context, _ *category.Category) error {
	return nil
}

func (repository *fakeCategoryRepository) DeleteBySlug(_ context.Context, _ string) error {
	return nil
}

type fakeGenreRepository struct {
	genres map[string]*genre.Genre
}

func (repository *fakeGenreRepository) List(_ context.Context, _ string, _ pagination.Params) ([]*genre.Genre, int, error) {
	return nil, 0, nil
}

func (repository *fakeGenreRepository) GetBySlug(_ context.Context, slug string) (*genre.Genre, error) {
	if g, ok := repository.genres[slug]; ok {
		return g, nil
	}
	return nil, dberr.ErrNotFound
}

func (repository *fakeGenreRepository) GetBySlugs(_ context.Context, slugs []string) ([]*genre.Genre, error) {
	matched := make([]*genre.Genre, 0)
	for _, slug := range slugs {
		if g, ok := repository.genres[slug]; ok {
			matched = append(matched, g)
		}
	}
	return matched, nil
}

func (repository *fakeGenreRepository) Create(_ context.Context, _ *genre.Genre) error {
	return nil
}

func (repository *fakeGenreRepository) DeleteBySlug(_ context.Context, _ string) error {
	return nil
}

// # Fixture

func newTitleService() (*title.Service, *fakeTitleRepository) {
	repository := &fakeTitleRepository{}
	categories := &fakeCategoryRepository{categories: map[string]*category.Category{
		"movies": {ID: 1, Name: "Movies", Slug: "movies"},
	}}
	genres := &fakeGenreRepository{genres: map[string]*genre.Genre{
		"drama":  {ID: 1, Name: "Drama", Slug: "drama"},
		"sci-fi": {ID: 2, Name: "Sci-Fi", Slug: "sci-fi"},
	}}
	service := title.NewService(repository, categories, genres, slog.New(slog.DiscardHandler))
	return service, repository
}

// # Creation

/*
TestCreateTitle_HappyPath resolves taxonomy slugs and persists the title.
*/
func TestCreateTitle_HappyPath(t *testing.T) {
	service, repository := newTitleService()

	created, err := service.Create(context.Background(), title.CreateInput{
		Name:     "Blade Runner",
		Year:     1982,
		Category: "movies",
		Genre:    []string{"drama", "sci-fi"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), created.ID)
	require.NotNil(t, created.Category)
	assert.Equal(t, "movies", created.Category.Slug)
	assert.Len(t, created.Genres, 2)
	assert.Nil(t, created.Rating)
	assert.Len(t, repository.titles, 1)
}

/*
TestCreateTitle_YearNotElapsed rejects the current year and anything later;
only fully elapsed years are valid release years.
*/
func TestCreateTitle_YearNotElapsed(t *testing.T) {
	service, _ := newTitleService()

	_, err := service.Create(context.Background(), title.CreateInput{
		Name:     "From the Future",
		Year:     time.Now().Year(),
		Category: "movies",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, "year", ae.Details[0].Field)
}

/*
TestCreateTitle_UnknownCategory maps an unresolvable category slug to a
field-level validation failure, not a 404.
*/
func TestCreateTitle_UnknownCategory(t *testing.T) {
	service, _ := newTitleService()

	_, err := service.Create(context.Background(), title.CreateInput{
		Name:     "Orphan",
		Year:     2000,
		Category: "does-not-exist",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, "category", ae.Details[0].Field)
}

/*
TestCreateTitle_UnknownGenre rejects any unresolvable genre slug in the list.
*/
func TestCreateTitle_UnknownGenre(t *testing.T) {
	service, _ := newTitleService()

	_, err := service.Create(context.Background(), title.CreateInput{
		Name:     "Partial Genres",
		Year:     2000,
		Category: "movies",
		Genre:    []string{"drama", "western"},
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, "genre", ae.Details[0].Field)
}

// # Listing

/*
TestListTitles_CombinedFilters narrows by exact year together with a
case-insensitive genre slug substring; only titles matching both survive.
*/
func TestListTitles_CombinedFilters(t *testing.T) {
	service, _ := newTitleService()

	seed := []title.CreateInput{
		{Name: "Nineteen Eighty-Four", Year: 1949, Category: "movies", Genre: []string{"sci-fi"}},
		{Name: "Blade Runner", Year: 1982, Category: "movies", Genre: []string{"sci-fi", "drama"}},
		{Name: "Ordinary People", Year: 1982, Category: "movies", Genre: []string{"drama"}},
	}
	for _, input := range seed {
		_, err := service.Create(context.Background(), input)
		require.NoError(t, err)
	}

	listed, meta, err := service.List(context.Background(), title.Filter{
		Year:  pointer.To(1982),
		Genre: "SCI",
	}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)

	require.Len(t, listed, 1)
	assert.Equal(t, "Blade Runner", listed[0].Name)
	assert.Equal(t, 1, meta.Total)
}

/*
TestListTitles_CategorySlugSubstring matches the category filter as a
case-insensitive substring of the slug, not an exact value.
*/
func TestListTitles_CategorySlugSubstring(t *testing.T) {
	service, _ := newTitleService()

	_, err := service.Create(context.Background(), title.CreateInput{
		Name:     "Blade Runner",
		Year:     1982,
		Category: "movies",
	})
	require.NoError(t, err)

	listed, _, err := service.List(context.Background(), title.Filter{
		Category: "MOVI",
	}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	listed, _, err = service.List(context.Background(), title.Filter{
		Category: "books",
	}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

// # Rating

/*
TestGetTitle_RatingAverages reports the mean review score rounded to two
decimals once reviews exist; the no-review case stays nil, never zero.
*/
func TestGetTitle_RatingAverages(t *testing.T) {
	service, repository := newTitleService()

	created, err := service.Create(context.Background(), title.CreateInput{
		Name:     "Blade Runner",
		Year:     1982,
		Category: "movies",
	})
	require.NoError(t, err)

	unrated, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, unrated.Rating)

	repository.scores = map[int64][]int{created.ID: {8, 7, 7}}

	rated, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, rated.Rating)
	assert.InDelta(t, 7.33, *rated.Rating, 0.001)
}

// # Partial Update

/*
TestUpdateTitle_Partial leaves unset fields untouched and replaces genres
only when the field is present.
*/
func TestUpdateTitle_Partial(t *testing.T) {
	service, _ := newTitleService()

	created, err := service.Create(context.Background(), title.CreateInput{
		Name:     "Original Name",
		Year:     1990,
		Category: "movies",
		Genre:    []string{"drama"},
	})
	require.NoError(t, err)

	newName := "Renamed"
	updated, err := service.Update(context.Background(), created.ID, title.UpdateInput{
		Name: &newName,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 1990, updated.Year)
	assert.Len(t, updated.Genres, 1)
}

/*
TestUpdateTitle_NotFound surfaces a 404 for an unknown identifier.
*/
func TestUpdateTitle_NotFound(t *testing.T) {
	service, _ := newTitleService()

	name := "Whatever"
	_, err := service.Update(context.Background(), 99, title.UpdateInput{Name: &name})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
