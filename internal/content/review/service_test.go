// Copyright (c) 2026 Revory. All rights reserved.
// Author: d.kovalyov.dev@gmail.com

package review_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalyov/revory/internal/content/review"
	"github.com/dkovalyov/revory/internal/platform/apperr"
	"github.com/dkovalyov/revory/internal/platform/dberr"
	"github.com/dkovalyov/revory/internal/platform/policy"
	"github.com/dkovalyov/revory/internal/platform/sec"
	"github.com/dkovalyov/revory/pkg/pagination"
)

// # Test Doubles

type fakeReviewRepository struct {
	reviews []*review.Review
	nextID  int64
}

func (repository *fakeReviewRepository) ListByTitle(_ context.Context, titleID int64, _ pagination.Params) ([]*review.Review, int, error) {
	matched := make([]*review.Review, 0)
	for _, r := range repository.reviews {
		if r.TitleID == titleID {
			matched = append(matched, r)
		}
	}
	return matched, len(matched), nil
}

func (repository *fakeReviewRepository) GetByID(_ context.Context, titleID, reviewID int64) (*review.Review, error) {
	for _, r := range repository.reviews {
		if r.TitleID == titleID && r.ID == reviewID {
			return r, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repository *fakeReviewRepository) ExistsByAuthor(_ context.Context, titleID int64, authorID string) (bool, error) {
	for _, r := range repository.reviews {
		if r.TitleID == titleID && r.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (repository *fakeReviewRepository) Create(_ context.Context, r *review.Review) error {
	repository.nextID++
	r.ID = repository.nextID
	repository.reviews = append(repository.reviews, r)
	return nil
}

func (repository *fakeReviewRepository) Update(_ context.Context, r *review.Review) error {
	for i, existing := range repository.reviews {
		if existing.ID == r.ID {
			repository.reviews[i] = r
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (repository *fakeReviewRepository) Delete(_ context.Context, reviewID int64) error {
	for i, existing := range repository.reviews {
		if existing.ID == reviewID {
			repository.reviews = append(repository.reviews[:i], repository.reviews[i+1:]...)
			return nil
		}
	}
	return dberr.ErrNotFound
}

type fakeTitleDirectory struct {
	existing map[int64]bool
}

func (directory *fakeTitleDirectory) Exists(_ context.Context, titleID int64) (bool, error) {
	return directory.existing[titleID], nil
}

// # Fixture

func newReviewService() (*review.Service, *fakeReviewRepository, *fakeTitleDirectory) {
	repository := &fakeReviewRepository{}
	titles := &fakeTitleDirectory{existing: map[int64]bool{1: true}}
	service := review.NewService(repository, titles, slog.New(slog.DiscardHandler))
	return service, repository, titles
}

func requesterWithRole(userID string, role sec.UserRole) policy.Requester {
	return policy.Requester{UserID: userID, Role: role, Authenticated: true}
}

// # Creation

/*
TestCreateReview_HappyPath creates a review on an existing title.
*/
func TestCreateReview_HappyPath(t *testing.T) {
	service, repository, _ := newReviewService()

	created, err := service.Create(context.Background(),
		requesterWithRole("user-1", sec.RoleUser), "alice", 1,
		review.CreateInput{Text: "Loved it", Score: 9})
	require.NoError(t, err)

	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "user-1", created.AuthorID)
	assert.Equal(t, "alice", created.AuthorName)
	assert.Len(t, repository.reviews, 1)
}

/*
TestCreateReview_MissingTitle returns 404 when the addressed title does
not exist.
*/
func TestCreateReview_MissingTitle(t *testing.T) {
	service, _, _ := newReviewService()

	_, err := service.Create(context.Background(),
		requesterWithRole("user-1", sec.RoleUser), "alice", 42,
		review.CreateInput{Text: "text", Score: 5})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestCreateReview_Anonymous rejects unauthenticated creation with 401.
*/
func TestCreateReview_Anonymous(t *testing.T) {
	service, _, _ := newReviewService()

	_, err := service.Create(context.Background(),
		policy.Requester{}, "", 1,
		review.CreateInput{Text: "text", Score: 5})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

/*
TestCreateReview_ScoreBounds enforces the 1..10 score range.
*/
func TestCreateReview_ScoreBounds(t *testing.T) {
	tests := []struct {
		name  string
		score int
		valid bool
	}{
		{"too_low", 0, false},
		{"lower_bound", 1, true},
		{"upper_bound", 10, true},
		{"too_high", 11, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _ := newReviewService()

			_, err := service.Create(context.Background(),
				requesterWithRole("user-1", sec.RoleUser), "alice", 1,
				review.CreateInput{Text: "text", Score: tt.score})

			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, "score", ae.Details[0].Field)
			}
		})
	}
}

/*
TestCreateReview_DuplicateAuthor rejects a second review by the same author
on the same title.
*/
func TestCreateReview_DuplicateAuthor(t *testing.T) {
	service, repository, _ := newReviewService()
	requester := requesterWithRole("user-1", sec.RoleUser)

	_, err := service.Create(context.Background(), requester, "alice", 1,
		review.CreateInput{Text: "First take", Score: 7})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), requester, "alice", 1,
		review.CreateInput{Text: "Second take", Score: 3})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Len(t, repository.reviews, 1)
}

// # Ownership & Moderation

/*
TestUpdateReview_Ownership exercises the owner-or-moderator rule.
*/
func TestUpdateReview_Ownership(t *testing.T) {
	tests := []struct {
		name      string
		requester policy.Requester
		allowed   bool
	}{
		{"owner", requesterWithRole("user-1", sec.RoleUser), true},
		{"other_user", requesterWithRole("user-2", sec.RoleUser), false},
		{"moderator", requesterWithRole("mod-1", sec.RoleModerator), true},
		{"admin", requesterWithRole("adm-1", sec.RoleAdmin), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _ := newReviewService()

			created, err := service.Create(context.Background(),
				requesterWithRole("user-1", sec.RoleUser), "alice", 1,
				review.CreateInput{Text: "Original", Score: 6})
			require.NoError(t, err)

			newText := "Edited"
			updated, err := service.Update(context.Background(), tt.requester, 1, created.ID,
				review.UpdateInput{Text: &newText})

			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, "Edited", updated.Text)
			} else {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "FORBIDDEN", ae.Code)
			}
		})
	}
}

/*
TestDeleteReview_ModeratorOverride lets a moderator remove another user's
review while a plain user cannot.
*/
func TestDeleteReview_ModeratorOverride(t *testing.T) {
	service, repository, _ := newReviewService()

	created, err := service.Create(context.Background(),
		requesterWithRole("user-1", sec.RoleUser), "alice", 1,
		review.CreateInput{Text: "To be removed", Score: 2})
	require.NoError(t, err)

	err = service.Delete(context.Background(), requesterWithRole("user-2", sec.RoleUser), 1, created.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	err = service.Delete(context.Background(), requesterWithRole("mod-1", sec.RoleModerator), 1, created.ID)
	require.NoError(t, err)
	assert.Empty(t, repository.reviews)
}

/*
TestGetReview_WrongTitle treats a review addressed through the wrong title
as absent.
*/
func TestGetReview_WrongTitle(t *testing.T) {
	service, _, titles := newReviewService()
	titles.existing[2] = true

	created, err := service.Create(context.Background(),
		requesterWithRole("user-1", sec.RoleUser), "alice", 1,
		review.CreateInput{Text: "On title one", Score: 8})
	require.NoError(t, err)

	_, err = service.Get(context.Background(), 2, created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
