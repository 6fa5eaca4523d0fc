// Copyright (c) 2026 Revory. All rights reserved.
// Author: d.kovalyov.dev@gmail.com

package comment_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalyov/revory/internal/content/comment"
	"github.com/dkovalyov/revory/internal/content/review"
	"github.com/dkovalyov/revory/internal/platform/apperr"
	"github.com/dkovalyov/revory/internal/platform/dberr"
	"github.com/dkovalyov/revory/internal/platform/policy"
	"github.com/dkovalyov/revory/internal/platform/sec"
	"github.com/dkovalyov/revory/pkg/pagination"
)

// # Test Doubles

type fakeCommentRepository struct {
	comments []*comment.Comment
	nextID   int64
}

func (repository *fakeCommentRepository) ListByReview(_ context.Context, reviewID int64, _ pagination.Params) ([]*comment.Comment, int, error) {
	matched := make([]*comment.Comment, 0)
	for _, c := range repository.comments {
		if c.ReviewID == reviewID {
			matched = append(matched, c)
		}
	}
	return matched, len(matched), nil
}

func (repository *fakeCommentRepository) GetByID(_ context.Context, reviewID, commentID int64) (*comment.Comment, error) {
	for _, c := range repository.comments {
		if c.ReviewID == reviewID && c.ID == commentID {
			return c, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repository *fakeCommentRepository) Create(_ context.Context, c *comment.Comment) error {
	repository.nextID++
	c.ID = repository.nextID
	repository.comments = append(repository.comments, c)
	return nil
}

func (repository *fakeCommentRepository) Update(_ context.Context, c *comment.Comment) error {
	for i, existing := range repository.comments {
		if existing.ID == c.ID {
			repository.comments[i] = c
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (repository *fakeCommentRepository) Delete(_ context.Context, commentID int64) error {
	for i, existing := range repository.comments {
		if existing.ID == commentID {
			repository.comments = append(repository.comments[:i], repository.comments[i+1:]...)
			return nil
		}
	}
	return dberr.ErrNotFound
}

// fakeReviewDirectory knows one review (ID 10) living under title 1.
type fakeReviewDirectory struct{}

func (directory *fakeReviewDirectory) GetByID(_ context.Context, titleID, reviewID int64) (*review.Review, error) {
	if titleID == 1 && reviewID == 10 {
		return &review.Review{ID: 10, TitleID: 1, AuthorID: "reviewer-1"}, nil
	}
	return nil, dberr.ErrNotFound
}

// # Fixture

func newCommentService() (*comment.Service, *fakeCommentRepository) {
	repository := &fakeCommentRepository{}
	service := comment.NewService(repository, &fakeReviewDirectory{}, slog.New(slog.DiscardHandler))
	return service, repository
}

func requesterWithRole(userID string, role sec.UserRole) policy.Requester {
	return policy.Requester{UserID: userID, Role: role, Authenticated: true}
}

// # Tests

/*
TestCreateComment_HappyPath posts a comment under an existing review.
*/
func TestCreateComment_HappyPath(t *testing.T) {
	service, repository := newCommentService()

	created, err := service.Create(context.Background(),
		requesterWithRole("user-1", sec.RoleUser), "bob", 1, 10,
		comment.CreateInput{Text: "Agreed"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "bob", created.AuthorName)
	assert.Len(t, repository.comments, 1)
}

/*
TestCreateComment_ReviewUnderWrongTitle 404s when the review does not belong
to the addressed title.
*/
func TestCreateComment_ReviewUnderWrongTitle(t *testing.T) {
	service, _ := newCommentService()

	_, err := service.Create(context.Background(),
		requesterWithRole("user-1", sec.RoleUser), "bob", 2, 10,
		comment.CreateInput{Text: "Lost"})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestCreateComment_EmptyText rejects blank comments.
*/
func TestCreateComment_EmptyText(t *testing.T) {
	service, _ := newCommentService()

	_, err := service.Create(context.Background(),
		requesterWithRole("user-1", sec.RoleUser), "bob", 1, 10,
		comment.CreateInput{Text: "   "})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, "text", ae.Details[0].Field)
}

/*
TestUpdateComment_Ownership exercises the owner-or-moderator rule on edits.
*/
func TestUpdateComment_Ownership(t *testing.T) {
	tests := []struct {
		name      string
		requester policy.Requester
		allowed   bool
	}{
		{"owner", requesterWithRole("user-1", sec.RoleUser), true},
		{"other_user", requesterWithRole("user-2", sec.RoleUser), false},
		{"moderator", requesterWithRole("mod-1", sec.RoleModerator), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newCommentService()

			created, err := service.Create(context.Background(),
				requesterWithRole("user-1", sec.RoleUser), "bob", 1, 10,
				comment.CreateInput{Text: "Original"})
			require.NoError(t, err)

			edited := "Edited"
			_, err = service.Update(context.Background(), tt.requester, 1, 10, created.ID,
				comment.UpdateInput{Text: &edited})

			if tt.allowed {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
			}
		})
	}
}

/*
TestDeleteComment_Anonymous rejects unauthenticated deletion with 401.
*/
func TestDeleteComment_Anonymous(t *testing.T) {
	service, _ := newCommentService()

	created, err := service.Create(context.Background(),
		requesterWithRole("user-1", sec.RoleUser), "bob", 1, 10,
		comment.CreateInput{Text: "Keep me"})
	require.NoError(t, err)

	err = service.Delete(context.Background(), policy.Requester{}, 1, 10, created.ID)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}
