// Copyright (c) 2026 Revory. All rights reserved.
// Author: d.kovalyov.dev@gmail.com

package policy_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalyov/revory/internal/platform/apperr"
	"github.com/dkovalyov/revory/internal/platform/policy"
	"github.com/dkovalyov/revory/internal/platform/sec"
)

var (
	anonymous = policy.Requester{}
	member    = policy.Requester{UserID: "u-member", Role: sec.RoleUser, Authenticated: true}
	moderator = policy.Requester{UserID: "u-mod", Role: sec.RoleModerator, Authenticated: true}
	admin     = policy.Requester{UserID: "u-admin", Role: sec.RoleAdmin, Authenticated: true}
)

/*
TestEvaluate_Catalog covers the admin-only write rules on catalogue resources.
*/
func TestEvaluate_Catalog(t *testing.T) {
	tests := []struct {
		name      string
		requester policy.Requester
		action    policy.Action
		resource  policy.Resource
		want      policy.Decision
	}{
		{"anonymous_reads_titles", anonymous, policy.ActionRead, policy.ResourceTitle, policy.Allow},
		{"anonymous_reads_categories", anonymous, policy.ActionRead, policy.ResourceCategory, policy.Allow},
		{"anonymous_creates_title", anonymous, policy.ActionCreate, policy.ResourceTitle, policy.DenyUnauthenticated},
		{"member_creates_title", member, policy.ActionCreate, policy.ResourceTitle, policy.DenyForbidden},
		{"moderator_deletes_category", moderator, policy.ActionDelete, policy.ResourceCategory, policy.DenyForbidden},
		{"admin_deletes_category", admin, policy.ActionDelete, policy.ResourceCategory, policy.Allow},
		{"admin_updates_title", admin, policy.ActionUpdate, policy.ResourceTitle, policy.Allow},
		{"member_deletes_genre", member, policy.ActionDelete, policy.ResourceGenre, policy.DenyForbidden},

		// Category/Genre declare no update action at all.
		{"admin_updates_category", admin, policy.ActionUpdate, policy.ResourceCategory, policy.DenyForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Evaluate(tt.requester, tt.action, tt.resource, ""))
		})
	}
}

/*
TestEvaluate_Content covers author/moderator/admin write rules on reviews
and comments.
*/
func TestEvaluate_Content(t *testing.T) {
	const ownerID = "u-member"

	tests := []struct {
		name      string
		requester policy.Requester
		action    policy.Action
		resource  policy.Resource
		ownerID   string
		want      policy.Decision
	}{
		{"anonymous_reads_reviews", anonymous, policy.ActionRead, policy.ResourceReview, "", policy.Allow},
		{"anonymous_creates_review", anonymous, policy.ActionCreate, policy.ResourceReview, "", policy.DenyUnauthenticated},
		{"member_creates_review", member, policy.ActionCreate, policy.ResourceReview, "", policy.Allow},
		{"author_updates_own_review", member, policy.ActionUpdate, policy.ResourceReview, ownerID, policy.Allow},
		{"member_updates_foreign_review", member, policy.ActionUpdate, policy.ResourceReview, "someone-else", policy.DenyForbidden},
		{"moderator_deletes_foreign_review", moderator, policy.ActionDelete, policy.ResourceReview, "someone-else", policy.Allow},
		{"admin_updates_foreign_comment", admin, policy.ActionUpdate, policy.ResourceComment, "someone-else", policy.Allow},
		{"author_deletes_own_comment", member, policy.ActionDelete, policy.ResourceComment, ownerID, policy.Allow},
		{"anonymous_deletes_comment", anonymous, policy.ActionDelete, policy.ResourceComment, ownerID, policy.DenyUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Evaluate(tt.requester, tt.action, tt.resource, tt.ownerID))
		})
	}
}

/*
TestEvaluate_Users covers the admin-only directory and the self-service profile.
*/
func TestEvaluate_Users(t *testing.T) {
	tests := []struct {
		name      string
		requester policy.Requester
		action    policy.Action
		resource  policy.Resource
		want      policy.Decision
	}{
		{"anonymous_lists_users", anonymous, policy.ActionRead, policy.ResourceUser, policy.DenyUnauthenticated},
		{"member_lists_users", member, policy.ActionRead, policy.ResourceUser, policy.DenyForbidden},
		{"moderator_lists_users", moderator, policy.ActionRead, policy.ResourceUser, policy.DenyForbidden},
		{"admin_lists_users", admin, policy.ActionRead, policy.ResourceUser, policy.Allow},
		{"admin_deletes_user", admin, policy.ActionDelete, policy.ResourceUser, policy.Allow},
		{"member_reads_own_profile", member, policy.ActionRead, policy.ResourceOwnProfile, policy.Allow},
		{"member_updates_own_profile", member, policy.ActionUpdate, policy.ResourceOwnProfile, policy.Allow},
		{"anonymous_reads_own_profile", anonymous, policy.ActionRead, policy.ResourceOwnProfile, policy.DenyUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Evaluate(tt.requester, tt.action, tt.resource, ""))
		})
	}
}

/*
TestErr verifies the mapping from decisions to HTTP-flavoured errors.
*/
func TestErr(t *testing.T) {
	assert.NoError(t, policy.Err(policy.Allow))

	unauth := apperr.As(policy.Err(policy.DenyUnauthenticated))
	require.NotNil(t, unauth)
	assert.Equal(t, http.StatusUnauthorized, unauth.HTTPStatus)

	forbidden := apperr.As(policy.Err(policy.DenyForbidden))
	require.NotNil(t, forbidden)
	assert.Equal(t, http.StatusForbidden, forbidden.HTTPStatus)
}

/*
TestFromClaims verifies requester construction from JWT claims.
*/
func TestFromClaims(t *testing.T) {
	assert.Equal(t, policy.Requester{}, policy.FromClaims(nil))

	requester := policy.FromClaims(&sec.AuthClaims{UserID: "u-1", Role: "moderator"})
	assert.True(t, requester.Authenticated)
	assert.Equal(t, sec.RoleModerator, requester.Role)
	assert.Equal(t, "u-1", requester.UserID)
}
