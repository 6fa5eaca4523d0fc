// Copyright (c) 2026 Revory. All rights reserved.
// Author: d.kovalyov.dev@gmail.com

/*
Package policy implements role- and ownership-based access decisions as a
static data lookup.

Every rule in the system lives in one table keyed by (resource kind, action).
Evaluation is a pure function over that table: no virtual dispatch, no
per-resource permission classes. Handlers and services call [Evaluate] with
the requester identity and the owner of the target resource and translate
the decision into an HTTP error via [Err].
*/
package policy

import (
	"github.com/dkovalyov/revory/internal/platform/apperr"
	"github.com/dkovalyov/revory/internal/platform/sec"
)

// # Vocabulary

// Resource identifies the kind of entity an action targets.
type Resource string

const (
	ResourceTitle    Resource = "title"
	ResourceCategory Resource = "category"
	ResourceGenre    Resource = "genre"
	ResourceReview   Resource = "review"
	ResourceComment  Resource = "comment"

	// ResourceUser is the admin-managed user directory.
	ResourceUser Resource = "user"

	// ResourceOwnProfile is the /users/me self-service surface.
	ResourceOwnProfile Resource = "own_profile"
)

// Action is the operation being attempted against a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Decision is the outcome of a policy evaluation.
type Decision int

const (
	// Allow grants the operation.
	Allow Decision = iota

	// DenyUnauthenticated rejects because no identity was presented (401).
	DenyUnauthenticated

	// DenyForbidden rejects an authenticated requester (403).
	DenyForbidden
)

// Requester is the identity a decision is evaluated against.
//
// The zero value is the anonymous requester.
type Requester struct {
	UserID        string
	Role          sec.UserRole
	Authenticated bool
}

// FromClaims builds a Requester from verified JWT claims.
// A nil claims pointer yields the anonymous requester.
func FromClaims(claims *sec.AuthClaims) Requester {
	if claims == nil {
		return Requester{}
	}
	return Requester{
		UserID:        claims.UserID,
		Role:          sec.UserRole(claims.Role),
		Authenticated: true,
	}
}

// # Rule Table

// rule describes who may perform one action on one resource kind.
type rule struct {
	// public short-circuits all identity checks (safe methods).
	public bool

	// minRole is the lowest role tier that is always allowed.
	minRole sec.UserRole

	// ownerOverride additionally allows the resource's author regardless
	// of role tier.
	ownerOverride bool
}

// table is the complete authorization matrix. A missing entry denies.
var table = map[Resource]map[Action]rule{
	ResourceTitle: {
		ActionRead:   {public: true},
		ActionCreate: {minRole: sec.RoleAdmin},
		ActionUpdate: {minRole: sec.RoleAdmin},
		ActionDelete: {minRole: sec.RoleAdmin},
	},
	ResourceCategory: {
		ActionRead:   {public: true},
		ActionCreate: {minRole: sec.RoleAdmin},
		ActionDelete: {minRole: sec.RoleAdmin},
	},
	ResourceGenre: {
		ActionRead:   {public: true},
		ActionCreate: {minRole: sec.RoleAdmin},
		ActionDelete: {minRole: sec.RoleAdmin},
	},
	ResourceReview: {
		ActionRead:   {public: true},
		ActionCreate: {minRole: sec.RoleUser},
		ActionUpdate: {minRole: sec.RoleModerator, ownerOverride: true},
		ActionDelete: {minRole: sec.RoleModerator, ownerOverride: true},
	},
	ResourceComment: {
		ActionRead:   {public: true},
		ActionCreate: {minRole: sec.RoleUser},
		ActionUpdate: {minRole: sec.RoleModerator, ownerOverride: true},
		ActionDelete: {minRole: sec.RoleModerator, ownerOverride: true},
	},
	ResourceUser: {
		ActionRead:   {minRole: sec.RoleAdmin},
		ActionCreate: {minRole: sec.RoleAdmin},
		ActionUpdate: {minRole: sec.RoleAdmin},
		ActionDelete: {minRole: sec.RoleAdmin},
	},
	ResourceOwnProfile: {
		ActionRead:   {minRole: sec.RoleUser},
		ActionUpdate: {minRole: sec.RoleUser},
	},
}

// # Evaluation

// Evaluate returns the access decision for the requester performing action
// on a resource of the given kind.
//
// ownerID is the author/owner of the specific target instance; pass the
// empty string for collection-level operations where ownership does not
// apply (create, list).
func Evaluate(requester Requester, action Action, resource Resource, ownerID string) Decision {
	r, ok := table[resource][action]
	if !ok {
		// Undeclared (resource, action) pairs are never allowed.
		if requester.Authenticated {
			return DenyForbidden
		}
		return DenyUnauthenticated
	}

	if r.public {
		return Allow
	}

	if !requester.Authenticated {
		return DenyUnauthenticated
	}

	if r.ownerOverride && ownerID != "" && requester.UserID == ownerID {
		return Allow
	}

	if requester.Role.AtLeast(r.minRole) {
		return Allow
	}

	return DenyForbidden
}

// Err converts a Decision into the matching [apperr.AppError], or nil for Allow.
func Err(decision Decision) error {
	switch decision {
	case Allow:
		return nil
	case DenyUnauthenticated:
		return apperr.Unauthorized("Authentication required")
	default:
		return apperr.Forbidden("Insufficient permissions")
	}
}

// Check is the common Evaluate+Err shorthand used by services.
func Check(requester Requester, action Action, resource Resource, ownerID string) error {
	return Err(Evaluate(requester, action, resource, ownerID))
}
