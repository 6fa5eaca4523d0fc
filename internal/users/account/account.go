// Copyright (c) 2026 Revory. All rights reserved.
// Author: d.kovalyov.dev@gmail.com

/*
Package account handles user directory management and profile self-service.

It provides the admin-only user directory (list, create, inspect, modify,
remove accounts) and the /users/me surface through which any authenticated
user maintains their own profile.

# Architecture

  - Entities: This package depends on the auth package for the User entity.
  - Security: Role changes are admin-only; the self-service path pins the
    stored role regardless of the payload.
*/
package account

import (
	"context"

	"github.com/dkovalyov/revory/internal/users/auth"
	"github.com/dkovalyov/revory/pkg/pagination"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for directory management.
type AccountRepository interface {
	/*
		List retrieves a page of accounts, optionally filtered by a
		case-insensitive username substring.

		Parameters:
		  - context: context.Context
		  - search: string (empty means no filter)
		  - params: pagination.Params

		Returns:
		  - []*auth.User: The requested page
		  - int: Total matching rows
		  - error: Storage failures
	*/
	List(context context.Context, search string, params pagination.Params) ([]*auth.User, int, error)

	/*
		FindByUsername retrieves a single account by its unique username.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: dberr.ErrNotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		FindByID retrieves a single account by its UUID.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: dberr.ErrNotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		Create inserts a fully-specified account (admin path: the role is
		taken from the payload, not defaulted).

		Returns:
		  - error: Constraint or storage failures
	*/
	Create(context context.Context, user *auth.User) error

	/*
		Update modifies the mutable fields of an existing account.

		Returns:
		  - error: dberr.ErrNotFound, constraint, or storage failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		DeleteByUsername removes an account.

		Returns:
		  - error: dberr.ErrNotFound or storage failures
	*/
	DeleteByUsername(context context.Context, username string) error
}
