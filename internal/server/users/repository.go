package users

import (
	"context"
)

type Repository interface {
	// Create assigns the next id and stores the user. It fails with
	// common.ErrorDuplicateUsername when the username is taken.
	Create(ctx context.Context, username, password string) (*User, error)
	// GetUserByLogin returns common.ErrorNotFound when no user matches.
	GetUserByLogin(ctx context.Context, username string) (*User, error)
}
