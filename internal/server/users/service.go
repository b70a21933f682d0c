package users

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophcal/internal/common"
	"github.com/dmitrijs2005/gophcal/internal/cryptox"
	"github.com/dmitrijs2005/gophcal/internal/server/auth"
)

// dummyHash is verified against when the username is unknown, so a miss
// costs the same as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	h, _ := cryptox.HashPassword(string(common.GenerateRandByteArray(16)))
	return h
})

type Service struct {
	repo   Repository
	tokens *auth.TokenService
}

func NewService(repo Repository, tokens *auth.TokenService) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register stores a new user with a hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %w", common.ErrorInternal, err)
	}

	user, err := s.repo.Create(ctx, username, hash)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate returns the user id for valid credentials. Unknown user and
// wrong password both yield common.ErrorInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (int, error) {
	user, err := s.repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.VerifyPassword(dummyHash(), password)
			return 0, common.ErrorInvalidCredentials
		}
		return 0, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if !cryptox.VerifyPassword(user.Password, password) {
		return 0, common.ErrorInvalidCredentials
	}

	return user.ID, nil
}

// Login authenticates and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	id, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(id)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return token, nil
}
