package services

import (
	"chat-relay/auth"
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"fmt"
	"strings"
	"time"
)

type IAuthService interface {
	Register(ctx context.Context, name string) (domain.User, Token, error)
	IssueToken(ctx context.Context, userID domain.UserID) (Token, error)
}

type Token string

func (t Token) String() string {
	return string(t)
}

// AuthService registers users and issues the tokens the websocket gateway validates.
// Passwords are handled upstream; a registered name is enough here.
type AuthService struct {
	uow    contract.IUnitOfWorkFactory
	tokens *auth.Tokens
	ttl    time.Duration
}

func NewAuthService(uow contract.IUnitOfWorkFactory, tokens *auth.Tokens, ttl time.Duration) IAuthService {
	return &AuthService{uow: uow, tokens: tokens, ttl: ttl}
}

func (s *AuthService) Register(ctx context.Context, name string) (domain.User, Token, error) {
	newUser := domain.NewUser{Name: strings.TrimSpace(name)}

	// 1. Validate before touching storage
	if err := newUser.Validate(); err != nil {
		return domain.User{}, "", fmt.Errorf("%w: %w", errors.ErrBadRequest, err)
	}

	// 2. Persist the user
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return domain.User{}, "", repoErr(err)
	}
	defer func() { _ = uow.Rollback(ctx) }()
	user, err := uow.Chats().AddUser(ctx, newUser.Name)
	if err != nil {
		return domain.User{}, "", repoErr(err)
	}
	if err := uow.Commit(ctx); err != nil {
		return domain.User{}, "", repoErr(err)
	}

	// 3. Issue the initial token
	token, err := s.tokens.GenerateToken(user.ID, user.Name, s.ttl)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("token generation: %w", err)
	}
	return user, Token(token), nil
}

// IssueToken signs a fresh token for an existing user.
func (s *AuthService) IssueToken(ctx context.Context, userID domain.UserID) (Token, error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return "", repoErr(err)
	}
	defer func() { _ = uow.Rollback(ctx) }()

	users, err := uow.Chats().GetUsers(ctx, []domain.UserID{userID})
	if err != nil {
		return "", notFoundAsBadRequest(err)
	}
	token, err := s.tokens.GenerateToken(userID, users[0].Name, s.ttl)
	if err != nil {
		return "", fmt.Errorf("token generation: %w", err)
	}
	return Token(token), nil
}
