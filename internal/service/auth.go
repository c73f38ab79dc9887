package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/lasoiree/venue-api/internal/domain"
)

var ErrWrongCredentials = errors.New("wrong email or password")

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type ActorResolver interface {
	ResolveActor(ctx context.Context, userID uint, role domain.Role) (domain.Actor, error)
}

type AuthService struct {
	repo  AuthUserRepository
	roles ActorResolver
}

func NewAuthService(repo AuthUserRepository, roles ActorResolver) *AuthService {
	return &AuthService{
		repo:  repo,
		roles: roles,
	}
}

func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	hash, err := hashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = hash

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Login checks the password and that the user holds role before a token is issued.
func (s *AuthService) Login(ctx context.Context, email, password string, role domain.Role) (domain.User, domain.Actor, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, nil, ErrWrongCredentials
		}

		return domain.User{}, nil, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, nil, ErrWrongCredentials
	}

	actor, err := s.roles.ResolveActor(ctx, user.ID, role)
	if err != nil {
		return domain.User{}, nil, fmt.Errorf("s.roles.ResolveActor -> %w", err)
	}

	return user, actor, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
