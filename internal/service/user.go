package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lasoiree/venue-api/internal/domain"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	CreateOwner(ctx context.Context, userID uint) (domain.Owner, error)
	FindOwner(ctx context.Context, userID uint) (domain.Owner, error)
	FindManager(ctx context.Context, userID uint) (domain.Manager, error)
	FindWaiter(ctx context.Context, userID uint) (domain.Waiter, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// ResolveActor loads the profile behind a role claim. Every request goes
// through here, so a revoked or moved profile takes effect immediately.
func (s *UserService) ResolveActor(ctx context.Context, userID uint, role domain.Role) (domain.Actor, error) {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	switch role {
	case domain.RoleCustomer:
		return domain.NewCustomerActor(userID), nil
	case domain.RoleOwner:
		owner, err := s.repo.FindOwner(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("s.repo.FindOwner -> %w", err)
		}
		return domain.NewOwnerActor(userID, owner.ID), nil
	case domain.RoleManager:
		manager, err := s.repo.FindManager(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("s.repo.FindManager -> %w", err)
		}
		return domain.NewManagerActor(userID, manager.ID), nil
	case domain.RoleWaiter:
		waiter, err := s.repo.FindWaiter(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrWaiterNotFound) {
				return nil, domain.ErrRoleNotHeld
			}
			return nil, fmt.Errorf("s.repo.FindWaiter -> %w", err)
		}
		return domain.NewWaiterActor(userID, waiter.ID, waiter.VenueID), nil
	}

	return nil, domain.ErrInvalidRole
}

// ListRoles returns every role the user can log in as. Customer is always present.
func (s *UserService) ListRoles(ctx context.Context, userID uint) ([]domain.RoleBinding, error) {
	bindings := []domain.RoleBinding{{Role: domain.RoleCustomer, ProfileID: userID}}

	owner, err := s.repo.FindOwner(ctx, userID)
	switch {
	case err == nil:
		bindings = append(bindings, domain.RoleBinding{Role: domain.RoleOwner, ProfileID: owner.ID, Venues: owner.Venues})
	case !errors.Is(err, domain.ErrRoleNotHeld):
		return nil, fmt.Errorf("s.repo.FindOwner -> %w", err)
	}

	manager, err := s.repo.FindManager(ctx, userID)
	switch {
	case err == nil:
		bindings = append(bindings, domain.RoleBinding{Role: domain.RoleManager, ProfileID: manager.ID, Venues: manager.Venues})
	case !errors.Is(err, domain.ErrRoleNotHeld):
		return nil, fmt.Errorf("s.repo.FindManager -> %w", err)
	}

	waiter, err := s.repo.FindWaiter(ctx, userID)
	switch {
	case err == nil:
		bindings = append(bindings, domain.RoleBinding{Role: domain.RoleWaiter, ProfileID: waiter.ID, Venues: []string{waiter.VenueCode}})
	case !errors.Is(err, domain.ErrWaiterNotFound):
		return nil, fmt.Errorf("s.repo.FindWaiter -> %w", err)
	}

	return bindings, nil
}

// BecomeOwner registers the user as a venue partner.
func (s *UserService) BecomeOwner(ctx context.Context, userID uint) (domain.Owner, error) {
	owner, err := s.repo.CreateOwner(ctx, userID)
	if err != nil {
		return domain.Owner{}, fmt.Errorf("s.repo.CreateOwner -> %w", err)
	}

	return owner, nil
}
