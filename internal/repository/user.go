package repository

import (
	"context"
	"fmt"

	"github.com/lasoiree/venue-api/internal/domain"
	"github.com/lasoiree/venue-api/internal/repository/dao"
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	InsertOwner(ctx context.Context, userID uint) (dao.Owner, error)
	FindOwnerByUserID(ctx context.Context, userID uint) (dao.Owner, error)
	FindManagerByUserID(ctx context.Context, userID uint) (dao.Manager, error)
	FindWaiterByID(ctx context.Context, id uint) (dao.Waiter, error)
	FindWaiterByUserID(ctx context.Context, userID uint) (dao.Waiter, error)
	OwnerVenueCodes(ctx context.Context, ownerID uint) ([]string, error)
	ManagerVenueCodes(ctx context.Context, managerID uint) ([]string, error)
	IsVenueOwner(ctx context.Context, ownerID, venueID uint) (bool, error)
	IsVenueManager(ctx context.Context, managerID, venueID uint) (bool, error)
	AppointManager(ctx context.Context, userID, venueID uint) (dao.Manager, error)
	AssignWaiter(ctx context.Context, userID, venueID uint) (dao.Waiter, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	row := dao.User{
		Email:    user.Email,
		Password: user.Password,
		Name:     user.Name,
		AgeGroup: user.AgeGroup,
		Gender:   user.Gender,
	}
	if user.Phone != "" {
		row.Phone = &user.Phone
	}

	created, err := r.dao.Insert(ctx, row)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", translate(err))
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", translate(err))
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", translate(err))
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) CreateOwner(ctx context.Context, userID uint) (domain.Owner, error) {
	created, err := r.dao.InsertOwner(ctx, userID)
	if err != nil {
		return domain.Owner{}, fmt.Errorf("r.dao.InsertOwner -> %w", translate(err))
	}

	return domain.Owner{ID: created.ID, UserID: created.UserID, Venues: []string{}}, nil
}

func (r *UserRepository) FindOwner(ctx context.Context, userID uint) (domain.Owner, error) {
	found, err := r.dao.FindOwnerByUserID(ctx, userID)
	if err != nil {
		return domain.Owner{}, fmt.Errorf("r.dao.FindOwnerByUserID -> %w", translate(err))
	}

	venues, err := r.dao.OwnerVenueCodes(ctx, found.ID)
	if err != nil {
		return domain.Owner{}, fmt.Errorf("r.dao.OwnerVenueCodes -> %w", err)
	}

	return domain.Owner{ID: found.ID, UserID: found.UserID, Venues: nonNil(venues)}, nil
}

func (r *UserRepository) FindManager(ctx context.Context, userID uint) (domain.Manager, error) {
	found, err := r.dao.FindManagerByUserID(ctx, userID)
	if err != nil {
		return domain.Manager{}, fmt.Errorf("r.dao.FindManagerByUserID -> %w", translate(err))
	}

	venues, err := r.dao.ManagerVenueCodes(ctx, found.ID)
	if err != nil {
		return domain.Manager{}, fmt.Errorf("r.dao.ManagerVenueCodes -> %w", err)
	}

	return domain.Manager{ID: found.ID, UserID: found.UserID, Venues: nonNil(venues)}, nil
}

func (r *UserRepository) FindWaiter(ctx context.Context, userID uint) (domain.Waiter, error) {
	found, err := r.dao.FindWaiterByUserID(ctx, userID)
	if err != nil {
		return domain.Waiter{}, fmt.Errorf("r.dao.FindWaiterByUserID -> %w", translate(err))
	}

	return waiterDaoToDomain(found), nil
}

func (r *UserRepository) FindWaiterByID(ctx context.Context, id uint) (domain.Waiter, error) {
	found, err := r.dao.FindWaiterByID(ctx, id)
	if err != nil {
		return domain.Waiter{}, fmt.Errorf("r.dao.FindWaiterByID -> %w", translate(err))
	}

	return waiterDaoToDomain(found), nil
}

func (r *UserRepository) IsVenueOwner(ctx context.Context, ownerID, venueID uint) (bool, error) {
	ok, err := r.dao.IsVenueOwner(ctx, ownerID, venueID)
	if err != nil {
		return false, fmt.Errorf("r.dao.IsVenueOwner -> %w", err)
	}

	return ok, nil
}

func (r *UserRepository) IsVenueManager(ctx context.Context, managerID, venueID uint) (bool, error) {
	ok, err := r.dao.IsVenueManager(ctx, managerID, venueID)
	if err != nil {
		return false, fmt.Errorf("r.dao.IsVenueManager -> %w", err)
	}

	return ok, nil
}

func (r *UserRepository) AppointManager(ctx context.Context, userID, venueID uint) (domain.Manager, error) {
	if _, err := r.dao.AppointManager(ctx, userID, venueID); err != nil {
		return domain.Manager{}, fmt.Errorf("r.dao.AppointManager -> %w", translate(err))
	}

	return r.FindManager(ctx, userID)
}

func (r *UserRepository) AssignWaiter(ctx context.Context, userID, venueID uint) (domain.Waiter, error) {
	assigned, err := r.dao.AssignWaiter(ctx, userID, venueID)
	if err != nil {
		return domain.Waiter{}, fmt.Errorf("r.dao.AssignWaiter -> %w", translate(err))
	}

	return waiterDaoToDomain(assigned), nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	user := domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Name:      u.Name,
		AgeGroup:  u.AgeGroup,
		Gender:    u.Gender,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Phone != nil {
		user.Phone = *u.Phone
	}

	return user
}

func waiterDaoToDomain(w dao.Waiter) domain.Waiter {
	return domain.Waiter{
		ID:        w.ID,
		UserID:    w.UserID,
		Name:      w.User.Name,
		VenueID:   w.VenueID,
		VenueCode: w.Venue.Code,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
