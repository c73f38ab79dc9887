package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Email    string  `gorm:"unique;not null"`
	Password string  `gorm:"not null"`
	Phone    *string `gorm:"unique"`

	Name     string `gorm:"not null"`
	AgeGroup string
	Gender   string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Owner struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex;not null"`
	User      User `gorm:"foreignKey:UserID"`
	CreatedAt time.Time
}

type Manager struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex;not null"`
	User      User `gorm:"foreignKey:UserID"`
	CreatedAt time.Time
}

// Waiter works at one venue at a time; re-assignment moves VenueID.
type Waiter struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    uint  `gorm:"uniqueIndex;not null"`
	User      User  `gorm:"foreignKey:UserID"`
	VenueID   uint  `gorm:"index;not null"`
	Venue     Venue `gorm:"foreignKey:VenueID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "users_") {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		return User{}, notFound(result.Error, ErrUserNotFound)
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		return User{}, notFound(result.Error, ErrUserNotFound)
	}

	return user, nil
}

func (d *UserDAO) InsertOwner(ctx context.Context, userID uint) (Owner, error) {
	owner := Owner{UserID: userID}

	result := d.db.WithContext(ctx).Create(&owner)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "owners_user_id") {
			return Owner{}, ErrProfileExists
		}

		return Owner{}, result.Error
	}

	return owner, nil
}

func (d *UserDAO) FindOwnerByUserID(ctx context.Context, userID uint) (Owner, error) {
	var owner Owner

	result := d.db.WithContext(ctx).First(&owner, "user_id = ?", userID)
	if result.Error != nil {
		return Owner{}, notFound(result.Error, ErrOwnerNotFound)
	}

	return owner, nil
}

func (d *UserDAO) FindManagerByUserID(ctx context.Context, userID uint) (Manager, error) {
	var manager Manager

	result := d.db.WithContext(ctx).First(&manager, "user_id = ?", userID)
	if result.Error != nil {
		return Manager{}, notFound(result.Error, ErrManagerNotFound)
	}

	return manager, nil
}

func (d *UserDAO) FindWaiterByID(ctx context.Context, id uint) (Waiter, error) {
	var waiter Waiter

	result := d.db.WithContext(ctx).Preload("User").Preload("Venue").First(&waiter, id)
	if result.Error != nil {
		return Waiter{}, notFound(result.Error, ErrWaiterNotFound)
	}

	return waiter, nil
}

func (d *UserDAO) FindWaiterByUserID(ctx context.Context, userID uint) (Waiter, error) {
	var waiter Waiter

	result := d.db.WithContext(ctx).Preload("User").Preload("Venue").First(&waiter, "user_id = ?", userID)
	if result.Error != nil {
		return Waiter{}, notFound(result.Error, ErrWaiterNotFound)
	}

	return waiter, nil
}

func (d *UserDAO) OwnerVenueCodes(ctx context.Context, ownerID uint) ([]string, error) {
	var codes []string

	result := d.db.WithContext(ctx).Table("venue_owners").
		Joins("JOIN venues ON venues.id = venue_owners.venue_id").
		Where("venue_owners.owner_id = ?", ownerID).
		Order("venues.code").
		Pluck("venues.code", &codes)
	if result.Error != nil {
		return nil, result.Error
	}

	return codes, nil
}

func (d *UserDAO) ManagerVenueCodes(ctx context.Context, managerID uint) ([]string, error) {
	var codes []string

	result := d.db.WithContext(ctx).Table("venue_managers").
		Joins("JOIN venues ON venues.id = venue_managers.venue_id").
		Where("venue_managers.manager_id = ?", managerID).
		Order("venues.code").
		Pluck("venues.code", &codes)
	if result.Error != nil {
		return nil, result.Error
	}

	return codes, nil
}

func (d *UserDAO) IsVenueOwner(ctx context.Context, ownerID, venueID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&VenueOwner{}).
		Where("owner_id = ? AND venue_id = ?", ownerID, venueID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *UserDAO) IsVenueManager(ctx context.Context, managerID, venueID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&VenueManager{}).
		Where("manager_id = ? AND venue_id = ?", managerID, venueID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// AppointManager creates the manager profile if needed and links it to the venue.
func (d *UserDAO) AppointManager(ctx context.Context, userID, venueID uint) (Manager, error) {
	var manager Manager

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(Manager{UserID: userID}).FirstOrCreate(&manager).Error; err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&VenueManager{VenueID: venueID, ManagerID: manager.ID}).Error
	})
	if err != nil {
		return Manager{}, err
	}

	return manager, nil
}

// AssignWaiter creates the waiter profile or moves an existing one to venueID.
func (d *UserDAO) AssignWaiter(ctx context.Context, userID, venueID uint) (Waiter, error) {
	var waiter Waiter

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&waiter, "user_id = ?", userID).Error
		switch {
		case err == nil:
			return tx.Model(&waiter).Update("venue_id", venueID).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			waiter = Waiter{UserID: userID, VenueID: venueID}
			return tx.Create(&waiter).Error
		default:
			return err
		}
	})
	if err != nil {
		return Waiter{}, err
	}

	return d.FindWaiterByID(ctx, waiter.ID)
}
