package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Presence rows are never deleted; leaving sets TimeOut. At most one row per
// (user, venue) may be open (idx_presences_one_open).
type Presence struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	VenueID   uint      `gorm:"index;not null"`
	Venue     Venue     `gorm:"foreignKey:VenueID"`
	TimeIn    time.Time `gorm:"not null"`
	TimeOut   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PresenceDAO struct {
	db *gorm.DB
}

func NewPresenceDAO(db *gorm.DB) *PresenceDAO {
	return &PresenceDAO{
		db: db,
	}
}

// Open creates an open presence unless one already exists for (user, venue).
func (d *PresenceDAO) Open(ctx context.Context, userID, venueID uint, at time.Time) (Presence, error) {
	presence := Presence{UserID: userID, VenueID: venueID, TimeIn: at}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Presence{}).
			Where("user_id = ? AND venue_id = ? AND time_out IS NULL", userID, venueID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrPresenceOpen
		}

		if err := tx.Omit(clause.Associations).Create(&presence).Error; err != nil {
			if isUniqueViolation(err, "idx_presences_one_open") {
				return ErrPresenceOpen
			}
			return err
		}

		return nil
	})
	if err != nil {
		return Presence{}, err
	}

	return presence, nil
}

// LatestOpen returns the user's most recent open presence at any venue.
func (d *PresenceDAO) LatestOpen(ctx context.Context, userID uint) (Presence, error) {
	var presence Presence

	result := d.db.WithContext(ctx).
		Preload("Venue").
		Where("user_id = ? AND time_out IS NULL", userID).
		Order("time_in DESC, id DESC").
		First(&presence)
	if result.Error != nil {
		return Presence{}, notFound(result.Error, ErrPresenceNotFound)
	}

	return presence, nil
}

// Close sets time_out on an open presence. It reports whether the row changed.
func (d *PresenceDAO) Close(ctx context.Context, id uint, at time.Time) (bool, error) {
	result := d.db.WithContext(ctx).Model(&Presence{}).
		Where("id = ? AND time_out IS NULL", id).
		Update("time_out", at)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
