package dao

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const venueSequence = "venue"

// Partial unique indexes. Both Postgres and SQLite accept this syntax.
var indexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_one_ongoing_per_table ON bookings (table_id) WHERE ongoing`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_presences_one_open ON presences (user_id, venue_id) WHERE time_out IS NULL`,
}

func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Owner{},
		&Manager{},
		&Sequence{},
		&Venue{},
		&VenueOwner{},
		&VenueManager{},
		&Waiter{},
		&Table{},
		&MenuItem{},
		&Offer{},
		&Booking{},
		&BookingParticipant{},
		&Cart{},
		&CartItem{},
		&Presence{},
	)
	if err != nil {
		return err
	}

	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Sequence{Name: venueSequence, Value: 0}).Error
}

// DropAllTables wipes the public schema. Postgres only.
func DropAllTables(db *gorm.DB) error {
	var tableNames []string
	if err := db.Table("information_schema.tables").
		Where("table_schema = ?", "public").
		Pluck("table_name", &tableNames).Error; err != nil {
		return err
	}

	for _, tableName := range tableNames {
		if err := db.Exec("DROP TABLE IF EXISTS " + tableName + " CASCADE").Error; err != nil {
			return err
		}
	}

	return nil
}
