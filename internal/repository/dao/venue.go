package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lasoiree/venue-api/internal/domain"
)

// Sequence is a named counter read-modify-written under a row lock.
type Sequence struct {
	Name  string `gorm:"primaryKey;size:32"`
	Value int    `gorm:"not null"`
}

type Venue struct {
	ID          uint   `gorm:"primaryKey"`
	Code        string `gorm:"uniqueIndex:idx_venues_code;size:16;not null"`
	Name        string `gorm:"not null"`
	Description string
	Category    string
	City        string `gorm:"not null"`
	Latitude    *float64
	Longitude   *float64
	TableCount  int `gorm:"not null"`
	Capacity    int `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type VenueOwner struct {
	VenueID   uint `gorm:"primaryKey"`
	OwnerID   uint `gorm:"primaryKey"`
	CreatedAt time.Time
}

type VenueManager struct {
	VenueID   uint `gorm:"primaryKey"`
	ManagerID uint `gorm:"primaryKey"`
	CreatedAt time.Time
}

type Table struct {
	ID          uint   `gorm:"primaryKey"`
	VenueID     uint   `gorm:"not null;uniqueIndex:idx_tables_venue_number"`
	Venue       Venue  `gorm:"foreignKey:VenueID"`
	TableNumber int    `gorm:"not null;uniqueIndex:idx_tables_venue_number"`
	QRCode      string `gorm:"uniqueIndex:idx_tables_qr_code;size:64;not null"`
	IsOccupied  bool   `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MenuItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VenueID     uint            `gorm:"index;not null"`
	Name        string          `gorm:"not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Discount    decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	IsAvailable bool            `gorm:"not null"`
	IsVeg       bool            `gorm:"not null"`
	Tag         string          `gorm:"size:32;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type Offer struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	VenueID            uint      `gorm:"index;not null"`
	Type               string    `gorm:"size:32;not null"`
	Description        string    `gorm:"type:text"`
	Level              *int
	StartDate          time.Time `gorm:"not null"`
	EndDate            *time.Time
	DiscountPercentage decimal.NullDecimal `gorm:"type:numeric(5,2)"`
	IsEntryFeeRequired bool                `gorm:"not null"`
	IsActive           bool                `gorm:"not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type VenueDAO struct {
	db *gorm.DB
}

func NewVenueDAO(db *gorm.DB) *VenueDAO {
	return &VenueDAO{
		db: db,
	}
}

// Insert assigns the next venue code, creates tables 1..TableCount and links
// the registering owner, all in one transaction.
func (d *VenueDAO) Insert(ctx context.Context, venue Venue, ownerID uint) (Venue, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq Sequence
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&seq, "name = ?", venueSequence).Error; err != nil {
			return err
		}

		seq.Value++
		if err := tx.Model(&seq).Update("value", seq.Value).Error; err != nil {
			return err
		}

		venue.Code = domain.FormatVenueCode(seq.Value)
		if err := tx.Create(&venue).Error; err != nil {
			return err
		}

		if venue.TableCount > 0 {
			tables := make([]Table, 0, venue.TableCount)
			for n := 1; n <= venue.TableCount; n++ {
				tables = append(tables, Table{
					VenueID:     venue.ID,
					TableNumber: n,
					QRCode:      domain.FormatQRCode(venue.Code, n),
				})
			}
			if err := tx.Create(&tables).Error; err != nil {
				return err
			}
		}

		return tx.Create(&VenueOwner{VenueID: venue.ID, OwnerID: ownerID}).Error
	})
	if err != nil {
		return Venue{}, err
	}

	return venue, nil
}

func (d *VenueDAO) FindByID(ctx context.Context, id uint) (Venue, error) {
	var venue Venue

	result := d.db.WithContext(ctx).First(&venue, id)
	if result.Error != nil {
		return Venue{}, notFound(result.Error, ErrVenueNotFound)
	}

	return venue, nil
}

func (d *VenueDAO) FindByCode(ctx context.Context, code string) (Venue, error) {
	var venue Venue

	result := d.db.WithContext(ctx).First(&venue, "code = ?", code)
	if result.Error != nil {
		return Venue{}, notFound(result.Error, ErrVenueNotFound)
	}

	return venue, nil
}

func (d *VenueDAO) Update(ctx context.Context, venue Venue) (Venue, error) {
	result := d.db.WithContext(ctx).Model(&venue).
		Select("name", "description", "category", "city", "latitude", "longitude", "capacity").
		Updates(&venue)
	if result.Error != nil {
		return Venue{}, result.Error
	}

	return d.FindByID(ctx, venue.ID)
}

// InsertTable adds a table to the venue. A zero number picks max+1.
func (d *VenueDAO) InsertTable(ctx context.Context, venueID uint, number int) (Table, error) {
	var table Table

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var venue Venue
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&venue, venueID).Error; err != nil {
			return notFound(err, ErrVenueNotFound)
		}

		if number == 0 {
			var max int
			if err := tx.Model(&Table{}).Where("venue_id = ?", venueID).
				Select("COALESCE(MAX(table_number), 0)").Scan(&max).Error; err != nil {
				return err
			}
			number = max + 1
		}

		table = Table{
			VenueID:     venueID,
			TableNumber: number,
			QRCode:      domain.FormatQRCode(venue.Code, number),
		}
		if err := tx.Create(&table).Error; err != nil {
			if isUniqueViolation(err, "idx_tables_") {
				return ErrTableNumberExists
			}
			return err
		}

		var count int64
		if err := tx.Model(&Table{}).Where("venue_id = ?", venueID).Count(&count).Error; err != nil {
			return err
		}

		return tx.Model(&venue).Update("table_count", count).Error
	})
	if err != nil {
		return Table{}, err
	}

	return table, nil
}

func (d *VenueDAO) ListTables(ctx context.Context, venueID uint) ([]Table, error) {
	var tables []Table

	result := d.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("table_number").
		Find(&tables)
	if result.Error != nil {
		return nil, result.Error
	}

	return tables, nil
}

func (d *VenueDAO) InsertMenuItem(ctx context.Context, item MenuItem) (MenuItem, error) {
	result := d.db.WithContext(ctx).Create(&item)
	if result.Error != nil {
		return MenuItem{}, result.Error
	}

	return item, nil
}

func (d *VenueDAO) UpdateMenuItem(ctx context.Context, item MenuItem) (MenuItem, error) {
	result := d.db.WithContext(ctx).Model(&item).
		Select("name", "description", "price", "discount", "is_available", "is_veg", "tag").
		Updates(&item)
	if result.Error != nil {
		return MenuItem{}, result.Error
	}

	return d.FindMenuItem(ctx, item.VenueID, item.ID)
}

func (d *VenueDAO) FindMenuItem(ctx context.Context, venueID uint, id uuid.UUID) (MenuItem, error) {
	var item MenuItem

	result := d.db.WithContext(ctx).First(&item, "id = ? AND venue_id = ?", id, venueID)
	if result.Error != nil {
		return MenuItem{}, notFound(result.Error, ErrMenuItemNotFound)
	}

	return item, nil
}

func (d *VenueDAO) ListMenuItems(ctx context.Context, venueID uint) ([]MenuItem, error) {
	var items []MenuItem

	result := d.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("tag, name").
		Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

func (d *VenueDAO) InsertOffer(ctx context.Context, offer Offer) (Offer, error) {
	result := d.db.WithContext(ctx).Create(&offer)
	if result.Error != nil {
		return Offer{}, result.Error
	}

	return offer, nil
}

func (d *VenueDAO) UpdateOffer(ctx context.Context, offer Offer) (Offer, error) {
	result := d.db.WithContext(ctx).Model(&offer).
		Select("type", "description", "level", "start_date", "end_date",
			"discount_percentage", "is_entry_fee_required", "is_active").
		Updates(&offer)
	if result.Error != nil {
		return Offer{}, result.Error
	}

	return d.FindOffer(ctx, offer.VenueID, offer.ID)
}

func (d *VenueDAO) FindOffer(ctx context.Context, venueID uint, id uuid.UUID) (Offer, error) {
	var offer Offer

	result := d.db.WithContext(ctx).First(&offer, "id = ? AND venue_id = ?", id, venueID)
	if result.Error != nil {
		return Offer{}, notFound(result.Error, ErrOfferNotFound)
	}

	return offer, nil
}

func (d *VenueDAO) ListOffers(ctx context.Context, venueID uint, activeOnly bool) ([]Offer, error) {
	var offers []Offer

	query := d.db.WithContext(ctx).Where("venue_id = ?", venueID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	result := query.Order("start_date DESC").Find(&offers)
	if result.Error != nil {
		return nil, result.Error
	}

	return offers, nil
}
