package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Booking rows with ongoing=true are unique per table
// (idx_bookings_one_ongoing_per_table, created in InitTables).
type Booking struct {
	ID           uint                 `gorm:"primaryKey"`
	VenueID      uint                 `gorm:"index;not null"`
	Venue        Venue                `gorm:"foreignKey:VenueID"`
	TableID      uint                 `gorm:"index;not null"`
	Table        Table                `gorm:"foreignKey:TableID"`
	WaiterID     *uint                `gorm:"index"`
	Ongoing      bool                 `gorm:"not null"`
	TotalBill    decimal.Decimal      `gorm:"type:numeric(12,2);not null"`
	Participants []BookingParticipant `gorm:"foreignKey:BookingID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	EndedAt      *time.Time
}

type BookingParticipant struct {
	BookingID uint `gorm:"primaryKey"`
	UserID    uint `gorm:"primaryKey;index"`
	JoinedAt  time.Time
}

type Cart struct {
	ID        uint            `gorm:"primaryKey"`
	BookingID uint            `gorm:"uniqueIndex;not null"`
	TotalBill decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Items     []CartItem      `gorm:"foreignKey:CartID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID         uint            `gorm:"primaryKey"`
	CartID     uint            `gorm:"not null;uniqueIndex:idx_cart_items_cart_menu"`
	MenuItemID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_menu"`
	Name       string          `gorm:"not null"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type BookingDAO struct {
	db *gorm.DB
}

func NewBookingDAO(db *gorm.DB) *BookingDAO {
	return &BookingDAO{
		db: db,
	}
}

// Transaction runs fn with a BookingDAO bound to a single database transaction.
func (d *BookingDAO) Transaction(ctx context.Context, fn func(tx *BookingDAO) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingDAO{db: tx})
	})
}

// Venues returns a VenueDAO sharing this DAO's connection or transaction.
func (d *BookingDAO) Venues() *VenueDAO {
	return &VenueDAO{db: d.db}
}

// Users returns a UserDAO sharing this DAO's connection or transaction.
func (d *BookingDAO) Users() *UserDAO {
	return &UserDAO{db: d.db}
}

func (d *BookingDAO) FindTableByQR(ctx context.Context, qrCode string, forUpdate bool) (Table, error) {
	var table Table

	query := d.db.WithContext(ctx).Preload("Venue")
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	result := query.First(&table, "qr_code = ?", qrCode)
	if result.Error != nil {
		return Table{}, notFound(result.Error, ErrTableNotFound)
	}

	return table, nil
}

// OccupyTable flips is_occupied false -> true. It fails with ErrTableOccupied
// when another writer got there first.
func (d *BookingDAO) OccupyTable(ctx context.Context, tableID uint) error {
	result := d.db.WithContext(ctx).Model(&Table{}).
		Where("id = ? AND is_occupied = ?", tableID, false).
		Update("is_occupied", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTableOccupied
	}

	return nil
}

func (d *BookingDAO) ReleaseTable(ctx context.Context, tableID uint) error {
	return d.db.WithContext(ctx).Model(&Table{}).
		Where("id = ?", tableID).
		Update("is_occupied", false).Error
}

func (d *BookingDAO) Insert(ctx context.Context, booking Booking) (Booking, error) {
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&booking)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "idx_bookings_one_ongoing_per_table") {
			return Booking{}, ErrOngoingBooking
		}

		return Booking{}, result.Error
	}

	return booking, nil
}

func (d *BookingDAO) FindByID(ctx context.Context, id uint, forUpdate bool) (Booking, error) {
	var booking Booking

	query := d.db.WithContext(ctx).
		Preload("Venue").
		Preload("Table").
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("joined_at, user_id") })
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	result := query.First(&booking, id)
	if result.Error != nil {
		return Booking{}, notFound(result.Error, ErrBookingNotFound)
	}

	return booking, nil
}

func (d *BookingDAO) FindOngoingByTable(ctx context.Context, tableID uint) (Booking, error) {
	var booking Booking

	result := d.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("table_id = ? AND ongoing = ?", tableID, true).
		First(&booking)
	if result.Error != nil {
		return Booking{}, notFound(result.Error, ErrBookingNotFound)
	}

	return d.FindByID(ctx, booking.ID, false)
}

func (d *BookingDAO) ListByVenue(ctx context.Context, venueID uint, ongoing *bool) ([]Booking, error) {
	var bookings []Booking

	query := d.db.WithContext(ctx).
		Preload("Venue").
		Preload("Table").
		Preload("Participants").
		Where("venue_id = ?", venueID)
	if ongoing != nil {
		query = query.Where("ongoing = ?", *ongoing)
	}

	result := query.Order("created_at DESC, id DESC").Find(&bookings)
	if result.Error != nil {
		return nil, result.Error
	}

	return bookings, nil
}

func (d *BookingDAO) InsertParticipant(ctx context.Context, bookingID, userID uint) error {
	result := d.db.WithContext(ctx).Create(&BookingParticipant{
		BookingID: bookingID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	})
	if result.Error != nil {
		if isUniqueViolation(result.Error, "booking_participants_pkey") {
			return ErrParticipantExists
		}

		return result.Error
	}

	return nil
}

// AssignWaiter sets the waiter only while none is assigned. It reports whether the row changed.
func (d *BookingDAO) AssignWaiter(ctx context.Context, bookingID, waiterID uint) (bool, error) {
	result := d.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND waiter_id IS NULL AND ongoing = ?", bookingID, true).
		Update("waiter_id", waiterID)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// End closes an ongoing booking. It reports whether the row changed.
func (d *BookingDAO) End(ctx context.Context, bookingID uint, at time.Time) (bool, error) {
	result := d.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND ongoing = ?", bookingID, true).
		Updates(map[string]interface{}{"ongoing": false, "ended_at": at})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (d *BookingDAO) SetTotal(ctx context.Context, bookingID uint, total decimal.Decimal) error {
	return d.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ?", bookingID).
		Update("total_bill", total).Error
}

func (d *BookingDAO) FindCart(ctx context.Context, bookingID uint) (Cart, error) {
	var cart Cart

	result := d.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&cart, "booking_id = ?", bookingID)
	if result.Error != nil {
		return Cart{}, notFound(result.Error, ErrCartNotFound)
	}

	return cart, nil
}

// LockCart locks the booking's cart row, creating the cart on first use.
func (d *BookingDAO) LockCart(ctx context.Context, bookingID uint) (Cart, error) {
	cart := Cart{BookingID: bookingID, TotalBill: decimal.Zero}

	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "booking_id"}}, DoNothing: true}).
		Create(&cart)
	if result.Error != nil {
		return Cart{}, result.Error
	}

	cart = Cart{}
	result = d.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&cart, "booking_id = ?", bookingID)
	if result.Error != nil {
		return Cart{}, notFound(result.Error, ErrCartNotFound)
	}

	return cart, nil
}

func (d *BookingDAO) ListCartItems(ctx context.Context, cartID uint) ([]CartItem, error) {
	var items []CartItem

	result := d.db.WithContext(ctx).Where("cart_id = ?", cartID).Order("id").Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

func (d *BookingDAO) FindCartItem(ctx context.Context, cartID uint, menuItemID uuid.UUID) (CartItem, error) {
	var item CartItem

	result := d.db.WithContext(ctx).First(&item, "cart_id = ? AND menu_item_id = ?", cartID, menuItemID)
	if result.Error != nil {
		return CartItem{}, notFound(result.Error, ErrCartItemNotFound)
	}

	return item, nil
}

// SaveCartItem inserts a new line or rewrites quantity and prices of an existing one.
func (d *BookingDAO) SaveCartItem(ctx context.Context, item CartItem) (CartItem, error) {
	if item.ID == 0 {
		if err := d.db.WithContext(ctx).Create(&item).Error; err != nil {
			return CartItem{}, err
		}

		return item, nil
	}

	result := d.db.WithContext(ctx).Model(&CartItem{ID: item.ID}).Updates(map[string]interface{}{
		"quantity":    item.Quantity,
		"unit_price":  item.UnitPrice,
		"total_price": item.TotalPrice,
	})
	if result.Error != nil {
		return CartItem{}, result.Error
	}

	return item, nil
}

func (d *BookingDAO) DeleteCartItem(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Delete(&CartItem{}, id).Error
}

func (d *BookingDAO) SetCartTotal(ctx context.Context, cartID uint, total decimal.Decimal) error {
	return d.db.WithContext(ctx).Model(&Cart{}).
		Where("id = ?", cartID).
		Update("total_bill", total).Error
}
