package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lasoiree/venue-api/internal/domain"
	"github.com/lasoiree/venue-api/internal/repository/dao"
)

type VenueDAO interface {
	Insert(ctx context.Context, venue dao.Venue, ownerID uint) (dao.Venue, error)
	FindByID(ctx context.Context, id uint) (dao.Venue, error)
	FindByCode(ctx context.Context, code string) (dao.Venue, error)
	Update(ctx context.Context, venue dao.Venue) (dao.Venue, error)
	InsertTable(ctx context.Context, venueID uint, number int) (dao.Table, error)
	ListTables(ctx context.Context, venueID uint) ([]dao.Table, error)
	InsertMenuItem(ctx context.Context, item dao.MenuItem) (dao.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item dao.MenuItem) (dao.MenuItem, error)
	FindMenuItem(ctx context.Context, venueID uint, id uuid.UUID) (dao.MenuItem, error)
	ListMenuItems(ctx context.Context, venueID uint) ([]dao.MenuItem, error)
	InsertOffer(ctx context.Context, offer dao.Offer) (dao.Offer, error)
	UpdateOffer(ctx context.Context, offer dao.Offer) (dao.Offer, error)
	FindOffer(ctx context.Context, venueID uint, id uuid.UUID) (dao.Offer, error)
	ListOffers(ctx context.Context, venueID uint, activeOnly bool) ([]dao.Offer, error)
}

type VenueRepository struct {
	dao VenueDAO
}

func NewVenueRepository(dao VenueDAO) *VenueRepository {
	return &VenueRepository{
		dao: dao,
	}
}

func (r *VenueRepository) Create(ctx context.Context, venue domain.Venue, ownerID uint) (domain.Venue, error) {
	created, err := r.dao.Insert(ctx, venueDomainToDao(venue), ownerID)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("r.dao.Insert -> %w", translate(err))
	}

	return venueDaoToDomain(created), nil
}

func (r *VenueRepository) FindByID(ctx context.Context, id uint) (domain.Venue, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("r.dao.FindByID -> %w", translate(err))
	}

	return venueDaoToDomain(found), nil
}

func (r *VenueRepository) FindByCode(ctx context.Context, code string) (domain.Venue, error) {
	found, err := r.dao.FindByCode(ctx, code)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("r.dao.FindByCode -> %w", translate(err))
	}

	return venueDaoToDomain(found), nil
}

func (r *VenueRepository) Update(ctx context.Context, venue domain.Venue) (domain.Venue, error) {
	updated, err := r.dao.Update(ctx, venueDomainToDao(venue))
	if err != nil {
		return domain.Venue{}, fmt.Errorf("r.dao.Update -> %w", translate(err))
	}

	return venueDaoToDomain(updated), nil
}

func (r *VenueRepository) AddTable(ctx context.Context, venue domain.Venue, number int) (domain.Table, error) {
	created, err := r.dao.InsertTable(ctx, venue.ID, number)
	if err != nil {
		return domain.Table{}, fmt.Errorf("r.dao.InsertTable -> %w", translate(err))
	}

	return tableDaoToDomain(created, venue.Code), nil
}

func (r *VenueRepository) ListTables(ctx context.Context, venue domain.Venue) ([]domain.Table, error) {
	found, err := r.dao.ListTables(ctx, venue.ID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListTables -> %w", err)
	}

	tables := make([]domain.Table, 0, len(found))
	for _, t := range found {
		tables = append(tables, tableDaoToDomain(t, venue.Code))
	}

	return tables, nil
}

func (r *VenueRepository) AddMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	created, err := r.dao.InsertMenuItem(ctx, menuItemDomainToDao(item))
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("r.dao.InsertMenuItem -> %w", translate(err))
	}

	return menuItemDaoToDomain(created), nil
}

func (r *VenueRepository) UpdateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	updated, err := r.dao.UpdateMenuItem(ctx, menuItemDomainToDao(item))
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("r.dao.UpdateMenuItem -> %w", translate(err))
	}

	return menuItemDaoToDomain(updated), nil
}

func (r *VenueRepository) FindMenuItem(ctx context.Context, venueID uint, id uuid.UUID) (domain.MenuItem, error) {
	found, err := r.dao.FindMenuItem(ctx, venueID, id)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("r.dao.FindMenuItem -> %w", translate(err))
	}

	return menuItemDaoToDomain(found), nil
}

func (r *VenueRepository) ListMenu(ctx context.Context, venueID uint) ([]domain.MenuItem, error) {
	found, err := r.dao.ListMenuItems(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListMenuItems -> %w", err)
	}

	items := make([]domain.MenuItem, 0, len(found))
	for _, m := range found {
		items = append(items, menuItemDaoToDomain(m))
	}

	return items, nil
}

func (r *VenueRepository) AddOffer(ctx context.Context, offer domain.Offer) (domain.Offer, error) {
	created, err := r.dao.InsertOffer(ctx, offerDomainToDao(offer))
	if err != nil {
		return domain.Offer{}, fmt.Errorf("r.dao.InsertOffer -> %w", translate(err))
	}

	return offerDaoToDomain(created), nil
}

func (r *VenueRepository) UpdateOffer(ctx context.Context, offer domain.Offer) (domain.Offer, error) {
	updated, err := r.dao.UpdateOffer(ctx, offerDomainToDao(offer))
	if err != nil {
		return domain.Offer{}, fmt.Errorf("r.dao.UpdateOffer -> %w", translate(err))
	}

	return offerDaoToDomain(updated), nil
}

func (r *VenueRepository) FindOffer(ctx context.Context, venueID uint, id uuid.UUID) (domain.Offer, error) {
	found, err := r.dao.FindOffer(ctx, venueID, id)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("r.dao.FindOffer -> %w", translate(err))
	}

	return offerDaoToDomain(found), nil
}

func (r *VenueRepository) ListOffers(ctx context.Context, venueID uint, activeOnly bool) ([]domain.Offer, error) {
	found, err := r.dao.ListOffers(ctx, venueID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListOffers -> %w", err)
	}

	offers := make([]domain.Offer, 0, len(found))
	for _, o := range found {
		offers = append(offers, offerDaoToDomain(o))
	}

	return offers, nil
}

func venueDomainToDao(v domain.Venue) dao.Venue {
	venue := dao.Venue{
		ID:          v.ID,
		Code:        v.Code,
		Name:        v.Name,
		Description: v.Description,
		Category:    v.Category,
		City:        v.City,
		TableCount:  v.TableCount,
		Capacity:    v.Capacity,
	}
	if v.Geo != nil {
		venue.Latitude = &v.Geo.Lat
		venue.Longitude = &v.Geo.Lon
	}

	return venue
}

func venueDaoToDomain(v dao.Venue) domain.Venue {
	venue := domain.Venue{
		ID:          v.ID,
		Code:        v.Code,
		Name:        v.Name,
		Description: v.Description,
		Category:    v.Category,
		City:        v.City,
		TableCount:  v.TableCount,
		Capacity:    v.Capacity,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	if v.Latitude != nil && v.Longitude != nil {
		venue.Geo = &domain.GeoPoint{Lat: *v.Latitude, Lon: *v.Longitude}
	}

	return venue
}

func tableDaoToDomain(t dao.Table, venueCode string) domain.Table {
	return domain.Table{
		ID:          t.ID,
		VenueID:     t.VenueID,
		VenueCode:   venueCode,
		TableNumber: t.TableNumber,
		QRCode:      t.QRCode,
		IsOccupied:  t.IsOccupied,
	}
}

func menuItemDomainToDao(m domain.MenuItem) dao.MenuItem {
	return dao.MenuItem{
		ID:          m.ID,
		VenueID:     m.VenueID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price.Round(2),
		Discount:    m.Discount.Round(2),
		IsAvailable: m.IsAvailable,
		IsVeg:       m.IsVeg,
		Tag:         string(m.Tag),
	}
}

func menuItemDaoToDomain(m dao.MenuItem) domain.MenuItem {
	return domain.MenuItem{
		ID:          m.ID,
		VenueID:     m.VenueID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Discount:    m.Discount,
		IsAvailable: m.IsAvailable,
		IsVeg:       m.IsVeg,
		Tag:         domain.MenuTag(m.Tag),
	}
}

func offerDomainToDao(o domain.Offer) dao.Offer {
	offer := dao.Offer{
		ID:                 o.ID,
		VenueID:            o.VenueID,
		Type:               string(o.Type),
		Description:        o.Description,
		Level:              o.Level,
		StartDate:          o.StartDate,
		EndDate:            o.EndDate,
		IsEntryFeeRequired: o.IsEntryFeeRequired,
		IsActive:           o.IsActive,
	}
	if o.DiscountPercentage != nil {
		offer.DiscountPercentage = decimal.NewNullDecimal(o.DiscountPercentage.Round(2))
	}

	return offer
}

func offerDaoToDomain(o dao.Offer) domain.Offer {
	offer := domain.Offer{
		ID:                 o.ID,
		VenueID:            o.VenueID,
		Type:               domain.OfferType(o.Type),
		Description:        o.Description,
		Level:              o.Level,
		StartDate:          o.StartDate,
		EndDate:            o.EndDate,
		IsEntryFeeRequired: o.IsEntryFeeRequired,
		IsActive:           o.IsActive,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	if o.DiscountPercentage.Valid {
		d := o.DiscountPercentage.Decimal
		offer.DiscountPercentage = &d
	}

	return offer
}
