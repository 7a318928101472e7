// internal/services/property_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gharkhoj/gharkhoj-backend/internal/models"
	"github.com/gharkhoj/gharkhoj-backend/internal/utils"
)

type PropertyService struct {
	db      *gorm.DB
	storage *StorageService
}

func NewPropertyService(db *gorm.DB, storage *StorageService) *PropertyService {
	return &PropertyService{db: db, storage: storage}
}

type CreatePropertyRequest struct {
	Title        string     `json:"title" validate:"required,min=3,max=200"`
	PropertyType string     `json:"property_type" validate:"required,oneof=flat house villa office shop plot warehouse"`
	ListingType  string     `json:"listing_type" validate:"required,oneof=buy rent"`
	Price        float64    `json:"price" validate:"required,gt=0"`
	PriceUnit    string     `json:"price_unit" validate:"omitempty,oneof=lakh crore month"`
	BHK          *int       `json:"bhk" validate:"omitempty,min=0"`
	AreaSqft     *float64   `json:"area_sqft" validate:"omitempty,gt=0"`
	CarpetArea   *float64   `json:"carpet_area" validate:"omitempty,gt=0"`
	FloorNumber  *int       `json:"floor_number"`
	TotalFloors  *int       `json:"total_floors"`
	AgeYears     *int       `json:"age_years" validate:"omitempty,min=0"`
	Furnished    string     `json:"furnished" validate:"omitempty,oneof=unfurnished semi fully"`
	Facing       string     `json:"facing" validate:"omitempty,max=20"`
	Description  string     `json:"description"`
	Amenities    []string   `json:"amenities" validate:"omitempty,dive,amenity"`
	Address      string     `json:"address" validate:"omitempty,max=300"`
	LocalityID   *uuid.UUID `json:"locality_id"`
}

type UpdatePropertyRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	PropertyType *string    `json:"property_type,omitempty" validate:"omitempty,oneof=flat house villa office shop plot warehouse"`
	ListingType  *string    `json:"listing_type,omitempty" validate:"omitempty,oneof=buy rent"`
	Price        *float64   `json:"price,omitempty" validate:"omitempty,gt=0"`
	PriceUnit    *string    `json:"price_unit,omitempty" validate:"omitempty,oneof=lakh crore month"`
	BHK          *int       `json:"bhk,omitempty" validate:"omitempty,min=0"`
	AreaSqft     *float64   `json:"area_sqft,omitempty" validate:"omitempty,gt=0"`
	CarpetArea   *float64   `json:"carpet_area,omitempty" validate:"omitempty,gt=0"`
	FloorNumber  *int       `json:"floor_number,omitempty"`
	TotalFloors  *int       `json:"total_floors,omitempty"`
	AgeYears     *int       `json:"age_years,omitempty" validate:"omitempty,min=0"`
	Furnished    *string    `json:"furnished,omitempty" validate:"omitempty,oneof=unfurnished semi fully"`
	Facing       *string    `json:"facing,omitempty" validate:"omitempty,max=20"`
	Description  *string    `json:"description,omitempty"`
	Amenities    []string   `json:"amenities,omitempty" validate:"omitempty,dive,amenity"`
	Address      *string    `json:"address,omitempty" validate:"omitempty,max=300"`
	LocalityID   *uuid.UUID `json:"locality_id,omitempty"`
}

// withCardAssociations preloads everything a card projection needs;
// images come back in sort order so primary-image fallback is cheap.
func withCardAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("Locality").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		})
}

// Search runs the public listing query: visibility scope, conjunctive
// filter clauses, sort, pagination. The total counts filtered rows
// before slicing.
func (s *PropertyService) Search(filters PropertyFilters, sort string, page utils.PageParams) ([]models.Property, int64, error) {
	query := s.db.Model(&models.Property{}).Scopes(models.PubliclyVisible)

	var zoneIDs []uuid.UUID
	if filters.Zone != nil {
		if err := s.db.Model(&models.Locality{}).
			Where("zone = ?", *filters.Zone).
			Pluck("id", &zoneIDs).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to resolve zone: %w", err)
		}
	}

	for _, clause := range filters.Clauses(zoneIDs) {
		query = clause(query)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	query = ApplySort(query, sort)
	query = utils.ApplyPagination(query, page)

	var properties []models.Property
	if err := withCardAssociations(query).Find(&properties).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch properties: %w", err)
	}

	return properties, total, nil
}

// GetPublic fetches a listing for a public detail view and bumps its
// view counter. Missing and inactive listings are both "not found";
// every successful fetch counts a view, repeat visitors included.
func (s *PropertyService) GetPublic(id uuid.UUID) (*models.Property, error) {
	var property models.Property
	query := withCardAssociations(s.db).Preload("Owner")
	if err := query.First(&property, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("property not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if property.Status == models.PropertyStatusInactive {
		return nil, errors.New("property not found")
	}

	if err := s.incrementViewCount(property.ID); err != nil {
		return nil, err
	}
	property.ViewsCount++

	return &property, nil
}

// GetPublicBySlug is the slug-addressed variant used by the page
// surface; semantics match GetPublic.
func (s *PropertyService) GetPublicBySlug(slug string) (*models.Property, error) {
	var property models.Property
	query := withCardAssociations(s.db).Preload("Owner")
	if err := query.First(&property, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("property not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if property.Status == models.PropertyStatusInactive {
		return nil, errors.New("property not found")
	}

	if err := s.incrementViewCount(property.ID); err != nil {
		return nil, err
	}
	property.ViewsCount++

	return &property, nil
}

// incrementViewCount is a single atomic UPDATE so concurrent detail
// fetches never lose increments.
func (s *PropertyService) incrementViewCount(propertyID uuid.UUID) error {
	return s.db.Model(&models.Property{}).Where("id = ?", propertyID).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

// Similar returns up to limit publicly visible listings sharing the
// locality or the property type, most viewed first.
func (s *PropertyService) Similar(property *models.Property, limit int) ([]models.Property, error) {
	query := s.db.Model(&models.Property{}).
		Scopes(models.PubliclyVisible).
		Where("id <> ?", property.ID)

	if property.LocalityID != nil {
		query = query.Where("locality_id = ? OR property_type = ?", *property.LocalityID, property.PropertyType)
	} else {
		query = query.Where("property_type = ?", property.PropertyType)
	}

	var similar []models.Property
	if err := withCardAssociations(query.Order("views_count DESC").Limit(limit)).
		Find(&similar).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch similar properties: %w", err)
	}

	return similar, nil
}

func (s *PropertyService) Featured(limit int) ([]models.Property, error) {
	var properties []models.Property
	query := s.db.Scopes(models.PubliclyVisible).
		Where("is_featured = ?", true).
		Order("created_at DESC").
		Limit(limit)
	if err := withCardAssociations(query).Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch featured properties: %w", err)
	}
	return properties, nil
}

// SuggestProperties backs the autocomplete endpoint: visible listings
// whose title or address contains the query.
func (s *PropertyService) SuggestProperties(q string, limit int) ([]models.Property, error) {
	pattern := "%" + q + "%"
	var properties []models.Property
	query := s.db.Scopes(models.PubliclyVisible).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(address) LIKE LOWER(?)", pattern, pattern).
		Limit(limit)
	if err := withCardAssociations(query).Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch suggestions: %w", err)
	}
	return properties, nil
}

type TypeCount struct {
	Name  models.PropertyType `json:"name"`
	Count int64               `json:"count"`
}

func (s *PropertyService) TypeCounts() ([]TypeCount, error) {
	var counts []TypeCount
	err := s.db.Model(&models.Property{}).
		Scopes(models.PubliclyVisible).
		Select("property_type AS name, COUNT(*) AS count").
		Group("property_type").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count property types: %w", err)
	}
	return counts, nil
}

type GlobalStats struct {
	TotalProperties int64 `json:"total_properties"`
	ForSale         int64 `json:"for_sale"`
	ForRent         int64 `json:"for_rent"`
	Localities      int64 `json:"localities"`
}

func (s *PropertyService) Stats() (*GlobalStats, error) {
	var stats GlobalStats

	visible := func() *gorm.DB {
		return s.db.Model(&models.Property{}).Scopes(models.PubliclyVisible)
	}

	if err := visible().Count(&stats.TotalProperties).Error; err != nil {
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}
	if err := visible().Where("listing_type = ?", models.ListingTypeBuy).Count(&stats.ForSale).Error; err != nil {
		return nil, fmt.Errorf("failed to count sale listings: %w", err)
	}
	if err := visible().Where("listing_type = ?", models.ListingTypeRent).Count(&stats.ForRent).Error; err != nil {
		return nil, fmt.Errorf("failed to count rent listings: %w", err)
	}
	if err := s.db.Model(&models.Locality{}).Count(&stats.Localities).Error; err != nil {
		return nil, fmt.Errorf("failed to count localities: %w", err)
	}

	return &stats, nil
}

// Create inserts an agent's listing. Slugs derive from the title and
// collisions get a numeric suffix. Listings start unapproved unless an
// admin creates them.
func (s *PropertyService) Create(userID uuid.UUID, isAdmin bool, req *CreatePropertyRequest) (*models.Property, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := models.ValidateAmenities(req.Amenities); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.LocalityID != nil {
		var count int64
		if err := s.db.Model(&models.Locality{}).Where("id = ?", *req.LocalityID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if count == 0 {
			return nil, errors.New("locality not found")
		}
	}

	slug := utils.UniqueSlug(utils.Slugify(req.Title), func(candidate string) bool {
		var count int64
		s.db.Model(&models.Property{}).Where("slug = ?", candidate).Count(&count)
		return count > 0
	})

	priceUnit := models.PriceUnit(req.PriceUnit)
	if priceUnit == "" {
		priceUnit = models.PriceUnitLakh
	}
	furnished := models.Furnishing(req.Furnished)
	if furnished == "" {
		furnished = models.FurnishingUnfurnished
	}

	property := &models.Property{
		Title:        req.Title,
		Slug:         slug,
		PropertyType: models.PropertyType(req.PropertyType),
		ListingType:  models.ListingType(req.ListingType),
		Price:        req.Price,
		PriceUnit:    priceUnit,
		BHK:          req.BHK,
		AreaSqft:     req.AreaSqft,
		CarpetArea:   req.CarpetArea,
		FloorNumber:  req.FloorNumber,
		TotalFloors:  req.TotalFloors,
		AgeYears:     req.AgeYears,
		Furnished:    furnished,
		Facing:       req.Facing,
		Description:  req.Description,
		Amenities:    models.AmenityList(req.Amenities),
		Address:      req.Address,
		LocalityID:   req.LocalityID,
		IsApproved:   isAdmin,
		Status:       models.PropertyStatusActive,
		UserID:       userID,
	}

	if err := s.db.Create(property).Error; err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	withCardAssociations(s.db).First(property, "id = ?", property.ID)

	return property, nil
}

// getOwned loads a listing and checks the actor may manage it.
func (s *PropertyService) getOwned(id, actorID uuid.UUID, isAdmin bool) (*models.Property, error) {
	var property models.Property
	if err := s.db.First(&property, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("property not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if property.UserID != actorID && !isAdmin {
		return nil, errors.New("unauthorized to manage this property")
	}

	return &property, nil
}

func (s *PropertyService) Update(id, actorID uuid.UUID, isAdmin bool, req *UpdatePropertyRequest) (*models.Property, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.Amenities != nil {
		if err := models.ValidateAmenities(req.Amenities); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
	}

	property, err := s.getOwned(id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.PropertyType != nil {
		updates["property_type"] = *req.PropertyType
	}
	if req.ListingType != nil {
		updates["listing_type"] = *req.ListingType
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.PriceUnit != nil {
		updates["price_unit"] = *req.PriceUnit
	}
	if req.BHK != nil {
		updates["bhk"] = *req.BHK
	}
	if req.AreaSqft != nil {
		updates["area_sqft"] = *req.AreaSqft
	}
	if req.CarpetArea != nil {
		updates["carpet_area"] = *req.CarpetArea
	}
	if req.FloorNumber != nil {
		updates["floor_number"] = *req.FloorNumber
	}
	if req.TotalFloors != nil {
		updates["total_floors"] = *req.TotalFloors
	}
	if req.AgeYears != nil {
		updates["age_years"] = *req.AgeYears
	}
	if req.Furnished != nil {
		updates["furnished"] = *req.Furnished
	}
	if req.Facing != nil {
		updates["facing"] = *req.Facing
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Amenities != nil {
		updates["amenities"] = models.AmenityList(req.Amenities)
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.LocalityID != nil {
		updates["locality_id"] = *req.LocalityID
	}

	if len(updates) > 0 {
		if err := s.db.Model(property).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update property: %w", err)
		}
	}

	withCardAssociations(s.db).First(property, "id = ?", id)

	return property, nil
}

// Delete removes a listing for good: images and enquiry logs go with
// it, and stored image files are cleaned up through the storage
// collaborator.
func (s *PropertyService) Delete(id, actorID uuid.UUID, isAdmin bool) error {
	property, err := s.getOwned(id, actorID, isAdmin)
	if err != nil {
		return err
	}

	var images []models.PropertyImage
	if err := s.db.Where("property_id = ?", property.ID).Find(&images).Error; err != nil {
		return fmt.Errorf("failed to load property images: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", property.ID).Delete(&models.PropertyImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", property.ID).Delete(&models.EnquiryLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(property).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	if s.storage != nil {
		for _, img := range images {
			s.storage.DeletePropertyImage(img.Filename)
		}
	}

	return nil
}

func (s *PropertyService) ChangeStatus(id, actorID uuid.UUID, isAdmin bool, status models.PropertyStatus) (*models.Property, error) {
	if !status.Valid() {
		return nil, errors.New("invalid status")
	}

	property, err := s.getOwned(id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(property).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	property.Status = status

	return property, nil
}

// OwnerProperties lists an agent's own listings regardless of approval
// or status, newest first.
func (s *PropertyService) OwnerProperties(userID uuid.UUID, page utils.PageParams) ([]models.Property, int64, error) {
	query := s.db.Model(&models.Property{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	var properties []models.Property
	err := withCardAssociations(utils.ApplyPagination(query.Order("created_at DESC"), page)).
		Find(&properties).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch properties: %w", err)
	}

	return properties, total, nil
}

type OwnerStats struct {
	MyProperties  int64             `json:"my_properties"`
	TotalViews    int64             `json:"total_views"`
	EnquiryClicks int64             `json:"enquiry_clicks"`
	Recent        []models.Property `json:"-"`
}

func (s *PropertyService) OwnerDashboard(userID uuid.UUID) (*OwnerStats, error) {
	var stats OwnerStats

	if err := s.db.Model(&models.Property{}).Where("user_id = ?", userID).
		Count(&stats.MyProperties).Error; err != nil {
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}

	if err := s.db.Model(&models.Property{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(views_count), 0)").Scan(&stats.TotalViews).Error; err != nil {
		return nil, fmt.Errorf("failed to sum views: %w", err)
	}

	if err := s.db.Model(&models.EnquiryLog{}).
		Joins("JOIN properties ON properties.id = enquiry_logs.property_id").
		Where("properties.user_id = ?", userID).
		Count(&stats.EnquiryClicks).Error; err != nil {
		return nil, fmt.Errorf("failed to count enquiries: %w", err)
	}

	err := withCardAssociations(s.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(5)).
		Find(&stats.Recent).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent properties: %w", err)
	}

	return &stats, nil
}

// AddImage registers an uploaded file against a listing. The first
// image of an imageless listing becomes primary; new images append to
// the sort order.
func (s *PropertyService) AddImage(propertyID, actorID uuid.UUID, isAdmin bool, filename string) (*models.PropertyImage, error) {
	property, err := s.getOwned(propertyID, actorID, isAdmin)
	if err != nil {
		return nil, err
	}

	var existing int64
	if err := s.db.Model(&models.PropertyImage{}).Where("property_id = ?", property.ID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to count images: %w", err)
	}

	image := &models.PropertyImage{
		PropertyID: property.ID,
		Filename:   filename,
		IsPrimary:  existing == 0,
		SortOrder:  int(existing),
	}

	if err := s.db.Create(image).Error; err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	return image, nil
}

func (s *PropertyService) DeleteImage(propertyID, imageID, actorID uuid.UUID, isAdmin bool) error {
	property, err := s.getOwned(propertyID, actorID, isAdmin)
	if err != nil {
		return err
	}

	var image models.PropertyImage
	if err := s.db.First(&image, "id = ? AND property_id = ?", imageID, property.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("image not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Delete(&image).Error; err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	if s.storage != nil {
		s.storage.DeletePropertyImage(image.Filename)
	}

	return nil
}

// SetPrimaryImage flips the primary flag to exactly one image of the
// listing; the at-most-one invariant lives here, not in the schema.
func (s *PropertyService) SetPrimaryImage(propertyID, imageID, actorID uuid.UUID, isAdmin bool) error {
	property, err := s.getOwned(propertyID, actorID, isAdmin)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.PropertyImage{}).
		Where("id = ? AND property_id = ?", imageID, property.ID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return errors.New("image not found")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PropertyImage{}).
			Where("property_id = ?", property.ID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.PropertyImage{}).
			Where("id = ?", imageID).
			Update("is_primary", true).Error
	})
}
