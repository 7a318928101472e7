// internal/services/locality_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gharkhoj/gharkhoj-backend/internal/models"
	"github.com/gharkhoj/gharkhoj-backend/internal/utils"
)

type LocalityService struct {
	db *gorm.DB
}

func NewLocalityService(db *gorm.DB) *LocalityService {
	return &LocalityService{db: db}
}

type CreateLocalityRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Zone  string `json:"zone" validate:"required,min=2,max=100"`
	Image string `json:"image" validate:"omitempty,max=255"`
}

// LocalityWithCount is a locality plus its publicly visible listing
// count, as shown on the browse-by-area page.
type LocalityWithCount struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Zone          string    `json:"zone"`
	Slug          string    `json:"slug"`
	Image         string    `json:"image"`
	PropertyCount int64     `json:"property_count"`
}

type ZoneGroup struct {
	Zone       string              `json:"zone"`
	Localities []LocalityWithCount `json:"localities"`
}

// GroupedByZone returns every locality bucketed under its zone, each
// carrying a count of its visible listings. Zone order follows the
// localities table, so seeded zones come out in insertion order.
func (s *LocalityService) GroupedByZone() ([]ZoneGroup, error) {
	var rows []LocalityWithCount
	err := s.db.Model(&models.Locality{}).
		Select(`localities.id, localities.name, localities.zone, localities.slug, localities.image,
			COUNT(properties.id) AS property_count`).
		Joins(`LEFT JOIN properties ON properties.locality_id = localities.id
			AND properties.is_approved = ? AND properties.status = ?`, true, models.PropertyStatusActive).
		Group("localities.id, localities.name, localities.zone, localities.slug, localities.image").
		Order("localities.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch localities: %w", err)
	}

	var groups []ZoneGroup
	index := make(map[string]int)
	for _, row := range rows {
		i, ok := index[row.Zone]
		if !ok {
			i = len(groups)
			index[row.Zone] = i
			groups = append(groups, ZoneGroup{Zone: row.Zone})
		}
		groups[i].Localities = append(groups[i].Localities, row)
	}

	return groups, nil
}

// ZoneSummary is the zone-level rollup shown on the home screen.
type ZoneSummary struct {
	Name          string `json:"name"`
	PropertyCount int64  `json:"property_count"`
}

// ZoneSummaries aggregates visible listing counts per zone. Zones keep
// the order their first locality was created in.
func (s *LocalityService) ZoneSummaries() ([]ZoneSummary, error) {
	var summaries []ZoneSummary
	err := s.db.Model(&models.Locality{}).
		Select("localities.zone AS name, COUNT(properties.id) AS property_count").
		Joins(`LEFT JOIN properties ON properties.locality_id = localities.id
			AND properties.is_approved = ? AND properties.status = ?`, true, models.PropertyStatusActive).
		Group("localities.zone").
		Order("MIN(localities.created_at) ASC").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch zone summaries: %w", err)
	}
	return summaries, nil
}

func (s *LocalityService) Get(id uuid.UUID) (*models.Locality, error) {
	var locality models.Locality
	if err := s.db.First(&locality, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("locality not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &locality, nil
}

// PropertiesIn pages through the visible listings of one locality,
// newest first.
func (s *LocalityService) PropertiesIn(id uuid.UUID, page utils.PageParams) (*models.Locality, []models.Property, int64, error) {
	locality, err := s.Get(id)
	if err != nil {
		return nil, nil, 0, err
	}

	query := s.db.Model(&models.Property{}).
		Scopes(models.PubliclyVisible).
		Where("locality_id = ?", locality.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	var properties []models.Property
	err = withCardAssociations(utils.ApplyPagination(query.Order("created_at DESC"), page)).
		Find(&properties).Error
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to fetch properties: %w", err)
	}

	return locality, properties, total, nil
}

// SuggestLocalities backs the autocomplete endpoint with name matches.
func (s *LocalityService) SuggestLocalities(q string, limit int) ([]models.Locality, error) {
	pattern := "%" + q + "%"
	var localities []models.Locality
	err := s.db.Where("LOWER(name) LIKE LOWER(?)", pattern).
		Limit(limit).
		Find(&localities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locality suggestions: %w", err)
	}
	return localities, nil
}

// Create adds a locality. The slug comes from "name-zone" so the same
// neighbourhood name can exist in two zones; exact duplicates within a
// zone are rejected.
func (s *LocalityService) Create(req *CreateLocalityRequest) (*models.Locality, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.Locality{}).
		Where("LOWER(name) = LOWER(?) AND LOWER(zone) = LOWER(?)", req.Name, req.Zone).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, errors.New("locality already exists in this zone")
	}

	locality := &models.Locality{
		Name:  req.Name,
		Zone:  req.Zone,
		Slug:  utils.Slugify(req.Name + " " + req.Zone),
		Image: req.Image,
	}

	if err := s.db.Create(locality).Error; err != nil {
		return nil, fmt.Errorf("failed to create locality: %w", err)
	}

	return locality, nil
}

// Delete removes a locality; its listings keep existing with a null
// locality reference.
func (s *LocalityService) Delete(id uuid.UUID) error {
	locality, err := s.Get(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Property{}).
			Where("locality_id = ?", locality.ID).
			Update("locality_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(locality).Error
	})
}
