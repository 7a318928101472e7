// internal/services/property_filters.go
package services

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gharkhoj/gharkhoj-backend/internal/models"
)

// PropertyFilters holds the normalized search parameters. A nil (or
// empty) field means the filter was absent or malformed and must not be
// applied; all present filters combine conjunctively.
type PropertyFilters struct {
	ListingType  *models.ListingType
	PropertyType *models.PropertyType
	LocalityID   *uuid.UUID
	Zone         *string
	BHK          []int
	Furnished    *models.Furnishing
	MinPrice     *float64
	MaxPrice     *float64
	Query        string
}

// ParsePropertyFilters normalizes raw query parameters. Unrecognized
// parameters are ignored; a malformed value drops its own filter and
// never fails the request.
func ParsePropertyFilters(values url.Values) PropertyFilters {
	var f PropertyFilters

	if v := values.Get("listing_type"); v != "" {
		if lt := models.ListingType(v); lt.Valid() {
			f.ListingType = &lt
		}
	}

	if v := values.Get("property_type"); v != "" {
		if pt := models.PropertyType(v); pt.Valid() {
			f.PropertyType = &pt
		}
	}

	if v := values.Get("locality"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.LocalityID = &id
		}
	}

	if v := values.Get("zone"); v != "" {
		f.Zone = &v
	}

	if v := values.Get("bhk"); v != "" {
		for _, part := range strings.Split(v, ",") {
			if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && n >= 0 {
				f.BHK = append(f.BHK, n)
			}
		}
	}

	if v := values.Get("furnished"); v != "" {
		if fu := models.Furnishing(v); fu.Valid() {
			f.Furnished = &fu
		}
	}

	if v := values.Get("min_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &p
		}
	}

	if v := values.Get("max_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &p
		}
	}

	f.Query = strings.TrimSpace(values.Get("q"))

	return f
}

// Clauses returns one independent predicate per present filter; callers
// apply them via db.Scopes so each clause stays testable in isolation.
// zoneLocalityIDs is the resolved locality set for f.Zone; a zone that
// resolves to no localities yields zero results rather than silently
// dropping the constraint.
func (f PropertyFilters) Clauses(zoneLocalityIDs []uuid.UUID) []func(*gorm.DB) *gorm.DB {
	var clauses []func(*gorm.DB) *gorm.DB

	if f.ListingType != nil {
		lt := *f.ListingType
		clauses = append(clauses, func(db *gorm.DB) *gorm.DB {
			return db.Where("listing_type = ?", lt)
		})
	}

	if f.PropertyType != nil {
		pt := *f.PropertyType
		clauses = append(clauses, func(db *gorm.DB) *gorm.DB {
			return db.Where("property_type = ?", pt)
		})
	}

	if f.LocalityID != nil {
		id := *f.LocalityID
		clauses = append(clauses, func(db *gorm.DB) *gorm.DB {
			return db.Where("locality_id = ?", id)
		})
	}

	if f.Zone != nil {
		ids := zoneLocalityIDs
		clauses = append(clauses, func(db *gorm.DB) *gorm.DB {
			return db.Where("locality_id IN ?", ids)
		})
	}

	if len(f.BHK) > 0 {
		bhk := f.BHK
		clauses = append(clauses, func(db *gorm.DB) *gorm.DB {
			return db.Where("bhk IN ?", bhk)
		})
	}

	if f.Furnished != nil {
		fu := *f.Furnished
		clauses = append(clauses, func(db *gorm.DB) *gorm.DB {
			return db.Where("furnished = ?", fu)
		})
	}

	// Price bounds compare raw numbers across price units on purpose; a
	// crore-priced listing stored as 4.5 sits below a lakh-priced 100.
	if f.MinPrice != nil {
		min := *f.MinPrice
		clauses = append(clauses, func(db *gorm.DB) *gorm.DB {
			return db.Where("price >= ?", min)
		})
	}

	if f.MaxPrice != nil {
		max := *f.MaxPrice
		clauses = append(clauses, func(db *gorm.DB) *gorm.DB {
			return db.Where("price <= ?", max)
		})
	}

	if f.Query != "" {
		pattern := "%" + strings.ToLower(f.Query) + "%"
		clauses = append(clauses, func(db *gorm.DB) *gorm.DB {
			return db.Where(
				"LOWER(title) LIKE ? OR LOWER(address) LIKE ? OR LOWER(description) LIKE ?",
				pattern, pattern, pattern,
			)
		})
	}

	return clauses
}

// Sort keys understood by ApplySort.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortArea      = "area"
)

// ApplySort maps a sort key to a deterministic ordering. Unknown keys
// fall back to newest-first.
func ApplySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case SortPriceLow:
		return db.Order("price ASC")
	case SortPriceHigh:
		return db.Order("price DESC")
	case SortArea:
		return db.Order("area_sqft DESC NULLS LAST")
	default:
		return db.Order("created_at DESC")
	}
}
