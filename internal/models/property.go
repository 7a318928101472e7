// internal/models/property.go
package models

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Property struct {
	BaseModel
	Title        string         `json:"title" gorm:"size:200;not null"`
	Slug         string         `json:"slug" gorm:"uniqueIndex;size:250;not null"`
	PropertyType PropertyType   `json:"property_type" gorm:"type:varchar(20);not null;index"`
	ListingType  ListingType    `json:"listing_type" gorm:"type:varchar(10);not null;index"`
	Price        float64        `json:"price" gorm:"not null"`
	PriceUnit    PriceUnit      `json:"price_unit" gorm:"type:varchar(10);default:'lakh'"`
	BHK          *int           `json:"bhk"`
	AreaSqft     *float64       `json:"area_sqft"`
	CarpetArea   *float64       `json:"carpet_area"`
	FloorNumber  *int           `json:"floor_number"`
	TotalFloors  *int           `json:"total_floors"`
	AgeYears     *int           `json:"age_years"`
	Furnished    Furnishing     `json:"furnished" gorm:"type:varchar(20);default:'unfurnished'"`
	Facing       string         `json:"facing" gorm:"size:20"`
	Description  string         `json:"description" gorm:"type:text"`
	Amenities    AmenityList    `json:"amenities" gorm:"type:text"`
	Address      string         `json:"address" gorm:"size:300"`
	LocalityID   *uuid.UUID     `json:"locality_id" gorm:"type:uuid;index"`
	IsFeatured   bool           `json:"is_featured" gorm:"default:false"`
	IsApproved   bool           `json:"is_approved" gorm:"default:false;index"`
	Status       PropertyStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	ViewsCount   int64          `json:"views_count" gorm:"default:0"`
	UserID       uuid.UUID      `json:"user_id" gorm:"type:uuid;index"`

	// Relationships
	Locality *Locality       `json:"locality,omitempty" gorm:"foreignKey:LocalityID"`
	Owner    *User           `json:"owner,omitempty" gorm:"foreignKey:UserID"`
	Images   []PropertyImage `json:"images,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

type PropertyImage struct {
	BaseModel
	PropertyID uuid.UUID `json:"property_id" gorm:"type:uuid;not null;index"`
	Filename   string    `json:"filename" gorm:"size:200;not null"`
	IsPrimary  bool      `json:"is_primary" gorm:"default:false"`
	SortOrder  int       `json:"sort_order" gorm:"default:0"`
}

// PubliclyVisible restricts a query to listings eligible for public
// results: approved and active. Inactive hides regardless of approval.
func PubliclyVisible(db *gorm.DB) *gorm.DB {
	return db.Where("is_approved = ? AND status = ?", true, PropertyStatusActive)
}

// PrimaryImage returns the image flagged primary, falling back to the
// lowest sort_order image. Expects Images preloaded in sort order.
func (p *Property) PrimaryImage() *PropertyImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}

// FormattedPrice is the single source of the display price. Rent
// listings render as a monthly amount, crore-unit listings as "X Cr",
// everything else as "X Lakhs".
func (p *Property) FormattedPrice() string {
	if p.ListingType == ListingTypeRent {
		return fmt.Sprintf("₹%s/month", humanize.Comma(int64(math.Round(p.Price))))
	}
	if p.PriceUnit == PriceUnitCrore {
		return fmt.Sprintf("₹%s Cr", strconv.FormatFloat(p.Price, 'f', -1, 64))
	}
	return fmt.Sprintf("₹%s Lakhs", strconv.FormatFloat(p.Price, 'f', -1, 64))
}

type EnquiryLog struct {
	BaseModel
	PropertyID uuid.UUID     `json:"property_id" gorm:"type:uuid;not null;index"`
	Action     EnquiryAction `json:"action" gorm:"type:varchar(20);not null;index"`
	VisitorIP  string        `json:"visitor_ip" gorm:"size:50"`
}
