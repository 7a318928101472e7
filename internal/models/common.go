// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. Deletion in this domain is final, so
// there is no soft-delete column anywhere.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Enums
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleAgent  UserRole = "agent"
	UserRoleBroker UserRole = "broker"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleAgent, UserRoleBroker:
		return true
	}
	return false
}

type PropertyType string

const (
	PropertyTypeFlat      PropertyType = "flat"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeVilla     PropertyType = "villa"
	PropertyTypeOffice    PropertyType = "office"
	PropertyTypeShop      PropertyType = "shop"
	PropertyTypePlot      PropertyType = "plot"
	PropertyTypeWarehouse PropertyType = "warehouse"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeFlat, PropertyTypeHouse, PropertyTypeVilla,
		PropertyTypeOffice, PropertyTypeShop, PropertyTypePlot, PropertyTypeWarehouse:
		return true
	}
	return false
}

type ListingType string

const (
	ListingTypeBuy  ListingType = "buy"
	ListingTypeRent ListingType = "rent"
)

func (t ListingType) Valid() bool {
	return t == ListingTypeBuy || t == ListingTypeRent
}

type PriceUnit string

const (
	PriceUnitLakh  PriceUnit = "lakh"
	PriceUnitCrore PriceUnit = "crore"
	PriceUnitMonth PriceUnit = "month"
)

func (u PriceUnit) Valid() bool {
	return u == PriceUnitLakh || u == PriceUnitCrore || u == PriceUnitMonth
}

type Furnishing string

const (
	FurnishingUnfurnished Furnishing = "unfurnished"
	FurnishingSemi        Furnishing = "semi"
	FurnishingFully       Furnishing = "fully"
)

func (f Furnishing) Valid() bool {
	return f == FurnishingUnfurnished || f == FurnishingSemi || f == FurnishingFully
}

type PropertyStatus string

const (
	PropertyStatusActive   PropertyStatus = "active"
	PropertyStatusSold     PropertyStatus = "sold"
	PropertyStatusRented   PropertyStatus = "rented"
	PropertyStatusInactive PropertyStatus = "inactive"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyStatusActive, PropertyStatusSold, PropertyStatusRented, PropertyStatusInactive:
		return true
	}
	return false
}

type EnquiryAction string

const (
	EnquiryActionPhoneClick    EnquiryAction = "phone_click"
	EnquiryActionWhatsAppClick EnquiryAction = "whatsapp_click"
)

func (a EnquiryAction) Valid() bool {
	return a == EnquiryActionPhoneClick || a == EnquiryActionWhatsAppClick
}

// AmenityList is an ordered set of amenity tags. Order is preserved for
// display; membership is what matters for matching. Serialized as a JSON
// array at the storage boundary so the column stays portable across
// drivers.
type AmenityList []string

func (a AmenityList) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (a *AmenityList) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported amenities column type %T", value)
	}

	if len(data) == 0 {
		*a = nil
		return nil
	}
	return json.Unmarshal(data, (*[]string)(a))
}

// AmenityVocabulary is the set of tags a listing may carry, with the
// Bootstrap icon shown for each tag on the frontend.
var AmenityVocabulary = map[string]string{
	"Parking":              "bi-car-front",
	"Lift":                 "bi-arrow-up-square",
	"Gym":                  "bi-heart-pulse",
	"Swimming Pool":        "bi-water",
	"Security":             "bi-shield-check",
	"Power Backup":         "bi-lightning",
	"Club House":           "bi-building",
	"Garden":               "bi-tree",
	"Children Play Area":   "bi-balloon",
	"Terrace":              "bi-sun",
	"Jogging Track":        "bi-person-walking",
	"Fire Safety":          "bi-fire",
	"Cafeteria":            "bi-cup-hot",
	"Road Access":          "bi-signpost-split",
	"Water Supply":         "bi-droplet",
	"Electricity":          "bi-plug",
	"CCTV":                 "bi-camera-video",
	"Intercom":             "bi-telephone",
	"Rainwater Harvesting": "bi-cloud-rain",
	"Vastu Compliant":      "bi-compass",
	"Piped Gas":            "bi-fuel-pump",
	"Visitor Parking":      "bi-p-square",
}

// ValidateAmenities checks every tag against the vocabulary. Validation
// happens at write time; reads trust what is stored.
func ValidateAmenities(tags []string) error {
	for _, tag := range tags {
		if _, ok := AmenityVocabulary[tag]; !ok {
			return fmt.Errorf("unknown amenity %q", tag)
		}
	}
	return nil
}
