// internal/models/projection.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Stored files are served under these prefixes by the storage
// collaborator; projections only ever build URLs from them.
const (
	PropertyImageURLPrefix = "/uploads/properties"
	PropertyThumbURLPrefix = "/uploads/properties/thumbs"
	UserPhotoURLPrefix     = "/uploads/users"
)

// PropertyCard is the abbreviated projection used by list and grid
// surfaces. PropertyDetail is a strict superset; both are built from the
// same Property so derived fields cannot drift between surfaces.
type PropertyCard struct {
	ID             uuid.UUID    `json:"id"`
	Title          string       `json:"title"`
	Slug           string       `json:"slug"`
	PropertyType   PropertyType `json:"property_type"`
	ListingType    ListingType  `json:"listing_type"`
	Price          float64      `json:"price"`
	PriceUnit      PriceUnit    `json:"price_unit"`
	FormattedPrice string       `json:"formatted_price"`
	BHK            *int         `json:"bhk"`
	AreaSqft       *float64     `json:"area_sqft"`
	CarpetArea     *float64     `json:"carpet_area"`
	Furnished      Furnishing   `json:"furnished"`
	Locality       *string      `json:"locality"`
	Zone           *string      `json:"zone"`
	LocalityID     *uuid.UUID   `json:"locality_id"`
	Image          *string      `json:"image"`
	IsFeatured     bool         `json:"is_featured"`
	ViewsCount     int64        `json:"views_count"`
	CreatedAt      time.Time    `json:"created_at"`
}

type PropertyImageView struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Thumb     string    `json:"thumb"`
	IsPrimary bool      `json:"is_primary"`
}

func NewPropertyImageView(img *PropertyImage) PropertyImageView {
	return PropertyImageView{
		ID:        img.ID,
		URL:       PropertyImageURLPrefix + "/" + img.Filename,
		Thumb:     PropertyThumbURLPrefix + "/" + img.Filename,
		IsPrimary: img.IsPrimary,
	}
}

type AgentContact struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Phone   string    `json:"phone"`
	Company string    `json:"company"`
	Photo   *string   `json:"photo"`
}

type PropertyDetail struct {
	PropertyCard
	FloorNumber *int                `json:"floor_number"`
	TotalFloors *int                `json:"total_floors"`
	AgeYears    *int                `json:"age_years"`
	Facing      string              `json:"facing"`
	Description string              `json:"description"`
	Amenities   []string            `json:"amenities"`
	Address     string              `json:"address"`
	Status      PropertyStatus      `json:"status"`
	Images      []PropertyImageView `json:"images"`
	Agent       *AgentContact       `json:"agent"`
}

// NewPropertyCard expects Locality and Images preloaded (images in sort
// order) on any listing rendered publicly.
func NewPropertyCard(p *Property) PropertyCard {
	card := PropertyCard{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		PropertyType:   p.PropertyType,
		ListingType:    p.ListingType,
		Price:          p.Price,
		PriceUnit:      p.PriceUnit,
		FormattedPrice: p.FormattedPrice(),
		BHK:            p.BHK,
		AreaSqft:       p.AreaSqft,
		CarpetArea:     p.CarpetArea,
		Furnished:      p.Furnished,
		LocalityID:     p.LocalityID,
		IsFeatured:     p.IsFeatured,
		ViewsCount:     p.ViewsCount,
		CreatedAt:      p.CreatedAt,
	}
	if p.Locality != nil {
		card.Locality = &p.Locality.Name
		card.Zone = &p.Locality.Zone
	}
	if primary := p.PrimaryImage(); primary != nil {
		thumb := PropertyThumbURLPrefix + "/" + primary.Filename
		card.Image = &thumb
	}
	return card
}

func NewPropertyCards(props []Property) []PropertyCard {
	cards := make([]PropertyCard, 0, len(props))
	for i := range props {
		cards = append(cards, NewPropertyCard(&props[i]))
	}
	return cards
}

// NewPropertyDetail additionally expects Owner preloaded.
func NewPropertyDetail(p *Property) PropertyDetail {
	detail := PropertyDetail{
		PropertyCard: NewPropertyCard(p),
		FloorNumber:  p.FloorNumber,
		TotalFloors:  p.TotalFloors,
		AgeYears:     p.AgeYears,
		Facing:       p.Facing,
		Description:  p.Description,
		Amenities:    p.Amenities,
		Address:      p.Address,
		Status:       p.Status,
		Images:       make([]PropertyImageView, 0, len(p.Images)),
	}
	if detail.Amenities == nil {
		detail.Amenities = []string{}
	}
	for i := range p.Images {
		detail.Images = append(detail.Images, NewPropertyImageView(&p.Images[i]))
	}
	if p.Owner != nil {
		agent := &AgentContact{
			ID:      p.Owner.ID,
			Name:    p.Owner.Name,
			Phone:   p.Owner.Phone,
			Company: p.Owner.Company,
		}
		if p.Owner.Photo != "" {
			photo := UserPhotoURLPrefix + "/" + p.Owner.Photo
			agent.Photo = &photo
		}
		detail.Agent = agent
	}
	return detail
}
