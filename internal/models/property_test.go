// internal/models/property_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormattedPrice(t *testing.T) {
	rent := &Property{ListingType: ListingTypeRent, Price: 85000, PriceUnit: PriceUnitMonth}
	assert.Equal(t, "₹85,000/month", rent.FormattedPrice())

	crore := &Property{ListingType: ListingTypeBuy, Price: 4.5, PriceUnit: PriceUnitCrore}
	assert.Equal(t, "₹4.5 Cr", crore.FormattedPrice())

	lakh := &Property{ListingType: ListingTypeBuy, Price: 85, PriceUnit: PriceUnitLakh}
	assert.Equal(t, "₹85 Lakhs", lakh.FormattedPrice())
}

func TestUserRoleValid(t *testing.T) {
	assert.True(t, UserRoleAdmin.Valid())
	assert.True(t, UserRoleAgent.Valid())
	assert.True(t, UserRoleBroker.Valid())
	assert.False(t, UserRole("tenant").Valid())
	assert.False(t, UserRole("").Valid())
}

func TestAmenityListRoundtrip(t *testing.T) {
	amenities := AmenityList{"Lift", "Parking", "Gym"}

	value, err := amenities.Value()
	require.NoError(t, err)

	var decoded AmenityList
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, amenities, decoded)
}

func TestAmenityListNilStoresEmptyArray(t *testing.T) {
	var amenities AmenityList
	value, err := amenities.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
}

func TestValidateAmenities(t *testing.T) {
	assert.NoError(t, ValidateAmenities(nil))
	assert.NoError(t, ValidateAmenities([]string{"Lift", "Parking"}))
	assert.Error(t, ValidateAmenities([]string{"Lift", "Helipad"}))
}

func TestPrimaryImageFallsBackToFirst(t *testing.T) {
	p := &Property{}
	assert.Nil(t, p.PrimaryImage())

	p.Images = []PropertyImage{
		{Filename: "first.jpg"},
		{Filename: "second.jpg"},
	}
	assert.Equal(t, "first.jpg", p.PrimaryImage().Filename)

	p.Images[1].IsPrimary = true
	assert.Equal(t, "second.jpg", p.PrimaryImage().Filename)
}

func TestCardAndDetailStayInSync(t *testing.T) {
	bhk := 3
	area := 1250.0
	locality := &Locality{Name: "Worli", Zone: "South Mumbai"}
	owner := &User{Name: "Ravi Mehta", Phone: "9820012345", Company: "Mehta Estates"}

	p := &Property{
		Title:        "Sea View 3BHK in Worli",
		Slug:         "sea-view-3bhk-in-worli",
		PropertyType: PropertyTypeFlat,
		ListingType:  ListingTypeBuy,
		Price:        4.5,
		PriceUnit:    PriceUnitCrore,
		BHK:          &bhk,
		AreaSqft:     &area,
		Furnished:    FurnishingSemi,
		Status:       PropertyStatusActive,
		Locality:     locality,
		Owner:        owner,
		Images: []PropertyImage{
			{Filename: "main.jpg", IsPrimary: true},
			{Filename: "kitchen.jpg"},
		},
	}

	card := NewPropertyCard(p)
	detail := NewPropertyDetail(p)

	// the detail embeds the same card, so derived fields cannot drift
	assert.Equal(t, card, detail.PropertyCard)
	assert.Equal(t, "₹4.5 Cr", card.FormattedPrice)
	assert.Equal(t, "Worli", *card.Locality)
	assert.Equal(t, "South Mumbai", *card.Zone)
	assert.Equal(t, PropertyThumbURLPrefix+"/main.jpg", *card.Image)

	assert.Len(t, detail.Images, 2)
	assert.Equal(t, PropertyImageURLPrefix+"/main.jpg", detail.Images[0].URL)
	assert.Equal(t, []string{}, detail.Amenities)
	assert.Equal(t, "Ravi Mehta", detail.Agent.Name)
	assert.Nil(t, detail.Agent.Photo)
}
