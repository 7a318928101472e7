// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gharkhoj/gharkhoj-backend/internal/models"
)

func TestAmenityRuleUsesInjectedVocabulary(t *testing.T) {
	SetAmenityVocabularyCheck(func(tag string) bool {
		_, ok := models.AmenityVocabulary[tag]
		return ok
	})
	defer SetAmenityVocabularyCheck(func(string) bool { return true })

	type payload struct {
		Amenities []string `validate:"omitempty,dive,amenity"`
	}

	assert.NoError(t, ValidateStruct(&payload{Amenities: []string{"Lift", "Parking"}}))
	assert.NoError(t, ValidateStruct(&payload{}))

	err := ValidateStruct(&payload{Amenities: []string{"Lift", "Helipad"}})
	assert.Error(t, err)

	details := GetValidationErrors(err)
	assert.Len(t, details, 1)
	assert.Equal(t, "amenity", details[0].Tag)
	assert.Equal(t, "Helipad is not a recognized amenity", details[0].Message)
}
