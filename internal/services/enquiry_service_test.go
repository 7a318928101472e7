// internal/services/enquiry_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharkhoj/gharkhoj-backend/internal/models"
)

func TestEnquiryLogging(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnquiryService(db)

	agent := &models.User{Name: "Agent", Email: "a@example.com", Phone: "9820011111", Role: models.UserRoleAgent, IsApproved: true}
	require.NoError(t, agent.SetPassword("secret123"))
	require.NoError(t, db.Create(agent).Error)

	property := &models.Property{
		Title:        "Test Flat",
		Slug:         "test-flat",
		PropertyType: models.PropertyTypeFlat,
		ListingType:  models.ListingTypeBuy,
		Price:        50,
		IsApproved:   true,
		Status:       models.PropertyStatusActive,
		UserID:       agent.ID,
	}
	require.NoError(t, db.Create(property).Error)

	countRows := func() int64 {
		var n int64
		db.Model(&models.EnquiryLog{}).Count(&n)
		return n
	}

	t.Run("valid actions write one row each", func(t *testing.T) {
		require.NoError(t, svc.Log(property.ID, models.EnquiryActionPhoneClick, "10.0.0.1"))
		require.NoError(t, svc.Log(property.ID, models.EnquiryActionWhatsAppClick, "10.0.0.2"))
		assert.Equal(t, int64(2), countRows())
	})

	t.Run("unknown action writes nothing", func(t *testing.T) {
		before := countRows()
		err := svc.Log(property.ID, "email_click", "10.0.0.3")
		assert.EqualError(t, err, "invalid action")
		assert.Equal(t, before, countRows())
	})

	t.Run("unknown property writes nothing", func(t *testing.T) {
		before := countRows()
		err := svc.Log(uuid.New(), models.EnquiryActionPhoneClick, "10.0.0.4")
		assert.EqualError(t, err, "property not found")
		assert.Equal(t, before, countRows())
	})

	t.Run("breakdown splits by action", func(t *testing.T) {
		breakdown, err := svc.Breakdown()
		require.NoError(t, err)
		assert.Equal(t, int64(2), breakdown.Total)
		assert.Equal(t, int64(1), breakdown.PhoneClicks)
		assert.Equal(t, int64(1), breakdown.WhatsappClicks)
	})
}
