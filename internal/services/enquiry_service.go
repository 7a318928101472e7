// internal/services/enquiry_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gharkhoj/gharkhoj-backend/internal/models"
)

// EnquiryService records contact-button clicks. There is no message
// body and no delivery; a row per click is the whole feature.
type EnquiryService struct {
	db *gorm.DB
}

func NewEnquiryService(db *gorm.DB) *EnquiryService {
	return &EnquiryService{db: db}
}

// Log writes one enquiry row. Unknown actions and unknown listings are
// rejected before anything hits the table.
func (s *EnquiryService) Log(propertyID uuid.UUID, action models.EnquiryAction, visitorIP string) error {
	if !action.Valid() {
		return errors.New("invalid action")
	}

	var count int64
	if err := s.db.Model(&models.Property{}).Where("id = ?", propertyID).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return errors.New("property not found")
	}

	log := &models.EnquiryLog{
		PropertyID: propertyID,
		Action:     action,
		VisitorIP:  visitorIP,
	}
	if err := s.db.Create(log).Error; err != nil {
		return fmt.Errorf("failed to log enquiry: %w", err)
	}

	return nil
}

type EnquiryBreakdown struct {
	Total          int64 `json:"total"`
	PhoneClicks    int64 `json:"phone_clicks"`
	WhatsappClicks int64 `json:"whatsapp_clicks"`
}

func (s *EnquiryService) Breakdown() (*EnquiryBreakdown, error) {
	var breakdown EnquiryBreakdown

	if err := s.db.Model(&models.EnquiryLog{}).Count(&breakdown.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count enquiries: %w", err)
	}
	if err := s.db.Model(&models.EnquiryLog{}).
		Where("action = ?", models.EnquiryActionPhoneClick).
		Count(&breakdown.PhoneClicks).Error; err != nil {
		return nil, fmt.Errorf("failed to count phone clicks: %w", err)
	}
	if err := s.db.Model(&models.EnquiryLog{}).
		Where("action = ?", models.EnquiryActionWhatsAppClick).
		Count(&breakdown.WhatsappClicks).Error; err != nil {
		return nil, fmt.Errorf("failed to count whatsapp clicks: %w", err)
	}

	return &breakdown, nil
}
