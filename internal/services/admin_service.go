// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gharkhoj/gharkhoj-backend/internal/models"
	"github.com/gharkhoj/gharkhoj-backend/internal/utils"
)

// AdminService covers the moderation surface: approval queue, feature
// flags, user management, and the analytics rollups. Admin queries run
// without the public visibility scope.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

type AdminDashboard struct {
	TotalProperties  int64 `json:"total_properties"`
	PendingApproval  int64 `json:"pending_approval"`
	ActiveListings   int64 `json:"active_listings"`
	TotalAgents      int64 `json:"total_agents"`
	UnapprovedAgents int64 `json:"unapproved_agents"`
	TotalEnquiries   int64 `json:"total_enquiries"`
	TotalViews       int64 `json:"total_views"`
}

func (s *AdminService) Dashboard() (*AdminDashboard, error) {
	var stats AdminDashboard

	if err := s.db.Model(&models.Property{}).Count(&stats.TotalProperties).Error; err != nil {
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}
	if err := s.db.Model(&models.Property{}).Where("is_approved = ?", false).
		Count(&stats.PendingApproval).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending properties: %w", err)
	}
	if err := s.db.Model(&models.Property{}).Scopes(models.PubliclyVisible).
		Count(&stats.ActiveListings).Error; err != nil {
		return nil, fmt.Errorf("failed to count active listings: %w", err)
	}
	if err := s.db.Model(&models.User{}).Where("role <> ?", models.UserRoleAdmin).
		Count(&stats.TotalAgents).Error; err != nil {
		return nil, fmt.Errorf("failed to count agents: %w", err)
	}
	if err := s.db.Model(&models.User{}).
		Where("role <> ? AND is_approved = ?", models.UserRoleAdmin, false).
		Count(&stats.UnapprovedAgents).Error; err != nil {
		return nil, fmt.Errorf("failed to count unapproved agents: %w", err)
	}
	if err := s.db.Model(&models.EnquiryLog{}).Count(&stats.TotalEnquiries).Error; err != nil {
		return nil, fmt.Errorf("failed to count enquiries: %w", err)
	}
	if err := s.db.Model(&models.Property{}).
		Select("COALESCE(SUM(views_count), 0)").Scan(&stats.TotalViews).Error; err != nil {
		return nil, fmt.Errorf("failed to sum views: %w", err)
	}

	return &stats, nil
}

type AdminPropertyFilters struct {
	Status   *models.PropertyStatus
	Approved *bool
}

// ListProperties pages every listing, approved or not, for the
// moderation table.
func (s *AdminService) ListProperties(filters AdminPropertyFilters, page utils.PageParams) ([]models.Property, int64, error) {
	query := s.db.Model(&models.Property{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Approved != nil {
		query = query.Where("is_approved = ?", *filters.Approved)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	var properties []models.Property
	err := withCardAssociations(utils.ApplyPagination(query.Order("created_at DESC"), page)).
		Preload("Owner").
		Find(&properties).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch properties: %w", err)
	}

	return properties, total, nil
}

func (s *AdminService) getProperty(id uuid.UUID) (*models.Property, error) {
	var property models.Property
	if err := s.db.First(&property, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("property not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &property, nil
}

func (s *AdminService) ApproveProperty(id uuid.UUID) (*models.Property, error) {
	property, err := s.getProperty(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(property).Update("is_approved", true).Error; err != nil {
		return nil, fmt.Errorf("failed to approve property: %w", err)
	}
	property.IsApproved = true
	return property, nil
}

// RejectProperty clears approval and parks the listing as inactive so
// it drops out of every public surface at once.
func (s *AdminService) RejectProperty(id uuid.UUID) (*models.Property, error) {
	property, err := s.getProperty(id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"is_approved": false,
		"status":      models.PropertyStatusInactive,
	}
	if err := s.db.Model(property).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to reject property: %w", err)
	}
	property.IsApproved = false
	property.Status = models.PropertyStatusInactive
	return property, nil
}

func (s *AdminService) ToggleFeatured(id uuid.UUID) (*models.Property, error) {
	property, err := s.getProperty(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(property).Update("is_featured", !property.IsFeatured).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle featured flag: %w", err)
	}
	property.IsFeatured = !property.IsFeatured
	return property, nil
}

// ListUsers pages the non-admin accounts, optionally filtered by role.
func (s *AdminService) ListUsers(role *models.UserRole, page utils.PageParams) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{}).Where("role <> ?", models.UserRoleAdmin)
	if role != nil {
		query = query.Where("role = ?", *role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	err := utils.ApplyPagination(query.Order("created_at DESC"), page).Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

func (s *AdminService) getUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *AdminService) ApproveUser(id uuid.UUID) (*models.User, error) {
	user, err := s.getUser(id)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, errors.New("cannot modify admin accounts")
	}
	if err := s.db.Model(user).Update("is_approved", true).Error; err != nil {
		return nil, fmt.Errorf("failed to approve user: %w", err)
	}
	user.IsApproved = true
	return user, nil
}

// SuspendUser revokes posting rights; the user's existing listings are
// untouched.
func (s *AdminService) SuspendUser(id uuid.UUID) (*models.User, error) {
	user, err := s.getUser(id)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, errors.New("cannot modify admin accounts")
	}
	if err := s.db.Model(user).Update("is_approved", false).Error; err != nil {
		return nil, fmt.Errorf("failed to suspend user: %w", err)
	}
	user.IsApproved = false
	return user, nil
}

type PropertyClicks struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Slug   string    `json:"slug"`
	Views  int64     `json:"views"`
	Clicks int64     `json:"clicks"`
}

type LocalityDemand struct {
	Name       string `json:"name"`
	Zone       string `json:"zone"`
	Listings   int64  `json:"listings"`
	TotalViews int64  `json:"total_views"`
}

type AgentActivity struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Company  string    `json:"company"`
	Listings int64     `json:"listings"`
	Clicks   int64     `json:"clicks"`
}

type AdminAnalytics struct {
	TopProperties     []PropertyClicks `json:"top_properties"`
	PopularLocalities []LocalityDemand `json:"popular_localities"`
	TopAgents         []AgentActivity  `json:"top_agents"`
	Enquiries         EnquiryBreakdown `json:"enquiries"`
}

// Analytics assembles the admin rollups: most-enquired listings,
// in-demand localities, busiest agents, and the enquiry split.
func (s *AdminService) Analytics(enquiries *EnquiryService) (*AdminAnalytics, error) {
	var analytics AdminAnalytics

	err := s.db.Model(&models.Property{}).
		Select(`properties.id, properties.title, properties.slug, properties.views_count AS views,
			COUNT(enquiry_logs.id) AS clicks`).
		Joins("LEFT JOIN enquiry_logs ON enquiry_logs.property_id = properties.id").
		Group("properties.id, properties.title, properties.slug, properties.views_count").
		Order("clicks DESC, views DESC").
		Limit(10).
		Scan(&analytics.TopProperties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top properties: %w", err)
	}

	err = s.db.Model(&models.Locality{}).
		Select(`localities.name, localities.zone, COUNT(properties.id) AS listings,
			COALESCE(SUM(properties.views_count), 0) AS total_views`).
		Joins("LEFT JOIN properties ON properties.locality_id = localities.id").
		Group("localities.name, localities.zone").
		Order("total_views DESC").
		Limit(10).
		Scan(&analytics.PopularLocalities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch popular localities: %w", err)
	}

	err = s.db.Model(&models.User{}).
		Select(`users.id, users.name, users.company, COUNT(DISTINCT properties.id) AS listings,
			COUNT(enquiry_logs.id) AS clicks`).
		Joins("LEFT JOIN properties ON properties.user_id = users.id").
		Joins("LEFT JOIN enquiry_logs ON enquiry_logs.property_id = properties.id").
		Where("users.role <> ?", models.UserRoleAdmin).
		Group("users.id, users.name, users.company").
		Order("clicks DESC, listings DESC").
		Limit(10).
		Scan(&analytics.TopAgents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top agents: %w", err)
	}

	breakdown, err := enquiries.Breakdown()
	if err != nil {
		return nil, err
	}
	analytics.Enquiries = *breakdown

	return &analytics, nil
}
