// internal/handlers/admin_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gharkhoj/gharkhoj-backend/internal/config"
	"github.com/gharkhoj/gharkhoj-backend/internal/models"
	"github.com/gharkhoj/gharkhoj-backend/internal/services"
	"github.com/gharkhoj/gharkhoj-backend/internal/utils"
)

type AdminHandler struct {
	admin      *services.AdminService
	properties *services.PropertyService
	localities *services.LocalityService
	enquiries  *services.EnquiryService
	config     *config.Config
}

func NewAdminHandler(admin *services.AdminService, properties *services.PropertyService, localities *services.LocalityService, enquiries *services.EnquiryService, cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		admin:      admin,
		properties: properties,
		localities: localities,
		enquiries:  enquiries,
		config:     cfg,
	}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.admin.Dashboard()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch dashboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// ListProperties pages every listing for moderation; status and
// approved query params narrow it down.
func (h *AdminHandler) ListProperties(c *gin.Context) {
	var filters services.AdminPropertyFilters
	if raw := c.Query("status"); raw != "" {
		status := models.PropertyStatus(raw)
		if status.Valid() {
			filters.Status = &status
		}
	}
	if raw := c.Query("approved"); raw != "" {
		if approved, err := strconv.ParseBool(raw); err == nil {
			filters.Approved = &approved
		}
	}

	page := utils.FixedPageParams(c, h.config.Listing.AdminPerPage)

	properties, total, err := h.admin.ListProperties(filters, page)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch properties")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": models.NewPropertyCards(properties),
		"pagination": utils.NewPageMeta(total, page),
	})
}

func (h *AdminHandler) propertyAction(c *gin.Context, action func(uuid.UUID) (*models.Property, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Property")
		return
	}

	property, err := action(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          property.ID,
		"is_approved": property.IsApproved,
		"is_featured": property.IsFeatured,
		"status":      property.Status,
	})
}

func (h *AdminHandler) ApproveProperty(c *gin.Context) {
	h.propertyAction(c, h.admin.ApproveProperty)
}

func (h *AdminHandler) RejectProperty(c *gin.Context) {
	h.propertyAction(c, h.admin.RejectProperty)
}

func (h *AdminHandler) ToggleFeatured(c *gin.Context) {
	h.propertyAction(c, h.admin.ToggleFeatured)
}

func (h *AdminHandler) DeleteProperty(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Property")
		return
	}

	if err := h.properties.Delete(id, userID, true); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type adminUserView struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Role       models.UserRole `json:"role"`
	Company    string          `json:"company"`
	ReraNumber string          `json:"rera_number"`
	IsApproved bool            `json:"is_approved"`
}

func newAdminUserView(u *models.User) adminUserView {
	return adminUserView{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role,
		Company:    u.Company,
		ReraNumber: u.ReraNumber,
		IsApproved: u.IsApproved,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var role *models.UserRole
	if raw := c.Query("role"); raw != "" {
		r := models.UserRole(raw)
		if r.Valid() {
			role = &r
		}
	}

	page := utils.FixedPageParams(c, h.config.Listing.AdminPerPage)

	users, total, err := h.admin.ListUsers(role, page)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch users")
		return
	}

	views := make([]adminUserView, 0, len(users))
	for i := range users {
		views = append(views, newAdminUserView(&users[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      views,
		"pagination": utils.NewPageMeta(total, page),
	})
}

func (h *AdminHandler) userAction(c *gin.Context, action func(uuid.UUID) (*models.User, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "User")
		return
	}

	user, err := action(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newAdminUserView(user)})
}

func (h *AdminHandler) ApproveUser(c *gin.Context) {
	h.userAction(c, h.admin.ApproveUser)
}

func (h *AdminHandler) SuspendUser(c *gin.Context) {
	h.userAction(c, h.admin.SuspendUser)
}

func (h *AdminHandler) CreateLocality(c *gin.Context) {
	var req services.CreateLocalityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	locality, err := h.localities.Create(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"locality": locality})
}

func (h *AdminHandler) DeleteLocality(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Locality")
		return
	}

	if err := h.localities.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *AdminHandler) Analytics(c *gin.Context) {
	analytics, err := h.admin.Analytics(h.enquiries)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch analytics")
		return
	}
	c.JSON(http.StatusOK, analytics)
}
