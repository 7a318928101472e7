// internal/handlers/agent_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gharkhoj/gharkhoj-backend/internal/config"
	"github.com/gharkhoj/gharkhoj-backend/internal/models"
	"github.com/gharkhoj/gharkhoj-backend/internal/services"
	"github.com/gharkhoj/gharkhoj-backend/internal/utils"
)

// AgentHandler is the authenticated surface where agents manage their
// own listings.
type AgentHandler struct {
	properties *services.PropertyService
	storage    *services.StorageService
	config     *config.Config
}

func NewAgentHandler(properties *services.PropertyService, storage *services.StorageService, cfg *config.Config) *AgentHandler {
	return &AgentHandler{properties: properties, storage: storage, config: cfg}
}

func actor(c *gin.Context) (uuid.UUID, bool, bool) {
	raw, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return uuid.Nil, false, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, false
	}
	role, _ := utils.GetUserRoleFromContext(c)
	return userID, role == string(models.UserRoleAdmin), true
}

// Dashboard shows the agent's own numbers plus their latest listings.
func (h *AgentHandler) Dashboard(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	stats, err := h.properties.OwnerDashboard(userID)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch dashboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":             stats,
		"recent_properties": models.NewPropertyCards(stats.Recent),
	})
}

// MyProperties lists the agent's listings regardless of approval or
// status.
func (h *AgentHandler) MyProperties(c *gin.Context) {
	userID, _, ok := actor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	page := utils.FixedPageParams(c, h.config.Listing.AgentPerPage)

	properties, total, err := h.properties.OwnerProperties(userID, page)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch properties")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": models.NewPropertyCards(properties),
		"pagination": utils.NewPageMeta(total, page),
	})
}

func (h *AgentHandler) Create(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	var req services.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	property, err := h.properties.Create(userID, isAdmin, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"property": models.NewPropertyDetail(property)})
}

func (h *AgentHandler) Update(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Property")
		return
	}

	var req services.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	property, err := h.properties.Update(id, userID, isAdmin, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": models.NewPropertyDetail(property)})
}

func (h *AgentHandler) Delete(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Property")
		return
	}

	if err := h.properties.Delete(id, userID, isAdmin); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus lets the owner mark a listing sold, rented, active or
// inactive.
func (h *AgentHandler) ChangeStatus(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Property")
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	property, err := h.properties.ChangeStatus(id, userID, isAdmin, models.PropertyStatus(req.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     property.ID,
		"status": property.Status,
	})
}

// UploadImage stores a photo and attaches it to the listing.
func (h *AgentHandler) UploadImage(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Property")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Image file is required", nil)
		return
	}
	defer file.Close()

	result, err := h.storage.SavePropertyImage(id, file, header)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	image, err := h.properties.AddImage(id, userID, isAdmin, result.Filename)
	if err != nil {
		h.storage.DeletePropertyImage(result.Filename)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"image": models.NewPropertyImageView(image)})
}

func (h *AgentHandler) DeleteImage(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Property")
		return
	}
	imageID, err := uuid.Parse(c.Param("image_id"))
	if err != nil {
		utils.NotFoundResponse(c, "Image")
		return
	}

	if err := h.properties.DeleteImage(propertyID, imageID, userID, isAdmin); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *AgentHandler) SetPrimaryImage(c *gin.Context) {
	userID, isAdmin, ok := actor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Property")
		return
	}
	imageID, err := uuid.Parse(c.Param("image_id"))
	if err != nil {
		utils.NotFoundResponse(c, "Image")
		return
	}

	if err := h.properties.SetPrimaryImage(propertyID, imageID, userID, isAdmin); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
