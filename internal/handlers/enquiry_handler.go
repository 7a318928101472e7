// internal/handlers/enquiry_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gharkhoj/gharkhoj-backend/internal/models"
	"github.com/gharkhoj/gharkhoj-backend/internal/services"
	"github.com/gharkhoj/gharkhoj-backend/internal/utils"
)

type EnquiryHandler struct {
	enquiries *services.EnquiryService
}

func NewEnquiryHandler(enquiries *services.EnquiryService) *EnquiryHandler {
	return &EnquiryHandler{enquiries: enquiries}
}

type enquiryRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	Action     string    `json:"action" binding:"required"`
}

// Log records a contact-button click. Anything but a known action on a
// known listing is a 400 with nothing written.
func (h *EnquiryHandler) Log(c *gin.Context) {
	var req enquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	action := models.EnquiryAction(req.Action)
	if !action.Valid() {
		utils.BadRequestResponse(c, "invalid action", nil)
		return
	}

	if err := h.enquiries.Log(req.PropertyID, action, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
