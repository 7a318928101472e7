// internal/handlers/locality_handler.go
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

type LocalityHandler struct {
	localities *services.LocalityService
	config     *config.Config
}

func NewLocalityHandler(localities *services.LocalityService, cfg *config.Config) *LocalityHandler {
	return &LocalityHandler{localities: localities, config: cfg}
}

func (h *LocalityHandler) List(c *gin.Context) {
	zones, err := h.localities.GroupedByZone()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch localities")
		return
	}
	if zones == nil {
		zones = []services.ZoneGroup{}
	}

	c.JSON(http.StatusOK, gin.H{"zones": zones})
}

// Properties pages the visible listings of one locality.
func (h *LocalityHandler) Properties(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Locality")
		return
	}

	page := utils.GetPageParams(c, h.config.Listing.PerPage)

	locality, properties, total, err := h.localities.PropertiesIn(id, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locality":   locality,
		"properties": models.NewPropertyCards(properties),
		"pagination": utils.NewPageMeta(total, page),
	})
}
