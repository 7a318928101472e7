// internal/handlers/home_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gharkhoj/gharkhoj-backend/internal/config"
	"github.com/gharkhoj/gharkhoj-backend/internal/models"
	"github.com/gharkhoj/gharkhoj-backend/internal/services"
	"github.com/gharkhoj/gharkhoj-backend/internal/utils"
)

type HomeHandler struct {
	properties *services.PropertyService
	localities *services.LocalityService
	config     *config.Config
}

func NewHomeHandler(properties *services.PropertyService, localities *services.LocalityService, cfg *config.Config) *HomeHandler {
	return &HomeHandler{properties: properties, localities: localities, config: cfg}
}

// Home bundles everything the landing page needs into one response:
// featured strip, marketplace stats, per-type counts, and the zone
// directory.
func (h *HomeHandler) Home(c *gin.Context) {
	featured, err := h.properties.Featured(h.config.Listing.FeaturedLimit)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch featured properties")
		return
	}

	stats, err := h.properties.Stats()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch stats")
		return
	}

	typeCounts, err := h.properties.TypeCounts()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch property type counts")
		return
	}
	if typeCounts == nil {
		typeCounts = []services.TypeCount{}
	}

	zones, err := h.localities.ZoneSummaries()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch zones")
		return
	}
	if zones == nil {
		zones = []services.ZoneSummary{}
	}

	c.JSON(http.StatusOK, gin.H{
		"featured":       models.NewPropertyCards(featured),
		"stats":          stats,
		"property_types": typeCounts,
		"zones":          zones,
	})
}
