// internal/handlers/property_handler.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gharkhoj/gharkhoj-backend/internal/config"
	"github.com/gharkhoj/gharkhoj-backend/internal/models"
	"github.com/gharkhoj/gharkhoj-backend/internal/services"
	"github.com/gharkhoj/gharkhoj-backend/internal/utils"
)

type PropertyHandler struct {
	properties *services.PropertyService
	localities *services.LocalityService
	config     *config.Config
}

func NewPropertyHandler(properties *services.PropertyService, localities *services.LocalityService, cfg *config.Config) *PropertyHandler {
	return &PropertyHandler{properties: properties, localities: localities, config: cfg}
}

// respondServiceError maps service error messages onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		utils.ErrorResponse(c, http.StatusNotFound, msg, nil)
	case strings.Contains(msg, "unauthorized"):
		utils.ErrorResponse(c, http.StatusForbidden, msg, nil)
	case strings.Contains(msg, "validation failed"),
		strings.Contains(msg, "invalid"),
		strings.Contains(msg, "already exists"),
		strings.Contains(msg, "not allowed"),
		strings.Contains(msg, "exceeds"):
		utils.ErrorResponse(c, http.StatusBadRequest, msg, nil)
	default:
		utils.InternalErrorResponse(c, msg)
	}
}

// List is the search endpoint. Malformed filter values were already
// dropped during parsing, so whatever survives is applied as-is.
func (h *PropertyHandler) List(c *gin.Context) {
	filters := services.ParsePropertyFilters(c.Request.URL.Query())
	sort := c.Query("sort")
	page := utils.GetPageParams(c, h.config.Listing.PerPage)

	properties, total, err := h.properties.Search(filters, sort, page)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch properties")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": models.NewPropertyCards(properties),
		"pagination": utils.NewPageMeta(total, page),
	})
}

// Get serves the detail view plus similar listings; the fetch itself
// counts a view.
func (h *PropertyHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Property")
		return
	}

	property, err := h.properties.GetPublic(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	similar, err := h.properties.Similar(property, h.config.Listing.SimilarLimit)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch similar properties")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"property": models.NewPropertyDetail(property),
		"similar":  models.NewPropertyCards(similar),
	})
}

// GetBySlug is the page-facing variant with a shorter similar strip.
func (h *PropertyHandler) GetBySlug(c *gin.Context) {
	property, err := h.properties.GetPublicBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	similar, err := h.properties.Similar(property, h.config.Listing.SimilarPreview)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch similar properties")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"property": models.NewPropertyDetail(property),
		"similar":  models.NewPropertyCards(similar),
	})
}

type localitySuggestion struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Zone string    `json:"zone"`
}

// Suggestions serves search autocomplete: matching locality names plus
// matching listings as cards. Queries under two characters return empty
// arrays.
func (h *PropertyHandler) Suggestions(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if len(q) < 2 {
		c.JSON(http.StatusOK, gin.H{
			"localities": []localitySuggestion{},
			"properties": []models.PropertyCard{},
		})
		return
	}

	limit := h.config.Listing.SuggestLimit

	localities, err := h.localities.SuggestLocalities(q, limit)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch suggestions")
		return
	}
	properties, err := h.properties.SuggestProperties(q, limit)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch suggestions")
		return
	}

	suggestions := make([]localitySuggestion, 0, len(localities))
	for _, l := range localities {
		suggestions = append(suggestions, localitySuggestion{ID: l.ID, Name: l.Name, Zone: l.Zone})
	}

	c.JSON(http.StatusOK, gin.H{
		"localities": suggestions,
		"properties": models.NewPropertyCards(properties),
	})
}
