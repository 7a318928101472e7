// internal/utils/pagination.go
package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MaxPerPage caps per_page on API surfaces.
const MaxPerPage = 50

type PageParams struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// PageMeta is the pagination block shared verbatim by every paginated
// response.
type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

// GetPageParams reads page/per_page from the query string. page is
// clamped to >= 1; per_page falls back to defaultPerPage on anything
// unparseable or non-positive and is capped at MaxPerPage.
func GetPageParams(c *gin.Context, defaultPerPage int) PageParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return PageParams{Page: page, PerPage: perPage}
}

// FixedPageParams is for surfaces with a fixed page size (agent and
// admin lists); only page comes from the request.
func FixedPageParams(c *gin.Context, perPage int) PageParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	return PageParams{Page: page, PerPage: perPage}
}

// ApplyPagination slices an already-filtered, already-sorted query. An
// out-of-range page simply yields an empty result.
func ApplyPagination(db *gorm.DB, params PageParams) *gorm.DB {
	offset := (params.Page - 1) * params.PerPage
	return db.Offset(offset).Limit(params.PerPage)
}

func NewPageMeta(total int64, params PageParams) PageMeta {
	pages := int((total + int64(params.PerPage) - 1) / int64(params.PerPage))
	return PageMeta{
		Page:    params.Page,
		PerPage: params.PerPage,
		Total:   total,
		Pages:   pages,
		HasNext: int64(params.Page)*int64(params.PerPage) < total,
		HasPrev: params.Page > 1,
	}
}
