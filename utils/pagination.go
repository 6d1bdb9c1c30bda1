package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxPage bounds the page number so the offset stays in range.
const MaxPage = 100000

type Page struct {
	Page   int
	Limit  int
	Offset int
	Sort   string
}

// ParsePage reads page, limit and sort query parameters with the given default limit.
func ParsePage(ctx *gin.Context, defaultLimit int) Page {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}
	return Page{Page: page, Limit: limit, Offset: (page - 1) * limit, Sort: sortOrder}
}

// Metadata builds the pagination block returned with list responses.
func (p Page) Metadata(total int64) gin.H {
	previousPage := p.Page - 1
	totalPages := math.Ceil(float64(total) / float64(p.Limit))
	return gin.H{
		"total":        total,
		"currentPage":  p.Page,
		"limit":        p.Limit,
		"hasPrevPage":  previousPage > 0,
		"hasNextPage":  int(totalPages) > p.Page,
		"previousPage": previousPage,
		"nextPage":     p.Page + 1,
	}
}
