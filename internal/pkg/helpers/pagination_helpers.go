package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/vacantes/internal/app/models/dto"
)

// Pages are 1-based.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1
)

func normalizePage(page int) int {
	if page < 1 {
		return DefaultPage
	}
	return page
}

func normalizeSize(size int) int {
	if size <= 0 || size > MaxPageSize {
		return DefaultPageSize
	}
	return size
}

// CalculateOffsetLimit turns a page request into SQL OFFSET/LIMIT.
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	limit = normalizeSize(size)
	return uint64((normalizePage(page) - 1) * limit), limit
}

// NewPaginationInfo describes one listing page. An empty listing still has
// one (empty) first page, and a page past the end reports the last page.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}
	page = normalizePage(page)

	totalPages := int((totalItems + int64(size) - 1) / int64(size))
	if totalPages == 0 && page == DefaultPage {
		totalPages = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePaginationParams reads ?page= and ?size=, with defaults for missing
// or malformed values.
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = DefaultPage
	}
	size, err = strconv.Atoi(c.Query("size"))
	if err != nil {
		size = DefaultPageSize
	}
	return normalizePage(page), normalizeSize(size)
}
