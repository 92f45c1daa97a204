package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"BlogAnalytics/internal/domain"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// pageRequest extracts paging and sorting parameters. Pages are zero based.
func pageRequest(c *gin.Context) domain.PageRequest {
	page := intQuery(c, "page", 0)
	if page < 0 {
		page = 0
	}
	size := intQuery(c, "size", defaultPageSize)
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return domain.PageRequest{
		Page:    page,
		Size:    size,
		SortBy:  strings.TrimSpace(c.Query("sortBy")),
		SortDir: strings.ToLower(strings.TrimSpace(c.Query("sortDir"))),
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func idParam(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, "invalid "+key)
		return 0, false
	}
	return id, true
}
