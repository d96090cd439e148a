package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination reads the skip/limit query parameters, clamping limit to
// (0, defaultLimit*2] with the given default.
func Pagination(c *gin.Context, defaultLimit int) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	if skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > defaultLimit*2 {
		limit = defaultLimit * 2
	}
	return skip, limit
}
