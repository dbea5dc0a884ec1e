package http

import (
	"strconv"

	echo "github.com/labstack/echo/v4"
)

// paging reads limit/offset query params; bad values fall back to defaults.
func paging(c echo.Context) (limit, offset int) {
	limit = 50
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func listResponse(limit, offset, count int, results any) map[string]any {
	return map[string]any{
		"limit":   limit,
		"offset":  offset,
		"count":   count,
		"results": results,
	}
}
