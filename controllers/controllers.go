package controllers

import (
	"net/http"
	"strconv"
)

// pagination parses page/limit query parameters with the defaults the
// clients expect.
func pagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	return page, limit
}

// paginate clamps a page window onto a list of total items, returning the
// [start, end) bounds and the page count.
func paginate(total, page, limit int) ([2]int, int) {
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return [2]int{start, end}, totalPages
}
