package handlers

import (
	"net/http"
	"strconv"

	"github.com/missionpool/backend/internal/apperr"
	"github.com/missionpool/backend/internal/pagination"
)

// parsePageParams reads limit/cursor/sort from the query string. present
// reports whether any pagination parameter was supplied at all: when none
// is, the caller serves the back-compat bare-array response.
func parsePageParams(r *http.Request) (params pagination.Params, present bool, err error) {
	q := r.URL.Query()
	present = q.Has("limit") || q.Has("cursor") || q.Has("sort")
	if !present {
		return pagination.Params{}, false, nil
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return params, true, apperr.New(apperr.Validation, "limit must be an integer")
		}
	}
	if params.Limit, err = pagination.ValidateLimit(limit); err != nil {
		return params, true, err
	}
	if params.Order, err = pagination.ParseOrder(q.Get("sort")); err != nil {
		return params, true, err
	}
	if token := q.Get("cursor"); token != "" {
		c, err := pagination.Decode(token)
		if err != nil {
			return params, true, err
		}
		params.Cursor = &c
	}
	return params, true, nil
}
