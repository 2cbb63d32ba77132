package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/adiwijaya/larisin-backend/pkg/pagination"
)

// PaginationParams reads the limit/cursor query knobs. A bad limit falls
// back to the default rather than failing the request.
func PaginationParams(r *http.Request) pagination.Params {
	params := pagination.Params{
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			params.Limit = limit
		}
	}
	return params
}

// QueryBool reads an optional boolean query parameter.
func QueryBool(r *http.Request, name string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(name)))
	return err == nil && value
}
