package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fraud-dashboard/internal/dashboard"
	"github.com/sells-group/fraud-dashboard/internal/model"
)

// parseQuery reads the view controls from the URL query string.
func parseQuery(r *http.Request) (dashboard.Query, error) {
	v := r.URL.Query()
	var q dashboard.Query

	label, err := model.ParseLabelFilter(v.Get("label"))
	if err != nil {
		return q, err
	}
	q.Filter.Label = label

	if q.Filter.MinClaims, err = intParam(v.Get("min_claims"), "min_claims"); err != nil {
		return q, err
	}
	if q.Limit, err = intParam(v.Get("limit"), "limit"); err != nil {
		return q, err
	}
	if q.Offset, err = intParam(v.Get("offset"), "offset"); err != nil {
		return q, err
	}
	q.Provider = strings.TrimSpace(v.Get("provider"))

	if err := q.Filter.Validate(); err != nil {
		return q, err
	}
	if q.Limit < 0 || q.Offset < 0 {
		return q, eris.New("server: limit and offset must be non-negative")
	}
	return q, nil
}

func intParam(raw, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, eris.Errorf("server: %s must be an integer, got %q", name, raw)
	}
	return n, nil
}
