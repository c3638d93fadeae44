package service

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/phrazzld/taskr/internal/store"
)

// ListQuery filters, orders and bounds a task listing.
type ListQuery struct {
	Completed *bool
	Sort      store.Sort
	Limit     int // 0 means no limit
	Skip      int
}

// sortable lists the fields a listing may be ordered by.
var sortable = map[string]store.SortField{
	string(store.SortByDescription): store.SortByDescription,
	string(store.SortByCompleted):   store.SortByCompleted,
	string(store.SortByCreatedAt):   store.SortByCreatedAt,
	string(store.SortByUpdatedAt):   store.SortByUpdatedAt,
}

// ParseListQuery reads completed, sortBy, limit and skip from query
// parameters. It never fails:
//   - completed is true only for the exact value "true", and unset when absent;
//   - sortBy is "field" or "field:dsc" (also "field:desc"); unknown fields
//     are ignored;
//   - limit and skip that are not non-negative integers are treated as
//     unbounded.
func ParseListQuery(values url.Values) ListQuery {
	var q ListQuery

	if raw := values.Get("completed"); raw != "" {
		completed := raw == "true"
		q.Completed = &completed
	}

	if raw := values.Get("sortBy"); raw != "" {
		name, dir, _ := strings.Cut(raw, ":")
		if field, ok := sortable[name]; ok {
			q.Sort = store.Sort{Field: field, Descending: dir == "dsc" || dir == "desc"}
		}
	}

	q.Limit = nonNegative(values.Get("limit"))
	q.Skip = nonNegative(values.Get("skip"))
	return q
}

func nonNegative(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
