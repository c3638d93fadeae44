package service

import (
	"net/url"
	"testing"

	"github.com/phrazzld/taskr/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestParseListQuery(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name  string
		query string
		want  ListQuery
	}{
		{
			name:  "empty",
			query: "",
			want:  ListQuery{},
		},
		{
			name:  "completed true",
			query: "completed=true",
			want:  ListQuery{Completed: &yes},
		},
		{
			name:  "completed anything else is false",
			query: "completed=yes",
			want:  ListQuery{Completed: &no},
		},
		{
			name:  "sort descending",
			query: "sortBy=description:dsc",
			want:  ListQuery{Sort: store.Sort{Field: store.SortByDescription, Descending: true}},
		},
		{
			name:  "sort desc spelling",
			query: "sortBy=createdAt:desc",
			want:  ListQuery{Sort: store.Sort{Field: store.SortByCreatedAt, Descending: true}},
		},
		{
			name:  "sort ascending by default",
			query: "sortBy=updatedAt",
			want:  ListQuery{Sort: store.Sort{Field: store.SortByUpdatedAt}},
		},
		{
			name:  "unknown sort field ignored",
			query: "sortBy=owner:dsc",
			want:  ListQuery{},
		},
		{
			name:  "limit and skip",
			query: "limit=2&skip=1",
			want:  ListQuery{Limit: 2, Skip: 1},
		},
		{
			name:  "invalid numbers are unbounded",
			query: "limit=ten&skip=-3",
			want:  ListQuery{},
		},
		{
			name:  "everything",
			query: "completed=true&sortBy=description:dsc&limit=2&skip=1",
			want: ListQuery{
				Completed: &yes,
				Sort:      store.Sort{Field: store.SortByDescription, Descending: true},
				Limit:     2,
				Skip:      1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ParseListQuery(values))
		})
	}
}
