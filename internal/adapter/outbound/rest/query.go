package rest

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// SortDir is the direction suffix of a sort expression.
type SortDir string

const (
	SortAsc  SortDir = "ASC"
	SortDesc SortDir = "DESC"
)

// ListQuery describes the query parameters understood by the backend's list
// endpoints: pagination, sorting, free-text search, relation expansion, and
// arbitrary equality filters.
type ListQuery struct {
	// Page is the 1-based page number. Zero means "let the backend default".
	Page int

	// Limit is the page size. Zero means "let the backend default".
	Limit int

	// SortField and SortDir together produce "field:ASC" / "field:DESC".
	SortField string
	SortDir   SortDir

	// Search is the free-text search term (the "q" parameter).
	Search string

	// Include lists relation names to embed, joined with commas
	// ("brands,categories").
	Include []string

	// Filters are extra key=value equality filters passed through verbatim.
	Filters map[string]string
}

// Sort sets the sort field and direction, returning the query for chaining.
func (q ListQuery) Sort(field string, dir SortDir) ListQuery {
	q.SortField = field
	q.SortDir = dir
	return q
}

// Values encodes the query as URL parameters. Filter keys are emitted in
// sorted order so the encoding is deterministic (the catalog cache hashes
// the encoded string).
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortField != "" {
		dir := q.SortDir
		if dir == "" {
			dir = SortAsc
		}
		v.Set("sort", q.SortField+":"+string(dir))
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if len(q.Include) > 0 {
		v.Set("include", strings.Join(q.Include, ","))
	}
	if len(q.Filters) > 0 {
		keys := make([]string, 0, len(q.Filters))
		for k := range q.Filters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v.Set(k, q.Filters[k])
		}
	}
	return v
}

// Encode returns the deterministic query-string form of the query.
func (q ListQuery) Encode() string {
	return q.Values().Encode()
}
