package dataverse

import (
	"net/url"
	"strconv"
	"strings"
)

// Query collects the OData system query options a list call can carry.
// Zero-valued fields are omitted from the request.
type Query struct {
	Select  []string
	Filter  string
	OrderBy string
	Top     int
}

// encode renders the options as a query string, including the leading "?".
// An empty Query encodes to "".
func (q Query) encode() string {
	v := url.Values{}
	if len(q.Select) > 0 {
		v.Set("$select", strings.Join(q.Select, ","))
	}
	if q.Filter != "" {
		v.Set("$filter", q.Filter)
	}
	if q.OrderBy != "" {
		v.Set("$orderby", q.OrderBy)
	}
	if q.Top > 0 {
		v.Set("$top", strconv.Itoa(q.Top))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// EscapeString doubles single quotes for use inside an OData string literal.
func EscapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
