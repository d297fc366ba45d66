package table

import (
	"net/url"
	"strconv"
	"strings"
)

// Params is the wire form of a table request as carried in URL query
// parameters: ?page=2&per_page=10&search=grip&filter=status:pending.
type Params struct {
	Page     int
	PageSize int
	Search   string
	Filters  map[string]string
}

// ParseParams reads table parameters from a query string. Absent or
// malformed numbers come back as zero and the engine applies its defaults.
// Filters use a key:value form and repeat; a filter without a colon is
// dropped.
func ParseParams(q url.Values) Params {
	p := Params{
		Search:  q.Get("search"),
		Filters: make(map[string]string),
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("per_page")); err == nil {
		p.PageSize = v
	}
	for _, f := range q["filter"] {
		key, value, ok := strings.Cut(f, ":")
		if !ok || key == "" {
			continue
		}
		p.Filters[key] = value
	}
	return p
}

// Render runs one stateless table request over a row set: build, apply
// params, page. maxPageSize caps the requested per_page; zero means no cap.
func Render(columns []Column, rows []Row, p Params, defaultPageSize, maxPageSize int) (View, error) {
	t := New(columns, defaultPageSize)
	if err := t.SetRows(rows); err != nil {
		return View{}, err
	}
	if p.PageSize > 0 {
		size := p.PageSize
		if maxPageSize > 0 && size > maxPageSize {
			size = maxPageSize
		}
		t.SetPageSize(size)
	}
	for key, value := range p.Filters {
		t.SetFilter(key, value)
	}
	if p.Search != "" {
		t.SetSearch(p.Search)
	}
	if p.Page > 0 {
		t.SetPage(p.Page)
	}
	return t.Page(), nil
}
