// Package table implements the generic data-table engine behind every list
// screen of the dashboard: companies, suppliers, departments, budgets,
// requisitions, users, and the audit trail all render through it. The engine
// runs a fixed pipeline over schemaless rows — filter, then search, then
// paginate — so a search never sees rows the filter removed and the page is
// always cut from the fully narrowed set.
package table

import (
	"fmt"
	"strings"
	"sync"
)

// Row is one table row. Every row must carry its identity in an "id" or "_id"
// field; there is no fallback to slice position, because positions shift as
// rows are filtered and re-fetched.
type Row = map[string]any

// Column declares one rendered column: the row field it reads and the header
// label it shows.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 4

// Table is the stateful engine for one list view. Mutators keep the current
// page consistent with the narrowed row set: changing the search or a filter
// snaps back to page one, and SetPage ignores targets outside the valid range.
type Table struct {
	mu       sync.Mutex
	columns  []Column
	rows     []Row
	search   string
	filters  map[string]string
	page     int
	pageSize int
}

// View is a rendered page of the table.
type View struct {
	Columns    []Column          `json:"columns"`
	Rows       []Row             `json:"rows"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalRows  int               `json:"totalRows"`
	TotalPages int               `json:"totalPages"`
	HasPrev    bool              `json:"hasPrev"`
	HasNext    bool              `json:"hasNext"`
	Search     string            `json:"search,omitempty"`
	Filters    map[string]string `json:"filters,omitempty"`
}

// New creates a table over the given columns. A non-positive pageSize falls
// back to DefaultPageSize.
func New(columns []Column, pageSize int) *Table {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Table{
		columns:  columns,
		filters:  make(map[string]string),
		page:     1,
		pageSize: pageSize,
	}
}

// SetRows replaces the table's row set. Every row must carry an identity; the
// first row without one fails the whole call and leaves the table unchanged.
func (t *Table) SetRows(rows []Row) error {
	for i, r := range rows {
		if _, ok := rowID(r); !ok {
			return fmt.Errorf("table: row %d has no id or _id field", i)
		}
	}
	t.mu.Lock()
	t.rows = rows
	t.mu.Unlock()
	return nil
}

// SetSearch installs a search query and snaps back to the first page.
func (t *Table) SetSearch(q string) {
	t.mu.Lock()
	t.search = q
	t.page = 1
	t.mu.Unlock()
}

// SetFilter installs an exact-match filter on one column and snaps back to
// the first page. An empty value clears the filter for that column.
func (t *Table) SetFilter(key, value string) {
	t.mu.Lock()
	if value == "" {
		delete(t.filters, key)
	} else {
		t.filters[key] = value
	}
	t.page = 1
	t.mu.Unlock()
}

// SetPage moves to the given page. Targets outside [1, totalPages] are
// ignored rather than clamped, matching the dashboard's pager buttons which
// simply do nothing at either edge.
func (t *Table) SetPage(page int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if page < 1 || page > t.totalPagesLocked() {
		return
	}
	t.page = page
}

// SetPageSize changes the page size and snaps back to the first page.
// Non-positive sizes are ignored.
func (t *Table) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	t.mu.Lock()
	t.pageSize = size
	t.page = 1
	t.mu.Unlock()
}

// Page runs the pipeline and renders the current page.
func (t *Table) Page() View {
	t.mu.Lock()
	defer t.mu.Unlock()

	narrowed := t.narrowedLocked()
	total := len(narrowed)
	totalPages := pageCount(total, t.pageSize)

	page := t.page
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * t.pageSize
	end := start + t.pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	filters := make(map[string]string, len(t.filters))
	for k, v := range t.filters {
		filters[k] = v
	}

	return View{
		Columns:    t.columns,
		Rows:       narrowed[start:end],
		Page:       page,
		PageSize:   t.pageSize,
		TotalRows:  total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		Search:     t.search,
		Filters:    filters,
	}
}

// narrowedLocked applies filters then search, preserving row order.
func (t *Table) narrowedLocked() []Row {
	out := make([]Row, 0, len(t.rows))
	query := strings.ToLower(t.search)
	for _, r := range t.rows {
		if !t.matchesFiltersLocked(r) {
			continue
		}
		if query != "" && !t.matchesSearchLocked(r, query) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// matchesFiltersLocked requires every active filter to equal its column
// value, ignoring case.
func (t *Table) matchesFiltersLocked(r Row) bool {
	for key, want := range t.filters {
		if !strings.EqualFold(cellString(r[key]), want) {
			return false
		}
	}
	return true
}

// matchesSearchLocked does a case-insensitive substring match across every
// stringified field of the row, declared as a column or not.
func (t *Table) matchesSearchLocked(r Row, query string) bool {
	for _, v := range r {
		if strings.Contains(strings.ToLower(cellString(v)), query) {
			return true
		}
	}
	return false
}

func (t *Table) totalPagesLocked() int {
	return pageCount(len(t.narrowedLocked()), t.pageSize)
}

// pageCount never reports fewer than one page so the pager always has a
// valid current page, even over an empty set.
func pageCount(total, pageSize int) int {
	if total == 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// cellString renders a cell value for matching. JSON numbers arrive as
// float64; integral ones print without the trailing ".0" wart.
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// rowID mirrors the stores' identity rule: "id" first, then "_id".
func rowID(r Row) (string, bool) {
	for _, field := range []string{"id", "_id"} {
		if v, ok := r[field]; ok && v != nil {
			s := cellString(v)
			if s != "" {
				return s, true
			}
		}
	}
	return "", false
}
