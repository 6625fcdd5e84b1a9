package reservation

import (
	"time"

	"parksystem-backend/internal/model"
)

// DefaultPageSize is the number of items a paginated tab shows before "load more".
const DefaultPageSize = 5

// View is the display list computed for one selection.
type View struct {
	Tab     Tab
	Items   []Item
	Total   int // items before truncation
	Matched int // reservations that passed the tab and search filter
	HasMore bool
}

// Paginate truncates items to visible entries on paginated tabs. The second result reports
// whether items were cut off.
func Paginate(items []Item, tab Tab, visible int) ([]Item, bool) {
	if !tab.Paginated() {
		return items, false
	}
	if visible < 0 {
		visible = 0
	}
	if visible >= len(items) {
		return items, false
	}
	return items[:visible], true
}

// Build filters, groups and paginates all for the given tab, query and visible count.
func Build(all []model.Reservation, tab Tab, query string, visible int, now time.Time) View {
	matched := Filter(all, tab, query, now)
	grouped := GroupByFlight(matched, now.Location())
	items, more := Paginate(grouped, tab, visible)
	return View{
		Tab:     tab,
		Items:   items,
		Total:   len(grouped),
		Matched: len(matched),
		HasMore: more,
	}
}

// Selection is the operator's filter state: active tab, search text and how many
// items of a paginated tab are visible.
type Selection struct {
	tab      Tab
	query    string
	pageSize int
	visible  int
}

// NewSelection starts on today's tab with one page visible.
func NewSelection(pageSize int) *Selection {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Selection{tab: TabToday, pageSize: pageSize, visible: pageSize}
}

// Tab returns the active tab.
func (s *Selection) Tab() Tab { return s.tab }

// Query returns the search text.
func (s *Selection) Query() string { return s.query }

// Visible returns the current visible item count.
func (s *Selection) Visible() int { return s.visible }

// SetTab switches the active tab. Switching to a different tab resets the visible count.
func (s *Selection) SetTab(tab Tab) {
	if tab == s.tab {
		return
	}
	s.tab = tab
	s.visible = s.pageSize
}

// SetQuery replaces the search text.
func (s *Selection) SetQuery(q string) { s.query = q }

// LoadMore shows one more page.
func (s *Selection) LoadMore() { s.visible += s.pageSize }

// View builds the display list of all for this selection.
func (s *Selection) View(all []model.Reservation, now time.Time) View {
	return Build(all, s.tab, s.query, s.visible, now)
}
