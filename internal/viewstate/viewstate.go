// Package viewstate implements the dashboard's query-parameter UI protocol.
// Add/edit panels, cards, and the expanded nav section are not stored
// server-side or in cookies; they live in the page URL so views are
// shareable and the back button works. The protocol has two dialects that
// must both be understood:
//
//	companyEdit=c7          edit panel for company c7
//	companyAdd=true         add panel for a new company
//	requisition=edit&id=r9  edit panel for requisition r9
//	reconciliation=add      add panel for a new reconciliation
//	card=summary            which dashboard card is expanded
//	navSection=finance      which nav section is open
//
// Requisitions and reconciliations predate the {entity}Edit form and keep
// their mode-plus-id spelling. At most one add/edit intent is valid at a
// time, so every setter clears competing keys first.
package viewstate

import (
	"net/url"
	"sort"
	"strings"
)

// Mode is the panel intent encoded in the URL.
type Mode string

const (
	ModeNone Mode = ""
	ModeAdd  Mode = "add"
	ModeEdit Mode = "edit"
)

// modalEntities use the mode-plus-id dialect.
var modalEntities = []string{"requisition", "reconciliation"}

// State is the decoded UI state of one page URL.
type State struct {
	Entity     string `json:"entity,omitempty"`
	Mode       Mode   `json:"mode,omitempty"`
	ID         string `json:"id,omitempty"`
	Card       string `json:"card,omitempty"`
	NavSection string `json:"navSection,omitempty"`
}

// Parse decodes the UI state from query parameters. When a URL carries
// several competing intents (hand-edited or stale), the winner is chosen
// deterministically: mode-plus-id entities first, then {entity}Edit, then
// {entity}Add, alphabetically within each group.
func Parse(q url.Values) State {
	s := State{
		Card:       q.Get("card"),
		NavSection: q.Get("navSection"),
	}

	for _, entity := range modalEntities {
		switch Mode(q.Get(entity)) {
		case ModeEdit:
			return State{Entity: entity, Mode: ModeEdit, ID: q.Get("id"), Card: s.Card, NavSection: s.NavSection}
		case ModeAdd:
			return State{Entity: entity, Mode: ModeAdd, Card: s.Card, NavSection: s.NavSection}
		}
	}

	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if entity, ok := strings.CutSuffix(k, "Edit"); ok && entity != "" && q.Get(k) != "" {
			return State{Entity: entity, Mode: ModeEdit, ID: q.Get(k), Card: s.Card, NavSection: s.NavSection}
		}
	}
	for _, k := range keys {
		if entity, ok := strings.CutSuffix(k, "Add"); ok && entity != "" && q.Get(k) != "" {
			return State{Entity: entity, Mode: ModeAdd, Card: s.Card, NavSection: s.NavSection}
		}
	}
	return s
}

// SetEdit rewrites q to carry a single edit intent for the entity,
// clearing every competing add/edit key first.
func SetEdit(q url.Values, entity, id string) url.Values {
	out := clearIntents(q)
	if isModalEntity(entity) {
		out.Set(entity, string(ModeEdit))
		out.Set("id", id)
		return out
	}
	out.Set(entity+"Edit", id)
	return out
}

// SetAdd rewrites q to carry a single add intent for the entity.
func SetAdd(q url.Values, entity string) url.Values {
	out := clearIntents(q)
	if isModalEntity(entity) {
		out.Set(entity, string(ModeAdd))
		return out
	}
	out.Set(entity+"Add", "true")
	return out
}

// Clear removes every add/edit intent, keeping card and navSection.
func Clear(q url.Values) url.Values {
	return clearIntents(q)
}

// Encode renders the state back into query parameters.
func (s State) Encode() url.Values {
	q := url.Values{}
	switch {
	case s.Mode == ModeNone || s.Entity == "":
	case isModalEntity(s.Entity):
		q.Set(s.Entity, string(s.Mode))
		if s.Mode == ModeEdit && s.ID != "" {
			q.Set("id", s.ID)
		}
	case s.Mode == ModeEdit:
		q.Set(s.Entity+"Edit", s.ID)
	case s.Mode == ModeAdd:
		q.Set(s.Entity+"Add", "true")
	}
	if s.Card != "" {
		q.Set("card", s.Card)
	}
	if s.NavSection != "" {
		q.Set("navSection", s.NavSection)
	}
	return q
}

func isModalEntity(entity string) bool {
	for _, e := range modalEntities {
		if e == entity {
			return true
		}
	}
	return false
}

// clearIntents copies q without any add/edit keys or the floating id.
func clearIntents(q url.Values) url.Values {
	out := url.Values{}
	for k, vs := range q {
		if k == "id" || isModalEntity(k) ||
			strings.HasSuffix(k, "Edit") || strings.HasSuffix(k, "Add") {
			continue
		}
		out[k] = append([]string(nil), vs...)
	}
	return out
}
