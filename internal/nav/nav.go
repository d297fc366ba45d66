// Package nav builds the side-navigation model for the dashboard shell. The
// link set is role-aware: every signed-in user gets the personal finance
// screens, users with organization memberships get the entity screens, and
// admins additionally get user management, the audit trail, and configuration.
package nav

import (
	"github.com/filmcounts/filmcounts-gateway/internal/session"
	"github.com/filmcounts/filmcounts-gateway/internal/table"
)

// Link is one navigation entry. Slug doubles as the DOM id and the
// navSection query value for the entry's section.
type Link struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Slug  string `json:"slug"`
}

// Section groups links under a collapsible header.
type Section struct {
	Label string `json:"label"`
	Slug  string `json:"slug"`
	Links []Link `json:"links"`
}

func link(label, path string) Link {
	return Link{Label: label, Path: path, Slug: table.Slug(label)}
}

func section(label string, links ...Link) Section {
	return Section{Label: label, Slug: table.Slug(label), Links: links}
}

// Sections returns the nav model for a session. Unauthenticated sessions see
// nothing; the login screen has no chrome.
func Sections(s *session.Session) []Section {
	if s == nil || !s.IsAuth {
		return []Section{}
	}

	sections := []Section{
		section("Finance",
			link("Dashboard", "/dashboard"),
			link("Projects", "/projects"),
			link("Budgets", "/budgets"),
			link("Requisitions", "/requisitions"),
			link("Reconciliations", "/reconciliations"),
		),
		section("Account",
			link("Notifications", "/notifications"),
			link("Settings", "/settings"),
		),
	}

	if len(s.UserOrganizations()) > 0 {
		sections = append(sections, section("Organization",
			link("Organizations", "/organizations"),
			link("Companies", "/companies"),
			link("Suppliers", "/suppliers"),
			link("Departments", "/departments"),
		))
	}

	if s.IsAdmin() {
		sections = append(sections, section("Administration",
			link("User Management", "/admin/users"),
			link("Audit Trail", "/admin/trail"),
			link("Configuration", "/admin/configs"),
		))
	}

	return sections
}

// OrganizationPath builds the route for one organization's page. The name is
// slugged through the shared utility so arbitrary organization names cannot
// smuggle path separators into the route.
func OrganizationPath(name string) string {
	return "/organizations/" + table.Slug(name)
}
