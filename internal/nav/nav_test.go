package nav

import (
	"testing"

	"github.com/filmcounts/filmcounts-gateway/internal/session"
)

func sessionWith(roles ...string) *session.Session {
	memberships := []session.Membership{}
	if len(roles) > 0 {
		memberships = append(memberships, session.Membership{Organization: "org-a", Roles: roles})
	}
	return &session.Session{
		User:   &session.User{ID: "u1", Organizations: memberships},
		IsAuth: true,
	}
}

func sectionLabels(sections []Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Label
	}
	return out
}

func hasSection(sections []Section, label string) bool {
	for _, s := range sections {
		if s.Label == label {
			return true
		}
	}
	return false
}

func TestSections_Unauthenticated(t *testing.T) {
	if got := Sections(nil); len(got) != 0 {
		t.Errorf("Sections(nil) = %v", sectionLabels(got))
	}
	if got := Sections(&session.Session{}); len(got) != 0 {
		t.Errorf("Sections(logged out) = %v", sectionLabels(got))
	}
}

func TestSections_IndividualUser(t *testing.T) {
	s := &session.Session{User: &session.User{ID: "u1"}, IsAuth: true}
	got := Sections(s)

	if !hasSection(got, "Finance") || !hasSection(got, "Account") {
		t.Errorf("Sections = %v", sectionLabels(got))
	}
	if hasSection(got, "Organization") {
		t.Error("Organization section shown without memberships")
	}
	if hasSection(got, "Administration") {
		t.Error("Administration section shown to non-admin")
	}
}

func TestSections_OrganizationMember(t *testing.T) {
	got := Sections(sessionWith("MEMBER"))
	if !hasSection(got, "Organization") {
		t.Errorf("Sections = %v", sectionLabels(got))
	}
	if hasSection(got, "Administration") {
		t.Error("Administration section shown to MEMBER")
	}
}

func TestSections_Admin(t *testing.T) {
	got := Sections(sessionWith("ADMIN"))
	if !hasSection(got, "Administration") {
		t.Errorf("Sections = %v", sectionLabels(got))
	}
	// Admins keep the member sections too.
	if !hasSection(got, "Organization") || !hasSection(got, "Finance") {
		t.Errorf("Sections = %v", sectionLabels(got))
	}
}

func TestSections_LowercaseAdminDoesNotElevate(t *testing.T) {
	if hasSection(Sections(sessionWith("admin")), "Administration") {
		t.Error("lowercase admin role granted the Administration section")
	}
}

func TestSections_SlugsAreStable(t *testing.T) {
	got := Sections(sessionWith("ADMIN"))
	for _, sec := range got {
		if sec.Slug == "" {
			t.Errorf("section %q has empty slug", sec.Label)
		}
		for _, l := range sec.Links {
			if l.Slug == "" || l.Path == "" {
				t.Errorf("link %+v incomplete", l)
			}
		}
	}
}

func TestOrganizationPath_Escapes(t *testing.T) {
	got := OrganizationPath("ACME Productions, Ltd.")
	if got != "/organizations/acme-productions-ltd" {
		t.Errorf("OrganizationPath = %q", got)
	}
}
