package stores

import "testing"

func TestNotifications_AddAndList(t *testing.T) {
	n := newNotificationStore()
	n.Add("Budget approved", "Q3 budget was approved", "info")
	n.Add("Requisition failed", "REQ-9 was rejected", "error")

	items := n.List()
	if len(items) != 2 {
		t.Fatalf("List = %d items, want 2", len(items))
	}
	// Newest first.
	if items[0].Title != "Requisition failed" {
		t.Errorf("items[0] = %q", items[0].Title)
	}
	if items[0].ID == items[1].ID {
		t.Error("notifications share an id")
	}
	if n.Unread() != 2 {
		t.Errorf("Unread = %d, want 2", n.Unread())
	}
}

func TestNotifications_MarkReadAndDismiss(t *testing.T) {
	n := newNotificationStore()
	a := n.Add("a", "", "info")
	b := n.Add("b", "", "info")

	if !n.MarkRead(a.ID) {
		t.Error("MarkRead(known) = false")
	}
	if n.MarkRead("missing") {
		t.Error("MarkRead(unknown) = true")
	}
	if n.Unread() != 1 {
		t.Errorf("Unread = %d, want 1", n.Unread())
	}

	if !n.Dismiss(b.ID) {
		t.Error("Dismiss(known) = false")
	}
	if n.Dismiss(b.ID) {
		t.Error("Dismiss twice = true")
	}
	if len(n.List()) != 1 {
		t.Errorf("List = %d items after dismiss, want 1", len(n.List()))
	}
}

func TestNotifications_MarkAllReadAndClear(t *testing.T) {
	n := newNotificationStore()
	n.Add("a", "", "info")
	n.Add("b", "", "warn")

	n.MarkAllRead()
	if n.Unread() != 0 {
		t.Errorf("Unread = %d after MarkAllRead", n.Unread())
	}

	n.Clear()
	if len(n.List()) != 0 {
		t.Error("List not empty after Clear")
	}
}
