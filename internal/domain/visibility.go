package domain

// EventFilter selects the events a viewer may enumerate.
// An empty ViewerID restricts the result to public events; otherwise the
// result is public events plus those the viewer organizes or is invited to.
type EventFilter struct {
	ViewerID string
}

// Listable returns the listing filter for viewer.
func Listable(viewer Viewer) EventFilter {
	if !viewer.Authenticated() {
		return EventFilter{}
	}
	return EventFilter{ViewerID: viewer.UserID}
}

// PublicOnly reports whether the filter is restricted to public events.
func (f EventFilter) PublicOnly() bool { return f.ViewerID == "" }

// Matches evaluates the filter against a loaded event.
func (f EventFilter) Matches(e *Event) bool {
	if e.IsPublic {
		return true
	}
	if f.PublicOnly() {
		return false
	}
	return e.OrganizerID == f.ViewerID || e.IsInvited(f.ViewerID)
}
