package domain

// Viewer is the caller of an operation. The zero value is the anonymous viewer.
type Viewer struct {
	UserID   string
	Username string
}

// Anonymous returns the viewer used for requests without credentials.
func Anonymous() Viewer { return Viewer{} }

// ViewerFor returns the viewer for an authenticated user.
func ViewerFor(u *User) Viewer {
	return Viewer{UserID: u.ID, Username: u.Username}
}

// Authenticated reports whether the viewer carries a user identity.
func (v Viewer) Authenticated() bool { return v.UserID != "" }

// Operation is the kind of access requested on an event.
type Operation int

const (
	OpRead Operation = iota
	// OpWrite covers update and delete.
	OpWrite
)

func (o Operation) String() string {
	if o == OpWrite {
		return "write"
	}
	return "read"
}

// Authorize decides whether viewer may perform op on event.
//
// Public events are readable by everyone. The organizer may read and write
// regardless of visibility. Invited users may read a private event but never
// write it. Everything else is denied.
func Authorize(viewer Viewer, event *Event, op Operation) bool {
	if event.IsPublic && op == OpRead {
		return true
	}
	if viewer.Authenticated() && viewer.UserID == event.OrganizerID {
		return true
	}
	if !event.IsPublic && op == OpRead && viewer.Authenticated() && event.IsInvited(viewer.UserID) {
		return true
	}
	return false
}

// DenyError maps a denied decision to the error surfaced to the caller.
// Anonymous writers are asked to authenticate; anonymous readers get
// ErrNotFound so private events stay hidden; authenticated callers get
// ErrForbidden.
func DenyError(viewer Viewer, op Operation) error {
	if !viewer.Authenticated() {
		if op == OpWrite {
			return ErrUnauthenticated
		}
		return ErrNotFound
	}
	return ErrForbidden
}

// CheckAccess combines Authorize and DenyError.
func CheckAccess(viewer Viewer, event *Event, op Operation) error {
	if Authorize(viewer, event, op) {
		return nil
	}
	return DenyError(viewer, op)
}
