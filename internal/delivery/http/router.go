package http

import (
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Events   *controllers.EventController
	RSVPs    *controllers.RSVPController
	Reviews  *controllers.ReviewController
	Profiles *controllers.ProfileController
}

// Middlewares are applied per route. Authenticate runs on every API route;
// RateLimit only on routes that change state. Nil entries are skipped.
type Middlewares struct {
	Authenticate func(http.HandlerFunc) http.HandlerFunc
	RateLimit    func(http.HandlerFunc) http.HandlerFunc
}

// NewRouter initializes the HTTP router with all application routes.
// Every route answers both with and without the trailing slash.
func NewRouter(c Controllers, m Middlewares) *http.ServeMux {
	mux := http.NewServeMux()
	authenticate := orIdentity(m.Authenticate)
	limit := orIdentity(m.RateLimit)

	// Optional auth: anonymous callers see public data only.
	public := func(h http.HandlerFunc) http.HandlerFunc {
		return authenticate(h)
	}
	// Required auth, rate limited per user.
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return authenticate(middleware.RequireAuth(limit(h)))
	}

	handle(mux, "GET /events/", public(c.Events.ListEvents))
	handle(mux, "POST /events/", protected(c.Events.CreateEvent))
	handle(mux, "GET /events/{eventID}/", public(c.Events.GetEvent))
	handle(mux, "PUT /events/{eventID}/", protected(c.Events.ReplaceEvent))
	handle(mux, "PATCH /events/{eventID}/", protected(c.Events.PatchEvent))
	handle(mux, "DELETE /events/{eventID}/", protected(c.Events.DeleteEvent))

	handle(mux, "GET /events/{eventID}/rsvp/", public(c.RSVPs.ListRSVPs))
	handle(mux, "POST /events/{eventID}/rsvp/", protected(c.RSVPs.UpsertRSVP))
	handle(mux, "PUT /events/{eventID}/rsvp/{userID}/", protected(c.RSVPs.UpdateRSVP))
	handle(mux, "PATCH /events/{eventID}/rsvp/{userID}/", protected(c.RSVPs.UpdateRSVP))

	handle(mux, "GET /events/{eventID}/reviews/", public(c.Reviews.ListReviews))
	handle(mux, "POST /events/{eventID}/reviews/", protected(c.Reviews.CreateReview))

	handle(mux, "GET /profiles/me/", authenticate(middleware.RequireAuth(c.Profiles.GetMyProfile)))
	handle(mux, "PATCH /profiles/me/", protected(c.Profiles.UpdateMyProfile))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// handle registers pattern, which must end in "/", for the exact path with
// and without its trailing slash.
func handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern+"{$}", h)
	mux.HandleFunc(strings.TrimSuffix(pattern, "/"), h)
}

func orIdentity(mw func(http.HandlerFunc) http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	if mw == nil {
		return func(h http.HandlerFunc) http.HandlerFunc { return h }
	}
	return mw
}
