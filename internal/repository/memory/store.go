// Package memory keeps every repository in process memory behind one mutex.
// It backs DB_DRIVER=memory and the service and controller tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventhub/internal/domain"
)

// Store holds all tables. The zero value is not usable; call New.
type Store struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	profiles map[string]domain.Profile
	events   map[string]domain.Event
	rsvps    map[rsvpKey]domain.RSVP
	reviews  []domain.Review
}

type rsvpKey struct{ eventID, userID string }

func New() *Store {
	return &Store{
		users:    make(map[string]domain.User),
		profiles: make(map[string]domain.Profile),
		events:   make(map[string]domain.Event),
		rsvps:    make(map[rsvpKey]domain.RSVP),
	}
}

func (s *Store) Users() domain.UserRepository       { return userRepo{s} }
func (s *Store) Profiles() domain.ProfileRepository { return profileRepo{s} }
func (s *Store) Events() domain.EventRepository     { return eventRepo{s} }
func (s *Store) RSVPs() domain.RSVPRepository       { return rsvpRepo{s} }
func (s *Store) Reviews() domain.ReviewRepository   { return reviewRepo{s} }

func (s *Store) username(id string) string { return s.users[id].Username }

func (s *Store) checkUsers(ids []string) error {
	for _, id := range ids {
		if _, ok := s.users[id]; !ok {
			return fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
		}
	}
	return nil
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *domain.User, p *domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; ok {
		return nil
	}
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return fmt.Errorf("%w: username %q taken", domain.ErrConflict, u.Username)
		}
	}
	r.s.users[u.ID] = *u
	if _, ok := r.s.profiles[u.ID]; !ok {
		r.s.profiles[u.ID] = *p
	}
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) ListByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, &u)
		}
	}
	return out, nil
}

type profileRepo struct{ s *Store }

func (r profileRepo) GetByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r profileRepo) Update(_ context.Context, p *domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[p.UserID]; !ok {
		return domain.ErrNotFound
	}
	r.s.profiles[p.UserID] = *p
	return nil
}

type eventRepo struct{ s *Store }

func (r eventRepo) Create(_ context.Context, e *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkUsers(append([]string{e.OrganizerID}, e.InvitedUserIDs...)); err != nil {
		return err
	}
	e.ID = uuid.NewString()
	r.s.events[e.ID] = cloneEvent(*e)
	return nil
}

func (r eventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.s.hydrate(e), nil
}

func (r eventRepo) List(_ context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	matched := make([]domain.Event, 0, len(r.s.events))
	for _, e := range r.s.events {
		if filter.Matches(&e) {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	start, end := params.Window(len(matched))
	page := make([]*domain.Event, 0, end-start)
	for _, e := range matched[start:end] {
		page = append(page, r.s.hydrate(e))
	}
	return page, len(matched), nil
}

func (r eventRepo) Update(_ context.Context, e *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.events[e.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := r.s.checkUsers(e.InvitedUserIDs); err != nil {
		return err
	}
	updated := cloneEvent(*e)
	updated.OrganizerID = current.OrganizerID
	updated.CreatedAt = current.CreatedAt
	r.s.events[e.ID] = updated
	return nil
}

func (r eventRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.events, id)
	for k := range r.s.rsvps {
		if k.eventID == id {
			delete(r.s.rsvps, k)
		}
	}
	r.s.reviews = slices.DeleteFunc(r.s.reviews, func(rv domain.Review) bool { return rv.EventID == id })
	return nil
}

func (s *Store) hydrate(e domain.Event) *domain.Event {
	out := cloneEvent(e)
	out.Organizer = s.username(e.OrganizerID)
	return &out
}

func cloneEvent(e domain.Event) domain.Event {
	e.InvitedUserIDs = append([]string{}, e.InvitedUserIDs...)
	return e
}

type rsvpRepo struct{ s *Store }

func (r rsvpRepo) Upsert(_ context.Context, rsvp *domain.RSVP) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[rsvp.EventID]; !ok {
		return fmt.Errorf("%w: event %s", domain.ErrNotFound, rsvp.EventID)
	}
	if err := r.s.checkUsers([]string{rsvp.UserID}); err != nil {
		return err
	}
	key := rsvpKey{rsvp.EventID, rsvp.UserID}
	row, ok := r.s.rsvps[key]
	if ok {
		row.Status = rsvp.Status
		row.UpdatedAt = rsvp.UpdatedAt
	} else {
		row = *rsvp
		row.ID = uuid.NewString()
	}
	r.s.rsvps[key] = row
	row.User = r.s.username(row.UserID)
	*rsvp = row
	return nil
}

func (r rsvpRepo) UpdateStatus(_ context.Context, eventID, userID string, status domain.RSVPStatus, updatedAt time.Time) (*domain.RSVP, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := rsvpKey{eventID, userID}
	row, ok := r.s.rsvps[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	row.Status = status
	row.UpdatedAt = updatedAt
	r.s.rsvps[key] = row
	row.User = r.s.username(userID)
	return &row, nil
}

func (r rsvpRepo) GetByEventAndUser(_ context.Context, eventID, userID string) (*domain.RSVP, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.rsvps[rsvpKey{eventID, userID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	row.User = r.s.username(userID)
	return &row, nil
}

func (r rsvpRepo) ListByEventID(_ context.Context, eventID string) ([]*domain.RSVP, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.RSVP, 0)
	for k, row := range r.s.rsvps {
		if k.eventID != eventID {
			continue
		}
		row.User = r.s.username(row.UserID)
		out = append(out, &row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type reviewRepo struct{ s *Store }

func (r reviewRepo) Create(_ context.Context, rv *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[rv.EventID]; !ok {
		return fmt.Errorf("%w: event %s", domain.ErrNotFound, rv.EventID)
	}
	if err := r.s.checkUsers([]string{rv.UserID}); err != nil {
		return err
	}
	rv.ID = uuid.NewString()
	rv.User = r.s.username(rv.UserID)
	r.s.reviews = append(r.s.reviews, *rv)
	return nil
}

func (r reviewRepo) ListByEventID(_ context.Context, eventID string) ([]*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Review, 0)
	// Walk backwards so equal timestamps keep newest-inserted first.
	for i := len(r.s.reviews) - 1; i >= 0; i-- {
		rv := r.s.reviews[i]
		if rv.EventID != eventID {
			continue
		}
		rv.User = r.s.username(rv.UserID)
		out = append(out, &rv)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
