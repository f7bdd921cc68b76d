package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain"
)

func seed(t *testing.T, s *Store, id, name string) domain.Viewer {
	t.Helper()
	u := domain.NewUser(id, name, name+"@example.com", time.Now())
	require.NoError(t, s.Users().Create(context.Background(), u, &domain.Profile{UserID: id, FullName: name}))
	return domain.ViewerFor(u)
}

func TestStore_ListAppliesFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	dev := seed(t, s, "u-dev", "dev")
	tmp := seed(t, s, "u-tmp", "tmp")

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(title string, public bool, offset time.Duration, invited ...string) *domain.Event {
		e := domain.NewEvent(domain.EventInput{Title: title, IsPublic: public, InvitedUserIDs: invited}, dev, base.Add(offset), base.Add(offset))
		require.NoError(t, s.Events().Create(ctx, e))
		return e
	}
	pub := mk("pub", true, 0)
	inv := mk("inv", false, time.Minute, tmp.UserID)
	mk("hidden", false, 2*time.Minute)

	page, total, err := s.Events().List(ctx, domain.Listable(tmp), domain.PaginationParams{Page: 1, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, page, 2)
	assert.Equal(t, inv.ID, page[0].ID)
	assert.Equal(t, pub.ID, page[1].ID)
	assert.Equal(t, "dev", page[0].Organizer)

	page, total, err = s.Events().List(ctx, domain.Listable(dev), domain.PaginationParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, pub.ID, page[0].ID)

	page[0].InvitedUserIDs = append(page[0].InvitedUserIDs, "mutated")
	again, err := s.Events().GetByID(ctx, pub.ID)
	require.NoError(t, err)
	assert.Empty(t, again.InvitedUserIDs, "returned events are copies")
}

func TestStore_EventReferencesMustExist(t *testing.T) {
	ctx := context.Background()
	s := New()
	dev := seed(t, s, "u-dev", "dev")
	e := domain.NewEvent(domain.EventInput{Title: "x", InvitedUserIDs: []string{"ghost"}}, dev, time.Now(), time.Now())
	require.ErrorIs(t, s.Events().Create(ctx, e), domain.ErrNotFound)

	err := s.Users().Create(ctx, domain.NewUser("u-2", "dev", "", time.Now()), &domain.Profile{UserID: "u-2"})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestStore_RSVPUpsertIsSingleRow(t *testing.T) {
	ctx := context.Background()
	s := New()
	dev := seed(t, s, "u-dev", "dev")
	tmp := seed(t, s, "u-tmp", "tmp")
	e := domain.NewEvent(domain.EventInput{Title: "x", IsPublic: true}, dev, time.Now(), time.Now())
	require.NoError(t, s.Events().Create(ctx, e))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := domain.RSVPStatuses[i%len(domain.RSVPStatuses)]
			assert.NoError(t, s.RSVPs().Upsert(ctx, domain.NewRSVP(e.ID, tmp, status, time.Now())))
		}(i)
	}
	wg.Wait()

	list, err := s.RSVPs().ListByEventID(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "tmp", list[0].User)

	_, err = s.RSVPs().UpdateStatus(ctx, e.ID, dev.UserID, domain.RSVPGoing, time.Now())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := New()
	dev := seed(t, s, "u-dev", "dev")
	e := domain.NewEvent(domain.EventInput{Title: "x", IsPublic: true}, dev, time.Now(), time.Now())
	require.NoError(t, s.Events().Create(ctx, e))
	require.NoError(t, s.RSVPs().Upsert(ctx, domain.NewRSVP(e.ID, dev, domain.RSVPGoing, time.Now())))
	require.NoError(t, s.Reviews().Create(ctx, &domain.Review{EventID: e.ID, UserID: dev.UserID, Rating: 3, CreatedAt: time.Now()}))

	require.NoError(t, s.Events().Delete(ctx, e.ID))
	require.ErrorIs(t, s.Events().Delete(ctx, e.ID), domain.ErrNotFound)

	rsvps, err := s.RSVPs().ListByEventID(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, rsvps)
	reviews, err := s.Reviews().ListByEventID(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestStore_ReviewsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	dev := seed(t, s, "u-dev", "dev")
	e := domain.NewEvent(domain.EventInput{Title: "x", IsPublic: true}, dev, time.Now(), time.Now())
	require.NoError(t, s.Events().Create(ctx, e))

	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, rating := range []int{1, 2, 3} {
		require.NoError(t, s.Reviews().Create(ctx, &domain.Review{EventID: e.ID, UserID: dev.UserID, Rating: rating, CreatedAt: ts.Add(time.Duration(i) * time.Hour)}))
	}
	list, err := s.Reviews().ListByEventID(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{list[0].Rating, list[1].Rating, list[2].Rating})
}
