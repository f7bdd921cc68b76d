package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain"
)

type sentMail struct {
	to, subject, html, text string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, html, text})
	return nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(name string, data any) (string, string, string, error) {
	d := data.(*domain.EventCreatedEmailData)
	return name + ": " + d.Title, "<p>" + d.Organizer + "</p>", d.Location, nil
}

func TestNotificationService_HandleEventCreated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.create(t, f.dev, "Launch", true)

	mailer := &fakeMailer{}
	emails := NewEmailService(mailer, fakeRenderer{}, testLogger())
	svc := NewNotificationService(f.store.Events(), f.store.Users(), emails, testLogger())

	require.NoError(t, svc.HandleEventCreated(ctx, domain.EventCreatedJob{EventID: e.ID}))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, sentMail{"dev@example.com", "event_created: Launch", "<p>dev</p>", "Lisbon"}, mailer.sent[0])

	mailer.err = errors.New("smtp down")
	err := svc.HandleEventCreated(ctx, domain.EventCreatedJob{EventID: e.ID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}

func TestNotificationService_SkipsOrganizerWithoutEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := domain.NewUser("u-quiet", "quiet", "", f.svc.now())
	require.NoError(t, f.store.Users().Create(ctx, u, &domain.Profile{UserID: u.ID}))
	e := f.create(t, domain.ViewerFor(u), "Quiet", true)

	mailer := &fakeMailer{}
	svc := NewNotificationService(f.store.Events(), f.store.Users(), NewEmailService(mailer, fakeRenderer{}, testLogger()), testLogger())
	require.NoError(t, svc.HandleEventCreated(ctx, domain.EventCreatedJob{EventID: e.ID}))
	assert.Empty(t, mailer.sent)
}

func TestNotificationService_SkipsDeletedEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.create(t, f.dev, "Cancelled", true)
	require.NoError(t, f.svc.DeleteEvent(ctx, f.dev, e.ID))

	mailer := &fakeMailer{}
	svc := NewNotificationService(f.store.Events(), f.store.Users(), NewEmailService(mailer, fakeRenderer{}, testLogger()), testLogger())
	require.NoError(t, svc.HandleEventCreated(ctx, domain.EventCreatedJob{EventID: e.ID}))
	require.NoError(t, svc.HandleEventCreated(ctx, domain.EventCreatedJob{EventID: "never-existed"}))
	assert.Empty(t, mailer.sent)
}
