package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain"
	"eventhub/internal/repository/memory"
)

func TestUserService_Resolve(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewUserService(store.Users(), store.Profiles(), 5*time.Second)

	u, err := svc.Resolve(ctx, domain.Identity{UserID: "u-1", Username: "amy", Email: " Amy@Example.com "})
	require.NoError(t, err)
	assert.Equal(t, "amy", u.Username)
	assert.Equal(t, "amy@example.com", u.Email)

	again, err := svc.Resolve(ctx, domain.Identity{UserID: "u-1", Username: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "amy", again.Username, "existing users are not rewritten")

	p, err := svc.GetProfile(ctx, domain.ViewerFor(u))
	require.NoError(t, err)
	assert.Equal(t, "amy", p.FullName)

	noName, err := svc.Resolve(ctx, domain.Identity{UserID: "u-2"})
	require.NoError(t, err)
	assert.Equal(t, "u-2", noName.Username)

	_, err = svc.Resolve(ctx, domain.Identity{})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewUserService(store.Users(), store.Profiles(), 5*time.Second)
	u, err := svc.Resolve(ctx, domain.Identity{UserID: "u-1", Username: "amy"})
	require.NoError(t, err)
	viewer := domain.ViewerFor(u)

	bio := "hello"
	img := "https://img.example.com/amy.png"
	p, err := svc.UpdateProfile(ctx, viewer, domain.ProfilePatch{Bio: &bio, ImageURL: &img})
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Bio)
	assert.Equal(t, "amy", p.FullName)
	require.NotNil(t, p.ImageURL)

	empty := ""
	p, err = svc.UpdateProfile(ctx, viewer, domain.ProfilePatch{ImageURL: &empty})
	require.NoError(t, err)
	assert.Nil(t, p.ImageURL)
	assert.Equal(t, "hello", p.Bio)

	_, err = svc.UpdateProfile(ctx, domain.Anonymous(), domain.ProfilePatch{Bio: &bio})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}
