package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain"
)

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Fields
}

func TestEvent(t *testing.T) {
	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	valid := domain.EventInput{
		Title:       "Go meetup",
		Description: "Talks",
		Location:    "Berlin",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
	}

	tests := []struct {
		name       string
		mutate     func(in *domain.EventInput)
		wantFields map[string]string
	}{
		{
			name:   "valid",
			mutate: func(in *domain.EventInput) {},
		},
		{
			name:   "end equal to start is allowed",
			mutate: func(in *domain.EventInput) { in.EndTime = in.StartTime },
		},
		{
			name:       "end before start",
			mutate:     func(in *domain.EventInput) { in.EndTime = in.StartTime.Add(-time.Minute) },
			wantFields: map[string]string{"end_time": "must not be before start_time"},
		},
		{
			name: "missing required fields",
			mutate: func(in *domain.EventInput) {
				in.Title = ""
				in.StartTime = time.Time{}
			},
			wantFields: map[string]string{"title": "is required", "start_time": "is required"},
		},
		{
			name:       "title too long",
			mutate:     func(in *domain.EventInput) { in.Title = strings.Repeat("x", 201) },
			wantFields: map[string]string{"title": "must be at most 200 characters"},
		},
		{
			name:       "blank invitee id",
			mutate:     func(in *domain.EventInput) { in.InvitedUserIDs = []string{"u-1", ""} },
			wantFields: map[string]string{"invited_users[1]": "is required"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := Event(in)
			if tt.wantFields == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tt.wantFields, fields(t, err))
		})
	}
}

func TestStruct_ReviewRating(t *testing.T) {
	require.NoError(t, Struct(domain.ReviewInput{Rating: 5}))
	assert.Equal(t, map[string]string{"rating": "must be at least 1"}, fields(t, Struct(domain.ReviewInput{Rating: 0})))
	assert.Equal(t, map[string]string{"rating": "must be at most 5"}, fields(t, Struct(domain.ReviewInput{Rating: 6})))
}

func TestRSVPStatus(t *testing.T) {
	require.NoError(t, RSVPStatus(domain.RSVPNotGoing))
	got := fields(t, RSVPStatus("Yes"))
	assert.Equal(t, `must be one of "Going", "Maybe", "Not Going"`, got["status"])
}

func TestStruct_ClearableURL(t *testing.T) {
	type profile struct {
		ImageURL *string `json:"image_url" validate:"omitnil,url_or_empty"`
	}
	empty, good, bad := "", "https://img.example.com/a.png", "nope"

	require.NoError(t, Struct(profile{}))
	require.NoError(t, Struct(profile{ImageURL: &empty}), "an empty value clears the field")
	require.NoError(t, Struct(profile{ImageURL: &good}))
	assert.Equal(t, map[string]string{"image_url": "must be a valid URL"}, fields(t, Struct(profile{ImageURL: &bad})))
}
