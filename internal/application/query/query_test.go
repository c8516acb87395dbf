package query

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/roster-hub/internal/domain/roster"
	"github.com/alem-hub/roster-hub/internal/infrastructure/state"
)

func TestGetProfile(t *testing.T) {
	profile := roster.Profile{Name: "Jane", Email: "jane@example.com", Status: "hi", Availability: roster.Away}
	h := NewGetProfileHandler(state.NewStore(roster.State{Profile: profile}), nil)

	got, err := h.Handle(context.Background(), GetProfileQuery{})
	require.NoError(t, err)
	assert.Equal(t, profile, got)
}

func TestListRoster_Example(t *testing.T) {
	store := state.NewStore(roster.State{Friends: []roster.Friend{
		{Name: "Bob", Email: "bob@example.com", Availability: roster.Busy},
		{Name: "Ann", Email: "ann@example.com", Availability: roster.Online},
		{Name: "Zoe", Email: "zoe@example.com", Availability: roster.Offline},
	}})
	h := NewListRosterHandler(store, nil)

	res, err := h.Handle(context.Background(), ListRosterQuery{})
	require.NoError(t, err)
	require.Len(t, res.Online, 2)
	assert.Equal(t, "Ann", res.Online[0].Name)
	assert.Equal(t, "Bob", res.Online[1].Name)
	require.Len(t, res.Offline, 1)
	assert.Equal(t, "Zoe", res.Offline[0].Name)
	assert.Equal(t, 3, res.Total())
}

func TestListRoster_EmptySerializesAsArrays(t *testing.T) {
	h := NewListRosterHandler(state.NewStore(roster.State{}), nil)

	res, err := h.Handle(context.Background(), ListRosterQuery{})
	require.NoError(t, err)

	body, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"online":[],"offline":[]}`, string(body))
}
