package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/roster-hub/internal/domain/roster"
	"github.com/alem-hub/roster-hub/internal/domain/shared"
	"github.com/alem-hub/roster-hub/internal/infrastructure/state"
)

type recorder struct {
	mu     sync.Mutex
	events []shared.Event
	err    error
}

func (r *recorder) Publish(e shared.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func seed() *state.Store {
	return state.NewStore(roster.State{
		Profile: roster.Profile{Name: "Jane", Email: "jane@example.com", Availability: roster.Online},
		Friends: []roster.Friend{
			{Name: "Bob", Email: "bob@example.com", Status: "coding", Availability: roster.Busy},
		},
	})
}

func ptr[T any](v T) *T { return &v }

func TestSetProfileName(t *testing.T) {
	store := seed()
	rec := &recorder{}
	h := NewSetProfileNameHandler(store, rec, nil)

	res, err := h.Handle(context.Background(), SetProfileNameCommand{Name: "Janet", CorrelationID: "req-1"})
	require.NoError(t, err)
	assert.Equal(t, "Janet", res.Profile.Name)
	assert.Equal(t, "jane@example.com", res.Profile.Email)

	require.Len(t, rec.events, 1)
	ev, ok := rec.events[0].(shared.ProfileRenamedEvent)
	require.True(t, ok)
	assert.Equal(t, "Jane", ev.OldName)
	assert.Equal(t, "Janet", ev.NewName)
	assert.Equal(t, "req-1", ev.CorrelationID)
	assert.Equal(t, "jane@example.com", ev.AggregateID())
}

// slowStore delays profile reads so overlapping renames interleave.
type slowStore struct {
	*state.Store
}

func (s slowStore) Profile() roster.Profile {
	time.Sleep(20 * time.Millisecond)
	return s.Store.Profile()
}

func TestSetProfileName_ConcurrentRenamesChainPreviousNames(t *testing.T) {
	store := seed()
	rec := &recorder{}
	h := NewSetProfileNameHandler(slowStore{store}, rec, nil)

	var wg sync.WaitGroup
	for _, name := range []string{"a", "b"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := h.Handle(context.Background(), SetProfileNameCommand{Name: name})
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()

	require.Len(t, rec.events, 2)
	previous := make(map[string]string)
	for _, e := range rec.events {
		ev := e.(shared.ProfileRenamedEvent)
		previous[ev.NewName] = ev.OldName
	}

	last := store.Profile().Name
	first := previous[last]
	assert.Contains(t, []string{"a", "b"}, first)
	assert.NotEqual(t, last, first)
	assert.Equal(t, "Jane", previous[first])
}

func TestSetProfileName_EmptyAccepted(t *testing.T) {
	h := NewSetProfileNameHandler(seed(), nil, nil)

	res, err := h.Handle(context.Background(), SetProfileNameCommand{})
	require.NoError(t, err)
	assert.Equal(t, "", res.Profile.Name)
}

func TestUpdateFriend(t *testing.T) {
	store := seed()
	rec := &recorder{}
	h := NewUpdateFriendHandler(store, rec, nil)

	res, err := h.Handle(context.Background(), UpdateFriendCommand{
		Email: "bob@example.com",
		Patch: roster.FriendPatch{Availability: ptr(roster.Offline)},
	})
	require.NoError(t, err)
	assert.Equal(t, roster.Friend{Name: "Bob", Email: "bob@example.com", Status: "coding", Availability: roster.Offline}, res.Friend)
	assert.Equal(t, []string{"availability"}, res.ChangedFields)

	require.Len(t, rec.events, 1)
	assert.Equal(t, shared.EventFriendUpdated, rec.events[0].EventType())
}

func TestUpdateFriend_NotFound(t *testing.T) {
	rec := &recorder{}
	h := NewUpdateFriendHandler(seed(), rec, nil)

	_, err := h.Handle(context.Background(), UpdateFriendCommand{
		Email: "nobody@example.com",
		Patch: roster.FriendPatch{Name: ptr("X")},
	})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
	assert.Empty(t, rec.events)
}

func TestUpdateFriend_EmptyEmailIsLookedUp(t *testing.T) {
	store := state.NewStore(roster.State{
		Friends: []roster.Friend{{Name: "NoMail", Availability: roster.Away}},
	})
	h := NewUpdateFriendHandler(store, nil, nil)

	res, err := h.Handle(context.Background(), UpdateFriendCommand{Patch: roster.FriendPatch{Status: ptr("found")}})
	require.NoError(t, err)
	assert.Equal(t, "found", res.Friend.Status)

	_, err = NewUpdateFriendHandler(seed(), nil, nil).Handle(context.Background(), UpdateFriendCommand{})
	assert.True(t, shared.IsNotFound(err))
}

func TestUpdateFriend_Validation(t *testing.T) {
	h := NewUpdateFriendHandler(seed(), nil, nil)

	_, err := h.Handle(context.Background(), UpdateFriendCommand{
		Email: "bob@example.com",
		Patch: roster.FriendPatch{Availability: ptr(roster.Availability(9))},
	})
	assert.True(t, shared.IsValidation(err))
}

func TestAddFriend_Defaults(t *testing.T) {
	store := seed()
	rec := &recorder{}
	h := NewAddFriendHandler(store, rec, nil)

	res, err := h.Handle(context.Background(), AddFriendCommand{Name: "A", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "", res.Friend.Status)
	assert.Equal(t, roster.Online, res.Friend.Availability)
	assert.Equal(t, 2, store.Len())

	require.Len(t, rec.events, 1)
	ev := rec.events[0].(shared.FriendAddedEvent)
	assert.Equal(t, "Online", ev.Availability)
	assert.Equal(t, "a@x.com", ev.AggregateID())
}

func TestAddFriend_EmptyFieldsAccepted(t *testing.T) {
	store := seed()
	h := NewAddFriendHandler(store, nil, nil)

	res, err := h.Handle(context.Background(), AddFriendCommand{})
	require.NoError(t, err)
	assert.Equal(t, roster.Friend{Availability: roster.Online}, res.Friend)
	assert.Equal(t, 2, store.Len())
}

func TestAddFriend_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		cmd   AddFriendCommand
		check func(error) bool
	}{
		{"unknown availability", AddFriendCommand{Name: "A", Email: "a@x.com", Availability: ptr(roster.Availability(9))}, shared.IsValidation},
		{"duplicate email", AddFriendCommand{Name: "B2", Email: "bob@example.com"}, shared.IsAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seed()
			h := NewAddFriendHandler(store, nil, nil)

			_, err := h.Handle(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.True(t, tt.check(err))
			assert.Equal(t, 1, store.Len())
		})
	}
}

func TestPublishFailureDoesNotFailCommand(t *testing.T) {
	rec := &recorder{err: errors.New("subscriber down")}
	h := NewAddFriendHandler(seed(), rec, nil)

	res, err := h.Handle(context.Background(), AddFriendCommand{Name: "A", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", res.Friend.Email)
	assert.Len(t, rec.events, 1)
}
