package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/alem-hub/roster-hub/internal/domain/roster"
	"github.com/alem-hub/roster-hub/internal/domain/shared"
)

func ptr[T any](v T) *T { return &v }

func seed() roster.State {
	return roster.State{
		Profile: roster.Profile{Name: "Me", Email: "me@x.com", Status: "hi", Availability: roster.Online},
		Friends: []roster.Friend{
			{Name: "Bob", Email: "bob@x.com", Status: "coding", Availability: roster.Busy},
			{Name: "Ann", Email: "ann@x.com", Status: "", Availability: roster.Online},
			{Name: "Zoe", Email: "zoe@x.com", Status: "zzz", Availability: roster.Offline},
		},
	}
}

func TestNewStore_CopiesInput(t *testing.T) {
	initial := seed()
	s := NewStore(initial)

	initial.Friends[0].Name = "mutated"
	assert.Equal(t, "Bob", s.Snapshot().Friends[0].Name)
}

func TestStore_ProfileIsCopy(t *testing.T) {
	s := NewStore(seed())
	p := s.Profile()
	p.Name = "changed"
	assert.Equal(t, "Me", s.Profile().Name)
}

func TestStore_SetProfileName(t *testing.T) {
	s := NewStore(seed())

	old, p := s.SetProfileName("")
	assert.Equal(t, "Me", old.Name)
	assert.Equal(t, "", p.Name)
	assert.Equal(t, "me@x.com", p.Email)
	assert.Equal(t, "hi", p.Status)
	assert.Equal(t, roster.Online, p.Availability)
	assert.Equal(t, p, s.Profile())
}

func TestStore_SetProfileNameChainsPreviousName(t *testing.T) {
	s := NewStore(seed())

	var wg sync.WaitGroup
	olds := make(map[string]string)
	var mu sync.Mutex
	for _, name := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			old, updated := s.SetProfileName(name)
			mu.Lock()
			olds[updated.Name] = old.Name
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	// Following the chain from the final name back must visit every rename once.
	seen := map[string]bool{}
	for name := s.Profile().Name; name != "Me"; name = olds[name] {
		require.False(t, seen[name], "name %q reported twice", name)
		seen[name] = true
	}
	assert.Len(t, seen, 3)
}

func TestStore_Partition(t *testing.T) {
	s := NewStore(seed())
	online, offline := s.Partition()

	require.Len(t, online, 2)
	assert.Equal(t, "ann@x.com", online[0].Email)
	assert.Equal(t, "bob@x.com", online[1].Email)
	require.Len(t, offline, 1)
	assert.Equal(t, "zoe@x.com", offline[0].Email)

	// results are detached from the store
	online[0].Name = "changed"
	again, _ := s.Partition()
	assert.Equal(t, "Ann", again[0].Name)
}

func TestStore_FindFriendIndex(t *testing.T) {
	s := NewStore(seed())
	i, ok := s.FindFriendIndex("ann@x.com")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = s.FindFriendIndex("nobody@x.com")
	assert.False(t, ok)
}

func TestStore_UpdateFriend_NameOnly(t *testing.T) {
	s := NewStore(seed())

	f, err := s.UpdateFriend("bob@x.com", roster.FriendPatch{Name: ptr("Robert")})
	require.NoError(t, err)
	assert.Equal(t, roster.Friend{Name: "Robert", Email: "bob@x.com", Status: "coding", Availability: roster.Busy}, f)
	assert.Equal(t, f, s.Snapshot().Friends[0])
}

func TestStore_UpdateFriend_NotFoundLeavesRoster(t *testing.T) {
	s := NewStore(seed())
	before := s.Snapshot()

	_, err := s.UpdateFriend("nobody@x.com", roster.FriendPatch{Name: ptr("X"), Availability: ptr(roster.Away)})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
	assert.Contains(t, err.Error(), "nobody@x.com")

	assert.Equal(t, before, s.Snapshot())
}

func TestStore_AddFriend(t *testing.T) {
	s := NewStore(seed())

	f, err := s.AddFriend(roster.NewFriend("A", "a@x.com", nil, nil))
	require.NoError(t, err)
	assert.Equal(t, "", f.Status)
	assert.Equal(t, roster.Online, f.Availability)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, f, s.Snapshot().Friends[3])
}

func TestStore_AddFriend_RejectsDuplicateEmail(t *testing.T) {
	s := NewStore(seed())

	_, err := s.AddFriend(roster.NewFriend("Other Ann", "ann@x.com", nil, nil))
	require.Error(t, err)
	assert.True(t, shared.IsAlreadyExists(err))
	assert.Equal(t, 3, s.Len())
}

func TestStore_ConcurrentAdds(t *testing.T) {
	const n = 200
	s := NewStore(seed())

	var g errgroup.Group
	for i := 0; i < n; i++ {
		email := fmt.Sprintf("user%03d@x.com", i)
		g.Go(func() error {
			_, err := s.AddFriend(roster.NewFriend("U", email, nil, nil))
			return err
		})
	}
	require.NoError(t, g.Wait())

	snap := s.Snapshot()
	require.Len(t, snap.Friends, n+3)

	seen := make(map[string]int)
	for _, f := range snap.Friends[3:] {
		seen[f.Email]++
		assert.Equal(t, "U", f.Name)
		assert.Equal(t, roster.Online, f.Availability)
	}
	for i := 0; i < n; i++ {
		assert.Equal(t, 1, seen[fmt.Sprintf("user%03d@x.com", i)])
	}
}

func TestStore_ConcurrentMixedOperations(t *testing.T) {
	s := NewStore(seed())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			_, _ = s.UpdateFriend("bob@x.com", roster.FriendPatch{Status: ptr(fmt.Sprintf("s%d", i))})
		}(i)
		go func() {
			defer wg.Done()
			online, offline := s.Partition()
			assert.Equal(t, 3, len(online)+len(offline))
		}()
		go func(i int) {
			defer wg.Done()
			s.SetProfileName(fmt.Sprintf("me%d", i))
		}(i)
	}
	wg.Wait()

	f := s.Snapshot().Friends[0]
	assert.Equal(t, "Bob", f.Name)
	assert.Equal(t, roster.Busy, f.Availability)
	assert.Regexp(t, `^s\d+$`, f.Status)
}
