// Package state implements the in-memory owner of the roster aggregate.
//
// Store is constructed once at startup from the bootstrap documents and shared
// by every command handler. A single mutex serializes all access; nothing in a
// critical section performs I/O, so hold times are bounded by in-memory work.
package state

import (
	"slices"
	"sync"

	"github.com/alem-hub/roster-hub/internal/domain/roster"
	"github.com/alem-hub/roster-hub/internal/domain/shared"
)

// Store guards the profile and friend roster.
type Store struct {
	mu      sync.Mutex
	profile roster.Profile
	friends []roster.Friend
}

var _ roster.Store = (*Store)(nil)

// NewStore takes ownership of a copy of initial.
func NewStore(initial roster.State) *Store {
	return &Store{
		profile: initial.Profile,
		friends: slices.Clone(initial.Friends),
	}
}

// Profile returns a copy of the current profile.
func (s *Store) Profile() roster.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// SetProfileName replaces the profile name and returns the previous and the
// updated profile. Empty names are accepted.
func (s *Store) SetProfileName(name string) (old, updated roster.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old = s.profile
	s.profile.Name = name
	return old, s.profile
}

// Partition returns reachable and offline friends, each sorted by email.
func (s *Store) Partition() (online, offline []roster.Friend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return roster.Partition(s.friends)
}

// FindFriendIndex returns the position of the first friend with email.
func (s *Store) FindFriendIndex(email string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return roster.IndexOf(s.friends, email)
}

// UpdateFriend merges patch into the first friend with email.
// The patched entry is built on a copy and stored with one assignment.
func (s *Store) UpdateFriend(email string, patch roster.FriendPatch) (roster.Friend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := roster.IndexOf(s.friends, email)
	if !ok {
		return roster.Friend{}, shared.NewFriendNotFoundError(email)
	}
	updated, _ := patch.Apply(s.friends[i])
	s.friends[i] = updated
	return updated, nil
}

// AddFriend appends f unless a friend with the same email exists.
func (s *Store) AddFriend(f roster.Friend) (roster.Friend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := roster.IndexOf(s.friends, f.Email); exists {
		return roster.Friend{}, shared.NewFriendAlreadyExistsError(f.Email)
	}
	s.friends = append(s.friends, f)
	return f, nil
}

// Len returns the number of roster entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.friends)
}

// Snapshot returns a deep copy of the aggregate in roster order.
func (s *Store) Snapshot() roster.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return roster.State{
		Profile: s.profile,
		Friends: slices.Clone(s.friends),
	}
}
