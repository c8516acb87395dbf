package roster

import (
	"fmt"
	"slices"
	"strings"
)

// Profile is the single local user.
type Profile struct {
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Status       string       `json:"status"`
	Availability Availability `json:"availability"`
}

// Friend is one roster entry. Email is the identity key.
type Friend struct {
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Status       string       `json:"status"`
	Availability Availability `json:"availability"`
}

// NewFriend builds a roster entry. A nil status becomes "" and a nil
// availability becomes Online.
func NewFriend(name, email string, status *string, availability *Availability) Friend {
	f := Friend{
		Name:         name,
		Email:        email,
		Availability: Online,
	}
	if status != nil {
		f.Status = *status
	}
	if availability != nil {
		f.Availability = *availability
	}
	return f
}

// FriendPatch carries optional replacements for a roster entry.
// nil means "leave unchanged".
type FriendPatch struct {
	Name         *string
	Status       *string
	Availability *Availability
}

// IsEmpty reports whether the patch changes nothing.
func (p FriendPatch) IsEmpty() bool {
	return p.Name == nil && p.Status == nil && p.Availability == nil
}

// Apply returns a copy of f with every present field of p written over it,
// together with the names of the fields that were present.
func (p FriendPatch) Apply(f Friend) (Friend, []string) {
	changed := make([]string, 0, 3)
	if p.Name != nil {
		f.Name = *p.Name
		changed = append(changed, "name")
	}
	if p.Status != nil {
		f.Status = *p.Status
		changed = append(changed, "status")
	}
	if p.Availability != nil {
		f.Availability = *p.Availability
		changed = append(changed, "availability")
	}
	return f, changed
}

// State is the aggregate held by the store.
type State struct {
	Profile Profile
	Friends []Friend
}

// Summary renders a one-line description for startup logs.
func (s State) Summary() string {
	return fmt.Sprintf("User: %s, Friends: %d", s.Profile.Name, len(s.Friends))
}

// IndexOf returns the position of the first friend whose email equals email.
func IndexOf(friends []Friend, email string) (int, bool) {
	i := slices.IndexFunc(friends, func(f Friend) bool { return f.Email == email })
	return i, i >= 0
}

// Partition splits friends into reachable (anything but Offline) and offline
// buckets, each stably sorted by email. The input is not modified.
func Partition(friends []Friend) (online, offline []Friend) {
	online = make([]Friend, 0, len(friends))
	offline = make([]Friend, 0)
	for _, f := range friends {
		if f.Availability.IsOffline() {
			offline = append(offline, f)
		} else {
			online = append(online, f)
		}
	}
	byEmail := func(a, b Friend) int { return strings.Compare(a.Email, b.Email) }
	slices.SortStableFunc(online, byEmail)
	slices.SortStableFunc(offline, byEmail)
	return online, offline
}
