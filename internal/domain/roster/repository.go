package roster

// Store is the guarded owner of the aggregate State. Every method is one
// critical section; returned values are copies the caller may keep.
// The implementation lives in infrastructure/state.
type Store interface {
	// Profile returns the current profile.
	Profile() Profile

	// SetProfileName replaces the profile name. It returns the profile as it
	// was before the change and after it, read in the same critical section.
	SetProfileName(name string) (old, updated Profile)

	// Partition returns the roster split by availability, each part sorted by email.
	Partition() (online, offline []Friend)

	// FindFriendIndex returns the position of the first entry with email.
	FindFriendIndex(email string) (int, bool)

	// UpdateFriend merges patch into the entry with email.
	// Returns a not-found DomainError if there is none.
	UpdateFriend(email string, patch FriendPatch) (Friend, error)

	// AddFriend appends f to the roster.
	// Returns an already-exists DomainError if the email is taken.
	AddFriend(f Friend) (Friend, error)
}
