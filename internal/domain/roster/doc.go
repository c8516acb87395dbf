// Package roster contains the domain model of the chat client: the local
// user's Profile, the Friend roster and the Availability enumeration.
//
// The package has no third-party dependencies. It defines:
//
//   - Availability: closed enum {Online, Away, Busy, Offline} with a lenient
//     parser (unknown text becomes Offline) and a strict one for command input
//   - Profile, Friend, State: the aggregate owned by the store
//   - FriendPatch: merge-patch with presence per field
//   - Partition: the reachable/offline split used by the friends list
//   - Store: the contract implemented by infrastructure/state
//
// Partitioning groups Online, Away and Busy together; only Offline goes to
// the second bucket. Both buckets are sorted by email with a stable sort:
//
//	online, offline := roster.Partition(friends)
package roster
