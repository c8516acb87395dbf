package query

import (
	"context"

	"github.com/alem-hub/roster-hub/internal/domain/roster"
	"github.com/alem-hub/roster-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST ROSTER PARTITIONED QUERY
// Splits the roster into reachable and offline friends, each sorted by email.
// Away and Busy count as reachable.
// ══════════════════════════════════════════════════════════════════════════════

// ListRosterQuery takes no parameters.
type ListRosterQuery struct{}

// ListRosterResult is the partitioned roster. Both slices are non-nil so they
// serialize as [] rather than null.
type ListRosterResult struct {
	Online  []roster.Friend `json:"online"`
	Offline []roster.Friend `json:"offline"`
}

// Pair returns the partitions as a two-element array, [online, offline].
func (r ListRosterResult) Pair() [2][]roster.Friend {
	return [2][]roster.Friend{r.Online, r.Offline}
}

// Total returns the number of entries across both partitions.
func (r ListRosterResult) Total() int {
	return len(r.Online) + len(r.Offline)
}

// ListRosterHandler handles ListRosterQuery.
type ListRosterHandler struct {
	store roster.Store
	log   *logger.Logger
}

// NewListRosterHandler creates a new ListRosterHandler.
func NewListRosterHandler(store roster.Store, log *logger.Logger) *ListRosterHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ListRosterHandler{store: store, log: log}
}

// Handle executes the query.
func (h *ListRosterHandler) Handle(ctx context.Context, _ ListRosterQuery) (ListRosterResult, error) {
	online, offline := h.store.Partition()
	if online == nil {
		online = []roster.Friend{}
	}
	if offline == nil {
		offline = []roster.Friend{}
	}

	h.log.Debug("fetching friends",
		logger.Int("online", len(online)),
		logger.Int("offline", len(offline)),
	)

	return ListRosterResult{Online: online, Offline: offline}, nil
}
