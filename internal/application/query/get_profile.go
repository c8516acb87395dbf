// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"

	"github.com/alem-hub/roster-hub/internal/domain/roster"
	"github.com/alem-hub/roster-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROFILE QUERY
// Returns the local user as currently held by the store.
// ══════════════════════════════════════════════════════════════════════════════

// GetProfileQuery takes no parameters.
type GetProfileQuery struct{}

// GetProfileHandler handles GetProfileQuery.
type GetProfileHandler struct {
	store roster.Store
	log   *logger.Logger
}

// NewGetProfileHandler creates a new GetProfileHandler.
func NewGetProfileHandler(store roster.Store, log *logger.Logger) *GetProfileHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &GetProfileHandler{store: store, log: log}
}

// Handle executes the query.
func (h *GetProfileHandler) Handle(ctx context.Context, _ GetProfileQuery) (roster.Profile, error) {
	h.log.Debug("fetching user")
	return h.store.Profile(), nil
}
