package command

import (
	"context"
	"fmt"

	"github.com/alem-hub/roster-hub/internal/domain/roster"
	"github.com/alem-hub/roster-hub/internal/domain/shared"
	"github.com/alem-hub/roster-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE FRIEND COMMAND
// Merge-patches one roster entry. Absent fields are left untouched.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateFriendCommand identifies the friend by email and carries the patch.
type UpdateFriendCommand struct {
	// Email selects the roster entry. An empty email is looked up like any other.
	Email string

	// Patch contains the fields to overwrite. nil fields are kept.
	Patch roster.FriendPatch

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c UpdateFriendCommand) Validate() error {
	if c.Patch.Availability != nil && !c.Patch.Availability.IsValid() {
		return shared.ErrInvalidAvailability
	}
	return nil
}

// UpdateFriendResult contains the entry after the patch.
type UpdateFriendResult struct {
	Friend roster.Friend

	// ChangedFields lists the fields present in the patch.
	ChangedFields []string
}

// UpdateFriendHandler handles UpdateFriendCommand.
type UpdateFriendHandler struct {
	store  roster.Store
	events shared.EventPublisher
	log    *logger.Logger
}

// NewUpdateFriendHandler creates a new UpdateFriendHandler.
func NewUpdateFriendHandler(store roster.Store, events shared.EventPublisher, log *logger.Logger) *UpdateFriendHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &UpdateFriendHandler{store: store, events: events, log: log}
}

// Handle executes the command. A missing friend yields a not-found DomainError
// and leaves the roster unchanged.
func (h *UpdateFriendHandler) Handle(ctx context.Context, cmd UpdateFriendCommand) (*UpdateFriendResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("update_friend: validation failed: %w", err)
	}

	h.log.Info("updating friend", logger.Email(cmd.Email))

	friend, err := h.store.UpdateFriend(cmd.Email, cmd.Patch)
	if err != nil {
		return nil, fmt.Errorf("update_friend: %w", err)
	}

	_, changed := cmd.Patch.Apply(roster.Friend{})
	event := shared.NewFriendUpdatedEvent(friend.Email, changed)
	event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	publish(h.events, h.log, event)

	return &UpdateFriendResult{Friend: friend, ChangedFields: changed}, nil
}
