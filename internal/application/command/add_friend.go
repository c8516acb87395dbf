package command

import (
	"context"
	"fmt"

	"github.com/alem-hub/roster-hub/internal/domain/roster"
	"github.com/alem-hub/roster-hub/internal/domain/shared"
	"github.com/alem-hub/roster-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD FRIEND COMMAND
// Appends a new roster entry. Status defaults to "" and availability to Online.
// Name and email are stored as given, empty strings included.
// ══════════════════════════════════════════════════════════════════════════════

// AddFriendCommand contains the new entry.
type AddFriendCommand struct {
	Name  string
	Email string

	// Status is optional; nil means "".
	Status *string

	// Availability is optional; nil means Online.
	Availability *roster.Availability

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c AddFriendCommand) Validate() error {
	if c.Availability != nil && !c.Availability.IsValid() {
		return shared.ErrInvalidAvailability
	}
	return nil
}

// AddFriendResult contains the created entry.
type AddFriendResult struct {
	Friend roster.Friend
}

// AddFriendHandler handles AddFriendCommand.
type AddFriendHandler struct {
	store  roster.Store
	events shared.EventPublisher
	log    *logger.Logger
}

// NewAddFriendHandler creates a new AddFriendHandler.
func NewAddFriendHandler(store roster.Store, events shared.EventPublisher, log *logger.Logger) *AddFriendHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AddFriendHandler{store: store, events: events, log: log}
}

// Handle executes the command. A duplicate email yields an already-exists DomainError.
func (h *AddFriendHandler) Handle(ctx context.Context, cmd AddFriendCommand) (*AddFriendResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("add_friend: validation failed: %w", err)
	}

	h.log.Info("adding new friend", logger.String("name", cmd.Name), logger.Email(cmd.Email))

	friend, err := h.store.AddFriend(roster.NewFriend(cmd.Name, cmd.Email, cmd.Status, cmd.Availability))
	if err != nil {
		return nil, fmt.Errorf("add_friend: %w", err)
	}

	event := shared.NewFriendAddedEvent(friend.Email, friend.Name, friend.Status, friend.Availability.String())
	event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	publish(h.events, h.log, event)

	return &AddFriendResult{Friend: friend}, nil
}
