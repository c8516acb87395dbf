// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"

	"github.com/alem-hub/roster-hub/internal/domain/roster"
	"github.com/alem-hub/roster-hub/internal/domain/shared"
	"github.com/alem-hub/roster-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SET PROFILE NAME COMMAND
// Renames the local user. Only the name changes; any string is accepted.
// ══════════════════════════════════════════════════════════════════════════════

// SetProfileNameCommand contains the new display name.
type SetProfileNameCommand struct {
	// Name replaces the profile name. Empty is allowed.
	Name string

	// CorrelationID for tracing.
	CorrelationID string
}

// SetProfileNameResult contains the updated profile.
type SetProfileNameResult struct {
	Profile roster.Profile
}

// SetProfileNameHandler handles SetProfileNameCommand.
type SetProfileNameHandler struct {
	store  roster.Store
	events shared.EventPublisher
	log    *logger.Logger
}

// NewSetProfileNameHandler creates a new SetProfileNameHandler.
// events may be nil.
func NewSetProfileNameHandler(store roster.Store, events shared.EventPublisher, log *logger.Logger) *SetProfileNameHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SetProfileNameHandler{store: store, events: events, log: log}
}

// Handle executes the command.
func (h *SetProfileNameHandler) Handle(ctx context.Context, cmd SetProfileNameCommand) (*SetProfileNameResult, error) {
	h.log.Info("updating username", logger.String("name", cmd.Name))

	old, profile := h.store.SetProfileName(cmd.Name)

	event := shared.NewProfileRenamedEvent(profile.Email, old.Name, profile.Name)
	event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	publish(h.events, h.log, event)

	return &SetProfileNameResult{Profile: profile}, nil
}

// publish forwards an event and logs delivery failures. The store has already
// committed the change, so a failing subscriber never fails the command.
func publish(events shared.EventPublisher, log *logger.Logger, event shared.Event) {
	if events == nil {
		return
	}
	if err := events.Publish(event); err != nil {
		log.Warn("failed to publish event",
			logger.String("event_type", string(event.EventType())),
			logger.Err(err),
		)
	}
}
