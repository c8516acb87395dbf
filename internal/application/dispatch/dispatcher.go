// Package dispatch is the named-operation boundary between the UI process and
// the roster store.
//
// Every operation returns values by copy and reports failures as *CommandError.
// The typed methods serve Go callers; Invoke serves transports that carry a
// command name plus JSON arguments.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/alem-hub/roster-hub/internal/application/command"
	"github.com/alem-hub/roster-hub/internal/application/query"
	"github.com/alem-hub/roster-hub/internal/domain/roster"
	"github.com/alem-hub/roster-hub/internal/domain/shared"
	"github.com/alem-hub/roster-hub/pkg/logger"
)

// Canonical command names.
const (
	CmdGetProfile            = "get_profile"
	CmdSetProfileName        = "set_profile_name"
	CmdListRosterPartitioned = "list_roster_partitioned"
	CmdUpdateFriend          = "update_friend"
	CmdAddFriend             = "add_friend"
)

// Legacy command names used by older UI builds.
const (
	aliasGetUser        = "get_user"
	aliasUpdateUsername = "update_username"
	aliasGetFriends     = "get_friends"
)

// aliases maps the names used by older UI builds to canonical names.
var aliases = map[string]string{
	aliasGetUser:        CmdGetProfile,
	aliasUpdateUsername: CmdSetProfileName,
	aliasGetFriends:     CmdListRosterPartitioned,
}

// Handlers groups the application handlers the dispatcher routes to.
type Handlers struct {
	GetProfile     *query.GetProfileHandler
	ListRoster     *query.ListRosterHandler
	SetProfileName *command.SetProfileNameHandler
	UpdateFriend   *command.UpdateFriendHandler
	AddFriend      *command.AddFriendHandler
}

// NewHandlers builds every handler over one store and one event publisher.
func NewHandlers(store roster.Store, events shared.EventPublisher, log *logger.Logger) Handlers {
	return Handlers{
		GetProfile:     query.NewGetProfileHandler(store, log),
		ListRoster:     query.NewListRosterHandler(store, log),
		SetProfileName: command.NewSetProfileNameHandler(store, events, log),
		UpdateFriend:   command.NewUpdateFriendHandler(store, events, log),
		AddFriend:      command.NewAddFriendHandler(store, events, log),
	}
}

type route func(ctx context.Context, args json.RawMessage) (any, error)

// Dispatcher routes named operations to handlers.
type Dispatcher struct {
	h      Handlers
	log    *logger.Logger
	routes map[string]route
}

// New creates a Dispatcher.
func New(h Handlers, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	d := &Dispatcher{h: h, log: log.With(logger.Component("dispatch"))}
	d.routes = map[string]route{
		CmdGetProfile:            d.invokeGetProfile,
		CmdSetProfileName:        d.invokeSetProfileName,
		CmdListRosterPartitioned: d.invokeListRoster,
		CmdUpdateFriend:          d.invokeUpdateFriend,
		CmdAddFriend:             d.invokeAddFriend,
	}
	return d
}

// Commands returns the canonical command names, sorted.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.routes))
	for name := range d.routes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve maps an alias to its canonical name. Unknown names are returned as-is.
func Resolve(name string) string {
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}

// ══════════════════════════════════════════════════════════════════════════════
// TYPED API
// ══════════════════════════════════════════════════════════════════════════════

// GetProfile returns the local user.
func (d *Dispatcher) GetProfile(ctx context.Context) (roster.Profile, error) {
	p, err := d.h.GetProfile.Handle(ctx, query.GetProfileQuery{})
	if err != nil {
		return roster.Profile{}, newCommandError(CmdGetProfile, err)
	}
	return p, nil
}

// SetProfileName renames the local user and returns the updated profile.
func (d *Dispatcher) SetProfileName(ctx context.Context, name string) (roster.Profile, error) {
	res, err := d.h.SetProfileName.Handle(ctx, command.SetProfileNameCommand{
		Name:          name,
		CorrelationID: CorrelationID(ctx),
	})
	if err != nil {
		return roster.Profile{}, newCommandError(CmdSetProfileName, err)
	}
	return res.Profile, nil
}

// ListRosterPartitioned returns reachable and offline friends, each sorted by email.
func (d *Dispatcher) ListRosterPartitioned(ctx context.Context) (query.ListRosterResult, error) {
	res, err := d.h.ListRoster.Handle(ctx, query.ListRosterQuery{})
	if err != nil {
		return query.ListRosterResult{}, newCommandError(CmdListRosterPartitioned, err)
	}
	return res, nil
}

// UpdateFriend merges patch into the friend with email.
func (d *Dispatcher) UpdateFriend(ctx context.Context, email string, patch roster.FriendPatch) (roster.Friend, error) {
	res, err := d.h.UpdateFriend.Handle(ctx, command.UpdateFriendCommand{
		Email:         email,
		Patch:         patch,
		CorrelationID: CorrelationID(ctx),
	})
	if err != nil {
		return roster.Friend{}, newCommandError(CmdUpdateFriend, err)
	}
	return res.Friend, nil
}

// AddFriend appends a new friend. nil status and availability take their defaults.
func (d *Dispatcher) AddFriend(ctx context.Context, name, email string, status *string, availability *roster.Availability) (roster.Friend, error) {
	res, err := d.h.AddFriend.Handle(ctx, command.AddFriendCommand{
		Name:          name,
		Email:         email,
		Status:        status,
		Availability:  availability,
		CorrelationID: CorrelationID(ctx),
	})
	if err != nil {
		return roster.Friend{}, newCommandError(CmdAddFriend, err)
	}
	return res.Friend, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// NAMED API
// ══════════════════════════════════════════════════════════════════════════════

// Invoke runs the command called name with JSON-encoded args. Empty or null
// args are treated as an empty object. Failures are always *CommandError.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	start := time.Now()
	canonical := Resolve(name)

	r, ok := d.routes[canonical]
	if !ok {
		d.log.Warn("unknown command", logger.Command(name))
		return nil, &CommandError{
			Command: name,
			Code:    CodeUnknownCommand,
			Message: "unknown command " + name,
		}
	}

	result, err := r(ctx, args)
	if err != nil {
		ce := newCommandError(canonical, err)
		d.log.Info("command failed",
			logger.Command(canonical),
			logger.String("code", string(ce.Code)),
			logger.Latency(time.Since(start)),
		)
		return nil, ce
	}

	d.log.Debug("command completed",
		logger.Command(canonical),
		logger.Latency(time.Since(start)),
	)
	return legacyShape(name, result), nil
}

// legacyShape keeps the wire shape older UI builds expect from an alias.
// get_friends returned the partitions as a two-element array.
func legacyShape(name string, result any) any {
	if name != aliasGetFriends {
		return result
	}
	if r, ok := result.(query.ListRosterResult); ok {
		return r.Pair()
	}
	return result
}

type setProfileNameArgs struct {
	Name *string `json:"name"`
}

type updateFriendArgs struct {
	Email        string               `json:"email"`
	Name         *string              `json:"name"`
	Status       *string              `json:"status"`
	Availability *roster.Availability `json:"availability"`
}

type addFriendArgs struct {
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	Status       *string              `json:"status"`
	Availability *roster.Availability `json:"availability"`
}

func (d *Dispatcher) invokeGetProfile(ctx context.Context, _ json.RawMessage) (any, error) {
	return d.GetProfile(ctx)
}

func (d *Dispatcher) invokeSetProfileName(ctx context.Context, raw json.RawMessage) (any, error) {
	var args setProfileNameArgs
	if err := decodeArgs(CmdSetProfileName, raw, &args); err != nil {
		return nil, err
	}
	if args.Name == nil {
		return nil, invalidInput(CmdSetProfileName, "name is required", nil)
	}
	return d.SetProfileName(ctx, *args.Name)
}

func (d *Dispatcher) invokeListRoster(ctx context.Context, _ json.RawMessage) (any, error) {
	return d.ListRosterPartitioned(ctx)
}

func (d *Dispatcher) invokeUpdateFriend(ctx context.Context, raw json.RawMessage) (any, error) {
	var args updateFriendArgs
	if err := decodeArgs(CmdUpdateFriend, raw, &args); err != nil {
		return nil, err
	}
	return d.UpdateFriend(ctx, args.Email, roster.FriendPatch{
		Name:         args.Name,
		Status:       args.Status,
		Availability: args.Availability,
	})
}

func (d *Dispatcher) invokeAddFriend(ctx context.Context, raw json.RawMessage) (any, error) {
	var args addFriendArgs
	if err := decodeArgs(CmdAddFriend, raw, &args); err != nil {
		return nil, err
	}
	return d.AddFriend(ctx, args.Name, args.Email, args.Status, args.Availability)
}

func decodeArgs(command string, raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		if shared.IsValidation(err) {
			return newCommandError(command, err)
		}
		return invalidInput(command, "malformed arguments", err)
	}
	return nil
}

type correlationKey struct{}

// WithCorrelationID attaches a correlation ID that is copied onto emitted events.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the correlation ID stored in ctx, if any.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
