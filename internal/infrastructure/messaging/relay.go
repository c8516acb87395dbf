package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/alem-hub/roster-hub/internal/domain/shared"
	"github.com/alem-hub/roster-hub/pkg/circuitbreaker"
	"github.com/alem-hub/roster-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REDIS RELAY
// One-way: local events go out to a pub/sub channel, nothing comes back in.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultRelayChannel is the pub/sub channel used when none is configured.
const DefaultRelayChannel = "roster-hub:events"

// Publisher is the subset of *redis.Client the relay needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisRelayConfig contains configuration for RedisRelay.
type RedisRelayConfig struct {
	// Client publishes messages. Usually a *redis.Client.
	Client Publisher

	// Channel is the pub/sub channel (default: "roster-hub:events").
	Channel string

	// InstanceID identifies this process in the envelope.
	InstanceID string

	// PublishTimeout bounds a single PUBLISH.
	PublishTimeout time.Duration

	// FailureThreshold consecutive publish failures pause the relay for Cooldown.
	FailureThreshold int
	Cooldown         time.Duration

	// Logger for structured logging.
	Logger *logger.Logger
}

// RedisRelay forwards events to Redis.
//
// Delivery is best-effort. On an async bus each event is handled in its own
// goroutine, so two events published close together may reach the channel
// out of order. Subscribers must order envelopes by occurred_at and treat
// them as change notifications, re-reading state through the command surface.
type RedisRelay struct {
	client     Publisher
	channel    string
	instanceID string
	timeout    time.Duration
	breaker    *circuitbreaker.CircuitBreaker
	log        *logger.Logger
}

// NewRedisRelay creates a relay. It does nothing until attached to a bus.
func NewRedisRelay(cfg RedisRelayConfig) (*RedisRelay, error) {
	if cfg.Client == nil {
		return nil, errors.New("redis client is required")
	}
	if cfg.Channel == "" {
		cfg.Channel = DefaultRelayChannel
	}
	if cfg.InstanceID == "" {
		cfg.InstanceID = generateInstanceID()
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 2 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	r := &RedisRelay{
		client:     cfg.Client,
		channel:    cfg.Channel,
		instanceID: cfg.InstanceID,
		timeout:    cfg.PublishTimeout,
		log:        cfg.Logger.With(logger.Component("redis_relay")),
	}
	r.breaker = circuitbreaker.New(circuitbreaker.Config{
		Name:             "redis-relay",
		FailureThreshold: cfg.FailureThreshold,
		Cooldown:         cfg.Cooldown,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			r.log.Warn("relay circuit changed",
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	return r, nil
}

// Attach subscribes the relay to every event on sub.
func (r *RedisRelay) Attach(sub shared.EventSubscriber) error {
	if err := sub.SubscribeAll(r.Handle); err != nil {
		return fmt.Errorf("attach redis relay: %w", err)
	}
	r.log.Info("redis relay attached", logger.String("channel", r.channel))
	return nil
}

// Handle publishes one event. It matches shared.EventHandler. While Redis
// keeps failing the circuit opens and events are dropped with ErrCircuitOpen.
func (r *RedisRelay) Handle(event shared.Event) error {
	data, err := json.Marshal(newEnvelope(r.instanceID, event))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	err = r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.client.Publish(ctx, r.channel, data).Err()
	})
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", event.EventType(), r.channel, err)
	}
	return nil
}

// CircuitState reports whether the relay is currently publishing.
func (r *RedisRelay) CircuitState() circuitbreaker.State {
	return r.breaker.State()
}

// Channel returns the pub/sub channel name.
func (r *RedisRelay) Channel() string { return r.channel }

// InstanceID returns the identifier stamped on outgoing envelopes.
func (r *RedisRelay) InstanceID() string { return r.instanceID }

// ══════════════════════════════════════════════════════════════════════════════
// EVENT ENVELOPE
// ══════════════════════════════════════════════════════════════════════════════

// Envelope is the wire form of a relayed event.
type Envelope struct {
	InstanceID  string                 `json:"instance_id"`
	EventType   shared.EventType       `json:"event_type"`
	AggregateID string                 `json:"aggregate_id"`
	OccurredAt  time.Time              `json:"occurred_at"`
	Payload     map[string]interface{} `json:"payload"`
}

func newEnvelope(instanceID string, event shared.Event) Envelope {
	return Envelope{
		InstanceID:  instanceID,
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt(),
		Payload:     event.Payload(),
	}
}

func generateInstanceID() string {
	return "rosterd-" + uuid.NewString()
}
