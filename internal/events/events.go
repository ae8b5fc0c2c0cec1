package events

import (
	"context"
	"sync"
	"time"

	"lunchlog/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	RESTAURANT_ENRICH_CHANNEL Channel = "restaurant.enrich"
)

type MessageType string

const (
	ENRICH_REQUEST MessageType = "enrich_request"
)

const publishTimeout = 5 * time.Second

type Event struct {
	ID        string          `json:"id"`
	Type      MessageType     `json:"type"`
	Channel   Channel         `json:"channel"`
	TraceID   string          `json:"traceId,omitempty"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Handler receives a context carrying the publisher's trace id. The context
// is cancelled when the bus closes.
type Handler func(ctx context.Context, event Event) error

// EventBus carries events over valkey pub/sub so any API or worker process
// can pick them up. With a nil client delivery stays in process.
type EventBus struct {
	client    valkey.Client
	log       logger.Logger
	handlers  map[Channel][]Handler
	listening map[Channel]bool
	mu        sync.RWMutex
	inFlight  sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

func New(client valkey.Client) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:    client,
		log:       logger.New("EventBus"),
		handlers:  make(map[Channel][]Handler),
		listening: make(map[Channel]bool),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Distributed reports whether events leave this process.
func (eb *EventBus) Distributed() bool {
	return eb.client != nil
}

func (eb *EventBus) Publish(ctx context.Context, channel Channel, event Event) error {
	log := eb.log.Function("Publish").TraceFromContext(ctx)

	if eb.ctx.Err() != nil {
		return log.Error("event bus is closed", "channel", channel)
	}

	event.Channel = channel
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.TraceID == "" {
		event.TraceID = logger.TraceIDFromContext(ctx)
	}

	// valkey echoes publishes back to this process's own subscription.
	if !eb.Distributed() {
		eb.dispatch(event)
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to encode event", err, "eventID", event.ID)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	cmd := eb.client.B().Publish().Channel(channel.String()).Message(string(payload)).Build()
	if err := eb.client.Do(publishCtx, cmd).Error(); err != nil {
		return log.Err("failed to publish event", err, "channel", channel, "eventID", event.ID)
	}

	log.Debug("Event published", "channel", channel, "eventID", event.ID, "type", event.Type)
	return nil
}

func (eb *EventBus) PublishEnrichment(ctx context.Context, request types.EnrichmentRequest) error {
	data, err := json.Marshal(request)
	if err != nil {
		return err
	}

	return eb.Publish(ctx, RESTAURANT_ENRICH_CHANNEL, Event{Type: ENRICH_REQUEST, Data: data})
}

func DecodeEnrichment(event Event) (types.EnrichmentRequest, error) {
	var request types.EnrichmentRequest
	err := json.Unmarshal(event.Data, &request)
	return request, err
}

func (eb *EventBus) Subscribe(channel Channel, handler Handler) {
	eb.mu.Lock()
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	listen := eb.Distributed() && !eb.listening[channel]
	eb.listening[channel] = eb.listening[channel] || listen
	eb.mu.Unlock()

	eb.log.Function("Subscribe").Info("Handler subscribed", "channel", channel, "distributed", eb.Distributed())

	if listen {
		go eb.listen(channel)
	}
}

// dispatch runs each handler for the event's channel on its own goroutine.
func (eb *EventBus) dispatch(event Event) {
	eb.mu.RLock()
	handlers := append([]Handler(nil), eb.handlers[event.Channel]...)
	eb.mu.RUnlock()

	ctx := eb.ctx
	if event.TraceID != "" {
		ctx = logger.ContextWithTraceID(ctx, event.TraceID)
	}

	for _, handler := range handlers {
		eb.inFlight.Add(1)
		go func() {
			defer eb.inFlight.Done()
			if err := handler(ctx, event); err != nil {
				eb.log.Function("dispatch").TraceFromContext(ctx).
					Er("event handler failed", err, "channel", event.Channel, "eventID", event.ID)
			}
		}()
	}
}

func (eb *EventBus) listen(channel Channel) {
	log := eb.log.Function("listen")

	err := eb.client.Receive(
		eb.ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("dropping undecodable event", err, "channel", channel)
				return
			}
			event.Channel = channel
			eb.dispatch(event)
		},
	)
	if err != nil && eb.ctx.Err() == nil {
		log.Er("subscription ended", err, "channel", channel)
	}
}

// Close stops listening, cancels handler contexts and waits for running
// handlers to return.
func (eb *EventBus) Close() error {
	eb.cancel()
	eb.inFlight.Wait()

	eb.log.Function("Close").Info("EventBus closed")
	return nil
}
