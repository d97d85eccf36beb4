package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/marisimondelossantos-spec/petshop/pkg/logger"
)

// messageWriter is the slice of kafka.Writer the bridge needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Bridge forwards storefront notifications to a Kafka topic so backend
// consumers can observe what the UI did. Publishing is best effort: failures
// are logged and dropped, and a circuit breaker keeps a dead broker from
// slowing down every interaction.
type Bridge struct {
	writer  messageWriter
	breaker *gobreaker.CircuitBreaker[any]
	timeout time.Duration
	log     *logger.Logger
}

func NewBridge(brokers []string, topic string, log *logger.Logger) *Bridge {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return newBridge(w, log)
}

func newBridge(w messageWriter, log *logger.Logger) *Bridge {
	if log == nil {
		log = logger.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "storefront-events",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Bridge{writer: w, breaker: cb, timeout: 2 * time.Second, log: log}
}

type wireEvent struct {
	Type    Type      `json:"type"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// Forward satisfies the bus Handler signature; attach with SubscribeAll.
func (b *Bridge) Forward(e Event) {
	value, err := json.Marshal(wireEvent{Type: e.Type, Payload: e.Payload, At: time.Now()})
	if err != nil {
		b.log.Error("marshal storefront event", zap.Error(err))
		return
	}

	_, err = b.breaker.Execute(func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		return nil, b.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(e.Type),
			Value: value,
		})
	})
	if err != nil {
		b.log.Warn("dropping storefront event",
			zap.String("event", string(e.Type)), zap.Error(err))
	}
}

func (b *Bridge) Close() {
	if err := b.writer.Close(); err != nil {
		b.log.Warn("close kafka writer", zap.Error(err))
	}
}
