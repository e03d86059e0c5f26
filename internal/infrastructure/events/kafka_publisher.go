package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jhoicas/refurb-inventory-api/internal/application/ports"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
)

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// HeaderEventType cabecera con el tipo de evento.
const HeaderEventType = "x-event-type"

const (
	defaultQueueSize = 1024
	maxBatch         = 100
)

var (
	// ErrQueueFull la cola de envío está llena y el evento se descarta.
	ErrQueueFull = errors.New("kafka: cola de eventos llena")
	// ErrPublisherClosed el publicador ya fue cerrado.
	ErrPublisherClosed = errors.New("kafka: publicador cerrado")
)

// MessageWriter subconjunto de *kafka.Writer usado por el publicador.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica eventos en un topic; la clave es el AggregateID para conservar
// el orden por activo o pedido dentro de la partición.
//
// Publish solo serializa y encola: el envío lo hace una goroutine en segundo plano,
// así un broker lento no bloquea la petición que originó el evento.
type KafkaPublisher struct {
	writer  MessageWriter
	timeout time.Duration
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan kafka.Message
	done   chan struct{}
}

// NewKafkaWriter crea el writer de kafka-go para los brokers y el topic dados.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    maxBatch,
		RequiredAcks: kafka.RequireOne,
	}
}

// NewKafkaPublisher construye el publicador e inicia su goroutine de envío.
// queueSize <= 0 usa el tamaño por defecto.
func NewKafkaPublisher(writer MessageWriter, log zerolog.Logger, queueSize int) *KafkaPublisher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	p := &KafkaPublisher{
		writer:  writer,
		timeout: 5 * time.Second,
		log:     log,
		queue:   make(chan kafka.Message, queueSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

type wireEvent struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	AggregateID string         `json:"aggregateId"`
	OccurredAt  time.Time      `json:"occurredAt"`
	Payload     map[string]any `json:"payload"`
}

// Publish serializa el evento a JSON, propaga el contexto de traza en las cabeceras y lo
// encola sin esperar al broker. Con la cola llena devuelve ErrQueueFull.
func (p *KafkaPublisher) Publish(ctx context.Context, evt entity.DomainEvent) error {
	body, err := json.Marshal(wireEvent{
		ID:          evt.ID,
		Type:        evt.Type,
		AggregateID: evt.AggregateID,
		OccurredAt:  evt.OccurredAt,
		Payload:     evt.Payload,
	})
	if err != nil {
		return fmt.Errorf("kafka: serializar evento %s: %w", evt.Type, err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	headers := []kafka.Header{{Key: HeaderEventType, Value: []byte(evt.Type)}}
	for k, v := range carrier {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	msg := kafka.Message{
		Key:     []byte(evt.AggregateID),
		Value:   body,
		Headers: headers,
		Time:    evt.OccurredAt,
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("%w: %s", ErrPublisherClosed, evt.Type)
	}
	select {
	case p.queue <- msg:
		return nil
	default:
		return fmt.Errorf("%w: %s descartado", ErrQueueFull, evt.Type)
	}
}

// run envía en lotes lo que haya en la cola hasta que se cierre.
func (p *KafkaPublisher) run() {
	defer close(p.done)
	batch := make([]kafka.Message, 0, maxBatch)
	for msg := range p.queue {
		batch = append(batch[:0], msg)
	fill:
		for len(batch) < maxBatch {
			select {
			case next, ok := <-p.queue:
				if !ok {
					break fill
				}
				batch = append(batch, next)
			default:
				break fill
			}
		}
		p.flush(batch)
	}
}

func (p *KafkaPublisher) flush(batch []kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, batch...); err != nil {
		p.log.Error().Err(err).Int("events", len(batch)).Msg("kafka: no se pudo publicar el lote")
	}
}

// Close deja de aceptar eventos, envía los pendientes y cierra el writer.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.writer.Close()
}
