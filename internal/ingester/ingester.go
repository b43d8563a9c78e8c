package ingester

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MeetGangani/study-backend/internal/events"
	"github.com/MeetGangani/study-backend/internal/session"
	"github.com/MeetGangani/study-backend/internal/store"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// FragmentHandler processes one normalized transcript fragment. Implemented
// by *session.Service.
type FragmentHandler interface {
	SubmitTranscript(ctx context.Context, sessionID string, frag session.Fragment) (string, error)
}

const (
	streamName   = "SESSION_TRANSCRIPTS"
	consumerName = "summarizer-SESSION_TRANSCRIPTS"
)

var streamSubjects = []string{"study.session.transcript.>"}

// Ingester consumes transcript fragments published by the live speech gateway
// and feeds them through the same summarization path as HTTP submissions.
type Ingester struct {
	nc      *nats.Conn
	js      jetstream.JetStream
	handler FragmentHandler
	subs    []jetstream.ConsumeContext
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(natsURL string, h FragmentHandler) (*Ingester, error) {
	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			slog.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	ictx, ican := context.WithCancel(context.Background())
	return &Ingester{
		nc:      nc,
		js:      js,
		handler: h,
		ctx:     ictx,
		cancel:  ican,
	}, nil
}

// Start binds to a durable consumer on the transcript stream and begins
// consuming.
func (ing *Ingester) Start() error {
	ctx := context.Background()

	if err := ing.ensureStream(ctx); err != nil {
		return fmt.Errorf("ensure stream %s: %w", streamName, err)
	}

	consumer, err := ing.js.CreateOrUpdateConsumer(ctx, streamName, jetstream.ConsumerConfig{
		Name:          consumerName,
		Durable:       consumerName,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    3,
		AckWait:       30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create consumer %s: %w", consumerName, err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		ing.handleMessage(msg)
	})
	if err != nil {
		return fmt.Errorf("consume %s: %w", consumerName, err)
	}

	ing.subs = append(ing.subs, cc)
	slog.Info("subscribed to stream", "stream", streamName, "consumer", consumerName)
	return nil
}

func (ing *Ingester) ensureStream(ctx context.Context) error {
	// Try to get existing stream first.
	_, err := ing.js.Stream(ctx, streamName)
	if err == nil {
		return nil
	}

	_, err = ing.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:      streamName,
		Subjects:  streamSubjects,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   jetstream.FileStorage,
		Replicas:  1,
	})
	if err != nil {
		return fmt.Errorf("create stream %s: %w", streamName, err)
	}

	slog.Info("created stream", "name", streamName, "subjects", streamSubjects)
	return nil
}

func (ing *Ingester) handleMessage(msg jetstream.Msg) {
	e, err := events.NormalizeFragment(msg.Data())
	if err != nil {
		slog.Warn("malformed fragment event, skipping",
			"subject", msg.Subject(),
			"error", err,
		)
		// Ack to avoid redelivery of permanently broken messages.
		_ = msg.Ack()
		return
	}

	_, err = ing.handler.SubmitTranscript(ing.ctx, e.SessionID, session.Fragment{
		Text: e.Text,
		Lang: e.Lang,
	})
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound), errors.Is(err, session.ErrEmptyFragment):
		// Won't succeed on redelivery either.
		slog.Warn("fragment rejected, skipping",
			"session_id", e.SessionID,
			"error", err,
		)
	default:
		// Transient (likely the database); let JetStream redeliver.
		slog.Error("fragment processing failed, requesting redelivery",
			"session_id", e.SessionID,
			"error", err,
		)
		if nerr := msg.Nak(); nerr != nil {
			slog.Warn("failed to nak message", "subject", msg.Subject(), "error", nerr)
		}
		return
	}

	if err := msg.Ack(); err != nil {
		slog.Warn("failed to ack message", "subject", msg.Subject(), "error", err)
	}
}

// Publish sends a message to NATS (used for summary-completed events).
func (ing *Ingester) Publish(subject string, data []byte) error {
	return ing.nc.Publish(subject, data)
}

// Close drains subscriptions and closes the NATS connection.
func (ing *Ingester) Close() {
	ing.cancel()
	for _, cc := range ing.subs {
		cc.Stop()
	}
	ing.nc.Drain()
}
