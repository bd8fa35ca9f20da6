// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/logging"
	"github.com/abmc/earned-media/internal/metrics"
	"github.com/abmc/earned-media/internal/models"
)

// Stream and topic layout for the ingestion queue. The stream is
// pre-created by EnsureStream so publishers and subscribers bind to a
// known configuration.
const (
	StreamName  = "INGEST_JOBS"
	TopicIngest = "ingest.run"

	streamMaxAge    = 24 * time.Hour
	streamMaxMsgs   = 100_000
	dedupeWindow    = 2 * time.Minute
	maxDeliver      = 3
	subCloseTimeout = 10 * time.Second
)

func natsConnectOptions(logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
}

// EnsureStream creates or updates the ingestion stream. Idempotent, call
// before starting publishers or subscribers.
func EnsureStream(ctx context.Context, url string) error {
	nc, err := natsgo.Connect(url)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	streamCfg := jetstream.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{"ingest.>"},
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     streamMaxAge,
		MaxMsgs:    streamMaxMsgs,
		Duplicates: dedupeWindow,
		Storage:    jetstream.FileStorage,
		Discard:    jetstream.DiscardOld,
	}

	if _, err := js.CreateOrUpdateStream(ctx, streamCfg); err != nil {
		return fmt.Errorf("ensure stream %s: %w", StreamName, err)
	}
	return nil
}

// Publisher sends job requests to the ingestion stream.
type Publisher struct {
	publisher message.Publisher
	mu        sync.Mutex
	closed    bool
}

// NewPublisher creates a JetStream publisher bound to the pre-created
// ingestion stream. Message IDs double as NATS deduplication keys.
func NewPublisher(url string) (*Publisher, error) {
	logger := newWatermillLogger()

	wmConfig := wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsConnectOptions(logger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: false,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create queue publisher: %w", err)
	}
	return &Publisher{publisher: pub}, nil
}

// PublishJob enqueues one job request. The execution ID becomes the
// message ID so a double-publish of the same execution is dropped by the
// stream's deduplication window.
func (p *Publisher) PublishJob(req *models.JobRequest) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("publisher is closed")
	}
	p.mu.Unlock()

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal job request: %w", err)
	}

	msg := message.NewMessage(req.ExecutionID.String(), payload)
	msg.Metadata.Set(natsgo.MsgIdHdr, req.ExecutionID.String())

	if err := p.publisher.Publish(TopicIngest, msg); err != nil {
		metrics.QueueMessagesFailed.Inc()
		return fmt.Errorf("publish job request: %w", err)
	}
	metrics.QueueMessagesPublished.Inc()
	return nil
}

// Close shuts down the publisher connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}

// JobHandler processes one dequeued job request. Returning an error
// nacks the message for redelivery, up to the stream's delivery limit.
type JobHandler func(ctx context.Context, req *models.JobRequest) error

// Subscriber consumes job requests from the ingestion stream with a
// durable queue-group consumer, spreading work across WorkerCount
// goroutines.
type Subscriber struct {
	subscriber message.Subscriber
	workers    int
}

// NewSubscriber creates a durable JetStream subscriber bound to the
// ingestion stream.
func NewSubscriber(cfg *config.NATSConfig, url string) (*Subscriber, error) {
	logger := newWatermillLogger()

	subOpts := []natsgo.SubOpt{
		natsgo.BindStream(StreamName),
		natsgo.MaxDeliver(maxDeliver),
		natsgo.AckWait(cfg.AckWaitTimeout),
		natsgo.DeliverAll(),
	}

	wmConfig := wmNats.SubscriberConfig{
		URL:              url,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: 1,
		AckWaitTimeout:   cfg.AckWaitTimeout,
		CloseTimeout:     subCloseTimeout,
		NatsOptions:      natsConnectOptions(logger),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision:    false,
			DurablePrefix:    cfg.DurableName,
			SubscribeOptions: subOpts,
		},
	}

	sub, err := wmNats.NewSubscriber(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create queue subscriber: %w", err)
	}

	workers := cfg.WorkerCount
	if workers < 1 {
		workers = 1
	}
	return &Subscriber{subscriber: sub, workers: workers}, nil
}

// Run consumes job requests until the context is canceled, dispatching
// each to the handler. Messages are acked on success and on permanently
// malformed payloads, nacked on handler failure.
func (s *Subscriber) Run(ctx context.Context, handler JobHandler) error {
	messages, err := s.subscriber.Subscribe(ctx, TopicIngest)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", TopicIngest, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range messages {
				s.handle(ctx, msg, handler)
			}
		}()
	}
	wg.Wait()
	return ctx.Err()
}

func (s *Subscriber) handle(ctx context.Context, msg *message.Message, handler JobHandler) {
	req, err := decodeJobRequest(msg.Payload)
	if err != nil {
		// A payload that cannot be decoded will never succeed, drop it.
		logging.Error().Err(err).Str("message_id", msg.UUID).
			Msg("Dropping malformed job request")
		metrics.QueueMessagesFailed.Inc()
		msg.Ack()
		return
	}

	if err := handler(ctx, req); err != nil {
		logging.Error().Err(err).
			Str("execution_id", req.ExecutionID.String()).
			Str("feed_id", req.FeedID.String()).
			Msg("Job execution failed, nacking for redelivery")
		metrics.QueueMessagesFailed.Inc()
		msg.Nack()
		return
	}

	metrics.QueueMessagesConsumed.Inc()
	msg.Ack()
}

// Close shuts down the subscriber connection.
func (s *Subscriber) Close() error {
	return s.subscriber.Close()
}

func decodeJobRequest(payload []byte) (*models.JobRequest, error) {
	var req models.JobRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decode job request: %w", err)
	}
	if req.ExecutionID == uuid.Nil {
		return nil, fmt.Errorf("job request missing execution_id")
	}
	return &req, nil
}
