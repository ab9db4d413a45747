package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"tagprostats.dev/engine/internal/core"
	"tagprostats.dev/engine/internal/metrics"
)

const reprocessTopic = "tagprostats.reprocess"

// Runner fans a batch of game ids out across concurrent workers on a
// Watermill router: an in-process gochannel pub/sub when natsURL is
// empty, or NATS JetStream when a cluster is configured so several
// runner processes can share one queue.
type Runner struct {
	processor   *Processor
	concurrency int
	natsURL     string
	log         *log.Logger
}

func NewRunner(processor *Processor, concurrency int, natsURL string, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{processor: processor, concurrency: concurrency, natsURL: natsURL, log: logger}
}

// Run publishes gameIDs onto the reprocess topic and blocks until every
// one has been picked up by a worker and processed, or ctx is
// cancelled. Every log line the run's workers emit carries the same run
// id, so one invocation's output can be grepped out of a shared log
// stream.
func (r *Runner) Run(ctx context.Context, gameIDs []core.GameID) error {
	if len(gameIDs) == 0 {
		return nil
	}

	runID := uuid.NewString()
	logger := r.log.With("run_id", runID)

	wmLogger := watermill.NopLogger{}
	pub, sub, closePubSub, err := r.openPubSub(wmLogger)
	if err != nil {
		return fmt.Errorf("open batch pub/sub: %w", err)
	}
	defer closePubSub()

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 30 * time.Second}, wmLogger)
	if err != nil {
		return fmt.Errorf("create batch router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)

	results := make(chan error, len(gameIDs))

	for i := 0; i < r.concurrency; i++ {
		router.AddNoPublisherHandler(
			fmt.Sprintf("reprocess-worker-%d", i),
			reprocessTopic,
			sub,
			func(msg *message.Message) error {
				var gameID int
				if _, err := fmt.Sscanf(string(msg.Payload), "%d", &gameID); err != nil {
					err = fmt.Errorf("decode game id %q: %w", msg.Payload, err)
					results <- err
					return nil
				}
				err := r.processor.ProcessGame(ctx, runID, core.GameID(gameID))
				metrics.BatchQueueDepth.Dec()
				if err != nil {
					logger.Error("reprocess failed", "game_id", gameID, "error", err)
				}
				// The outcome goes to results; acking (nil) keeps a failed
				// game from being redelivered and reported twice.
				results <- err
				return nil
			},
		)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	routerDone := make(chan error, 1)
	go func() { routerDone <- router.Run(runCtx) }()
	<-router.Running()

	for _, id := range gameIDs {
		payload := []byte(fmt.Sprintf("%d", int(id)))
		if err := pub.Publish(reprocessTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
			cancel()
			return fmt.Errorf("publish game %d: %w", id, err)
		}
		metrics.BatchQueueDepth.Inc()
	}

	var firstErr error
	for range gameIDs {
		if err := <-results; err != nil && firstErr == nil {
			firstErr = err
		}
	}

	cancel()
	<-routerDone

	logger.Info("reprocess run complete", "games", len(gameIDs))
	return firstErr
}

func (r *Runner) openPubSub(logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, func(), error) {
	if r.natsURL == "" {
		ps := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, logger)
		return ps, ps, func() { ps.Close() }, nil
	}

	marshaler := &wmnats.NATSMarshaler{}
	pub, err := wmnats.NewPublisher(wmnats.PublisherConfig{
		URL:       r.natsURL,
		Marshaler: marshaler,
		JetStream: wmnats.JetStreamConfig{Disabled: false, AutoProvision: true, TrackMsgId: true},
	}, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create nats publisher: %w", err)
	}

	sub, err := wmnats.NewSubscriber(wmnats.SubscriberConfig{
		URL:              r.natsURL,
		QueueGroupPrefix: "tagprostats-batch",
		SubscribersCount: r.concurrency,
		Unmarshaler:      marshaler,
		JetStream:        wmnats.JetStreamConfig{Disabled: false, AutoProvision: true, DurablePrefix: "tagprostats-batch"},
	}, logger)
	if err != nil {
		pub.Close()
		return nil, nil, nil, fmt.Errorf("create nats subscriber: %w", err)
	}

	return pub, sub, func() { pub.Close(); sub.Close() }, nil
}
