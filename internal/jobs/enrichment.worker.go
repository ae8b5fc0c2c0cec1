package jobs

import (
	"context"
	"sync"

	"lunchlog/internal/events"

	logger "github.com/Bparsons0904/goLogger"
)

// EnrichmentWorker consumes enrichment events and runs them on a bounded
// number of goroutines.
type EnrichmentWorker struct {
	bus    *events.EventBus
	job    *EnrichmentJob
	queue  *EnrichmentQueue
	slots  chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	log    logger.Logger
}

func NewEnrichmentWorker(
	bus *events.EventBus,
	job *EnrichmentJob,
	queue *EnrichmentQueue,
	workers int,
) *EnrichmentWorker {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &EnrichmentWorker{
		bus:    bus,
		job:    job,
		queue:  queue,
		slots:  make(chan struct{}, workers),
		ctx:    ctx,
		cancel: cancel,
		log:    logger.New("enrichmentWorker"),
	}
}

func (w *EnrichmentWorker) Start() error {
	w.bus.Subscribe(events.RESTAURANT_ENRICH_CHANNEL, w.handle)

	w.log.Function("Start").Info("Enrichment worker started", "workers", cap(w.slots))
	return nil
}

// Stop cancels running jobs and waits for them to record their outcome.
func (w *EnrichmentWorker) Stop(ctx context.Context) error {
	log := w.log.Function("Stop")

	w.cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("Enrichment worker stopped")
		return nil
	case <-ctx.Done():
		return log.Err("timed out waiting for enrichment jobs", ctx.Err())
	}
}

func (w *EnrichmentWorker) handle(ctx context.Context, event events.Event) error {
	log := w.log.Function("handle").TraceFromContext(ctx)

	request, err := events.DecodeEnrichment(event)
	if err != nil {
		return log.Err("invalid enrichment event", err, "eventID", event.ID)
	}

	w.wg.Add(1)
	defer w.wg.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer context.AfterFunc(w.ctx, cancel)()

	select {
	case w.slots <- struct{}{}:
	case <-ctx.Done():
		return nil
	}
	defer func() { <-w.slots }()

	outcome := w.job.Run(ctx, request.RestaurantID)
	w.queue.Release(ctx, request.RestaurantID)

	log.Info(
		"Enrichment finished",
		"restaurantID", request.RestaurantID,
		"reason", request.Reason,
		"status", outcome.Status,
		"changedFields", outcome.ChangedFields,
	)
	return nil
}
