package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/log"

	"golang.org/x/sync/errgroup"
)

// Publisher delivers a digest and returns its message id.
type Publisher interface {
	PublishDigest(ctx context.Context, owner core.OwnerID, period core.Period, insights []core.Insight) (string, error)
}

type OwnerLister interface {
	ListOwners(ctx context.Context) ([]core.OwnerID, error)
}

type InsightSource interface {
	Insights(ctx context.Context, owner core.OwnerID, period core.Period, today core.Date) ([]core.Insight, error)
}

// DigestWorkerConfig holds configuration for the digest worker
type DigestWorkerConfig struct {
	// Interval between digest runs (default: 1h)
	Interval time.Duration

	// Concurrency bounds how many owners are processed at once (default: 4)
	Concurrency int
}

func DefaultDigestWorkerConfig() DigestWorkerConfig {
	return DigestWorkerConfig{
		Interval:    time.Hour,
		Concurrency: 4,
	}
}

// RunStats summarizes a single digest run.
type RunStats struct {
	Owners    int
	Published int
	Failed    int
}

// DigestWorker computes the current month's insights for every owner and
// publishes them as digests.
type DigestWorker struct {
	owners    OwnerLister
	insights  InsightSource
	publisher Publisher
	config    DigestWorkerConfig
	now       func() time.Time

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce *sync.Once
}

func NewDigestWorker(owners OwnerLister, insights InsightSource, publisher Publisher, config DigestWorkerConfig) *DigestWorker {
	defaults := DefaultDigestWorkerConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.Concurrency <= 0 {
		config.Concurrency = defaults.Concurrency
	}
	return &DigestWorker{
		owners:    owners,
		insights:  insights,
		publisher: publisher,
		config:    config,
		now:       time.Now,
	}
}

// Start begins the digest loop. Returns an error if already running.
func (w *DigestWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("digest worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.stopOnce = &sync.Once{}
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	go w.runLoop(ctx, stopCh, doneCh)

	slog.InfoContext(ctx, "Digest worker started",
		"interval", w.config.Interval,
		"concurrency", w.config.Concurrency)
	return nil
}

// Stop signals the loop and waits for the current run to finish.
// It is safe to call concurrently and after the loop exited on its own.
func (w *DigestWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	stopCh, doneCh, once := w.stopCh, w.doneCh, w.stopOnce
	w.mu.Unlock()

	once.Do(func() { close(stopCh) })

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Digest worker stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Digest worker stop timed out")
		return ctx.Err()
	}
}

func (w *DigestWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *DigestWorker) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan struct{}) {
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(doneCh)
	}()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	w.tick(ctx)
	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *DigestWorker) tick(ctx context.Context) {
	if _, err := w.RunOnce(ctx, core.DateOf(w.now())); err != nil {
		slog.ErrorContext(ctx, "Digest run failed", "error", err)
	}
}

// RunOnce publishes one digest per owner for the month containing today.
// A failing owner is logged and counted; it does not stop the others.
// Only a failure to list owners or a canceled context fails the run.
func (w *DigestWorker) RunOnce(ctx context.Context, today core.Date) (RunStats, error) {
	owners, err := w.owners.ListOwners(ctx)
	if err != nil {
		return RunStats{}, fmt.Errorf("list owners: %w", err)
	}

	period := core.MonthOf(today)
	var published, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.config.Concurrency)
	for _, owner := range owners {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			id, err := w.digest(gctx, owner, period, today)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failed.Add(1)
				slog.ErrorContext(gctx, "Failed to publish digest",
					log.FieldOperation, log.OpDigest,
					log.FieldOwner, owner,
					"period", period.String(),
					log.FieldError, err)
				return nil
			}
			published.Add(1)
			slog.DebugContext(gctx, "Digest published",
				log.FieldOperation, log.OpDigest,
				log.FieldOwner, owner,
				log.FieldDigestID, id)
			return nil
		})
	}
	err = g.Wait()

	stats := RunStats{
		Owners:    len(owners),
		Published: int(published.Load()),
		Failed:    int(failed.Load()),
	}
	if err != nil {
		return stats, err
	}

	slog.InfoContext(ctx, "Digest run completed",
		"period", period.String(),
		"owners", stats.Owners,
		"published", stats.Published,
		"errors", stats.Failed)
	return stats, nil
}

func (w *DigestWorker) digest(ctx context.Context, owner core.OwnerID, period core.Period, today core.Date) (string, error) {
	insights, err := w.insights.Insights(ctx, owner, period, today)
	if err != nil {
		return "", fmt.Errorf("compute insights: %w", err)
	}
	id, err := w.publisher.PublishDigest(ctx, owner, period, insights)
	if err != nil {
		return "", fmt.Errorf("publish: %w", err)
	}
	return id, nil
}
