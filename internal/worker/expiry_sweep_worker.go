package worker

import (
	"context"
	"sync"
	"time"

	"github.com/packworks/packworks/internal/collection"
	"github.com/packworks/packworks/internal/logger"
)

// DefaultSweepInterval is how often expired cards are converted to credits.
// Expiry is checked lazily on reads too, so the sweep only has to catch
// collections nobody is looking at.
const DefaultSweepInterval = 1 * time.Hour

// UserLister enumerates users that own a stored collection
type UserLister interface {
	ListUserIDs(ctx context.Context) ([]string, error)
}

// ExpirySweepWorker periodically converts expired cards across all
// collections. Per-user sweeps run on a shared worker pool so one slow
// user cannot stall the whole pass.
type ExpirySweepWorker struct {
	collectionSvc collection.Service
	users         UserLister
	pool          *Pool
	interval      time.Duration
	now           func() time.Time
	shutdown      chan struct{}
	wg            sync.WaitGroup
}

// NewExpirySweepWorker creates a new ExpirySweepWorker
func NewExpirySweepWorker(collectionSvc collection.Service, users UserLister, pool *Pool, interval time.Duration) *ExpirySweepWorker {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &ExpirySweepWorker{
		collectionSvc: collectionSvc,
		users:         users,
		pool:          pool,
		interval:      interval,
		now:           func() time.Time { return time.Now().UTC() },
		shutdown:      make(chan struct{}),
	}
}

// Start launches the sweep loop. The first sweep runs after one interval.
func (w *ExpirySweepWorker) Start() {
	w.wg.Add(1)
	go w.run()
}

func (w *ExpirySweepWorker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Sweep(context.Background())
		case <-w.shutdown:
			return
		}
	}
}

// Sweep runs one full pass over every stored collection
func (w *ExpirySweepWorker) Sweep(ctx context.Context) {
	log := logger.FromContext(ctx)

	userIDs, err := w.users.ListUserIDs(ctx)
	if err != nil {
		log.Error(LogMsgSweepListFailed, "error", err)
		return
	}

	log.Info(LogMsgSweepStarting, "collections", len(userIDs))

	now := w.now()
	for _, userID := range userIDs {
		w.pool.Enqueue(&sweepJob{svc: w.collectionSvc, userID: userID, now: now})
	}
}

// Shutdown stops the sweep loop, waiting up to the context deadline
func (w *ExpirySweepWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSweepShutdown)

	close(w.shutdown)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgSweepShutdownDone)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgSweepShutdownFailed)
		return ctx.Err()
	}
}

// sweepJob converts one user's expired cards on the worker pool
type sweepJob struct {
	svc    collection.Service
	userID string
	now    time.Time
}

func (j *sweepJob) Process(ctx context.Context) error {
	result, err := j.svc.SweepExpired(ctx, j.userID, j.now)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgSweepUserFailed, "user_id", j.userID, "error", err)
		return err
	}
	if result.ConvertedCount > 0 {
		logger.FromContext(ctx).Info(LogMsgSweepCompleted,
			"user_id", j.userID,
			"converted", result.ConvertedCount,
			"credits", result.CreditsGained)
	}
	return nil
}
