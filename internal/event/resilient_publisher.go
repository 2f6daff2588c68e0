package event

import (
	"context"
	"sync"
	"time"

	"github.com/packworks/packworks/internal/logger"
)

// retryEntry tracks one event moving through the retry queue
type retryEntry struct {
	event    Event
	attempts int // publish attempts made so far
	lastErr  error
}

// ResilientPublisher wraps an Event Bus with asynchronous retry and a
// dead-letter file for events that exhaust their retries. Publishing never
// blocks the caller on downstream failures.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter
	shutdown   chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewResilientPublisher creates a ResilientPublisher and starts its retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	rp.wg.Add(1)
	go rp.retryWorker()

	return rp, nil
}

// PublishWithRetry attempts a synchronous publish and hands failures to the
// background retry worker. The caller is decoupled from the retry outcome.
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := p.bus.Publish(ctx, event)
	if err == nil {
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err,
		"max_retries", p.maxRetries)

	p.enqueue(retryEntry{event: event, attempts: 1, lastErr: err})
}

func (p *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case p.retryQueue <- entry:
	default:
		logger.Warn(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		if err := p.deadLetter.Write(entry.event, entry.attempts, entry.lastErr); err != nil {
			logger.Error(LogMsgDeadLetterWriteFailed, "error", err)
		}
	}
}

// retryWorker processes queued entries one at a time. Retries within an
// entry back off exponentially via CalculateRetryDelay.
func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	for {
		select {
		case entry := <-p.retryQueue:
			p.processRetry(entry)
		case <-p.shutdown:
			p.drainQueue()
			return
		}
	}
}

func (p *ResilientPublisher) processRetry(entry retryEntry) {
	// Original request context may already be cancelled; retries run detached
	ctx := context.Background()

	for entry.attempts <= p.maxRetries {
		timer := time.NewTimer(CalculateRetryDelay(p.retryDelay, entry.attempts))
		select {
		case <-timer.C:
		case <-p.shutdown:
			// Shutting down: attempt immediately instead of waiting out the backoff
			timer.Stop()
		}

		err := p.bus.Publish(ctx, entry.event)
		if err == nil {
			logger.Debug(LogMsgEventRetrySucceeded,
				"event_type", entry.event.Type,
				"attempts", entry.attempts+1)
			return
		}

		entry.lastErr = err
		entry.attempts++
		logger.Warn(LogMsgEventRetryFailed,
			"event_type", entry.event.Type,
			"attempts", entry.attempts,
			"error", err)
	}

	logger.Error(LogMsgEventRetryExhausted,
		"event_type", entry.event.Type,
		"attempts", entry.attempts,
		"error", entry.lastErr)
	if err := p.deadLetter.Write(entry.event, entry.attempts, entry.lastErr); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "error", err)
	}
}

// drainQueue gives every queued entry one final attempt during shutdown,
// dead-lettering what still fails.
func (p *ResilientPublisher) drainQueue() {
	drained := 0
	for {
		select {
		case entry := <-p.retryQueue:
			drained++
			if err := p.bus.Publish(context.Background(), entry.event); err != nil {
				if werr := p.deadLetter.Write(entry.event, entry.attempts, err); werr != nil {
					logger.Error(LogMsgDeadLetterWriteFailedS, "error", werr)
				}
			}
		default:
			if drained > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

// Shutdown stops the retry worker, drains pending retries, and closes the
// dead-letter file. Returns the context error if the drain does not finish
// in time.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.closeOnce.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return p.deadLetter.Close()
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}

// Subscribe delegates to the wrapped bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.bus.Subscribe(eventType, handler)
}
