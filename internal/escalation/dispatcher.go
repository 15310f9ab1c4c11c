// Package escalation sends critical alerts out of band without holding up the
// inventory write path.
package escalation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
	"github.com/meditrack/meditrack-api/pkg/logger"
	"github.com/meditrack/meditrack-api/pkg/metrics"
	"github.com/meditrack/meditrack-api/pkg/redis"
	"github.com/meditrack/meditrack-api/pkg/sms"
)

const (
	defaultQueueSize   = 64
	defaultWorkers     = 2
	defaultSendTimeout = 10 * time.Second
	defaultClaimTTL    = 24 * time.Hour
)

const (
	resultSent      = "sent"
	resultFailed    = "failed"
	resultSkipped   = "skipped"
	resultDuplicate = "duplicate"
	resultDropped   = "dropped"
)

// Job is one critical alert to deliver.
type Job struct {
	AlertID      uuid.UUID
	HospitalID   uuid.UUID
	HospitalName string
	Message      string
}

// Escalator is the surface the pipeline depends on.
type Escalator interface {
	Escalate(ctx context.Context, job Job)
}

// Dispatcher fans jobs out to a fixed set of workers over a bounded queue.
type Dispatcher struct {
	sender   sms.Sender
	once     redis.OnceStore
	logg     *logger.Logger
	metrics  *metrics.Escalation
	timeout  time.Duration
	claimTTL time.Duration
	workers  int
	size     int

	queue chan Job
	wg    sync.WaitGroup
	mu    sync.RWMutex
	done  bool
}

type Option func(*Dispatcher)

// WithOnceStore claims each alert id before sending so an alert is escalated
// at most once across instances. Failed sends release their claim.
func WithOnceStore(store redis.OnceStore) Option {
	return func(d *Dispatcher) { d.once = store }
}

func WithMetrics(m *metrics.Escalation) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.size = n
		}
	}
}

func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithSendTimeout bounds each delivery attempt.
func WithSendTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// NewDispatcher starts the workers; call Close to drain them.
func NewDispatcher(sender sms.Sender, logg *logger.Logger, opts ...Option) (*Dispatcher, error) {
	if sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "sms sender required")
	}
	d := &Dispatcher{
		sender:   sender,
		logg:     logg,
		timeout:  defaultSendTimeout,
		claimTTL: defaultClaimTTL,
		workers:  defaultWorkers,
		size:     defaultQueueSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.queue = make(chan Job, d.size)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	return d, nil
}

// Escalate enqueues a job and returns immediately. A full queue or a closed
// dispatcher drops the job with a warning.
func (d *Dispatcher) Escalate(ctx context.Context, job Job) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.done {
		d.drop(ctx, job, "escalation.dropped_closed")
		return
	}
	select {
	case d.queue <- job:
		d.metrics.SetQueueDepth(len(d.queue))
	default:
		d.drop(ctx, job, "escalation.dropped_queue_full")
	}
}

func (d *Dispatcher) drop(ctx context.Context, job Job, msg string) {
	d.metrics.IncResult(resultDropped)
	if d.logg != nil {
		d.logg.Warn(d.logg.WithField(ctx, "alert_id", job.AlertID.String()), msg)
	}
}

// Close stops accepting jobs and waits for queued ones to finish or ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.done {
		d.done = true
		close(d.queue)
	}
	d.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for job := range d.queue {
		d.metrics.SetQueueDepth(len(d.queue))
		d.deliver(job)
	}
}

func (d *Dispatcher) deliver(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if d.logg != nil {
		ctx = d.logg.WithFields(ctx, map[string]any{
			"alert_id":    job.AlertID.String(),
			"hospital_id": job.HospitalID.String(),
		})
	}

	if d.once != nil && job.AlertID != uuid.Nil {
		claimed, err := d.once.ClaimEscalation(ctx, job.AlertID.String(), d.claimTTL)
		if err != nil {
			// A failed claim still sends.
			if d.logg != nil {
				d.logg.Warn(ctx, "escalation.claim_failed")
			}
		} else if !claimed {
			d.metrics.IncResult(resultDuplicate)
			return
		}
	}

	result := d.sender.SendCriticalAlert(ctx, job.HospitalName, job.Message)
	switch {
	case result.Success:
		d.metrics.IncResult(resultSent)
		if d.logg != nil {
			d.logg.Info(d.logg.WithField(ctx, "sid", result.SID), "escalation.sent")
		}
	case result.Error == sms.ReasonNotConfigured:
		d.metrics.IncResult(resultSkipped)
	default:
		d.metrics.IncResult(resultFailed)
		if d.logg != nil {
			d.logg.Warn(d.logg.WithField(ctx, "sms_error", result.Error), "escalation.failed")
		}
		d.release(ctx, job)
	}
}

// release frees the claim of a failed send so the alert can be escalated again.
func (d *Dispatcher) release(ctx context.Context, job Job) {
	if d.once == nil || job.AlertID == uuid.Nil {
		return
	}
	if err := d.once.ReleaseEscalation(ctx, job.AlertID.String()); err != nil && d.logg != nil {
		d.logg.Warn(ctx, "escalation.release_failed")
	}
}
