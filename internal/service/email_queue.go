package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/logging"
)

const DefaultEmailBatchSize = 10

// DefaultClaimTimeout bounds how long a row may sit in processing before the
// next drain fails it. It is well above the provider client timeouts.
const DefaultClaimTimeout = 10 * time.Minute

const NoPendingEmailsMessage = "No pending emails to process"

type EmailResult struct {
	ID      uuid.UUID `json:"id"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

type DrainResult struct {
	Processed int           `json:"processed"`
	Successes int           `json:"successes"`
	Failures  int           `json:"failures"`
	Results   []EmailResult `json:"results"`
}

// EmailQueueDrainer claims pending notifications and hands each to the
// contact sender. Claimed rows belong to this drainer alone, so a row is
// sent at most once even with several drainers running.
type EmailQueueDrainer struct {
	queue     emailQueueRepository
	sender    ContactSender
	batchSize    int
	claimTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

func NewEmailQueueDrainer(queue emailQueueRepository, sender ContactSender, batchSize int, logger *slog.Logger) *EmailQueueDrainer {
	if batchSize <= 0 {
		batchSize = DefaultEmailBatchSize
	}
	return &EmailQueueDrainer{
		queue:        queue,
		sender:       sender,
		batchSize:    batchSize,
		claimTimeout: DefaultClaimTimeout,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Drain fails expired claims, then processes one batch. A nil result with a
// nil error means the queue was empty.
func (d *EmailQueueDrainer) Drain(ctx context.Context) (*DrainResult, error) {
	log := logging.FromContext(ctx)

	if n, err := d.queue.FailStale(ctx, d.claimTimeout); err != nil {
		log.Error("failed to sweep stale email claims", "error", err)
	} else if n > 0 {
		log.Warn("stale email claims marked failed", "count", n, "claim_timeout", d.claimTimeout)
	}

	claimed, err := d.queue.ClaimPending(ctx, d.batchSize)
	if err != nil {
		return nil, fmt.Errorf("Drain: %w", err)
	}
	if len(claimed) == 0 {
		return nil, nil
	}

	results := make([]EmailResult, len(claimed))
	var mu sync.Mutex
	result := &DrainResult{Processed: len(claimed)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.batchSize)
	for i, n := range claimed {
		g.Go(func() error {
			res := d.process(gctx, n)
			results[i] = res
			mu.Lock()
			if res.Success {
				result.Successes++
			} else {
				result.Failures++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	result.Results = results
	log.Info("email queue drained",
		"processed", result.Processed,
		"successes", result.Successes,
		"failures", result.Failures,
	)
	return result, nil
}

func (d *EmailQueueDrainer) process(ctx context.Context, n domain.EmailNotification) EmailResult {
	log := logging.FromContext(ctx).With("email_notification_id", n.ID)

	sendErr := d.send(ctx, n)
	at := d.now()

	// A claimed row must not be left in processing because the caller went
	// away mid-send.
	ctx = context.WithoutCancel(ctx)

	if sendErr == nil {
		// The email went out; a lost status update leaves the row in
		// processing until FailStale records the unknown outcome.
		if err := d.queue.MarkSent(ctx, n.ID, at); err != nil {
			log.Error("email sent but status update failed", "error", err)
			return EmailResult{ID: n.ID, Success: true, Error: "status update failed: " + err.Error()}
		}
		return EmailResult{ID: n.ID, Success: true}
	}

	log.Warn("email send failed", "error", sendErr)
	if err := d.queue.MarkFailed(ctx, n.ID, sendErr.Error(), at); err != nil {
		log.Error("failed to mark email failed", "error", err)
	}
	return EmailResult{ID: n.ID, Success: false, Error: sendErr.Error()}
}

func (d *EmailQueueDrainer) send(ctx context.Context, n domain.EmailNotification) error {
	var sub domain.ContactSubmission
	if err := json.Unmarshal(n.Payload, &sub); err != nil {
		return fmt.Errorf("%w: payload: %v", domain.ErrMalformedPayload, err)
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = n.CreatedAt
	}
	return d.sender.Send(ctx, sub)
}

// Start drains on every tick until ctx is cancelled.
func (d *EmailQueueDrainer) Start(ctx context.Context, interval time.Duration) {
	d.logger.Info("email queue drainer started", "interval", interval, "batch_size", d.batchSize)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("email queue drainer stopped")
			return
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

func (d *EmailQueueDrainer) tick(ctx context.Context) {
	res, err := d.Drain(logging.WithLogger(ctx, d.logger))
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			d.logger.Error("email queue drain failed", "error", err)
		}
		return
	}
	if res == nil {
		d.logger.Debug("email queue empty")
	}
}
