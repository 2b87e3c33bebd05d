package push

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pocketlist/push-fanout/internal/domain"
)

// Dispatcher sends batches through the Messenger and collects per-token
// outcomes into a DeliveryReport.
//
// Batches are independent, so they are sent concurrently and isolated from
// each other: a batch that fails outright only marks its own tokens failed,
// and nothing the dispatcher does ever surfaces as an error to the caller —
// push delivery is strictly best effort.
type Dispatcher struct {
	client  Messenger
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewDispatcher creates a Dispatcher that sends at most sendsPerSecond
// provider calls per second. Burst equals the rate, so there is no saved-up
// burst capacity beyond the configured per-second maximum.
func NewDispatcher(client Messenger, sendsPerSecond int, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(sendsPerSecond), sendsPerSecond),
		logger:  logger,
	}
}

// DispatchAll sends every batch and returns the merged report. Zero batches
// means zero provider calls and an empty report.
func (d *Dispatcher) DispatchAll(ctx context.Context, batches []Batch) *domain.DeliveryReport {
	report := &domain.DeliveryReport{}
	if len(batches) == 0 {
		return report
	}

	// Results are collected per batch index; no ordering dependency between
	// batches, no shared mutable state during the sends.
	results := make([][]domain.TokenOutcome, len(batches))

	var g errgroup.Group
	for i, b := range batches {
		g.Go(func() error {
			results[i] = d.sendBatch(ctx, b)
			return nil
		})
	}
	_ = g.Wait() // goroutines never return an error

	for _, outcomes := range results {
		for _, o := range outcomes {
			report.Add(o)
		}
	}
	return report
}

// SendDirect delivers one payload to one token, bypassing batching. This is
// the operator test-send path. A missing token fails fast before any
// network call.
func (d *Dispatcher) SendDirect(ctx context.Context, token string, p Payload) (string, error) {
	if token == "" {
		return "", domain.ErrTokenRequired
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return d.client.Send(ctx, p.message(token))
}

func (d *Dispatcher) sendBatch(ctx context.Context, b Batch) []domain.TokenOutcome {
	if err := d.limiter.Wait(ctx); err != nil {
		return failAll(b.Tokens, err)
	}

	resp, err := d.client.SendEachForMulticast(ctx, b.Payload.multicastMessage(b.Tokens))
	if err != nil {
		d.logger.Warn("batch send failed",
			zap.Int("tokens", len(b.Tokens)),
			zap.Error(err),
		)
		return failAll(b.Tokens, err)
	}

	outcomes := make([]domain.TokenOutcome, 0, len(b.Tokens))
	for i, token := range b.Tokens {
		if i >= len(resp.Responses) {
			// The provider answered with fewer responses than tokens;
			// treat the tail as undelivered.
			outcomes = append(outcomes, domain.TokenOutcome{Token: token, Reason: "no response from provider"})
			continue
		}
		sr := resp.Responses[i]
		o := domain.TokenOutcome{Token: token, Success: sr.Success}
		if !sr.Success && sr.Error != nil {
			o.Reason = sr.Error.Error()
		}
		outcomes = append(outcomes, o)
	}
	return outcomes
}

func failAll(tokens []string, err error) []domain.TokenOutcome {
	outcomes := make([]domain.TokenOutcome, len(tokens))
	for i, token := range tokens {
		outcomes[i] = domain.TokenOutcome{Token: token, Reason: err.Error()}
	}
	return outcomes
}
