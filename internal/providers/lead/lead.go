// Package lead forwards issued quotations to the sales lead-capture webhook.
package lead

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/quoteflow/internal/clock"
	"github.com/smallbiznis/quoteflow/internal/config"
	"github.com/smallbiznis/quoteflow/internal/observability/tracing"
	quotationdomain "github.com/smallbiznis/quoteflow/internal/quotation/domain"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const EventQuotationIssued = "quotation.issued"

type Provider interface {
	Capture(ctx context.Context, q quotationdomain.Quotation) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Capture(ctx context.Context, q quotationdomain.Quotation) error {
	return nil
}

// Event is the webhook body. ID doubles as the idempotency key.
type Event struct {
	ID         string                    `json:"id"`
	Type       string                    `json:"type"`
	OccurredAt time.Time                 `json:"occurred_at"`
	Quotation  quotationdomain.Quotation `json:"quotation"`
}

type Params struct {
	fx.In

	Config config.Config
	Clock  clock.Clock
	Log    *zap.Logger
}

type WebhookProvider struct {
	url    string
	client *http.Client
	clock  clock.Clock
	log    *zap.Logger
}

func NewFromConfig(p Params) Provider {
	url := strings.TrimSpace(p.Config.LeadCapture.URL)
	if url == "" {
		return &NoOpProvider{}
	}
	return NewWebhook(url, p.Config.LeadCapture.Timeout, p.Clock, p.Log)
}

func NewWebhook(url string, timeout time.Duration, clk clock.Clock, log *zap.Logger) *WebhookProvider {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &WebhookProvider{
		url:    url,
		client: &http.Client{Timeout: timeout},
		clock:  clk,
		log:    log.Named("lead.webhook"),
	}
}

func (p *WebhookProvider) Capture(ctx context.Context, q quotationdomain.Quotation) error {
	now := p.clock.Now().UTC()
	event := Event{
		ID:         ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		Type:       EventQuotationIssued,
		OccurredAt: now,
		Quotation:  q,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", event.ID)
	tracing.InjectContext(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("lead capture webhook returned %d", resp.StatusCode)
	}
	p.log.Debug("lead captured",
		zap.String("event_id", event.ID),
		zap.String("quotation_id", q.ID),
	)
	return nil
}

var Module = fx.Module("providers.lead",
	fx.Provide(NewFromConfig),
)
