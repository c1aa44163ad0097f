package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/aureusmetals/aureus-backend/internal/audit"
	"github.com/aureusmetals/aureus-backend/pkg/config"
	"github.com/aureusmetals/aureus-backend/pkg/enums"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
)

// Dispatcher is the trigger surface other services depend on.
type Dispatcher interface {
	Trigger(ctx context.Context, event enums.WebhookEvent, payload map[string]any)
}

// Sender delivers one serialized event envelope to the target URL.
type Sender interface {
	Send(ctx context.Context, url string, body []byte) error
}

// Envelope is the JSON document posted (or simulated) per event.
type Envelope struct {
	Event     enums.WebhookEvent `json:"event"`
	Timestamp time.Time          `json:"timestamp"`
	Payload   map[string]any     `json:"payload"`
}

// Service decides per-event whether to dispatch and records the outcome in
// the audit log. Failures are log-only; there is no retry.
type Service struct {
	cfg    config.WebhookConfig
	logg   *logger.Logger
	audit  audit.Recorder
	sender Sender
	now    func() time.Time
}

// NewService builds a webhook dispatcher. When sender is nil, the configured
// mode selects between the simulated and HTTP transports.
func NewService(cfg config.WebhookConfig, logg *logger.Logger, recorder audit.Recorder, sender Sender) (*Service, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if sender == nil {
		if strings.EqualFold(cfg.Mode, "http") {
			sender = &httpSender{client: &http.Client{Timeout: cfg.Timeout}}
		} else {
			sender = &simulatedSender{
				successRate: cfg.SuccessRate,
				latencyMin:  cfg.LatencyMin,
				latencyMax:  cfg.LatencyMax,
				rng:         rand.Float64,
				sleep:       time.Sleep,
			}
		}
	}
	return &Service{
		cfg:    cfg,
		logg:   logg,
		audit:  recorder,
		sender: sender,
		now:    time.Now,
	}, nil
}

// Trigger dispatches the event when it is enabled and a URL is configured.
// Disabled or unconfigured events are silent no-ops.
func (s *Service) Trigger(ctx context.Context, event enums.WebhookEvent, payload map[string]any) {
	if !s.cfg.EventEnabled(event.String()) || s.cfg.URL == "" {
		return
	}

	body, err := json.Marshal(Envelope{
		Event:     event,
		Timestamp: s.now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		s.logg.Error(ctx, "failed to marshal webhook envelope", err)
		return
	}

	if err := s.sender.Send(ctx, s.cfg.URL, body); err != nil {
		logCtx := s.logg.WithField(ctx, "webhook_event", event.String())
		s.logg.Warn(logCtx, "webhook delivery failed: "+err.Error())
		s.audit.Record(ctx, audit.Entry{
			Type:    enums.AuditTypeWebhook,
			Action:  enums.AuditActionFailure,
			Message: fmt.Sprintf("Webhook %s delivery failed: %s", event, err.Error()),
			Details: map[string]any{"event": event.String(), "error": err.Error()},
		})
		return
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.AuditTypeWebhook,
		Action:  enums.AuditActionTrigger,
		Message: fmt.Sprintf("Webhook %s dispatched to %s", event, s.cfg.URL),
		Details: map[string]any{"event": event.String()},
	})
}

// simulatedSender stands in for a real receiver: it sleeps a random latency
// inside the configured window and draws a success outcome at the configured
// rate. No network traffic is produced.
type simulatedSender struct {
	successRate float64
	latencyMin  time.Duration
	latencyMax  time.Duration
	rng         func() float64
	sleep       func(time.Duration)
}

func (s *simulatedSender) Send(_ context.Context, _ string, _ []byte) error {
	if window := s.latencyMax - s.latencyMin; window > 0 {
		s.sleep(s.latencyMin + time.Duration(s.rng()*float64(window)))
	} else if s.latencyMin > 0 {
		s.sleep(s.latencyMin)
	}
	if s.rng() >= s.successRate {
		return errors.New("500 Internal Server Error")
	}
	return nil
}

type httpSender struct {
	client *http.Client
}

func (h *httpSender) Send(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s", resp.Status)
	}
	return nil
}
