package handler

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ledgerline/ledgerline/internal/config"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/ledgerline/ledgerline/internal/pubsub"
	pubsubRouter "github.com/ledgerline/ledgerline/internal/pubsub/router"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/samber/lo"
)

var knownEvents = []string{
	types.WebhookEventInvoiceCreated,
	types.WebhookEventInvoiceUpdatePayment,
	types.WebhookEventInvoiceCancelled,
	types.WebhookEventPaymentCreated,
}

// Handler consumes billing events from the event topic
type Handler interface {
	RegisterHandler(router *pubsubRouter.Router)
}

// EventSink receives decoded billing events with tenant and user restored on the context
type EventSink func(ctx context.Context, event *types.WebhookEvent) error

type handler struct {
	pubSub pubsub.PubSub
	config *config.Webhook
	logger *logger.Logger
	sink   EventSink
}

// NewHandler creates a handler that writes every billing event to the structured log
func NewHandler(
	pubSub pubsub.PubSub,
	cfg *config.Configuration,
	logger *logger.Logger,
) (Handler, error) {
	h := &handler{
		pubSub: pubSub,
		config: &cfg.Webhook,
		logger: logger,
	}
	h.sink = h.logEvent
	return h, nil
}

// NewHandlerWithSink creates a handler that forwards decoded events to sink
func NewHandlerWithSink(
	pubSub pubsub.PubSub,
	cfg *config.Configuration,
	logger *logger.Logger,
	sink EventSink,
) Handler {
	return &handler{
		pubSub: pubSub,
		config: &cfg.Webhook,
		logger: logger,
		sink:   sink,
	}
}

func (h *handler) RegisterHandler(router *pubsubRouter.Router) {
	router.AddNoPublishHandler(
		"billing_event_handler",
		h.config.Topic,
		h.pubSub,
		h.processMessage,
	)
}

func (h *handler) processMessage(msg *message.Message) error {
	var event types.WebhookEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		h.logger.Errorw("failed to unmarshal billing event",
			"error", err,
			"message_uuid", msg.UUID,
		)
		return nil // Don't retry on unmarshal errors
	}

	if !lo.Contains(knownEvents, event.EventName) {
		return ierr.NewError("unknown billing event").
			WithHintf("Unknown billing event %s", event.EventName).
			WithReportableDetails(map[string]any{
				"event_name":   event.EventName,
				"message_uuid": msg.UUID,
			}).
			Mark(ierr.ErrValidation)
	}

	ctx := msg.Context()
	ctx = context.WithValue(ctx, types.CtxTenantID, event.TenantID)
	ctx = context.WithValue(ctx, types.CtxUserID, event.UserID)

	return h.sink(ctx, &event)
}

func (h *handler) logEvent(ctx context.Context, event *types.WebhookEvent) error {
	h.logger.Infow("billing event",
		"event_id", event.ID,
		"event_name", event.EventName,
		"tenant_id", types.GetTenantID(ctx),
		"user_id", types.GetUserID(ctx),
		"timestamp", event.Timestamp,
		"payload", string(event.Payload),
	)
	return nil
}
