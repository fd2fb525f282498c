package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ledgerline/ledgerline/internal/api/dto"
	"github.com/ledgerline/ledgerline/internal/domain/invoice"
	"github.com/ledgerline/ledgerline/internal/domain/payment"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
	webhookDto "github.com/ledgerline/ledgerline/internal/webhook/dto"
	"github.com/shopspring/decimal"
)

// PaymentService records payments and keeps invoice status in step with them
type PaymentService interface {
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest) (*dto.PaymentResponse, error)
	GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error)
	ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error)
}

type paymentService struct {
	ServiceParams
}

// NewPaymentService creates a new payment service
func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{
		ServiceParams: params,
	}
}

// RecordPayment stores a completed payment and reconciles the invoice status
// from the fresh sum of completed payments. The invoice row stays locked
// until the status is written, so concurrent payments on one invoice
// reconcile one after another.
func (s *paymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest) (*dto.PaymentResponse, error) {
	if err := payment.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := req.PaymentMethod.Validate(); err != nil {
		return nil, err
	}

	paidAt := time.Now().UTC()
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}

	p := &payment.Payment{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		InvoiceID:     req.InvoiceID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: types.PaymentStatusCompleted,
		Reference:     req.Reference,
		PaidAt:        paidAt,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}

	var (
		previousStatus types.InvoiceStatus
		inv            *invoice.Invoice
		totalPaid      decimal.Decimal
	)

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.InvoiceRepo.GetForUpdate(ctx, req.InvoiceID)
		if err != nil {
			return err
		}

		if inv.IsCancelled() {
			return ierr.WithError(invoice.ErrInvoiceCancelled).
				WithHintf("Invoice %s is cancelled and cannot take payments", inv.InvoiceNumber).
				WithReportableDetails(map[string]any{
					"invoice_id": inv.ID,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		if err := p.Validate(); err != nil {
			return err
		}

		if err := s.PaymentRepo.Create(ctx, p); err != nil {
			return err
		}

		totalPaid, err = s.PaymentRepo.SumCompletedByInvoiceID(ctx, inv.ID)
		if err != nil {
			return err
		}

		previousStatus = inv.InvoiceStatus
		inv.InvoiceStatus = invoice.ReconcileStatus(inv.TotalAmount, totalPaid)
		if inv.InvoiceStatus == previousStatus {
			return nil
		}
		return s.InvoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		s.Logger.Errorw("failed to record payment",
			"error", err,
			"invoice_id", req.InvoiceID,
			"amount", req.Amount.String(),
		)
		return nil, err
	}

	s.Logger.Infow("recorded payment",
		"payment_id", p.ID,
		"invoice_id", inv.ID,
		"amount", p.Amount.String(),
		"total_paid", totalPaid.String(),
		"invoice_status", inv.InvoiceStatus,
		"request_id", types.GetRequestID(ctx),
	)

	resp := dto.NewPaymentResponse(p)
	resp.InvoiceStatus = inv.InvoiceStatus
	resp.TotalPaid = &totalPaid

	s.publishPaymentEvent(ctx, resp)
	if inv.InvoiceStatus != previousStatus {
		invoiceResp := dto.NewInvoiceResponse(inv).WithPayments(totalPaid)
		s.publishInvoiceEvent(ctx, types.WebhookEventInvoiceUpdatePayment, invoiceResp)
	}

	return resp, nil
}

// GetPayment gets a payment by ID
func (s *paymentService) GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.NewPaymentResponse(p), nil
}

// ListPayments lists payments based on filter
func (s *paymentService) ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error) {
	if filter == nil {
		filter = types.NewPaymentFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.PaymentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PaymentResponse, len(payments))
	for i, p := range payments {
		items[i] = dto.NewPaymentResponse(p)
	}

	resp := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *paymentService) publishPaymentEvent(ctx context.Context, p *dto.PaymentResponse) {
	s.publish(ctx, types.WebhookEventPaymentCreated, webhookDto.NewPaymentPayload(p, types.WebhookEventPaymentCreated))
}

func (s *paymentService) publishInvoiceEvent(ctx context.Context, eventName string, inv *dto.InvoiceResponse) {
	s.publish(ctx, eventName, webhookDto.NewInvoicePayload(inv, eventName))
}

func (s *paymentService) publish(ctx context.Context, eventName string, payload any) {
	webhookPayload, err := json.Marshal(payload)
	if err != nil {
		s.Logger.Errorw("failed to marshal webhook payload", "error", err)
		return
	}

	webhookEvent := &types.WebhookEvent{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WEBHOOK_EVENT),
		EventName: eventName,
		TenantID:  types.GetTenantID(ctx),
		UserID:    types.GetUserID(ctx),
		Timestamp: time.Now().UTC(),
		Payload:   json.RawMessage(webhookPayload),
	}
	if err := s.WebhookPublisher.PublishWebhook(ctx, webhookEvent); err != nil {
		s.Logger.Errorf("failed to publish %s event: %v", webhookEvent.EventName, err)
	}
}
