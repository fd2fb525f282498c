package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ledgerline/ledgerline/internal/api/dto"
	"github.com/ledgerline/ledgerline/internal/domain/invoice"
	"github.com/ledgerline/ledgerline/internal/domain/product"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/types"
	webhookDto "github.com/ledgerline/ledgerline/internal/webhook/dto"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// InvoiceService assembles invoices from catalog products and manages their lifecycle
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	CancelInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
	}
}

// pricedLine is a request line resolved against its product and priced
type pricedLine struct {
	product *product.Product
	input   invoice.LineInput
	amounts *invoice.LineAmounts
}

// CreateInvoice validates the customer and every line before writing anything,
// then numbers and persists the invoice with its lines in one transaction.
// A numbering collision with a concurrent request retries the whole
// transaction with backoff.
func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.CustomerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	if len(req.LineItems) == 0 {
		return nil, ierr.WithError(invoice.ErrEmptyInvoice).
			WithHint("Invoice must have at least one line item").
			Mark(ierr.ErrValidation)
	}

	lines, err := s.priceLines(ctx, req.LineItems)
	if err != nil {
		return nil, err
	}

	issuedAt := time.Now().UTC()
	if req.IssuedAt != nil {
		issuedAt = req.IssuedAt.UTC()
	}
	dueAt := req.DueAt
	if dueAt == nil && s.Config.Billing.DefaultDueDays > 0 {
		dueAt = lo.ToPtr(issuedAt.AddDate(0, 0, s.Config.Billing.DefaultDueDays))
	}

	var inv *invoice.Invoice
	attempt := 0
	operation := func() error {
		attempt++
		inv = s.buildInvoice(ctx, req, lines, issuedAt, dueAt)

		err := s.DB.WithTx(ctx, func(ctx context.Context) error {
			return s.persistInvoice(ctx, inv, lines)
		})
		if err == nil {
			return nil
		}
		if ierr.Is(err, invoice.ErrNumberConflict) {
			s.Logger.Warnw("invoice number taken, retrying",
				"invoice_number", inv.InvoiceNumber,
				"attempt", attempt,
			)
			return err
		}
		return backoff.Permanent(err)
	}

	if err := backoff.Retry(operation, s.numberingBackoff(ctx)); err != nil {
		if ierr.Is(err, invoice.ErrNumberConflict) {
			s.Logger.Errorw("exhausted invoice numbering retries",
				"customer_id", req.CustomerID,
				"attempts", attempt,
			)
			return nil, ierr.NewError("invoice numbering retries exhausted").
				WithHint("Could not allocate an invoice number, please retry").
				WithReportableDetails(map[string]any{
					"attempts": attempt,
					"cause":    err.Error(),
				}).
				Mark(ierr.ErrServiceUnavailable)
		}
		s.Logger.Errorw("failed to create invoice",
			"error", err,
			"customer_id", req.CustomerID,
		)
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"customer_id", inv.CustomerID,
		"total_amount", inv.TotalAmount.String(),
		"request_id", types.GetRequestID(ctx),
	)

	resp := dto.NewInvoiceResponse(inv)
	s.publishWebhookEvent(ctx, types.WebhookEventInvoiceCreated, resp)
	return resp, nil
}

// priceLines resolves every product and prices every line. Nothing is written.
func (s *invoiceService) priceLines(ctx context.Context, items []dto.CreateInvoiceLineItemRequest) ([]*pricedLine, error) {
	lines := make([]*pricedLine, 0, len(items))
	for i, item := range items {
		p, err := s.ProductRepo.Get(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		in := invoice.LineInput{
			UnitPrice:       lo.FromPtrOr(item.UnitPrice, p.UnitPrice),
			Quantity:        item.Quantity,
			DiscountPercent: lo.FromPtrOr(item.DiscountPercent, decimal.Zero),
			TaxRatePercent:  p.TaxRatePercent,
		}

		amounts, err := invoice.ComputeLine(in)
		if err != nil {
			return nil, ierr.WithError(err).
				WithReportableDetails(map[string]any{
					"line":       i + 1,
					"product_id": item.ProductID,
				}).
				Mark(ierr.ErrValidation)
		}

		lines = append(lines, &pricedLine{product: p, input: in, amounts: amounts})
	}
	return lines, nil
}

// buildInvoice assembles a fresh invoice with new identifiers. The number is
// assigned inside the transaction.
func (s *invoiceService) buildInvoice(
	ctx context.Context,
	req dto.CreateInvoiceRequest,
	lines []*pricedLine,
	issuedAt time.Time,
	dueAt *time.Time,
) *invoice.Invoice {
	base := types.GetDefaultBaseModel(ctx)
	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		CustomerID:    req.CustomerID,
		IssuedAt:      issuedAt,
		DueAt:         dueAt,
		Subtotal:      decimal.Zero,
		TotalDiscount: decimal.Zero,
		TotalTax:      decimal.Zero,
		TotalAmount:   decimal.Zero,
		Notes:         req.Notes,
		BaseModel:     base,
	}

	for i, line := range lines {
		inv.AddLineItem(invoice.NewLineItem(inv.ID, line.product.ID, line.product.Name, i+1, line.input, line.amounts, base))
	}
	inv.InvoiceStatus = invoice.InitialStatus(inv.TotalAmount)
	return inv
}

func (s *invoiceService) persistInvoice(ctx context.Context, inv *invoice.Invoice, lines []*pricedLine) error {
	numberDay := time.Now().UTC()
	count, err := s.InvoiceRepo.CountByNumberPrefix(ctx, invoice.NumberPrefix(numberDay))
	if err != nil {
		return err
	}
	inv.InvoiceNumber = invoice.NextNumber(numberDay, count)

	if err := inv.Validate(); err != nil {
		return err
	}

	if err := s.InvoiceRepo.CreateWithLineItems(ctx, inv); err != nil {
		return err
	}

	s.decrementStock(ctx, lines)
	return nil
}

// decrementStock lowers the stock of every stock-tracked product by the units
// sold, floored at zero. Fractional quantities are truncated per line before
// they are summed per product. Each product runs in its own savepoint;
// failures are logged and never fail the invoice.
func (s *invoiceService) decrementStock(ctx context.Context, lines []*pricedLine) {
	sold := make(map[string]int64)
	order := make([]string, 0, len(lines))
	for _, line := range lines {
		if !line.product.TracksStock() {
			continue
		}
		if _, ok := sold[line.product.ID]; !ok {
			order = append(order, line.product.ID)
		}
		sold[line.product.ID] += line.input.Quantity.IntPart()
	}

	for _, productID := range order {
		quantity := sold[productID]
		if quantity == 0 {
			continue
		}
		err := s.DB.WithTx(ctx, func(ctx context.Context) error {
			return s.ProductRepo.DecrementStock(ctx, productID, quantity)
		})
		if err != nil {
			s.Logger.Warnw("failed to decrement product stock",
				"error", err,
				"product_id", productID,
				"quantity", quantity,
			)
		}
	}
}

func (s *invoiceService) numberingBackoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.Config.Billing.NumberingRetryInterval
	if b.InitialInterval <= 0 {
		b.InitialInterval = backoff.DefaultInitialInterval
	}
	b.MaxInterval = 50 * b.InitialInterval
	b.MaxElapsedTime = 0
	return backoff.WithContext(
		backoff.WithMaxRetries(b, uint64(s.Config.Billing.NumberingMaxRetries)),
		ctx,
	)
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	paid, err := s.PaymentRepo.SumCompletedByInvoiceID(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.NewInvoiceResponse(inv).WithPayments(paid), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	paid, err := s.PaymentRepo.SumCompletedByInvoiceIDs(ctx, lo.Map(invoices, func(inv *invoice.Invoice, _ int) string {
		return inv.ID
	}))
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		items[i] = dto.NewInvoiceResponse(inv).WithPayments(lo.ValueOr(paid, inv.ID, decimal.Zero))
	}

	resp := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

// CancelInvoice cancels an invoice that has not received any completed payment.
// Stock sold on the invoice is not restored.
func (s *invoiceService) CancelInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	var inv *invoice.Invoice
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.InvoiceRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if inv.IsCancelled() {
			return ierr.WithError(invoice.ErrInvoiceCancelled).
				WithHintf("Invoice %s is already cancelled", inv.InvoiceNumber).
				Mark(ierr.ErrInvalidOperation)
		}

		paid, err := s.PaymentRepo.SumCompletedByInvoiceID(ctx, id)
		if err != nil {
			return err
		}
		if paid.IsPositive() {
			return ierr.NewError("invoice has completed payments").
				WithHintf("Invoice %s has payments recorded and cannot be cancelled", inv.InvoiceNumber).
				WithReportableDetails(map[string]any{
					"invoice_id":  id,
					"amount_paid": paid.String(),
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		inv.InvoiceStatus = types.InvoiceStatusCancelled
		inv.CancelledAt = lo.ToPtr(time.Now().UTC())
		return s.InvoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("cancelled invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
	)

	resp, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publishWebhookEvent(ctx, types.WebhookEventInvoiceCancelled, resp)
	return resp, nil
}

func (s *invoiceService) publishWebhookEvent(ctx context.Context, eventName string, inv *dto.InvoiceResponse) {
	webhookPayload, err := json.Marshal(webhookDto.NewInvoicePayload(inv, eventName))
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
