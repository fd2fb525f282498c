package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ledgerline/ledgerline/internal/api/dto"
	"github.com/ledgerline/ledgerline/internal/domain/customer"
	"github.com/ledgerline/ledgerline/internal/domain/invoice"
	"github.com/ledgerline/ledgerline/internal/domain/payment"
	"github.com/ledgerline/ledgerline/internal/domain/product"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/testutil"
	"github.com/ledgerline/ledgerline/internal/types"
	webhookDto "github.com/ledgerline/ledgerline/internal/webhook/dto"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service        PaymentService
	invoiceService InvoiceService
	testData       struct {
		invoice *dto.InvoiceResponse
	}
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	params := newTestServiceParams(&s.BaseServiceTestSuite)
	s.service = NewPaymentService(params)
	s.invoiceService = NewInvoiceService(params)

	s.setupTestData()
}

// setupTestData creates an invoice with a total of exactly 100
func (s *PaymentServiceSuite) setupTestData() {
	ctx := s.GetContext()

	s.NoError(s.GetStores().CustomerRepo.Create(ctx, &customer.Customer{
		ID:        "cust_acme",
		Name:      "Acme Stores",
		BaseModel: types.GetDefaultBaseModel(ctx),
	}))
	s.NoError(s.GetStores().ProductRepo.Create(ctx, &product.Product{
		ID:             "prod_consulting",
		Name:           "Consulting hour",
		UnitPrice:      decimal.NewFromInt(100),
		TaxRatePercent: decimal.Zero,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}))

	inv, err := s.invoiceService.CreateInvoice(ctx, dto.CreateInvoiceRequest{
		CustomerID: "cust_acme",
		LineItems: []dto.CreateInvoiceLineItemRequest{{
			ProductID: "prod_consulting",
			Quantity:  decimal.NewFromInt(1),
		}},
	})
	s.Require().NoError(err)
	s.Require().Equal("100", inv.TotalAmount.String())
	s.testData.invoice = inv
}

func (s *PaymentServiceSuite) pay(amount int64) (*dto.PaymentResponse, error) {
	return s.service.RecordPayment(s.GetContext(), dto.RecordPaymentRequest{
		InvoiceID:     s.testData.invoice.ID,
		Amount:        decimal.NewFromInt(amount),
		PaymentMethod: types.PaymentMethodUPI,
	})
}

func (s *PaymentServiceSuite) storedInvoice() *dto.InvoiceResponse {
	inv, err := s.invoiceService.GetInvoice(s.GetContext(), s.testData.invoice.ID)
	s.Require().NoError(err)
	return inv
}

func (s *PaymentServiceSuite) TestRecordPaymentSequence() {
	steps := []struct {
		amount     int64
		wantStatus types.InvoiceStatus
		wantPaid   string
	}{
		{amount: 40, wantStatus: types.InvoiceStatusPartial, wantPaid: "40"},
		{amount: 60, wantStatus: types.InvoiceStatusPaid, wantPaid: "100"},
		{amount: 10, wantStatus: types.InvoiceStatusPaid, wantPaid: "110"},
	}

	for _, step := range steps {
		resp, err := s.pay(step.amount)
		s.Require().NoError(err)
		s.Equal(types.PaymentStatusCompleted, resp.PaymentStatus)
		s.Equal(step.wantStatus, resp.InvoiceStatus)
		s.Require().NotNil(resp.TotalPaid)
		s.Equal(step.wantPaid, resp.TotalPaid.String())

		stored := s.storedInvoice()
		s.Equal(step.wantStatus, stored.InvoiceStatus)
		s.Equal(step.wantPaid, stored.AmountPaid.String())
	}

	s.True(s.storedInvoice().AmountRemaining.IsZero())

	// Totals are never recomputed by payments
	s.Equal("100", s.storedInvoice().TotalAmount.String())

	names := lo.Map(s.GetPublishedEvents(), func(e types.WebhookEvent, _ int) string {
		return e.EventName
	})
	s.Equal([]string{
		types.WebhookEventInvoiceCreated,
		types.WebhookEventPaymentCreated,
		types.WebhookEventInvoiceUpdatePayment,
		types.WebhookEventPaymentCreated,
		types.WebhookEventInvoiceUpdatePayment,
		types.WebhookEventPaymentCreated,
	}, names)

	var settled webhookDto.InvoicePayload
	s.Require().NoError(json.Unmarshal(s.GetPublishedEvents()[4].Payload, &settled))
	s.Equal(types.WebhookEventInvoiceUpdatePayment, settled.EventType)
	s.Equal(types.InvoiceStatusPaid, settled.Settlement.InvoiceStatus)
	s.Equal(s.testData.invoice.InvoiceNumber, settled.Settlement.InvoiceNumber)
	s.Equal("100", settled.Settlement.AmountPaid.String())
	s.True(settled.Settlement.AmountRemaining.IsZero())
}

func (s *PaymentServiceSuite) TestRecordPaymentConcurrent() {
	var wg conc.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Go(func() {
			_, errs[i] = s.pay(50)
		})
	}
	wg.Wait()

	for _, err := range errs {
		s.NoError(err)
	}

	stored := s.storedInvoice()
	s.Equal(types.InvoiceStatusPaid, stored.InvoiceStatus)
	s.Equal("100", stored.AmountPaid.String())
}

func (s *PaymentServiceSuite) TestRecordPaymentValidation() {
	tests := []struct {
		name      string
		req       dto.RecordPaymentRequest
		wantErr   error
		wantCheck func(error) bool
	}{
		{
			name: "zero amount",
			req: dto.RecordPaymentRequest{
				InvoiceID:     s.testData.invoice.ID,
				Amount:        decimal.Zero,
				PaymentMethod: types.PaymentMethodCash,
			},
			wantErr:   payment.ErrInvalidAmount,
			wantCheck: ierr.IsValidation,
		},
		{
			name: "negative amount",
			req: dto.RecordPaymentRequest{
				InvoiceID:     s.testData.invoice.ID,
				Amount:        decimal.NewFromInt(-5),
				PaymentMethod: types.PaymentMethodCash,
			},
			wantErr:   payment.ErrInvalidAmount,
			wantCheck: ierr.IsValidation,
		},
		{
			name: "amount is checked before the invoice lookup",
			req: dto.RecordPaymentRequest{
				InvoiceID:     "inv_missing",
				Amount:        decimal.Zero,
				PaymentMethod: types.PaymentMethodCash,
			},
			wantErr:   payment.ErrInvalidAmount,
			wantCheck: ierr.IsValidation,
		},
		{
			name: "unknown invoice",
			req: dto.RecordPaymentRequest{
				InvoiceID:     "inv_missing",
				Amount:        decimal.NewFromInt(10),
				PaymentMethod: types.PaymentMethodCash,
			},
			wantErr:   invoice.ErrInvoiceNotFound,
			wantCheck: ierr.IsNotFound,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, err := s.service.RecordPayment(s.GetContext(), tt.req)
			s.Nil(resp)
			s.Require().Error(err)
			s.True(ierr.Is(err, tt.wantErr), "got %v", err)
			s.True(tt.wantCheck(err), "got %v", err)
		})
	}

	s.Run("unknown payment method", func() {
		_, err := s.service.RecordPayment(s.GetContext(), dto.RecordPaymentRequest{
			InvoiceID:     s.testData.invoice.ID,
			Amount:        decimal.NewFromInt(10),
			PaymentMethod: types.PaymentMethod("barter"),
		})
		s.Require().Error(err)
		s.True(ierr.IsValidation(err))
	})

	list, err := s.service.ListPayments(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Empty(list.Items)
	s.Equal(types.InvoiceStatusUnpaid, s.storedInvoice().InvoiceStatus)
}

func (s *PaymentServiceSuite) TestRecordPaymentOnCancelledInvoice() {
	_, err := s.invoiceService.CancelInvoice(s.GetContext(), s.testData.invoice.ID)
	s.Require().NoError(err)

	_, err = s.pay(10)
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.True(ierr.Is(err, invoice.ErrInvoiceCancelled))
	s.Equal(types.InvoiceStatusCancelled, s.storedInvoice().InvoiceStatus)
}

func (s *PaymentServiceSuite) TestGetAndListPayments() {
	ctx := s.GetContext()
	paidAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := s.service.RecordPayment(ctx, dto.RecordPaymentRequest{
		InvoiceID:     s.testData.invoice.ID,
		Amount:        decimal.NewFromInt(30),
		PaymentMethod: types.PaymentMethodCard,
		Reference:     lo.ToPtr("txn-001"),
		PaidAt:        &paidAt,
	})
	s.Require().NoError(err)
	_, err = s.pay(20)
	s.Require().NoError(err)

	got, err := s.service.GetPayment(ctx, first.ID)
	s.Require().NoError(err)
	s.Equal("30", got.Amount.String())
	s.Equal(types.PaymentMethodCard, got.PaymentMethod)
	s.Equal("txn-001", lo.FromPtr(got.Reference))
	s.True(paidAt.Equal(got.PaidAt))

	filter := types.NewPaymentFilter()
	filter.InvoiceID = lo.ToPtr(s.testData.invoice.ID)
	list, err := s.service.ListPayments(ctx, filter)
	s.Require().NoError(err)
	s.Len(list.Items, 2)
	s.Equal(2, list.Pagination.Total)

	filter.PaymentMethod = lo.ToPtr(types.PaymentMethodCard)
	list, err = s.service.ListPayments(ctx, filter)
	s.Require().NoError(err)
	s.Require().Len(list.Items, 1)
	s.Equal(first.ID, list.Items[0].ID)

	_, err = s.service.GetPayment(ctx, "pay_missing")
	s.Require().Error(err)
	s.True(ierr.Is(err, payment.ErrPaymentNotFound))
	s.True(ierr.IsNotFound(err))
}
