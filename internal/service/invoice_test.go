package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ledgerline/ledgerline/internal/api/dto"
	"github.com/ledgerline/ledgerline/internal/domain/customer"
	"github.com/ledgerline/ledgerline/internal/domain/invoice"
	"github.com/ledgerline/ledgerline/internal/domain/product"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/testutil"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service     InvoiceService
	invoiceRepo *testutil.InMemoryInvoiceStore
	productRepo *testutil.InMemoryProductStore
	testData    struct {
		customer *customer.Customer
		products struct {
			widget  *product.Product
			gadget  *product.Product
			service *product.Product
		}
	}
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *InvoiceServiceSuite) setupService() {
	s.invoiceRepo = s.GetStores().InvoiceRepo.(*testutil.InMemoryInvoiceStore)
	s.productRepo = s.GetStores().ProductRepo.(*testutil.InMemoryProductStore)

	s.service = NewInvoiceService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func newTestServiceParams(b *testutil.BaseServiceTestSuite) ServiceParams {
	return ServiceParams{
		Logger:           b.GetLogger(),
		Config:           b.GetConfig(),
		DB:               b.GetDB(),
		CustomerRepo:     b.GetStores().CustomerRepo,
		ProductRepo:      b.GetStores().ProductRepo,
		InvoiceRepo:      b.GetStores().InvoiceRepo,
		PaymentRepo:      b.GetStores().PaymentRepo,
		WebhookPublisher: b.GetWebhookPublisher(),
	}
}

func (s *InvoiceServiceSuite) setupTestData() {
	ctx := s.GetContext()

	s.testData.customer = &customer.Customer{
		ID:        "cust_acme",
		Name:      "Acme Stores",
		Email:     "billing@acme.test",
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().CustomerRepo.Create(ctx, s.testData.customer))

	s.testData.products.widget = &product.Product{
		ID:             "prod_widget",
		Name:           "Widget",
		UnitPrice:      decimal.RequireFromString("49.99"),
		TaxRatePercent: decimal.Zero,
		StockQuantity:  lo.ToPtr(int64(10)),
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.productRepo.Create(ctx, s.testData.products.widget))

	s.testData.products.gadget = &product.Product{
		ID:             "prod_gadget",
		Name:           "Gadget",
		UnitPrice:      decimal.NewFromInt(100),
		TaxRatePercent: decimal.NewFromInt(18),
		StockQuantity:  lo.ToPtr(int64(2)),
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.productRepo.Create(ctx, s.testData.products.gadget))

	s.testData.products.service = &product.Product{
		ID:             "prod_service",
		Name:           "Installation",
		UnitPrice:      decimal.NewFromInt(100),
		TaxRatePercent: decimal.Zero,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.productRepo.Create(ctx, s.testData.products.service))
}

func (s *InvoiceServiceSuite) stock(productID string) *int64 {
	p, err := s.productRepo.Get(s.GetContext(), productID)
	s.Require().NoError(err)
	return p.StockQuantity
}

func (s *InvoiceServiceSuite) countInvoices() int {
	count, err := s.invoiceRepo.Count(s.GetContext(), nil)
	s.Require().NoError(err)
	return count
}

func (s *InvoiceServiceSuite) line(productID, quantity string) dto.CreateInvoiceLineItemRequest {
	return dto.CreateInvoiceLineItemRequest{
		ProductID: productID,
		Quantity:  decimal.RequireFromString(quantity),
	}
}

func (s *InvoiceServiceSuite) TestCreateInvoice() {
	discounted := s.line(s.testData.products.gadget.ID, "2")
	discounted.DiscountPercent = lo.ToPtr(decimal.NewFromInt(10))

	resp, err := s.service.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		CustomerID: s.testData.customer.ID,
		LineItems: []dto.CreateInvoiceLineItemRequest{
			s.line(s.testData.products.widget.ID, "3"),
			discounted,
		},
		Notes: "thank you",
	})
	s.Require().NoError(err)

	s.True(strings.HasPrefix(resp.InvoiceNumber, invoice.NumberPrefix(time.Now())))
	s.True(strings.HasSuffix(resp.InvoiceNumber, "-0001"))
	s.Equal(types.InvoiceStatusUnpaid, resp.InvoiceStatus)
	s.Equal("349.97", resp.Subtotal.String())
	s.Equal("20", resp.TotalDiscount.String())
	s.Equal("32.4", resp.TotalTax.String())
	s.Equal("362.37", resp.TotalAmount.String())
	s.Require().Len(resp.LineItems, 2)

	widgetLine := resp.LineItems[0]
	s.Equal(1, widgetLine.Position)
	s.Equal("Widget", widgetLine.ProductName)
	s.Equal("49.99", widgetLine.UnitPriceAtSale.String())
	s.Equal("149.97", widgetLine.LineTotal.String())

	gadgetLine := resp.LineItems[1]
	s.Equal(2, gadgetLine.Position)
	s.Equal("18", gadgetLine.TaxRatePercent.String())
	s.Equal("212.4", gadgetLine.LineTotal.String())

	// Totals survive the round trip through storage unchanged
	stored, err := s.service.GetInvoice(s.GetContext(), resp.ID)
	s.Require().NoError(err)
	s.True(resp.TotalAmount.Equal(stored.TotalAmount))
	s.True(stored.AmountPaid.IsZero())
	s.True(stored.AmountRemaining.Equal(stored.TotalAmount))
	s.Len(stored.LineItems, 2)

	lineSum := lo.Reduce(stored.LineItems, func(acc decimal.Decimal, item *dto.InvoiceLineItemResponse, _ int) decimal.Decimal {
		return acc.Add(item.LineTotal)
	}, decimal.Zero)
	s.True(lineSum.Equal(stored.TotalAmount))

	s.Equal(int64(7), *s.stock(s.testData.products.widget.ID))
	s.Equal(int64(0), *s.stock(s.testData.products.gadget.ID))
	s.Nil(s.stock(s.testData.products.service.ID))

	events := s.GetPublishedEvents()
	s.Require().Len(events, 1)
	s.Equal(types.WebhookEventInvoiceCreated, events[0].EventName)
	s.Equal(types.DefaultTenantID, events[0].TenantID)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceSequentialNumbers() {
	numbers := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := s.service.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
			CustomerID: s.testData.customer.ID,
			LineItems:  []dto.CreateInvoiceLineItemRequest{s.line(s.testData.products.service.ID, "1")},
		})
		s.Require().NoError(err)
		numbers = append(numbers, resp.InvoiceNumber)
	}

	prefix := invoice.NumberPrefix(time.Now())
	s.Equal([]string{prefix + "0001", prefix + "0002", prefix + "0003"}, numbers)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceFailures() {
	tests := []struct {
		name      string
		req       dto.CreateInvoiceRequest
		wantErr   error
		wantCheck func(error) bool
	}{
		{
			name: "empty line items",
			req: dto.CreateInvoiceRequest{
				CustomerID: s.testData.customer.ID,
			},
			wantErr:   invoice.ErrEmptyInvoice,
			wantCheck: ierr.IsValidation,
		},
		{
			name: "unknown customer",
			req: dto.CreateInvoiceRequest{
				CustomerID: "cust_missing",
				LineItems:  []dto.CreateInvoiceLineItemRequest{s.line(s.testData.products.widget.ID, "1")},
			},
			wantErr:   customer.ErrCustomerNotFound,
			wantCheck: ierr.IsNotFound,
		},
		{
			name: "unknown product after a valid line",
			req: dto.CreateInvoiceRequest{
				CustomerID: s.testData.customer.ID,
				LineItems: []dto.CreateInvoiceLineItemRequest{
					s.line(s.testData.products.widget.ID, "1"),
					s.line("prod_missing", "1"),
				},
			},
			wantErr:   product.ErrProductNotFound,
			wantCheck: ierr.IsNotFound,
		},
		{
			name: "zero quantity",
			req: dto.CreateInvoiceRequest{
				CustomerID: s.testData.customer.ID,
				LineItems:  []dto.CreateInvoiceLineItemRequest{s.line(s.testData.products.widget.ID, "0")},
			},
			wantErr:   invoice.ErrInvalidLineInput,
			wantCheck: ierr.IsValidation,
		},
		{
			name: "discount above 100 percent",
			req: dto.CreateInvoiceRequest{
				CustomerID: s.testData.customer.ID,
				LineItems: []dto.CreateInvoiceLineItemRequest{{
					ProductID:       s.testData.products.widget.ID,
					Quantity:        decimal.NewFromInt(1),
					DiscountPercent: lo.ToPtr(decimal.NewFromInt(101)),
				}},
			},
			wantErr:   invoice.ErrInvalidLineInput,
			wantCheck: ierr.IsValidation,
		},
		{
			name: "negative price override",
			req: dto.CreateInvoiceRequest{
				CustomerID: s.testData.customer.ID,
				LineItems: []dto.CreateInvoiceLineItemRequest{{
					ProductID: s.testData.products.widget.ID,
					Quantity:  decimal.NewFromInt(1),
					UnitPrice: lo.ToPtr(decimal.NewFromInt(-1)),
				}},
			},
			wantErr:   invoice.ErrInvalidLineInput,
			wantCheck: ierr.IsValidation,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, err := s.service.CreateInvoice(s.GetContext(), tt.req)
			s.Nil(resp)
			s.Require().Error(err)
			s.True(ierr.Is(err, tt.wantErr), "got %v", err)
			s.True(tt.wantCheck(err), "got %v", err)

			// Nothing is written when any line fails
			s.Equal(0, s.countInvoices())
			s.Equal(int64(10), *s.stock(s.testData.products.widget.ID))
			s.Empty(s.GetPublishedEvents())
		})
	}
}

func (s *InvoiceServiceSuite) TestCreateInvoiceStock() {
	s.Run("fractional quantities are truncated", func() {
		_, err := s.service.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
			CustomerID: s.testData.customer.ID,
			LineItems:  []dto.CreateInvoiceLineItemRequest{s.line(s.testData.products.widget.ID, "2.7")},
		})
		s.Require().NoError(err)
		s.Equal(int64(8), *s.stock(s.testData.products.widget.ID))
	})

	s.Run("each line is truncated before lines are summed", func() {
		_, err := s.service.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
			CustomerID: s.testData.customer.ID,
			LineItems: []dto.CreateInvoiceLineItemRequest{
				s.line(s.testData.products.widget.ID, "0.5"),
				s.line(s.testData.products.widget.ID, "0.5"),
			},
		})
		s.Require().NoError(err)
		s.Equal(int64(8), *s.stock(s.testData.products.widget.ID))

		_, err = s.service.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
			CustomerID: s.testData.customer.ID,
			LineItems: []dto.CreateInvoiceLineItemRequest{
				s.line(s.testData.products.widget.ID, "1.5"),
				s.line(s.testData.products.widget.ID, "1.5"),
			},
		})
		s.Require().NoError(err)
		s.Equal(int64(6), *s.stock(s.testData.products.widget.ID))
	})

	s.Run("repeated product lines are summed and floored at zero", func() {
		_, err := s.service.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
			CustomerID: s.testData.customer.ID,
			LineItems: []dto.CreateInvoiceLineItemRequest{
				s.line(s.testData.products.widget.ID, "5"),
				s.line(s.testData.products.widget.ID, "5"),
			},
		})
		s.Require().NoError(err)
		s.Equal(int64(0), *s.stock(s.testData.products.widget.ID))
	})

	s.Run("stock failures do not fail the invoice", func() {
		s.productRepo.FailStockUpdates(errors.New("connection reset"))
		defer s.productRepo.FailStockUpdates(nil)

		resp, err := s.service.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
			CustomerID: s.testData.customer.ID,
			LineItems:  []dto.CreateInvoiceLineItemRequest{s.line(s.testData.products.gadget.ID, "1")},
		})
		s.Require().NoError(err)
		s.NotEmpty(resp.InvoiceNumber)
		s.Equal(int64(2), *s.stock(s.testData.products.gadget.ID))
	})
}

func (s *InvoiceServiceSuite) TestCreateInvoiceZeroTotalIsPaid() {
	resp, err := s.service.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		CustomerID: s.testData.customer.ID,
		LineItems: []dto.CreateInvoiceLineItemRequest{{
			ProductID: s.testData.products.service.ID,
			Quantity:  decimal.NewFromInt(1),
			UnitPrice: lo.ToPtr(decimal.Zero),
		}},
	})
	s.Require().NoError(err)
	s.True(resp.TotalAmount.IsZero())
	s.Equal(types.InvoiceStatusPaid, resp.InvoiceStatus)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceRoundsToAmountScale() {
	ctx := s.GetContext()
	oddTax := &product.Product{
		ID:             "prod_odd_tax",
		Name:           "Odd tax",
		UnitPrice:      decimal.RequireFromString("59.97"),
		TaxRatePercent: decimal.RequireFromString("7.125"),
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	s.Require().NoError(s.productRepo.Create(ctx, oddTax))

	tiny := dto.CreateInvoiceLineItemRequest{
		ProductID:       s.testData.products.service.ID,
		Quantity:        decimal.NewFromInt(1),
		UnitPrice:       lo.ToPtr(decimal.RequireFromString("0.00000001")),
		DiscountPercent: lo.ToPtr(decimal.NewFromInt(50)),
	}
	discounted := s.line(oddTax.ID, "1")
	discounted.DiscountPercent = lo.ToPtr(decimal.RequireFromString("12.5"))

	resp, err := s.service.CreateInvoice(ctx, dto.CreateInvoiceRequest{
		CustomerID: s.testData.customer.ID,
		LineItems:  []dto.CreateInvoiceLineItemRequest{tiny, tiny, discounted},
	})
	s.Require().NoError(err)
	s.Equal("56.21250469", resp.TotalAmount.String())

	stored, err := s.service.GetInvoice(ctx, resp.ID)
	s.Require().NoError(err)

	sum := func(field func(*dto.InvoiceLineItemResponse) decimal.Decimal) decimal.Decimal {
		return lo.Reduce(stored.LineItems, func(acc decimal.Decimal, item *dto.InvoiceLineItemResponse, _ int) decimal.Decimal {
			return acc.Add(field(item))
		}, decimal.Zero)
	}

	// Header totals equal the sums of the stored line fields exactly
	s.True(stored.Subtotal.Equal(sum(func(l *dto.InvoiceLineItemResponse) decimal.Decimal { return l.Subtotal })))
	s.True(stored.TotalDiscount.Equal(sum(func(l *dto.InvoiceLineItemResponse) decimal.Decimal { return l.DiscountAmount })))
	s.True(stored.TotalTax.Equal(sum(func(l *dto.InvoiceLineItemResponse) decimal.Decimal { return l.TaxAmount })))
	s.True(stored.TotalAmount.Equal(sum(func(l *dto.InvoiceLineItemResponse) decimal.Decimal { return l.LineTotal })))

	for _, line := range stored.LineItems {
		for _, amount := range []decimal.Decimal{line.Subtotal, line.DiscountAmount, line.TaxAmount, line.LineTotal} {
			s.True(types.FitsScale(amount, types.AmountScale), "%s exceeds amount scale", amount)
		}
	}
	s.True(stored.LineItems[0].LineTotal.IsZero())
}

func (s *InvoiceServiceSuite) TestCreateInvoiceDates() {
	issuedAt := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	s.Run("explicit dates are kept", func() {
		dueAt := issuedAt.AddDate(0, 0, 30)
		resp, err := s.service.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
			CustomerID: s.testData.customer.ID,
			LineItems:  []dto.CreateInvoiceLineItemRequest{s.line(s.testData.products.service.ID, "1")},
			IssuedAt:   &issuedAt,
			DueAt:      &dueAt,
		})
		s.Require().NoError(err)
		s.True(issuedAt.Equal(resp.IssuedAt))
		s.Require().NotNil(resp.DueAt)
		s.True(dueAt.Equal(*resp.DueAt))

		// Numbers follow the day the invoice was created, not the issue date
		s.True(strings.HasPrefix(resp.InvoiceNumber, invoice.NumberPrefix(time.Now())))
	})

	s.Run("due date before issue date is rejected", func() {
		dueAt := issuedAt.AddDate(0, 0, -1)
		_, err := s.service.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
			CustomerID: s.testData.customer.ID,
			LineItems:  []dto.CreateInvoiceLineItemRequest{s.line(s.testData.products.service.ID, "1")},
			IssuedAt:   &issuedAt,
			DueAt:      &dueAt,
		})
		s.Require().Error(err)
		s.True(ierr.IsValidation(err))
	})
}

func (s *InvoiceServiceSuite) TestCreateInvoiceRetriesNumberConflicts() {
	s.invoiceRepo.SimulateNumberConflicts(2)
	txBefore := s.GetDB().TxCount()

	resp, err := s.service.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		CustomerID: s.testData.customer.ID,
		LineItems:  []dto.CreateInvoiceLineItemRequest{s.line(s.testData.products.widget.ID, "1")},
	})
	s.Require().NoError(err)

	attempts := s.invoiceRepo.AttemptedNumbers()
	s.Len(attempts, 3)
	s.Equal(resp.InvoiceNumber, attempts[2])
	s.Equal(3, s.GetDB().TxCount()-txBefore)
	s.Equal(1, s.countInvoices())

	// Failed attempts happen before the stock decrement
	s.Equal(int64(9), *s.stock(s.testData.products.widget.ID))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceExhaustsNumberRetries() {
	s.invoiceRepo.SimulateNumberConflicts(100)

	resp, err := s.service.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		CustomerID: s.testData.customer.ID,
		LineItems:  []dto.CreateInvoiceLineItemRequest{s.line(s.testData.products.widget.ID, "1")},
	})
	s.Nil(resp)
	s.Require().Error(err)
	s.True(ierr.IsServiceUnavailable(err))
	s.Len(s.invoiceRepo.AttemptedNumbers(), s.GetConfig().Billing.NumberingMaxRetries+1)
	s.Equal(0, s.countInvoices())
	s.Empty(s.GetPublishedEvents())
}

func (s *InvoiceServiceSuite) TestCreateInvoiceConcurrentNumbersAreUnique() {
	const workers = 8

	p := pool.NewWithResults[string]().WithErrors()
	for i := 0; i < workers; i++ {
		p.Go(func() (string, error) {
			resp, err := s.service.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
				CustomerID: s.testData.customer.ID,
				LineItems:  []dto.CreateInvoiceLineItemRequest{s.line(s.testData.products.service.ID, "1")},
			})
			if err != nil {
				return "", err
			}
			return resp.InvoiceNumber, nil
		})
	}

	numbers, err := p.Wait()
	s.Require().NoError(err)
	s.Len(numbers, workers)
	s.Len(lo.Uniq(numbers), workers)
}

func (s *InvoiceServiceSuite) TestListInvoices() {
	ctx := s.GetContext()
	for i := 0; i < 3; i++ {
		_, err := s.service.CreateInvoice(ctx, dto.CreateInvoiceRequest{
			CustomerID: s.testData.customer.ID,
			LineItems:  []dto.CreateInvoiceLineItemRequest{s.line(s.testData.products.service.ID, "1")},
		})
		s.Require().NoError(err)
	}

	all, err := s.service.ListInvoices(ctx, types.NewInvoiceFilter())
	s.Require().NoError(err)
	s.Len(all.Items, 3)
	s.Equal(3, all.Pagination.Total)

	filter := types.NewInvoiceFilter()
	filter.NumberQuery = "-0002"
	found, err := s.service.ListInvoices(ctx, filter)
	s.Require().NoError(err)
	s.Require().Len(found.Items, 1)
	s.True(strings.HasSuffix(found.Items[0].InvoiceNumber, "-0002"))

	filter = types.NewInvoiceFilter()
	filter.InvoiceStatus = []types.InvoiceStatus{types.InvoiceStatusPaid}
	none, err := s.service.ListInvoices(ctx, filter)
	s.Require().NoError(err)
	s.Empty(none.Items)
	s.Equal(0, none.Pagination.Total)

	filter = types.NewInvoiceFilter()
	filter.Limit = lo.ToPtr(2)
	page, err := s.service.ListInvoices(ctx, filter)
	s.Require().NoError(err)
	s.Len(page.Items, 2)
	s.Equal(3, page.Pagination.Total)
	s.Equal(2, page.Pagination.Limit)

	s.Run("items carry completed payments", func() {
		paidID := all.Items[0].ID
		payments := NewPaymentService(newTestServiceParams(&s.BaseServiceTestSuite))
		_, err := payments.RecordPayment(ctx, dto.RecordPaymentRequest{
			InvoiceID:     paidID,
			Amount:        decimal.NewFromInt(100),
			PaymentMethod: types.PaymentMethodCash,
		})
		s.Require().NoError(err)

		listed, err := s.service.ListInvoices(ctx, types.NewInvoiceFilter())
		s.Require().NoError(err)
		s.Require().Len(listed.Items, 3)
		for _, item := range listed.Items {
			if item.ID == paidID {
				s.Equal("100", item.AmountPaid.String())
				s.True(item.AmountRemaining.IsZero())
				s.Equal(types.InvoiceStatusPaid, item.InvoiceStatus)
				continue
			}
			s.True(item.AmountPaid.IsZero())
			s.Equal("100", item.AmountRemaining.String())
		}
	})
}

func (s *InvoiceServiceSuite) TestGetInvoiceNotFound() {
	_, err := s.service.GetInvoice(s.GetContext(), "inv_missing")
	s.Require().Error(err)
	s.True(ierr.Is(err, invoice.ErrInvoiceNotFound))
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestCancelInvoice() {
	ctx := s.GetContext()
	created, err := s.service.CreateInvoice(ctx, dto.CreateInvoiceRequest{
		CustomerID: s.testData.customer.ID,
		LineItems:  []dto.CreateInvoiceLineItemRequest{s.line(s.testData.products.widget.ID, "2")},
	})
	s.Require().NoError(err)

	cancelled, err := s.service.CancelInvoice(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusCancelled, cancelled.InvoiceStatus)
	s.NotNil(cancelled.CancelledAt)
	s.True(created.TotalAmount.Equal(cancelled.TotalAmount))

	// Stock is not restored on cancellation
	s.Equal(int64(8), *s.stock(s.testData.products.widget.ID))

	events := s.GetPublishedEvents()
	s.Require().Len(events, 2)
	s.Equal(types.WebhookEventInvoiceCancelled, events[1].EventName)

	_, err = s.service.CancelInvoice(ctx, created.ID)
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.True(ierr.Is(err, invoice.ErrInvoiceCancelled))
}

func (s *InvoiceServiceSuite) TestCancelInvoiceWithPayments() {
	ctx := s.GetContext()
	created, err := s.service.CreateInvoice(ctx, dto.CreateInvoiceRequest{
		CustomerID: s.testData.customer.ID,
		LineItems:  []dto.CreateInvoiceLineItemRequest{s.line(s.testData.products.service.ID, "1")},
	})
	s.Require().NoError(err)

	payments := NewPaymentService(newTestServiceParams(&s.BaseServiceTestSuite))
	_, err = payments.RecordPayment(ctx, dto.RecordPaymentRequest{
		InvoiceID:     created.ID,
		Amount:        decimal.NewFromInt(10),
		PaymentMethod: types.PaymentMethodCash,
	})
	s.Require().NoError(err)

	_, err = s.service.CancelInvoice(ctx, created.ID)
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))

	stored, err := s.service.GetInvoice(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPartial, stored.InvoiceStatus)
	s.Equal("10", stored.AmountPaid.String())
	s.Equal("90", stored.AmountRemaining.String())
}
