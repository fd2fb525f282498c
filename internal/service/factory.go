package service

import (
	"github.com/ledgerline/ledgerline/internal/config"
	"github.com/ledgerline/ledgerline/internal/domain/customer"
	"github.com/ledgerline/ledgerline/internal/domain/invoice"
	"github.com/ledgerline/ledgerline/internal/domain/payment"
	"github.com/ledgerline/ledgerline/internal/domain/product"
	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/ledgerline/ledgerline/internal/postgres"
	webhookPublisher "github.com/ledgerline/ledgerline/internal/webhook/publisher"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	CustomerRepo customer.Repository
	ProductRepo  product.Repository
	InvoiceRepo  invoice.Repository
	PaymentRepo  payment.Repository

	// Publishers
	WebhookPublisher webhookPublisher.WebhookPublisher
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	customerRepo customer.Repository,
	productRepo product.Repository,
	invoiceRepo invoice.Repository,
	paymentRepo payment.Repository,
	webhookPublisher webhookPublisher.WebhookPublisher,
) ServiceParams {
	return ServiceParams{
		Logger:           logger,
		Config:           config,
		DB:               db,
		CustomerRepo:     customerRepo,
		ProductRepo:      productRepo,
		InvoiceRepo:      invoiceRepo,
		PaymentRepo:      paymentRepo,
		WebhookPublisher: webhookPublisher,
	}
}
