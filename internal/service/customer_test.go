package service

import (
	"testing"

	"github.com/ledgerline/ledgerline/internal/api/dto"
	"github.com/ledgerline/ledgerline/internal/domain/customer"
	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/testutil"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type CustomerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CustomerService
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCustomerService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *CustomerServiceSuite) TestCreateCustomer() {
	ctx := s.GetContext()
	resp, err := s.service.CreateCustomer(ctx, dto.CreateCustomerRequest{
		Name:      "  Acme Stores ",
		Email:     "billing@acme.test",
		TaxNumber: "GB123456789",
	})
	s.Require().NoError(err)
	s.NotEmpty(resp.ID)
	s.Equal("Acme Stores", resp.Name)
	s.Equal(types.DefaultTenantID, resp.TenantID)
	s.Equal(types.StatusPublished, resp.Status)

	got, err := s.service.GetCustomer(ctx, resp.ID)
	s.Require().NoError(err)
	s.Equal("GB123456789", got.TaxNumber)
}

func (s *CustomerServiceSuite) TestCreateCustomerValidation() {
	tests := []struct {
		name string
		req  dto.CreateCustomerRequest
	}{
		{name: "missing name", req: dto.CreateCustomerRequest{Email: "a@b.test"}},
		{name: "blank name", req: dto.CreateCustomerRequest{Name: "   "}},
		{name: "malformed email", req: dto.CreateCustomerRequest{Name: "Acme", Email: "not-an-email"}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, err := s.service.CreateCustomer(s.GetContext(), tt.req)
			s.Nil(resp)
			s.Require().Error(err)
			s.True(ierr.IsValidation(err), "got %v", err)
		})
	}
}

func (s *CustomerServiceSuite) TestGetCustomerNotFound() {
	_, err := s.service.GetCustomer(s.GetContext(), "cust_missing")
	s.Require().Error(err)
	s.True(ierr.Is(err, customer.ErrCustomerNotFound))
	s.True(ierr.IsNotFound(err))
}

func (s *CustomerServiceSuite) TestListCustomers() {
	ctx := s.GetContext()
	for _, name := range []string{"Acme Stores", "Globex", "Acme Wholesale"} {
		_, err := s.service.CreateCustomer(ctx, dto.CreateCustomerRequest{
			Name:  name,
			Email: lo.SnakeCase(name) + "@example.test",
		})
		s.Require().NoError(err)
	}

	all, err := s.service.ListCustomers(ctx, types.NewCustomerFilter())
	s.Require().NoError(err)
	s.Len(all.Items, 3)
	s.Equal(3, all.Pagination.Total)

	filter := types.NewCustomerFilter()
	filter.NameQuery = "acme"
	acme, err := s.service.ListCustomers(ctx, filter)
	s.Require().NoError(err)
	s.Len(acme.Items, 2)
	s.Equal(2, acme.Pagination.Total)

	filter = types.NewCustomerFilter()
	filter.Email = lo.ToPtr("GLOBEX@example.test")
	globex, err := s.service.ListCustomers(ctx, filter)
	s.Require().NoError(err)
	s.Require().Len(globex.Items, 1)
	s.Equal("Globex", globex.Items[0].Name)

	filter = types.NewCustomerFilter()
	filter.Limit = lo.ToPtr(2)
	page, err := s.service.ListCustomers(ctx, filter)
	s.Require().NoError(err)
	s.Len(page.Items, 2)
	s.Equal(3, page.Pagination.Total)

	filter = types.NewCustomerFilter()
	filter.Limit = lo.ToPtr(0)
	_, err = s.service.ListCustomers(ctx, filter)
	s.True(ierr.IsValidation(err))
}

func (s *CustomerServiceSuite) TestCustomersAreTenantScoped() {
	created, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{Name: "Acme"})
	s.Require().NoError(err)

	other := testutil.SetupContextWithTenant("tenant_other")
	_, err = s.service.GetCustomer(other, created.ID)
	s.True(ierr.IsNotFound(err))

	list, err := s.service.ListCustomers(other, nil)
	s.Require().NoError(err)
	s.Empty(list.Items)
}
