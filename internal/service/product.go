package service

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/api/dto"
	"github.com/ledgerline/ledgerline/internal/domain/product"
	"github.com/ledgerline/ledgerline/internal/types"
	"github.com/samber/lo"
)

// ProductService manages the catalog invoice lines are priced from
type ProductService interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter *types.ProductFilter) (*dto.ListProductsResponse, error)
	UpdateProduct(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	UpdateProductStock(ctx context.Context, id string, req dto.UpdateProductStockRequest) (*dto.ProductResponse, error)
}

type productService struct {
	ServiceParams
}

func NewProductService(params ServiceParams) ProductService {
	return &productService{
		ServiceParams: params,
	}
}

func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToProduct(ctx)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.ProductRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("created product",
		"product_id", p.ID,
		"unit_price", p.UnitPrice.String(),
		"tracks_stock", p.TracksStock(),
	)
	return &dto.ProductResponse{Product: p}, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := s.ProductRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ProductResponse{Product: p}, nil
}

func (s *productService) ListProducts(ctx context.Context, filter *types.ProductFilter) (*dto.ListProductsResponse, error) {
	if filter == nil {
		filter = types.NewProductFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	products, err := s.ProductRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.ProductRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(products, func(p *product.Product, _ int) *dto.ProductResponse {
		return &dto.ProductResponse{Product: p}
	})
	resp := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

// UpdateProduct changes the name, price or tax rate. Lines already invoiced
// keep their snapshot.
func (s *productService) UpdateProduct(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.update(ctx, id, func(p *product.Product) {
		req.Apply(p)
	})
}

// UpdateProductStock overwrites the stock counter, turning tracking on or off
func (s *productService) UpdateProductStock(ctx context.Context, id string, req dto.UpdateProductStockRequest) (*dto.ProductResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.update(ctx, id, func(p *product.Product) {
		p.StockQuantity = req.StockQuantity
	})
}

func (s *productService) update(ctx context.Context, id string, mutate func(p *product.Product)) (*dto.ProductResponse, error) {
	var p *product.Product
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.ProductRepo.Get(ctx, id)
		if err != nil {
			return err
		}

		mutate(p)
		if err := p.Validate(); err != nil {
			return err
		}
		return s.ProductRepo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("updated product",
		"product_id", p.ID,
		"unit_price", p.UnitPrice.String(),
		"tax_rate_percent", p.TaxRatePercent.String(),
		"stock_quantity", p.StockQuantity,
	)
	return &dto.ProductResponse{Product: p}, nil
}
