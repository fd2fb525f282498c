package types

// CustomerFilter represents the filter for listing customers
type CustomerFilter struct {
	*QueryFilter

	// NameQuery matches a substring of the customer name, case-insensitively
	NameQuery string  `json:"q,omitempty" form:"q"`
	Email     *string `json:"email,omitempty" form:"email"`
}

func NewCustomerFilter() *CustomerFilter {
	return &CustomerFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func NewNoLimitCustomerFilter() *CustomerFilter {
	return &CustomerFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f *CustomerFilter) Validate() error {
	if f == nil || f.QueryFilter == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}

func (f *CustomerFilter) GetLimit() int      { return f.query().GetLimit() }
func (f *CustomerFilter) GetOffset() int     { return f.query().GetOffset() }
func (f *CustomerFilter) GetOrder() string   { return f.query().GetOrder() }
func (f *CustomerFilter) IsUnlimited() bool  { return f.query().IsUnlimited() }
func (f *CustomerFilter) query() QueryFilter { return queryOrDefault(f.QueryFilter) }

// ProductFilter represents the filter for listing products
type ProductFilter struct {
	*QueryFilter

	// NameQuery matches a substring of the product name, case-insensitively
	NameQuery string `json:"q,omitempty" form:"q"`

	// TracksStock keeps only products with (true) or without (false) a stock counter
	TracksStock *bool `json:"tracks_stock,omitempty" form:"tracks_stock"`
}

func NewProductFilter() *ProductFilter {
	return &ProductFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func NewNoLimitProductFilter() *ProductFilter {
	return &ProductFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f *ProductFilter) Validate() error {
	if f == nil || f.QueryFilter == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}

func (f *ProductFilter) GetLimit() int      { return f.query().GetLimit() }
func (f *ProductFilter) GetOffset() int     { return f.query().GetOffset() }
func (f *ProductFilter) GetOrder() string   { return f.query().GetOrder() }
func (f *ProductFilter) IsUnlimited() bool  { return f.query().IsUnlimited() }
func (f *ProductFilter) query() QueryFilter { return queryOrDefault(f.QueryFilter) }

func queryOrDefault(q *QueryFilter) QueryFilter {
	if q == nil {
		return *NewDefaultQueryFilter()
	}
	return *q
}
