package forpus

import (
	"context"
	"time"
)

// FilterPricePath is the price query endpoint.
const FilterPricePath = "filter_price"

// DateLayout is the date format the price filter expects.
const DateLayout = "2006-01-02"

// Sort orders accepted by the price filter.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// PriceFilter selects prices of one security and price type. Zero fields are
// left out of the query; the server applies its defaults (limit 1000, order
// desc). Nothing is validated locally.
type PriceFilter struct {
	SecurityID  int64
	PriceTypeID int64
	StartDate   time.Time
	EndDate     time.Time
	Limit       int
	Order       string
}

// Params renders the filter as query parameters.
func (f PriceFilter) Params() Params {
	p := Params{}
	if f.SecurityID != 0 {
		p["security_id"] = f.SecurityID
	}
	if f.PriceTypeID != 0 {
		p["price_type_id"] = f.PriceTypeID
	}
	if !f.StartDate.IsZero() {
		p["start_date"] = f.StartDate.Format(DateLayout)
	}
	if !f.EndDate.IsZero() {
		p["end_date"] = f.EndDate.Format(DateLayout)
	}
	if f.Limit != 0 {
		p["limit"] = f.Limit
	}
	if f.Order != "" {
		p["order"] = f.Order
	}
	return p
}

// FilterPrices queries prices matching f.
func (c *Client) FilterPrices(ctx context.Context, f PriceFilter) (*Response, error) {
	return c.FilterPricesParams(ctx, f.Params())
}

// FilterPricesParams queries prices with caller supplied criteria, forwarded
// unchanged: security_id, price_type_id, start_date, end_date, limit, order.
func (c *Client) FilterPricesParams(ctx context.Context, criteria Params) (*Response, error) {
	return c.Get(ctx, FilterPricePath, criteria)
}
