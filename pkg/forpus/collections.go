package forpus

import "context"

// securities

func (c *Client) ListSecurities(ctx context.Context) (*Response, error) {
	return c.List(ctx, Securities)
}

func (c *Client) CreateSecurity(ctx context.Context, security any) (*Response, error) {
	return c.Create(ctx, Securities, security)
}

func (c *Client) UpdateSecurity(ctx context.Context, security any) (*Response, error) {
	return c.Update(ctx, Securities, security)
}

func (c *Client) DeleteSecurity(ctx context.Context, id int64) (*Response, error) {
	return c.Remove(ctx, Securities, id)
}

// security types

func (c *Client) ListSecurityTypes(ctx context.Context) (*Response, error) {
	return c.List(ctx, SecurityTypes)
}

func (c *Client) CreateSecurityType(ctx context.Context, securityType any) (*Response, error) {
	return c.Create(ctx, SecurityTypes, securityType)
}

func (c *Client) UpdateSecurityType(ctx context.Context, securityType any) (*Response, error) {
	return c.Update(ctx, SecurityTypes, securityType)
}

func (c *Client) DeleteSecurityType(ctx context.Context, id int64) (*Response, error) {
	return c.Remove(ctx, SecurityTypes, id)
}

// frequencies

func (c *Client) ListFrequencies(ctx context.Context) (*Response, error) {
	return c.List(ctx, Frequencies)
}

func (c *Client) CreateFrequency(ctx context.Context, frequency any) (*Response, error) {
	return c.Create(ctx, Frequencies, frequency)
}

func (c *Client) UpdateFrequency(ctx context.Context, frequency any) (*Response, error) {
	return c.Update(ctx, Frequencies, frequency)
}

func (c *Client) DeleteFrequency(ctx context.Context, id int64) (*Response, error) {
	return c.Remove(ctx, Frequencies, id)
}

// price types

func (c *Client) ListPriceTypes(ctx context.Context) (*Response, error) {
	return c.List(ctx, PriceTypes)
}

func (c *Client) CreatePriceType(ctx context.Context, priceType any) (*Response, error) {
	return c.Create(ctx, PriceTypes, priceType)
}

func (c *Client) UpdatePriceType(ctx context.Context, priceType any) (*Response, error) {
	return c.Update(ctx, PriceTypes, priceType)
}

func (c *Client) DeletePriceType(ctx context.Context, id int64) (*Response, error) {
	return c.Remove(ctx, PriceTypes, id)
}

// prices

func (c *Client) ListPrices(ctx context.Context) (*Response, error) {
	return c.List(ctx, Prices)
}

func (c *Client) CreatePrice(ctx context.Context, price any) (*Response, error) {
	return c.Create(ctx, Prices, price)
}

func (c *Client) UpdatePrice(ctx context.Context, price any) (*Response, error) {
	return c.Update(ctx, Prices, price)
}

func (c *Client) DeletePrice(ctx context.Context, id int64) (*Response, error) {
	return c.Remove(ctx, Prices, id)
}

// time weights

func (c *Client) ListTimeWeights(ctx context.Context) (*Response, error) {
	return c.List(ctx, TimeWeights)
}

func (c *Client) CreateTimeWeight(ctx context.Context, timeWeight any) (*Response, error) {
	return c.Create(ctx, TimeWeights, timeWeight)
}

func (c *Client) UpdateTimeWeight(ctx context.Context, timeWeight any) (*Response, error) {
	return c.Update(ctx, TimeWeights, timeWeight)
}

func (c *Client) DeleteTimeWeight(ctx context.Context, id int64) (*Response, error) {
	return c.Remove(ctx, TimeWeights, id)
}

// time volumes

func (c *Client) ListTimeVolumes(ctx context.Context) (*Response, error) {
	return c.List(ctx, TimeVolumes)
}

func (c *Client) CreateTimeVolume(ctx context.Context, timeVolume any) (*Response, error) {
	return c.Create(ctx, TimeVolumes, timeVolume)
}

func (c *Client) UpdateTimeVolume(ctx context.Context, timeVolume any) (*Response, error) {
	return c.Update(ctx, TimeVolumes, timeVolume)
}

func (c *Client) DeleteTimeVolume(ctx context.Context, id int64) (*Response, error) {
	return c.Remove(ctx, TimeVolumes, id)
}
