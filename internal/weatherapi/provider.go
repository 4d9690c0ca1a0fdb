package weatherapi

import (
	"context"

	"wapi/internal/weather"
)

// Provider exposes a Client as a weather.Provider. Every call goes out with
// the client's configured defaults.
type Provider struct {
	client *Client
}

var _ weather.Provider = (*Provider)(nil)

func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Current(ctx context.Context, query string) (*weather.Current, error) {
	return p.client.Current(ctx, query)
}

func (p *Provider) Forecast(ctx context.Context, query string, days int) (*weather.Forecast, error) {
	return p.client.Forecast(ctx, query, days)
}

func (p *Provider) History(ctx context.Context, query, date string) (*weather.Forecast, error) {
	return p.client.History(ctx, query, date)
}

func (p *Provider) Future(ctx context.Context, query, date string) (*weather.Forecast, error) {
	return p.client.Future(ctx, query, date)
}

func (p *Provider) Astronomy(ctx context.Context, query, date string) (*weather.Astronomy, error) {
	return p.client.Astronomy(ctx, query, date)
}

func (p *Provider) Marine(ctx context.Context, query string, days int) (*weather.Marine, error) {
	return p.client.Marine(ctx, query, days)
}

func (p *Provider) IPLookup(ctx context.Context, ip string) (*weather.IPInfo, error) {
	return p.client.IPLookup(ctx, ip)
}

func (p *Provider) Sports(ctx context.Context, query string) (*weather.Sports, error) {
	return p.client.Sports(ctx, query)
}

func (p *Provider) Search(ctx context.Context, query string) ([]weather.Location, error) {
	return p.client.Search(ctx, query)
}
