package weatherapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"wapi/internal/weather"
)

const (
	endpointCurrent   = "current.json"
	endpointForecast  = "forecast.json"
	endpointHistory   = "history.json"
	endpointFuture    = "future.json"
	endpointAstronomy = "astronomy.json"
	endpointMarine    = "marine.json"
	endpointIP        = "ip.json"
	endpointSports    = "sports.json"
	endpointSearch    = "search.json"
)

const (
	minForecastDays = 1
	maxForecastDays = 10
)

// ClientConfig holds defaults applied to every request. Language accepts a
// name or code in any case; unknown values leave the service default in place.
type ClientConfig struct {
	APIKey   string
	Language string
	AQI      bool
	Alerts   bool
	Tides    bool

	// OnError is called with the operation name whenever a call fails.
	OnError func(op string, err error)
	// OnSuccess is called after a response has been mapped.
	OnSuccess func(op string, status int)
	// Now defaults to time.Now; date validation uses it.
	Now func() time.Time
}

// Client calls the weather API endpoints and maps their responses. It keeps
// no state between calls beyond its configuration.
type Client struct {
	transport Transport
	cfg       ClientConfig
	lang      Language
}

func NewClient(transport Transport, cfg ClientConfig) *Client {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	lang, _ := FindLanguage(cfg.Language)
	return &Client{transport: transport, cfg: cfg, lang: lang}
}

type callOptions struct {
	lang    *string
	aqi     *bool
	alerts  *bool
	tides   *bool
	hour    *int
	endDate string
	extra   url.Values
}

// CallOption overrides a client default for a single call.
type CallOption func(*callOptions)

func WithLanguage(lang string) CallOption {
	return func(o *callOptions) { o.lang = &lang }
}

func WithAQI(enabled bool) CallOption {
	return func(o *callOptions) { o.aqi = &enabled }
}

func WithAlerts(enabled bool) CallOption {
	return func(o *callOptions) { o.alerts = &enabled }
}

func WithTides(enabled bool) CallOption {
	return func(o *callOptions) { o.tides = &enabled }
}

// WithHour restricts forecast and history output to one hour (0-23).
func WithHour(hour int) CallOption {
	return func(o *callOptions) { o.hour = &hour }
}

// WithEndDate sets end_dt on history calls.
func WithEndDate(date string) CallOption {
	return func(o *callOptions) { o.endDate = date }
}

// WithParam passes an extra query parameter through unchanged.
func WithParam(key, value string) CallOption {
	return func(o *callOptions) {
		if o.extra == nil {
			o.extra = url.Values{}
		}
		o.extra.Set(key, value)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (c *Client) params(query string, opts []CallOption) (url.Values, *callOptions) {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}

	params := url.Values{}
	for k, vs := range o.extra {
		params[k] = vs
	}
	params.Set("key", c.cfg.APIKey)
	if query != "" {
		params.Set("q", query)
	}

	lang := c.lang
	if o.lang != nil {
		lang, _ = FindLanguage(*o.lang)
	}
	if lang != "" {
		params.Set("lang", string(lang))
	}
	if o.hour != nil {
		params.Set("hour", strconv.Itoa(*o.hour))
	}
	return params, &o
}

func pick(override *bool, fallback bool) bool {
	if override != nil {
		return *override
	}
	return fallback
}

// get runs one request and returns the body of a successful response.
// Transport errors are returned as they are.
func (c *Client) get(ctx context.Context, path string, params url.Values) (any, int, error) {
	body, status, err := c.transport.Get(ctx, path, params)
	if err != nil {
		return nil, status, err
	}
	if status >= 400 {
		return nil, status, classifyError(status, body)
	}
	return body, status, nil
}

func (c *Client) getObject(ctx context.Context, op, path string, params url.Values) (map[string]any, int, error) {
	body, status, err := c.get(ctx, path, params)
	if err != nil {
		return nil, status, err
	}
	raw, ok := body.(map[string]any)
	if !ok {
		return nil, status, &MalformedResponseError{Entity: op, Key: "", Reason: fmt.Sprintf("body is %T, want object", body)}
	}
	return raw, status, nil
}

func (c *Client) done(op string, status int, err error) {
	if err != nil {
		if c.cfg.OnError != nil {
			c.cfg.OnError(op, err)
		}
		return
	}
	if c.cfg.OnSuccess != nil {
		c.cfg.OnSuccess(op, status)
	}
}

// call is the shared path of the object-returning endpoints.
func call[T any](ctx context.Context, c *Client, op, path string, params url.Values, parse func(map[string]any, int, *int) (*T, error)) (*T, error) {
	raw, status, err := c.getObject(ctx, op, path, params)
	if err != nil {
		c.done(op, status, err)
		return nil, err
	}
	v, err := parse(raw, status, nil)
	c.done(op, status, err)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Client) fail(op string, err error) error {
	c.done(op, 0, err)
	return err
}

// Current returns current conditions for query (city, lat/lon, postcode, IP...).
func (c *Client) Current(ctx context.Context, query string, opts ...CallOption) (*weather.Current, error) {
	params, o := c.params(query, opts)
	params.Set("aqi", yesNo(pick(o.aqi, c.cfg.AQI)))
	return call(ctx, c, "current", endpointCurrent, params, ParseCurrent)
}

// Forecast returns days (1-10) of forecast, with alerts when enabled.
func (c *Client) Forecast(ctx context.Context, query string, days int, opts ...CallOption) (*weather.Forecast, error) {
	if days < minForecastDays || days > maxForecastDays {
		return nil, c.fail("forecast", fmt.Errorf("forecast days %d out of range %d-%d", days, minForecastDays, maxForecastDays))
	}
	params, o := c.params(query, opts)
	params.Set("days", strconv.Itoa(days))
	params.Set("aqi", yesNo(pick(o.aqi, c.cfg.AQI)))
	params.Set("alerts", yesNo(pick(o.alerts, c.cfg.Alerts)))
	return call(ctx, c, "forecast", endpointForecast, params, ParseForecast)
}

// History returns observed weather for date (YYYY-MM-DD, not after today UTC).
// The date is validated before any request is made.
func (c *Client) History(ctx context.Context, query, date string, opts ...CallOption) (*weather.Forecast, error) {
	if err := ValidateHistoryDate(date, c.cfg.Now()); err != nil {
		return nil, c.fail("history", err)
	}
	params, o := c.params(query, opts)
	if o.endDate != "" {
		if err := ValidateHistoryDate(o.endDate, c.cfg.Now()); err != nil {
			return nil, c.fail("history", err)
		}
		params.Set("end_dt", o.endDate)
	}
	params.Set("dt", date)
	params.Set("aqi", yesNo(pick(o.aqi, c.cfg.AQI)))
	return call(ctx, c, "history", endpointHistory, params, ParseForecast)
}

// Future returns the predicted day for date (YYYY-MM-DD, not before today UTC).
func (c *Client) Future(ctx context.Context, query, date string, opts ...CallOption) (*weather.Forecast, error) {
	if err := ValidateFutureDate(date, c.cfg.Now()); err != nil {
		return nil, c.fail("future", err)
	}
	params, _ := c.params(query, opts)
	params.Set("dt", date)
	return call(ctx, c, "future", endpointFuture, params, ParseForecast)
}

// Astronomy returns sun and moon data for date; an empty date means today (UTC).
func (c *Client) Astronomy(ctx context.Context, query, date string, opts ...CallOption) (*weather.Astronomy, error) {
	if date == "" {
		date = c.cfg.Now().UTC().Format(dateLayout)
	} else if _, err := parseDate(date); err != nil {
		return nil, c.fail("astronomy", err)
	}
	params, _ := c.params(query, opts)
	params.Set("dt", date)
	return call(ctx, c, "astronomy", endpointAstronomy, params, ParseAstronomy)
}

// Marine returns days of marine forecast, with tides when enabled.
func (c *Client) Marine(ctx context.Context, query string, days int, opts ...CallOption) (*weather.Marine, error) {
	if days < minForecastDays || days > maxForecastDays {
		return nil, c.fail("marine", fmt.Errorf("marine days %d out of range %d-%d", days, minForecastDays, maxForecastDays))
	}
	params, o := c.params(query, opts)
	params.Set("days", strconv.Itoa(days))
	params.Set("tides", yesNo(pick(o.tides, c.cfg.Tides)))
	return call(ctx, c, "marine", endpointMarine, params, ParseMarine)
}

// IPLookup resolves an IP address; "auto:ip" looks up the caller.
func (c *Client) IPLookup(ctx context.Context, ip string) (*weather.IPInfo, error) {
	params, _ := c.params(ip, nil)
	return call(ctx, c, "ip", endpointIP, params, ParseIP)
}

func (c *Client) Sports(ctx context.Context, query string) (*weather.Sports, error) {
	params, _ := c.params(query, nil)
	return call(ctx, c, "sports", endpointSports, params, ParseSports)
}

// Search returns the locations matching query. An empty result is not an error.
func (c *Client) Search(ctx context.Context, query string) ([]weather.Location, error) {
	params, _ := c.params(query, nil)
	body, status, err := c.get(ctx, endpointSearch, params)
	if err != nil {
		c.done("search", status, err)
		return nil, err
	}
	locations, err := ParseSearch(body, status, nil)
	c.done("search", status, err)
	if err != nil {
		return nil, err
	}
	return locations, nil
}
