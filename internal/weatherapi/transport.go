package weatherapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const DefaultBaseURL = "https://api.weatherapi.com/v1/"

// Transport performs a GET against an endpoint path and returns the decoded
// JSON body with the HTTP status. Bodies that are not JSON decode to nil.
type Transport interface {
	Get(ctx context.Context, path string, params url.Values) (body any, status int, err error)
}

type HTTPTransport struct {
	baseURL    string
	httpClient *http.Client
}

type TransportConfig struct {
	BaseURL  string
	Timeout  time.Duration
	RetryMax int
	Logger   *slog.Logger
}

// NewHTTPTransport builds a transport on a retryablehttp client. RetryMax
// defaults to zero: a failed request surfaces on the first attempt unless the
// caller opts in to retries. Error responses are passed through untouched so
// the client can read the service's error envelope.
func NewHTTPTransport(cfg TransportConfig) *HTTPTransport {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = max(cfg.RetryMax, 0)
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	if cfg.Logger != nil {
		rc.Logger = cfg.Logger
	}

	httpClient := rc.StandardClient()
	httpClient.Timeout = timeout
	return &HTTPTransport{baseURL: baseURL, httpClient: httpClient}
}

func (t *HTTPTransport) Get(ctx context.Context, path string, params url.Values) (any, int, error) {
	reqURL := t.baseURL + strings.TrimPrefix(path, "/")
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return decodeBody(data), resp.StatusCode, nil
}

// decodeBody keeps numbers as json.Number so integer fields are not routed
// through float64.
func decodeBody(data []byte) any {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil
	}
	return body
}
