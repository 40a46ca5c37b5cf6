package httpclient

import (
	"net/http"
	"time"

	"github.com/aashari/go-worklist-extractor/internal/utils"
)

// Options holds HTTP client configuration options
type Options struct {
	// Timeout of zero leaves the client without a deadline; the caller's
	// context is the only bound.
	Timeout   time.Duration
	UserAgent string
	Transport http.RoundTripper
}

// Factory creates configured HTTP clients
type Factory struct {
	defaultOptions Options
}

// NewFactory creates a new HTTP client factory with default options
func NewFactory(defaultOptions Options) *Factory {
	if defaultOptions.UserAgent == "" {
		defaultOptions.UserAgent = utils.DefaultUserAgent
	}

	return &Factory{
		defaultOptions: defaultOptions,
	}
}

// CreateClient creates a new HTTP client with the specified options
func (f *Factory) CreateClient(options Options) *http.Client {
	if options.Timeout == 0 {
		options.Timeout = f.defaultOptions.Timeout
	}
	if options.UserAgent == "" {
		options.UserAgent = f.defaultOptions.UserAgent
	}
	if options.Transport == nil {
		options.Transport = f.defaultOptions.Transport
	}

	base := options.Transport
	if base == nil {
		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}
	}

	return &http.Client{
		Timeout: options.Timeout,
		Transport: &userAgentTransport{
			base:      base,
			userAgent: options.UserAgent,
		},
	}
}

// CreateDefaultClient creates a client with default options
func (f *Factory) CreateDefaultClient() *http.Client {
	return f.CreateClient(Options{})
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(utils.HeaderUserAgent) != "" {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set(utils.HeaderUserAgent, t.userAgent)
	return t.base.RoundTrip(clone)
}
