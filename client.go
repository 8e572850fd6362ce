// Package duck is a client for the random-d.uk API.
//
// Every fetch is a single HTTP exchange. What comes back is also recorded in
// an in-memory cache partitioned by category, which lives as long as the
// Client does.
package duck

import (
	"fmt"
	"net/http"

	"github.com/iTrooz/duckduck/api"
	"github.com/iTrooz/duckduck/cache"
	"github.com/iTrooz/duckduck/config"

	"github.com/sirupsen/logrus"
)

// Client composes the request layer and the result cache
type Client struct {
	requester *api.Requester
	cache     cache.Store
	log       *logrus.Entry
}

// Option customizes a Client
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *logrus.Logger
	store      cache.Store
}

// WithHTTPClient replaces the HTTP client built from the configuration
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger makes the client log through l. Its level is left untouched.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStore records results in s instead of a fresh in-memory cache
func WithStore(s cache.Store) Option {
	return func(o *options) { o.store = s }
}

// New creates a client. A nil cfg uses config.Default().
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		level, err := cfg.GetLogLevel()
		if err != nil {
			return nil, err
		}
		o.logger = logrus.New()
		o.logger.SetLevel(level)
	}
	log := o.logger.WithField("component", "duck")

	if o.httpClient == nil {
		httpClient, err := newHTTPClient(cfg)
		if err != nil {
			return nil, err
		}
		o.httpClient = httpClient
	}

	if o.store == nil {
		o.store = cache.NewMemory()
	}

	log.Debugf("API base URL: %s", cfg.API.BaseURL)
	log.Debugf("API upload URL: %s", cfg.API.UploadURL)

	return &Client{
		requester: api.NewRequester(cfg.API.BaseURL, cfg.API.UploadURL, o.httpClient, log),
		cache:     o.store,
		log:       log,
	}, nil
}

// NewFromFile loads the YAML configuration at path and creates a client
func NewFromFile(path string, opts ...Option) (*Client, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return New(cfg, opts...)
}

func newHTTPClient(cfg *config.Config) (*http.Client, error) {
	timeout, err := cfg.GetTimeout()
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP timeout: %w", err)
	}

	proxyURL, err := cfg.GetProxyURL()
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}

	client := &http.Client{Timeout: timeout}
	if proxyURL != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = http.ProxyURL(proxyURL)
		client.Transport = transport
	}
	return client, nil
}

func (c *Client) String() string {
	return "Quack"
}
