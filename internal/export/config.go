package export

import "time"

// Default configuration values.
const (
	// DefaultEndpoint is the wiki export endpoint.
	DefaultEndpoint = "https://en.wikipedia.org/w/index.php"

	// MaxRevisionLimit is the source-imposed ceiling on revisions per request.
	MaxRevisionLimit = 1000

	defaultUserAgent      = "wikirev/1.0"
	defaultRequestTimeout = 30 * time.Second
	defaultMaxRetries     = 3
)

// Config holds export client configuration.
type Config struct {
	Endpoint       string        `yaml:"endpoint"`
	UserAgent      string        `yaml:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxRetries     uint64        `yaml:"max_retries"`
}

// WithDefaults returns a copy of the config with default values applied for
// zero-value fields.
func (c Config) WithDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	return c
}
