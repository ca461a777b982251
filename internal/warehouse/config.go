// Package warehouse is a client for the Databricks SQL Statement Execution API.
// It submits a statement, polls it until it reaches a terminal state and
// normalizes the columnar result into row maps.
package warehouse

import (
	"strings"
	"time"
)

// Environment variable names for the warehouse connection.
const (
	EnvHost     = "DATABRICKS_HOST"
	EnvToken    = "DATABRICKS_TOKEN"
	EnvHTTPPath = "DATABRICKS_SQL_HTTP_PATH"
)

// Defaults applied by ConfigFromEnv and NewClient.
const (
	DefaultWaitTimeout  = 30 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
	DefaultPollTimeout  = 5 * time.Minute
	DefaultHTTPTimeout  = 60 * time.Second
)

// Config holds the connection parameters for one SQL warehouse.
type Config struct {
	Host     string // workspace base URL, no trailing slash
	Token    string // bearer credential
	HTTPPath string // warehouse id or an http path containing /warehouses/{id}

	// WaitTimeout is the synchronous wait hint sent with the submit request.
	// Zero sends "0s", which makes the submit return at once. Other values
	// are clamped to the service's 5s to 50s range.
	WaitTimeout time.Duration
	// PollInterval is the fixed delay between status polls.
	PollInterval time.Duration
	// PollTimeout bounds the whole poll loop. Zero disables the bound.
	PollTimeout time.Duration
	// HTTPTimeout bounds each individual HTTP request.
	HTTPTimeout time.Duration
}

// ConfigFromEnv builds a Config from the three connection variables.
// lookup is usually os.Getenv. Tuning fields are left at their defaults.
func ConfigFromEnv(lookup func(string) string) Config {
	return Config{
		Host:         NormalizeHost(lookup(EnvHost)),
		Token:        strings.TrimSpace(lookup(EnvToken)),
		HTTPPath:     strings.TrimSpace(lookup(EnvHTTPPath)),
		WaitTimeout:  DefaultWaitTimeout,
		PollInterval: DefaultPollInterval,
		PollTimeout:  DefaultPollTimeout,
		HTTPTimeout:  DefaultHTTPTimeout,
	}
}

// NormalizeHost trims surrounding whitespace and exactly one trailing slash.
func NormalizeHost(host string) string {
	return strings.TrimSuffix(strings.TrimSpace(host), "/")
}

// Validate reports a ConfigurationError naming every missing parameter.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Host) == "" {
		missing = append(missing, EnvHost)
	}
	if strings.TrimSpace(c.Token) == "" {
		missing = append(missing, EnvToken)
	}
	if strings.TrimSpace(c.HTTPPath) == "" {
		missing = append(missing, EnvHTTPPath)
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// Configured returns true when all connection parameters are present.
func (c *Config) Configured() bool {
	return c.Validate() == nil
}

// WarehouseID extracts the warehouse id from HTTPPath. A path such as
// /sql/1.0/warehouses/abc123 yields "abc123"; any other value is used verbatim.
func (c Config) WarehouseID() string {
	const marker = "/warehouses/"
	idx := strings.LastIndex(c.HTTPPath, marker)
	if idx < 0 {
		return c.HTTPPath
	}
	rest := c.HTTPPath[idx+len(marker):]
	if slash := strings.Index(rest, "/"); slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}

func (c Config) withDefaults() Config {
	c.Host = NormalizeHost(c.Host)
	if c.WaitTimeout < 0 {
		c.WaitTimeout = DefaultWaitTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.PollTimeout < 0 {
		c.PollTimeout = DefaultPollTimeout
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	return c
}
