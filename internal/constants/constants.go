package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0o700

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0o600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 5

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// ExtendedRetryWaitMax is used when the server asks for long back-offs.
	ExtendedRetryWaitMax = 30 * time.Second
)

// Concurrency and rate limits.
const (
	// DefaultConcurrencyLimit limits concurrent queries in a batch.
	DefaultConcurrencyLimit = 3

	// DefaultRateBurst is the burst size of the client-side rate limiter.
	DefaultRateBurst = 10

	// LowRemainingReads is the remaining subscription read quota below which
	// throttling warnings are logged.
	LowRemainingReads = 100
)

// Cache defaults.
const (
	// DefaultCacheSize is the default number of entries of the memory cache.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is how long cached responses are served.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCleanupInterval is how often expired memory entries are purged.
	DefaultCleanupInterval = time.Minute

	// DefaultNATSBucket is the JetStream key-value bucket used for caching.
	DefaultNATSBucket = "azrm-cache"
)

// Azure Resource Manager headers.
const (
	// HeaderClientRequestID carries the caller generated correlation id.
	HeaderClientRequestID = "x-ms-client-request-id"

	// HeaderRequestID is the service generated request id.
	HeaderRequestID = "x-ms-request-id"

	// HeaderCorrelationRequestID is the service generated correlation id.
	HeaderCorrelationRequestID = "x-ms-correlation-request-id"

	// HeaderRemainingReads reports the remaining subscription read quota.
	HeaderRemainingReads = "x-ms-ratelimit-remaining-subscription-reads"
)

// Environment and configuration.
const (
	// EnvPrefix is the prefix of environment variables read by the CLI.
	EnvPrefix = "AZRM"

	// ConfigDirName is the configuration directory below the home directory.
	ConfigDirName = ".azrm"

	// ConfigFileName is the configuration file name without extension.
	ConfigFileName = "config"
)
