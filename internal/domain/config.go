package domain

// Config holds the complete Lendly configuration.
type Config struct {
	// Server settings
	Server ServerConfig `json:"server"`

	// Component configurations
	Repository RepositoryConfig `json:"repository"`
	Store      StoreConfig      `json:"store"`
	EventBus   EventBusConfig   `json:"eventBus"`
	Advisory   AdvisoryConfig   `json:"advisory"`
	RateLimit  RateLimitConfig  `json:"rateLimit"`

	// Observability
	Logging LoggingConfig `json:"logging"`
	Tracing TracingConfig `json:"tracing"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	ReadTimeout  int    `json:"readTimeout"`  // seconds
	WriteTimeout int    `json:"writeTimeout"` // seconds
}

// RateLimitConfig holds fixed-window rate limit settings for the scoring
// endpoint.
type RateLimitConfig struct {
	Limit         int `json:"limit"`         // requests per window per identity
	WindowSeconds int `json:"windowSeconds"` // window length
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool   `json:"enabled"`
	ServiceName string `json:"serviceName"`
}

// DefaultConfig returns the default configuration: SQLite repository,
// in-process cache and bus, fallback-only advisory.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Repository: RepositoryConfig{
			Driver:       "sqlite",
			SQLitePath:   "./lendly.db",
			SeedDemoData: true,
		},
		Store: StoreConfig{
			Type:       "memory",
			ScoreTTL:   DefaultScoreTTL,
			CounterTTL: DefaultCounterTTL,
		},
		EventBus: EventBusConfig{
			Type:              "channel",
			ChannelBufferSize: 1000,
		},
		Advisory: AdvisoryConfig{
			TimeoutSeconds: 10,
		},
		RateLimit: RateLimitConfig{
			Limit:         10,
			WindowSeconds: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "lendly",
		},
	}
}
