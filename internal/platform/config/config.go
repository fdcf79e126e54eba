// Package config loads the service configuration from defaults, YAML
// profiles and APP_ environment variables, and validates it before the
// service starts.
package config

import "time"

// Defaults referenced outside the loader.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	DefaultTransportMaxIdleConns        = 100
	DefaultTransportMaxIdleConnsPerHost = 10
	DefaultTransportIdleConnTimeout     = 90 * time.Second

	// DefaultWorkspace holds the state of callers that send no subject header.
	DefaultWorkspace = "anonymous"

	// DefaultUpcomingWindow is how far ahead a compliance task counts as upcoming.
	DefaultUpcomingWindow = 30 * 24 * time.Hour
)

// Config is the root of the configuration tree. Every section maps onto a
// top-level YAML key of the same name.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Auth      AuthConfig      `koanf:"auth"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Services  ServicesConfig  `koanf:"services"  validate:"required"`
	Storage   StorageConfig   `koanf:"storage"   validate:"required"`
	Export    ExportConfig    `koanf:"export"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Tools     ToolsConfig     `koanf:"tools"     validate:"required"`
	Features  FeaturesConfig  `koanf:"features"`
}

type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod production test"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`

	// MaxRequestSize bounds request bodies, workspace imports included.
	MaxRequestSize int64 `koanf:"max_request_size" validate:"required,min=1"`
}

type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig adds a rotated JSON log file.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig points the OTLP trace exporter at a collector.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// AuthConfig names the headers a fronting gateway sets. The subject becomes
// the workspace. Nothing here verifies it.
type AuthConfig struct {
	SubjectHeader string `koanf:"subject_header" validate:"required"`
	RolesHeader   string `koanf:"roles_header"`
}

// ClientConfig is shared by every outbound HTTP client.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig shapes the exponential backoff between attempts.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=1ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=1ms,gtefield=InitialInterval"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig opens the circuit after MaxFailures consecutive
// failures and lets HalfOpenLimit probes through once Timeout has passed.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

type ServicesConfig struct {
	RegulatoryFeed ServiceEndpointConfig `koanf:"regulatory_feed" validate:"required"`
}

// ServiceEndpointConfig locates one upstream. A disabled endpoint is never
// called and its bundled fixtures are served instead.
type ServiceEndpointConfig struct {
	Enabled bool   `koanf:"enabled"`
	BaseURL string `koanf:"base_url" validate:"required_if=Enabled true,omitempty,url"`
	Path    string `koanf:"path"`
	Name    string `koanf:"name"     validate:"required"`
}

// StorageConfig selects the workspace state store. The SQL drivers need a DSN.
type StorageConfig struct {
	Driver          string        `koanf:"driver"            validate:"required,oneof=memory sqlite postgres"`
	DSN             string        `koanf:"dsn"               validate:"required_unless=Driver memory"`
	MaxOpenConns    int           `koanf:"max_open_conns"    validate:"omitempty,min=1"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type ExportConfig struct {
	Archive ArchiveConfig `koanf:"archive"`
}

// ArchiveConfig selects where rendered downloads are copied. "none"
// disables archiving.
type ArchiveConfig struct {
	Driver          string `koanf:"driver"            validate:"omitempty,oneof=none memory s3"`
	Bucket          string `koanf:"bucket"            validate:"required_if=Driver s3"`
	Region          string `koanf:"region"`
	Endpoint        string `koanf:"endpoint"          validate:"omitempty,url"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	UsePathStyle    bool   `koanf:"use_path_style"`
}

// CatalogConfig locates the reference data. An empty Dir serves the
// embedded seed files.
type CatalogConfig struct {
	Dir string `koanf:"dir"`
}

type ToolsConfig struct {
	DefaultWorkspace string        `koanf:"default_workspace" validate:"required"`
	UpcomingWindow   time.Duration `koanf:"upcoming_window"   validate:"required,min=1h"`

	// SimulationSeed fixes campaign and name randomness. Zero seeds from the clock.
	SimulationSeed     int64         `koanf:"simulation_seed"`
	NameGeneratorDelay time.Duration `koanf:"name_generator_delay"`
	CertificateName    string        `koanf:"certificate_name"`
}

// FeaturesConfig backs the config-driven feature flags.
type FeaturesConfig struct {
	Flags  map[string]bool   `koanf:"flags"`
	Values map[string]string `koanf:"values"`

	// Workspaces restricts an enabled flag to the listed workspaces.
	Workspaces map[string][]string `koanf:"workspaces"`
}
