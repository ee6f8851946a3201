package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                 string // connection string for the database
	WaitForServices    string // duration to wait for other services to be ready
	LogLevel           string // sets the log level (zap log level values)
	SQLLogLevel        string // sets the log level for sql subsystem
	LogFormat          string // text vs json
	LogConfig          string // path to log config file
	MigrationSourceURL string // location of migration files
	EnableTelemetry    bool   // enable telemetry
	TelemetryEndpoint  string // endpoint for telemetry
	ProfilingPort      int    // port for profiling
	HTTPServerAddr     string // listen addr for HTTP server (insecure)
	TLSServerAddr      string // listen addr for HTTP server (tls)
	TLSCertFile        string // path to TLS certificate
	TLSKeyFile         string // path to TLS key
	TLSCAFile          string // path to TLS CA
	TraefikCerts       string // path to traefik certs file
	TraefikCertDomain  string // the domain to lookup within the traefik certs
	MaxTelemetryRows   int    // cap for telemetry rows fetched per request
	BundleCacheSize    int    // if > 0, bundles are memoized up to this many entries
	BundleCacheTTL     string // lifetime of memoized bundles
)
