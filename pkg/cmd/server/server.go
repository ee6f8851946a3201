package server

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // by design
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/pgx-contrib/pgxtrace"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/simseed/simseed/log"
	"github.com/simseed/simseed/pkg/config"
	"github.com/simseed/simseed/pkg/db/postgres"
	"github.com/simseed/simseed/pkg/repository/api"
	bobrepos "github.com/simseed/simseed/pkg/repository/bob"
	"github.com/simseed/simseed/pkg/service/benchmark"
	"github.com/simseed/simseed/pkg/service/bootstrap"
	"github.com/simseed/simseed/pkg/service/catalog"
	"github.com/simseed/simseed/pkg/service/replay"
	"github.com/simseed/simseed/pkg/utils"
	"github.com/simseed/simseed/pkg/web"
)

//nolint:funlen // by design
func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "starts the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&config.HTTPServerAddr,
		"http-server-addr",
		"a",
		"localhost:8080",
		"HTTP server listen address")
	cmd.Flags().StringVar(&config.TLSServerAddr,
		"tls-server-addr",
		"",
		"HTTPS server listen address (requires TLS configuration)")
	cmd.Flags().StringVar(&config.TLSCertFile,
		"tls-cert",
		"",
		"path to TLS certificate")
	cmd.Flags().StringVar(&config.TLSKeyFile,
		"tls-key",
		"",
		"path to TLS key")
	cmd.Flags().StringVar(&config.TLSCAFile,
		"tls-ca",
		"",
		"path to TLS CA used to verify client certs")
	cmd.Flags().StringVar(&config.TraefikCerts,
		"traefik-certs",
		"",
		"path to traefik acme.json containing the certificates")
	cmd.Flags().StringVar(&config.TraefikCertDomain,
		"traefik-cert-domain",
		"",
		"domain to look up within the traefik certificates")
	cmd.Flags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	cmd.Flags().StringVar(&config.SQLLogLevel,
		"sql-log-level",
		"debug",
		"controls the log level for sql methods")
	cmd.Flags().StringVar(&config.LogFormat,
		"log-format",
		"json",
		"controls the log output format")
	cmd.Flags().StringVar(&config.LogConfig,
		"log-config",
		"",
		"if set, logger settings are read from this file")
	cmd.Flags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	cmd.Flags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"localhost:4317",
		"Endpoint that receives open telemetry data")
	cmd.Flags().IntVar(&config.ProfilingPort,
		"profiling-port",
		0,
		"port to use for providing profiling data")
	cmd.Flags().IntVar(&config.MaxTelemetryRows,
		"max-telemetry-rows",
		0,
		"cap for telemetry rows fetched per driver (0: unbounded)")
	cmd.Flags().IntVar(&config.BundleCacheSize,
		"bundle-cache-size",
		0,
		"number of bootstrap bundles to memoize (0: disabled)")
	cmd.Flags().StringVar(&config.BundleCacheTTL,
		"bundle-cache-ttl",
		"5m",
		"lifetime of memoized bootstrap bundles")
	return cmd
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

func setupLoggers() (logger, sqlLogger *log.Logger) {
	if config.LogConfig != "" {
		cfg, err := log.LoadConfig(config.LogConfig)
		if err == nil {
			if logger, err = log.NewWithConfig(cfg, os.Stderr,
				log.WithCaller(true), log.AddCallerSkip(1)); err == nil {
				return logger, logger.Named("sql")
			}
		}
		fmt.Fprintf(os.Stderr, "could not use log config %s: %v\n",
			config.LogConfig, err)
	}
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
		sqlLogger = log.New(
			os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
		sqlLogger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	return logger, sqlLogger
}

//nolint:funlen,cyclop // by design
func startServer(ctx context.Context) error {
	var telemetry *config.Telemetry
	logger, sqlLogger := setupLoggers()
	log.ResetDefault(logger)

	log.Debug("Config:",
		log.String("db", config.DB),
		log.String("addr", config.HTTPServerAddr))

	if config.ProfilingPort > 0 {
		log.Info("Starting profiling server on port",
			log.Int("port", config.ProfilingPort))
		go func() {
			//nolint:gosec // by design
			err := http.ListenAndServe(
				fmt.Sprintf("localhost:%d", config.ProfilingPort),
				nil)
			if err != nil {
				log.Error("Profiling server stopped", log.ErrorField(err))
			}
		}()
	}

	waitForRequiredServices()

	pgTracer := pgxtrace.CompositeQueryTracer{
		postgres.NewMyTracer(sqlLogger,
			parseLogLevel(config.SQLLogLevel, log.DebugLevel)),
	}
	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		var err error
		if telemetry, err = config.SetupTelemetry(ctx); err == nil {
			pgTracer = append(pgTracer, postgres.NewOtlpTracer())
		} else {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		err = otlpruntime.Start(
			otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
		if err != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}

	log.Info("Starting server")
	pool := postgres.InitWithUrl(
		config.DB,
		postgres.WithTracer(pgTracer),
	)
	defer postgres.CloseDb()

	handler := buildAPIHandler(logger, bobrepos.NewRepositoriesFromPool(pool))

	server := &http.Server{
		Addr:              config.HTTPServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errChan := make(chan error, 2)
	go func() {
		log.Info("Starting HTTP server",
			log.String("addr", config.HTTPServerAddr))
		errChan <- server.ListenAndServe()
	}()

	tlsServer := startTLSServer(ctx, handler, errChan)

	setupGoRoutinesDump()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case v := <-sigChan:
		log.Debug("Got signal ", log.Any("signal", v))
	case err := <-errChan:
		log.Error("server could not be started", log.ErrorField(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("could not shutdown HTTP server", log.ErrorField(err))
	}
	if tlsServer != nil {
		if err := tlsServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("could not shutdown HTTPS server", log.ErrorField(err))
		}
	}
	if telemetry != nil {
		telemetry.Shutdown()
	}

	log.Info("Server terminated")
	return nil
}

// buildAPIHandler assembles the services and wraps the routing with
// request logging, trace propagation, CORS and h2c.
func buildAPIHandler(logger *log.Logger, repos api.Repositories) http.Handler {
	bootstrapSvc := bootstrap.NewService(
		bootstrap.WithRepositories(repos),
		bootstrap.WithSampleLimit(config.MaxTelemetryRows))
	var loader bootstrap.Loader = bootstrapSvc
	if config.BundleCacheSize > 0 {
		ttl, err := time.ParseDuration(config.BundleCacheTTL)
		if err != nil {
			ttl = 5 * time.Minute
		}
		log.Info("Enabling bundle cache",
			log.Int("size", config.BundleCacheSize),
			log.Duration("ttl", ttl))
		loader = bootstrap.NewCachedLoader(bootstrapSvc, config.BundleCacheSize, ttl)
	}

	apiHandler := web.NewHandler(
		web.WithBootstrapLoader(loader),
		web.WithCatalogService(catalog.NewService(
			catalog.WithRepositories(repos))),
		web.WithReplayService(replay.NewService(
			replay.WithRepositories(repos),
			replay.WithSampleLimit(config.MaxTelemetryRows))),
		web.WithBenchmarkService(benchmark.NewService(
			benchmark.WithRepositories(repos))),
	)

	var handler http.Handler = apiHandler.Routes()
	handler = web.RequestLogger(logger)(handler)
	handler = web.TraceID()(handler)
	handler = otelhttp.NewHandler(handler, "simseed.api")
	return h2c.NewHandler(newCORS().Handler(handler), &http2.Server{})
}

// startTLSServer brings up the HTTPS listener when both an address and
// a certificate source are configured.
func startTLSServer(
	ctx context.Context, handler http.Handler, errChan chan error,
) *http.Server {
	if config.TLSServerAddr == "" {
		return nil
	}
	tlsConfig := NewTlsConfigProvider(ctx)
	if tlsConfig == nil {
		log.Warn("TLS server address set but no certificates configured")
		return nil
	}
	server := &http.Server{
		Addr:              config.TLSServerAddr,
		Handler:           handler,
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Starting HTTPS server", log.String("addr", config.TLSServerAddr))
		errChan <- server.ListenAndServeTLS("", "")
	}()
	return server
}

func setupGoRoutinesDump() {
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGQUIT)
		buf := make([]byte, 1<<20)
		for {
			<-sigs
			stacklen := runtime.Stack(buf, true)
			fmt.Printf("=== received SIGQUIT ===\n*** goroutine dump...\n%s\n*** end\n",
				buf[:stacklen])
		}
	}()
}

func waitForRequiredServices() {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}

	wg := sync.WaitGroup{}
	checkTCP := func(addr string) {
		if err = utils.WaitForTCP(addr, timeout); err != nil {
			log.Fatal("required services not ready", log.ErrorField(err))
		}
		wg.Done()
	}

	if postgresAddr := utils.ExtractFromDBURL(config.DB); postgresAddr != "" {
		wg.Add(1)
		go checkTCP(postgresAddr)
	}
	log.Debug("Waiting for connection checks to return")
	wg.Wait()
	log.Debug("Required services are available")
}

func newCORS() *cors.Cors {
	// Browsers load the simulator from arbitrary origins, so the CORS
	// setup is deliberately permissive.
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
		},
		AllowOriginFunc: func(origin string) bool {
			// Allow all origins, which effectively disables CORS.
			return true
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{
			"Accept",
			"Accept-Encoding",
			"Content-Encoding",
			"X-Request-ID",
			"X-Trace-ID",
		},
		// Let browsers cache CORS information for longer, which reduces
		// the number of preflight requests.
		MaxAge: int(2 * time.Hour / time.Second),
	})
}
