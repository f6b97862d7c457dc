package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/recache-http/recache"
	cachekey "github.com/recache-http/recache/pkg/cache-key"
	"github.com/recache-http/recache/store"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

var (
	// CLI flags
	configFlag         string
	originFlag         string
	portFlag           int
	storeFlag          string
	dbPathFlag         string
	verbosityTraceFlag bool
	logFilenameFlag    string

	// this is set by goreleaser
	version string
)

func init() {
	flag.StringVar(&configFlag, "config", "", "Config file (YAML, overrides other flags)")
	flag.StringVar(&originFlag, "origin", "", "Origin URL to proxy to")
	flag.IntVar(&portFlag, "port", 8080, "Port to listen on")
	flag.StringVar(&storeFlag, "store", "memory", "Store backend: memory, sqlite or leveldb")
	flag.StringVar(&dbPathFlag, "db", "cache.db", "Database file (sqlite) or directory (leveldb)")
	flag.BoolVar(&verbosityTraceFlag, "vv", false, "Verbosity: trace logging")
	flag.StringVar(&logFilenameFlag, "log-file", "", "Log file to use (in addition to stdout)")

	if version == "" {
		version = "DEV"
	}
}

func main() {
	flag.Parse()

	// set log level
	logLevel := zerolog.DebugLevel
	if verbosityTraceFlag {
		logLevel = zerolog.TraceLevel
	}

	// set up log output to stdout
	// also output to logfile if specified
	logOutputs := make([]io.Writer, 0)
	logOutputs = append(logOutputs, zerolog.ConsoleWriter{Out: os.Stdout})
	if logFilenameFlag != "" {
		if logFileOutput, err := os.OpenFile(logFilenameFlag, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644); err != nil {
			log.Fatal().Err(err).Msg("Cannot open log file")
		} else {
			logOutputs = append(logOutputs, logFileOutput)
		}
	}
	multiWriter := zerolog.MultiLevelWriter(logOutputs...)
	log.Logger = log.Level(logLevel).Output(multiWriter).
		With().Str("version", version).Logger()

	config := Config{
		Listen: fmt.Sprintf(":%d", portFlag),
		Origin: originFlag,
		Store:  StoreConfig{Backend: storeFlag, Path: dbPathFlag},
	}
	if configFlag != "" {
		fileConfig, err := getConfig(configFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not read config file")
		}
		if fileConfig.Listen == "" {
			fileConfig.Listen = config.Listen
		}
		config = fileConfig
	}
	if config.Origin == "" {
		log.Fatal().Msg("Please specify origin")
	}

	originURL, err := url.Parse(config.Origin)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not parse origin URL")
	}

	cacheStore, err := newStore(config.Store)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not open store")
	}

	cache := recache.New(recache.Config{
		Store:               cacheStore,
		Keyer:               cachekey.Keyer{Origin: originURL.String()},
		Logger:              &log.Logger,
		Trace:               recache.NewLoggerSink(log.Logger),
		SendEmptyValidators: config.SendEmptyValidators,
	})

	proxy := httputil.NewSingleHostReverseProxy(originURL)

	r := chi.NewRouter()
	r.Use(hlog.NewHandler(log.Logger))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/*", cache.Middleware(proxy))

	log.Info().Msgf("Proxying %s to %s (store: %s)", config.Listen, originURL, config.Store.Backend)
	if err := http.ListenAndServe(config.Listen, r); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func newStore(config StoreConfig) (store.Store, error) {
	switch config.Backend {
	case "", "memory":
		return store.NewMemory(), nil
	case "sqlite":
		s, err := store.NewSQLite(config.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "leveldb":
		l, err := store.NewLevelDB(config.Path)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", config.Backend)
}
