package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog"

	"github.com/sergeii/rss-json-relay/internal/middleware"
	"github.com/sergeii/rss-json-relay/pkg/http/fetcher"
	"github.com/sergeii/rss-json-relay/pkg/xml2json"
)

type Config struct {
	ServerAddress         string        `env:"SERVER_ADDRESS" envDefault:"localhost:8080"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	FetchTimeout          time.Duration `env:"FETCH_TIMEOUT" envDefault:"0s"`
	FetchCheckStatus      bool          `env:"FETCH_CHECK_STATUS" envDefault:"false"`
	FetchMaxBodySize      int64         `env:"FETCH_MAX_BODY_SIZE" envDefault:"0"`
	RequestMaxBodySize    int64         `env:"REQUEST_MAX_BODY_SIZE" envDefault:"1048576"`
	CastValues            bool          `env:"CAST_VALUES" envDefault:"true"`
	RequireFeed           bool          `env:"REQUIRE_FEED" envDefault:"false"`
	CORSAllowOrigin       string        `env:"CORS_ALLOW_ORIGIN" envDefault:"*"`
	CORSAllowMethods      []string      `env:"CORS_ALLOW_METHODS" envDefault:"GET,HEAD,POST,OPTIONS"`
	CORSAllowHeaders      []string      `env:"CORS_ALLOW_HEADERS" envDefault:"Content-Type"`
	CORSMaxAge            time.Duration `env:"CORS_MAX_AGE" envDefault:"24h"`
	LogLevel              string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty             bool          `env:"LOG_PRETTY" envDefault:"false"`
	LogOutput             io.Writer
}

type App struct {
	Config    *Config
	Logger    zerolog.Logger
	CORS      *middleware.CORSPolicy
	Fetcher   *fetcher.Fetcher
	Converter *xml2json.Converter
}

type Override func(*Config) error

func New(overrides ...Override) (*App, error) {
	var cfg Config
	// Получаем настройки приложения из environment-переменных
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	// даем возможность переопределить настройки, например в тестах или при использовании флагов
	for _, override := range overrides {
		if err := override(&cfg); err != nil {
			return nil, err
		}
	}

	logger, err := configureLogger(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to configure logger due to %w", err)
	}

	app := &App{
		Config: &cfg,
		Logger: logger,
		CORS: middleware.NewCORSPolicy(
			cfg.CORSAllowOrigin, cfg.CORSAllowMethods, cfg.CORSAllowHeaders, cfg.CORSMaxAge,
		),
		Fetcher: fetcher.New(
			fetcher.WithTimeout(cfg.FetchTimeout),
			fetcher.WithStatusCheck(cfg.FetchCheckStatus),
			fetcher.WithMaxBodySize(cfg.FetchMaxBodySize),
		),
		Converter: xml2json.New(
			xml2json.WithCast(cfg.CastValues),
			xml2json.WithFeedDetection(cfg.RequireFeed),
		),
	}
	return app, nil
}

// configureLogger создает логгер с уровнем логирования из настроек.
// В режиме LOG_PRETTY логи пишутся в человекочитаемом виде вместо json
func configureLogger(cfg *Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), err
	}
	out := cfg.LogOutput
	if out == nil {
		out = os.Stderr
	}
	if cfg.LogPretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
