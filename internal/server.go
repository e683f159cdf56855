package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/2beens/nutribot/internal/bot"
	"github.com/2beens/nutribot/internal/config"
	"github.com/2beens/nutribot/internal/middleware"
	"github.com/2beens/nutribot/internal/nutrition"
	"github.com/2beens/nutribot/internal/progress"
	"github.com/2beens/nutribot/internal/telemetry/metrics"
	"github.com/2beens/nutribot/internal/telemetry/tracing"
	"github.com/2beens/nutribot/internal/tracker"
	"github.com/2beens/nutribot/internal/weather"
	"github.com/2beens/nutribot/internal/wizard"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"
)

const (
	defaultBotStopTimeout  = 15 * time.Second
	metricsShutdownTimeout = 5 * time.Second
)

type Server struct {
	config            *config.Config
	bot               *bot.Bot
	botDone           chan struct{}
	botStopTimeout    time.Duration
	metricsHttpServer *http.Server

	store       *tracker.Store
	sessions    *wizard.Sessions
	redisClient *redis.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	TelegramToken           string
	CaloriesApiKey          string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	promRegistry := metrics.SetupPrometheus("nutribot", cfg.Environment)
	metricsManager := metrics.NewManager("nutribot", "bot", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: params.RedisPassword,
		DB:       cfg.RedisDB,
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		// nutrition cache and rate limiter both degrade gracefully
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "nutribot", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.HttpTimeout(),
	}

	weatherApi := weather.NewApi(cfg.GeocodingApiUrl, cfg.ForecastApiUrl, tracedHttpClient)
	nutritionApi := nutrition.NewApi(cfg.NutritionApiUrl, params.CaloriesApiKey, tracedHttpClient, rdb)

	store := tracker.NewStore()
	sessions := wizard.NewSessions(cfg.WizardSessionTTL())

	commands := bot.NewCommands(bot.CommandsParams{
		Store:          store,
		Sessions:       sessions,
		Weather:        newMeteredWeather(weatherApi, metricsManager),
		Nutrition:      nutritionApi,
		Reporter:       progress.NewReporter(progress.NewPieChartRenderer(cfg.ChartsDir), metricsManager),
		MetricsManager: metricsManager,
	})

	botApi, err := tgbotapi.NewBotAPI(params.TelegramToken)
	if err != nil {
		otelShutdown()
		return nil, fmt.Errorf("new telegram bot api: %w", err)
	}
	log.Infof("authorized on telegram bot account: %s", botApi.Self.UserName)

	tgBot := bot.NewBot(
		botApi,
		commands,
		cfg.TelegramPollTimeout,
		middleware.PanicRecovery(metricsManager),
		middleware.LogUpdate(),
		middleware.RateLimit(redis_rate.NewLimiter(rdb), cfg.RateLimitPerMin, metricsManager),
	)

	return &Server{
		config:         cfg,
		bot:            tgBot,
		botDone:        make(chan struct{}),
		botStopTimeout: defaultBotStopTimeout,
		store:          store,
		sessions:       sessions,
		redisClient:    rdb,
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) metricsRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("metrics-router"))

	r.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	)).Methods(http.MethodGet)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			log.Errorf("health: write response: %s", err)
		}
	}).Methods(http.MethodGet)

	return r
}

// Serve starts the metrics server, the wizard session sweeper and the bot.
// Everything stops once ctx is done.
func (s *Server) Serve(ctx context.Context) {
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:         metricsAddr,
		Handler:      s.metricsRouter(),
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	go s.runSessionSweeper(ctx, s.config.SessionScanInterval())

	go func() {
		defer close(s.botDone)
		s.bot.Start(ctx)
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) runSessionSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debugln("session sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Server) sweep() {
	if removed := s.sessions.ScanAndClean(); removed > 0 {
		log.Debugf("session sweeper: removed %d idle wizard sessions", removed)
	}
	s.metricsManager.GaugeWizardSessions.Set(float64(s.sessions.Count()))
	s.metricsManager.GaugeProfiles.Set(float64(s.store.Count()))
}

// GracefulShutdown expects the ctx passed to Serve to be canceled already.
func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	ctx, timeoutCancel := context.WithTimeout(context.Background(), s.botStopTimeout)
	defer timeoutCancel()

	var err error

	select {
	case <-s.botDone:
		log.Warnln("bot stopped")
	case <-ctx.Done():
		err = multierr.Append(err, errors.New("bot did not stop in time"))
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if cErr := s.redisClient.Close(); cErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", cErr))
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		// the bot wait may have used up ctx
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer shutdownCancel()
		if sErr := s.metricsHttpServer.Shutdown(shutdownCtx); sErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics http server: %w", sErr))
		}
		log.Warnln("metrics server shut down")
	}

	return err
}

// meteredWeather counts failed temperature lookups. The failure itself is
// absorbed by the requirements calculation.
type meteredWeather struct {
	provider       tracker.WeatherProvider
	metricsManager *metrics.Manager
}

func newMeteredWeather(provider tracker.WeatherProvider, metricsManager *metrics.Manager) *meteredWeather {
	return &meteredWeather{
		provider:       provider,
		metricsManager: metricsManager,
	}
}

func (w *meteredWeather) MaxTemperatureToday(ctx context.Context, city string) (float64, error) {
	temperature, err := w.provider.MaxTemperatureToday(ctx, city)
	if err != nil {
		w.metricsManager.CounterCollaboratorFailures.WithLabelValues("weather").Inc()
	}
	return temperature, err
}
