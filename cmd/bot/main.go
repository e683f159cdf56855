package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/nutribot/internal"
	"github.com/2beens/nutribot/internal/config"
	"github.com/2beens/nutribot/internal/logging"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	envFile := flag.String("env-file", ".env", "optional file with secrets, loaded into the environment")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		log.Debugf("no env file loaded from [%s]: %s", *envFile, err)
	}

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logOutput := logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
		Rotation: logging.Rotation{
			MaxSizeMB:  cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAgeDays: cfg.LogMaxAgeDays,
			Compress:   cfg.LogCompress,
		},
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled && sentryDSN != "",
		SentryDSN:        sentryDSN,
		SentryServerName: "nutribot",
		SentrySampleRate: cfg.SentrySampleRate,
	})

	log.Debugf("using server logs path: [%s]", cfg.LogsPath)
	log.Debugf("using charts dir: [%s]", cfg.ChartsDir)

	telegramToken := os.Getenv("NUTRIBOT_TELEGRAM_TOKEN")
	if telegramToken == "" {
		log.Fatalln("telegram token not set, use NUTRIBOT_TELEGRAM_TOKEN env var to set it")
	}

	caloriesApiKey := os.Getenv("NUTRIBOT_CALORIES_API_KEY")
	if caloriesApiKey == "" {
		log.Errorf("calories API key not set, use NUTRIBOT_CALORIES_API_KEY env var to set it")
	}

	redisPassword := os.Getenv("NUTRIBOT_REDIS_PASS")
	if redisPassword == "" {
		log.Warnln("redis password not set. use NUTRIBOT_REDIS_PASS")
	}

	if otelServiceName := os.Getenv("OTEL_SERVICE_NAME"); otelServiceName == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			TelegramToken:           telegramToken,
			CaloriesApiKey:          caloriesApiKey,
			RedisPassword:           redisPassword,
			HoneycombTracingEnabled: honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(ctx)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, stopping the bot ...", receivedSig)
	cancel()

	if err := server.GracefulShutdown(); err != nil {
		log.Errorf("graceful shutdown: %s", err)
	}

	if err := logOutput.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close log output: %s\n", err)
	}
}
