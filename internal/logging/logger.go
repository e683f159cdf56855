package logging

import (
	"io"
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation controls how the log file is rotated. Zero fields fall back to
// the defaults below.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

const (
	defaultMaxSizeMB  = 50
	defaultMaxBackups = 30
	defaultMaxAgeDays = 90
)

func (r Rotation) withDefaults() Rotation {
	if r.MaxSizeMB <= 0 {
		r.MaxSizeMB = defaultMaxSizeMB
	}
	if r.MaxBackups <= 0 {
		r.MaxBackups = defaultMaxBackups
	}
	if r.MaxAgeDays <= 0 {
		r.MaxAgeDays = defaultMaxAgeDays
	}
	return r
}

type LoggerSetupParams struct {
	LogFileName   string
	LogToStdout   bool
	LogLevel      string
	LogFormatJSON bool
	Rotation      Rotation

	Environment       string
	SentryEnabled     bool
	SentryDSN         string
	SentryServerName  string
	SentrySampleRate  float64
	SentryEventLevels []logrus.Level
}

// Setup configures the standard logrus logger. The returned closer releases
// the log file, if one is used.
func Setup(params LoggerSetupParams) io.Closer {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if params.SentryEnabled {
		setupSentry(params)
	}

	logrus.SetLevel(GetLevel(params.LogLevel))

	if params.LogFileName == "" {
		logrus.SetOutput(os.Stdout)
		logrus.Println("writing logs only to STDOUT")
		return NewCombinedWriter()
	}

	logFile := newRotatingFile(params.LogFileName, params.Rotation)
	if params.LogToStdout {
		logrus.Printf("writing logs to [%s] and STDOUT", logFile.Filename)
		out := NewCombinedWriter(os.Stdout, logFile)
		logrus.SetOutput(out)
		return out
	}

	logrus.SetOutput(logFile)
	return logFile
}

func setupSentry(params LoggerSetupParams) {
	sampleRate := params.SentrySampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: sampleRate,
		ServerName:       params.SentryServerName,
	})
	if err != nil {
		logrus.Errorf("sentry.Init: %s", err)
		return
	}

	levels := params.SentryEventLevels
	if len(levels) == 0 {
		levels = []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}
	}
	logrus.AddHook(NewSentryHook(levels))

	logrus.Infof("sentry set up, sample rate %.2f", sampleRate)
}

func newRotatingFile(fileName string, rotation Rotation) *lumberjack.Logger {
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}

	rotation = rotation.withDefaults()
	return &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    rotation.MaxSizeMB,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAgeDays,
		Compress:   rotation.Compress,
		LocalTime:  false, // UTC
	}
}

// GetLevel parses level, unknown levels log everything.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.TraceLevel
	}
	return parsed
}
