package observe

import (
	"encoding/json"
	"log"
	"time"

	"github.com/getsentry/sentry-go"

	"go.uber.org/zap/zapcore"
)

const (
	_sentryMaxErrorDepth        = 9
	_sentryServerRequestTimeout = 5 * time.Second
)

// SentryHook is an io.Writer that can be attached to the zap logger. It
// parses the JSON log stream and forwards error-level and worse events to
// Sentry. Forwarding only happens for prod and dev zones.
type SentryHook struct {
	appZone string
	appName string
}

func NewSentryHook(appZone, appName string, isDebug bool, dsn string) *SentryHook {
	if dsn == "" {
		log.Println("Stacktracer init error: no DSN")
	}
	sentryTransport := sentry.NewHTTPTransport()
	sentryTransport.Timeout = _sentryServerRequestTimeout
	if err := sentry.Init(
		sentry.ClientOptions{
			AttachStacktrace: true,
			Debug:            isDebug,
			Dsn:              dsn,
			Environment:      appZone,
			MaxErrorDepth:    _sentryMaxErrorDepth,
			ServerName:       appName,
			Transport:        sentryTransport,
		}); err != nil {
		log.Println("Stacktracer init error: ", err.Error())
	}

	return &SentryHook{
		appZone: appZone,
		appName: appName,
	}
}

func (h *SentryHook) Write(p []byte) (n int, err error) {
	if h.appZone != "prod" && h.appZone != "dev" {
		return len(p), nil
	}

	var entry struct {
		Level      string `json:"level"`
		Message    string `json:"msg"`
		Error      string `json:"error"`
		CallerFile string `json:"caller_file"`
		CallerLine int    `json:"caller_line"`
		CallerFunc string `json:"caller_func"`
		Stack      string `json:"stack"`
		Timestamp  string `json:"timestamp"`
	}
	if err := json.Unmarshal(p, &entry); err != nil {
		log.Println("[SentryHook] json.Unmarshal data: ", err.Error())
		return len(p), nil
	}

	level, err := zapcore.ParseLevel(entry.Level)
	if err != nil || entry.Message == "" {
		return len(p), nil
	}

	switch level {
	case zapcore.ErrorLevel, zapcore.FatalLevel, zapcore.PanicLevel:
		timestamp, _ := time.Parse("2006-01-02T15:04:05.000Z", entry.Timestamp)

		event := sentry.NewEvent()
		event.Environment = h.appZone
		event.Level = h.mapLevel(level)
		event.Timestamp = timestamp
		event.Message = entry.Message
		event.Extra["AppName"] = h.appName
		event.Extra["Error"] = entry.Error
		event.Extra["CallerFile"] = entry.CallerFile
		event.Extra["CallerLine"] = entry.CallerLine
		event.Extra["CallerFunc"] = entry.CallerFunc
		event.Extra["Stack"] = entry.Stack
		event.Exception = append(event.Exception, sentry.Exception{
			Type:       entry.Message,
			Value:      entry.Error,
			Stacktrace: sentry.NewStacktrace(),
		})
		sentry.CaptureEvent(event)
	}

	return len(p), nil
}

func (*SentryHook) mapLevel(zl zapcore.Level) sentry.Level {
	switch zl {
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	case zapcore.FatalLevel, zapcore.PanicLevel:
		return sentry.LevelFatal
	default:
		return sentry.LevelDebug
	}
}
