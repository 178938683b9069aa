package telemetry

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/noah-isme/campus-scheduler-api/pkg/config"
)

// InitSentry wires error reporting when a DSN is configured. The returned
// flush func is a no-op when reporting is disabled.
func InitSentry(cfg *config.Config) (func(), error) {
	if cfg.Sentry.DSN == "" {
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Env,
	})
	if err != nil {
		return func() {}, err
	}

	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureError reports err when Sentry is active.
func CaptureError(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}
