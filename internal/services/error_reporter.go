package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/containrrr/shoutrrr"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Wikid82/lockward/internal/config"
	"github.com/Wikid82/lockward/internal/logger"
	"github.com/Wikid82/lockward/internal/metrics"
	"github.com/Wikid82/lockward/internal/version"
)

// Reporter receives failures that must not interrupt the caller but must
// reach operators.
type Reporter interface {
	Report(op string, err error, fields logrus.Fields)
}

// ErrorReporter logs audit failures, counts them, and optionally forwards a
// throttled alert through shoutrrr.
type ErrorReporter struct {
	alertURL string
	limiter  *rate.Limiter
	send     func(url, message string) error
}

func NewErrorReporter(cfg config.AlertConfig) *ErrorReporter {
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}
	return &ErrorReporter{
		alertURL: cfg.URL,
		limiter:  rate.NewLimiter(limit, 1),
		send:     shoutrrr.Send,
	}
}

// Report never blocks on the alert transport.
func (r *ErrorReporter) Report(op string, err error, fields logrus.Fields) {
	reason := failureReason(err)
	metrics.IncAuditFailure(reason)

	logger.Component("audit").
		WithFields(fields).
		WithField("op", op).
		WithField("reason", reason).
		WithError(err).
		Error("access log entry not persisted")

	if r.alertURL == "" || !r.limiter.Allow() {
		return
	}

	msg := fmt.Sprintf("[%s] access log write failed (%s, %s) at %s: %v",
		version.UserAgent(), op, reason, time.Now().UTC().Format(time.RFC3339), err)
	go func() {
		if err := r.send(r.alertURL, msg); err != nil {
			logger.Component("audit").WithError(err).Warn("failed to deliver audit failure alert")
		}
	}()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrAuditQueueFull):
		return "queue_full"
	case errors.Is(err, ErrAuditWriterClosed):
		return "closed"
	default:
		return "write"
	}
}
