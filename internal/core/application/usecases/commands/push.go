package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"dispatch/internal/core/ports"
)

// Pusher sends best-effort push notifications. A token the push service
// reports as unregistered is removed from the token registry.
type Pusher struct {
	notifier ports.Notifier
	tokens   ports.TokenRegistry
	metrics  ports.Metrics
	logger   *zap.Logger
}

func NewPusher(notifier ports.Notifier, tokens ports.TokenRegistry, metrics ports.Metrics, logger *zap.Logger) *Pusher {
	return &Pusher{
		notifier: notifier,
		tokens:   tokens,
		metrics:  orNopMetrics(metrics),
		logger:   orNopLogger(logger),
	}
}

// Push reports whether the notification was handed to the push service.
func (p *Pusher) Push(ctx context.Context, to ports.Recipient, n ports.Notification) bool {
	if n.Data == nil {
		n.Data = make(map[string]string, 2)
	}
	n.Data["title"] = n.Title
	n.Data["body"] = n.Body

	err := p.notifier.Notify(ctx, to, n)
	switch {
	case err == nil:
		p.metrics.ObserveNotification(to.Audience.String(), "sent")
		return true

	case errors.Is(err, ports.ErrRecipientUnregistered):
		p.metrics.ObserveNotification(to.Audience.String(), "unregistered")
		p.logger.Info("push token unregistered, removing",
			zap.String("recipient", to.ID), zap.Stringer("audience", to.Audience))
		if rmErr := p.tokens.Remove(ctx, to.Audience, to.ID); rmErr != nil {
			p.logger.Warn("token removal failed", zap.String("recipient", to.ID), zap.Error(rmErr))
		}

	default:
		p.metrics.ObserveNotification(to.Audience.String(), "failed")
		p.logger.Warn("push failed",
			zap.String("recipient", to.ID), zap.Stringer("audience", to.Audience), zap.Error(err))
	}
	return false
}

type nopMetrics struct{}

func (nopMetrics) ObserveAssignment(string, bool, time.Duration) {}
func (nopMetrics) ObserveTransition(string, bool) {}
func (nopMetrics) ObserveRetry(string, string) {}
func (nopMetrics) ObserveNotification(string, string) {}

func orNopMetrics(m ports.Metrics) ports.Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}

func orNopLogger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
