// Package metrics exposes Prometheus counters for session intents,
// navigation and backend notifications.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/skydragon/internal/models"
	"github.com/mmynk/skydragon/internal/session"
)

const namespace = "skydragon"

// Result label values.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// Recorder implements the session, inbox and navigation observers.
type Recorder struct {
	intents       *prometheus.CounterVec
	navigations   *prometheus.CounterVec
	notifications *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewRecorder registers the counters with reg. A nil reg uses a fresh
// registry. Counters already registered with reg are reused.
func NewRecorder(reg *prometheus.Registry) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	intents, err := registerCounter(reg, prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "intents_total",
		Help:      "Session intents applied, by intent and result.",
	}, "intent", "result")
	if err != nil {
		return nil, err
	}
	navigations, err := registerCounter(reg, prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "navigation",
		Name:      "transitions_total",
		Help:      "Screen transitions, by destination screen.",
	}, "to")
	if err != nil {
		return nil, err
	}
	notifications, err := registerCounter(reg, prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "inbox",
		Name:      "notifications_total",
		Help:      "Backend notifications applied, by kind and result.",
	}, "kind", "result")
	if err != nil {
		return nil, err
	}

	return &Recorder{
		intents:       intents,
		navigations:   navigations,
		notifications: notifications,
		gatherer:      reg,
	}, nil
}

func registerCounter(reg prometheus.Registerer, opts prometheus.CounterOpts, labels ...string) (*prometheus.CounterVec, error) {
	vec := prometheus.NewCounterVec(opts, labels)
	if err := reg.Register(vec); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return vec, nil
}

// ObserveIntent implements session.Observer.
func (r *Recorder) ObserveIntent(intent string, err error) {
	r.intents.WithLabelValues(intent, result(err)).Inc()
}

// ObserveNotification implements session.InboxObserver.
func (r *Recorder) ObserveNotification(kind string, err error) {
	r.notifications.WithLabelValues(kind, result(err)).Inc()
}

// ObserveNavigation implements navigation.Observer.
func (r *Recorder) ObserveNavigation(_, to models.Screen) {
	r.navigations.WithLabelValues(to.String()).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

func result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case session.IsDomainError(err):
		return ResultRejected
	default:
		return ResultFailed
	}
}
