package globalstore

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "globalstore"

// dispatch results used as the "result" label.
const (
	resultOK       = "ok"
	resultError    = "error"
	resultUnknown  = "unknown_action"
	resultRejected = "rejected"
	resultPanic    = "panic"
)

// metrics holds the Prometheus collectors for one store.
// A nil *metrics records nothing.
type metrics struct {
	store            string
	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	subscribers      *prometheus.GaugeVec
}

// newMetrics registers the store collectors with reg, reusing collectors
// another store already registered there.
func newMetrics(reg prometheus.Registerer, storeName string) (*metrics, error) {
	dispatchTotal, err := registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "dispatch_total",
		Help:      "Total number of dispatched actions by result",
	}, []string{"store", "action", "result"}))
	if err != nil {
		return nil, err
	}

	dispatchDuration, err := registerOrReuse(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "dispatch_duration_seconds",
		Help:      "Time spent running a handler, merging, and notifying subscribers",
		Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
	}, []string{"store", "action"}))
	if err != nil {
		return nil, err
	}

	subscribers, err := registerOrReuse(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "subscribers",
		Help:      "Number of observers currently subscribed",
	}, []string{"store"}))
	if err != nil {
		return nil, err
	}

	return &metrics{
		store:            storeName,
		dispatchTotal:    dispatchTotal,
		dispatchDuration: dispatchDuration,
		subscribers:      subscribers,
	}, nil
}

// registerOrReuse registers c, or returns the equivalent collector already
// registered with reg.
func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *metrics) observeDispatch(action, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(m.store, action, result).Inc()
	if result != resultRejected {
		m.dispatchDuration.WithLabelValues(m.store, action).Observe(d.Seconds())
	}
}

func (m *metrics) setSubscribers(n int) {
	if m == nil {
		return
	}
	m.subscribers.WithLabelValues(m.store).Set(float64(n))
}
