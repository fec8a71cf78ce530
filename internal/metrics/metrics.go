// Package metrics содержит Prometheus-метрики сервиса расчёта стоимости корзины.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cartpricer"

// Metrics группирует коллекторы сервиса.
type Metrics struct {
	QuotesTotal           *prometheus.CounterVec
	CouponsApplied        *prometheus.CounterVec
	NegativePriceWarnings prometheus.Counter
	RequestDuration       *prometheus.HistogramVec
}

// New создаёт коллекторы и регистрирует их в reg. При reg == nil используется DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		QuotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Count of cart quotes by outcome.",
		}, []string{"result"}),
		CouponsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupons_applied_total",
			Help:      "Count of coupons replayed during cart builds by kind.",
		}, []string{"kind"}),
		NegativePriceWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "negative_price_warnings_total",
			Help:      "Count of items whose price went below zero after discounts.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(m.QuotesTotal, m.CouponsApplied, m.NegativePriceWarnings, m.RequestDuration)
	return m
}

// ObserveQuote учитывает результат расчёта.
func (m *Metrics) ObserveQuote(result string) {
	if m == nil {
		return
	}
	m.QuotesTotal.WithLabelValues(result).Inc()
}

// ObserveCoupon учитывает применённый купон.
func (m *Metrics) ObserveCoupon(kind string) {
	if m == nil {
		return
	}
	m.CouponsApplied.WithLabelValues(kind).Inc()
}

// ObserveNegativePrice учитывает товар с отрицательной ценой.
func (m *Metrics) ObserveNegativePrice() {
	if m == nil {
		return
	}
	m.NegativePriceWarnings.Inc()
}

// ObserveRequest записывает длительность HTTP-запроса.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
