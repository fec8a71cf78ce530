package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveQuote("ok")
	m.ObserveQuote("ok")
	m.ObserveQuote("invalid")
	m.ObserveCoupon("next_item_percent")
	m.ObserveNegativePrice()
	m.ObserveRequest(http.MethodPost, "/api/cart/quote", http.StatusOK, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.QuotesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuotesTotal.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CouponsApplied.WithLabelValues("next_item_percent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NegativePriceWarnings))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveQuote("ok")
		m.ObserveCoupon("x")
		m.ObserveNegativePrice()
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})
}
