package main

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/cart-pricing/internal/handler"
	"github.com/mmeshcher/cart-pricing/internal/metrics"
	"github.com/mmeshcher/cart-pricing/internal/repository"
	"github.com/mmeshcher/cart-pricing/internal/service"
)

func TestRun_Local(t *testing.T) {
	quote, err := run(context.Background(), "", zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "63.30", quote.Display)
	assert.Len(t, quote.Items, 6)
	assert.Empty(t, quote.Warnings)
}

func TestRun_Server(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := service.NewService(repository.NewMemoryRepository(), m, zap.NewNop())
	ts := httptest.NewServer(handler.NewHandler(svc, zap.NewNop(), m, reg).SetupRouter())
	defer ts.Close()

	quote, err := run(context.Background(), ts.URL, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "63.30", quote.Display)
	assert.NotEmpty(t, quote.ID)
}
