package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/whoami669/my-bot/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/resource"
)

func TestMetricsProvider_NilIsSafe(t *testing.T) {
	var mp *MetricsProvider

	assert.NotPanics(t, func() {
		mp.RecordCommand("daily")
		mp.RecordMessageRead(MessageTypeGuild)
		mp.RecordAIRequest("chat", errors.New("boom"))
		mp.RecordNATSMessagePublished("level_up")
		mp.RecordBalanceTransaction("work")
	})
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetricsProvider_Initialize(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		exporter  string
		wantErr   bool
		exporting bool
	}{
		{name: "disabled", enabled: false, exporter: "otlp"},
		{name: "exporter none", enabled: true, exporter: "none"},
		{name: "console", enabled: true, exporter: "console", exporting: true},
		{name: "unknown exporter", enabled: true, exporter: "carrier-pigeon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewTestConfig()
			cfg.OTelEnabled = tt.enabled
			cfg.OTelExporterType = tt.exporter
			cfg.OTelServiceName = "communitybot-test"
			cfg.OTelExportIntervalMillis = 60000

			mp := NewMetricsProvider(cfg)
			err := mp.Initialize(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

			assert.Equal(t, tt.exporting, mp.isEnabled())
			assert.NotPanics(t, func() {
				mp.RecordCommand("daily")
				mp.RecordAIRequest("chat", nil)
			})
		})
	}
}

func TestNewResource(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelServiceName = "communitybot-test"
	cfg.Environment = "test"

	res, err := newResource(cfg)
	require.NoError(t, err)

	assert.Equal(t, resource.Default().SchemaURL(), res.SchemaURL())

	name, ok := res.Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "communitybot-test", name.AsString())

	env, ok := res.Set().Value("environment")
	require.True(t, ok)
	assert.Equal(t, "test", env.AsString())
}
