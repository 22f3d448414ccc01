package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupDisabled(t *testing.T) {
	require.False(t, Config{}.Enabled())

	tel, err := Setup(context.Background(), "outage-scraper-test", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupTracesOnly(t *testing.T) {
	config := Config{Otlp: OtlpConfig{
		Traces: OtlpConnConfig{HttpEndpoint: "http://127.0.0.1:4318/v1/traces"},
	}}
	require.True(t, config.Enabled())

	tel, err := Setup(context.Background(), "outage-scraper-test", config)
	require.NoError(t, err)
	require.NotNil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)

	// nothing was recorded, so shutdown has nothing to export
	require.NoError(t, tel.Shutdown(context.Background()))
}
