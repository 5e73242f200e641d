package config_test

import (
	"testing"
	"time"

	"storefront/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]interface{}) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := config.FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, []string{"database"}, cfg.OrderSinks)
	assert.Equal(t, "fire_and_forget", cfg.OrderSinkMode)
	assert.Equal(t, "per_line", cfg.SinkGranularity)
	assert.True(t, cfg.RequireAddress)
	assert.False(t, cfg.RequirePincode)
	assert.False(t, cfg.PaymentEnabled)
	assert.Equal(t, "INR", cfg.Currency)
	assert.Equal(t, "918624091826", cfg.WhatsAppNumber)
	assert.Equal(t, "timestamp", cfg.OrderIDFormat)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.HasSink(config.SinkDatabase))
	assert.False(t, cfg.HasSink(config.SinkSheet))
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("ORDER_SINKS", "sheet, database")
	t.Setenv("ORDER_SINK_URL", "https://sheet.example/exec")
	t.Setenv("REQUIRE_PINCODE", "true")
	t.Setenv("SESSION_TTL", "90m")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"sheet", "database"}, cfg.OrderSinks)
	assert.True(t, cfg.RequirePincode)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]interface{}
		want      string
	}{
		{"unknown sink", map[string]interface{}{"ORDER_SINKS": "ftp"}, `unknown order sink "ftp"`},
		{"sheet without url", map[string]interface{}{"ORDER_SINKS": "sheet"}, "ORDER_SINK_URL is required"},
		{"nowhere to send orders", map[string]interface{}{"ORDER_SINKS": "", "WHATSAPP_NUMBER": ""}, "at least one order sink"},
		{"bad granularity", map[string]interface{}{"SINK_GRANULARITY": "per_item"}, "SINK_GRANULARITY"},
		{"bad id format", map[string]interface{}{"ORDER_ID_FORMAT": "uuid"}, "ORDER_ID_FORMAT"},
		{"payment without key", map[string]interface{}{"PAYMENT_ENABLED": true}, "PAYMENT_KEY_ID"},
		{"bad driver", map[string]interface{}{"DATABASE_DRIVER": "mysql"}, "DATABASE_DRIVER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.FromViper(newViper(tt.overrides))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMessagingOnlyIsValid(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]interface{}{"ORDER_SINKS": ""}))
	require.NoError(t, err)
	assert.Empty(t, cfg.OrderSinks)
}
