package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{
			name:    "default config",
			cfg:     NewDefaultConfig(),
			wantErr: false,
		},
		{
			name:    "console format",
			cfg:     &Config{Level: zapcore.DebugLevel, Format: "console"},
			wantErr: false,
		},
		{
			name:    "invalid format",
			cfg:     &Config{Level: zapcore.InfoLevel, Format: "xml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
			logger.Sync()
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_WithAndNamed(t *testing.T) {
	tl := NewTestLogger()

	tl.With(zap.String("provider", "tei")).Info("embedding batch")
	tl.Named("similarity").Debug("computed matrix")

	tl.AssertLogged(t, zapcore.InfoLevel, "embedding batch")
	tl.AssertLogged(t, zapcore.DebugLevel, "computed matrix")

	entries := tl.FilterMessage("embedding batch").All()
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Context, 1)
	assert.Equal(t, "provider", entries[0].Context[0].Key)
	assert.Equal(t, "tei", entries[0].Context[0].String)
}
