package store

import (
	"os"
	"path/filepath"
	"testing"

	"agent-trading-gateway/internal/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
trading:
  provider: alpaca
data:
  provider: alpaca
  fallbacks: [zerodha]
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Trading.Mode != types.ModePaper {
		t.Errorf("expected default mode paper, got %s", cfg.Trading.Mode)
	}
	if cfg.Trading.AutoExecute {
		t.Error("auto_execute must default to false")
	}
	if cfg.Client.MaxRetries != 3 || cfg.Client.BackoffSeconds != 1 || cfg.Client.CallTimeoutSeconds != 10 {
		t.Errorf("unexpected client defaults: %+v", cfg.Client)
	}
	want := []string{"alpaca", "zerodha"}
	got := cfg.DataProviders()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("DataProviders() = %v, want %v", got, want)
	}
}

func TestLoadConfigInvalidMode(t *testing.T) {
	path := writeConfig(t, `
trading:
  provider: alpaca
  mode: dry_run
data:
  provider: alpaca
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected invalid mode to fail validation")
	}
}

func TestLoadConfigRejectsDuplicateFallback(t *testing.T) {
	path := writeConfig(t, `
trading:
  provider: alpaca
data:
  provider: alpaca
  fallbacks: [alpaca]
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected primary provider repeated in fallbacks to fail validation")
	}
}

func TestTradingStateFlip(t *testing.T) {
	st := NewTradingState(types.TradingModeConfig{Mode: types.ModeLive, AutoExecute: false})
	if st.Snapshot().Armed() {
		t.Fatal("live without auto_execute must start blocked")
	}
	st.SetAutoExecute(true)
	if !st.Snapshot().Armed() {
		t.Error("SetAutoExecute(true) must arm the next snapshot")
	}
	st.SetAutoExecute(false)
	if st.Snapshot().Armed() {
		t.Error("SetAutoExecute(false) must block the next snapshot")
	}
}
