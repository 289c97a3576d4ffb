package main

import (
	"testing"

	"phonenet/internal/config"
)

func TestApplyOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := applyOverrides(cfg, ":9090", "/tmp/net.db"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Network.File != "/tmp/net.db" {
		t.Errorf("overrides not applied: addr=%s file=%s", cfg.Server.Addr, cfg.Network.File)
	}

	// Empty flags keep the config values.
	if err := applyOverrides(cfg, "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %s, want :9090", cfg.Server.Addr)
	}
}

func TestApplyOverridesValidates(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Routing.Strategy = "astar"
	if err := applyOverrides(cfg, ":9090", ""); err == nil {
		t.Error("expected the merged config to be validated")
	}
}
