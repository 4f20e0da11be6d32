package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("expected default driver sqlite, got %q", cfg.Storage.Driver)
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("expected default level info, got %q", cfg.Logger.Level)
	}
}
