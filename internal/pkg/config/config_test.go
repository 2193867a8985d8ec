package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("hearinggeo-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Telemetry.ServiceName != "hearinggeo-test" {
		t.Errorf("expected service name from argument, got %s", cfg.Telemetry.ServiceName)
	}
	if cfg.Temporal.TaskQueue != "geometry-normalization" {
		t.Errorf("unexpected task queue %s", cfg.Temporal.TaskQueue)
	}
	if cfg.Editor.SessionTTL != 3600 {
		t.Errorf("expected session ttl 3600, got %d", cfg.Editor.SessionTTL)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HEARINGGEO_SERVER_PORT", "9090")
	t.Setenv("HEARINGGEO_MAP_ZOOM", "13")

	cfg, err := Load("hearinggeo-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Map.Zoom != 13 {
		t.Errorf("expected zoom 13, got %d", cfg.Map.Zoom)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"server.port", "database.host", "nats.url", "editor.session_ttl", "map.tile_url"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}
