package config

import (
	"os"
	"path/filepath"
	"testing"
)

// beaconEnvVars lists all env vars that must be cleared between tests.
var beaconEnvVars = []string{
	"BEACON_PORT", "BEACON_FALLBACK_PORTS", "BEACON_MAX_EVENTS",
	"BEACON_RECENT_LIMIT", "BEACON_NATS_URL", "BEACON_LOG_LEVEL", "BEACON_LOG_FORMAT",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range beaconEnvVars {
		t.Setenv(key, "")
	}
	// Point the default config path somewhere empty so a developer's real
	// ~/.config/beacon/config.toml can't leak into tests.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name          string
		env           map[string]string
		wantErr       bool
		wantPort      int
		wantFallbacks [2]int
		wantMax       int
		wantNATSURL   string
	}{
		{
			name:          "Defaults",
			env:           map[string]string{},
			wantPort:      4000,
			wantFallbacks: [2]int{4001, 4010},
			wantMax:       1000,
		},
		{
			name: "CustomValues",
			env: map[string]string{
				"BEACON_PORT":           "5000",
				"BEACON_FALLBACK_PORTS": "5001-5005",
				"BEACON_MAX_EVENTS":     "200",
				"BEACON_NATS_URL":       "nats://localhost:4222",
			},
			wantPort:      5000,
			wantFallbacks: [2]int{5001, 5005},
			wantMax:       200,
			wantNATSURL:   "nats://localhost:4222",
		},
		{
			name:          "SinglePortFallback",
			env:           map[string]string{"BEACON_FALLBACK_PORTS": "4001"},
			wantPort:      4000,
			wantFallbacks: [2]int{4001, 4001},
			wantMax:       1000,
		},
		{
			name:    "BadPort",
			env:     map[string]string{"BEACON_PORT": "not-a-port"},
			wantErr: true,
		},
		{
			name:    "BadRange",
			env:     map[string]string{"BEACON_FALLBACK_PORTS": "4010-4001"},
			wantErr: true,
		},
		{
			name:    "ZeroMaxEvents",
			env:     map[string]string{"BEACON_MAX_EVENTS": "0"},
			wantErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load("")
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Port != tc.wantPort {
				t.Errorf("Port = %d, want %d", cfg.Port, tc.wantPort)
			}
			if cfg.FallbackStart != tc.wantFallbacks[0] || cfg.FallbackEnd != tc.wantFallbacks[1] {
				t.Errorf("fallbacks = %d-%d, want %d-%d",
					cfg.FallbackStart, cfg.FallbackEnd, tc.wantFallbacks[0], tc.wantFallbacks[1])
			}
			if cfg.MaxEvents != tc.wantMax {
				t.Errorf("MaxEvents = %d, want %d", cfg.MaxEvents, tc.wantMax)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
		})
	}
}

func TestLoad_TOMLFileAndEnvPrecedence(t *testing.T) {
	clearAllEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := []byte("port = 4100\nmax_events = 50\nnats_url = \"nats://localhost:4222\"\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	// Env overrides the file; file overrides defaults.
	t.Setenv("BEACON_PORT", "4200")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 4200 {
		t.Errorf("Port = %d, want env override 4200", cfg.Port)
	}
	if cfg.MaxEvents != 50 {
		t.Errorf("MaxEvents = %d, want file value 50", cfg.MaxEvents)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Errorf("NATSURL = %q, want file value", cfg.NATSURL)
	}
	if cfg.RecentLimit != DefaultRecentLimit {
		t.Errorf("RecentLimit = %d, want default %d", cfg.RecentLimit, DefaultRecentLimit)
	}
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	clearAllEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want default %d", cfg.Port, DefaultPort)
	}
}
