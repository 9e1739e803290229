package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTuningDefaults(t *testing.T) {
	tun, err := LoadTuning("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tun != DefaultTuning() {
		t.Errorf("empty path should give defaults, got %+v", tun)
	}
	if err := tun.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadTuningOverlay(t *testing.T) {
	path := writeTuning(t, "gravity: 2000\nplayer:\n  speed: 500\nenemy:\n  hp: 3\n")
	tun, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tun.Gravity != 2000 || tun.Player.Speed != 500 || tun.Enemy.HP != 3 {
		t.Errorf("overrides not applied: %+v", tun)
	}
	def := DefaultTuning()
	if tun.Player.DashSpeed != def.Player.DashSpeed || tun.Camera != def.Camera {
		t.Errorf("unset fields should keep defaults: %+v", tun)
	}
}

func TestLoadTuningErrors(t *testing.T) {
	cases := map[string]string{
		"negative gravity": "gravity: -1\n",
		"air control":      "player:\n  air_control: 1.5\n",
		"radius order":     "enemy:\n  attack_radius: 900\n  chase_radius: 100\n",
		"zero health":      "player:\n  max_health: 0\n",
		"bad yaml":         "gravity: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			tun, err := LoadTuning(writeTuning(t, body))
			if err == nil {
				t.Fatal("expected error")
			}
			if tun != DefaultTuning() {
				t.Error("a rejected file should fall back to defaults")
			}
		})
	}

	if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfig(t *testing.T) {
	client := t.TempDir()
	t.Setenv("GLITCHFALL_ADDR", ":9999")
	t.Setenv("GLITCHFALL_DB", "env.db")

	cfg, err := LoadConfig([]string{"-db", "flag.db", "-client", client})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("addr should come from the environment, got %q", cfg.Addr)
	}
	if cfg.DBPath != "flag.db" {
		t.Errorf("flag should beat the environment, got %q", cfg.DBPath)
	}
	if cfg.ClientDir != client {
		t.Errorf("client dir = %q, want %q", cfg.ClientDir, client)
	}

	if _, err := LoadConfig([]string{"-nope"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}
