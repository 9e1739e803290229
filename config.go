package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds process-level settings
type Config struct {
	Addr       string
	ClientDir  string
	DBPath     string
	TuningPath string
	PublicURL  string
}

// LoadConfig reads an optional .env file, then parses flags whose defaults
// come from the environment.
func LoadConfig(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	flags := flag.NewFlagSet("glitchfall", flag.ContinueOnError)
	flags.StringVar(&cfg.Addr, "addr", envOr("GLITCHFALL_ADDR", ":8080"), "HTTP listen address")
	flags.StringVar(&cfg.ClientDir, "client", envOr("GLITCHFALL_CLIENT", ""), "Path to client directory (default: ../client)")
	flags.StringVar(&cfg.DBPath, "db", envOr("GLITCHFALL_DB", "glitchfall.db"), "SQLite database path")
	flags.StringVar(&cfg.TuningPath, "tuning", envOr("GLITCHFALL_TUNING", ""), "Optional YAML file overriding gameplay constants")
	flags.StringVar(&cfg.PublicURL, "public-url", envOr("GLITCHFALL_PUBLIC_URL", "http://localhost:8080"), "Base URL used in resume links")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if cfg.ClientDir == "" {
		exe, _ := os.Executable()
		cfg.ClientDir = filepath.Join(filepath.Dir(exe), "..", "client")
		// Fallback for development
		if _, err := os.Stat(cfg.ClientDir); os.IsNotExist(err) {
			cfg.ClientDir = "../client"
		}
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// PlayerTuning overrides player movement constants (px/s)
type PlayerTuning struct {
	Speed          float64 `yaml:"speed"`
	AirControl     float64 `yaml:"air_control"`
	JumpVelocity   float64 `yaml:"jump_velocity"`
	DashSpeed      float64 `yaml:"dash_speed"`
	WallSlideSpeed float64 `yaml:"wall_slide_speed"`
	MaxHealth      int     `yaml:"max_health"`
}

// EnemyTuning overrides enemy AI constants
type EnemyTuning struct {
	DetectionRadius float64 `yaml:"detection_radius"`
	AttackRadius    float64 `yaml:"attack_radius"`
	ChaseRadius     float64 `yaml:"chase_radius"`
	WanderSpeed     float64 `yaml:"wander_speed"`
	ChaseSpeed      float64 `yaml:"chase_speed"`
	ShootCooldown   float64 `yaml:"shoot_cooldown_ms"`
	HP              int     `yaml:"hp"`
}

// CameraTuning overrides camera smoothing
type CameraTuning struct {
	Lerp      float64 `yaml:"lerp"`
	ZoomSpeed float64 `yaml:"zoom_speed"`
}

// Tuning is the set of gameplay constants a server operator may override
type Tuning struct {
	Gravity float64      `yaml:"gravity"`
	Player  PlayerTuning `yaml:"player"`
	Enemy   EnemyTuning  `yaml:"enemy"`
	Camera  CameraTuning `yaml:"camera"`
}

// DefaultTuning returns the stock constants
func DefaultTuning() Tuning {
	return Tuning{
		Gravity: WorldGravity,
		Player: PlayerTuning{
			Speed:          PlayerSpeed,
			AirControl:     PlayerAirControl,
			JumpVelocity:   PlayerJumpVelocity,
			DashSpeed:      PlayerDashSpeed,
			WallSlideSpeed: PlayerWallSlideSpeed,
			MaxHealth:      PlayerMaxHealth,
		},
		Enemy: EnemyTuning{
			DetectionRadius: EnemyDetectionRadius,
			AttackRadius:    EnemyAttackRadius,
			ChaseRadius:     EnemyChaseRadius,
			WanderSpeed:     EnemyWanderSpeed,
			ChaseSpeed:      EnemyChaseSpeed,
			ShootCooldown:   EnemyShootCooldown,
			HP:              EnemyMaxHP,
		},
		Camera: CameraTuning{
			Lerp:      CameraLerp,
			ZoomSpeed: CameraZoomSpeed,
		},
	}
}

// LoadTuning returns DefaultTuning overlaid with the YAML file at path.
// An empty path yields the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return DefaultTuning(), fmt.Errorf("parse tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return DefaultTuning(), err
	}
	return t, nil
}

// Validate rejects values that would break the simulation
func (t Tuning) Validate() error {
	switch {
	case t.Gravity <= 0:
		return fmt.Errorf("tuning: gravity must be positive, got %v", t.Gravity)
	case t.Player.Speed <= 0 || t.Player.DashSpeed <= 0 || t.Player.JumpVelocity <= 0:
		return errors.New("tuning: player speeds must be positive")
	case t.Player.AirControl <= 0 || t.Player.AirControl > 1:
		return fmt.Errorf("tuning: air_control must be in (0, 1], got %v", t.Player.AirControl)
	case t.Player.MaxHealth < 1:
		return fmt.Errorf("tuning: max_health must be at least 1, got %d", t.Player.MaxHealth)
	case t.Enemy.AttackRadius > t.Enemy.ChaseRadius:
		return errors.New("tuning: attack_radius must not exceed chase_radius")
	case t.Enemy.HP < 1:
		return fmt.Errorf("tuning: enemy hp must be at least 1, got %d", t.Enemy.HP)
	case t.Camera.Lerp <= 0 || t.Camera.Lerp > 1:
		return fmt.Errorf("tuning: camera lerp must be in (0, 1], got %v", t.Camera.Lerp)
	}
	return nil
}
