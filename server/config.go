package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const configName = "arena.cfg.json"

// Config is the resolved host configuration
type Config struct {
	Listen        string
	TickRate      int
	BroadcastRate int
	PublicURL     string

	LevelPath string
	SpawnX    float64
	SpawnZ    float64
	Seed      uint64

	DBPath string

	PasswordHash string
	TokenTTL     time.Duration

	LogLevel  string
	LogFormat string

	Invulnerable bool
	NoBotFire    bool
}

// LoadConfig sets defaults, reads arena.cfg.json from configDir if present
// and applies ARENA_* environment overrides
func LoadConfig(configDir string) error {
	viper.SetDefault("listen", ":8080")
	viper.SetDefault("tickRate", 60)
	viper.SetDefault("broadcastRate", 30)
	viper.SetDefault("publicURL", "")

	viper.SetDefault("level.path", "")
	viper.SetDefault("level.spawnX", 0.0)
	viper.SetDefault("level.spawnZ", 0.0)
	viper.SetDefault("level.seed", 1)

	viper.SetDefault("db.path", "arena.db")

	viper.SetDefault("auth.passwordHash", "")
	viper.SetDefault("auth.tokenTTL", "12h")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")

	viper.SetDefault("cheats.invulnerable", false)
	viper.SetDefault("cheats.noBotFire", false)

	viper.SetEnvPrefix("ARENA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(configName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// CurrentConfig resolves the loaded settings into a Config
func CurrentConfig() (Config, error) {
	c := Config{
		Listen:        viper.GetString("listen"),
		TickRate:      viper.GetInt("tickRate"),
		BroadcastRate: viper.GetInt("broadcastRate"),
		PublicURL:     viper.GetString("publicURL"),
		LevelPath:     viper.GetString("level.path"),
		SpawnX:        viper.GetFloat64("level.spawnX"),
		SpawnZ:        viper.GetFloat64("level.spawnZ"),
		Seed:          viper.GetUint64("level.seed"),
		DBPath:        viper.GetString("db.path"),
		PasswordHash:  viper.GetString("auth.passwordHash"),
		TokenTTL:      viper.GetDuration("auth.tokenTTL"),
		LogLevel:      viper.GetString("log.level"),
		LogFormat:     viper.GetString("log.format"),
		Invulnerable:  viper.GetBool("cheats.invulnerable"),
		NoBotFire:     viper.GetBool("cheats.noBotFire"),
	}
	if c.TickRate <= 0 {
		return c, fmt.Errorf("tickRate must be positive, got %d", c.TickRate)
	}
	if c.BroadcastRate <= 0 || c.BroadcastRate > c.TickRate {
		return c, fmt.Errorf("broadcastRate must be in 1..%d, got %d", c.TickRate, c.BroadcastRate)
	}
	if c.TickRate%c.BroadcastRate != 0 {
		return c, fmt.Errorf("broadcastRate %d does not divide tickRate %d", c.BroadcastRate, c.TickRate)
	}
	if c.TokenTTL <= 0 {
		return c, fmt.Errorf("auth.tokenTTL must be positive, got %s", c.TokenTTL)
	}
	return c, nil
}

// TickInterval is the wall time between simulation ticks
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// BroadcastEvery is the number of ticks between snapshots. CurrentConfig
// only accepts broadcast rates that divide the tick rate.
func (c Config) BroadcastEvery() int {
	return c.TickRate / c.BroadcastRate
}
