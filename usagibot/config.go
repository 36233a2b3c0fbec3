package usagibot

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig    `toml:"log"`
	Bot    BotConfig    `toml:"bot"`
	DB     DBConfig     `toml:"db"`
	Gemini GeminiConfig `toml:"gemini"`
	Spaces struct {
		Key       string `toml:"key"`
		Secret    string `toml:"secret"`
		Region    string `toml:"region"`
		Bucket    string `toml:"bucket"`
		ImageRoot string `toml:"imageroot"`
	} `toml:"spaces"`
	Game   GameConfig   `toml:"game"`
	Legacy LegacyConfig `toml:"legacy"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// GameConfig holds the gameplay tuning knobs. Timezone applies to every
// calendar calculation (check-in days, moon phase); there are no per-user
// timezones.
type GameConfig struct {
	Timezone     string `toml:"timezone"`
	ReminderHour int    `toml:"reminder_hour"`
}

// LegacyConfig points at the previous bot's document-store data for the
// one-shot import. Either a live Mongo URI or a BSON dump directory.
type LegacyConfig struct {
	MongoURI   string `toml:"mongo_uri"`
	MongoDB    string `toml:"mongo_db"`
	Collection string `toml:"collection"`
	DumpDir    string `toml:"dump_dir"`
}
