package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig - HTTP и websocket листенер.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// AllowedOrigin уходит в Access-Control-Allow-Origin и проверяется при апгрейде ("*" - любой).
	AllowedOrigin   string        `mapstructure:"allowed_origin"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SessionConfig - параметры живости и буферов соединений.
type SessionConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PingTimeout    time.Duration `mapstructure:"ping_timeout"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	SendBuffer     int           `mapstructure:"send_buffer"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

// WorldConfig - генерация подземелья и стартовые условия.
type WorldConfig struct {
	// Seed 0 значит "случайно при старте".
	Seed        int64 `mapstructure:"seed"`
	Width       int   `mapstructure:"width"`
	Height      int   `mapstructure:"height"`
	MinRoomSize int   `mapstructure:"min_room_size"`
	MaxRoomSize int   `mapstructure:"max_room_size"`
	MaxRooms    int   `mapstructure:"max_rooms"`
	StarterKit  bool  `mapstructure:"starter_kit"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ArchiveConfig - где хранятся записи отключившихся игроков.
type ArchiveConfig struct {
	Backend       string        `mapstructure:"backend"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// JournalConfig - бинарный журнал принятых команд.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Config - корневая конфигурация процесса.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Session SessionConfig `mapstructure:"session"`
	World   WorldConfig   `mapstructure:"world"`
	Logging LoggingConfig `mapstructure:"logging"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Journal JournalConfig `mapstructure:"journal"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// Validate проверяет все инварианты и возвращает сразу все нарушения.
func (c Config) Validate() error {
	return errors.Join(
		validateServer(c.Server),
		validateSession(c.Session),
		validateWorld(c.World),
		validateLogging(c.Logging),
		validateArchive(c.Archive),
		validateJournal(c.Journal),
	)
}

func validateServer(s ServerConfig) error {
	var errs []error
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be 1-65535, got %d", s.Port))
	}
	if s.AllowedOrigin == "" {
		errs = append(errs, errors.New("server.allowed_origin must not be empty"))
	}
	if s.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}
	return errors.Join(errs...)
}

func validateSession(s SessionConfig) error {
	var errs []error
	if s.PingInterval <= 0 {
		errs = append(errs, errors.New("session.ping_interval must be positive"))
	}
	if s.PingTimeout <= 0 {
		errs = append(errs, errors.New("session.ping_timeout must be positive"))
	}
	if s.WriteWait <= 0 {
		errs = append(errs, errors.New("session.write_wait must be positive"))
	}
	if s.SendBuffer < 1 {
		errs = append(errs, fmt.Errorf("session.send_buffer must be >= 1, got %d", s.SendBuffer))
	}
	if s.MaxMessageSize < 64 {
		errs = append(errs, fmt.Errorf("session.max_message_size must be >= 64, got %d", s.MaxMessageSize))
	}
	return errors.Join(errs...)
}

func validateWorld(w WorldConfig) error {
	var errs []error
	if w.MinRoomSize < 1 {
		errs = append(errs, fmt.Errorf("world.min_room_size must be >= 1, got %d", w.MinRoomSize))
	}
	if w.MinRoomSize > w.MaxRoomSize {
		errs = append(errs, errors.New("world.min_room_size must not exceed world.max_room_size"))
	}
	if w.MaxRooms < 1 {
		errs = append(errs, fmt.Errorf("world.max_rooms must be >= 1, got %d", w.MaxRooms))
	}
	if w.MaxRoomSize+2 > w.Width || w.MaxRoomSize+2 > w.Height {
		errs = append(errs, fmt.Errorf("world %dx%d cannot fit a room of %d", w.Width, w.Height, w.MaxRoomSize))
	}
	return errors.Join(errs...)
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats := map[string]bool{"json": true, "text": true}
	var errs []error
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Errorf("logging.format must be one of [json, text], got %q", l.Format))
	}
	return errors.Join(errs...)
}

func validateArchive(a ArchiveConfig) error {
	switch a.Backend {
	case "memory":
		return nil
	case "redis":
		var errs []error
		if a.RedisAddr == "" {
			errs = append(errs, errors.New("archive.redis_addr must not be empty for the redis backend"))
		}
		if a.TTL < 0 {
			errs = append(errs, errors.New("archive.ttl must not be negative"))
		}
		return errors.Join(errs...)
	}
	return fmt.Errorf("archive.backend must be one of [memory, redis], got %q", a.Backend)
}

func validateJournal(j JournalConfig) error {
	if j.Enabled && j.Path == "" {
		return errors.New("journal.path must not be empty when the journal is enabled")
	}
	return nil
}

// Load читает конфиг из файла (пустой путь - только значения по умолчанию),
// накладывает переменные окружения CRAWLER_* и проверяет результат.
func Load(path string) (Config, error) {
	v := viper.New()

	// CRAWLER_SERVER_PORT=9000 переопределяет server.port
	v.SetEnvPrefix("CRAWLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper собирает Config из уже настроенного экземпляра Viper.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origin", "*")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("session.ping_interval", "25s")
	v.SetDefault("session.ping_timeout", "5s")
	v.SetDefault("session.write_wait", "10s")
	v.SetDefault("session.send_buffer", 256)
	v.SetDefault("session.max_message_size", 4096)

	v.SetDefault("world.seed", 0)
	v.SetDefault("world.width", 50)
	v.SetDefault("world.height", 50)
	v.SetDefault("world.min_room_size", 4)
	v.SetDefault("world.max_room_size", 8)
	v.SetDefault("world.max_rooms", 10)
	v.SetDefault("world.starter_kit", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("archive.backend", "memory")
	v.SetDefault("archive.redis_addr", "localhost:6379")
	v.SetDefault("archive.redis_password", "")
	v.SetDefault("archive.redis_db", 0)
	v.SetDefault("archive.key_prefix", "crawler:archive:")
	v.SetDefault("archive.ttl", "24h")

	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.path", "journal.cdjl")

	v.SetDefault("metrics.enabled", true)
}
