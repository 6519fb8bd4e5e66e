package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/aidar/walking-buddies/internal/scoring"
)

// Драйверы хранилища
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig   // Настройки HTTP сервера
	Storage  StorageConfig  // Выбор хранилища журнала
	Database DatabaseConfig // Настройки подключения к БД
	Invite   InviteConfig   // Настройки подписи приглашений
	Scoring  ScoringConfig  // Правила начисления очков
	Kafka    KafkaConfig    // Публикация событий
	Stats    StatsConfig    // Фоновое обновление метрик
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port string `envconfig:"SERVER_PORT" default:"8080"`
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
}

// StorageConfig определяет, где хранится журнал
type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"postgres"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"walking_buddies"`
	Password string `envconfig:"DB_PASSWORD" default:"walking_buddies_pass"`
	Name     string `envconfig:"DB_NAME" default:"walking_buddies"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`
}

// InviteConfig содержит настройки токенов приглашений
type InviteConfig struct {
	Secret   string `envconfig:"INVITE_SECRET" required:"true"`
	TTLHours int    `envconfig:"INVITE_TTL_HOURS" default:"168"`
}

// ScoringConfig содержит правила начисления очков
type ScoringConfig struct {
	PointsPerMinute   int           `envconfig:"SCORING_POINTS_PER_MINUTE" default:"1"`
	StreakBonusPerDay int           `envconfig:"SCORING_STREAK_BONUS_PER_DAY" default:"5"`
	StreakBonusCap    int           `envconfig:"SCORING_STREAK_BONUS_CAP" default:"50"`
	StreakGraceDays   int           `envconfig:"SCORING_STREAK_GRACE_DAYS" default:"1"`
	GroupBonus        int           `envconfig:"SCORING_GROUP_BONUS" default:"20"`
	PhotoBonus        int           `envconfig:"SCORING_PHOTO_BONUS" default:"5"`
	InviteBonus       int           `envconfig:"SCORING_INVITE_BONUS" default:"50"`
	ClockSkew         time.Duration `envconfig:"SCORING_CLOCK_SKEW" default:"5m"`
	Timezone          string        `envconfig:"SCORING_TIMEZONE" default:"UTC"`
}

// KafkaConfig содержит настройки публикации событий. Пустой список брокеров отключает публикацию
type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"walking-buddies.events"`
}

// StatsConfig содержит настройки фонового обновления метрик
type StatsConfig struct {
	RefreshInterval time.Duration `envconfig:"STATS_REFRESH_INTERVAL" default:"1m"`
}

// GetTTL возвращает срок действия приглашения как time.Duration
func (i InviteConfig) GetTTL() time.Duration {
	return time.Duration(i.TTLHours) * time.Hour
}

// Rules преобразует настройки в правила движка начисления очков
func (s ScoringConfig) Rules() (scoring.Rules, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return scoring.Rules{}, fmt.Errorf("invalid SCORING_TIMEZONE %q: %w", s.Timezone, err)
	}

	return scoring.Rules{
		PointsPerMinute:   s.PointsPerMinute,
		StreakBonusPerDay: s.StreakBonusPerDay,
		StreakBonusCap:    s.StreakBonusCap,
		StreakGraceDays:   s.StreakGraceDays,
		GroupBonus:        s.GroupBonus,
		PhotoBonus:        s.PhotoBonus,
		InviteBonus:       s.InviteBonus,
		ClockSkew:         s.ClockSkew,
		Location:          loc,
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Load читает конфигурацию из переменных окружения
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	switch cfg.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	if _, err := cfg.Scoring.Rules(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
