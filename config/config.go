package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// Service
	ServerPort  string `env:"SERVER_PORT" envDefault:"5300"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName string `env:"SERVICE_NAME" envDefault:"gamification"`

	// Postgres
	DatabaseURL string `env:"DATABASE_URL"`

	// Redis (status snapshot cache; optional; empty addr disables caching)
	RedisAddr     string `env:"REDIS_ADDR" envDefault:""`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"gamify"`

	// Gateway auth
	ServiceToken string `env:"GAMIFICATION_SERVICE_TOKEN"`

	// Finance service (stats mirror sync)
	FinanceServiceURL  string `env:"FINANCE_SERVICE_URL"`
	FinanceStatsPath   string `env:"FINANCE_STATS_PATH" envDefault:"/api/v1/internal/activity-stats"`
	StatsSyncSeconds   int    `env:"STATS_SYNC_SECONDS" envDefault:"60"`

	// Gamification policy knobs. The heart schedule in particular is a product
	// decision, so everything lives here rather than in code.
	QuestHeartBonus         int `env:"QUEST_HEART_BONUS" envDefault:"2"`
	StreakBreakHeartPenalty int `env:"STREAK_BREAK_HEART_PENALTY" envDefault:"5"`
	HeartDecayAmount        int `env:"HEART_DECAY_AMOUNT" envDefault:"1"`
	HeartDecayAfterDays     int `env:"HEART_DECAY_AFTER_DAYS" envDefault:"3"`
	MaxAchievementPasses    int `env:"MAX_ACHIEVEMENT_PASSES" envDefault:"3"`
	LockRetries             int `env:"LOCK_RETRIES" envDefault:"3"`
	StatusCacheSeconds      int `env:"STATUS_CACHE_SECONDS" envDefault:"60"`

	// Logging
	LoggerLevel  string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads .env (if present) and parses the environment into Cfg.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
}
