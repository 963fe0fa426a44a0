package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	API        APIConfig
	Channel    ChannelConfig
	Moderation ModerationConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type APIConfig struct {
	RateLimitMessagesPerSec int
}

type ChannelConfig struct {
	ID string
}

type ModerationConfig struct {
	AdminIDs          []int64
	QueueCeiling      int
	SubmitterQuota    int
	RetentionDays     int
	SeverityThreshold int
	NameMinLen        int
	NameMaxLen        int
	ProfileCacheSize  int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "relay"),
			Password: getEnv("DB_PASSWORD", "relay_password"),
			DBName:   getEnv("DB_NAME", "relay_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-this-secret-key"),
			ExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 168),
		},
		API: APIConfig{
			RateLimitMessagesPerSec: getEnvInt("RATE_LIMIT_MESSAGES_PER_SECOND", 10),
		},
		Channel: ChannelConfig{
			ID: getEnv("CHANNEL_ID", ""),
		},
		Moderation: ModerationConfig{
			AdminIDs:          parseAdminIDs(getEnv("ADMIN_USER_IDS", "")),
			QueueCeiling:      getEnvInt("QUEUE_CEILING", 100),
			SubmitterQuota:    getEnvInt("SUBMITTER_QUOTA", 5),
			RetentionDays:     getEnvInt("RETENTION_DAYS", 7),
			SeverityThreshold: getEnvInt("SEVERITY_THRESHOLD", 3),
			NameMinLen:        getEnvInt("NAME_MIN_LEN", 3),
			NameMaxLen:        getEnvInt("NAME_MAX_LEN", 20),
			ProfileCacheSize:  getEnvInt("PROFILE_CACHE_SIZE", 1024),
		},
	}

	// Validate required fields
	if cfg.JWT.Secret == "change-this-secret-key" && cfg.Server.Env == "production" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}
	if len(cfg.Moderation.AdminIDs) == 0 && cfg.Server.Env == "production" {
		return nil, fmt.Errorf("ADMIN_USER_IDS must be set in production")
	}

	return cfg, nil
}

// IsAdmin reports whether the user is on the static admin allow-list
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Moderation.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func parseAdminIDs(raw string) []int64 {
	if raw == "" {
		return nil
	}
	ids := []int64{}
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}
