package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	JWTSecret         string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPass            string
	DBName            string
	DBNameTest        string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	MinioHost         string
	MinioPort         string
	MinioUsername     string
	MinioPassword     string
	MinioUseSSL       bool
	BucketName        string
	BucketNameTest    string
	RabbitMQURL       string
	PresignExpiry     time.Duration
	RetentionDays     int
	SignedURLCacheTTL time.Duration
	AnonymousRate     float64
	AnonymousBurst    int
}

var AppConfig Config

// getEnv returns the environment value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if value == "" {
		return defaultValue
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// InitConfig loads configuration from the environment.
func InitConfig() {
	rabbitHost := getEnv("RABBITMQ_HOST", "localhost")
	rabbitPort := getEnv("RABBITMQ_PORT", "5672")
	rabbitUser := getEnv("RABBITMQ_USER", "guest")
	rabbitPass := getEnv("RABBITMQ_PASSWORD", "guest")
	rabbitVhost := getEnv("RABBITMQ_VHOST", "/")
	rabbitURL := getEnv("RABBITMQ_URL", "")
	if rabbitURL == "" {
		rabbitURL = fmt.Sprintf(
			"amqp://%s:%s@%s:%s/%s",
			url.PathEscape(rabbitUser),
			url.PathEscape(rabbitPass),
			rabbitHost,
			rabbitPort,
			url.PathEscape(rabbitVhost),
		)
	}
	AppConfig = Config{
		JWTSecret:         getEnv("JWT_SECRET", "l=ax+b"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBUser:            getEnv("DB_USER", "root"),
		DBPass:            getEnv("DB_PASS", "root"),
		DBName:            getEnv("DB_NAME", "solven"),
		DBNameTest:        getEnv("DB_NAME_TEST", "solven_test"),
		RedisHost:         getEnv("REDIS_HOST", "localhost"),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		MinioHost:         getEnv("MINIO_HOST", "localhost"),
		MinioPort:         getEnv("MINIO_PORT", "9000"),
		MinioUsername:     getEnv("MINIO_USERNAME", "minioadmin"),
		MinioPassword:     getEnv("MINIO_PASSWORD", "minioadmin"),
		MinioUseSSL:       getEnvBool("MINIO_USE_SSL", false),
		BucketName:        getEnv("BUCKET_NAME", "solven"),
		BucketNameTest:    getEnv("BUCKET_NAME_TEST", "solven-test"),
		RabbitMQURL:       rabbitURL,
		PresignExpiry:     getEnvDuration("PRESIGN_EXPIRY", time.Hour),
		RetentionDays:     getEnvInt("RETENTION_DAYS", 7),
		SignedURLCacheTTL: getEnvDuration("SIGNED_URL_CACHE_TTL", 30*time.Minute),
		AnonymousRate:     getEnvFloat("ANONYMOUS_PRESIGN_RATE", 2),
		AnonymousBurst:    getEnvInt("ANONYMOUS_PRESIGN_BURST", 10),
	}
}
