package config

import (
	"strings"

	"github.com/ianfinch/blog-tweet/pkg/config"
)

// Config stores environment configuration for the promotion service.
type Config struct {
	Port           string
	DatabaseURL    string
	RedisAddr      string
	RedisPassword  string
	CredentialsKey string
	KafkaBrokers   []string
	KafkaTopic     string
	SocialAPIURL   string
	BlogBaseURL    string
	ClientTag      string
	RecentWindow   int
	ServiceToken   string
}

// LoadConfig loads the service configuration from environment variables.
func LoadConfig() Config {
	return Config{
		Port:           config.GetEnv("PORT", "18090"),
		DatabaseURL:    config.RequireEnv("DATABASE_URL"),
		RedisAddr:      config.GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  config.GetEnv("REDIS_PASSWORD", ""),
		CredentialsKey: config.GetEnv("CREDENTIALS_KEY", "blog-tweet:credentials"),
		KafkaBrokers:   splitBrokers(config.GetEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:     config.GetEnv("KAFKA_TOPIC", "blog-tweet-notifications"),
		SocialAPIURL:   config.RequireEnv("SOCIAL_API_URL"),
		BlogBaseURL:    config.RequireEnv("BLOG_BASE_URL"),
		ClientTag:      config.GetEnv("CLIENT_TAG", "blog-tweet"),
		RecentWindow:   config.GetEnvInt("RECENT_WINDOW", 5),
		ServiceToken:   config.RequireEnv("SERVICE_TOKEN"),
	}
}

func splitBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}
