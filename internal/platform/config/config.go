package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration so main stays lean. Empty
// DatabaseURL selects the in-memory stores; empty RedisURL disables the
// disclosure cache; empty KafkaBrokers disables the outbox publisher.
type Server struct {
	Addr          string
	DatabaseURL   string
	RedisURL      string
	KafkaBrokers  []string
	KafkaTopic    string
	JWTSigningKey string
}

// DisclosureCacheTTL bounds how long a cached Full-access decision is reused
// before re-reading the NDA registry. Full access never regresses, so the TTL
// only trades memory for lookups.
var DisclosureCacheTTL = 15 * time.Minute

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("RICHIDEIA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("RICHIDEIA_KAFKA_TOPIC")
	if topic == "" {
		topic = "richideia.events"
	}

	var brokers []string
	if raw := os.Getenv("RICHIDEIA_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          addr,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaBrokers:  brokers,
		KafkaTopic:    topic,
		JWTSigningKey: jwtSigningKey,
	}
}
