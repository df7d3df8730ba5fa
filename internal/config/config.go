// Package config reads runtime configuration from the environment and builds
// the process-level clients: database, logger, redis lock client and kafka
// publisher. Everything except the database is optional.
package config

import (
	"log"
	"os"
	"strings"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	// TranslateError maps driver unique-violation errors to
	// gorm.ErrDuplicatedKey, which the matcher relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return db
}

func NewLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(os.Stdout)
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	return l
}

// NewLockClient returns a redis-backed lock client, or nil when REDIS_ADDR is
// not set. Callers must treat nil as "no cross-instance locking".
func NewLockClient() *redislock.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	return redislock.New(rdb)
}

// KafkaBrokers returns the comma-separated broker list, empty when kafka is
// not configured.
func KafkaBrokers() []string {
	raw := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if raw == "" {
		return nil
	}
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func KafkaTopic() string {
	if topic := os.Getenv("KAFKA_TOPIC"); topic != "" {
		return topic
	}
	return "treasury-events"
}

// BalanceFloorEnforced reports whether balance adjustments that would go
// negative should be rejected.
func BalanceFloorEnforced() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("BALANCE_FLOOR_ENFORCED")))
	return v == "1" || v == "true" || v == "yes"
}

func Port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
