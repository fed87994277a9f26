package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr           string
	JWTSecret          string
	ResultsBeforeClose bool

	// Vote submission rate limiting, per voter.
	VoteRateEvery time.Duration
	VoteRateBurst int

	dbName     string
	dbUser     string
	dbPassword string
	dbHost     string
	dbPort     string
}

func Load() *Config {
	return &Config{
		HTTPAddr:           getEnv("HTTP_ADDR", "0.0.0.0:8080"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		ResultsBeforeClose: getEnvBool("RESULTS_BEFORE_CLOSE", false),
		VoteRateEvery:      getEnvDuration("VOTE_RATE_EVERY", time.Second),
		VoteRateBurst:      getEnvInt("VOTE_RATE_BURST", 5),
		dbName:             os.Getenv("POSTGRES_DB"),
		dbUser:             os.Getenv("POSTGRES_USER"),
		dbPassword:         os.Getenv("POSTGRES_PASSWORD"),
		dbHost:             os.Getenv("POSTGRES_HOST"),
		dbPort:             getEnv("POSTGRES_PORT", "5432"),
	}
}

func (c *Config) DBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.dbUser, c.dbPassword, c.dbHost, c.dbPort, c.dbName)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
