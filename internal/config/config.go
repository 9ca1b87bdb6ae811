package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by STATION_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("STATION_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// AgentDataFile returns the path of the registry's durable JSON file.
func AgentDataFile() string {
	p := os.Getenv("AGENT_DATA_FILE")
	if p == "" {
		return "data/agents.json"
	}
	return p
}

// PingInterval returns the delay between liveness probe sweeps.
// Defaults to 3 seconds.
func PingInterval() time.Duration {
	secs, err := strconv.Atoi(os.Getenv("PING_INTERVAL_SECONDS"))
	if err != nil || secs <= 0 {
		return 3 * time.Second
	}
	return time.Duration(secs) * time.Second
}

// ProbeTimeout returns the per-probe timeout. Defaults to 2 seconds and
// is expected to stay below PingInterval so a stuck agent degrades to
// inactive instead of stalling the sweep.
func ProbeTimeout() time.Duration {
	secs, err := strconv.Atoi(os.Getenv("PROBE_TIMEOUT_SECONDS"))
	if err != nil || secs <= 0 {
		return 2 * time.Second
	}
	return time.Duration(secs) * time.Second
}

// DatabaseURL returns the Postgres URL for the chat log store.
// Empty means chat history is disabled.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
