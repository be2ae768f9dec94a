// apps/go-server/internal/config/config.go
//
// Process configuration from the environment.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
//
// Durations use time.ParseDuration syntax ("60s", "5m").

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string // "console" for human-readable output, anything else JSON
	DBPath    string

	GracePeriod   time.Duration
	PostWinDelay  time.Duration
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	ChatMaxLen    int

	TicketSecret string
	TicketTTL    time.Duration

	ClientOrigin string
	NATSURL      string // empty disables event publishing
	ConsulAddr   string // empty disables service registration
	ServiceName  string
}

// Load reads the configuration. It fails only on values that are present
// but malformed.
func Load() (Config, error) {
	_ = godotenv.Load()

	c := Config{
		Port:         getEnv("PORT", "3001"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", ""),
		DBPath:       getEnv("DB_PATH", "./data/abalone.db"),
		TicketSecret: getEnv("TICKET_SECRET", "dev_secret_change_me"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		NATSURL:      os.Getenv("NATS_URL"),
		ConsulAddr:   os.Getenv("CONSUL_HTTP_ADDR"),
		ServiceName:  getEnv("SERVICE_NAME", "abalone"),
	}

	var err error
	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"GRACE_PERIOD", 60 * time.Second, &c.GracePeriod},
		{"POST_WIN_DELAY", 5 * time.Minute, &c.PostWinDelay},
		{"IDLE_TIMEOUT", 30 * time.Minute, &c.IdleTimeout},
		{"SWEEP_INTERVAL", time.Minute, &c.SweepInterval},
		{"TICKET_TTL", 24 * time.Hour, &c.TicketTTL},
	}
	for _, d := range durations {
		if *d.dst, err = getDuration(d.key, d.def); err != nil {
			return Config{}, err
		}
	}
	if c.ChatMaxLen, err = getInt("CHAT_MAX_LEN", 500); err != nil {
		return Config{}, err
	}
	return c, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", k, v)
	}
	return d, nil
}

func getInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: invalid number %q", k, v)
	}
	return n, nil
}
