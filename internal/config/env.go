package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrInvalid is wrapped by every configuration error.
var ErrInvalid = errors.New("invalid configuration")

// Config is read once from the environment at start-up.
type Config struct {
	Addr            string
	AllowedOrigins  []string
	GinMode         string
	LogLevel        string
	LogFormat       string
	SendBuffer      int
	RateLimit       float64
	RateBurst       int
	PingInterval    time.Duration
	MaxMessageBytes int64
}

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{
		Addr:            ":8000",
		GinMode:         "release",
		LogLevel:        "info",
		LogFormat:       "text",
		SendBuffer:      256,
		RateLimit:       240,
		RateBurst:       480,
		PingInterval:    30 * time.Second,
		MaxMessageBytes: 16 << 10,
	}
}

// Load overlays the process environment on top of Default.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("ALLOWED_ORIGINS"); ok {
		cfg.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup("GIN_MODE"); ok && v != "" {
		switch v {
		case "debug", "release", "test":
			cfg.GinMode = v
		default:
			return cfg, fmt.Errorf("%w: GIN_MODE=%q", ErrInvalid, v)
		}
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok && v != "" {
		cfg.LogFormat = v
	}

	var err error
	if v, ok := lookup("SEND_BUFFER"); ok {
		if cfg.SendBuffer, err = positiveInt("SEND_BUFFER", v); err != nil {
			return cfg, err
		}
	}
	if v, ok := lookup("RATE_LIMIT"); ok {
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil || f <= 0 {
			return cfg, fmt.Errorf("%w: RATE_LIMIT=%q", ErrInvalid, v)
		}
		cfg.RateLimit = f
	}
	if v, ok := lookup("RATE_BURST"); ok {
		if cfg.RateBurst, err = positiveInt("RATE_BURST", v); err != nil {
			return cfg, err
		}
	}
	if v, ok := lookup("PING_INTERVAL"); ok {
		d, perr := time.ParseDuration(v)
		if perr != nil || d <= 0 {
			return cfg, fmt.Errorf("%w: PING_INTERVAL=%q", ErrInvalid, v)
		}
		cfg.PingInterval = d
	}
	if v, ok := lookup("MAX_MESSAGE_BYTES"); ok {
		n, err := positiveInt("MAX_MESSAGE_BYTES", v)
		if err != nil {
			return cfg, err
		}
		cfg.MaxMessageBytes = int64(n)
	}

	return cfg, nil
}

func positiveInt(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalid, name, v)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
