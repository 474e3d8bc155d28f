// README: Smoke runner; executes HTTP/Redis checks against a running deployment and prints results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	runner := NewRunner(cfg)
	results := runner.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	pass, fail, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			pass++
		case StatusFail:
			fail++
		case StatusSkip:
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)

	if fail > 0 || (cfg.Strict && skipped > 0) {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL        string
	RedisAddr      string
	RateLimitCheck bool
	RateLimitMax   int
	Submit         bool
	SubmitEmail    string
	Strict         bool
	Timeout        time.Duration
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("TTR_SMOKE_BASE_URL", "http://localhost:8080"), "API base URL")
	flag.StringVar(&cfg.RedisAddr, "redis", os.Getenv("TTR_REDIS_ADDR"), "Redis address (empty skips the check)")
	flag.BoolVar(&cfg.RateLimitCheck, "check-rate-limit", envOrDefaultBool("TTR_SMOKE_CHECK_RATE_LIMIT", false), "Send requests until the API answers 429")
	flag.IntVar(&cfg.RateLimitMax, "rate-limit-max", envOrDefaultInt("TTR_RATE_LIMIT_MAX", 3), "Configured requests per window")
	flag.BoolVar(&cfg.Submit, "submit", envOrDefaultBool("TTR_SMOKE_SUBMIT", false), "Submit a real inquiry (sends email)")
	flag.StringVar(&cfg.SubmitEmail, "submit-email", os.Getenv("TTR_SMOKE_EMAIL"), "Customer address for -submit")
	flag.BoolVar(&cfg.Strict, "strict", envOrDefaultBool("TTR_SMOKE_STRICT", false), "Fail on skipped checks")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("TTR_SMOKE_TIMEOUT", 60*time.Second), "Total timeout")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
