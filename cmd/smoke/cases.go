// README: Smoke checks for health, method/content-type gates, validation, estimates, Redis and rate limiting.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ttrentals/internal/infra"
)

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

// reply is a decoded API response.
type reply struct {
	status int
	header http.Header
	body   map[string]any
	raw    string
}

func (r *Runner) do(ctx context.Context, method, path, contentType, body string) (reply, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, strings.NewReader(body))
	if err != nil {
		return reply{}, 0, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return reply{}, 0, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	out := reply{status: resp.StatusCode, header: resp.Header, raw: string(b)}
	_ = json.Unmarshal(b, &out.body)
	return out, time.Since(start), nil
}

func (r *Runner) postJSON(ctx context.Context, path string, payload any) (reply, time.Duration, error) {
	b, _ := json.Marshal(payload)
	return r.do(ctx, http.MethodPost, path, "application/json", string(b))
}

// expect runs one request and passes when the status matches.
func expect(method, path, contentType, body string, want int, check func(reply) string) func(context.Context, *Runner) Result {
	return func(ctx context.Context, r *Runner) Result {
		rep, lat, err := r.do(ctx, method, path, contentType, body)
		if err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
		if rep.status != want {
			return Result{Status: StatusFail, Latency: lat, Note: fmt.Sprintf("status=%d want=%d body=%s", rep.status, want, rep.raw)}
		}
		if check != nil {
			if note := check(rep); note != "" {
				return Result{Status: StatusFail, Latency: lat, Note: note}
			}
		}
		return Result{Status: StatusPass, Latency: lat}
	}
}

func ownTruckRental() map[string]string {
	// Explicit offsets keep the span at exactly 24h across DST changes.
	pickup := time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Hour)
	return map[string]string{
		"deliveryOption": "ownTruck",
		"pickupDate":     pickup.Format(time.RFC3339),
		"deliveryDate":   pickup.Add(24 * time.Hour).Format(time.RFC3339),
	}
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{
			Name: "Health: GET /health",
			Run: expect(http.MethodGet, "/health", "", "", http.StatusOK, func(rep reply) string {
				if strings.TrimSpace(rep.raw) != "OK" {
					return "body=" + rep.raw
				}
				return ""
			}),
		},
		{
			Name: "Gate: GET on inquiry -> 405",
			Run: expect(http.MethodGet, "/api/submit-trailer-inquiry", "", "", http.StatusMethodNotAllowed, func(rep reply) string {
				if rep.body["message"] != "Method Not Allowed" {
					return "body=" + rep.raw
				}
				return ""
			}),
		},
		{
			Name: "Gate: form body -> 415",
			Run:  expect(http.MethodPost, "/api/submit-trailer-inquiry", "application/x-www-form-urlencoded", "name=x", http.StatusUnsupportedMediaType, nil),
		},
		{
			Name: "Validation: empty object -> 400 with field errors",
			Run: expect(http.MethodPost, "/api/submit-trailer-inquiry", "application/json", "{}", http.StatusBadRequest, func(rep reply) string {
				fields, _ := rep.body["errors"].(map[string]any)
				for _, f := range []string{"name", "email", "phone", "pickupDate"} {
					if _, ok := fields[f]; !ok {
						return "missing error for " + f
					}
				}
				return ""
			}),
		},
		{
			Name: "Estimate: own truck, one day",
			Run: func(ctx context.Context, r *Runner) Result {
				rep, lat, err := r.postJSON(ctx, "/api/estimate", ownTruckRental())
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if rep.status != http.StatusOK {
					return Result{Status: StatusFail, Latency: lat, Note: fmt.Sprintf("status=%d body=%s", rep.status, rep.raw)}
				}
				if rep.body["days"] != float64(1) || rep.body["total"] != 140.73 {
					return Result{Status: StatusFail, Latency: lat, Note: "body=" + rep.raw}
				}
				return Result{Status: StatusPass, Latency: lat, Note: "total=140.73"}
			},
		},
		{
			Name: "Inquiry: submit (sends email)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.Submit {
					return Result{Status: StatusSkip, Note: "submit=false"}
				}
				if r.cfg.SubmitEmail == "" {
					return Result{Status: StatusFail, Note: "submit-email not set"}
				}
				body := map[string]string{
					"name":           "Smoke Test",
					"phone":          "(555) 555-0100",
					"email":          r.cfg.SubmitEmail,
					"trailer-select": "14900-lbs-dump-trailer",
					"additionalInfo": "Automated smoke test, please ignore.",
				}
				for k, v := range ownTruckRental() {
					body[k] = v
				}
				rep, lat, err := r.postJSON(ctx, "/api/submit-trailer-inquiry", body)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if rep.status != http.StatusOK || rep.body["success"] != true {
					return Result{Status: StatusFail, Latency: lat, Note: fmt.Sprintf("status=%d body=%s", rep.status, rep.raw)}
				}
				return Result{Status: StatusPass, Latency: lat, Note: fmt.Sprintf("id=%v", rep.body["inquiryId"])}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.cfg.RedisAddr == "" {
					return Result{Status: StatusSkip, Note: "redis not configured"}
				}
				start := time.Now()
				rdb, err := infra.ConnectRedis(ctx, r.cfg.RedisAddr, 3*time.Second)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				_ = rdb.Close()
				return Result{Status: StatusPass, Latency: time.Since(start)}
			},
		},
		{
			Name: "RateLimit: burst -> 429",
			Run:  rateLimitBurst,
		},
	}
}

// rateLimitBurst posts invalid inquiries until the submit limiter answers 429.
// Invalid bodies still count and never send mail. Earlier checks may already
// have used part of the window.
func rateLimitBurst(ctx context.Context, r *Runner) Result {
	if !r.cfg.RateLimitCheck {
		return Result{Status: StatusSkip, Note: "check-rate-limit=false"}
	}
	for i := 0; i <= r.cfg.RateLimitMax; i++ {
		rep, _, err := r.postJSON(ctx, "/api/submit-trailer-inquiry", map[string]string{})
		if err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
		if rep.status == http.StatusTooManyRequests {
			return Result{Status: StatusPass, Note: fmt.Sprintf("limited after %d requests, Retry-After=%s", i+1, rep.header.Get("Retry-After"))}
		}
	}
	return Result{Status: StatusFail, Note: fmt.Sprintf("no 429 after %d requests", r.cfg.RateLimitMax+1)}
}
