//go:build ignore

// smoke-accounts.go drives a running roster API end to end through the Go SDK:
// signup (with and without a chosen nickname), login, profile updates, the
// professional flag, listing, and teardown. Run it against a dev stack that has
// been migrated and seeded (cmd/migrate, cmd/seed).
//
// Run with: go run scripts/smoke-accounts.go
package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rosterhq/roster/pkg/client"
)

const (
	defaultBaseURL = "http://localhost:8080"
	accountCount   = 8 // throwaway accounts created per run
	workerCount    = 4

	// Seeded by cmd/seed.
	adminEmail    = "admin@rosterhq.dev"
	adminPassword = "Roster_dev1"
)

type result struct {
	step    string
	email   string
	err     string
	latency time.Duration
}

func ptr(s string) *string { return &s }

func main() {
	baseURL := os.Getenv("ROSTER_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Admin session for the staff- and admin-only steps.
	admin := client.MustNew(baseURL, client.WithCacheTTL(30*time.Second))
	start := time.Now()
	if _, err := admin.Login(ctx, adminEmail, adminPassword); err != nil {
		fmt.Fprintf(os.Stderr, "admin login failed — is the API up and seeded? %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  admin session established (%dms)\n\n", time.Since(start).Milliseconds())

	// ── Concurrent signups ────────────────────────────────────────────────────
	type job struct {
		idx      int
		nickname *string // nil → server assigns one
	}

	jobs := make(chan job, accountCount)
	results := make(chan result, accountCount*4)
	created := make(chan string, accountCount) // account IDs for teardown

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				runAccountFlow(ctx, baseURL, j.idx, j.nickname, results, created)
			}
		}()
	}

	runID := time.Now().Unix()
	for i := 0; i < accountCount; i++ {
		var nick *string
		if i%2 == 0 {
			nick = ptr(fmt.Sprintf("smoke_%d_%02d", runID, i))
		}
		jobs <- job{idx: i, nickname: nick}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(created)
		close(results)
	}()

	// Teardown as the results stream in.
	var ids []string
	for id := range created {
		ids = append(ids, id)
	}

	var failures []result
	passed := 0
	for r := range results {
		if r.err != "" {
			failures = append(failures, r)
		} else {
			passed++
		}
	}

	// ── Staff and admin steps ─────────────────────────────────────────────────
	if page, err := admin.ListUsers(ctx, 1, 50); err != nil {
		failures = append(failures, result{step: "list", err: err.Error()})
	} else {
		passed++
		fmt.Printf("  listing: %d accounts total\n", page.Total)
	}

	for _, id := range ids {
		if _, err := admin.UpdateUser(ctx, id, client.UpdateUserRequest{Bio: ptr("smoke-test account")}); err != nil {
			failures = append(failures, result{step: "update", email: id, err: err.Error()})
		} else {
			passed++
		}
		if _, err := admin.SetProfessionalStatus(ctx, id, true); err != nil {
			failures = append(failures, result{step: "professional", email: id, err: err.Error()})
		} else {
			passed++
		}
		if err := admin.DeleteUser(ctx, id); err != nil {
			failures = append(failures, result{step: "delete", email: id, err: err.Error()})
		} else {
			passed++
		}
	}

	// ── Report ────────────────────────────────────────────────────────────────
	fmt.Printf("\n══════════════════════════════════════════════════════\n")
	fmt.Printf("  roster API smoke results — %s\n", baseURL)
	fmt.Printf("  accounts: %d  |  steps passed: %d  |  failed: %d\n", accountCount, passed, len(failures))
	fmt.Printf("══════════════════════════════════════════════════════\n")

	if len(failures) == 0 {
		fmt.Println("  all steps passed")
		return
	}
	for _, f := range failures {
		fmt.Printf("  ✗ %-12s %-28s %s\n", f.step, f.email, f.err)
	}
	os.Exit(1)
}

// runAccountFlow creates one account and proves the fresh credentials
// work: signup, login, then a session-backed /auth/me round trip.
func runAccountFlow(ctx context.Context, baseURL string, idx int, nick *string, results chan<- result, created chan<- string) {
	c := client.MustNew(baseURL)
	email := fmt.Sprintf("smoke+%d-%02d@rosterhq.dev", time.Now().Unix(), idx)
	password := "Smoke_run1"

	start := time.Now()
	u, err := c.CreateUser(ctx, client.CreateUserRequest{
		Email:    email,
		Nickname: nick,
		Role:     "AUTHENTICATED",
		Password: password,
	})
	if err != nil {
		results <- result{step: "signup", email: email, err: err.Error(), latency: time.Since(start)}
		return
	}
	if u.Nickname == "" {
		results <- result{step: "signup", email: email, err: "no nickname assigned"}
		return
	}
	results <- result{step: "signup", email: email, latency: time.Since(start)}
	created <- u.ID

	start = time.Now()
	if _, err := c.Login(ctx, email, password); err != nil {
		results <- result{step: "login", email: email, err: err.Error(), latency: time.Since(start)}
		return
	}
	results <- result{step: "login", email: email, latency: time.Since(start)}

	start = time.Now()
	if _, err := c.Me(ctx); err != nil {
		results <- result{step: "me", email: email, err: err.Error(), latency: time.Since(start)}
		return
	}
	results <- result{step: "me", email: email, latency: time.Since(start)}
}
