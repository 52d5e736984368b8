package push

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type TokenSource interface {
	StaffTokens(ctx context.Context) ([]string, error)
	TokensForUser(ctx context.Context, userID string) ([]string, error)
}

// Result adalah agregat multicast: tiap token punya outcome independen.
// Token yang gagal cuma dicatat, tidak dihapus dari registry.
type Result struct {
	TotalTokens  int      `json:"total_tokens"`
	SuccessCount int      `json:"success_count"`
	FailureCount int      `json:"failure_count"`
	FailedTokens []string `json:"failed_tokens,omitempty"`
}

func (r *Result) NoRecipients() bool { return r.TotalTokens == 0 }

type Dispatcher struct {
	Tokens  TokenSource
	Gateway Gateway

	// Parallel membatasi fan-out; token bisa banyak, jangan buka
	// koneksi sebanyak itu sekaligus.
	Parallel    int
	SendTimeout time.Duration
}

// NotifyStaff: broadcast ke semua device milik staff (dipakai waktu
// ada order baru).
func (d *Dispatcher) NotifyStaff(ctx context.Context, msg Message) (*Result, error) {
	tokens, err := d.Tokens.StaffTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve staff tokens: %w", err)
	}
	return d.send(ctx, tokens, msg), nil
}

// NotifyUser: semua device milik satu user (self-test staff).
func (d *Dispatcher) NotifyUser(ctx context.Context, userID string, msg Message) (*Result, error) {
	tokens, err := d.Tokens.TokensForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve user tokens: %w", err)
	}
	return d.send(ctx, tokens, msg), nil
}

func (d *Dispatcher) send(ctx context.Context, tokens []string, msg Message) *Result {
	tokens = dedupe(tokens)
	res := &Result{TotalTokens: len(tokens)}
	if len(tokens) == 0 {
		return res
	}

	parallel := d.Parallel
	if parallel <= 0 {
		parallel = 8
	}
	timeout := d.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(parallel)
	for _, token := range tokens {
		token := token
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(ctx, timeout)
			err := d.Gateway.Send(sctx, token, msg)
			cancel()

			mu.Lock()
			if err != nil {
				// timeout dihitung gagal, bukan "unknown"
				res.FailureCount++
				res.FailedTokens = append(res.FailedTokens, token)
			} else {
				res.SuccessCount++
			}
			mu.Unlock()
			return nil // satu token gagal jangan menghentikan yang lain
		})
	}
	_ = g.Wait()

	if res.FailureCount > 0 {
		log.Printf("push: %d/%d token gagal: %s", res.FailureCount, res.TotalTokens, strings.Join(res.FailedTokens, ", "))
	}
	return res
}

// dedupe by token value: satu token maksimal terima satu pesan walau
// ada row duplikat. Urutan asal dipertahankan.
func dedupe(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
