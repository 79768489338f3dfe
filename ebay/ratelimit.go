package ebay

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-listings/core"
)

const (
	bucketInventory = "sell.inventory"
	bucketAccount   = "sell.account"
	bucketTrading   = "trading"
)

const defaultRetryHint = 5 * time.Second

// ThrottledError is returned by BeforeCall while a bucket is cooling down.
type ThrottledError struct {
	Bucket     string
	RetryAfter time.Duration
}

func (e ThrottledError) Error() string {
	return fmt.Sprintf("ebay: bucket %q throttled for %s", e.Bucket, e.RetryAfter)
}

func (e ThrottledError) ToServiceError() *goerrors.Error {
	return goerrors.New(e.Error(), goerrors.CategoryRateLimit).
		WithCode(http.StatusTooManyRequests).
		WithTextCode(core.ListingErrorRateLimited).
		WithMetadata(map[string]any{
			"bucket":         e.Bucket,
			"retry_after_ms": e.RetryAfter.Milliseconds(),
		})
}

type bucketState struct {
	remaining      int
	hasRemaining   bool
	resetAt        *time.Time
	throttledUntil *time.Time
	backoff        time.Duration
	lastStatus     int
}

// AdaptivePolicy tracks per-bucket rate-limit state observed from response
// headers and throttle statuses. State lives for the process only; the
// remote limit window is short enough that persistence buys nothing for a
// single-SKU CLI run.
type AdaptivePolicy struct {
	mu             sync.Mutex
	now            func() time.Time
	buckets        map[string]*bucketState
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

func NewAdaptivePolicy() *AdaptivePolicy {
	return &AdaptivePolicy{
		now:            func() time.Time { return time.Now().UTC() },
		buckets:        map[string]*bucketState{},
		initialBackoff: time.Second,
		maxBackoff:     time.Minute,
	}
}

func (p *AdaptivePolicy) BeforeCall(bucket string) error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	state, ok := p.buckets[normalizeBucket(bucket)]
	if !ok {
		return nil
	}
	now := p.now()
	if state.throttledUntil != nil && now.Before(*state.throttledUntil) {
		return ThrottledError{Bucket: normalizeBucket(bucket), RetryAfter: state.throttledUntil.Sub(now)}.ToServiceError()
	}
	if state.hasRemaining && state.remaining == 0 && state.resetAt != nil && now.Before(*state.resetAt) {
		return ThrottledError{Bucket: normalizeBucket(bucket), RetryAfter: state.resetAt.Sub(now)}.ToServiceError()
	}
	return nil
}

func (p *AdaptivePolicy) Observe(bucket string, res core.TransportResponse) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	key := normalizeBucket(bucket)
	state, ok := p.buckets[key]
	if !ok {
		state = &bucketState{}
		p.buckets[key] = state
	}
	now := p.now()
	state.lastStatus = res.StatusCode

	if remaining, ok := headerInt(res.Headers, "X-RateLimit-Remaining"); ok {
		state.remaining = remaining
		state.hasRemaining = true
	}
	if resetUnix, ok := headerInt(res.Headers, "X-RateLimit-Reset"); ok {
		resetAt := time.Unix(int64(resetUnix), 0).UTC()
		state.resetAt = &resetAt
	}

	if res.StatusCode == http.StatusTooManyRequests || res.StatusCode == http.StatusServiceUnavailable {
		retryAfter := retryAfterHint(res.Headers)
		if retryAfter <= 0 {
			state.backoff = nextBackoff(state.backoff, p.initialBackoff, p.maxBackoff)
			retryAfter = state.backoff
		}
		until := now.Add(retryAfter)
		state.throttledUntil = &until
		return
	}

	state.backoff = 0
	state.throttledUntil = nil
}

func nextBackoff(current time.Duration, initial time.Duration, max time.Duration) time.Duration {
	if current <= 0 {
		return initial
	}
	doubled := current * 2
	if doubled > max {
		return max
	}
	return doubled
}

func retryAfterHint(headers map[string]string) time.Duration {
	raw := strings.TrimSpace(headerValue(headers, "Retry-After"))
	if raw == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultRetryHint
}

func headerValue(headers map[string]string, key string) string {
	for name, value := range headers {
		if strings.EqualFold(strings.TrimSpace(name), key) {
			return value
		}
	}
	return ""
}

func headerInt(headers map[string]string, key string) (int, bool) {
	raw := strings.TrimSpace(headerValue(headers, key))
	if raw == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func normalizeBucket(bucket string) string {
	return strings.TrimSpace(strings.ToLower(bucket))
}
