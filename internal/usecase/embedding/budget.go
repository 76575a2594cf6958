// Package embedding decorates the embedding provider with token budget
// enforcement and observability.
package embedding

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/stylerank/internal/domain"
)

// Action decides what happens when the budget runs out.
type Action int

const (
	// ActionWarn logs and lets the request through.
	ActionWarn Action = iota
	// ActionReject fails the request with domain.ErrBudgetExceeded.
	ActionReject
)

// ParseAction maps a config string to an Action. Empty means warn.
func ParseAction(s string) (Action, error) {
	switch s {
	case "", "warn":
		return ActionWarn, nil
	case "reject":
		return ActionReject, nil
	default:
		return 0, fmt.Errorf("unknown budget action %q", s)
	}
}

// CounterStore persists the daily token counter so restarts keep the count.
type CounterStore interface {
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	GetInt64(ctx context.Context, key string) (int64, error)
	ExpireNX(ctx context.Context, key string, ttl time.Duration) error
}

// counterTTL keeps yesterday's key around long enough to survive clock skew.
const counterTTL = 48 * time.Hour

// BudgetTracker enforces a daily embedding token budget. The in-memory
// counter is authoritative for Check; the store write-behind only survives
// restarts.
type BudgetTracker struct {
	provider   string
	keyPrefix  string
	dailyLimit int64 // 0 = unlimited
	action     Action
	used       atomic.Int64
	day        atomic.Value // string, current UTC day
	store      CounterStore
	logger     *zap.Logger
}

// NewBudgetTracker creates a tracker. dailyLimit of 0 disables enforcement
// but still counts usage.
func NewBudgetTracker(provider, keyPrefix string, dailyLimit int64, action Action, logger *zap.Logger) *BudgetTracker {
	t := &BudgetTracker{
		provider:   provider,
		keyPrefix:  keyPrefix,
		dailyLimit: dailyLimit,
		action:     action,
		logger:     logger,
	}
	t.day.Store(today())
	return t
}

// WithStore attaches counter persistence and loads today's count.
func (t *BudgetTracker) WithStore(ctx context.Context, store CounterStore) *BudgetTracker {
	t.store = store
	used, err := store.GetInt64(ctx, t.key(today()))
	if err != nil {
		t.logger.Warn("Failed to load budget counter", zap.Error(err))
		return t
	}
	t.used.Store(used)
	return t
}

// Check fails with domain.ErrBudgetExceeded when the daily budget is spent
// and the action is reject. In warn mode it only logs.
func (t *BudgetTracker) Check(_ context.Context) error {
	t.rollover()
	if t.dailyLimit <= 0 || t.used.Load() < t.dailyLimit {
		return nil
	}

	if t.action == ActionReject {
		return fmt.Errorf("provider %s used %d of %d daily tokens: %w",
			t.provider, t.used.Load(), t.dailyLimit, domain.ErrBudgetExceeded)
	}
	t.logger.Warn("Embedding token budget exceeded, allowing request",
		zap.String("provider", t.provider),
		zap.Int64("used", t.used.Load()),
		zap.Int64("limit", t.dailyLimit),
	)
	return nil
}

// Record adds consumed tokens to the counter and persists them best-effort.
func (t *BudgetTracker) Record(ctx context.Context, tokens int64) {
	if tokens <= 0 {
		return
	}
	t.rollover()
	t.used.Add(tokens)

	if t.store == nil {
		return
	}
	key := t.key(today())
	if _, err := t.store.IncrBy(ctx, key, tokens); err != nil {
		t.logger.Warn("Failed to persist budget counter", zap.Error(err))
		return
	}
	if err := t.store.ExpireNX(ctx, key, counterTTL); err != nil {
		t.logger.Warn("Failed to set budget counter TTL", zap.Error(err))
	}
}

// Remaining reports tokens left today; -1 means unlimited.
func (t *BudgetTracker) Remaining() int64 {
	if t.dailyLimit <= 0 {
		return -1
	}
	t.rollover()
	left := t.dailyLimit - t.used.Load()
	if left < 0 {
		return 0
	}
	return left
}

// rollover resets the in-memory counter on UTC day change.
func (t *BudgetTracker) rollover() {
	now := today()
	if prev := t.day.Load().(string); prev != now && t.day.CompareAndSwap(prev, now) {
		t.used.Store(0)
	}
}

func (t *BudgetTracker) key(day string) string {
	return t.keyPrefix + "budget:" + t.provider + ":" + day
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}
