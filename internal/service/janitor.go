package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"roomhub/internal/domain"
)

// TokenJanitor periodically removes expired refresh-token rows.
type TokenJanitor struct {
	tokens   domain.TokenRepository
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func NewTokenJanitor(tokens domain.TokenRepository, interval time.Duration, l *zap.Logger) *TokenJanitor {
	return &TokenJanitor{tokens: tokens, interval: interval, log: l, now: time.Now}
}

// Run prunes once immediately and then every interval until ctx is done.
// A non-positive interval disables the janitor.
func (j *TokenJanitor) Run(ctx context.Context) {
	if j.interval <= 0 {
		return
	}
	j.runOnce(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *TokenJanitor) runOnce(ctx context.Context) {
	n, err := j.tokens.PruneExpired(ctx, j.now())
	if err != nil {
		if ctx.Err() == nil {
			j.log.Error("prune refresh tokens", zap.Error(err))
		}
		return
	}
	tokensPruned.Add(float64(n))
	if n > 0 {
		j.log.Info("pruned refresh tokens", zap.Int64("removed", n))
	}
}
