package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/infrastructure/metrics"
)

// CachedAccountRepository serves account lookups from a Cache and falls back
// to the wrapped repository. Cache failures never fail a lookup. Cached
// accounts may be stale for up to the TTL, so posting validation reads
// through Uncached.
type CachedAccountRepository struct {
	next    AccountRepository
	cache   Cache
	ttl     time.Duration
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewCachedAccountRepository wraps next with cache. m may be nil.
func NewCachedAccountRepository(next AccountRepository, cache Cache, ttl time.Duration, logger zerolog.Logger, m *metrics.Metrics) *CachedAccountRepository {
	return &CachedAccountRepository{
		next:    next,
		cache:   cache,
		ttl:     ttl,
		logger:  logger.With().Str("component", "account_cache").Logger(),
		metrics: m,
	}
}

// Uncached returns the wrapped repository.
func (r *CachedAccountRepository) Uncached() AccountRepository {
	return r.next
}

func (r *CachedAccountRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Account, error) {
	return r.account(ctx, fmt.Sprintf("account:%s:id:%s", companyID, id), func() (*domain.Account, error) {
		return r.next.GetByID(ctx, companyID, id)
	})
}

func (r *CachedAccountRepository) GetByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	return r.account(ctx, fmt.Sprintf("account:%s:code:%s", companyID, code), func() (*domain.Account, error) {
		return r.next.GetByCode(ctx, companyID, code)
	})
}

// HasChildren always counts child rows in the wrapped repository.
func (r *CachedAccountRepository) HasChildren(ctx context.Context, companyID, accountID string) (bool, error) {
	return r.next.HasChildren(ctx, companyID, accountID)
}

// List is not cached.
func (r *CachedAccountRepository) List(ctx context.Context, companyID string, limit, offset int) ([]*domain.Account, error) {
	return r.next.List(ctx, companyID, limit, offset)
}

func (r *CachedAccountRepository) account(ctx context.Context, key string, load func() (*domain.Account, error)) (*domain.Account, error) {
	if data, ok := r.lookup(ctx, key); ok {
		var acc domain.Account
		if err := json.Unmarshal(data, &acc); err == nil {
			return &acc, nil
		}
		r.logger.Warn().Str("key", key).Msg("discarding undecodable cached account")
	}

	acc, err := load()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(acc); err == nil {
		r.store(ctx, key, data)
	}
	return acc, nil
}

func (r *CachedAccountRepository) lookup(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		r.count("hit")
		return data, true
	case errors.Is(err, ErrCacheMiss):
		r.count("miss")
	default:
		r.count("error")
		r.logger.Warn().Err(err).Str("key", key).Msg("account cache read failed")
	}
	return nil, false
}

func (r *CachedAccountRepository) store(ctx context.Context, key string, data []byte) {
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("account cache write failed")
	}
}

func (r *CachedAccountRepository) count(result string) {
	if r.metrics != nil {
		r.metrics.AccountCacheLookups.WithLabelValues(result).Inc()
	}
}
