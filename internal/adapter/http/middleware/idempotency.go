package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks responses served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	defaultIdempotencyTTL = 24 * time.Hour
)

// releaser is implemented by stores that can drop a pending key so a failed
// request may be retried with the same key.
type releaser interface {
	Release(ctx context.Context, key string) error
}

// IdempotencyMiddleware replays the stored response of a mutating request
// that was already served under the same Idempotency-Key.
type IdempotencyMiddleware struct {
	store  usecase.IdempotencyStore
	ttl    time.Duration
	logger zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A zero ttl
// keeps responses for 24 hours.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, logger zerolog.Logger) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyMiddleware{
		store:  store,
		ttl:    ttl,
		logger: logger.With().Str("component", "idempotency").Logger(),
	}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		key = scopedKey(r, key)

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			m.logger.Error().Err(err).Str("path", r.URL.Path).Msg("idempotency check failed")
			writeError(w, http.StatusInternalServerError, string(domain.KindInternal), "idempotency check failed")
			return
		}

		if exists {
			if string(cached) == usecase.IdempotencyPending || len(cached) == 0 {
				writeError(w, http.StatusConflict, string(domain.KindConflict), "a request with this idempotency key is still in progress")
				return
			}
			replay(w, cached)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// The request context may already be cancelled once the client is gone.
		ctx := context.WithoutCancel(r.Context())
		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			stored, err := json.Marshal(storedResponse{Status: recorder.statusCode, Body: recorder.body.Bytes()})
			if err == nil {
				err = m.store.Update(ctx, key, stored, m.ttl)
			}
			if err != nil {
				m.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("failed to store idempotent response")
			}
			return
		}

		if rel, ok := m.store.(releaser); ok {
			if err := rel.Release(ctx, key); err != nil {
				m.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("failed to release idempotency key")
			}
		}
	})
}

// storedResponse is what the store keeps for a completed request.
type storedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

func replay(w http.ResponseWriter, cached []byte) {
	var resp storedResponse
	if err := json.Unmarshal(cached, &resp); err != nil || resp.Status == 0 {
		resp = storedResponse{Status: http.StatusOK, Body: cached}
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(IdempotencyReplayHeader, "true")
	w.WriteHeader(resp.Status)
	w.Write(resp.Body)
}

// scopedKey keeps keys of different callers and endpoints apart.
func scopedKey(r *http.Request, key string) string {
	userID := "anonymous"
	if user, ok := domain.UserFromContext(r.Context()); ok && user != nil {
		userID = user.ID
	}
	return userID + ":" + r.Method + ":" + r.URL.Path + ":" + key
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
