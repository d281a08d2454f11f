package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/handler/http/response"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/idempotency"
)

const (
	IdempotencyKeyHeader      = "Idempotency-Key"
	IdempotencyReplayedHeader = "Idempotency-Replayed"

	maxIdempotentBody = 1 << 20
)

// Idempotency replays the first successful response for a repeated
// Idempotency-Key. Keys are scoped to the company in the URL. Requests
// without the header pass through untouched. A key whose request fails,
// panics or cannot be stored is released so the client can retry.
func Idempotency(store idempotency.Store, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > 255 {
				response.BadRequest(w, "Idempotency-Key must be at most 255 characters", nil)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxIdempotentBody+1))
			if err != nil {
				response.BadRequest(w, "Failed to read request body", nil)
				return
			}
			if len(body) > maxIdempotentBody {
				response.Fail(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body is too large", nil)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			storeKey := chi.URLParam(r, "companyId") + ":" + key
			hash := requestHash(r, body)

			existing, reserved, err := store.Reserve(r.Context(), storeKey, hash, ttl)
			if err != nil {
				response.HandleError(w, err)
				return
			}
			if !reserved {
				switch {
				case existing.RequestHash != hash:
					response.Conflict(w, "IDEMPOTENCY_KEY_REUSED", "Idempotency-Key was already used for a different request")
				case !existing.Completed():
					response.Conflict(w, "REQUEST_IN_PROGRESS", "A request with this Idempotency-Key is still being processed")
				default:
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set(IdempotencyReplayedHeader, "true")
					w.WriteHeader(existing.StatusCode)
					_, _ = w.Write(existing.Body)
				}
				return
			}

			// The outcome is recorded even when the client has gone away.
			storeCtx := context.WithoutCancel(r.Context())
			release := func() {
				if err := store.Release(storeCtx, storeKey); err != nil {
					slog.ErrorContext(storeCtx, "Failed to release idempotency key", "key", key, "error", err)
				}
			}
			defer func() {
				if p := recover(); p != nil {
					release()
					panic(p)
				}
			}()

			var captured bytes.Buffer
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&captured)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status < 200 || status >= 300 {
				release()
				return
			}
			record := idempotency.Record{RequestHash: hash, StatusCode: status, Body: captured.Bytes()}
			if err := store.Complete(storeCtx, storeKey, record, ttl); err != nil {
				slog.ErrorContext(storeCtx, "Failed to store idempotent response", "key", key, "error", err)
				release()
			}
		})
	}
}

func requestHash(r *http.Request, body []byte) string {
	h := sha256.New()
	h.Write([]byte(r.Method))
	h.Write([]byte{0})
	h.Write([]byte(r.URL.Path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
