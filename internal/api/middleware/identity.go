package middleware

import (
	"context"
	"net/http"

	"github.com/fakeout-io/fakeout/internal/api/apierr"
	"github.com/fakeout-io/fakeout/internal/model"
)

type contextKey string

const connContextKey contextKey = "conn_id"

// PlayerHeader carries the connection id issued at join time.
// Connection lifecycle (handshake, reconnection) is owned by the
// transport in front of this service; here the header is the whole
// identity story.
const PlayerHeader = "X-Player-ID"

// Identity creates middleware that requires a connection id on the request
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			connID := r.Header.Get(PlayerHeader)
			if connID == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), connContextKey, model.ConnID(connID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetConnID returns the connection id from the request context
func GetConnID(ctx context.Context) model.ConnID {
	connID, _ := ctx.Value(connContextKey).(model.ConnID)
	return connID
}

// MustGetConnID returns the connection id or panics
func MustGetConnID(ctx context.Context) model.ConnID {
	connID := GetConnID(ctx)
	if connID == "" {
		panic("no connection id in context - identity middleware not applied?")
	}
	return connID
}
