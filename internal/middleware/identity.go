package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/celosoul/celosoul/internal/chain"
)

type contextKey string

const identityContextKey contextKey = "identity"

// FallbackIdentity keys usage for requests with no connected wallet, so
// demo sessions share one stable record instead of minting a fresh quota
// per request.
const FallbackIdentity = "dev"

// IdentityHeader carries the caller's wallet address.
const IdentityHeader = "X-Wallet-Address"

// Identity returns middleware that resolves the request's identity key:
// the lower-cased wallet address from the identity header, or the demo
// fallback when the header is absent. A present but malformed address is
// rejected rather than silently bucketed into the fallback.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := strings.TrimSpace(r.Header.Get(IdentityHeader))

		identity := FallbackIdentity
		if addr != "" {
			if !chain.IsHexAddress(addr) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"code":"invalid","message":"X-Wallet-Address is not a well-formed address"}}`))
				return
			}
			identity = strings.ToLower(addr)
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentity returns the identity key resolved for this request, or the
// fallback when the middleware did not run.
func GetIdentity(ctx context.Context) string {
	if v, ok := ctx.Value(identityContextKey).(string); ok {
		return v
	}
	return FallbackIdentity
}
