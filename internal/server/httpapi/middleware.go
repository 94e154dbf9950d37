package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// authenticate is the request gate: it extracts the bearer access token,
// verifies it, and attaches the subject id to the request context. Missing,
// malformed, invalid, and expired tokens all get the same rejection; the
// distinction is logged only.
func (s *HTTPServer) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get(common.AuthorizationHeader)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		token := strings.TrimPrefix(header, common.BearerPrefix)
		claims, err := s.tokens.Verify(token, auth.TokenKindAccess)
		if err != nil {
			s.logger.Debug(r.Context(), "access token rejected", "reason", err.Error())
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the authenticated subject id attached by the gate.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
