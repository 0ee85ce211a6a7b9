package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mybakup/appointment-service/internal/api/handlers"
)

// UserIDHeader заголовок с ID пользователя, выставляемый API gateway
const UserIDHeader = "X-User-ID"

// Auth проверяет заголовок X-User-ID и кладет ID пользователя в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if raw == "" {
			handlers.RespondUnauthorized(w)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(handlers.WithUserID(r.Context(), userID)))
	})
}
