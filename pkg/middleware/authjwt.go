package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wahlware/wahlhost/internal/config"
	"github.com/wahlware/wahlhost/pkg/httputil"
	"github.com/wahlware/wahlhost/pkg/types"
)

type contextKey string

const userIDKey = contextKey("uid")

const sessionCookie = "user-session"

// Authmiddleware accepts the session cookie or a bearer token and puts the
// subject claim into the request context. The uid is opaque downstream;
// services only check presence and ownership.
func Authmiddleware(cnf *config.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(sessionCookie); err == nil {
				token = cookie.Value
			} else {
				parts := strings.Split(r.Header.Get("Authorization"), "Bearer ")
				if len(parts) != 2 {
					httputil.NewError(w, r, types.NewAppErrorf(types.CodeForbidden, "missing auth token"))
					return
				}
				token = parts[1]
			}

			claims := &types.JWTClaims{}
			_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(cnf.Secret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil {
				httputil.NewError(w, r, types.NewAppErrorf(types.CodeForbidden, "invalid auth token"))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserID(ctx context.Context) string {
	uid, _ := ctx.Value(userIDKey).(string)
	return uid
}
