package auth

import (
	"net/http"
	"strings"

	apperrors "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/app/errors"
	apphttp "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/app/http"
)

// Middleware authenticates requests with a bearer token and puts the user ID
// on the request context. Requests without a valid token are rejected before
// reaching the handler.
func Middleware(validator *JWTValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) error {
			header := r.Header.Get("Authorization")
			if header == "" {
				return apperrors.UnAuthorizedError(nil, "missing authorization header")
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return apperrors.UnAuthorizedError(nil, "malformed authorization header")
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				return apperrors.UnAuthorizedError(err, "invalid token")
			}

			sub, ok := claims["sub"].(string)
			if !ok || sub == "" {
				return apperrors.UnAuthorizedError(nil, "token missing subject")
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), sub)))
			return nil
		}
		return apphttp.HandleError(fn)
	}
}
