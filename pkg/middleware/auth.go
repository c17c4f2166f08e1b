package middleware

import (
	"net/http"

	"safarivista/pkg/auth"
	apperrors "safarivista/pkg/errors"
	httputil "safarivista/pkg/http"
	"safarivista/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// Authenticator guards individual routes with a bearer JWT.
type Authenticator struct {
	tokens auth.TokenManager
	log    *logger.Logger
}

func NewAuthenticator(tokens auth.TokenManager, log *logger.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, log: log}
}

// Require rejects requests without a valid token and stores the caller
// identity in the request context.
func (a *Authenticator) Require(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token := bearerToken(r)
		if token == "" {
			a.reject(w, r, apperrors.Unauthorized("You are not logged in"))
			return
		}

		claims, err := a.tokens.Validate(token)
		if err != nil {
			a.log.Debug("Token rejected",
				"request_id", RequestIDFromContext(r.Context()),
				"error", err,
			)
			a.reject(w, r, apperrors.Unauthorized("Invalid or expired token"))
			return
		}

		ctx := auth.WithIdentity(r.Context(), claims.Identity())
		next(w, r.WithContext(ctx), ps)
	}
}

// RequireRole is Require plus a role check.
func (a *Authenticator) RequireRole(next httprouter.Handle, roles ...string) httprouter.Handle {
	return a.Require(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		identity, _ := auth.FromContext(r.Context())
		if !identity.HasRole(roles...) {
			a.log.Warn("Role check failed",
				"request_id", RequestIDFromContext(r.Context()),
				"user_id", identity.UserID,
				"role", identity.Role,
				"path", r.URL.Path,
			)
			a.reject(w, r, apperrors.Forbidden("You do not have permission to perform this action"))
			return
		}
		next(w, r, ps)
	})
}

func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request, err *apperrors.AppError) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		a.log.Error("failed to write error response",
			"middleware", "Authenticator",
			"path", r.URL.Path,
			"error", writeErr,
		)
	}
}
