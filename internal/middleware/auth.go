package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"peerprep/interview/internal/utils"
)

const (
	RoleInterviewer = "interviewer"

	claimsKey contextKey = "claims_subject"
)

// RequireInterviewer admits requests carrying an HS256 bearer token whose
// role claim is "interviewer". An empty secret disables the check.
func RequireInterviewer(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := utils.VerifyToken(r, secret)
			if err != nil {
				logger.Debug("rejected interviewer request", zap.Error(err))
				utils.Error(w, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}
			if utils.RoleFromClaims(claims) != RoleInterviewer {
				utils.Error(w, http.StatusForbidden, "forbidden", "interviewer role required")
				return
			}
			sub, _ := claims["sub"].(string)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, sub)))
		})
	}
}

// SubjectFromContext returns the authenticated interviewer id, if any.
func SubjectFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(claimsKey).(string)
	return sub
}
