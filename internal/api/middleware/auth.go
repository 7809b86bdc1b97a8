package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Anthon002/NYSCAttendance/internal/api/handler/v1/response"
	"github.com/Anthon002/NYSCAttendance/internal/domain"
	"github.com/Anthon002/NYSCAttendance/internal/pkg/jwthelper"
)

const (
	CtxKeyUserID      = "auth.user_id"
	CtxKeyEmail       = "auth.email"
	CtxKeyPermissions = "auth.permissions"
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token and stashes the
// caller's identity and permission set in the request context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.RenderUnauthorized(ctx, "missing bearer token")

			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			response.RenderUnauthorized(ctx, "invalid or expired token")

			return
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			response.RenderUnauthorized(ctx, "invalid or expired token")

			return
		}

		ctx.Set(CtxKeyUserID, userID)
		ctx.Set(CtxKeyEmail, claims.Email)
		ctx.Set(CtxKeyPermissions, domain.Permissions(claims.Permissions))

		ctx.Next()
	}
}

// PermissionsFromContext returns the authenticated caller's permission set.
// It is empty when the authenticator did not run.
func PermissionsFromContext(ctx *gin.Context) domain.Permissions {
	v, ok := ctx.Get(CtxKeyPermissions)
	if !ok {
		return nil
	}

	perms, ok := v.(domain.Permissions)
	if !ok {
		return nil
	}

	return perms
}
