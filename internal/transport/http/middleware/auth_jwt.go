package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"roomhub/internal/core/auth"
	resp "roomhub/internal/transport/http/response"
)

// AuthJWT requires a bearer access token. With roles set the token's role must be one of them.
func AuthJWT(j *auth.JWTer, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(ah, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			resp.Abort(c, http.StatusUnauthorized, "authentication credentials were not provided")
			return
		}
		claims, err := j.Parse(strings.TrimSpace(raw), auth.AccessToken)
		if err != nil {
			_ = c.Error(err)
			resp.Abort(c, http.StatusUnauthorized, "token is invalid or expired")
			return
		}
		id, err := claims.Identity()
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "token is invalid or expired")
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, id.Role) {
			resp.Abort(c, http.StatusForbidden, "you do not have permission to perform this action")
			return
		}
		setIdentity(c, id)
		c.Next()
	}
}
